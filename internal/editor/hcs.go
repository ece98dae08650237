package editor

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"hdf-eco-tool/internal/fsops"
)

// DeviceInfo edits a device_info.hcs description file
type DeviceInfo struct {
	path string
	w    fsops.Writer
}

// DeleteDriver removes the "<module> :: host" node, or with a driver the
// "device_<driver> :: device" node only.
func (d *DeviceInfo) DeleteDriver(module, driver string) error {
	header := regexp.MustCompile(`^\s*` + regexp.QuoteMeta(module) + `\s*::\s*host\b`)
	if driver != "" {
		header = regexp.MustCompile(`^\s*device_` + regexp.QuoteMeta(driver) + `\s*::\s*device\b`)
	}
	return patchFile(d.w, d.path, func(lines []string) []string {
		return removeBraceBlocks(lines, header.MatchString)
	})
}

// DriverConfig edits the board level hdf_config tree of a module
type DriverConfig struct {
	hcsDir string
	w      fsops.Writer
	d      fsops.Deleter
}

// DeleteDriver removes <module>/<driver>/ and its #include line from
// <module>/<module>_config.hcs. Nothing happens when the module has no
// config directory on this board.
func (c *DriverConfig) DeleteDriver(module, driver string) error {
	moduleDir := filepath.Join(c.hcsDir, module)
	if _, err := os.Stat(moduleDir); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("stat %s: %w", moduleDir, err)
	}

	drvDir := filepath.Join(moduleDir, driver)
	if _, err := os.Stat(drvDir); err == nil {
		if err := c.d.RemoveAll(drvDir); err != nil {
			return fmt.Errorf("remove %s: %w", drvDir, err)
		}
	}

	include := regexp.MustCompile(`^\s*#include\s+"` + regexp.QuoteMeta(driver+"/"+driver+"_config.hcs") + `"\s*$`)
	moduleConfig := filepath.Join(moduleDir, module+"_config.hcs")
	return patchFile(c.w, moduleConfig, func(lines []string) []string {
		out := make([]string, 0, len(lines))
		for _, l := range lines {
			if include.MatchString(l) {
				continue
			}
			out = append(out, l)
		}
		return out
	})
}
