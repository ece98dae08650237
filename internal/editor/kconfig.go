package editor

import (
	"regexp"
	"strings"

	"hdf-eco-tool/internal/fsops"
)

var sourceLine = regexp.MustCompile(`^\s*(?:source|rsource|osource|orsource)\s+"?([^"\s]+)"?\s*$`)

// VendorKconfig edits the vendor level Kconfig that sources module Kconfigs
type VendorKconfig struct {
	path string
	w    fsops.Writer
}

// DeleteModule removes source lines pulling in <module>/Kconfig
func (k *VendorKconfig) DeleteModule(module string) error {
	return patchFile(k.w, k.path, func(lines []string) []string {
		out := make([]string, 0, len(lines))
		for _, l := range lines {
			if m := sourceLine.FindStringSubmatch(l); m != nil && sourcesModule(m[1], module) {
				continue
			}
			out = append(out, l)
		}
		return out
	})
}

func sourcesModule(path, module string) bool {
	target := module + "/Kconfig"
	return path == target || strings.HasSuffix(path, "/"+target)
}

// ModuleKconfig edits the Kconfig inside a module directory
type ModuleKconfig struct {
	path string
	w    fsops.Writer
}

// DeleteDriver removes the config entry of the driver symbol: the config
// line and every following line indented deeper than it.
func (k *ModuleKconfig) DeleteDriver(module, driver string) error {
	entry := regexp.MustCompile(`^\s*(?:menu)?config\s+` + regexp.QuoteMeta(DriverSymbol(module, driver)) + `\s*$`)
	return patchFile(k.w, k.path, func(lines []string) []string {
		out := make([]string, 0, len(lines))
		for i := 0; i < len(lines); i++ {
			if !entry.MatchString(lines[i]) {
				out = append(out, lines[i])
				continue
			}
			i = kconfigEntryEnd(lines, i)
		}
		return out
	})
}

// kconfigEntryEnd returns the last line of the entry starting at start.
// Trailing blank lines stay with whatever follows.
func kconfigEntryEnd(lines []string, start int) int {
	base := indentOf(lines[start])
	last := start
	for j := start + 1; j < len(lines); j++ {
		if trimmed(lines[j]) == "" {
			continue
		}
		if indentOf(lines[j]) <= base {
			break
		}
		last = j
	}
	return last
}
