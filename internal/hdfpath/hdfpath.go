// Package hdfpath holds the fixed path-construction rules of an HDF source
// tree: where the framework, the vendor/module/driver hierarchy and the board
// configuration live relative to the tree root.
package hdfpath

import (
	"path/filepath"
	"strings"
)

const (
	// ToolName is the directory of the eco tool inside the framework tools dir
	ToolName = "hdf_dev_eco_tool"
	// RegistryFile stores module metadata written by the create tool
	RegistryFile = "create_model.config"
)

// Layout holds root-relative path templates. {vendor} and {board} are
// substituted at resolve time.
type Layout struct {
	Framework string `yaml:"framework_dir" json:"framework_dir"`
	VendorHdf string `yaml:"vendor_hdf_dir" json:"vendor_hdf_dir"`
	BoardHcs  string `yaml:"board_hcs_dir" json:"board_hcs_dir"`
}

// DefaultLayout returns the layout used by OpenHarmony style trees
func DefaultLayout() Layout {
	return Layout{
		Framework: "drivers/framework",
		VendorHdf: "vendor/{vendor}/hdf",
		BoardHcs:  "vendor/{vendor}/{board}/hdf_config",
	}
}

// WithDefaults fills empty templates from DefaultLayout
func (l Layout) WithDefaults() Layout {
	def := DefaultLayout()
	if l.Framework == "" {
		l.Framework = def.Framework
	}
	if l.VendorHdf == "" {
		l.VendorHdf = def.VendorHdf
	}
	if l.BoardHcs == "" {
		l.BoardHcs = def.BoardHcs
	}
	return l
}

func expand(root, tmpl, vendor, board string) string {
	r := strings.NewReplacer("{vendor}", vendor, "{board}", board)
	return filepath.Join(root, filepath.FromSlash(r.Replace(tmpl)))
}

// FrameworkDir is the HDF framework adapter directory
func (l Layout) FrameworkDir(root string) string {
	return expand(root, l.Framework, "", "")
}

// RegistryPath is the create_model.config location under the framework dir
func (l Layout) RegistryPath(root string) string {
	return filepath.Join(l.FrameworkDir(root), "tools", ToolName, "resources", RegistryFile)
}

func (l Layout) VendorHdfDir(root, vendor string) string {
	return expand(root, l.VendorHdf, vendor, "")
}

func (l Layout) ModuleDir(root, vendor, module string) string {
	return filepath.Join(l.VendorHdfDir(root, vendor), module)
}

func (l Layout) ModuleKconfigPath(root, vendor, module string) string {
	return filepath.Join(l.ModuleDir(root, vendor, module), "Kconfig")
}

func (l Layout) ModuleMakefilePath(root, vendor, module string) string {
	return filepath.Join(l.ModuleDir(root, vendor, module), "Makefile")
}

// DriverDir is the source directory of one driver under its module
func (l Layout) DriverDir(root, vendor, module, driver string) string {
	return filepath.Join(l.ModuleDir(root, vendor, module), "driver", driver)
}

// BoardHcsDir is the board's hdf_config directory holding per-module driver configs
func (l Layout) BoardHcsDir(root, vendor, board string) string {
	return expand(root, l.BoardHcs, vendor, board)
}

// ModuleTreeDir resolves a registry driver_file_path to the module's driver
// tree: everything before the first occurrence of the module name, plus the
// module name itself. A path not containing the module name is used whole.
func ModuleTreeDir(root, driverFilePath, module string) string {
	prefix, _, _ := strings.Cut(driverFilePath, module)
	return filepath.Join(root, filepath.FromSlash(prefix), module)
}

// Resolve joins a registry-relative path onto root
func Resolve(root, rel string) string {
	return filepath.Join(root, filepath.FromSlash(rel))
}
