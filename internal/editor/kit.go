package editor

import "hdf-eco-tool/internal/fsops"

// ModuleEditor removes a module's footprint from one file
type ModuleEditor interface {
	DeleteModule(module string) error
}

// DriverEditor removes a driver's footprint from one file. An empty driver
// means the module as a whole where the format supports it.
type DriverEditor interface {
	DeleteDriver(module, driver string) error
}

// LineEditor removes an exact configuration line from one file
type LineEditor interface {
	DeleteLine(line string) error
}

// Kit constructs editors bound to a path, sharing one Writer and Deleter
type Kit struct {
	w fsops.Writer
	d fsops.Deleter
}

// NewKit creates a Kit writing and deleting through w and d
func NewKit(w fsops.Writer, d fsops.Deleter) *Kit {
	return &Kit{w: w, d: d}
}

func (k *Kit) VendorMakefile(path string) ModuleEditor {
	return &VendorMakefile{path: path, w: k.w}
}

func (k *Kit) VendorKconfig(path string) ModuleEditor {
	return &VendorKconfig{path: path, w: k.w}
}

func (k *Kit) VendorBuild(path string) ModuleEditor {
	return &VendorBuild{path: path, w: k.w}
}

func (k *Kit) VendorMk(path string) ModuleEditor {
	return &VendorMk{path: path, w: k.w}
}

func (k *Kit) DotConfig(path string) LineEditor {
	return &DefconfigPatch{path: path, w: k.w}
}

func (k *Kit) DeviceInfo(path string) DriverEditor {
	return &DeviceInfo{path: path, w: k.w}
}

func (k *Kit) ModuleKconfig(path string) DriverEditor {
	return &ModuleKconfig{path: path, w: k.w}
}

func (k *Kit) ModuleMakefile(path string) DriverEditor {
	return &ModuleMakefile{path: path, w: k.w}
}

// DriverConfig edits the board hdf_config tree rooted at hcsDir
func (k *Kit) DriverConfig(hcsDir string) DriverEditor {
	return &DriverConfig{hcsDir: hcsDir, w: k.w, d: k.d}
}
