package eraser

import "path/filepath"

// deleteDriver removes the driver sources, then runs the module Kconfig,
// module Makefile and board driver config editors in that order.
func (r *run) deleteDriver() error {
	vendor, module, driver := r.args.VendorName, r.args.ModuleName, r.args.DriverName

	drvDir := r.layout.DriverDir(r.root, vendor, module, driver)
	kconfig := r.layout.ModuleKconfigPath(r.root, vendor, module)
	makefile := r.layout.ModuleMakefilePath(r.root, vendor, module)
	hcsDir := r.layout.BoardHcsDir(r.root, vendor, r.args.BoardName)
	moduleHcs := filepath.Join(hcsDir, module)

	driverConfig := r.editOp("driver_config", moduleHcs, moduleHcs, func() error {
		return r.editors.DriverConfig(hcsDir).DeleteDriver(module, driver)
	})
	driverConfig.removes = []string{filepath.Join(moduleHcs, driver)}

	ops := []op{
		r.removeAllOp("directory", drvDir, drvDir),
		r.editOp("module_kconfig", kconfig, kconfig, func() error {
			return r.editors.ModuleKconfig(kconfig).DeleteDriver(module, driver)
		}),
		r.editOp("module_makefile", makefile, makefile, func() error {
			return r.editors.ModuleMakefile(makefile).DeleteDriver(module, driver)
		}),
		driverConfig,
	}
	for i := range ops {
		ops[i].module = module
		ops[i].driver = driver
	}

	if err := r.validate(ops); err != nil {
		return err
	}
	return r.execute(ops)
}
