package eraser

import (
	"fmt"
	"os"
	"path/filepath"

	"hdf-eco-tool/internal/registry"
)

// deleteVendor removes every registered module found under the vendor HDF
// dir and then the dir itself. A missing vendor dir is not an error. Any
// failure before the final removal leaves the vendor dir in place.
func (r *run) deleteVendor() error {
	vendorDir := r.layout.VendorHdfDir(r.root, r.args.VendorName)
	ok, err := isDir(vendorDir)
	if err != nil {
		return err
	}
	if !ok {
		r.logger.Info("Vendor HDF directory not found, nothing to delete", "path", vendorDir)
		return nil
	}

	entries, err := os.ReadDir(vendorDir)
	if err != nil {
		return fmt.Errorf("read vendor dir %s: %w", vendorDir, err)
	}

	var reg *registry.Registry
	var ops []op
	for _, e := range entries {
		module := e.Name()
		// symlinked module dirs count, like real ones
		dir, err := isDir(filepath.Join(vendorDir, module))
		if err != nil {
			return err
		}
		if !dir {
			continue
		}
		if reg == nil {
			if reg, err = r.loadRegistry(); err != nil {
				return err
			}
		}
		if !reg.Has(module) {
			r.logger.Warn("Module not registered, removing with the vendor tree", "module", module)
			continue
		}
		mops, err := r.planModule(reg, module)
		if err != nil {
			return err
		}
		ops = append(ops, mops...)
	}
	ops = append(ops, r.removeAllOp("directory", vendorDir, vendorDir))

	if err := r.validate(ops); err != nil {
		return err
	}
	return r.execute(ops)
}
