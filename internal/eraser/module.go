package eraser

import (
	"path/filepath"
	"strings"

	"hdf-eco-tool/internal/database"
	"hdf-eco-tool/internal/editor"
	"hdf-eco-tool/internal/hdfpath"
	"hdf-eco-tool/internal/registry"
	"hdf-eco-tool/internal/toolerr"
)

func (r *run) deleteModule() (*registry.Registry, error) {
	reg, err := r.loadRegistry()
	if err != nil {
		return nil, err
	}
	ops, err := r.planModule(reg, r.args.ModuleName)
	if err != nil {
		return nil, err
	}
	if err := r.validate(ops); err != nil {
		return nil, err
	}
	if err := r.execute(ops); err != nil {
		return nil, err
	}
	return reg, nil
}

// loadRegistry reads create_model.config from the framework dir
func (r *run) loadRegistry() (*registry.Registry, error) {
	framework := r.layout.FrameworkDir(r.root)
	ok, err := isDir(framework)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, toolerr.New(toolerr.TargetNotExist, "adapter model path %q not exist", framework)
	}
	return registry.Load(r.layout.RegistryPath(r.root))
}

// planModule lists the work for deleting module in registry order, ending
// with the removal of its registry entry.
func (r *run) planModule(reg *registry.Registry, module string) ([]op, error) {
	info, err := reg.Module(module)
	if err != nil {
		return nil, err
	}

	var ops []op
	for _, s := range info.Steps {
		switch s := s.(type) {
		case registry.DriverFilePath:
			prefix, _, _ := strings.Cut(s.Path, module)
			dir := hdfpath.ModuleTreeDir(r.root, s.Path, module)
			ops = append(ops, r.removeAllOp("directory", dir, r.raw(prefix+"/"+module)))
		case registry.ModuleLevelConfig:
			for _, f := range s.Files {
				for _, p := range f.Paths {
					if p == "" {
						continue
					}
					ops = append(ops, r.levelConfigOp(module, f.Kind, p))
				}
			}
		case registry.ModulePaths:
			for _, e := range s.Entries {
				if e.Path == "" {
					continue
				}
				ops = append(ops, r.modulePathOps(module, e.Path)...)
			}
		default:
			return nil, toolerr.New(toolerr.FileFormatWrong, "module %q: unsupported registry step %T", module, s)
		}
	}
	ops = append(ops, r.registryOp(reg, module))

	for i := range ops {
		ops[i].module = module
	}
	return ops, nil
}

// levelConfigOp edits one module level config file with the editor of its kind
func (r *run) levelConfigOp(module string, kind registry.ConfigKind, rel string) op {
	path := hdfpath.Resolve(r.root, rel)
	var fn func() error
	switch kind {
	case registry.KindMakefile:
		fn = func() error { return r.editors.VendorMakefile(path).DeleteModule(module) }
	case registry.KindKconfig:
		fn = func() error { return r.editors.VendorKconfig(path).DeleteModule(module) }
	case registry.KindBuild:
		fn = func() error { return r.editors.VendorBuild(path).DeleteModule(module) }
	case registry.KindHdfLite:
		fn = func() error { return r.editors.VendorMk(path).DeleteModule(module) }
	case registry.KindDotConfigs:
		line := editor.DotConfigLine(module, rel)
		fn = func() error { return r.editors.DotConfig(path).DeleteLine(line) }
	default:
		fn = func() error {
			return toolerr.New(toolerr.FileFormatWrong, "module %q: no editor for %s", module, kind)
		}
	}
	return r.editOp(kind.String(), path, r.raw(rel), fn)
}

// modulePathOps handles one module_path entry: a device info file is edited,
// anything else is removed together with its parent once that is empty.
func (r *run) modulePathOps(module, rel string) []op {
	path := hdfpath.Resolve(r.root, rel)
	if strings.HasSuffix(rel, "hcs") {
		return []op{r.editOp("device_info", path, r.raw(rel), func() error {
			return r.editors.DeviceInfo(path).DeleteDriver(module, "")
		})}
	}

	file := op{
		action:  database.ActionDelete,
		kind:    "file",
		path:    path,
		raw:     r.raw(rel),
		present: func() bool { return exists(path) },
		apply:   func() error { return r.deleter.Remove(path) },
	}

	parent := filepath.Dir(path)
	base := filepath.Base(path)
	prune := op{
		action: database.ActionDelete,
		kind:   "empty_directory",
		path:   parent,
		raw:    filepath.Dir(r.raw(rel)),
		present: func() bool {
			if r.dryRun {
				// the file is still there during a dry run
				return emptyDir(parent, base)
			}
			return emptyDir(parent, "")
		},
		apply: func() error { return r.deleter.Remove(parent) },
	}
	// the root and pinned dirs are never pruned; the file itself still goes
	if err := r.validator.ValidateDeleteTarget(prune.raw); err != nil {
		r.logger.Info("Parent directory kept", "path", parent, "reason", err)
		return []op{file}
	}
	return []op{file, prune}
}

// registryOp drops module from the registry and rewrites the file
func (r *run) registryOp(reg *registry.Registry, module string) op {
	return op{
		action: database.ActionEdit,
		kind:   "registry",
		path:   reg.Path(),
		raw:    reg.Path(),
		apply: func() error {
			reg.Remove(module)
			return reg.Save(r.writer)
		},
	}
}
