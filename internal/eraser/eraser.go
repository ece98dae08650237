// Package eraser deletes a vendor, a module or a driver from an HDF source
// tree. Every run builds a plan of removals and in-place edits, validates all
// targets against the tree root, and then executes the plan in order without
// rollback.
package eraser

import (
	"path/filepath"
	"strings"
	"time"

	"hdf-eco-tool/internal/database"
	"hdf-eco-tool/internal/editor"
	"hdf-eco-tool/internal/fsops"
	"hdf-eco-tool/internal/hdfpath"
	"hdf-eco-tool/internal/logging"
	"hdf-eco-tool/internal/metrics"
	"hdf-eco-tool/internal/registry"
	"hdf-eco-tool/internal/safety"
	"hdf-eco-tool/internal/toolerr"
)

// Action types
const (
	ActionVendor = "vendor"
	ActionModule = "module"
	ActionDriver = "driver"
)

// Args are the command arguments of one delete invocation
type Args struct {
	ActionType string
	RootDir    string
	VendorName string
	ModuleName string
	DriverName string
	BoardName  string
	KernelName string // accepted for parity with the create tool, unused
}

var requiredArgs = map[string][]string{
	ActionVendor: {"root_dir", "vendor_name", "board_name"},
	ActionModule: {"root_dir", "module_name"},
	ActionDriver: {"root_dir", "vendor_name", "module_name", "driver_name", "board_name"},
}

func (a Args) value(name string) string {
	switch name {
	case "root_dir":
		return a.RootDir
	case "vendor_name":
		return a.VendorName
	case "module_name":
		return a.ModuleName
	case "driver_name":
		return a.DriverName
	case "board_name":
		return a.BoardName
	}
	return ""
}

// Validate checks the arguments required by the action type and reports the
// first one missing. Names used as path components must be single segments.
func (a Args) Validate() error {
	if strings.TrimSpace(a.ActionType) == "" {
		return toolerr.New(toolerr.MessageFormatWrong, "miss action_type")
	}
	names, ok := requiredArgs[a.ActionType]
	if !ok {
		return toolerr.New(toolerr.InterfaceNotExist, "unknown action_type %q, want vendor, module or driver", a.ActionType)
	}
	for _, name := range names {
		v := a.value(name)
		if strings.TrimSpace(v) == "" {
			return toolerr.New(toolerr.MessageFormatWrong, "miss %s for %s deletion", name, a.ActionType)
		}
		if name != "root_dir" && !isSegment(v) {
			return toolerr.New(toolerr.MessageFormatWrong, "%s %q must be a single path segment", name, v)
		}
	}
	return nil
}

func isSegment(name string) bool {
	return name != "." && name != ".." && !strings.ContainsAny(name, `/\`)
}

// Logger is the leveled logger the handler reports progress to
type Logger interface {
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}

// Recorder stores audit events
type Recorder interface {
	Record(e database.Event) error
}

// Editors builds the file editors applied during deletion; *editor.Kit
// is the implementation backed by the real file formats.
type Editors interface {
	VendorMakefile(path string) editor.ModuleEditor
	VendorKconfig(path string) editor.ModuleEditor
	VendorBuild(path string) editor.ModuleEditor
	VendorMk(path string) editor.ModuleEditor
	DotConfig(path string) editor.LineEditor
	DeviceInfo(path string) editor.DriverEditor
	ModuleKconfig(path string) editor.DriverEditor
	ModuleMakefile(path string) editor.DriverEditor
	DriverConfig(hcsDir string) editor.DriverEditor
}

// Options configure a Handler. Zero values select the real filesystem,
// the default layout and no audit recording.
type Options struct {
	Layout         hdfpath.Layout
	Logger         Logger
	Deleter        fsops.Deleter
	Writer         fsops.Writer
	Editors        Editors
	Recorder       Recorder
	ProtectedPaths []string // absolute paths never deleted, in addition to the framework tools
	DryRun         bool
}

// Handler dispatches delete invocations
type Handler struct {
	layout    hdfpath.Layout
	logger    Logger
	deleter   fsops.Deleter
	writer    fsops.Writer
	editors   Editors
	recorder  Recorder
	protected []string
	dryRun    bool
}

func New(opts Options) *Handler {
	metrics.Init()

	h := &Handler{
		layout:    opts.Layout.WithDefaults(),
		logger:    opts.Logger,
		deleter:   opts.Deleter,
		writer:    opts.Writer,
		editors:   opts.Editors,
		recorder:  opts.Recorder,
		protected: opts.ProtectedPaths,
		dryRun:    opts.DryRun,
	}
	if h.logger == nil {
		h.logger = logging.Discard()
	}
	if h.deleter == nil {
		h.deleter = fsops.OSDeleter{}
	}
	if h.writer == nil {
		h.writer = fsops.OSWriter{}
	}
	if h.editors == nil {
		h.editors = editor.NewKit(h.writer, h.deleter)
	}
	return h
}

// Run validates args and performs the deletion named by args.ActionType.
// The registry is returned after a module deletion and is nil otherwise.
func (h *Handler) Run(args Args) (*registry.Registry, error) {
	if err := args.Validate(); err != nil {
		return nil, err
	}
	r, err := h.newRun(args)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	var reg *registry.Registry
	switch args.ActionType {
	case ActionVendor:
		err = r.deleteVendor()
	case ActionModule:
		reg, err = r.deleteModule()
	case ActionDriver:
		err = r.deleteDriver()
	}
	metrics.RecordRun(args.ActionType, time.Since(start))

	if err != nil {
		h.logger.Error("Delete failed", "action_type", args.ActionType, "code", toolerr.CodeOf(err), "error", err)
		return nil, err
	}
	h.logger.Info("Delete finished", "action_type", args.ActionType, "dry_run", h.dryRun, "took", time.Since(start).Round(time.Millisecond))
	return reg, nil
}

// DeleteVendor removes every registered module of the vendor and then the
// vendor HDF tree
func (h *Handler) DeleteVendor(args Args) error {
	args.ActionType = ActionVendor
	_, err := h.Run(args)
	return err
}

// DeleteModule removes a registered module and returns the updated registry
func (h *Handler) DeleteModule(args Args) (*registry.Registry, error) {
	args.ActionType = ActionModule
	return h.Run(args)
}

// DeleteDriver removes one driver of a module
func (h *Handler) DeleteDriver(args Args) error {
	args.ActionType = ActionDriver
	_, err := h.Run(args)
	return err
}

// run is the state of one invocation
type run struct {
	*Handler
	args      Args
	root      string
	validator *safety.Validator
}

func (h *Handler) newRun(args Args) (*run, error) {
	root, err := filepath.Abs(args.RootDir)
	if err != nil {
		return nil, toolerr.Wrap(toolerr.MessageFormatWrong, err, "root_dir %q", args.RootDir)
	}
	framework := h.layout.FrameworkDir(root)

	protected := append([]string{filepath.Join(framework, "tools")}, h.protected...)
	v := safety.NewValidator(root, protected)
	v.Pin(framework)

	return &run{Handler: h, args: args, root: root, validator: v}, nil
}

// raw joins a registry-relative path onto the root without cleaning it, so
// the validator still sees ".." segments.
func (r *run) raw(rel string) string {
	return r.root + string(filepath.Separator) + filepath.FromSlash(rel)
}
