package eraser

import (
	"errors"
	"fmt"
	"os"

	"hdf-eco-tool/internal/database"
	"hdf-eco-tool/internal/disk"
	"hdf-eco-tool/internal/metrics"
)

// op is one planned removal or edit
type op struct {
	action  string // database.ActionDelete or database.ActionEdit
	kind    string
	path    string
	raw     string   // path as built, before cleaning
	removes []string // further paths apply may delete
	module  string
	driver  string
	size    int64 // bytes held by a delete target, measured before removal

	// present reports whether there is anything to do. A delete whose target
	// is absent is skipped; an edit always runs, its editor is a no-op then.
	present func() bool
	apply   func() error
}

func (r *run) validate(ops []op) error {
	for _, o := range ops {
		check := r.validator.ValidateEditTarget
		if o.action == database.ActionDelete {
			check = r.validator.ValidateDeleteTarget
		}
		err := check(o.raw)
		for _, p := range o.removes {
			if err != nil {
				break
			}
			err = r.validator.ValidateDeleteTarget(p)
		}
		if err != nil {
			r.record(o, database.ActionError, err)
			r.logger.Error("Safety check failed", "path", o.path, "kind", o.kind, "error", err)
			return err
		}
	}
	return nil
}

// execute applies ops in order and stops at the first failure. Completed
// operations are not undone.
func (r *run) execute(ops []op) error {
	for _, o := range ops {
		present := o.present == nil || o.present()
		if present && o.action == database.ActionDelete {
			o.size = r.measure(o.path)
		}

		if r.dryRun {
			if !present {
				r.skip(o)
				continue
			}
			r.logger.Info("Would "+verb(o.action), "kind", o.kind, "path", o.path, "bytes", o.size)
			r.record(o, database.ActionDryRun, nil)
			continue
		}

		if !present && o.action == database.ActionDelete {
			r.skip(o)
			continue
		}

		if err := o.apply(); err != nil {
			metrics.RecordError()
			r.record(o, database.ActionError, err)
			return fmt.Errorf("%s %s %s: %w", verb(o.action), o.kind, o.path, err)
		}

		switch {
		case !present:
			r.skip(o)
		case o.action == database.ActionDelete:
			metrics.RecordRemoved(o.kind, o.size)
			r.logger.Info("Removed", "kind", o.kind, "path", o.path, "bytes", o.size)
			r.record(o, o.action, nil)
		default:
			metrics.RecordEdited(o.kind)
			r.logger.Info("Edited", "kind", o.kind, "path", o.path)
			r.record(o, o.action, nil)
		}
	}
	return nil
}

func (r *run) skip(o op) {
	metrics.RecordSkipped(o.kind)
	r.logger.Info("Not present, skipping", "kind", o.kind, "path", o.path)
	r.record(o, database.ActionSkip, nil)
}

func (r *run) record(o op, action string, err error) {
	if r.recorder == nil {
		return
	}
	e := database.Event{
		Action:     action,
		ActionType: r.args.ActionType,
		Vendor:     r.args.VendorName,
		Module:     o.module,
		Driver:     o.driver,
		Path:       o.path,
		ObjectType: o.kind,
		Size:       o.size,
	}
	if err != nil {
		e.ErrorMessage = err.Error()
	}
	if rerr := r.recorder.Record(e); rerr != nil {
		r.logger.Warn("Failed to record history", "path", o.path, "error", rerr)
	}
}

// measure returns the bytes held by path; a failed walk only costs the figure
func (r *run) measure(path string) int64 {
	stats, err := disk.ScanPath(path)
	if err != nil {
		r.logger.Warn("Failed to measure path", "path", path, "error", err)
		return 0
	}
	return stats.UsedBytes
}

func verb(action string) string {
	if action == database.ActionDelete {
		return "remove"
	}
	return "edit"
}

// removeAllOp removes path recursively when it exists
func (r *run) removeAllOp(kind, path, raw string) op {
	return op{
		action:  database.ActionDelete,
		kind:    kind,
		path:    path,
		raw:     raw,
		present: func() bool { return exists(path) },
		apply:   func() error { return r.deleter.RemoveAll(path) },
	}
}

// editOp runs fn against the file at path
func (r *run) editOp(kind, path, raw string, fn func() error) op {
	return op{
		action:  database.ActionEdit,
		kind:    kind,
		path:    path,
		raw:     raw,
		present: func() bool { return exists(path) },
		apply:   fn,
	}
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// emptyDir reports whether dir exists and holds nothing but an entry named
// ignore. An empty ignore matches no entry.
func emptyDir(dir, ignore string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, e := range entries {
		if e.Name() != ignore {
			return false
		}
	}
	return true
}

func isDir(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return info.IsDir(), nil
}
