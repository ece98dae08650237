// Package registry reads and rewrites create_model.config, the JSON file in
// which the create tool records every path it touched for each module.
package registry

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"

	"hdf-eco-tool/internal/filelock"
	"hdf-eco-tool/internal/fsops"
	"hdf-eco-tool/internal/toolerr"
)

// Registry maps module names to their recorded metadata. Entries are kept as
// raw JSON so modules other than the one being deleted are written back as read.
type Registry struct {
	path    string
	entries map[string]json.RawMessage
}

// Load reads and parses the registry file at path
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, toolerr.New(toolerr.TargetNotExist, "create file config %q not exist", path)
		}
		return nil, fmt.Errorf("read registry: %w", err)
	}
	return Parse(path, data)
}

// Parse builds a Registry from raw file content; path is where Save writes
func Parse(path string, data []byte) (*Registry, error) {
	entries := make(map[string]json.RawMessage)
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, toolerr.Wrap(toolerr.FileFormatWrong, err, "parse registry %s", path)
	}
	if entries == nil {
		// literal "null"
		entries = make(map[string]json.RawMessage)
	}
	return &Registry{path: path, entries: entries}, nil
}

// Path returns the file the registry was loaded from
func (r *Registry) Path() string {
	return r.path
}

// Has reports whether module has an entry
func (r *Registry) Has(module string) bool {
	_, ok := r.entries[module]
	return ok
}

// Modules returns the registered module names in sorted order
func (r *Registry) Modules() []string {
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered modules
func (r *Registry) Len() int {
	return len(r.entries)
}

// Module decodes the entry for module
func (r *Registry) Module(module string) (*ModuleInfo, error) {
	raw, ok := r.entries[module]
	if !ok || isNull(raw) {
		return nil, toolerr.New(toolerr.TargetNotExist, "delete model %q not exist", module)
	}
	return DecodeModuleInfo(module, raw)
}

// Remove drops module from the registry, reporting whether it was present
func (r *Registry) Remove(module string) bool {
	if _, ok := r.entries[module]; !ok {
		return false
	}
	delete(r.entries, module)
	return true
}

// Raw returns the stored JSON of module
func (r *Registry) Raw(module string) (json.RawMessage, bool) {
	raw, ok := r.entries[module]
	return raw, ok
}

// Marshal renders the registry as 4-space indented JSON
func (r *Registry) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(r.entries, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("encode registry: %w", err)
	}
	return data, nil
}

// Save rewrites the registry file while holding its lock
func (r *Registry) Save(w fsops.Writer) error {
	data, err := r.Marshal()
	if err != nil {
		return err
	}
	return filelock.WithLock(r.path, func() error {
		if err := w.WriteFile(r.path, data); err != nil {
			return fmt.Errorf("write registry %s: %w", r.path, err)
		}
		return nil
	})
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
