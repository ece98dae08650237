package registry

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"hdf-eco-tool/internal/toolerr"
)

// Registry keys with a fixed meaning
const (
	KeyDriverFilePath        = "driver_file_path"
	KeyModuleLevelConfigPath = "module_level_config_path"
	KeyModulePath            = "module_path"
)

// ConfigKind identifies a module level config file recorded by the create tool
type ConfigKind int

const (
	KindMakefile   ConfigKind = iota // vendor Makefile, key "<module>_Makefile"
	KindKconfig                      // vendor Kconfig, key "<module>_Kconfig"
	KindBuild                        // vendor BUILD.gn, key "<module>Build"
	KindHdfLite                      // hdf_lite.mk, key "<module>_hdf_lite"
	KindDotConfigs                   // board .config/defconfig files, key "<module>_dot_configs"
)

var kindSuffixes = []struct {
	kind   ConfigKind
	suffix string
}{
	{KindMakefile, "_Makefile"},
	{KindKconfig, "_Kconfig"},
	{KindBuild, "Build"},
	{KindHdfLite, "_hdf_lite"},
	{KindDotConfigs, "_dot_configs"},
}

func (k ConfigKind) String() string {
	switch k {
	case KindMakefile:
		return "makefile"
	case KindKconfig:
		return "kconfig"
	case KindBuild:
		return "build_gn"
	case KindHdfLite:
		return "hdf_lite_mk"
	case KindDotConfigs:
		return "dot_config"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Key returns the synthetic registry key of kind for module
func (k ConfigKind) Key(module string) string {
	for _, ks := range kindSuffixes {
		if ks.kind == k {
			return module + ks.suffix
		}
	}
	return ""
}

// Step is one registry entry that causes work during module deletion.
// The set of implementations is closed: DriverFilePath, ModuleLevelConfig, ModulePaths.
type Step interface {
	step()
}

// DriverFilePath locates the module's driver source tree
type DriverFilePath struct {
	Path string
}

// ModuleLevelConfig lists vendor level build/config files to edit
type ModuleLevelConfig struct {
	Files []ConfigFile
}

// ConfigFile is one module level config entry. Only KindDotConfigs carries
// more than one path.
type ConfigFile struct {
	Kind  ConfigKind
	Paths []string
}

// ModulePaths lists files created for the module
type ModulePaths struct {
	Entries []PathEntry
}

type PathEntry struct {
	Key  string
	Path string
}

func (DriverFilePath) step()    {}
func (ModuleLevelConfig) step() {}
func (ModulePaths) step()       {}

// ModuleInfo is the decoded registry entry of one module. Steps keep the
// order in which they appear in the file.
type ModuleInfo struct {
	Module string
	Names  map[string]string
	Steps  []Step
}

// IsNameKey reports whether key is metadata (last "_" segment is "name")
func IsNameKey(key string) bool {
	parts := strings.Split(key, "_")
	return parts[len(parts)-1] == "name"
}

// DecodeModuleInfo decodes the registry entry of module. Unknown keys are
// rejected so nothing is silently skipped during deletion.
func DecodeModuleInfo(module string, raw json.RawMessage) (*ModuleInfo, error) {
	fields, err := decodeOrdered(raw)
	if err != nil {
		return nil, formatErr(err, "module %q entry", module)
	}

	info := &ModuleInfo{Module: module, Names: make(map[string]string)}
	for _, f := range fields {
		switch {
		case IsNameKey(f.key):
			info.Names[f.key] = nameValue(f.value)
		case f.key == KeyDriverFilePath:
			var p string
			if err := json.Unmarshal(f.value, &p); err != nil {
				return nil, formatErr(err, "module %q: %s", module, f.key)
			}
			info.Steps = append(info.Steps, DriverFilePath{Path: p})
		case f.key == KeyModuleLevelConfigPath:
			step, err := decodeLevelConfig(module, f.value)
			if err != nil {
				return nil, err
			}
			info.Steps = append(info.Steps, step)
		case f.key == KeyModulePath:
			step, err := decodeModulePaths(module, f.value)
			if err != nil {
				return nil, err
			}
			info.Steps = append(info.Steps, step)
		default:
			return nil, toolerr.New(toolerr.FileFormatWrong, "module %q: unknown registry key %q", module, f.key)
		}
	}
	return info, nil
}

func decodeLevelConfig(module string, raw json.RawMessage) (ModuleLevelConfig, error) {
	fields, err := decodeOrdered(raw)
	if err != nil {
		return ModuleLevelConfig{}, formatErr(err, "module %q: %s", module, KeyModuleLevelConfigPath)
	}

	var cfg ModuleLevelConfig
	for _, f := range fields {
		kind, ok := kindForKey(module, f.key)
		if !ok {
			return ModuleLevelConfig{}, toolerr.New(toolerr.FileFormatWrong,
				"module %q: unknown %s key %q", module, KeyModuleLevelConfigPath, f.key)
		}
		paths, err := decodePaths(kind, f.value)
		if err != nil {
			return ModuleLevelConfig{}, formatErr(err, "module %q: %s", module, f.key)
		}
		cfg.Files = append(cfg.Files, ConfigFile{Kind: kind, Paths: paths})
	}
	return cfg, nil
}

func decodeModulePaths(module string, raw json.RawMessage) (ModulePaths, error) {
	fields, err := decodeOrdered(raw)
	if err != nil {
		return ModulePaths{}, formatErr(err, "module %q: %s", module, KeyModulePath)
	}

	var mp ModulePaths
	for _, f := range fields {
		var p string
		if err := json.Unmarshal(f.value, &p); err != nil {
			return ModulePaths{}, formatErr(err, "module %q: %s.%s", module, KeyModulePath, f.key)
		}
		mp.Entries = append(mp.Entries, PathEntry{Key: f.key, Path: p})
	}
	return mp, nil
}

func kindForKey(module, key string) (ConfigKind, bool) {
	for _, ks := range kindSuffixes {
		if key == module+ks.suffix {
			return ks.kind, true
		}
	}
	return 0, false
}

// decodePaths accepts a string for every kind and, for dot configs, a list
func decodePaths(kind ConfigKind, raw json.RawMessage) ([]string, error) {
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return []string{single}, nil
	}
	if kind != KindDotConfigs {
		return nil, errors.New("expected a path string")
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("expected a list of paths: %w", err)
	}
	return list, nil
}

func nameValue(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

type field struct {
	key   string
	value json.RawMessage
}

// decodeOrdered splits a JSON object into its members in document order
func decodeOrdered(raw json.RawMessage) ([]field, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, errors.New("expected a JSON object")
	}

	var fields []field
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("expected object key, got %v", tok)
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, err
		}
		fields = append(fields, field{key: key, value: value})
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return fields, nil
}

func formatErr(err error, format string, args ...interface{}) error {
	return toolerr.Wrap(toolerr.FileFormatWrong, err, format, args...)
}
