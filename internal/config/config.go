package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"hdf-eco-tool/internal/hdfpath"
)

// DefaultDir holds the tool's config, history database and logs
const DefaultDir = "~/.hdf-tool"

type SafetyCfg struct {
	ProtectedPaths []string `yaml:"protected_paths" json:"protected_paths"` // Root-relative or absolute paths never deleted
}

type HistoryCfg struct {
	Enabled      *bool  `yaml:"enabled" json:"enabled"`             // Record every operation (default: true)
	DatabasePath string `yaml:"database_path" json:"database_path"` // Path to SQLite database for deletion history
}

type LoggingCfg struct {
	Dir          string `yaml:"dir" json:"dir"`
	RotationDays int    `yaml:"rotation_days" json:"rotation_days"` // Days to keep logs before rotation
}

type MetricsCfg struct {
	TextfilePath string `yaml:"textfile_path" json:"textfile_path"` // node_exporter textfile; empty disables export
}

type Config struct {
	Layout  hdfpath.Layout `yaml:"layout" json:"layout"`
	Safety  SafetyCfg      `yaml:"safety" json:"safety"`
	History HistoryCfg     `yaml:"history" json:"history"`
	Logging LoggingCfg     `yaml:"logging" json:"logging"`
	Metrics MetricsCfg     `yaml:"metrics" json:"metrics"`
}

var (
	errInvalidPath     = errors.New("path must not be empty")
	errNegativeDays    = errors.New("rotation_days cannot be negative")
	errAbsoluteLayout  = errors.New("layout templates must be relative to root_dir")
	errEscapingLayout  = errors.New("layout templates must stay inside root_dir")
	errUnknownTemplate = errors.New("layout templates only support {vendor} and {board}")
)

// DefaultPath is the config file consulted when --config is not given
func DefaultPath() string {
	return expandHome(filepath.Join(DefaultDir, "config.yaml"))
}

// Default returns a configuration with every field defaulted
func Default() *Config {
	cfg := &Config{}
	_ = cfg.validateAndDefault()
	return cfg
}

func Load(path string) (*Config, error) {
	f, err := os.Open(expandHome(path))
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	cfg, err := decode(f)
	if err != nil {
		return nil, err
	}
	if err := cfg.validateAndDefault(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault loads path, falling back to Default when the file does not exist
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

func decode(r io.Reader) (*Config, error) {
	cfg := &Config{}
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			// empty file
			return cfg, nil
		}
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	return cfg, nil
}

func (c *Config) validateAndDefault() error {
	c.Layout = c.Layout.WithDefaults()
	for _, tmpl := range []string{c.Layout.Framework, c.Layout.VendorHdf, c.Layout.BoardHcs} {
		if err := checkTemplate(tmpl); err != nil {
			return fmt.Errorf("layout %q: %w", tmpl, err)
		}
	}

	if c.History.Enabled == nil {
		enabled := true
		c.History.Enabled = &enabled
	}
	if c.History.DatabasePath == "" {
		c.History.DatabasePath = filepath.Join(DefaultDir, "history.db")
	}
	c.History.DatabasePath = expandHome(c.History.DatabasePath)

	if c.Logging.RotationDays < 0 {
		return errNegativeDays
	}
	if c.Logging.RotationDays == 0 {
		c.Logging.RotationDays = 30 // Default: keep logs for 30 days
	}
	if c.Logging.Dir == "" {
		c.Logging.Dir = filepath.Join(DefaultDir, "logs")
	}
	c.Logging.Dir = expandHome(c.Logging.Dir)

	if c.Metrics.TextfilePath != "" {
		c.Metrics.TextfilePath = expandHome(c.Metrics.TextfilePath)
	}

	cleaned := make([]string, 0, len(c.Safety.ProtectedPaths))
	for _, p := range c.Safety.ProtectedPaths {
		if strings.TrimSpace(p) == "" {
			return fmt.Errorf("safety.protected_paths: %w", errInvalidPath)
		}
		cleaned = append(cleaned, filepath.Clean(expandHome(p)))
	}
	c.Safety.ProtectedPaths = cleaned

	return nil
}

// HistoryEnabled reports whether operations are recorded in the audit database
func (c *Config) HistoryEnabled() bool {
	return c.History.Enabled == nil || *c.History.Enabled
}

// ProtectedPaths resolves the configured protected paths against root.
// Relative entries are taken relative to the tree root.
func (c *Config) ProtectedPaths(root string) []string {
	out := make([]string, 0, len(c.Safety.ProtectedPaths))
	for _, p := range c.Safety.ProtectedPaths {
		if !filepath.IsAbs(p) {
			p = filepath.Join(root, p)
		}
		out = append(out, p)
	}
	return out
}

func checkTemplate(tmpl string) error {
	if filepath.IsAbs(tmpl) {
		return errAbsoluteLayout
	}
	for _, part := range strings.Split(filepath.ToSlash(tmpl), "/") {
		if part == ".." {
			return errEscapingLayout
		}
	}
	rest := strings.NewReplacer("{vendor}", "", "{board}", "").Replace(tmpl)
	if strings.ContainsAny(rest, "{}") {
		return errUnknownTemplate
	}
	return nil
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
