// Package config provides configuration management for the haiku CLI.
package config

import "path/filepath"

// Config holds all CLI configuration options.
type Config struct {
	ErrorPolicy      string   `koanf:"error_policy" yaml:"error_policy" json:"error_policy"`
	MaxErrors        int      `koanf:"max_errors" yaml:"max_errors" json:"max_errors"`
	Workers          int      `koanf:"workers" yaml:"workers" json:"workers"`
	OutputFormat     string   `koanf:"output" yaml:"output" json:"output"`
	Verbose          bool     `koanf:"verbose" yaml:"verbose" json:"verbose"`
	LogLevel         string   `koanf:"log_level" yaml:"log_level" json:"log_level"`
	SourceExtensions []string `koanf:"source_extensions" yaml:"source_extensions" json:"source_extensions"`
	HistoryFile      string   `koanf:"history_file" yaml:"history_file" json:"history_file"`
	StatePath        string   `koanf:"state_path" yaml:"state_path" json:"state_path"`
	ServeAddr        string   `koanf:"serve_addr" yaml:"serve_addr" json:"serve_addr"`

	Lint LintConfig `koanf:"lint" yaml:"lint" json:"lint"`

	// ProjectRoot is the directory holding the config file, or the working
	// directory when there is none. It is not read from configuration.
	ProjectRoot string `koanf:"-" yaml:"-" json:"-"`
}

// LintConfig configures the lint rules. It is read from the config file
// only.
type LintConfig struct {
	// Disabled lists rule IDs to skip.
	Disabled []string `koanf:"disabled" yaml:"disabled,omitempty" json:"disabled,omitempty"`
	// Severity overrides the default severity of rules by ID.
	Severity map[string]string `koanf:"severity" yaml:"severity,omitempty" json:"severity,omitempty"`
	// Options holds rule-specific options by ID, e.g. HK12: {max_params: 4}.
	Options map[string]map[string]any `koanf:"options" yaml:"options,omitempty" json:"options,omitempty"`
}

// Default configuration values.
const (
	DefaultErrorPolicy = "collect"
	DefaultMaxErrors   = 0      // unlimited
	DefaultOutput      = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultLogLevel    = "warn"
	DefaultHistoryFile = "${HOME}/.haiku_history"
	DefaultStatePath   = ".haiku/state.db" // relative to the project root
	DefaultServeAddr   = "127.0.0.1:7878"
)

// DefaultSourceExtensions lists the file extensions treated as source files.
var DefaultSourceExtensions = []string{".hk"}

// ResolveStatePath returns the state database path, relative paths taken
// from the project root.
func (c *Config) ResolveStatePath() string {
	if c.StatePath == "" || c.StatePath == ":memory:" || filepath.IsAbs(c.StatePath) {
		return c.StatePath
	}
	return filepath.Join(c.ProjectRoot, c.StatePath)
}

// Default returns a Config populated with default values.
func Default() *Config {
	return &Config{
		ErrorPolicy:      DefaultErrorPolicy,
		MaxErrors:        DefaultMaxErrors,
		OutputFormat:     DefaultOutput,
		LogLevel:         DefaultLogLevel,
		SourceExtensions: append([]string(nil), DefaultSourceExtensions...),
		HistoryFile:      expandEnvVars(DefaultHistoryFile),
		StatePath:        DefaultStatePath,
		ServeAddr:        DefaultServeAddr,
	}
}
