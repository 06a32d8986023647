package config

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/leapstack-labs/haiku/pkg/diag"
)

var (
	validPolicies = []string{"collect", "fail-fast"}
	validOutputs  = []string{"auto", "text", "markdown", "json", "yaml"}
	validLevels   = []string{"debug", "info", "warn", "error"}
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if !slices.Contains(validPolicies, c.ErrorPolicy) {
		return fmt.Errorf("invalid error_policy %q (want one of: %s)", c.ErrorPolicy, strings.Join(validPolicies, ", "))
	}
	if c.MaxErrors < 0 {
		return fmt.Errorf("max_errors must be zero (unlimited) or positive, got %d", c.MaxErrors)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be zero (automatic) or positive, got %d", c.Workers)
	}
	if !slices.Contains(validOutputs, c.OutputFormat) {
		return fmt.Errorf("invalid output %q (want one of: %s)", c.OutputFormat, strings.Join(validOutputs, ", "))
	}
	if !slices.Contains(validLevels, strings.ToLower(c.LogLevel)) {
		return fmt.Errorf("invalid log_level %q (want one of: %s)", c.LogLevel, strings.Join(validLevels, ", "))
	}
	if len(c.SourceExtensions) == 0 {
		return fmt.Errorf("source_extensions must not be empty")
	}
	for _, ext := range c.SourceExtensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			return fmt.Errorf("invalid source extension %q: must start with a dot", ext)
		}
	}
	for id, sev := range c.Lint.Severity {
		if _, ok := diag.ParseSeverity(sev); !ok {
			return fmt.Errorf("invalid lint severity %q for %s (want one of: error, warning, note)", sev, id)
		}
	}
	return nil
}

// Level returns the slog level for the configuration. Verbose forces debug.
func (c *Config) Level() slog.Level {
	if c.Verbose {
		return slog.LevelDebug
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelWarn
	}
	return level
}
