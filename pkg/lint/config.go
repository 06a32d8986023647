package lint

import (
	"fmt"

	"github.com/leapstack-labs/haiku/pkg/diag"
)

// Config controls which rules are enabled, their severity and options.
type Config struct {
	// DisabledRules contains rule IDs to skip
	DisabledRules map[string]bool

	// SeverityOverrides changes the default severity of rules
	SeverityOverrides map[string]diag.Severity

	// RuleOptions holds rule-specific options keyed by rule ID
	RuleOptions map[string]map[string]any
}

// NewConfig creates a default configuration with all rules enabled.
func NewConfig() *Config {
	return &Config{
		DisabledRules:     make(map[string]bool),
		SeverityOverrides: make(map[string]diag.Severity),
		RuleOptions:       make(map[string]map[string]any),
	}
}

// IsDisabled returns true if the rule should be skipped.
func (c *Config) IsDisabled(ruleID string) bool {
	if c == nil {
		return false
	}
	return c.DisabledRules[ruleID]
}

// GetSeverity returns the severity for a rule, applying any override.
func (c *Config) GetSeverity(ruleID string, defaultSeverity diag.Severity) diag.Severity {
	if c != nil {
		if sev, ok := c.SeverityOverrides[ruleID]; ok {
			return sev
		}
	}
	return defaultSeverity
}

// GetRuleOptions returns the options configured for a rule, or nil.
func (c *Config) GetRuleOptions(ruleID string) map[string]any {
	if c == nil {
		return nil
	}
	return c.RuleOptions[ruleID]
}

// Disable disables a rule by ID.
func (c *Config) Disable(ruleID string) *Config {
	c.DisabledRules[ruleID] = true
	return c
}

// SetSeverity overrides the severity for a rule.
func (c *Config) SetSeverity(ruleID string, severity diag.Severity) *Config {
	c.SeverityOverrides[ruleID] = severity
	return c
}

// SetOption sets one option of a rule.
func (c *Config) SetOption(ruleID, key string, value any) *Config {
	if c.RuleOptions[ruleID] == nil {
		c.RuleOptions[ruleID] = make(map[string]any)
	}
	c.RuleOptions[ruleID][key] = value
	return c
}

// Validate checks that every rule the configuration mentions is
// registered.
func (c *Config) Validate() error {
	check := func(id string) error {
		if _, ok := GetByID(id); !ok {
			return fmt.Errorf("unknown lint rule %q", id)
		}
		return nil
	}
	for id := range c.DisabledRules {
		if err := check(id); err != nil {
			return err
		}
	}
	for id := range c.SeverityOverrides {
		if err := check(id); err != nil {
			return err
		}
	}
	for id := range c.RuleOptions {
		if err := check(id); err != nil {
			return err
		}
	}
	return nil
}
