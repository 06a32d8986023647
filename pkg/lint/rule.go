package lint

import (
	"fmt"

	"github.com/leapstack-labs/haiku/pkg/ast"
	"github.com/leapstack-labs/haiku/pkg/diag"
)

// CheckFunc analyzes a unit and returns findings. opts holds the
// rule-specific options from configuration and may be nil.
type CheckFunc func(unit *ast.CompilationUnit, opts map[string]any) []Diagnostic

// RuleDef is a data-driven rule definition. Rules are stateless; all
// context comes through the Check parameters.
type RuleDef struct {
	ID          string        // unique identifier, e.g. "HK01"
	Name        string        // human-readable name, e.g. "correctness.unused_variable"
	Group       string        // category, e.g. "correctness" or "style"
	Description string        // one-line description
	Severity    diag.Severity // default severity
	Check       CheckFunc
	ConfigKeys  []string // option keys this rule accepts

	Rationale   string // why the rule exists
	BadExample  string // code showing the pattern the rule flags
	GoodExample string // the same code written the preferred way
}

// Finding creates a finding for this rule with its default severity.
func (r RuleDef) Finding(n ast.Node, format string, args ...any) Diagnostic {
	return Diagnostic{
		RuleID:   r.ID,
		Severity: r.Severity,
		Message:  fmt.Sprintf(format, args...),
		Span:     n.GetSpan(),
	}
}

// RuleInfo provides metadata about a rule for documentation and tooling.
type RuleInfo struct {
	ID              string   `json:"id" yaml:"id"`
	Name            string   `json:"name" yaml:"name"`
	Group           string   `json:"group" yaml:"group"`
	Description     string   `json:"description" yaml:"description"`
	DefaultSeverity string   `json:"default_severity" yaml:"default_severity"`
	ConfigKeys      []string `json:"config_keys,omitempty" yaml:"config_keys,omitempty"`
}

// Info extracts the metadata of r.
func (r RuleDef) Info() RuleInfo {
	return RuleInfo{
		ID:              r.ID,
		Name:            r.Name,
		Group:           r.Group,
		Description:     r.Description,
		DefaultSeverity: r.Severity.String(),
		ConfigKeys:      r.ConfigKeys,
	}
}
