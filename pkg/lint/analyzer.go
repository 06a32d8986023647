package lint

import (
	"slices"

	"github.com/leapstack-labs/haiku/pkg/ast"
	"github.com/leapstack-labs/haiku/pkg/diag"
)

// Analyzer runs the registered lint rules against parsed units.
type Analyzer struct {
	config *Config
}

// NewAnalyzer creates a new analyzer with optional configuration.
func NewAnalyzer(config *Config) *Analyzer {
	if config == nil {
		config = NewConfig()
	}
	return &Analyzer{config: config}
}

// Analyze runs every enabled rule against unit and returns the findings
// ordered by position, then rule ID.
func (a *Analyzer) Analyze(unit *ast.CompilationUnit) []Diagnostic {
	if unit == nil {
		return nil
	}

	var diagnostics []Diagnostic
	for _, rule := range GetAll() {
		if a.config.IsDisabled(rule.ID) {
			continue
		}

		diags := rule.Check(unit, a.config.GetRuleOptions(rule.ID))

		for i := range diags {
			diags[i].Severity = a.config.GetSeverity(rule.ID, diags[i].Severity)
		}
		diagnostics = append(diagnostics, diags...)
	}

	slices.SortStableFunc(diagnostics, func(x, y Diagnostic) int {
		if x.Span.Start != y.Span.Start {
			return x.Span.Start - y.Span.Start
		}
		if x.RuleID < y.RuleID {
			return -1
		}
		if x.RuleID > y.RuleID {
			return 1
		}
		return 0
	})
	return diagnostics
}

// Check analyzes unit and returns the findings as compiler diagnostics
// for path.
func (a *Analyzer) Check(path string, unit *ast.CompilationUnit) []*diag.Diagnostic {
	findings := a.Analyze(unit)
	if len(findings) == 0 {
		return nil
	}
	out := make([]*diag.Diagnostic, len(findings))
	for i, f := range findings {
		out[i] = f.Diag(path)
	}
	return out
}

// Lintable reports whether a unit with the given compiler diagnostics can be
// linted. Units with lexical or syntax errors are skipped since their tree
// is incomplete; lowering errors do not prevent linting.
func Lintable(diags []*diag.Diagnostic) bool {
	for _, d := range diags {
		if d.IsError() && (d.Kind == diag.KindLexical || d.Kind == diag.KindSyntax) {
			return false
		}
	}
	return true
}
