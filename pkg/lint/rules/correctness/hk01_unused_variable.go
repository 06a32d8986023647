package correctness

import (
	"strings"

	"github.com/leapstack-labs/haiku/pkg/ast"
	"github.com/leapstack-labs/haiku/pkg/diag"
	"github.com/leapstack-labs/haiku/pkg/lint"
	"github.com/leapstack-labs/haiku/pkg/lint/internal/scope"
)

func init() {
	UnusedVariable.Check = checkUnusedVariable
	lint.Register(UnusedVariable)
}

// UnusedVariable warns about locals that are declared but never read.
var UnusedVariable = lint.RuleDef{
	ID:          "HK01",
	Name:        "correctness.unused_variable",
	Group:       "correctness",
	Description: "Local variable is never read.",
	Severity:    diag.SeverityWarning,
	Rationale: "A variable that is only written is usually a leftover from a " +
		"refactoring or a typo in a later reference. Prefix the name with an " +
		"underscore to keep it on purpose.",
	BadExample:  "let total = compute();",
	GoodExample: "let _total = compute();",
}

func checkUnusedVariable(unit *ast.CompilationUnit, _ map[string]any) []lint.Diagnostic {
	var diagnostics []lint.Diagnostic
	for _, b := range scope.Resolve(unit) {
		if b.Param || b.Reads > 0 || strings.HasPrefix(b.Name(), "_") {
			continue
		}
		diagnostics = append(diagnostics,
			UnusedVariable.Finding(b.Ident, "variable `%s` is never read", b.Name()))
	}
	return diagnostics
}
