package correctness

import (
	"github.com/leapstack-labs/haiku/pkg/ast"
	"github.com/leapstack-labs/haiku/pkg/diag"
	"github.com/leapstack-labs/haiku/pkg/lint"
	"github.com/leapstack-labs/haiku/pkg/lint/internal/scope"
)

func init() {
	ShadowedVariable.Check = checkShadowedVariable
	lint.Register(ShadowedVariable)
}

// ShadowedVariable warns when a `let` hides a variable or parameter of an
// enclosing scope.
var ShadowedVariable = lint.RuleDef{
	ID:          "HK03",
	Name:        "correctness.shadowed_variable",
	Group:       "correctness",
	Description: "Variable shadows an enclosing variable or parameter.",
	Severity:    diag.SeverityWarning,
	Rationale: "After the inner declaration every use of the name refers to " +
		"the new variable, and assignments no longer reach the outer one.",
	BadExample:  "let n = 0;\nwhile n < 3 { let n = n + 1; }",
	GoodExample: "let n = 0;\nwhile n < 3 { n += 1; }",
}

func checkShadowedVariable(unit *ast.CompilationUnit, _ map[string]any) []lint.Diagnostic {
	var diagnostics []lint.Diagnostic
	for _, b := range scope.Resolve(unit) {
		if b.Shadows == nil {
			continue
		}
		what := "variable"
		if b.Shadows.Param {
			what = "parameter"
		}
		diagnostics = append(diagnostics,
			ShadowedVariable.Finding(b.Ident, "`%s` shadows the %s declared earlier", b.Name(), what))
	}
	return diagnostics
}
