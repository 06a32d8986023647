package correctness

import (
	"github.com/leapstack-labs/haiku/pkg/ast"
	"github.com/leapstack-labs/haiku/pkg/diag"
	"github.com/leapstack-labs/haiku/pkg/lint"
)

func init() {
	ConstantCondition.Check = checkConstantCondition
	lint.Register(ConstantCondition)
}

// ConstantCondition warns about `if (true)`, `if (false)` and `while (false)`.
// `while (true)` is the idiomatic endless loop and is allowed.
var ConstantCondition = lint.RuleDef{
	ID:          "HK06",
	Name:        "correctness.constant_condition",
	Group:       "correctness",
	Description: "Condition is a boolean literal.",
	Severity:    diag.SeverityWarning,
	BadExample:  "if (false) { debug(); }",
	GoodExample: "if (verbose) { debug(); }",
}

func checkConstantCondition(unit *ast.CompilationUnit, _ map[string]any) []lint.Diagnostic {
	var diagnostics []lint.Diagnostic
	ast.Inspect(unit, func(n ast.Node) bool {
		switch s := n.(type) {
		case *ast.IfStmt:
			if lit, ok := s.Cond.(*ast.BoolLit); ok {
				branch := "else branch"
				if !lit.Value {
					branch = "then branch"
				}
				diagnostics = append(diagnostics,
					ConstantCondition.Finding(lit, "condition is always %t; the %s never runs", lit.Value, branch))
			}
		case *ast.WhileStmt:
			if lit, ok := s.Cond.(*ast.BoolLit); ok && !lit.Value {
				diagnostics = append(diagnostics,
					ConstantCondition.Finding(lit, "condition is always false; the loop body never runs"))
			}
		}
		return true
	})
	return diagnostics
}
