package correctness

import (
	"github.com/leapstack-labs/haiku/pkg/ast"
	"github.com/leapstack-labs/haiku/pkg/diag"
	"github.com/leapstack-labs/haiku/pkg/lint"
)

func init() {
	SelfAssignment.Check = checkSelfAssignment
	lint.Register(SelfAssignment)
}

// SelfAssignment warns about `x = x` and similar no-op assignments.
var SelfAssignment = lint.RuleDef{
	ID:          "HK05",
	Name:        "correctness.self_assignment",
	Group:       "correctness",
	Description: "Assignment of a place to itself.",
	Severity:    diag.SeverityWarning,
	BadExample:  "p.x = p.x;",
	GoodExample: "p.x = q.x;",
}

func checkSelfAssignment(unit *ast.CompilationUnit, _ map[string]any) []lint.Diagnostic {
	var diagnostics []lint.Diagnostic
	ast.Inspect(unit, func(n ast.Node) bool {
		a, ok := n.(*ast.AssignExpr)
		if !ok || a.Compound() || !pure(a.Target) {
			return true
		}
		if target := ast.ExprString(a.Target); target == ast.ExprString(a.Value) {
			diagnostics = append(diagnostics,
				SelfAssignment.Finding(a, "`%s` is assigned to itself", target))
		}
		return true
	})
	return diagnostics
}

// pure reports whether evaluating e has no side effects: it is built only
// from names, member accesses, indexing and literals.
func pure(e ast.Expr) bool {
	switch e := e.(type) {
	case *ast.PathExpr, *ast.IntLit, *ast.FloatLit, *ast.BoolLit, *ast.StringLit:
		return true
	case *ast.MemberExpr:
		return pure(e.Owner)
	case *ast.IndexExpr:
		return pure(e.Owner) && pure(e.Index)
	}
	return false
}
