package correctness

import (
	"github.com/leapstack-labs/haiku/pkg/ast"
	"github.com/leapstack-labs/haiku/pkg/diag"
	"github.com/leapstack-labs/haiku/pkg/lint"
	"github.com/leapstack-labs/haiku/pkg/token"
)

func init() {
	UnreachableCode.Check = checkUnreachableCode
	lint.Register(UnreachableCode)
}

// UnreachableCode warns about statements that follow a return, break or
// continue in the same block.
var UnreachableCode = lint.RuleDef{
	ID:          "HK04",
	Name:        "correctness.unreachable_code",
	Group:       "correctness",
	Description: "Statement after return, break or continue.",
	Severity:    diag.SeverityWarning,
	BadExample:  "return x;\nx += 1;",
	GoodExample: "x += 1;\nreturn x;",
}

func checkUnreachableCode(unit *ast.CompilationUnit, _ map[string]any) []lint.Diagnostic {
	var diagnostics []lint.Diagnostic
	ast.Inspect(unit, func(n ast.Node) bool {
		block, ok := n.(*ast.BlockStmt)
		if !ok {
			return true
		}
		for i, s := range block.Stmts[:max(len(block.Stmts)-1, 0)] {
			if !terminates(s) {
				continue
			}
			rest := block.Stmts[i+1:]
			span := rest[0].GetSpan().To(rest[len(rest)-1].GetSpan())
			diagnostics = append(diagnostics,
				UnreachableCode.Finding(spanNode{span}, "unreachable code after `%s`", keyword(s)))
			break
		}
		return true
	})
	return diagnostics
}

func terminates(s ast.Stmt) bool {
	switch s.(type) {
	case *ast.ReturnStmt, *ast.BreakStmt, *ast.ContinueStmt:
		return true
	}
	return false
}

func keyword(s ast.Stmt) string {
	switch s.(type) {
	case *ast.ReturnStmt:
		return token.RETURN.String()
	case *ast.BreakStmt:
		return token.BREAK.String()
	}
	return token.CONTINUE.String()
}

// spanNode reports a finding over an arbitrary span.
type spanNode struct {
	span token.Span
}

func (n spanNode) GetSpan() token.Span {
	return n.span
}
