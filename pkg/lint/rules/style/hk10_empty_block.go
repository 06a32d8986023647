package style

import (
	"github.com/leapstack-labs/haiku/pkg/ast"
	"github.com/leapstack-labs/haiku/pkg/diag"
	"github.com/leapstack-labs/haiku/pkg/lint"
)

func init() {
	EmptyBlock.Check = checkEmptyBlock
	lint.Register(EmptyBlock)
}

// EmptyBlock notes if, else and while bodies without statements.
// Empty function bodies are allowed as stubs.
var EmptyBlock = lint.RuleDef{
	ID:          "HK10",
	Name:        "style.empty_block",
	Group:       "style",
	Description: "Empty block in if, else or while.",
	Severity:    diag.SeverityNote,
	BadExample:  "if (done) {} else { step(); }",
	GoodExample: "if (!done) { step(); }",
}

func checkEmptyBlock(unit *ast.CompilationUnit, _ map[string]any) []lint.Diagnostic {
	var diagnostics []lint.Diagnostic
	report := func(s ast.Stmt, where string) {
		if b, ok := s.(*ast.BlockStmt); ok && len(b.Stmts) == 0 {
			diagnostics = append(diagnostics, EmptyBlock.Finding(b, "empty %s block", where))
		}
	}
	ast.Inspect(unit, func(n ast.Node) bool {
		switch s := n.(type) {
		case *ast.IfStmt:
			report(s.Then, "if")
			report(s.Else, "else")
		case *ast.WhileStmt:
			report(s.Body, "while")
		}
		return true
	})
	return diagnostics
}
