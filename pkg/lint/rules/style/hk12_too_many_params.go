package style

import (
	"github.com/leapstack-labs/haiku/pkg/ast"
	"github.com/leapstack-labs/haiku/pkg/diag"
	"github.com/leapstack-labs/haiku/pkg/lint"
)

func init() {
	TooManyParams.Check = checkTooManyParams
	lint.Register(TooManyParams)
}

// DefaultMaxParams is the parameter limit used when max_params is not set.
const DefaultMaxParams = 5

// TooManyParams notes functions with more than max_params parameters.
var TooManyParams = lint.RuleDef{
	ID:          "HK12",
	Name:        "style.too_many_params",
	Group:       "style",
	Description: "Function has too many parameters.",
	Severity:    diag.SeverityNote,
	ConfigKeys:  []string{"max_params"},
	Rationale:   "Long parameter lists are easy to call with arguments in the wrong order. Group related values in a struct.",
}

func checkTooManyParams(unit *ast.CompilationUnit, opts map[string]any) []lint.Diagnostic {
	limit := lint.GetIntOption(opts, "max_params", DefaultMaxParams)

	var diagnostics []lint.Diagnostic
	for _, d := range unit.Decls {
		var sig *ast.Signature
		switch d := d.(type) {
		case *ast.FuncDecl:
			sig = &d.Signature
		case *ast.ExternFuncDecl:
			sig = &d.Signature
		default:
			continue
		}
		if len(sig.Params) > limit {
			diagnostics = append(diagnostics,
				TooManyParams.Finding(sig.Name, "function `%s` has %d parameters (max %d)", sig.Name.Name, len(sig.Params), limit))
		}
	}
	return diagnostics
}
