package correctness

import (
	"strings"

	"github.com/leapstack-labs/haiku/pkg/ast"
	"github.com/leapstack-labs/haiku/pkg/diag"
	"github.com/leapstack-labs/haiku/pkg/lint"
	"github.com/leapstack-labs/haiku/pkg/lint/internal/scope"
)

func init() {
	UnusedParameter.Check = checkUnusedParameter
	lint.Register(UnusedParameter)
}

// UnusedParameter notes parameters the function body never reads.
var UnusedParameter = lint.RuleDef{
	ID:          "HK02",
	Name:        "correctness.unused_parameter",
	Group:       "correctness",
	Description: "Parameter is never read.",
	Severity:    diag.SeverityNote,
	Rationale: "Unused parameters are sometimes required by a calling " +
		"convention, so this is only a note. Prefix the name with an " +
		"underscore to silence it.",
	BadExample:  "fn area(w: f64, h: f64) -> f64 = w * w;",
	GoodExample: "fn area(w: f64, h: f64) -> f64 = w * h;",
}

func checkUnusedParameter(unit *ast.CompilationUnit, _ map[string]any) []lint.Diagnostic {
	var diagnostics []lint.Diagnostic
	for _, b := range scope.Resolve(unit) {
		if !b.Param || b.Reads > 0 || strings.HasPrefix(b.Name(), "_") {
			continue
		}
		diagnostics = append(diagnostics,
			UnusedParameter.Finding(b.Ident, "parameter `%s` of `%s` is never read", b.Name(), b.Func.Name.Name))
	}
	return diagnostics
}
