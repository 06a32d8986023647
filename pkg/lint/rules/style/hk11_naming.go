package style

import (
	"regexp"
	"slices"

	"github.com/leapstack-labs/haiku/pkg/ast"
	"github.com/leapstack-labs/haiku/pkg/diag"
	"github.com/leapstack-labs/haiku/pkg/lint"
)

func init() {
	Naming.Check = checkNaming
	lint.Register(Naming)
}

var (
	snakeCase = regexp.MustCompile(`^(_+|_*[a-z][a-z0-9]*(_[a-z0-9]+)*)$`)
	camelCase = regexp.MustCompile(`^[A-Z][A-Za-z0-9]*$`)
)

// Naming warns about functions, parameters, variables and struct members
// not in snake_case and structs not in UpperCamelCase. Extern functions
// keep the spelling of the library they bind.
var Naming = lint.RuleDef{
	ID:          "HK11",
	Name:        "style.naming",
	Group:       "style",
	Description: "Names follow snake_case, struct names UpperCamelCase.",
	Severity:    diag.SeverityWarning,
	ConfigKeys:  []string{"allow"},
	BadExample:  "struct point_2d { X: i32; }\nfn MakePoint() {}",
	GoodExample: "struct Point2d { x: i32; }\nfn make_point() {}",
}

func checkNaming(unit *ast.CompilationUnit, opts map[string]any) []lint.Diagnostic {
	allow := lint.GetStringSliceOption(opts, "allow", nil)

	var diagnostics []lint.Diagnostic
	check := func(id *ast.Ident, what string, re *regexp.Regexp, style string) {
		if id == nil || re.MatchString(id.Name) || slices.Contains(allow, id.Name) {
			return
		}
		diagnostics = append(diagnostics, Naming.Finding(id, "%s `%s` should be %s", what, id.Name, style))
	}

	for _, d := range unit.Decls {
		switch d := d.(type) {
		case *ast.FuncDecl:
			check(d.Name, "function", snakeCase, "snake_case")
			for _, p := range d.Params {
				check(p.Name, "parameter", snakeCase, "snake_case")
			}
			ast.Inspect(d.Body, func(n ast.Node) bool {
				if let, ok := n.(*ast.LetStmt); ok {
					check(let.Name, "variable", snakeCase, "snake_case")
				}
				return true
			})
		case *ast.StructDecl:
			check(d.Name, "struct", camelCase, "UpperCamelCase")
			for _, m := range d.Members {
				check(m.Name, "member", snakeCase, "snake_case")
			}
		}
	}
	return diagnostics
}
