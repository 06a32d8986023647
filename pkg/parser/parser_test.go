package parser_test

import (
	"testing"

	"github.com/leapstack-labs/haiku/internal/testutil"
	"github.com/leapstack-labs/haiku/pkg/ast"
	"github.com/leapstack-labs/haiku/pkg/diag"
	"github.com/leapstack-labs/haiku/pkg/parser"
	"github.com/leapstack-labs/haiku/pkg/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseUnit(t *testing.T, src string, reporter diag.Reporter) (*ast.CompilationUnit, error) {
	t.Helper()
	p := parser.New(src, parser.Config{
		Path:     "testdata/main.hk",
		Reporter: reporter,
		Logger:   testutil.NewTestLogger(t),
	})
	return p.ParseUnit()
}

// ---------- Declaration Tests ----------

func TestParseFunction(t *testing.T) {
	src := "fn add(a: i32, b: i32) -> i32 { return a + b; }"
	unit, err := parser.Parse("src/add.hk", src)
	require.NoError(t, err)

	assert.Equal(t, "add", unit.Name)
	assert.Equal(t, token.NewSpan(0, len(src)), unit.Span)
	require.Len(t, unit.Decls, 1)

	fn, ok := unit.Decls[0].(*ast.FuncDecl)
	require.True(t, ok)
	assert.Equal(t, "add", fn.Name.Name)
	require.Len(t, fn.Params, 2)
	assert.Equal(t, "a", fn.Params[0].Name.Name)
	assert.Equal(t, "i32", fn.Params[1].Type.String())
	assert.Equal(t, "i32", fn.ReturnType.String())
	assert.False(t, fn.ExprBody)
	assert.Equal(t, token.NewSpan(0, len(src)), fn.Span)

	body := fn.Body.(*ast.BlockStmt)
	require.Len(t, body.Stmts, 1)
	ret := body.Stmts[0].(*ast.ReturnStmt)
	assert.Equal(t, "(a + b)", ast.ExprString(ret.Value))
}

func TestParseDeclarations(t *testing.T) {
	src := `
use std::io;

// Writes a line.
extern fn puts(s: str) -> i32;

struct Point { x: f64; y: f64; }
struct Pair { a: i32; b: i32 }
struct Unit {}

/* doubles */
fn double(x: i32) -> i32 = x * 2;
fn main() {}
`
	unit, err := parser.Parse("main.hk", src)
	require.NoError(t, err)
	require.Len(t, unit.Decls, 7)

	use := unit.Decls[0].(*ast.UseDecl)
	assert.Equal(t, "std::io", use.Path.String())
	assert.True(t, use.Path.Qualified())

	ext := unit.Decls[1].(*ast.ExternFuncDecl)
	assert.Equal(t, "puts", ext.Name.Name)
	require.Len(t, ext.Doc, 1)
	assert.Equal(t, " Writes a line.", ext.Doc[0].Text)

	point := unit.Decls[2].(*ast.StructDecl)
	require.Len(t, point.Members, 2)
	assert.Equal(t, "y", point.Members[1].Name.Name)
	assert.Len(t, unit.Decls[3].(*ast.StructDecl).Members, 2)
	assert.Empty(t, unit.Decls[4].(*ast.StructDecl).Members)

	double := unit.Decls[5].(*ast.FuncDecl)
	assert.True(t, double.ExprBody)
	assert.Equal(t, "(x * 2)", ast.ExprString(double.Body.(*ast.ExprStmt).X))
	require.Len(t, double.Doc, 1)
	assert.True(t, double.Doc[0].IsBlockComment())

	main := unit.Decls[6].(*ast.FuncDecl)
	assert.Empty(t, main.Params)
	assert.Nil(t, main.ReturnType)
	assert.Empty(t, main.Doc)
}

// ---------- Statement Tests ----------

func TestParseStatements(t *testing.T) {
	src := `fn main() {
	;
	let a: i32;
	let b = 1;
	let c: f64 = 2.0;
	if (a < b) { a = b; } else if (b) { ; } else a += 1;
	while (true) { break; continue; }
	{ return; }
	return a;
	use io::fmt;
	print("x");
}`
	unit, err := parser.Parse("main.hk", src)
	require.NoError(t, err)

	body := unit.Decls[0].(*ast.FuncDecl).Body.(*ast.BlockStmt)
	kinds := make([]string, len(body.Stmts))
	for i, s := range body.Stmts {
		switch s.(type) {
		case *ast.EmptyStmt:
			kinds[i] = "empty"
		case *ast.LetStmt:
			kinds[i] = "let"
		case *ast.IfStmt:
			kinds[i] = "if"
		case *ast.WhileStmt:
			kinds[i] = "while"
		case *ast.BlockStmt:
			kinds[i] = "block"
		case *ast.ReturnStmt:
			kinds[i] = "return"
		case *ast.UseDecl:
			kinds[i] = "use"
		case *ast.ExprStmt:
			kinds[i] = "expr"
		}
	}
	assert.Equal(t, []string{"empty", "let", "let", "let", "if", "while", "block", "return", "use", "expr"}, kinds)

	typed := body.Stmts[1].(*ast.LetStmt)
	assert.Equal(t, "i32", typed.Type.String())
	assert.Nil(t, typed.Value)
	untyped := body.Stmts[2].(*ast.LetStmt)
	assert.Nil(t, untyped.Type)
	assert.NotNil(t, untyped.Value)

	ifStmt := body.Stmts[4].(*ast.IfStmt)
	elseIf := ifStmt.Else.(*ast.IfStmt)
	assert.IsType(t, &ast.ExprStmt{}, elseIf.Else)

	loop := body.Stmts[5].(*ast.WhileStmt)
	inner := loop.Body.(*ast.BlockStmt).Stmts
	assert.IsType(t, &ast.BreakStmt{}, inner[0])
	assert.IsType(t, &ast.ContinueStmt{}, inner[1])

	bare := body.Stmts[6].(*ast.BlockStmt).Stmts[0].(*ast.ReturnStmt)
	assert.Nil(t, bare.Value)
}

func TestStatementSpans(t *testing.T) {
	stmts, err := parser.New("let x = 1 + 2;\nif (a) b; else c;", parser.Config{}).ParseStmts()
	require.NoError(t, err)
	require.Len(t, stmts, 2)
	assert.Equal(t, token.NewSpan(0, 14), stmts[0].GetSpan())
	assert.Equal(t, token.NewSpan(15, 32), stmts[1].GetSpan())
}

func TestConditionParentheses(t *testing.T) {
	stmts, err := parser.New("if (x) -1;\nwhile ((a)) ;", parser.Config{}).ParseStmts()
	require.NoError(t, err)
	require.Len(t, stmts, 2)

	ifStmt := stmts[0].(*ast.IfStmt)
	assert.Equal(t, "x", ifStmt.Cond.(*ast.PathExpr).Path.String())
	then := ifStmt.Then.(*ast.ExprStmt)
	assert.IsType(t, &ast.UnaryExpr{}, then.X)

	assert.IsType(t, &ast.EmptyStmt{}, stmts[1].(*ast.WhileStmt).Body)
}

func TestParseStmts(t *testing.T) {
	p := parser.New("let x = 1; x = x + 1; print(x);", parser.Config{})
	stmts, err := p.ParseStmts()
	require.NoError(t, err)
	assert.Len(t, stmts, 3)
}

// ---------- Error Tests ----------

func TestStatementErrors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		message string
	}{
		{"let without type or value", "fn f() { let x; }", parser.ErrLetForm},
		{"let without name", "fn f() { let = 1; }", "expected variable name after `let`"},
		{"missing semicolon", "fn f() { x = 1 }", "expected `;` after expression"},
		{"break without semicolon", "fn f() { break }", "expected `;` after `break`"},
		{"nested declaration", "fn f() { ; } fn g() { struct S {} }", parser.ErrUnclosedBlock},
		{"top level statement", "let x = 1;", parser.ErrTopLevel},
		{"missing body", "fn f() -> i32;", parser.ErrFuncBody},
		{"extern with body", "extern fn f() {}", "expected `;` after extern function prototype"},
		{"missing colon", "fn f(a i32) {}", "expected `:` after parameter name"},
		{"struct member separator", "struct S { a: i32, b: i32 }", "expected `;` or `}` in struct body"},
		{"unclosed block", "fn f() { return 1;", parser.ErrUnclosedBlock},
		{"if without parentheses", "fn f(x: bool) { if x {} }", "expected `(` after `if`"},
		{"while without parentheses", "fn f(x: bool) { while x {} }", "expected `(` after `while`"},
		{"unclosed condition", "fn f(x: bool) { if (x {} }", "expected `)` after `if` condition"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := diag.NewCollector(0)
			_, err := parseUnit(t, tt.src, c)
			require.ErrorIs(t, err, parser.ErrParse)
			require.NotEmpty(t, c.Diagnostics())
			assert.Equal(t, tt.message, c.Diagnostics()[0].Message)
			assert.Equal(t, "testdata/main.hk", c.Diagnostics()[0].Path)
		})
	}
}

func TestEatReportsWithoutConsuming(t *testing.T) {
	c := diag.NewCollector(0)
	_, err := parseUnit(t, "fn f(a i32) {}", c)
	require.Error(t, err)
	require.Len(t, c.Diagnostics(), 1)
	assert.Equal(t, token.NewSpan(7, 10), c.Diagnostics()[0].Span)
}

// ---------- Recovery Tests ----------

func TestCollectAllReportsIndependentErrors(t *testing.T) {
	src := "fn main() { let = 1; x + ; let y = 2; }"
	c := diag.NewCollector(0)
	unit, err := parseUnit(t, src, c)
	require.Error(t, err)
	require.Len(t, c.Diagnostics(), 2)
	assert.Equal(t, "expected variable name after `let`", c.Diagnostics()[0].Message)
	assert.Equal(t, parser.ErrAtom, c.Diagnostics()[1].Message)

	// the statements after the errors are still parsed
	body := unit.Decls[0].(*ast.FuncDecl).Body.(*ast.BlockStmt)
	require.Len(t, body.Stmts, 1)
	assert.Equal(t, "y", body.Stmts[0].(*ast.LetStmt).Name.Name)
}

func TestFailFastStopsAtFirstError(t *testing.T) {
	src := "fn main() { let = 1; x + ; } fn other() { let; }"
	c := diag.NewFailFast()
	unit, err := parseUnit(t, src, c)
	require.Error(t, err)
	assert.Len(t, c.Diagnostics(), 1)
	assert.Empty(t, unit.Decls)
}

func TestCollectorLimitStopsParsing(t *testing.T) {
	src := "fn a() { let; } fn b() { let; } fn c() { let; }"
	c := diag.NewCollector(2)
	_, err := parseUnit(t, src, c)
	require.Error(t, err)
	assert.Len(t, c.Diagnostics(), 2)
}

func TestTopLevelRecovery(t *testing.T) {
	src := "fn a() {} garbage tokens ( here fn b() {} let x; struct S { x: i32 }"
	c := diag.NewCollector(0)
	unit, err := parseUnit(t, src, c)
	require.Error(t, err)
	assert.Len(t, c.Diagnostics(), 2)
	require.Len(t, unit.Decls, 3)
	assert.Equal(t, "b", unit.Decls[1].(*ast.FuncDecl).Name.Name)
	assert.Equal(t, "S", unit.Decls[2].(*ast.StructDecl).Name.Name)
}

func TestUnclosedBlockRecoversAtNextDeclaration(t *testing.T) {
	src := "fn a() { let x = 1;\nfn b() {}"
	c := diag.NewCollector(0)
	unit, err := parseUnit(t, src, c)
	require.Error(t, err)
	require.Len(t, c.Diagnostics(), 1)
	assert.Equal(t, parser.ErrUnclosedBlock, c.Diagnostics()[0].Message)
	require.Len(t, unit.Decls, 1)
	assert.Equal(t, "b", unit.Decls[0].(*ast.FuncDecl).Name.Name)
}

func TestLexicalErrorsInsideFunction(t *testing.T) {
	src := "fn f() { let x = @; let s = \"abc; }\nfn g() {}"
	c := diag.NewCollector(0)
	unit, err := parseUnit(t, src, c)
	require.Error(t, err)

	var kinds []diag.Kind
	for _, d := range c.Diagnostics() {
		kinds = append(kinds, d.Kind)
	}
	assert.Equal(t, diag.KindLexical, kinds[0])
	assert.Contains(t, kinds, diag.KindLexical)
	assert.Equal(t, "g", unit.Decls[len(unit.Decls)-1].(*ast.FuncDecl).Name.Name)
}

func TestEmptyUnit(t *testing.T) {
	unit, err := parser.Parse("", "  // nothing here\n")
	require.NoError(t, err)
	assert.Empty(t, unit.Decls)
	assert.Empty(t, unit.Name)
}
