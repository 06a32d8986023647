package ast_test

import (
	"bytes"
	"testing"
	"unsafe"

	"github.com/leapstack-labs/haiku/pkg/ast"
	"github.com/leapstack-labs/haiku/pkg/parser"
	"github.com/leapstack-labs/haiku/pkg/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodeSizeCeiling(t *testing.T) {
	const ceiling = 24
	var (
		e ast.Expr
		s ast.Stmt
		d ast.Decl
	)
	assert.LessOrEqual(t, unsafe.Sizeof(e), uintptr(ceiling))
	assert.LessOrEqual(t, unsafe.Sizeof(s), uintptr(ceiling))
	assert.LessOrEqual(t, unsafe.Sizeof(d), uintptr(ceiling))
	assert.LessOrEqual(t, unsafe.Sizeof(token.Span{}), uintptr(ceiling))
}

func path(names ...string) *ast.IdentPath {
	p := &ast.IdentPath{}
	for _, n := range names {
		p.Segments = append(p.Segments, &ast.Ident{Name: n})
	}
	return p
}

func ref(name string) ast.Expr {
	return &ast.PathExpr{Path: path(name)}
}

func TestIdentPath(t *testing.T) {
	p := path("io", "print")
	assert.Equal(t, "io::print", p.String())
	assert.Equal(t, "print", p.Name())
	assert.True(t, p.Qualified())
	assert.False(t, path("x").Qualified())
}

func TestExprString(t *testing.T) {
	e := &ast.AssignExpr{
		Target: ref("a"),
		Value: &ast.BinaryExpr{
			Left: ref("b"),
			Op:   ast.OpAdd,
			Right: &ast.CallExpr{
				Callee: &ast.MemberExpr{Owner: ref("c"), Member: &ast.Ident{Name: "f"}},
				Args: []ast.Expr{
					&ast.IntLit{Value: token.IntValue{Bits: 1}},
					&ast.UnaryExpr{Op: ast.OpNeg, Operand: &ast.FloatLit{Value: token.FloatValue{Value: 2.5}}},
					&ast.IndexExpr{Owner: ref("xs"), Index: &ast.BoolLit{Value: true}},
					&ast.StringLit{Value: "hi\n"},
				},
			},
		},
	}
	assert.Equal(t, `(a = (b + c.f(1, (-2.5), xs[true], "hi\n")))`, ast.ExprString(e))

	compound := &ast.AssignExpr{Target: ref("x"), Op: ast.OpShl, Value: ref("y")}
	assert.True(t, compound.Compound())
	assert.Equal(t, "(x <<= y)", ast.ExprString(compound))
}

func TestIsAddressable(t *testing.T) {
	assert.True(t, ast.IsAddressable(ref("a")))
	assert.True(t, ast.IsAddressable(&ast.MemberExpr{Owner: ref("a"), Member: &ast.Ident{Name: "b"}}))
	assert.True(t, ast.IsAddressable(&ast.IndexExpr{Owner: ref("a"), Index: ref("i")}))
	assert.False(t, ast.IsAddressable(&ast.IntLit{}))
	assert.False(t, ast.IsAddressable(&ast.CallExpr{Callee: ref("f")}))
}

func TestSprintOutline(t *testing.T) {
	fn := &ast.FuncDecl{
		Signature: ast.Signature{
			Name:       &ast.Ident{Name: "inc"},
			Params:     []*ast.Field{{Name: &ast.Ident{Name: "x"}, Type: path("i32")}},
			ReturnType: path("i32"),
		},
		Body: &ast.BlockStmt{Stmts: []ast.Stmt{
			&ast.LetStmt{Name: &ast.Ident{Name: "y"}, Value: &ast.BinaryExpr{Left: ref("x"), Op: ast.OpAdd, Right: &ast.IntLit{Value: token.IntValue{Bits: 1}}}},
			&ast.IfStmt{Cond: ref("y"), Then: &ast.ReturnStmt{Value: ref("y")}, Else: &ast.BreakStmt{}},
		}},
	}
	unit := &ast.CompilationUnit{Name: "main", Decls: []ast.Decl{
		&ast.UseDecl{Path: path("std", "io")},
		fn,
	}}

	want := `CompilationUnit main
  UseDecl std::io
  FuncDecl inc(x: i32) -> i32
    BlockStmt
      LetStmt y
        BinaryExpr +
          x
          1
      IfStmt
        cond:
          y
        then:
          ReturnStmt
            y
        else:
          BreakStmt
`
	assert.Equal(t, want, ast.Sprint(unit))
}

func TestFprintIncludesSpans(t *testing.T) {
	var buf bytes.Buffer
	lit := &ast.IntLit{NodeInfo: ast.NodeInfo{Span: token.NewSpan(4, 6)}, Value: token.IntValue{Bits: 42}}
	require.NoError(t, ast.Fprint(&buf, lit))
	assert.Equal(t, "42 @4..6\n", buf.String())
}

func TestInspect(t *testing.T) {
	unit, err := parser.Parse("walk.hk", "struct P { x: i32; }\nfn f(a: i32) -> i32 { let b = a + 1; return io::id(b); }\n")
	require.NoError(t, err)

	var idents []string
	ast.Inspect(unit, func(n ast.Node) bool {
		if id, ok := n.(*ast.Ident); ok {
			idents = append(idents, id.Name)
		}
		return true
	})
	assert.Equal(t, []string{"P", "x", "i32", "f", "a", "i32", "i32", "b", "a", "io", "id", "b"}, idents)
}

func TestInspectSkipsChildren(t *testing.T) {
	unit, err := parser.Parse("skip.hk", "fn f() { let x = 1; }\nfn g() {}\n")
	require.NoError(t, err)

	var funcs int
	var lets int
	ast.Inspect(unit, func(n ast.Node) bool {
		switch n.(type) {
		case *ast.FuncDecl:
			funcs++
			return false
		case *ast.LetStmt:
			lets++
		}
		return true
	})
	assert.Equal(t, 2, funcs)
	assert.Zero(t, lets)
}
