package ast

import "github.com/leapstack-labs/haiku/pkg/token"

// UseDecl is `use a::b;`. It may appear at top level and inside blocks.
type UseDecl struct {
	NodeInfo
	Path *IdentPath
}

func (*UseDecl) declNode() {}
func (*UseDecl) stmtNode() {}

// Field is a `name: type` pair, used for parameters and struct members.
type Field struct {
	NodeInfo
	Name *Ident
	Type *IdentPath
}

// Signature is the part shared by function definitions and prototypes.
type Signature struct {
	Name       *Ident
	Params     []*Field
	ReturnType *IdentPath // nil when omitted
}

// FuncDecl is a function definition. Body is a *BlockStmt, or an *ExprStmt
// when the function was written as `fn f() = expr;` (ExprBody is then set).
type FuncDecl struct {
	NodeInfo
	Signature
	Body     Stmt
	ExprBody bool
	Doc      []token.Comment // comments directly preceding the declaration
}

func (*FuncDecl) declNode() {}

// ExternFuncDecl is an `extern fn` prototype without a body.
type ExternFuncDecl struct {
	NodeInfo
	Signature
	Doc []token.Comment
}

func (*ExternFuncDecl) declNode() {}

// StructDecl is a struct declaration.
type StructDecl struct {
	NodeInfo
	Name    *Ident
	Members []*Field
	Doc     []token.Comment
}

func (*StructDecl) declNode() {}
