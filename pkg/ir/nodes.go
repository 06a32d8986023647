package ir

import (
	"github.com/leapstack-labs/haiku/pkg/ast"
	"github.com/leapstack-labs/haiku/pkg/token"
)

// Variable is a local variable or parameter of a function.
type Variable struct {
	Name  StringID
	Type  StringID // declared type name, invalid when inferred
	Span  token.Span
	Param bool
}

// LiteralKind tells which field of a Literal is set.
type LiteralKind uint8

// Literal kinds.
const (
	LitInt LiteralKind = iota
	LitFloat
	LitBool
	LitString
)

// Literal is a constant value loaded by an expression.
type Literal struct {
	Kind   LiteralKind
	Int    token.IntValue
	Float  token.FloatValue
	Bool   bool
	String StringID
}

// ---------- Expressions ----------

// Expr is one node of a function's expression arena.
type Expr struct {
	Kind ExprKind
	Span token.Span
}

// ExprKind is implemented by the expression variants below.
type ExprKind interface {
	exprKind()
}

// LoadLiteral loads a constant.
type LoadLiteral struct {
	Literal Literal
}

// LoadVariable reads a local variable or parameter.
type LoadVariable struct {
	Variable VarID
}

// LoadFunction refers to a function of the module.
type LoadFunction struct {
	Function FuncID
}

// Binary applies a binary operator.
type Binary struct {
	Left  ExprID
	Op    ast.BinaryOp
	Right ExprID
}

// Unary applies a prefix operator.
type Unary struct {
	Op      ast.UnaryOp
	Operand ExprID
}

// Assign stores Value into Target. Op is zero for plain assignment.
type Assign struct {
	Target ExprID
	Op     ast.BinaryOp
	Value  ExprID
}

// Member reads a named member of Owner.
type Member struct {
	Owner ExprID
	Name  StringID
}

// Index reads Owner[Index].
type Index struct {
	Owner ExprID
	Index ExprID
}

// Call invokes Callee.
type Call struct {
	Callee ExprID
	Args   []ExprID
}

// Unresolved is a name that matched neither a local variable nor a module
// function. Later stages resolve it against imports.
type Unresolved struct {
	Name StringID
}

func (LoadLiteral) exprKind()  {}
func (LoadVariable) exprKind() {}
func (LoadFunction) exprKind() {}
func (Binary) exprKind()       {}
func (Unary) exprKind()        {}
func (Assign) exprKind()       {}
func (Member) exprKind()       {}
func (Index) exprKind()        {}
func (Call) exprKind()         {}
func (Unresolved) exprKind()   {}

// ---------- Statements ----------

// Stmt is one node of a function's statement arena.
type Stmt struct {
	Kind StmtKind
	Span token.Span
}

// StmtKind is implemented by the statement variants below.
type StmtKind interface {
	stmtKind()
}

// Empty does nothing.
type Empty struct{}

// VarDecl introduces a variable, optionally with an initializer.
type VarDecl struct {
	Variable VarID
	Init     ExprID // invalid when absent
}

// Eval evaluates an expression for its effects.
type Eval struct {
	Expr ExprID
}

// Return leaves the function. Value is invalid for a bare return.
type Return struct {
	Value ExprID
}

// Continue jumps to the next loop iteration.
type Continue struct{}

// Break leaves the innermost loop.
type Break struct{}

// If branches on Cond. Else is invalid when absent.
type If struct {
	Cond ExprID
	Then StmtID
	Else StmtID
}

// While loops while Cond holds.
type While struct {
	Cond ExprID
	Body StmtID
}

// Block is a statement sequence with its own scope.
type Block struct {
	Stmts []StmtID
}

// Use imports a module path into the enclosing block.
type Use struct {
	Path StringID
}

func (Empty) stmtKind()    {}
func (VarDecl) stmtKind()  {}
func (Eval) stmtKind()     {}
func (Return) stmtKind()   {}
func (Continue) stmtKind() {}
func (Break) stmtKind()    {}
func (If) stmtKind()       {}
func (While) stmtKind()    {}
func (Block) stmtKind()    {}
func (Use) stmtKind()      {}
