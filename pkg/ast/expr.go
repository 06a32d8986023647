package ast

import "github.com/leapstack-labs/haiku/pkg/token"

// BinaryExpr represents `Left Op Right`.
type BinaryExpr struct {
	NodeInfo
	Left  Expr
	Op    BinaryOp
	Right Expr
}

func (*BinaryExpr) exprNode() {}

// UnaryExpr represents a prefix operator applied to an operand.
type UnaryExpr struct {
	NodeInfo
	Op      UnaryOp
	Operand Expr
}

func (*UnaryExpr) exprNode() {}

// AssignExpr represents `Target = Value` or a compound form such as
// `Target += Value`. Op is zero for a plain assignment.
type AssignExpr struct {
	NodeInfo
	Target Expr
	Op     BinaryOp
	Value  Expr
}

func (*AssignExpr) exprNode() {}

// Compound returns true for compound assignments.
func (a *AssignExpr) Compound() bool {
	return a.Op != 0
}

// MemberExpr represents `Owner.Member`.
type MemberExpr struct {
	NodeInfo
	Owner  Expr
	Member *Ident
}

func (*MemberExpr) exprNode() {}

// IndexExpr represents `Owner[Index]`.
type IndexExpr struct {
	NodeInfo
	Owner Expr
	Index Expr
}

func (*IndexExpr) exprNode() {}

// CallExpr represents `Callee(Args...)`.
type CallExpr struct {
	NodeInfo
	Callee   Expr
	Args     []Expr
	ArgsSpan token.Span // from `(` to `)` inclusive
}

func (*CallExpr) exprNode() {}

// IntLit is an integer literal.
type IntLit struct {
	NodeInfo
	Value token.IntValue
}

func (*IntLit) exprNode() {}

// FloatLit is a floating point literal.
type FloatLit struct {
	NodeInfo
	Value token.FloatValue
}

func (*FloatLit) exprNode() {}

// BoolLit is `true` or `false`.
type BoolLit struct {
	NodeInfo
	Value bool
}

func (*BoolLit) exprNode() {}

// StringLit is a string literal with escapes decoded.
type StringLit struct {
	NodeInfo
	Value string
}

func (*StringLit) exprNode() {}

// PathExpr is a reference to a named entity.
type PathExpr struct {
	NodeInfo
	Path *IdentPath
}

func (*PathExpr) exprNode() {}

// IsAddressable returns true if e may appear on the left of an assignment.
func IsAddressable(e Expr) bool {
	switch e.(type) {
	case *PathExpr, *MemberExpr, *IndexExpr:
		return true
	}
	return false
}
