package ast

// EmptyStmt is a lone `;`.
type EmptyStmt struct {
	NodeInfo
}

func (*EmptyStmt) stmtNode() {}

// ExprStmt is an expression followed by `;`.
type ExprStmt struct {
	NodeInfo
	X Expr
}

func (*ExprStmt) stmtNode() {}

// LetStmt declares a variable. At least one of Type and Value is set.
type LetStmt struct {
	NodeInfo
	Name  *Ident
	Type  *IdentPath // nil when omitted
	Value Expr       // nil when omitted
}

func (*LetStmt) stmtNode() {}

// IfStmt is `if Cond Then else Else`. Else is nil when omitted.
type IfStmt struct {
	NodeInfo
	Cond Expr
	Then Stmt
	Else Stmt
}

func (*IfStmt) stmtNode() {}

// WhileStmt is `while Cond Body`.
type WhileStmt struct {
	NodeInfo
	Cond Expr
	Body Stmt
}

func (*WhileStmt) stmtNode() {}

// BlockStmt is a braced statement list.
type BlockStmt struct {
	NodeInfo
	Stmts []Stmt
}

func (*BlockStmt) stmtNode() {}

// BreakStmt is `break;`.
type BreakStmt struct {
	NodeInfo
}

func (*BreakStmt) stmtNode() {}

// ContinueStmt is `continue;`.
type ContinueStmt struct {
	NodeInfo
}

func (*ContinueStmt) stmtNode() {}

// ReturnStmt is `return Value;`. Value is nil for a bare return.
type ReturnStmt struct {
	NodeInfo
	Value Expr
}

func (*ReturnStmt) stmtNode() {}
