package ir

import "github.com/leapstack-labs/haiku/pkg/token"

// Function is a lowered function body. All nodes live in the function's own
// arenas; handles from one function are meaningless in another.
type Function struct {
	ID     FuncID
	Span   token.Span
	Params []VarID
	Body   StmtID

	exprs Arena[Expr]
	stmts Arena[Stmt]
	vars  Arena[Variable]
}

// GetExpr returns the expression for id.
func (f *Function) GetExpr(id ExprID) Expr {
	return f.exprs.Get(id)
}

// GetStmt returns the statement for id.
func (f *Function) GetStmt(id StmtID) Stmt {
	return f.stmts.Get(id)
}

// GetVariable returns the variable for id.
func (f *Function) GetVariable(id VarID) Variable {
	return f.vars.Get(id)
}

// ExprCount returns the number of lowered expressions.
func (f *Function) ExprCount() int { return f.exprs.Len() }

// StmtCount returns the number of lowered statements.
func (f *Function) StmtCount() int { return f.stmts.Len() }

// VarCount returns the number of variables, parameters included.
func (f *Function) VarCount() int { return f.vars.Len() }

func (f *Function) addExpr(kind ExprKind, span token.Span) ExprID {
	return f.exprs.Alloc(Expr{Kind: kind, Span: span})
}

func (f *Function) addStmt(kind StmtKind, span token.Span) StmtID {
	return f.stmts.Alloc(Stmt{Kind: kind, Span: span})
}
