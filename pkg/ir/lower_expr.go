package ir

import (
	"fmt"

	"github.com/leapstack-labs/haiku/pkg/ast"
)

// lowerExpr lowers children before their parent, so a node's operands
// always have smaller handles than the node itself.
func (l *lowerer) lowerExpr(e ast.Expr) ExprID {
	span := e.GetSpan()
	switch e := e.(type) {
	case *ast.IntLit:
		return l.fn.addExpr(LoadLiteral{Literal: Literal{Kind: LitInt, Int: e.Value}}, span)
	case *ast.FloatLit:
		return l.fn.addExpr(LoadLiteral{Literal: Literal{Kind: LitFloat, Float: e.Value}}, span)
	case *ast.BoolLit:
		return l.fn.addExpr(LoadLiteral{Literal: Literal{Kind: LitBool, Bool: e.Value}}, span)
	case *ast.StringLit:
		return l.fn.addExpr(LoadLiteral{Literal: Literal{Kind: LitString, String: l.m.Intern(e.Value)}}, span)

	case *ast.PathExpr:
		return l.fn.addExpr(l.resolve(e.Path), span)

	case *ast.BinaryExpr:
		left := l.lowerExpr(e.Left)
		right := l.lowerExpr(e.Right)
		return l.fn.addExpr(Binary{Left: left, Op: e.Op, Right: right}, span)

	case *ast.UnaryExpr:
		return l.fn.addExpr(Unary{Op: e.Op, Operand: l.lowerExpr(e.Operand)}, span)

	case *ast.AssignExpr:
		target := l.lowerExpr(e.Target)
		value := l.lowerExpr(e.Value)
		return l.fn.addExpr(Assign{Target: target, Op: e.Op, Value: value}, span)

	case *ast.MemberExpr:
		owner := l.lowerExpr(e.Owner)
		return l.fn.addExpr(Member{Owner: owner, Name: l.m.Intern(e.Member.Name)}, span)

	case *ast.IndexExpr:
		owner := l.lowerExpr(e.Owner)
		index := l.lowerExpr(e.Index)
		return l.fn.addExpr(Index{Owner: owner, Index: index}, span)

	case *ast.CallExpr:
		callee := l.lowerExpr(e.Callee)
		args := make([]ExprID, len(e.Args))
		for i, a := range e.Args {
			args[i] = l.lowerExpr(a)
		}
		return l.fn.addExpr(Call{Callee: callee, Args: args}, span)
	}
	panic(fmt.Sprintf("ir: unexpected expression %T", e))
}

// resolve binds a path: local variables first, then module functions.
// Anything else, and every qualified path, is left for a later pass.
func (l *lowerer) resolve(path *ast.IdentPath) ExprKind {
	name := l.m.Intern(path.String())
	if path.Qualified() {
		return Unresolved{Name: name}
	}
	if v, ok := l.scope.Lookup(name); ok {
		return LoadVariable{Variable: v}
	}
	if f, ok := l.m.funcTable.Lookup(name); ok {
		return LoadFunction{Function: f}
	}
	return Unresolved{Name: name}
}
