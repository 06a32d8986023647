package ir

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/haiku/pkg/ast"
	"github.com/leapstack-labs/haiku/pkg/token"
)

// lowerer holds the state of one LowerFunction call.
type lowerer struct {
	m     *Module
	fn    *Function
	scope *SymbolTable[StringID, VarID]
}

// LowerFunction lowers the body of decl into a new Function. The function's
// header must have been registered by PreScan; otherwise it is registered
// now. Duplicate declarations are reported and lowering carries on, so the
// returned Function is always complete. The error is non-nil if this call
// reported errors.
func (m *Module) LowerFunction(decl *ast.FuncDecl) (*Function, error) {
	before := m.reporter.Errors

	id, ok := m.funcTable.Lookup(m.Intern(decl.Name.Name))
	if !ok {
		id = m.declareFunction(&decl.Signature, decl.Span, false)
	} else if m.functions.Get(id).Span != decl.Span {
		// A later duplicate of an already registered name: lower it
		// anonymously so its own errors still surface.
		id = 0
	}

	l := &lowerer{
		m:     m,
		fn:    &Function{ID: id, Span: decl.Span},
		scope: NewSymbolTable[StringID, VarID](),
	}

	l.scope.Push()
	for _, p := range decl.Params {
		v := l.declareVariable(p.Name, p.Type, true)
		l.fn.Params = append(l.fn.Params, v)
	}
	if decl.ExprBody {
		body := decl.Body.(*ast.ExprStmt)
		value := l.lowerExpr(body.X)
		l.fn.Body = l.fn.addStmt(Return{Value: value}, body.Span)
	} else {
		l.fn.Body = l.lowerStmt(decl.Body)
	}
	l.scope.Pop()

	if id.IsValid() {
		if _, exists := m.bodies[id]; !exists {
			m.order = append(m.order, id)
		}
		m.bodies[id] = l.fn
	}

	m.logger.Debug("lowered function",
		slog.String("name", decl.Name.Name),
		slog.Int("exprs", l.fn.exprs.Len()),
		slog.Int("stmts", l.fn.stmts.Len()),
		slog.Int("vars", l.fn.vars.Len()))

	return l.fn, m.failed(before, "function "+decl.Name.Name)
}

// declareVariable allocates a variable and binds it in the current frame.
// A name already bound in the same frame is reported; the earlier binding
// stays visible.
func (l *lowerer) declareVariable(name *ast.Ident, typ *ast.IdentPath, param bool) VarID {
	v := Variable{Name: l.m.Intern(name.Name), Span: name.Span, Param: param}
	if typ != nil {
		v.Type = l.m.Intern(typ.String())
	}
	id := l.fn.vars.Alloc(v)

	if err := l.scope.Declare(v.Name, id); err != nil {
		if !errors.Is(err, ErrDuplicateSymbol) {
			panic(err)
		}
		prev, _ := l.scope.LookupLocal(v.Name)
		what := "variable"
		if param {
			what = "parameter"
		}
		l.m.duplicatef(name.Span, "%s `%s` is already declared in this scope (first declared at %s)",
			what, name.Name, spanString(l.fn.vars.Get(prev).Span))
	}
	return id
}

func (l *lowerer) lowerStmt(s ast.Stmt) StmtID {
	span := s.GetSpan()
	switch s := s.(type) {
	case *ast.EmptyStmt:
		return l.fn.addStmt(Empty{}, span)

	case *ast.ExprStmt:
		return l.fn.addStmt(Eval{Expr: l.lowerExpr(s.X)}, span)

	case *ast.LetStmt:
		var init ExprID
		if s.Value != nil {
			init = l.lowerExpr(s.Value)
		}
		v := l.declareVariable(s.Name, s.Type, false)
		return l.fn.addStmt(VarDecl{Variable: v, Init: init}, span)

	case *ast.IfStmt:
		cond := l.lowerExpr(s.Cond)
		then := l.lowerStmt(s.Then)
		var els StmtID
		if s.Else != nil {
			els = l.lowerStmt(s.Else)
		}
		return l.fn.addStmt(If{Cond: cond, Then: then, Else: els}, span)

	case *ast.WhileStmt:
		cond := l.lowerExpr(s.Cond)
		body := l.lowerStmt(s.Body)
		return l.fn.addStmt(While{Cond: cond, Body: body}, span)

	case *ast.BlockStmt:
		l.scope.Push()
		stmts := make([]StmtID, 0, len(s.Stmts))
		for _, child := range s.Stmts {
			stmts = append(stmts, l.lowerStmt(child))
		}
		l.scope.Pop()
		return l.fn.addStmt(Block{Stmts: stmts}, span)

	case *ast.BreakStmt:
		return l.fn.addStmt(Break{}, span)

	case *ast.ContinueStmt:
		return l.fn.addStmt(Continue{}, span)

	case *ast.ReturnStmt:
		var value ExprID
		if s.Value != nil {
			value = l.lowerExpr(s.Value)
		}
		return l.fn.addStmt(Return{Value: value}, span)

	case *ast.UseDecl:
		return l.fn.addStmt(Use{Path: l.m.Intern(s.Path.String())}, span)
	}
	panic(fmt.Sprintf("ir: unexpected statement %T", s))
}

func spanString(s token.Span) string {
	return fmt.Sprintf("%d..%d", s.Start, s.End)
}
