// Package scope resolves parameters and local variables inside function
// bodies for the lint rules.
package scope

import "github.com/leapstack-labs/haiku/pkg/ast"

// Binding is one parameter or `let` variable.
type Binding struct {
	Ident *ast.Ident
	Func  *ast.FuncDecl
	Param bool
	// Reads counts the references that read the value. The target of a
	// plain assignment is a write and is not counted.
	Reads int
	// Shadows is the binding of an enclosing scope hidden by this one.
	Shadows *Binding
}

// Name returns the bound name.
func (b *Binding) Name() string {
	return b.Ident.Name
}

// Resolve returns every binding of unit in declaration order. Lookups
// follow the compiler: a `let` is declared after its initializer, and a
// function body is a scope nested inside the parameter scope.
func Resolve(unit *ast.CompilationUnit) []*Binding {
	r := &resolver{}
	for _, d := range unit.Decls {
		if fn, ok := d.(*ast.FuncDecl); ok {
			r.function(fn)
		}
	}
	return r.all
}

type resolver struct {
	fn     *ast.FuncDecl
	scopes []map[string]*Binding
	all    []*Binding
}

func (r *resolver) push() {
	r.scopes = append(r.scopes, map[string]*Binding{})
}

func (r *resolver) pop() {
	r.scopes = r.scopes[:len(r.scopes)-1]
}

func (r *resolver) lookup(name string) *Binding {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if b, ok := r.scopes[i][name]; ok {
			return b
		}
	}
	return nil
}

func (r *resolver) declare(id *ast.Ident, param bool) {
	if id == nil {
		return
	}
	b := &Binding{Ident: id, Func: r.fn, Param: param}
	top := r.scopes[len(r.scopes)-1]
	if _, redeclared := top[id.Name]; !redeclared {
		b.Shadows = r.lookup(id.Name)
	}
	top[id.Name] = b
	r.all = append(r.all, b)
}

func (r *resolver) function(fn *ast.FuncDecl) {
	r.fn = fn
	r.push()
	defer r.pop()

	for _, p := range fn.Params {
		r.declare(p.Name, true)
	}
	switch body := fn.Body.(type) {
	case *ast.BlockStmt:
		r.stmt(body)
	case *ast.ExprStmt:
		r.expr(body.X)
	}
}

func (r *resolver) stmt(s ast.Stmt) {
	switch s := s.(type) {
	case *ast.LetStmt:
		if s.Value != nil {
			r.expr(s.Value)
		}
		r.declare(s.Name, false)
	case *ast.ExprStmt:
		r.expr(s.X)
	case *ast.ReturnStmt:
		if s.Value != nil {
			r.expr(s.Value)
		}
	case *ast.BlockStmt:
		r.push()
		for _, inner := range s.Stmts {
			r.stmt(inner)
		}
		r.pop()
	case *ast.IfStmt:
		r.expr(s.Cond)
		r.branch(s.Then)
		r.branch(s.Else)
	case *ast.WhileStmt:
		r.expr(s.Cond)
		r.branch(s.Body)
	}
}

// branch resolves the body of an if or while in its own scope.
func (r *resolver) branch(s ast.Stmt) {
	if s == nil {
		return
	}
	if _, ok := s.(*ast.BlockStmt); ok {
		r.stmt(s)
		return
	}
	r.push()
	r.stmt(s)
	r.pop()
}

func (r *resolver) expr(e ast.Expr) {
	switch e := e.(type) {
	case *ast.PathExpr:
		if e.Path.Qualified() {
			return
		}
		if b := r.lookup(e.Path.Name()); b != nil {
			b.Reads++
		}
	case *ast.AssignExpr:
		if _, ok := e.Target.(*ast.PathExpr); !ok || e.Compound() {
			r.expr(e.Target)
		}
		r.expr(e.Value)
	case *ast.BinaryExpr:
		r.expr(e.Left)
		r.expr(e.Right)
	case *ast.UnaryExpr:
		r.expr(e.Operand)
	case *ast.MemberExpr:
		r.expr(e.Owner)
	case *ast.IndexExpr:
		r.expr(e.Owner)
		r.expr(e.Index)
	case *ast.CallExpr:
		r.expr(e.Callee)
		for _, a := range e.Args {
			r.expr(a)
		}
	}
}
