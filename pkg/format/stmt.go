package format

import (
	"github.com/leapstack-labs/haiku/pkg/ast"
	"github.com/leapstack-labs/haiku/pkg/token"
)

func (p *Printer) formatUnit(unit *ast.CompilationUnit) {
	var prev ast.Decl
	for _, d := range unit.Decls {
		blank := prev != nil && (spacious(prev) || spacious(d))
		p.item(d, blank, func() { p.formatDecl(d) })
		prev = d
	}
	p.formatComments(p.deco.Rest)
}

// spacious reports whether d is always set apart by a blank line.
func spacious(d ast.Decl) bool {
	switch d := d.(type) {
	case *ast.FuncDecl:
		return !d.ExprBody
	case *ast.StructDecl:
		return true
	}
	return false
}

// item prints one declaration, statement or struct member on its own
// line(s) together with its comments. blank forces a preceding blank line.
func (p *Printer) item(n ast.Node, blank bool, body func()) {
	leading := p.deco.Leading[n]
	start := n.GetSpan().Start
	if len(leading) > 0 {
		start = leading[0].Span.Start
	}
	if blank {
		p.writeln()
		p.last = -1
	} else {
		p.separate(start)
		p.last = -1
	}
	p.formatComments(leading)
	p.separate(n.GetSpan().Start)

	body()
	p.formatTrailingComments(p.deco.Trailing[n])
	if !p.atLineStart {
		p.writeln()
	}
	if end := n.GetSpan().End; end > p.last {
		p.last = end
	}
}

func (p *Printer) formatDecl(d ast.Decl) {
	switch d := d.(type) {
	case *ast.UseDecl:
		p.formatUse(d)
	case *ast.ExternFuncDecl:
		p.kw(token.EXTERN, token.FN)
		p.space()
		p.formatSignature(&d.Signature)
		p.write(";")
	case *ast.StructDecl:
		p.formatStruct(d)
	case *ast.FuncDecl:
		p.kw(token.FN)
		p.space()
		p.formatSignature(&d.Signature)
		if d.ExprBody {
			p.write(" = ")
			p.expr(d.Body.(*ast.ExprStmt).X)
			p.write(";")
			return
		}
		p.space()
		p.formatBlock(d.Body.(*ast.BlockStmt))
	}
}

func (p *Printer) formatUse(u *ast.UseDecl) {
	p.kw(token.USE)
	p.space()
	p.write(u.Path.String())
	p.write(";")
}

func (p *Printer) formatSignature(sig *ast.Signature) {
	p.write(sig.Name.Name)
	p.write("(")
	p.formatList(len(sig.Params), func(i int) { p.formatField(sig.Params[i]) }, ", ")
	p.write(")")
	if sig.ReturnType != nil {
		p.write(" -> ")
		p.write(sig.ReturnType.String())
	}
}

func (p *Printer) formatField(f *ast.Field) {
	p.write(f.Name.Name)
	p.write(": ")
	p.write(f.Type.String())
}

func (p *Printer) formatStruct(s *ast.StructDecl) {
	p.kw(token.STRUCT)
	p.space()
	p.write(s.Name.Name)
	p.write(" {")

	closing := p.deco.Closing[s]
	if len(s.Members) > 0 || len(closing) > 0 {
		p.writeln()
		p.indent()
		p.last = -1
		for _, m := range s.Members {
			p.item(m, false, func() {
				p.formatField(m)
				p.write(";")
			})
		}
		p.formatComments(closing)
		p.dedent()
	}
	p.write("}")
	p.formatTrailingComments(p.deco.ClosingTrailing[s])
}

func (p *Printer) formatBlock(b *ast.BlockStmt) {
	p.write("{")

	closing := p.deco.Closing[b]
	if len(b.Stmts) > 0 || len(closing) > 0 {
		p.writeln()
		p.indent()
		p.last = -1
		for _, s := range b.Stmts {
			p.item(s, false, func() { p.formatStmt(s) })
		}
		p.formatComments(closing)
		p.dedent()
	}
	p.write("}")
	p.formatTrailingComments(p.deco.ClosingTrailing[b])
	if b.Span.End > p.last {
		p.last = b.Span.End
	}
}

func (p *Printer) formatStmt(s ast.Stmt) {
	switch s := s.(type) {
	case *ast.EmptyStmt:
		p.write(";")
	case *ast.ExprStmt:
		p.expr(s.X)
		p.write(";")
	case *ast.LetStmt:
		p.kw(token.LET)
		p.space()
		p.write(s.Name.Name)
		if s.Type != nil {
			p.write(": ")
			p.write(s.Type.String())
		}
		if s.Value != nil {
			p.write(" = ")
			p.expr(s.Value)
		}
		p.write(";")
	case *ast.UseDecl:
		p.formatUse(s)
	case *ast.BlockStmt:
		p.formatBlock(s)
	case *ast.IfStmt:
		p.formatIf(s)
	case *ast.WhileStmt:
		p.kw(token.WHILE)
		p.cond(s.Cond)
		p.formatBody(s.Body)
	case *ast.BreakStmt:
		p.kw(token.BREAK)
		p.write(";")
	case *ast.ContinueStmt:
		p.kw(token.CONTINUE)
		p.write(";")
	case *ast.ReturnStmt:
		p.kw(token.RETURN)
		if s.Value != nil {
			p.space()
			p.expr(s.Value)
		}
		p.write(";")
	}
}

func (p *Printer) formatIf(s *ast.IfStmt) {
	p.kw(token.IF)
	p.cond(s.Cond)
	p.formatBody(s.Then)
	if s.Else == nil {
		return
	}

	// A comment after the closing brace of Then pushes else to a new line.
	then, isBlock := s.Then.(*ast.BlockStmt)
	if isBlock && len(p.deco.ClosingTrailing[then]) == 0 {
		p.space()
	} else if !p.atLineStart {
		p.writeln()
	}
	p.kw(token.ELSE)

	if elseIf, ok := s.Else.(*ast.IfStmt); ok {
		p.space()
		p.formatIf(elseIf)
		return
	}
	p.formatBody(s.Else)
}

// cond prints the parenthesized condition of an if or while.
func (p *Printer) cond(e ast.Expr) {
	p.space()
	p.write("(")
	p.expr(e)
	p.write(")")
}

// formatBody prints the body of an if, else or while. Blocks continue the
// header line; any other statement goes on its own indented line.
func (p *Printer) formatBody(s ast.Stmt) {
	if b, ok := s.(*ast.BlockStmt); ok {
		p.space()
		p.formatBlock(b)
		return
	}
	p.writeln()
	p.indent()
	p.last = -1
	p.item(s, false, func() { p.formatStmt(s) })
	p.dedent()
}
