package ast

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/leapstack-labs/haiku/pkg/token"
)

const indentSize = 2

// printer renders a syntax tree as an indented outline, one node per line.
type printer struct {
	output      *bytes.Buffer
	depth       int
	atLineStart bool
	spans       bool
}

func newPrinter(spans bool) *printer {
	return &printer{
		output:      &bytes.Buffer{},
		atLineStart: true,
		spans:       spans,
	}
}

func (p *printer) write(s string) {
	if p.atLineStart && len(s) > 0 {
		p.writeIndent()
	}
	p.output.WriteString(s)
	p.atLineStart = false
}

func (p *printer) writeln() {
	p.output.WriteByte('\n')
	p.atLineStart = true
}

func (p *printer) writeIndent() {
	p.output.WriteString(strings.Repeat(" ", p.depth*indentSize))
	p.atLineStart = false
}

func (p *printer) indent() {
	p.depth++
}

func (p *printer) dedent() {
	if p.depth > 0 {
		p.depth--
	}
}

// line writes one node label followed by its span.
func (p *printer) line(span token.Span, format string, args ...any) {
	p.write(fmt.Sprintf(format, args...))
	if p.spans {
		p.write(fmt.Sprintf(" @%d..%d", span.Start, span.End))
	}
	p.writeln()
}

// child prints a labelled child one level deeper.
func (p *printer) child(label string, fn func()) {
	p.write(label + ":")
	p.writeln()
	p.indent()
	fn()
	p.dedent()
}

// Fprint writes an outline of n to w, including spans.
func Fprint(w io.Writer, n Node) error {
	p := newPrinter(true)
	p.node(n)
	_, err := w.Write(p.output.Bytes())
	return err
}

// Sprint returns the outline of n without spans.
func Sprint(n Node) string {
	p := newPrinter(false)
	p.node(n)
	return p.output.String()
}

func (p *printer) node(n Node) {
	switch n := n.(type) {
	case *CompilationUnit:
		p.line(n.Span, "CompilationUnit %s", n.Name)
		p.indent()
		for _, d := range n.Decls {
			p.node(d)
		}
		p.dedent()
	case Decl:
		p.decl(n)
	case Stmt:
		p.stmt(n)
	case Expr:
		p.expr(n)
	case *Field:
		p.line(n.Span, "Field %s: %s", n.Name.Name, n.Type)
	case *IdentPath:
		p.line(n.Span, "IdentPath %s", n)
	case *Ident:
		p.line(n.Span, "Ident %s", n.Name)
	default:
		p.line(token.Span{}, "%T", n)
	}
}

func (p *printer) decl(d Decl) {
	switch d := d.(type) {
	case *UseDecl:
		p.line(d.Span, "UseDecl %s", d.Path)
	case *FuncDecl:
		p.line(d.Span, "FuncDecl %s", signatureString(&d.Signature))
		p.indent()
		p.stmt(d.Body)
		p.dedent()
	case *ExternFuncDecl:
		p.line(d.Span, "ExternFuncDecl %s", signatureString(&d.Signature))
	case *StructDecl:
		p.line(d.Span, "StructDecl %s", d.Name.Name)
		p.indent()
		for _, m := range d.Members {
			p.node(m)
		}
		p.dedent()
	}
}

func signatureString(sig *Signature) string {
	var b strings.Builder
	b.WriteString(sig.Name.Name)
	b.WriteByte('(')
	for i, f := range sig.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s: %s", f.Name.Name, f.Type)
	}
	b.WriteByte(')')
	if sig.ReturnType != nil {
		b.WriteString(" -> " + sig.ReturnType.String())
	}
	return b.String()
}

func (p *printer) stmt(s Stmt) {
	switch s := s.(type) {
	case *EmptyStmt:
		p.line(s.Span, "EmptyStmt")
	case *ExprStmt:
		p.line(s.Span, "ExprStmt")
		p.indent()
		p.expr(s.X)
		p.dedent()
	case *LetStmt:
		if s.Type != nil {
			p.line(s.Span, "LetStmt %s: %s", s.Name.Name, s.Type)
		} else {
			p.line(s.Span, "LetStmt %s", s.Name.Name)
		}
		if s.Value != nil {
			p.indent()
			p.expr(s.Value)
			p.dedent()
		}
	case *IfStmt:
		p.line(s.Span, "IfStmt")
		p.indent()
		p.child("cond", func() { p.expr(s.Cond) })
		p.child("then", func() { p.stmt(s.Then) })
		if s.Else != nil {
			p.child("else", func() { p.stmt(s.Else) })
		}
		p.dedent()
	case *WhileStmt:
		p.line(s.Span, "WhileStmt")
		p.indent()
		p.child("cond", func() { p.expr(s.Cond) })
		p.child("body", func() { p.stmt(s.Body) })
		p.dedent()
	case *BlockStmt:
		p.line(s.Span, "BlockStmt")
		p.indent()
		for _, inner := range s.Stmts {
			p.stmt(inner)
		}
		p.dedent()
	case *BreakStmt:
		p.line(s.Span, "BreakStmt")
	case *ContinueStmt:
		p.line(s.Span, "ContinueStmt")
	case *ReturnStmt:
		p.line(s.Span, "ReturnStmt")
		if s.Value != nil {
			p.indent()
			p.expr(s.Value)
			p.dedent()
		}
	case *UseDecl:
		p.line(s.Span, "UseDecl %s", s.Path)
	}
}

func (p *printer) expr(e Expr) {
	switch e := e.(type) {
	case *BinaryExpr:
		p.line(e.Span, "BinaryExpr %s", e.Op)
		p.indent()
		p.expr(e.Left)
		p.expr(e.Right)
		p.dedent()
	case *UnaryExpr:
		p.line(e.Span, "UnaryExpr %s", e.Op)
		p.indent()
		p.expr(e.Operand)
		p.dedent()
	case *AssignExpr:
		if e.Compound() {
			p.line(e.Span, "AssignExpr %s=", e.Op)
		} else {
			p.line(e.Span, "AssignExpr =")
		}
		p.indent()
		p.expr(e.Target)
		p.expr(e.Value)
		p.dedent()
	case *MemberExpr:
		p.line(e.Span, "MemberExpr .%s", e.Member.Name)
		p.indent()
		p.expr(e.Owner)
		p.dedent()
	case *IndexExpr:
		p.line(e.Span, "IndexExpr")
		p.indent()
		p.expr(e.Owner)
		p.expr(e.Index)
		p.dedent()
	case *CallExpr:
		p.line(e.Span, "CallExpr")
		p.indent()
		p.expr(e.Callee)
		if len(e.Args) > 0 {
			p.child("args", func() {
				for _, a := range e.Args {
					p.expr(a)
				}
			})
		}
		p.dedent()
	case *IntLit, *FloatLit, *BoolLit, *StringLit, *PathExpr:
		p.line(e.GetSpan(), "%s", ExprString(e))
	}
}

// ExprString renders an expression on one line with every compound
// expression parenthesized, e.g. `(a = (b + (c * d)))`.
func ExprString(e Expr) string {
	var b strings.Builder
	writeExpr(&b, e)
	return b.String()
}

func writeExpr(b *strings.Builder, e Expr) {
	switch e := e.(type) {
	case *BinaryExpr:
		b.WriteByte('(')
		writeExpr(b, e.Left)
		b.WriteString(" " + e.Op.String() + " ")
		writeExpr(b, e.Right)
		b.WriteByte(')')
	case *UnaryExpr:
		b.WriteByte('(')
		b.WriteString(e.Op.String())
		writeExpr(b, e.Operand)
		b.WriteByte(')')
	case *AssignExpr:
		b.WriteByte('(')
		writeExpr(b, e.Target)
		if e.Compound() {
			b.WriteString(" " + e.Op.String() + "= ")
		} else {
			b.WriteString(" = ")
		}
		writeExpr(b, e.Value)
		b.WriteByte(')')
	case *MemberExpr:
		writeExpr(b, e.Owner)
		b.WriteString("." + e.Member.Name)
	case *IndexExpr:
		writeExpr(b, e.Owner)
		b.WriteByte('[')
		writeExpr(b, e.Index)
		b.WriteByte(']')
	case *CallExpr:
		writeExpr(b, e.Callee)
		b.WriteByte('(')
		for i, a := range e.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			writeExpr(b, a)
		}
		b.WriteByte(')')
	case *IntLit:
		b.WriteString(e.Value.String())
	case *FloatLit:
		b.WriteString(e.Value.String())
	case *BoolLit:
		b.WriteString(strconv.FormatBool(e.Value))
	case *StringLit:
		b.WriteString(strconv.Quote(e.Value))
	case *PathExpr:
		b.WriteString(e.Path.String())
	default:
		fmt.Fprintf(b, "%T", e)
	}
}
