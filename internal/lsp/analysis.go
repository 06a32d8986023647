package lsp

import (
	"context"
	"fmt"
	"strings"

	"github.com/leapstack-labs/haiku/internal/engine"
	"github.com/leapstack-labs/haiku/pkg/ast"
	"github.com/leapstack-labs/haiku/pkg/diag"
	"github.com/leapstack-labs/haiku/pkg/token"
)

// BindingKind classifies a named declaration.
type BindingKind int

// Binding kinds.
const (
	BindingFunction BindingKind = iota
	BindingExtern
	BindingStruct
	BindingMember
	BindingParam
	BindingLocal
	BindingImport
)

// Binding is a name introduced by a declaration, with the byte range in
// which references to the name resolve to it.
type Binding struct {
	Name     string
	Kind     BindingKind
	Detail   string
	Doc      string
	Decl     token.Span
	NameSpan token.Span
	Visible  token.Span
	Children []*Binding
}

// Analysis is the compiled form of one document version.
type Analysis struct {
	Result   *engine.Result
	Lint     []*diag.Diagnostic // lint findings, empty unless a linter is configured
	Tokens   []token.Token
	Decls    []*Binding // top-level declarations in source order
	bindings []*Binding // every binding, members included
}

// Analyze compiles src and indexes its declarations.
func Analyze(ctx context.Context, eng *engine.Engine, path, src string) *Analysis {
	result := eng.Compile(ctx, path, src)
	toks, _ := eng.Tokenize(path, src)

	a := &Analysis{Result: result, Tokens: toks}
	if result.Unit != nil {
		c := &collector{fileEnd: len(src)}
		c.unit(result.Unit)
		a.Decls = c.decls
		a.bindings = c.all
	}
	return a
}

// TokenAt returns the non-comment token touching offset. A cursor just
// past the end of a token still touches it.
func (a *Analysis) TokenAt(offset int) (token.Token, bool) {
	var found token.Token
	ok := false
	for _, tok := range a.Tokens {
		if tok.Type == token.EOF || token.IsComment(tok.Type) {
			continue
		}
		if tok.Span.Start > offset {
			break
		}
		if tok.Span.Contains(offset) {
			return tok, true
		}
		if tok.Span.End == offset {
			found, ok = tok, true
		}
	}
	return found, ok
}

// Resolve finds the binding that name refers to at offset. A name right
// after `.` resolves to a struct member when exactly one struct declares it.
func (a *Analysis) Resolve(tok token.Token) *Binding {
	if tok.Type != token.IDENT {
		return nil
	}
	name := tok.Literal
	offset := tok.Span.Start

	for _, b := range a.bindings {
		if b.NameSpan == tok.Span {
			return b
		}
	}

	if a.afterDot(tok) {
		var match *Binding
		for _, b := range a.bindings {
			if b.Kind == BindingMember && b.Name == name {
				if match != nil {
					return nil
				}
				match = b
			}
		}
		return match
	}

	var best *Binding
	for _, b := range a.bindings {
		if b.Kind == BindingMember || b.Name != name || !b.Visible.Contains(offset) {
			continue
		}
		if best == nil || b.Visible.Start >= best.Visible.Start {
			best = b
		}
	}
	return best
}

// VisibleAt returns the bindings in scope at offset, innermost first for
// shadowed names.
func (a *Analysis) VisibleAt(offset int) []*Binding {
	byName := make(map[string]*Binding)
	var order []string
	for _, b := range a.bindings {
		if b.Kind == BindingMember || !b.Visible.Contains(offset) {
			continue
		}
		prev, seen := byName[b.Name]
		if !seen {
			order = append(order, b.Name)
		}
		if !seen || b.Visible.Start >= prev.Visible.Start {
			byName[b.Name] = b
		}
	}
	out := make([]*Binding, len(order))
	for i, name := range order {
		out[i] = byName[name]
	}
	return out
}

func (a *Analysis) afterDot(tok token.Token) bool {
	var prev token.Token
	for _, t := range a.Tokens {
		if t.Span.Start >= tok.Span.Start {
			break
		}
		if !token.IsComment(t.Type) {
			prev = t
		}
	}
	return prev.Type == token.DOT
}

// collector gathers bindings from a syntax tree.
type collector struct {
	fileEnd int
	decls   []*Binding
	all     []*Binding
}

func (c *collector) add(b *Binding) *Binding {
	c.all = append(c.all, b)
	return b
}

func (c *collector) unit(unit *ast.CompilationUnit) {
	file := token.NewSpan(0, c.fileEnd)
	for _, d := range unit.Decls {
		switch d := d.(type) {
		case *ast.FuncDecl:
			b := c.add(signatureBinding(BindingFunction, &d.Signature, d.Span, d.Doc, file))
			if block, ok := d.Body.(*ast.BlockStmt); ok && block != nil {
				b.Children = c.params(&d.Signature, block.Span)
				c.block(block)
			} else if d.Body != nil {
				b.Children = c.params(&d.Signature, d.Body.GetSpan())
			}
			c.decls = append(c.decls, b)

		case *ast.ExternFuncDecl:
			c.decls = append(c.decls, c.add(signatureBinding(BindingExtern, &d.Signature, d.Span, d.Doc, file)))

		case *ast.StructDecl:
			if d.Name == nil {
				continue
			}
			b := c.add(&Binding{
				Name:     d.Name.Name,
				Kind:     BindingStruct,
				Detail:   "struct " + d.Name.Name,
				Doc:      docText(d.Doc),
				Decl:     d.Span,
				NameSpan: d.Name.Span,
				Visible:  file,
			})
			for _, m := range d.Members {
				b.Children = append(b.Children, c.add(fieldBinding(BindingMember, m, d.Span)))
			}
			c.decls = append(c.decls, b)

		case *ast.UseDecl:
			c.decls = append(c.decls, c.add(useBinding(d, file)))
		}
	}
}

func (c *collector) params(sig *ast.Signature, body token.Span) []*Binding {
	var out []*Binding
	for _, p := range sig.Params {
		out = append(out, c.add(fieldBinding(BindingParam, p, body)))
	}
	return out
}

func (c *collector) block(block *ast.BlockStmt) {
	for _, s := range block.Stmts {
		c.stmt(s, block.Span.End)
	}
}

// stmt collects the bindings of s, which stay visible until scopeEnd.
func (c *collector) stmt(s ast.Stmt, scopeEnd int) {
	switch s := s.(type) {
	case *ast.LetStmt:
		if s.Name == nil {
			return
		}
		detail := "let " + s.Name.Name
		if s.Type != nil {
			detail += ": " + s.Type.String()
		}
		c.add(&Binding{
			Name:     s.Name.Name,
			Kind:     BindingLocal,
			Detail:   detail,
			Decl:     s.Span,
			NameSpan: s.Name.Span,
			Visible:  token.NewSpan(s.Span.End, scopeEnd),
		})

	case *ast.UseDecl:
		c.add(useBinding(s, token.NewSpan(s.Span.End, scopeEnd)))

	case *ast.BlockStmt:
		c.block(s)

	case *ast.IfStmt:
		if s.Then != nil {
			c.stmt(s.Then, s.Then.GetSpan().End)
		}
		if s.Else != nil {
			c.stmt(s.Else, s.Else.GetSpan().End)
		}

	case *ast.WhileStmt:
		if s.Body != nil {
			c.stmt(s.Body, s.Body.GetSpan().End)
		}
	}
}

func signatureBinding(kind BindingKind, sig *ast.Signature, decl token.Span, doc []token.Comment, visible token.Span) *Binding {
	return &Binding{
		Name:     sig.Name.Name,
		Kind:     kind,
		Detail:   signatureString(kind, sig),
		Doc:      docText(doc),
		Decl:     decl,
		NameSpan: sig.Name.Span,
		Visible:  visible,
	}
}

func fieldBinding(kind BindingKind, f *ast.Field, visible token.Span) *Binding {
	return &Binding{
		Name:     f.Name.Name,
		Kind:     kind,
		Detail:   f.Name.Name + ": " + f.Type.String(),
		Decl:     f.Span,
		NameSpan: f.Name.Span,
		Visible:  visible,
	}
}

func useBinding(u *ast.UseDecl, visible token.Span) *Binding {
	last := u.Path.Segments[len(u.Path.Segments)-1]
	return &Binding{
		Name:     last.Name,
		Kind:     BindingImport,
		Detail:   "use " + u.Path.String(),
		Decl:     u.Span,
		NameSpan: last.Span,
		Visible:  visible,
	}
}

func signatureString(kind BindingKind, sig *ast.Signature) string {
	var sb strings.Builder
	if kind == BindingExtern {
		sb.WriteString("extern ")
	}
	fmt.Fprintf(&sb, "fn %s(", sig.Name.Name)
	for i, p := range sig.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%s: %s", p.Name.Name, p.Type.String())
	}
	sb.WriteString(")")
	if sig.ReturnType != nil {
		sb.WriteString(" -> " + sig.ReturnType.String())
	}
	return sb.String()
}

func docText(comments []token.Comment) string {
	lines := make([]string, 0, len(comments))
	for _, c := range comments {
		lines = append(lines, strings.TrimSpace(c.Text))
	}
	return strings.Join(lines, "\n")
}
