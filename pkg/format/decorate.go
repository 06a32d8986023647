package format

import (
	"sort"

	"github.com/leapstack-labs/haiku/pkg/ast"
	"github.com/leapstack-labs/haiku/pkg/token"
)

// Decorations maps comments to the lines they are printed on.
//
// A comment is either leading (printed on its own line before a
// declaration, statement, struct member or closing brace) or trailing
// (printed after a single-line item on the same line). Comments after the
// last item end up in Rest.
type Decorations struct {
	Leading  map[ast.Node][]token.Comment
	Trailing map[ast.Node][]token.Comment
	// Closing holds the comments printed before the closing brace of a
	// block or struct, and ClosingTrailing the ones after it.
	Closing         map[ast.Node][]token.Comment
	ClosingTrailing map[ast.Node][]token.Comment
	Rest            []token.Comment
}

type itemKind int

const (
	itemHeader  itemKind = iota // declaration or statement with nested items
	itemSimple                  // single-line declaration, statement or member
	itemClosing                 // `}` of a block or struct
)

type item struct {
	node       ast.Node
	kind       itemKind
	start, end int
}

// Decorate attaches comments to the items of unit by position. A comment
// inside or right after a single-line item on the same line trails it;
// any other comment leads the next item.
func Decorate(unit *ast.CompilationUnit, src string, comments []token.Comment) *Decorations {
	d := &Decorations{
		Leading:         map[ast.Node][]token.Comment{},
		Trailing:        map[ast.Node][]token.Comment{},
		Closing:         map[ast.Node][]token.Comment{},
		ClosingTrailing: map[ast.Node][]token.Comment{},
	}
	if len(comments) == 0 {
		return d
	}

	c := &collector{}
	for _, decl := range unit.Decls {
		c.decl(decl)
	}
	items := c.items
	sort.SliceStable(items, func(i, j int) bool { return items[i].start < items[j].start })

	for _, cm := range comments {
		// Last item starting at or before the comment.
		i := sort.Search(len(items), func(i int) bool { return items[i].start > cm.Span.Start }) - 1
		if i >= 0 && items[i].kind != itemHeader {
			prev := items[i]
			inside := cm.Span.Start < prev.end
			sameLine := lineOf(src, cm.Span.Start) == lineOf(src, prev.end)
			if inside || sameLine {
				d.trail(prev, cm)
				continue
			}
		}
		if i+1 < len(items) {
			d.lead(items[i+1], cm)
			continue
		}
		d.Rest = append(d.Rest, cm)
	}
	return d
}

func (d *Decorations) lead(it item, c token.Comment) {
	if it.kind == itemClosing {
		d.Closing[it.node] = append(d.Closing[it.node], c)
		return
	}
	d.Leading[it.node] = append(d.Leading[it.node], c)
}

func (d *Decorations) trail(it item, c token.Comment) {
	if it.kind == itemClosing {
		d.ClosingTrailing[it.node] = append(d.ClosingTrailing[it.node], c)
		return
	}
	d.Trailing[it.node] = append(d.Trailing[it.node], c)
}

func lineOf(src string, offset int) int {
	if offset > len(src) {
		offset = len(src)
	}
	n := 0
	for i := 0; i < offset; i++ {
		if src[i] == '\n' {
			n++
		}
	}
	return n
}

// collector lists the printable items of a unit.
type collector struct {
	items []item
}

func (c *collector) add(n ast.Node, kind itemKind) {
	s := n.GetSpan()
	c.items = append(c.items, item{node: n, kind: kind, start: s.Start, end: s.End})
}

func (c *collector) closing(n ast.Node) {
	s := n.GetSpan()
	c.items = append(c.items, item{node: n, kind: itemClosing, start: s.End - 1, end: s.End})
}

func (c *collector) decl(d ast.Decl) {
	switch d := d.(type) {
	case *ast.FuncDecl:
		block, ok := d.Body.(*ast.BlockStmt)
		if !ok {
			c.add(d, itemSimple)
			return
		}
		c.add(d, itemHeader)
		c.blockItems(block)
	case *ast.StructDecl:
		c.add(d, itemHeader)
		for _, m := range d.Members {
			c.add(m, itemSimple)
		}
		c.closing(d)
	default:
		c.add(d, itemSimple)
	}
}

func (c *collector) blockItems(b *ast.BlockStmt) {
	for _, s := range b.Stmts {
		c.stmt(s)
	}
	c.closing(b)
}

func (c *collector) stmt(s ast.Stmt) {
	switch s := s.(type) {
	case *ast.BlockStmt:
		c.add(s, itemHeader)
		c.blockItems(s)
	case *ast.IfStmt:
		c.add(s, itemHeader)
		c.ifItems(s)
	case *ast.WhileStmt:
		c.add(s, itemHeader)
		c.branch(s.Body)
	default:
		c.add(s, itemSimple)
	}
}

// ifItems collects the branches of an if. An else-if is printed on the
// line of the preceding `else`, so it has no header item of its own.
func (c *collector) ifItems(s *ast.IfStmt) {
	c.branch(s.Then)
	if elseIf, ok := s.Else.(*ast.IfStmt); ok {
		c.ifItems(elseIf)
	} else if s.Else != nil {
		c.branch(s.Else)
	}
}

// branch collects the body of an if or while. Block bodies are printed
// inline with their header, so only their contents are items.
func (c *collector) branch(s ast.Stmt) {
	if b, ok := s.(*ast.BlockStmt); ok {
		c.blockItems(b)
		return
	}
	c.stmt(s)
}
