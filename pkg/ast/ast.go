// Package ast defines the syntax tree produced by the parser.
//
// Each syntactic category is a sealed interface (Expr, Stmt, Decl) satisfied
// by pointer node types. Every node embeds NodeInfo and therefore knows its
// source span.
package ast

import (
	"strings"

	"github.com/leapstack-labs/haiku/pkg/token"
)

// Node is implemented by every syntax tree node.
type Node interface {
	GetSpan() token.Span
}

// Expr represents an expression.
type Expr interface {
	Node
	exprNode()
}

// Stmt represents a statement inside a function body.
type Stmt interface {
	Node
	stmtNode()
}

// Decl represents a top-level declaration.
type Decl interface {
	Node
	declNode()
}

// NodeInfo provides the span shared by all nodes.
type NodeInfo struct {
	Span token.Span
}

// GetSpan returns the node's source span.
func (n *NodeInfo) GetSpan() token.Span {
	return n.Span
}

// Ident is a single identifier.
type Ident struct {
	NodeInfo
	Name string
}

// IdentPath is a `::`-qualified identifier path such as `io::print`.
type IdentPath struct {
	NodeInfo
	Segments []*Ident
}

// Name returns the last segment of the path.
func (p *IdentPath) Name() string {
	return p.Segments[len(p.Segments)-1].Name
}

// Qualified returns true if the path has more than one segment.
func (p *IdentPath) Qualified() bool {
	return len(p.Segments) > 1
}

// String joins the segments with `::`.
func (p *IdentPath) String() string {
	if len(p.Segments) == 1 {
		return p.Segments[0].Name
	}
	names := make([]string, len(p.Segments))
	for i, s := range p.Segments {
		names[i] = s.Name
	}
	return strings.Join(names, "::")
}

// CompilationUnit is the syntax tree of one source file.
type CompilationUnit struct {
	NodeInfo
	Path  string // as given by the caller, may be empty
	Name  string // file name without directory and extension
	Decls []Decl
}
