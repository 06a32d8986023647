// Package format pretty-prints haiku source in the canonical layout.
//
// Literals and comments are copied from the source text, everything else is
// printed from the syntax tree. Only the parentheses the grammar needs are
// kept.
package format

import (
	"errors"
	"fmt"

	"github.com/leapstack-labs/haiku/pkg/ast"
	"github.com/leapstack-labs/haiku/pkg/lexer"
	"github.com/leapstack-labs/haiku/pkg/parser"
	"github.com/leapstack-labs/haiku/pkg/token"
)

// ErrInvalidSource is returned by Source when the input does not parse.
var ErrInvalidSource = errors.New("source has errors")

// Source parses src and returns it formatted. Sources with lexical or
// syntax errors are not formatted.
func Source(path, src string) (string, error) {
	unit, err := parser.Parse(path, src)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidSource, err)
	}
	return Unit(unit, src, Comments(src)), nil
}

// Unit formats a parsed compilation unit. src must be the text unit was
// parsed from; comments are placed next to the statements they surround.
func Unit(unit *ast.CompilationUnit, src string, comments []token.Comment) string {
	p := newPrinter(src, Decorate(unit, src, comments))
	p.formatUnit(unit)
	return p.String()
}

// Comments returns every comment in src, in source order.
func Comments(src string) []token.Comment {
	toks, _ := lexer.Tokenize(src)
	var out []token.Comment
	for _, tok := range toks {
		if c, ok := token.CommentOf(tok); ok {
			out = append(out, c)
		}
	}
	return out
}
