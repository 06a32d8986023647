// Package parser turns haiku source into a syntax tree.
//
// # Usage
//
//	unit, err := parser.Parse("main.hk", src)
//	if err != nil {
//	    // err combines every diagnostic; see diag.Collector
//	}
//
// For control over error reporting build a Parser with a diag.Reporter:
//
//	p := parser.New(src, parser.Config{Path: path, Reporter: diag.NewFailFast()})
//	unit, err := p.ParseUnit()
//
// # Grammar Overview
//
// The parser is recursive descent with one function per precedence level:
//
//	unit       → decl*
//	decl       → use | fn_decl | extern_decl | struct_decl
//	use        → "use" path ";"
//	fn_decl    → "fn" signature ( block | "=" expr ";" )
//	extern_decl→ "extern" "fn" signature ";"
//	struct_decl→ "struct" IDENT "{" ( field ( ";" field )* ";"? )? "}"
//	signature  → IDENT "(" ( field ( "," field )* )? ")" ( "->" path )?
//	field      → IDENT ":" path
//	path       → IDENT ( "::" IDENT )*
//
// Statement and expression rules are listed in parser_stmt.go and
// parser_expr.go.
//
// # Error Recovery
//
// A failing rule reports one diagnostic and returns its error up to the
// nearest recovery point: the statement loop of a block, or the top-level
// declaration loop. Recovery skips tokens to a statement or declaration
// boundary and continues, unless the Reporter asked to stop.
package parser

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/haiku/pkg/ast"
	"github.com/leapstack-labs/haiku/pkg/diag"
	"github.com/leapstack-labs/haiku/pkg/lexer"
	"github.com/leapstack-labs/haiku/pkg/token"
)

// invalidToken is what peek reports while the cursor sits on a lexical error.
const invalidToken token.TokenType = -1

// Config holds parser settings. The zero value is usable.
type Config struct {
	Path     string        // used in diagnostics and to name the unit
	Reporter diag.Reporter // receives diagnostics; defaults to diag.Discard
	Logger   *slog.Logger  // defaults to a discarding logger
}

// Parser parses one source text.
type Parser struct {
	stream   *lexer.Stream
	path     string
	reporter *diag.Counter
	logger   *slog.Logger

	lexErr   *diag.Diagnostic // reported lexical error under the cursor
	comments []token.Comment  // comments skipped since the last declaration
}

// New creates a parser positioned at the start of src.
func New(src string, cfg Config) *Parser {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	reporter := cfg.Reporter
	if reporter == nil {
		reporter = diag.Discard
	}
	return &Parser{
		stream:   lexer.NewStream(src),
		path:     cfg.Path,
		reporter: &diag.Counter{Reporter: reporter},
		logger:   logger,
	}
}

// Parse parses a whole compilation unit and collects every diagnostic.
// The returned error combines the error diagnostics (see diag.Collector.Err);
// the unit is returned even when it is incomplete.
func Parse(path, src string) (*ast.CompilationUnit, error) {
	c := diag.NewCollector(0)
	unit, _ := New(src, Config{Path: path, Reporter: c}).ParseUnit()
	return unit, c.Err()
}

// ParseExpr parses src as a single expression.
func ParseExpr(src string) (ast.Expr, error) {
	c := diag.NewCollector(0)
	e, _ := New(src, Config{Reporter: c}).ParseExpr()
	return e, c.Err()
}

// ErrorCount returns the number of error diagnostics reported so far.
func (p *Parser) ErrorCount() int {
	return p.reporter.Errors
}

// result returns the error for a finished parse.
func (p *Parser) result() error {
	if p.reporter.Errors == 0 {
		return nil
	}
	name := p.path
	if name == "" {
		name = "<input>"
	}
	return fmt.Errorf("%w: %s: %d error(s)", ErrParse, name, p.reporter.Errors)
}

// stopped returns true once the reporter asked to stop.
func (p *Parser) stopped() bool {
	return p.reporter.Stopped
}

// unitName derives the unit name from its path: the file name without
// directory and extension.
func unitName(path string) string {
	base := filepath.Base(path)
	if path == "" || base == "." {
		return ""
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ---------- Token Helpers ----------

// current returns the token under the cursor, skipping comments. A lexical
// error under the cursor is reported once and returned as the error.
func (p *Parser) current() (token.Token, error) {
	for {
		tok, err := p.stream.Current()
		if err != nil {
			if p.lexErr == nil {
				p.lexErr = diag.Wrap(diag.KindLexical, p.stream.Span(), err)
				p.lexErr.Path = p.path
				p.reporter.Report(p.lexErr)
			}
			return tok, p.lexErr
		}
		if c, ok := token.CommentOf(tok); ok {
			p.comments = append(p.comments, c)
			p.stream.Advance()
			continue
		}
		return tok, nil
	}
}

// currentSpan returns the span of the token or error under the cursor.
func (p *Parser) currentSpan() token.Span {
	_, _ = p.current()
	return p.stream.Span()
}

// advance consumes the token or error under the cursor.
func (p *Parser) advance() {
	p.stream.Advance()
	p.lexErr = nil
}

// peek returns the type of the current token without consuming it.
func (p *Parser) peek() token.TokenType {
	tok, err := p.current()
	if err != nil {
		return invalidToken
	}
	return tok.Type
}

// check returns true if the current token is of the given type.
func (p *Parser) check(t token.TokenType) bool {
	return p.peek() == t
}

// match consumes the current token if it matches and returns true.
func (p *Parser) match(t token.TokenType) bool {
	if p.check(t) {
		p.advance()
		return true
	}
	return false
}

// eat consumes and returns the current token if it has the expected type.
// Otherwise it reports "expected <description>" at the current span without
// consuming anything.
func (p *Parser) eat(expected token.TokenType, description string) (token.Token, error) {
	tok, err := p.current()
	if err != nil {
		return tok, err
	}
	if tok.Type != expected {
		return tok, p.errorf(tok.Span, ErrExpected, description)
	}
	p.advance()
	return tok, nil
}

// errorf reports a syntax error and returns it.
func (p *Parser) errorf(span token.Span, format string, args ...any) error {
	d := diag.New(diag.KindSyntax, span, format, args...)
	d.Path = p.path
	p.reporter.Report(d)
	return d
}

// takeComments returns and clears the comments skipped so far.
func (p *Parser) takeComments() []token.Comment {
	c := p.comments
	p.comments = nil
	return c
}

// ---------- Recovery ----------

// isDeclStart returns true for tokens that can only begin a top-level
// declaration.
func isDeclStart(t token.TokenType) bool {
	switch t {
	case token.FN, token.EXTERN, token.STRUCT:
		return true
	}
	return false
}

// syncStmt skips to just after the next `;` at the current brace depth, or
// to the `}` closing the enclosing block, a declaration keyword, or EOF.
func (p *Parser) syncStmt() {
	depth := 0
	for {
		switch p.peek() {
		case token.EOF:
			return
		case token.SEMICOLON:
			p.advance()
			if depth == 0 {
				return
			}
			continue
		case token.LBRACE:
			depth++
		case token.RBRACE:
			if depth == 0 {
				return
			}
			depth--
		case token.FN, token.EXTERN, token.STRUCT:
			if depth == 0 {
				return
			}
		}
		p.advance()
	}
}

// syncDecl skips to the next declaration keyword at brace depth zero that
// starts after offset, or to EOF.
func (p *Parser) syncDecl(offset int) {
	depth := 0
	for {
		tok, err := p.current()
		if err == nil {
			switch tok.Type {
			case token.EOF:
				return
			case token.LBRACE:
				depth++
			case token.RBRACE:
				depth = max(0, depth-1)
			case token.FN, token.EXTERN, token.STRUCT, token.USE:
				if depth == 0 && tok.Span.Start > offset {
					return
				}
			}
		}
		p.advance()
	}
}

// ---------- Entry Points ----------

// ParseUnit parses declarations until EOF.
func (p *Parser) ParseUnit() (*ast.CompilationUnit, error) {
	unit := &ast.CompilationUnit{
		Path: p.path,
		Name: unitName(p.path),
	}
	unit.Span = token.NewSpan(0, len(p.stream.Source()))

	for {
		tok, err := p.current()
		if err == nil && tok.Type == token.EOF {
			break
		}
		if err == nil {
			var decl ast.Decl
			decl, err = p.parseDecl()
			if err == nil {
				unit.Decls = append(unit.Decls, decl)
				p.comments = nil
				continue
			}
		}
		if p.stopped() {
			break
		}
		p.syncDecl(tok.Span.Start)
	}

	p.logger.Debug("parsed unit",
		slog.String("path", p.path),
		slog.Int("decls", len(unit.Decls)),
		slog.Int("errors", p.reporter.Errors))
	return unit, p.result()
}

// ParseExpr parses a single expression that must span the whole input.
func (p *Parser) ParseExpr() (ast.Expr, error) {
	e, err := p.parseExpr()
	if err != nil {
		return nil, p.result()
	}
	if !p.check(token.EOF) {
		_ = p.errorf(p.currentSpan(), ErrTrailingInput)
	}
	return e, p.result()
}

// ParseStmts parses statements until EOF, recovering at statement
// boundaries.
func (p *Parser) ParseStmts() ([]ast.Stmt, error) {
	var stmts []ast.Stmt
	for !p.check(token.EOF) {
		s, err := p.parseStmt()
		if err != nil {
			if p.stopped() {
				break
			}
			if isDeclStart(p.peek()) {
				p.advance()
			}
			p.syncStmt()
			if p.check(token.RBRACE) {
				p.advance()
			}
			continue
		}
		stmts = append(stmts, s)
	}
	return stmts, p.result()
}
