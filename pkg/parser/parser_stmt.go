package parser

import (
	"github.com/leapstack-labs/haiku/pkg/ast"
	"github.com/leapstack-labs/haiku/pkg/token"
)

// Statement parsing.
//
//	stmt     → ";" | block | let | if | while | "break" ";" | "continue" ";"
//	         | return | use | expr ";"
//	block    → "{" stmt* "}"
//	let      → "let" IDENT ( ":" path )? ( "=" expr )? ";"   type or value required
//	if       → "if" "(" expr ")" stmt ( "else" stmt )?
//	while    → "while" "(" expr ")" stmt
//	return   → "return" expr? ";"

// parseStmt dispatches on the first token of a statement.
func (p *Parser) parseStmt() (ast.Stmt, error) {
	tok, err := p.current()
	if err != nil {
		return nil, err
	}

	switch tok.Type {
	case token.SEMICOLON:
		p.advance()
		return &ast.EmptyStmt{NodeInfo: ast.NodeInfo{Span: tok.Span}}, nil
	case token.LBRACE:
		return p.parseBlock()
	case token.LET:
		return p.parseLet()
	case token.IF:
		return p.parseIf()
	case token.WHILE:
		return p.parseWhile()
	case token.BREAK:
		p.advance()
		semi, err := p.eat(token.SEMICOLON, "`;` after `break`")
		if err != nil {
			return nil, err
		}
		return &ast.BreakStmt{NodeInfo: ast.NodeInfo{Span: tok.Span.To(semi.Span)}}, nil
	case token.CONTINUE:
		p.advance()
		semi, err := p.eat(token.SEMICOLON, "`;` after `continue`")
		if err != nil {
			return nil, err
		}
		return &ast.ContinueStmt{NodeInfo: ast.NodeInfo{Span: tok.Span.To(semi.Span)}}, nil
	case token.RETURN:
		return p.parseReturn()
	case token.USE:
		return p.parseUse()
	case token.FN, token.EXTERN, token.STRUCT:
		return nil, p.errorf(tok.Span, ErrDeclInBlock)
	}

	x, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	semi, err := p.eat(token.SEMICOLON, "`;` after expression")
	if err != nil {
		return nil, err
	}
	return &ast.ExprStmt{NodeInfo: ast.NodeInfo{Span: x.GetSpan().To(semi.Span)}, X: x}, nil
}

// parseBlock parses a braced statement list. A failing statement is skipped
// up to the next statement boundary so the rest of the block is still
// checked.
func (p *Parser) parseBlock() (*ast.BlockStmt, error) {
	opening, err := p.eat(token.LBRACE, "`{`")
	if err != nil {
		return nil, err
	}

	block := &ast.BlockStmt{}
	for {
		t := p.peek()
		if t == token.RBRACE {
			break
		}
		if t == token.EOF || isDeclStart(t) {
			return nil, p.errorf(p.currentSpan(), ErrUnclosedBlock)
		}

		s, err := p.parseStmt()
		if err != nil {
			if p.stopped() {
				return nil, err
			}
			p.syncStmt()
			continue
		}
		block.Stmts = append(block.Stmts, s)
	}

	closing, _ := p.current()
	p.advance()
	block.Span = opening.Span.To(closing.Span)
	return block, nil
}

// parseLet parses a variable declaration.
func (p *Parser) parseLet() (ast.Stmt, error) {
	letTok, _ := p.current()
	p.advance()

	name, err := p.parseIdent("variable name after `let`")
	if err != nil {
		return nil, err
	}
	stmt := &ast.LetStmt{Name: name}

	if p.match(token.COLON) {
		if stmt.Type, err = p.parsePath("type name"); err != nil {
			return nil, err
		}
	}
	if p.match(token.ASSIGN) {
		if stmt.Value, err = p.parseExpr(); err != nil {
			return nil, err
		}
	}
	if stmt.Type == nil && stmt.Value == nil {
		return nil, p.errorf(p.currentSpan(), ErrLetForm)
	}

	semi, err := p.eat(token.SEMICOLON, "`;` after variable declaration")
	if err != nil {
		return nil, err
	}
	stmt.Span = letTok.Span.To(semi.Span)
	return stmt, nil
}

// parseIf parses a conditional with an optional else branch.
func (p *Parser) parseIf() (ast.Stmt, error) {
	ifTok, _ := p.current()
	p.advance()

	cond, err := p.parseCond("`if`")
	if err != nil {
		return nil, err
	}
	then, err := p.parseStmt()
	if err != nil {
		return nil, err
	}

	stmt := &ast.IfStmt{Cond: cond, Then: then}
	stmt.Span = ifTok.Span.To(then.GetSpan())
	if p.match(token.ELSE) {
		if stmt.Else, err = p.parseStmt(); err != nil {
			return nil, err
		}
		stmt.Span = stmt.Span.To(stmt.Else.GetSpan())
	}
	return stmt, nil
}

// parseWhile parses a loop.
func (p *Parser) parseWhile() (ast.Stmt, error) {
	whileTok, _ := p.current()
	p.advance()

	cond, err := p.parseCond("`while`")
	if err != nil {
		return nil, err
	}
	body, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	return &ast.WhileStmt{
		NodeInfo: ast.NodeInfo{Span: whileTok.Span.To(body.GetSpan())},
		Cond:     cond,
		Body:     body,
	}, nil
}

// parseCond parses the parenthesized condition following keyword.
func (p *Parser) parseCond(keyword string) (ast.Expr, error) {
	if _, err := p.eat(token.LPAREN, "`(` after "+keyword); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.eat(token.RPAREN, "`)` after "+keyword+" condition"); err != nil {
		return nil, err
	}
	return cond, nil
}

// parseReturn parses `return;` or `return expr;`.
func (p *Parser) parseReturn() (ast.Stmt, error) {
	retTok, _ := p.current()
	p.advance()

	stmt := &ast.ReturnStmt{}
	if !p.check(token.SEMICOLON) {
		var err error
		if stmt.Value, err = p.parseExpr(); err != nil {
			return nil, err
		}
	}
	semi, err := p.eat(token.SEMICOLON, "`;` after return statement")
	if err != nil {
		return nil, err
	}
	stmt.Span = retTok.Span.To(semi.Span)
	return stmt, nil
}

// parseUse parses `use path;`.
func (p *Parser) parseUse() (*ast.UseDecl, error) {
	useTok, _ := p.current()
	p.advance()

	path, err := p.parsePath("module path after `use`")
	if err != nil {
		return nil, err
	}
	semi, err := p.eat(token.SEMICOLON, "`;` after use declaration")
	if err != nil {
		return nil, err
	}
	return &ast.UseDecl{NodeInfo: ast.NodeInfo{Span: useTok.Span.To(semi.Span)}, Path: path}, nil
}
