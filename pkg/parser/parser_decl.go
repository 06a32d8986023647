package parser

import (
	"github.com/leapstack-labs/haiku/pkg/ast"
	"github.com/leapstack-labs/haiku/pkg/token"
)

// parseDecl parses one top-level declaration. Comments seen since the
// previous declaration become its doc comments.
func (p *Parser) parseDecl() (ast.Decl, error) {
	tok, err := p.current()
	if err != nil {
		return nil, err
	}
	doc := p.takeComments()

	switch tok.Type {
	case token.USE:
		return p.parseUse()
	case token.FN:
		return p.parseFunc(doc)
	case token.EXTERN:
		return p.parseExtern(doc)
	case token.STRUCT:
		return p.parseStruct(doc)
	}
	return nil, p.errorf(tok.Span, ErrTopLevel)
}

// parseFunc parses a function definition. The body is a block or the
// shorthand `= expr;`.
func (p *Parser) parseFunc(doc []token.Comment) (ast.Decl, error) {
	fnTok, _ := p.current()
	p.advance()

	sig, err := p.parseSignature()
	if err != nil {
		return nil, err
	}
	fn := &ast.FuncDecl{Signature: sig, Doc: doc}

	switch p.peek() {
	case token.LBRACE:
		body, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		fn.Body = body
	case token.ASSIGN:
		p.advance()
		x, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		semi, err := p.eat(token.SEMICOLON, "`;` after function body expression")
		if err != nil {
			return nil, err
		}
		fn.Body = &ast.ExprStmt{NodeInfo: ast.NodeInfo{Span: x.GetSpan().To(semi.Span)}, X: x}
		fn.ExprBody = true
	default:
		return nil, p.errorf(p.currentSpan(), ErrFuncBody)
	}

	fn.Span = fnTok.Span.To(fn.Body.GetSpan())
	return fn, nil
}

// parseExtern parses `extern fn signature;`.
func (p *Parser) parseExtern(doc []token.Comment) (ast.Decl, error) {
	externTok, _ := p.current()
	p.advance()

	if _, err := p.eat(token.FN, "`fn` after `extern`"); err != nil {
		return nil, err
	}
	sig, err := p.parseSignature()
	if err != nil {
		return nil, err
	}
	semi, err := p.eat(token.SEMICOLON, "`;` after extern function prototype")
	if err != nil {
		return nil, err
	}
	return &ast.ExternFuncDecl{
		NodeInfo:  ast.NodeInfo{Span: externTok.Span.To(semi.Span)},
		Signature: sig,
		Doc:       doc,
	}, nil
}

// parseSignature parses a function name, parameter list and return type.
func (p *Parser) parseSignature() (ast.Signature, error) {
	var sig ast.Signature
	var err error

	if sig.Name, err = p.parseIdent("function name"); err != nil {
		return sig, err
	}
	if _, err = p.eat(token.LPAREN, "`(` after function name"); err != nil {
		return sig, err
	}
	if !p.check(token.RPAREN) {
		for {
			param, err := p.parseField("parameter name")
			if err != nil {
				return sig, err
			}
			sig.Params = append(sig.Params, param)
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	if _, err = p.eat(token.RPAREN, "`,` or `)` in parameter list"); err != nil {
		return sig, err
	}
	if p.match(token.ARROW) {
		if sig.ReturnType, err = p.parsePath("return type after `->`"); err != nil {
			return sig, err
		}
	}
	return sig, nil
}

// parseStruct parses a struct declaration. Members are separated by `;`
// and a trailing `;` is allowed.
func (p *Parser) parseStruct(doc []token.Comment) (ast.Decl, error) {
	structTok, _ := p.current()
	p.advance()

	name, err := p.parseIdent("struct name")
	if err != nil {
		return nil, err
	}
	if _, err := p.eat(token.LBRACE, "`{` after struct name"); err != nil {
		return nil, err
	}

	decl := &ast.StructDecl{Name: name, Doc: doc}
	for !p.check(token.RBRACE) {
		member, err := p.parseField("member name")
		if err != nil {
			return nil, err
		}
		decl.Members = append(decl.Members, member)
		if !p.match(token.SEMICOLON) {
			break
		}
	}

	closing, err := p.eat(token.RBRACE, "`;` or `}` in struct body")
	if err != nil {
		return nil, err
	}
	decl.Span = structTok.Span.To(closing.Span)
	return decl, nil
}

// parseField parses `name: type`.
func (p *Parser) parseField(description string) (*ast.Field, error) {
	name, err := p.parseIdent(description)
	if err != nil {
		return nil, err
	}
	if _, err := p.eat(token.COLON, "`:` after "+description); err != nil {
		return nil, err
	}
	typ, err := p.parsePath("type name")
	if err != nil {
		return nil, err
	}
	return &ast.Field{NodeInfo: ast.NodeInfo{Span: name.Span.To(typ.Span)}, Name: name, Type: typ}, nil
}
