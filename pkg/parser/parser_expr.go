package parser

import (
	"github.com/leapstack-labs/haiku/pkg/ast"
	"github.com/leapstack-labs/haiku/pkg/token"
)

// Expression parsing by precedence climbing, one function per level.
//
// Levels from lowest to highest binding:
//
//	assignment  → logical_or ( ASSIGN_OP assignment )?     right-assoc
//	logical_or  → logical_and ( "||" logical_and )*
//	logical_and → bit_or ( "&&" bit_or )*
//	bit_or      → bit_xor ( "|" bit_xor )*
//	bit_xor     → bit_and ( "^" bit_and )*
//	bit_and     → equality ( "&" equality )*
//	equality    → relational ( ( "==" | "!=" ) relational )*
//	relational  → shift ( ( "<" | "<=" | ">" | ">=" ) shift )*
//	shift       → additive ( ( "<<" | ">>" ) additive )*
//	additive    → multiplicative ( ( "+" | "-" ) multiplicative )*
//	multiplicative → unary ( ( "*" | "/" | "%" ) unary )*
//	unary       → ( "+" | "-" | "~" | "!" ) unary | power
//	power       → postfix ( "**" unary )?                  right-assoc
//	postfix     → atom ( "." IDENT | "[" expr "]" | "(" args? ")" )*
//	atom        → literal | path | "(" expr ")"
//
// Every compound node spans from the start of its first child to the end of
// its last child or closing token.

var assignOps = map[token.TokenType]ast.BinaryOp{
	token.ASSIGN:         0,
	token.PLUS_ASSIGN:    ast.OpAdd,
	token.MINUS_ASSIGN:   ast.OpSub,
	token.STAR_ASSIGN:    ast.OpMul,
	token.SLASH_ASSIGN:   ast.OpDiv,
	token.PERCENT_ASSIGN: ast.OpMod,
	token.POW_ASSIGN:     ast.OpPow,
	token.AMP_ASSIGN:     ast.OpBitAnd,
	token.PIPE_ASSIGN:    ast.OpBitOr,
	token.CARET_ASSIGN:   ast.OpBitXor,
	token.SHL_ASSIGN:     ast.OpShl,
	token.SHR_ASSIGN:     ast.OpShr,
}

var (
	logicalOrOps      = map[token.TokenType]ast.BinaryOp{token.LOR: ast.OpLogOr}
	logicalAndOps     = map[token.TokenType]ast.BinaryOp{token.LAND: ast.OpLogAnd}
	bitOrOps          = map[token.TokenType]ast.BinaryOp{token.PIPE: ast.OpBitOr}
	bitXorOps         = map[token.TokenType]ast.BinaryOp{token.CARET: ast.OpBitXor}
	bitAndOps         = map[token.TokenType]ast.BinaryOp{token.AMP: ast.OpBitAnd}
	equalityOps       = map[token.TokenType]ast.BinaryOp{token.EQ: ast.OpEq, token.NE: ast.OpNe}
	relationalOps     = map[token.TokenType]ast.BinaryOp{token.LT: ast.OpLt, token.LE: ast.OpLe, token.GT: ast.OpGt, token.GE: ast.OpGe}
	shiftOps          = map[token.TokenType]ast.BinaryOp{token.SHL: ast.OpShl, token.SHR: ast.OpShr}
	additiveOps       = map[token.TokenType]ast.BinaryOp{token.PLUS: ast.OpAdd, token.MINUS: ast.OpSub}
	multiplicativeOps = map[token.TokenType]ast.BinaryOp{token.STAR: ast.OpMul, token.SLASH: ast.OpDiv, token.PERCENT: ast.OpMod}

	unaryOps = map[token.TokenType]ast.UnaryOp{
		token.PLUS:  ast.OpPlus,
		token.MINUS: ast.OpNeg,
		token.TILDE: ast.OpBitNot,
		token.BANG:  ast.OpNot,
	}
)

func span(from, to ast.Node) ast.NodeInfo {
	return ast.NodeInfo{Span: from.GetSpan().To(to.GetSpan())}
}

// parseExpr parses a full expression.
func (p *Parser) parseExpr() (ast.Expr, error) {
	return p.parseAssignment()
}

// parseAssignment parses an assignment. The target must be addressable and
// the value side recurses, making assignment right associative.
func (p *Parser) parseAssignment() (ast.Expr, error) {
	left, err := p.parseLogicalOr()
	if err != nil {
		return nil, err
	}

	op, ok := assignOps[p.peek()]
	if !ok {
		return left, nil
	}
	opTok, _ := p.current()
	if !ast.IsAddressable(left) {
		return nil, p.errorf(left.GetSpan(), ErrNotAssignable, opTok.Literal)
	}
	p.advance()

	right, err := p.parseAssignment()
	if err != nil {
		return nil, err
	}
	return &ast.AssignExpr{NodeInfo: span(left, right), Target: left, Op: op, Value: right}, nil
}

// parseBinary parses a left-associative chain of the given operators with
// next as the operand parser.
func (p *Parser) parseBinary(ops map[token.TokenType]ast.BinaryOp, next func() (ast.Expr, error)) (ast.Expr, error) {
	left, err := next()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := ops[p.peek()]
		if !ok {
			return left, nil
		}
		p.advance()

		right, err := next()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{NodeInfo: span(left, right), Left: left, Op: op, Right: right}
	}
}

func (p *Parser) parseLogicalOr() (ast.Expr, error) {
	return p.parseBinary(logicalOrOps, p.parseLogicalAnd)
}

func (p *Parser) parseLogicalAnd() (ast.Expr, error) {
	return p.parseBinary(logicalAndOps, p.parseBitOr)
}

func (p *Parser) parseBitOr() (ast.Expr, error) {
	return p.parseBinary(bitOrOps, p.parseBitXor)
}

func (p *Parser) parseBitXor() (ast.Expr, error) {
	return p.parseBinary(bitXorOps, p.parseBitAnd)
}

func (p *Parser) parseBitAnd() (ast.Expr, error) {
	return p.parseBinary(bitAndOps, p.parseEquality)
}

func (p *Parser) parseEquality() (ast.Expr, error) {
	return p.parseBinary(equalityOps, p.parseRelational)
}

func (p *Parser) parseRelational() (ast.Expr, error) {
	return p.parseBinary(relationalOps, p.parseShift)
}

func (p *Parser) parseShift() (ast.Expr, error) {
	return p.parseBinary(shiftOps, p.parseAdditive)
}

func (p *Parser) parseAdditive() (ast.Expr, error) {
	return p.parseBinary(additiveOps, p.parseMultiplicative)
}

func (p *Parser) parseMultiplicative() (ast.Expr, error) {
	return p.parseBinary(multiplicativeOps, p.parseUnary)
}

// parseUnary parses prefix operators. They bind looser than `**`, so
// `-2 ** 2` is `-(2 ** 2)`.
func (p *Parser) parseUnary() (ast.Expr, error) {
	op, ok := unaryOps[p.peek()]
	if !ok {
		return p.parsePower()
	}
	opTok, _ := p.current()
	p.advance()

	operand, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return &ast.UnaryExpr{
		NodeInfo: ast.NodeInfo{Span: opTok.Span.To(operand.GetSpan())},
		Op:       op,
		Operand:  operand,
	}, nil
}

// parsePower parses `**`. The exponent is a unary expression, which in turn
// reaches back to parsePower, so `a ** b ** c` is `a ** (b ** c)`.
func (p *Parser) parsePower() (ast.Expr, error) {
	base, err := p.parsePostfix()
	if err != nil {
		return nil, err
	}
	if !p.match(token.POW) {
		return base, nil
	}

	exponent, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return &ast.BinaryExpr{NodeInfo: span(base, exponent), Left: base, Op: ast.OpPow, Right: exponent}, nil
}

// parsePostfix parses member access, indexing and calls applied to an atom.
func (p *Parser) parsePostfix() (ast.Expr, error) {
	expr, err := p.parseAtom()
	if err != nil {
		return nil, err
	}

	for {
		switch p.peek() {
		case token.DOT:
			p.advance()
			member, err := p.parseIdent("member name after `.`")
			if err != nil {
				return nil, err
			}
			expr = &ast.MemberExpr{NodeInfo: span(expr, member), Owner: expr, Member: member}

		case token.LBRACKET:
			p.advance()
			index, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			closing, err := p.eat(token.RBRACKET, "`]` after index")
			if err != nil {
				return nil, err
			}
			expr = &ast.IndexExpr{
				NodeInfo: ast.NodeInfo{Span: expr.GetSpan().To(closing.Span)},
				Owner:    expr,
				Index:    index,
			}

		case token.LPAREN:
			call, err := p.parseCall(expr)
			if err != nil {
				return nil, err
			}
			expr = call

		default:
			return expr, nil
		}
	}
}

// parseCall parses an argument list applied to callee.
//
//	args → expr ( "," expr )*
func (p *Parser) parseCall(callee ast.Expr) (ast.Expr, error) {
	opening, err := p.eat(token.LPAREN, "`(`")
	if err != nil {
		return nil, err
	}

	var args []ast.Expr
	if !p.check(token.RPAREN) {
		for {
			arg, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if !p.match(token.COMMA) {
				break
			}
		}
	}

	closing, err := p.eat(token.RPAREN, "`,` or `)` in argument list")
	if err != nil {
		return nil, err
	}
	argsSpan := opening.Span.To(closing.Span)
	return &ast.CallExpr{
		NodeInfo: ast.NodeInfo{Span: callee.GetSpan().To(argsSpan)},
		Callee:   callee,
		Args:     args,
		ArgsSpan: argsSpan,
	}, nil
}

// parseAtom parses a literal, an identifier path or a parenthesized
// expression. Parentheses only group; the inner expression is returned.
func (p *Parser) parseAtom() (ast.Expr, error) {
	tok, err := p.current()
	if err != nil {
		return nil, err
	}

	info := ast.NodeInfo{Span: tok.Span}
	switch tok.Type {
	case token.INT:
		p.advance()
		return &ast.IntLit{NodeInfo: info, Value: tok.Int}, nil
	case token.FLOAT:
		p.advance()
		return &ast.FloatLit{NodeInfo: info, Value: tok.Float}, nil
	case token.STRING:
		p.advance()
		return &ast.StringLit{NodeInfo: info, Value: tok.Text}, nil
	case token.TRUE, token.FALSE:
		p.advance()
		return &ast.BoolLit{NodeInfo: info, Value: tok.Type == token.TRUE}, nil
	case token.IDENT:
		path, err := p.parsePath("identifier")
		if err != nil {
			return nil, err
		}
		return &ast.PathExpr{NodeInfo: path.NodeInfo, Path: path}, nil
	case token.LPAREN:
		p.advance()
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.eat(token.RPAREN, "`)` to close parenthesized expression"); err != nil {
			return nil, err
		}
		return inner, nil
	}

	return nil, p.errorf(tok.Span, ErrAtom)
}

// ---------- Identifiers ----------

// parseIdent parses a single identifier.
func (p *Parser) parseIdent(description string) (*ast.Ident, error) {
	tok, err := p.eat(token.IDENT, description)
	if err != nil {
		return nil, err
	}
	return &ast.Ident{NodeInfo: ast.NodeInfo{Span: tok.Span}, Name: tok.Literal}, nil
}

// parsePath parses a `::`-qualified identifier path.
func (p *Parser) parsePath(description string) (*ast.IdentPath, error) {
	first, err := p.parseIdent(description)
	if err != nil {
		return nil, err
	}
	path := &ast.IdentPath{Segments: []*ast.Ident{first}}
	for p.match(token.DCOLON) {
		next, err := p.parseIdent("identifier after `::`")
		if err != nil {
			return nil, err
		}
		path.Segments = append(path.Segments, next)
	}
	path.Span = first.Span.To(path.Segments[len(path.Segments)-1].Span)
	return path, nil
}
