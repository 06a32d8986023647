package format

import (
	"github.com/leapstack-labs/haiku/pkg/ast"
	"github.com/leapstack-labs/haiku/pkg/token"
)

// Binding strength of each expression form, loosest first. The levels
// mirror the parser's precedence climbing.
const (
	precAssign = iota + 1
	precLogOr
	precLogAnd
	precBitOr
	precBitXor
	precBitAnd
	precEquality
	precRelational
	precShift
	precAdditive
	precMultiplicative
	precUnary
	precPower
	precPostfix
	precAtom
)

var binaryPrec = map[ast.BinaryOp]int{
	ast.OpLogOr:  precLogOr,
	ast.OpLogAnd: precLogAnd,
	ast.OpBitOr:  precBitOr,
	ast.OpBitXor: precBitXor,
	ast.OpBitAnd: precBitAnd,
	ast.OpEq:     precEquality,
	ast.OpNe:     precEquality,
	ast.OpLt:     precRelational,
	ast.OpLe:     precRelational,
	ast.OpGt:     precRelational,
	ast.OpGe:     precRelational,
	ast.OpShl:    precShift,
	ast.OpShr:    precShift,
	ast.OpAdd:    precAdditive,
	ast.OpSub:    precAdditive,
	ast.OpMul:    precMultiplicative,
	ast.OpDiv:    precMultiplicative,
	ast.OpMod:    precMultiplicative,
	ast.OpPow:    precPower,
}

func precedence(e ast.Expr) int {
	switch e := e.(type) {
	case *ast.AssignExpr:
		return precAssign
	case *ast.BinaryExpr:
		return binaryPrec[e.Op]
	case *ast.UnaryExpr:
		return precUnary
	case *ast.MemberExpr, *ast.IndexExpr, *ast.CallExpr:
		return precPostfix
	}
	return precAtom
}

// operand prints e, parenthesized when it binds looser than minPrec.
func (p *Printer) operand(e ast.Expr, minPrec int) {
	if precedence(e) < minPrec {
		p.write("(")
		p.expr(e)
		p.write(")")
		return
	}
	p.expr(e)
}

func (p *Printer) expr(e ast.Expr) {
	switch e := e.(type) {
	case *ast.AssignExpr:
		p.operand(e.Target, precPostfix)
		if e.Compound() {
			p.write(" " + e.Op.String() + "= ")
		} else {
			p.write(" = ")
		}
		p.operand(e.Value, precAssign)

	case *ast.BinaryExpr:
		prec := binaryPrec[e.Op]
		if e.Op == ast.OpPow {
			// Right associative; the exponent is a unary expression.
			p.operand(e.Left, precPostfix)
			p.write(" ** ")
			p.operand(e.Right, precUnary)
			return
		}
		p.operand(e.Left, prec)
		p.write(" " + e.Op.String() + " ")
		p.operand(e.Right, prec+1)

	case *ast.UnaryExpr:
		p.write(e.Op.String())
		p.operand(e.Operand, precUnary)

	case *ast.MemberExpr:
		switch e.Owner.(type) {
		case *ast.IntLit, *ast.FloatLit:
			// `1.x` would lex as a number.
			p.write("(")
			p.expr(e.Owner)
			p.write(")")
		default:
			p.operand(e.Owner, precPostfix)
		}
		p.write(".")
		p.write(e.Member.Name)

	case *ast.IndexExpr:
		p.operand(e.Owner, precPostfix)
		p.write("[")
		p.expr(e.Index)
		p.write("]")

	case *ast.CallExpr:
		p.operand(e.Callee, precPostfix)
		p.write("(")
		p.formatList(len(e.Args), func(i int) { p.expr(e.Args[i]) }, ", ")
		p.write(")")

	case *ast.IntLit, *ast.FloatLit, *ast.StringLit:
		p.text(e.GetSpan())

	case *ast.BoolLit:
		if e.Value {
			p.kw(token.TRUE)
		} else {
			p.kw(token.FALSE)
		}

	case *ast.PathExpr:
		p.write(e.Path.String())
	}
}
