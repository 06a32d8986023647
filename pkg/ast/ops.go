package ast

import "fmt"

// BinaryOp is a binary operator.
type BinaryOp uint8

// Binary operators. The zero value means "no operator" and is used by
// plain `=` assignments.
const (
	OpAdd BinaryOp = iota + 1
	OpSub
	OpMul
	OpDiv
	OpMod
	OpPow
	OpBitAnd
	OpBitOr
	OpBitXor
	OpShl
	OpShr
	OpLogAnd
	OpLogOr
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
)

var binaryOpNames = map[BinaryOp]string{
	OpAdd:    "+",
	OpSub:    "-",
	OpMul:    "*",
	OpDiv:    "/",
	OpMod:    "%",
	OpPow:    "**",
	OpBitAnd: "&",
	OpBitOr:  "|",
	OpBitXor: "^",
	OpShl:    "<<",
	OpShr:    ">>",
	OpLogAnd: "&&",
	OpLogOr:  "||",
	OpEq:     "==",
	OpNe:     "!=",
	OpLt:     "<",
	OpLe:     "<=",
	OpGt:     ">",
	OpGe:     ">=",
}

func (op BinaryOp) String() string {
	if name, ok := binaryOpNames[op]; ok {
		return name
	}
	return fmt.Sprintf("BinaryOp(%d)", uint8(op))
}

// UnaryOp is a prefix operator.
type UnaryOp uint8

// Unary operators.
const (
	OpPlus UnaryOp = iota + 1
	OpNeg
	OpBitNot
	OpNot
)

func (op UnaryOp) String() string {
	switch op {
	case OpPlus:
		return "+"
	case OpNeg:
		return "-"
	case OpBitNot:
		return "~"
	case OpNot:
		return "!"
	}
	return fmt.Sprintf("UnaryOp(%d)", uint8(op))
}
