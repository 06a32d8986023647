package parser

import "errors"

// ErrParse is wrapped by the error returned from a parse that reported at
// least one error diagnostic.
var ErrParse = errors.New("parse failed")

// Common error messages
const (
	ErrExpected      = "expected %s"
	ErrAtom          = "expected atom (literal, identifier, or expression within parenthesis)"
	ErrTopLevel      = "expected a top-level declaration (`fn`, `extern fn`, `struct` or `use`)"
	ErrLetForm       = "expected colon and type name or assignment in variable declaration"
	ErrNotAssignable = "expected assignable expression on the left of `%s`"
	ErrFuncBody      = "expected function body (`{` or `= expr;`)"
	ErrDeclInBlock   = "expected statement (declarations are only allowed at top level)"
	ErrUnclosedBlock = "expected `}` to close block"
	ErrTrailingInput = "expected end of input"
)
