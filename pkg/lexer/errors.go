package lexer

import (
	"fmt"

	"github.com/leapstack-labs/haiku/pkg/token"
)

// ErrorKind classifies a lexical error.
type ErrorKind int

// Lexical error kinds.
const (
	UnknownCharacter ErrorKind = iota
	UnterminatedString
	InvalidEscape
	MalformedNumber
	UnterminatedComment
)

func (k ErrorKind) String() string {
	switch k {
	case UnknownCharacter:
		return "unknown character"
	case UnterminatedString:
		return "unterminated string literal"
	case InvalidEscape:
		return "invalid escape sequence"
	case MalformedNumber:
		return "malformed number literal"
	case UnterminatedComment:
		return "unterminated block comment"
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Error is a lexical error carrying the span and text of the offending lexeme.
type Error struct {
	Kind   ErrorKind
	Span   token.Span
	Text   string // offending source text
	Reason string // optional detail, e.g. "value out of range for u8"
}

// Message returns the error text without location information.
func (e *Error) Message() string {
	msg := e.Kind.String()
	switch e.Kind {
	case UnknownCharacter, InvalidEscape, MalformedNumber:
		msg += fmt.Sprintf(" %q", e.Text)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e *Error) Error() string {
	return fmt.Sprintf("lexer error at %d..%d: %s", e.Span.Start, e.Span.End, e.Message())
}

// Reasons attached to malformed number errors.
const (
	ReasonMissingDigits   = "missing %s digits"
	ReasonMissingFraction = "missing digits after decimal point"
	ReasonMissingExponent = "missing exponent digits"
	ReasonInvalidDigit    = "invalid digit %q in %s literal"
	ReasonInvalidSuffix   = "invalid suffix %q"
	ReasonFloatSuffix     = "float suffix %q on %s literal"
	ReasonIntSuffix       = "integer suffix %q on float literal"
	ReasonOutOfRange      = "value out of range for %s"
)
