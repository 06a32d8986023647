package lexer

import "github.com/leapstack-labs/haiku/pkg/token"

// Stream wraps a Lexer with one token of lookahead. Tokens and lexical
// errors travel through the same channel: Current returns either a token or
// an *Error, and both carry a span.
type Stream struct {
	lexer   *Lexer
	current token.Token
	err     error
}

// NewStream creates a stream positioned on the first lexeme of input.
func NewStream(input string) *Stream {
	s := &Stream{lexer: New(input)}
	s.Advance()
	return s
}

// Current returns the lexeme under the cursor without consuming it.
func (s *Stream) Current() (token.Token, error) {
	return s.current, s.err
}

// Span returns the span of the current token or error.
func (s *Stream) Span() token.Span {
	if e, ok := s.err.(*Error); ok {
		return e.Span
	}
	return s.current.Span
}

// Advance moves to the next lexeme. At end of input the stream keeps
// returning EOF.
func (s *Stream) Advance() {
	s.current, s.err = s.lexer.Next()
}

// Source returns the text being scanned.
func (s *Stream) Source() string {
	return s.lexer.Source()
}
