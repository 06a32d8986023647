package lexer

import (
	"strings"
	"unicode/utf8"

	"github.com/leapstack-labs/haiku/pkg/token"
)

// readString reads a double-quoted string literal and decodes its escapes.
// A line break or the end of input before the closing quote yields an
// UnterminatedString error spanning from the opening quote. An invalid escape
// is reported after the rest of the literal has been consumed.
func (l *Lexer) readString(start int) (token.Token, error) {
	l.readChar() // skip opening quote

	var (
		result strings.Builder
		escErr *Error
	)
	for {
		if l.atEOF() || l.ch == '\n' || l.ch == '\r' {
			return token.Token{}, &Error{
				Kind:   UnterminatedString,
				Span:   token.NewSpan(start, l.pos),
				Text:   l.input[start:l.pos],
				Reason: "missing closing quote",
			}
		}
		if l.ch == '"' {
			l.readChar() // skip closing quote
			break
		}
		if l.ch == '\\' {
			escStart := l.pos
			r, ok := l.readEscape()
			if !ok {
				if escErr == nil {
					escErr = &Error{
						Kind: InvalidEscape,
						Span: token.NewSpan(escStart, l.pos),
						Text: l.input[escStart:l.pos],
					}
				}
				continue
			}
			result.WriteRune(r)
			continue
		}
		result.WriteByte(l.ch)
		l.readChar()
	}

	if escErr != nil {
		return token.Token{}, escErr
	}
	return token.Token{
		Type:    token.STRING,
		Literal: l.input[start:l.pos],
		Span:    token.NewSpan(start, l.pos),
		Text:    result.String(),
	}, nil
}

// readEscape reads one escape sequence starting at a backslash.
// Supported: \n \r \t \\ \" and \uXXXX with exactly four hex digits.
// A line break after the backslash is left in place so the caller can report
// the literal as unterminated.
func (l *Lexer) readEscape() (rune, bool) {
	l.readChar() // skip '\'
	if l.atEOF() || l.ch == '\n' || l.ch == '\r' {
		return 0, false
	}

	switch l.ch {
	case 'n':
		l.readChar()
		return '\n', true
	case 'r':
		l.readChar()
		return '\r', true
	case 't':
		l.readChar()
		return '\t', true
	case '\\':
		l.readChar()
		return '\\', true
	case '"':
		l.readChar()
		return '"', true
	case 'u':
		l.readChar()
		var r rune
		for range 4 {
			d, ok := hexValue(l.ch)
			if !ok || l.atEOF() {
				return 0, false
			}
			r = r<<4 | rune(d)
			l.readChar()
		}
		if !utf8.ValidRune(r) {
			return 0, false
		}
		return r, true
	}

	_, size := utf8.DecodeRuneInString(l.input[l.pos:])
	for range size {
		l.readChar()
	}
	return 0, false
}

func hexValue(ch byte) (byte, bool) {
	switch {
	case '0' <= ch && ch <= '9':
		return ch - '0', true
	case 'a' <= ch && ch <= 'f':
		return ch - 'a' + 10, true
	case 'A' <= ch && ch <= 'F':
		return ch - 'A' + 10, true
	}
	return 0, false
}
