// Package lexer turns source text into tokens.
//
// The lexer is lazy: each call to Next scans exactly one lexeme. Whitespace
// is skipped, comments are returned as tokens, and malformed lexemes are
// returned as *Error values after consuming only their own characters, so
// scanning can always resume with the following input.
package lexer

import (
	"unicode/utf8"

	"github.com/leapstack-labs/haiku/pkg/token"
)

// Lexer tokenizes haiku source.
type Lexer struct {
	input   string
	pos     int  // current position in input
	readPos int  // reading position (after current char)
	ch      byte // current char under examination, 0 at end of input
}

// New creates a new Lexer for the given input.
func New(input string) *Lexer {
	l := &Lexer{input: input}
	l.readChar()
	return l
}

// Source returns the text being scanned.
func (l *Lexer) Source() string {
	return l.input
}

// readChar advances to the next character.
func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = min(l.readPos, len(l.input))
	l.readPos++
}

// peekChar returns the next character without advancing.
func (l *Lexer) peekChar() byte {
	return l.peekCharN(1)
}

// peekCharN returns the character n positions ahead of the current one.
func (l *Lexer) peekCharN(n int) byte {
	if l.pos+n >= len(l.input) {
		return 0
	}
	return l.input[l.pos+n]
}

func (l *Lexer) atEOF() bool {
	return l.pos >= len(l.input)
}

// Next returns the next token or the lexical error for the next lexeme.
// Once the input is exhausted every call returns an EOF token whose span is
// the empty span at the end of the input.
func (l *Lexer) Next() (token.Token, error) {
	l.skipWhitespace()

	start := l.pos
	if l.atEOF() {
		end := len(l.input)
		return token.Token{Type: token.EOF, Span: token.NewSpan(end, end)}, nil
	}

	switch l.ch {
	case '"':
		return l.readString(start)
	case '/':
		switch l.peekChar() {
		case '/':
			return l.readLineComment(start), nil
		case '*':
			return l.readBlockComment(start)
		}
	}

	switch {
	case isDigit(l.ch):
		return l.readNumber(start)
	case isLetter(l.ch) || l.ch == '_':
		lit := l.readIdentifier()
		return token.Token{Type: token.LookupIdent(lit), Literal: lit, Span: token.NewSpan(start, l.pos)}, nil
	}

	if typ, n := l.operator(); n > 0 {
		return l.emit(start, typ, n), nil
	}

	_, size := utf8.DecodeRuneInString(l.input[l.pos:])
	for range size {
		l.readChar()
	}
	return token.Token{}, &Error{
		Kind: UnknownCharacter,
		Span: token.NewSpan(start, l.pos),
		Text: l.input[start:l.pos],
	}
}

// operator matches the longest punctuation or operator at the current
// position and returns its type and byte length. n is 0 when nothing matches.
func (l *Lexer) operator() (typ token.TokenType, n int) {
	next := l.peekChar()
	switch l.ch {
	case ';':
		return token.SEMICOLON, 1
	case '{':
		return token.LBRACE, 1
	case '}':
		return token.RBRACE, 1
	case '(':
		return token.LPAREN, 1
	case ')':
		return token.RPAREN, 1
	case '[':
		return token.LBRACKET, 1
	case ']':
		return token.RBRACKET, 1
	case '.':
		return token.DOT, 1
	case ',':
		return token.COMMA, 1
	case '~':
		return token.TILDE, 1
	case ':':
		if next == ':' {
			return token.DCOLON, 2
		}
		return token.COLON, 1
	case '=':
		if next == '=' {
			return token.EQ, 2
		}
		return token.ASSIGN, 1
	case '!':
		if next == '=' {
			return token.NE, 2
		}
		return token.BANG, 1
	case '+':
		return l.withAssign(token.PLUS, token.PLUS_ASSIGN)
	case '-':
		if next == '>' {
			return token.ARROW, 2
		}
		return l.withAssign(token.MINUS, token.MINUS_ASSIGN)
	case '*':
		if next == '*' {
			if l.peekCharN(2) == '=' {
				return token.POW_ASSIGN, 3
			}
			return token.POW, 2
		}
		return l.withAssign(token.STAR, token.STAR_ASSIGN)
	case '/':
		return l.withAssign(token.SLASH, token.SLASH_ASSIGN)
	case '%':
		return l.withAssign(token.PERCENT, token.PERCENT_ASSIGN)
	case '^':
		return l.withAssign(token.CARET, token.CARET_ASSIGN)
	case '&':
		if next == '&' {
			return token.LAND, 2
		}
		return l.withAssign(token.AMP, token.AMP_ASSIGN)
	case '|':
		if next == '|' {
			return token.LOR, 2
		}
		return l.withAssign(token.PIPE, token.PIPE_ASSIGN)
	case '<':
		if next == '<' {
			if l.peekCharN(2) == '=' {
				return token.SHL_ASSIGN, 3
			}
			return token.SHL, 2
		}
		return l.withAssign(token.LT, token.LE)
	case '>':
		if next == '>' {
			if l.peekCharN(2) == '=' {
				return token.SHR_ASSIGN, 3
			}
			return token.SHR, 2
		}
		return l.withAssign(token.GT, token.GE)
	}
	return 0, 0
}

// withAssign picks between a single-character operator and its `=` form.
func (l *Lexer) withAssign(plain, assign token.TokenType) (token.TokenType, int) {
	if l.peekChar() == '=' {
		return assign, 2
	}
	return plain, 1
}

// emit consumes n characters and returns a token of the given type.
func (l *Lexer) emit(start int, typ token.TokenType, n int) token.Token {
	for range n {
		l.readChar()
	}
	return token.Token{Type: typ, Literal: l.input[start:l.pos], Span: token.NewSpan(start, l.pos)}
}

// skipWhitespace skips spaces, tabs, newlines, carriage returns and form feeds.
func (l *Lexer) skipWhitespace() {
	for !l.atEOF() && (l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' || l.ch == '\f') {
		l.readChar()
	}
}

// readLineComment reads a // comment up to, not including, the line break.
func (l *Lexer) readLineComment(start int) token.Token {
	l.readChar() // skip '/'
	l.readChar() // skip '/'
	for !l.atEOF() && l.ch != '\n' && l.ch != '\r' {
		l.readChar()
	}
	return token.Token{
		Type:    token.LINE_COMMENT,
		Literal: l.input[start:l.pos],
		Span:    token.NewSpan(start, l.pos),
		Text:    l.input[start+2 : l.pos],
	}
}

// readBlockComment reads a /* */ comment. Block comments do not nest.
func (l *Lexer) readBlockComment(start int) (token.Token, error) {
	l.readChar() // skip '/'
	l.readChar() // skip '*'
	for !l.atEOF() {
		if l.ch == '*' && l.peekChar() == '/' {
			l.readChar() // skip '*'
			l.readChar() // skip '/'
			return token.Token{
				Type:    token.BLOCK_COMMENT,
				Literal: l.input[start:l.pos],
				Span:    token.NewSpan(start, l.pos),
				Text:    l.input[start+2 : l.pos-2],
			}, nil
		}
		l.readChar()
	}
	return token.Token{}, &Error{
		Kind: UnterminatedComment,
		Span: token.NewSpan(start, l.pos),
		Text: l.input[start:l.pos],
	}
}

// readIdentifier reads an identifier or keyword.
func (l *Lexer) readIdentifier() string {
	start := l.pos
	for isIdentChar(l.ch) {
		l.readChar()
	}
	return l.input[start:l.pos]
}

// isLetter returns true if ch is an ASCII letter.
func isLetter(ch byte) bool {
	return ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z')
}

// isDigit returns true if ch is a decimal digit.
func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentChar(ch byte) bool {
	return isLetter(ch) || isDigit(ch) || ch == '_'
}

// Tokenize scans the whole input and returns every token, ending with EOF,
// together with every lexical error encountered along the way.
func Tokenize(input string) ([]token.Token, []*Error) {
	l := New(input)
	var (
		tokens []token.Token
		errs   []*Error
	)
	for {
		tok, err := l.Next()
		if err != nil {
			errs = append(errs, err.(*Error))
			continue
		}
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			return tokens, errs
		}
	}
}
