// Package token defines the tokens, spans and literal values shared by the
// lexer, parser and IR lowering.
package token

import (
	"fmt"
	"maps"
	"slices"
)

// TokenType represents the type of a lexical token.
//
//nolint:revive // Accept stutter as token.TokenType is clear and widely used
type TokenType int32

//nolint:revive // ALL_CAPS token names mirror the lexical grammar
const (
	// Special tokens
	EOF TokenType = iota

	// Trivia
	LINE_COMMENT  // // ...
	BLOCK_COMMENT // /* ... */

	// Literals
	IDENT  // identifier
	INT    // 123, 0xff_u8
	FLOAT  // 1.5, 2e10f32
	STRING // "hello"

	// Punctuation
	SEMICOLON // ;
	LBRACE    // {
	RBRACE    // }
	LPAREN    // (
	RPAREN    // )
	LBRACKET  // [
	RBRACKET  // ]
	DOT       // .
	COMMA     // ,
	COLON     // :
	DCOLON    // ::
	ARROW     // ->

	// Operators
	ASSIGN         // =
	PLUS           // +
	MINUS          // -
	STAR           // *
	SLASH          // /
	PERCENT        // %
	POW            // **
	PLUS_ASSIGN    // +=
	MINUS_ASSIGN   // -=
	STAR_ASSIGN    // *=
	SLASH_ASSIGN   // /=
	PERCENT_ASSIGN // %=
	POW_ASSIGN     // **=
	AMP            // &
	PIPE           // |
	CARET          // ^
	TILDE          // ~
	SHL            // <<
	SHR            // >>
	AMP_ASSIGN     // &=
	PIPE_ASSIGN    // |=
	CARET_ASSIGN   // ^=
	SHL_ASSIGN     // <<=
	SHR_ASSIGN     // >>=
	LAND           // &&
	LOR            // ||
	BANG           // !
	EQ             // ==
	NE             // !=
	LT             // <
	LE             // <=
	GT             // >
	GE             // >=

	// Keywords (alphabetical)
	BREAK
	CONTINUE
	ELSE
	EXTERN
	FALSE
	FN
	FOR
	IF
	LET
	RETURN
	STRUCT
	TRUE
	USE
	WHILE
)

// String returns a human-readable representation of the token type.
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TOKEN(%d)", t)
}

// tokenNames maps token types to their string representations.
var tokenNames = map[TokenType]string{
	EOF: "EOF",

	LINE_COMMENT:  "LINE_COMMENT",
	BLOCK_COMMENT: "BLOCK_COMMENT",

	IDENT:  "IDENT",
	INT:    "INT",
	FLOAT:  "FLOAT",
	STRING: "STRING",

	SEMICOLON: ";",
	LBRACE:    "{",
	RBRACE:    "}",
	LPAREN:    "(",
	RPAREN:    ")",
	LBRACKET:  "[",
	RBRACKET:  "]",
	DOT:       ".",
	COMMA:     ",",
	COLON:     ":",
	DCOLON:    "::",
	ARROW:     "->",

	ASSIGN:         "=",
	PLUS:           "+",
	MINUS:          "-",
	STAR:           "*",
	SLASH:          "/",
	PERCENT:        "%",
	POW:            "**",
	PLUS_ASSIGN:    "+=",
	MINUS_ASSIGN:   "-=",
	STAR_ASSIGN:    "*=",
	SLASH_ASSIGN:   "/=",
	PERCENT_ASSIGN: "%=",
	POW_ASSIGN:     "**=",
	AMP:            "&",
	PIPE:           "|",
	CARET:          "^",
	TILDE:          "~",
	SHL:            "<<",
	SHR:            ">>",
	AMP_ASSIGN:     "&=",
	PIPE_ASSIGN:    "|=",
	CARET_ASSIGN:   "^=",
	SHL_ASSIGN:     "<<=",
	SHR_ASSIGN:     ">>=",
	LAND:           "&&",
	LOR:            "||",
	BANG:           "!",
	EQ:             "==",
	NE:             "!=",
	LT:             "<",
	LE:             "<=",
	GT:             ">",
	GE:             ">=",

	BREAK:    "break",
	CONTINUE: "continue",
	ELSE:     "else",
	EXTERN:   "extern",
	FALSE:    "false",
	FN:       "fn",
	FOR:      "for",
	IF:       "if",
	LET:      "let",
	RETURN:   "return",
	STRUCT:   "struct",
	TRUE:     "true",
	USE:      "use",
	WHILE:    "while",
}

// keywords maps keyword spellings to their token types. Keywords are
// case-sensitive.
var keywords = map[string]TokenType{
	"break":    BREAK,
	"continue": CONTINUE,
	"else":     ELSE,
	"extern":   EXTERN,
	"false":    FALSE,
	"fn":       FN,
	"for":      FOR,
	"if":       IF,
	"let":      LET,
	"return":   RETURN,
	"struct":   STRUCT,
	"true":     TRUE,
	"use":      USE,
	"while":    WHILE,
}

// LookupIdent returns the token type for the given identifier.
// If the identifier is a keyword, the keyword token type is returned.
// Otherwise, IDENT is returned.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// Keywords returns the keyword spellings in sorted order.
func Keywords() []string {
	return slices.Sorted(maps.Keys(keywords))
}

// IsKeyword returns true if the token type is a keyword.
func IsKeyword(t TokenType) bool {
	return t >= BREAK && t <= WHILE
}

// IsOperator returns true if the token type is punctuation or an operator.
func IsOperator(t TokenType) bool {
	return t >= SEMICOLON && t <= GE
}

// IsComment returns true for line and block comments.
func IsComment(t TokenType) bool {
	return t == LINE_COMMENT || t == BLOCK_COMMENT
}

// IsAssignment returns true for `=` and every compound assignment operator.
func IsAssignment(t TokenType) bool {
	switch t {
	case ASSIGN, PLUS_ASSIGN, MINUS_ASSIGN, STAR_ASSIGN, SLASH_ASSIGN,
		PERCENT_ASSIGN, POW_ASSIGN, AMP_ASSIGN, PIPE_ASSIGN, CARET_ASSIGN,
		SHL_ASSIGN, SHR_ASSIGN:
		return true
	}
	return false
}

// Token represents a lexical token with its source span.
type Token struct {
	Type    TokenType
	Literal string // raw source text of the token
	Span    Span

	Text  string     // decoded value of a STRING, body of a comment
	Int   IntValue   // value of an INT
	Float FloatValue // value of a FLOAT
}

// String renders the token for debugging output.
func (t Token) String() string {
	switch t.Type {
	case EOF:
		return "EOF"
	case INT:
		return fmt.Sprintf("INT(%s)", t.Int)
	case FLOAT:
		return fmt.Sprintf("FLOAT(%s)", t.Float)
	case STRING:
		return fmt.Sprintf("STRING(%q)", t.Text)
	case IDENT:
		return fmt.Sprintf("IDENT(%s)", t.Literal)
	}
	return t.Type.String()
}
