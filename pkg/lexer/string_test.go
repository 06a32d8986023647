package lexer_test

import (
	"testing"

	"github.com/leapstack-labs/haiku/pkg/lexer"
	"github.com/leapstack-labs/haiku/pkg/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------- String Literal Tests ----------

func TestStringEscapes(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{`""`, ""},
		{`"hello"`, "hello"},
		{`"a\nb"`, "a\nb"},
		{`"\r\t\\\""`, "\r\t\\\""},
		{`"\u0041\u00e9"`, "Aé"},
		{`"héllo"`, "héllo"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			tok, err := lexOne(t, tt.src)
			require.NoError(t, err)
			assert.Equal(t, token.STRING, tok.Type)
			assert.Equal(t, tt.want, tok.Text)
			assert.Equal(t, tt.src, tok.Literal)
		})
	}
}

func TestInvalidEscape(t *testing.T) {
	tests := []struct {
		src  string
		text string
		span token.Span
	}{
		{`"a\qb"`, `\q`, token.NewSpan(2, 4)},
		{`"\u12"`, `\u12`, token.NewSpan(1, 5)},
		{`"\uD800"`, `\uD800`, token.NewSpan(1, 7)},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			l := lexer.New(tt.src + " x")
			_, err := l.Next()
			var lexErr *lexer.Error
			require.ErrorAs(t, err, &lexErr)
			assert.Equal(t, lexer.InvalidEscape, lexErr.Kind)
			assert.Equal(t, tt.text, lexErr.Text)
			assert.Equal(t, tt.span, lexErr.Span)

			// the rest of the literal was consumed
			next, err := l.Next()
			require.NoError(t, err)
			assert.Equal(t, token.IDENT, next.Type)
		})
	}
}

func TestUnterminatedString(t *testing.T) {
	tests := []struct {
		name string
		src  string
		span token.Span
	}{
		{"eof", `"abc`, token.NewSpan(0, 4)},
		{"newline", "\"abc\nx", token.NewSpan(0, 4)},
		{"carriage return", "\"ab\r\n", token.NewSpan(0, 3)},
		{"backslash newline", "\"ab\\\nx", token.NewSpan(0, 4)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := lexOne(t, tt.src)
			var lexErr *lexer.Error
			require.ErrorAs(t, err, &lexErr)
			assert.Equal(t, lexer.UnterminatedString, lexErr.Kind)
			assert.Equal(t, tt.span, lexErr.Span)
		})
	}
}

func TestUnterminatedStringResumesOnNextLine(t *testing.T) {
	tokens, errs := lexer.Tokenize("\"oops\nlet")
	require.Len(t, errs, 1)
	assert.Equal(t, []token.TokenType{token.LET, token.EOF}, types(tokens))
}
