package lexer_test

import (
	"testing"

	"github.com/leapstack-labs/haiku/pkg/lexer"
	"github.com/leapstack-labs/haiku/pkg/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamLookahead(t *testing.T) {
	s := lexer.NewStream("a @ b")

	tok, err := s.Current()
	require.NoError(t, err)
	assert.Equal(t, "a", tok.Literal)

	// Current does not consume
	again, _ := s.Current()
	assert.Equal(t, tok, again)

	s.Advance()
	_, err = s.Current()
	var lexErr *lexer.Error
	require.ErrorAs(t, err, &lexErr)
	assert.Equal(t, token.NewSpan(2, 3), s.Span())

	s.Advance()
	tok, err = s.Current()
	require.NoError(t, err)
	assert.Equal(t, "b", tok.Literal)
	assert.Equal(t, token.NewSpan(4, 5), s.Span())

	s.Advance()
	s.Advance()
	tok, err = s.Current()
	require.NoError(t, err)
	assert.Equal(t, token.EOF, tok.Type)
	assert.Equal(t, token.NewSpan(5, 5), tok.Span)
	assert.Equal(t, "a @ b", s.Source())
}
