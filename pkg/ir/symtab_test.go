package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSymbolTableDeclareLookup(t *testing.T) {
	s := NewSymbolTable[string, int]()
	assert.Equal(t, 1, s.Depth())

	require.NoError(t, s.Declare("x", 1))
	v, ok := s.Lookup("x")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = s.Lookup("y")
	assert.False(t, ok)
}

func TestSymbolTableDuplicate(t *testing.T) {
	s := NewSymbolTable[string, int]()
	require.NoError(t, s.Declare("x", 1))

	err := s.Declare("x", 2)
	require.ErrorIs(t, err, ErrDuplicateSymbol)
	assert.Contains(t, err.Error(), "x")

	v, _ := s.Lookup("x")
	assert.Equal(t, 1, v, "first binding wins")
}

func TestSymbolTableShadowing(t *testing.T) {
	s := NewSymbolTable[string, int]()
	require.NoError(t, s.Declare("x", 1))

	s.Push()
	require.NoError(t, s.Declare("x", 2))
	v, _ := s.Lookup("x")
	assert.Equal(t, 2, v)

	_, ok := s.LookupLocal("x")
	assert.True(t, ok)

	s.Push()
	_, ok = s.LookupLocal("x")
	assert.False(t, ok)
	v, ok = s.Lookup("x")
	assert.True(t, ok)
	assert.Equal(t, 2, v)

	s.Pop()
	s.Pop()
	v, _ = s.Lookup("x")
	assert.Equal(t, 1, v)
}

func TestSymbolTableUnderflowPanics(t *testing.T) {
	s := NewSymbolTable[string, int]()
	s.Pop()
	assert.Equal(t, 0, s.Depth())

	assert.Panics(t, func() { s.Pop() })
	assert.Panics(t, func() { _ = s.Declare("x", 1) })

	_, ok := s.Lookup("x")
	assert.False(t, ok)
	_, ok = s.LookupLocal("x")
	assert.False(t, ok)
}
