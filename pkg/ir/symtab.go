package ir

import (
	"errors"
	"fmt"
)

// ErrDuplicateSymbol is returned when a name is declared twice in one frame.
var ErrDuplicateSymbol = errors.New("symbol already declared in this scope")

// SymbolTable is a stack of scopes mapping names to values. Lookups search
// from the innermost frame outwards, so inner declarations shadow outer
// ones. A new table starts with one frame.
type SymbolTable[K comparable, V any] struct {
	frames []map[K]V
}

// NewSymbolTable returns a table with a single root frame.
func NewSymbolTable[K comparable, V any]() *SymbolTable[K, V] {
	return &SymbolTable[K, V]{frames: []map[K]V{{}}}
}

// Push opens a new innermost frame.
func (s *SymbolTable[K, V]) Push() {
	s.frames = append(s.frames, map[K]V{})
}

// Pop discards the innermost frame. Popping an empty table panics.
func (s *SymbolTable[K, V]) Pop() {
	if len(s.frames) == 0 {
		panic("ir: pop on empty symbol table")
	}
	s.frames = s.frames[:len(s.frames)-1]
}

// Depth returns the number of open frames.
func (s *SymbolTable[K, V]) Depth() int {
	return len(s.frames)
}

// Declare binds key to value in the innermost frame. It fails with
// ErrDuplicateSymbol if key is already bound in that frame; bindings in
// outer frames do not conflict. Declaring into an empty table panics.
func (s *SymbolTable[K, V]) Declare(key K, value V) error {
	if len(s.frames) == 0 {
		panic("ir: declare on empty symbol table")
	}
	top := s.frames[len(s.frames)-1]
	if _, exists := top[key]; exists {
		return fmt.Errorf("%w: %v", ErrDuplicateSymbol, key)
	}
	top[key] = value
	return nil
}

// Lookup returns the innermost binding for key.
func (s *SymbolTable[K, V]) Lookup(key K) (V, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if v, ok := s.frames[i][key]; ok {
			return v, true
		}
	}
	var zero V
	return zero, false
}

// LookupLocal returns the binding for key in the innermost frame only.
func (s *SymbolTable[K, V]) LookupLocal(key K) (V, bool) {
	var zero V
	if len(s.frames) == 0 {
		return zero, false
	}
	v, ok := s.frames[len(s.frames)-1][key]
	return v, ok
}
