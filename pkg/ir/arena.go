package ir

import (
	"fmt"
	"iter"
)

// Handle is a typed index into an Arena[T]. The zero Handle is invalid and
// stands for "none" in optional fields.
type Handle[T any] uint32

// IsValid returns true for handles returned by Arena.Alloc.
func (h Handle[T]) IsValid() bool {
	return h != 0
}

// Index returns the 0-based position of the handle's value in its arena.
func (h Handle[T]) Index() int {
	return int(h) - 1
}

func (h Handle[T]) String() string {
	if !h.IsValid() {
		return "#none"
	}
	return fmt.Sprintf("#%d", h.Index())
}

// Handle aliases for the arenas of the IR.
type (
	StringID = Handle[string]
	ExprID   = Handle[Expr]
	StmtID   = Handle[Stmt]
	VarID    = Handle[Variable]
	FuncID   = Handle[FunctionHeader]
	StructID = Handle[StructHeader]
)

// Arena is an append-only store addressed by handles. Values are returned
// by copy; an arena never hands out pointers into its storage.
type Arena[T any] struct {
	items []T
}

// Alloc appends v and returns its handle.
func (a *Arena[T]) Alloc(v T) Handle[T] {
	a.items = append(a.items, v)
	return Handle[T](len(a.items))
}

// Get returns the value for h. It panics if h was not issued by this arena.
func (a *Arena[T]) Get(h Handle[T]) T {
	if !h.IsValid() || int(h) > len(a.items) {
		panic(fmt.Sprintf("ir: invalid handle %d for arena of %d", uint32(h), len(a.items)))
	}
	return a.items[h-1]
}

// Len returns the number of values in the arena.
func (a *Arena[T]) Len() int {
	return len(a.items)
}

// All iterates over handles and values in allocation order.
func (a *Arena[T]) All() iter.Seq2[Handle[T], T] {
	return func(yield func(Handle[T], T) bool) {
		for i, v := range a.items {
			if !yield(Handle[T](i+1), v) {
				return
			}
		}
	}
}

// Interner stores each distinct value once. Interning an equal value again
// returns the original handle. The zero value is ready to use.
type Interner[T comparable] struct {
	arena Arena[T]
	index map[T]Handle[T]
}

// Intern returns the handle for v, adding v if it is new.
func (in *Interner[T]) Intern(v T) Handle[T] {
	if h, ok := in.index[v]; ok {
		return h
	}
	if in.index == nil {
		in.index = make(map[T]Handle[T])
	}
	h := in.arena.Alloc(v)
	in.index[v] = h
	return h
}

// Lookup returns the handle for v without adding it.
func (in *Interner[T]) Lookup(v T) (Handle[T], bool) {
	h, ok := in.index[v]
	return h, ok
}

// Get returns the value for h.
func (in *Interner[T]) Get(h Handle[T]) T {
	return in.arena.Get(h)
}

// Len returns the number of distinct values.
func (in *Interner[T]) Len() int {
	return in.arena.Len()
}
