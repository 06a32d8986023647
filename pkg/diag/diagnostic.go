// Package diag carries compiler diagnostics from the lexer, parser and IR
// lowering to whoever renders them.
//
// Stages never print. They hand each Diagnostic to a Reporter, whose answer
// decides whether the stage keeps going (collect-all) or stops at the next
// opportunity (fail-fast).
package diag

import (
	"fmt"

	"github.com/leapstack-labs/haiku/pkg/token"
)

// Kind identifies the stage that produced a diagnostic.
type Kind int

// Diagnostic kinds.
const (
	KindLexical Kind = iota
	KindSyntax
	KindLowering
	KindLint
)

func (k Kind) String() string {
	switch k {
	case KindLexical:
		return "lexical"
	case KindSyntax:
		return "syntax"
	case KindLowering:
		return "lowering"
	case KindLint:
		return "lint"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Diagnostic is a spanned message about the source of one unit.
type Diagnostic struct {
	Kind     Kind       `json:"kind"`
	Severity Severity   `json:"severity"`
	Message  string     `json:"message"`
	Path     string     `json:"path,omitempty"`
	Span     token.Span `json:"span"`
	Code     string     `json:"code,omitempty"` // lint rule ID

	// Cause is the underlying error, e.g. a *lexer.Error.
	Cause error `json:"-"`
}

// New creates an error-severity diagnostic.
func New(kind Kind, span token.Span, format string, args ...any) *Diagnostic {
	return &Diagnostic{
		Kind:     kind,
		Severity: SeverityError,
		Message:  fmt.Sprintf(format, args...),
		Span:     span,
	}
}

// Wrap creates an error-severity diagnostic from an error that already
// knows its span.
func Wrap(kind Kind, span token.Span, err error) *Diagnostic {
	d := New(kind, span, "%s", messageOf(err))
	d.Cause = err
	return d
}

func (d *Diagnostic) Error() string {
	if d.Path != "" {
		return fmt.Sprintf("%s:%d..%d: %s error: %s", d.Path, d.Span.Start, d.Span.End, d.Kind, d.Message)
	}
	return fmt.Sprintf("%d..%d: %s error: %s", d.Span.Start, d.Span.End, d.Kind, d.Message)
}

// Unwrap returns the underlying cause.
func (d *Diagnostic) Unwrap() error {
	return d.Cause
}

// IsError returns true if the diagnostic has error severity.
func (d *Diagnostic) IsError() bool {
	return d.Severity == SeverityError
}

type messager interface {
	Message() string
}

func messageOf(err error) string {
	if m, ok := err.(messager); ok {
		return m.Message()
	}
	return err.Error()
}
