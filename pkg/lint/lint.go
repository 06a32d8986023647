// Package lint checks parsed haiku units for suspicious or unidiomatic
// code that the compiler accepts.
//
// Rules are data-driven: each rule package registers RuleDefs with the
// global registry from an init function, and an Analyzer runs the
// registered rules against a compilation unit. Rule implementations live
// in separate packages under lint/rules.
package lint

import (
	"fmt"

	"github.com/leapstack-labs/haiku/pkg/diag"
	"github.com/leapstack-labs/haiku/pkg/token"
)

// Diagnostic represents a lint finding.
type Diagnostic struct {
	RuleID   string
	Severity diag.Severity
	Message  string
	Span     token.Span
}

// Diag converts the finding into a compiler diagnostic of kind lint so it
// can be rendered alongside lexical, syntax and lowering diagnostics.
func (d Diagnostic) Diag(path string) *diag.Diagnostic {
	return &diag.Diagnostic{
		Kind:     diag.KindLint,
		Severity: d.Severity,
		Message:  d.Message,
		Path:     path,
		Span:     d.Span,
		Code:     d.RuleID,
	}
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%d..%d: %s %s: %s", d.Span.Start, d.Span.End, d.Severity, d.RuleID, d.Message)
}
