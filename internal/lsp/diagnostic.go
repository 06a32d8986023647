package lsp

import (
	"slices"

	"github.com/leapstack-labs/haiku/pkg/diag"
)

const diagnosticSource = "haiku"

// publishDiagnostics sends the diagnostics of doc's current analysis.
func (s *Server) publishDiagnostics(doc *Document) {
	s.sendNotification("textDocument/publishDiagnostics", &PublishDiagnosticsParams{
		URI:         doc.URI,
		Diagnostics: documentDiagnostics(doc),
	})
}

// documentDiagnostics converts the compiler diagnostics and lint findings
// of doc. Empty spans are widened to one character so editors can show them.
func documentDiagnostics(doc *Document) []Diagnostic {
	out := []Diagnostic{}
	if doc.analysis == nil {
		return out
	}
	diags := append(slices.Clone(doc.analysis.Result.Diagnostics), doc.analysis.Lint...)
	for _, d := range diags {
		code := d.Kind.String()
		if d.Code != "" {
			code = d.Code
		}
		start, end := d.Span.Start, d.Span.End
		if end <= start && start < len(doc.Content) {
			end = start + 1
		}
		out = append(out, Diagnostic{
			Range:    doc.Range(start, end),
			Severity: toLSPSeverity(d.Severity),
			Code:     code,
			Source:   diagnosticSource,
			Message:  d.Message,
		})
	}
	return out
}

func toLSPSeverity(s diag.Severity) DiagnosticSeverity {
	switch s {
	case diag.SeverityWarning:
		return DiagnosticSeverityWarning
	case diag.SeverityNote:
		return DiagnosticSeverityInformation
	default:
		return DiagnosticSeverityError
	}
}
