package output

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/leapstack-labs/haiku/pkg/diag"
	"golang.org/x/text/width"
)

// DiagnosticRecord is the machine-readable form of a diagnostic.
type DiagnosticRecord struct {
	Path     string `json:"path" yaml:"path"`
	Line     int    `json:"line" yaml:"line"`
	Column   int    `json:"column" yaml:"column"`
	Start    int    `json:"start" yaml:"start"`
	End      int    `json:"end" yaml:"end"`
	Kind     string `json:"kind" yaml:"kind"`
	Code     string `json:"code,omitempty" yaml:"code,omitempty"`
	Severity string `json:"severity" yaml:"severity"`
	Message  string `json:"message" yaml:"message"`
}

// Record converts d to its machine-readable form, locating it in src.
func Record(src string, d *diag.Diagnostic) DiagnosticRecord {
	pos := diag.Locate(src, d.Span.Start)
	return DiagnosticRecord{
		Path:     d.Path,
		Line:     pos.Line,
		Column:   pos.Column,
		Start:    d.Span.Start,
		End:      d.Span.End,
		Kind:     d.Kind.String(),
		Code:     d.Code,
		Severity: d.Severity.String(),
		Message:  d.Message,
	}
}

// Records converts a list of diagnostics.
func Records(src string, diags []*diag.Diagnostic) []DiagnosticRecord {
	out := make([]DiagnosticRecord, len(diags))
	for i, d := range diags {
		out[i] = Record(src, d)
	}
	return out
}

// Diagnostics renders diags against the source they refer to. Text and
// markdown modes print each diagnostic with the offending source line;
// structured modes print a list of records.
func (r *Renderer) Diagnostics(src string, diags []*diag.Diagnostic) error {
	if r.Structured() {
		return r.Data(Records(src, diags))
	}
	for _, d := range diags {
		r.diagnostic(src, d)
	}
	return nil
}

func (r *Renderer) diagnostic(src string, d *diag.Diagnostic) {
	ex := diag.ExcerptOf(src, d.Span)
	location := fmt.Sprintf("%d:%d", ex.Pos.Line, ex.Pos.Column)
	if d.Path != "" {
		location = d.Path + ":" + location
	}

	lineNo := fmt.Sprintf("%d", ex.Pos.Line)
	pad := strings.Repeat(" ", len(lineNo))
	marker := markerLine(ex.Line, ex.MarkStart, ex.MarkEnd)

	if r.EffectiveMode() == ModeMarkdown {
		_, _ = fmt.Fprintf(r.out, "**%s** (%s) `%s`: %s\n\n", d.Severity, d.Kind, location, d.Message)
		_, _ = fmt.Fprintf(r.out, "```\n%s | %s\n%s | %s\n```\n\n", lineNo, ex.Line, pad, marker)
		return
	}

	s := r.styles
	label := s.Error
	switch d.Severity {
	case diag.SeverityWarning:
		label = s.Warning
	case diag.SeverityNote:
		label = s.Note
	}
	tag := d.Kind.String()
	if d.Code != "" {
		tag = d.Code
	}
	_, _ = fmt.Fprintf(r.out, "%s: %s\n", label.Render(fmt.Sprintf("%s[%s]", d.Severity, tag)), d.Message)
	_, _ = fmt.Fprintf(r.out, "%s %s\n", s.Gutter.Render(pad+"-->"), location)
	_, _ = fmt.Fprintf(r.out, "%s\n", s.Gutter.Render(pad+" |"))
	_, _ = fmt.Fprintf(r.out, "%s %s\n", s.Gutter.Render(lineNo+" |"), ex.Line)
	_, _ = fmt.Fprintf(r.out, "%s %s\n\n", s.Gutter.Render(pad+" |"), s.Marker.Render(marker))
}

// markerLine returns a line of carets under line[start:end]. Tabs in the
// prefix are kept and wide characters count as two columns, so the carets
// line up under the marked text.
func markerLine(line string, start, end int) string {
	start = min(start, len(line))
	var sb strings.Builder
	for _, r := range line[:start] {
		if r == '\t' {
			sb.WriteByte('\t')
			continue
		}
		sb.WriteString(strings.Repeat(" ", runeWidth(r)))
	}

	carets := 0
	if end > start && start < len(line) {
		for _, r := range line[start:min(end, len(line))] {
			carets += runeWidth(r)
		}
	}
	sb.WriteString(strings.Repeat("^", max(carets, 1)))
	return sb.String()
}

func runeWidth(r rune) int {
	if r == utf8.RuneError || r < 0x20 {
		return 1
	}
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return 2
	}
	return 1
}
