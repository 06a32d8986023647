package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/leapstack-labs/haiku/pkg/diag"
	"github.com/leapstack-labs/haiku/pkg/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func newTest(mode OutputMode, isTTY bool) (*Renderer, *bytes.Buffer, *bytes.Buffer) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return NewRendererWithTTY(out, errOut, isTTY, mode), out, errOut
}

func TestEffectiveMode(t *testing.T) {
	tests := []struct {
		mode  OutputMode
		isTTY bool
		want  OutputMode
	}{
		{ModeAuto, true, ModeText},
		{ModeAuto, false, ModeMarkdown},
		{"", false, ModeMarkdown},
		{ModeText, false, ModeText},
		{ModeJSON, true, ModeJSON},
		{ModeYAML, true, ModeYAML},
	}
	for _, tt := range tests {
		r, _, _ := newTest(tt.mode, tt.isTTY)
		assert.Equal(t, tt.want, r.EffectiveMode(), "mode=%q tty=%v", tt.mode, tt.isTTY)
	}
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("json")
	require.NoError(t, err)
	assert.Equal(t, ModeJSON, m)

	m, err = ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, ModeAuto, m)

	_, err = ParseMode("html")
	require.Error(t, err)
}

func TestNewRendererNonTerminal(t *testing.T) {
	r := NewRenderer(&bytes.Buffer{}, &bytes.Buffer{}, ModeAuto)
	assert.False(t, r.IsTTY())
	assert.Equal(t, ModeMarkdown, r.EffectiveMode())
}

const src = "fn main() {\n\tlet x = 1\n}\n"

func sampleDiag() *diag.Diagnostic {
	d := diag.New(diag.KindSyntax, token.NewSpan(23, 24), "expected `;` after variable declaration")
	d.Path = "main.hk"
	return d
}

func TestDiagnosticsText(t *testing.T) {
	r, out, _ := newTest(ModeText, false)
	require.NoError(t, r.Diagnostics(src, []*diag.Diagnostic{sampleDiag()}))

	expected := "error[syntax]: expected `;` after variable declaration\n" +
		" --> main.hk:3:1\n" +
		"  |\n" +
		"3 | }\n" +
		"  | ^\n\n"
	assert.Equal(t, expected, out.String())
}

func TestDiagnosticsMarkdown(t *testing.T) {
	r, out, _ := newTest(ModeMarkdown, false)
	d := diag.New(diag.KindLowering, token.NewSpan(17, 18), "variable `x` is already declared")
	require.NoError(t, r.Diagnostics(src, []*diag.Diagnostic{d}))

	got := out.String()
	assert.Contains(t, got, "**error** (lowering) `2:6`: variable `x` is already declared")
	assert.Contains(t, got, "2 | \tlet x = 1\n  | \t    ^\n")
	assert.Equal(t, 2, strings.Count(got, "```"))
	assert.NotContains(t, got, "\x1b[")
}

func TestDiagnosticsJSON(t *testing.T) {
	r, out, _ := newTest(ModeJSON, false)
	require.NoError(t, r.Diagnostics(src, []*diag.Diagnostic{sampleDiag()}))

	var records []DiagnosticRecord
	require.NoError(t, json.Unmarshal(out.Bytes(), &records))
	require.Len(t, records, 1)
	assert.Equal(t, DiagnosticRecord{
		Path:     "main.hk",
		Line:     3,
		Column:   1,
		Start:    23,
		End:      24,
		Kind:     "syntax",
		Severity: "error",
		Message:  "expected `;` after variable declaration",
	}, records[0])
}

func TestDiagnosticsYAML(t *testing.T) {
	r, out, _ := newTest(ModeYAML, false)
	require.NoError(t, r.Diagnostics(src, []*diag.Diagnostic{sampleDiag()}))

	var records []DiagnosticRecord
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &records))
	require.Len(t, records, 1)
	assert.Equal(t, 3, records[0].Line)
	assert.Contains(t, out.String(), "kind: syntax")
}

func TestMarkerLine(t *testing.T) {
	tests := []struct {
		name       string
		line       string
		start, end int
		want       string
	}{
		{name: "simple", line: "let x = 1", start: 4, end: 5, want: "    ^"},
		{name: "multi", line: "let abc = 1", start: 4, end: 7, want: "    ^^^"},
		{name: "empty span", line: "abc", start: 1, end: 1, want: " ^"},
		{name: "end of line", line: "abc", start: 3, end: 4, want: "   ^"},
		{name: "tab prefix", line: "\tx", start: 1, end: 2, want: "\t^"},
		{name: "wide prefix", line: "\"日本\" x", start: 9, end: 10, want: "       ^"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, markerLine(tt.line, tt.start, tt.end))
		})
	}
}

func TestTable(t *testing.T) {
	header := []string{"kind", "text"}
	rows := [][]string{{"IDENT", "x"}, {"INT", "1"}}

	t.Run("markdown", func(t *testing.T) {
		r, out, _ := newTest(ModeMarkdown, false)
		require.NoError(t, r.Table(header, rows))
		got := out.String()
		assert.Contains(t, strings.ToLower(got), "kind")
		assert.Contains(t, got, "IDENT")
		assert.True(t, strings.HasPrefix(got, "|"))
		assert.NotContains(t, got, "┌")
	})

	t.Run("text", func(t *testing.T) {
		r, out, _ := newTest(ModeText, false)
		require.NoError(t, r.Table(header, rows))
		assert.Contains(t, out.String(), "IDENT")
		assert.Contains(t, out.String(), "┌")
	})

	t.Run("json", func(t *testing.T) {
		r, out, _ := newTest(ModeJSON, false)
		require.NoError(t, r.Table(header, rows))
		var got []map[string]string
		require.NoError(t, json.Unmarshal(out.Bytes(), &got))
		assert.Equal(t, []map[string]string{{"kind": "IDENT", "text": "x"}, {"kind": "INT", "text": "1"}}, got)
	})

	t.Run("empty", func(t *testing.T) {
		r, out, _ := newTest(ModeText, false)
		require.NoError(t, r.Table(header, nil))
		assert.Equal(t, "(0 rows)\n", out.String())
	})
}

func TestHeaderAndMessages(t *testing.T) {
	r, out, errOut := newTest(ModeMarkdown, false)
	r.Header("Tokens")
	r.Success("compiled %d files", 2)
	r.Errorf("bad %s", "thing")

	assert.Equal(t, "## Tokens\n\n", out.String())
	assert.Equal(t, "compiled 2 files\nerror: bad thing\n", errOut.String())

	r, out, _ = newTest(ModeJSON, false)
	r.Header("ignored")
	assert.Empty(t, out.String())
}

func TestCode(t *testing.T) {
	r, out, _ := newTest(ModeMarkdown, false)
	r.Code("text", "a\nb")
	assert.Equal(t, "```text\na\nb\n```\n", out.String())

	r, out, _ = newTest(ModeText, false)
	r.Code("text", "a\n")
	assert.Equal(t, "a\n", out.String())
}
