// Package output renders command results for terminals, markdown consumers
// and machines.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// OutputMode selects how results are rendered.
type OutputMode string //nolint:revive // intentional: stutters with the package name

// Output modes.
const (
	ModeAuto     OutputMode = "auto"     // text on a TTY, markdown otherwise
	ModeText     OutputMode = "text"     // styled terminal output
	ModeMarkdown OutputMode = "markdown" // plain markdown, no ANSI codes
	ModeJSON     OutputMode = "json"
	ModeYAML     OutputMode = "yaml"
)

// Renderer writes command output in the configured mode.
type Renderer struct {
	out    io.Writer
	errOut io.Writer
	isTTY  bool
	mode   OutputMode
	styles Styles
}

// Styles are the lipgloss styles used in text mode.
type Styles struct {
	Header  lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Note    lipgloss.Style
	Success lipgloss.Style
	Gutter  lipgloss.Style
	Marker  lipgloss.Style
	Muted   lipgloss.Style
}

// NewRenderer creates a renderer, detecting whether out is a terminal.
func NewRenderer(out, errOut io.Writer, mode OutputMode) *Renderer {
	return NewRendererWithTTY(out, errOut, isTerminal(out), mode)
}

// NewRendererWithTTY creates a renderer with an explicit TTY state.
func NewRendererWithTTY(out, errOut io.Writer, isTTY bool, mode OutputMode) *Renderer {
	if mode == "" {
		mode = ModeAuto
	}
	r := &Renderer{out: out, errOut: errOut, isTTY: isTTY, mode: mode}
	r.styles = newStyles(out, isTTY)
	return r
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd())) //nolint:gosec // file descriptors fit in int
}

func newStyles(w io.Writer, isTTY bool) Styles {
	var lg *lipgloss.Renderer
	if isTTY && !termenv.EnvNoColor() {
		lg = lipgloss.NewRenderer(w, termenv.WithProfile(termenv.EnvColorProfile()))
	} else {
		lg = lipgloss.NewRenderer(w, termenv.WithProfile(termenv.Ascii))
	}
	return Styles{
		Header:  lg.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		Error:   lg.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
		Warning: lg.NewStyle().Bold(true).Foreground(lipgloss.Color("11")),
		Note:    lg.NewStyle().Bold(true).Foreground(lipgloss.Color("14")),
		Success: lg.NewStyle().Foreground(lipgloss.Color("10")),
		Gutter:  lg.NewStyle().Foreground(lipgloss.Color("12")),
		Marker:  lg.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
		Muted:   lg.NewStyle().Faint(true),
	}
}

// ParseMode validates a mode name.
func ParseMode(s string) (OutputMode, error) {
	switch m := OutputMode(s); m {
	case ModeAuto, ModeText, ModeMarkdown, ModeJSON, ModeYAML:
		return m, nil
	case "":
		return ModeAuto, nil
	}
	return "", fmt.Errorf("unknown output mode %q", s)
}

// Mode returns the configured mode.
func (r *Renderer) Mode() OutputMode {
	return r.mode
}

// EffectiveMode resolves ModeAuto against the TTY state.
func (r *Renderer) EffectiveMode() OutputMode {
	if r.mode != ModeAuto {
		return r.mode
	}
	if r.isTTY {
		return ModeText
	}
	return ModeMarkdown
}

// IsTTY reports whether output goes to a terminal.
func (r *Renderer) IsTTY() bool {
	return r.isTTY
}

// Structured returns true for machine-readable modes.
func (r *Renderer) Structured() bool {
	m := r.EffectiveMode()
	return m == ModeJSON || m == ModeYAML
}

// Out returns the writer for results.
func (r *Renderer) Out() io.Writer {
	return r.out
}

// Err returns the writer for messages.
func (r *Renderer) Err() io.Writer {
	return r.errOut
}

// Styles returns the text mode styles.
func (r *Renderer) Styles() Styles {
	return r.styles
}

// Header writes a section title.
func (r *Renderer) Header(title string) {
	switch r.EffectiveMode() {
	case ModeText:
		_, _ = fmt.Fprintln(r.out, r.styles.Header.Render(title))
	case ModeMarkdown:
		_, _ = fmt.Fprintf(r.out, "## %s\n\n", title)
	}
}

// Success writes a confirmation message to the message stream.
func (r *Renderer) Success(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if r.EffectiveMode() == ModeText {
		msg = r.styles.Success.Render("✓ " + msg)
	}
	_, _ = fmt.Fprintln(r.errOut, msg)
}

// Errorf writes an error message to the message stream.
func (r *Renderer) Errorf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if r.EffectiveMode() == ModeText {
		msg = r.styles.Error.Render("error") + ": " + msg
	} else {
		msg = "error: " + msg
	}
	_, _ = fmt.Fprintln(r.errOut, msg)
}

// Code writes a block of preformatted text, fenced in markdown mode.
func (r *Renderer) Code(lang, text string) {
	if r.EffectiveMode() == ModeMarkdown {
		_, _ = fmt.Fprintf(r.out, "```%s\n%s", lang, text)
		if len(text) > 0 && text[len(text)-1] != '\n' {
			_, _ = fmt.Fprintln(r.out)
		}
		_, _ = fmt.Fprintln(r.out, "```")
		return
	}
	_, _ = io.WriteString(r.out, text)
}

// Data writes v as JSON or YAML depending on the mode. In text and markdown
// modes it falls back to indented JSON.
func (r *Renderer) Data(v any) error {
	if r.EffectiveMode() == ModeYAML {
		enc := yaml.NewEncoder(r.out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	}
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
