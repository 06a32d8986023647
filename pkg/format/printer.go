package format

import (
	"bytes"
	"strings"

	"github.com/leapstack-labs/haiku/pkg/token"
)

const indentSize = 4

// Printer writes formatted source with indentation and comment placement.
type Printer struct {
	src         string
	deco        *Decorations
	output      *bytes.Buffer
	depth       int
	atLineStart bool
	// last is the source offset where the previously printed item ended,
	// or -1 at the start of a block. Blank lines are kept only between
	// items.
	last int
}

func newPrinter(src string, deco *Decorations) *Printer {
	return &Printer{
		src:         src,
		deco:        deco,
		output:      &bytes.Buffer{},
		atLineStart: true,
		last:        -1,
	}
}

// String returns the formatted output ending in exactly one newline, or
// the empty string for an empty unit.
func (p *Printer) String() string {
	out := strings.TrimRight(p.output.String(), "\n")
	if out == "" {
		return ""
	}
	return out + "\n"
}

func (p *Printer) write(s string) {
	if p.atLineStart && len(s) > 0 && s[0] != '\n' {
		p.writeIndent()
	}
	p.output.WriteString(s)
	p.atLineStart = false
}

func (p *Printer) writeln() {
	p.output.WriteByte('\n')
	p.atLineStart = true
}

func (p *Printer) writeIndent() {
	for i := 0; i < p.depth*indentSize; i++ {
		p.output.WriteByte(' ')
	}
	p.atLineStart = false
}

func (p *Printer) indent() {
	p.depth++
}

func (p *Printer) dedent() {
	if p.depth > 0 {
		p.depth--
	}
}

func (p *Printer) space() {
	p.output.WriteByte(' ')
}

// kw prints keywords separated by spaces.
func (p *Printer) kw(tokens ...token.TokenType) {
	for i, t := range tokens {
		if i > 0 {
			p.space()
		}
		p.write(t.String())
	}
}

// text prints the source text covered by span.
func (p *Printer) text(span token.Span) {
	p.write(span.Text(p.src))
}

// separate starts a new item at offset start, keeping one blank line when
// the source had at least one since the previous item.
func (p *Printer) separate(start int) {
	if p.last >= 0 && p.last <= start && strings.Count(p.src[p.last:start], "\n") >= 2 {
		p.writeln()
	}
}

// formatComments prints leading comments, each on its own line.
func (p *Printer) formatComments(comments []token.Comment) {
	for _, c := range comments {
		p.separate(c.Span.Start)
		p.write(strings.TrimRight(c.Span.Text(p.src), " \t\r\n"))
		p.writeln()
		p.last = c.Span.End
	}
}

// formatTrailingComments prints comments after an item on the same line.
func (p *Printer) formatTrailingComments(comments []token.Comment) {
	for _, c := range comments {
		p.space()
		p.write(strings.TrimRight(c.Span.Text(p.src), " \t\r\n"))
		if c.Span.End > p.last {
			p.last = c.Span.End
		}
	}
}

// formatList prints count items separated by sep.
func (p *Printer) formatList(count int, format func(i int), sep string) {
	for i := 0; i < count; i++ {
		format(i)
		if i < count-1 {
			p.write(sep)
		}
	}
}
