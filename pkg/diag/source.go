package diag

import (
	"strings"
	"unicode/utf8"

	"github.com/leapstack-labs/haiku/pkg/token"
)

// Locate converts a byte offset into a line and column. Offsets past the end
// of src are clamped to the end.
func Locate(src string, offset int) token.Position {
	offset = max(0, min(offset, len(src)))
	before := src[:offset]
	line := strings.Count(before, "\n") + 1
	lineStart := strings.LastIndexByte(before, '\n') + 1
	return token.Position{
		Line:   line,
		Column: utf8.RuneCountInString(before[lineStart:]) + 1,
		Offset: offset,
	}
}

// Excerpt is the source line a span starts on, with the span's extent on
// that line marked by byte offsets relative to the line start.
type Excerpt struct {
	Pos       token.Position
	Line      string
	MarkStart int
	MarkEnd   int
}

// ExcerptOf returns the excerpt for span. The mark is clipped to the first
// line and is at least one byte wide so empty spans remain visible.
func ExcerptOf(src string, span token.Span) Excerpt {
	pos := Locate(src, span.Start)
	lineStart := strings.LastIndexByte(src[:pos.Offset], '\n') + 1
	lineEnd := strings.IndexByte(src[lineStart:], '\n')
	if lineEnd < 0 {
		lineEnd = len(src)
	} else {
		lineEnd += lineStart
	}
	line := strings.TrimRight(src[lineStart:lineEnd], "\r")

	markStart := pos.Offset - lineStart
	markEnd := min(span.End, lineStart+len(line)) - lineStart
	if markEnd <= markStart {
		markEnd = markStart + 1
	}
	return Excerpt{Pos: pos, Line: line, MarkStart: markStart, MarkEnd: markEnd}
}
