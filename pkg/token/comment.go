package token

// CommentKind distinguishes line vs block comments.
type CommentKind int

// Comment kinds.
const (
	LineComment  CommentKind = iota // // comment
	BlockComment                    // /* comment */
)

// Comment is a comment token reduced to its kind and body.
type Comment struct {
	Kind CommentKind
	Text string // body without delimiters
	Span Span
}

// CommentOf converts a comment token into a Comment.
// The second result is false for any other token type.
func CommentOf(tok Token) (Comment, bool) {
	switch tok.Type {
	case LINE_COMMENT:
		return Comment{Kind: LineComment, Text: tok.Text, Span: tok.Span}, true
	case BLOCK_COMMENT:
		return Comment{Kind: BlockComment, Text: tok.Text, Span: tok.Span}, true
	}
	return Comment{}, false
}

// IsLineComment returns true if this is a line comment.
func (c *Comment) IsLineComment() bool {
	return c.Kind == LineComment
}

// IsBlockComment returns true if this is a block comment.
func (c *Comment) IsBlockComment() bool {
	return c.Kind == BlockComment
}
