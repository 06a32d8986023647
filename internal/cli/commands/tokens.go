package commands

import (
	"fmt"
	"strconv"

	"github.com/leapstack-labs/haiku/internal/cli/output"
	"github.com/leapstack-labs/haiku/pkg/diag"
	"github.com/leapstack-labs/haiku/pkg/token"
	"github.com/spf13/cobra"
)

// TokensOptions holds options for the tokens command.
type TokensOptions struct {
	Path       string
	NoComments bool
}

// NewTokensCommand creates the tokens command.
func NewTokensCommand() *cobra.Command {
	opts := &TokensOptions{}
	cmd := &cobra.Command{
		Use:   "tokens <file>",
		Short: "Print the token stream of a source file",
		Long: `Tokenize a source file and print every token with its span.

Lexical errors are reported after the table; tokenizing continues past them.
Use "-" to read from standard input.`,
		Example: `  # Show tokens as a table
  haiku tokens main.hk

  # Machine-readable output
  haiku tokens main.hk -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Path = args[0]
			return runTokens(cmd, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.NoComments, "no-comments", false, "Omit comment tokens")

	return cmd
}

func runTokens(cmd *cobra.Command, opts *TokensOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	src, err := readSource(cmd, opts.Path)
	if err != nil {
		return err
	}
	path := displayPath(opts.Path)

	tokens, diags := cmdCtx.Engine.Tokenize(path, src)
	cmdCtx.Logger.Debug("tokenized", "path", path, "tokens", len(tokens), "errors", len(diags))

	var rows [][]string
	for _, tok := range tokens {
		if opts.NoComments && token.IsComment(tok.Type) {
			continue
		}
		rows = append(rows, tokenRow(src, tok))
	}
	return renderTokens(cmdCtx.Renderer, src, rows, diags)
}

func renderTokens(r *output.Renderer, src string, rows [][]string, diags []*diag.Diagnostic) error {
	header := []string{"span", "position", "type", "text", "value"}
	if r.Structured() {
		if err := r.Data(struct {
			Tokens      []map[string]string      `json:"tokens" yaml:"tokens"`
			Diagnostics []output.DiagnosticRecord `json:"diagnostics" yaml:"diagnostics"`
		}{
			Tokens:      tokenRecords(header, rows),
			Diagnostics: output.Records(src, diags),
		}); err != nil {
			return err
		}
	} else {
		r.Header("Tokens")
		if err := r.Table(header, rows); err != nil {
			return err
		}
		if err := r.Diagnostics(src, diags); err != nil {
			return err
		}
	}

	if len(diags) > 0 {
		return sourceErrors(len(diags))
	}
	return nil
}

func tokenRecords(header []string, rows [][]string) []map[string]string {
	out := make([]map[string]string, len(rows))
	for i, row := range rows {
		rec := make(map[string]string, len(header))
		for j, col := range header {
			rec[col] = row[j]
		}
		out[i] = rec
	}
	return out
}

func tokenRow(src string, tok token.Token) []string {
	pos := diagPosition(src, tok.Span.Start)
	return []string{
		fmt.Sprintf("%d..%d", tok.Span.Start, tok.Span.End),
		pos,
		tok.Type.String(),
		tok.Literal,
		tokenValue(tok),
	}
}

func tokenValue(tok token.Token) string {
	switch {
	case tok.Type == token.INT:
		return tok.Int.String()
	case tok.Type == token.FLOAT:
		return tok.Float.String()
	case tok.Type == token.STRING:
		return strconv.Quote(tok.Text)
	case token.IsComment(tok.Type):
		return strconv.Quote(tok.Text)
	}
	return ""
}

func diagPosition(src string, offset int) string {
	pos := diag.Locate(src, offset)
	return fmt.Sprintf("%d:%d", pos.Line, pos.Column)
}
