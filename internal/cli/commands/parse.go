package commands

import (
	"strings"

	"github.com/leapstack-labs/haiku/internal/cli/output"
	"github.com/leapstack-labs/haiku/internal/engine"
	"github.com/leapstack-labs/haiku/pkg/ast"
	"github.com/spf13/cobra"
)

// ParseOptions holds options for the parse command.
type ParseOptions struct {
	Path  string
	Spans bool
}

// NewParseCommand creates the parse command.
func NewParseCommand() *cobra.Command {
	opts := &ParseOptions{}
	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Print the syntax tree of a source file",
		Long: `Parse a source file and print its syntax tree as an indented outline.

Syntax errors are reported after the tree. With the collect policy the
parser recovers and the tree contains every declaration it could read.`,
		Example: `  # Print the tree
  haiku parse main.hk

  # Include byte spans for every node
  haiku parse main.hk --spans`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Path = args[0]
			return runParse(cmd, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Spans, "spans", false, "Show byte spans for every node")

	return cmd
}

func runParse(cmd *cobra.Command, opts *ParseOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	src, err := readSource(cmd, opts.Path)
	if err != nil {
		return err
	}

	result := cmdCtx.Engine.Parse(cmd.Context(), displayPath(opts.Path), src)
	return renderTree(cmdCtx.Renderer, result, opts.Spans)
}

// unitRecord is the structured form of a parse or compile result.
type unitRecord struct {
	Path        string                    `json:"path" yaml:"path"`
	Tree        string                    `json:"tree,omitempty" yaml:"tree,omitempty"`
	IR          string                    `json:"ir,omitempty" yaml:"ir,omitempty"`
	Diagnostics []output.DiagnosticRecord `json:"diagnostics" yaml:"diagnostics"`
}

func renderTree(r *output.Renderer, result *engine.Result, spans bool) error {
	tree := ""
	if result.Unit != nil {
		tree = treeString(result.Unit, spans)
	}
	for _, stmt := range result.Stmts {
		tree += treeString(stmt, spans)
	}

	if r.Structured() {
		if err := r.Data(unitRecord{
			Path:        result.Path,
			Tree:        tree,
			Diagnostics: output.Records(result.Source, result.Diagnostics),
		}); err != nil {
			return err
		}
	} else {
		if tree != "" {
			r.Code("", tree)
		}
		if err := r.Diagnostics(result.Source, result.Diagnostics); err != nil {
			return err
		}
	}

	if result.HasErrors() {
		return sourceErrors(len(result.Diagnostics))
	}
	return nil
}

func treeString(n ast.Node, spans bool) string {
	if !spans {
		return ast.Sprint(n)
	}
	var sb strings.Builder
	_ = ast.Fprint(&sb, n)
	return sb.String()
}
