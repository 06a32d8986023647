package commands

import (
	"strings"

	"github.com/leapstack-labs/haiku/internal/cli/output"
	"github.com/leapstack-labs/haiku/internal/engine"
	"github.com/leapstack-labs/haiku/pkg/ir"
	"github.com/spf13/cobra"
)

// IROptions holds options for the ir command.
type IROptions struct {
	Path string
}

// NewIRCommand creates the ir command.
func NewIRCommand() *cobra.Command {
	opts := &IROptions{}
	cmd := &cobra.Command{
		Use:   "ir <file>",
		Short: "Print the lowered IR of a source file",
		Long: `Parse and lower a source file, then print the module listing:
imports, struct and function headers, and every lowered body with its
expression and statement handles.

Lowering only runs when the file parsed without errors.`,
		Example: `  # Print the IR listing
  haiku ir main.hk

  # Read from standard input
  echo 'fn main() = 1 + 2;' | haiku ir -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Path = args[0]
			return runIR(cmd, opts)
		},
	}

	return cmd
}

func runIR(cmd *cobra.Command, opts *IROptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	src, err := readSource(cmd, opts.Path)
	if err != nil {
		return err
	}

	result := cmdCtx.Engine.Compile(cmd.Context(), displayPath(opts.Path), src)
	return renderIR(cmdCtx.Renderer, result)
}

func renderIR(r *output.Renderer, result *engine.Result) error {
	listing, err := irString(result.Module)
	if err != nil {
		return err
	}

	if r.Structured() {
		if err := r.Data(unitRecord{
			Path:        result.Path,
			IR:          listing,
			Diagnostics: output.Records(result.Source, result.Diagnostics),
		}); err != nil {
			return err
		}
	} else {
		if listing != "" {
			r.Code("", listing)
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

func irString(m *ir.Module) (string, error) {
	if m == nil {
		return "", nil
	}
	var sb strings.Builder
	if err := ir.Dump(&sb, m); err != nil {
		return "", err
	}
	return sb.String(), nil
}
