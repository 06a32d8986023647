package commands

import (
	"context"

	"github.com/leapstack-labs/haiku/internal/lsp"
	"github.com/leapstack-labs/haiku/pkg/lint"
	"github.com/spf13/cobra"
)

// NewLSPCommand creates the lsp command.
func NewLSPCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server",
		Long: `Start the LSP server for editor integration.

The server communicates over stdin/stdout using JSON-RPC and
publishes compiler diagnostics and lint findings (configured by the
lint section of haiku.yaml) for every open document. It also
answers hover, go-to-definition, completion and document symbol
requests.`,
		Example: `  # Start LSP server (usually called by an editor)
  haiku lsp`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLSP(cmd)
		},
	}

	return cmd
}

func runLSP(cmd *cobra.Command) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	lintCfg, err := buildLintConfig(cmdCtx.Cfg, &LintOptions{})
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	server := lsp.NewServer(cmd.InOrStdin(), cmd.OutOrStdout(), lsp.Config{
		Engine: cmdCtx.Engine,
		Linter: lint.NewAnalyzer(lintCfg),
		Logger: cmdCtx.Logger,
	})
	return server.Run(ctx)
}
