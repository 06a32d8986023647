package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/leapstack-labs/haiku/internal/server"
	"github.com/leapstack-labs/haiku/internal/state"
	"github.com/spf13/cobra"
)

// ServeOptions holds options for the serve command.
type ServeOptions struct {
	Addr    string
	Watch   []string
	History bool
}

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the compiler playground and JSON API",
		Long: `Start a local HTTP server with a browser playground and a JSON API.

Endpoints:
  GET  /                    playground page
  POST /api/tokens          token list for {"path", "source"}
  POST /api/parse           syntax tree and diagnostics
  POST /api/ir              syntax tree, IR listing and diagnostics
  GET  /api/runs[/{id}]     recorded check runs (with --history)

With --watch the playground is notified when source files change.`,
		Example: `  # Serve on the configured address
  haiku serve

  # Serve on another port and expose the check history
  haiku serve --addr :9000 --history

  # Notify the playground about changes under src
  haiku serve --watch src`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", "", "Listen address (default from serve_addr)")
	cmd.Flags().StringSliceVar(&opts.Watch, "watch", nil, "Paths to watch for source changes")
	cmd.Flags().BoolVar(&opts.History, "history", false, "Expose recorded check runs from the state database")

	return cmd
}

func runServe(cmd *cobra.Command, opts *ServeOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	addr := cmdCtx.Cfg.ServeAddr
	if opts.Addr != "" {
		addr = opts.Addr
	}

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var store *state.SQLiteStore
	if opts.History {
		store, err = openStore(ctx, cmdCtx)
		if err != nil {
			return fmt.Errorf("failed to open state database: %w", err)
		}
		defer func() { _ = store.Close() }()
	}

	srv := server.NewServer(server.Config{
		Addr:       addr,
		Engine:     cmdCtx.Engine,
		Store:      store,
		WatchRoots: opts.Watch,
		Logger:     cmdCtx.Logger,
	})

	cmdCtx.Renderer.Success("Serving on http://%s (Ctrl+C to stop)", addr)
	return srv.Serve(ctx)
}
