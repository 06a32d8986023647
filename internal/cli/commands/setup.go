package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/leapstack-labs/haiku/internal/cli/config"
	"github.com/leapstack-labs/haiku/internal/cli/output"
	"github.com/leapstack-labs/haiku/internal/engine"
	"github.com/leapstack-labs/haiku/internal/state"
	"github.com/spf13/cobra"
)

// ErrSourceErrors is returned by commands whose input had lexical, syntax
// or lowering errors. The diagnostics have already been rendered.
var ErrSourceErrors = errors.New("source has errors")

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Engine   *engine.Engine
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext with engine and renderer.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())

	eng, err := createEngine(cfg, logger)
	if err != nil {
		return nil, err
	}

	mode, err := output.ParseMode(cfg.OutputFormat)
	if err != nil {
		return nil, err
	}
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Engine:   eng,
		Renderer: r,
	}, nil
}

// getConfig returns the current configuration, or the defaults when no
// configuration has been loaded.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	return config.Default()
}

func createEngine(cfg *config.Config, logger *slog.Logger) (*engine.Engine, error) {
	policy, err := engine.ParsePolicy(cfg.ErrorPolicy)
	if err != nil {
		return nil, err
	}
	return engine.New(engine.Config{
		Policy:     policy,
		MaxErrors:  cfg.MaxErrors,
		Extensions: cfg.SourceExtensions,
		Workers:    cfg.Workers,
		Logger:     logger,
	})
}

// openStore opens the state database named by the configuration.
func openStore(ctx context.Context, cmdCtx *CommandContext) (*state.SQLiteStore, error) {
	path := cmdCtx.Cfg.ResolveStatePath()
	if path == "" {
		return nil, errors.New("state_path is not configured")
	}
	store := state.NewSQLiteStore(cmdCtx.Logger)
	if err := store.Open(ctx, path); err != nil {
		return nil, err
	}
	return store, nil
}

// readSource reads a source file, or standard input when path is "-".
func readSource(cmd *cobra.Command, path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the command line
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

// displayPath is the path used in diagnostics for a source argument.
func displayPath(path string) string {
	if path == "-" {
		return "<stdin>"
	}
	return path
}

// sourceErrors wraps ErrSourceErrors with an error count.
func sourceErrors(n int) error {
	return fmt.Errorf("%w: %d error(s)", ErrSourceErrors, n)
}
