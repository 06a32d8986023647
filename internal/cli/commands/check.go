package commands

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/leapstack-labs/haiku/internal/cli/output"
	"github.com/leapstack-labs/haiku/internal/engine"
	"github.com/leapstack-labs/haiku/internal/state"
	"github.com/spf13/cobra"
)

// CheckOptions holds options for the check command.
type CheckOptions struct {
	Paths    []string
	Watch    bool
	Debounce time.Duration
	Record   bool
}

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	opts := &CheckOptions{}
	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Compile source files and report diagnostics",
		Long: `Discover source files under the given paths, compile each one as an
independent unit and report every diagnostic.

Directories are walked recursively for files with a source extension;
hidden directories are skipped. Files named explicitly are always checked.
With --watch, files are re-checked whenever a source file changes.
With --record, every run and its diagnostics are stored in the state
database (state_path) for the history command.`,
		Example: `  # Check the current directory
  haiku check

  # Check specific files, stopping at the first error in each
  haiku check a.hk b.hk --error-policy fail-fast

  # Re-check on every change
  haiku check src --watch

  # Keep a history of runs
  haiku check --record && haiku history`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Paths = args
			if len(opts.Paths) == 0 {
				opts.Paths = []string{"."}
			}
			return runCheck(cmd, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Re-check when source files change")
	cmd.Flags().DurationVar(&opts.Debounce, "debounce", engine.DefaultDebounce, "Quiet period before re-checking in watch mode")
	cmd.Flags().BoolVar(&opts.Record, "record", false, "Record the run in the state database")

	return cmd
}

func runCheck(cmd *cobra.Command, opts *CheckOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var store *state.SQLiteStore
	if opts.Record {
		store, err = openStore(ctx, cmdCtx)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()
	}

	err = checkOnce(ctx, cmdCtx, opts.Paths, store)
	if !opts.Watch {
		return err
	}
	if err != nil && !errors.Is(err, ErrSourceErrors) {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmdCtx.Logger.Info("watching for changes", "paths", opts.Paths)
	return cmdCtx.Engine.Watch(ctx, opts.Paths, opts.Debounce, func(path string) {
		cmdCtx.Renderer.Header(fmt.Sprintf("Change in %s", path))
		if err := checkOnce(ctx, cmdCtx, opts.Paths, store); err != nil && !errors.Is(err, ErrSourceErrors) {
			cmdCtx.Renderer.Errorf("%v", err)
		}
	})
}

// fileReport is the structured form of one checked file.
type fileReport struct {
	Path        string                    `json:"path" yaml:"path"`
	Errors      int                       `json:"errors" yaml:"errors"`
	Duration    string                    `json:"duration" yaml:"duration"`
	Diagnostics []output.DiagnosticRecord `json:"diagnostics" yaml:"diagnostics"`
}

func checkOnce(ctx context.Context, cmdCtx *CommandContext, paths []string, store *state.SQLiteStore) error {
	files, err := cmdCtx.Engine.Discover(paths)
	if err != nil {
		return err
	}

	start := time.Now()
	results, err := cmdCtx.Engine.CompileFiles(ctx, files)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	r := cmdCtx.Renderer
	total := 0
	failed := 0
	reports := make([]fileReport, len(results))
	for i, result := range results {
		n := len(result.Diagnostics)
		total += n
		if result.HasErrors() {
			failed++
		}
		reports[i] = fileReport{
			Path:        result.Path,
			Errors:      n,
			Duration:    result.Duration.String(),
			Diagnostics: output.Records(result.Source, result.Diagnostics),
		}
		if !r.Structured() {
			if err := r.Diagnostics(result.Source, result.Diagnostics); err != nil {
				return err
			}
		}
	}
	cmdCtx.Logger.Debug("check finished", "files", len(files), "errors", total, "duration", elapsed)

	if store != nil {
		run, err := recordRun(ctx, store, paths, results)
		if err != nil {
			return err
		}
		cmdCtx.Logger.Info("recorded run", "id", run.ID, "status", run.Status)
		if !r.Structured() {
			r.Success("Recorded run %s", run.ID)
		}
	}

	if r.Structured() {
		if err := r.Data(reports); err != nil {
			return err
		}
	} else if total == 0 {
		r.Success("Checked %d file(s) in %s", len(files), elapsed.Round(time.Millisecond))
	} else {
		r.Errorf("%d error(s) in %d of %d file(s)", total, failed, len(files))
	}

	if total > 0 {
		return sourceErrors(total)
	}
	return nil
}

// recordRun stores results as a completed run.
func recordRun(ctx context.Context, store *state.SQLiteStore, paths []string, results []*engine.Result) (*state.Run, error) {
	run, err := store.CreateRun(ctx, paths)
	if err != nil {
		return nil, err
	}

	files := make([]state.FileResult, len(results))
	for i, result := range results {
		sum := sha256.Sum256([]byte(result.Source))
		files[i] = state.FileResult{
			Path:     result.Path,
			Hash:     hex.EncodeToString(sum[:]),
			Errors:   len(result.Diagnostics),
			Duration: result.Duration,
		}
		for _, rec := range output.Records(result.Source, result.Diagnostics) {
			files[i].Diagnostics = append(files[i].Diagnostics, state.Diagnostic{
				Path:     rec.Path,
				Kind:     rec.Kind,
				Severity: rec.Severity,
				Line:     rec.Line,
				Column:   rec.Column,
				Start:    rec.Start,
				End:      rec.End,
				Message:  rec.Message,
			})
		}
	}

	if err := store.RecordFiles(ctx, run.ID, files); err != nil {
		return nil, err
	}
	return store.CompleteRun(ctx, run.ID)
}
