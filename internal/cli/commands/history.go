package commands

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/leapstack-labs/haiku/internal/state"
	"github.com/spf13/cobra"
)

// HistoryOptions holds options for the history command.
type HistoryOptions struct {
	RunID string
	Limit int
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand() *cobra.Command {
	opts := &HistoryOptions{}
	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "Show recorded check runs",
		Long: `List the check runs recorded with check --record, newest first.

Given a run ID, or a unique prefix of one, show the files checked in that
run and every diagnostic it reported.`,
		Example: `  # Recent runs
  haiku history

  # Details of one run
  haiku history 3f2a9c1e`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.RunID = args[0]
			}
			return runHistory(cmd, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 10, "Number of runs to list")

	return cmd
}

func runHistory(cmd *cobra.Command, opts *HistoryOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	store, err := openStore(ctx, cmdCtx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if opts.RunID != "" {
		return showRun(ctx, cmdCtx, store, opts.RunID)
	}
	return listRuns(ctx, cmdCtx, store, opts.Limit)
}

// runRecord is the structured form of a run.
type runRecord struct {
	ID        string `json:"id" yaml:"id"`
	Roots     string `json:"roots" yaml:"roots"`
	Status    string `json:"status" yaml:"status"`
	StartedAt string `json:"started_at" yaml:"started_at"`
	Duration  string `json:"duration" yaml:"duration"`
	Files     int    `json:"files" yaml:"files"`
	Errors    int    `json:"errors" yaml:"errors"`
}

func newRunRecord(run *state.Run) runRecord {
	return runRecord{
		ID:        run.ID,
		Roots:     run.Roots,
		Status:    string(run.Status),
		StartedAt: run.StartedAt.Local().Format(time.RFC3339),
		Duration:  run.Duration().Round(time.Millisecond).String(),
		Files:     run.Files,
		Errors:    run.Errors,
	}
}

func listRuns(ctx context.Context, cmdCtx *CommandContext, store *state.SQLiteStore, limit int) error {
	runs, err := store.ListRuns(ctx, limit)
	if err != nil {
		return err
	}

	r := cmdCtx.Renderer
	if r.Structured() {
		records := make([]runRecord, len(runs))
		for i, run := range runs {
			records[i] = newRunRecord(run)
		}
		return r.Data(records)
	}

	rows := make([][]string, len(runs))
	for i, run := range runs {
		rec := newRunRecord(run)
		rows[i] = []string{
			shortID(rec.ID), rec.StartedAt, rec.Status,
			strconv.Itoa(rec.Files), strconv.Itoa(rec.Errors), rec.Duration, rec.Roots,
		}
	}
	r.Header("Check runs")
	return r.Table([]string{"run", "started", "status", "files", "errors", "duration", "paths"}, rows)
}

func showRun(ctx context.Context, cmdCtx *CommandContext, store *state.SQLiteStore, id string) error {
	run, err := store.GetRun(ctx, id)
	if err != nil {
		return err
	}
	files, err := store.RunFiles(ctx, run.ID)
	if err != nil {
		return err
	}
	diags, err := store.RunDiagnostics(ctx, run.ID)
	if err != nil {
		return err
	}

	r := cmdCtx.Renderer
	if r.Structured() {
		type fileRecord struct {
			Path     string `json:"path" yaml:"path"`
			Hash     string `json:"hash" yaml:"hash"`
			Errors   int    `json:"errors" yaml:"errors"`
			Duration string `json:"duration" yaml:"duration"`
		}
		type diagRecord struct {
			Location string `json:"location" yaml:"location"`
			Kind     string `json:"kind" yaml:"kind"`
			Severity string `json:"severity" yaml:"severity"`
			Message  string `json:"message" yaml:"message"`
		}
		out := struct {
			Run         runRecord    `json:"run" yaml:"run"`
			Files       []fileRecord `json:"files" yaml:"files"`
			Diagnostics []diagRecord `json:"diagnostics" yaml:"diagnostics"`
		}{Run: newRunRecord(run)}
		for _, f := range files {
			out.Files = append(out.Files, fileRecord{f.Path, f.Hash, f.Errors, f.Duration.String()})
		}
		for _, d := range diags {
			out.Diagnostics = append(out.Diagnostics, diagRecord{diagLocation(d), d.Kind, d.Severity, d.Message})
		}
		return r.Data(out)
	}

	rec := newRunRecord(run)
	r.Header(fmt.Sprintf("Run %s", run.ID))
	_, _ = fmt.Fprintf(r.Out(), "status: %s, %d file(s), %d error(s), started %s, took %s\n\n",
		rec.Status, rec.Files, rec.Errors, rec.StartedAt, rec.Duration)

	rows := make([][]string, len(files))
	for i, f := range files {
		rows[i] = []string{f.Path, strconv.Itoa(f.Errors), f.Duration.String(), shortID(f.Hash)}
	}
	if err := r.Table([]string{"file", "errors", "duration", "sha256"}, rows); err != nil {
		return err
	}

	if len(diags) > 0 {
		r.Header("Diagnostics")
		for _, d := range diags {
			_, _ = fmt.Fprintf(r.Out(), "%s: %s[%s]: %s\n", diagLocation(d), d.Severity, d.Kind, d.Message)
		}
	}
	return nil
}

func diagLocation(d state.Diagnostic) string {
	return fmt.Sprintf("%s:%d:%d", d.Path, d.Line, d.Column)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
