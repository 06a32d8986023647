// Package state records check runs in a SQLite database: one row per run,
// per checked file and per reported diagnostic.
package state

import (
	"context"
	"time"
)

// RunStatus is the outcome of a check run.
type RunStatus string

// Run statuses.
const (
	RunStatusRunning RunStatus = "running"
	RunStatusPassed  RunStatus = "passed"
	RunStatusFailed  RunStatus = "failed"
)

// Run is one invocation of check.
type Run struct {
	ID          string
	Roots       string // checked paths, comma separated
	Status      RunStatus
	StartedAt   time.Time
	CompletedAt *time.Time
	Files       int
	Errors      int
}

// Duration is the wall time of a completed run, or zero.
func (r *Run) Duration() time.Duration {
	if r.CompletedAt == nil {
		return 0
	}
	return r.CompletedAt.Sub(r.StartedAt)
}

// FileResult is the outcome of compiling one file in a run.
type FileResult struct {
	Path        string
	Hash        string // sha256 of the source, hex encoded
	Errors      int
	Duration    time.Duration
	Diagnostics []Diagnostic
}

// Diagnostic is a diagnostic as stored, with its resolved position.
type Diagnostic struct {
	Path     string `json:"path"`
	Kind     string `json:"kind"`
	Severity string `json:"severity"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
	Start    int    `json:"start"`
	End      int    `json:"end"`
	Message  string `json:"message"`
}

// Store is the check history.
type Store interface {
	CreateRun(ctx context.Context, roots []string) (*Run, error)
	RecordFiles(ctx context.Context, runID string, files []FileResult) error
	CompleteRun(ctx context.Context, runID string) (*Run, error)
	GetRun(ctx context.Context, id string) (*Run, error)
	ListRuns(ctx context.Context, limit int) ([]*Run, error)
	RunDiagnostics(ctx context.Context, runID string) ([]Diagnostic, error)
	Close() error
}

var _ Store = (*SQLiteStore)(nil)
