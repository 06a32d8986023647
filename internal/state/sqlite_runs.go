package state

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

const runColumns = `id, roots, status, started_at, completed_at, files, errors`

// CreateRun starts a new run over roots.
func (s *SQLiteStore) CreateRun(ctx context.Context, roots []string) (*Run, error) {
	if s.db == nil {
		return nil, ErrNotOpen
	}

	run := &Run{
		ID:        generateID(),
		Roots:     strings.Join(roots, ","),
		Status:    RunStatusRunning,
		StartedAt: time.Now().UTC(),
	}
	s.logger.Debug("creating run", "id", run.ID, "roots", run.Roots)

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, roots, status, started_at) VALUES (?, ?, ?, ?)`,
		run.ID, run.Roots, string(run.Status), run.StartedAt.UnixMicro(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create run: %w", err)
	}
	return run, nil
}

// CompleteRun totals the recorded files of a run and marks it passed or
// failed.
func (s *SQLiteStore) CompleteRun(ctx context.Context, runID string) (*Run, error) {
	if s.db == nil {
		return nil, ErrNotOpen
	}

	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `
		UPDATE runs SET
			files = (SELECT COUNT(*) FROM file_results WHERE run_id = runs.id),
			errors = (SELECT COALESCE(SUM(errors), 0) FROM file_results WHERE run_id = runs.id),
			completed_at = ?
		WHERE id = ?`,
		now.UnixMicro(), runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to complete run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}

	if _, err := s.db.ExecContext(ctx,
		`UPDATE runs SET status = CASE WHEN errors > 0 THEN ? ELSE ? END WHERE id = ?`,
		string(RunStatusFailed), string(RunStatusPassed), runID,
	); err != nil {
		return nil, fmt.Errorf("failed to complete run: %w", err)
	}

	return s.GetRun(ctx, runID)
}

// GetRun retrieves a run by ID. A unique ID prefix is accepted.
func (s *SQLiteStore) GetRun(ctx context.Context, id string) (*Run, error) {
	if s.db == nil {
		return nil, ErrNotOpen
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM runs WHERE id LIKE ? || '%' ORDER BY started_at DESC LIMIT 2`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	runs, err := scanRuns(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	switch len(runs) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	case 1:
		return runs[0], nil
	}
	return nil, fmt.Errorf("run ID prefix %q is ambiguous", id)
}

// ListRuns retrieves the most recent runs up to limit, newest first.
func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]*Run, error) {
	if s.db == nil {
		return nil, ErrNotOpen
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM runs ORDER BY started_at DESC, rowid DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	runs, err := scanRuns(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}

func scanRuns(rows *sql.Rows) ([]*Run, error) {
	defer func() { _ = rows.Close() }()

	var runs []*Run
	for rows.Next() {
		run := &Run{}
		var status string
		var startedAt int64
		var completedAt sql.NullInt64
		if err := rows.Scan(&run.ID, &run.Roots, &status, &startedAt, &completedAt, &run.Files, &run.Errors); err != nil {
			return nil, err
		}
		run.Status = RunStatus(status)
		run.StartedAt = time.UnixMicro(startedAt).UTC()
		if completedAt.Valid {
			t := time.UnixMicro(completedAt.Int64).UTC()
			run.CompletedAt = &t
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return runs, nil
}

