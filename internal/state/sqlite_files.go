package state

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// RecordFiles stores the results of a run's files and their diagnostics in
// one transaction.
func (s *SQLiteStore) RecordFiles(ctx context.Context, runID string, files []FileResult) (err error) {
	if s.db == nil {
		return ErrNotOpen
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	fileStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO file_results (run_id, path, hash, errors, duration_us) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare file insert: %w", err)
	}
	defer func() { _ = fileStmt.Close() }()

	diagStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO diagnostics (run_id, seq, path, kind, severity, line, col, span_start, span_end, message)
		VALUES (?, (SELECT COALESCE(MAX(seq), -1) + 1 FROM diagnostics WHERE run_id = ?), ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare diagnostic insert: %w", err)
	}
	defer func() { _ = diagStmt.Close() }()

	for _, f := range files {
		if _, err = fileStmt.ExecContext(ctx, runID, f.Path, f.Hash, f.Errors, f.Duration.Microseconds()); err != nil {
			return fmt.Errorf("failed to record %s: %w", f.Path, err)
		}
		for _, d := range f.Diagnostics {
			if _, err = diagStmt.ExecContext(ctx, runID, runID, d.Path, d.Kind, d.Severity,
				d.Line, d.Column, d.Start, d.End, d.Message); err != nil {
				return fmt.Errorf("failed to record diagnostic for %s: %w", f.Path, err)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run files: %w", err)
	}
	s.logger.Debug("recorded files", "run", runID, "files", len(files))
	return nil
}

// RunFiles returns the file results of a run ordered by path. Diagnostics
// are not loaded.
func (s *SQLiteStore) RunFiles(ctx context.Context, runID string) ([]FileResult, error) {
	if s.db == nil {
		return nil, ErrNotOpen
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT path, hash, errors, duration_us FROM file_results WHERE run_id = ? ORDER BY path`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list run files: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var files []FileResult
	for rows.Next() {
		var f FileResult
		var us int64
		if err := rows.Scan(&f.Path, &f.Hash, &f.Errors, &us); err != nil {
			return nil, fmt.Errorf("failed to scan run file: %w", err)
		}
		f.Duration = time.Duration(us) * time.Microsecond
		files = append(files, f)
	}
	return files, rows.Err()
}

// RunDiagnostics returns every diagnostic of a run in the order recorded.
func (s *SQLiteStore) RunDiagnostics(ctx context.Context, runID string) ([]Diagnostic, error) {
	if s.db == nil {
		return nil, ErrNotOpen
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT path, kind, severity, line, col, span_start, span_end, message
		FROM diagnostics WHERE run_id = ? ORDER BY seq`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list diagnostics: %w", err)
	}
	return scanDiagnostics(rows)
}

func scanDiagnostics(rows *sql.Rows) ([]Diagnostic, error) {
	defer func() { _ = rows.Close() }()

	var diags []Diagnostic
	for rows.Next() {
		var d Diagnostic
		if err := rows.Scan(&d.Path, &d.Kind, &d.Severity, &d.Line, &d.Column, &d.Start, &d.End, &d.Message); err != nil {
			return nil, fmt.Errorf("failed to scan diagnostic: %w", err)
		}
		diags = append(diags, d)
	}
	return diags, rows.Err()
}
