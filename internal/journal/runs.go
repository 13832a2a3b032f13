package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrRunNotFound is returned when no run matches the requested identifier.
var ErrRunNotFound = errors.New("run not found")

// ErrAmbiguousRun is returned when a run ID prefix matches several runs.
var ErrAmbiguousRun = errors.New("run id prefix is ambiguous")

// timeLayout is fixed width so text ordering matches chronological ordering.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const runColumns = "id, root, status, dry_run, started_at, finished_at, moved, failed, pruned, bytes, error_message"

// BeginRun inserts run with status running.
func (s *Store) BeginRun(ctx context.Context, run *Run) error {
	if run == nil || strings.TrimSpace(run.ID) == "" {
		return errors.New("begin run: id required")
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now().UTC()
	}
	run.Status = RunRunning
	if err := s.execWithRetry(ctx,
		`INSERT INTO runs (id, root, status, dry_run, started_at) VALUES (?, ?, ?, ?, ?)`,
		run.ID,
		run.Root,
		string(run.Status),
		boolToInt(run.DryRun),
		formatTime(run.StartedAt),
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// RecordOperations appends ops to the run in a single transaction. Seq is
// assigned from the slice order when unset.
func (s *Store) RecordOperations(ctx context.Context, runID string, ops []Operation) error {
	if len(ops) == 0 {
		return nil
	}
	ctx = ensureContext(ctx)
	return retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO operations (run_id, seq, source, dest, action, category, status, error_kind, error_message)
             VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare insert: %w", err)
		}
		defer stmt.Close()

		for i, op := range ops {
			seq := op.Seq
			if seq == 0 {
				seq = i + 1
			}
			if _, err := stmt.ExecContext(ctx,
				runID,
				seq,
				op.Source,
				nullableString(op.Dest),
				op.Action,
				op.Category,
				string(op.Status),
				nullableString(op.ErrorKind),
				nullableString(op.ErrorMessage),
			); err != nil {
				return fmt.Errorf("insert operation: %w", err)
			}
		}
		return tx.Commit()
	})
}

// FinishRun stores the final status and counters for run.
func (s *Store) FinishRun(ctx context.Context, run *Run) error {
	if run == nil {
		return errors.New("finish run: nil run")
	}
	if run.FinishedAt.IsZero() {
		run.FinishedAt = time.Now().UTC()
	}
	if err := s.execWithRetry(ctx,
		`UPDATE runs SET status = ?, finished_at = ?, moved = ?, failed = ?, pruned = ?, bytes = ?, error_message = ?
         WHERE id = ?`,
		string(run.Status),
		formatTime(run.FinishedAt),
		run.Moved,
		run.Failed,
		run.Pruned,
		run.Bytes,
		nullableString(run.Error),
		run.ID,
	); err != nil {
		return fmt.Errorf("update run: %w", err)
	}
	return nil
}

// ListRuns returns up to limit runs, newest first. A limit <= 0 returns all.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	ctx = ensureContext(ctx)
	query := "SELECT " + runColumns + " FROM runs ORDER BY started_at DESC, rowid DESC"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

// GetRun looks a run up by full ID or unique ID prefix.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	ctx = ensureContext(ctx)
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrRunNotFound
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+runColumns+" FROM runs WHERE id = ? OR substr(id, 1, ?) = ? ORDER BY id LIMIT 2",
		id, len(id), id,
	)
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	defer rows.Close()

	var matches []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		if run.ID == id {
			return run, nil
		}
		matches = append(matches, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrAmbiguousRun, id)
	}
}

// Operations returns the journaled operations for runID in order.
func (s *Store) Operations(ctx context.Context, runID string) ([]Operation, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, seq, source, dest, action, category, status, error_kind, error_message
         FROM operations WHERE run_id = ? ORDER BY seq`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("list operations: %w", err)
	}
	defer rows.Close()

	var ops []Operation
	for rows.Next() {
		var (
			op        Operation
			status    string
			dest      sql.NullString
			errorKind sql.NullString
			errorMsg  sql.NullString
		)
		if err := rows.Scan(&op.RunID, &op.Seq, &op.Source, &dest, &op.Action, &op.Category, &status, &errorKind, &errorMsg); err != nil {
			return nil, fmt.Errorf("scan operation: %w", err)
		}
		op.Status = OperationStatus(status)
		op.Dest = dest.String
		op.ErrorKind = errorKind.String
		op.ErrorMessage = errorMsg.String
		ops = append(ops, op)
	}
	return ops, rows.Err()
}

func scanRun(scanner interface{ Scan(dest ...any) error }) (*Run, error) {
	var (
		run         Run
		status      string
		dryRun      int
		startedRaw  string
		finishedRaw sql.NullString
		errorMsg    sql.NullString
	)
	if err := scanner.Scan(
		&run.ID,
		&run.Root,
		&status,
		&dryRun,
		&startedRaw,
		&finishedRaw,
		&run.Moved,
		&run.Failed,
		&run.Pruned,
		&run.Bytes,
		&errorMsg,
	); err != nil {
		return nil, fmt.Errorf("scan run: %w", err)
	}
	run.Status = RunStatus(status)
	run.DryRun = dryRun != 0
	run.StartedAt = parseTime(startedRaw)
	if finishedRaw.Valid {
		run.FinishedAt = parseTime(finishedRaw.String)
	}
	run.Error = errorMsg.String
	return &run, nil
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(raw string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}
	}
	return t
}
