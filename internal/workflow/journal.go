package workflow

import (
	"context"
	"errors"
	"log/slog"

	"cleanfolder/internal/journal"
	"cleanfolder/internal/logging"
	"cleanfolder/internal/organizer"
)

// recorder writes a run and its operations to the journal. Journal failures
// are logged and never fail the run.
type recorder struct {
	store  *journal.Store
	run    *journal.Run
	logger *slog.Logger
}

func (r *Runner) openRecorder(ctx context.Context, logger *slog.Logger, summary *Summary) *recorder {
	rec := &recorder{logger: logger}
	if !r.cfg.Journal.Enabled {
		return rec
	}
	store, err := journal.Open(r.cfg)
	if err != nil {
		rec.warn("run journal unavailable", err)
		return rec
	}
	run := &journal.Run{
		ID:        summary.RunID,
		Root:      summary.Root,
		DryRun:    summary.DryRun,
		StartedAt: summary.Started.UTC(),
	}
	if err := store.BeginRun(context.WithoutCancel(ctx), run); err != nil {
		rec.warn("failed to record run start", err)
		_ = store.Close()
		return rec
	}
	rec.store = store
	rec.run = run
	return rec
}

func (rec *recorder) finish(ctx context.Context, summary *Summary, runErr error) {
	if rec.store == nil {
		return
	}
	// An interrupted run is still recorded.
	ctx = context.WithoutCancel(ctx)

	if err := rec.store.RecordOperations(ctx, rec.run.ID, operationsFrom(summary.Result)); err != nil {
		rec.warn("failed to record operations", err)
	}

	run := rec.run
	switch {
	case runErr == nil:
		run.Status = journal.RunCompleted
	case errors.Is(runErr, context.Canceled), errors.Is(runErr, context.DeadlineExceeded):
		run.Status = journal.RunInterrupted
	default:
		run.Status = journal.RunFailed
		run.Error = runErr.Error()
	}
	if summary.Result != nil {
		run.Moved = len(summary.Result.Moved)
		run.Failed = len(summary.Result.Failures)
		run.Bytes = summary.Result.MovedBytes()
	}
	run.Pruned = len(summary.Pruned.Removed)
	run.FinishedAt = summary.Started.Add(summary.Duration).UTC()

	if err := rec.store.FinishRun(ctx, run); err != nil {
		rec.warn("failed to record run result", err)
	}
}

func (rec *recorder) close() {
	if rec.store == nil {
		return
	}
	if err := rec.store.Close(); err != nil {
		rec.logger.Debug("journal close failed", logging.Error(err))
	}
}

func (rec *recorder) warn(msg string, err error) {
	logging.WarnWithContext(rec.logger, msg, "journal_failed",
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "check state_dir permissions or disable the journal"),
		logging.String(logging.FieldImpact, "run history incomplete"),
	)
}

func operationsFrom(result *organizer.Result) []journal.Operation {
	if result == nil {
		return nil
	}
	ops := make([]journal.Operation, 0, len(result.Moved)+len(result.Failures))
	for _, m := range result.Moved {
		ops = append(ops, journal.Operation{
			Source:   m.Source,
			Dest:     m.Dest,
			Action:   string(m.Action),
			Category: string(m.Category),
			Status:   journal.OperationMoved,
		})
	}
	for _, f := range result.Failures {
		op := journal.Operation{
			Source:   f.Source,
			Action:   string(f.Action),
			Category: string(f.Category),
			Status:   journal.OperationFailed,
		}
		if f.Err != nil {
			op.ErrorKind = f.Kind()
			op.ErrorMessage = f.Err.Error()
		}
		ops = append(ops, op)
	}
	for i := range ops {
		ops[i].Seq = i + 1
	}
	return ops
}
