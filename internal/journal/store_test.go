package journal_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"cleanfolder/internal/journal"
	"cleanfolder/internal/testsupport"
)

func TestOpenCreatesSchema(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)
	if store.Path() != cfg.JournalPath() {
		t.Fatalf("unexpected path %s", store.Path())
	}

	// Reopening an initialized database must succeed.
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	reopened, err := journal.Open(cfg)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	reopened.Close()
}

func TestRunLifecycle(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)
	ctx := context.Background()

	run := &journal.Run{ID: "11111111-aaaa-bbbb-cccc-000000000001", Root: "/data/inbox"}
	if err := store.BeginRun(ctx, run); err != nil {
		t.Fatalf("BeginRun: %v", err)
	}
	if run.Status != journal.RunRunning || run.StartedAt.IsZero() {
		t.Fatalf("unexpected run after begin: %+v", run)
	}

	ops := []journal.Operation{
		{Source: "/data/inbox/a.txt", Dest: "/data/inbox/Documents/a.txt", Action: "move-known", Category: "Documents", Status: journal.OperationMoved},
		{Source: "/data/inbox/b.zip", Action: "extract-archive", Category: "Archives", Status: journal.OperationFailed, ErrorKind: "extraction", ErrorMessage: "corrupt"},
	}
	if err := store.RecordOperations(ctx, run.ID, ops); err != nil {
		t.Fatalf("RecordOperations: %v", err)
	}

	run.Status = journal.RunCompleted
	run.Moved = 1
	run.Failed = 1
	run.Pruned = 2
	run.Bytes = 42
	if err := store.FinishRun(ctx, run); err != nil {
		t.Fatalf("FinishRun: %v", err)
	}

	got, err := store.GetRun(ctx, run.ID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if got.Status != journal.RunCompleted || got.Moved != 1 || got.Failed != 1 || got.Pruned != 2 || got.Bytes != 42 {
		t.Fatalf("unexpected stored run: %+v", got)
	}
	if got.FinishedAt.IsZero() || got.Duration() < 0 {
		t.Fatalf("expected finish time, got %+v", got)
	}

	stored, err := store.Operations(ctx, run.ID)
	if err != nil {
		t.Fatalf("Operations: %v", err)
	}
	if len(stored) != 2 {
		t.Fatalf("expected 2 operations, got %d", len(stored))
	}
	if stored[0].Seq != 1 || stored[0].Dest != ops[0].Dest || stored[0].Status != journal.OperationMoved {
		t.Fatalf("unexpected first operation: %+v", stored[0])
	}
	if stored[1].Dest != "" || stored[1].ErrorKind != "extraction" || stored[1].ErrorMessage != "corrupt" {
		t.Fatalf("unexpected second operation: %+v", stored[1])
	}
}

func TestListRunsNewestFirst(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)
	ctx := context.Background()

	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	ids := []string{"run-a", "run-b", "run-c"}
	for i, id := range ids {
		run := &journal.Run{ID: id, Root: "/r", StartedAt: base.Add(time.Duration(i) * 100 * time.Millisecond)}
		if err := store.BeginRun(ctx, run); err != nil {
			t.Fatalf("BeginRun %s: %v", id, err)
		}
	}

	runs, err := store.ListRuns(ctx, 0)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 3 || runs[0].ID != "run-c" || runs[2].ID != "run-a" {
		t.Fatalf("unexpected order: %+v", runs)
	}

	limited, err := store.ListRuns(ctx, 2)
	if err != nil {
		t.Fatalf("ListRuns limit: %v", err)
	}
	if len(limited) != 2 || limited[0].ID != "run-c" {
		t.Fatalf("unexpected limited runs: %+v", limited)
	}
}

func TestGetRunByPrefix(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)
	ctx := context.Background()

	for _, id := range []string{"abc123-one", "abc456-two"} {
		if err := store.BeginRun(ctx, &journal.Run{ID: id, Root: "/r"}); err != nil {
			t.Fatalf("BeginRun: %v", err)
		}
	}

	run, err := store.GetRun(ctx, "abc1")
	if err != nil {
		t.Fatalf("GetRun prefix: %v", err)
	}
	if run.ID != "abc123-one" {
		t.Fatalf("unexpected run %s", run.ID)
	}
	if _, err := store.GetRun(ctx, "abc"); !errors.Is(err, journal.ErrAmbiguousRun) {
		t.Fatalf("expected ErrAmbiguousRun, got %v", err)
	}
	if _, err := store.GetRun(ctx, "zzz"); !errors.Is(err, journal.ErrRunNotFound) {
		t.Fatalf("expected ErrRunNotFound, got %v", err)
	}
}

func TestBeginRunRequiresID(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)
	if err := store.BeginRun(context.Background(), &journal.Run{Root: "/r"}); err == nil {
		t.Fatal("expected error when id missing")
	}
}
