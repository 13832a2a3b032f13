package staging

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"cleanfolder/internal/logging"
	"cleanfolder/internal/planner"
	"cleanfolder/internal/testsupport"
)

func TestPruneEmptyInvalidPaths(t *testing.T) {
	for _, dir := range []string{"", "   ", "/nonexistent/path/12345"} {
		result := PruneEmpty(context.Background(), dir, nil, logging.NewNop())
		if len(result.Removed) != 0 || len(result.Errors) != 0 {
			t.Errorf("expected empty result for path %q", dir)
		}
	}
}

func TestPruneEmptyRemovesNestedEmptyDirectories(t *testing.T) {
	root := t.TempDir()
	deep := filepath.Join(root, "a", "b", "c")
	if err := os.MkdirAll(deep, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	result := PruneEmpty(context.Background(), root, nil, logging.NewNop())

	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %+v", result.Errors)
	}
	if len(result.Removed) != 3 {
		t.Fatalf("expected 3 removed, got %v", result.Removed)
	}
	// Post-order: deepest first.
	if result.Removed[0] != deep || result.Removed[2] != filepath.Join(root, "a") {
		t.Fatalf("unexpected removal order: %v", result.Removed)
	}
	if _, err := os.Stat(filepath.Join(root, "a")); !os.IsNotExist(err) {
		t.Fatal("expected a/ to be removed")
	}
	if _, err := os.Stat(root); err != nil {
		t.Fatal("root must never be removed")
	}
}

func TestPruneEmptyKeepsReservedFolders(t *testing.T) {
	root := t.TempDir()
	for _, dir := range []string{"Images", "Unknown", filepath.Join("x", "Archives")} {
		if err := os.MkdirAll(filepath.Join(root, dir), 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}

	result := PruneEmpty(context.Background(), root, nil, logging.NewNop())

	if len(result.Removed) != 0 {
		t.Fatalf("expected nothing removed, got %v", result.Removed)
	}
	for _, dir := range []string{"Images", "Unknown", filepath.Join("x", "Archives")} {
		if _, err := os.Stat(filepath.Join(root, dir)); err != nil {
			t.Errorf("%s should still exist", dir)
		}
	}
}

func TestPruneEmptyKeepsDirectoriesWithFiles(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteText(t, filepath.Join(root, "keep", "inner", "left.txt"), "x")
	if err := os.MkdirAll(filepath.Join(root, "keep", "empty"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	result := PruneEmpty(context.Background(), root, nil, logging.NewNop())

	if len(result.Removed) != 1 || result.Removed[0] != filepath.Join(root, "keep", "empty") {
		t.Fatalf("unexpected removals: %v", result.Removed)
	}
	if _, err := os.Stat(filepath.Join(root, "keep", "inner", "left.txt")); err != nil {
		t.Fatal("file should not have been touched")
	}
}

func TestPruneEmptyIgnoresFilesAtRoot(t *testing.T) {
	root := t.TempDir()
	testsupport.WriteText(t, filepath.Join(root, "loose.txt"), "x")

	result := PruneEmpty(context.Background(), root, nil, logging.NewNop())
	if len(result.Removed) != 0 || len(result.Errors) != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestPruneEmptyLeavesSkippedTrees(t *testing.T) {
	root := t.TempDir()
	for _, dir := range []string{
		filepath.Join(root, ".git", "refs", "tags"),
		filepath.Join(root, "state", "locks"),
		filepath.Join(root, "old", "empty"),
	} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
	}
	filter := planner.NewFilter(root, []string{".git/**"}, filepath.Join(root, "state"))

	result := PruneEmpty(context.Background(), root, filter, logging.NewNop())

	if len(result.Removed) != 2 {
		t.Fatalf("expected old/empty and old to be removed, got %v", result.Removed)
	}
	for _, keep := range []string{
		filepath.Join(root, ".git", "refs", "tags"),
		filepath.Join(root, "state", "locks"),
	} {
		if _, err := os.Stat(keep); err != nil {
			t.Fatalf("expected %s to be kept: %v", keep, err)
		}
	}
}
