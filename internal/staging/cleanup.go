package staging

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"cleanfolder/internal/category"
	"cleanfolder/internal/logging"
)

// PruneResult contains the outcome of an empty directory sweep.
type PruneResult struct {
	Removed []string
	Errors  []CleanupError
}

// CleanupError pairs a directory path with its cleanup error.
type CleanupError struct {
	Path  string
	Error error
}

// Skipper reports paths a sweep must leave untouched.
type Skipper interface {
	Skip(path string) bool
}

// PruneEmpty removes every directory below root whose subtree holds no files,
// deepest first. Category folders and directories matched by skip are never
// removed or descended into, and root itself is kept even when empty.
func PruneEmpty(ctx context.Context, root string, skip Skipper, logger *slog.Logger) PruneResult {
	result := PruneResult{}
	if logger == nil {
		logger = logging.NewNop()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	root = strings.TrimSpace(root)
	if root == "" {
		return result
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		if !os.IsNotExist(err) {
			result.Errors = append(result.Errors, CleanupError{Path: root, Error: err})
		}
		return result
	}

	for _, entry := range entries {
		if ctx.Err() != nil {
			return result
		}
		path := filepath.Join(root, entry.Name())
		if !entry.IsDir() || category.IsReserved(entry.Name()) || skipped(skip, path) {
			continue
		}
		pruneDir(ctx, path, skip, logger, &result)
	}
	return result
}

// pruneDir removes empty descendants of dir and then dir itself when nothing
// remains. It reports whether dir was removed.
func pruneDir(ctx context.Context, dir string, skip Skipper, logger *slog.Logger, result *PruneResult) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		result.Errors = append(result.Errors, CleanupError{Path: dir, Error: err})
		return false
	}

	remaining := len(entries)
	for _, entry := range entries {
		if ctx.Err() != nil {
			return false
		}
		path := filepath.Join(dir, entry.Name())
		if !entry.IsDir() || category.IsReserved(entry.Name()) || skipped(skip, path) {
			continue
		}
		if pruneDir(ctx, path, skip, logger, result) {
			remaining--
		}
	}
	if remaining > 0 {
		return false
	}

	if err := os.Remove(dir); err != nil {
		result.Errors = append(result.Errors, CleanupError{Path: dir, Error: err})
		logger.Warn("failed to remove empty directory",
			logging.String("path", dir),
			logging.Error(err),
			logging.String(logging.FieldEventType, "prune_failed"),
			logging.String(logging.FieldErrorHint, "check directory permissions"),
			logging.String(logging.FieldImpact, "empty directory left behind"),
		)
		return false
	}
	result.Removed = append(result.Removed, dir)
	logger.Debug("removed empty directory",
		logging.String("path", dir),
		logging.String(logging.FieldEventType, "prune"),
	)
	return true
}

func skipped(skip Skipper, path string) bool {
	return skip != nil && skip.Skip(path)
}
