package planner

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"cleanfolder/internal/category"
	"cleanfolder/internal/logging"
	"cleanfolder/internal/services"
	"cleanfolder/internal/textutil"
)

// Action identifies the handler an operation is routed to.
type Action string

const (
	ActionMoveKnown   Action = "move-known"
	ActionExtract     Action = "extract-archive"
	ActionMoveUnknown Action = "move-unknown"
)

// Operation is a single planned relocation.
type Operation struct {
	// Source is the absolute path of the file.
	Source string
	// RelPath is Source relative to the plan root, slash separated.
	RelPath string
	// Name is the original base name.
	Name     string
	Action   Action
	Category category.Category
	// Ext is the lowercased extension without the dot.
	Ext  string
	Size int64
}

// WalkError records a directory that could not be read during the walk.
type WalkError struct {
	Path  string
	Error error
}

// Plan is the ordered list of operations produced by Build.
type Plan struct {
	Root       string
	Operations []Operation
	// Ignored lists root-relative paths skipped by Filter.
	Ignored []string
	Errors  []WalkError
	// Filter is the skip rule applied during the walk; later sweeps over
	// the same root reuse it.
	Filter *Filter
}

// Options customise Build.
type Options struct {
	// Ignore holds doublestar patterns matched against the root-relative
	// slash path and the base name of every entry.
	Ignore []string
	// Exclude holds absolute directories never walked, such as the state
	// directory holding the journal and run locks.
	Exclude []string
	Logger  *slog.Logger
}

// Build walks root and returns the complete plan. Only a failure to read
// root itself is returned as an error; unreadable subdirectories are
// recorded in Plan.Errors.
func Build(ctx context.Context, root string, table category.Table, opts Options) (*Plan, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "plan", "resolve root", "Could not resolve root path", err)
	}

	filter := NewFilter(abs, opts.Ignore, opts.Exclude...)
	w := &walker{
		root:   abs,
		table:  table,
		filter: filter,
		logger: logger,
		plan:   &Plan{Root: abs, Filter: filter},
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, services.Wrap(services.ErrIO, "plan", "read root", "Could not read root directory", err)
	}
	if err := w.visit(ctx, abs, entries); err != nil {
		return nil, err
	}

	logger.Debug("plan built",
		logging.String("root", abs),
		logging.Int("operations", len(w.plan.Operations)),
		logging.Int("ignored", len(w.plan.Ignored)),
		logging.Int("walk_errors", len(w.plan.Errors)),
	)
	return w.plan, nil
}

type walker struct {
	root   string
	table  category.Table
	filter *Filter
	logger *slog.Logger
	plan   *Plan
}

func (w *walker) visit(ctx context.Context, dir string, entries []os.DirEntry) error {
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		name := entry.Name()
		path := filepath.Join(dir, name)
		rel := w.relPath(path)

		if entry.IsDir() {
			if category.IsReserved(name) {
				continue
			}
			if w.filter.Skip(path) {
				w.plan.Ignored = append(w.plan.Ignored, rel)
				continue
			}
			children, err := os.ReadDir(path)
			if err != nil {
				w.recordError(path, err)
				continue
			}
			if err := w.visit(ctx, path, children); err != nil {
				return err
			}
			continue
		}

		if w.filter.Skip(path) {
			w.plan.Ignored = append(w.plan.Ignored, rel)
			continue
		}
		w.plan.Operations = append(w.plan.Operations, w.classify(path, rel, entry))
	}
	return nil
}

func (w *walker) classify(path, rel string, entry os.DirEntry) Operation {
	name := entry.Name()
	op := Operation{
		Source:   path,
		RelPath:  rel,
		Name:     name,
		Ext:      textutil.Extension(name),
		Category: w.table.Classify(name),
	}
	switch {
	case w.table.IsArchive(name):
		op.Action = ActionExtract
	case w.table.IsKnown(name):
		op.Action = ActionMoveKnown
	default:
		op.Action = ActionMoveUnknown
	}
	if info, err := entry.Info(); err == nil && info.Mode().IsRegular() {
		op.Size = info.Size()
	}
	return op
}

func (w *walker) relPath(path string) string {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

func (w *walker) recordError(path string, err error) {
	w.plan.Errors = append(w.plan.Errors, WalkError{Path: path, Error: err})
	w.logger.Warn("skipping unreadable directory",
		logging.String("path", path),
		logging.Error(err),
		logging.String(logging.FieldEventType, "walk_dir_unreadable"),
		logging.String(logging.FieldErrorHint, "check directory permissions"),
		logging.String(logging.FieldImpact, "files below this directory were not organized"),
	)
}

// Counts returns the number of operations per action.
func (p *Plan) Counts() map[Action]int {
	counts := make(map[Action]int, 3)
	if p == nil {
		return counts
	}
	for _, op := range p.Operations {
		counts[op.Action]++
	}
	return counts
}
