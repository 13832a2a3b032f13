package organizer

import (
	"path/filepath"
	"sort"

	"cleanfolder/internal/category"
	"cleanfolder/internal/planner"
	"cleanfolder/internal/services"
)

// Relocation records a completed (or, in dry-run mode, planned) operation.
type Relocation struct {
	Source   string
	Dest     string
	Action   planner.Action
	Category category.Category
	Size     int64
}

// Renamed reports whether the destination name differs from the source name.
func (r Relocation) Renamed() bool {
	return filepath.Base(r.Source) != filepath.Base(r.Dest)
}

// Failure records an operation that did not complete. The source file is
// left where it was unless noted otherwise in Err.
type Failure struct {
	Source   string
	Action   planner.Action
	Category category.Category
	Err      error
}

// Kind returns the error classification label for the failure.
func (f Failure) Kind() string {
	return services.Kind(f.Err)
}

// Result accumulates the outcome of a single Apply call.
type Result struct {
	Root     string
	DryRun   bool
	Known    map[string]struct{}
	Unknown  map[string]struct{}
	Moved    []Relocation
	Failures []Failure
}

func newResult(root string, dryRun bool) *Result {
	return &Result{
		Root:    root,
		DryRun:  dryRun,
		Known:   make(map[string]struct{}),
		Unknown: make(map[string]struct{}),
	}
}

// KnownExtensions returns the sorted known extensions encountered.
func (r *Result) KnownExtensions() []string {
	return sortedSet(r.Known)
}

// UnknownExtensions returns the sorted unknown extensions encountered.
func (r *Result) UnknownExtensions() []string {
	return sortedSet(r.Unknown)
}

// MovedBytes sums the sizes of all relocated files.
func (r *Result) MovedBytes() int64 {
	var total int64
	for _, m := range r.Moved {
		total += m.Size
	}
	return total
}

func (r *Result) record(ext string, known bool) {
	if ext == "" {
		return
	}
	if known {
		r.Known[ext] = struct{}{}
		return
	}
	r.Unknown[ext] = struct{}{}
}

func sortedSet(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
