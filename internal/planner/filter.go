package planner

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Filter decides which entries below a root are left alone: those matching an
// ignore pattern and anything inside an excluded directory.
type Filter struct {
	root     string
	patterns []string
	excluded []string
}

// NewFilter builds a filter for root. Patterns are doublestar globs matched
// against the root-relative slash path and the base name. Excluded holds
// absolute directories whose whole subtree is skipped.
func NewFilter(root string, patterns []string, excluded ...string) *Filter {
	f := &Filter{root: filepath.Clean(root), patterns: patterns}
	for _, dir := range excluded {
		dir = strings.TrimSpace(dir)
		if dir == "" {
			continue
		}
		if abs, err := filepath.Abs(dir); err == nil {
			f.excluded = append(f.excluded, abs)
		}
	}
	return f
}

// Skip reports whether path must not be planned, moved, or pruned.
func (f *Filter) Skip(path string) bool {
	if f == nil {
		return false
	}
	path = filepath.Clean(path)
	for _, dir := range f.excluded {
		if path == dir || strings.HasPrefix(path, dir+string(filepath.Separator)) {
			return true
		}
	}
	if len(f.patterns) == 0 {
		return false
	}
	rel, err := filepath.Rel(f.root, path)
	if err != nil {
		rel = path
	}
	rel = filepath.ToSlash(rel)
	base := filepath.Base(path)
	for _, pattern := range f.patterns {
		if matched, err := doublestar.Match(pattern, rel); err == nil && matched {
			return true
		}
		if matched, err := doublestar.Match(pattern, base); err == nil && matched {
			return true
		}
	}
	return false
}
