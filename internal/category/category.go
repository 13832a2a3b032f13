// Package category holds the immutable extension-to-category table used to
// classify files during a cleanup run.
package category

import (
	"fmt"
	"sort"
	"strings"

	"cleanfolder/internal/textutil"
)

// Category names a relocation target folder under the cleanup root.
type Category string

const (
	Images    Category = "Images"
	Video     Category = "Video"
	Documents Category = "Documents"
	Audio     Category = "Audio"
	Archives  Category = "Archives"
	Unknown   Category = "Unknown"
)

var reserved = []Category{Images, Video, Documents, Audio, Archives, Unknown}

// Reserved returns the category folder names in report order.
func Reserved() []Category {
	out := make([]Category, len(reserved))
	copy(out, reserved)
	return out
}

// IsReserved reports whether a directory name is one of the category folders.
// The comparison is exact, matching how the folders are created.
func IsReserved(name string) bool {
	for _, c := range reserved {
		if string(c) == name {
			return true
		}
	}
	return false
}

// Parse converts a configured category name into a Category.
func Parse(name string) (Category, bool) {
	for _, c := range reserved {
		if string(c) == name {
			return c, true
		}
	}
	return "", false
}

// DefaultLists returns the built-in extension lists keyed by category name.
func DefaultLists() map[string][]string {
	return map[string][]string{
		string(Images):    {"jpeg", "png", "jpg", "svg"},
		string(Video):     {"avi", "mp4", "mov", "mkv"},
		string(Documents): {"doc", "docx", "txt", "pdf", "xlsx", "pptx"},
		string(Audio):     {"mp3", "ogg", "wav", "amr"},
		string(Archives):  {"zip", "gz", "tar"},
	}
}

// Table maps lowercase extensions to categories. It is never mutated after
// construction, so a Table value can be shared freely.
type Table struct {
	byExt map[string]Category
	lists map[Category][]string
}

// NewTable builds a Table from extension lists keyed by category name.
// Extensions are lowercased and stripped of a leading dot. Unknown cannot be
// given extensions, and an extension may belong to only one category.
func NewTable(lists map[string][]string) (Table, error) {
	t := Table{
		byExt: make(map[string]Category),
		lists: make(map[Category][]string),
	}
	names := make([]string, 0, len(lists))
	for name := range lists {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		c, ok := Parse(name)
		if !ok {
			return Table{}, fmt.Errorf("unknown category %q", name)
		}
		if c == Unknown && len(lists[name]) > 0 {
			return Table{}, fmt.Errorf("category %q is the catch-all and cannot list extensions", name)
		}
		for _, raw := range lists[name] {
			ext := CanonicalExt(raw)
			if ext == "" {
				return Table{}, fmt.Errorf("category %q lists an empty extension", name)
			}
			if prev, dup := t.byExt[ext]; dup {
				if prev == c {
					continue
				}
				return Table{}, fmt.Errorf("extension %q listed in both %s and %s", ext, prev, c)
			}
			t.byExt[ext] = c
			t.lists[c] = append(t.lists[c], ext)
		}
	}
	return t, nil
}

// DefaultTable returns the built-in table.
func DefaultTable() Table {
	t, err := NewTable(DefaultLists())
	if err != nil {
		panic(err)
	}
	return t
}

// CanonicalExt lowercases an extension and strips surrounding whitespace and
// leading dots.
func CanonicalExt(ext string) string {
	return strings.TrimLeft(strings.ToLower(strings.TrimSpace(ext)), ".")
}

// Lookup returns the category for an extension.
func (t Table) Lookup(ext string) (Category, bool) {
	c, ok := t.byExt[CanonicalExt(ext)]
	return c, ok
}

// IsKnown reports whether the filename's extension belongs to any listed
// category.
func (t Table) IsKnown(filename string) bool {
	_, ok := t.byExt[textutil.Extension(filename)]
	return ok
}

// IsArchive reports whether the filename's extension is an archive extension.
func (t Table) IsArchive(filename string) bool {
	return t.byExt[textutil.Extension(filename)] == Archives
}

// Classify returns the category for filename, or Unknown.
func (t Table) Classify(filename string) Category {
	if c, ok := t.byExt[textutil.Extension(filename)]; ok {
		return c
	}
	return Unknown
}

// Extensions returns the extensions listed for c in configuration order.
func (t Table) Extensions(c Category) []string {
	list := t.lists[c]
	out := make([]string, len(list))
	copy(out, list)
	return out
}

// Known returns every listed extension, sorted.
func (t Table) Known() []string {
	out := make([]string, 0, len(t.byExt))
	for ext := range t.byExt {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}
