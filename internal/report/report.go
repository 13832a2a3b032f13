package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mattn/go-isatty"

	"cleanfolder/internal/category"
	"cleanfolder/internal/organizer"
)

// Summary is everything the report needs about a finished run.
type Summary struct {
	RunID  string
	Root   string
	Result *organizer.Result
	Pruned int
}

// Options control report presentation.
type Options struct {
	// Rounded selects box-drawing borders; ASCII borders are used otherwise.
	Rounded bool
}

// OptionsFor picks rounded borders when w is a terminal.
func OptionsFor(w io.Writer) Options {
	return Options{Rounded: IsTerminal(w)}
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Render writes the report for s to w.
func Render(w io.Writer, s Summary, opts Options) error {
	result := s.Result
	if result == nil {
		return fmt.Errorf("render report: missing result")
	}
	root := s.Root
	if root == "" {
		root = result.Root
	}

	var sections []string
	sections = append(sections, headline(s, root))

	if t := extensionsTable(result, opts); t != "" {
		sections = append(sections, t)
	}

	if result.DryRun {
		if t := plannedTable(root, result, opts); t != "" {
			sections = append(sections, t)
		}
	} else {
		listings, err := categoryTables(root, opts)
		if err != nil {
			return err
		}
		sections = append(sections, listings...)
	}

	if t := failuresTable(root, result, opts); t != "" {
		sections = append(sections, t)
	}

	_, err := io.WriteString(w, strings.Join(sections, "\n\n")+"\n")
	return err
}

func headline(s Summary, root string) string {
	result := s.Result
	verb := "Moved"
	if result.DryRun {
		verb = "Would move"
	}
	line := fmt.Sprintf("%s %s %s (%s) in %s",
		verb,
		humanize.Comma(int64(len(result.Moved))),
		plural(len(result.Moved), "file", "files"),
		humanize.IBytes(uint64(result.MovedBytes())),
		root,
	)
	var extra []string
	if n := len(result.Failures); n > 0 {
		extra = append(extra, fmt.Sprintf("%d %s", n, plural(n, "failure", "failures")))
	}
	if s.Pruned > 0 {
		extra = append(extra, fmt.Sprintf("%d empty %s removed", s.Pruned, plural(s.Pruned, "folder", "folders")))
	}
	if len(extra) > 0 {
		line += "; " + strings.Join(extra, ", ")
	}
	if s.RunID != "" {
		line += fmt.Sprintf("\nRun ID: %s", s.RunID)
	}
	return line
}

func extensionsTable(result *organizer.Result, opts Options) string {
	known := result.KnownExtensions()
	unknown := result.UnknownExtensions()
	if len(known) == 0 && len(unknown) == 0 {
		return ""
	}
	tw := newTable("Extensions found", opts)
	tw.AppendHeader(table.Row{"Kind", "Extensions"})
	if len(known) > 0 {
		tw.AppendRow(table.Row{"Known", strings.Join(known, ", ")})
	}
	if len(unknown) > 0 {
		tw.AppendRow(table.Row{"Unknown", strings.Join(unknown, ", ")})
	}
	return tw.Render()
}

func categoryTables(root string, opts Options) ([]string, error) {
	var out []string
	for _, c := range category.Reserved() {
		if c == category.Archives {
			listings, ok, err := ListArchives(root)
			if err != nil {
				return nil, fmt.Errorf("list %s: %w", c, err)
			}
			if ok {
				out = append(out, archivesTable(listings, opts))
			}
			continue
		}
		names, ok, err := ListCategory(root, c)
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", c, err)
		}
		if !ok {
			continue
		}
		tw := newTable(string(c), opts)
		tw.AppendHeader(table.Row{"File"})
		for _, name := range names {
			tw.AppendRow(table.Row{name})
		}
		if len(names) == 0 {
			tw.AppendRow(table.Row{"(empty)"})
		}
		out = append(out, tw.Render())
	}
	return out, nil
}

func archivesTable(listings []ArchiveListing, opts Options) string {
	tw := newTable(string(category.Archives), opts)
	tw.AppendHeader(table.Row{"Folder", "File"})
	for _, l := range listings {
		if len(l.Files) == 0 {
			tw.AppendRow(table.Row{l.Folder, "(empty)"})
			continue
		}
		for i, f := range l.Files {
			folder := l.Folder
			if i > 0 {
				folder = ""
			}
			tw.AppendRow(table.Row{folder, f})
		}
	}
	if len(listings) == 0 {
		tw.AppendRow(table.Row{"(empty)", ""})
	}
	return tw.Render()
}

func plannedTable(root string, result *organizer.Result, opts Options) string {
	if len(result.Moved) == 0 {
		return ""
	}
	tw := newTable("Planned moves", opts)
	tw.AppendHeader(table.Row{"Source", "Destination", "Action"})
	for _, m := range result.Moved {
		tw.AppendRow(table.Row{relTo(root, m.Source), relTo(root, m.Dest), string(m.Action)})
	}
	return tw.Render()
}

func failuresTable(root string, result *organizer.Result, opts Options) string {
	if len(result.Failures) == 0 {
		return ""
	}
	tw := newTable("Failures", opts)
	tw.AppendHeader(table.Row{"File", "Action", "Kind", "Error"})
	for _, f := range result.Failures {
		msg := ""
		if f.Err != nil {
			msg = f.Err.Error()
		}
		tw.AppendRow(table.Row{relTo(root, f.Source), string(f.Action), f.Kind(), msg})
	}
	return tw.Render()
}

func newTable(title string, opts Options) table.Writer {
	tw := table.NewWriter()
	if opts.Rounded {
		tw.SetStyle(table.StyleRounded)
	} else {
		tw.SetStyle(table.StyleDefault)
	}
	tw.SetTitle(title)
	return tw
}

func relTo(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
