package archive

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"cleanfolder/internal/testsupport"
)

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func TestExtractZip(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "photos.zip")
	testsupport.WriteZip(t, src, map[string]string{
		"a.jpg":        "jpeg",
		"nested/b.txt": "text",
	})
	dest := filepath.Join(dir, "out")
	if err := os.MkdirAll(dest, 0o755); err != nil {
		t.Fatal(err)
	}

	if err := New().Extract(context.Background(), src, dest); err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if got := readFile(t, filepath.Join(dest, "a.jpg")); got != "jpeg" {
		t.Fatalf("a.jpg = %q", got)
	}
	if got := readFile(t, filepath.Join(dest, "nested", "b.txt")); got != "text" {
		t.Fatalf("nested/b.txt = %q", got)
	}
}

func TestExtractTarAndTarGz(t *testing.T) {
	entries := map[string]string{"docs/readme.txt": "hello"}
	tests := []struct {
		name  string
		file  string
		write func(t testing.TB, path string, entries map[string]string)
	}{
		{name: "tar", file: "bundle.tar", write: testsupport.WriteTar},
		{name: "tar.gz", file: "bundle.tar.gz", write: testsupport.WriteTarGz},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			src := filepath.Join(dir, tt.file)
			tt.write(t, src, entries)
			dest := t.TempDir()

			if err := New().Extract(context.Background(), src, dest); err != nil {
				t.Fatalf("Extract: %v", err)
			}
			if got := readFile(t, filepath.Join(dest, "docs", "readme.txt")); got != "hello" {
				t.Fatalf("readme = %q", got)
			}
		})
	}
}

func TestExtractSingleGzip(t *testing.T) {
	t.Run("header name", func(t *testing.T) {
		dir := t.TempDir()
		src := filepath.Join(dir, "blob.gz")
		testsupport.WriteGzip(t, src, "notes.txt", "payload")
		dest := t.TempDir()

		if err := New().Extract(context.Background(), src, dest); err != nil {
			t.Fatalf("Extract: %v", err)
		}
		if got := readFile(t, filepath.Join(dest, "notes.txt")); got != "payload" {
			t.Fatalf("notes.txt = %q", got)
		}
	})

	t.Run("stem fallback", func(t *testing.T) {
		dir := t.TempDir()
		src := filepath.Join(dir, "report.csv.gz")
		testsupport.WriteGzip(t, src, "", "a,b")
		dest := t.TempDir()

		if err := New().Extract(context.Background(), src, dest); err != nil {
			t.Fatalf("Extract: %v", err)
		}
		if got := readFile(t, filepath.Join(dest, "report.csv")); got != "a,b" {
			t.Fatalf("report.csv = %q", got)
		}
	})
}

func TestExtractRejectsEscapingEntries(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "evil.tar")
	testsupport.WriteTar(t, src, map[string]string{"../escaped.txt": "x"})
	dest := filepath.Join(dir, "out")
	if err := os.MkdirAll(dest, 0o755); err != nil {
		t.Fatal(err)
	}

	err := New().Extract(context.Background(), src, dest)
	if !errors.Is(err, ErrUnsafePath) {
		t.Fatalf("expected ErrUnsafePath, got %v", err)
	}
	if _, statErr := os.Stat(filepath.Join(dir, "escaped.txt")); !os.IsNotExist(statErr) {
		t.Fatal("entry was written outside destination")
	}
}

func TestExtractZipSlip(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "evil.zip")
	testsupport.WriteZip(t, src, map[string]string{"../../escaped.txt": "x"})
	dest := filepath.Join(dir, "a", "out")
	if err := os.MkdirAll(dest, 0o755); err != nil {
		t.Fatal(err)
	}

	if err := New().Extract(context.Background(), src, dest); err == nil {
		t.Fatal("expected error for zip slip entry")
	}
	if _, statErr := os.Stat(filepath.Join(dir, "escaped.txt")); !os.IsNotExist(statErr) {
		t.Fatal("entry was written outside destination")
	}
}

func TestExtractCorruptArchive(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "broken.zip")
	testsupport.WriteText(t, src, "this is not a zip")

	if err := New().Extract(context.Background(), src, t.TempDir()); err == nil {
		t.Fatal("expected error for corrupt archive")
	}
}

func TestExtractUnsupportedFormat(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "data.rar")
	testsupport.WriteText(t, src, "rar")

	err := New().Extract(context.Background(), src, t.TempDir())
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestExtractHonorsCancellation(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "bundle.tar")
	testsupport.WriteTar(t, src, map[string]string{"a.txt": "a"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := New().Extract(ctx, src, t.TempDir()); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestExtractKeepsLinksInsideDestination(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "links.tar")
	testsupport.WriteTarEntries(t, src, []testsupport.TarEntry{
		{Name: "docs/readme.txt", Body: "hello"},
		{Name: "latest", Link: "docs/readme.txt"},
	})
	dest := filepath.Join(dir, "out")
	if err := os.MkdirAll(dest, 0o755); err != nil {
		t.Fatal(err)
	}

	if err := New().Extract(context.Background(), src, dest); err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if got := readFile(t, filepath.Join(dest, "latest")); got != "hello" {
		t.Fatalf("link content = %q", got)
	}
}

func TestExtractRejectsWritesThroughLinkChains(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "chain.tar")
	testsupport.WriteTarEntries(t, src, []testsupport.TarEntry{
		{Name: "a", Link: "."},
		{Name: "a/b", Link: ".."},
		{Name: "a/b/escaped.txt", Body: "x"},
	})
	dest := filepath.Join(dir, "out")
	if err := os.MkdirAll(dest, 0o755); err != nil {
		t.Fatal(err)
	}

	err := New().Extract(context.Background(), src, dest)
	if !errors.Is(err, ErrUnsafePath) {
		t.Fatalf("expected ErrUnsafePath, got %v", err)
	}
	if _, statErr := os.Lstat(filepath.Join(dir, "escaped.txt")); !os.IsNotExist(statErr) {
		t.Fatal("entry was written outside destination")
	}
	if _, statErr := os.Lstat(filepath.Join(dest, "b")); !os.IsNotExist(statErr) {
		t.Fatal("link under an extracted link should not be created")
	}
}

func TestExtractRejectsOverwritingLink(t *testing.T) {
	dir := t.TempDir()
	outside := filepath.Join(dir, "outside.txt")
	testsupport.WriteText(t, outside, "original")
	src := filepath.Join(dir, "swap.tar")
	testsupport.WriteTarEntries(t, src, []testsupport.TarEntry{
		{Name: "note.txt", Body: "overwritten"},
	})
	dest := filepath.Join(dir, "out")
	if err := os.MkdirAll(dest, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(outside, filepath.Join(dest, "note.txt")); err != nil {
		t.Fatal(err)
	}

	if err := New().Extract(context.Background(), src, dest); !errors.Is(err, ErrUnsafePath) {
		t.Fatalf("expected ErrUnsafePath, got %v", err)
	}
	if got := readFile(t, outside); got != "original" {
		t.Fatalf("outside file changed to %q", got)
	}
}
