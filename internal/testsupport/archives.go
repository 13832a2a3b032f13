package testsupport

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"os"
	"path/filepath"
	"sort"
	"testing"
)

// WriteText writes content to path, creating parent directories.
func WriteText(t testing.TB, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WriteZip builds a zip archive at path holding the given entries. Entry
// names are written verbatim so tests can exercise unsafe paths.
func WriteZip(t testing.TB, path string, entries map[string]string) {
	t.Helper()

	f := createArchiveFile(t, path)
	defer f.Close()

	zw := zip.NewWriter(f)
	for _, name := range sortedKeys(entries) {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip create %s: %v", name, err)
		}
		if _, err := w.Write([]byte(entries[name])); err != nil {
			t.Fatalf("zip write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
}

// WriteTar builds an uncompressed tar archive at path.
func WriteTar(t testing.TB, path string, entries map[string]string) {
	t.Helper()

	f := createArchiveFile(t, path)
	defer f.Close()
	writeTarEntries(t, tar.NewWriter(f), entries)
}

// WriteTarGz builds a gzip-compressed tar archive at path.
func WriteTarGz(t testing.TB, path string, entries map[string]string) {
	t.Helper()

	f := createArchiveFile(t, path)
	defer f.Close()

	gz := gzip.NewWriter(f)
	writeTarEntries(t, tar.NewWriter(gz), entries)
	if err := gz.Close(); err != nil {
		t.Fatalf("gzip close: %v", err)
	}
}

// WriteGzip compresses a single payload at path, recording name in the
// gzip header when non-empty.
func WriteGzip(t testing.TB, path, name, content string) {
	t.Helper()

	f := createArchiveFile(t, path)
	defer f.Close()

	gz := gzip.NewWriter(f)
	gz.Name = name
	if _, err := gz.Write([]byte(content)); err != nil {
		t.Fatalf("gzip write: %v", err)
	}
	if err := gz.Close(); err != nil {
		t.Fatalf("gzip close: %v", err)
	}
}

// TarEntry is one ordered tar member. A non-empty Link makes it a symlink.
type TarEntry struct {
	Name string
	Body string
	Link string
}

// WriteTarEntries builds an uncompressed tar at path with entries in order.
func WriteTarEntries(t testing.TB, path string, entries []TarEntry) {
	t.Helper()

	f := createArchiveFile(t, path)
	defer f.Close()

	tw := tar.NewWriter(f)
	for _, e := range entries {
		hdr := &tar.Header{Name: e.Name, Mode: 0o644, Format: tar.FormatPAX}
		if e.Link != "" {
			hdr.Typeflag = tar.TypeSymlink
			hdr.Linkname = e.Link
			hdr.Mode = 0o777
		} else {
			hdr.Typeflag = tar.TypeReg
			hdr.Size = int64(len(e.Body))
		}
		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatalf("tar header %s: %v", e.Name, err)
		}
		if e.Link == "" {
			if _, err := tw.Write([]byte(e.Body)); err != nil {
				t.Fatalf("tar write %s: %v", e.Name, err)
			}
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatalf("tar close: %v", err)
	}
}

func writeTarEntries(t testing.TB, tw *tar.Writer, entries map[string]string) {
	t.Helper()

	for _, name := range sortedKeys(entries) {
		body := entries[name]
		hdr := &tar.Header{
			Name:     name,
			Mode:     0o644,
			Size:     int64(len(body)),
			Typeflag: tar.TypeReg,
			Format:   tar.FormatPAX,
		}
		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatalf("tar header %s: %v", name, err)
		}
		if _, err := tw.Write([]byte(body)); err != nil {
			t.Fatalf("tar write %s: %v", name, err)
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatalf("tar close: %v", err)
	}
}

func createArchiveFile(t testing.TB, path string) *os.File {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	return f
}

func sortedKeys(entries map[string]string) []string {
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
