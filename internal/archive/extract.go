package archive

import (
	"archive/tar"
	"archive/zip"
	"bufio"
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrUnsupportedFormat is returned for archive extensions Unpacker cannot read.
	ErrUnsupportedFormat = errors.New("unsupported archive format")
	// ErrUnsafePath is returned when an entry would be written outside destDir.
	ErrUnsafePath = errors.New("archive entry escapes destination")
)

// Extractor unpacks archivePath into destDir, which must already exist.
type Extractor interface {
	Extract(ctx context.Context, archivePath, destDir string) error
}

// Unpacker extracts zip, tar, and gz archives. A gzip stream that wraps a tar
// archive is unpacked as a tar; otherwise its single payload is written.
type Unpacker struct{}

// New returns the default extractor.
func New() *Unpacker {
	return &Unpacker{}
}

// Extract implements Extractor.
func (u *Unpacker) Extract(ctx context.Context, archivePath, destDir string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(archivePath), "."))
	switch ext {
	case "zip":
		return extractZip(ctx, archivePath, destDir)
	case "tar":
		f, err := os.Open(archivePath)
		if err != nil {
			return err
		}
		defer f.Close()
		return extractTar(ctx, f, destDir)
	case "gz", "tgz":
		return extractGzip(ctx, archivePath, destDir)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

func extractZip(ctx context.Context, archivePath, destDir string) error {
	zr, err := zip.OpenReader(archivePath)
	if err != nil && !errors.Is(err, zip.ErrInsecurePath) {
		return fmt.Errorf("open zip: %w", err)
	}
	defer zr.Close()

	for _, file := range zr.File {
		if err := ctx.Err(); err != nil {
			return err
		}
		target, err := safeJoin(destDir, file.Name)
		if err != nil {
			return err
		}
		if err := checkNoLinks(destDir, target); err != nil {
			return err
		}
		if file.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
			continue
		}
		if file.Mode()&os.ModeSymlink != 0 {
			// Link targets are not materialised from zip archives.
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return fmt.Errorf("open zip entry %s: %w", file.Name, err)
		}
		err = writeEntry(target, rc, file.Mode().Perm())
		rc.Close()
		if err != nil {
			return fmt.Errorf("write zip entry %s: %w", file.Name, err)
		}
	}
	return nil
}

func extractTar(ctx context.Context, r io.Reader, destDir string) error {
	tr := tar.NewReader(r)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if errors.Is(err, tar.ErrInsecurePath) {
			return fmt.Errorf("%w: %s", ErrUnsafePath, hdr.Name)
		}
		if err != nil {
			return fmt.Errorf("read tar: %w", err)
		}
		target, err := safeJoin(destDir, hdr.Name)
		if err != nil {
			return err
		}
		if err := checkNoLinks(destDir, target); err != nil {
			return err
		}
		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := writeEntry(target, tr, os.FileMode(hdr.Mode).Perm()); err != nil {
				return fmt.Errorf("write tar entry %s: %w", hdr.Name, err)
			}
		case tar.TypeSymlink:
			if err := writeSymlink(destDir, target, hdr.Linkname); err != nil {
				return err
			}
		default:
			// Hard links, devices and FIFOs are skipped.
		}
	}
}

func extractGzip(ctx context.Context, archivePath, destDir string) error {
	f, err := os.Open(archivePath)
	if err != nil {
		return err
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return fmt.Errorf("open gzip: %w", err)
	}
	defer gz.Close()

	br := bufio.NewReaderSize(gz, 1024)
	if isTar(br) {
		return extractTar(ctx, br, destDir)
	}

	name := filepath.Base(strings.TrimSpace(gz.Name))
	if name == "" || name == "." || name == string(filepath.Separator) {
		base := filepath.Base(archivePath)
		name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	target, err := safeJoin(destDir, name)
	if err != nil {
		return err
	}
	if err := checkNoLinks(destDir, target); err != nil {
		return err
	}
	if err := writeEntry(target, br, 0o644); err != nil {
		return fmt.Errorf("write gzip payload: %w", err)
	}
	return nil
}

// isTar peeks at the ustar magic without consuming the stream.
func isTar(br *bufio.Reader) bool {
	block, err := br.Peek(512)
	if err != nil && len(block) < 262 {
		return false
	}
	return bytes.HasPrefix(block[257:], []byte("ustar"))
}

// safeJoin resolves name under destDir, rejecting absolute and parent-escaping paths.
func safeJoin(destDir, name string) (string, error) {
	clean := filepath.FromSlash(strings.TrimSpace(name))
	if clean == "" {
		return "", fmt.Errorf("%w: empty entry name", ErrUnsafePath)
	}
	if filepath.IsAbs(clean) || strings.HasPrefix(name, "/") {
		return "", fmt.Errorf("%w: %s", ErrUnsafePath, name)
	}
	target := filepath.Join(destDir, clean)
	rel, err := filepath.Rel(destDir, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrUnsafePath, name)
	}
	return target, nil
}

// checkNoLinks rejects target when it, or any directory between destDir and
// it, is a symlink already on disk. Links extracted earlier could otherwise
// redirect later entries outside destDir.
func checkNoLinks(destDir, target string) error {
	rel, err := filepath.Rel(destDir, target)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrUnsafePath, target)
	}
	current := destDir
	for _, part := range strings.Split(rel, string(filepath.Separator)) {
		if part == "" || part == "." {
			continue
		}
		current = filepath.Join(current, part)
		info, err := os.Lstat(current)
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		if err != nil {
			return err
		}
		if info.Mode()&os.ModeSymlink != 0 {
			return fmt.Errorf("%w: %s passes through link %s", ErrUnsafePath, target, current)
		}
	}
	return nil
}

func writeEntry(target string, r io.Reader, perm os.FileMode) error {
	if perm == 0 {
		perm = 0o644
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	out, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, perm|0o200)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func writeSymlink(destDir, target, linkname string) error {
	resolved := linkname
	if !filepath.IsAbs(resolved) {
		resolved = filepath.Join(filepath.Dir(target), linkname)
	}
	rel, err := filepath.Rel(destDir, filepath.Clean(resolved))
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return fmt.Errorf("%w: link %s -> %s", ErrUnsafePath, target, linkname)
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	return os.Symlink(linkname, target)
}
