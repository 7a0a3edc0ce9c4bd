// Package archive extracts uploaded ZIP bundles into request-scoped
// directories, producing the file tree the bundle pipeline consumes.
package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ExtractZip extracts the archive at src into dest, preserving the
// archive's internal directory nesting. Entry names are sanitized so no
// file escapes dest, and the cumulative extracted size is capped by
// maxTotal bytes to guard against decompression bombs.
func ExtractZip(src, dest string, maxTotal int64) error {
	r, err := zip.OpenReader(src)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer r.Close()

	var total int64
	for _, f := range r.File {
		target, err := safePath(dest, f.Name)
		if err != nil {
			return err
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("create directory: %w", err)
			}
			continue
		}

		n, err := extractFile(f, target, maxTotal-total)
		if err != nil {
			return err
		}
		total += n
		if total > maxTotal {
			return fmt.Errorf("archive contents exceed %d bytes", maxTotal)
		}
	}

	return nil
}

// extractFile writes one archive entry to target, reading at most
// budget+1 bytes so an oversized archive is detected without being
// fully written out.
func extractFile(f *zip.File, target string, budget int64) (int64, error) {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return 0, fmt.Errorf("create directory: %w", err)
	}

	rc, err := f.Open()
	if err != nil {
		return 0, fmt.Errorf("open archive entry %s: %w", f.Name, err)
	}
	defer rc.Close()

	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return 0, fmt.Errorf("create file: %w", err)
	}
	defer out.Close()

	n, err := io.Copy(out, io.LimitReader(rc, budget+1))
	if err != nil {
		return n, fmt.Errorf("extract %s: %w", f.Name, err)
	}
	return n, nil
}

// safePath joins an archive entry name onto dest, rejecting absolute
// paths and parent-directory traversal (zip-slip).
func safePath(dest, name string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(name))
	if !filepath.IsLocal(cleaned) {
		return "", fmt.Errorf("illegal path %q in archive", name)
	}
	return filepath.Join(dest, cleaned), nil
}
