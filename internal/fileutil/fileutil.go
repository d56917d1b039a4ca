// Package fileutil provides small filesystem helpers shared by upload
// handling.
package fileutil

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// WriteStreamExclusive streams r into dst, failing if dst already exists.
// The partially written file is removed on error.
func WriteStreamExclusive(dst string, r io.Reader) (int64, error) {
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return 0, err
	}

	written, err := io.Copy(out, r)
	if err != nil {
		_ = out.Close()
		_ = os.Remove(dst)
		return 0, fmt.Errorf("write %s: %w", dst, err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(dst)
		return 0, fmt.Errorf("close %s: %w", dst, err)
	}
	return written, nil
}

// EnsureDir creates dir and any missing parents.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", dir, err)
	}
	return nil
}

// RemoveDirIfExists deletes dir recursively, ignoring a missing directory.
func RemoveDirIfExists(dir string) error {
	if err := os.RemoveAll(dir); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove directory %q: %w", dir, err)
	}
	return nil
}

// FileExists reports whether path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// SafeBaseName strips any directory components from a client-supplied
// filename, defending against path traversal in multipart uploads.
func SafeBaseName(name string) string {
	return filepath.Base(filepath.Clean("/" + name))
}
