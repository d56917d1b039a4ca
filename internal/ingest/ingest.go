// Package ingest stores uploaded interview audio on disk, one directory per
// project, and enforces the upload allow-list. Metadata rows are recorded by
// the caller; if that fails the caller is expected to Discard the file so
// disk and database stay consistent.
package ingest

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"loom/internal/config"
	"loom/internal/fileutil"
	"loom/internal/services"
)

// Service writes uploads beneath a base directory keyed by project id.
type Service struct {
	baseDir string
	allowed map[string]struct{}
}

// New constructs an ingest service from configuration.
func New(cfg *config.Config) *Service {
	allowed := make(map[string]struct{}, len(cfg.Upload.AllowedExtensions))
	for _, ext := range cfg.Upload.AllowedExtensions {
		allowed[strings.ToLower(ext)] = struct{}{}
	}
	return &Service{baseDir: cfg.Paths.UploadDir, allowed: allowed}
}

// AllowedExtensions returns the accepted extensions in stable order.
func (s *Service) AllowedExtensions() []string {
	exts := make([]string, 0, len(s.allowed))
	for ext := range s.allowed {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// CheckFilename validates a client-supplied filename against the allow-list
// and returns the sanitized name to store under.
func (s *Service) CheckFilename(filename string) (string, error) {
	name := fileutil.SafeBaseName(strings.TrimSpace(filename))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return "", services.Wrap(services.ErrValidation, "ingest", "check filename", "filename is required", nil)
	}
	ext := strings.ToLower(filepath.Ext(name))
	if _, ok := s.allowed[ext]; !ok {
		return "", services.Wrap(
			services.ErrUnsupportedMedia,
			"ingest", "check filename",
			fmt.Sprintf("unsupported file type %q, allowed: %s", ext, strings.Join(s.AllowedExtensions(), " ")),
			nil,
		)
	}
	return name, nil
}

// Save streams an upload to <baseDir>/<projectID>/<filename>. A file already
// present under that name is a conflict; the stored bytes are never
// overwritten.
func (s *Service) Save(projectID, filename string, r io.Reader) (string, error) {
	dir := filepath.Join(s.baseDir, projectID)
	if err := fileutil.EnsureDir(dir); err != nil {
		return "", err
	}

	path := filepath.Join(dir, filename)
	if fileutil.FileExists(path) {
		return "", services.Wrap(services.ErrConflict, "ingest", "save upload", fmt.Sprintf("file %q already uploaded", filename), nil)
	}
	if _, err := fileutil.WriteStreamExclusive(path, r); err != nil {
		return "", fmt.Errorf("save upload: %w", err)
	}
	return path, nil
}

// Discard removes a previously saved upload. Used to roll back the file
// write when recording its metadata fails.
func (s *Service) Discard(path string) error {
	if path == "" {
		return nil
	}
	if !strings.HasPrefix(path, s.baseDir+string(filepath.Separator)) {
		return fmt.Errorf("refusing to discard %q outside upload dir", path)
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("discard upload %q: %w", path, err)
	}
	return nil
}

// RemoveProject deletes the upload directory for a project, if any.
func (s *Service) RemoveProject(projectID string) error {
	if strings.TrimSpace(projectID) == "" {
		return nil
	}
	return fileutil.RemoveDirIfExists(filepath.Join(s.baseDir, projectID))
}
