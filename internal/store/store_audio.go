package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"loom/internal/services"
)

const audioColumns = "id, project_id, filename, file_path, duration, created_at"

// AddAudioFile records an uploaded file. A second upload with the same
// filename for the same project is rejected with services.ErrConflict;
// inserting against a missing project yields services.ErrNotFound.
func (s *Store) AddAudioFile(ctx context.Context, projectID, filename, path string, duration *float64) (*AudioFile, error) {
	ctx = ensureContext(ctx)
	now := timestamp(time.Now())
	id := uuid.NewString()

	_, err := s.execWithRetry(
		ctx,
		`INSERT INTO audio_files (id, project_id, filename, file_path, duration, created_at)
         VALUES (?, ?, ?, ?, ?, ?)`,
		id,
		projectID,
		filename,
		path,
		nullableFloat(duration),
		now,
	)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return nil, services.Wrap(services.ErrConflict, "store", "add audio file", fmt.Sprintf("file %q already uploaded", filename), nil)
		case isForeignKeyViolation(err):
			return nil, services.Wrap(services.ErrNotFound, "store", "add audio file", "project does not exist", nil)
		default:
			return nil, fmt.Errorf("insert audio file: %w", err)
		}
	}

	return s.getAudioFile(ctx, id)
}

// ListAudioFiles returns all uploads for a project ordered by creation time.
func (s *Store) ListAudioFiles(ctx context.Context, projectID string) ([]*AudioFile, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+audioColumns+` FROM audio_files WHERE project_id = ? ORDER BY created_at`,
		projectID,
	)
	if err != nil {
		return nil, fmt.Errorf("list audio files: %w", err)
	}
	defer rows.Close()

	var files []*AudioFile
	for rows.Next() {
		file, err := scanAudioFile(rows)
		if err != nil {
			return nil, err
		}
		files = append(files, file)
	}
	return files, rows.Err()
}

func (s *Store) getAudioFile(ctx context.Context, id string) (*AudioFile, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+audioColumns+` FROM audio_files WHERE id = ?`, id)
	file, err := scanAudioFile(row)
	if err != nil {
		return nil, fmt.Errorf("get audio file: %w", err)
	}
	return file, nil
}

func scanAudioFile(scanner interface{ Scan(dest ...any) error }) (*AudioFile, error) {
	var (
		id         string
		projectID  string
		filename   string
		path       string
		duration   *float64
		createdRaw string
	)

	if err := scanner.Scan(&id, &projectID, &filename, &path, &duration, &createdRaw); err != nil {
		return nil, err
	}

	file := &AudioFile{
		ID:        id,
		ProjectID: projectID,
		Filename:  filename,
		Path:      path,
		Duration:  duration,
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		file.CreatedAt = created
	}
	return file, nil
}
