package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const projectColumns = "id, name, description, status, current_agent, created_at, updated_at"

// CreateProject persists a new project in status INITIALIZED.
func (s *Store) CreateProject(ctx context.Context, name, description string) (*Project, error) {
	ctx = ensureContext(ctx)
	now := timestamp(time.Now())
	id := uuid.NewString()

	_, err := s.execWithRetry(
		ctx,
		`INSERT INTO projects (id, name, description, status, current_agent, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id,
		name,
		nullableString(description),
		StatusInitialized,
		nil,
		now,
		now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert project: %w", err)
	}

	return s.GetProject(ctx, id)
}

// GetProject fetches a project by identifier. Returns (nil, nil) when no row
// matches.
func (s *Store) GetProject(ctx context.Context, id string) (*Project, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = ?`, id)
	project, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}
	return project, nil
}

// ListProjects returns all projects ordered by creation time.
func (s *Store) ListProjects(ctx context.Context) ([]*Project, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx, `SELECT `+projectColumns+` FROM projects ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var projects []*Project
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}
	return projects, rows.Err()
}

// UpdateProjectState overwrites status and current_agent, refreshing
// updated_at. Returns (nil, nil) when the project does not exist. The write
// is unconditional: no check against the current status is performed.
func (s *Store) UpdateProjectState(ctx context.Context, id string, status Status, agent string) (*Project, error) {
	ctx = ensureContext(ctx)
	res, err := s.execWithRetry(
		ctx,
		`UPDATE projects SET status = ?, current_agent = ?, updated_at = ? WHERE id = ?`,
		status,
		nullableString(agent),
		timestamp(time.Now()),
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("update project state: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return nil, nil
	}
	return s.GetProject(ctx, id)
}

// DeleteProject removes a project and, through foreign keys, all of its
// audio, dialogue, blueprint, and article rows. Reports whether a row was
// deleted.
func (s *Store) DeleteProject(ctx context.Context, id string) (bool, error) {
	ctx = ensureContext(ctx)
	res, err := s.execWithRetry(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete project: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// ProjectStats returns project counts grouped by status.
func (s *Store) ProjectStats(ctx context.Context) (Stats, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(1) FROM projects GROUP BY status`)
	if err != nil {
		return Stats{}, fmt.Errorf("project stats: %w", err)
	}
	defer rows.Close()

	stats := Stats{ByStatus: make(map[Status]int)}
	for rows.Next() {
		var status Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return Stats{}, err
		}
		stats.ByStatus[status] = count
		stats.Total += count
	}
	return stats, rows.Err()
}

func scanProject(scanner interface{ Scan(dest ...any) error }) (*Project, error) {
	var (
		id           string
		name         string
		description  sql.NullString
		statusStr    string
		currentAgent sql.NullString
		createdRaw   string
		updatedRaw   string
	)

	if err := scanner.Scan(&id, &name, &description, &statusStr, &currentAgent, &createdRaw, &updatedRaw); err != nil {
		return nil, err
	}

	project := &Project{
		ID:           id,
		Name:         name,
		Description:  description.String,
		Status:       Status(statusStr),
		CurrentAgent: currentAgent.String,
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		project.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw); err == nil {
		project.UpdatedAt = updated
	}
	return project, nil
}
