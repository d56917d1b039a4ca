package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"loom/internal/services"
)

const (
	dialogueColumns  = "id, project_id, content, created_at"
	blueprintColumns = "id, project_id, content, version, created_at"
	articleColumns   = "id, project_id, title, content, footnotes, audit_report, word_count, version, created_at"
)

// AddDialogue stores cleaned transcript content for a project.
func (s *Store) AddDialogue(ctx context.Context, projectID, content string) (*Dialogue, error) {
	ctx = ensureContext(ctx)
	now := timestamp(time.Now())
	id := uuid.NewString()

	_, err := s.execWithRetry(
		ctx,
		`INSERT INTO dialogues (id, project_id, content, created_at) VALUES (?, ?, ?, ?)`,
		id,
		projectID,
		content,
		now,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, services.Wrap(services.ErrNotFound, "store", "add dialogue", "project does not exist", nil)
		}
		return nil, fmt.Errorf("insert dialogue: %w", err)
	}

	row := s.db.QueryRowContext(ctx, `SELECT `+dialogueColumns+` FROM dialogues WHERE id = ?`, id)
	dialogue, err := scanDialogue(row)
	if err != nil {
		return nil, fmt.Errorf("get dialogue: %w", err)
	}
	return dialogue, nil
}

// FirstDialogue returns the earliest stored dialogue for a project, or
// (nil, nil) when none exists. The schema permits multiple rows per project
// but only the first is ever served.
func (s *Store) FirstDialogue(ctx context.Context, projectID string) (*Dialogue, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(
		ctx,
		`SELECT `+dialogueColumns+` FROM dialogues WHERE project_id = ? ORDER BY created_at LIMIT 1`,
		projectID,
	)
	dialogue, err := scanDialogue(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("first dialogue: %w", err)
	}
	return dialogue, nil
}

// AddBlueprint stores a new blueprint version. The version is assigned
// atomically as MAX(version)+1 for the project.
func (s *Store) AddBlueprint(ctx context.Context, projectID, content string) (*Blueprint, error) {
	ctx = ensureContext(ctx)
	id := uuid.NewString()

	err := retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin blueprint tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		var version int
		row := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) + 1 FROM blueprints WHERE project_id = ?`, projectID)
		if err := row.Scan(&version); err != nil {
			return fmt.Errorf("next blueprint version: %w", err)
		}

		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO blueprints (id, project_id, content, version, created_at) VALUES (?, ?, ?, ?, ?)`,
			id,
			projectID,
			content,
			version,
			timestamp(time.Now()),
		); err != nil {
			return err
		}
		return tx.Commit()
	})
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, services.Wrap(services.ErrNotFound, "store", "add blueprint", "project does not exist", nil)
		}
		return nil, fmt.Errorf("insert blueprint: %w", err)
	}

	row := s.db.QueryRowContext(ctx, `SELECT `+blueprintColumns+` FROM blueprints WHERE id = ?`, id)
	blueprint, err := scanBlueprint(row)
	if err != nil {
		return nil, fmt.Errorf("get blueprint: %w", err)
	}
	return blueprint, nil
}

// LatestBlueprint returns the blueprint with the highest version for a
// project, or (nil, nil) when none exists.
func (s *Store) LatestBlueprint(ctx context.Context, projectID string) (*Blueprint, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(
		ctx,
		`SELECT `+blueprintColumns+` FROM blueprints WHERE project_id = ? ORDER BY version DESC LIMIT 1`,
		projectID,
	)
	blueprint, err := scanBlueprint(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest blueprint: %w", err)
	}
	return blueprint, nil
}

// AddArticle stores a new article version. The version is assigned
// atomically as MAX(version)+1 for the project.
func (s *Store) AddArticle(ctx context.Context, projectID string, draft ArticleDraft) (*Article, error) {
	ctx = ensureContext(ctx)
	id := uuid.NewString()

	footnotes := draft.Footnotes
	if footnotes == "" {
		footnotes = "[]"
	}
	auditReport := draft.AuditReport
	if auditReport == "" {
		auditReport = "{}"
	}

	err := retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin article tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		var version int
		row := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) + 1 FROM articles WHERE project_id = ?`, projectID)
		if err := row.Scan(&version); err != nil {
			return fmt.Errorf("next article version: %w", err)
		}

		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO articles (id, project_id, title, content, footnotes, audit_report, word_count, version, created_at)
             VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id,
			projectID,
			nullableString(draft.Title),
			draft.Content,
			footnotes,
			auditReport,
			nullableInt(draft.WordCount),
			version,
			timestamp(time.Now()),
		); err != nil {
			return err
		}
		return tx.Commit()
	})
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, services.Wrap(services.ErrNotFound, "store", "add article", "project does not exist", nil)
		}
		return nil, fmt.Errorf("insert article: %w", err)
	}

	row := s.db.QueryRowContext(ctx, `SELECT `+articleColumns+` FROM articles WHERE id = ?`, id)
	article, err := scanArticle(row)
	if err != nil {
		return nil, fmt.Errorf("get article: %w", err)
	}
	return article, nil
}

// LatestArticle returns the article with the highest version for a project,
// or (nil, nil) when none exists.
func (s *Store) LatestArticle(ctx context.Context, projectID string) (*Article, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(
		ctx,
		`SELECT `+articleColumns+` FROM articles WHERE project_id = ? ORDER BY version DESC LIMIT 1`,
		projectID,
	)
	article, err := scanArticle(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest article: %w", err)
	}
	return article, nil
}

func scanDialogue(scanner interface{ Scan(dest ...any) error }) (*Dialogue, error) {
	var (
		id         string
		projectID  string
		content    string
		createdRaw string
	)
	if err := scanner.Scan(&id, &projectID, &content, &createdRaw); err != nil {
		return nil, err
	}
	dialogue := &Dialogue{ID: id, ProjectID: projectID, Content: content}
	if created, err := parseTimeString(createdRaw); err == nil {
		dialogue.CreatedAt = created
	}
	return dialogue, nil
}

func scanBlueprint(scanner interface{ Scan(dest ...any) error }) (*Blueprint, error) {
	var (
		id         string
		projectID  string
		content    string
		version    int
		createdRaw string
	)
	if err := scanner.Scan(&id, &projectID, &content, &version, &createdRaw); err != nil {
		return nil, err
	}
	blueprint := &Blueprint{ID: id, ProjectID: projectID, Content: content, Version: version}
	if created, err := parseTimeString(createdRaw); err == nil {
		blueprint.CreatedAt = created
	}
	return blueprint, nil
}

func scanArticle(scanner interface{ Scan(dest ...any) error }) (*Article, error) {
	var (
		id          string
		projectID   string
		title       sql.NullString
		content     string
		footnotes   string
		auditReport string
		wordCount   *int
		version     int
		createdRaw  string
	)
	if err := scanner.Scan(&id, &projectID, &title, &content, &footnotes, &auditReport, &wordCount, &version, &createdRaw); err != nil {
		return nil, err
	}
	article := &Article{
		ID:          id,
		ProjectID:   projectID,
		Title:       title.String,
		Content:     content,
		Footnotes:   footnotes,
		AuditReport: auditReport,
		WordCount:   wordCount,
		Version:     version,
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		article.CreatedAt = created
	}
	return article, nil
}
