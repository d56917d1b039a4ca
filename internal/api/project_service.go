package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"loom/internal/ingest"
	"loom/internal/lifecycle"
	"loom/internal/logging"
	"loom/internal/services"
	"loom/internal/store"
)

// ProjectService exposes the project operations served over HTTP.
type ProjectService struct {
	store  *store.Store
	files  *ingest.Service
	logger *slog.Logger
}

// NewProjectService constructs a ProjectService around the store and the
// upload directory.
func NewProjectService(st *store.Store, files *ingest.Service, logger *slog.Logger) *ProjectService {
	return &ProjectService{
		store:  st,
		files:  files,
		logger: logging.WithComponent(logger, "project-service"),
	}
}

// CreateProject validates and persists a new project.
func (s *ProjectService) CreateProject(ctx context.Context, req ProjectRequest) (Project, error) {
	if err := req.Validate(); err != nil {
		return Project{}, err
	}
	project, err := s.store.CreateProject(ctx, req.Name, req.Description)
	if err != nil {
		return Project{}, err
	}
	s.logger.Info("project created", logging.String("project_id", project.ID), logging.String("name", project.Name))
	return FromProject(project), nil
}

// ListProjects returns all projects.
func (s *ProjectService) ListProjects(ctx context.Context) ([]Project, error) {
	projects, err := s.store.ListProjects(ctx)
	if err != nil {
		return nil, err
	}
	return FromProjects(projects), nil
}

// GetProject fetches one project.
func (s *ProjectService) GetProject(ctx context.Context, id string) (Project, error) {
	project, err := s.store.GetProject(ctx, id)
	if err != nil {
		return Project{}, err
	}
	if project == nil {
		return Project{}, errProjectNotFound(id)
	}
	return FromProject(project), nil
}

// DeleteProject removes a project, its child rows, and its upload
// directory.
func (s *ProjectService) DeleteProject(ctx context.Context, id string) error {
	deleted, err := s.store.DeleteProject(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return errProjectNotFound(id)
	}
	if err := s.files.RemoveProject(id); err != nil {
		// Rows are already gone; report the orphaned files but succeed.
		s.logger.Warn("failed to remove upload directory", logging.String("project_id", id), logging.Error(err))
	}
	s.logger.Info("project deleted", logging.String("project_id", id))
	return nil
}

// UploadAudio stores an uploaded recording and records its metadata. The
// stored file is discarded when the metadata insert fails, keeping disk and
// database consistent.
func (s *ProjectService) UploadAudio(ctx context.Context, projectID, filename string, r io.Reader) (UploadResponse, error) {
	project, err := s.store.GetProject(ctx, projectID)
	if err != nil {
		return UploadResponse{}, err
	}
	if project == nil {
		return UploadResponse{}, errProjectNotFound(projectID)
	}

	name, err := s.files.CheckFilename(filename)
	if err != nil {
		return UploadResponse{}, err
	}
	path, err := s.files.Save(projectID, name, r)
	if err != nil {
		return UploadResponse{}, err
	}
	if _, err := s.store.AddAudioFile(ctx, projectID, name, path, nil); err != nil {
		if discardErr := s.files.Discard(path); discardErr != nil {
			s.logger.Warn("failed to discard upload after insert failure", logging.String("path", path), logging.Error(discardErr))
		}
		return UploadResponse{}, err
	}

	s.logger.Info("audio uploaded", logging.String("project_id", projectID), logging.String("filename", name))
	return UploadResponse{Message: "upload stored", Filename: name}, nil
}

// ListAudio returns the uploads recorded for a project.
func (s *ProjectService) ListAudio(ctx context.Context, projectID string) ([]AudioFile, error) {
	files, err := s.store.ListAudioFiles(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return FromAudioFiles(files), nil
}

// Dialogue returns the stored transcript content for a project.
func (s *ProjectService) Dialogue(ctx context.Context, projectID string) (json.RawMessage, error) {
	dialogue, err := s.store.FirstDialogue(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if dialogue == nil {
		return nil, services.Wrap(services.ErrNotFound, "api", "get dialogue", "no dialogue stored yet", nil)
	}
	return json.RawMessage(dialogue.Content), nil
}

// SaveDialogue validates and stores transcript content.
func (s *ProjectService) SaveDialogue(ctx context.Context, projectID string, content DialogueContent) (StoredDocument, error) {
	if err := content.Validate(); err != nil {
		return StoredDocument{}, err
	}
	encoded, err := json.Marshal(content)
	if err != nil {
		return StoredDocument{}, fmt.Errorf("encode dialogue: %w", err)
	}
	dialogue, err := s.store.AddDialogue(ctx, projectID, string(encoded))
	if err != nil {
		return StoredDocument{}, err
	}
	s.logger.Info("dialogue stored", logging.String("project_id", projectID), logging.Int("lines", len(content.Dialogues)))
	return StoredDocument{ID: dialogue.ID, CreatedAt: formatTime(dialogue.CreatedAt)}, nil
}

// Blueprint returns the latest blueprint content for a project.
func (s *ProjectService) Blueprint(ctx context.Context, projectID string) (json.RawMessage, error) {
	blueprint, err := s.store.LatestBlueprint(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if blueprint == nil {
		return nil, services.Wrap(services.ErrNotFound, "api", "get blueprint", "no blueprint stored yet", nil)
	}
	return json.RawMessage(blueprint.Content), nil
}

// SaveBlueprint validates and stores a new blueprint version.
func (s *ProjectService) SaveBlueprint(ctx context.Context, projectID string, content BlueprintContent) (StoredDocument, error) {
	if err := content.Validate(); err != nil {
		return StoredDocument{}, err
	}
	encoded, err := json.Marshal(content)
	if err != nil {
		return StoredDocument{}, fmt.Errorf("encode blueprint: %w", err)
	}
	blueprint, err := s.store.AddBlueprint(ctx, projectID, string(encoded))
	if err != nil {
		return StoredDocument{}, err
	}
	s.logger.Info("blueprint stored",
		logging.String("project_id", projectID),
		logging.Int("version", blueprint.Version),
		logging.Int("chapters", len(content.Chapters)))
	return StoredDocument{ID: blueprint.ID, Version: blueprint.Version, CreatedAt: formatTime(blueprint.CreatedAt)}, nil
}

// Article returns the latest article for a project.
func (s *ProjectService) Article(ctx context.Context, projectID string) (Article, error) {
	article, err := s.store.LatestArticle(ctx, projectID)
	if err != nil {
		return Article{}, err
	}
	if article == nil {
		return Article{}, services.Wrap(services.ErrNotFound, "api", "get article", "no article stored yet", nil)
	}
	return FromArticle(article), nil
}

// ArticleMarkdown returns the raw markdown body of the latest article.
func (s *ProjectService) ArticleMarkdown(ctx context.Context, projectID string) (string, error) {
	article, err := s.store.LatestArticle(ctx, projectID)
	if err != nil {
		return "", err
	}
	if article == nil {
		return "", services.Wrap(services.ErrNotFound, "api", "get article", "no article stored yet", nil)
	}
	return article.Content, nil
}

// SaveArticle validates and stores a new article version.
func (s *ProjectService) SaveArticle(ctx context.Context, projectID string, req ArticleRequest) (StoredDocument, error) {
	if err := req.Validate(); err != nil {
		return StoredDocument{}, err
	}
	footnotes, err := json.Marshal(req.Footnotes)
	if err != nil {
		return StoredDocument{}, fmt.Errorf("encode footnotes: %w", err)
	}
	auditReport := "{}"
	if req.AuditReport != nil {
		encoded, err := json.Marshal(req.AuditReport)
		if err != nil {
			return StoredDocument{}, fmt.Errorf("encode audit report: %w", err)
		}
		auditReport = string(encoded)
	}
	article, err := s.store.AddArticle(ctx, projectID, store.ArticleDraft{
		Title:       req.Title,
		Content:     req.Content,
		Footnotes:   string(footnotes),
		AuditReport: auditReport,
		WordCount:   req.WordCount,
	})
	if err != nil {
		return StoredDocument{}, err
	}
	s.logger.Info("article stored", logging.String("project_id", projectID), logging.Int("version", article.Version))
	return StoredDocument{ID: article.ID, Version: article.Version, CreatedAt: formatTime(article.CreatedAt)}, nil
}

// Trigger fires a workflow trigger: it overwrites status and current_agent
// without consulting the current state, and reports the new status.
func (s *ProjectService) Trigger(ctx context.Context, projectID string, trigger lifecycle.Trigger) (StatusResponse, error) {
	transition, ok := lifecycle.Apply(trigger)
	if !ok {
		return StatusResponse{}, services.Wrap(services.ErrValidation, "api", "trigger", fmt.Sprintf("unknown trigger %q", trigger), nil)
	}
	project, err := s.store.UpdateProjectState(ctx, projectID, transition.Status, transition.Agent)
	if err != nil {
		return StatusResponse{}, err
	}
	if project == nil {
		return StatusResponse{}, errProjectNotFound(projectID)
	}
	s.logger.Info("workflow trigger fired",
		logging.String("project_id", projectID),
		logging.String("trigger", string(trigger)),
		logging.String("status", string(project.Status)),
		logging.String("agent", project.CurrentAgent))
	return StatusResponse{Message: transition.Message, Status: string(project.Status)}, nil
}

// Health returns the liveness payload with the total project count.
func (s *ProjectService) Health(ctx context.Context) (HealthResponse, error) {
	stats, err := s.store.ProjectStats(ctx)
	if err != nil {
		return HealthResponse{}, err
	}
	return HealthResponse{Status: "ok", Projects: stats.Total}, nil
}

func errProjectNotFound(id string) error {
	return services.Wrap(services.ErrNotFound, "api", "project", fmt.Sprintf("project %s does not exist", id), nil)
}
