package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"loom/internal/api"
	"loom/internal/lifecycle"
	"loom/internal/logging"
	"loom/internal/services"
)

// maxUploadMemory bounds the in-memory portion of multipart parsing;
// larger uploads spill to temp files.
const maxUploadMemory = 32 << 20

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		s.writeError(w, http.StatusNotFound, "not found")
		return
	}
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.writeJSON(w, http.StatusOK, api.ServiceInfo{
		Name:        "loom",
		Description: "interview-to-narrative project backend",
		Docs:        "/health",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	health, err := s.projects.Health(r.Context())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, health)
}

func (s *Server) handleProjects(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		projects, err := s.projects.ListProjects(r.Context())
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, projects)
	case http.MethodPost:
		var req api.ProjectRequest
		if !s.decodeBody(w, r, &req) {
			return
		}
		project, err := s.projects.CreateProject(r.Context(), req)
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		s.writeJSON(w, http.StatusCreated, project)
	default:
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleProjectSubtree dispatches /projects/{id} and its child routes.
func (s *Server) handleProjectSubtree(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/projects/"), "/")
	if rest == "" {
		s.writeError(w, http.StatusNotFound, "not found")
		return
	}
	id, child, _ := strings.Cut(rest, "/")

	switch child {
	case "":
		s.handleProject(w, r, id)
	case "audio":
		s.handleAudio(w, r, id)
	case "dialogue":
		s.handleDialogue(w, r, id)
	case "blueprint":
		s.handleBlueprint(w, r, id)
	case "article":
		s.handleArticle(w, r, id)
	case "article/markdown":
		s.handleArticleMarkdown(w, r, id)
	default:
		if trigger, ok := lifecycle.ParseTrigger(child); ok {
			s.handleTrigger(w, r, id, trigger)
			return
		}
		s.writeError(w, http.StatusNotFound, "not found")
	}
}

func (s *Server) handleProject(w http.ResponseWriter, r *http.Request, id string) {
	switch r.Method {
	case http.MethodGet:
		project, err := s.projects.GetProject(r.Context(), id)
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, project)
	case http.MethodDelete:
		if err := s.projects.DeleteProject(r.Context(), id); err != nil {
			s.writeServiceError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, map[string]string{"message": fmt.Sprintf("project %s deleted", id)})
	default:
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleAudio(w http.ResponseWriter, r *http.Request, id string) {
	switch r.Method {
	case http.MethodGet:
		files, err := s.projects.ListAudio(r.Context(), id)
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, files)
	case http.MethodPost:
		if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid multipart form")
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "form field \"file\" is required")
			return
		}
		defer file.Close()
		resp, err := s.projects.UploadAudio(r.Context(), id, header.Filename, file)
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		s.writeJSON(w, http.StatusCreated, resp)
	default:
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleDialogue(w http.ResponseWriter, r *http.Request, id string) {
	switch r.Method {
	case http.MethodGet:
		content, err := s.projects.Dialogue(r.Context(), id)
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		s.writeRawJSON(w, http.StatusOK, content)
	case http.MethodPost:
		var content api.DialogueContent
		if !s.decodeBody(w, r, &content) {
			return
		}
		stored, err := s.projects.SaveDialogue(r.Context(), id, content)
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		s.writeJSON(w, http.StatusCreated, stored)
	default:
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleBlueprint(w http.ResponseWriter, r *http.Request, id string) {
	switch r.Method {
	case http.MethodGet:
		content, err := s.projects.Blueprint(r.Context(), id)
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		s.writeRawJSON(w, http.StatusOK, content)
	case http.MethodPost:
		var content api.BlueprintContent
		if !s.decodeBody(w, r, &content) {
			return
		}
		stored, err := s.projects.SaveBlueprint(r.Context(), id, content)
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		s.writeJSON(w, http.StatusCreated, stored)
	default:
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleArticle(w http.ResponseWriter, r *http.Request, id string) {
	switch r.Method {
	case http.MethodGet:
		article, err := s.projects.Article(r.Context(), id)
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, article)
	case http.MethodPost:
		var req api.ArticleRequest
		if !s.decodeBody(w, r, &req) {
			return
		}
		stored, err := s.projects.SaveArticle(r.Context(), id, req)
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		s.writeJSON(w, http.StatusCreated, stored)
	default:
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleArticleMarkdown(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	markdown, err := s.projects.ArticleMarkdown(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, markdown)
}

func (s *Server) handleTrigger(w http.ResponseWriter, r *http.Request, id string, trigger lifecycle.Trigger) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	resp, err := s.projects.Trigger(r.Context(), id, trigger)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, target any) bool {
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(target); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return false
	}
	return true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", logging.Error(err))
	}
}

func (s *Server) writeRawJSON(w http.ResponseWriter, status int, payload json.RawMessage) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(payload); err != nil {
		s.logger.Error("failed to write response", logging.Error(err))
	}
}

func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	s.writeError(w, errorStatus(err), err.Error())
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

// errorStatus maps the service error taxonomy onto HTTP status codes.
// Anything unrecognized is an opaque server error.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrValidation), errors.Is(err, services.ErrUnsupportedMedia):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, services.ErrConfiguration):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
