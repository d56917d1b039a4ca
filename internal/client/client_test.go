package client_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"loom/internal/api"
	"loom/internal/client"
	"loom/internal/ingest"
	"loom/internal/server"
	"loom/internal/testsupport"
)

func newClient(t *testing.T) *client.Client {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	svc := api.NewProjectService(st, ingest.New(cfg), nil)
	ts := httptest.NewServer(server.New(cfg, svc, nil).Handler())
	t.Cleanup(ts.Close)

	c, err := client.New(ts.URL)
	if err != nil {
		t.Fatalf("client.New: %v", err)
	}
	return c
}

func TestProjectLifecycleRoundTrip(t *testing.T) {
	c := newClient(t)
	ctx := context.Background()

	project, err := c.CreateProject(ctx, "P1", "a story")
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	if project.Status != "INITIALIZED" {
		t.Fatalf("unexpected status %q", project.Status)
	}

	listed, err := c.ListProjects(ctx)
	if err != nil {
		t.Fatalf("ListProjects: %v", err)
	}
	if len(listed) != 1 || listed[0].ID != project.ID {
		t.Fatalf("unexpected listing: %#v", listed)
	}

	status, err := c.Trigger(ctx, project.ID, "transcribe")
	if err != nil {
		t.Fatalf("Trigger: %v", err)
	}
	if status.Status != "TRANSCRIBING" {
		t.Fatalf("unexpected trigger status %q", status.Status)
	}

	if err := c.DeleteProject(ctx, project.ID); err != nil {
		t.Fatalf("DeleteProject: %v", err)
	}
	_, err = c.GetProject(ctx, project.ID)
	var statusErr *client.StatusError
	if !errors.As(err, &statusErr) || statusErr.Status != http.StatusNotFound {
		t.Fatalf("expected 404 StatusError, got %v", err)
	}
}

func TestUploadAndDocuments(t *testing.T) {
	c := newClient(t)
	ctx := context.Background()

	project, err := c.CreateProject(ctx, "P1", "")
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}

	path := filepath.Join(t.TempDir(), "interview.wav")
	if err := os.WriteFile(path, []byte("wav bytes"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	upload, err := c.UploadAudio(ctx, project.ID, path)
	if err != nil {
		t.Fatalf("UploadAudio: %v", err)
	}
	if upload.Filename != "interview.wav" {
		t.Fatalf("unexpected filename %q", upload.Filename)
	}
	files, err := c.ListAudio(ctx, project.ID)
	if err != nil {
		t.Fatalf("ListAudio: %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("unexpected audio listing: %#v", files)
	}

	_, err = c.Blueprint(ctx, project.ID)
	var statusErr *client.StatusError
	if !errors.As(err, &statusErr) || statusErr.Status != http.StatusNotFound {
		t.Fatalf("expected 404 for empty blueprint, got %v", err)
	}
}

func TestArticleMarkdown(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	svc := api.NewProjectService(st, ingest.New(cfg), nil)
	ts := httptest.NewServer(server.New(cfg, svc, nil).Handler())
	t.Cleanup(ts.Close)

	c, err := client.New(ts.URL)
	if err != nil {
		t.Fatalf("client.New: %v", err)
	}
	ctx := context.Background()

	project, err := c.CreateProject(ctx, "P1", "")
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	if _, err := svc.SaveArticle(ctx, project.ID, api.ArticleRequest{Content: "# Title\n\nBody."}); err != nil {
		t.Fatalf("SaveArticle: %v", err)
	}

	markdown, err := c.ArticleMarkdown(ctx, project.ID)
	if err != nil {
		t.Fatalf("ArticleMarkdown: %v", err)
	}
	if !strings.HasPrefix(markdown, "# Title") {
		t.Fatalf("unexpected markdown: %q", markdown)
	}

	article, err := c.Article(ctx, project.ID)
	if err != nil {
		t.Fatalf("Article: %v", err)
	}
	if article.Version != 1 {
		t.Fatalf("unexpected version %d", article.Version)
	}
	raw, err := json.Marshal(article)
	if err != nil {
		t.Fatalf("re-encode article: %v", err)
	}
	if !strings.Contains(string(raw), "\"footnotes\":[]") {
		t.Fatalf("expected empty footnotes in payload: %s", raw)
	}
}

func TestIsAPIUnavailable(t *testing.T) {
	c, err := client.New("127.0.0.1:1")
	if err != nil {
		t.Fatalf("client.New: %v", err)
	}
	_, err = c.Health(context.Background())
	if err == nil {
		t.Fatal("expected connection error")
	}
	if !client.IsAPIUnavailable(err) {
		t.Fatalf("expected IsAPIUnavailable, got %v", err)
	}
}
