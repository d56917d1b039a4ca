package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"loom/internal/api"
	"loom/internal/ingest"
	"loom/internal/lifecycle"
	"loom/internal/services"
	"loom/internal/testsupport"
)

func newService(t *testing.T) *api.ProjectService {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	return api.NewProjectService(st, ingest.New(cfg), nil)
}

func TestCreateAndGetProject(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	created, err := svc.CreateProject(ctx, api.ProjectRequest{Name: " P1 ", Description: "story"})
	if err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}
	if created.Name != "P1" || created.Status != "INITIALIZED" {
		t.Fatalf("unexpected created project: %#v", created)
	}

	fetched, err := svc.GetProject(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetProject failed: %v", err)
	}
	if fetched.Name != "P1" || fetched.Description != "story" {
		t.Fatalf("unexpected fetched project: %#v", fetched)
	}
}

func TestCreateProjectRequiresName(t *testing.T) {
	svc := newService(t)
	_, err := svc.CreateProject(context.Background(), api.ProjectRequest{Description: "no name"})
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestDeleteProjectNotFound(t *testing.T) {
	svc := newService(t)
	err := svc.DeleteProject(context.Background(), "no-such-id")
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUploadAudioFlow(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	project, err := svc.CreateProject(ctx, api.ProjectRequest{Name: "P1"})
	if err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}

	resp, err := svc.UploadAudio(ctx, project.ID, "interview.wav", strings.NewReader("bytes"))
	if err != nil {
		t.Fatalf("UploadAudio failed: %v", err)
	}
	if resp.Filename != "interview.wav" {
		t.Fatalf("unexpected filename: %s", resp.Filename)
	}

	files, err := svc.ListAudio(ctx, project.ID)
	if err != nil {
		t.Fatalf("ListAudio failed: %v", err)
	}
	if len(files) != 1 || files[0].Filename != "interview.wav" {
		t.Fatalf("unexpected audio list: %#v", files)
	}

	_, err = svc.UploadAudio(ctx, project.ID, "notes.txt", strings.NewReader("text"))
	if !errors.Is(err, services.ErrUnsupportedMedia) {
		t.Fatalf("expected ErrUnsupportedMedia, got %v", err)
	}
	_, err = svc.UploadAudio(ctx, project.ID, "interview.wav", strings.NewReader("again"))
	if !errors.Is(err, services.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	_, err = svc.UploadAudio(ctx, "no-such-id", "interview.wav", strings.NewReader("x"))
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDialogueRoundTrip(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	project, err := svc.CreateProject(ctx, api.ProjectRequest{Name: "P1"})
	if err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}

	_, err = svc.Dialogue(ctx, project.ID)
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound before storing, got %v", err)
	}

	content := api.DialogueContent{
		Dialogues: []api.DialogueLine{
			{Speaker: "interviewer", Text: "Where did it begin?"},
			{Speaker: "subject", Text: "In a small town.", Emotion: "calm"},
		},
	}
	if _, err := svc.SaveDialogue(ctx, project.ID, content); err != nil {
		t.Fatalf("SaveDialogue failed: %v", err)
	}

	raw, err := svc.Dialogue(ctx, project.ID)
	if err != nil {
		t.Fatalf("Dialogue failed: %v", err)
	}
	var decoded api.DialogueContent
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("decode dialogue: %v", err)
	}
	if len(decoded.Dialogues) != 2 || decoded.Dialogues[1].Emotion != "calm" {
		t.Fatalf("unexpected dialogue content: %#v", decoded)
	}
}

func TestSaveDialogueValidation(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	project, _ := svc.CreateProject(ctx, api.ProjectRequest{Name: "P1"})

	_, err := svc.SaveDialogue(ctx, project.ID, api.DialogueContent{})
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	_, err = svc.SaveDialogue(ctx, project.ID, api.DialogueContent{
		Dialogues: []api.DialogueLine{{Speaker: "", Text: "hi"}},
	})
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected ErrValidation for missing speaker, got %v", err)
	}
}

func TestBlueprintDefaultsAndLatest(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	project, _ := svc.CreateProject(ctx, api.ProjectRequest{Name: "P1"})

	first := api.BlueprintContent{
		Title:    "A Life",
		Chapters: []api.ChapterPlan{{Title: "Childhood", Theme: "growth"}},
	}
	stored, err := svc.SaveBlueprint(ctx, project.ID, first)
	if err != nil {
		t.Fatalf("SaveBlueprint failed: %v", err)
	}
	if stored.Version != 1 {
		t.Fatalf("expected version 1, got %d", stored.Version)
	}

	second := api.BlueprintContent{
		Title:    "A Life, revised",
		Chapters: []api.ChapterPlan{{Title: "Childhood", Theme: "growth", TargetWords: 1500}},
	}
	if _, err := svc.SaveBlueprint(ctx, project.ID, second); err != nil {
		t.Fatalf("SaveBlueprint failed: %v", err)
	}

	raw, err := svc.Blueprint(ctx, project.ID)
	if err != nil {
		t.Fatalf("Blueprint failed: %v", err)
	}
	var decoded api.BlueprintContent
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("decode blueprint: %v", err)
	}
	if decoded.Title != "A Life, revised" {
		t.Fatalf("expected latest version, got %q", decoded.Title)
	}
	if decoded.Style != "literary nonfiction" {
		t.Fatalf("expected default style, got %q", decoded.Style)
	}
	if decoded.Chapters[0].ChapterID != "ch01" || decoded.Chapters[0].TargetWords != 1500 {
		t.Fatalf("unexpected chapter defaults: %#v", decoded.Chapters[0])
	}
}

func TestBlueprintDefaultWordTarget(t *testing.T) {
	content := api.BlueprintContent{
		Title:    "T",
		Chapters: []api.ChapterPlan{{Title: "C", Theme: "th"}},
	}
	if err := content.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if content.Chapters[0].TargetWords != 2000 {
		t.Fatalf("expected default 2000, got %d", content.Chapters[0].TargetWords)
	}
	if content.Chapters[0].KeyPoints == nil {
		t.Fatal("expected key points default")
	}
}

func TestArticleRoundTrip(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	project, _ := svc.CreateProject(ctx, api.ProjectRequest{Name: "P1"})

	_, err := svc.Article(ctx, project.ID)
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound before storing, got %v", err)
	}

	words := 42
	req := api.ArticleRequest{
		Title:   "The Narrow Road",
		Content: "# The Narrow Road\n\nIt began in winter.",
		Footnotes: []api.Footnote{
			{Marker: "[1]", Content: "From the second interview."},
		},
		AuditReport: &api.AuditReport{FactCoverage: 0.92},
		WordCount:   &words,
	}
	stored, err := svc.SaveArticle(ctx, project.ID, req)
	if err != nil {
		t.Fatalf("SaveArticle failed: %v", err)
	}
	if stored.Version != 1 {
		t.Fatalf("expected version 1, got %d", stored.Version)
	}

	article, err := svc.Article(ctx, project.ID)
	if err != nil {
		t.Fatalf("Article failed: %v", err)
	}
	if article.Title != "The Narrow Road" || len(article.Footnotes) != 1 {
		t.Fatalf("unexpected article: %#v", article)
	}
	if article.AuditReport == nil || article.AuditReport.FactCoverage != 0.92 {
		t.Fatalf("unexpected audit report: %#v", article.AuditReport)
	}
	if article.AuditReport.Violations == nil {
		t.Fatal("expected violations default")
	}

	markdown, err := svc.ArticleMarkdown(ctx, project.ID)
	if err != nil {
		t.Fatalf("ArticleMarkdown failed: %v", err)
	}
	if !strings.HasPrefix(markdown, "# The Narrow Road") {
		t.Fatalf("unexpected markdown: %q", markdown)
	}
}

func TestTriggerSkipsGuard(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	project, _ := svc.CreateProject(ctx, api.ProjectRequest{Name: "P1"})

	resp, err := svc.Trigger(ctx, project.ID, lifecycle.TriggerTranscribe)
	if err != nil {
		t.Fatalf("Trigger failed: %v", err)
	}
	if resp.Status != "TRANSCRIBING" {
		t.Fatalf("unexpected status: %s", resp.Status)
	}

	// Writing directly after transcribe succeeds: no transition guard.
	resp, err = svc.Trigger(ctx, project.ID, lifecycle.TriggerWrite)
	if err != nil {
		t.Fatalf("Trigger failed: %v", err)
	}
	if resp.Status != "WRITING" {
		t.Fatalf("unexpected status: %s", resp.Status)
	}

	fetched, err := svc.GetProject(ctx, project.ID)
	if err != nil {
		t.Fatalf("GetProject failed: %v", err)
	}
	if fetched.CurrentAgent != lifecycle.AgentWriting {
		t.Fatalf("unexpected agent: %s", fetched.CurrentAgent)
	}
}

func TestTriggerMissingProject(t *testing.T) {
	svc := newService(t)
	_, err := svc.Trigger(context.Background(), "no-such-id", lifecycle.TriggerPlan)
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestHealthCountsProjects(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()
	if _, err := svc.CreateProject(ctx, api.ProjectRequest{Name: "P1"}); err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}
	health, err := svc.Health(ctx)
	if err != nil {
		t.Fatalf("Health failed: %v", err)
	}
	if health.Status != "ok" || health.Projects != 1 {
		t.Fatalf("unexpected health: %#v", health)
	}
}
