package ingest_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"loom/internal/ingest"
	"loom/internal/services"
	"loom/internal/testsupport"
)

func TestCheckFilenameAllowList(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	svc := ingest.New(cfg)

	for _, name := range []string{"interview.mp3", "interview.WAV", "take.m4a", "raw.flac"} {
		if _, err := svc.CheckFilename(name); err != nil {
			t.Fatalf("expected %s to be accepted: %v", name, err)
		}
	}

	_, err := svc.CheckFilename("notes.txt")
	if !errors.Is(err, services.ErrUnsupportedMedia) {
		t.Fatalf("expected ErrUnsupportedMedia, got %v", err)
	}
	_, err = svc.CheckFilename("")
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected ErrValidation for empty name, got %v", err)
	}
}

func TestCheckFilenameStripsDirectories(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	svc := ingest.New(cfg)

	name, err := svc.CheckFilename("../../escape/interview.wav")
	if err != nil {
		t.Fatalf("CheckFilename failed: %v", err)
	}
	if name != "interview.wav" {
		t.Fatalf("expected sanitized name, got %q", name)
	}
}

func TestSaveAndConflict(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	svc := ingest.New(cfg)

	path, err := svc.Save("project-1", "interview.wav", strings.NewReader("bytes"))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if want := filepath.Join(cfg.Paths.UploadDir, "project-1", "interview.wav"); path != want {
		t.Fatalf("expected path %s, got %s", want, path)
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "bytes" {
		t.Fatalf("unexpected stored bytes: %q (err %v)", data, err)
	}

	_, err = svc.Save("project-1", "interview.wav", strings.NewReader("other"))
	if !errors.Is(err, services.ErrConflict) {
		t.Fatalf("expected ErrConflict on duplicate, got %v", err)
	}
	// Original bytes survive the rejected re-upload.
	data, _ = os.ReadFile(path)
	if string(data) != "bytes" {
		t.Fatalf("stored bytes overwritten: %q", data)
	}
}

func TestDiscard(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	svc := ingest.New(cfg)

	path, err := svc.Save("project-1", "interview.wav", strings.NewReader("bytes"))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := svc.Discard(path); err != nil {
		t.Fatalf("Discard failed: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("expected file to be removed")
	}

	if err := svc.Discard("/etc/passwd"); err == nil {
		t.Fatal("expected refusal outside upload dir")
	}
}

func TestRemoveProject(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	svc := ingest.New(cfg)

	if _, err := svc.Save("project-1", "a.mp3", strings.NewReader("x")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := svc.RemoveProject("project-1"); err != nil {
		t.Fatalf("RemoveProject failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(cfg.Paths.UploadDir, "project-1")); !os.IsNotExist(err) {
		t.Fatal("expected project upload dir to be removed")
	}
	if err := svc.RemoveProject("project-1"); err != nil {
		t.Fatalf("RemoveProject on missing dir failed: %v", err)
	}
}
