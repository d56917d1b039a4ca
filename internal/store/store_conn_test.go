package store

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"loom/internal/config"
	"loom/internal/services"
)

// Foreign key enforcement must hold on every pooled connection, not just the
// one that ran the pragmas, so referential checks and cascading deletes
// survive pool growth under concurrent requests.
func TestForeignKeysOnPooledConnections(t *testing.T) {
	cfg := config.Default()
	base := t.TempDir()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.UploadDir = filepath.Join(base, "uploads")
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	st, err := Open(&cfg)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	ctx := context.Background()
	project, err := st.CreateProject(ctx, "P1", "")
	if err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}
	if _, err := st.AddDialogue(ctx, project.ID, `{"dialogues":[]}`); err != nil {
		t.Fatalf("AddDialogue failed: %v", err)
	}

	// Hold several connections at once so later statements are forced onto
	// freshly opened pool members.
	conns := make([]*sql.Conn, 0, 4)
	for i := 0; i < 4; i++ {
		conn, err := st.db.Conn(ctx)
		if err != nil {
			t.Fatalf("checkout connection %d: %v", i, err)
		}
		conns = append(conns, conn)
	}
	for i, conn := range conns {
		var enabled int
		if err := conn.QueryRowContext(ctx, `PRAGMA foreign_keys`).Scan(&enabled); err != nil {
			t.Fatalf("read foreign_keys on connection %d: %v", i, err)
		}
		if enabled != 1 {
			t.Fatalf("foreign_keys disabled on pooled connection %d", i)
		}
	}

	// With the pool pinned, these run on yet another fresh connection.
	if _, err := st.AddDialogue(ctx, "no-such-project", `{"dialogues":[]}`); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing project, got %v", err)
	}
	if _, err := st.AddAudioFile(ctx, "no-such-project", "a.mp3", "/tmp/a.mp3", nil); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing project, got %v", err)
	}

	deleted, err := st.DeleteProject(ctx, project.ID)
	if err != nil {
		t.Fatalf("DeleteProject failed: %v", err)
	}
	if !deleted {
		t.Fatal("expected project to be deleted")
	}
	dialogue, err := st.FirstDialogue(ctx, project.ID)
	if err != nil {
		t.Fatalf("FirstDialogue failed: %v", err)
	}
	if dialogue != nil {
		t.Fatal("expected cascading delete of dialogue rows on a fresh connection")
	}

	for _, conn := range conns {
		_ = conn.Close()
	}
}
