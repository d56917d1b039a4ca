package testsupport

import (
	"context"
	"testing"

	"loom/internal/config"
	"loom/internal/store"
)

// MustOpenStore opens a store.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// MustCreateProject creates a project for tests using the provided store.
func MustCreateProject(t testing.TB, st *store.Store, name, description string) *store.Project {
	t.Helper()

	project, err := st.CreateProject(context.Background(), name, description)
	if err != nil {
		t.Fatalf("store.CreateProject: %v", err)
	}
	return project
}

// MustCreateProjectInState creates a project already advanced to the given
// status with the matching agent label recorded.
func MustCreateProjectInState(t testing.TB, st *store.Store, name string, status store.Status, agent string) *store.Project {
	t.Helper()

	project := MustCreateProject(t, st, name, "")
	updated, err := st.UpdateProjectState(context.Background(), project.ID, status, agent)
	if err != nil {
		t.Fatalf("store.UpdateProjectState: %v", err)
	}
	if updated == nil {
		t.Fatalf("project %s vanished while advancing to %s", project.ID, status)
	}
	return updated
}
