package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"fieldnote/internal/config"
	"fieldnote/internal/research"
)

// openTestStore builds a store without testsupport, which lives downstream
// of this package.
func openTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(dir, "data")
	cfg.Paths.UploadsDir = filepath.Join(dir, "uploads")
	cfg.Paths.LogDir = filepath.Join(dir, "log")
	st, err := Open(&cfg)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

// Pragmas ride in the DSN, so a connection opened after the pool discards
// the original one still enforces foreign keys. A per-connection PRAGMA
// applied only at Open time would make the delete below succeed while the
// persona row survived.
func TestCascadeDeleteOnFreshPoolConnection(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	project, err := st.CreateProject(ctx, research.Project{Name: "Pooled"})
	if err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}
	persona, err := st.CreatePersona(ctx, research.Persona{ProjectID: project.ID, Name: "Shopper"})
	if err != nil {
		t.Fatalf("CreatePersona failed: %v", err)
	}
	exercise, err := st.CreateExercise(ctx, research.ResearchExercise{
		PersonaID: persona.ID,
		Name:      "Checkout walk-through",
		Type:      research.ExerciseInterview,
	})
	if err != nil {
		t.Fatalf("CreateExercise failed: %v", err)
	}
	interview, err := st.CreateInterview(ctx, research.Interview{
		ExerciseID: exercise.ID,
		PersonaID:  persona.ID,
		Title:      "Pooled session",
		Status:     research.StatusRecorded,
	})
	if err != nil {
		t.Fatalf("CreateInterview failed: %v", err)
	}

	// Drop every idle connection so the delete runs on a freshly opened one.
	st.db.SetMaxIdleConns(0)
	st.db.SetMaxIdleConns(2)

	if _, err := st.DeleteProject(ctx, project.ID); err != nil {
		t.Fatalf("DeleteProject failed: %v", err)
	}
	if _, err := st.GetPersona(ctx, persona.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected persona gone after cascade, got %v", err)
	}
	if _, err := st.GetExercise(ctx, exercise.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected exercise gone after cascade, got %v", err)
	}
	if _, err := st.GetInterview(ctx, interview.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected interview gone after cascade, got %v", err)
	}
}
