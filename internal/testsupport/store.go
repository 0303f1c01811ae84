package testsupport

import (
	"context"
	"testing"

	"fieldnote/internal/config"
	"fieldnote/internal/research"
	"fieldnote/internal/store"
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

// SeedHierarchy creates a project, persona, and exercise for tests and
// returns them for use as interview parents.
func SeedHierarchy(t testing.TB, st *store.Store) (research.Project, research.Persona, research.ResearchExercise) {
	t.Helper()

	ctx := context.Background()
	project, err := st.CreateProject(ctx, research.Project{Name: "Checkout Redesign"})
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	persona, err := st.CreatePersona(ctx, research.Persona{ProjectID: project.ID, Name: "Returning Shopper"})
	if err != nil {
		t.Fatalf("CreatePersona: %v", err)
	}
	exercise, err := st.CreateExercise(ctx, research.ResearchExercise{
		PersonaID: persona.ID,
		Name:      "First Purchase Flow",
		Type:      research.ExerciseUsabilityTest,
	})
	if err != nil {
		t.Fatalf("CreateExercise: %v", err)
	}
	return *project, *persona, *exercise
}
