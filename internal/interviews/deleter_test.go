package interviews_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"fieldnote/internal/interviews"
	"fieldnote/internal/store"
)

func TestDeleteInterviewRemovesAudioFile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	saved, err := f.manager.SaveInterview(ctx, f.bundle("Delete me"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	if err := f.deleter.Delete(ctx, interviews.KindInterview, saved.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := f.store.GetInterview(ctx, saved.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("interview row survived: %v", err)
	}
	entries, err := os.ReadDir(f.artifacts.Dir())
	if err != nil {
		t.Fatalf("read uploads dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("audio file survived cascade: %v", entries)
	}
}

func TestDeleteProjectCascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first, err := f.manager.SaveInterview(ctx, f.bundle("One"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := f.manager.SaveInterview(ctx, f.bundle("Two")); err != nil {
		t.Fatalf("save: %v", err)
	}

	projects, err := f.store.ListProjects(ctx)
	if err != nil || len(projects) != 1 {
		t.Fatalf("list projects: %v (%d)", err, len(projects))
	}
	if err := f.deleter.Delete(ctx, interviews.KindProject, projects[0].ID); err != nil {
		t.Fatalf("delete project: %v", err)
	}

	if _, err := f.store.GetInterview(ctx, first.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("descendant interview survived: %v", err)
	}
	entries, err := os.ReadDir(f.artifacts.Dir())
	if err != nil {
		t.Fatalf("read uploads dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("descendant audio survived: %v", entries)
	}
}

func TestDeleteMissingEntityFails(t *testing.T) {
	f := newFixture(t)
	err := f.deleter.Delete(context.Background(), interviews.KindPersona, "no-such-id")
	if !errors.Is(err, interviews.ErrDeleteFailed) {
		t.Fatalf("expected delete failed, got %v", err)
	}
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("underlying cause should surface: %v", err)
	}
}

func TestParseKind(t *testing.T) {
	for _, valid := range []string{"project", "persona", "exercise", "interview"} {
		if _, ok := interviews.ParseKind(valid); !ok {
			t.Fatalf("ParseKind(%q) rejected", valid)
		}
	}
	if _, ok := interviews.ParseKind("annotation"); ok {
		t.Fatal("ParseKind accepted unknown kind")
	}
}
