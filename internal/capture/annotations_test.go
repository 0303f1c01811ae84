package capture

import (
	"errors"
	"testing"
	"time"
)

func TestAnnotationLogInsertionOrder(t *testing.T) {
	log := NewAnnotationLog(0)
	first, err := log.Add(3*time.Second, "checkout button hard to find")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	second, err := log.Add(time.Second, "hesitated on landing page")
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	entries := log.List()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].ID != first.ID || entries[1].ID != second.ID {
		t.Fatalf("list is not in insertion order: %+v", entries)
	}

	chrono := log.Chronological()
	if chrono[0].ID != second.ID || chrono[1].ID != first.ID {
		t.Fatalf("chronological order wrong: %+v", chrono)
	}
	// Chronological must not disturb the log itself.
	if log.List()[0].ID != first.ID {
		t.Fatal("chronological sort mutated the log")
	}
}

func TestAnnotationLogStableForEqualTimestamps(t *testing.T) {
	log := NewAnnotationLog(0)
	var ids []string
	for _, content := range []string{"one", "two", "three"} {
		entry, err := log.Add(2*time.Second, content)
		if err != nil {
			t.Fatalf("add %q: %v", content, err)
		}
		ids = append(ids, entry.ID)
	}
	chrono := log.Chronological()
	for i, entry := range chrono {
		if entry.ID != ids[i] {
			t.Fatalf("equal timestamps must keep insertion order, got %+v", chrono)
		}
	}
}

func TestAnnotationLogValidation(t *testing.T) {
	log := NewAnnotationLog(10)
	if _, err := log.Add(0, "   "); !errors.Is(err, ErrValidation) {
		t.Fatalf("blank content: expected validation error, got %v", err)
	}
	if _, err := log.Add(0, "this note is far too long"); !errors.Is(err, ErrValidation) {
		t.Fatalf("over-length content: expected validation error, got %v", err)
	}
	entry, err := log.Add(0, "  trimmed  ")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if entry.Content != "trimmed" {
		t.Fatalf("content not trimmed: %q", entry.Content)
	}
	if log.Len() != 1 {
		t.Fatalf("rejected entries must not land in the log, len=%d", log.Len())
	}
}

func TestAnnotationLogRemove(t *testing.T) {
	log := NewAnnotationLog(0)
	keep, _ := log.Add(0, "keep")
	drop, _ := log.Add(0, "drop")

	log.Remove(drop.ID)
	log.Remove("no-such-id") // absent ids are ignored

	entries := log.List()
	if len(entries) != 1 || entries[0].ID != keep.ID {
		t.Fatalf("unexpected entries after remove: %+v", entries)
	}
}
