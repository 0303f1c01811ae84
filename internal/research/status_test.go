package research_test

import (
	"testing"

	"fieldnote/internal/research"
)

func TestParseStatus(t *testing.T) {
	cases := []struct {
		input string
		want  research.Status
		ok    bool
	}{
		{"recorded", research.StatusRecorded, true},
		{"  Transcribing ", research.StatusTranscribing, true},
		{"COMPLETE", research.StatusComplete, true},
		{"", "", false},
		{"archived", "", false},
	}
	for _, tc := range cases {
		got, ok := research.ParseStatus(tc.input)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("ParseStatus(%q) = %q, %v; want %q, %v", tc.input, got, ok, tc.want, tc.ok)
		}
	}
}

func TestStatusCanAdvanceForwardOnly(t *testing.T) {
	if !research.StatusRecorded.CanAdvance(research.StatusTranscribing) {
		t.Fatal("recorded -> transcribing should be legal")
	}
	if !research.StatusTranscribing.CanAdvance(research.StatusComplete) {
		t.Fatal("skipping forward through the pipeline should be legal")
	}
	if research.StatusAnalyzing.CanAdvance(research.StatusRecorded) {
		t.Fatal("statuses must not move backward")
	}
	if !research.StatusAnalyzing.CanAdvance(research.StatusAnalyzing) {
		t.Fatal("repeating the current status should stay legal for idempotent callbacks")
	}
	if research.Status("bogus").CanAdvance(research.StatusComplete) {
		t.Fatal("unknown source status should never advance")
	}
	if research.StatusRecorded.CanAdvance(research.Status("bogus")) {
		t.Fatal("unknown target status should never be accepted")
	}
}

func TestAllStatusesIsACopy(t *testing.T) {
	statuses := research.AllStatuses()
	if len(statuses) != 5 {
		t.Fatalf("expected 5 statuses, got %d", len(statuses))
	}
	statuses[0] = research.Status("mutated")
	if research.AllStatuses()[0] != research.StatusDraft {
		t.Fatal("AllStatuses should return a defensive copy")
	}
}
