package api

import (
	"testing"
	"time"

	"fieldnote/internal/interviews"
	"fieldnote/internal/research"
)

func TestFromInterviewBuildsAudioURL(t *testing.T) {
	created := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	dto := FromInterview(research.Interview{
		ID:       "iv-1",
		Title:    "Checkout walkthrough",
		Status:   research.StatusRecorded,
		AudioRef: "1700000000000-take.webm",
		CreatedAt: created,
	})
	if dto.AudioURL != "/uploads/1700000000000-take.webm" {
		t.Fatalf("audio url = %q", dto.AudioURL)
	}
	if dto.CreatedAt != "2026-03-14T09:26:53.000Z" {
		t.Fatalf("created at = %q", dto.CreatedAt)
	}

	noAudio := FromInterview(research.Interview{ID: "iv-2"})
	if noAudio.AudioURL != "" {
		t.Fatalf("missing audio must omit url, got %q", noAudio.AudioURL)
	}
	if noAudio.CreatedAt != "" {
		t.Fatalf("zero time must omit createdAt, got %q", noAudio.CreatedAt)
	}
}

func TestFromExerciseIncludesLabel(t *testing.T) {
	dto := FromExercise(research.ResearchExercise{
		ID:   "ex-1",
		Name: "First purchase",
		Type: research.ExerciseABTest,
	})
	if dto.Type != "ab_test" || dto.TypeLabel != "A/B Test" {
		t.Fatalf("type = %q label = %q", dto.Type, dto.TypeLabel)
	}
}

func TestFromDetail(t *testing.T) {
	detail := &interviews.Detail{
		Interview: research.Interview{ID: "iv-1", Status: research.StatusComplete},
		Annotations: []research.Annotation{
			{ID: "a-1", InterviewID: "iv-1", Timestamp: 2.5, Content: "note"},
		},
		Transcript: &research.Transcript{ID: "t-1", InterviewID: "iv-1", Content: "text"},
		Analyses: []research.Analysis{
			{ID: "an-1", InterviewID: "iv-1", AgentName: "themes", Content: "{}"},
		},
	}
	dto := FromDetail(detail)
	if dto.Interview.ID != "iv-1" || len(dto.Annotations) != 1 || dto.Transcript == nil || len(dto.Analyses) != 1 {
		t.Fatalf("detail conversion incomplete: %+v", dto)
	}
	if dto.Annotations[0].Timestamp != 2.5 {
		t.Fatalf("timestamp = %v", dto.Annotations[0].Timestamp)
	}

	empty := FromDetail(nil)
	if empty.Transcript != nil {
		t.Fatal("nil detail must convert to zero value")
	}
}
