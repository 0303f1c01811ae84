package api

import (
	"time"

	"fieldnote/internal/interviews"
	"fieldnote/internal/research"
)

// AudioURLPrefix is the route artifacts are served under.
const AudioURLPrefix = "/uploads/"

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(dateTimeFormat)
}

// FromProject converts a storage record to its API representation.
func FromProject(p research.Project) Project {
	return Project{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		CreatedAt:    formatTimestamp(p.CreatedAt),
		PersonaCount: p.PersonaCount,
	}
}

// FromProjects converts a slice of storage records into API DTOs.
func FromProjects(items []research.Project) []Project {
	out := make([]Project, 0, len(items))
	for _, item := range items {
		out = append(out, FromProject(item))
	}
	return out
}

// FromPersona converts a storage record to its API representation.
func FromPersona(p research.Persona) Persona {
	return Persona{
		ID:              p.ID,
		ProjectID:       p.ProjectID,
		Name:            p.Name,
		Description:     p.Description,
		Characteristics: p.Characteristics,
		CreatedAt:       formatTimestamp(p.CreatedAt),
		ExerciseCount:   p.ExerciseCount,
	}
}

// FromPersonas converts a slice of storage records into API DTOs.
func FromPersonas(items []research.Persona) []Persona {
	out := make([]Persona, 0, len(items))
	for _, item := range items {
		out = append(out, FromPersona(item))
	}
	return out
}

// FromExercise converts a storage record to its API representation.
func FromExercise(e research.ResearchExercise) Exercise {
	return Exercise{
		ID:             e.ID,
		PersonaID:      e.PersonaID,
		Name:           e.Name,
		Type:           string(e.Type),
		TypeLabel:      e.Type.Label(),
		Description:    e.Description,
		CreatedAt:      formatTimestamp(e.CreatedAt),
		InterviewCount: e.InterviewCount,
	}
}

// FromExercises converts a slice of storage records into API DTOs.
func FromExercises(items []research.ResearchExercise) []Exercise {
	out := make([]Exercise, 0, len(items))
	for _, item := range items {
		out = append(out, FromExercise(item))
	}
	return out
}

// FromInterview converts a storage record to its API representation. The
// audio reference becomes a serveable /uploads/ URL.
func FromInterview(i research.Interview) Interview {
	dto := Interview{
		ID:              i.ID,
		ExerciseID:      i.ExerciseID,
		PersonaID:       i.PersonaID,
		Title:           i.Title,
		Status:          string(i.Status),
		CreatedAt:       formatTimestamp(i.CreatedAt),
		AnnotationCount: i.AnnotationCount,
	}
	if i.AudioRef != "" {
		dto.AudioURL = AudioURLPrefix + i.AudioRef
	}
	return dto
}

// FromInterviews converts a slice of storage records into API DTOs.
func FromInterviews(items []research.Interview) []Interview {
	out := make([]Interview, 0, len(items))
	for _, item := range items {
		out = append(out, FromInterview(item))
	}
	return out
}

// FromAnnotation converts a storage record to its API representation.
func FromAnnotation(a research.Annotation) Annotation {
	return Annotation{
		ID:          a.ID,
		InterviewID: a.InterviewID,
		Timestamp:   a.Timestamp,
		Content:     a.Content,
	}
}

// FromAnnotations converts a slice of storage records into API DTOs.
func FromAnnotations(items []research.Annotation) []Annotation {
	out := make([]Annotation, 0, len(items))
	for _, item := range items {
		out = append(out, FromAnnotation(item))
	}
	return out
}

// FromTranscript converts a storage record to its API representation.
func FromTranscript(t *research.Transcript) *Transcript {
	if t == nil {
		return nil
	}
	return &Transcript{ID: t.ID, InterviewID: t.InterviewID, Content: t.Content}
}

// FromAnalysis converts a storage record to its API representation.
func FromAnalysis(a research.Analysis) Analysis {
	return Analysis{
		ID:          a.ID,
		InterviewID: a.InterviewID,
		AgentName:   a.AgentName,
		Content:     a.Content,
		CreatedAt:   formatTimestamp(a.CreatedAt),
	}
}

// FromAnalyses converts a slice of storage records into API DTOs.
func FromAnalyses(items []research.Analysis) []Analysis {
	out := make([]Analysis, 0, len(items))
	for _, item := range items {
		out = append(out, FromAnalysis(item))
	}
	return out
}

// FromDetail converts an assembled detail view into its API representation.
func FromDetail(d *interviews.Detail) InterviewDetail {
	if d == nil {
		return InterviewDetail{}
	}
	return InterviewDetail{
		Interview:   FromInterview(d.Interview),
		Annotations: FromAnnotations(d.Annotations),
		Transcript:  FromTranscript(d.Transcript),
		Analyses:    FromAnalyses(d.Analyses),
	}
}
