package research

import (
	"errors"
	"strings"
	"time"
)

// Project is the top-level container for a research effort.
type Project struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time

	// PersonaCount is populated by list queries; it is not stored.
	PersonaCount int
}

// Persona describes a participant archetype within a project.
type Persona struct {
	ID              string
	ProjectID       string
	Name            string
	Description     string
	Characteristics string
	CreatedAt       time.Time

	ExerciseCount int
}

// ResearchExercise groups interviews run against one persona.
type ResearchExercise struct {
	ID          string
	PersonaID   string
	Name        string
	Type        ExerciseType
	Description string
	CreatedAt   time.Time

	InterviewCount int
}

// Interview is a recorded session. PersonaID is denormalized alongside
// ExerciseID so detail routes resolve without a join.
type Interview struct {
	ID         string
	ExerciseID string
	PersonaID  string
	Title      string
	Status     Status
	AudioRef   string
	CreatedAt  time.Time

	AnnotationCount int
}

// Annotation is a timestamped note attached to an interview. Timestamp is
// seconds elapsed in the source recording at capture time.
type Annotation struct {
	ID          string
	InterviewID string
	Timestamp   float64
	Content     string
}

// Transcript holds the full text transcription of an interview. At most one
// exists per interview.
type Transcript struct {
	ID          string
	InterviewID string
	Content     string
}

// Analysis is an AI-generated payload produced by a named agent. Content is
// stored as serialized text and deserialized for display.
type Analysis struct {
	ID          string
	InterviewID string
	AgentName   string
	Content     string
	CreatedAt   time.Time
}

// Validate checks required project fields before insert.
func (p Project) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return errors.New("project name is required")
	}
	return nil
}

// Validate checks required persona fields before insert.
func (p Persona) Validate() error {
	if strings.TrimSpace(p.ProjectID) == "" {
		return errors.New("persona project id is required")
	}
	if strings.TrimSpace(p.Name) == "" {
		return errors.New("persona name is required")
	}
	return nil
}

// Validate checks required exercise fields before insert.
func (e ResearchExercise) Validate() error {
	if strings.TrimSpace(e.PersonaID) == "" {
		return errors.New("exercise persona id is required")
	}
	if strings.TrimSpace(e.Name) == "" {
		return errors.New("exercise name is required")
	}
	if !e.Type.Valid() {
		return errors.New("exercise type is not a known value")
	}
	return nil
}

// Validate checks required interview fields before insert.
func (i Interview) Validate() error {
	if strings.TrimSpace(i.ExerciseID) == "" {
		return errors.New("interview exercise id is required")
	}
	if strings.TrimSpace(i.PersonaID) == "" {
		return errors.New("interview persona id is required")
	}
	if strings.TrimSpace(i.Title) == "" {
		return errors.New("interview title is required")
	}
	if !i.Status.Valid() {
		return errors.New("interview status is not a known value")
	}
	return nil
}

// Validate checks required annotation fields before insert.
func (a Annotation) Validate() error {
	if strings.TrimSpace(a.Content) == "" {
		return errors.New("annotation content is required")
	}
	if a.Timestamp < 0 {
		return errors.New("annotation timestamp must not be negative")
	}
	return nil
}
