package api

// dateTimeFormat is used for RFC3339 timestamps in API payloads.
const dateTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// Project describes a research project in a transport-friendly format.
type Project struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	CreatedAt    string `json:"createdAt,omitempty"`
	PersonaCount int    `json:"personaCount"`
}

// Persona describes a participant archetype.
type Persona struct {
	ID              string `json:"id"`
	ProjectID       string `json:"projectId"`
	Name            string `json:"name"`
	Description     string `json:"description,omitempty"`
	Characteristics string `json:"characteristics,omitempty"`
	CreatedAt       string `json:"createdAt,omitempty"`
	ExerciseCount   int    `json:"exerciseCount"`
}

// Exercise describes a research exercise.
type Exercise struct {
	ID             string `json:"id"`
	PersonaID      string `json:"personaId"`
	Name           string `json:"name"`
	Type           string `json:"type"`
	TypeLabel      string `json:"typeLabel"`
	Description    string `json:"description,omitempty"`
	CreatedAt      string `json:"createdAt,omitempty"`
	InterviewCount int    `json:"interviewCount"`
}

// Interview describes a recorded session.
type Interview struct {
	ID              string `json:"id"`
	ExerciseID      string `json:"exerciseId"`
	PersonaID       string `json:"personaId"`
	Title           string `json:"title"`
	Status          string `json:"status"`
	AudioURL        string `json:"audioUrl,omitempty"`
	CreatedAt       string `json:"createdAt,omitempty"`
	AnnotationCount int    `json:"annotationCount"`
}

// Annotation is a timestamped note; Timestamp is seconds into the recording.
type Annotation struct {
	ID          string  `json:"id"`
	InterviewID string  `json:"interviewId,omitempty"`
	Timestamp   float64 `json:"timestamp"`
	Content     string  `json:"content"`
}

// Transcript is the full-text transcription of an interview.
type Transcript struct {
	ID          string `json:"id"`
	InterviewID string `json:"interviewId"`
	Content     string `json:"content"`
}

// Analysis is an agent-produced payload attached to an interview.
type Analysis struct {
	ID          string `json:"id"`
	InterviewID string `json:"interviewId"`
	AgentName   string `json:"agentName"`
	Content     string `json:"content"`
	CreatedAt   string `json:"createdAt,omitempty"`
}

// InterviewDetail bundles everything a detail view needs.
type InterviewDetail struct {
	Interview   Interview   `json:"interview"`
	Annotations []Annotation `json:"annotations"`
	Transcript  *Transcript  `json:"transcript,omitempty"`
	Analyses    []Analysis   `json:"analyses"`
}

// CreateProjectRequest is the POST /api/projects body.
type CreateProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CreatePersonaRequest is the POST /api/personas body.
type CreatePersonaRequest struct {
	ProjectID       string `json:"projectId"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	Characteristics string `json:"characteristics"`
}

// CreateExerciseRequest is the POST /api/exercises body.
type CreateExerciseRequest struct {
	PersonaID   string `json:"personaId"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

// UpdateStatusRequest is the PATCH /api/interviews/{id}/status body.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// AttachTranscriptRequest is the POST /api/interviews/{id}/transcript body.
type AttachTranscriptRequest struct {
	Content string `json:"content"`
}

// AttachAnalysisRequest is the POST /api/interviews/{id}/analyses body.
type AttachAnalysisRequest struct {
	AgentName string `json:"agentName"`
	Content   string `json:"content"`
}

// AnnotationUpload is one entry of the annotations form field on interview
// submission. Timestamp is seconds into the recording.
type AnnotationUpload struct {
	Timestamp float64 `json:"timestamp"`
	Content   string  `json:"content"`
}

// DeleteResponse acknowledges a successful cascade delete.
type DeleteResponse struct {
	Success bool `json:"success"`
}

// DeviceStatus reports capture hardware availability.
type DeviceStatus struct {
	Available  bool   `json:"available"`
	Monitoring bool   `json:"monitoring"`
	Detail     string `json:"detail,omitempty"`
}

// ServerStatus aggregates daemon runtime information for API consumers.
type ServerStatus struct {
	Running         bool           `json:"running"`
	PID             int            `json:"pid"`
	UptimeSeconds   int64          `json:"uptimeSeconds"`
	DatabasePath    string         `json:"databasePath"`
	UploadsDir      string         `json:"uploadsDir"`
	LockFilePath    string         `json:"lockFilePath"`
	InterviewCounts map[string]int `json:"interviewCounts"`
	Device          DeviceStatus   `json:"device"`
}
