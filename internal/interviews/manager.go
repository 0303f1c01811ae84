package interviews

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"fieldnote/internal/artifacts"
	"fieldnote/internal/capture"
	"fieldnote/internal/logging"
	"fieldnote/internal/research"
	"fieldnote/internal/store"
)

// Detail is the full view of one interview.
type Detail struct {
	Interview   research.Interview
	Annotations []research.Annotation
	Transcript  *research.Transcript
	Analyses    []research.Analysis
}

// Manager persists capture bundles and mutates interviews afterwards. It
// satisfies capture.Persister so a live session can save straight through it.
type Manager struct {
	store     *store.Store
	artifacts *artifacts.Store
	logger    *slog.Logger
}

// NewManager wires the lifecycle manager to its storage backends.
func NewManager(st *store.Store, art *artifacts.Store, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Manager{
		store:     st,
		artifacts: art,
		logger:    logging.NewComponentLogger(logger, "lifecycle"),
	}
}

// SaveInterview stores a completed capture bundle. Audio, when present, is
// written to the artifact store first; a failed interview insert removes the
// orphaned file. Annotations are inserted best-effort: the interview row
// survives an annotation failure.
func (m *Manager) SaveInterview(ctx context.Context, bundle capture.Bundle) (*research.Interview, error) {
	title := strings.TrimSpace(bundle.Title)
	if title == "" {
		return nil, capture.Wrap(capture.ErrValidation, "lifecycle", "save", "title is required", nil)
	}
	if strings.TrimSpace(bundle.PersonaID) == "" || strings.TrimSpace(bundle.ExerciseID) == "" {
		return nil, capture.Wrap(capture.ErrValidation, "lifecycle", "save", "persona and exercise are required", nil)
	}

	var audioRef string
	if len(bundle.Audio) > 0 {
		ref, err := m.artifacts.Save(bundle.AudioName, bundle.Audio)
		if err != nil {
			return nil, capture.Wrap(capture.ErrSaveFailed, "lifecycle", "save", "store audio artifact", err)
		}
		audioRef = ref
	}

	interview, err := m.store.CreateInterview(ctx, research.Interview{
		ExerciseID: bundle.ExerciseID,
		PersonaID:  bundle.PersonaID,
		Title:      title,
		Status:     research.StatusRecorded,
		AudioRef:   audioRef,
	})
	if err != nil {
		if audioRef != "" {
			if rmErr := m.artifacts.Remove(audioRef); rmErr != nil {
				m.logger.Warn("orphaned audio artifact left behind",
					logging.String("ref", audioRef), logging.Error(rmErr))
			}
		}
		return nil, capture.Wrap(capture.ErrSaveFailed, "lifecycle", "save", "insert interview", err)
	}

	if len(bundle.Annotations) > 0 {
		notes := make([]research.Annotation, 0, len(bundle.Annotations))
		for _, a := range bundle.Annotations {
			notes = append(notes, research.Annotation{
				InterviewID: interview.ID,
				Timestamp:   a.Timestamp.Seconds(),
				Content:     a.Content,
			})
		}
		if err := m.store.InsertAnnotations(ctx, interview.ID, notes); err != nil {
			m.logger.Error("annotations lost, interview kept",
				logging.String(logging.FieldInterview, interview.ID), logging.Error(err))
		} else {
			interview.AnnotationCount = len(notes)
		}
	}

	m.logger.Info("interview saved",
		logging.String(logging.FieldInterview, interview.ID),
		logging.String("title", interview.Title),
		logging.Int("annotations", interview.AnnotationCount),
		logging.Bool("audio", audioRef != ""))
	return interview, nil
}

// Advance moves an interview to a later lifecycle status. Backward moves are
// rejected; re-asserting the current status is a no-op.
func (m *Manager) Advance(ctx context.Context, id string, to research.Status) (*research.Interview, error) {
	if !to.Valid() {
		return nil, capture.Wrap(capture.ErrValidation, "lifecycle", "advance", "unknown status "+string(to), nil)
	}
	current, err := m.store.GetInterview(ctx, id)
	if err != nil {
		return nil, err
	}
	if !current.Status.CanAdvance(to) {
		return nil, capture.Wrap(capture.ErrInvalidState, "lifecycle", "advance",
			"cannot move from "+string(current.Status)+" to "+string(to), nil)
	}
	if current.Status == to {
		return current, nil
	}
	if err := m.store.UpdateInterviewStatus(ctx, id, to); err != nil {
		return nil, err
	}
	current.Status = to
	m.logger.Info("interview advanced",
		logging.String(logging.FieldInterview, id),
		logging.String(logging.FieldStatus, string(to)))
	return current, nil
}

// AttachTranscript stores the transcript for an interview, replacing any
// previous one. Status stays in the caller's hands.
func (m *Manager) AttachTranscript(ctx context.Context, interviewID, content string) (*research.Transcript, error) {
	if strings.TrimSpace(content) == "" {
		return nil, capture.Wrap(capture.ErrValidation, "lifecycle", "attach transcript", "content is required", nil)
	}
	if _, err := m.store.GetInterview(ctx, interviewID); err != nil {
		return nil, err
	}
	return m.store.SetTranscript(ctx, interviewID, content)
}

// AttachAnalysis appends an agent-produced analysis payload.
func (m *Manager) AttachAnalysis(ctx context.Context, interviewID, agentName, content string) (*research.Analysis, error) {
	if strings.TrimSpace(agentName) == "" {
		return nil, capture.Wrap(capture.ErrValidation, "lifecycle", "attach analysis", "agent name is required", nil)
	}
	if strings.TrimSpace(content) == "" {
		return nil, capture.Wrap(capture.ErrValidation, "lifecycle", "attach analysis", "content is required", nil)
	}
	if _, err := m.store.GetInterview(ctx, interviewID); err != nil {
		return nil, err
	}
	return m.store.AddAnalysis(ctx, research.Analysis{
		InterviewID: interviewID,
		AgentName:   agentName,
		Content:     content,
		CreatedAt:   time.Now().UTC(),
	})
}

// Get assembles the detail view: interview, annotations in chronological
// order, transcript when present, analyses newest-first.
func (m *Manager) Get(ctx context.Context, id string) (*Detail, error) {
	interview, err := m.store.GetInterview(ctx, id)
	if err != nil {
		return nil, err
	}
	annotations, err := m.store.ListAnnotations(ctx, id)
	if err != nil {
		return nil, err
	}
	transcript, err := m.store.GetTranscript(ctx, id)
	if err != nil {
		return nil, err
	}
	analyses, err := m.store.ListAnalyses(ctx, id)
	if err != nil {
		return nil, err
	}
	interview.AnnotationCount = len(annotations)
	return &Detail{
		Interview:   *interview,
		Annotations: annotations,
		Transcript:  transcript,
		Analyses:    analyses,
	}, nil
}
