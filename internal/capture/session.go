package capture

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"fieldnote/internal/logging"
	"fieldnote/internal/research"
)

// State identifies the lifecycle phase of a Session.
type State string

const (
	StateEmpty           State = "empty"
	StateRecording       State = "recording"
	StateRecordingPaused State = "recording_paused"
	StateCaptured        State = "captured"
	StateSaving          State = "saving"
	StateSaved           State = "saved"
)

// Bundle is the immutable unit of capture handed to the Persister. Audio may
// be nil when nothing was recorded; annotation-only bundles are valid.
type Bundle struct {
	PersonaID   string
	ExerciseID  string
	Title       string
	Duration    time.Duration
	Audio       []byte
	AudioName   string
	Annotations []Annotation
}

// Persister stores a completed bundle and returns the resulting interview.
type Persister interface {
	SaveInterview(ctx context.Context, bundle Bundle) (*research.Interview, error)
}

// SessionOptions configures a Session. Device and Persister are required for
// recording and saving respectively.
type SessionOptions struct {
	Device     Device
	Persister  Persister
	PersonaID  string
	ExerciseID string
	Title      string
	// AudioName is the client-side filename attached to saved audio.
	AudioName string
	// MaxNoteLength caps annotation content; zero means unlimited.
	MaxNoteLength int
	// Now overrides the wall clock for the session timer.
	Now func() time.Time
	// TickInterval and OnTick drive UI refresh while recording.
	TickInterval time.Duration
	OnTick       func(time.Duration)
	// OnChunk observes every audio chunk as it is captured.
	OnChunk func(chunk []byte)
	Logger  *slog.Logger
}

// Session coordinates a Clock, an Engine, and an AnnotationLog through the
// recording lifecycle. Transitions that touch more than one component either
// fully succeed or roll the components back, so the pair never disagrees
// about whether recording is active.
type Session struct {
	mu     sync.Mutex
	state  State
	opts   SessionOptions
	logger *slog.Logger

	clock  *Clock
	engine *Engine
	log    *AnnotationLog

	title    string
	duration time.Duration
	artifact []byte
	saved    *research.Interview
}

// NewSession returns an empty session.
func NewSession(opts SessionOptions) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Session{
		state:  StateEmpty,
		opts:   opts,
		logger: logging.NewComponentLogger(logger, "session"),
		log:    NewAnnotationLog(opts.MaxNoteLength),
		title:  strings.TrimSpace(opts.Title),
	}
}

// State reports the current phase.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Start begins recording. Only legal while empty; a failed device
// acquisition leaves the session empty with the clock rolled back.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateEmpty {
		return Wrap(ErrInvalidState, "session", "start", "session is not empty", nil)
	}
	return s.beginRecording(ctx)
}

// StartAgain discards the captured artifact and restarts recording from a
// zero clock. Annotations survive. Only legal after a capture; a failed
// restart keeps the previous artifact and the captured state.
func (s *Session) StartAgain(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateCaptured {
		return Wrap(ErrInvalidState, "session", "start again", "nothing captured", nil)
	}
	prevClock, prevEngine := s.clock, s.engine
	prevDuration, prevArtifact := s.duration, s.artifact
	if err := s.beginRecording(ctx); err != nil {
		s.clock, s.engine = prevClock, prevEngine
		s.duration, s.artifact = prevDuration, prevArtifact
		s.state = StateCaptured
		return err
	}
	s.logger.Info("discarded previous take", logging.Int("annotations_kept", s.log.Len()))
	return nil
}

// beginRecording swaps in fresh clock/engine instances and starts both.
// Callers hold the mutex and have already checked state.
func (s *Session) beginRecording(ctx context.Context) error {
	clock := NewClock(WithNow(s.nowFunc()), WithTick(s.opts.TickInterval, s.opts.OnTick))
	engine := NewEngine(s.opts.Device, s.opts.OnChunk)
	if err := clock.Start(); err != nil {
		return err
	}
	if err := engine.Start(ctx); err != nil {
		clock.Stop()
		return err
	}
	s.clock = clock
	s.engine = engine
	s.duration = 0
	s.artifact = nil
	s.state = StateRecording
	s.logger.Info("recording started")
	return nil
}

// Pause suspends the clock and the engine together. Pausing an already
// paused session is a no-op.
func (s *Session) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case StateRecordingPaused:
		return nil
	case StateRecording:
	default:
		return Wrap(ErrInvalidState, "session", "pause", "not recording", nil)
	}
	if err := s.clock.Pause(); err != nil {
		return err
	}
	if err := s.engine.Pause(); err != nil {
		// Keep the components in agreement.
		_ = s.clock.Resume()
		return err
	}
	s.state = StateRecordingPaused
	return nil
}

// Resume continues a paused recording. Resuming an active recording is a
// no-op.
func (s *Session) Resume() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case StateRecording:
		return nil
	case StateRecordingPaused:
	default:
		return Wrap(ErrInvalidState, "session", "resume", "not paused", nil)
	}
	if err := s.clock.Resume(); err != nil {
		return err
	}
	if err := s.engine.Resume(); err != nil {
		_ = s.clock.Pause()
		return err
	}
	s.state = StateRecording
	return nil
}

// Stop finalizes the capture. The clock freezes at the final duration and
// the engine yields the concatenated artifact. A device lost mid-capture
// still transitions to captured with whatever audio survived; the error is
// reported so the caller can surface it.
func (s *Session) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateRecording && s.state != StateRecordingPaused {
		return Wrap(ErrInvalidState, "session", "stop", "not recording", nil)
	}
	s.clock.Stop()
	s.duration = s.clock.Sample()
	artifact, err := s.engine.Stop()
	s.artifact = artifact
	s.state = StateCaptured
	s.logger.Info("recording stopped",
		logging.Duration("duration", s.duration),
		logging.Int("audio_bytes", len(artifact)))
	return err
}

// Annotate appends a note stamped at the current clock offset. Legal while
// empty (offset zero), recording, paused, or captured (offset equals the
// final duration).
func (s *Session) Annotate(content string) (Annotation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case StateEmpty, StateRecording, StateRecordingPaused, StateCaptured:
	default:
		return Annotation{}, Wrap(ErrInvalidState, "session", "annotate", "session is closed", nil)
	}
	return s.log.Add(s.offsetLocked(), content)
}

// RemoveAnnotation deletes a note by id; absent ids are ignored.
func (s *Session) RemoveAnnotation(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case StateEmpty, StateRecording, StateRecordingPaused, StateCaptured:
	default:
		return Wrap(ErrInvalidState, "session", "remove annotation", "session is closed", nil)
	}
	s.log.Remove(id)
	return nil
}

// Annotations returns the notes in insertion order.
func (s *Session) Annotations() []Annotation {
	return s.log.List()
}

// Duration reports the elapsed recording time, live while recording and
// frozen afterwards.
func (s *Session) Duration() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.offsetLocked()
}

// SetTitle updates the pending interview title.
func (s *Session) SetTitle(title string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.title = strings.TrimSpace(title)
}

// Save validates the pending bundle and hands it to the persister. Legal
// from captured, or from empty when at least one annotation exists. A failed
// save restores the prior state with the bundle intact so Save can be called
// again; a second Save while one is in flight is rejected.
func (s *Session) Save(ctx context.Context) (*research.Interview, error) {
	s.mu.Lock()
	prev := s.state
	switch prev {
	case StateCaptured:
	case StateEmpty:
		if s.log.Len() == 0 {
			s.mu.Unlock()
			return nil, Wrap(ErrInvalidState, "session", "save", "nothing to save", nil)
		}
	case StateSaving:
		s.mu.Unlock()
		return nil, Wrap(ErrInvalidState, "session", "save", "save already in flight", nil)
	default:
		s.mu.Unlock()
		return nil, Wrap(ErrInvalidState, "session", "save", "no completed capture", nil)
	}
	if s.title == "" {
		s.mu.Unlock()
		return nil, Wrap(ErrValidation, "session", "save", "title is required", nil)
	}
	if s.opts.Persister == nil {
		s.mu.Unlock()
		return nil, Wrap(ErrSaveFailed, "session", "save", "no persister configured", nil)
	}
	bundle := Bundle{
		PersonaID:   s.opts.PersonaID,
		ExerciseID:  s.opts.ExerciseID,
		Title:       s.title,
		Duration:    s.duration,
		Audio:       s.artifact,
		AudioName:   s.opts.AudioName,
		Annotations: s.log.List(),
	}
	s.state = StateSaving
	s.mu.Unlock()

	saved, err := s.opts.Persister.SaveInterview(ctx, bundle)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.state = prev
		s.logger.Error("save failed", logging.Error(err))
		return nil, Wrap(ErrSaveFailed, "session", "save", "persist interview", err)
	}
	s.state = StateSaved
	s.saved = saved
	if saved != nil {
		s.logger.Info("interview saved", logging.String(logging.FieldInterview, saved.ID))
	}
	return saved, nil
}

// Result returns the interview produced by a successful save, or nil.
func (s *Session) Result() *research.Interview {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saved
}

func (s *Session) offsetLocked() time.Duration {
	if s.clock != nil {
		return s.clock.Sample()
	}
	return s.duration
}

func (s *Session) nowFunc() func() time.Time {
	if s.opts.Now != nil {
		return s.opts.Now
	}
	return time.Now
}
