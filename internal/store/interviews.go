package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"fieldnote/internal/research"
)

const interviewColumns = "id, exercise_id, persona_id, title, status, audio_ref, created_at"

// CreateInterview inserts a new interview row.
func (s *Store) CreateInterview(ctx context.Context, interview research.Interview) (*research.Interview, error) {
	if err := interview.Validate(); err != nil {
		return nil, err
	}
	if interview.ID == "" {
		interview.ID = newID()
	}

	if _, err := s.execWithRetry(
		ctx,
		`INSERT INTO interviews (id, exercise_id, persona_id, title, status, audio_ref, created_at)
            VALUES (?, ?, ?, ?, ?, ?, ?)`,
		interview.ID,
		interview.ExerciseID,
		interview.PersonaID,
		interview.Title,
		string(interview.Status),
		nullableString(interview.AudioRef),
		formatTime(time.Now().UTC()),
	); err != nil {
		return nil, fmt.Errorf("insert interview: %w", err)
	}

	return s.GetInterview(ctx, interview.ID)
}

// GetInterview fetches an interview by id. Returns ErrNotFound when absent.
func (s *Store) GetInterview(ctx context.Context, id string) (*research.Interview, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+interviewColumns+` FROM interviews WHERE id = ?`, id)
	interview, err := scanInterview(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get interview: %w", err)
	}
	return interview, nil
}

// ListInterviews returns the interviews of one exercise newest-first with
// annotation counts.
func (s *Store) ListInterviews(ctx context.Context, exerciseID string) ([]research.Interview, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT i.id, i.exercise_id, i.persona_id, i.title, i.status, i.audio_ref, i.created_at,
            (SELECT COUNT(1) FROM annotations WHERE interview_id = i.id)
        FROM interviews i
        WHERE i.exercise_id = ?
        ORDER BY i.rowid DESC`,
		exerciseID,
	)
	if err != nil {
		return nil, fmt.Errorf("list interviews: %w", err)
	}
	defer rows.Close()

	var interviews []research.Interview
	for rows.Next() {
		var (
			interview  research.Interview
			statusStr  string
			audioRef   sql.NullString
			createdRaw string
		)
		if err := rows.Scan(
			&interview.ID,
			&interview.ExerciseID,
			&interview.PersonaID,
			&interview.Title,
			&statusStr,
			&audioRef,
			&createdRaw,
			&interview.AnnotationCount,
		); err != nil {
			return nil, fmt.Errorf("scan interview: %w", err)
		}
		interview.Status = research.Status(statusStr)
		interview.AudioRef = audioRef.String
		if created, err := parseTimeString(createdRaw); err == nil {
			interview.CreatedAt = created
		}
		interviews = append(interviews, interview)
	}
	return interviews, rows.Err()
}

// UpdateInterviewStatus persists a status value for an interview. The caller
// is responsible for transition legality; the store only rejects values
// outside the enumeration.
func (s *Store) UpdateInterviewStatus(ctx context.Context, id string, status research.Status) error {
	if !status.Valid() {
		return fmt.Errorf("status %q is not a known value", status)
	}
	res, err := s.execWithRetry(ctx, `UPDATE interviews SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return fmt.Errorf("update interview status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update status rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteInterview removes an interview and its annotations, transcript, and
// analyses, returning the audio reference for artifact cleanup.
func (s *Store) DeleteInterview(ctx context.Context, id string) ([]string, error) {
	refs, err := s.collectAudioRefs(
		ctx,
		`SELECT audio_ref FROM interviews WHERE id = ? AND audio_ref IS NOT NULL`,
		id,
	)
	if err != nil {
		return nil, err
	}

	res, err := s.execWithRetry(ctx, `DELETE FROM interviews WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("delete interview: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("delete interview rows affected: %w", err)
	}
	if affected == 0 {
		return nil, ErrNotFound
	}
	return refs, nil
}

// InsertAnnotations persists annotations for an interview in the given
// order inside one transaction.
func (s *Store) InsertAnnotations(ctx context.Context, interviewID string, annotations []research.Annotation) error {
	if len(annotations) == 0 {
		return nil
	}
	for _, annotation := range annotations {
		if err := annotation.Validate(); err != nil {
			return err
		}
	}

	ctx = ensureContext(ctx)
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin annotations tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, annotation := range annotations {
		id := annotation.ID
		if id == "" {
			id = newID()
		}
		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO annotations (id, interview_id, timestamp, content) VALUES (?, ?, ?, ?)`,
			id,
			interviewID,
			annotation.Timestamp,
			annotation.Content,
		); err != nil {
			return fmt.Errorf("insert annotation: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit annotations: %w", err)
	}
	return nil
}

// ListAnnotations returns an interview's annotations ordered by ascending
// timestamp; equal timestamps keep insertion order.
func (s *Store) ListAnnotations(ctx context.Context, interviewID string) ([]research.Annotation, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, interview_id, timestamp, content FROM annotations
        WHERE interview_id = ? ORDER BY timestamp ASC, rowid ASC`,
		interviewID,
	)
	if err != nil {
		return nil, fmt.Errorf("list annotations: %w", err)
	}
	defer rows.Close()

	var annotations []research.Annotation
	for rows.Next() {
		var annotation research.Annotation
		if err := rows.Scan(&annotation.ID, &annotation.InterviewID, &annotation.Timestamp, &annotation.Content); err != nil {
			return nil, fmt.Errorf("scan annotation: %w", err)
		}
		annotations = append(annotations, annotation)
	}
	return annotations, rows.Err()
}

// SetTranscript stores the transcript for an interview, replacing any
// existing one. At most one transcript exists per interview.
func (s *Store) SetTranscript(ctx context.Context, interviewID, content string) (*research.Transcript, error) {
	if content == "" {
		return nil, errors.New("transcript content is required")
	}
	if _, err := s.GetInterview(ctx, interviewID); err != nil {
		return nil, err
	}

	id := newID()
	if _, err := s.execWithRetry(
		ctx,
		`INSERT INTO transcripts (id, interview_id, content) VALUES (?, ?, ?)
            ON CONFLICT(interview_id) DO UPDATE SET content = excluded.content`,
		id,
		interviewID,
		content,
	); err != nil {
		return nil, fmt.Errorf("set transcript: %w", err)
	}

	return s.GetTranscript(ctx, interviewID)
}

// GetTranscript returns the transcript for an interview, or nil when none
// has been attached yet.
func (s *Store) GetTranscript(ctx context.Context, interviewID string) (*research.Transcript, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT id, interview_id, content FROM transcripts WHERE interview_id = ?`,
		interviewID,
	)
	var transcript research.Transcript
	err := row.Scan(&transcript.ID, &transcript.InterviewID, &transcript.Content)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get transcript: %w", err)
	}
	return &transcript, nil
}

// AddAnalysis stores an AI analysis payload for an interview.
func (s *Store) AddAnalysis(ctx context.Context, analysis research.Analysis) (*research.Analysis, error) {
	if analysis.InterviewID == "" {
		return nil, errors.New("analysis interview id is required")
	}
	if analysis.AgentName == "" {
		return nil, errors.New("analysis agent name is required")
	}
	if analysis.Content == "" {
		return nil, errors.New("analysis content is required")
	}
	if _, err := s.GetInterview(ctx, analysis.InterviewID); err != nil {
		return nil, err
	}
	if analysis.ID == "" {
		analysis.ID = newID()
	}
	analysis.CreatedAt = time.Now().UTC()

	if _, err := s.execWithRetry(
		ctx,
		`INSERT INTO analyses (id, interview_id, agent_name, content, created_at) VALUES (?, ?, ?, ?, ?)`,
		analysis.ID,
		analysis.InterviewID,
		analysis.AgentName,
		analysis.Content,
		formatTime(analysis.CreatedAt),
	); err != nil {
		return nil, fmt.Errorf("insert analysis: %w", err)
	}
	return &analysis, nil
}

// ListAnalyses returns an interview's analyses most-recent-first.
func (s *Store) ListAnalyses(ctx context.Context, interviewID string) ([]research.Analysis, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, interview_id, agent_name, content, created_at FROM analyses
        WHERE interview_id = ? ORDER BY created_at DESC, rowid DESC`,
		interviewID,
	)
	if err != nil {
		return nil, fmt.Errorf("list analyses: %w", err)
	}
	defer rows.Close()

	var analyses []research.Analysis
	for rows.Next() {
		var (
			analysis   research.Analysis
			createdRaw string
		)
		if err := rows.Scan(&analysis.ID, &analysis.InterviewID, &analysis.AgentName, &analysis.Content, &createdRaw); err != nil {
			return nil, fmt.Errorf("scan analysis: %w", err)
		}
		if created, err := parseTimeString(createdRaw); err == nil {
			analysis.CreatedAt = created
		}
		analyses = append(analyses, analysis)
	}
	return analyses, rows.Err()
}

// CountInterviewsByStatus tallies interviews across the whole database,
// keyed by lifecycle status.
func (s *Store) CountInterviewsByStatus(ctx context.Context) (map[research.Status]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM interviews GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count interviews: %w", err)
	}
	defer rows.Close()

	counts := make(map[research.Status]int)
	for rows.Next() {
		var (
			statusStr string
			count     int
		)
		if err := rows.Scan(&statusStr, &count); err != nil {
			return nil, fmt.Errorf("scan interview count: %w", err)
		}
		counts[research.Status(statusStr)] = count
	}
	return counts, rows.Err()
}

func scanInterview(row scanner) (*research.Interview, error) {
	var (
		interview  research.Interview
		statusStr  string
		audioRef   sql.NullString
		createdRaw string
	)
	if err := row.Scan(
		&interview.ID,
		&interview.ExerciseID,
		&interview.PersonaID,
		&interview.Title,
		&statusStr,
		&audioRef,
		&createdRaw,
	); err != nil {
		return nil, err
	}
	interview.Status = research.Status(statusStr)
	interview.AudioRef = audioRef.String
	if created, err := parseTimeString(createdRaw); err == nil {
		interview.CreatedAt = created
	}
	return &interview, nil
}
