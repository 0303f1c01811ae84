package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"fieldnote/internal/research"
)

const exerciseColumns = "id, persona_id, name, type, description, created_at"

// CreateExercise inserts a new research exercise under an existing persona.
func (s *Store) CreateExercise(ctx context.Context, exercise research.ResearchExercise) (*research.ResearchExercise, error) {
	if err := exercise.Validate(); err != nil {
		return nil, err
	}
	if exercise.ID == "" {
		exercise.ID = newID()
	}

	if _, err := s.execWithRetry(
		ctx,
		`INSERT INTO research_exercises (id, persona_id, name, type, description, created_at)
            VALUES (?, ?, ?, ?, ?, ?)`,
		exercise.ID,
		exercise.PersonaID,
		exercise.Name,
		string(exercise.Type),
		nullableString(exercise.Description),
		formatTime(time.Now().UTC()),
	); err != nil {
		return nil, fmt.Errorf("insert exercise: %w", err)
	}

	return s.GetExercise(ctx, exercise.ID)
}

// GetExercise fetches an exercise by id. Returns ErrNotFound when absent.
func (s *Store) GetExercise(ctx context.Context, id string) (*research.ResearchExercise, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+exerciseColumns+` FROM research_exercises WHERE id = ?`, id)
	exercise, err := scanExercise(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get exercise: %w", err)
	}
	return exercise, nil
}

// ListExercises returns the exercises of one persona with interview counts.
func (s *Store) ListExercises(ctx context.Context, personaID string) ([]research.ResearchExercise, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT e.id, e.persona_id, e.name, e.type, e.description, e.created_at,
            (SELECT COUNT(1) FROM interviews WHERE exercise_id = e.id)
        FROM research_exercises e
        WHERE e.persona_id = ?
        ORDER BY e.rowid ASC`,
		personaID,
	)
	if err != nil {
		return nil, fmt.Errorf("list exercises: %w", err)
	}
	defer rows.Close()

	var exercises []research.ResearchExercise
	for rows.Next() {
		var (
			exercise    research.ResearchExercise
			typeStr     string
			description sql.NullString
			createdRaw  string
		)
		if err := rows.Scan(
			&exercise.ID,
			&exercise.PersonaID,
			&exercise.Name,
			&typeStr,
			&description,
			&createdRaw,
			&exercise.InterviewCount,
		); err != nil {
			return nil, fmt.Errorf("scan exercise: %w", err)
		}
		exercise.Type = research.ExerciseType(typeStr)
		exercise.Description = description.String
		if created, err := parseTimeString(createdRaw); err == nil {
			exercise.CreatedAt = created
		}
		exercises = append(exercises, exercise)
	}
	return exercises, rows.Err()
}

// DeleteExercise removes an exercise and all descendants, returning
// descendant audio references for artifact cleanup.
func (s *Store) DeleteExercise(ctx context.Context, id string) ([]string, error) {
	refs, err := s.collectAudioRefs(
		ctx,
		`SELECT audio_ref FROM interviews WHERE exercise_id = ? AND audio_ref IS NOT NULL`,
		id,
	)
	if err != nil {
		return nil, err
	}

	res, err := s.execWithRetry(ctx, `DELETE FROM research_exercises WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("delete exercise: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("delete exercise rows affected: %w", err)
	}
	if affected == 0 {
		return nil, ErrNotFound
	}
	return refs, nil
}

func scanExercise(row scanner) (*research.ResearchExercise, error) {
	var (
		exercise    research.ResearchExercise
		typeStr     string
		description sql.NullString
		createdRaw  string
	)
	if err := row.Scan(
		&exercise.ID,
		&exercise.PersonaID,
		&exercise.Name,
		&typeStr,
		&description,
		&createdRaw,
	); err != nil {
		return nil, err
	}
	exercise.Type = research.ExerciseType(typeStr)
	exercise.Description = description.String
	if created, err := parseTimeString(createdRaw); err == nil {
		exercise.CreatedAt = created
	}
	return &exercise, nil
}
