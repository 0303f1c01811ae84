package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"fieldnote/internal/research"
)

const personaColumns = "id, project_id, name, description, characteristics, created_at"

// CreatePersona inserts a new persona under an existing project.
func (s *Store) CreatePersona(ctx context.Context, persona research.Persona) (*research.Persona, error) {
	if err := persona.Validate(); err != nil {
		return nil, err
	}
	if persona.ID == "" {
		persona.ID = newID()
	}

	if _, err := s.execWithRetry(
		ctx,
		`INSERT INTO personas (id, project_id, name, description, characteristics, created_at)
            VALUES (?, ?, ?, ?, ?, ?)`,
		persona.ID,
		persona.ProjectID,
		persona.Name,
		nullableString(persona.Description),
		nullableString(persona.Characteristics),
		formatTime(time.Now().UTC()),
	); err != nil {
		return nil, fmt.Errorf("insert persona: %w", err)
	}

	return s.GetPersona(ctx, persona.ID)
}

// GetPersona fetches a persona by id. Returns ErrNotFound when absent.
func (s *Store) GetPersona(ctx context.Context, id string) (*research.Persona, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+personaColumns+` FROM personas WHERE id = ?`, id)
	persona, err := scanPersona(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get persona: %w", err)
	}
	return persona, nil
}

// ListPersonas returns the personas of one project with exercise counts.
func (s *Store) ListPersonas(ctx context.Context, projectID string) ([]research.Persona, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT p.id, p.project_id, p.name, p.description, p.characteristics, p.created_at,
            (SELECT COUNT(1) FROM research_exercises WHERE persona_id = p.id)
        FROM personas p
        WHERE p.project_id = ?
        ORDER BY p.rowid ASC`,
		projectID,
	)
	if err != nil {
		return nil, fmt.Errorf("list personas: %w", err)
	}
	defer rows.Close()

	var personas []research.Persona
	for rows.Next() {
		var (
			persona         research.Persona
			description     sql.NullString
			characteristics sql.NullString
			createdRaw      string
		)
		if err := rows.Scan(
			&persona.ID,
			&persona.ProjectID,
			&persona.Name,
			&description,
			&characteristics,
			&createdRaw,
			&persona.ExerciseCount,
		); err != nil {
			return nil, fmt.Errorf("scan persona: %w", err)
		}
		persona.Description = description.String
		persona.Characteristics = characteristics.String
		if created, err := parseTimeString(createdRaw); err == nil {
			persona.CreatedAt = created
		}
		personas = append(personas, persona)
	}
	return personas, rows.Err()
}

// DeletePersona removes a persona and all descendants, returning descendant
// audio references for artifact cleanup.
func (s *Store) DeletePersona(ctx context.Context, id string) ([]string, error) {
	refs, err := s.collectAudioRefs(
		ctx,
		`SELECT i.audio_ref FROM interviews i
            JOIN research_exercises e ON i.exercise_id = e.id
        WHERE e.persona_id = ? AND i.audio_ref IS NOT NULL`,
		id,
	)
	if err != nil {
		return nil, err
	}

	res, err := s.execWithRetry(ctx, `DELETE FROM personas WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("delete persona: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("delete persona rows affected: %w", err)
	}
	if affected == 0 {
		return nil, ErrNotFound
	}
	return refs, nil
}

func scanPersona(row scanner) (*research.Persona, error) {
	var (
		persona         research.Persona
		description     sql.NullString
		characteristics sql.NullString
		createdRaw      string
	)
	if err := row.Scan(
		&persona.ID,
		&persona.ProjectID,
		&persona.Name,
		&description,
		&characteristics,
		&createdRaw,
	); err != nil {
		return nil, err
	}
	persona.Description = description.String
	persona.Characteristics = characteristics.String
	if created, err := parseTimeString(createdRaw); err == nil {
		persona.CreatedAt = created
	}
	return &persona, nil
}
