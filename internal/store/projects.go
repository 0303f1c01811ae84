package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"fieldnote/internal/research"
)

const projectColumns = "id, name, description, created_at"

// CreateProject inserts a new project and returns the stored record.
func (s *Store) CreateProject(ctx context.Context, project research.Project) (*research.Project, error) {
	if err := project.Validate(); err != nil {
		return nil, err
	}
	if project.ID == "" {
		project.ID = newID()
	}
	now := time.Now().UTC()

	if _, err := s.execWithRetry(
		ctx,
		`INSERT INTO projects (id, name, description, created_at) VALUES (?, ?, ?, ?)`,
		project.ID,
		project.Name,
		nullableString(project.Description),
		formatTime(now),
	); err != nil {
		return nil, fmt.Errorf("insert project: %w", err)
	}

	return s.GetProject(ctx, project.ID)
}

// GetProject fetches a project by id. Returns ErrNotFound when absent.
func (s *Store) GetProject(ctx context.Context, id string) (*research.Project, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = ?`, id)
	project, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}
	return project, nil
}

// ListProjects returns all projects newest-first with persona counts.
func (s *Store) ListProjects(ctx context.Context) ([]research.Project, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT p.id, p.name, p.description, p.created_at,
            (SELECT COUNT(1) FROM personas WHERE project_id = p.id)
        FROM projects p
        ORDER BY p.rowid DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var projects []research.Project
	for rows.Next() {
		var (
			project     research.Project
			description sql.NullString
			createdRaw  string
		)
		if err := rows.Scan(&project.ID, &project.Name, &description, &createdRaw, &project.PersonaCount); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		project.Description = description.String
		if created, err := parseTimeString(createdRaw); err == nil {
			project.CreatedAt = created
		}
		projects = append(projects, project)
	}
	return projects, rows.Err()
}

// DeleteProject removes a project and all descendants via foreign-key
// cascade. It returns the audio references of every descendant interview so
// the caller can remove the artifact files.
func (s *Store) DeleteProject(ctx context.Context, id string) ([]string, error) {
	refs, err := s.collectAudioRefs(
		ctx,
		`SELECT i.audio_ref FROM interviews i
            JOIN research_exercises e ON i.exercise_id = e.id
            JOIN personas pe ON e.persona_id = pe.id
        WHERE pe.project_id = ? AND i.audio_ref IS NOT NULL`,
		id,
	)
	if err != nil {
		return nil, err
	}

	res, err := s.execWithRetry(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("delete project: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("delete project rows affected: %w", err)
	}
	if affected == 0 {
		return nil, ErrNotFound
	}
	return refs, nil
}

func (s *Store) collectAudioRefs(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("collect audio refs: %w", err)
	}
	defer rows.Close()

	var refs []string
	for rows.Next() {
		var ref sql.NullString
		if err := rows.Scan(&ref); err != nil {
			return nil, fmt.Errorf("scan audio ref: %w", err)
		}
		if ref.Valid && ref.String != "" {
			refs = append(refs, ref.String)
		}
	}
	return refs, rows.Err()
}

func scanProject(row scanner) (*research.Project, error) {
	var (
		project     research.Project
		description sql.NullString
		createdRaw  string
	)
	if err := row.Scan(&project.ID, &project.Name, &description, &createdRaw); err != nil {
		return nil, err
	}
	project.Description = description.String
	if created, err := parseTimeString(createdRaw); err == nil {
		project.CreatedAt = created
	}
	return &project, nil
}
