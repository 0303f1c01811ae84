package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"fieldnote/internal/api"
	"fieldnote/internal/interviews"
	"fieldnote/internal/research"
)

func (s *Server) handleProjects(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		projects, err := s.store.ListProjects(r.Context())
		if err != nil {
			s.writeTaxonomyError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, api.FromProjects(projects))
	case http.MethodPost:
		var req api.CreateProjectRequest
		if err := decodeJSON(r, &req); err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		project, err := s.store.CreateProject(r.Context(), research.Project{
			Name:        req.Name,
			Description: req.Description,
		})
		if err != nil {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.writeJSON(w, http.StatusCreated, api.FromProject(*project))
	default:
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleProjectByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "/api/projects/")
	if !ok {
		s.writeError(w, http.StatusNotFound, "project not found")
		return
	}
	switch r.Method {
	case http.MethodGet:
		project, err := s.store.GetProject(r.Context(), id)
		if err != nil {
			s.writeTaxonomyError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, api.FromProject(*project))
	case http.MethodDelete:
		s.handleDelete(w, r, interviews.KindProject, id)
	default:
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handlePersonas(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		projectID := strings.TrimSpace(r.URL.Query().Get("projectId"))
		if projectID == "" {
			s.writeError(w, http.StatusBadRequest, "projectId query parameter is required")
			return
		}
		personas, err := s.store.ListPersonas(r.Context(), projectID)
		if err != nil {
			s.writeTaxonomyError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, api.FromPersonas(personas))
	case http.MethodPost:
		var req api.CreatePersonaRequest
		if err := decodeJSON(r, &req); err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		persona, err := s.store.CreatePersona(r.Context(), research.Persona{
			ProjectID:       req.ProjectID,
			Name:            req.Name,
			Description:     req.Description,
			Characteristics: req.Characteristics,
		})
		if err != nil {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.writeJSON(w, http.StatusCreated, api.FromPersona(*persona))
	default:
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handlePersonaByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "/api/personas/")
	if !ok {
		s.writeError(w, http.StatusNotFound, "persona not found")
		return
	}
	switch r.Method {
	case http.MethodGet:
		persona, err := s.store.GetPersona(r.Context(), id)
		if err != nil {
			s.writeTaxonomyError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, api.FromPersona(*persona))
	case http.MethodDelete:
		s.handleDelete(w, r, interviews.KindPersona, id)
	default:
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleExercises(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		personaID := strings.TrimSpace(r.URL.Query().Get("personaId"))
		if personaID == "" {
			s.writeError(w, http.StatusBadRequest, "personaId query parameter is required")
			return
		}
		exercises, err := s.store.ListExercises(r.Context(), personaID)
		if err != nil {
			s.writeTaxonomyError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, api.FromExercises(exercises))
	case http.MethodPost:
		var req api.CreateExerciseRequest
		if err := decodeJSON(r, &req); err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		exerciseType, ok := research.ParseExerciseType(req.Type)
		if !ok {
			s.writeError(w, http.StatusBadRequest, "unknown exercise type "+req.Type)
			return
		}
		exercise, err := s.store.CreateExercise(r.Context(), research.ResearchExercise{
			PersonaID:   req.PersonaID,
			Name:        req.Name,
			Type:        exerciseType,
			Description: req.Description,
		})
		if err != nil {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.writeJSON(w, http.StatusCreated, api.FromExercise(*exercise))
	default:
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleExerciseByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "/api/exercises/")
	if !ok {
		s.writeError(w, http.StatusNotFound, "exercise not found")
		return
	}
	switch r.Method {
	case http.MethodGet:
		exercise, err := s.store.GetExercise(r.Context(), id)
		if err != nil {
			s.writeTaxonomyError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, api.FromExercise(*exercise))
	case http.MethodDelete:
		s.handleDelete(w, r, interviews.KindExercise, id)
	default:
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleDelete runs the cascade and reports the outcome in the shape clients
// expect: {"success":true} or {"error":"Failed to delete <kind>: <cause>"}.
// Every delete failure is a 500, a missing id included: a repeated delete is
// a failure, not a silent success.
func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request, kind interviews.Kind, id string) {
	if err := s.deleter.Delete(r.Context(), kind, id); err != nil {
		message := fmt.Sprintf("Failed to delete %s: %v", kind, err)
		var derr *interviews.DeleteError
		if errors.As(err, &derr) {
			message = fmt.Sprintf("Failed to delete %s: %v", derr.Kind, derr.Err)
		}
		s.writeError(w, http.StatusInternalServerError, message)
		return
	}
	s.writeJSON(w, http.StatusOK, api.DeleteResponse{Success: true})
}

// pathID extracts the trailing id segment from prefix-routed paths.
func pathID(r *http.Request, prefix string) (string, bool) {
	rest := strings.TrimPrefix(r.URL.Path, prefix)
	if rest == "" || strings.Contains(rest, "/") {
		return "", false
	}
	return rest, true
}
