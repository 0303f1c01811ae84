package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"fieldnote/internal/api"
	"fieldnote/internal/capture"
	"fieldnote/internal/interviews"
	"fieldnote/internal/logging"
	"fieldnote/internal/research"
)

// maxUploadBytes caps the multipart interview submission, audio included.
const maxUploadBytes = 256 << 20

func (s *Server) handleInterviews(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		exerciseID := strings.TrimSpace(r.URL.Query().Get("exerciseId"))
		if exerciseID == "" {
			s.writeError(w, http.StatusBadRequest, "exerciseId query parameter is required")
			return
		}
		items, err := s.store.ListInterviews(r.Context(), exerciseID)
		if err != nil {
			s.writeTaxonomyError(w, err)
			return
		}
		s.writeJSON(w, http.StatusOK, api.FromInterviews(items))
	case http.MethodPost:
		s.handleInterviewSubmit(w, r)
	default:
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleInterviewSubmit accepts the multipart capture upload: personaId,
// exerciseId, title, an optional audio file part, and an optional annotations
// JSON array.
func (s *Server) handleInterviewSubmit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	bundle := capture.Bundle{
		PersonaID:  strings.TrimSpace(r.FormValue("personaId")),
		ExerciseID: strings.TrimSpace(r.FormValue("exerciseId")),
		Title:      r.FormValue("title"),
	}

	if file, header, err := r.FormFile("audio"); err == nil {
		data, readErr := io.ReadAll(file)
		file.Close()
		if readErr != nil {
			s.writeError(w, http.StatusBadRequest, "failed to read audio upload")
			return
		}
		bundle.Audio = data
		bundle.AudioName = header.Filename
	} else if err != http.ErrMissingFile {
		s.writeError(w, http.StatusBadRequest, "invalid audio upload")
		return
	}

	if raw := r.FormValue("annotations"); strings.TrimSpace(raw) != "" {
		var uploads []api.AnnotationUpload
		if err := json.Unmarshal([]byte(raw), &uploads); err != nil {
			s.writeError(w, http.StatusBadRequest, "annotations must be a JSON array")
			return
		}
		for _, upload := range uploads {
			bundle.Annotations = append(bundle.Annotations, capture.Annotation{
				Timestamp: time.Duration(upload.Timestamp * float64(time.Second)),
				Content:   upload.Content,
			})
		}
	}

	saved, err := s.manager.SaveInterview(r.Context(), bundle)
	if err != nil {
		s.writeTaxonomyError(w, err)
		return
	}
	s.logger.Info("interview submitted",
		logging.String(logging.FieldInterview, saved.ID),
		logging.Int("audio_bytes", len(bundle.Audio)))
	s.writeJSON(w, http.StatusCreated, api.FromInterview(*saved))
}

// handleInterviewSubpath routes /api/interviews/{id} and its nested
// resources: status, transcript, analyses.
func (s *Server) handleInterviewSubpath(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/interviews/")
	parts := strings.Split(rest, "/")
	if len(parts) == 0 || parts[0] == "" {
		s.writeError(w, http.StatusNotFound, "interview not found")
		return
	}
	id := parts[0]

	switch {
	case len(parts) == 1:
		switch r.Method {
		case http.MethodGet:
			detail, err := s.manager.Get(r.Context(), id)
			if err != nil {
				s.writeTaxonomyError(w, err)
				return
			}
			s.writeJSON(w, http.StatusOK, api.FromDetail(detail))
		case http.MethodDelete:
			s.handleDelete(w, r, interviews.KindInterview, id)
		default:
			s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
	case len(parts) == 2 && parts[1] == "status":
		s.handleInterviewStatus(w, r, id)
	case len(parts) == 2 && parts[1] == "transcript":
		s.handleInterviewTranscript(w, r, id)
	case len(parts) == 2 && parts[1] == "analyses":
		s.handleInterviewAnalyses(w, r, id)
	default:
		s.writeError(w, http.StatusNotFound, "not found")
	}
}

func (s *Server) handleInterviewStatus(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodPatch {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req api.UpdateStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	status, ok := research.ParseStatus(req.Status)
	if !ok {
		s.writeError(w, http.StatusBadRequest, "unknown status "+req.Status)
		return
	}
	advanced, err := s.manager.Advance(r.Context(), id, status)
	if err != nil {
		s.writeTaxonomyError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.FromInterview(*advanced))
}

func (s *Server) handleInterviewTranscript(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req api.AttachTranscriptRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	transcript, err := s.manager.AttachTranscript(r.Context(), id, req.Content)
	if err != nil {
		s.writeTaxonomyError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, api.FromTranscript(transcript))
}

func (s *Server) handleInterviewAnalyses(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req api.AttachAnalysisRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	analysis, err := s.manager.AttachAnalysis(r.Context(), id, req.AgentName, req.Content)
	if err != nil {
		s.writeTaxonomyError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, api.FromAnalysis(*analysis))
}

// handleUpload serves stored audio artifacts read-only.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	ref := strings.TrimPrefix(r.URL.Path, "/uploads/")
	path, err := s.artifacts.Path(ref)
	if err != nil {
		s.writeError(w, http.StatusNotFound, "artifact not found")
		return
	}
	http.ServeFile(w, r, path)
}
