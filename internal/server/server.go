package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"fieldnote/internal/artifacts"
	"fieldnote/internal/capture"
	"fieldnote/internal/config"
	"fieldnote/internal/interviews"
	"fieldnote/internal/logging"
	"fieldnote/internal/store"
)

// Server owns the HTTP listener and the services behind it.
type Server struct {
	cfg       *config.Config
	logger    *slog.Logger
	store     *store.Store
	artifacts *artifacts.Store
	manager   *interviews.Manager
	deleter   *interviews.Deleter

	lockPath string
	lock     *flock.Flock
	monitor  *soundMonitor

	listener  net.Listener
	server    *http.Server
	startedAt time.Time
}

// New wires the server to its backends. The lifecycle manager and cascade
// deleter are built here so every caller shares one of each.
func New(cfg *config.Config, st *store.Store, art *artifacts.Store, logger *slog.Logger) (*Server, error) {
	if cfg == nil || st == nil || art == nil {
		return nil, errors.New("server requires config, store, and artifact store")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	lockPath := filepath.Join(cfg.Paths.LogDir, "fieldnoted.lock")
	srv := &Server{
		cfg:       cfg,
		logger:    logging.NewComponentLogger(logger, "api-server"),
		store:     st,
		artifacts: art,
		manager:   interviews.NewManager(st, art, logger),
		deleter:   interviews.NewDeleter(st, art, logger),
		lockPath:  lockPath,
		lock:      flock.New(lockPath),
		monitor:   newSoundMonitor(logger),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/status", srv.handleStatus)
	mux.HandleFunc("/api/projects", srv.handleProjects)
	mux.HandleFunc("/api/projects/", srv.handleProjectByID)
	mux.HandleFunc("/api/personas", srv.handlePersonas)
	mux.HandleFunc("/api/personas/", srv.handlePersonaByID)
	mux.HandleFunc("/api/exercises", srv.handleExercises)
	mux.HandleFunc("/api/exercises/", srv.handleExerciseByID)
	mux.HandleFunc("/api/interviews", srv.handleInterviews)
	mux.HandleFunc("/api/interviews/", srv.handleInterviewSubpath)
	mux.HandleFunc("/uploads/", srv.handleUpload)

	srv.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv, nil
}

// Start acquires the instance lock and begins serving. The listener shuts
// down when ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	ok, err := s.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another fieldnote daemon instance is already running")
	}

	bind := strings.TrimSpace(s.cfg.Paths.APIBind)
	listener, err := net.Listen("tcp", bind)
	if err != nil {
		_ = s.lock.Unlock()
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener
	s.startedAt = time.Now()

	s.monitor.Start(ctx)

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server error", logging.Error(err))
		}
	}()
	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	s.logger.Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

// Stop drains in-flight requests and releases the instance lock.
func (s *Server) Stop() {
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
	if s.monitor != nil {
		s.monitor.Stop()
	}
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
	_ = s.lock.Unlock()
}

// Addr reports the bound listen address, empty before Start.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Handler exposes the route table for in-process tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", logging.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

// writeTaxonomyError maps domain errors to HTTP status codes.
func (s *Server) writeTaxonomyError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		s.writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, capture.ErrValidation):
		s.writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, capture.ErrInvalidState):
		s.writeError(w, http.StatusConflict, err.Error())
	default:
		s.writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func decodeJSON(r *http.Request, dst any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
