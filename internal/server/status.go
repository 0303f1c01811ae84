package server

import (
	"net/http"
	"os"
	"time"

	"fieldnote/internal/api"
)

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	counts, err := s.store.CountInterviewsByStatus(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	interviewCounts := make(map[string]int, len(counts))
	for status, count := range counts {
		interviewCounts[string(status)] = count
	}

	var uptime int64
	if !s.startedAt.IsZero() {
		uptime = int64(time.Since(s.startedAt) / time.Second)
	}

	payload := api.ServerStatus{
		Running:         true,
		PID:             os.Getpid(),
		UptimeSeconds:   uptime,
		DatabasePath:    s.store.Path(),
		UploadsDir:      s.artifacts.Dir(),
		LockFilePath:    s.lockPath,
		InterviewCounts: interviewCounts,
		Device:          s.monitor.Status(),
	}
	s.writeJSON(w, http.StatusOK, payload)
}
