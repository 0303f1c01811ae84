package server_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"fieldnote/internal/api"
	"fieldnote/internal/artifacts"
	"fieldnote/internal/research"
	"fieldnote/internal/server"
	"fieldnote/internal/store"
	"fieldnote/internal/testsupport"
)

type env struct {
	handler  http.Handler
	store    *store.Store
	persona  research.Persona
	exercise research.ResearchExercise
	project  research.Project
}

func newEnv(t *testing.T) *env {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	project, persona, exercise := testsupport.SeedHierarchy(t, st)
	art, err := artifacts.NewStore(cfg.Paths.UploadsDir, nil)
	if err != nil {
		t.Fatalf("artifact store: %v", err)
	}
	srv, err := server.New(cfg, st, art, nil)
	if err != nil {
		t.Fatalf("server.New: %v", err)
	}
	return &env{
		handler:  srv.Handler(),
		store:    st,
		project:  project,
		persona:  persona,
		exercise: exercise,
	}
}

func (e *env) do(t *testing.T, method, path string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func (e *env) doJSON(t *testing.T, method, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	return e.do(t, method, path, bytes.NewReader(data), "application/json")
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return out
}

func (e *env) submitInterview(t *testing.T, title string, audio []byte, annotations string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	_ = mw.WriteField("personaId", e.persona.ID)
	_ = mw.WriteField("exerciseId", e.exercise.ID)
	_ = mw.WriteField("title", title)
	if annotations != "" {
		_ = mw.WriteField("annotations", annotations)
	}
	if audio != nil {
		part, err := mw.CreateFormFile("audio", "session.webm")
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := part.Write(audio); err != nil {
			t.Fatalf("write audio part: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return e.do(t, http.MethodPost, "/api/interviews", &buf, mw.FormDataContentType())
}

func TestCreateAndListProjects(t *testing.T) {
	e := newEnv(t)

	rec := e.doJSON(t, http.MethodPost, "/api/projects", api.CreateProjectRequest{Name: "Mobile Onboarding"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create project: %d %s", rec.Code, rec.Body.String())
	}
	created := decodeBody[api.Project](t, rec)
	if created.ID == "" || created.Name != "Mobile Onboarding" {
		t.Fatalf("unexpected project: %+v", created)
	}

	rec = e.doJSON(t, http.MethodPost, "/api/projects", api.CreateProjectRequest{Name: "  "})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("blank name should 400, got %d", rec.Code)
	}

	rec = e.do(t, http.MethodGet, "/api/projects", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list projects: %d", rec.Code)
	}
	projects := decodeBody[[]api.Project](t, rec)
	if len(projects) != 2 {
		t.Fatalf("expected seed + new project, got %d", len(projects))
	}
	// Newest first.
	if projects[0].ID != created.ID {
		t.Fatalf("list not newest-first: %+v", projects)
	}
}

func TestInterviewSubmission(t *testing.T) {
	e := newEnv(t)

	annotations := `[{"timestamp":2.5,"content":"hesitated at signup"},{"timestamp":9,"content":"gave up on coupon"}]`
	rec := e.submitInterview(t, "Signup flow session", []byte("fake-webm-bytes"), annotations)
	if rec.Code != http.StatusCreated {
		t.Fatalf("submit: %d %s", rec.Code, rec.Body.String())
	}
	created := decodeBody[api.Interview](t, rec)
	if created.Status != "recorded" {
		t.Fatalf("status = %q, want recorded", created.Status)
	}
	if !strings.HasPrefix(created.AudioURL, "/uploads/") || !strings.HasSuffix(created.AudioURL, "-session.webm") {
		t.Fatalf("audio url = %q", created.AudioURL)
	}

	// Uploaded audio must be serveable.
	rec = e.do(t, http.MethodGet, created.AudioURL, nil, "")
	if rec.Code != http.StatusOK || rec.Body.String() != "fake-webm-bytes" {
		t.Fatalf("playback: %d %q", rec.Code, rec.Body.String())
	}

	rec = e.do(t, http.MethodGet, "/api/interviews/"+created.ID, nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("detail: %d", rec.Code)
	}
	detail := decodeBody[api.InterviewDetail](t, rec)
	if len(detail.Annotations) != 2 {
		t.Fatalf("expected 2 annotations, got %+v", detail.Annotations)
	}
	if detail.Annotations[0].Timestamp != 2.5 || detail.Annotations[1].Timestamp != 9 {
		t.Fatalf("annotations out of order: %+v", detail.Annotations)
	}
	if detail.Transcript != nil || len(detail.Analyses) != 0 {
		t.Fatal("fresh interview must have no transcript or analyses")
	}
}

func TestInterviewSubmissionValidation(t *testing.T) {
	e := newEnv(t)

	rec := e.submitInterview(t, "   ", nil, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("blank title: %d", rec.Code)
	}
	body := decodeBody[map[string]string](t, rec)
	if body["error"] == "" {
		t.Fatalf("error payload missing: %s", rec.Body.String())
	}

	// Annotation-only submissions are valid.
	rec = e.submitInterview(t, "Notes only", nil, `[{"timestamp":0,"content":"no audio consent"}]`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("annotation-only submit: %d %s", rec.Code, rec.Body.String())
	}
	created := decodeBody[api.Interview](t, rec)
	if created.AudioURL != "" {
		t.Fatalf("no audio was sent, got url %q", created.AudioURL)
	}
}

func TestInterviewStatusPatch(t *testing.T) {
	e := newEnv(t)
	rec := e.submitInterview(t, "Lifecycle", nil, `[{"timestamp":0,"content":"n"}]`)
	created := decodeBody[api.Interview](t, rec)

	rec = e.doJSON(t, http.MethodPatch, "/api/interviews/"+created.ID+"/status", api.UpdateStatusRequest{Status: "transcribing"})
	if rec.Code != http.StatusOK {
		t.Fatalf("advance: %d %s", rec.Code, rec.Body.String())
	}
	updated := decodeBody[api.Interview](t, rec)
	if updated.Status != "transcribing" {
		t.Fatalf("status = %q", updated.Status)
	}

	rec = e.doJSON(t, http.MethodPatch, "/api/interviews/"+created.ID+"/status", api.UpdateStatusRequest{Status: "draft"})
	if rec.Code != http.StatusConflict {
		t.Fatalf("backward move should 409, got %d", rec.Code)
	}
	rec = e.doJSON(t, http.MethodPatch, "/api/interviews/"+created.ID+"/status", api.UpdateStatusRequest{Status: "archived"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown status should 400, got %d", rec.Code)
	}
}

func TestTranscriptAndAnalysisCallbacks(t *testing.T) {
	e := newEnv(t)
	rec := e.submitInterview(t, "Transcribe", nil, `[{"timestamp":0,"content":"n"}]`)
	created := decodeBody[api.Interview](t, rec)

	rec = e.doJSON(t, http.MethodPost, "/api/interviews/"+created.ID+"/transcript", api.AttachTranscriptRequest{Content: "full text"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("transcript: %d %s", rec.Code, rec.Body.String())
	}
	rec = e.doJSON(t, http.MethodPost, "/api/interviews/"+created.ID+"/analyses", api.AttachAnalysisRequest{AgentName: "themes", Content: `{"themes":[]}`})
	if rec.Code != http.StatusCreated {
		t.Fatalf("analysis: %d %s", rec.Code, rec.Body.String())
	}

	rec = e.do(t, http.MethodGet, "/api/interviews/"+created.ID, nil, "")
	detail := decodeBody[api.InterviewDetail](t, rec)
	if detail.Transcript == nil || detail.Transcript.Content != "full text" {
		t.Fatalf("transcript missing: %+v", detail.Transcript)
	}
	if len(detail.Analyses) != 1 || detail.Analyses[0].AgentName != "themes" {
		t.Fatalf("analyses wrong: %+v", detail.Analyses)
	}
}

func TestCascadeDeleteEndpoint(t *testing.T) {
	e := newEnv(t)
	rec := e.submitInterview(t, "Doomed", []byte("bytes"), "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("submit: %d", rec.Code)
	}

	rec = e.do(t, http.MethodDelete, "/api/projects/"+e.project.ID, nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: %d %s", rec.Code, rec.Body.String())
	}
	resp := decodeBody[api.DeleteResponse](t, rec)
	if !resp.Success {
		t.Fatalf("expected success, got %s", rec.Body.String())
	}

	// A repeated delete is a failure, not a silent success.
	rec = e.do(t, http.MethodDelete, "/api/projects/"+e.project.ID, nil, "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("repeat delete should fail with 500, got %d", rec.Code)
	}
	body := decodeBody[map[string]string](t, rec)
	if !strings.HasPrefix(body["error"], "Failed to delete project:") {
		t.Fatalf("error message = %q", body["error"])
	}
}

func TestStatusEndpoint(t *testing.T) {
	e := newEnv(t)
	for i := 0; i < 2; i++ {
		rec := e.submitInterview(t, fmt.Sprintf("Session %d", i+1), nil, `[{"timestamp":0,"content":"n"}]`)
		if rec.Code != http.StatusCreated {
			t.Fatalf("submit: %d", rec.Code)
		}
	}

	rec := e.do(t, http.MethodGet, "/api/status", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: %d", rec.Code)
	}
	status := decodeBody[api.ServerStatus](t, rec)
	if !status.Running || status.PID == 0 {
		t.Fatalf("unexpected status: %+v", status)
	}
	if status.InterviewCounts["recorded"] != 2 {
		t.Fatalf("counts = %+v", status.InterviewCounts)
	}
}

func TestUploadsRejectEscapes(t *testing.T) {
	e := newEnv(t)
	rec := e.do(t, http.MethodGet, "/uploads/..%2fconfig.toml", nil, "")
	if rec.Code == http.StatusOK {
		t.Fatalf("path escape served: %d", rec.Code)
	}
}
