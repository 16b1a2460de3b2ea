package webapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gradekit/gradekit/internal/models"
	"github.com/gradekit/gradekit/internal/providers"
)

// mockGrader implements Grader for testing.
type mockGrader struct {
	rec    *models.GradeRecord
	gotReq *models.GradingRequest
}

func (m *mockGrader) Evaluate(_ context.Context, req *models.GradingRequest, _ providers.ProgressFunc) *models.GradeRecord {
	m.gotReq = req
	if m.rec != nil {
		return m.rec
	}
	return models.NewGradeRecord()
}

// mockCatalog implements Catalog for testing.
type mockCatalog struct {
	names     []string
	snapshot  map[models.Provider][]string
	refreshed int
}

func (m *mockCatalog) Refresh(context.Context) { m.refreshed++ }

func (m *mockCatalog) Names() []string {
	if m.names == nil {
		return []string{}
	}
	return m.names
}

func (m *mockCatalog) Snapshot() map[models.Provider][]string { return m.snapshot }

// mockTags implements TagLister for testing.
type mockTags struct {
	raw json.RawMessage
	err error
}

func (m *mockTags) LocalTags(context.Context) (json.RawMessage, error) { return m.raw, m.err }

func newTestHandlers() (*Handlers, *mockGrader, *mockCatalog, *mockTags) {
	grader := &mockGrader{}
	catalog := &mockCatalog{
		names:    []string{"llama3.2", "gpt-4"},
		snapshot: map[models.Provider][]string{models.ProviderLocal: {"llama3.2"}},
	}
	tags := &mockTags{raw: json.RawMessage(`{"models":[{"name":"llama3.2"}]}`)}
	return NewHandlers(grader, catalog, tags), grader, catalog, tags
}

const gradeBody = `{
	"student_solution": "x = 4",
	"ideal_solution": "2x = 8 so x = 4",
	"grading_instructions": "Check the algebra.",
	"model": "gpt-4",
	"api_key": "sk-override"
}`

func TestHandleHealth(t *testing.T) {
	h, _, _, _ := newTestHandlers()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	h.HandleHealth(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp HealthResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Status != "healthy" {
		t.Errorf("expected status healthy, got %q", resp.Status)
	}
	if len(resp.Models) != 2 {
		t.Errorf("expected 2 models, got %v", resp.Models)
	}
}

func TestHandleGrade(t *testing.T) {
	h, grader, _, _ := newTestHandlers()
	grader.rec = &models.GradeRecord{
		Score:        17,
		Feedback:     "Strong answer",
		Improvements: []string{"Show more work"},
		Breakdown:    map[string]any{"question1": 17.0},
		RawOutput:    `{"score": 17}`,
	}

	req := httptest.NewRequest(http.MethodPost, "/api/grade", strings.NewReader(gradeBody))
	rec := httptest.NewRecorder()

	h.HandleGrade(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp GradeResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Status != "success" {
		t.Errorf("expected status success, got %q", resp.Status)
	}
	if resp.Message != "Grading completed successfully" {
		t.Errorf("unexpected message %q", resp.Message)
	}
	if resp.Data == nil || resp.Data.Score != 17 {
		t.Errorf("expected score 17 in data, got %+v", resp.Data)
	}

	if grader.gotReq == nil {
		t.Fatal("expected grader to receive the request")
	}
	if grader.gotReq.Model != "gpt-4" {
		t.Errorf("expected model gpt-4, got %q", grader.gotReq.Model)
	}
	if grader.gotReq.APIKey != "sk-override" {
		t.Errorf("expected api key to pass through, got %q", grader.gotReq.APIKey)
	}
}

func TestHandleGradeMissingField(t *testing.T) {
	h, grader, _, _ := newTestHandlers()

	body := `{"ideal_solution": "i", "grading_instructions": "g"}`
	req := httptest.NewRequest(http.MethodPost, "/api/grade", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.HandleGrade(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	var errResp ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&errResp); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(errResp.Error, "student_solution") {
		t.Errorf("expected error naming the missing field, got %q", errResp.Error)
	}
	if grader.gotReq != nil {
		t.Error("invalid request must not reach the grader")
	}
}

func TestHandleGradeMalformedBody(t *testing.T) {
	h, grader, _, _ := newTestHandlers()

	req := httptest.NewRequest(http.MethodPost, "/api/grade", strings.NewReader(`{"student_solution": `))
	rec := httptest.NewRecorder()

	h.HandleGrade(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if grader.gotReq != nil {
		t.Error("malformed request must not reach the grader")
	}
}

func TestHandleModels(t *testing.T) {
	h, _, _, tags := newTestHandlers()

	req := httptest.NewRequest(http.MethodGet, "/api/models", nil)
	rec := httptest.NewRecorder()

	h.HandleModels(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected application/json, got %q", ct)
	}
	if rec.Body.String() != string(tags.raw) {
		t.Errorf("expected verbatim passthrough, got %s", rec.Body.String())
	}
}

func TestHandleModelsError(t *testing.T) {
	h, _, _, tags := newTestHandlers()
	tags.raw = nil
	tags.err = errors.New("connection refused")

	req := httptest.NewRequest(http.MethodGet, "/api/models", nil)
	rec := httptest.NewRecorder()

	h.HandleModels(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}

	var errResp ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&errResp); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(errResp.Error, "Failed to fetch models") {
		t.Errorf("unexpected error %q", errResp.Error)
	}
}

func TestHandleModelsRefresh(t *testing.T) {
	h, _, catalog, _ := newTestHandlers()

	req := httptest.NewRequest(http.MethodPost, "/api/models/refresh", nil)
	rec := httptest.NewRecorder()

	h.HandleModelsRefresh(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if catalog.refreshed != 1 {
		t.Errorf("expected one refresh, got %d", catalog.refreshed)
	}

	var resp RefreshResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Status != "success" {
		t.Errorf("expected status success, got %q", resp.Status)
	}
	if len(resp.Models[models.ProviderLocal]) != 1 {
		t.Errorf("expected snapshot in response, got %+v", resp.Models)
	}
}

func TestRegisterRoutes(t *testing.T) {
	grader := &mockGrader{}
	catalog := &mockCatalog{}
	tags := &mockTags{raw: json.RawMessage(`{}`)}

	mux := http.NewServeMux()
	RegisterRoutes(mux, grader, catalog, tags)

	t.Run("health", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
	})

	t.Run("grade", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/grade", strings.NewReader(gradeBody)))
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("grade rejects GET", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/grade", nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Fatalf("expected 405, got %d", rec.Code)
		}
	})
}

func TestCORSMiddleware(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("wildcard", func(t *testing.T) {
		h := CORSMiddleware(inner, "*")
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("Origin", "http://studio.example.edu")
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, req)

		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
			t.Errorf("expected wildcard origin, got %q", got)
		}
	})

	t.Run("allowed origin echoed", func(t *testing.T) {
		h := CORSMiddleware(inner, "http://studio.example.edu")
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("Origin", "http://studio.example.edu")
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, req)

		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://studio.example.edu" {
			t.Errorf("expected origin echoed, got %q", got)
		}
	})

	t.Run("disallowed origin", func(t *testing.T) {
		h := CORSMiddleware(inner, "http://studio.example.edu")
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("Origin", "http://evil.example.com")
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, req)

		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
			t.Errorf("expected no CORS header, got %q", got)
		}
	})

	t.Run("preflight", func(t *testing.T) {
		h := CORSMiddleware(inner, "*")
		req := httptest.NewRequest(http.MethodOptions, "/api/grade", nil)
		req.Header.Set("Origin", "http://studio.example.edu")
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, req)

		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", rec.Code)
		}
	})
}
