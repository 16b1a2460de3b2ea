package webserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gradekit/gradekit/internal/models"
	"github.com/gradekit/gradekit/internal/providers"
)

type stubGrader struct{}

func (stubGrader) Evaluate(_ context.Context, _ *models.GradingRequest, _ providers.ProgressFunc) *models.GradeRecord {
	rec := models.NewGradeRecord()
	rec.Score = 11
	rec.Feedback = "ok"
	return rec
}

type stubCatalog struct{}

func (stubCatalog) Refresh(context.Context) {}
func (stubCatalog) Names() []string         { return []string{"llama3.2"} }
func (stubCatalog) Snapshot() map[models.Provider][]string {
	return map[models.Provider][]string{models.ProviderLocal: {"llama3.2"}}
}

type stubTags struct{}

func (stubTags) LocalTags(context.Context) (json.RawMessage, error) {
	return json.RawMessage(`{"models":[]}`), nil
}

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	srv := New(Config{Port: 0}, stubGrader{}, stubCatalog{}, stubTags{})
	return srv.Handler()
}

func TestHealthEndpoint(t *testing.T) {
	handler := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]any
	err := json.Unmarshal(rec.Body.Bytes(), &body)
	require.NoError(t, err)
	assert.Equal(t, "healthy", body["status"])
	assert.Contains(t, body, "models")
}

func TestGradeEndpoint(t *testing.T) {
	handler := newTestServer(t)

	body := `{
		"student_solution": "x = 4",
		"ideal_solution": "2x = 8 so x = 4",
		"grading_instructions": "Check the algebra."
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/grade", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp["status"])

	data := resp["data"].(map[string]any)
	assert.Equal(t, 11.0, data["score"])
}

func TestCORSHeadersApplied(t *testing.T) {
	handler := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://studio.example.edu")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	// Default configuration allows any origin.
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestDefaultAddr(t *testing.T) {
	srv := New(Config{}, stubGrader{}, stubCatalog{}, stubTags{})
	assert.Equal(t, "127.0.0.1:8000", srv.Addr())
}
