package webapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gradekit/gradekit/internal/models"
	"github.com/gradekit/gradekit/internal/providers"
	"github.com/gradekit/gradekit/internal/validation"
)

// Grader runs one grading request to completion. Failures surface as
// degraded records, never errors.
type Grader interface {
	Evaluate(ctx context.Context, req *models.GradingRequest, onProgress providers.ProgressFunc) *models.GradeRecord
}

// Catalog is the model registry surface the API needs.
type Catalog interface {
	Refresh(ctx context.Context)
	Names() []string
	Snapshot() map[models.Provider][]string
}

// TagLister returns the local inference server's tag listing verbatim.
type TagLister interface {
	LocalTags(ctx context.Context) (json.RawMessage, error)
}

// Handlers holds the HTTP handler methods for the grading API.
type Handlers struct {
	grader  Grader
	catalog Catalog
	tags    TagLister
}

// NewHandlers creates a new Handlers over the given collaborators.
func NewHandlers(grader Grader, catalog Catalog, tags TagLister) *Handlers {
	return &Handlers{grader: grader, catalog: catalog, tags: tags}
}

// HandleHealth reports liveness and the current model catalog.
func (h *Handlers) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status: "healthy",
		Models: h.catalog.Names(),
	})
}

// HandleGrade validates and grades one submission.
func (h *Handlers) HandleGrade(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("reading request body: %v", err))
		return
	}

	if errs := validation.ValidateGradeRequestBytes(body); len(errs) > 0 {
		writeError(w, http.StatusBadRequest, "invalid request: "+strings.Join(errs, "; "))
		return
	}

	var req models.GradingRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("decoding request: %v", err))
		return
	}

	rec := h.grader.Evaluate(r.Context(), &req, nil)
	writeJSON(w, http.StatusOK, GradeResponse{
		Status:  "success",
		Data:    rec,
		Message: "Grading completed successfully",
	})
}

// HandleModels proxies the local inference server's tag listing so
// browser clients avoid a cross-origin call to it.
func (h *Handlers) HandleModels(w http.ResponseWriter, r *http.Request) {
	raw, err := h.tags.LocalTags(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to fetch models: %v", err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(raw) //nolint:errcheck
}

// HandleModelsRefresh re-queries every provider and returns the new
// catalog grouped by provider.
func (h *Handlers) HandleModelsRefresh(w http.ResponseWriter, r *http.Request) {
	h.catalog.Refresh(r.Context())
	writeJSON(w, http.StatusOK, RefreshResponse{
		Status: "success",
		Models: h.catalog.Snapshot(),
	})
}

// RegisterRoutes registers all grading API routes on the given mux.
func RegisterRoutes(mux *http.ServeMux, grader Grader, catalog Catalog, tags TagLister) {
	h := NewHandlers(grader, catalog, tags)
	mux.HandleFunc("GET /health", h.HandleHealth)
	mux.HandleFunc("POST /api/grade", h.HandleGrade)
	mux.HandleFunc("GET /api/models", h.HandleModels)
	mux.HandleFunc("POST /api/models/refresh", h.HandleModelsRefresh)
}

// CORSMiddleware wraps a handler with CORS headers. An empty origin list
// sets no CORS header (same-origin only); "*" allows any origin.
func CORSMiddleware(next http.Handler, allowedOrigins ...string) http.Handler {
	allowAll := false
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		if o == "*" {
			allowAll = true
		}
		allowed[o] = true
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && (allowAll || allowed[origin]) {
			if allowAll {
				w.Header().Set("Access-Control-Allow-Origin", "*")
			} else {
				w.Header().Set("Access-Control-Allow-Origin", origin)
			}
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, ErrorResponse{Error: msg, Code: code})
}
