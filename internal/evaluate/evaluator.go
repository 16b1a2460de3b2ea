// Package evaluate orchestrates a single grading run: model resolution,
// credential overrides, prompt assembly, provider dispatch, and parsing
// of whatever text comes back.
package evaluate

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gradekit/gradekit/internal/models"
	"github.com/gradekit/gradekit/internal/parse"
	"github.com/gradekit/gradekit/internal/providers"
	"github.com/gradekit/gradekit/internal/registry"
)

// DefaultModel is used when a request does not name a model.
const DefaultModel = "llama3.2"

// InvalidCredentialError reports a per-request API key that failed live
// validation against its provider.
type InvalidCredentialError struct {
	Provider models.Provider
}

func (e *InvalidCredentialError) Error() string {
	return fmt.Sprintf("invalid API key for %s", e.Provider)
}

// Evaluator grades submissions through a provider gateway.
type Evaluator struct {
	gw           providers.Gateway
	reg          *registry.Registry
	logger       *slog.Logger
	defaultModel string
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithLogger sets the evaluator logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Evaluator) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithDefaultModel overrides the model used for requests that leave the
// model field empty.
func WithDefaultModel(model string) Option {
	return func(e *Evaluator) {
		if model != "" {
			e.defaultModel = model
		}
	}
}

// New creates an Evaluator over the given gateway and model registry.
func New(gw providers.Gateway, reg *registry.Registry, opts ...Option) *Evaluator {
	e := &Evaluator{
		gw:           gw,
		reg:          reg,
		logger:       slog.Default(),
		defaultModel: DefaultModel,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate grades one submission. It never returns an error: every
// failure mode degrades to a failure-shaped record with a zero score,
// so callers always have a row to report.
//
// A request carrying an API key runs against a derived gateway scoped
// to this call; the evaluator's own credentials are never touched. The
// key is validated against the resolved provider first, and a key that
// fails validation aborts the run before any grading traffic is sent.
func (e *Evaluator) Evaluate(ctx context.Context, req *models.GradingRequest, onProgress providers.ProgressFunc) *models.GradeRecord {
	model := req.Model
	if model == "" {
		model = e.defaultModel
	}
	provider := e.reg.ResolveProvider(ctx, model)

	e.logger.Info("grading submission",
		"model", model,
		"provider", provider,
		"solution_length", len(req.StudentSolution))

	gw := e.gw
	if req.APIKey != "" {
		if err := gw.ValidateKey(ctx, provider, req.APIKey); err != nil {
			e.logger.Warn("rejected per-request credential", "provider", provider, "error", err)
			return models.NewSystemFailureRecord(&InvalidCredentialError{Provider: provider})
		}
		gw = gw.WithKey(provider, req.APIKey)
	}

	prompt := BuildPrompt(req, provider)

	raw, err := gw.Complete(ctx, provider, model, prompt, onProgress)
	if err != nil {
		e.logger.Error("provider call failed", "model", model, "provider", provider, "error", err)
		return models.NewAPIFailureRecord(err)
	}

	rec := parse.Parse(raw)
	e.logger.Debug("graded submission", "model", model, "score", rec.Score)
	return rec
}
