// Package batch grades many submissions against one assignment with a
// bounded worker pool.
package batch

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/gradekit/gradekit/internal/dataset"
	"github.com/gradekit/gradekit/internal/models"
	"github.com/gradekit/gradekit/internal/providers"
)

// DefaultWorkers is the pool size when none is configured.
const DefaultWorkers = 4

// Grader grades a single submission. Satisfied by evaluate.Evaluator.
type Grader interface {
	Evaluate(ctx context.Context, req *models.GradingRequest, onProgress providers.ProgressFunc) *models.GradeRecord
}

// Assignment is the shared grading material for a batch: every submission is
// graded against the same ideal solution and instructions, with the same model.
type Assignment struct {
	IdealSolution       string
	GradingInstructions string
	Model               string
}

// EventType represents the type of progress event.
type EventType string

const (
	EventBatchStart    EventType = "batch_start"
	EventGradeStart    EventType = "grade_start"
	EventGradeComplete EventType = "grade_complete"
	EventBatchComplete EventType = "batch_complete"
)

// ProgressEvent represents a progress update.
type ProgressEvent struct {
	EventType  EventType
	Assignment string
	Num        int // 1-based position in the batch
	Total      int
	Status     models.Status
	Score      float64
	DurationMs int64
}

// ProgressListener receives progress updates.
type ProgressListener func(event ProgressEvent)

// Runner fans a batch of submissions out to a worker pool.
type Runner struct {
	grader  Grader
	workers int
	logger  *slog.Logger

	progressMu sync.Mutex
	listeners  []ProgressListener
}

// Option configures a Runner.
type Option func(*Runner)

// WithWorkers sets the worker pool size.
func WithWorkers(n int) Option {
	return func(r *Runner) {
		r.workers = n
	}
}

// WithLogger sets the runner's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// NewRunner creates a batch runner around the grader.
func NewRunner(grader Grader, opts ...Option) *Runner {
	r := &Runner{
		grader:    grader,
		workers:   DefaultWorkers,
		logger:    slog.Default(),
		listeners: []ProgressListener{},
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// OnProgress registers a progress listener.
func (r *Runner) OnProgress(listener ProgressListener) {
	r.progressMu.Lock()
	defer r.progressMu.Unlock()
	r.listeners = append(r.listeners, listener)
}

func (r *Runner) notifyProgress(event ProgressEvent) {
	r.progressMu.Lock()
	listeners := make([]ProgressListener, len(r.listeners))
	copy(listeners, r.listeners)
	r.progressMu.Unlock()

	for _, listener := range listeners {
		listener(event)
	}
}

// Run grades every submission and returns one result per input row, in row
// order. Individual grading failures surface as degraded records, so the
// result count always matches the submission count.
func (r *Runner) Run(ctx context.Context, subs []dataset.Submission, shared Assignment) []models.GradedSubmission {
	workers := r.workers
	if workers <= 0 {
		workers = DefaultWorkers
	}

	start := time.Now()
	r.logger.Info("starting batch", "submissions", len(subs), "workers", workers, "model", shared.Model)
	r.notifyProgress(ProgressEvent{EventType: EventBatchStart, Total: len(subs)})

	results := make([]models.GradedSubmission, len(subs))

	eg := errgroup.Group{}
	eg.SetLimit(workers)
	for i, sub := range subs {
		eg.Go(func() error {
			r.notifyProgress(ProgressEvent{
				EventType:  EventGradeStart,
				Assignment: sub.Assignment,
				Num:        i + 1,
				Total:      len(subs),
			})

			gradeStart := time.Now()
			req := &models.GradingRequest{
				StudentSolution:     sub.StudentSolution,
				IdealSolution:       shared.IdealSolution,
				GradingInstructions: shared.GradingInstructions,
				Model:               shared.Model,
			}
			rec := r.grader.Evaluate(ctx, req, nil)
			results[i] = models.GradedSubmission{Assignment: sub.Assignment, Record: rec}

			r.notifyProgress(ProgressEvent{
				EventType:  EventGradeComplete,
				Assignment: sub.Assignment,
				Num:        i + 1,
				Total:      len(subs),
				Status:     rec.Status(),
				Score:      rec.Score,
				DurationMs: time.Since(gradeStart).Milliseconds(),
			})
			return nil
		})
	}
	eg.Wait() //nolint:errcheck

	r.logger.Info("batch complete", "submissions", len(subs), "duration_ms", time.Since(start).Milliseconds())
	r.notifyProgress(ProgressEvent{
		EventType:  EventBatchComplete,
		Total:      len(subs),
		DurationMs: time.Since(start).Milliseconds(),
	})
	return results
}
