package utils

import (
	"context"
	"log/slog"

	"github.com/gradekit/gradekit/internal/batch"
)

// EventToSlog logs a batch progress event at debug level. It can be
// registered directly as a progress listener; the attribute work is
// skipped entirely when debug logging is off.
func EventToSlog(event batch.ProgressEvent) {
	if !slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		return
	}

	attrs := []any{
		"type", event.EventType,
	}

	attrs = addIf(attrs, "assignment", event.Assignment)
	if event.Num > 0 {
		attrs = append(attrs, "num", event.Num)
	}
	if event.Total > 0 {
		attrs = append(attrs, "total", event.Total)
	}
	attrs = addIf(attrs, "status", string(event.Status))
	if event.EventType == batch.EventGradeComplete {
		attrs = append(attrs, "score", event.Score)
	}
	if event.DurationMs > 0 {
		attrs = append(attrs, "duration_ms", event.DurationMs)
	}

	slog.Debug("batch event", attrs...)
}

func addIf(attrs []any, name, v string) []any {
	if v != "" {
		attrs = append(attrs, name, v)
	}
	return attrs
}
