package events

import (
	"context"

	"github.com/olegrjumin/siteaudit/internal/logging"
)

// LogRecorder writes events to the log and wraps another recorder for reads.
// A nil inner recorder makes Recent return nothing.
type LogRecorder struct {
	logger *logging.Logger
	inner  Recorder
}

// NewLogRecorder creates a recorder that logs every event before passing it on
func NewLogRecorder(logger *logging.Logger, inner Recorder) *LogRecorder {
	return &LogRecorder{logger: logger, inner: inner}
}

func (l *LogRecorder) Record(ctx context.Context, e Event) error {
	l.logger.Info("Analysis event",
		"event_id", e.ID,
		"url", e.URL,
		"success", e.Success,
		"score", e.Score,
		"error", e.Error,
		"duration_ms", e.Duration.Milliseconds(),
	)
	if l.inner == nil {
		return nil
	}
	return l.inner.Record(ctx, e)
}

func (l *LogRecorder) Recent(ctx context.Context, n int) ([]Event, error) {
	if l.inner == nil {
		return []Event{}, nil
	}
	return l.inner.Recent(ctx, n)
}
