// Package events records one analytics event per analysis.
// Recorded events are only read back by the admin endpoint.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event describes the outcome of a single analysis
type Event struct {
	ID       string        `json:"id"`
	URL      string        `json:"url"`
	Success  bool          `json:"success"`
	Score    int           `json:"score,omitempty"`
	Grade    string        `json:"grade,omitempty"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration"`
	At       time.Time     `json:"at"`
}

// Recorder stores analysis events
type Recorder interface {
	Record(ctx context.Context, e Event) error
	// Recent returns up to n events, newest first
	Recent(ctx context.Context, n int) ([]Event, error)
}

// New creates an event with a fresh ID
func New(url string, at time.Time) Event {
	return Event{
		ID:  uuid.NewString(),
		URL: url,
		At:  at.UTC(),
	}
}
