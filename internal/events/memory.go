package events

import (
	"context"
	"sync"
)

// DefaultCapacity bounds how many events a recorder keeps
const DefaultCapacity = 500

// MemoryRecorder keeps the most recent events in a ring buffer
type MemoryRecorder struct {
	mu     sync.RWMutex
	buf    []Event
	next   int
	filled bool
}

// NewMemoryRecorder creates a recorder holding at most capacity events
func NewMemoryRecorder(capacity int) *MemoryRecorder {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &MemoryRecorder{buf: make([]Event, capacity)}
}

func (m *MemoryRecorder) Record(_ context.Context, e Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.buf[m.next] = e
	m.next = (m.next + 1) % len(m.buf)
	if m.next == 0 {
		m.filled = true
	}
	return nil
}

func (m *MemoryRecorder) Recent(_ context.Context, n int) ([]Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	size := m.next
	if m.filled {
		size = len(m.buf)
	}
	if n <= 0 || n > size {
		n = size
	}

	out := make([]Event, 0, n)
	for i := 1; i <= n; i++ {
		idx := (m.next - i + len(m.buf)) % len(m.buf)
		out = append(out, m.buf[idx])
	}
	return out, nil
}
