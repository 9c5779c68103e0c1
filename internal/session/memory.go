package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps tokens in a map and evicts expired ones periodically
type MemoryStore struct {
	mu     sync.RWMutex
	tokens map[string]time.Time // token -> expiry
	ttl    time.Duration
	now    func() time.Time
	stopCh chan struct{}
	once   sync.Once
}

// NewMemoryStore creates a store and starts its cleanup loop; call Close to stop it
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	s := &MemoryStore{
		tokens: make(map[string]time.Time),
		ttl:    ttl,
		now:    time.Now,
		stopCh: make(chan struct{}),
	}
	go s.cleanupLoop()
	return s
}

func (s *MemoryStore) Issue(_ context.Context) (string, time.Time, error) {
	token := newToken()
	expiresAt := s.now().Add(s.ttl)

	s.mu.Lock()
	s.tokens[token] = expiresAt
	s.mu.Unlock()

	return token, expiresAt, nil
}

func (s *MemoryStore) Validate(_ context.Context, token string) (bool, error) {
	s.mu.RLock()
	expiresAt, ok := s.tokens[token]
	s.mu.RUnlock()
	return ok && s.now().Before(expiresAt), nil
}

func (s *MemoryStore) Revoke(_ context.Context, token string) error {
	s.mu.Lock()
	delete(s.tokens, token)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) cleanupLoop() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.cleanup()
		}
	}
}

func (s *MemoryStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for token, expiresAt := range s.tokens {
		if !now.Before(expiresAt) {
			delete(s.tokens, token)
		}
	}
}

// Close stops the cleanup loop
func (s *MemoryStore) Close() {
	s.once.Do(func() { close(s.stopCh) })
}
