package cache

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	value     string
	expiresAt time.Time
}

func (e entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// MemoryTokenStore is the in-process token store used when no Redis address
// is configured. Entries expire lazily on access.
type MemoryTokenStore struct {
	mu     sync.RWMutex
	tokens map[string]entry // dedupe key -> delivery token
	states map[string]entry // delivery token -> state
	now    func() time.Time
}

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{
		tokens: make(map[string]entry),
		states: make(map[string]entry),
		now:    time.Now,
	}
}

// SetTokenNX stores the token for a dedupe key only when the key is not
// already held. It reports whether this call won the key.
func (s *MemoryTokenStore) SetTokenNX(_ context.Context, key, token string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if existing, ok := s.tokens[key]; ok && !existing.expired(now) {
		return false, nil
	}
	s.tokens[key] = entry{value: token, expiresAt: expiry(now, ttl)}
	return true, nil
}

// GetToken returns the token held for a dedupe key, or "" when the key is
// unknown or expired.
func (s *MemoryTokenStore) GetToken(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	e, ok := s.tokens[key]
	s.mu.RUnlock()

	if !ok {
		return "", nil
	}
	if e.expired(s.now()) {
		s.mu.Lock()
		delete(s.tokens, key)
		s.mu.Unlock()
		return "", nil
	}
	return e.value, nil
}

func (s *MemoryTokenStore) SetState(_ context.Context, token, state string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[token] = entry{value: state, expiresAt: expiry(s.now(), ttl)}
	return nil
}

func (s *MemoryTokenStore) GetState(_ context.Context, token string) (string, error) {
	s.mu.RLock()
	e, ok := s.states[token]
	s.mu.RUnlock()

	if !ok {
		return "", nil
	}
	if e.expired(s.now()) {
		s.mu.Lock()
		delete(s.states, token)
		s.mu.Unlock()
		return "", nil
	}
	return e.value, nil
}

func (s *MemoryTokenStore) Close() error {
	return nil
}

func expiry(now time.Time, ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return now.Add(ttl)
}
