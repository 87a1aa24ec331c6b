package tokenstorage

import (
	"sync"
	"time"
)

// Storage remembers logged-out tokens until they would have expired anyway.
type Storage struct {
	mu      sync.RWMutex
	revoked map[string]time.Time
}

func New() *Storage {
	return &Storage{revoked: make(map[string]time.Time)}
}

func (s *Storage) Revoke(token string, expiresAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[token] = expiresAt
}

func (s *Storage) IsRevoked(token string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.revoked[token]
	return ok
}

// Prune forgets revoked tokens that expired before now.
func (s *Storage) Prune(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for token, exp := range s.revoked {
		if exp.Before(now) {
			delete(s.revoked, token)
			n++
		}
	}
	return n
}
