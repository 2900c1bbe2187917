package mem

import (
	"context"
	"sync"
	"time"
)

// TokenStore remembers revoked bearer tokens until they would have expired anyway.
type TokenStore interface {
	Revoke(ctx context.Context, token string, ttl time.Duration) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}

type entry struct {
	expiresAt time.Time
}

// RevokedTokens is the in-process TokenStore used when no Redis is configured.
type RevokedTokens struct {
	mu   sync.RWMutex
	data map[string]entry
	now  func() time.Time
}

func NewRevokedTokens() *RevokedTokens {
	return &RevokedTokens{
		data: make(map[string]entry),
		now:  time.Now,
	}
}

func (s *RevokedTokens) Revoke(_ context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()
	s.data[token] = entry{expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *RevokedTokens) IsRevoked(_ context.Context, token string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.data[token]
	if !ok {
		return false, nil
	}
	return s.now().Before(e.expiresAt), nil
}

func (s *RevokedTokens) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

func (s *RevokedTokens) sweepLocked() {
	now := s.now()
	for k, e := range s.data {
		if !now.Before(e.expiresAt) {
			delete(s.data, k)
		}
	}
}
