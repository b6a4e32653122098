package credentials

import (
	"sync"

	"github.com/accessguard/console/models"
)

// MemoryStore is an in-memory Store for tests and throwaway sessions.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

// Save persists the pair. See Store for the no-op and retention rules.
func (s *MemoryStore) Save(pair models.TokenPair) error {
	if pair.AccessToken == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[accessTokenKey] = pair.AccessToken
	if pair.RefreshToken != "" {
		s.values[refreshTokenKey] = pair.RefreshToken
	}
	return nil
}

// Get returns the stored pair, or nil when no session exists.
func (s *MemoryStore) Get() (*models.TokenPair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	access := s.values[accessTokenKey]
	if access == "" {
		return nil, nil
	}
	return &models.TokenPair{
		AccessToken:  access,
		RefreshToken: s.values[refreshTokenKey],
	}, nil
}

// Clear removes both tokens.
func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, accessTokenKey)
	delete(s.values, refreshTokenKey)
	return nil
}
