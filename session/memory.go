package session

import (
	"context"
	"sync"
)

// MemoryStore keeps the session in process memory. It is the default store and
// the one tests use; sessions do not survive a restart.
type MemoryStore struct {
	mu          sync.RWMutex
	pair        TokenPair
	hasPair     bool
	displayName string
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Get(_ context.Context) (TokenPair, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pair, s.hasPair, nil
}

func (s *MemoryStore) Set(_ context.Context, pair TokenPair) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pair = pair
	s.hasPair = true
	return nil
}

func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pair = TokenPair{}
	s.hasPair = false
	s.displayName = ""
	return nil
}

func (s *MemoryStore) DisplayName(_ context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.displayName, nil
}

func (s *MemoryStore) SetDisplayName(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.displayName = name
	return nil
}
