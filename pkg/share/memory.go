package share

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-memory share store for development and testing.
// Shares are lost when the process exits.
type MemoryStore struct {
	mu     sync.RWMutex
	shares map[string]*Share
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{shares: make(map[string]*Share)}
}

// Get retrieves a share by ID. Expired shares are removed and reported
// as missing.
func (s *MemoryStore) Get(ctx context.Context, id string) (*Share, error) {
	s.mu.RLock()
	sh, ok := s.shares[id]
	s.mu.RUnlock()

	if !ok {
		return nil, nil
	}
	if sh.IsExpired() {
		s.mu.Lock()
		delete(s.shares, id)
		s.mu.Unlock()
		return nil, nil
	}

	cp := *sh
	return &cp, nil
}

// Set stores a share.
func (s *MemoryStore) Set(ctx context.Context, sh *Share) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *sh
	s.shares[sh.ID] = &cp
	return nil
}

// Delete removes a share.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.shares, id)
	return nil
}

// Cleanup removes expired shares.
func (s *MemoryStore) Cleanup(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for id, sh := range s.shares {
		if now.After(sh.ExpiresAt) {
			delete(s.shares, id)
		}
	}
	return nil
}

// Close does nothing for the in-memory store.
func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
