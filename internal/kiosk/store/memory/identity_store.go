// Package memory holds in-memory store implementations for tests and dry
// runs. They are safe for concurrent use even though the kiosk core is
// single-threaded, so tests are free to poke at them from helpers.
package memory

import (
	"context"
	"sync"

	"github.com/skuhl/cardread/internal/kiosk/types"
)

// IdentityStore is a map-backed identity store. Seed pre-populates it;
// InsertErr, when set, makes Insert fail so tests can exercise the
// persist-failure path.
type IdentityStore struct {
	mu  sync.RWMutex
	ids map[types.TokenHash]types.Identity

	InsertErr error
}

func NewIdentityStore() *IdentityStore {
	return &IdentityStore{ids: make(map[types.TokenHash]types.Identity)}
}

// Seed adds a mapping without going through Insert. Test helper.
func (s *IdentityStore) Seed(hash types.TokenHash, id types.Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids[hash] = id
}

func (s *IdentityStore) Load(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ids), nil
}

func (s *IdentityStore) Lookup(_ context.Context, hash types.TokenHash) (types.Identity, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.ids[hash]
	return id, ok, nil
}

func (s *IdentityStore) Insert(_ context.Context, hash types.TokenHash, id types.Identity) error {
	if s.InsertErr != nil {
		return s.InsertErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids[hash] = id
	return nil
}

// Len returns the number of mappings. Test helper.
func (s *IdentityStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ids)
}
