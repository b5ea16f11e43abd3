package memory

import (
	"context"
	"sync"

	"ecotrack/internal/core"
	"ecotrack/internal/store"
)

var _ store.Store = (*Store)(nil)

// Store keeps the collection in process memory. Every Load and Save copies,
// so callers never share a backing array with the store.
type Store struct {
	mu    sync.Mutex
	items []core.Activity
	saves int
}

func New(seed ...core.Activity) *Store {
	return &Store{items: clone(seed)}
}

func (s *Store) Load(_ context.Context) ([]core.Activity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.items), nil
}

func (s *Store) Save(_ context.Context, activities []core.Activity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = clone(activities)
	s.saves++
	return nil
}

// Saves returns how many times Save has been called.
func (s *Store) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

func clone(in []core.Activity) []core.Activity {
	out := make([]core.Activity, len(in))
	copy(out, in)
	return out
}
