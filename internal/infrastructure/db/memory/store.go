// Package memory provides repository implementations backed by in-process
// maps. It serves unit tests and dev runs without external storage.
package memory

import (
	"context"
	"sync"

	"github.com/AlekseevAleksey/testAuth/internal/core/ports"
)

// Store is an in-process implementation of ports.Store. Each entity
// repository composes its own Store instance instead of sharing a base type.
type Store[K comparable, R any] struct {
	mu      sync.RWMutex
	records map[K]R
	missing error // returned by Get for absent keys
}

var _ ports.Store[string, int] = (*Store[string, int])(nil)

// NewStore returns an empty store. Get reports absent keys with the given
// entity-specific error.
func NewStore[K comparable, R any](missing error) *Store[K, R] {
	return &Store[K, R]{records: make(map[K]R), missing: missing}
}

func (s *Store[K, R]) Get(_ context.Context, key K) (R, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.records[key]
	if !ok {
		var zero R
		return zero, s.missing
	}
	return r, nil
}

func (s *Store[K, R]) Put(_ context.Context, key K, record R) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[key] = record
	return nil
}

func (s *Store[K, R]) Delete(_ context.Context, key K) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.records, key)
	return nil
}

func (s *Store[K, R]) All(_ context.Context) ([]R, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]R, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, r)
	}
	return out, nil
}
