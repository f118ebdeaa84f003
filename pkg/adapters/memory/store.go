// Package memory provides an in-memory snapshot store, useful for
// tests and single-process hosts.
package memory

import (
	"context"
	"sync"

	"github.com/scalskit/scals/pkg/ports"
	"github.com/scalskit/scals/pkg/state"
)

// Store implements ports.SnapshotStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]map[string]state.Value
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]map[string]state.Value),
	}
}

// Save persists the snapshot in memory.
func (s *Store) Save(ctx context.Context, sessionID string, snapshot map[string]state.Value) error {
	// Deep copy to ensure isolation, similar to serialization
	copied := make(map[string]state.Value, len(snapshot))
	for k, v := range snapshot {
		copied[k] = v.Clone()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[sessionID] = copied
	return nil
}

// Load retrieves the snapshot from memory.
func (s *Store) Load(ctx context.Context, sessionID string) (map[string]state.Value, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.data[sessionID]
	if !ok {
		return nil, ports.ErrSnapshotNotFound
	}

	// Copy on read so the caller can't mutate store contents by pointer
	ret := make(map[string]state.Value, len(snap))
	for k, v := range snap {
		ret[k] = v.Clone()
	}
	return ret, nil
}

// Delete removes the snapshot.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, sessionID)
	return nil
}

// List returns sessions with a stored snapshot.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := make([]string, 0, len(s.data))
	for id := range s.data {
		sessions = append(sessions, id)
	}
	return sessions, nil
}
