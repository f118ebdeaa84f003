package ports

import (
	"context"
	"errors"

	"github.com/scalskit/scals/pkg/state"
)

// ErrSnapshotNotFound is returned by Load when no snapshot exists for
// the session.
var ErrSnapshotNotFound = errors.New("ports: snapshot not found")

// ErrNotHandled is returned by an ActionDelegate that declines an
// action, letting the engine fall back to its default behavior.
var ErrNotHandled = errors.New("ports: action not handled")

// SnapshotStore persists state snapshots keyed by session ID. This
// enables stop and resume: an engine can snapshot its store, park it,
// and later restore into a fresh engine over the same document.
type SnapshotStore interface {
	// Save persists the snapshot for a session, replacing any previous
	// one.
	Save(ctx context.Context, sessionID string, snapshot map[string]state.Value) error

	// Load retrieves the snapshot for a session. Returns
	// ErrSnapshotNotFound when the session has no snapshot.
	Load(ctx context.Context, sessionID string) (map[string]state.Value, error)

	// Delete removes the snapshot for a session. Deleting a missing
	// session is not an error.
	Delete(ctx context.Context, sessionID string) error

	// List returns the session IDs with a stored snapshot.
	List(ctx context.Context) ([]string, error)
}
