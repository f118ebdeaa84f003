package session_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scalskit/scals/pkg/adapters/memory"
	"github.com/scalskit/scals/pkg/ports"
	"github.com/scalskit/scals/pkg/session"
	"github.com/scalskit/scals/pkg/state"
)

func TestManager_LoadOrStart(t *testing.T) {
	ctx := context.Background()
	mgr := session.NewManager(memory.NewStore())
	seed := map[string]state.Value{"count": state.Int(0)}

	snap, err := mgr.LoadOrStart(ctx, "s1", seed)
	require.NoError(t, err)
	assert.True(t, snap["count"].Equal(state.Int(0)))

	// The session was persisted; a mutation saved under the same ID
	// wins over the seed on the next start.
	snap["count"] = state.Int(9)
	require.NoError(t, mgr.Save(ctx, "s1", snap))

	again, err := mgr.LoadOrStart(ctx, "s1", seed)
	require.NoError(t, err)
	assert.True(t, again["count"].Equal(state.Int(9)))
}

func TestManager_LoadMissing(t *testing.T) {
	mgr := session.NewManager(memory.NewStore())
	_, err := mgr.Load(context.Background(), "nope")
	assert.ErrorIs(t, err, ports.ErrSnapshotNotFound)
}

func TestManager_Delete(t *testing.T) {
	ctx := context.Background()
	mgr := session.NewManager(memory.NewStore())

	_, err := mgr.LoadOrStart(ctx, "s1", nil)
	require.NoError(t, err)
	require.NoError(t, mgr.Delete(ctx, "s1"))

	_, err = mgr.Load(ctx, "s1")
	assert.ErrorIs(t, err, ports.ErrSnapshotNotFound)
}

func TestManager_WithLockSerializes(t *testing.T) {
	ctx := context.Background()
	mgr := session.NewManager(memory.NewStore())

	var inside, peak int
	var mu sync.Mutex
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = mgr.WithLock(ctx, "same-session", func(context.Context) error {
				mu.Lock()
				inside++
				if inside > peak {
					peak = inside
				}
				mu.Unlock()
				time.Sleep(time.Millisecond)
				mu.Lock()
				inside--
				mu.Unlock()
				return nil
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, peak, "critical sections for one session never overlap")
}

// recordingLocker records lock/unlock pairs to verify the distributed
// path is exercised.
type recordingLocker struct {
	mu       sync.Mutex
	locked   []string
	unlocked []string
}

func (l *recordingLocker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	l.mu.Lock()
	l.locked = append(l.locked, key)
	l.mu.Unlock()
	return func(context.Context) error {
		l.mu.Lock()
		l.unlocked = append(l.unlocked, key)
		l.mu.Unlock()
		return nil
	}, nil
}

func TestManager_DistributedLocker(t *testing.T) {
	ctx := context.Background()
	locker := &recordingLocker{}
	mgr := session.NewManager(memory.NewStore(), session.WithLocker(locker))

	_, err := mgr.LoadOrStart(ctx, "s1", nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"s1"}, locker.locked)
	assert.Equal(t, []string{"s1"}, locker.unlocked, "lock released even on the happy path")
}
