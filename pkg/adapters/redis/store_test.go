package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	redisadapter "github.com/scalskit/scals/pkg/adapters/redis"
	"github.com/scalskit/scals/pkg/ports"
	"github.com/scalskit/scals/pkg/state"
)

func newTestClient(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestStore_Contract(t *testing.T) {
	_, client := newTestClient(t)
	ports.RunSnapshotStoreContract(t, redisadapter.NewFromClient(client))
}

func TestStore_RoundTripPreservesValueKinds(t *testing.T) {
	_, client := newTestClient(t)
	store := redisadapter.NewFromClient(client)
	ctx := context.Background()

	snap := map[string]state.Value{
		"count": state.Int(3),
		"ratio": state.Double(0.5),
		"todos": state.Array(state.Object(map[string]state.Value{
			"title": state.String("ship it"),
			"done":  state.Bool(false),
		})),
	}
	require.NoError(t, store.Save(ctx, "s1", snap))

	loaded, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	got, ok := loaded["count"].AsInt()
	require.True(t, ok, "integral numbers stay ints across persistence")
	assert.Equal(t, int64(3), got)
	assert.Equal(t, "ship it", loaded["todos"].At("0.title").Display())
}

func TestStore_TTLExpiry(t *testing.T) {
	mr, client := newTestClient(t)
	store := redisadapter.NewFromClient(client, redisadapter.WithTTL(time.Minute))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "ephemeral", map[string]state.Value{"k": state.Int(1)}))

	mr.FastForward(2 * time.Minute)

	_, err := store.Load(ctx, "ephemeral")
	assert.ErrorIs(t, err, ports.ErrSnapshotNotFound)

	// Lazy cleanup drops the expired session from the index too.
	sessions, err := store.List(ctx)
	require.NoError(t, err)
	assert.NotContains(t, sessions, "ephemeral")
}

func TestStore_CustomPrefixIsolation(t *testing.T) {
	_, client := newTestClient(t)
	ctx := context.Background()

	a := redisadapter.NewFromClient(client, redisadapter.WithPrefix("tenant-a:"))
	b := redisadapter.NewFromClient(client, redisadapter.WithPrefix("tenant-b:"))

	require.NoError(t, a.Save(ctx, "s1", map[string]state.Value{"k": state.Int(1)}))

	_, err := b.Load(ctx, "s1")
	assert.ErrorIs(t, err, ports.ErrSnapshotNotFound)
}
