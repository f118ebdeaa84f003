package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scalskit/scals/pkg/adapters/memory"
	"github.com/scalskit/scals/pkg/ports"
	"github.com/scalskit/scals/pkg/state"
)

func TestStore_Contract(t *testing.T) {
	ports.RunSnapshotStoreContract(t, memory.NewStore())
}

func TestStore_Isolation(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	snap := map[string]state.Value{"items": state.Array(state.String("a"))}
	require.NoError(t, store.Save(ctx, "s1", snap))

	// Mutating the caller's map after Save must not leak in.
	snap["items"] = state.String("mutated")

	loaded, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	arr, ok := loaded["items"].AsArray()
	require.True(t, ok)
	assert.Equal(t, "a", arr[0].Display())
}
