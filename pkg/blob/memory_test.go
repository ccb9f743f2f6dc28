package blob

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_PutGetDelete(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, err := store.Get(ctx, "bot1/missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Put(ctx, "bot1/k", []byte("data")))
	got, err := store.Get(ctx, "bot1/k")
	require.NoError(t, err)
	assert.Equal(t, []byte("data"), got)

	require.NoError(t, store.Put(ctx, "bot1/k", []byte("newer")))
	got, err = store.Get(ctx, "bot1/k")
	require.NoError(t, err)
	assert.Equal(t, []byte("newer"), got)

	require.NoError(t, store.Delete(ctx, "bot1/k"))
	_, err = store.Get(ctx, "bot1/k")
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting an absent key succeeds.
	assert.NoError(t, store.Delete(ctx, "bot1/k"))
}

func TestMemoryStore_GetReturnsCopy(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "k", []byte("abc")))

	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	got[0] = 'z'

	again, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), again, "mutating a returned slice must not affect the store")
}
