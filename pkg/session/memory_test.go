package session

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLedger_ReserveUpToQuota(t *testing.T) {
	ledger := NewMemoryLedger(2)
	ctx := context.Background()

	ok, err := ledger.TryReserve(ctx, 1, "a")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = ledger.TryReserve(ctx, 1, "b")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = ledger.TryReserve(ctx, 1, "c")
	require.NoError(t, err)
	assert.False(t, ok)

	// Re-reserving a member at capacity still succeeds.
	ok, err = ledger.TryReserve(ctx, 1, "a")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMemoryLedger_TenantsAreIndependent(t *testing.T) {
	ledger := NewMemoryLedger(1)
	ctx := context.Background()

	ok, err := ledger.TryReserve(ctx, 1, "a")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = ledger.TryReserve(ctx, 2, "a")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMemoryLedger_ReleaseIsIdempotent(t *testing.T) {
	ledger := NewMemoryLedger(10)
	ctx := context.Background()

	_, err := ledger.TryReserve(ctx, 1, "a")
	require.NoError(t, err)

	require.NoError(t, ledger.Release(ctx, 1, "a"))
	require.NoError(t, ledger.Release(ctx, 1, "a"))
	require.NoError(t, ledger.Release(ctx, 9, "never"))

	keys, err := ledger.ListKeys(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestMemoryLedger_ListKeys(t *testing.T) {
	ledger := NewMemoryLedger(100)
	ctx := context.Background()

	want := make([]string, 0, 5)
	for i := range 5 {
		key := fmt.Sprintf("k%d", i)
		_, err := ledger.TryReserve(ctx, 1, key)
		require.NoError(t, err)
		want = append(want, key)
	}

	keys, err := ledger.ListKeys(ctx, 1)
	require.NoError(t, err)
	assert.ElementsMatch(t, want, keys)

	keys, err = ledger.ListKeys(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, keys)
}
