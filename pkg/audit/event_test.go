package audit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent(t *testing.T) {
	before := time.Now()
	e := NewEvent(42, OpWrite)

	assert.NotEmpty(t, e.ID)
	assert.Equal(t, int64(42), e.TenantID)
	assert.Equal(t, OpWrite, e.Op)
	assert.WithinDuration(t, before, e.Timestamp, time.Second)
}

func TestEvent_Builders(t *testing.T) {
	e := NewEvent(1, OpRead).
		WithKey("chat-1").
		WithOutcome("not_found", false, "session: not found").
		WithDuration(1500 * time.Microsecond)

	assert.Equal(t, "chat-1", e.Key)
	assert.Equal(t, "not_found", e.Outcome)
	assert.False(t, e.Success)
	assert.Equal(t, "session: not found", e.ErrorMessage)
	assert.Equal(t, int64(1), e.DurationMS)
}

func TestEvent_DistinctIDs(t *testing.T) {
	a := NewEvent(1, OpRead)
	b := NewEvent(1, OpRead)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestNoopLogger(t *testing.T) {
	logger := NewNoopLogger()
	ctx := context.Background()

	require.NoError(t, logger.Log(ctx, *NewEvent(1, OpList)))

	events, err := logger.Query(ctx, QueryFilter{})
	require.NoError(t, err)
	assert.Empty(t, events)

	assert.NoError(t, logger.Close())
}
