package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/txn2/session-vault/pkg/audit"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return New(db, Config{}), mock
}

func newTestEvent() audit.Event {
	return *audit.NewEvent(42, audit.OpWrite).
		WithKey("chat-1").
		WithOutcome("ok", true, "").
		WithDuration(12 * time.Millisecond)
}

func TestNew_DefaultRetention(t *testing.T) {
	store, _ := newMockStore(t)
	assert.Equal(t, defaultRetentionDays, store.retentionDays)
}

func TestLog(t *testing.T) {
	store, mock := newMockStore(t)
	event := newTestEvent()

	mock.ExpectExec("INSERT INTO audit_logs").WithArgs(
		event.ID, event.Timestamp, event.DurationMS, event.TenantID,
		string(event.Op), event.Key, event.Outcome, event.Success, event.ErrorMessage,
	).WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.Log(context.Background(), event)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLog_DBError(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("INSERT INTO audit_logs").
		WillReturnError(errors.New("connection refused"))

	err := store.Log(context.Background(), newTestEvent())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "inserting audit event")
}

func TestQuery_Filters(t *testing.T) {
	store, mock := newMockStore(t)

	tenantID := int64(42)
	success := true
	now := time.Now()

	rows := sqlmock.NewRows(auditColumns).
		AddRow("evt-1", now, int64(12), tenantID, "write", "chat-1", "ok", true, "")

	mock.ExpectQuery("SELECT (.+) FROM audit_logs").
		WithArgs(tenantID, "write", success).
		WillReturnRows(rows)

	events, err := store.Query(context.Background(), audit.QueryFilter{
		TenantID: &tenantID,
		Op:       audit.OpWrite,
		Success:  &success,
	})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "evt-1", events[0].ID)
	assert.Equal(t, audit.OpWrite, events[0].Op)
	assert.Equal(t, tenantID, events[0].TenantID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuery_Empty(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("SELECT (.+) FROM audit_logs").
		WillReturnRows(sqlmock.NewRows(auditColumns))

	events, err := store.Query(context.Background(), audit.QueryFilter{})
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestCleanup(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("DELETE FROM audit_logs").
		WithArgs("90 days").
		WillReturnResult(sqlmock.NewResult(0, 5))

	err := store.Cleanup(context.Background())
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClose_WithoutCleanupRoutine(t *testing.T) {
	store, _ := newMockStore(t)
	assert.NoError(t, store.Close())
}

func TestCleanupRoutine_StartStop(t *testing.T) {
	store, mock := newMockStore(t)
	mock.MatchExpectationsInOrder(false)

	store.StartCleanupRoutine(time.Hour)
	assert.NoError(t, store.Close())
}
