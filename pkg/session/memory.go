package session

import (
	"context"
	"sync"
)

// MemoryLedger implements Ledger using an in-memory map guarded by a mutex.
// It is intended for tests and local development; the mutex plays the role
// of the database's per-record update atomicity.
type MemoryLedger struct {
	mu      sync.Mutex
	max     int
	tenants map[int64]map[string]struct{}
}

// NewMemoryLedger creates an in-memory ledger with the given key-count quota.
func NewMemoryLedger(maxSessionCount int) *MemoryLedger {
	return &MemoryLedger{
		max:     maxSessionCount,
		tenants: make(map[int64]map[string]struct{}),
	}
}

// TryReserve adds key to the tenant's key set if the tenant is under quota
// or the key is already a member.
func (l *MemoryLedger) TryReserve(_ context.Context, tenantID int64, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	keys, ok := l.tenants[tenantID]
	if !ok {
		keys = make(map[string]struct{})
		l.tenants[tenantID] = keys
	}
	if _, present := keys[key]; present {
		return true, nil
	}
	if len(keys) >= l.max {
		return false, nil
	}
	keys[key] = struct{}{}
	return true, nil
}

// Release removes key from the tenant's key set.
func (l *MemoryLedger) Release(_ context.Context, tenantID int64, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if keys, ok := l.tenants[tenantID]; ok {
		delete(keys, key)
	}
	return nil
}

// ListKeys returns the tenant's current key set.
func (l *MemoryLedger) ListKeys(_ context.Context, tenantID int64) ([]string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	keys := l.tenants[tenantID]
	out := make([]string, 0, len(keys))
	for k := range keys {
		out = append(out, k)
	}
	return out, nil
}

// Verify interface compliance.
var _ Ledger = (*MemoryLedger)(nil)
