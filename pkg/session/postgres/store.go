// Package postgres provides the PostgreSQL metadata ledger.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/txn2/session-vault/pkg/session"
)

// Ledger implements session.Ledger on PostgreSQL. Each tenant owns one row in
// session_ledgers whose keys column is a jsonb object used as a set.
type Ledger struct {
	db  *sql.DB
	max int
}

// Config configures the PostgreSQL ledger.
type Config struct {
	// MaxSessionCount is the per-tenant key-count quota enforced by TryReserve.
	MaxSessionCount int
}

// New creates a new PostgreSQL ledger.
func New(db *sql.DB, cfg Config) *Ledger {
	max := cfg.MaxSessionCount
	if max <= 0 {
		max = session.DefaultMaxSessionCount
	}
	return &Ledger{
		db:  db,
		max: max,
	}
}

// TryReserve checks the quota and admits the key in a single statement. The
// ON CONFLICT DO UPDATE path takes the tenant row's lock, so concurrent
// reservations for one tenant serialize at the database and the count
// predicate can never overshoot. No row comes back when the predicate fails,
// which is the quota-exhausted case.
func (l *Ledger) TryReserve(ctx context.Context, tenantID int64, key string) (bool, error) {
	query := `
		INSERT INTO session_ledgers (tenant_id, keys)
		VALUES ($1, jsonb_build_object($2::text, true))
		ON CONFLICT (tenant_id) DO UPDATE
		   SET keys = session_ledgers.keys || excluded.keys
		 WHERE session_ledgers.keys ? $2::text
		    OR (SELECT count(*) FROM jsonb_object_keys(session_ledgers.keys)) < $3
		RETURNING tenant_id
	`
	var id string
	err := l.db.QueryRowContext(ctx, query, tenantKey(tenantID), key, l.max).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("reserving session key: %w", err)
	}
	return true, nil
}

// Release removes key from the tenant's key set. The tenant row persists even
// when its last key is released; an empty record costs O(1) per tenant.
func (l *Ledger) Release(ctx context.Context, tenantID int64, key string) error {
	query := `
		UPDATE session_ledgers
		   SET keys = keys - $2::text
		 WHERE tenant_id = $1
	`
	if _, err := l.db.ExecContext(ctx, query, tenantKey(tenantID), key); err != nil {
		return fmt.Errorf("releasing session key: %w", err)
	}
	return nil
}

// ListKeys returns the tenant's current key set, empty if the tenant has no
// record.
func (l *Ledger) ListKeys(ctx context.Context, tenantID int64) ([]string, error) {
	query := `SELECT keys FROM session_ledgers WHERE tenant_id = $1`

	var keysJSON []byte
	err := l.db.QueryRowContext(ctx, query, tenantKey(tenantID)).Scan(&keysJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("listing session keys: %w", err)
	}

	set := make(map[string]json.RawMessage)
	if err := json.Unmarshal(keysJSON, &set); err != nil {
		return nil, fmt.Errorf("decoding key set: %w", err)
	}
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	return keys, nil
}

// tenantKey renders the tenant id as the ledger's text primary key.
func tenantKey(tenantID int64) string {
	return strconv.FormatInt(tenantID, 10)
}

// Verify interface compliance.
var _ session.Ledger = (*Ledger)(nil)
