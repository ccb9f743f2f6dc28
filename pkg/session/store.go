package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"unicode/utf16"

	"golang.org/x/sync/errgroup"

	"github.com/txn2/session-vault/pkg/blob"
)

// Store orchestrates the ledger and the blob backend. It is the only
// component that mutates both, and owns their joint consistency policy:
// writes validate, then reserve quota, then store the blob. A put failure
// after a successful reservation leaves a ledger entry with no blob; that
// bounded window is repaired by the next write of the same key (reservation
// is idempotent) or cleared by the next delete.
type Store struct {
	ledger Ledger
	blobs  blob.Store
	limits Limits
}

// NewStore creates a session store over the given backends. Both backends
// must be connected before any operation is invoked; the store performs no
// lazy reconnection.
func NewStore(ledger Ledger, blobs blob.Store, limits Limits) (*Store, error) {
	if ledger == nil {
		return nil, fmt.Errorf("session: ledger is required")
	}
	if blobs == nil {
		return nil, fmt.Errorf("session: blob store is required")
	}
	if limits.MaxKeyLength <= 0 || limits.MaxDataBytes <= 0 || limits.MaxSessionCount <= 0 {
		return nil, fmt.Errorf("session: limits must be positive")
	}
	return &Store{
		ledger: ledger,
		blobs:  blobs,
		limits: limits,
	}, nil
}

// Limits returns the store's configured limits.
func (s *Store) Limits() Limits {
	return s.limits
}

// Read returns the payload stored under key, or ErrNotFound. The ledger is
// not consulted: a stale or missing ledger entry never blocks a read of an
// existing blob.
func (s *Store) Read(ctx context.Context, tenantID int64, key string) ([]byte, error) {
	data, err := s.blobs.Get(ctx, NamespaceKey(tenantID, key))
	if errors.Is(err, blob.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading blob: %w", err)
	}
	return data, nil
}

// Write stores the payload read from r under key. The order is fixed:
// validate the key, drain r through the bounded reader, reserve quota, then
// put the blob. An oversized payload never consumes quota, and quota
// exhaustion never leaves an orphaned blob.
func (s *Store) Write(ctx context.Context, tenantID int64, key string, r io.Reader) error {
	if keyLength(key) >= s.limits.MaxKeyLength {
		return ErrKeyTooLong
	}

	data, err := ReadBounded(r, s.limits.MaxDataBytes)
	if err != nil {
		return err
	}

	reserved, err := s.ledger.TryReserve(ctx, tenantID, key)
	if err != nil {
		return fmt.Errorf("reserving key: %w", err)
	}
	if !reserved {
		return ErrQuotaExceeded
	}

	if err := s.blobs.Put(ctx, NamespaceKey(tenantID, key), data); err != nil {
		// The key stays reserved with no blob behind it until the next
		// write or delete of the same key.
		slog.Warn("session: blob write failed after reservation",
			"tenant_id", tenantID, "key", key, "error", err)
		return fmt.Errorf("writing blob: %w", err)
	}
	return nil
}

// Delete removes the key's ledger entry and blob concurrently. Both halves
// are idempotent, so deleting an absent key succeeds, and a partial failure
// self-heals on retry.
func (s *Store) Delete(ctx context.Context, tenantID int64, key string) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := s.ledger.Release(ctx, tenantID, key); err != nil {
			return fmt.Errorf("releasing key: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := s.blobs.Delete(ctx, NamespaceKey(tenantID, key)); err != nil {
			return fmt.Errorf("deleting blob: %w", err)
		}
		return nil
	})
	return g.Wait()
}

// ListKeys returns the tenant's live session keys. The set may include a key
// whose blob write failed after reservation; callers must tolerate a listed
// key that reads as not found.
func (s *Store) ListKeys(ctx context.Context, tenantID int64) ([]string, error) {
	keys, err := s.ledger.ListKeys(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("listing keys: %w", err)
	}
	return keys, nil
}

// keyLength measures key length in UTF-16 code units, for compatibility with
// the limits enforced by existing clients.
func keyLength(key string) int {
	return len(utf16.Encode([]rune(key)))
}
