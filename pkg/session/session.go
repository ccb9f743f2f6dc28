// Package session implements the quota-enforced session store. Payload blobs
// live in an object store behind blob.Store; a per-tenant ledger tracks which
// keys exist and enforces the key-count quota. The Store orchestrator keeps
// the two consistent under concurrent writes and deletes.
package session

import (
	"context"
	"errors"
)

// Default limits, matching the grammY storage API contract.
const (
	// DefaultMaxKeyLength is the exclusive upper bound on session key length,
	// measured in UTF-16 code units.
	DefaultMaxKeyLength = 64

	// DefaultMaxDataBytes is the inclusive upper bound on payload size.
	DefaultMaxDataBytes = 16 * 1024

	// DefaultMaxSessionCount is the maximum number of live keys per tenant.
	DefaultMaxSessionCount = 50_000
)

// Outcome errors returned by Store operations. The transport layer maps these
// to status codes with errors.Is; any other error is a storage failure.
var (
	// ErrNotFound indicates no blob exists for the key.
	ErrNotFound = errors.New("session: not found")

	// ErrKeyTooLong indicates the key is at or beyond the key length limit.
	ErrKeyTooLong = errors.New("session: key too long")

	// ErrPayloadTooLarge indicates the payload exceeds the data size limit.
	ErrPayloadTooLarge = errors.New("session: payload too large")

	// ErrQuotaExceeded indicates the tenant is at its key-count quota.
	ErrQuotaExceeded = errors.New("session: session count quota exceeded")
)

// Limits holds the per-tenant quota configuration, injected at construction.
type Limits struct {
	// MaxKeyLength is the exclusive key length bound in UTF-16 code units.
	MaxKeyLength int

	// MaxDataBytes is the inclusive payload size bound in bytes.
	MaxDataBytes int64

	// MaxSessionCount is the maximum number of keys per tenant.
	MaxSessionCount int
}

// DefaultLimits returns the standard limits.
func DefaultLimits() Limits {
	return Limits{
		MaxKeyLength:    DefaultMaxKeyLength,
		MaxDataBytes:    DefaultMaxDataBytes,
		MaxSessionCount: DefaultMaxSessionCount,
	}
}

// Ledger is the per-tenant record of live session keys. It exists for quota
// accounting and enumeration only; reads of session data never consult it.
type Ledger interface {
	// TryReserve atomically checks that the tenant holds fewer than the
	// maximum number of keys and, if so, adds key to the tenant's key set
	// (no-op if already present), creating the record if absent. It returns
	// true iff the key is a member after the call. The check and the insert
	// must be a single atomic storage-side operation; a check-then-act in two
	// round trips races under concurrent writers.
	TryReserve(ctx context.Context, tenantID int64, key string) (bool, error)

	// Release removes key from the tenant's key set. Idempotent; releasing
	// an absent key is not an error.
	Release(ctx context.Context, tenantID int64, key string) error

	// ListKeys returns the tenant's current key set, empty if the tenant has
	// no record.
	ListKeys(ctx context.Context, tenantID int64) ([]string, error)
}
