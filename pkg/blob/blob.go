// Package blob defines the object-store contract for session payloads.
package blob

import (
	"context"
	"errors"
)

// ErrNotFound indicates no object exists under the key.
var ErrNotFound = errors.New("blob: not found")

// Store is an opaque get/put/delete object store addressed by namespaced key.
// There are no atomicity guarantees beyond per-key last-write-wins; callers
// must not assume cross-key atomicity or any coupling to other stores.
type Store interface {
	// Get returns the object's bytes, or ErrNotFound if absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put stores data under key, overwriting any previous object.
	Put(ctx context.Context, key string, data []byte) error

	// Delete removes the object under key. Deleting an absent key succeeds.
	Delete(ctx context.Context, key string) error
}
