// Package kv abstracts the shared key-value service the session store and
// identity cache live in. The interface exposes only the atomic per-key
// operations the auth core relies on for correctness: ordered-set add/remove/
// membership, key expiry, and hash get/set. No in-process locking sits on top;
// per-key serialization is the backing store's job.
package kv

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a key or hash field does not exist.
var ErrNotFound = errors.New("kv: not found")

// Client is the handle to the shared key-value service.
type Client interface {
	// OrderedAdd inserts member into the ordered set at key, positioned by
	// its insertion time. Re-adding an existing member updates its position.
	OrderedAdd(ctx context.Context, key, member string, at time.Time) error

	// Remove deletes a member from the ordered set. Removing an absent
	// member is a no-op, not an error.
	Remove(ctx context.Context, key, member string) error

	// Contains reports whether member is in the ordered set at key.
	Contains(ctx context.Context, key, member string) (bool, error)

	// Members returns all members of the ordered set at key, oldest first.
	Members(ctx context.Context, key string) ([]string, error)

	// Expire arms (or re-arms) the TTL on key. A no-op if the key is absent.
	Expire(ctx context.Context, key string, ttl time.Duration) error

	// Delete removes a key entirely, whatever its type.
	Delete(ctx context.Context, key string) error

	// HashSet writes fields into the hash at key, creating it if needed.
	HashSet(ctx context.Context, key string, fields map[string]string) error

	// HashGet reads a single hash field. Returns ErrNotFound if either the
	// key or the field is absent.
	HashGet(ctx context.Context, key, field string) (string, error)

	// Ping verifies the connection.
	Ping(ctx context.Context) error

	// Close releases the connection.
	Close() error
}
