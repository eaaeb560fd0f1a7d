package kv

import (
	"context"
	"sort"
	"sync"
	"time"
)

// memoryClient is an in-process Client for development and tests. It mirrors
// the Redis semantics the auth core depends on: per-key serialization, lazy
// expiry, ordered-set members sorted by insertion time.
type memoryClient struct {
	mu   sync.Mutex
	keys map[string]*memoryKey
	now  func() time.Time
}

type memoryKey struct {
	members   map[string]time.Time // ordered set: member -> insertion time
	fields    map[string]string    // hash fields
	expiresAt time.Time            // zero = no expiry
}

// NewMemory returns an in-process Client.
func NewMemory() Client {
	return &memoryClient{
		keys: make(map[string]*memoryKey),
		now:  time.Now,
	}
}

// NewMemoryAtClock is NewMemory with an injectable clock for expiry tests.
func NewMemoryAtClock(now func() time.Time) Client {
	return &memoryClient{
		keys: make(map[string]*memoryKey),
		now:  now,
	}
}

// live returns the key's entry, dropping it first if its TTL has lapsed.
func (c *memoryClient) live(key string) *memoryKey {
	k, ok := c.keys[key]
	if !ok {
		return nil
	}
	if !k.expiresAt.IsZero() && c.now().After(k.expiresAt) {
		delete(c.keys, key)
		return nil
	}
	return k
}

func (c *memoryClient) ensure(key string) *memoryKey {
	if k := c.live(key); k != nil {
		return k
	}
	k := &memoryKey{
		members: make(map[string]time.Time),
		fields:  make(map[string]string),
	}
	c.keys[key] = k
	return k
}

func (c *memoryClient) OrderedAdd(_ context.Context, key, member string, at time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.ensure(key).members[member] = at
	return nil
}

func (c *memoryClient) Remove(_ context.Context, key, member string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if k := c.live(key); k != nil {
		delete(k.members, member)
	}
	return nil
}

func (c *memoryClient) Contains(_ context.Context, key, member string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	k := c.live(key)
	if k == nil {
		return false, nil
	}
	_, ok := k.members[member]
	return ok, nil
}

func (c *memoryClient) Members(_ context.Context, key string) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	k := c.live(key)
	if k == nil {
		return nil, nil
	}

	out := make([]string, 0, len(k.members))
	for m := range k.members {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := k.members[out[i]], k.members[out[j]]
		if a.Equal(b) {
			return out[i] < out[j]
		}
		return a.Before(b)
	})
	return out, nil
}

func (c *memoryClient) Expire(_ context.Context, key string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if k := c.live(key); k != nil {
		k.expiresAt = c.now().Add(ttl)
	}
	return nil
}

func (c *memoryClient) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.keys, key)
	return nil
}

func (c *memoryClient) HashSet(_ context.Context, key string, fields map[string]string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	k := c.ensure(key)
	for f, v := range fields {
		k.fields[f] = v
	}
	return nil
}

func (c *memoryClient) HashGet(_ context.Context, key, field string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	k := c.live(key)
	if k == nil {
		return "", ErrNotFound
	}
	v, ok := k.fields[field]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (c *memoryClient) Ping(context.Context) error { return nil }

func (c *memoryClient) Close() error { return nil }
