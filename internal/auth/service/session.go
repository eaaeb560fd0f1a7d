package service

import (
	"context"
	"strconv"
	"time"

	"github.com/aussiebroadwan/bookstore/internal/auth/kv"
)

const (
	// DefaultSessionTTL is the sliding idle expiry on an identity's token
	// set. Distinct from the token's own signed expiry: the set dies after
	// a day without activity even if individual tokens are still unexpired.
	DefaultSessionTTL = 24 * time.Hour

	// DefaultSessionCapacity bounds concurrent sessions per identity.
	DefaultSessionCapacity = 3

	sessionKeyPrefix = "auth:"
)

// SessionService maintains the capped per-identity set of active tokens in
// the shared key-value store. Rotation is FIFO on insertion order. There is no
// in-process locking; per-identity correctness rides on the store's atomic
// per-key operations, and two near-simultaneous logins may transiently push a
// set one over capacity until the next rotation trims it back.
type SessionService struct {
	KV kv.Client

	// TTL defaults to DefaultSessionTTL when zero.
	TTL time.Duration

	// Capacity defaults to DefaultSessionCapacity when zero.
	Capacity int
}

func sessionKey(userID int64) string {
	return sessionKeyPrefix + strconv.FormatInt(userID, 10)
}

func (s *SessionService) ttl() time.Duration {
	if s.TTL > 0 {
		return s.TTL
	}
	return DefaultSessionTTL
}

func (s *SessionService) capacity() int {
	if s.Capacity > 0 {
		return s.Capacity
	}
	return DefaultSessionCapacity
}

// Register adds a freshly issued token to the identity's set. If the set is at
// capacity the earliest-inserted tokens are evicted first, then the key's TTL
// is re-armed to the full duration.
func (s *SessionService) Register(ctx context.Context, userID int64, token string) error {
	key := sessionKey(userID)

	members, err := s.KV.Members(ctx, key)
	if err != nil {
		return err
	}

	// Evict oldest-first down to capacity-1 so the add below lands within
	// bounds. Usually this is a single eviction; more only after drift.
	if over := len(members) - s.capacity() + 1; over > 0 {
		for _, oldest := range members[:over] {
			if err := s.KV.Remove(ctx, key, oldest); err != nil {
				return err
			}
		}
	}

	if err := s.KV.OrderedAdd(ctx, key, token, time.Now()); err != nil {
		return err
	}
	return s.KV.Expire(ctx, key, s.ttl())
}

// RevokeOne removes a specific token. Revoking an absent token is a no-op.
func (s *SessionService) RevokeOne(ctx context.Context, userID int64, token string) error {
	return s.KV.Remove(ctx, sessionKey(userID), token)
}

// RevokeAll drops the identity's whole session set.
func (s *SessionService) RevokeAll(ctx context.Context, userID int64) error {
	return s.KV.Delete(ctx, sessionKey(userID))
}

// IsActive reports whether the token is still a member of the identity's set.
// A hit re-arms the TTL: expiry slides with activity, not issuance.
func (s *SessionService) IsActive(ctx context.Context, userID int64, token string) (bool, error) {
	key := sessionKey(userID)

	ok, err := s.KV.Contains(ctx, key, token)
	if err != nil || !ok {
		return false, err
	}

	if err := s.KV.Expire(ctx, key, s.ttl()); err != nil {
		return false, err
	}
	return true, nil
}
