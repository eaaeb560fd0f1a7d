package service

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/aussiebroadwan/bookstore/internal/auth/domain"
	"github.com/aussiebroadwan/bookstore/internal/auth/kv"
	"github.com/aussiebroadwan/bookstore/internal/auth/store"
	"github.com/aussiebroadwan/bookstore/pkg/slogx"
)

// identityCacheKey is the single hash holding every identity snapshot,
// one field per identity id.
const identityCacheKey = "users"

// SnapshotCache is the read-mostly projection of authorization-relevant user
// attributes. It is rebuilt wholesale from the directory and read per-request
// by the decision path. An identity absent from the cache is unknown, and
// unknown means deny.
type SnapshotCache struct {
	KV        kv.Client
	Directory store.Directory
}

// RefreshAll rebuilds the snapshot hash from the directory. The old hash is
// dropped and repopulated in one pass; readers may see a brief window where
// entries are absent, which fails closed. Safe to call repeatedly.
func (c *SnapshotCache) RefreshAll(ctx context.Context) error {
	l := slogx.FromContext(ctx)

	snapshots, err := c.Directory.Users().ListWithStoreOwnership(ctx)
	if err != nil {
		return err
	}

	fields := make(map[string]string, len(snapshots))
	for _, snap := range snapshots {
		raw, err := json.Marshal(snap)
		if err != nil {
			return err
		}
		fields[strconv.FormatInt(snap.ID, 10)] = string(raw)
	}

	if err := c.KV.Delete(ctx, identityCacheKey); err != nil {
		return err
	}
	if err := c.KV.HashSet(ctx, identityCacheKey, fields); err != nil {
		return err
	}

	l.Info("identity cache refreshed", "entries", len(fields))
	return nil
}

// Get returns the cached snapshot for an identity, or kv.ErrNotFound if the
// identity is unknown to the cache.
func (c *SnapshotCache) Get(ctx context.Context, userID int64) (domain.Snapshot, error) {
	raw, err := c.KV.HashGet(ctx, identityCacheKey, strconv.FormatInt(userID, 10))
	if err != nil {
		return domain.Snapshot{}, err
	}

	var snap domain.Snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return domain.Snapshot{}, err
	}
	return snap, nil
}
