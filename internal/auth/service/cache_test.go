package service_test

import (
	"context"
	"testing"

	"github.com/aussiebroadwan/bookstore/internal/auth/domain"
	"github.com/aussiebroadwan/bookstore/internal/auth/kv"
	"github.com/aussiebroadwan/bookstore/internal/auth/service"
	"github.com/stretchr/testify/require"
)

func TestRefreshAllAndGet(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	dir := newFakeDirectory()
	admin := dir.addUser("admin@books.test", "hunter22", domain.RoleAdmin)
	manager := dir.addUser("mgr@books.test", "hunter22", domain.RoleStoreManager)
	dir.addStore(5, "City Books")
	dir.addStore(7, "Harbour Books")
	dir.assignManager(manager.ID, 5)
	dir.assignManager(manager.ID, 7)

	cache := &service.SnapshotCache{KV: kv.NewMemory(), Directory: dir}
	require.NoError(t, cache.RefreshAll(ctx))

	snap, err := cache.Get(ctx, manager.ID)
	require.NoError(t, err)
	require.Equal(t, domain.RoleStoreManager, snap.Role)
	require.ElementsMatch(t, []int64{5, 7}, snap.StoreIDs)

	snap, err = cache.Get(ctx, admin.ID)
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, snap.Role)
	require.Empty(t, snap.StoreIDs)
}

func TestCacheGetUnknownIdentity(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	dir := newFakeDirectory()
	cache := &service.SnapshotCache{KV: kv.NewMemory(), Directory: dir}
	require.NoError(t, cache.RefreshAll(ctx))

	_, err := cache.Get(ctx, 999)
	require.ErrorIs(t, err, kv.ErrNotFound)
}

func TestRefreshAllDropsStaleEntries(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	dir := newFakeDirectory()
	u := dir.addUser("u@books.test", "hunter22", domain.RoleUser)

	cache := &service.SnapshotCache{KV: kv.NewMemory(), Directory: dir}
	require.NoError(t, cache.RefreshAll(ctx))

	_, err := cache.Get(ctx, u.ID)
	require.NoError(t, err)

	// User removed upstream. A rebuild must not leave the old entry behind.
	delete(dir.users, u.ID)
	require.NoError(t, cache.RefreshAll(ctx))

	_, err = cache.Get(ctx, u.ID)
	require.ErrorIs(t, err, kv.ErrNotFound)
}

func TestRefreshAllPicksUpRoleChanges(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	dir := newFakeDirectory()
	u := dir.addUser("u@books.test", "hunter22", domain.RoleUser)

	cache := &service.SnapshotCache{KV: kv.NewMemory(), Directory: dir}
	require.NoError(t, cache.RefreshAll(ctx))

	promoted := dir.users[u.ID]
	promoted.Role = domain.RoleStoreManager
	dir.users[u.ID] = promoted
	dir.addStore(3, "Station Books")
	dir.assignManager(u.ID, 3)

	require.NoError(t, cache.RefreshAll(ctx))

	snap, err := cache.Get(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, domain.RoleStoreManager, snap.Role)
	require.Equal(t, []int64{3}, snap.StoreIDs)
}
