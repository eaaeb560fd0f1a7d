package service_test

import (
	"context"
	"testing"

	"github.com/aussiebroadwan/bookstore/internal/auth/domain"
	"github.com/aussiebroadwan/bookstore/internal/auth/kv"
	"github.com/aussiebroadwan/bookstore/internal/auth/service"
	"github.com/aussiebroadwan/bookstore/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestAuth(t *testing.T, dir *fakeDirectory, c kv.Client) *service.AuthService {
	t.Helper()

	signer, verifier, err := jwtx.NewHS256([]byte(testSecret), "bookstore-test")
	require.NoError(t, err)

	return &service.AuthService{
		Credentials: &service.CredentialService{Directory: dir},
		Sessions:    &service.SessionService{KV: c},
		Cache:       &service.SnapshotCache{KV: c, Directory: dir},
		Directory:   dir,
		Signer:      signer,
		Verifier:    verifier,
		Issuer:      "bookstore-test",
	}
}

func TestLoginAndAuthorizeRoleGate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	dir := newFakeDirectory()
	dir.addUser("u@books.test", "hunter22", domain.RoleUser)

	auth := newTestAuth(t, dir, kv.NewMemory())
	require.NoError(t, auth.Cache.RefreshAll(ctx))

	res, err := auth.Login(ctx, "u@books.test", "hunter22")
	require.NoError(t, err)
	require.NotEmpty(t, res.AccessToken)
	require.Equal(t, "u@books.test", res.User.Email)
	require.Equal(t, domain.RoleUser, res.User.Role)

	_, err = auth.Authorize(ctx, res.AccessToken, []domain.Role{domain.RoleAdmin}, nil)
	require.ErrorIs(t, err, service.ErrUnauthorized)

	id, err := auth.Authorize(ctx, res.AccessToken, []domain.Role{domain.RoleUser}, nil)
	require.NoError(t, err)
	require.Equal(t, "u@books.test", id.Email)
	require.Equal(t, domain.RoleUser, id.Role)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	dir := newFakeDirectory()
	dir.addUser("u@books.test", "hunter22", domain.RoleUser)

	auth := newTestAuth(t, dir, kv.NewMemory())

	_, err := auth.Login(ctx, "u@books.test", "wrong")
	require.ErrorIs(t, err, service.ErrInvalidCredentials)

	_, err = auth.Login(ctx, "nobody@books.test", "hunter22")
	require.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestLoginFailsWholeWhenSessionWriteFails(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	dir := newFakeDirectory()
	dir.addUser("u@books.test", "hunter22", domain.RoleUser)

	auth := newTestAuth(t, dir, &failingKV{Client: kv.NewMemory()})

	_, err := auth.Login(ctx, "u@books.test", "hunter22")
	require.ErrorIs(t, err, errKVDown)
}

func TestFourthLoginInvalidatesFirstToken(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	dir := newFakeDirectory()
	dir.addUser("u@books.test", "hunter22", domain.RoleUser)

	auth := newTestAuth(t, dir, kv.NewMemory())
	require.NoError(t, auth.Cache.RefreshAll(ctx))

	tokens := make([]string, 0, 4)
	for range 4 {
		res, err := auth.Login(ctx, "u@books.test", "hunter22")
		require.NoError(t, err)
		tokens = append(tokens, res.AccessToken)
	}

	// The first token was evicted by the fourth login. Its signature is
	// still valid but the session is gone.
	_, err := auth.Authorize(ctx, tokens[0], []domain.Role{domain.RoleUser}, nil)
	require.ErrorIs(t, err, service.ErrTokenInvalid)

	for _, token := range tokens[1:] {
		_, err := auth.Authorize(ctx, token, []domain.Role{domain.RoleUser}, nil)
		require.NoError(t, err)
	}
}

func TestLogout(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	dir := newFakeDirectory()
	u := dir.addUser("u@books.test", "hunter22", domain.RoleUser)

	auth := newTestAuth(t, dir, kv.NewMemory())
	require.NoError(t, auth.Cache.RefreshAll(ctx))

	res, err := auth.Login(ctx, "u@books.test", "hunter22")
	require.NoError(t, err)

	require.ErrorIs(t, auth.Logout(ctx, u.ID, ""), service.ErrTokenMissing)

	require.NoError(t, auth.Logout(ctx, u.ID, res.AccessToken))
	_, err = auth.Authorize(ctx, res.AccessToken, []domain.Role{domain.RoleUser}, nil)
	require.ErrorIs(t, err, service.ErrTokenInvalid)

	// Logging out an already-revoked token is a no-op.
	require.NoError(t, auth.Logout(ctx, u.ID, res.AccessToken))
}

func TestLogoutAllRevokesEverySession(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	dir := newFakeDirectory()
	u := dir.addUser("u@books.test", "hunter22", domain.RoleUser)

	auth := newTestAuth(t, dir, kv.NewMemory())
	require.NoError(t, auth.Cache.RefreshAll(ctx))

	first, err := auth.Login(ctx, "u@books.test", "hunter22")
	require.NoError(t, err)
	second, err := auth.Login(ctx, "u@books.test", "hunter22")
	require.NoError(t, err)

	require.NoError(t, auth.LogoutAll(ctx, u.ID))

	for _, token := range []string{first.AccessToken, second.AccessToken} {
		_, err := auth.Authorize(ctx, token, []domain.Role{domain.RoleUser}, nil)
		require.ErrorIs(t, err, service.ErrTokenInvalid)
	}
}

func TestAuthorizeRejectsForgedToken(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	auth := newTestAuth(t, newFakeDirectory(), kv.NewMemory())

	for _, token := range []string{"", "not-a-jwt", "a.b.c"} {
		_, err := auth.Authorize(ctx, token, []domain.Role{domain.RoleUser}, nil)
		require.ErrorIs(t, err, service.ErrTokenInvalid)
	}
}

func TestAuthorizeDeniesIdentityAbsentFromCache(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	dir := newFakeDirectory()
	dir.addUser("u@books.test", "hunter22", domain.RoleUser)

	// No RefreshAll: the cache has never heard of this identity.
	auth := newTestAuth(t, dir, kv.NewMemory())

	res, err := auth.Login(ctx, "u@books.test", "hunter22")
	require.NoError(t, err)

	_, err = auth.Authorize(ctx, res.AccessToken, []domain.Role{domain.RoleUser}, nil)
	require.ErrorIs(t, err, service.ErrUnauthorized)
}

func TestAuthorizeStoreScope(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	dir := newFakeDirectory()
	mgr := dir.addUser("mgr@books.test", "hunter22", domain.RoleStoreManager)
	dir.addUser("admin@books.test", "hunter22", domain.RoleAdmin)
	dir.addStore(5, "City Books")
	dir.addStore(9, "Airport Books")
	dir.assignManager(mgr.ID, 5)

	auth := newTestAuth(t, dir, kv.NewMemory())
	require.NoError(t, auth.Cache.RefreshAll(ctx))

	roles := []domain.Role{domain.RoleAdmin, domain.RoleStoreManager}

	mgrLogin, err := auth.Login(ctx, "mgr@books.test", "hunter22")
	require.NoError(t, err)

	id, err := auth.Authorize(ctx, mgrLogin.AccessToken, roles, &service.ScopeCheck{StoreID: 5})
	require.NoError(t, err)
	require.Equal(t, []int64{5}, id.StoreIDs)

	_, err = auth.Authorize(ctx, mgrLogin.AccessToken, roles, &service.ScopeCheck{StoreID: 9})
	require.ErrorIs(t, err, service.ErrUnauthorized)

	// A scope check against a store the directory has never heard of denies
	// regardless of role.
	_, err = auth.Authorize(ctx, mgrLogin.AccessToken, roles, &service.ScopeCheck{StoreID: 404})
	require.ErrorIs(t, err, service.ErrUnauthorized)

	adminLogin, err := auth.Login(ctx, "admin@books.test", "hunter22")
	require.NoError(t, err)

	// Admins pass scoped checks on any known store.
	_, err = auth.Authorize(ctx, adminLogin.AccessToken, roles, &service.ScopeCheck{StoreID: 9})
	require.NoError(t, err)
}
