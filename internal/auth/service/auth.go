package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/bookstore/internal/auth/domain"
	"github.com/aussiebroadwan/bookstore/internal/auth/kv"
	"github.com/aussiebroadwan/bookstore/internal/auth/store"
	"github.com/aussiebroadwan/bookstore/pkg/jwtx"
	"github.com/aussiebroadwan/bookstore/pkg/slogx"
)

// AuthService is the facade the transport layer talks to. It composes the
// credential verifier, token issuer, session store, identity cache, and
// decision engine into the four operations collaborators call.
type AuthService struct {
	Credentials *CredentialService
	Sessions    *SessionService
	Cache       *SnapshotCache
	Directory   store.Directory

	Signer   jwtx.Signer
	Verifier jwtx.Verifier
	Issuer   string

	// TokenTTL is the signed expiry on issued tokens. Defaults to
	// jwtx.DefaultAccessTokenTTL when zero.
	TokenTTL time.Duration
}

func (s *AuthService) tokenTTL() time.Duration {
	if s.TokenTTL > 0 {
		return s.TokenTTL
	}
	return jwtx.DefaultAccessTokenTTL
}

// Login verifies credentials, issues a token, and registers it as an active
// session. If registration fails the login fails whole: a token the session
// layer doesn't know about is never handed out.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.LoginResult, error) {
	l := slogx.FromContext(ctx)

	u, err := s.Credentials.Verify(ctx, email, password)
	if err != nil {
		return domain.LoginResult{}, err
	}

	claims := jwtx.NewAccessClaims(u.ID, u.Email, u.Role.String(), s.tokenTTL(), s.Issuer, time.Now())
	token, err := s.Signer.Sign(claims)
	if err != nil {
		return domain.LoginResult{}, fmt.Errorf("signing access token: %w", err)
	}

	if err := s.Sessions.Register(ctx, u.ID, token); err != nil {
		return domain.LoginResult{}, fmt.Errorf("registering session: %w", err)
	}

	l.Info("login successful", "user_id", u.ID)
	return domain.LoginResult{AccessToken: token, User: u.Summary()}, nil
}

// Logout revokes the presented token for the identity. A missing token is
// ErrTokenMissing; revoking a token that is already gone is a no-op.
func (s *AuthService) Logout(ctx context.Context, userID int64, token string) error {
	if token == "" {
		return ErrTokenMissing
	}
	if err := s.Sessions.RevokeOne(ctx, userID, token); err != nil {
		return err
	}

	slogx.FromContext(ctx).Info("logout", "user_id", userID)
	return nil
}

// LogoutAll revokes every active session for the identity.
func (s *AuthService) LogoutAll(ctx context.Context, userID int64) error {
	if err := s.Sessions.RevokeAll(ctx, userID); err != nil {
		return err
	}

	slogx.FromContext(ctx).Info("logout all devices", "user_id", userID)
	return nil
}

// Authorize runs the full protected-request path: token signature and expiry,
// session membership (which re-arms the sliding TTL), identity cache lookup,
// then the decision engine. Signature failure, expiry, and a revoked session
// all surface as the same ErrTokenInvalid; a cache miss and a decision deny
// both surface as ErrUnauthorized.
func (s *AuthService) Authorize(
	ctx context.Context,
	token string,
	requiredRoles []domain.Role,
	scope *ScopeCheck,
) (domain.AuthorizedIdentity, error) {
	l := slogx.FromContext(ctx)

	claims, err := s.Verifier.Verify(token)
	if err != nil {
		l.Debug("token verification failed", "err", err)
		return domain.AuthorizedIdentity{}, ErrTokenInvalid
	}

	userID, err := claims.UserID()
	if err != nil {
		return domain.AuthorizedIdentity{}, ErrTokenInvalid
	}

	active, err := s.Sessions.IsActive(ctx, userID, token)
	if err != nil {
		return domain.AuthorizedIdentity{}, err
	}
	if !active {
		l.Debug("token not in session store", "user_id", userID)
		return domain.AuthorizedIdentity{}, ErrTokenInvalid
	}

	snap, err := s.Cache.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			l.Warn("identity absent from cache", "user_id", userID)
			return domain.AuthorizedIdentity{}, ErrUnauthorized
		}
		return domain.AuthorizedIdentity{}, err
	}

	// A scope check against a store the resource directory has never heard
	// of is a deny, not an error.
	if scope != nil {
		exists, err := s.Directory.Stores().StoreExists(ctx, scope.StoreID)
		if err != nil {
			return domain.AuthorizedIdentity{}, err
		}
		if !exists {
			l.Info("authorization denied", "user_id", userID, "reason", "unknown store", "store_id", scope.StoreID)
			return domain.AuthorizedIdentity{}, ErrUnauthorized
		}
	}

	if d := Decide(&snap, requiredRoles, scope); !d.Allowed {
		l.Info("authorization denied", "user_id", userID, "reason", d.Reason)
		return domain.AuthorizedIdentity{}, ErrUnauthorized
	}

	return domain.AuthorizedIdentity{
		ID:       snap.ID,
		Email:    claims.Email,
		Role:     snap.Role,
		StoreIDs: snap.StoreIDs,
	}, nil
}
