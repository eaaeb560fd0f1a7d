package service

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/bookstore/internal/auth/domain"
	"github.com/aussiebroadwan/bookstore/internal/auth/store"
	"github.com/aussiebroadwan/bookstore/pkg/cryptox"
	"github.com/aussiebroadwan/bookstore/pkg/slogx"
)

// CredentialService validates email/password pairs against the user
// directory. It is stateless and safe for concurrent use.
type CredentialService struct {
	Directory store.Directory
}

// Verify looks the user up by email and checks the password against the
// stored hash. Unknown email and wrong password both come back as
// ErrInvalidCredentials so the result can't be used for user enumeration.
func (s *CredentialService) Verify(ctx context.Context, email, password string) (domain.User, error) {
	l := slogx.FromContext(ctx)

	u, err := s.Directory.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			l.Info("login failed: unknown email", "email", email)
			return domain.User{}, ErrInvalidCredentials
		}
		return domain.User{}, err
	}

	if err := cryptox.VerifyPassword(password, u.PasswordHash); err != nil {
		l.Info("login failed: password mismatch", "user_id", u.ID)
		return domain.User{}, ErrInvalidCredentials
	}

	return u, nil
}
