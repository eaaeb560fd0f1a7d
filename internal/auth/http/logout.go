package http

import (
	"net/http"

	"github.com/aussiebroadwan/bookstore/internal/auth/service"
	"github.com/aussiebroadwan/bookstore/pkg/httpx"
	"github.com/aussiebroadwan/bookstore/pkg/slogx"
)

type LogoutHandler struct {
	AuthService *service.AuthService
}

// identityFromBearer verifies the bearer token far enough to know which
// identity it belongs to. Revocation does not require an active session, only
// a validly signed token, so a just-evicted token can still log itself out.
func (h *LogoutHandler) identityFromBearer(r *http.Request) (int64, string, error) {
	token, ok := httpx.BearerToken(r)
	if !ok {
		return 0, "", service.ErrTokenMissing
	}

	claims, err := h.AuthService.Verifier.Verify(token)
	if err != nil {
		return 0, "", service.ErrTokenInvalid
	}

	userID, err := claims.UserID()
	if err != nil {
		return 0, "", service.ErrTokenInvalid
	}
	return userID, token, nil
}

// HandleOne revokes the presented token only. Other sessions stay active.
func (h *LogoutHandler) HandleOne(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID, token, err := h.identityFromBearer(r)
	if err != nil {
		writeServiceError(w, log, err)
		return
	}

	if err := h.AuthService.Logout(ctx, userID, token); err != nil {
		writeServiceError(w, log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleAll revokes every active session for the identity behind the token.
func (h *LogoutHandler) HandleAll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID, _, err := h.identityFromBearer(r)
	if err != nil {
		writeServiceError(w, log, err)
		return
	}

	if err := h.AuthService.LogoutAll(ctx, userID); err != nil {
		writeServiceError(w, log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
