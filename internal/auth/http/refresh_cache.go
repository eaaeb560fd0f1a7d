package http

import (
	"net/http"

	"github.com/aussiebroadwan/bookstore/internal/auth/domain"
	"github.com/aussiebroadwan/bookstore/internal/auth/service"
	"github.com/aussiebroadwan/bookstore/pkg/httpx"
	"github.com/aussiebroadwan/bookstore/pkg/slogx"
)

type RefreshCacheHandler struct {
	AuthService *service.AuthService
	Cache       *service.SnapshotCache
}

// ServeHTTP rebuilds the identity cache from the user directory. Admin only:
// the cache normally refreshes at startup, this endpoint forces a rebuild
// after out-of-band role or store-assignment changes.
func (h *RefreshCacheHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	token, ok := httpx.BearerToken(r)
	if !ok {
		writeServiceError(w, log, service.ErrTokenMissing)
		return
	}

	if _, err := h.AuthService.Authorize(ctx, token, []domain.Role{domain.RoleAdmin}, nil); err != nil {
		writeServiceError(w, log, err)
		return
	}

	if err := h.Cache.RefreshAll(ctx); err != nil {
		log.Error("identity cache refresh failed", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
