package http

import (
	"encoding/json"
	"net/http"

	"github.com/aussiebroadwan/bookstore/internal/auth/domain"
	"github.com/aussiebroadwan/bookstore/internal/auth/service"
	"github.com/aussiebroadwan/bookstore/pkg/httpx"
	"github.com/aussiebroadwan/bookstore/pkg/slogx"
)

type AuthorizeHandler struct {
	AuthService *service.AuthService
}

type authorizeRequest struct {
	// Roles is the set of roles the protected operation accepts. Empty means
	// any authenticated identity passes.
	Roles []string `json:"roles"`

	// StoreID, when present, additionally requires store-scoped access.
	StoreID *int64 `json:"store_id,omitempty"`
}

type authorizeResponse struct {
	ID       int64   `json:"id"`
	Email    string  `json:"email"`
	Role     string  `json:"role"`
	StoreIDs []int64 `json:"store_ids,omitempty"`
}

// ServeHTTP runs the full authorization check for a bearer token: signature,
// session liveness, identity lookup, role gate, and optional store scope.
func (h *AuthorizeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	token, ok := httpx.BearerToken(r)
	if !ok {
		writeServiceError(w, log, service.ErrTokenMissing)
		return
	}

	var req authorizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request")
		return
	}

	roles := make([]domain.Role, 0, len(req.Roles))
	for _, raw := range req.Roles {
		role := domain.Role(raw)
		if !role.Valid() {
			httpx.WriteError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		roles = append(roles, role)
	}

	var scope *service.ScopeCheck
	if req.StoreID != nil {
		scope = &service.ScopeCheck{StoreID: *req.StoreID}
	}

	identity, err := h.AuthService.Authorize(ctx, token, roles, scope)
	if err != nil {
		writeServiceError(w, log, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authorizeResponse{
		ID:       identity.ID,
		Email:    identity.Email,
		Role:     identity.Role.String(),
		StoreIDs: identity.StoreIDs,
	})
}
