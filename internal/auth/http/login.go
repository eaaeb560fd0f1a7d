package http

import (
	"encoding/json"
	"net/http"

	"github.com/aussiebroadwan/bookstore/internal/auth/service"
	"github.com/aussiebroadwan/bookstore/pkg/httpx"
	"github.com/aussiebroadwan/bookstore/pkg/slogx"
)

type LoginHandler struct {
	AuthService *service.AuthService
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string        `json:"access_token"`
	TokenType   string        `json:"token_type"`
	User        loginUserInfo `json:"user"`
}

type loginUserInfo struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// ServeHTTP handles the login endpoint. Credential failures come back as a
// single 401 invalid_credentials regardless of which check failed.
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	if req.Email == "" || req.Password == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request")
		return
	}

	result, err := h.AuthService.Login(ctx, req.Email, req.Password)
	if err != nil {
		writeServiceError(w, log, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, loginResponse{
		AccessToken: result.AccessToken,
		TokenType:   "Bearer",
		User: loginUserInfo{
			ID:    result.User.ID,
			Email: result.User.Email,
			Role:  result.User.Role.String(),
		},
	})
}
