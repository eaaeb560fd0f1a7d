package http

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/bookstore/internal/auth/kv"
	"github.com/aussiebroadwan/bookstore/internal/auth/service"
	"github.com/aussiebroadwan/bookstore/internal/auth/store"
	"github.com/aussiebroadwan/bookstore/pkg/httpx"
	"github.com/aussiebroadwan/bookstore/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	directory store.Directory
	kv        kv.Client

	AuthService *service.AuthService
	Cache       *service.SnapshotCache
}

func NewRouter(
	buildVersion string,
	directory store.Directory,
	kvClient kv.Client,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		directory:    directory,
		kv:           kvClient,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerAdmin()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	// POST /login - strict rate limit (authentication attempts)
	loginHandler := &LoginHandler{AuthService: r.AuthService}
	r.Mux.Handle("POST /v1/auth/login",
		httpx.Chain(loginHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	logoutHandler := &LogoutHandler{AuthService: r.AuthService}

	// POST /logout - moderate rate limit (revokes the presented token)
	r.Mux.Handle("POST /v1/auth/logout",
		httpx.Chain(http.HandlerFunc(logoutHandler.HandleOne),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	// POST /logout_all - moderate rate limit (revokes every session)
	r.Mux.Handle("POST /v1/auth/logout_all",
		httpx.Chain(http.HandlerFunc(logoutHandler.HandleAll),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	// POST /authorize - lenient rate limit (sits on the hot path of every
	// protected request made by the other services)
	authorizeHandler := &AuthorizeHandler{AuthService: r.AuthService}
	r.Mux.Handle("POST /v1/auth/authorize",
		httpx.Chain(authorizeHandler,
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerAdmin() {
	// POST /refresh_cache - admin only, moderate rate limit
	refreshHandler := &RefreshCacheHandler{
		AuthService: r.AuthService,
		Cache:       r.Cache,
	}
	r.Mux.Handle("POST /v1/auth/refresh_cache",
		httpx.Chain(refreshHandler,
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.directory, r.kv),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

// writeServiceError maps facade errors onto HTTP responses. Anything outside
// the known taxonomy is a 500 with a generic body.
func writeServiceError(w http.ResponseWriter, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		httpx.WriteError(w, http.StatusUnauthorized, service.ErrInvalidCredentials.Error())
	case errors.Is(err, service.ErrTokenMissing):
		httpx.WriteError(w, http.StatusUnauthorized, service.ErrTokenMissing.Error())
	case errors.Is(err, service.ErrTokenInvalid):
		httpx.WriteError(w, http.StatusUnauthorized, service.ErrTokenInvalid.Error())
	case errors.Is(err, service.ErrUnauthorized):
		httpx.WriteError(w, http.StatusForbidden, service.ErrUnauthorized.Error())
	default:
		log.Error("unexpected service error", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error")
	}
}
