package http

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/bookstore/internal/auth/kv"
	"github.com/aussiebroadwan/bookstore/internal/auth/store"
	"github.com/aussiebroadwan/bookstore/pkg/httpx"
)

// ReadyzHandler is the readiness probe. It checks both hard dependencies, the
// user directory and the key-value store, and reports 503 if either is down.
func ReadyzHandler(
	startTime time.Time,
	version string,
	directory store.Directory,
	kvClient kv.Client,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &healthChecks{
			Database: "ok",
			KV:       "ok",
		}
		overallStatus := "ok"
		statusCode := http.StatusOK

		if err := directory.Ping(r.Context()); err != nil {
			checks.Database = "error: " + err.Error()
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		if err := kvClient.Ping(r.Context()); err != nil {
			checks.KV = "error: " + err.Error()
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		httpx.WriteJSON(w, statusCode, healthResponse{
			Status:  overallStatus,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		})
	}
}
