package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/aussiebroadwan/bookstore/internal/auth/http"
	"github.com/aussiebroadwan/bookstore/internal/auth/kv"
	"github.com/aussiebroadwan/bookstore/internal/auth/service"
	"github.com/aussiebroadwan/bookstore/internal/auth/store"
	"github.com/aussiebroadwan/bookstore/internal/auth/store/drivers/sqlite"
	"github.com/aussiebroadwan/bookstore/pkg/cryptox"
	"github.com/aussiebroadwan/bookstore/pkg/jwtx"
	"github.com/aussiebroadwan/bookstore/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the auth service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db store.Directory
	kv kv.Client

	// Services
	authService *service.AuthService
	cache       *service.SnapshotCache

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized.
// A missing or weak JWT secret is fatal here: the service must never come up
// able to mint unverifiable tokens.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "auth-service",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	// Set pepper path for password hashing
	cryptox.SetPepperPath(app.cfg.PepperFile)

	signer, verifier, err := jwtx.NewHS256([]byte(cfg.JWTSecret), cfg.Issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token signer: %w", err)
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	if err := app.initKV(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	app.initServices(signer, verifier)

	// Populate the identity cache before serving: until the first refresh
	// every identity is unknown and every authorize denies.
	ctx := slogx.WithContext(context.Background(), app.logger)
	if err := app.cache.RefreshAll(ctx); err != nil {
		_ = app.kv.Close()
		_ = app.db.Close()
		return nil, fmt.Errorf("failed to warm identity cache: %w", err)
	}

	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.logger.Info("auth service starting", "port", app.cfg.Port, "version", BuildVersion)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a shutdown signal or server error
	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down auth service...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	// Shutdown the HTTP server
	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if err := app.kv.Close(); err != nil {
		app.logger.Error("error closing key-value store", "error", err)
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("auth service stopped")
	return nil
}

// initDatabase initializes the user directory and applies migrations.
func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

// initKV connects the shared key-value backend. The memory driver exists for
// local development and tests; production runs Redis.
func (app *Application) initKV() error {
	switch app.cfg.KVDriver {
	case "memory":
		app.kv = kv.NewMemory()
		app.logger.Warn("using in-memory key-value store, sessions will not survive restarts")
		return nil
	case "redis":
		client, err := kv.NewRedis(kv.RedisConfig{
			Addr:     app.cfg.RedisAddr,
			Password: app.cfg.RedisPassword,
			DB:       app.cfg.RedisDB,
		})
		if err != nil {
			return fmt.Errorf("failed to connect key-value store: %w", err)
		}
		app.kv = client
		return nil
	default:
		return fmt.Errorf("unknown key-value driver %q", app.cfg.KVDriver)
	}
}

// initServices wires up the business logic services.
func (app *Application) initServices(signer jwtx.Signer, verifier jwtx.Verifier) {
	app.cache = &service.SnapshotCache{
		KV:        app.kv,
		Directory: app.db,
	}

	app.authService = &service.AuthService{
		Credentials: &service.CredentialService{Directory: app.db},
		Sessions: &service.SessionService{
			KV:       app.kv,
			TTL:      app.cfg.SessionTTL,
			Capacity: app.cfg.SessionCapacity,
		},
		Cache:     app.cache,
		Directory: app.db,
		Signer:    signer,
		Verifier:  verifier,
		Issuer:    app.cfg.Issuer,
		TokenTTL:  app.cfg.TokenTTL,
	}
}

// initHTTP initializes the HTTP router and server.
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(BuildVersion, app.db, app.kv, app.logger)

	router.AuthService = app.authService
	router.Cache = app.cache
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
