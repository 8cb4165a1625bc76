package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/vincejv/fpi-login-api/internal/login/http"
	"github.com/vincejv/fpi-login-api/internal/login/service"
	"github.com/vincejv/fpi-login-api/internal/login/store"
	"github.com/vincejv/fpi-login-api/internal/login/store/drivers/sqlite"
	"github.com/vincejv/fpi-login-api/pkg/authz"
	"github.com/vincejv/fpi-login-api/pkg/cryptox"
	"github.com/vincejv/fpi-login-api/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the login service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db     store.Store
	issuer *authz.Client
	hasher cryptox.Hasher

	trustedService *service.TrustedLoginService
	loginService   *service.LoginService
	userService    *service.UserService

	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "login-service",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if cfg.TokenURL == "" {
		return nil, errors.New("AUTHZ_TOKEN_URL is required")
	}
	if cfg.TrustedKey == "" {
		return nil, errors.New("TRUSTED_KEY is required")
	}

	app.hasher = cryptox.NewHasher(cfg.BcryptCost)
	app.issuer = &authz.Client{
		TokenURL:     cfg.TokenURL,
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.logger.Info("login service starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
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
	app.logger.Info("shutting down login service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("login service stopped")
	return nil
}

func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s", app.cfg.DatabaseFile)
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

func (app *Application) initServices() {
	app.trustedService = &service.TrustedLoginService{
		Store:       app.db,
		Issuer:      app.issuer,
		Hasher:      app.hasher,
		TrustedKey:  app.cfg.TrustedKey,
		GracePeriod: app.cfg.SessionGracePeriod,
	}
	app.loginService = &service.LoginService{
		Store:       app.db,
		Issuer:      app.issuer,
		Hasher:      app.hasher,
		GracePeriod: app.cfg.SessionGracePeriod,
	}
	app.userService = &service.UserService{Store: app.db}
}

func (app *Application) initHTTP() {
	router := httpapi.NewRouter(app.cfg.TrustedKey, BuildVersion, app.db, app.logger)

	router.TrustedService = app.trustedService
	router.LoginService = app.loginService
	router.UserService = app.userService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
