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

	"github.com/aussiebroadwan/bookshelf/internal/catalog/guard"
	httpapi "github.com/aussiebroadwan/bookshelf/internal/catalog/http"
	"github.com/aussiebroadwan/bookshelf/internal/catalog/metrics"
	"github.com/aussiebroadwan/bookshelf/internal/catalog/service"
	"github.com/aussiebroadwan/bookshelf/internal/catalog/store"
	"github.com/aussiebroadwan/bookshelf/internal/catalog/store/drivers/postgres"
	"github.com/aussiebroadwan/bookshelf/internal/catalog/store/drivers/sqlite"
	"github.com/aussiebroadwan/bookshelf/internal/catalog/uow"
	"github.com/aussiebroadwan/bookshelf/pkg/cryptox"
	"github.com/aussiebroadwan/bookshelf/pkg/jwtx"
	"github.com/aussiebroadwan/bookshelf/pkg/slogx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// BuildVersion is overridden at build time with
// -ldflags "-X github.com/aussiebroadwan/bookshelf/internal/catalog/app.BuildVersion=...".
var BuildVersion = "v0.1.0"

// Application encapsulates the catalog service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db       store.Store
	tokens   *jwtx.Service
	hasher   *cryptox.PasswordHasher
	registry *prometheus.Registry
	metrics  *metrics.Metrics

	// Services
	authService      *service.AuthService
	userService      *service.UserService
	genreService     *service.GenreService
	categoryService  *service.CategoryService
	authorService    *service.AuthorService
	bookService      *service.BookService
	reviewService    *service.ReviewService
	favoriteService  *service.FavoriteService
	bootstrapService *service.BootstrapService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates an Application with all dependencies initialized. It applies
// migrations and seeds the first admin when the database has no users.
func New(ctx context.Context, cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "catalog-service",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	pepper, err := cryptox.LoadOrGeneratePepper(cfg.PepperFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load pepper: %w", err)
	}
	app.hasher = cryptox.NewPasswordHasher(pepper)

	app.tokens, err = jwtx.NewService([]byte(cfg.Auth.Secret), cfg.Auth.Algorithm)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token service: %w", err)
	}

	app.registry = prometheus.NewRegistry()
	app.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	app.metrics = metrics.New(app.registry)

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	app.initServices()

	if err := app.seed(ctx); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	app.initHTTP()

	return app, nil
}

// Handler returns the root HTTP handler.
func (app *Application) Handler() http.Handler {
	return app.router
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.logger.Info("catalog service starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

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
	app.logger.Info("shutting down catalog service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	// In-flight requests finish before the database closes.
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

	app.logger.Info("catalog service stopped")
	return nil
}

// initDatabase opens the configured driver and applies migrations.
func (app *Application) initDatabase() error {
	var (
		db  store.Store
		err error
	)
	switch app.cfg.Database.Driver {
	case DriverPostgres:
		db, err = postgres.NewStore(app.cfg.Database.DSN)
	default:
		db, err = sqlite.NewStore(sqlite.DSN(app.cfg.Database.File))
	}
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully", "driver", app.cfg.Database.Driver)
	return nil
}

// initServices initializes all business logic services.
func (app *Application) initServices() {
	writes := &uow.Coordinator{Store: app.db, Metrics: app.metrics}

	app.authService = &service.AuthService{
		Store:   app.db,
		Hasher:  app.hasher,
		Tokens:  app.tokens,
		TTL:     app.cfg.Auth.TokenTTL,
		Metrics: app.metrics,
	}
	app.userService = &service.UserService{Store: app.db, Writes: writes, Hasher: app.hasher}
	app.genreService = &service.GenreService{Store: app.db, Writes: writes}
	app.categoryService = &service.CategoryService{Store: app.db, Writes: writes}
	app.authorService = &service.AuthorService{Store: app.db, Writes: writes}
	app.bookService = &service.BookService{Store: app.db, Writes: writes}
	app.reviewService = &service.ReviewService{Store: app.db, Writes: writes}
	app.favoriteService = &service.FavoriteService{Store: app.db, Writes: writes}
	app.bootstrapService = &service.BootstrapService{
		Store:         app.db,
		Writes:        writes,
		Hasher:        app.hasher,
		AdminUsername: app.cfg.Bootstrap.AdminUsername,
		AdminPassword: app.cfg.Bootstrap.AdminPassword,
	}
}

func (app *Application) seed(ctx context.Context) error {
	ctx = slogx.WithContext(ctx, app.logger)
	created, err := app.bootstrapService.Seed(ctx)
	if err != nil {
		return fmt.Errorf("failed to seed bootstrap admin: %w", err)
	}
	if !created {
		app.logger.Debug("users present, bootstrap skipped")
	}
	return nil
}

// initHTTP initializes the HTTP router and server.
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		BuildVersion,
		app.db,
		&guard.Chain{Tokens: app.tokens, Lookup: app.userService},
		app.cfg.RateLimits,
		app.metrics,
		app.registry,
		app.logger,
	)

	// Wire services to router
	router.AuthService = app.authService
	router.UserService = app.userService
	router.GenreService = app.genreService
	router.CategoryService = app.categoryService
	router.AuthorService = app.authorService
	router.BookService = app.bookService
	router.ReviewService = app.reviewService
	router.FavoriteService = app.favoriteService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
