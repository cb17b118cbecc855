package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	httpapi "github.com/bioisac/admindesk/internal/admin/http"
	"github.com/bioisac/admindesk/internal/admin/service"
	"github.com/bioisac/admindesk/internal/admin/store"
	redisstore "github.com/bioisac/admindesk/internal/admin/store/drivers/redis"
	"github.com/bioisac/admindesk/pkg/cryptox"
	"github.com/bioisac/admindesk/pkg/httpx"
	"github.com/bioisac/admindesk/pkg/slogx"
)

// BuildVersion is overridden at build time with
// -ldflags "-X github.com/bioisac/admindesk/internal/admin/app.BuildVersion=...".
var BuildVersion = "v0.1.0"

// Application wires the admin desk service together.
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db     store.Store
	redis  goredis.UniversalClient // nil unless SESSION_BACKEND=redis
	hasher *cryptox.MultiHasher

	// Services
	authenticator       *service.Authenticator
	sessionManager      *service.SessionManager
	loginFlow           *service.LoginFlow
	contactService      *service.ContactService
	notificationService *service.NotificationService
	bootstrapService    *service.BootstrapService
	housekeepingService *service.HousekeepingService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// Option adjusts an Application before its dependencies are built.
type Option func(*Application)

// WithLogger replaces the logger New would build from the config.
func WithLogger(l *slog.Logger) Option {
	return func(app *Application) { app.logger = l }
}

// New creates a new Application instance with all dependencies initialized
// and the default administrator seeded.
func New(cfg Config, opts ...Option) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	app := &Application{cfg: cfg}
	for _, o := range opts {
		o(app)
	}
	if app.logger == nil {
		app.logger = slogx.New(slogx.Config{
			Service: "admindesk",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		})
	}

	ctx := slogx.WithContext(context.Background(), app.logger)

	if err := app.initDatabase(ctx); err != nil {
		return nil, err
	}
	if err := app.initSessions(ctx); err != nil {
		_ = app.Close()
		return nil, err
	}
	if err := app.initServices(); err != nil {
		_ = app.Close()
		return nil, err
	}
	if err := app.seedAdmin(ctx); err != nil {
		_ = app.Close()
		return nil, err
	}
	app.initHTTP()

	return app, nil
}

// Handler is the application's HTTP handler with all middleware applied.
func (app *Application) Handler() http.Handler {
	return app.router
}

// Run starts the application and blocks until SIGINT/SIGTERM or a server
// failure.
func (app *Application) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app.housekeepingService.Start(ctx)

	app.logger.Info("admindesk starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		app.housekeepingService.Stop()
		_ = app.Close()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		app.logger.Info("shutdown signal received")
		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down a running application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down admindesk...")

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

	// Stop the housekeeping service
	app.housekeepingService.Stop()

	if err := app.Close(); err != nil {
		return err
	}

	app.logger.Info("admindesk stopped")
	return nil
}

// Close releases the database and redis connections.
func (app *Application) Close() error {
	var errs []error
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error("error closing redis", "error", err)
			errs = append(errs, err)
		}
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database", "error", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// initDatabase opens the store named by DATABASE_URL and applies migrations
func (app *Application) initDatabase(ctx context.Context) error {
	dbCfg, err := ParseDatabaseURL(app.cfg.DatabaseURL)
	if err != nil {
		return err
	}

	db, err := openStore(ctx, dbCfg)
	if err != nil {
		return err
	}
	app.db = db

	app.logger.Info("database migrations applied successfully", "database", dbCfg.String())
	return nil
}

// initSessions moves session storage to redis when configured
func (app *Application) initSessions(ctx context.Context) error {
	if app.cfg.SessionBackend != SessionBackendRedis {
		return nil
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:     app.cfg.RedisAddr,
		Password: app.cfg.RedisPassword,
		DB:       app.cfg.RedisDB,
	})
	app.redis = rdb

	sessions := redisstore.NewSessions(rdb, "")
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := sessions.Ping(pingCtx); err != nil {
		return fmt.Errorf("failed to connect to redis at %s: %w", app.cfg.RedisAddr, err)
	}

	app.db = store.WithSessions(app.db, sessions)
	app.logger.Info("sessions stored in redis", "addr", app.cfg.RedisAddr, "db", app.cfg.RedisDB)
	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices() error {
	pepper, err := cryptox.LoadOrGeneratePepper(app.cfg.PepperFile)
	if err != nil {
		return fmt.Errorf("failed to load pepper: %w", err)
	}
	hasher, err := cryptox.NewHasher(app.cfg.PasswordScheme, pepper)
	if err != nil {
		return err
	}
	app.hasher = hasher
	if strings.EqualFold(app.cfg.PasswordScheme, cryptox.SchemeSHA256) {
		app.logger.Warn("legacy unsalted sha256 password hashing is enabled")
	}

	app.authenticator = &service.Authenticator{
		Store:  app.db,
		Hasher: hasher,
		Issuer: app.cfg.TOTPIssuer,
	}
	app.sessionManager = &service.SessionManager{
		Store: app.db,
		TTL:   app.cfg.SessionTTL,
	}

	verify, err := service.NewCodeVerifier(app.cfg.TwoFactorPolicy, app.authenticator)
	if err != nil {
		return err
	}
	if strings.EqualFold(app.cfg.TwoFactorPolicy, service.PolicyAcceptAny) {
		app.logger.Warn("two-factor codes are not checked; any non-empty code is accepted",
			"policy", service.PolicyAcceptAny)
	}
	app.loginFlow = &service.LoginFlow{
		Auth:       app.authenticator,
		Sessions:   app.sessionManager,
		VerifyCode: verify,
	}

	app.contactService = &service.ContactService{Store: app.db}
	app.notificationService = &service.NotificationService{
		Store:      app.db,
		Dispatcher: service.LogDispatcher{Logger: app.logger},
	}
	app.bootstrapService = &service.BootstrapService{
		Store:    app.db,
		Hasher:   hasher,
		Username: app.cfg.DefaultAdminUsername,
		Password: app.cfg.DefaultAdminPassword,
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
	return nil
}

func (app *Application) seedAdmin(ctx context.Context) error {
	if _, err := app.bootstrapService.SeedDefaultAdmin(ctx); err != nil {
		return fmt.Errorf("failed to seed default admin: %w", err)
	}
	return nil
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(BuildVersion, app.db, app.logger)

	cors := httpx.DefaultCORSConfig()
	cors.AllowedOrigins = app.cfg.CORSAllowedOrigins
	router.Use(httpx.CORS(cors))

	// Wire services to router
	router.LoginFlow = app.loginFlow
	router.SessionManager = app.sessionManager
	router.ContactService = app.contactService
	router.NotificationService = app.notificationService
	router.ApplyRoutes()

	app.router = router

	// Initialize HTTP server
	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
