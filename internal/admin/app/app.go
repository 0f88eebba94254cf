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

	"github.com/undokids/undokids/internal/admin/blob"
	blobs3 "github.com/undokids/undokids/internal/admin/blob/s3"
	httpapi "github.com/undokids/undokids/internal/admin/http"
	"github.com/undokids/undokids/internal/admin/identity"
	"github.com/undokids/undokids/internal/admin/service"
	"github.com/undokids/undokids/internal/admin/store"
	"github.com/undokids/undokids/internal/admin/store/drivers/sqlite"
	"github.com/undokids/undokids/pkg/slogx"
)

// BuildVersion should be set at build time via ldflags.
const BuildVersion = "v0.1.0"

// Application wires the admin service together.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db       store.Store
	blob     blob.Storage
	identity *identity.HTTPClient
	elevated *identity.LazyAdmin
	verifier *identity.Verifier

	accountService     *service.AccountService
	selfService        *service.SelfService
	tenantService      *service.TenantService
	partnerService     *service.PartnerService
	childService       *service.ChildService
	measurementService *service.MeasurementService
	resultService      *service.ResultService

	server *http.Server
	router *httpapi.Router
}

// New creates an Application with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "admin-service",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if cfg.AuthBaseURL == "" {
		return nil, errors.New("AUTH_BASE_URL is required")
	}
	if cfg.SessionSecret == "" {
		return nil, errors.New("AUTH_SESSION_SECRET is required")
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}
	if err := app.initBlob(); err != nil {
		return nil, err
	}
	app.initIdentity()
	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.logger.Info("admin service starting", "port", app.cfg.Port, "version", BuildVersion)

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

// Shutdown gracefully stops the HTTP server and closes the database.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down admin service...")

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

	app.logger.Info("admin service stopped")
	return nil
}

func (app *Application) initDatabase() error {
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(dsn)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	app.db = db
	return nil
}

func (app *Application) initBlob() error {
	if app.cfg.S3Bucket == "" {
		return errors.New("S3_BUCKET is required")
	}
	client, err := blobs3.New(context.Background(), blobs3.Config{
		Bucket:        app.cfg.S3Bucket,
		Region:        app.cfg.S3Region,
		Endpoint:      app.cfg.S3Endpoint,
		AccessKey:     app.cfg.S3AccessKey,
		SecretKey:     app.cfg.S3SecretKey,
		PathStyle:     app.cfg.S3PathStyle,
		PublicBaseURL: app.cfg.S3PublicBaseURL,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize object storage: %w", err)
	}
	app.blob = client
	return nil
}

func (app *Application) initIdentity() {
	app.identity = identity.NewHTTPClient(app.cfg.AuthBaseURL, app.cfg.AuthAnonKey)
	app.elevated = &identity.LazyAdmin{
		BaseURL:        app.cfg.AuthBaseURL,
		ServiceRoleKey: app.cfg.AuthServiceKey,
	}
	app.verifier = &identity.Verifier{Secret: []byte(app.cfg.SessionSecret)}
}

func (app *Application) initServices() {
	app.accountService = &service.AccountService{Store: app.db, Identity: app.elevated}
	app.selfService = &service.SelfService{Store: app.db, Identity: app.identity, Admin: app.elevated}
	app.tenantService = &service.TenantService{Store: app.db, Blob: app.blob}
	app.partnerService = &service.PartnerService{Store: app.db}
	app.childService = &service.ChildService{Store: app.db}
	app.measurementService = &service.MeasurementService{Store: app.db}
	app.resultService = &service.ResultService{Store: app.db}
}

func (app *Application) initHTTP() {
	router := httpapi.NewRouter(app.verifier, app.identity, BuildVersion, app.db, app.logger)
	router.AccountService = app.accountService
	router.SelfService = app.selfService
	router.TenantService = app.tenantService
	router.PartnerService = app.partnerService
	router.ChildService = app.childService
	router.MeasurementService = app.measurementService
	router.ResultService = app.resultService
	router.ApplyRoutes()

	app.router = router
	app.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", app.cfg.Port),
		Handler: router,
	}
}
