package entrypoint

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/udb/authordirectory/internal/audit"
	"github.com/udb/authordirectory/internal/auth"
	"github.com/udb/authordirectory/internal/config"
	"github.com/udb/authordirectory/internal/database"
	dbaudit "github.com/udb/authordirectory/internal/database/audit"
	"github.com/udb/authordirectory/internal/database/authors"
	"github.com/udb/authordirectory/internal/database/genres"
	"github.com/udb/authordirectory/internal/directory"
	http_controllers "github.com/udb/authordirectory/internal/http"
	"github.com/udb/authordirectory/internal/logging"
)

// App holds everything the server needs between startup and shutdown.
type App struct {
	DB     *database.Database
	Router *gin.Engine
	Logger *zap.Logger
}

// Close releases the database pool. Call it once the server has stopped.
func (a *App) Close() error {
	return a.DB.Close()
}

// Build opens the store, seeds genres and wires every component into a
// router. The database is open on success and must be closed with Close.
func Build(cfg *config.Config, version string, logger *zap.Logger) (*App, error) {
	logger = logging.OrNop(logger)

	db, err := database.NewDatabase(cfg.Database.Path, cfg.Database.LogLevel, logger)
	if err != nil {
		return nil, err
	}

	app, err := wire(cfg, version, logger, db)
	if err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logger.Warn("failed to close database", zap.Error(closeErr))
		}
		return nil, err
	}
	return app, nil
}

func wire(cfg *config.Config, version string, logger *zap.Logger, db *database.Database) (*App, error) {
	auditService := audit.NewService(dbaudit.NewRepository(db.DB), logger)

	if err := seedGenres(cfg, db, auditService, logger); err != nil {
		return nil, err
	}

	authService := auth.NewService(cfg.Auth)
	if err := authService.Validate(); err != nil {
		return nil, fmt.Errorf("invalid auth configuration: %w", err)
	}
	if authService.IsAuthEnabled() {
		logger.Info("authentication mode: local, saving and deleting require the editor password")
	} else {
		logger.Info("authentication mode: none, the directory is open to everyone")
	}

	sqlDB, err := db.DB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get SQL DB for sessions: %w", err)
	}
	sessionManager, err := auth.NewSessionManager(sqlDB, cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize session manager: %w", err)
	}

	if cfg.Auth.SessionSecret == "" {
		logger.Info("generated CSRF key, set AUTH_SESSION_SECRET to keep forms valid across restarts")
	}
	csrfSecret, err := auth.DecodeSessionSecret(cfg.Auth.SessionSecret)
	if err != nil {
		return nil, fmt.Errorf("invalid AUTH_SESSION_SECRET: %w", err)
	}

	templates, err := http_controllers.LoadTemplates(cfg.UI.TemplatesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load templates from %s: %w", cfg.UI.TemplatesPath, err)
	}

	authorsRepo := authors.NewRepository(db.DB, logger)
	genresRepo := genres.NewRepository(db.DB, logger)

	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		Directory:          directory.NewController(authorsRepo, genresRepo, auditService, logger),
		Authors:            authorsRepo,
		Genres:             genresRepo,
		AuditEvents:        auditService,
		Database:           db,
		Logger:             logger,
		SessionManager:     sessionManager,
		AuthService:        authService,
		AuthConfig:         cfg.Auth,
		LoginAuditor:       auditService,
		CSRFSecret:         csrfSecret,
		SecureCookies:      cfg.Auth.SecureCookies,
		CORSAllowedOrigins: cfg.CORS.AllowedOrigins,
		TemplatesPath:      cfg.UI.TemplatesPath,
		StaticPath:         cfg.UI.StaticPath,
		Templates:          templates,
		Version:            version,
	})

	return &App{DB: db, Router: router, Logger: logger}, nil
}

// seedGenres fills an empty genre table from GENRES_SEED_FILE or the
// built-in list. Existing genres are never touched.
func seedGenres(cfg *config.Config, db *database.Database, auditService *audit.Service, logger *zap.Logger) error {
	names, err := database.LoadGenreSeed(cfg.Genres.SeedFile)
	if err != nil {
		return err
	}

	created, err := db.SeedGenresIfEmpty(names)
	ctx := audit.WithRequestInfo(context.Background(), audit.RequestInfo{Actor: audit.ActorSystem})
	if err != nil {
		auditService.LogGenreSeed(ctx, 0, err)
		return fmt.Errorf("failed to seed genres: %w", err)
	}
	if created > 0 {
		logger.Info("seeded genres", zap.Int("created", created))
		auditService.LogGenreSeed(ctx, created, nil)
	}
	return nil
}

// Serve runs the HTTP server until SIGINT or SIGTERM, then shuts it down
// within the configured timeout.
func Serve(router http.Handler, cfg *config.Config, logger *zap.Logger) error {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("starting server", zap.String("addr", srv.Addr))
		// service connections
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// kill (no param) default send syscall.SIGTERM
	// kill -2 is syscall.SIGINT
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err, ok := <-serveErr:
		if ok {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-quit:
	}
	logger.Info("shutting down server", zap.Duration("timeout", timeout))

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("server exiting")
	return nil
}

func Run(cfg *config.Config, version string) {
	logger, err := logging.New(cfg.Logging)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("starting author directory", zap.String("version", version))
	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	app, err := Build(cfg, version, logger)
	if err != nil {
		logger.Fatal("failed to start", zap.Error(err))
	}

	serveErr := Serve(app.Router, cfg, logger)

	if err := app.Close(); err != nil {
		logger.Error("error closing database", zap.Error(err))
	}
	if serveErr != nil {
		logger.Fatal("server stopped", zap.Error(serveErr))
	}
}
