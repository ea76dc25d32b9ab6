package http

import (
	"html/template"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/udb/authordirectory/internal/auth"
	"github.com/udb/authordirectory/internal/directory"
	"github.com/udb/authordirectory/internal/logging"
)

// hstsMaxAge is one year, in seconds.
const hstsMaxAge = 365 * 24 * 60 * 60

// TemplateFuncs are the helpers available to page templates.
var TemplateFuncs = template.FuncMap{
	"severityClass": func(s directory.Severity) string {
		switch s {
		case directory.SeverityError:
			return "msg-error"
		case directory.SeverityWarn:
			return "msg-warn"
		default:
			return "msg-info"
		}
	},
}

// LoadTemplates parses every page template under path.
func LoadTemplates(path string) (*template.Template, error) {
	return template.New("").Funcs(TemplateFuncs).ParseGlob(filepath.Join(path, "*.html"))
}

// NewRouter creates and configures the HTTP router with all endpoints.
// Uses RouterConfig to receive all dependencies, improving testability
// and reducing parameter count.
func NewRouter(cfg RouterConfig) *gin.Engine {
	logger := logging.OrNop(cfg.Logger)

	router := gin.New()
	router.Use(RequestLogger(logger.Named("http")))
	router.Use(Recovery(logger))

	// Apply security headers to all responses
	router.Use(auth.SecurityHeadersMiddleware())
	if cfg.SecureCookies {
		// Secure cookies imply the site is served over HTTPS only
		router.Use(auth.StrictTransportSecurityMiddleware(hstsMaxAge))
	}

	if len(cfg.CORSAllowedOrigins) > 0 {
		router.Use(CORSMiddleware(cfg.CORSAllowedOrigins))
	}

	// CSRF must run before session so that session context is preserved
	if len(cfg.CSRFSecret) > 0 {
		router.Use(auth.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies))
	}

	// Session runs after CSRF so session context isn't overwritten by CSRF's request replacement
	router.Use(cfg.SessionManager.SessionLoadSave())

	authMiddleware := cfg.AuthMiddleware
	if authMiddleware == nil {
		authMiddleware = auth.NewMiddleware(cfg.SessionManager, cfg.AuthConfig)
	}
	router.Use(authMiddleware.Handler())

	// Inject auth data for templates
	router.Use(AuthContextMiddleware(cfg.AuthConfig.Mode))

	tmpl := cfg.Templates
	if tmpl == nil {
		tmpl = template.Must(LoadTemplates(cfg.TemplatesPath))
	}
	router.SetHTMLTemplate(tmpl)

	// Serve static files
	if cfg.StaticPath != "" {
		router.Static("/static", cfg.StaticPath)
	}

	// Register auth routes if auth service is available
	if cfg.AuthService != nil && cfg.AuthService.IsAuthEnabled() {
		authController := auth.NewAuthController(cfg.AuthService, cfg.SessionManager, cfg.TemplatesPath, cfg.LoginAuditor, logger)
		authController.RegisterRoutes(router)
	}

	// Health endpoints
	health := NewHealthController(cfg.Database, cfg.Version)
	router.GET("/health", health.Status)
	router.GET("/ping", health.Ping)

	// Directory page
	page := NewDirectoryController(cfg.Directory, cfg.SessionManager, logger)
	router.GET("/", page.Index)
	router.GET("/authors", page.AuthorsPage)
	router.POST("/authors/save", page.Save)
	router.POST("/authors/reset", page.Reset)
	router.POST("/authors/filter", page.Filter)
	router.POST("/authors/count", page.Count)
	router.POST("/authors/:id/edit", page.Edit)
	router.POST("/authors/:id/delete", page.Delete)

	// Read-only JSON API
	api := router.Group("/api")

	genresController := NewGenresController(cfg.Genres, logger)
	api.GET("/genres", genresController.ListGenres)
	api.GET("/genres/stats", genresController.GenreStats)
	api.GET("/genres/:id", genresController.GetGenre)

	authorsController := NewAuthorsController(cfg.Authors, logger)
	api.GET("/authors", authorsController.ListAuthors)
	api.GET("/authors/lookup", authorsController.LookupAuthor)
	api.GET("/authors/:id", authorsController.GetAuthor)
	api.GET("/phone/validate", authorsController.ValidatePhone)

	if cfg.AuditEvents != nil {
		auditController := NewAuditController(cfg.AuditEvents, logger)
		api.GET("/audit", auditController.GetAuditEvents)
	}

	return router
}
