package http

import (
	"html/template"

	"go.uber.org/zap"

	"github.com/udb/authordirectory/internal/auth"
	"github.com/udb/authordirectory/internal/config"
	"github.com/udb/authordirectory/internal/directory"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Directory   *directory.Controller
	Authors     AuthorReader
	Genres      GenreReader
	AuditEvents AuditReader
	Database    Pinger
	Logger      *zap.Logger

	// Sessions keep page visits and the editor login
	SessionManager *auth.SessionManager

	// Authentication
	AuthService    *auth.Service
	AuthMiddleware *auth.Middleware // built from SessionManager and AuthConfig when nil
	AuthConfig     config.Auth
	LoginAuditor   auth.LoginAuditor
	CSRFSecret     []byte
	SecureCookies  bool

	// Origins allowed to call the JSON API; empty keeps it same-origin
	CORSAllowedOrigins []string

	// UI paths
	TemplatesPath string
	StaticPath    string

	// Templates overrides TemplatesPath when set
	Templates *template.Template

	// Application info
	Version string
}
