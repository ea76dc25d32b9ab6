package auth

import (
	"context"
	"errors"
	"html/template"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/udb/authordirectory/internal/logging"
)

const defaultAfterLogin = "/authors"

// isLocalPath validates that a redirect path is local to prevent open redirect attacks.
// Returns true if the path is safe for redirect (local path only).
func isLocalPath(path string) bool {
	if path == "" {
		return false
	}

	// Must start with /
	if !strings.HasPrefix(path, "/") {
		return false
	}

	// Reject protocol-relative URLs (//evil.com)
	if strings.HasPrefix(path, "//") {
		return false
	}

	// Reject URLs with schemes
	if strings.Contains(path, "://") {
		return false
	}

	// Reject paths with backslashes (potential bypass attempts)
	if strings.Contains(path, "\\") {
		return false
	}

	return true
}

// sanitizeRedirectPath returns a safe redirect path, defaulting to the
// directory page if invalid.
func sanitizeRedirectPath(path string) string {
	if isLocalPath(path) {
		return path
	}
	return defaultAfterLogin
}

// LoginAuditor records login attempts.
type LoginAuditor interface {
	LogAuth(ctx context.Context, action string, success bool)
}

// AuthController handles the editor login endpoints.
type AuthController struct {
	service        *Service
	sessionManager *SessionManager
	templates      *template.Template
	rateLimiter    *RateLimiter
	auditor        LoginAuditor
	logger         *zap.Logger
}

// NewAuthController creates a new authentication controller. Templates are
// read from templatesPath/auth; without them the handlers answer in JSON.
func NewAuthController(service *Service, sessionManager *SessionManager, templatesPath string, auditor LoginAuditor, logger *zap.Logger) *AuthController {
	var tmpl *template.Template
	if templatesPath != "" {
		pattern := filepath.Join(templatesPath, "auth", "*.html")
		if parsed, err := template.ParseGlob(pattern); err == nil {
			tmpl = parsed
		}
	}

	return &AuthController{
		service:        service,
		sessionManager: sessionManager,
		templates:      tmpl,
		rateLimiter:    NewRateLimiter(DefaultRateLimitConfig()),
		auditor:        auditor,
		logger:         logging.OrNop(logger).Named("auth"),
	}
}

// RegisterRoutes registers authentication routes on the router.
func (ac *AuthController) RegisterRoutes(router gin.IRoutes) {
	router.GET("/login", ac.LoginPage)
	router.POST("/login", ac.Login)
	router.POST("/logout", ac.Logout)
}

func (ac *AuthController) logAuth(c *gin.Context, action string, success bool) {
	if ac.auditor != nil {
		ac.auditor.LogAuth(c.Request.Context(), action, success)
	}
}

// LoginPage renders the login form.
func (ac *AuthController) LoginPage(c *gin.Context) {
	if ac.sessionManager != nil && ac.sessionManager.IsEditor(c.Request) {
		c.Redirect(http.StatusFound, defaultAfterLogin)
		return
	}

	ac.renderTemplate(c, http.StatusOK, "login.html", gin.H{
		"Title":     "Editor login",
		"Next":      sanitizeRedirectPath(c.Query("next")),
		"CSRFToken": GetCSRFToken(c),
		"Error":     c.Query("error"),
	})
}

// Login handles the login form submission.
func (ac *AuthController) Login(c *gin.Context) {
	password := c.PostForm("password")
	next := sanitizeRedirectPath(c.PostForm("next"))
	clientIP := c.ClientIP()

	fail := func(status int, msg string) {
		ac.renderTemplate(c, status, "login.html", gin.H{
			"Title":     "Editor login",
			"Next":      next,
			"CSRFToken": GetCSRFToken(c),
			"Error":     msg,
		})
	}

	if allowed, retryAfter := ac.rateLimiter.Allow(clientIP); !allowed {
		c.Header("Retry-After", strconv.Itoa(int(retryAfter.Seconds())))
		fail(http.StatusTooManyRequests, "Too many login attempts. Please try again later.")
		return
	}

	if err := ac.service.Authenticate(password); err != nil {
		ac.rateLimiter.RecordFailure(clientIP)
		ac.logAuth(c, "login_failed", false)
		if !errors.Is(err, ErrInvalidPassword) && !errors.Is(err, ErrPasswordRequired) {
			ac.logger.Warn("editor login unavailable", zap.Error(err))
		}
		fail(http.StatusUnauthorized, "Invalid password")
		return
	}
	ac.rateLimiter.RecordSuccess(clientIP)

	if err := ac.sessionManager.LoginEditor(c.Request); err != nil {
		ac.logger.Error("failed to create editor session", zap.Error(err))
		fail(http.StatusInternalServerError, "Failed to create session")
		return
	}
	ac.logAuth(c, "login", true)

	c.Redirect(http.StatusFound, next)
}

// Logout destroys the session and returns to the directory.
func (ac *AuthController) Logout(c *gin.Context) {
	if ac.sessionManager != nil {
		if err := ac.sessionManager.Logout(c.Request); err != nil {
			ac.logger.Warn("failed to destroy session", zap.Error(err))
		}
	}
	ac.logAuth(c, "logout", true)
	c.Redirect(http.StatusFound, defaultAfterLogin)
}

// renderTemplate renders an auth template or falls back to JSON.
func (ac *AuthController) renderTemplate(c *gin.Context, status int, name string, data gin.H) {
	if ac.templates == nil {
		c.JSON(status, data)
		return
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(status)
	if err := ac.templates.ExecuteTemplate(c.Writer, name, data); err != nil {
		ac.logger.Error("template error", zap.String("template", name), zap.Error(err))
	}
}
