package auth

import (
	"github.com/gin-gonic/gin"

	"github.com/udb/authordirectory/internal/audit"
	"github.com/udb/authordirectory/internal/config"
)

// Context keys for auth data
const (
	ContextKeyEditor  = "auth_editor"
	ContextKeyCanEdit = "auth_can_edit"
)

// Middleware resolves who is making the request and whether they may
// change the directory.
type Middleware struct {
	sessionManager *SessionManager
	config         config.Auth
}

// NewMiddleware creates a new authentication middleware.
func NewMiddleware(sessionManager *SessionManager, cfg config.Auth) *Middleware {
	return &Middleware{
		sessionManager: sessionManager,
		config:         cfg,
	}
}

// Handler returns a Gin middleware that sets the editor flags on the Gin
// context and attaches audit request details to the request context.
// It never blocks a request; handlers decide with CanEdit.
func (m *Middleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		editor := false
		if m.sessionManager != nil && m.config.Mode == config.AuthModeLocal {
			editor = m.sessionManager.IsEditor(c.Request)
		}
		canEdit := m.config.Mode != config.AuthModeLocal || editor

		c.Set(ContextKeyEditor, editor)
		c.Set(ContextKeyCanEdit, canEdit)

		actor := audit.ActorAnonymous
		if editor {
			actor = audit.ActorEditor
		}
		ctx := audit.WithRequestInfo(c.Request.Context(), audit.RequestInfo{
			Actor:     actor,
			IPAddress: c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
		})
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// IsEditor returns true if the request comes from a logged-in editor.
func IsEditor(c *gin.Context) bool {
	return c.GetBool(ContextKeyEditor)
}

// CanEdit returns true if the request may save or delete authors. Without
// the middleware nobody can edit.
func CanEdit(c *gin.Context) bool {
	return c.GetBool(ContextKeyCanEdit)
}
