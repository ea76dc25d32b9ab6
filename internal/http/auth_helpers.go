package http

import (
	"github.com/gin-gonic/gin"

	"github.com/udb/authordirectory/internal/auth"
	"github.com/udb/authordirectory/internal/config"
)

const authTemplateDataKey = "auth_template_data"

// AuthTemplateData holds authentication info for templates.
type AuthTemplateData struct {
	Enabled   bool   // Whether auth is enabled (AuthModeLocal)
	Editor    bool   // Whether an editor is logged in
	CanEdit   bool   // Whether save and delete are allowed
	CSRFToken string // CSRF token for forms
}

// AuthContextMiddleware injects authentication data into Gin context for templates.
// Templates can access auth data via .Auth in the template data. It must
// run after the auth and CSRF middlewares.
func AuthContextMiddleware(authMode config.AuthMode) gin.HandlerFunc {
	authEnabled := authMode == config.AuthModeLocal

	return func(c *gin.Context) {
		c.Set(authTemplateDataKey, AuthTemplateData{
			Enabled:   authEnabled,
			Editor:    auth.IsEditor(c),
			CanEdit:   auth.CanEdit(c),
			CSRFToken: auth.GetCSRFToken(c),
		})
		c.Next()
	}
}

// GetAuthTemplateData retrieves auth data from context for use in templates.
func GetAuthTemplateData(c *gin.Context) AuthTemplateData {
	if data, exists := c.Get(authTemplateDataKey); exists {
		if authData, ok := data.(AuthTemplateData); ok {
			return authData
		}
	}
	return AuthTemplateData{}
}
