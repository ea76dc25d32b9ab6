package auth

import (
	"errors"
	"fmt"

	"github.com/udb/authordirectory/internal/config"
)

var (
	ErrAuthDisabled     = errors.New("editor login is disabled")
	ErrNoEditorPassword = errors.New("no editor password hash configured")
	ErrPasswordRequired = errors.New("password is required")
	ErrUnknownAuthMode  = errors.New("unknown auth mode")
)

// Service checks editor credentials. The directory has a single editor
// role guarded by one bcrypt password hash.
type Service struct {
	config config.Auth
}

// NewService creates a new authentication service.
func NewService(cfg config.Auth) *Service {
	return &Service{config: cfg}
}

// IsAuthEnabled reports whether write actions require an editor login.
func (s *Service) IsAuthEnabled() bool {
	return s.config.Mode == config.AuthModeLocal
}

// Authenticate checks password against the configured editor hash.
func (s *Service) Authenticate(password string) error {
	if !s.IsAuthEnabled() {
		return ErrAuthDisabled
	}
	if s.config.EditorPasswordHash == "" {
		return ErrNoEditorPassword
	}
	if password == "" {
		return ErrPasswordRequired
	}
	return CheckPassword(password, s.config.EditorPasswordHash)
}

// Validate reports configuration problems that should stop startup.
func (s *Service) Validate() error {
	switch s.config.Mode {
	case config.AuthModeNone, config.AuthModeLocal:
	default:
		return fmt.Errorf("%w %q: use %q or %q", ErrUnknownAuthMode, s.config.Mode, config.AuthModeNone, config.AuthModeLocal)
	}
	if s.IsAuthEnabled() && s.config.EditorPasswordHash == "" {
		return ErrNoEditorPassword
	}
	return nil
}
