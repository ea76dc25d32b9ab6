package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/udb/authordirectory/internal/audit"
	"github.com/udb/authordirectory/internal/auth"
	"github.com/udb/authordirectory/internal/database"
	"github.com/udb/authordirectory/internal/database/authors"
	"github.com/udb/authordirectory/internal/database/genres"
	"github.com/udb/authordirectory/internal/directory"
	"github.com/udb/authordirectory/internal/http"
)

// =============================================================================
// Data Access Layer
// =============================================================================

// Author store implementations
var _ directory.AuthorService = (*authors.Repository)(nil)
var _ http.AuthorReader = (*authors.Repository)(nil)

// Genre store implementations
var _ directory.GenreService = (*genres.Repository)(nil)
var _ http.GenreReader = (*genres.Repository)(nil)

// Health checks
var _ http.Pinger = (*database.Database)(nil)

// =============================================================================
// Sessions
// =============================================================================

// ViewStore implementations
var _ http.ViewStore = (*auth.SessionManager)(nil)

// =============================================================================
// Audit Trail
// =============================================================================

var _ directory.Auditor = (*audit.Service)(nil)
var _ auth.LoginAuditor = (*audit.Service)(nil)
var _ http.AuditReader = (*audit.Service)(nil)
