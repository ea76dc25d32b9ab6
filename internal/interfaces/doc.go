// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Data Access Interfaces
//
//   - AuthorService: Author reads and writes behind the page (internal/directory/controller.go)
//   - GenreService: Read-only genre lookups (internal/directory/controller.go)
//   - AuthorReader, GenreReader: JSON API reads (internal/http/stores.go)
//   - Pinger: Database health check (internal/http/stores.go)
//
// Reads return result.Result so callers can tell "no rows" from a failed
// query without inspecting the error.
//
// ## Session Interfaces
//
//   - ViewStore: Per-visit page state kept in the session (internal/http/directory.go)
//
// ## Audit Interfaces
//
//   - Auditor: Author create, update and delete events (internal/directory/controller.go)
//   - LoginAuditor: Editor login and logout (internal/auth/handlers.go)
//   - AuditReader: Paginated audit queries (internal/http/stores.go)
//
// # Adding a New Database Domain
//
// To add a new data domain (e.g., publishers):
//
//  1. Create sub-package: internal/database/publishers/
//
//  2. Define repository:
//
//     type Repository struct { db *gorm.DB }
//
//     func NewRepository(db *gorm.DB, logger *zap.Logger) *Repository
//
//  3. Register the entity in database.NewDatabase's AutoMigrate call
//
//  4. Add compile-time check:
//
//     var _ http.PublisherReader = (*publishers.Repository)(nil)
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces. This catches missing methods at compile time rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go for the full list.
package interfaces
