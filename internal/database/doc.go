// Package database provides the persistence access layer for the directory.
//
// # Architecture
//
//	database/
//	├── database.go      # Connection setup, migrations, session/transaction helpers
//	├── seed.go          # Genre reference data seeding
//	├── genres/          # Read-only genre operations
//	├── authors/         # Author CRUD operations
//	└── audit/           # Audit event storage
//
// # Sessions and transactions
//
// Reads run through WithSession, writes through WithTransaction:
//
//	err := database.WithTransaction(ctx, db, func(tx *gorm.DB) error {
//		return tx.Create(author).Error
//	})
//
// WithTransaction commits when the callback returns nil and rolls back on
// an error or panic.
//
// # Lifecycle
//
// NewDatabase is called once at process start and Close once at exit.
// There is no lazy initialisation; repositories receive the opened *gorm.DB.
//
// # Adding a New Domain
//
//  1. Create a new sub-package: internal/database/<domain>/
//  2. Define a Repository struct with a *gorm.DB field
//  3. Add NewRepository(db *gorm.DB, logger *zap.Logger) constructor
//  4. Add a compile-time interface check in internal/interfaces
package database
