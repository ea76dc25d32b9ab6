package database

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/udb/authordirectory/internal/entities"
	"github.com/udb/authordirectory/internal/logging"
)

type Database struct {
	DB     *gorm.DB
	logger *zap.Logger
}

// parseLogLevel maps a config string onto the gorm logger levels.
func parseLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

// sqliteDSN enables foreign keys and a busy timeout unless the caller
// already passed connection parameters.
func sqliteDSN(dbPath string) string {
	if strings.Contains(dbPath, "?") {
		return dbPath
	}
	return dbPath + "?_foreign_keys=on&_busy_timeout=5000"
}

// NewDatabase opens the store, migrates the schema and returns a ready pool.
// A failure here is fatal for the caller: nothing works without the store.
// A nil logger discards the package's own log lines; gorm keeps its own
// logger at logLevel.
func NewDatabase(dbPath string, logLevel string, log *zap.Logger) (*Database, error) {
	log = logging.OrNop(log).Named("database")

	db, err := gorm.Open(sqlite.Open(sqliteDSN(dbPath)), &gorm.Config{
		Logger: logger.Default.LogMode(parseLogLevel(logLevel)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	err = db.AutoMigrate(
		&entities.LiteraryGenre{},
		&entities.Author{},
		&entities.AuditEvent{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Info("database initialized", zap.String("path", dbPath))

	return &Database{DB: db, logger: log}, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks that the underlying connection pool can reach the store.
func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// WithSession runs a read operation on a context-bound session.
func (d *Database) WithSession(ctx context.Context, op func(tx *gorm.DB) error) error {
	return WithSession(ctx, d.DB, op)
}

// WithTransaction runs op inside a transaction on the database pool.
func (d *Database) WithTransaction(ctx context.Context, op func(tx *gorm.DB) error) error {
	return WithTransaction(ctx, d.DB, op)
}

// WithSession runs a read operation on a context-bound session of db.
// Reads need no explicit transaction.
func WithSession(ctx context.Context, db *gorm.DB, op func(tx *gorm.DB) error) error {
	return op(db.WithContext(ctx).Session(&gorm.Session{}))
}

// WithTransaction begins a transaction, runs op and commits when op returns
// nil. Any error or panic from op rolls the transaction back; the connection
// goes back to the pool on every path.
func WithTransaction(ctx context.Context, db *gorm.DB, op func(tx *gorm.DB) error) error {
	return db.WithContext(ctx).Transaction(op)
}
