package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/udb/authordirectory/internal/audit"
	"github.com/udb/authordirectory/internal/auth"
	"github.com/udb/authordirectory/internal/config"
	"github.com/udb/authordirectory/internal/database"
	dbaudit "github.com/udb/authordirectory/internal/database/audit"
)

// AuditCleanupCommand removes audit events older than the retention period
// and session rows past their expiry. It is meant to run from cron; the
// server itself never cleans up in the background.
type AuditCleanupCommand struct {
	Days         int
	DatabasePath string
	LogLevel     string

	Out io.Writer
}

func NewAuditCleanupCommand(cfg *config.Config) *AuditCleanupCommand {
	return &AuditCleanupCommand{
		Days:         cfg.Audit.RetentionDays,
		DatabasePath: cfg.Database.Path,
		LogLevel:     cfg.Database.LogLevel,
		Out:          os.Stdout,
	}
}

func (cmd *AuditCleanupCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("audit-cleanup", flag.ContinueOnError)

	fs.IntVar(&cmd.Days, "days", cmd.Days, "Keep audit events from the last N days")
	fs.StringVar(&cmd.DatabasePath, "db", cmd.DatabasePath, "Path to the database file")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s audit-cleanup [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Delete old audit events and expired sessions.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if cmd.Days < 1 {
		return fmt.Errorf("days must be at least 1, got %d", cmd.Days)
	}
	return nil
}

func (cmd *AuditCleanupCommand) Run() error {
	db, err := database.NewDatabase(cmd.DatabasePath, cmd.LogLevel, nil)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := context.Background()
	auditService := audit.NewService(dbaudit.NewRepository(db.DB), nil)

	events, err := auditService.DeleteOldEvents(ctx, time.Duration(cmd.Days)*24*time.Hour)
	if err != nil {
		return fmt.Errorf("failed to delete audit events: %w", err)
	}

	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	if err := auth.EnsureSessionStore(sqlDB); err != nil {
		return fmt.Errorf("failed to prepare session store: %w", err)
	}
	sessions, err := auth.PurgeExpiredSessions(ctx, sqlDB)
	if err != nil {
		return fmt.Errorf("failed to purge sessions: %w", err)
	}

	fmt.Fprintf(cmd.Out, "Deleted %d audit events older than %d days and %d expired sessions\n", events, cmd.Days, sessions)
	return nil
}
