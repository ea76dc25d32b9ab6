package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/udb/authordirectory/internal/audit"
	"github.com/udb/authordirectory/internal/config"
	"github.com/udb/authordirectory/internal/database"
	dbaudit "github.com/udb/authordirectory/internal/database/audit"
)

// SeedGenresCommand adds the genres listed in a YAML file that are not yet
// in the database. Unlike startup seeding it also runs on a non-empty table.
type SeedGenresCommand struct {
	File         string
	DatabasePath string
	LogLevel     string

	Out io.Writer
}

func NewSeedGenresCommand(cfg *config.Config) *SeedGenresCommand {
	return &SeedGenresCommand{
		File:         cfg.Genres.SeedFile,
		DatabasePath: cfg.Database.Path,
		LogLevel:     cfg.Database.LogLevel,
		Out:          os.Stdout,
	}
}

func (cmd *SeedGenresCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("seed-genres", flag.ContinueOnError)

	fs.StringVar(&cmd.File, "file", cmd.File, "YAML file with a 'genres' list (default: built-in genres)")
	fs.StringVar(&cmd.DatabasePath, "db", cmd.DatabasePath, "Path to the database file")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s seed-genres [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Add missing genres to the directory database.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s seed-genres -file genres.yaml\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s seed-genres -db ./author-directory.db\n", os.Args[0])
	}

	return fs.Parse(args)
}

func (cmd *SeedGenresCommand) Run() error {
	names, err := database.LoadGenreSeed(cmd.File)
	if err != nil {
		return err
	}

	db, err := database.NewDatabase(cmd.DatabasePath, cmd.LogLevel, nil)
	if err != nil {
		return err
	}
	defer db.Close()

	auditService := audit.NewService(dbaudit.NewRepository(db.DB), nil)
	ctx := audit.WithRequestInfo(context.Background(), audit.RequestInfo{Actor: audit.ActorCLI})

	created, err := db.SeedGenres(names)
	auditService.LogGenreSeed(ctx, created, err)
	if err != nil {
		return fmt.Errorf("failed to seed genres: %w", err)
	}

	fmt.Fprintf(cmd.Out, "Seeded %d new genres (%d listed)\n", created, len(names))
	return nil
}
