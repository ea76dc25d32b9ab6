package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udb/authordirectory/internal/auth"
	"github.com/udb/authordirectory/internal/config"
	"github.com/udb/authordirectory/internal/database"
	dbaudit "github.com/udb/authordirectory/internal/database/audit"
	"github.com/udb/authordirectory/internal/entities"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Database: config.Database{
			Path:     filepath.Join(t.TempDir(), "cli.db"),
			LogLevel: "silent",
		},
		Auth:  config.Auth{BcryptCost: 4},
		Audit: config.Audit{RetentionDays: 90},
	}
}

func openDB(t *testing.T, path string) *database.Database {
	t.Helper()
	db, err := database.NewDatabase(path, "silent", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestSeedGenresCommand_Defaults(t *testing.T) {
	cfg := testConfig(t)
	var out bytes.Buffer

	cmd := NewSeedGenresCommand(cfg)
	cmd.Out = &out
	require.NoError(t, cmd.ParseFlags(nil))
	require.NoError(t, cmd.Run())
	assert.Contains(t, out.String(), "Seeded 7 new genres")

	out.Reset()
	require.NoError(t, cmd.Run())
	assert.Contains(t, out.String(), "Seeded 0 new genres")

	db := openDB(t, cfg.Database.Path)
	var count int64
	require.NoError(t, db.DB.Model(&entities.LiteraryGenre{}).Count(&count).Error)
	assert.Equal(t, int64(len(database.DefaultGenres)), count)

	events, total, err := dbaudit.NewRepository(db.DB).GetEvents(context.Background(), dbaudit.Filter{EventType: entities.AuditEventSeed}, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, "cli", events[0].Actor)
}

func TestSeedGenresCommand_FileAddsMissingOnly(t *testing.T) {
	cfg := testConfig(t)
	seedFile := filepath.Join(t.TempDir(), "genres.yaml")
	require.NoError(t, os.WriteFile(seedFile, []byte("genres:\n  - Novel\n  - Fable\n"), 0o600))

	first := NewSeedGenresCommand(cfg)
	first.Out = &bytes.Buffer{}
	require.NoError(t, first.ParseFlags(nil))
	require.NoError(t, first.Run())

	var out bytes.Buffer
	cmd := NewSeedGenresCommand(cfg)
	cmd.Out = &out
	require.NoError(t, cmd.ParseFlags([]string{"-file", seedFile}))
	require.NoError(t, cmd.Run())
	assert.Contains(t, out.String(), "Seeded 1 new genres (2 listed)")
}

func TestSeedGenresCommand_MissingFile(t *testing.T) {
	cmd := NewSeedGenresCommand(testConfig(t))
	require.NoError(t, cmd.ParseFlags([]string{"-file", "/nonexistent/genres.yaml"}))
	assert.Error(t, cmd.Run())
}

func TestAuditCleanupCommand(t *testing.T) {
	cfg := testConfig(t)
	ctx := context.Background()

	db := openDB(t, cfg.Database.Path)
	repo := dbaudit.NewRepository(db.DB)
	now := time.Now()
	require.NoError(t, repo.LogEvent(ctx, &entities.AuditEvent{
		EventType: entities.AuditEventCreate,
		Action:    "author_create",
		Status:    entities.AuditStatusSuccess,
		CreatedAt: now.Add(-10 * 24 * time.Hour),
	}))
	require.NoError(t, repo.LogEvent(ctx, &entities.AuditEvent{
		EventType: entities.AuditEventCreate,
		Action:    "author_create",
		Status:    entities.AuditStatusSuccess,
		CreatedAt: now.Add(-time.Hour),
	}))

	var out bytes.Buffer
	cmd := NewAuditCleanupCommand(cfg)
	cmd.Out = &out
	require.NoError(t, cmd.ParseFlags([]string{"-days", "7"}))
	require.NoError(t, cmd.Run())
	assert.Contains(t, out.String(), "Deleted 1 audit events older than 7 days and 0 expired sessions")

	_, total, err := repo.GetEvents(ctx, dbaudit.Filter{}, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestAuditCleanupCommand_RejectsNonPositiveDays(t *testing.T) {
	cmd := NewAuditCleanupCommand(testConfig(t))
	assert.Error(t, cmd.ParseFlags([]string{"-days", "0"}))
}

func TestHashPasswordCommand(t *testing.T) {
	var out bytes.Buffer
	cmd := NewHashPasswordCommand(testConfig(t))
	cmd.In = strings.NewReader("correct-horse-battery\n")
	cmd.Out = &out
	require.NoError(t, cmd.ParseFlags(nil))
	require.NoError(t, cmd.Run())

	hash := strings.TrimSpace(out.String())
	assert.True(t, strings.HasPrefix(hash, "$2a$04$"), hash)
	assert.NoError(t, auth.CheckPassword("correct-horse-battery", hash))
}

func TestHashPasswordCommand_NoTrailingNewline(t *testing.T) {
	var out bytes.Buffer
	cmd := NewHashPasswordCommand(testConfig(t))
	cmd.In = strings.NewReader("correct-horse-battery")
	cmd.Out = &out
	require.NoError(t, cmd.Run())
	assert.NoError(t, auth.CheckPassword("correct-horse-battery", strings.TrimSpace(out.String())))
}

func TestHashPasswordCommand_TooShort(t *testing.T) {
	cmd := NewHashPasswordCommand(testConfig(t))
	cmd.In = strings.NewReader("short\n")
	cmd.Out = &bytes.Buffer{}
	assert.ErrorIs(t, cmd.Run(), auth.ErrPasswordTooShort)
}
