package authors

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/udb/authordirectory/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, *gorm.DB) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "authors.db")

	db, err := gorm.Open(sqlite.Open(dbPath+"?_foreign_keys=on"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entities.LiteraryGenre{}, &entities.Author{}))

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})

	return NewRepository(db, nil), db
}

func createGenre(t *testing.T, db *gorm.DB, name string) entities.LiteraryGenre {
	t.Helper()
	genre := entities.LiteraryGenre{Name: name}
	require.NoError(t, db.Create(&genre).Error)
	return genre
}

func TestRepository_SaveAndGet(t *testing.T) {
	ctx := context.Background()
	repo, db := setupTestDB(t)
	novel := createGenre(t, db, "Novel")
	birth := time.Date(1935, time.May, 14, 0, 0, 0, 0, time.UTC)

	author := entities.Author{
		Name:      "Roque Dalton",
		Phone:     "7123-4567",
		BirthDate: &birth,
		GenreID:   &novel.ID,
	}
	require.NoError(t, repo.Save(ctx, &author))
	assert.NotZero(t, author.ID)

	res := repo.GetAuthorByID(ctx, author.ID)
	require.True(t, res.OK())
	got := res.Value()
	assert.Equal(t, "Roque Dalton", got.Name)
	assert.Equal(t, "7123-4567", got.Phone)
	require.NotNil(t, got.Genre)
	assert.Equal(t, "Novel", got.Genre.Name)
	require.NotNil(t, got.BirthDate)
	assert.Equal(t, "1935-05-14", got.BirthDateString())
}

func TestRepository_SaveAllowsDuplicateNames(t *testing.T) {
	ctx := context.Background()
	repo, _ := setupTestDB(t)

	first := entities.Author{Name: "Claudia Lars"}
	second := entities.Author{Name: "Claudia Lars"}
	require.NoError(t, repo.Save(ctx, &first))
	require.NoError(t, repo.Save(ctx, &second))

	assert.NotEqual(t, first.ID, second.ID)
	res := repo.ListAuthors(ctx)
	require.True(t, res.OK())
	assert.Len(t, res.Value(), 2)
}

func TestRepository_ListAuthors(t *testing.T) {
	ctx := context.Background()

	t.Run("empty", func(t *testing.T) {
		repo, _ := setupTestDB(t)
		res := repo.ListAuthors(ctx)
		assert.True(t, res.IsEmpty())
	})

	t.Run("failed after close", func(t *testing.T) {
		repo, db := setupTestDB(t)
		sqlDB, _ := db.DB()
		require.NoError(t, sqlDB.Close())

		res := repo.ListAuthors(ctx)
		assert.True(t, res.Failed())
	})
}

func TestRepository_ListAuthorsByGenre(t *testing.T) {
	ctx := context.Background()
	repo, db := setupTestDB(t)
	novel := createGenre(t, db, "Novel")
	poetry := createGenre(t, db, "Poetry")

	require.NoError(t, repo.Save(ctx, &entities.Author{Name: "A", GenreID: &novel.ID}))
	require.NoError(t, repo.Save(ctx, &entities.Author{Name: "B", GenreID: &poetry.ID}))
	require.NoError(t, repo.Save(ctx, &entities.Author{Name: "C", GenreID: &novel.ID}))
	require.NoError(t, repo.Save(ctx, &entities.Author{Name: "D"}))

	res := repo.ListAuthorsByGenre(ctx, novel.ID)
	require.True(t, res.OK())
	names := []string{}
	for _, a := range res.Value() {
		names = append(names, a.Name)
		assert.Equal(t, "Novel", a.GenreName())
	}
	assert.Equal(t, []string{"A", "C"}, names)

	none := repo.ListAuthorsByGenre(ctx, 999)
	assert.True(t, none.IsEmpty())
}

func TestRepository_FindByName(t *testing.T) {
	ctx := context.Background()
	repo, _ := setupTestDB(t)
	require.NoError(t, repo.Save(ctx, &entities.Author{Name: "Salarrué"}))

	found := repo.FindByName(ctx, "Salarrué")
	require.True(t, found.OK())
	assert.Equal(t, "Salarrué", found.Value().Name)

	missing := repo.FindByName(ctx, "salarrué")
	assert.True(t, missing.IsEmpty())
}

func TestRepository_Update(t *testing.T) {
	ctx := context.Background()
	repo, db := setupTestDB(t)
	drama := createGenre(t, db, "Drama")

	author := entities.Author{Name: "Old", Phone: "2123-4567", GenreID: &drama.ID}
	require.NoError(t, repo.Save(ctx, &author))

	author.Name = "New"
	author.Phone = ""
	author.GenreID = nil
	require.NoError(t, repo.Update(ctx, &author))

	res := repo.GetAuthorByID(ctx, author.ID)
	require.True(t, res.OK())
	assert.Equal(t, "New", res.Value().Name)
	assert.Empty(t, res.Value().Phone)
	assert.Nil(t, res.Value().GenreID)
	assert.Equal(t, "", res.Value().GenreName())
}

func TestRepository_Delete(t *testing.T) {
	ctx := context.Background()
	repo, _ := setupTestDB(t)

	author := entities.Author{Name: "Gone"}
	require.NoError(t, repo.Save(ctx, &author))

	removed, err := repo.Delete(ctx, author)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.True(t, repo.GetAuthorByID(ctx, author.ID).IsEmpty())

	// Deleting again is a silent no-op
	removed, err = repo.Delete(ctx, author)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestRepository_WriteFailsAfterClose(t *testing.T) {
	ctx := context.Background()
	repo, db := setupTestDB(t)
	sqlDB, _ := db.DB()
	require.NoError(t, sqlDB.Close())

	assert.Error(t, repo.Save(ctx, &entities.Author{Name: "X"}))
	_, err := repo.Delete(ctx, entities.Author{ID: 1})
	assert.Error(t, err)
}
