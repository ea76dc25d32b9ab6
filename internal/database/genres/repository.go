// Package genres provides read-only database operations for literary genres.
//
// Genres are reference data; this package exposes no write operations.
// Reads never return a bare error: they return a result.Result so callers
// can tell an empty table apart from a failed query.
//
// # Usage
//
//	repo := genres.NewRepository(db, logger)
//	res := repo.GetGenreByID(ctx, 3)
package genres

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/udb/authordirectory/internal/database"
	"github.com/udb/authordirectory/internal/entities"
	"github.com/udb/authordirectory/internal/logging"
	"github.com/udb/authordirectory/internal/result"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Question)

// Repository handles all genre database operations.
type Repository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewRepository creates a new genres repository.
func NewRepository(db *gorm.DB, logger *zap.Logger) *Repository {
	return &Repository{db: db, logger: logging.OrNop(logger).Named("genres")}
}

// ListGenres returns all genres in insertion order.
func (r *Repository) ListGenres(ctx context.Context) result.Result[[]entities.LiteraryGenre] {
	var genres []entities.LiteraryGenre
	err := database.WithSession(ctx, r.db, func(tx *gorm.DB) error {
		return tx.Order("id ASC").Find(&genres).Error
	})
	if err != nil {
		r.logger.Error("list genres failed", zap.Error(err))
		return result.Failed[[]entities.LiteraryGenre](err)
	}
	if len(genres) == 0 {
		return result.Empty[[]entities.LiteraryGenre]()
	}
	return result.Found(genres)
}

// GetGenreByID looks a genre up by primary key.
func (r *Repository) GetGenreByID(ctx context.Context, id uint) result.Result[entities.LiteraryGenre] {
	var genre entities.LiteraryGenre
	err := database.WithSession(ctx, r.db, func(tx *gorm.DB) error {
		return tx.First(&genre, id).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return result.Empty[entities.LiteraryGenre]()
	}
	if err != nil {
		r.logger.Error("get genre failed", zap.Uint("genre_id", id), zap.Error(err))
		return result.Failed[entities.LiteraryGenre](err)
	}
	return result.Found(genre)
}

// GenreStats counts authors per genre, including genres nobody references.
func (r *Repository) GenreStats(ctx context.Context) result.Result[[]entities.GenreStat] {
	query, args, err := psql.
		Select("g.id AS genre_id", "g.name AS genre_name", "COUNT(a.id) AS author_count").
		From("genre g").
		LeftJoin("author a ON a.genre_id = g.id").
		GroupBy("g.id", "g.name").
		OrderBy("g.id ASC").
		ToSql()
	if err != nil {
		r.logger.Error("build genre stats query failed", zap.Error(err))
		return result.Failed[[]entities.GenreStat](err)
	}

	var stats []entities.GenreStat
	err = database.WithSession(ctx, r.db, func(tx *gorm.DB) error {
		return tx.Raw(query, args...).Scan(&stats).Error
	})
	if err != nil {
		r.logger.Error("genre stats failed", zap.Error(err))
		return result.Failed[[]entities.GenreStat](err)
	}
	if len(stats) == 0 {
		return result.Empty[[]entities.GenreStat]()
	}
	return result.Found(stats)
}
