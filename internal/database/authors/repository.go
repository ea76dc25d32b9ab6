// Package authors provides database operations for the author directory.
//
// Reads return a result.Result; writes run in a transaction and return an
// error as their only failure signal. Duplicate names are allowed: the
// store enforces no uniqueness on author name.
//
// # Usage
//
//	repo := authors.NewRepository(db, logger)
//	if err := repo.Save(ctx, &author); err != nil { ... }
package authors

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/udb/authordirectory/internal/database"
	"github.com/udb/authordirectory/internal/entities"
	"github.com/udb/authordirectory/internal/logging"
	"github.com/udb/authordirectory/internal/result"
)

// Repository handles all author database operations.
type Repository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewRepository creates a new authors repository.
func NewRepository(db *gorm.DB, logger *zap.Logger) *Repository {
	return &Repository{db: db, logger: logging.OrNop(logger).Named("authors")}
}

func (r *Repository) list(ctx context.Context, scope func(*gorm.DB) *gorm.DB) result.Result[[]entities.Author] {
	var authors []entities.Author
	err := database.WithSession(ctx, r.db, func(tx *gorm.DB) error {
		return scope(tx.Preload("Genre")).Order("id ASC").Find(&authors).Error
	})
	if err != nil {
		return result.Failed[[]entities.Author](err)
	}
	if len(authors) == 0 {
		return result.Empty[[]entities.Author]()
	}
	return result.Found(authors)
}

// ListAuthors returns every author with its genre loaded.
func (r *Repository) ListAuthors(ctx context.Context) result.Result[[]entities.Author] {
	res := r.list(ctx, func(tx *gorm.DB) *gorm.DB { return tx })
	if res.Failed() {
		r.logger.Error("list authors failed", zap.Error(res.Err()))
	}
	return res
}

// ListAuthorsByGenre returns the authors whose genre id equals genreID.
func (r *Repository) ListAuthorsByGenre(ctx context.Context, genreID uint) result.Result[[]entities.Author] {
	res := r.list(ctx, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("genre_id = ?", genreID)
	})
	if res.Failed() {
		r.logger.Error("list authors by genre failed", zap.Uint("genre_id", genreID), zap.Error(res.Err()))
	}
	return res
}

// GetAuthorByID looks an author up by primary key.
func (r *Repository) GetAuthorByID(ctx context.Context, id uint) result.Result[entities.Author] {
	var author entities.Author
	err := database.WithSession(ctx, r.db, func(tx *gorm.DB) error {
		return tx.Preload("Genre").First(&author, id).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return result.Empty[entities.Author]()
	}
	if err != nil {
		r.logger.Error("get author failed", zap.Uint("author_id", id), zap.Error(err))
		return result.Failed[entities.Author](err)
	}
	return result.Found(author)
}

// FindByName returns an author with exactly this name. When several share
// the name, whichever row the store yields first is returned.
func (r *Repository) FindByName(ctx context.Context, name string) result.Result[entities.Author] {
	var author entities.Author
	err := database.WithSession(ctx, r.db, func(tx *gorm.DB) error {
		return tx.Preload("Genre").Where("name = ?", name).Take(&author).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return result.Empty[entities.Author]()
	}
	if err != nil {
		r.logger.Error("find author by name failed", zap.String("name", name), zap.Error(err))
		return result.Failed[entities.Author](err)
	}
	return result.Found(author)
}

// Save inserts a new author; the store assigns the id.
func (r *Repository) Save(ctx context.Context, author *entities.Author) error {
	err := database.WithTransaction(ctx, r.db, func(tx *gorm.DB) error {
		return tx.Omit("Genre").Create(author).Error
	})
	if err != nil {
		r.logger.Error("save author failed", zap.String("name", author.Name), zap.Error(err))
		return fmt.Errorf("save author: %w", err)
	}
	r.logger.Debug("author saved", zap.Uint("author_id", author.ID))
	return nil
}

// Update writes all fields of author by primary key. A row that does not
// exist is inserted, matching the store's upsert semantics.
func (r *Repository) Update(ctx context.Context, author *entities.Author) error {
	err := database.WithTransaction(ctx, r.db, func(tx *gorm.DB) error {
		return tx.Omit("Genre").Save(author).Error
	})
	if err != nil {
		r.logger.Error("update author failed", zap.Uint("author_id", author.ID), zap.Error(err))
		return fmt.Errorf("update author: %w", err)
	}
	r.logger.Debug("author updated", zap.Uint("author_id", author.ID))
	return nil
}

// Delete removes the author with author.ID. A missing row is a no-op.
// The returned bool reports whether a row was removed.
func (r *Repository) Delete(ctx context.Context, author entities.Author) (bool, error) {
	removed := false
	err := database.WithTransaction(ctx, r.db, func(tx *gorm.DB) error {
		var existing entities.Author
		err := tx.First(&existing, author.ID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := tx.Delete(&existing).Error; err != nil {
			return err
		}
		removed = true
		return nil
	})
	if err != nil {
		r.logger.Error("delete author failed", zap.Uint("author_id", author.ID), zap.Error(err))
		return false, fmt.Errorf("delete author: %w", err)
	}
	return removed, nil
}
