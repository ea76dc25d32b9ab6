package http

import (
	"context"

	"github.com/udb/authordirectory/internal/database/audit"
	"github.com/udb/authordirectory/internal/entities"
	"github.com/udb/authordirectory/internal/result"
)

// This file consolidates the store interfaces used by HTTP controllers.
// Each controller depends on the narrowest reader it needs so tests can
// pass hand-written fakes.

// GenreReader provides read access to genres.
type GenreReader interface {
	ListGenres(ctx context.Context) result.Result[[]entities.LiteraryGenre]
	GetGenreByID(ctx context.Context, id uint) result.Result[entities.LiteraryGenre]
	GenreStats(ctx context.Context) result.Result[[]entities.GenreStat]
}

// AuthorReader provides read access to authors.
type AuthorReader interface {
	ListAuthors(ctx context.Context) result.Result[[]entities.Author]
	ListAuthorsByGenre(ctx context.Context, genreID uint) result.Result[[]entities.Author]
	GetAuthorByID(ctx context.Context, id uint) result.Result[entities.Author]
	FindByName(ctx context.Context, name string) result.Result[entities.Author]
}

// AuditReader provides paginated access to audit events.
type AuditReader interface {
	GetEvents(ctx context.Context, filter audit.Filter, limit, offset int) ([]entities.AuditEvent, int64, error)
}

// Pinger reports whether the store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}
