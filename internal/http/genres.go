package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/udb/authordirectory/internal/logging"
)

type GenresController struct {
	genres GenreReader
	logger *zap.Logger
}

func NewGenresController(genres GenreReader, logger *zap.Logger) *GenresController {
	return &GenresController{
		genres: genres,
		logger: logging.OrNop(logger).Named("api"),
	}
}

// ListGenres returns every genre.
// GET /api/genres
func (gc *GenresController) ListGenres(c *gin.Context) {
	res := gc.genres.ListGenres(c.Request.Context())
	if res.Failed() {
		respondInternalError(c, gc.logger, res.Err(), "list genres")
		return
	}
	respondList(c, res.Value())
}

// GetGenre returns one genre.
// GET /api/genres/:id
func (gc *GenresController) GetGenre(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	res := gc.genres.GetGenreByID(c.Request.Context(), id)
	switch {
	case res.Failed():
		respondInternalError(c, gc.logger, res.Err(), "get genre")
	case res.IsEmpty():
		respondNotFound(c, "genre")
	default:
		c.JSON(http.StatusOK, res.Value())
	}
}

// GenreStats returns the number of authors per genre.
// GET /api/genres/stats
func (gc *GenresController) GenreStats(c *gin.Context) {
	res := gc.genres.GenreStats(c.Request.Context())
	if res.Failed() {
		respondInternalError(c, gc.logger, res.Err(), "genre stats")
		return
	}
	respondList(c, res.Value())
}
