package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/udb/authordirectory/internal/entities"
	"github.com/udb/authordirectory/internal/logging"
	"github.com/udb/authordirectory/internal/result"
	"github.com/udb/authordirectory/internal/validation"
)

type AuthorsController struct {
	authors AuthorReader
	logger  *zap.Logger
}

func NewAuthorsController(authors AuthorReader, logger *zap.Logger) *AuthorsController {
	return &AuthorsController{
		authors: authors,
		logger:  logging.OrNop(logger).Named("api"),
	}
}

// ListAuthors returns all authors, or those of one genre with ?genre_id=.
// GET /api/authors
func (ac *AuthorsController) ListAuthors(c *gin.Context) {
	genreID, ok := parseOptionalQueryID(c, "genre_id")
	if !ok {
		return
	}

	var res result.Result[[]entities.Author]
	if genreID == 0 {
		res = ac.authors.ListAuthors(c.Request.Context())
	} else {
		res = ac.authors.ListAuthorsByGenre(c.Request.Context(), genreID)
	}
	if res.Failed() {
		respondInternalError(c, ac.logger, res.Err(), "list authors")
		return
	}
	respondList(c, res.Value())
}

// GetAuthor returns one author.
// GET /api/authors/:id
func (ac *AuthorsController) GetAuthor(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	ac.respondAuthor(c, ac.authors.GetAuthorByID(c.Request.Context(), id), "get author")
}

// LookupAuthor finds an author by exact name. With duplicate names any one
// of them is returned.
// GET /api/authors/lookup?name=
func (ac *AuthorsController) LookupAuthor(c *gin.Context) {
	name := strings.TrimSpace(c.Query("name"))
	if name == "" {
		respondBadRequest(c, "name is required")
		return
	}
	ac.respondAuthor(c, ac.authors.FindByName(c.Request.Context(), name), "lookup author")
}

func (ac *AuthorsController) respondAuthor(c *gin.Context, res result.Result[entities.Author], context string) {
	switch {
	case res.Failed():
		respondInternalError(c, ac.logger, res.Err(), context)
	case res.IsEmpty():
		respondNotFound(c, "author")
	default:
		c.JSON(http.StatusOK, res.Value())
	}
}

// PhoneValidationResponse is the answer of the phone check endpoint.
type PhoneValidationResponse struct {
	Phone   string `json:"phone"`
	Valid   bool   `json:"valid"`
	Summary string `json:"summary,omitempty"`
	Detail  string `json:"detail,omitempty"`
}

// ValidatePhone checks a phone number against the directory's format.
// An empty number is valid because the field is optional.
// GET /api/phone/validate?phone=
func (ac *AuthorsController) ValidatePhone(c *gin.Context) {
	phone := c.Query("phone")
	resp := PhoneValidationResponse{Phone: phone, Valid: true}
	if err := validation.ValidatePhone(phone); err != nil {
		resp.Valid = false
		resp.Summary = validation.PhoneSummary
		resp.Detail = validation.PhoneDetail
	}
	c.JSON(http.StatusOK, resp)
}
