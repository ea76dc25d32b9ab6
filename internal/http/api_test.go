package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udb/authordirectory/internal/config"
	"github.com/udb/authordirectory/internal/entities"
	"github.com/udb/authordirectory/internal/result"
	"github.com/udb/authordirectory/internal/validation"
)

func (s *testServer) getJSON(path string, out any) int {
	rr := s.do(httptest.NewRequest(http.MethodGet, path, nil))
	if out != nil {
		require.NoError(s.t, json.Unmarshal(rr.Body.Bytes(), out), rr.Body.String())
	}
	return rr.Code
}

type genreList struct {
	Data  []entities.LiteraryGenre `json:"data"`
	Count int                      `json:"count"`
}

type authorList struct {
	Data  []entities.Author `json:"data"`
	Count int               `json:"count"`
}

type statList struct {
	Data  []entities.GenreStat `json:"data"`
	Count int                  `json:"count"`
}

func TestAPI_Genres(t *testing.T) {
	s := newTestServer(t, config.AuthModeNone)

	var list genreList
	require.Equal(t, http.StatusOK, s.getJSON("/api/genres", &list))
	assert.Equal(t, 2, list.Count)
	assert.Equal(t, "Novel", list.Data[0].Name)

	var genre entities.LiteraryGenre
	require.Equal(t, http.StatusOK, s.getJSON("/api/genres/2", &genre))
	assert.Equal(t, "Poetry", genre.Name)

	var errResp ErrorResponse
	assert.Equal(t, http.StatusNotFound, s.getJSON("/api/genres/99", &errResp))
	assert.Equal(t, "genre not found", errResp.Error)

	assert.Equal(t, http.StatusBadRequest, s.getJSON("/api/genres/abc", nil))
}

func TestAPI_GenreStats(t *testing.T) {
	s := newTestServer(t, config.AuthModeNone)
	visit := s.get("/authors")["visit"]
	s.save(visit, "Poet One", "", "", "2")
	s.save(visit, "Poet Two", "", "", "2")

	var stats statList
	require.Equal(t, http.StatusOK, s.getJSON("/api/genres/stats", &stats))
	assert.Equal(t, []entities.GenreStat{
		{GenreID: 1, GenreName: "Novel", AuthorCount: 0},
		{GenreID: 2, GenreName: "Poetry", AuthorCount: 2},
	}, stats.Data)
}

func TestAPI_Authors(t *testing.T) {
	s := newTestServer(t, config.AuthModeNone)

	var empty authorList
	require.Equal(t, http.StatusOK, s.getJSON("/api/authors", &empty))
	assert.Equal(t, 0, empty.Count)
	assert.NotNil(t, empty.Data)

	visit := s.get("/authors")["visit"]
	s.save(visit, "Novelist", "7000-0000", "", "1")
	s.save(visit, "Poet", "", "", "2")

	var all authorList
	require.Equal(t, http.StatusOK, s.getJSON("/api/authors", &all))
	assert.Equal(t, 2, all.Count)

	var poets authorList
	require.Equal(t, http.StatusOK, s.getJSON("/api/authors?genre_id=2", &poets))
	require.Len(t, poets.Data, 1)
	assert.Equal(t, "Poet", poets.Data[0].Name)
	assert.Equal(t, "Poetry", poets.Data[0].GenreName())

	assert.Equal(t, http.StatusBadRequest, s.getJSON("/api/authors?genre_id=x", nil))

	var author entities.Author
	require.Equal(t, http.StatusOK, s.getJSON("/api/authors/lookup?name=Novelist", &author))
	assert.Equal(t, "7000-0000", author.Phone)

	var byID entities.Author
	require.Equal(t, http.StatusOK, s.getJSON("/api/authors/"+itoa(author.ID), &byID))
	assert.Equal(t, "Novelist", byID.Name)

	assert.Equal(t, http.StatusNotFound, s.getJSON("/api/authors/lookup?name=Nobody", nil))
	assert.Equal(t, http.StatusBadRequest, s.getJSON("/api/authors/lookup", nil))
	assert.Equal(t, http.StatusNotFound, s.getJSON("/api/authors/999", nil))
}

func TestAPI_ValidatePhone(t *testing.T) {
	s := newTestServer(t, config.AuthModeNone)

	tests := []struct {
		phone string
		valid bool
	}{
		{"7123-4567", true},
		{"6123-4567", true},
		{"", true},
		{"5123-4567", false},
		{"71234567", false},
	}

	for _, tt := range tests {
		t.Run(tt.phone, func(t *testing.T) {
			var resp PhoneValidationResponse
			require.Equal(t, http.StatusOK, s.getJSON("/api/phone/validate?phone="+tt.phone, &resp))
			assert.Equal(t, tt.valid, resp.Valid)
			if !tt.valid {
				assert.Equal(t, validation.PhoneDetail, resp.Detail)
			}
		})
	}
}

func TestAPI_Audit(t *testing.T) {
	s := newTestServer(t, config.AuthModeNone)
	visit := s.get("/authors")["visit"]
	s.save(visit, "Audited", "", "", "0")

	var resp struct {
		Data  []entities.AuditEvent `json:"data"`
		Total int64                 `json:"total"`
	}
	require.Equal(t, http.StatusOK, s.getJSON("/api/audit?entity_type=author", &resp))
	require.Equal(t, int64(1), resp.Total)
	assert.Equal(t, entities.AuditEventCreate, resp.Data[0].EventType)
	assert.Equal(t, "anonymous", resp.Data[0].Actor)

	var none struct {
		Data []entities.AuditEvent `json:"data"`
	}
	require.Equal(t, http.StatusOK, s.getJSON("/api/audit?type=delete", &none))
	assert.Empty(t, none.Data)
}

func TestAPI_AuditRequiresEditorInLocalMode(t *testing.T) {
	s := newTestServer(t, config.AuthModeLocal)

	assert.Equal(t, http.StatusForbidden, s.getJSON("/api/audit", nil))
}

// failingGenres fails every read.
type failingGenres struct{}

var errStoreDown = errors.New("store down")

func (failingGenres) ListGenres(context.Context) result.Result[[]entities.LiteraryGenre] {
	return result.Failed[[]entities.LiteraryGenre](errStoreDown)
}

func (failingGenres) GetGenreByID(context.Context, uint) result.Result[entities.LiteraryGenre] {
	return result.Failed[entities.LiteraryGenre](errStoreDown)
}

func (failingGenres) GenreStats(context.Context) result.Result[[]entities.GenreStat] {
	return result.Failed[[]entities.GenreStat](errStoreDown)
}

func TestAPI_FailedReadsAnswer500(t *testing.T) {
	controller := NewGenresController(failingGenres{}, nil)
	router := gin.New()
	router.GET("/api/genres", controller.ListGenres)
	router.GET("/api/genres/stats", controller.GenreStats)
	router.GET("/api/genres/:id", controller.GetGenre)

	for _, path := range []string{"/api/genres", "/api/genres/stats", "/api/genres/1"} {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))

		assert.Equal(t, http.StatusInternalServerError, rr.Code, path)
		assert.NotContains(t, rr.Body.String(), errStoreDown.Error(), path)
	}
}

func TestCORSMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(CORSMiddleware([]string{"https://catalog.example.org"}))
	router.GET("/api/genres", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/authors", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/api/genres", nil)
	req.Header.Set("Origin", "https://catalog.example.org")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, "https://catalog.example.org", rr.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/genres", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/authors", nil)
	req.Header.Set("Origin", "https://catalog.example.org")
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"), "pages are same-origin only")

	req = httptest.NewRequest(http.MethodOptions, "/api/genres", nil)
	req.Header.Set("Origin", "https://catalog.example.org")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "https://catalog.example.org", rr.Header().Get("Access-Control-Allow-Origin"))
}
