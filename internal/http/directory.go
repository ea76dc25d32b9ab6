package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/udb/authordirectory/internal/auth"
	"github.com/udb/authordirectory/internal/directory"
	"github.com/udb/authordirectory/internal/logging"
	"github.com/udb/authordirectory/internal/validation"
)

// Messages added by the web layer itself.
const (
	MsgVisitExpired   = "This page visit expired. The directory was reloaded; please repeat your last action."
	MsgEditorRequired = "Log in as editor to change the directory."
	MsgAuthorNotShown = "That author is not in the table anymore."
)

// Form field names posted by the directory page.
const (
	fieldVisit       = "visit"
	fieldName        = "name"
	fieldPhone       = "phone"
	fieldBirthDate   = "birth_date"
	fieldGenreID     = "genre_id"
	fieldFilterGenre = "filter_genre_id"
)

// ViewStore keeps page visits between requests.
type ViewStore interface {
	SaveView(ctx context.Context, v *directory.View)
	LoadView(ctx context.Context, visitID string) (*directory.View, bool)
}

// DirectoryController serves the author directory page. Every POST names
// its visit; the visit's View is loaded from the session, the action runs
// against it and the page is rendered from the result.
type DirectoryController struct {
	ctrl   *directory.Controller
	views  ViewStore
	logger *zap.Logger
}

func NewDirectoryController(ctrl *directory.Controller, views ViewStore, logger *zap.Logger) *DirectoryController {
	return &DirectoryController{
		ctrl:   ctrl,
		views:  views,
		logger: logging.OrNop(logger).Named("page"),
	}
}

// Index redirects to the directory page.
// GET /
func (dc *DirectoryController) Index(c *gin.Context) {
	c.Redirect(http.StatusFound, "/authors")
}

// AuthorsPage starts a new visit, or shows an existing one when the visit
// query parameter names a visit of this session.
// GET /authors
func (dc *DirectoryController) AuthorsPage(c *gin.Context) {
	ctx := c.Request.Context()

	if v, ok := dc.views.LoadView(ctx, c.Query(fieldVisit)); ok {
		v.ClearMessages()
		dc.render(c, v)
		return
	}

	v := dc.ctrl.NewView(ctx)
	if c.Query("expired") != "" {
		v.Warn(directory.SummaryWarning, MsgVisitExpired)
	}
	dc.render(c, v)
}

// loadVisit returns the posted visit with the previous action's messages
// dropped. An unknown visit is replaced by a fresh one carrying a warning;
// fresh is true in that case and the requested action must not run.
func (dc *DirectoryController) loadVisit(c *gin.Context) (v *directory.View, fresh bool) {
	ctx := c.Request.Context()
	visitID := c.PostForm(fieldVisit)

	if v, ok := dc.views.LoadView(ctx, visitID); ok {
		v.ClearMessages()
		return v, false
	}

	dc.logger.Info("unknown visit, starting a new one", zap.String("visit", visitID))
	v = dc.ctrl.NewView(ctx)
	v.Warn(directory.SummaryWarning, MsgVisitExpired)
	return v, true
}

// requireEditor adds an error to v unless the request may change data.
func requireEditor(c *gin.Context, v *directory.View) bool {
	if auth.CanEdit(c) {
		return true
	}
	v.Fail(directory.SummaryError, MsgEditorRequired)
	return false
}

func authorInput(c *gin.Context) validation.AuthorInput {
	return validation.AuthorInput{
		Name:      c.PostForm(fieldName),
		Phone:     c.PostForm(fieldPhone),
		BirthDate: c.PostForm(fieldBirthDate),
		GenreID:   parseFormID(c, fieldGenreID),
	}
}

// Save binds the submitted form and saves or updates the author.
// POST /authors/save
func (dc *DirectoryController) Save(c *gin.Context) {
	v, fresh := dc.loadVisit(c)
	if fresh {
		dc.render(c, v)
		return
	}

	dc.ctrl.BindForm(v, authorInput(c))
	if requireEditor(c, v) {
		dc.ctrl.SaveOrUpdate(c.Request.Context(), v)
	}
	dc.render(c, v)
}

// Reset clears the form back to a new author.
// POST /authors/reset
func (dc *DirectoryController) Reset(c *gin.Context) {
	v, fresh := dc.loadVisit(c)
	if !fresh {
		dc.ctrl.ResetForm(v)
	}
	dc.render(c, v)
}

// Filter shows the authors of one genre, or all authors for genre 0.
// POST /authors/filter
func (dc *DirectoryController) Filter(c *gin.Context) {
	v, fresh := dc.loadVisit(c)
	if !fresh {
		v.FilterGenreID = parseFormID(c, fieldFilterGenre)
		dc.ctrl.FilterByGenre(c.Request.Context(), v)
	}
	dc.render(c, v)
}

// Count recounts the authors in the table.
// POST /authors/count
func (dc *DirectoryController) Count(c *gin.Context) {
	v, fresh := dc.loadVisit(c)
	if !fresh {
		dc.ctrl.CountVisible(v)
	}
	dc.render(c, v)
}

// Edit loads an author from the table into the form.
// POST /authors/:id/edit
func (dc *DirectoryController) Edit(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	v, fresh := dc.loadVisit(c)
	if !fresh {
		if target, found := v.FindAuthor(id); found {
			dc.ctrl.PrepareEdit(v, target)
		} else {
			v.Fail(directory.SummaryError, MsgAuthorNotShown)
		}
	}
	dc.render(c, v)
}

// Delete removes an author shown in the table.
// POST /authors/:id/delete
func (dc *DirectoryController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	v, fresh := dc.loadVisit(c)
	if !fresh && requireEditor(c, v) {
		if target, found := v.FindAuthor(id); found {
			dc.ctrl.Delete(c.Request.Context(), v, target)
		} else {
			v.Fail(directory.SummaryError, MsgAuthorNotShown)
		}
	}
	dc.render(c, v)
}

// render stores the visit and writes the page.
func (dc *DirectoryController) render(c *gin.Context, v *directory.View) {
	dc.views.SaveView(c.Request.Context(), v)

	c.Header("Cache-Control", "no-store")
	c.HTML(http.StatusOK, "authors", gin.H{
		"Title": "Author directory",
		"View":  v,
		"Auth":  GetAuthTemplateData(c),
	})
}
