package directory

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/udb/authordirectory/internal/entities"
	"github.com/udb/authordirectory/internal/logging"
	"github.com/udb/authordirectory/internal/result"
	"github.com/udb/authordirectory/internal/validation"
)

// User-facing message texts.
const (
	SummarySuccess = "Success"
	SummaryWarning = "Warning"
	SummaryError   = "Error"

	MsgAuthorAdded    = "Author added successfully."
	MsgAuthorUpdated  = "Author updated successfully."
	MsgAuthorDeleted  = "Author deleted."
	MsgDuplicateName  = "An author with this name already exists, but it will be added."
	MsgSaveFailed     = "Could not save the author."
	MsgDeleteFailed   = "Could not delete the author."
	MsgGenreLookup    = "Could not load the selected genre; the author was not saved."
	MsgBirthDateError = "Birth date error."
)

// AuthorService is the author store used by the controller.
type AuthorService interface {
	ListAuthors(ctx context.Context) result.Result[[]entities.Author]
	ListAuthorsByGenre(ctx context.Context, genreID uint) result.Result[[]entities.Author]
	FindByName(ctx context.Context, name string) result.Result[entities.Author]
	Save(ctx context.Context, author *entities.Author) error
	Update(ctx context.Context, author *entities.Author) error
	Delete(ctx context.Context, author entities.Author) (bool, error)
}

// GenreService is the read-only genre store used by the controller.
type GenreService interface {
	ListGenres(ctx context.Context) result.Result[[]entities.LiteraryGenre]
	GetGenreByID(ctx context.Context, id uint) result.Result[entities.LiteraryGenre]
}

// Auditor records author writes. A nil Auditor disables auditing.
type Auditor interface {
	LogAuthorCreate(ctx context.Context, author entities.Author, err error)
	LogAuthorUpdate(ctx context.Context, author entities.Author, err error)
	LogAuthorDelete(ctx context.Context, author entities.Author, err error)
}

type nopAuditor struct{}

func (nopAuditor) LogAuthorCreate(context.Context, entities.Author, error) {}
func (nopAuditor) LogAuthorUpdate(context.Context, entities.Author, error) {}
func (nopAuditor) LogAuthorDelete(context.Context, entities.Author, error) {}

// Controller runs the page actions against a View. It holds no per-visit
// state, so one Controller serves every visit.
type Controller struct {
	authors AuthorService
	genres  GenreService
	auditor Auditor
	logger  *zap.Logger

	newVisitID func() string
}

// NewController creates a page controller.
func NewController(authors AuthorService, genres GenreService, auditor Auditor, logger *zap.Logger) *Controller {
	if auditor == nil {
		auditor = nopAuditor{}
	}
	return &Controller{
		authors:    authors,
		genres:     genres,
		auditor:    auditor,
		logger:     logging.OrNop(logger).Named("directory"),
		newVisitID: uuid.NewString,
	}
}

// NewView starts a page visit: genres and authors are loaded, the form is
// blank and the count matches the loaded list.
func (c *Controller) NewView(ctx context.Context) *View {
	v := &View{
		VisitID: c.newVisitID(),
		Form:    NewBlankForm(),
	}
	c.loadGenres(ctx, v)
	c.loadAuthors(ctx, v)
	return v
}

func (c *Controller) loadGenres(ctx context.Context, v *View) {
	v.Genres = c.genres.ListGenres(ctx).ValueOr(nil)
}

// loadAuthors reloads the unfiltered list. A failed read leaves an empty
// list and no message.
func (c *Controller) loadAuthors(ctx context.Context, v *View) {
	v.FilterGenreID = 0
	v.Authors = c.authors.ListAuthors(ctx).ValueOr(nil)
	c.CountVisible(v)
}

// BindForm applies submitted fields to the form. A field that fails its
// format rule keeps its previous value and adds an error message; the other
// fields are still applied. Name is always applied and checked on save.
func (c *Controller) BindForm(v *View, in validation.AuthorInput) {
	in.Normalize()
	err := in.Validate()

	v.Form.Name = in.Name
	v.SelectedGenreID = in.GenreID

	if msg := validation.FieldError(err, validation.FieldPhone); msg != "" {
		v.fail(validation.PhoneSummary, msg)
	} else {
		v.Form.Phone = in.Phone
	}

	if msg := validation.FieldError(err, validation.FieldBirthDate); msg != "" {
		v.fail(MsgBirthDateError, msg)
	} else if birth, parseErr := validation.ParseBirthDate(in.BirthDate); parseErr == nil {
		v.Form.BirthDate = birth
	}
}

// resolveGenre returns the selected genre, nil for none. ok is false when
// the lookup failed.
func (c *Controller) resolveGenre(ctx context.Context, id uint) (genre *entities.LiteraryGenre, ok bool) {
	if id == 0 {
		return nil, true
	}
	res := c.genres.GetGenreByID(ctx, id)
	switch res.Status() {
	case result.StatusFound:
		g := res.Value()
		return &g, true
	case result.StatusEmpty:
		return nil, true
	default:
		return nil, false
	}
}

// SaveOrUpdate persists the form. A new form is inserted even when another
// author has the same name, with a warning. On success the list is reloaded
// and the form reset; on failure the form is left as submitted.
func (c *Controller) SaveOrUpdate(ctx context.Context, v *View) {
	if err := validation.ValidateName(v.Form.Name); err != nil {
		v.fail(SummaryError, err.Error())
		return
	}

	genre, ok := c.resolveGenre(ctx, v.SelectedGenreID)
	if !ok {
		v.fail(SummaryError, MsgGenreLookup)
		return
	}

	author := v.Form.author(genre)

	if v.Form.IsNew() {
		if c.authors.FindByName(ctx, author.Name).OK() {
			v.warn(SummaryWarning, MsgDuplicateName)
		}
		err := c.authors.Save(ctx, &author)
		c.auditor.LogAuthorCreate(ctx, author, err)
		if err != nil {
			v.fail(SummaryError, MsgSaveFailed)
			return
		}
		c.logger.Info("author created", zap.Uint("author_id", author.ID))
		v.info(SummarySuccess, MsgAuthorAdded)
	} else {
		err := c.authors.Update(ctx, &author)
		c.auditor.LogAuthorUpdate(ctx, author, err)
		if err != nil {
			v.fail(SummaryError, MsgSaveFailed)
			return
		}
		c.logger.Info("author updated", zap.Uint("author_id", author.ID))
		v.info(SummarySuccess, MsgAuthorUpdated)
	}

	c.loadAuthors(ctx, v)
	c.ResetForm(v)
}

// Delete removes target and reloads the list. The form is not touched.
// Deleting an author that no longer exists succeeds without removing rows.
func (c *Controller) Delete(ctx context.Context, v *View, target entities.Author) {
	removed, err := c.authors.Delete(ctx, target)
	c.auditor.LogAuthorDelete(ctx, target, err)
	if err != nil {
		v.fail(SummaryError, MsgDeleteFailed)
		return
	}
	if removed {
		c.logger.Info("author deleted", zap.Uint("author_id", target.ID))
	}
	c.loadAuthors(ctx, v)
	v.info(SummarySuccess, MsgAuthorDeleted)
}

// PrepareEdit loads target into the form.
func (c *Controller) PrepareEdit(v *View, target entities.Author) {
	v.Form = EditForm(target)
	v.SelectedGenreID = 0
	if target.GenreID != nil {
		v.SelectedGenreID = *target.GenreID
	} else if target.Genre != nil {
		v.SelectedGenreID = target.Genre.ID
	}
}

// ResetForm switches back to a blank new-author form.
func (c *Controller) ResetForm(v *View) {
	v.Form = NewBlankForm()
	v.SelectedGenreID = 0
}

// FilterByGenre loads the authors of v.FilterGenreID, or all authors when it
// is 0, and recounts.
func (c *Controller) FilterByGenre(ctx context.Context, v *View) {
	if v.FilterGenreID == 0 {
		c.loadAuthors(ctx, v)
		return
	}
	v.Authors = c.authors.ListAuthorsByGenre(ctx, v.FilterGenreID).ValueOr(nil)
	c.CountVisible(v)
}

// CountVisible sets the count to the size of the loaded list.
func (c *Controller) CountVisible(v *View) {
	v.AuthorCount = len(v.Authors)
}
