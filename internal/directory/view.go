// Package directory implements the author directory page controller.
//
// A View is the state of one page visit: the form, the loaded lists, the
// filter selection, the visible count and the pending messages. The hosting
// web layer creates it with Controller.NewView when a visit starts and passes
// it to every subsequent action of that visit. Views are plain data and
// gob-encodable so they can live in a session store between requests.
package directory

import (
	"encoding/gob"
	"time"

	"github.com/udb/authordirectory/internal/entities"
)

func init() {
	gob.Register(&View{})
}

// Severity of a user-facing message.
type Severity string

const (
	SeverityInfo  Severity = "info"
	SeverityWarn  Severity = "warn"
	SeverityError Severity = "error"
)

// Message is one entry of the page message area.
type Message struct {
	Severity Severity
	Summary  string
	Detail   string
}

// FormMode tells whether the form creates a new author or edits one.
type FormMode int

const (
	FormModeNew FormMode = iota
	FormModeEdit
)

func (m FormMode) String() string {
	if m == FormModeEdit {
		return "edit"
	}
	return "new"
}

// Form is the author being added or edited. AuthorID is only meaningful in
// FormModeEdit.
type Form struct {
	Mode      FormMode
	AuthorID  uint
	Name      string
	Phone     string
	BirthDate *time.Time
}

// NewBlankForm returns an empty form for adding an author.
func NewBlankForm() Form {
	return Form{Mode: FormModeNew}
}

// EditForm loads an existing author into the form.
func EditForm(a entities.Author) Form {
	f := Form{
		Mode:     FormModeEdit,
		AuthorID: a.ID,
		Name:     a.Name,
		Phone:    a.Phone,
	}
	if a.BirthDate != nil {
		d := *a.BirthDate
		f.BirthDate = &d
	}
	return f
}

// IsNew reports whether saving the form creates a new author.
func (f Form) IsNew() bool {
	return f.Mode == FormModeNew
}

// BirthDateString formats the birth date for a date input.
func (f Form) BirthDateString() string {
	if f.BirthDate == nil {
		return ""
	}
	return f.BirthDate.Format("2006-01-02")
}

// author builds the entity to persist. genre may be nil.
func (f Form) author(genre *entities.LiteraryGenre) entities.Author {
	a := entities.Author{
		Name:      f.Name,
		Phone:     f.Phone,
		BirthDate: f.BirthDate,
	}
	if f.Mode == FormModeEdit {
		a.ID = f.AuthorID
	}
	if genre != nil {
		id := genre.ID
		a.GenreID = &id
		a.Genre = genre
	}
	return a
}

// View is the per-visit page state.
type View struct {
	VisitID         string
	Form            Form
	SelectedGenreID uint
	Authors         []entities.Author
	Genres          []entities.LiteraryGenre
	FilterGenreID   uint
	AuthorCount     int
	Messages        []Message
}

// FindAuthor returns the loaded author with id, as shown in the table.
func (v *View) FindAuthor(id uint) (entities.Author, bool) {
	for _, a := range v.Authors {
		if a.ID == id {
			return a, true
		}
	}
	return entities.Author{}, false
}

// HasErrors reports whether an error message is pending.
func (v *View) HasErrors() bool {
	for _, m := range v.Messages {
		if m.Severity == SeverityError {
			return true
		}
	}
	return false
}

func (v *View) addMessage(sev Severity, summary, detail string) {
	v.Messages = append(v.Messages, Message{Severity: sev, Summary: summary, Detail: detail})
}

func (v *View) info(summary, detail string) { v.addMessage(SeverityInfo, summary, detail) }
func (v *View) warn(summary, detail string) { v.addMessage(SeverityWarn, summary, detail) }
func (v *View) fail(summary, detail string) { v.addMessage(SeverityError, summary, detail) }

// ClearMessages drops messages shown by the previous action.
func (v *View) ClearMessages() {
	v.Messages = nil
}

// Warn adds a warning message. The web layer uses it for conditions it
// detects itself, such as an expired visit.
func (v *View) Warn(summary, detail string) {
	v.warn(summary, detail)
}

// Fail adds an error message from the web layer.
func (v *View) Fail(summary, detail string) {
	v.fail(summary, detail)
}
