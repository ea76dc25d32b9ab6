package validation

import (
	"errors"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/udb/authordirectory/internal/config"
)

const (
	NameRequired      = "Name is required."
	NameTooLong       = "Name must be at most 255 characters."
	BirthDateFormat   = "Birth date must use the format YYYY-MM-DD."
	BirthDateInFuture = "Birth date cannot be in the future."
)

// Field keys used in validation.Errors returned by AuthorInput.Validate.
const (
	FieldName      = "name"
	FieldPhone     = "phone"
	FieldBirthDate = "birth_date"
)

// NameRule requires a name of at most 255 characters.
var NameRule = []validation.Rule{
	validation.Required.Error(NameRequired),
	validation.RuneLength(1, 255).Error(NameTooLong),
}

// ValidateName applies NameRule on its own, for callers that hold a bound
// form rather than raw input.
func ValidateName(name string) error {
	return validation.Validate(name, NameRule...)
}

// AuthorInput is the raw author form as submitted by a browser.
type AuthorInput struct {
	Name      string `json:"name" form:"name"`
	Phone     string `json:"phone" form:"phone"`
	BirthDate string `json:"birth_date" form:"birth_date"`
	GenreID   uint   `json:"genre_id" form:"genre_id"`
}

// Normalize trims surrounding whitespace from name and birth date. The
// phone is left as typed: padding around it fails the format rule.
func (in *AuthorInput) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.BirthDate = strings.TrimSpace(in.BirthDate)
}

// Validate checks every field and returns validation.Errors keyed by
// FieldName, FieldPhone and FieldBirthDate.
func (in AuthorInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name, NameRule...),
		validation.Field(&in.Phone, PhoneRule),
		validation.Field(&in.BirthDate,
			validation.Date(config.DateLayout).Error(BirthDateFormat),
			validation.By(notInFuture),
		),
	)
}

func notInFuture(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	t, err := time.Parse(config.DateLayout, s)
	if err != nil {
		// Reported by the Date rule.
		return nil
	}
	if t.After(time.Now()) {
		return errors.New(BirthDateInFuture)
	}
	return nil
}

// ParseBirthDate parses an optional YYYY-MM-DD date. Empty input yields nil.
func ParseBirthDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(config.DateLayout, s)
	if err != nil {
		return nil, errors.New(BirthDateFormat)
	}
	return &t, nil
}

// FieldError returns the message for key from a validation.Errors value, or
// "" when that field passed.
func FieldError(err error, key string) string {
	var errs validation.Errors
	if !errors.As(err, &errs) {
		return ""
	}
	if fieldErr, ok := errs[key]; ok && fieldErr != nil {
		return fieldErr.Error()
	}
	return ""
}
