package model

import (
	"errors"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// fieldErrors maps a failing struct field and tag to its sentinel error.
var fieldErrors = map[string]map[string]error{
	"ID":           {"gt": ErrInvalidMovieID},
	"Title":        {"required": ErrEmptyTitle, "utf8": ErrInvalidText, "max": ErrTitleTooLong},
	"Genre":        {"utf8": ErrInvalidText, "max": ErrGenreTooLong},
	"ReleasedYear": {"min": ErrInvalidYear, "max": ErrInvalidYear},
	"Director":     {"utf8": ErrInvalidText, "max": ErrDirectorTooLong},
}

// ErrInvalidMovie is returned for validation failures without a dedicated sentinel.
var ErrInvalidMovie = errors.New("invalid movie")

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		_ = validate.RegisterValidation("utf8", func(fl validator.FieldLevel) bool {
			return utf8.ValidString(fl.Field().String())
		})
	})
	return validate
}

// Validate checks if the Movie has valid field values and returns the
// sentinel error for the first field that fails, in field order.
// A zero ReleasedYear means the year is unknown and is accepted.
func (m *Movie) Validate() error {
	err := getValidator().Struct(m)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) || len(validationErrs) == 0 {
		return ErrInvalidMovie
	}

	fe := validationErrs[0]
	if sentinel, ok := fieldErrors[fe.StructField()][fe.Tag()]; ok {
		return sentinel
	}

	return ErrInvalidMovie
}

// Sanitize replaces invalid UTF-8 sequences in the text fields with U+FFFD,
// matching what the catalog encoder writes to disk.
func (m *Movie) Sanitize() {
	m.Title = strings.ToValidUTF8(m.Title, "\uFFFD")
	m.Genre = strings.ToValidUTF8(m.Genre, "\uFFFD")
	m.Director = strings.ToValidUTF8(m.Director, "\uFFFD")
}
