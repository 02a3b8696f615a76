package core

// validation.go checks candidate books before they reach the repository.
//
// The same Validator serves both single-record writes and CSV rows, so a
// book accepted by POST /books is accepted by an import and vice versa.
// Each field yields at most one error; errors come back in field order
// (title, author, publishedYear). Bulk callers pass the source row so the
// error can be attributed to a line of the uploaded file.

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// ValidationError describes one rejected field.
// Row is nil for single-record operations and set for CSV rows.
type ValidationError struct {
	Row     *int   `json:"row,omitempty"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	if e.Row != nil {
		return fmt.Sprintf("row %d: %s: %s", *e.Row, e.Field, e.Message)
	}
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// ValidationErrors is returned by repository writes that fail validation.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, ve := range e {
		msgs[i] = ve.Error()
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Validator applies the book field rules.
type Validator struct {
	validate *validator.Validate
	now      func() time.Time
}

// ValidatorOption configures a Validator.
type ValidatorOption func(*Validator)

// WithClock sets the clock used for the publishedYear upper bound.
func WithClock(now func() time.Time) ValidatorOption {
	return func(v *Validator) {
		v.now = now
	}
}

// NewValidator builds a Validator. The current year is read from the clock
// on every call, so the upper bound moves forward on New Year's Day.
func NewValidator(opts ...ValidatorOption) *Validator {
	v := &Validator{now: time.Now}
	for _, opt := range opts {
		opt(v)
	}

	v.validate = validator.New()
	v.validate.RegisterTagNameFunc(jsonFieldName)
	mustRegister(v.validate, "notblank", notBlank)
	mustRegister(v.validate, "notfuture", v.notFuture)

	return v
}

// Validate checks a single-record candidate.
func (v *Validator) Validate(in BookInput) []ValidationError {
	return v.check(in, nil)
}

// ValidateRow checks a candidate parsed from CSV row `row`.
func (v *Validator) ValidateRow(in BookInput, row int) []ValidationError {
	return v.check(in, &row)
}

func (v *Validator) check(in BookInput, row *int) []ValidationError {
	err := v.validate.Struct(in)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []ValidationError{{Row: row, Field: FieldFile, Message: err.Error()}}
	}

	out := make([]ValidationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, ValidationError{
			Row:     row,
			Field:   fe.Field(),
			Message: v.message(fe.Field()),
		})
	}
	return out
}

func (v *Validator) message(field string) string {
	switch field {
	case FieldTitle:
		return "Title is required and must be a non-empty string"
	case FieldAuthor:
		return "Author is required and must be a non-empty string"
	case FieldPublishedYear:
		return fmt.Sprintf("Published year must be a valid year between 0 and %d", v.now().Year())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// notFuture rejects years after the current calendar year.
func (v *Validator) notFuture(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() == reflect.Ptr {
		if field.IsNil() {
			return false
		}
		field = field.Elem()
	}
	return field.Int() <= int64(v.now().Year())
}

func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func jsonFieldName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	return name
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register validation %q: %v", tag, err))
	}
}
