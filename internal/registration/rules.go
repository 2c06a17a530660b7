// Package registration implements the sign-up workflow and the validation
// rule table shared by the terminal client and the notifier endpoint.
package registration

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
)

// Field names as they appear on the wire.
const (
	FieldFullName    = "fullName"
	FieldAge         = "age"
	FieldEmail       = "email"
	FieldLessonTitle = "lessonTitle"
)

const (
	MinAge         = 14
	MaxAge         = 100
	MaxNameLength  = 100
	MaxEmailLength = 255
)

// Category classifies why a field was rejected.
type Category string

const (
	CategoryRequired   Category = "required"
	CategoryTooLong    Category = "too_long"
	CategoryUnderage   Category = "underage"
	CategoryOutOfRange Category = "out_of_range"
	CategoryMalformed  Category = "malformed"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Details are the personal fields a registrant provides.
type Details struct {
	FullName string `json:"fullName" validate:"notblank,max=100"`
	Age      *int   `json:"age" validate:"required,min=14,max=100"`
	Email    string `json:"email" validate:"notblank,emailshape,max=255"`
}

// Submission is what the notifier endpoint receives: the details plus the
// lesson they apply to.
type Submission struct {
	Details
	LessonTitle    string `json:"lessonTitle" validate:"notblank"`
	LessonLanguage string `json:"lessonLanguage"`
	LessonLevel    string `json:"lessonLevel"`
}

// Form is the raw text a user typed, before age is parsed.
type Form struct {
	FullName string
	Age      string
	Email    string
}

// FieldError describes one rejected field.
type FieldError struct {
	Field    string   `json:"field"`
	Category Category `json:"category"`
	Message  string   `json:"message"`
}

// ValidationError carries every field that failed, ordered by field name.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Messages flattens the errors into field -> message.
func (e *ValidationError) Messages() map[string]string {
	out := make(map[string]string, len(e.Fields))
	for _, f := range e.Fields {
		out[f.Field] = f.Message
	}
	return out
}

// Lookup returns the error recorded for field, if any.
func (e *ValidationError) Lookup(field string) (FieldError, bool) {
	for _, f := range e.Fields {
		if f.Field == field {
			return f, true
		}
	}
	return FieldError{}, false
}

// AsValidationError unwraps err into a *ValidationError.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

var fieldLabels = map[string]string{
	FieldFullName:    "Full legal name",
	FieldAge:         "Age",
	FieldEmail:       "Email",
	FieldLessonTitle: "Lesson title",
}

const invalidAgeMessage = "Please enter a valid age"

// Validator applies the rule table and renders user-facing messages.
type Validator struct {
	validate *validator.Validate
	trans    ut.Translator
}

var (
	defaultOnce      sync.Once
	defaultValidator *Validator
)

// DefaultValidator returns a process-wide Validator.
func DefaultValidator() *Validator {
	defaultOnce.Do(func() {
		defaultValidator = NewValidator()
	})
	return defaultValidator
}

// NewValidator builds a Validator with the custom rules and messages registered.
func NewValidator() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation("emailshape", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})

	locale := en.New()
	uni := ut.New(locale, locale)
	trans, _ := uni.GetTranslator("en")
	registerMessages(v, trans)

	return &Validator{validate: v, trans: trans}
}

func registerMessages(v *validator.Validate, trans ut.Translator) {
	byLabel := func(fe validator.FieldError) []string { return []string{label(fe.Field()), fe.Param()} }
	byParam := func(fe validator.FieldError) []string { return []string{fe.Param()} }

	register := func(tag, text string, params func(validator.FieldError) []string) {
		_ = v.RegisterTranslation(tag, trans, func(t ut.Translator) error {
			return t.Add(tag, text, true)
		}, func(t ut.Translator, fe validator.FieldError) string {
			msg, err := t.T(tag, params(fe)...)
			if err != nil {
				return fe.Error()
			}
			return msg
		})
	}

	register("notblank", "{0} is required", byLabel)
	register("required", "{0} is required", byLabel)
	register("emailshape", "Please enter a valid email address", byParam)
	register("min", "You must be {0} or older to participate", byParam)

	_ = v.RegisterTranslation("max", trans, func(t ut.Translator) error {
		if err := t.Add("max-string", "{0} must be {1} characters or fewer", true); err != nil {
			return err
		}
		return t.Add("max-number", invalidAgeMessage, true)
	}, func(t ut.Translator, fe validator.FieldError) string {
		key := "max-number"
		if fe.Kind() == reflect.String {
			key = "max-string"
		}
		msg, err := t.T(key, byLabel(fe)...)
		if err != nil {
			return fe.Error()
		}
		return msg
	})
}

func label(field string) string {
	if l, ok := fieldLabels[field]; ok {
		return l
	}
	return field
}

func categorize(fe validator.FieldError) Category {
	switch fe.Tag() {
	case "notblank", "required":
		return CategoryRequired
	case "emailshape":
		return CategoryMalformed
	case "min":
		return CategoryUnderage
	case "max":
		if fe.Kind() == reflect.String {
			return CategoryTooLong
		}
		return CategoryOutOfRange
	}
	return CategoryMalformed
}

// Struct validates Details or Submission and returns a *ValidationError
// listing every failing field, or nil.
func (v *Validator) Struct(target interface{}) error {
	err := v.validate.Struct(target)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	out := &ValidationError{}
	for _, fe := range fieldErrs {
		out.Fields = append(out.Fields, FieldError{
			Field:    fe.Field(),
			Category: categorize(fe),
			Message:  fe.Translate(v.trans),
		})
	}
	sortFields(out.Fields)
	return out
}

// ValidateForm parses the raw form and applies the rule table. The returned
// Details are only meaningful when the error is nil.
func (v *Validator) ValidateForm(form Form) (Details, error) {
	details := Details{FullName: form.FullName, Email: form.Email}

	var ageErr *FieldError
	rawAge := strings.TrimSpace(form.Age)
	if rawAge != "" {
		age, err := strconv.Atoi(rawAge)
		if err != nil {
			ageErr = &FieldError{Field: FieldAge, Category: CategoryOutOfRange, Message: invalidAgeMessage}
		} else {
			details.Age = &age
		}
	}

	err := v.Struct(details)
	if ageErr == nil {
		return details, err
	}

	ve, ok := AsValidationError(err)
	if !ok {
		if err != nil {
			return details, err
		}
		ve = &ValidationError{}
	}

	fields := ve.Fields[:0]
	for _, f := range ve.Fields {
		if f.Field != FieldAge {
			fields = append(fields, f)
		}
	}
	ve.Fields = append(fields, *ageErr)
	sortFields(ve.Fields)
	return details, ve
}

func sortFields(fields []FieldError) {
	sort.SliceStable(fields, func(i, j int) bool { return fields[i].Field < fields[j].Field })
}
