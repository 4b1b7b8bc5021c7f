// Package validation wraps go-playground/validator with a shared instance and
// field-level errors that the REST layer can render.
package validation

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/ewilliams-labs/cadence/internal/core/domain"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// FieldError describes one failed rule.
type FieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Param   string `json:"param,omitempty"`
	Message string `json:"message"`
}

// Error lists every failed rule of a struct. It matches domain.ErrInvalidInput.
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return strings.Join(msgs, "; ")
}

func (e *Error) Is(target error) bool {
	return target == domain.ErrInvalidInput
}

// Validator returns the shared validator, registering the custom rules once.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		_ = validate.RegisterValidation("emotion", enumRule(func(s string) error { _, err := domain.ParseEmotion(s); return err }))
		_ = validate.RegisterValidation("activity", enumRule(func(s string) error { _, err := domain.ParseActivity(s); return err }))
		_ = validate.RegisterValidation("weather", enumRule(func(s string) error { _, err := domain.ParseWeather(s); return err }))
		_ = validate.RegisterValidation("timeofday", enumRule(func(s string) error { _, err := domain.ParseTimeOfDay(s); return err }))
	})
	return validate
}

// enumRule accepts empty strings; pair with required when the field is mandatory.
func enumRule(parse func(string) error) validator.Func {
	return func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "" || parse(s) == nil
	}
}

// Struct validates s and returns nil or an *Error.
func Struct(s any) error {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &Error{Fields: []FieldError{{Field: "unknown", Tag: "unknown", Message: err.Error()}}}
	}
	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, FieldError{
			Field:   fe.Namespace(),
			Tag:     fe.Tag(),
			Param:   fe.Param(),
			Message: message(fe),
		})
	}
	return &Error{Fields: fields}
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", fe.Field(), fe.Param())
	case "emotion", "activity", "weather", "timeofday":
		return fmt.Sprintf("%s %q is not a known %s", fe.Field(), fe.Value(), fe.Tag())
	case "url", "http_url":
		return fmt.Sprintf("%s must be a valid URL", fe.Field())
	case "required_with", "required_if":
		return fmt.Sprintf("%s is required when %s is set", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}
