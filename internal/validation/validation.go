// Package validation checks decoded request bodies and reports every failed
// field in one message.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"family-album-go/internal/apperr"
	"github.com/go-playground/validator/v10"
)

var ErrInvalidRequest = apperr.New(apperr.KindBadRequest, "validation_failed", "validation failed")

var (
	once     sync.Once
	instance *validator.Validate
)

func get() *validator.Validate {
	once.Do(func() {
		instance = validator.New(validator.WithRequiredStructEnabled())
		instance.RegisterTagNameFunc(func(field reflect.StructField) string {
			name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			if name == "" {
				return field.Name
			}
			return name
		})
	})
	return instance
}

// Struct validates v. Field failures are joined into a single message wrapped
// around ErrInvalidRequest.
func Struct(v any) error {
	err := get().Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperr.Wrap(ErrInvalidRequest, err)
	}

	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		messages = append(messages, message(fe))
	}
	return apperr.Wrap(ErrInvalidRequest, errors.New(strings.Join(messages, "; ")))
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "uuid", "uuid4":
		return field + " must be a valid id"
	case "url":
		return field + " must be a valid url"
	default:
		return fmt.Sprintf("%s is invalid (%s)", field, fe.Tag())
	}
}
