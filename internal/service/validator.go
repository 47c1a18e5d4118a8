package service

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/sumire/civic/internal/domain"
)

// Validator wraps go-playground/validator and reports failures as
// *domain.ValidationError keyed by the JSON field name. The HTTP handlers
// validate request bodies with it too.
type Validator struct {
	validator *validator.Validate
}

// NewValidator creates a new Validator.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return &Validator{validator: v}
}

// Validate validates a struct using go-playground/validator tags.
func (v *Validator) Validate(i any) error {
	err := v.validator.Struct(i)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok || len(validationErrors) == 0 {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	fe := validationErrors[0]
	switch fe.Tag() {
	case "required":
		return domain.MissingField(fe.Field())
	case "oneof":
		return &domain.ValidationError{
			Field:   fe.Field(),
			Message: fmt.Sprintf("Invalid %s %q", fe.Field(), fmt.Sprint(fe.Value())),
		}
	default:
		return &domain.ValidationError{
			Field:   fe.Field(),
			Message: fmt.Sprintf("%s failed on '%s' validation", fe.Field(), fe.Tag()),
		}
	}
}
