// Package validation checks mutation inputs against the rules declared in their struct tags.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"gitlab.com/dirk.krummacker/personal-crm/internal/apperrors"
)

// Normalizer is implemented by inputs that clean themselves up (trimming, dropping blanks) before
// they are checked.
type Normalizer interface {
	Normalize()
}

// Validator wraps a configured go-playground validator.
type Validator struct {
	validate *validator.Validate
}

// New creates a validator that reports fields by their JSON names.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{validate: v}
}

// Validate normalizes input and checks it. The first violated rule is returned as a
// *apperrors.ValidationError.
func (v *Validator) Validate(input any) error {
	if n, ok := input.(Normalizer); ok {
		n.Normalize()
	}
	err := v.validate.Struct(input)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}
	fe := fieldErrs[0]
	return apperrors.NewValidationError(fe.Field(), fe.Tag(), message(fe))
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "url", "http_url":
		return "must be a valid http(s) URL"
	case "uuid":
		return "must be a valid UUID"
	case "hexcolor":
		return "must be a hex color such as #3366ff"
	default:
		return fmt.Sprintf("failed the %s rule", fe.Tag())
	}
}
