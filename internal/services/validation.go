package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"classifieds/internal/apperrors"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// validateStruct runs the struct tags of in and converts failures into a
// ValidationError keyed by JSON field name. extra collects checks the tags
// cannot express and may be nil.
func validateStruct(in any, extra *apperrors.ValidationError) error {
	if extra == nil {
		extra = &apperrors.ValidationError{}
	}
	err := validate.Struct(in)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			extra.Add(fe.Field(), fieldMessage(fe))
		}
	} else if err != nil {
		return fmt.Errorf("validate input: %w", err)
	}
	return extra.OrNil()
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "email":
		return "must be a valid email address"
	case "url", "http_url":
		return "must be a valid URL"
	case "eqfield":
		return "does not match"
	case "alphanum":
		return "may only contain letters and digits"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
