package io

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	rrerrors "github.com/matzehuels/rrgraph/pkg/errors"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// validateWire checks required fields of one decoded record.
func validateWire(i int, s *wireSector) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		label := fmt.Sprintf("sector #%d", i)
		if s.ID != "" {
			label = fmt.Sprintf("sector %q", s.ID)
		}
		return rrerrors.New(rrerrors.ErrCodeInvalidSector, "%s: %s", label, fieldErrorMessage(verrs[0]))
	}
	return rrerrors.Wrap(rrerrors.ErrCodeInvalidSector, err, "sector #%d", i)
}

func fieldErrorMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation: %s", field, fe.Tag())
	}
}
