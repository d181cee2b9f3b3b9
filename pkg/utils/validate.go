package utils

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"lushlocks-backend/internal/domain"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateStruct runs struct tag validation and converts the first failure
// into a client-facing validation error.
func ValidateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		f := ve[0]
		field := strings.ToLower(f.Field()[:1]) + f.Field()[1:]
		if f.Param() != "" {
			return domain.Validationf("field '%s' failed on '%s=%s'", field, f.Tag(), f.Param())
		}
		return domain.Validationf("field '%s' failed on '%s'", field, f.Tag())
	}
	return domain.Validationf("invalid request body")
}
