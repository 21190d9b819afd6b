// Package validator adapts the shared validation rules to echo.Validator.
package validator

import (
	"postboard/internal/validation"

	"github.com/labstack/echo/v4"
)

type requestValidator struct{}

// New returns an echo.Validator whose failures are domain validation errors.
func New() echo.Validator {
	return requestValidator{}
}

func (requestValidator) Validate(i any) error {
	return validation.Struct(i)
}
