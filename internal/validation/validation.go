// Package validation wraps go-playground/validator and turns its failures
// into domain field errors carrying user-facing messages.
package validation

import (
	"strconv"
	"sync"

	domainerrors "postboard/internal/domain/errors"
	"postboard/internal/errors"

	"github.com/go-playground/validator/v10"
)

var (
	once     sync.Once
	instance *validator.Validate
)

// Validator returns the shared validator instance.
func Validator() *validator.Validate {
	once.Do(func() {
		instance = validator.New(validator.WithRequiredStructEnabled())
		// Registration on a fresh instance only fails for an empty tag or nil func.
		_ = instance.RegisterValidation("maxbytes", maxBytes)
	})

	return instance
}

// Struct validates s. Validation failures come back as ErrValidationFailed
// with one FieldError per failing field; the message comes from the field's
// `msg` tag when present.
func Struct(s any) error {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return errors.Wrap(err, "validate struct")
	}

	return toFieldErrors(s, verrs)
}

func toFieldErrors(s any, verrs validator.ValidationErrors) error {
	fields := make([]domainerrors.FieldError, 0, len(verrs))
	seen := make(map[string]struct{}, len(verrs))

	for _, fe := range verrs {
		name := jsonName(s, fe.StructField())
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}

		fields = append(fields, domainerrors.FieldError{
			Field:   name,
			Message: message(s, fe),
		})
	}

	return domainerrors.NewValidationError(fields...)
}

// maxBytes bounds the encoded length of a string, unlike max which counts
// runes. bcrypt rejects inputs longer than 72 bytes.
func maxBytes(fl validator.FieldLevel) bool {
	limit, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}

	return len(fl.Field().String()) <= limit
}
