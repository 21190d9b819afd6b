package postgres

import (
	"strings"

	"postboard/internal/errors"

	"gorm.io/gorm"
)

// Helper functions for PostgreSQL error checking. They rely on gorm's
// TranslateError and fall back to SQLSTATE codes in the message.
func isUniqueConstraintViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	return strings.Contains(err.Error(), "SQLSTATE 23505")
}

func isForeignKeyConstraintViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}

	return strings.Contains(err.Error(), "SQLSTATE 23503")
}
