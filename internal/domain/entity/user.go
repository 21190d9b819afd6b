// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// User is a registered account. It is created once at registration and never
// mutated by this service afterwards.
type User struct {
	ID           uuid.UUID `json:"id"`         // Immutable identifier, UUIDv7.
	Name         string    `json:"name"`       // Display name.
	Email        string    `json:"email"`      // Unique login identifier, stored normalized.
	PasswordHash string    `json:"-"`          // Self-describing password digest. Never serialized.
	Avatar       string    `json:"avatar"`     // Avatar URL derived from the email at registration.
	CreatedAt    time.Time `json:"created_at"` // Registration timestamp.
}

// NormalizeEmail returns the canonical form used to store and look up emails.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
