package service

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Token verification failures. The auth gate reports all of them uniformly.
var (
	ErrTokenMalformed        = errors.New("token is malformed")
	ErrTokenInvalidSignature = errors.New("token signature is invalid")
	ErrTokenExpired          = errors.New("token is expired")
)

// TokenService issues and verifies signed, time-limited bearer tokens.
type TokenService interface {
	// Issue creates a token for userID that expires after ttl.
	Issue(userID uuid.UUID, ttl time.Duration) (string, error)

	// Verify checks the signature before trusting any claim and returns the
	// user ID the token was issued for.
	Verify(token string) (uuid.UUID, error)
}
