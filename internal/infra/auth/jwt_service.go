// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"encoding/base64"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"postboard/config"
	"postboard/internal/domain/service"
)

// jwtService is a concrete implementation of the TokenService interface using HS256 JWTs.
type jwtService struct {
	secret []byte
	now    func() time.Time
	parser *jwt.Parser
}

// NewJWTService is the constructor for jwtService.
// The signing secret comes from configuration and is never read from global state.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	svc, err := newJWTService(cfg.Auth.Secret, time.Now)
	if err != nil {
		return nil, err
	}

	return svc, nil
}

func newJWTService(secret string, now func() time.Time) (*jwtService, error) {
	if secret == "" {
		return nil, errors.New("jwt secret must be provided")
	}

	return &jwtService{
		secret: []byte(secret),
		now:    now,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithExpirationRequired(),
			jwt.WithTimeFunc(now),
		),
	}, nil
}

// Issue creates a signed token whose subject is userID and which expires after ttl.
func (s *jwtService) Issue(userID uuid.UUID, ttl time.Duration) (string, error) {
	issuedAt := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ttl)),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign token")
	}

	return token, nil
}

// Verify authenticates the raw header and payload bytes before decoding any of
// them, then validates expiry and the subject claim.
func (s *jwtService) Verify(token string) (uuid.UUID, error) {
	segments := strings.Split(token, ".")
	if len(segments) != 3 {
		return uuid.Nil, service.ErrTokenMalformed
	}

	signature, err := base64.RawURLEncoding.Strict().DecodeString(segments[2])
	if err != nil {
		return uuid.Nil, service.ErrTokenInvalidSignature
	}

	signingInput := segments[0] + "." + segments[1]
	if err := jwt.SigningMethodHS256.Verify(signingInput, signature, s.secret); err != nil {
		return uuid.Nil, service.ErrTokenInvalidSignature
	}

	claims := &jwt.RegisteredClaims{}
	if _, err := s.parser.ParseWithClaims(token, claims, s.keyFunc); err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return uuid.Nil, service.ErrTokenExpired
		}

		return uuid.Nil, errors.Wrap(service.ErrTokenMalformed, err.Error())
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil || userID == uuid.Nil {
		return uuid.Nil, service.ErrTokenMalformed
	}

	return userID, nil
}

func (s *jwtService) keyFunc(_ *jwt.Token) (any, error) {
	return s.secret, nil
}
