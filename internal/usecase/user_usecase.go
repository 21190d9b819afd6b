// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"postboard/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// Length limits of registration input. Names and emails match the column
// sizes of the users table; bcrypt hashes at most 72 bytes.
const (
	MaxNameLength    = 100
	MaxEmailLength   = 255
	MaxPasswordBytes = 72
)

// RegisterUserInput defines the data required to register a new user.
type RegisterUserInput struct {
	Name     string `json:"name" validate:"required,max=100" msg:"Name is required" msg_max:"Name must be 100 characters or fewer"`
	Email    string `json:"email" validate:"required,email,max=255" msg:"Please include valid email" msg_max:"Email must be 255 characters or fewer"`
	Password string `json:"password" validate:"min=8,maxbytes=72" msg:"Please enter a password with 8 or more characters" msg_maxbytes:"Password must be 72 bytes or fewer"`
}

// LoginInput defines the data required for a user to log in.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email" msg:"Please include valid email"`
	Password string `json:"password" validate:"required" msg:"Password is required"`
}

// --- Output DTOs ---

// AuthOutput carries the bearer token issued on registration or login.
type AuthOutput struct {
	Token string       `json:"token"`
	User  *entity.User `json:"user"`
}

// UserUsecase defines the interface for user-related business operations.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type UserUsecase interface {
	RegisterUser(ctx context.Context, input *RegisterUserInput) (*AuthOutput, error)
	Login(ctx context.Context, input *LoginInput) (*AuthOutput, error)
	GetCurrentUser(ctx context.Context, userID uuid.UUID) (*entity.User, error)
}
