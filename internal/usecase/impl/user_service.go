// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"postboard/config"
	deliverycontext "postboard/internal/delivery/context"
	"postboard/internal/domain/entity"
	domainerrors "postboard/internal/domain/errors"
	"postboard/internal/domain/repository"
	"postboard/internal/domain/service"
	"postboard/internal/errors"
	"postboard/internal/usecase"
	"postboard/internal/validation"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

// userService implements the UserUsecase interface.
type userService struct {
	userRepo     repository.UserRepository
	hasher       service.PasswordHasher
	tokenService service.TokenService
	avatars      service.AvatarResolver
	tokenTTL     time.Duration
	now          func() time.Time
	logger       *slog.Logger

	// decoyHash is checked against when the email is unknown so that login
	// takes the same time whether or not the account exists.
	decoyOnce sync.Once
	decoyHash string
}

// UserServiceParams holds dependencies for UserService, injected by Fx.
type UserServiceParams struct {
	fx.In

	UserRepo       repository.UserRepository
	Hasher         service.PasswordHasher
	TokenService   service.TokenService
	AvatarResolver service.AvatarResolver
	Config         *config.Config
	Logger         *slog.Logger
}

// NewUserService is the constructor for userService. It receives all dependencies as interfaces.
func NewUserService(params UserServiceParams) usecase.UserUsecase {
	ttl := config.DefaultTokenTTL
	if params.Config != nil && params.Config.Auth.TokenTTL > 0 {
		ttl = params.Config.Auth.TokenTTL
	}

	return &userService{
		userRepo:     params.UserRepo,
		hasher:       params.Hasher,
		tokenService: params.TokenService,
		avatars:      params.AvatarResolver,
		tokenTTL:     ttl,
		now:          time.Now,
		logger:       params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *userService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// RegisterUser validates the input, creates the account and issues its first token.
func (srv *userService) RegisterUser(ctx context.Context, input *usecase.RegisterUserInput) (*usecase.AuthOutput, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	email := entity.NormalizeEmail(input.Email)
	srv.log(ctx).Info("Starting registration", slog.String("email", email))

	_, err := srv.userRepo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, domainerrors.ErrUserAlreadyExists
	case !errors.Is(err, repository.ErrUserNotFound):
		return nil, errors.Wrap(err, "failed to look up email")
	}

	hash, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.log(ctx).Error("Password hashing failed", slog.Any("error", err))

		return nil, domainerrors.ErrPasswordHashFailed
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate user id")
	}

	user := &entity.User{
		ID:           id,
		Name:         input.Name,
		Email:        email,
		PasswordHash: hash,
		Avatar:       srv.avatars.AvatarURL(email),
		CreatedAt:    srv.now().UTC(),
	}

	if err := srv.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return nil, domainerrors.ErrUserAlreadyExists
		}

		return nil, errors.Wrap(err, "failed to create user")
	}

	token, err := srv.issueToken(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Info("User registered", slog.String("user_id", user.ID.String()))

	return &usecase.AuthOutput{Token: token, User: user}, nil
}

// Login exchanges valid credentials for a token. Unknown emails and wrong
// passwords are indistinguishable to the caller.
func (srv *userService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.AuthOutput, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	user, err := srv.userRepo.FindByEmail(ctx, entity.NormalizeEmail(input.Email))
	if err != nil {
		if !errors.Is(err, repository.ErrUserNotFound) {
			return nil, errors.Wrap(err, "failed to look up user")
		}
		srv.hasher.Check(input.Password, srv.decoy())

		return nil, domainerrors.ErrInvalidCredentials
	}

	if !srv.hasher.Check(input.Password, user.PasswordHash) {
		srv.log(ctx).Warn("Login rejected", slog.String("user_id", user.ID.String()))

		return nil, domainerrors.ErrInvalidCredentials
	}

	token, err := srv.issueToken(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &usecase.AuthOutput{Token: token, User: user}, nil
}

// GetCurrentUser returns the account behind an authenticated request.
func (srv *userService) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user")
	}

	return user, nil
}

func (srv *userService) issueToken(ctx context.Context, userID uuid.UUID) (string, error) {
	token, err := srv.tokenService.Issue(userID, srv.tokenTTL)
	if err != nil {
		srv.log(ctx).Error("Token issuance failed", slog.Any("error", err))

		return "", domainerrors.ErrTokenIssueFailed
	}

	return token, nil
}

func (srv *userService) decoy() string {
	srv.decoyOnce.Do(func() {
		srv.decoyHash, _ = srv.hasher.Hash(uuid.NewString())
	})

	return srv.decoyHash
}
