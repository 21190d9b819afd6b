package impl

import (
	"context"
	"strings"
	"testing"
	"time"

	domainerrors "postboard/internal/domain/errors"
	"postboard/internal/domain/repository"
	"postboard/internal/errors"
	"postboard/internal/infra/auth"
	"postboard/internal/infra/persistence/memory"
	"postboard/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// userServiceFixtures holds all test dependencies for user service tests.
type userServiceFixtures struct {
	service  usecase.UserUsecase
	userRepo repository.UserRepository
	hasher   *plainHasher
	tokens   *stubTokens
}

func createTestUserService(t *testing.T) userServiceFixtures {
	t.Helper()

	userRepo := memory.NewUserRepository()
	hasher := &plainHasher{}
	tokens := &stubTokens{}

	return userServiceFixtures{
		service: NewUserService(UserServiceParams{
			UserRepo:       userRepo,
			Hasher:         hasher,
			TokenService:   tokens,
			AvatarResolver: stubAvatars{},
			Config:         newTestConfig(),
			Logger:         newDiscardLogger(),
		}),
		userRepo: userRepo,
		hasher:   hasher,
		tokens:   tokens,
	}
}

func validRegistration() *usecase.RegisterUserInput {
	return &usecase.RegisterUserInput{
		Name:     "Alice",
		Email:    " Alice@Example.com ",
		Password: "password1",
	}
}

func TestUserService_RegisterUser_Success(t *testing.T) {
	fx := createTestUserService(t)
	ctx := context.Background()

	out, err := fx.service.RegisterUser(ctx, validRegistration())
	require.NoError(t, err)

	assert.Equal(t, "alice@example.com", out.User.Email)
	assert.Equal(t, "//avatar/alice@example.com", out.User.Avatar)
	assert.Equal(t, "hashed:password1", out.User.PasswordHash)
	assert.Equal(t, uuid.Version(7), out.User.ID.Version())
	assert.Equal(t, "token-"+out.User.ID.String(), out.Token)
	assert.Equal(t, time.Hour, fx.tokens.ttl)

	stored, err := fx.userRepo.FindByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, out.User.ID, stored.ID)
}

func TestUserService_RegisterUser_DuplicateEmail(t *testing.T) {
	fx := createTestUserService(t)
	ctx := context.Background()

	_, err := fx.service.RegisterUser(ctx, validRegistration())
	require.NoError(t, err)

	again := validRegistration()
	again.Email = "ALICE@example.com"
	_, err = fx.service.RegisterUser(ctx, again)
	assert.ErrorIs(t, err, domainerrors.ErrUserAlreadyExists)
}

func TestUserService_RegisterUser_Validation(t *testing.T) {
	fx := createTestUserService(t)

	_, err := fx.service.RegisterUser(context.Background(), &usecase.RegisterUserInput{
		Email:    "nope",
		Password: "short",
	})
	require.ErrorIs(t, err, domainerrors.ErrValidationFailed)

	fields := domainerrors.ValidationFields(err)
	messages := make([]string, 0, len(fields))
	for _, f := range fields {
		messages = append(messages, f.Message)
	}
	assert.ElementsMatch(t, []string{
		"Name is required",
		"Please include valid email",
		"Please enter a password with 8 or more characters",
	}, messages)
}

func TestUserService_RegisterUser_LengthLimits(t *testing.T) {
	userRepo := memory.NewUserRepository()
	svc := NewUserService(UserServiceParams{
		UserRepo:       userRepo,
		Hasher:         auth.NewBcryptHasherWithCost(bcrypt.MinCost),
		TokenService:   &stubTokens{},
		AvatarResolver: stubAvatars{},
		Config:         newTestConfig(),
		Logger:         newDiscardLogger(),
	})

	tests := []struct {
		name    string
		input   usecase.RegisterUserInput
		field   string
		message string
	}{
		{
			name:    "password longer than bcrypt accepts",
			input:   usecase.RegisterUserInput{Name: "Alice", Email: "a@x.com", Password: strings.Repeat("p", 80)},
			field:   "password",
			message: "Password must be 72 bytes or fewer",
		},
		{
			// 37 runes but 74 bytes.
			name:    "multi-byte password over the byte limit",
			input:   usecase.RegisterUserInput{Name: "Alice", Email: "a@x.com", Password: strings.Repeat("é", 37)},
			field:   "password",
			message: "Password must be 72 bytes or fewer",
		},
		{
			name:    "name longer than the column",
			input:   usecase.RegisterUserInput{Name: strings.Repeat("n", usecase.MaxNameLength+1), Email: "a@x.com", Password: "password1"},
			field:   "name",
			message: "Name must be 100 characters or fewer",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.RegisterUser(context.Background(), &tt.input)
			require.ErrorIs(t, err, domainerrors.ErrValidationFailed)
			assert.NotErrorIs(t, err, domainerrors.ErrPasswordHashFailed)
			assert.Equal(t, []domainerrors.FieldError{{Field: tt.field, Message: tt.message}}, domainerrors.ValidationFields(err))
		})
	}

	// Limits are inclusive.
	out, err := svc.RegisterUser(context.Background(), &usecase.RegisterUserInput{
		Name:     strings.Repeat("é", usecase.MaxNameLength),
		Email:    "a@x.com",
		Password: strings.Repeat("é", usecase.MaxPasswordBytes/2),
	})
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("é", usecase.MaxNameLength), out.User.Name)
}

func TestUserService_RegisterUser_HashFailure(t *testing.T) {
	fx := createTestUserService(t)
	fx.hasher.hashErr = errors.New("entropy exhausted")

	_, err := fx.service.RegisterUser(context.Background(), validRegistration())
	assert.ErrorIs(t, err, domainerrors.ErrPasswordHashFailed)
}

func TestUserService_RegisterUser_TokenFailure(t *testing.T) {
	fx := createTestUserService(t)
	fx.tokens.issueErr = errors.New("signer down")

	_, err := fx.service.RegisterUser(context.Background(), validRegistration())
	assert.ErrorIs(t, err, domainerrors.ErrTokenIssueFailed)
}

func TestUserService_RegisterUser_LostRaceOnCreate(t *testing.T) {
	repo := &mockUserRepository{}
	repo.On("FindByEmail", mock.Anything, "alice@example.com").Return(nil, repository.ErrUserNotFound)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*entity.User")).Return(errors.WithStack(repository.ErrEmailTaken))

	srv := NewUserService(UserServiceParams{
		UserRepo:       repo,
		Hasher:         &plainHasher{},
		TokenService:   &stubTokens{},
		AvatarResolver: stubAvatars{},
		Config:         newTestConfig(),
		Logger:         newDiscardLogger(),
	})

	_, err := srv.RegisterUser(context.Background(), validRegistration())
	assert.ErrorIs(t, err, domainerrors.ErrUserAlreadyExists)
	repo.AssertExpectations(t)
}

func TestUserService_RegisterUser_StoreFailure(t *testing.T) {
	repo := &mockUserRepository{}
	dbErr := domainerrors.NewDatabaseExecuteError(errors.New("connection reset"), "failed to find user by email")
	repo.On("FindByEmail", mock.Anything, "alice@example.com").Return(nil, dbErr)

	srv := NewUserService(UserServiceParams{
		UserRepo:       repo,
		Hasher:         &plainHasher{},
		TokenService:   &stubTokens{},
		AvatarResolver: stubAvatars{},
		Config:         newTestConfig(),
		Logger:         newDiscardLogger(),
	})

	_, err := srv.RegisterUser(context.Background(), validRegistration())
	require.Error(t, err)
	appErr, ok := errors.AsType[domainerrors.AppError](err)
	require.True(t, ok)
	assert.Equal(t, 500, appErr.HTTPCode())
}

func TestUserService_Login(t *testing.T) {
	fx := createTestUserService(t)
	ctx := context.Background()

	registered, err := fx.service.RegisterUser(ctx, validRegistration())
	require.NoError(t, err)

	out, err := fx.service.Login(ctx, &usecase.LoginInput{Email: "ALICE@example.com", Password: "password1"})
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, out.User.ID)
	assert.Equal(t, "token-"+registered.User.ID.String(), out.Token)
}

func TestUserService_Login_InvalidCredentials(t *testing.T) {
	fx := createTestUserService(t)
	ctx := context.Background()

	_, err := fx.service.RegisterUser(ctx, validRegistration())
	require.NoError(t, err)

	_, err = fx.service.Login(ctx, &usecase.LoginInput{Email: "alice@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)

	checksBefore := fx.hasher.checks
	_, err = fx.service.Login(ctx, &usecase.LoginInput{Email: "nobody@example.com", Password: "password1"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
	assert.Equal(t, checksBefore+1, fx.hasher.checks, "unknown emails still pay for a hash check")
}

func TestUserService_Login_Validation(t *testing.T) {
	fx := createTestUserService(t)

	_, err := fx.service.Login(context.Background(), &usecase.LoginInput{Email: "alice@example.com"})
	require.ErrorIs(t, err, domainerrors.ErrValidationFailed)
	assert.Equal(t, []domainerrors.FieldError{{Field: "password", Message: "Password is required"}},
		domainerrors.ValidationFields(err))
}

func TestUserService_GetCurrentUser(t *testing.T) {
	fx := createTestUserService(t)
	ctx := context.Background()

	registered, err := fx.service.RegisterUser(ctx, validRegistration())
	require.NoError(t, err)

	user, err := fx.service.GetCurrentUser(ctx, registered.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", user.Name)

	_, err = fx.service.GetCurrentUser(ctx, uuid.New())
	assert.ErrorIs(t, err, domainerrors.ErrUserNotFound)
}

func TestNewUserService_DefaultTTL(t *testing.T) {
	tokens := &stubTokens{}
	cfg := newTestConfig()
	cfg.Auth.TokenTTL = 0

	srv := NewUserService(UserServiceParams{
		UserRepo:       memory.NewUserRepository(),
		Hasher:         &plainHasher{},
		TokenService:   tokens,
		AvatarResolver: stubAvatars{},
		Config:         cfg,
		Logger:         newDiscardLogger(),
	})

	_, err := srv.RegisterUser(context.Background(), validRegistration())
	require.NoError(t, err)
	assert.Equal(t, 360000*time.Second, tokens.ttl)
}
