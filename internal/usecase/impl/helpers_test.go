package impl

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	"postboard/config"
	"postboard/internal/domain/entity"
	"postboard/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestConfig() *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{
			Secret:   "test-secret",
			TokenTTL: time.Hour,
		},
	}
}

// plainHasher stands in for a slow hasher. It counts Check calls.
type plainHasher struct {
	checks  int
	hashErr error
}

func (h *plainHasher) Hash(password string) (string, error) {
	if h.hashErr != nil {
		return "", h.hashErr
	}

	return "hashed:" + password, nil
}

func (h *plainHasher) Check(password, hash string) bool {
	h.checks++

	return hash == "hashed:"+password
}

// stubTokens records the arguments of the last Issue call.
type stubTokens struct {
	issueErr error
	userID   uuid.UUID
	ttl      time.Duration
}

func (s *stubTokens) Issue(userID uuid.UUID, ttl time.Duration) (string, error) {
	if s.issueErr != nil {
		return "", s.issueErr
	}
	s.userID, s.ttl = userID, ttl

	return "token-" + userID.String(), nil
}

func (s *stubTokens) Verify(token string) (uuid.UUID, error) {
	return uuid.Parse(strings.TrimPrefix(token, "token-"))
}

type stubAvatars struct{}

func (stubAvatars) AvatarURL(email string) string {
	return "//avatar/" + email
}

// mockUserRepository is a testify mock for failure paths the in-memory store cannot produce.
type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*entity.User)

	return user, args.Error(1)
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*entity.User)

	return user, args.Error(1)
}

func (m *mockUserRepository) Create(ctx context.Context, user *entity.User) error {
	return m.Called(ctx, user).Error(0)
}

var _ repository.UserRepository = (*mockUserRepository)(nil)

// mockPostRepository is a testify mock of repository.PostRepository.
type mockPostRepository struct {
	mock.Mock
}

func (m *mockPostRepository) Create(ctx context.Context, post *entity.Post) error {
	return m.Called(ctx, post).Error(0)
}

func (m *mockPostRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Post, error) {
	args := m.Called(ctx, id)
	post, _ := args.Get(0).(*entity.Post)

	return post, args.Error(1)
}

func (m *mockPostRepository) List(ctx context.Context) ([]*entity.Post, error) {
	args := m.Called(ctx)
	posts, _ := args.Get(0).([]*entity.Post)

	return posts, args.Error(1)
}

func (m *mockPostRepository) DeleteGuarded(ctx context.Context, id uuid.UUID, guard repository.PostGuard) error {
	return m.Called(ctx, id, guard).Error(0)
}

func (m *mockPostRepository) MutateLikes(ctx context.Context, id uuid.UUID, mutate repository.PostMutation) (*entity.Post, error) {
	args := m.Called(ctx, id, mutate)
	post, _ := args.Get(0).(*entity.Post)

	return post, args.Error(1)
}

var _ repository.PostRepository = (*mockPostRepository)(nil)
