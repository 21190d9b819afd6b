package impl

import (
	"context"
	"sync"
	"testing"
	"time"

	"postboard/internal/domain/entity"
	domainerrors "postboard/internal/domain/errors"
	"postboard/internal/domain/repository"
	"postboard/internal/errors"
	"postboard/internal/infra/metrics"
	"postboard/internal/infra/persistence/memory"
	"postboard/internal/usecase"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// postServiceFixtures holds all test dependencies for post service tests.
type postServiceFixtures struct {
	service  usecase.PostUsecase
	users    repository.UserRepository
	registry *prometheus.Registry
	alice    *entity.User
	bob      *entity.User
}

func createTestPostService(t *testing.T) postServiceFixtures {
	t.Helper()

	users := memory.NewUserRepository()
	registry := prometheus.NewRegistry()
	m, err := metrics.New(registry)
	require.NoError(t, err)

	fx := postServiceFixtures{
		service: NewPostService(PostServiceParams{
			PostRepo: memory.NewPostRepository(),
			UserRepo: users,
			Metrics:  m,
			Logger:   newDiscardLogger(),
		}),
		users:    users,
		registry: registry,
	}
	fx.alice = seedTestUser(t, users, "Alice")
	fx.bob = seedTestUser(t, users, "Bob")

	return fx
}

func seedTestUser(t *testing.T, users repository.UserRepository, name string) *entity.User {
	t.Helper()

	user := &entity.User{
		ID:           uuid.Must(uuid.NewV7()),
		Name:         name,
		Email:        name + "@example.com",
		PasswordHash: "hashed",
		Avatar:       "//avatar/" + name,
		CreatedAt:    time.Now(),
	}
	require.NoError(t, users.Create(context.Background(), user))

	return user
}

func (fx postServiceFixtures) mutationCount(t *testing.T, operation, outcome string) float64 {
	t.Helper()

	families, err := fx.registry.Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() != "postboard_post_mutations_total" {
			continue
		}
		for _, m := range f.GetMetric() {
			labels := map[string]string{}
			for _, l := range m.GetLabel() {
				labels[l.GetName()] = l.GetValue()
			}
			if labels["operation"] == operation && labels["outcome"] == outcome {
				return m.GetCounter().GetValue()
			}
		}
	}

	return 0
}

func TestPostService_CreatePost(t *testing.T) {
	fx := createTestPostService(t)

	post, err := fx.service.CreatePost(context.Background(), fx.alice.ID, &usecase.CreatePostInput{Text: "hi"})
	require.NoError(t, err)
	assert.Equal(t, fx.alice.ID, post.AuthorID)
	assert.Equal(t, "Alice", post.Name)
	assert.Equal(t, "//avatar/Alice", post.Avatar)
	assert.NotNil(t, post.Likes)
	assert.Empty(t, post.Likes)
	assert.False(t, post.CreatedAt.IsZero())
}

func TestPostService_CreatePost_Errors(t *testing.T) {
	fx := createTestPostService(t)
	ctx := context.Background()

	_, err := fx.service.CreatePost(ctx, fx.alice.ID, &usecase.CreatePostInput{})
	require.ErrorIs(t, err, domainerrors.ErrValidationFailed)
	assert.Equal(t, []domainerrors.FieldError{{Field: "text", Message: "Text is required"}},
		domainerrors.ValidationFields(err))

	_, err = fx.service.CreatePost(ctx, uuid.New(), &usecase.CreatePostInput{Text: "ghost"})
	assert.ErrorIs(t, err, domainerrors.ErrUserNotFound)
}

func TestPostService_ListAndGet(t *testing.T) {
	fx := createTestPostService(t)
	ctx := context.Background()

	first, err := fx.service.CreatePost(ctx, fx.alice.ID, &usecase.CreatePostInput{Text: "first"})
	require.NoError(t, err)
	time.Sleep(time.Millisecond)
	second, err := fx.service.CreatePost(ctx, fx.bob.ID, &usecase.CreatePostInput{Text: "second"})
	require.NoError(t, err)

	posts, err := fx.service.ListPosts(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, second.ID, posts[0].ID)
	assert.Equal(t, first.ID, posts[1].ID)

	got, err := fx.service.GetPost(ctx, first.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "first", got.Text)

	_, err = fx.service.GetPost(ctx, uuid.NewString())
	assert.ErrorIs(t, err, domainerrors.ErrPostNotFound)

	_, err = fx.service.GetPost(ctx, "not-an-id")
	assert.ErrorIs(t, err, domainerrors.ErrPostNotFound)
}

func TestPostService_DeletePost_OnlyAuthor(t *testing.T) {
	fx := createTestPostService(t)
	ctx := context.Background()

	post, err := fx.service.CreatePost(ctx, fx.alice.ID, &usecase.CreatePostInput{Text: "mine"})
	require.NoError(t, err)

	err = fx.service.DeletePost(ctx, post.ID.String(), fx.bob.ID)
	assert.ErrorIs(t, err, domainerrors.ErrPostOwnershipViolation)

	_, err = fx.service.GetPost(ctx, post.ID.String())
	require.NoError(t, err, "rejected delete leaves the post")

	require.NoError(t, fx.service.DeletePost(ctx, post.ID.String(), fx.alice.ID))

	err = fx.service.DeletePost(ctx, post.ID.String(), fx.alice.ID)
	assert.ErrorIs(t, err, domainerrors.ErrPostNotFound)

	err = fx.service.DeletePost(ctx, "42", fx.alice.ID)
	assert.ErrorIs(t, err, domainerrors.ErrPostNotFound)

	assert.InDelta(t, 1, fx.mutationCount(t, "delete", metrics.OutcomeOK), 0)
	assert.InDelta(t, 1, fx.mutationCount(t, "delete", metrics.OutcomeForbidden), 0)
	assert.InDelta(t, 2, fx.mutationCount(t, "delete", metrics.OutcomeNotFound), 0)
}

func TestPostService_ToggleLike(t *testing.T) {
	fx := createTestPostService(t)
	ctx := context.Background()

	post, err := fx.service.CreatePost(ctx, fx.alice.ID, &usecase.CreatePostInput{Text: "like me"})
	require.NoError(t, err)
	id := post.ID.String()

	likes, err := fx.service.ToggleLike(ctx, id, fx.bob.ID, usecase.Like)
	require.NoError(t, err)
	require.Len(t, likes, 1)
	assert.Equal(t, fx.bob.ID, likes[0].UserID)

	_, err = fx.service.ToggleLike(ctx, id, fx.bob.ID, usecase.Like)
	assert.ErrorIs(t, err, domainerrors.ErrPostAlreadyLiked)

	likes, err = fx.service.ToggleLike(ctx, id, fx.alice.ID, usecase.Like)
	require.NoError(t, err)
	require.Len(t, likes, 2)
	assert.Equal(t, fx.alice.ID, likes[0].UserID, "newest like first")

	likes, err = fx.service.ToggleLike(ctx, id, fx.bob.ID, usecase.Unlike)
	require.NoError(t, err)
	require.Len(t, likes, 1)
	assert.Equal(t, fx.alice.ID, likes[0].UserID)

	_, err = fx.service.ToggleLike(ctx, id, fx.bob.ID, usecase.Unlike)
	assert.ErrorIs(t, err, domainerrors.ErrPostNotLiked)

	_, err = fx.service.ToggleLike(ctx, "zzz", fx.bob.ID, usecase.Like)
	assert.ErrorIs(t, err, domainerrors.ErrPostNotFound)

	_, err = fx.service.ToggleLike(ctx, uuid.NewString(), fx.bob.ID, usecase.Unlike)
	assert.ErrorIs(t, err, domainerrors.ErrPostNotFound)

	assert.InDelta(t, 2, fx.mutationCount(t, "like", metrics.OutcomeOK), 0)
	assert.InDelta(t, 1, fx.mutationCount(t, "like", metrics.OutcomeRejected), 0)
	assert.InDelta(t, 1, fx.mutationCount(t, "unlike", metrics.OutcomeRejected), 0)
}

func TestPostService_ConcurrentLikes(t *testing.T) {
	fx := createTestPostService(t)
	ctx := context.Background()

	post, err := fx.service.CreatePost(ctx, fx.alice.ID, &usecase.CreatePostInput{Text: "popular"})
	require.NoError(t, err)

	const n = 50
	var wg sync.WaitGroup
	for range n {
		wg.Add(1)
		go func(userID uuid.UUID) {
			defer wg.Done()
			_, err := fx.service.ToggleLike(ctx, post.ID.String(), userID, usecase.Like)
			assert.NoError(t, err)
		}(uuid.New())
	}
	wg.Wait()

	got, err := fx.service.GetPost(ctx, post.ID.String())
	require.NoError(t, err)
	assert.Len(t, got.Likes, n)
}

func TestPostService_ConcurrentDuplicateLikes(t *testing.T) {
	fx := createTestPostService(t)
	ctx := context.Background()

	post, err := fx.service.CreatePost(ctx, fx.alice.ID, &usecase.CreatePostInput{Text: "contested"})
	require.NoError(t, err)

	const n = 20
	var wg sync.WaitGroup
	results := make(chan error, n)
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := fx.service.ToggleLike(ctx, post.ID.String(), fx.bob.ID, usecase.Like)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, domainerrors.ErrPostAlreadyLiked)
	}
	assert.Equal(t, 1, succeeded)
}

func TestPostService_StoreErrorsAreWrapped(t *testing.T) {
	repo := &mockPostRepository{}
	srv := NewPostService(PostServiceParams{
		PostRepo: repo,
		UserRepo: memory.NewUserRepository(),
		Logger:   newDiscardLogger(),
	})
	ctx := context.Background()
	id := uuid.New()
	dbErr := errors.New("connection refused")

	repo.On("List", mock.Anything).Return(nil, dbErr)
	repo.On("MutateLikes", mock.Anything, id, mock.Anything).Return(nil, errors.WithStack(repository.ErrDuplicateLike))
	repo.On("DeleteGuarded", mock.Anything, id, mock.Anything).Return(dbErr)

	_, err := srv.ListPosts(ctx)
	assert.ErrorIs(t, err, dbErr)

	_, err = srv.ToggleLike(ctx, id.String(), uuid.New(), usecase.Like)
	assert.ErrorIs(t, err, domainerrors.ErrPostAlreadyLiked, "unique index conflicts surface as already liked")

	err = srv.DeletePost(ctx, id.String(), uuid.New())
	assert.ErrorIs(t, err, dbErr)
	_, isApp := errors.AsType[domainerrors.AppError](err)
	assert.False(t, isApp)

	repo.AssertExpectations(t)
}

func TestLikeDirection_String(t *testing.T) {
	assert.Equal(t, "like", usecase.Like.String())
	assert.Equal(t, "unlike", usecase.Unlike.String())
}
