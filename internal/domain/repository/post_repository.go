package repository

import (
	"context"
	"errors"

	"postboard/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrPostNotFound is returned when no post exists with the requested ID.
var ErrPostNotFound = errors.New("post not found")

// ErrDuplicateLike is returned by MutateLikes when the store rejects a second
// like by the same user on the same post.
var ErrDuplicateLike = errors.New("post already liked by user")

// PostGuard inspects the current state of a post inside the store's critical
// section. Returning an error aborts the operation without any write.
type PostGuard func(post *entity.Post) error

// PostMutation changes a post inside the store's critical section. The store
// persists the post's like set as left by the mutation unless it returns an error.
type PostMutation func(post *entity.Post) error

// PostRepository persists posts and their like sets.
//
// Implementations must serialize DeleteGuarded and MutateLikes per post ID:
// the read handed to the guard or mutation and the following write form one
// atomic step relative to every other mutation of the same post.
type PostRepository interface {
	// Create persists a new post.
	Create(ctx context.Context, post *entity.Post) error

	// FindByID retrieves a single post with its likes.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Post, error)

	// List returns every post, newest first.
	List(ctx context.Context) ([]*entity.Post, error)

	// DeleteGuarded removes the post once guard accepts it.
	DeleteGuarded(ctx context.Context, id uuid.UUID, guard PostGuard) error

	// MutateLikes applies mutate to the current post and stores the resulting likes.
	MutateLikes(ctx context.Context, id uuid.UUID, mutate PostMutation) (*entity.Post, error)
}
