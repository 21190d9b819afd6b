package usecase

import (
	"context"

	"postboard/internal/domain/entity"

	"github.com/google/uuid"
)

// LikeDirection selects the transition applied by ToggleLike.
type LikeDirection int

const (
	// Like adds the requester to the like set.
	Like LikeDirection = iota
	// Unlike removes the requester from the like set.
	Unlike
)

func (d LikeDirection) String() string {
	if d == Unlike {
		return "unlike"
	}

	return "like"
}

// CreatePostInput defines the data required to publish a post.
type CreatePostInput struct {
	Text string `json:"text" validate:"required" msg:"Text is required"`
}

// PostUsecase defines the ownership-guarded operations on posts and their likes.
// Post IDs arrive as raw strings from the transport; an unparsable ID is
// reported as a missing post.
type PostUsecase interface {
	CreatePost(ctx context.Context, authorID uuid.UUID, input *CreatePostInput) (*entity.Post, error)
	ListPosts(ctx context.Context) ([]*entity.Post, error)
	GetPost(ctx context.Context, postID string) (*entity.Post, error)
	DeletePost(ctx context.Context, postID string, requesterID uuid.UUID) error
	ToggleLike(ctx context.Context, postID string, requesterID uuid.UUID, direction LikeDirection) ([]entity.Like, error)
}
