package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "postboard/internal/delivery/context"
	"postboard/internal/domain/entity"
	domainerrors "postboard/internal/domain/errors"
	"postboard/internal/domain/repository"
	"postboard/internal/errors"
	"postboard/internal/infra/metrics"
	"postboard/internal/usecase"
	"postboard/internal/validation"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

// postService implements the PostUsecase interface. Every check that guards a
// write runs inside the repository's per-post critical section.
type postService struct {
	postRepo repository.PostRepository
	userRepo repository.UserRepository
	metrics  *metrics.Metrics
	now      func() time.Time
	logger   *slog.Logger
}

// PostServiceParams holds dependencies for PostService, injected by Fx.
type PostServiceParams struct {
	fx.In

	PostRepo repository.PostRepository
	UserRepo repository.UserRepository
	Metrics  *metrics.Metrics `optional:"true"`
	Logger   *slog.Logger
}

// NewPostService is the constructor for postService.
func NewPostService(params PostServiceParams) usecase.PostUsecase {
	return &postService{
		postRepo: params.PostRepo,
		userRepo: params.UserRepo,
		metrics:  params.Metrics,
		now:      time.Now,
		logger:   params.Logger,
	}
}

func (srv *postService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// parsePostID maps an unparsable ID to a missing post.
func parsePostID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, domainerrors.ErrPostNotFound
	}

	return id, nil
}

// CreatePost publishes a post with a snapshot of the author's name and avatar.
func (srv *postService) CreatePost(ctx context.Context, authorID uuid.UUID, input *usecase.CreatePostInput) (*entity.Post, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	author, err := srv.userRepo.FindByID(ctx, authorID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find author")
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate post id")
	}

	post := &entity.Post{
		ID:        id,
		AuthorID:  author.ID,
		Name:      author.Name,
		Avatar:    author.Avatar,
		Text:      input.Text,
		Likes:     []entity.Like{},
		CreatedAt: srv.now().UTC(),
	}

	if err := srv.postRepo.Create(ctx, post); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to create post")
	}

	srv.log(ctx).Info("Post created", slog.String("post_id", post.ID.String()))

	return post, nil
}

// ListPosts returns every post, newest first.
func (srv *postService) ListPosts(ctx context.Context) ([]*entity.Post, error) {
	posts, err := srv.postRepo.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list posts")
	}

	return posts, nil
}

// GetPost returns a single post.
func (srv *postService) GetPost(ctx context.Context, postID string) (*entity.Post, error) {
	id, err := parsePostID(postID)
	if err != nil {
		return nil, err
	}

	post, err := srv.postRepo.FindByID(ctx, id)
	if err != nil {
		return nil, translatePostError(err, "failed to find post")
	}

	return post, nil
}

// DeletePost removes a post on behalf of its author.
func (srv *postService) DeletePost(ctx context.Context, postID string, requesterID uuid.UUID) error {
	const operation = "delete"

	id, err := parsePostID(postID)
	if err != nil {
		srv.metrics.PostMutation(operation, metrics.OutcomeNotFound)

		return err
	}

	err = srv.postRepo.DeleteGuarded(ctx, id, func(post *entity.Post) error {
		if !post.IsOwnedBy(requesterID) {
			return domainerrors.ErrPostOwnershipViolation
		}

		return nil
	})
	if err != nil {
		err = translatePostError(err, "failed to delete post")
		srv.metrics.PostMutation(operation, outcomeOf(err))
		if errors.Is(err, domainerrors.ErrPostOwnershipViolation) {
			srv.log(ctx).Warn("Delete rejected: not the author",
				slog.String("post_id", postID),
				slog.String("user_id", requesterID.String()),
			)
		}

		return err
	}

	srv.metrics.PostMutation(operation, metrics.OutcomeOK)
	srv.log(ctx).Info("Post deleted", slog.String("post_id", postID))

	return nil
}

// ToggleLike adds or removes the requester's like and returns the resulting
// like sequence, most recent first.
func (srv *postService) ToggleLike(ctx context.Context, postID string, requesterID uuid.UUID, direction usecase.LikeDirection) ([]entity.Like, error) {
	operation := direction.String()

	id, err := parsePostID(postID)
	if err != nil {
		srv.metrics.PostMutation(operation, metrics.OutcomeNotFound)

		return nil, err
	}

	post, err := srv.postRepo.MutateLikes(ctx, id, func(post *entity.Post) error {
		if direction == usecase.Unlike {
			if !post.RemoveLike(requesterID) {
				return domainerrors.ErrPostNotLiked
			}

			return nil
		}

		if !post.AddLike(requesterID, srv.now().UTC()) {
			return domainerrors.ErrPostAlreadyLiked
		}

		return nil
	})
	if err != nil {
		err = translatePostError(err, "failed to update likes")
		srv.metrics.PostMutation(operation, outcomeOf(err))

		return nil, err
	}

	srv.metrics.PostMutation(operation, metrics.OutcomeOK)
	srv.log(ctx).Debug("Like toggled",
		slog.String("post_id", postID),
		slog.String("direction", operation),
		slog.Int("likes", len(post.Likes)),
	)

	return post.Likes, nil
}

// translatePostError maps store sentinels to domain errors. Domain errors
// raised inside a guard or mutation pass through unchanged.
func translatePostError(err error, message string) error {
	if _, ok := errors.AsType[domainerrors.AppError](err); ok {
		return err
	}

	switch {
	case errors.Is(err, repository.ErrPostNotFound):
		return domainerrors.ErrPostNotFound
	case errors.Is(err, repository.ErrDuplicateLike):
		return domainerrors.ErrPostAlreadyLiked
	default:
		return errors.Wrap(err, message)
	}
}

func outcomeOf(err error) string {
	switch {
	case errors.Is(err, domainerrors.ErrPostNotFound):
		return metrics.OutcomeNotFound
	case errors.Is(err, domainerrors.ErrPostOwnershipViolation):
		return metrics.OutcomeForbidden
	case errors.Is(err, domainerrors.ErrPostAlreadyLiked), errors.Is(err, domainerrors.ErrPostNotLiked):
		return metrics.OutcomeRejected
	default:
		return metrics.OutcomeError
	}
}
