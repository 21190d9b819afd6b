package postgres

import (
	"context"

	"postboard/internal/domain/entity"
	domainerrors "postboard/internal/domain/errors"
	"postboard/internal/domain/repository"
	"postboard/internal/errors"
	"postboard/internal/infra/persistence/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const likesOrder = "liked_at DESC, id DESC"

// postRepository implements repository.PostRepository using GORM. Guarded
// deletes and like mutations hold a row lock on the post for their whole
// read-check-write.
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository returns the GORM-backed post repository.
func NewPostRepository(db *gorm.DB) repository.PostRepository {
	return &postRepository{db: db}
}

func preloadLikes(db *gorm.DB) *gorm.DB {
	return db.Order(likesOrder)
}

// Create persists a new post together with any initial likes.
func (repo *postRepository) Create(ctx context.Context, post *entity.Post) error {
	postM := fromPostDomain(post)

	err := withTx(ctx, repo.db, func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(postM).Error; err != nil {
			return err
		}
		if len(postM.Likes) > 0 {
			return tx.Create(&postM.Likes).Error
		}

		return nil
	})
	if err != nil {
		if isForeignKeyConstraintViolation(err) {
			return errors.WithStack(repository.ErrUserNotFound)
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create post")
	}

	post.CreatedAt = postM.CreatedAt

	return nil
}

// FindByID retrieves a single post with its likes, most recent first.
func (repo *postRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Post, error) {
	var postM model.PostModel
	err := repo.db.WithContext(ctx).
		Preload("Likes", preloadLikes).
		Where("id = ?", id).
		First(&postM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.WithStack(repository.ErrPostNotFound)
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find post")
	}

	return toPostDomain(&postM), nil
}

// List returns every post, newest first.
func (repo *postRepository) List(ctx context.Context) ([]*entity.Post, error) {
	var postMs []*model.PostModel
	err := repo.db.WithContext(ctx).
		Preload("Likes", preloadLikes).
		Order("created_at DESC, id DESC").
		Find(&postMs).Error
	if err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to list posts")
	}

	posts := make([]*entity.Post, 0, len(postMs))
	for _, postM := range postMs {
		posts = append(posts, toPostDomain(postM))
	}

	return posts, nil
}

// lockPost loads the post row under FOR UPDATE, then its likes.
func lockPost(tx *gorm.DB, id uuid.UUID) (*model.PostModel, error) {
	var postM model.PostModel
	if err := forUpdate(tx).Where("id = ?", id).First(&postM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.WithStack(repository.ErrPostNotFound)
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to lock post")
	}

	if err := tx.Where("post_id = ?", id).Order(likesOrder).Find(&postM.Likes).Error; err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to load likes")
	}

	return &postM, nil
}

// DeleteGuarded removes the post and its likes once guard accepts it.
func (repo *postRepository) DeleteGuarded(ctx context.Context, id uuid.UUID, guard repository.PostGuard) error {
	return withTx(ctx, repo.db, func(tx *gorm.DB) error {
		postM, err := lockPost(tx, id)
		if err != nil {
			return err
		}

		if guard != nil {
			if err := guard(toPostDomain(postM)); err != nil {
				return err
			}
		}

		if err := tx.Where("post_id = ?", id).Delete(&model.PostLikeModel{}).Error; err != nil {
			return domainerrors.NewDatabaseExecuteError(err, "failed to delete likes")
		}
		if err := tx.Where("id = ?", id).Delete(&model.PostModel{}).Error; err != nil {
			return domainerrors.NewDatabaseExecuteError(err, "failed to delete post")
		}

		return nil
	})
}

// MutateLikes applies mutate to the locked post and writes the difference
// between the old and new like sets.
func (repo *postRepository) MutateLikes(ctx context.Context, id uuid.UUID, mutate repository.PostMutation) (*entity.Post, error) {
	var result *entity.Post

	err := withTx(ctx, repo.db, func(tx *gorm.DB) error {
		postM, err := lockPost(tx, id)
		if err != nil {
			return err
		}

		before := toPostDomain(postM)
		after := before.Clone()
		if err := mutate(after); err != nil {
			return err
		}

		added, removed := diffLikes(before.Likes, after.Likes)

		if len(removed) > 0 {
			err := tx.Where("post_id = ? AND user_id IN ?", id, removed).
				Delete(&model.PostLikeModel{}).Error
			if err != nil {
				return domainerrors.NewDatabaseExecuteError(err, "failed to remove likes")
			}
		}

		if len(added) > 0 {
			rows := make([]*model.PostLikeModel, 0, len(added))
			// Oldest first so id order matches like order.
			for i := len(added) - 1; i >= 0; i-- {
				rows = append(rows, &model.PostLikeModel{
					PostID:  id,
					UserID:  added[i].UserID,
					LikedAt: added[i].LikedAt,
				})
			}
			if err := tx.Create(&rows).Error; err != nil {
				if isUniqueConstraintViolation(err) {
					return errors.WithStack(repository.ErrDuplicateLike)
				}

				return domainerrors.NewDatabaseExecuteError(err, "failed to add likes")
			}
		}

		var likes []*model.PostLikeModel
		if err := tx.Where("post_id = ?", id).Order(likesOrder).Find(&likes).Error; err != nil {
			return domainerrors.NewDatabaseExecuteError(err, "failed to reload likes")
		}
		postM.Likes = likes
		result = toPostDomain(postM)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// diffLikes reports the likes present only in after (in after's order) and
// the users whose likes are present only in before.
func diffLikes(before, after []entity.Like) (added []entity.Like, removed []uuid.UUID) {
	prev := make(map[uuid.UUID]struct{}, len(before))
	for _, l := range before {
		prev[l.UserID] = struct{}{}
	}
	next := make(map[uuid.UUID]struct{}, len(after))
	for _, l := range after {
		next[l.UserID] = struct{}{}
		if _, ok := prev[l.UserID]; !ok {
			added = append(added, l)
		}
	}
	for _, l := range before {
		if _, ok := next[l.UserID]; !ok {
			removed = append(removed, l.UserID)
		}
	}

	return added, removed
}

// --- Mapper Functions ---

// toPostDomain converts a GORM PostModel and its likes to a domain Post.
func toPostDomain(data *model.PostModel) *entity.Post {
	if data == nil {
		return nil
	}

	likes := make([]entity.Like, 0, len(data.Likes))
	for _, l := range data.Likes {
		likes = append(likes, entity.Like{UserID: l.UserID, LikedAt: l.LikedAt})
	}

	return &entity.Post{
		ID:        data.ID,
		AuthorID:  data.AuthorID,
		Name:      data.Name,
		Avatar:    data.Avatar,
		Text:      data.Text,
		Likes:     likes,
		CreatedAt: data.CreatedAt,
	}
}

// fromPostDomain converts a domain Post to a GORM PostModel for persistence.
// Likes are stored oldest first.
func fromPostDomain(data *entity.Post) *model.PostModel {
	if data == nil {
		return nil
	}

	likes := make([]*model.PostLikeModel, 0, len(data.Likes))
	for i := len(data.Likes) - 1; i >= 0; i-- {
		likes = append(likes, &model.PostLikeModel{
			PostID:  data.ID,
			UserID:  data.Likes[i].UserID,
			LikedAt: data.Likes[i].LikedAt,
		})
	}

	return &model.PostModel{
		ID:        data.ID,
		AuthorID:  data.AuthorID,
		Name:      data.Name,
		Avatar:    data.Avatar,
		Text:      data.Text,
		Likes:     likes,
		CreatedAt: data.CreatedAt,
	}
}
