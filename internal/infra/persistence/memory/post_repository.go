package memory

import (
	"bytes"
	"context"
	"slices"
	"sync"

	"postboard/internal/domain/entity"
	"postboard/internal/domain/repository"
	"postboard/internal/errors"

	"github.com/google/uuid"
)

// postRecord holds one post behind its own lock. The lock is held for the
// whole read-check-write of a guarded delete or a like mutation.
type postRecord struct {
	mu      sync.Mutex
	post    *entity.Post
	deleted bool
}

// postRepository locks records only after releasing the map lock. The one
// exception is DeleteGuarded, which takes the map lock under a record lock
// to unlink it.
type postRepository struct {
	mu    sync.RWMutex
	posts map[uuid.UUID]*postRecord
}

// NewPostRepository creates an empty in-memory post repository.
func NewPostRepository() repository.PostRepository {
	return &postRepository{
		posts: make(map[uuid.UUID]*postRecord),
	}
}

func (r *postRepository) Create(ctx context.Context, post *entity.Post) error {
	if err := ctx.Err(); err != nil {
		return errors.WithStack(err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.posts[post.ID]; exists {
		return errors.Errorf("post %s already exists", post.ID)
	}
	r.posts[post.ID] = &postRecord{post: post.Clone()}

	return nil
}

func (r *postRepository) record(id uuid.UUID) (*postRecord, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.posts[id]

	return rec, ok
}

func (r *postRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.WithStack(err)
	}

	rec, ok := r.record(id)
	if !ok {
		return nil, errors.WithStack(repository.ErrPostNotFound)
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	if rec.deleted {
		return nil, errors.WithStack(repository.ErrPostNotFound)
	}

	return rec.post.Clone(), nil
}

func (r *postRepository) List(ctx context.Context) ([]*entity.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.WithStack(err)
	}

	r.mu.RLock()
	records := make([]*postRecord, 0, len(r.posts))
	for _, rec := range r.posts {
		records = append(records, rec)
	}
	r.mu.RUnlock()

	posts := make([]*entity.Post, 0, len(records))
	for _, rec := range records {
		rec.mu.Lock()
		if !rec.deleted {
			posts = append(posts, rec.post.Clone())
		}
		rec.mu.Unlock()
	}

	slices.SortStableFunc(posts, func(a, b *entity.Post) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}

		return bytes.Compare(b.ID[:], a.ID[:])
	})

	return posts, nil
}

func (r *postRepository) DeleteGuarded(ctx context.Context, id uuid.UUID, guard repository.PostGuard) error {
	if err := ctx.Err(); err != nil {
		return errors.WithStack(err)
	}

	rec, ok := r.record(id)
	if !ok {
		return errors.WithStack(repository.ErrPostNotFound)
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	if rec.deleted {
		return errors.WithStack(repository.ErrPostNotFound)
	}

	if guard != nil {
		if err := guard(rec.post.Clone()); err != nil {
			return err
		}
	}

	rec.deleted = true

	r.mu.Lock()
	delete(r.posts, id)
	r.mu.Unlock()

	return nil
}

func (r *postRepository) MutateLikes(ctx context.Context, id uuid.UUID, mutate repository.PostMutation) (*entity.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.WithStack(err)
	}

	rec, ok := r.record(id)
	if !ok {
		return nil, errors.WithStack(repository.ErrPostNotFound)
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	if rec.deleted {
		return nil, errors.WithStack(repository.ErrPostNotFound)
	}

	working := rec.post.Clone()
	if err := mutate(working); err != nil {
		return nil, err
	}

	// Only the like set is mutable.
	updated := rec.post.Clone()
	updated.Likes = slices.Clone(working.Likes)
	if updated.Likes == nil {
		updated.Likes = []entity.Like{}
	}
	rec.post = updated

	return updated.Clone(), nil
}
