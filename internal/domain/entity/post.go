package entity

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// Like records that a user liked a post.
type Like struct {
	UserID  uuid.UUID `json:"user"`
	LikedAt time.Time `json:"liked_at"`
}

// Post is a shared resource owned by its author. Likes are ordered most recent
// first and hold at most one entry per user.
type Post struct {
	ID        uuid.UUID `json:"id"`
	AuthorID  uuid.UUID `json:"user"`
	Name      string    `json:"name"`   // Author name at the time of posting.
	Avatar    string    `json:"avatar"` // Author avatar at the time of posting.
	Text      string    `json:"text"`
	Likes     []Like    `json:"likes"`
	CreatedAt time.Time `json:"date"`
}

// IsOwnedBy reports whether userID authored the post.
func (p *Post) IsOwnedBy(userID uuid.UUID) bool {
	return p.AuthorID == userID
}

// HasLiked reports whether userID is present in the like set.
func (p *Post) HasLiked(userID uuid.UUID) bool {
	return slices.ContainsFunc(p.Likes, func(l Like) bool { return l.UserID == userID })
}

// AddLike prepends a like for userID. It returns false and leaves the post
// unchanged when the user already liked it.
func (p *Post) AddLike(userID uuid.UUID, at time.Time) bool {
	if p.HasLiked(userID) {
		return false
	}

	likes := make([]Like, 0, len(p.Likes)+1)
	likes = append(likes, Like{UserID: userID, LikedAt: at})
	p.Likes = append(likes, p.Likes...)

	return true
}

// RemoveLike drops the like of userID. It returns false when there was none.
func (p *Post) RemoveLike(userID uuid.UUID) bool {
	idx := slices.IndexFunc(p.Likes, func(l Like) bool { return l.UserID == userID })
	if idx < 0 {
		return false
	}

	p.Likes = slices.Delete(slices.Clone(p.Likes), idx, idx+1)

	return true
}

// Clone returns a deep copy so callers never share the like slice.
func (p *Post) Clone() *Post {
	if p == nil {
		return nil
	}

	cloned := *p
	cloned.Likes = slices.Clone(p.Likes)
	if cloned.Likes == nil {
		cloned.Likes = []Like{}
	}

	return &cloned
}
