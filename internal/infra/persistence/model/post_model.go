package model

import (
	"time"

	"github.com/google/uuid"
)

// PostModel mirrors the 'posts' table. Name and Avatar snapshot the author at creation.
type PostModel struct {
	ID        uuid.UUID        `gorm:"type:uuid;primaryKey"`
	AuthorID  uuid.UUID        `gorm:"type:uuid;not null;index"`
	Name      string           `gorm:"type:varchar(100)"`
	Avatar    string           `gorm:"type:varchar(512)"`
	Text      string           `gorm:"type:text;not null"`
	CreatedAt time.Time        `gorm:"not null;index:idx_posts_created_at,sort:desc"`
	Likes     []*PostLikeModel `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
}

// TableName explicitly sets the table name for GORM.
func (PostModel) TableName() string {
	return "posts"
}

// PostLikeModel mirrors the 'post_likes' table. A user likes a post at most once.
type PostLikeModel struct {
	ID      uint      `gorm:"primaryKey;autoIncrement"`
	PostID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_post_likes_post_user"`
	UserID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_post_likes_post_user"`
	LikedAt time.Time `gorm:"not null"`
}

// TableName explicitly sets the table name for GORM.
func (PostLikeModel) TableName() string {
	return "post_likes"
}
