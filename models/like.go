package models

import "time"

// Like marks that a user liked a post. The composite unique index is the
// backstop for the toggle engine: a user can hold at most one like per post
// no matter how requests interleave.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"uniqueIndex:idx_likes_post_user;not null" json:"post_id"`
	UserID    uint      `gorm:"uniqueIndex:idx_likes_post_user;not null" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
