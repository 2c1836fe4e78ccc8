package models

import "time"

// Comment represents a comment on a post. A comment with a non-nil ParentID is
// a reply; replies never carry replies of their own (max depth is two).
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"index;not null" json:"post_id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	ParentID  *uint     `gorm:"index" json:"parent_id,omitempty"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	User      User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author"`
}

// IsReply reports whether the comment is a reply to another comment.
func (c *Comment) IsReply() bool {
	return c.ParentID != nil
}

// CommentThread is a top-level comment materialized with its replies for
// presentation.
type CommentThread struct {
	Comment
	ReplyCount int       `json:"reply_count"`
	Replies    []Comment `json:"replies"`
}
