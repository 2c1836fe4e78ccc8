package services

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/devboard/devboard/models"
	"github.com/devboard/devboard/repository"
)

// CommentService implements the comment thread engine: one level of reply
// nesting, authorship guards on edit and delete, and the materialized
// top-level listing.
type CommentService struct {
	posts    *repository.Repository[models.Post]
	comments *repository.Repository[models.Comment]
	users    *repository.Repository[models.User]
}

// NewCommentService builds a CommentService on top of the given database
// handle.
func NewCommentService(db *gorm.DB) *CommentService {
	return &CommentService{
		posts:    repository.New[models.Post](db),
		comments: repository.New[models.Comment](db),
		users:    repository.New[models.User](db),
	}
}

// Add creates a comment on a post. A non-nil parentID makes it a reply: the
// parent must exist on the same post and must itself be top-level. Depth is
// fixed at creation; a comment never moves between the two states.
func (s *CommentService) Add(ctx context.Context, postID, authorID uint, content string, parentID *uint) (*models.Comment, error) {
	if err := ValidateCommentContent(content); err != nil {
		return nil, err
	}

	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}

	if parentID != nil {
		parent, err := s.comments.Get(ctx, "id = ? AND post_id = ?", *parentID, postID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, ErrParentNotFound
		}
		if parent.IsReply() {
			return nil, ErrNestingTooDeep
		}
	}

	comment := &models.Comment{
		PostID:   postID,
		UserID:   authorID,
		ParentID: parentID,
		Content:  strings.TrimSpace(content),
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// Update rewrites a comment's content. Only the author may update; failed
// guards leave the comment untouched.
func (s *CommentService) Update(ctx context.Context, commentID, actorID uint, content string) (*models.Comment, error) {
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, ErrCommentNotFound
	}
	if comment.UserID != actorID {
		return nil, ErrNotCommentAuthor
	}
	if err := ValidateCommentContent(content); err != nil {
		return nil, err
	}

	comment.Content = strings.TrimSpace(content)
	comment.UpdatedAt = time.Now()
	if err := s.comments.Save(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// Delete removes a comment and, for top-level comments, its direct replies in
// the same transaction. Only the author may delete.
func (s *CommentService) Delete(ctx context.Context, commentID, actorID uint) error {
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment == nil {
		return ErrCommentNotFound
	}
	if comment.UserID != actorID {
		return ErrNotCommentAuthor
	}

	return s.comments.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if !comment.IsReply() {
			if err := tx.Where("parent_id = ?", comment.ID).Delete(&models.Comment{}).Error; err != nil {
				return err
			}
		}
		return tx.Delete(comment).Error
	})
}

// ListTopLevel returns the top-level comments of a post in creation order,
// each carrying its replies (also in creation order) and reply count. Authors
// are loaded in one batch for the whole thread.
func (s *CommentService) ListTopLevel(ctx context.Context, postID uint) ([]models.CommentThread, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}

	var all []models.Comment
	if err := s.comments.DB().WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at ASC").Order("id ASC").
		Find(&all).Error; err != nil {
		return nil, err
	}
	if err := s.attachAuthors(ctx, all); err != nil {
		return nil, err
	}

	replies := make(map[uint][]models.Comment)
	for _, c := range all {
		if c.ParentID != nil {
			replies[*c.ParentID] = append(replies[*c.ParentID], c)
		}
	}

	threads := make([]models.CommentThread, 0)
	for _, c := range all {
		if c.ParentID != nil {
			continue
		}
		rs := replies[c.ID]
		if rs == nil {
			rs = []models.Comment{}
		}
		threads = append(threads, models.CommentThread{
			Comment:    c,
			ReplyCount: len(rs),
			Replies:    rs,
		})
	}
	return threads, nil
}

// attachAuthors stitches user records onto comments in one query.
func (s *CommentService) attachAuthors(ctx context.Context, comments []models.Comment) error {
	if len(comments) == 0 {
		return nil
	}
	ids := make([]uint, 0, len(comments))
	seen := make(map[uint]bool, len(comments))
	for _, c := range comments {
		if !seen[c.UserID] {
			seen[c.UserID] = true
			ids = append(ids, c.UserID)
		}
	}
	users, err := s.users.Filter(ctx, "id IN ?", ids)
	if err != nil {
		return err
	}
	byID := make(map[uint]models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	for i := range comments {
		if u, ok := byID[comments[i].UserID]; ok {
			comments[i].User = u
		}
	}
	return nil
}
