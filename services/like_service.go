package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/devboard/devboard/models"
	"github.com/devboard/devboard/repository"
)

// LikeService implements the like toggle engine.
type LikeService struct {
	posts *repository.Repository[models.Post]
	likes *repository.Repository[models.Like]
}

// NewLikeService builds a LikeService on top of the given database handle.
func NewLikeService(db *gorm.DB) *LikeService {
	return &LikeService{
		posts: repository.New[models.Post](db),
		likes: repository.New[models.Like](db),
	}
}

// Toggle creates the like when absent and removes it when present, returning
// which of the two happened. Authors cannot like their own posts; the guard
// runs before any like row is read, so the rule holds regardless of prior
// state.
//
// The check-then-act pair runs inside a transaction with the
// likes(post_id,user_id) unique index as the backstop: when two toggles race
// on create, the loser's duplicate-key error is converted to a benign
// "already liked" result instead of surfacing.
func (s *LikeService) Toggle(ctx context.Context, postID, userID uint) (bool, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return false, err
	}
	if post == nil {
		return false, ErrPostNotFound
	}
	if post.UserID == userID {
		return false, ErrSelfLikeForbidden
	}

	liked := false
	err = s.posts.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("post_id = ? AND user_id = ?", postID, userID).Delete(&models.Like{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			liked = false
			return nil
		}
		if err := tx.Create(&models.Like{PostID: postID, UserID: userID}).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				// Lost a race against a concurrent toggle; the like exists.
				liked = true
				return nil
			}
			return err
		}
		liked = true
		return nil
	})
	return liked, err
}

// Count returns the number of likes on a post.
func (s *LikeService) Count(ctx context.Context, postID uint) (int64, error) {
	return s.likes.Count(ctx, "post_id = ?", postID)
}

// Liked reports whether userID currently likes the post.
func (s *LikeService) Liked(ctx context.Context, postID, userID uint) (bool, error) {
	cnt, err := s.likes.Count(ctx, "post_id = ? AND user_id = ?", postID, userID)
	return cnt > 0, err
}
