package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/devboard/devboard/models"
	"github.com/devboard/devboard/repository"
)

// DefaultRecentLimit bounds the homepage listing when no limit is given.
const DefaultRecentLimit = 10

// PostInput carries the writable fields of a post. Unknown fields simply do
// not exist here; there is no attribute-bag update path.
type PostInput struct {
	Title     string
	Content   string
	BoardType models.BoardType
	Category  string
	Image     string
}

// PostService implements the post rules engine: creation, author-only
// mutation, search and the per-board listings.
type PostService struct {
	posts    *repository.Repository[models.Post]
	comments *repository.Repository[models.Comment]
	likes    *repository.Repository[models.Like]
	users    *repository.Repository[models.User]
}

// NewPostService builds a PostService on top of the given database handle.
func NewPostService(db *gorm.DB) *PostService {
	return &PostService{
		posts:    repository.New[models.Post](db),
		comments: repository.New[models.Comment](db),
		likes:    repository.New[models.Like](db),
		users:    repository.New[models.User](db),
	}
}

// Create validates the input and persists a new post authored by authorID.
// Category is cleared for non-tech boards; presence is only meaningful there.
func (s *PostService) Create(ctx context.Context, authorID uint, in PostInput) (*models.Post, error) {
	if in.BoardType == "" {
		in.BoardType = models.BoardFree
	}
	if err := ValidatePost(in.Title, in.Content, in.BoardType, in.Category); err != nil {
		return nil, err
	}
	if in.BoardType != models.BoardTech {
		in.Category = ""
	}

	post := &models.Post{
		UserID:    authorID,
		Title:     strings.TrimSpace(in.Title),
		Content:   in.Content,
		BoardType: in.BoardType,
		Category:  in.Category,
		Image:     in.Image,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// Get loads a post by ID. When countView is set the view counter is bumped
// with an atomic in-database increment; the returned struct reflects the new
// value without re-reading.
func (s *PostService) Get(ctx context.Context, id uint, countView bool) (*models.Post, error) {
	var post models.Post
	err := s.posts.DB().WithContext(ctx).Preload("User").First(&post, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, err
	}
	if countView {
		if err := s.posts.DB().WithContext(ctx).Model(&post).
			UpdateColumn("views", gorm.Expr("views + 1")).Error; err != nil {
			return nil, err
		}
		post.Views++
	}
	return &post, nil
}

// Update applies the input to an existing post. Only the author may update.
func (s *PostService) Update(ctx context.Context, id, actorID uint, in PostInput) (*models.Post, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	if post.UserID != actorID {
		return nil, ErrNotPostAuthor
	}

	if in.BoardType == "" {
		in.BoardType = post.BoardType
	}
	if err := ValidatePost(in.Title, in.Content, in.BoardType, in.Category); err != nil {
		return nil, err
	}
	if in.BoardType != models.BoardTech {
		in.Category = ""
	}

	post.Title = strings.TrimSpace(in.Title)
	post.Content = in.Content
	post.BoardType = in.BoardType
	post.Category = in.Category
	post.Image = in.Image
	if err := s.posts.Save(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// Delete removes a post and everything hanging off it. Migrations run with
// foreign-key constraints disabled, so likes and comments (replies included)
// are cascaded explicitly inside one transaction.
func (s *PostService) Delete(ctx context.Context, id, actorID uint) error {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if post == nil {
		return ErrPostNotFound
	}
	if post.UserID != actorID {
		return ErrNotPostAuthor
	}

	return s.posts.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(post).Error
	})
}

// Search returns posts whose title or content contains query, case
// insensitively, newest first with descending ID as the tie-breaker.
func (s *PostService) Search(ctx context.Context, query string) ([]models.Post, error) {
	var posts []models.Post
	pattern := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"
	err := s.posts.DB().WithContext(ctx).Preload("User").
		Where("LOWER(title) LIKE ? OR LOWER(content) LIKE ?", pattern, pattern).
		Order("created_at DESC").Order("id DESC").
		Find(&posts).Error
	return posts, err
}

// ListRecent returns the newest posts across all boards, capped at limit
// (DefaultRecentLimit when limit is not positive).
func (s *PostService) ListRecent(ctx context.Context, limit int) ([]models.Post, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	var posts []models.Post
	err := s.posts.DB().WithContext(ctx).Preload("User").
		Order("created_at DESC").Order("id DESC").
		Limit(limit).
		Find(&posts).Error
	return posts, err
}

// ListPopular returns popular posts for the window. No engagement weighting is
// implemented: the contract is literally the recent listing.
// TODO: rank by like/comment counts once the product settles on a formula.
func (s *PostService) ListPopular(ctx context.Context, windowDays, limit int) ([]models.Post, error) {
	_ = windowDays
	return s.ListRecent(ctx, limit)
}

// ListByBoard returns posts of one board, newest first. For the tech board a
// category narrows the listing further; other boards ignore it.
func (s *PostService) ListByBoard(ctx context.Context, board models.BoardType, category string) ([]models.Post, error) {
	if !board.Valid() {
		return nil, ErrInvalidBoardType
	}
	q := s.posts.DB().WithContext(ctx).Preload("User").
		Where("board_type = ?", board).
		Order("created_at DESC").Order("id DESC")
	if board == models.BoardTech && category != "" {
		q = q.Where("category = ?", category)
	}
	var posts []models.Post
	err := q.Find(&posts).Error
	return posts, err
}

// ListByUser returns all posts authored by userID, newest first. The user must
// exist; an empty listing and an unknown author are different answers.
func (s *PostService) ListByUser(ctx context.Context, userID uint) ([]models.Post, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	var posts []models.Post
	err = s.posts.DB().WithContext(ctx).Preload("User").
		Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC").
		Find(&posts).Error
	return posts, err
}
