package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devboard/devboard/models"
)

func seedPost(t *testing.T, svc *PostService, authorID uint, title, content string, board models.BoardType, category string) *models.Post {
	t.Helper()
	post, err := svc.Create(context.Background(), authorID, PostInput{
		Title:     title,
		Content:   content,
		BoardType: board,
		Category:  category,
	})
	require.NoError(t, err)
	return post
}

func TestCreatePostDefaultsToFreeBoard(t *testing.T) {
	db := newTestDB(t)
	svc := NewPostService(db)
	author := newTestUser(t, db, "alice")

	post, err := svc.Create(context.Background(), author.ID, PostInput{
		Title:   "Test Post",
		Content: "Test Content",
	})
	require.NoError(t, err)
	assert.Equal(t, models.BoardFree, post.BoardType)
	assert.Equal(t, author.ID, post.UserID)
	assert.NotZero(t, post.ID)
}

func TestCreatePostBoardCategoryCoupling(t *testing.T) {
	db := newTestDB(t)
	svc := NewPostService(db)
	author := newTestUser(t, db, "alice")
	ctx := context.Background()

	_, err := svc.Create(ctx, author.ID, PostInput{
		Title: "Generics", Content: "A long enough body", BoardType: models.BoardTech,
	})
	assert.ErrorIs(t, err, ErrCategoryRequired)

	// Category supplied on a non-tech board is ignored, not persisted.
	post, err := svc.Create(ctx, author.ID, PostInput{
		Title: "Hello", Content: "Test Content", BoardType: models.BoardFree, Category: models.CategoryGo,
	})
	require.NoError(t, err)
	assert.Empty(t, post.Category)
}

func TestCreatePostGuestbookContentExemption(t *testing.T) {
	db := newTestDB(t)
	svc := NewPostService(db)
	author := newTestUser(t, db, "alice")
	ctx := context.Background()

	_, err := svc.Create(ctx, author.ID, PostInput{
		Title: "Hello", Content: "hi", BoardType: models.BoardGuest,
	})
	assert.NoError(t, err)

	_, err = svc.Create(ctx, author.ID, PostInput{
		Title: "Hello", Content: "hi", BoardType: models.BoardFree,
	})
	assert.ErrorIs(t, err, ErrContentTooShort)
}

func TestGetPostIncrementsViews(t *testing.T) {
	db := newTestDB(t)
	svc := NewPostService(db)
	author := newTestUser(t, db, "alice")
	post := seedPost(t, svc, author.ID, "Test Post", "Test Content", models.BoardFree, "")

	got, err := svc.Get(context.Background(), post.ID, true)
	require.NoError(t, err)
	assert.Equal(t, uint(1), got.Views)

	got, err = svc.Get(context.Background(), post.ID, true)
	require.NoError(t, err)
	assert.Equal(t, uint(2), got.Views)

	// A read without counting leaves the counter alone.
	got, err = svc.Get(context.Background(), post.ID, false)
	require.NoError(t, err)
	assert.Equal(t, uint(2), got.Views)
}

func TestGetPostNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := NewPostService(db)

	_, err := svc.Get(context.Background(), 999, true)
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestUpdatePostAuthorOnly(t *testing.T) {
	db := newTestDB(t)
	svc := NewPostService(db)
	author := newTestUser(t, db, "alice")
	other := newTestUser(t, db, "bob")
	post := seedPost(t, svc, author.ID, "Test Post", "Test Content", models.BoardFree, "")

	in := PostInput{Title: "Edited", Content: "Edited Content"}
	_, err := svc.Update(context.Background(), post.ID, other.ID, in)
	assert.ErrorIs(t, err, ErrNotPostAuthor)

	// Guard failure leaves the post unchanged.
	reloaded, err := svc.Get(context.Background(), post.ID, false)
	require.NoError(t, err)
	assert.Equal(t, "Test Post", reloaded.Title)

	updated, err := svc.Update(context.Background(), post.ID, author.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "Edited", updated.Title)
}

func TestDeletePostCascades(t *testing.T) {
	db := newTestDB(t)
	svc := NewPostService(db)
	comments := NewCommentService(db)
	likes := NewLikeService(db)
	author := newTestUser(t, db, "alice")
	reader := newTestUser(t, db, "bob")
	ctx := context.Background()

	post := seedPost(t, svc, author.ID, "Test Post", "Test Content", models.BoardFree, "")
	top, err := comments.Add(ctx, post.ID, reader.ID, "Parent Comment", nil)
	require.NoError(t, err)
	_, err = comments.Add(ctx, post.ID, author.ID, "Reply Comment", &top.ID)
	require.NoError(t, err)
	_, err = likes.Toggle(ctx, post.ID, reader.ID)
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, post.ID, reader.ID), ErrNotPostAuthor)
	require.NoError(t, svc.Delete(ctx, post.ID, author.ID))

	var commentCount, likeCount int64
	require.NoError(t, db.Model(&models.Comment{}).Where("post_id = ?", post.ID).Count(&commentCount).Error)
	require.NoError(t, db.Model(&models.Like{}).Where("post_id = ?", post.ID).Count(&likeCount).Error)
	assert.Zero(t, commentCount)
	assert.Zero(t, likeCount)

	_, err = svc.Get(ctx, post.ID, false)
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestSearchPosts(t *testing.T) {
	db := newTestDB(t)
	svc := NewPostService(db)
	author := newTestUser(t, db, "alice")
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	mk := func(title, content string, offset time.Duration) *models.Post {
		p := &models.Post{
			UserID: author.ID, Title: title, Content: content,
			BoardType: models.BoardFree, CreatedAt: base.Add(offset), UpdatedAt: base.Add(offset),
		}
		require.NoError(t, db.Create(p).Error)
		return p
	}
	oldMatch := mk("Go generics deep dive", "long enough content", 0)
	newMatch := mk("Weekend plans", "thinking about GO boards", 10*time.Minute)
	mk("Rust ownership", "nothing relevant here", 20*time.Minute)

	got, err := svc.Search(ctx, "go")
	require.NoError(t, err)
	require.Len(t, got, 2)
	// Case-insensitive over title and content, newest first.
	assert.Equal(t, newMatch.ID, got[0].ID)
	assert.Equal(t, oldMatch.ID, got[1].ID)
}

func TestSearchPostsTieBreaksByID(t *testing.T) {
	db := newTestDB(t)
	svc := NewPostService(db)
	author := newTestUser(t, db, "alice")
	ts := time.Now().Truncate(time.Second)

	for i := 0; i < 3; i++ {
		p := &models.Post{
			UserID: author.ID, Title: "same instant", Content: "long enough content",
			BoardType: models.BoardFree, CreatedAt: ts, UpdatedAt: ts,
		}
		require.NoError(t, db.Create(p).Error)
	}

	got, err := svc.Search(context.Background(), "same instant")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Greater(t, got[0].ID, got[1].ID)
	assert.Greater(t, got[1].ID, got[2].ID)
}

func TestListRecentDefaultLimit(t *testing.T) {
	db := newTestDB(t)
	svc := NewPostService(db)
	author := newTestUser(t, db, "alice")

	for i := 0; i < 15; i++ {
		seedPost(t, svc, author.ID, "Test Post", "Test Content", models.BoardFree, "")
	}

	got, err := svc.ListRecent(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, got, DefaultRecentLimit)

	got, err = svc.ListRecent(context.Background(), 3)
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestListPopularMatchesRecent(t *testing.T) {
	db := newTestDB(t)
	svc := NewPostService(db)
	author := newTestUser(t, db, "alice")
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		seedPost(t, svc, author.ID, "Test Post", "Test Content", models.BoardFree, "")
	}

	recent, err := svc.ListRecent(ctx, 0)
	require.NoError(t, err)
	popular, err := svc.ListPopular(ctx, 7, 0)
	require.NoError(t, err)

	require.Len(t, popular, len(recent))
	for i := range recent {
		assert.Equal(t, recent[i].ID, popular[i].ID)
	}
}

func TestListByBoard(t *testing.T) {
	db := newTestDB(t)
	svc := NewPostService(db)
	author := newTestUser(t, db, "alice")
	ctx := context.Background()

	seedPost(t, svc, author.ID, "Free post", "Test Content", models.BoardFree, "")
	seedPost(t, svc, author.ID, "Go post", "A long enough body", models.BoardTech, models.CategoryGo)
	seedPost(t, svc, author.ID, "Rust post", "A long enough body", models.BoardTech, models.CategoryRust)
	seedPost(t, svc, author.ID, "Guest note", "hi", models.BoardGuest, "")

	tech, err := svc.ListByBoard(ctx, models.BoardTech, "")
	require.NoError(t, err)
	assert.Len(t, tech, 2)

	goOnly, err := svc.ListByBoard(ctx, models.BoardTech, models.CategoryGo)
	require.NoError(t, err)
	require.Len(t, goOnly, 1)
	assert.Equal(t, "Go post", goOnly[0].Title)

	guest, err := svc.ListByBoard(ctx, models.BoardGuest, "")
	require.NoError(t, err)
	require.Len(t, guest, 1)

	// Category does not narrow non-tech boards.
	free, err := svc.ListByBoard(ctx, models.BoardFree, models.CategoryGo)
	require.NoError(t, err)
	assert.Len(t, free, 1)

	_, err = svc.ListByBoard(ctx, models.BoardType("news"), "")
	assert.ErrorIs(t, err, ErrInvalidBoardType)
}

func TestListByUser(t *testing.T) {
	db := newTestDB(t)
	svc := NewPostService(db)
	alice := newTestUser(t, db, "alice")
	bob := newTestUser(t, db, "bob")

	seedPost(t, svc, alice.ID, "Alice post", "Test Content", models.BoardFree, "")
	seedPost(t, svc, bob.ID, "Bob post", "Test Content", models.BoardFree, "")

	got, err := svc.ListByUser(context.Background(), alice.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Alice post", got[0].Title)

	_, err = svc.ListByUser(context.Background(), 999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
