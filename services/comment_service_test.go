package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devboard/devboard/models"
)

func TestCommentReplyNesting(t *testing.T) {
	db := newTestDB(t)
	posts := NewPostService(db)
	comments := NewCommentService(db)
	author := newTestUser(t, db, "alice")
	reader := newTestUser(t, db, "bob")
	ctx := context.Background()

	post := seedPost(t, posts, author.ID, "Test Post", "Test Content", models.BoardFree, "")

	parent, err := comments.Add(ctx, post.ID, reader.ID, "Parent Comment", nil)
	require.NoError(t, err)
	assert.False(t, parent.IsReply())

	reply, err := comments.Add(ctx, post.ID, author.ID, "Reply Comment", &parent.ID)
	require.NoError(t, err)
	assert.True(t, reply.IsReply())

	// A reply to a reply is one level too deep.
	_, err = comments.Add(ctx, post.ID, reader.ID, "too deep", &reply.ID)
	assert.ErrorIs(t, err, ErrNestingTooDeep)
}

func TestCommentParentMustBeOnSamePost(t *testing.T) {
	db := newTestDB(t)
	posts := NewPostService(db)
	comments := NewCommentService(db)
	author := newTestUser(t, db, "alice")
	ctx := context.Background()

	first := seedPost(t, posts, author.ID, "First", "Test Content", models.BoardFree, "")
	second := seedPost(t, posts, author.ID, "Second", "Test Content", models.BoardFree, "")

	parent, err := comments.Add(ctx, first.ID, author.ID, "Parent Comment", nil)
	require.NoError(t, err)

	_, err = comments.Add(ctx, second.ID, author.ID, "cross-post reply", &parent.ID)
	assert.ErrorIs(t, err, ErrParentNotFound)

	missing := uint(999)
	_, err = comments.Add(ctx, first.ID, author.ID, "orphan reply", &missing)
	assert.ErrorIs(t, err, ErrParentNotFound)
}

func TestCommentValidation(t *testing.T) {
	db := newTestDB(t)
	posts := NewPostService(db)
	comments := NewCommentService(db)
	author := newTestUser(t, db, "alice")
	ctx := context.Background()

	post := seedPost(t, posts, author.ID, "Test Post", "Test Content", models.BoardFree, "")

	_, err := comments.Add(ctx, post.ID, author.ID, "   ", nil)
	assert.ErrorIs(t, err, ErrEmptyComment)

	_, err = comments.Add(ctx, 999, author.ID, "hello", nil)
	assert.ErrorIs(t, err, ErrPostNotFound)

	c, err := comments.Add(ctx, post.ID, author.ID, "  padded  ", nil)
	require.NoError(t, err)
	assert.Equal(t, "padded", c.Content)
}

func TestCommentUpdateAuthorOnly(t *testing.T) {
	db := newTestDB(t)
	posts := NewPostService(db)
	comments := NewCommentService(db)
	author := newTestUser(t, db, "alice")
	other := newTestUser(t, db, "bob")
	ctx := context.Background()

	post := seedPost(t, posts, author.ID, "Test Post", "Test Content", models.BoardFree, "")
	c, err := comments.Add(ctx, post.ID, author.ID, "Parent Comment", nil)
	require.NoError(t, err)

	_, err = comments.Update(ctx, c.ID, other.ID, "hijacked")
	assert.ErrorIs(t, err, ErrNotCommentAuthor)

	var reloaded models.Comment
	require.NoError(t, db.First(&reloaded, c.ID).Error)
	assert.Equal(t, "Parent Comment", reloaded.Content)

	updated, err := comments.Update(ctx, c.ID, author.ID, "edited")
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Content)

	_, err = comments.Update(ctx, 999, author.ID, "edited")
	assert.ErrorIs(t, err, ErrCommentNotFound)
}

func TestCommentDeleteCascadesReplies(t *testing.T) {
	db := newTestDB(t)
	posts := NewPostService(db)
	comments := NewCommentService(db)
	author := newTestUser(t, db, "alice")
	other := newTestUser(t, db, "bob")
	ctx := context.Background()

	post := seedPost(t, posts, author.ID, "Test Post", "Test Content", models.BoardFree, "")
	parent, err := comments.Add(ctx, post.ID, author.ID, "Parent Comment", nil)
	require.NoError(t, err)
	_, err = comments.Add(ctx, post.ID, other.ID, "Reply Comment", &parent.ID)
	require.NoError(t, err)

	assert.ErrorIs(t, comments.Delete(ctx, parent.ID, other.ID), ErrNotCommentAuthor)

	require.NoError(t, comments.Delete(ctx, parent.ID, author.ID))
	var count int64
	require.NoError(t, db.Model(&models.Comment{}).Where("post_id = ?", post.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCommentDeleteReplyKeepsParent(t *testing.T) {
	db := newTestDB(t)
	posts := NewPostService(db)
	comments := NewCommentService(db)
	author := newTestUser(t, db, "alice")
	other := newTestUser(t, db, "bob")
	ctx := context.Background()

	post := seedPost(t, posts, author.ID, "Test Post", "Test Content", models.BoardFree, "")
	parent, err := comments.Add(ctx, post.ID, author.ID, "Parent Comment", nil)
	require.NoError(t, err)
	reply, err := comments.Add(ctx, post.ID, other.ID, "Reply Comment", &parent.ID)
	require.NoError(t, err)

	require.NoError(t, comments.Delete(ctx, reply.ID, other.ID))

	threads, err := comments.ListTopLevel(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, threads, 1)
	assert.Equal(t, parent.ID, threads[0].ID)
	assert.Zero(t, threads[0].ReplyCount)
}

func TestListTopLevelThreads(t *testing.T) {
	db := newTestDB(t)
	posts := NewPostService(db)
	comments := NewCommentService(db)
	author := newTestUser(t, db, "alice")
	other := newTestUser(t, db, "bob")
	ctx := context.Background()

	post := seedPost(t, posts, author.ID, "Test Post", "Test Content", models.BoardFree, "")

	first, err := comments.Add(ctx, post.ID, other.ID, "first", nil)
	require.NoError(t, err)
	second, err := comments.Add(ctx, post.ID, author.ID, "second", nil)
	require.NoError(t, err)
	_, err = comments.Add(ctx, post.ID, author.ID, "reply one", &first.ID)
	require.NoError(t, err)
	_, err = comments.Add(ctx, post.ID, other.ID, "reply two", &first.ID)
	require.NoError(t, err)

	threads, err := comments.ListTopLevel(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, threads, 2)

	// Creation order, replies nested under their parent only.
	assert.Equal(t, first.ID, threads[0].ID)
	assert.Equal(t, second.ID, threads[1].ID)
	require.Len(t, threads[0].Replies, 2)
	assert.Equal(t, 2, threads[0].ReplyCount)
	assert.Equal(t, "reply one", threads[0].Replies[0].Content)
	assert.Equal(t, "reply two", threads[0].Replies[1].Content)
	assert.NotNil(t, threads[1].Replies)
	assert.Empty(t, threads[1].Replies)

	// Authors are stitched onto every comment in the thread.
	assert.Equal(t, "bob", threads[0].User.Username)
	assert.Equal(t, "alice", threads[0].Replies[0].User.Username)

	_, err = comments.ListTopLevel(ctx, 999)
	assert.ErrorIs(t, err, ErrPostNotFound)
}
