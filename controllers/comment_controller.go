package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/devboard/devboard/middleware"
	"github.com/devboard/devboard/services"
	"github.com/devboard/devboard/utils"
)

// CommentController exposes the comment thread engine over HTTP.
type CommentController struct {
	comments *services.CommentService
}

// NewCommentController creates a CommentController.
func NewCommentController(comments *services.CommentService) *CommentController {
	return &CommentController{comments: comments}
}

// List handles GET /posts/:id/comments: top-level comments with their replies
// materialized.
func (c *CommentController) List(ctx *gin.Context) {
	postID, ok := pathID(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusNotFound, 40430, "post not found")
		return
	}

	threads, err := c.comments.ListTopLevel(ctx.Request.Context(), postID)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"items": threads})
}

type commentRequest struct {
	Content  string `json:"content" binding:"required"`
	ParentID *uint  `json:"parent_id"`
}

// Create handles POST /posts/:id/comments. A parent_id makes the comment a
// reply; replying to a reply is rejected.
func (c *CommentController) Create(ctx *gin.Context) {
	postID, ok := pathID(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusNotFound, 40431, "post not found")
		return
	}
	var req commentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40040, "invalid request payload")
		return
	}
	userID, ok := middleware.UserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40140, "unauthorized")
		return
	}

	comment, err := c.comments.Add(ctx.Request.Context(), postID, userID, utils.Sanitize(req.Content), req.ParentID)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	utils.Created(ctx, gin.H{"comment": comment})
}

type commentUpdateRequest struct {
	Content string `json:"content" binding:"required"`
}

// Update handles PUT /comments/:id (author only).
func (c *CommentController) Update(ctx *gin.Context) {
	commentID, ok := pathID(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusNotFound, 40432, "comment not found")
		return
	}
	var req commentUpdateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40041, "invalid request payload")
		return
	}
	userID, ok := middleware.UserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40141, "unauthorized")
		return
	}

	comment, err := c.comments.Update(ctx.Request.Context(), commentID, userID, utils.Sanitize(req.Content))
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"comment": comment})
}

// Delete handles DELETE /comments/:id (author only). Deleting a top-level
// comment removes its replies as well.
func (c *CommentController) Delete(ctx *gin.Context) {
	commentID, ok := pathID(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusNotFound, 40433, "comment not found")
		return
	}
	userID, ok := middleware.UserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40142, "unauthorized")
		return
	}

	if err := c.comments.Delete(ctx.Request.Context(), commentID, userID); err != nil {
		writeServiceError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}
