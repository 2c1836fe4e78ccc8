package controllers

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/devboard/devboard/config"
	"github.com/devboard/devboard/middleware"
	"github.com/devboard/devboard/models"
	"github.com/devboard/devboard/services"
	"github.com/devboard/devboard/utils"
)

// PostController exposes the post rules engine and the like toggle over HTTP.
type PostController struct {
	posts *services.PostService
	likes *services.LikeService
}

// NewPostController creates a PostController.
func NewPostController(posts *services.PostService, likes *services.LikeService) *PostController {
	return &PostController{posts: posts, likes: likes}
}

type postRequest struct {
	Title     string `json:"title" binding:"required"`
	Content   string `json:"content" binding:"required"`
	BoardType string `json:"board_type"`
	Category  string `json:"category"`
	Image     string `json:"image"`
}

func (r postRequest) toInput() services.PostInput {
	return services.PostInput{
		Title:     utils.Sanitize(r.Title),
		Content:   utils.Sanitize(r.Content),
		BoardType: models.BoardType(r.BoardType),
		Category:  strings.TrimSpace(r.Category),
		Image:     strings.TrimSpace(r.Image),
	}
}

// Create handles POST /posts.
func (p *PostController) Create(ctx *gin.Context) {
	var req postRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return
	}
	userID, ok := middleware.UserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40120, "unauthorized")
		return
	}

	post, err := p.posts.Create(ctx.Request.Context(), userID, req.toInput())
	if err != nil {
		writeServiceError(ctx, err)
		return
	}

	utils.InvalidateByPrefix("cache:posts:")
	utils.Created(ctx, gin.H{"post": post})
}

// List handles GET /posts: the recent listing, or a search when ?search= is
// present. Recent listings are cached; search results are not, to avoid
// cache key explosion.
func (p *PostController) List(ctx *gin.Context) {
	search := strings.TrimSpace(ctx.Query("search"))
	if search != "" {
		posts, err := p.posts.Search(ctx.Request.Context(), search)
		if err != nil {
			writeServiceError(ctx, err)
			return
		}
		utils.Success(ctx, gin.H{"items": posts})
		return
	}

	limit := 0
	if v, err := strconv.Atoi(ctx.Query("limit")); err == nil {
		limit = v
	}

	cacheKey := fmt.Sprintf("cache:posts:recent:limit=%d", limit)
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	posts, err := p.posts.ListRecent(ctx.Request.Context(), limit)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	payload := gin.H{"items": posts}
	utils.CacheSetJSON(cacheKey, utils.JSONResponse{Code: 0, Message: "success", Data: payload}, time.Hour)
	utils.Success(ctx, payload)
}

// ListPopular handles GET /posts/popular.
func (p *PostController) ListPopular(ctx *gin.Context) {
	limit := 0
	if v, err := strconv.Atoi(ctx.Query("limit")); err == nil {
		limit = v
	}
	windowDays := 7
	if v, err := strconv.Atoi(ctx.Query("days")); err == nil && v > 0 {
		windowDays = v
	}
	posts, err := p.posts.ListPopular(ctx.Request.Context(), windowDays, limit)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"items": posts})
}

// ListBoard returns a handler for one board's listing. The tech board honors
// the ?category= filter.
func (p *PostController) ListBoard(board models.BoardType) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		category := strings.TrimSpace(ctx.Query("category"))

		cacheKey := fmt.Sprintf("cache:posts:board:%s:cat=%s", board, category)
		if b, ok := utils.CacheGetBytes(cacheKey); ok {
			ctx.Data(http.StatusOK, "application/json", b)
			return
		}

		posts, err := p.posts.ListByBoard(ctx.Request.Context(), board, category)
		if err != nil {
			writeServiceError(ctx, err)
			return
		}
		payload := gin.H{"items": posts}
		utils.CacheSetJSON(cacheKey, utils.JSONResponse{Code: 0, Message: "success", Data: payload}, time.Hour)
		utils.Success(ctx, payload)
	}
}

// ListByUser handles GET /users/:id/posts.
func (p *PostController) ListByUser(ctx *gin.Context) {
	userID, ok := pathID(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40021, "invalid user id")
		return
	}
	posts, err := p.posts.ListByUser(ctx.Request.Context(), userID)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"items": posts})
}

// Get handles GET /posts/:id. Each read bumps the view counter; the payload
// carries the like count and, for authenticated readers, whether they liked
// the post.
func (p *PostController) Get(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusNotFound, 40420, "post not found")
		return
	}

	post, err := p.posts.Get(ctx.Request.Context(), id, true)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}

	likeCount, err := p.likes.Count(ctx.Request.Context(), post.ID)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}

	isLiked := false
	if userID, ok := optionalUserID(ctx); ok {
		isLiked, _ = p.likes.Liked(ctx.Request.Context(), post.ID, userID)
	}

	utils.Success(ctx, gin.H{
		"post":       post,
		"like_count": likeCount,
		"is_liked":   isLiked,
	})
}

// Update handles PUT /posts/:id (author only).
func (p *PostController) Update(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusNotFound, 40421, "post not found")
		return
	}
	var req postRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40022, "invalid request payload")
		return
	}
	userID, ok := middleware.UserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40121, "unauthorized")
		return
	}

	post, err := p.posts.Update(ctx.Request.Context(), id, userID, req.toInput())
	if err != nil {
		writeServiceError(ctx, err)
		return
	}

	utils.InvalidateByPrefix("cache:posts:")
	utils.Success(ctx, gin.H{"post": post})
}

// Delete handles DELETE /posts/:id (author only). Likes and comments go with
// the post.
func (p *PostController) Delete(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusNotFound, 40422, "post not found")
		return
	}
	userID, ok := middleware.UserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40122, "unauthorized")
		return
	}

	if err := p.posts.Delete(ctx.Request.Context(), id, userID); err != nil {
		writeServiceError(ctx, err)
		return
	}

	utils.InvalidateByPrefix("cache:posts:")
	ctx.Status(http.StatusNoContent)
}

// ToggleLike handles POST /posts/:id/like.
func (p *PostController) ToggleLike(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		utils.Error(ctx, http.StatusNotFound, 40423, "post not found")
		return
	}
	userID, ok := middleware.UserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40123, "unauthorized")
		return
	}

	liked, err := p.likes.Toggle(ctx.Request.Context(), id, userID)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"liked": liked})
}

// UploadImage handles POST /upload: stores a post image under the upload
// directory and returns its public URL.
func (p *PostController) UploadImage(ctx *gin.Context) {
	if _, ok := middleware.UserID(ctx); !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40124, "unauthorized")
		return
	}

	file, header, err := ctx.Request.FormFile("file")
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40030, "no file uploaded")
		return
	}
	defer file.Close()

	cfg := config.Get()
	maxSize := int64(cfg.Upload.MaxSizeMB) * 1024 * 1024
	if header.Size > maxSize {
		utils.Error(ctx, http.StatusBadRequest, 40031, fmt.Sprintf("file size exceeds %dMB", cfg.Upload.MaxSizeMB))
		return
	}

	now := time.Now()
	baseDir := filepath.Join(cfg.Upload.Dir, now.Format("2006"), now.Format("01"), now.Format("02"))
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50030, "failed to create upload directory")
		return
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	switch ext {
	case ".png", ".jpg", ".jpeg", ".gif", ".webp":
	default:
		utils.Error(ctx, http.StatusBadRequest, 40032, "unsupported image type")
		return
	}
	name := uuid.NewString() + ext
	dstPath := filepath.Join(baseDir, name)

	out, err := os.Create(dstPath)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50031, "failed to save file")
		return
	}
	defer out.Close()

	written, err := io.Copy(out, io.LimitReader(file, maxSize+1))
	if err != nil || written > maxSize {
		_ = os.Remove(dstPath)
		utils.Error(ctx, http.StatusBadRequest, 40031, fmt.Sprintf("file size exceeds %dMB", cfg.Upload.MaxSizeMB))
		return
	}

	url := "/" + filepath.ToSlash(dstPath)
	utils.Success(ctx, gin.H{"url": url})
}
