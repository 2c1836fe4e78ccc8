package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/devboard/devboard/config"
	"github.com/devboard/devboard/controllers"
	"github.com/devboard/devboard/middleware"
	"github.com/devboard/devboard/models"
	"github.com/devboard/devboard/services"
	"github.com/devboard/devboard/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.Server.Mode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// File-based zap access log instead of gin's console logger.
	al, err := utils.NewRollingFileLogger(cfg.Log.AccessPath, cfg.Log.Level,
		cfg.Log.MaxSizeMB, cfg.Log.MaxBackups, cfg.Log.MaxAgeDays, cfg.Log.Compress)
	if err == nil {
		r.Use(utils.Ginzap(al, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(al, false))
	} else {
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.Server.AllowedOrigins) == 1 && cfg.Server.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.Server.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))
	r.Use(middleware.PageViewRecorder(db))

	r.Static("/static", "./static")

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	postService := services.NewPostService(db)
	likeService := services.NewLikeService(db)
	commentService := services.NewCommentService(db)

	authController := controllers.NewAuthController(db)
	postController := controllers.NewPostController(postService, likeService)
	commentController := controllers.NewCommentController(commentService)
	statsController := controllers.NewStatsController(db)

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware())
	authGroup.POST("/register", authController.Register)
	authGroup.POST("/login", authController.Login)
	authGroup.POST("/logout", middleware.AuthRequired(), authController.Logout)
	authGroup.GET("/me", middleware.AuthRequired(), authController.Me)
	authGroup.PATCH("/profile", middleware.AuthRequired(), authController.UpdateProfile)

	// Public reads.
	api.GET("/posts", postController.List)
	api.GET("/posts/popular", postController.ListPopular)
	api.GET("/posts/tech", postController.ListBoard(models.BoardTech))
	api.GET("/posts/free", postController.ListBoard(models.BoardFree))
	api.GET("/posts/guestbook", postController.ListBoard(models.BoardGuest))
	api.GET("/posts/:id", postController.Get)
	api.GET("/posts/:id/comments", commentController.List)
	api.GET("/users/:id/posts", postController.ListByUser)
	api.GET("/stats", statsController.GetStats)

	// Authenticated writes.
	protected := api.Group("")
	protected.Use(middleware.AuthRequired(), middleware.RateLimitMiddleware())
	protected.POST("/posts", postController.Create)
	protected.PUT("/posts/:id", postController.Update)
	protected.DELETE("/posts/:id", postController.Delete)
	protected.POST("/posts/:id/like", postController.ToggleLike)
	protected.POST("/posts/:id/comments", commentController.Create)
	protected.PUT("/comments/:id", commentController.Update)
	protected.DELETE("/comments/:id", commentController.Delete)
	protected.POST("/upload", postController.UploadImage)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, 40400, "route not found")
	})

	return r
}
