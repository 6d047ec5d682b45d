package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"weblog/config"
	"weblog/controllers"
	"weblog/middleware"
	"weblog/utils"
)

// SetupRouter wires middlewares, controllers and routes.
func SetupRouter(db *gorm.DB, cfg *config.AppConfig) *gin.Engine {
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.RequestID())

	// Access log and recovery go to a dedicated rolling file.
	if gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress); err == nil {
		r.Use(middleware.AccessLog(gl))
		r.Use(middleware.Recovery(gl))
	} else {
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	rc := utils.NewRedis(cfg)
	tokens := utils.NewTokenManager(cfg)
	blacklist := utils.NewTokenBlacklist(rc)
	cache := utils.NewCache(rc)

	authController := controllers.NewAuthController(db, tokens, blacklist)
	postController := controllers.NewPostController(db, cache)

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimit(cfg.RateLimitPerMinute))
	authGroup.POST("/register", authController.Register)
	authGroup.POST("/login", authController.Login)
	authGroup.POST("/logout", middleware.AuthRequired(tokens, blacklist), authController.Logout)
	authGroup.GET("/me", middleware.AuthRequired(tokens, blacklist), authController.Me)

	postsGroup := api.Group("/posts")
	postsGroup.GET("", postController.ListPosts)
	postsGroup.POST("", postController.ListPosts) // listing form may be posted
	postsGroup.GET("/:id", postController.GetPost)
	postsGroup.POST("/:id/comments", middleware.AuthRequired(tokens, blacklist), postController.CreateComment)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, 40400, "route not found")
	})

	return r
}
