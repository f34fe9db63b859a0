package api

import (
	"net/http"
	"slices"
	"time"

	"task_manager/internal/middleware"
	"task_manager/internal/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// RouterConfig holds everything the HTTP layer depends on
type RouterConfig struct {
	DB          *gorm.DB
	Cache       *utils.Cache // Optional; nil disables response caching
	Tokens      TokenSettings
	CORSOrigins []string
}

// NewRouter wires the /api routes and their gates.
// Every non-auth route passes the authentication gate; admin routes also pass the admin gate.
func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestLogger(), middleware.RecoveryMiddleware(), corsMiddleware(cfg.CORSOrigins))

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, MessageResponse{Message: "API is working.."})
	})
	r.GET("/health", HealthHandler(cfg.DB, cfg.Cache))

	authRequired := middleware.JWTAuthMiddleware(cfg.DB, cfg.Tokens.Secret)
	adminOnly := middleware.AdminOnlyMiddleware()

	api := r.Group("/api")

	// Auth routes
	authGroup := api.Group("/auth")
	authGroup.POST("/register", RegisterHandler(cfg.DB, cfg.Cache, cfg.Tokens))
	authGroup.POST("/login", LoginHandler(cfg.DB, cfg.Tokens))

	// Task routes (owner scoped)
	taskGroup := api.Group("/tasks", authRequired)
	taskGroup.GET("", ListTasksHandler(cfg.DB, cfg.Cache))
	taskGroup.POST("", CreateTaskHandler(cfg.DB, cfg.Cache))
	taskGroup.PUT("/:id", UpdateTaskHandler(cfg.DB, cfg.Cache))
	taskGroup.DELETE("/:id", DeleteTaskHandler(cfg.DB, cfg.Cache))

	// Admin task routes (any owner)
	adminTaskGroup := taskGroup.Group("/admin", adminOnly)
	adminTaskGroup.GET("/all", ListAllTasksHandler(cfg.DB, cfg.Cache))
	adminTaskGroup.POST("", AdminCreateTaskHandler(cfg.DB, cfg.Cache))
	adminTaskGroup.PUT("/:id", AdminUpdateTaskHandler(cfg.DB, cfg.Cache))
	adminTaskGroup.DELETE("/:id", AdminDeleteTaskHandler(cfg.DB, cfg.Cache))

	// User routes (admin only)
	userGroup := api.Group("/users", authRequired, adminOnly)
	userGroup.GET("", ListUsersHandler(cfg.DB, cfg.Cache))
	userGroup.GET("/:id", GetUserHandler(cfg.DB))
	userGroup.POST("", CreateUserHandler(cfg.DB, cfg.Cache))
	userGroup.PUT("/:id", UpdateUserHandler(cfg.DB, cfg.Cache))
	userGroup.DELETE("/:id", DeleteUserHandler(cfg.DB, cfg.Cache))

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, MessageResponse{Message: "Route not found"})
	})
	return r
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"X-Cache"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}

// HealthHandler reports whether the database and, when configured, Redis are reachable
func HealthHandler(db *gorm.DB, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx)
		}
		if err == nil {
			err = cache.Ping(ctx)
		}
		if err != nil {
			respondError(c, &AppError{Status: http.StatusServiceUnavailable, Message: "Service unavailable", Err: err})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
