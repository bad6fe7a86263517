package handler

import (
	"database/sql"
	"net/http"

	"todo_api/internal/cache"
	"todo_api/internal/config"
	"todo_api/internal/middleware"
	"todo_api/internal/observability"
	"todo_api/internal/queue"
	"todo_api/internal/todo"
	"todo_api/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/rabbitmq/amqp091-go"
)

// SetupHandler initializes all dependencies and routes
func SetupHandler(db *sql.DB, conn *amqp091.Connection, redisClient *redis.Client, cfg *config.Config) *gin.Engine {

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	if observability.GlobalMetrics != nil {
		r.Use(middleware.PrometheusMiddleware(observability.GlobalMetrics))
	}

	// Initialize repositories
	userRepo := user.NewUserRepository()
	todoRepo := todo.NewTodoRepository()

	// Initialize services
	userService := user.NewUserService(userRepo, db)
	todoService := todo.NewTodoService(todoRepo, db, cache.NewTodoCache(redisClient), queue.NewEventPublisher(conn))

	// Initialize controllers
	userController := user.NewUserController(userService, cfg.JWT.Secret)
	todoController := todo.NewTodoController(todoService)

	setupRoutes(r, db, userController, todoController, redisClient, cfg.JWT.Secret)

	return r
}

// setupRoutes configures all application routes
func setupRoutes(r *gin.Engine, db *sql.DB, userCtrl *user.UserController, todoCtrl *todo.TodoController, redisClient *redis.Client, jwtSecret string) {

	r.GET("/healthz", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Static client
	r.StaticFile("/", "./web/index.html")
	r.StaticFile("/app.js", "./web/app.js")

	// Public routes - Authentication (strict rate limit on credentials)
	authLimiter := middleware.RateLimiterMiddleware(redisClient, middleware.StrictRateLimiterConfig())
	r.POST("/api/register", authLimiter, userCtrl.Register)
	r.POST("/api/login", authLimiter, userCtrl.Login)

	// Protected routes - todos
	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware(jwtSecret))
	api.Use(middleware.RateLimiterMiddleware(redisClient, middleware.DefaultRateLimiterConfig()))
	{
		api.GET("/todos", todoCtrl.ListTodos)
		api.POST("/todos", todoCtrl.CreateTodo)
		api.GET("/todos/:id", todoCtrl.GetTodo)
		api.PUT("/todos/:id", todoCtrl.UpdateTodo)
		api.DELETE("/todos/:id", todoCtrl.DeleteTodo)
	}
}
