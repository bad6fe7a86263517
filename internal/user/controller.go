package user

import (
	"errors"
	"net/http"

	"todo_api/internal/apperr"
	"todo_api/internal/observability"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	userService UserServiceInterface
	jwtSecret   string
}

func NewUserController(userService UserServiceInterface, jwtSecret string) *UserController {
	return &UserController{
		userService: userService,
		jwtSecret:   jwtSecret,
	}
}

// Register handles user registration
func (a *UserController) Register(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, err := a.userService.CreateUser(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, apperr.ErrUsernameTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": "Username already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	if observability.GlobalMetrics != nil {
		observability.GlobalMetrics.RegistrationsTotal.Inc()
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User created successfully",
		"user_id": userID,
	})
}

// Login handles user login and returns a session token
func (a *UserController) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	result, err := a.userService.LoginUser(req.Username, req.Password, a.jwtSecret)
	if err != nil {
		if errors.Is(err, apperr.ErrInvalidCredentials) {
			if observability.GlobalMetrics != nil {
				observability.GlobalMetrics.LoginsTotal.WithLabelValues("failure").Inc()
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid credentials"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log in"})
		return
	}

	if observability.GlobalMetrics != nil {
		observability.GlobalMetrics.LoginsTotal.WithLabelValues("success").Inc()
	}

	c.JSON(http.StatusOK, result)
}
