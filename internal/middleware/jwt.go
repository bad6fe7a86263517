package middleware

import (
	"net/http"
	"strings"

	"todo_api/internal/auth"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware validates the bearer token and injects the caller identity.
// A missing or malformed header is 401; a present but invalid or expired token
// is 403. Handlers downstream read identity from the context only.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization format. Use: Bearer <token>"})
			c.Abort()
			return
		}

		claims, err := auth.ValidateToken(parts[1], secret)
		if err != nil {
			c.JSON(http.StatusForbidden, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set(auth.UserIDKey, claims.UserID)
		c.Set(auth.UsernameKey, claims.Username)
		c.Next()
	}
}
