package middleware

import (
	"context"
	_ "embed"
	"fmt"
	"net/http"
	"time"

	"todo_api/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

//go:embed rate_limiter.lua
var luaScript string

// RateLimiterConfig holds rate limiter configuration
type RateLimiterConfig struct {
	Capacity   int     // Maximum number of tokens (max requests)
	RefillRate float64 // Tokens refilled per second
}

// DefaultRateLimiterConfig returns default rate limiter settings
// 10 requests per second with burst capacity of 20
func DefaultRateLimiterConfig() *RateLimiterConfig {
	return &RateLimiterConfig{
		Capacity:   20,
		RefillRate: 10.0,
	}
}

// StrictRateLimiterConfig is for sensitive endpoints (login, register).
// Burst: 10 requests, sustained: 1 request per second.
func StrictRateLimiterConfig() *RateLimiterConfig {
	return &RateLimiterConfig{
		Capacity:   10,
		RefillRate: 1.0,
	}
}

// RateLimiterMiddleware implements the token bucket algorithm with Redis + a
// Lua script. Buckets are keyed by authenticated user when available, client
// IP otherwise (public routes).
func RateLimiterMiddleware(redisClient *redis.Client, config *RateLimiterConfig) gin.HandlerFunc {
	// Load Lua script into Redis (SHA hash will be cached)
	ctx := context.Background()
	scriptSHA, err := redisClient.ScriptLoad(ctx, luaScript).Result()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load Lua script for rate limiter")
	}

	return func(c *gin.Context) {
		key := ClientRateLimiterKey(c.ClientIP())
		if userID, err := auth.GetUserIDFromContext(c); err == nil {
			key = UserRateLimiterKey(userID)
		}

		now := time.Now().Unix()

		result, err := redisClient.EvalSha(ctx, scriptSHA, []string{key},
			config.Capacity,
			config.RefillRate,
			now,
		).Result()

		if err != nil {
			logrus.WithError(err).Error("Failed to execute rate limiter Lua script")
			// Fail open: allow request if Redis fails
			c.Next()
			return
		}

		allowed, ok := scriptReplyAllowed(result)
		if !ok {
			logrus.Errorf("Unexpected rate limiter script reply type %T", result)
			// Fail open, same as a script error
			c.Next()
			return
		}
		if !allowed {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "Rate limit exceeded",
				"retry_after": fmt.Sprintf("%.1f seconds", 1.0/config.RefillRate),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// scriptReplyAllowed interprets the token bucket script reply. ok is false
// when the reply is not the integer the script is expected to return.
func scriptReplyAllowed(result interface{}) (allowed, ok bool) {
	n, ok := result.(int64)
	return n != 0, ok
}

// Build rate limiter key for an authenticated user
func UserRateLimiterKey(userID int) string {
	return fmt.Sprintf("rate_limiter:user:%d", userID)
}

// Build rate limiter key for an unauthenticated client
func ClientRateLimiterKey(ip string) string {
	return fmt.Sprintf("rate_limiter:ip:%s", ip)
}
