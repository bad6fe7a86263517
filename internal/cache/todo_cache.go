package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const TodoCacheTTL = 5 * time.Minute

// TodoCacheInterface lets services swap the Redis-backed cache for a fake in
// unit tests.
type TodoCacheInterface interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, data interface{}) error
	InvalidateUser(ctx context.Context, userID int) error
}

type TodoCache struct {
	client *redis.Client
}

func NewTodoCache(client *redis.Client) TodoCacheInterface {
	return &TodoCache{client: client}
}

// Get returns the cached payload, or (nil, nil) on a miss.
func (c *TodoCache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, nil // Cache miss
	}
	if err != nil {
		return nil, err
	}
	return []byte(val), nil
}

// Set stores the JSON-encoded payload with the cache TTL.
func (c *TodoCache) Set(ctx context.Context, key string, data interface{}) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, jsonData, TodoCacheTTL).Err()
}

// InvalidateUser drops every cached entry for the user. Called after every
// write so reads never serve stale owner-scoped data.
func (c *TodoCache) InvalidateUser(ctx context.Context, userID int) error {
	iter := c.client.Scan(ctx, 0, fmt.Sprintf("todo:user:%d:*", userID), 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	keys = append(keys, UserTodosKey(userID))
	return c.client.Del(ctx, keys...).Err()
}

// Build cache key for a single todo
func TodoKey(userID, todoID int) string {
	return fmt.Sprintf("todo:user:%d:%d", userID, todoID)
}

// Build cache key for a user's todo list
func UserTodosKey(userID int) string {
	return fmt.Sprintf("todos:user:%d", userID)
}
