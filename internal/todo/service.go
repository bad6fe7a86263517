package todo

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"todo_api/internal/apperr"
	"todo_api/internal/cache"
	"todo_api/internal/observability"
	"todo_api/internal/queue"
	"todo_api/internal/utils"

	"github.com/sirupsen/logrus"
)

type TodoServiceInterface interface {
	ListTodos(userID int) ([]*Todo, error)
	CreateTodo(userID int, input CreateTodoInput) (*Todo, error)
	GetTodo(userID, id int) (*Todo, error)
	UpdateTodo(userID, id int, input UpdateTodoInput) (*Todo, error)
	DeleteTodo(userID, id int) error
}

type TodoService struct {
	repo      TodoRepositoryInterface
	db        *sql.DB
	cache     cache.TodoCacheInterface
	publisher queue.EventPublisherInterface
}

func NewTodoService(repo TodoRepositoryInterface, db *sql.DB, todoCache cache.TodoCacheInterface, publisher queue.EventPublisherInterface) TodoServiceInterface {
	return &TodoService{
		repo:      repo,
		db:        db,
		cache:     todoCache,
		publisher: publisher,
	}
}

// ListTodos returns every todo owned by the caller, due date ascending.
func (s *TodoService) ListTodos(userID int) ([]*Todo, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	cacheKey := cache.UserTodosKey(userID)
	cachedData, err := s.cache.Get(ctx, cacheKey)
	if err == nil && cachedData != nil {
		var todos []*Todo
		if json.Unmarshal(cachedData, &todos) == nil {
			recordCacheHit("todo_list")
			return todos, nil
		}
	}
	recordCacheMiss("todo_list")

	todos, err := s.repo.ListByUser(s.db, userID)
	if err != nil {
		return nil, err
	}

	// Set cache (a miss is not critical)
	if err := s.cache.Set(ctx, cacheKey, todos); err != nil {
		logrus.WithError(err).Warn("Failed to set cache for todo list")
	}

	return todos, nil
}

// CreateTodo validates the input and persists a new todo owned by the caller.
func (s *TodoService) CreateTodo(userID int, input CreateTodoInput) (*Todo, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, apperr.ErrValidation
	}

	t := &Todo{
		UserID:      userID,
		Title:       input.Title,
		Description: input.Description,
		DueDate:     input.DueDate,
		Completed:   false,
	}

	if err := utils.WithTransaction(s.db, func(tx *sql.Tx) error {
		return s.repo.Create(tx, t)
	}); err != nil {
		return nil, err
	}

	if observability.GlobalMetrics != nil {
		observability.GlobalMetrics.TodosCreatedTotal.Inc()
	}

	s.invalidateCache(userID)
	s.publishEvent(queue.TodoEvent{TodoID: t.ID, UserID: userID, Action: queue.ActionCreated})

	return t, nil
}

// GetTodo returns the todo only if the caller owns it; a todo owned by
// someone else surfaces as not found.
func (s *TodoService) GetTodo(userID, id int) (*Todo, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	cacheKey := cache.TodoKey(userID, id)
	cachedData, err := s.cache.Get(ctx, cacheKey)
	if err == nil && cachedData != nil {
		var t Todo
		if json.Unmarshal(cachedData, &t) == nil {
			recordCacheHit("todo")
			return &t, nil
		}
	}
	recordCacheMiss("todo")

	t, err := s.repo.GetByID(s.db, id, userID)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, cacheKey, t); err != nil {
		logrus.WithError(err).Warn("Failed to set cache for todo")
	}

	return t, nil
}

// UpdateTodo applies a partial update; nil fields keep their stored value.
// Updating the same payload twice is idempotent.
func (s *TodoService) UpdateTodo(userID, id int, input UpdateTodoInput) (*Todo, error) {
	t, err := s.repo.GetByID(s.db, id, userID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		t.Title = *input.Title
	}
	if input.Description != nil {
		t.Description = input.Description
	}
	if input.DueDate != nil {
		t.DueDate = input.DueDate
	}
	wasCompleted := t.Completed
	if input.Completed != nil {
		t.Completed = *input.Completed
	}

	if strings.TrimSpace(t.Title) == "" {
		return nil, apperr.ErrValidation
	}

	if err := utils.WithTransaction(s.db, func(tx *sql.Tx) error {
		return s.repo.Update(tx, t)
	}); err != nil {
		return nil, err
	}

	if observability.GlobalMetrics != nil {
		observability.GlobalMetrics.TodosUpdatedTotal.Inc()
		if !wasCompleted && t.Completed {
			observability.GlobalMetrics.TodosCompletedTotal.Inc()
		}
	}

	s.invalidateCache(userID)
	s.publishEvent(queue.TodoEvent{TodoID: id, UserID: userID, Action: queue.ActionUpdated})

	return t, nil
}

// DeleteTodo removes the todo if the caller owns it.
func (s *TodoService) DeleteTodo(userID, id int) error {
	if err := utils.WithTransaction(s.db, func(tx *sql.Tx) error {
		return s.repo.Delete(tx, id, userID)
	}); err != nil {
		return err
	}

	if observability.GlobalMetrics != nil {
		observability.GlobalMetrics.TodosDeletedTotal.Inc()
	}

	s.invalidateCache(userID)
	s.publishEvent(queue.TodoEvent{TodoID: id, UserID: userID, Action: queue.ActionDeleted})

	return nil
}

func (s *TodoService) invalidateCache(userID int) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := s.cache.InvalidateUser(ctx, userID); err != nil {
		logrus.WithError(err).Warn("Failed to invalidate todo cache")
	}
}

// publishEvent is best-effort: a queue failure is logged and never fails the
// request.
func (s *TodoService) publishEvent(event queue.TodoEvent) {
	if err := s.publisher.PublishTodoEvent(context.Background(), event); err != nil {
		logrus.WithError(err).Warn("Failed to publish todo event")
		return
	}

	if observability.GlobalMetrics != nil {
		observability.GlobalMetrics.QueueEventsPublished.WithLabelValues(queue.TodoEventsQueue).Inc()
	}
}

func recordCacheHit(keyType string) {
	if observability.GlobalMetrics != nil {
		observability.GlobalMetrics.CacheHitsTotal.WithLabelValues(keyType).Inc()
	}
}

func recordCacheMiss(keyType string) {
	if observability.GlobalMetrics != nil {
		observability.GlobalMetrics.CacheMissesTotal.WithLabelValues(keyType).Inc()
	}
}
