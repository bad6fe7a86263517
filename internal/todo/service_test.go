package todo

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"todo_api/internal/apperr"
	"todo_api/internal/queue"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockTodoRepository is a mock implementation of TodoRepositoryInterface
type MockTodoRepository struct {
	mock.Mock
}

func (m *MockTodoRepository) Create(tx *sql.Tx, todo *Todo) error {
	args := m.Called(tx, todo)
	return args.Error(0)
}

func (m *MockTodoRepository) GetByID(db *sql.DB, id, userID int) (*Todo, error) {
	args := m.Called(db, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Todo), args.Error(1)
}

func (m *MockTodoRepository) ListByUser(db *sql.DB, userID int) ([]*Todo, error) {
	args := m.Called(db, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Todo), args.Error(1)
}

func (m *MockTodoRepository) Update(tx *sql.Tx, todo *Todo) error {
	args := m.Called(tx, todo)
	return args.Error(0)
}

func (m *MockTodoRepository) Delete(tx *sql.Tx, id, userID int) error {
	args := m.Called(tx, id, userID)
	return args.Error(0)
}

// fakeCache is an in-memory stand-in for the Redis cache
type fakeCache struct {
	store map[string][]byte
}

func newFakeCache() *fakeCache {
	return &fakeCache{store: map[string][]byte{}}
}

func (f *fakeCache) Get(ctx context.Context, key string) ([]byte, error) {
	val, ok := f.store[key]
	if !ok {
		return nil, nil
	}
	return val, nil
}

func (f *fakeCache) Set(ctx context.Context, key string, data interface{}) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}
	f.store[key] = jsonData
	return nil
}

func (f *fakeCache) InvalidateUser(ctx context.Context, userID int) error {
	f.store = map[string][]byte{}
	return nil
}

// fakePublisher records events instead of talking to RabbitMQ
type fakePublisher struct {
	events []queue.TodoEvent
}

func (f *fakePublisher) PublishTodoEvent(ctx context.Context, event queue.TodoEvent) error {
	f.events = append(f.events, event)
	return nil
}

func TestCreateTodo_RejectsBlankTitle(t *testing.T) {
	mockRepo := new(MockTodoRepository)
	service := NewTodoService(mockRepo, nil, newFakeCache(), &fakePublisher{})

	for _, title := range []string{"", "   ", "\t"} {
		_, err := service.CreateTodo(1, CreateTodoInput{Title: title})
		assert.ErrorIs(t, err, apperr.ErrValidation)
	}

	mockRepo.AssertNotCalled(t, "Create")
}

func TestListTodos_CacheMissFallsThroughToRepo(t *testing.T) {
	mockRepo := new(MockTodoRepository)
	cache := newFakeCache()
	service := NewTodoService(mockRepo, nil, cache, &fakePublisher{})

	due := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	expected := []*Todo{{ID: 1, UserID: 1, Title: "Buy milk", DueDate: &due}}

	mockRepo.On("ListByUser", mock.Anything, 1).Return(expected, nil).Once()

	todos, err := service.ListTodos(1)
	require.NoError(t, err)
	require.Len(t, todos, 1)
	assert.Equal(t, "Buy milk", todos[0].Title)

	// Second call is served from cache; the repo is not hit again
	todos, err = service.ListTodos(1)
	require.NoError(t, err)
	require.Len(t, todos, 1)

	mockRepo.AssertExpectations(t)
}

func TestGetTodo_CacheMissFallsThroughToRepo(t *testing.T) {
	mockRepo := new(MockTodoRepository)
	service := NewTodoService(mockRepo, nil, newFakeCache(), &fakePublisher{})

	expected := &Todo{ID: 3, UserID: 1, Title: "Buy milk"}
	mockRepo.On("GetByID", mock.Anything, 3, 1).Return(expected, nil).Once()

	got, err := service.GetTodo(1, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, got.ID)

	// Cached now
	got, err = service.GetTodo(1, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, got.ID)

	mockRepo.AssertExpectations(t)
}

func TestGetTodo_NotFoundPassesThrough(t *testing.T) {
	mockRepo := new(MockTodoRepository)
	service := NewTodoService(mockRepo, nil, newFakeCache(), &fakePublisher{})

	mockRepo.On("GetByID", mock.Anything, 99, 1).Return(nil, apperr.ErrNotFound)

	_, err := service.GetTodo(1, 99)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestUpdateTodo_NotFoundPassesThrough(t *testing.T) {
	mockRepo := new(MockTodoRepository)
	service := NewTodoService(mockRepo, nil, newFakeCache(), &fakePublisher{})

	mockRepo.On("GetByID", mock.Anything, 99, 1).Return(nil, apperr.ErrNotFound)

	title := "New title"
	_, err := service.UpdateTodo(1, 99, UpdateTodoInput{Title: &title})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	mockRepo.AssertNotCalled(t, "Update")
}

func TestUpdateTodo_RejectsBlankTitle(t *testing.T) {
	mockRepo := new(MockTodoRepository)
	service := NewTodoService(mockRepo, nil, newFakeCache(), &fakePublisher{})

	existing := &Todo{ID: 5, UserID: 1, Title: "Buy milk"}
	mockRepo.On("GetByID", mock.Anything, 5, 1).Return(existing, nil)

	blank := "  "
	_, err := service.UpdateTodo(1, 5, UpdateTodoInput{Title: &blank})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	mockRepo.AssertNotCalled(t, "Update")
}
