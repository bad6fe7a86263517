//go:build integration

package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"todo_api/internal/handler"
	"todo_api/internal/queue"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestTodoEvents_PublishedOnWrites verifies lifecycle events land on the
// queue for create, update and delete.
func TestTodoEvents_PublishedOnWrites(t *testing.T) {
	env := SetupTestEnv(t)
	defer env.Cleanup(t)

	router := handler.SetupHandler(env.DB, env.RabbitConn, env.RedisClient, env.Config)
	token := registerAndLogin(t, router, fmt.Sprintf("carol_%d", time.Now().UnixNano()), "SecurePass123!")

	w := doJSON(router, "POST", "/api/todos", token, map[string]string{"title": "Buy milk"})
	require.Equal(t, http.StatusCreated, w.Code)

	var created map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	path := fmt.Sprintf("/api/todos/%.0f", created["id"].(float64))

	w = doJSON(router, "PUT", path, token, map[string]interface{}{"completed": true})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, "DELETE", path, token, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	ch, err := env.RabbitConn.Channel()
	require.NoError(t, err)
	defer ch.Close()

	var actions []string
	deadline := time.After(5 * time.Second)
	for len(actions) < 3 {
		select {
		case <-deadline:
			t.Fatalf("expected 3 events, got %d: %v", len(actions), actions)
		default:
		}

		msg, ok, err := ch.Get(queue.TodoEventsQueue, true)
		require.NoError(t, err)
		if !ok {
			time.Sleep(100 * time.Millisecond)
			continue
		}

		var event queue.TodoEvent
		require.NoError(t, json.Unmarshal(msg.Body, &event))
		actions = append(actions, event.Action)
	}

	assert.Equal(t, []string{queue.ActionCreated, queue.ActionUpdated, queue.ActionDeleted}, actions)
}
