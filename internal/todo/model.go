package todo

import "time"

// Todo is a task record owned by exactly one user. JSON field names follow
// the HTTP contract consumed by the client.
type Todo struct {
	ID          int        `json:"id"`
	UserID      int        `json:"userId"`
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Completed   bool       `json:"completed"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// CreateTodoInput carries the caller-supplied fields of a new todo. The owner
// is always taken from the authenticated identity, never from the input.
type CreateTodoInput struct {
	Title       string
	Description *string
	DueDate     *time.Time
}

// UpdateTodoInput carries a partial update. Nil fields are left untouched.
type UpdateTodoInput struct {
	Title       *string
	Description *string
	DueDate     *time.Time
	Completed   *bool
}
