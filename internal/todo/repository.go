package todo

import (
	"database/sql"
	"errors"

	"todo_api/internal/apperr"

	"github.com/sirupsen/logrus"
)

type TodoRepository struct{}

// Every read and write is scoped by owner: a todo belonging to another user
// is indistinguishable from one that does not exist.
type TodoRepositoryInterface interface {
	Create(tx *sql.Tx, todo *Todo) error
	GetByID(db *sql.DB, id, userID int) (*Todo, error)
	ListByUser(db *sql.DB, userID int) ([]*Todo, error)
	Update(tx *sql.Tx, todo *Todo) error
	Delete(tx *sql.Tx, id, userID int) error
}

func NewTodoRepository() TodoRepositoryInterface {
	return &TodoRepository{}
}

func (r *TodoRepository) Create(
	tx *sql.Tx,
	todo *Todo,
) error {
	query := `
		INSERT INTO todos (
			user_id, title, description, due_date, completed, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := tx.QueryRow(
		query,
		todo.UserID,
		todo.Title,
		todo.Description,
		todo.DueDate,
		todo.Completed,
	).Scan(&todo.ID, &todo.CreatedAt, &todo.UpdatedAt)

	if err != nil {
		return err
	}

	return nil
}

func (r *TodoRepository) GetByID(
	db *sql.DB,
	id, userID int,
) (*Todo, error) {
	query := `
		SELECT
			id, user_id, title, description,
			due_date, completed,
			created_at, updated_at
		FROM todos
		WHERE id = $1 AND user_id = $2
	`

	row := db.QueryRow(query, id, userID)

	var t Todo
	err := row.Scan(
		&t.ID,
		&t.UserID,
		&t.Title,
		&t.Description,
		&t.DueDate,
		&t.Completed,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}

	return &t, nil
}

// ListByUser returns the caller's todos ordered by due date ascending. Todos
// without a due date sort last; ties break by id for a deterministic order.
func (r *TodoRepository) ListByUser(
	db *sql.DB,
	userID int,
) ([]*Todo, error) {
	query := `
		SELECT
			id, user_id, title, description,
			due_date, completed,
			created_at, updated_at
		FROM todos
		WHERE user_id = $1
		ORDER BY due_date ASC NULLS LAST, id ASC
	`

	rows, err := db.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	todos := []*Todo{}

	for rows.Next() {
		var t Todo
		err := rows.Scan(
			&t.ID,
			&t.UserID,
			&t.Title,
			&t.Description,
			&t.DueDate,
			&t.Completed,
			&t.CreatedAt,
			&t.UpdatedAt,
		)
		if err != nil {
			logrus.Error("Error scanning todo row: ", err)
			continue
		}
		todos = append(todos, &t)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return todos, nil
}

func (r *TodoRepository) Update(
	tx *sql.Tx,
	todo *Todo,
) error {
	query := `
		UPDATE todos
		SET title = $1,
		    description = $2,
		    due_date = $3,
		    completed = $4,
		    updated_at = NOW()
		WHERE id = $5 AND user_id = $6
		RETURNING updated_at
	`

	err := tx.QueryRow(
		query,
		todo.Title,
		todo.Description,
		todo.DueDate,
		todo.Completed,
		todo.ID,
		todo.UserID,
	).Scan(&todo.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.ErrNotFound
		}
		return err
	}

	return nil
}

func (r *TodoRepository) Delete(
	tx *sql.Tx,
	id, userID int,
) error {
	query := `
		DELETE FROM todos
		WHERE id = $1 AND user_id = $2
	`

	result, err := tx.Exec(query, id, userID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return apperr.ErrNotFound
	}

	return nil
}
