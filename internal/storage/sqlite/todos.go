package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/adanyl0v/go-todo-api/internal/models"
	"github.com/adanyl0v/go-todo-api/internal/storage"
)

type todoRepository struct {
	db *sql.DB
}

func (r todoRepository) List(ctx context.Context) ([]*models.Todo, error) {
	const selectTodosQuery = `
SELECT id,
       title,
       description,
       priority,
       complete
FROM todos
ORDER BY id
`
	todos := make([]*models.Todo, 0)
	err := inTx(ctx, r.db, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, selectTodosQuery)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			todo := new(models.Todo)
			var complete int
			err = rows.Scan(
				&todo.ID,
				&todo.Title,
				&todo.Description,
				&todo.Priority,
				&complete,
			)
			if err != nil {
				return err
			}
			todo.Complete = complete == 1
			todos = append(todos, todo)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to select todos: %w", err)
	}
	return todos, nil
}

func (r todoRepository) GetByID(ctx context.Context, id int64) (*models.Todo, error) {
	const selectTodoByIDQuery = `
SELECT title,
       description,
       priority,
       complete
FROM todos
WHERE id = ?
`
	todo := &models.Todo{ID: id}
	var complete int
	err := inTx(ctx, r.db, func(tx *sql.Tx) error {
		return tx.QueryRowContext(
			ctx,
			selectTodoByIDQuery,
			id,
		).Scan(
			&todo.Title,
			&todo.Description,
			&todo.Priority,
			&complete,
		)
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to select todo by id: %w", err)
	}
	todo.Complete = complete == 1
	return todo, nil
}

func (r todoRepository) Insert(ctx context.Context, todo *models.Todo) error {
	const insertTodoQuery = `
INSERT INTO todos (title,
                   description,
                   priority,
                   complete)
VALUES (?, ?, ?, ?)
`
	err := inTx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(
			ctx,
			insertTodoQuery,
			todo.Title,
			todo.Description,
			todo.Priority,
			boolToInt(todo.Complete),
		)
		if err != nil {
			return err
		}
		todo.ID, err = res.LastInsertId()
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to insert todo: %w", err)
	}
	return nil
}

func (r todoRepository) Update(ctx context.Context, todo *models.Todo) error {
	const updateTodoQuery = `
UPDATE todos
SET title = ?,
    description = ?,
    priority = ?,
    complete = ?
WHERE id = ?
`
	var affected int64
	err := inTx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(
			ctx,
			updateTodoQuery,
			todo.Title,
			todo.Description,
			todo.Priority,
			boolToInt(todo.Complete),
			todo.ID,
		)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to update todo: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (r todoRepository) DeleteByID(ctx context.Context, id int64) error {
	const deleteTodoQuery = `
DELETE FROM todos
WHERE id = ?
`
	var affected int64
	err := inTx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, deleteTodoQuery, id)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to delete todo: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}
