package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adanyl0v/go-todo-api/internal/models"
	"github.com/adanyl0v/go-todo-api/internal/storage"
)

type todoRepository struct {
	pool *pgxpool.Pool
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
	err := inTx(ctx, r.pool, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, selectTodosQuery)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			todo := new(models.Todo)
			err = rows.Scan(
				&todo.ID,
				&todo.Title,
				&todo.Description,
				&todo.Priority,
				&todo.Complete,
			)
			if err != nil {
				return err
			}
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
WHERE id = $1
`
	todo := &models.Todo{ID: id}
	err := inTx(ctx, r.pool, func(tx pgx.Tx) error {
		return tx.QueryRow(
			ctx,
			selectTodoByIDQuery,
			id,
		).Scan(
			&todo.Title,
			&todo.Description,
			&todo.Priority,
			&todo.Complete,
		)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to select todo by id: %w", err)
	}
	return todo, nil
}

func (r todoRepository) Insert(ctx context.Context, todo *models.Todo) error {
	const insertTodoQuery = `
INSERT INTO todos (title,
                   description,
                   priority,
                   complete)
VALUES ($1, $2, $3, $4)
RETURNING id
`
	err := inTx(ctx, r.pool, func(tx pgx.Tx) error {
		return tx.QueryRow(
			ctx,
			insertTodoQuery,
			todo.Title,
			todo.Description,
			todo.Priority,
			todo.Complete,
		).Scan(&todo.ID)
	})
	if err != nil {
		return fmt.Errorf("failed to insert todo: %w", err)
	}
	return nil
}

func (r todoRepository) Update(ctx context.Context, todo *models.Todo) error {
	const updateTodoQuery = `
UPDATE todos
SET title = $1,
    description = $2,
    priority = $3,
    complete = $4
WHERE id = $5
`
	var affected int64
	err := inTx(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(
			ctx,
			updateTodoQuery,
			todo.Title,
			todo.Description,
			todo.Priority,
			todo.Complete,
			todo.ID,
		)
		affected = tag.RowsAffected()
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
WHERE id = $1
`
	var affected int64
	err := inTx(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, deleteTodoQuery, id)
		affected = tag.RowsAffected()
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
