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

type userRepository struct {
	pool *pgxpool.Pool
}

func (r userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	const selectUserByEmailQuery = `
SELECT id,
       password,
       created_at,
       updated_at
FROM users
WHERE email = $1
`
	user := &models.User{Email: email}
	err := inTx(ctx, r.pool, func(tx pgx.Tx) error {
		return tx.QueryRow(
			ctx,
			selectUserByEmailQuery,
			email,
		).Scan(
			&user.ID,
			&user.Password,
			&user.CreatedAt,
			&user.UpdatedAt,
		)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to select user by email: %w", err)
	}
	return user, nil
}

func (r userRepository) CreateWithSession(ctx context.Context, user *models.User, session *models.Session) error {
	const insertUserQuery = `
INSERT INTO users (id,
                   email,
                   password,
                   created_at,
                   updated_at)
VALUES ($1, $2, $3, $4, $5)
`
	err := inTx(ctx, r.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(
			ctx,
			insertUserQuery,
			user.ID,
			user.Email,
			user.Password,
			user.CreatedAt,
			user.UpdatedAt,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return storage.ErrAlreadyExists
			}
			return err
		}
		return insertSession(ctx, tx, session)
	})
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return err
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}
