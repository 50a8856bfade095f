package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/adanyl0v/go-todo-api/internal/models"
	"github.com/adanyl0v/go-todo-api/internal/storage"
)

type userRepository struct {
	db *sql.DB
}

func (r userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	const selectUserByEmailQuery = `
SELECT id,
       password,
       created_at,
       updated_at
FROM users
WHERE email = ?
`
	user := &models.User{Email: email}
	var createdAt, updatedAt int64
	err := inTx(ctx, r.db, func(tx *sql.Tx) error {
		return tx.QueryRowContext(
			ctx,
			selectUserByEmailQuery,
			email,
		).Scan(
			&user.ID,
			&user.Password,
			&createdAt,
			&updatedAt,
		)
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to select user by email: %w", err)
	}
	user.CreatedAt = fromMillis(createdAt)
	user.UpdatedAt = fromMillis(updatedAt)
	return user, nil
}

func (r userRepository) CreateWithSession(ctx context.Context, user *models.User, session *models.Session) error {
	const insertUserQuery = `
INSERT INTO users (id,
                   email,
                   password,
                   created_at,
                   updated_at)
VALUES (?, ?, ?, ?, ?)
`
	err := inTx(ctx, r.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(
			ctx,
			insertUserQuery,
			user.ID,
			user.Email,
			user.Password,
			toMillis(user.CreatedAt),
			toMillis(user.UpdatedAt),
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
