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

type sessionRepository struct {
	pool *pgxpool.Pool
}

func (r sessionRepository) GetByID(ctx context.Context, id string) (*models.Session, error) {
	const selectSessionByIDQuery = `
SELECT user_id,
       fingerprint,
       refresh_token,
       expires_at,
       created_at,
       updated_at
FROM sessions
WHERE id = $1
`
	session := &models.Session{ID: id}
	err := inTx(ctx, r.pool, func(tx pgx.Tx) error {
		return tx.QueryRow(
			ctx,
			selectSessionByIDQuery,
			id,
		).Scan(
			&session.UserID,
			&session.Fingerprint,
			&session.RefreshToken,
			&session.ExpiresAt,
			&session.CreatedAt,
			&session.UpdatedAt,
		)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to select session by id: %w", err)
	}
	return session, nil
}

func (r sessionRepository) GetByRefreshToken(ctx context.Context, refreshToken, fingerprint string) (*models.Session, error) {
	const selectSessionByRefreshTokenQuery = `
SELECT id,
       user_id,
       expires_at,
       created_at,
       updated_at
FROM sessions
WHERE refresh_token = $1 AND
      fingerprint = $2
`
	session := &models.Session{
		RefreshToken: refreshToken,
		Fingerprint:  fingerprint,
	}
	err := inTx(ctx, r.pool, func(tx pgx.Tx) error {
		return tx.QueryRow(
			ctx,
			selectSessionByRefreshTokenQuery,
			refreshToken,
			fingerprint,
		).Scan(
			&session.ID,
			&session.UserID,
			&session.ExpiresAt,
			&session.CreatedAt,
			&session.UpdatedAt,
		)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to select session by refresh token: %w", err)
	}
	return session, nil
}

func (r sessionRepository) Replace(ctx context.Context, session *models.Session) error {
	const deleteSessionsByUserIDQuery = `
DELETE FROM sessions
WHERE user_id = $1
`
	err := inTx(ctx, r.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, deleteSessionsByUserIDQuery, session.UserID)
		if err != nil {
			return err
		}
		return insertSession(ctx, tx, session)
	})
	if err != nil {
		return fmt.Errorf("failed to replace sessions: %w", err)
	}
	return nil
}

func (r sessionRepository) Rotate(ctx context.Context, session *models.Session) error {
	const updateSessionQuery = `
UPDATE sessions
SET refresh_token = $1,
    expires_at = $2,
    updated_at = $3
WHERE id = $4
`
	var affected int64
	err := inTx(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(
			ctx,
			updateSessionQuery,
			session.RefreshToken,
			session.ExpiresAt,
			session.UpdatedAt,
			session.ID,
		)
		affected = tag.RowsAffected()
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (r sessionRepository) DeleteByUserID(ctx context.Context, userID string) (int64, error) {
	const deleteSessionsByUserIDQuery = `
DELETE FROM sessions
WHERE user_id = $1
`
	var affected int64
	err := inTx(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, deleteSessionsByUserIDQuery, userID)
		affected = tag.RowsAffected()
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("failed to delete sessions by user id: %w", err)
	}
	return affected, nil
}

func insertSession(ctx context.Context, tx pgx.Tx, session *models.Session) error {
	const insertSessionQuery = `
INSERT INTO sessions (id,
                      user_id,
                      fingerprint,
                      refresh_token,
                      expires_at,
                      created_at,
                      updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
`
	_, err := tx.Exec(
		ctx,
		insertSessionQuery,
		session.ID,
		session.UserID,
		session.Fingerprint,
		session.RefreshToken,
		session.ExpiresAt,
		session.CreatedAt,
		session.UpdatedAt,
	)
	return err
}
