package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/adanyl0v/go-todo-api/internal/models"
	"github.com/adanyl0v/go-todo-api/internal/storage"
)

type sessionRepository struct {
	db *sql.DB
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
WHERE id = ?
`
	session := &models.Session{ID: id}
	var expiresAt, createdAt, updatedAt int64
	err := inTx(ctx, r.db, func(tx *sql.Tx) error {
		return tx.QueryRowContext(
			ctx,
			selectSessionByIDQuery,
			id,
		).Scan(
			&session.UserID,
			&session.Fingerprint,
			&session.RefreshToken,
			&expiresAt,
			&createdAt,
			&updatedAt,
		)
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to select session by id: %w", err)
	}
	session.ExpiresAt = fromMillis(expiresAt)
	session.CreatedAt = fromMillis(createdAt)
	session.UpdatedAt = fromMillis(updatedAt)
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
WHERE refresh_token = ? AND
      fingerprint = ?
`
	session := &models.Session{
		RefreshToken: refreshToken,
		Fingerprint:  fingerprint,
	}
	var expiresAt, createdAt, updatedAt int64
	err := inTx(ctx, r.db, func(tx *sql.Tx) error {
		return tx.QueryRowContext(
			ctx,
			selectSessionByRefreshTokenQuery,
			refreshToken,
			fingerprint,
		).Scan(
			&session.ID,
			&session.UserID,
			&expiresAt,
			&createdAt,
			&updatedAt,
		)
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to select session by refresh token: %w", err)
	}
	session.ExpiresAt = fromMillis(expiresAt)
	session.CreatedAt = fromMillis(createdAt)
	session.UpdatedAt = fromMillis(updatedAt)
	return session, nil
}

func (r sessionRepository) Replace(ctx context.Context, session *models.Session) error {
	const deleteSessionsByUserIDQuery = `
DELETE FROM sessions
WHERE user_id = ?
`
	err := inTx(ctx, r.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, deleteSessionsByUserIDQuery, session.UserID)
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
SET refresh_token = ?,
    expires_at = ?,
    updated_at = ?
WHERE id = ?
`
	var affected int64
	err := inTx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(
			ctx,
			updateSessionQuery,
			session.RefreshToken,
			toMillis(session.ExpiresAt),
			toMillis(session.UpdatedAt),
			session.ID,
		)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
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
WHERE user_id = ?
`
	var affected int64
	err := inTx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, deleteSessionsByUserIDQuery, userID)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("failed to delete sessions by user id: %w", err)
	}
	return affected, nil
}

func insertSession(ctx context.Context, tx *sql.Tx, session *models.Session) error {
	const insertSessionQuery = `
INSERT INTO sessions (id,
                      user_id,
                      fingerprint,
                      refresh_token,
                      expires_at,
                      created_at,
                      updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
`
	_, err := tx.ExecContext(
		ctx,
		insertSessionQuery,
		session.ID,
		session.UserID,
		session.Fingerprint,
		session.RefreshToken,
		toMillis(session.ExpiresAt),
		toMillis(session.CreatedAt),
		toMillis(session.UpdatedAt),
	)
	return err
}
