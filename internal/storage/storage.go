// Package storage declares the repositories the services persist through.
//
// Every repository method is one unit of work: implementations acquire a
// transaction for the call, commit it on success and release it on every
// other exit path.
package storage

import (
	"context"
	"errors"

	"github.com/adanyl0v/go-todo-api/internal/models"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrAlreadyExists = errors.New("record already exists")
)

type Store interface {
	Todos() TodoRepository
	Users() UserRepository
	Sessions() SessionRepository

	// Ping checks that the underlying database is reachable.
	Ping(ctx context.Context) error
	Close() error
}

type TodoRepository interface {
	// List returns every todo ordered by id. It returns an
	// empty slice, never nil, when the table is empty.
	List(ctx context.Context) ([]*models.Todo, error)

	// GetByID returns ErrNotFound if there is no todo with the given id.
	GetByID(ctx context.Context, id int64) (*models.Todo, error)

	// Insert persists the todo and sets its storage-generated id.
	Insert(ctx context.Context, todo *models.Todo) error

	// Update overwrites title, description, priority and complete
	// in a single statement. It returns ErrNotFound if there is
	// no todo with todo.ID.
	Update(ctx context.Context, todo *models.Todo) error

	// DeleteByID returns ErrNotFound if nothing was deleted.
	DeleteByID(ctx context.Context, id int64) error
}

type UserRepository interface {
	// GetByEmail returns ErrNotFound if no user has the given email.
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// CreateWithSession inserts the user and its first session atomically.
	// It returns ErrAlreadyExists if the email is taken.
	CreateWithSession(ctx context.Context, user *models.User, session *models.Session) error
}

type SessionRepository interface {
	GetByID(ctx context.Context, id string) (*models.Session, error)

	// GetByRefreshToken returns ErrNotFound unless both the
	// refresh token and the fingerprint match a session.
	GetByRefreshToken(ctx context.Context, refreshToken, fingerprint string) (*models.Session, error)

	// Replace deletes all sessions of session.UserID and inserts session.
	Replace(ctx context.Context, session *models.Session) error

	// Rotate stores a new refresh token and expiry for session.ID.
	Rotate(ctx context.Context, session *models.Session) error

	DeleteByUserID(ctx context.Context, userID string) (int64, error)
}
