// Package postgres implements the storage repositories on top of a pgx pool.
package postgres

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adanyl0v/go-todo-api/internal/storage"
)

//go:embed schema.sql
var schema string

type Store struct {
	pool *pgxpool.Pool
}

// New wraps an already connected pool. The pool stays owned by
// the store and is closed by Close.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Migrate creates the tables that don't exist yet.
func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

func (s *Store) Todos() storage.TodoRepository {
	return todoRepository{pool: s.pool}
}

func (s *Store) Users() storage.UserRepository {
	return userRepository{pool: s.pool}
}

func (s *Store) Sessions() storage.SessionRepository {
	return sessionRepository{pool: s.pool}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// inTx runs fn in a transaction that is committed if fn returns
// nil and rolled back otherwise.
func inTx(ctx context.Context, pool *pgxpool.Pool, fn func(tx pgx.Tx) error) error {
	return pgx.BeginFunc(ctx, pool, fn)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

var _ storage.Store = (*Store)(nil)
