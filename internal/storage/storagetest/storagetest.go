// Package storagetest holds the behaviour every storage.Store
// implementation must share, runnable against any driver.
package storagetest

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adanyl0v/go-todo-api/internal/models"
	"github.com/adanyl0v/go-todo-api/internal/storage"
)

// NewStoreFunc returns an empty, migrated store. Cleanup is up to the func.
type NewStoreFunc func(t *testing.T) storage.Store

func Run(t *testing.T, newStore NewStoreFunc) {
	t.Run("Todos", func(t *testing.T) { testTodos(t, newStore) })
	t.Run("Users", func(t *testing.T) { testUsers(t, newStore) })
	t.Run("Sessions", func(t *testing.T) { testSessions(t, newStore) })
}

func testTodos(t *testing.T, newStore NewStoreFunc) {
	ctx := context.Background()

	t.Run("empty list", func(t *testing.T) {
		repo := newStore(t).Todos()

		todos, err := repo.List(ctx)
		require.NoError(t, err)
		assert.NotNil(t, todos)
		assert.Empty(t, todos)
	})

	t.Run("insert and get", func(t *testing.T) {
		repo := newStore(t).Todos()

		todo := &models.Todo{
			Title:       "Buy milk",
			Description: "2% milk",
			Priority:    3,
		}
		require.NoError(t, repo.Insert(ctx, todo))
		assert.Positive(t, todo.ID)

		got, err := repo.GetByID(ctx, todo.ID)
		require.NoError(t, err)
		if diff := cmp.Diff(todo, got); diff != "" {
			t.Errorf("todo mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("list is ordered by id", func(t *testing.T) {
		repo := newStore(t).Todos()

		want := make([]*models.Todo, 0, 3)
		for i, title := range []string{"first", "second", "third"} {
			todo := &models.Todo{
				Title:       title,
				Description: "description",
				Priority:    i + 1,
				Complete:    i%2 == 0,
			}
			require.NoError(t, repo.Insert(ctx, todo))
			want = append(want, todo)
		}

		got, err := repo.List(ctx)
		require.NoError(t, err)
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("todos mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("update overwrites every field", func(t *testing.T) {
		repo := newStore(t).Todos()

		todo := &models.Todo{Title: "Buy milk", Description: "2% milk", Priority: 3}
		require.NoError(t, repo.Insert(ctx, todo))

		updated := &models.Todo{
			ID:          todo.ID,
			Title:       "Buy bread",
			Description: "rye",
			Priority:    5,
			Complete:    true,
		}
		require.NoError(t, repo.Update(ctx, updated))

		got, err := repo.GetByID(ctx, todo.ID)
		require.NoError(t, err)
		if diff := cmp.Diff(updated, got); diff != "" {
			t.Errorf("todo mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("missing id", func(t *testing.T) {
		repo := newStore(t).Todos()

		_, err := repo.GetByID(ctx, 42)
		assert.ErrorIs(t, err, storage.ErrNotFound)

		err = repo.Update(ctx, &models.Todo{ID: 42, Title: "abc", Description: "abc", Priority: 1})
		assert.ErrorIs(t, err, storage.ErrNotFound)

		err = repo.DeleteByID(ctx, 42)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("delete twice", func(t *testing.T) {
		repo := newStore(t).Todos()

		todo := &models.Todo{Title: "Buy milk", Description: "2% milk", Priority: 3}
		require.NoError(t, repo.Insert(ctx, todo))

		require.NoError(t, repo.DeleteByID(ctx, todo.ID))
		assert.ErrorIs(t, repo.DeleteByID(ctx, todo.ID), storage.ErrNotFound)

		_, err := repo.GetByID(ctx, todo.ID)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func newUser(id, email string) *models.User {
	now := time.Now()
	return &models.User{
		ID:        id,
		Email:     email,
		Password:  "hash",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func newSession(id, userID, refreshToken string) *models.Session {
	now := time.Now()
	return &models.Session{
		ID:           id,
		UserID:       userID,
		Fingerprint:  "fingerprint",
		RefreshToken: refreshToken,
		ExpiresAt:    now.Add(time.Hour),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func testUsers(t *testing.T, newStore NewStoreFunc) {
	ctx := context.Background()

	t.Run("create and get by email", func(t *testing.T) {
		store := newStore(t)

		user := newUser("user-1", "jane@example.com")
		session := newSession("session-1", user.ID, "token-1")
		require.NoError(t, store.Users().CreateWithSession(ctx, user, session))

		got, err := store.Users().GetByEmail(ctx, user.Email)
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
		assert.Equal(t, user.Password, got.Password)
		assert.WithinDuration(t, user.CreatedAt, got.CreatedAt, time.Millisecond)

		gotSession, err := store.Sessions().GetByID(ctx, session.ID)
		require.NoError(t, err)
		assert.Equal(t, user.ID, gotSession.UserID)
	})

	t.Run("duplicate email", func(t *testing.T) {
		store := newStore(t)

		err := store.Users().CreateWithSession(ctx,
			newUser("user-1", "jane@example.com"),
			newSession("session-1", "user-1", "token-1"))
		require.NoError(t, err)

		err = store.Users().CreateWithSession(ctx,
			newUser("user-2", "jane@example.com"),
			newSession("session-2", "user-2", "token-2"))
		assert.ErrorIs(t, err, storage.ErrAlreadyExists)

		_, err = store.Sessions().GetByID(ctx, "session-2")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := newStore(t).Users().GetByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func testSessions(t *testing.T, newStore NewStoreFunc) {
	ctx := context.Background()

	setup := func(t *testing.T) storage.Store {
		store := newStore(t)
		err := store.Users().CreateWithSession(ctx,
			newUser("user-1", "jane@example.com"),
			newSession("session-1", "user-1", "token-1"))
		require.NoError(t, err)
		return store
	}

	t.Run("get by refresh token", func(t *testing.T) {
		sessions := setup(t).Sessions()

		got, err := sessions.GetByRefreshToken(ctx, "token-1", "fingerprint")
		require.NoError(t, err)
		assert.Equal(t, "session-1", got.ID)
		assert.Equal(t, "user-1", got.UserID)

		_, err = sessions.GetByRefreshToken(ctx, "token-1", "other fingerprint")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("replace drops previous sessions", func(t *testing.T) {
		sessions := setup(t).Sessions()

		require.NoError(t, sessions.Replace(ctx, newSession("session-2", "user-1", "token-2")))

		_, err := sessions.GetByID(ctx, "session-1")
		assert.ErrorIs(t, err, storage.ErrNotFound)

		got, err := sessions.GetByID(ctx, "session-2")
		require.NoError(t, err)
		assert.Equal(t, "token-2", got.RefreshToken)
	})

	t.Run("rotate", func(t *testing.T) {
		sessions := setup(t).Sessions()

		rotated := newSession("session-1", "user-1", "token-rotated")
		rotated.ExpiresAt = time.Now().Add(48 * time.Hour)
		require.NoError(t, sessions.Rotate(ctx, rotated))

		got, err := sessions.GetByID(ctx, "session-1")
		require.NoError(t, err)
		assert.Equal(t, "token-rotated", got.RefreshToken)
		assert.WithinDuration(t, rotated.ExpiresAt, got.ExpiresAt, time.Millisecond)

		err = sessions.Rotate(ctx, newSession("missing", "user-1", "token-3"))
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("delete by user id", func(t *testing.T) {
		sessions := setup(t).Sessions()

		n, err := sessions.DeleteByUserID(ctx, "user-1")
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		n, err = sessions.DeleteByUserID(ctx, "user-1")
		require.NoError(t, err)
		assert.Zero(t, n)
	})
}
