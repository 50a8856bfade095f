package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/adanyl0v/go-todo-api/internal/storage"
	"github.com/adanyl0v/go-todo-api/internal/storage/storagetest"
)

// TODO_TEST_POSTGRES_URL points at a disposable database; its tables are truncated.
const testURLEnv = "TODO_TEST_POSTGRES_URL"

func newTestStore(t *testing.T) storage.Store {
	t.Helper()

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, os.Getenv(testURLEnv))
	require.NoError(t, err)

	store := New(pool)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Migrate(ctx))
	_, err = pool.Exec(ctx, `TRUNCATE todos, sessions, users RESTART IDENTITY CASCADE`)
	require.NoError(t, err)
	return store
}

func TestStore(t *testing.T) {
	if os.Getenv(testURLEnv) == "" {
		t.Skipf("%s is not set", testURLEnv)
	}
	storagetest.Run(t, newTestStore)
}
