package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("ENV", EnvLocal)
	t.Setenv("JWT_SIGNING_KEY", "secret")
}

func TestEnvReader_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := NewEnvReader().Read()
	require.NoError(t, err)

	assert.Equal(t, EnvLocal, cfg.Env)
	assert.Equal(t, "8080", cfg.HTTP.Port)
	assert.Equal(t, 5*time.Second, cfg.HTTP.ShutdownTimeout)
	assert.Equal(t, StorageDriverPostgres, cfg.Storage.Driver)
	assert.Equal(t, 5432, cfg.Postgres.Port)
	assert.Equal(t, "disable", cfg.Postgres.SSLMode)
	assert.Equal(t, "todos.db", cfg.SQLite.Path)
	assert.Equal(t, "secret", cfg.JWT.SigningKey)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTokenTTL)
}

func TestEnvReader_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("STORAGE_DRIVER", StorageDriverSQLite)
	t.Setenv("SQLITE_PATH", "/tmp/todos.db")
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("JWT_ACCESS_TOKEN_TTL", "1m")

	cfg, err := NewEnvReader().Read()
	require.NoError(t, err)

	assert.Equal(t, StorageDriverSQLite, cfg.Storage.Driver)
	assert.Equal(t, "/tmp/todos.db", cfg.SQLite.Path)
	assert.Equal(t, "9000", cfg.HTTP.Port)
	assert.Equal(t, time.Minute, cfg.JWT.AccessTokenTTL)
}

func TestEnvReader_Invalid(t *testing.T) {
	for name, env := range map[string]map[string]string{
		"unknown env":    {"ENV": "staging"},
		"unknown driver": {"STORAGE_DRIVER": "mysql"},
		"zero ttl":       {"JWT_REFRESH_TOKEN_TTL": "0s"},
	} {
		t.Run(name, func(t *testing.T) {
			setRequiredEnv(t)
			for k, v := range env {
				t.Setenv(k, v)
			}

			_, err := NewEnvReader().Read()
			assert.Error(t, err)
		})
	}
}

func TestEnvReader_MissingSigningKey(t *testing.T) {
	t.Setenv("ENV", EnvProd)
	t.Setenv("JWT_SIGNING_KEY", "")

	_, err := NewEnvReader().Read()
	assert.Error(t, err)
}
