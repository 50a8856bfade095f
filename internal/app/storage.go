package app

import (
	"context"
	"fmt"
	"net/url"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-todo-api/internal/config"
	"github.com/adanyl0v/go-todo-api/internal/storage"
	"github.com/adanyl0v/go-todo-api/internal/storage/postgres"
	"github.com/adanyl0v/go-todo-api/internal/storage/sqlite"
)

// MustOpenStorage connects to the configured driver and creates
// the tables that don't exist yet.
func MustOpenStorage(logger zerolog.Logger, cfg *config.Config) storage.Store {
	switch cfg.Storage.Driver {
	case config.StorageDriverPostgres:
		return mustConnectPostgres(logger, cfg.Postgres)
	case config.StorageDriverSQLite:
		return mustOpenSQLite(logger, cfg.SQLite)
	default:
		err := fmt.Errorf("unknown storage driver: %s", cfg.Storage.Driver)
		logger.Error().
			Err(err).
			Msg("failed to open storage")
		panic(err)
	}
}

func CloseStorage(logger zerolog.Logger, store storage.Store) {
	err := store.Close()
	if err != nil {
		logger.Error().
			Err(err).
			Msg("failed to close storage")
		return
	}
	logger.Info().Msg("closed storage")
}

func mustConnectPostgres(logger zerolog.Logger, cfg config.PostgresConfig) *postgres.Store {
	connURL := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.Username, cfg.Password),
		Host:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Path:     cfg.Database,
		RawQuery: url.Values{"sslmode": {cfg.SSLMode}}.Encode(),
	}

	poolCfg, err := pgxpool.ParseConfig(connURL.String())
	if err != nil {
		logger.Error().
			Err(err).
			Msg("failed to parse postgres config")
		panic(err)
	}
	poolCfg.ConnConfig.ConnectTimeout = cfg.ConnectTimeout
	poolCfg.MaxConns = cfg.MaxConns

	pool, err := pgxpool.NewWithConfig(context.Background(), poolCfg)
	if err != nil {
		logger.Error().
			Err(err).
			Msg("failed to connect to postgres")
		panic(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.PingTimeout)
	defer cancel()

	err = pool.Ping(ctx)
	if err != nil {
		logger.Error().
			Err(err).
			Msg("failed to ping postgres")
		panic(err)
	}
	logger.Info().
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Msg("connected to postgres")

	store := postgres.New(pool)
	err = store.Migrate(ctx)
	if err != nil {
		logger.Error().
			Err(err).
			Msg("failed to migrate postgres")
		panic(err)
	}
	return store
}

func mustOpenSQLite(logger zerolog.Logger, cfg config.SQLiteConfig) *sqlite.Store {
	store, err := sqlite.Open(cfg.Path, cfg.BusyTimeout)
	if err != nil {
		logger.Error().
			Err(err).
			Msg("failed to open sqlite")
		panic(err)
	}

	err = store.Migrate(context.Background())
	if err != nil {
		logger.Error().
			Err(err).
			Msg("failed to migrate sqlite")
		panic(err)
	}
	logger.Info().
		Str("path", cfg.Path).
		Msg("opened sqlite")
	return store
}
