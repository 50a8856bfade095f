package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-todo-api/internal/config"
	"github.com/adanyl0v/go-todo-api/internal/delivery/http/v1"
	"github.com/adanyl0v/go-todo-api/internal/services"
	"github.com/adanyl0v/go-todo-api/internal/storage"
)

func MustListenAndServeHTTP(logger zerolog.Logger, cfg *config.Config, store storage.Store) {
	if cfg.Env != config.EnvLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	httpCfg := cfg.HTTP
	server := &http.Server{
		Addr:              net.JoinHostPort(httpCfg.Host, httpCfg.Port),
		Handler:           NewRouter(logger, cfg, store),
		ReadHeaderTimeout: httpCfg.ReadHeaderTimeout,
	}

	go func() {
		logger.Info().
			Str("host", httpCfg.Host).
			Str("port", httpCfg.Port).
			Msg("setting up http server")
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().
				Err(err).
				Msg("failed to listen and serve http")
			panic(err)
		}
	}()

	// Wait for the interrupt signal to gracefully shut down
	// the server within HTTP_SHUTDOWN_TIMEOUT.
	quit := make(chan os.Signal, 1)
	// kill (no params) by default sends syscall.SIGTERM
	// kill -2 is syscall.SIGINT
	// kill -9 is syscall.SIGKILL but can't be caught, so don't need to add it
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().
		Msg("shutting down http server")

	ctx, cancel := context.WithTimeout(context.Background(), httpCfg.ShutdownTimeout)
	defer cancel()

	err := server.Shutdown(ctx)
	if err != nil {
		logger.Error().
			Err(err).
			Msg("failed to shutdown http server")
		panic(err)
	}
	logger.Info().Msg("shut down http server")
}

// NewRouter builds the services on top of store and mounts their handlers.
func NewRouter(logger zerolog.Logger, cfg *config.Config, store storage.Store) *gin.Engine {
	router := gin.New()
	// Propagate request cancellation to the storage calls.
	router.ContextWithFallback = true
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	jwtCfg := cfg.JWT
	v1Handler := v1.New(
		logger,
		store,
		services.NewAuthService(logger, store.Users(), store.Sessions(), services.AuthConfig{
			Issuer:          jwtCfg.Issuer,
			SigningKey:      []byte(jwtCfg.SigningKey),
			AccessTokenTTL:  jwtCfg.AccessTokenTTL,
			RefreshTokenTTL: jwtCfg.RefreshTokenTTL,
		}),
		services.NewSessionService(logger, store.Sessions()),
		services.NewTodoService(logger, store.Todos()),
	)
	v1.RegisterRoutes(router, v1Handler)

	return router
}
