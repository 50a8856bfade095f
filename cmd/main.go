package main

import "github.com/adanyl0v/go-todo-api/internal/app"

func main() {
	logger := app.NewDefaultLogger()
	cfg := app.MustReadEnv(logger)
	logger = app.MustInitApplicationLogger(logger, cfg)

	store := app.MustOpenStorage(logger, cfg)
	defer app.CloseStorage(logger, store)

	app.MustListenAndServeHTTP(logger, cfg, store)
}
