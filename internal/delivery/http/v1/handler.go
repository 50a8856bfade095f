package v1

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-todo-api/internal/services"
)

type Handler interface {
	HandleLogin(c *gin.Context)
	HandleRefresh(c *gin.Context)
	HandleRegister(c *gin.Context)
	HandleLogout(c *gin.Context)
	HandleAuthMiddleware(c *gin.Context)

	HandleListTodos(c *gin.Context)
	HandleGetTodo(c *gin.Context)
	HandleCreateTodo(c *gin.Context)
	HandleUpdateTodo(c *gin.Context)
	HandleDeleteTodo(c *gin.Context)

	HandleHealth(c *gin.Context)
}

// Pinger reports whether the storage behind the services is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type handlerImpl struct {
	logger   zerolog.Logger
	pinger   Pinger
	auth     services.AuthService
	sessions services.SessionService
	todos    services.TodoService
}

func New(
	logger zerolog.Logger,
	pinger Pinger,
	authService services.AuthService,
	sessionService services.SessionService,
	todoService services.TodoService,
) Handler {
	return &handlerImpl{
		logger:   logger,
		pinger:   pinger,
		auth:     authService,
		sessions: sessionService,
		todos:    todoService,
	}
}

// RegisterRoutes mounts the todo routes at the root of router
// and the authentication routes under /auth.
func RegisterRoutes(router gin.IRouter, h Handler) {
	router.GET("/healthz", h.HandleHealth)

	router.GET("/", h.HandleListTodos)
	router.GET("/todo/:id", h.HandleGetTodo)
	router.POST("/todo", h.HandleCreateTodo)
	router.PUT("/todo/:id", h.HandleUpdateTodo)
	router.DELETE("/todo/:id", h.HandleDeleteTodo)

	authRouter := router.Group("/auth")
	authRouter.POST("/login", h.HandleLogin)
	authRouter.POST("/refresh", h.HandleRefresh)
	authRouter.POST("/register", h.HandleRegister)
	authRouter.POST("/logout", h.HandleAuthMiddleware, h.HandleLogout)
}
