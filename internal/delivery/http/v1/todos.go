package v1

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/adanyl0v/go-todo-api/internal/models"
	"github.com/adanyl0v/go-todo-api/internal/services"
)

type getTodoResponse struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    int    `json:"priority"`
	Complete    bool   `json:"complete"`
}

func newGetTodoResponse(todo *models.Todo) getTodoResponse {
	return getTodoResponse{
		ID:          todo.ID,
		Title:       todo.Title,
		Description: todo.Description,
		Priority:    todo.Priority,
		Complete:    todo.Complete,
	}
}

// todoRequest only checks that every field is present, the
// value ranges are enforced by the todo service.
type todoRequest struct {
	Title       *string `json:"title" binding:"required"`
	Description *string `json:"description" binding:"required"`
	Priority    *int    `json:"priority" binding:"required"`
	Complete    *bool   `json:"complete" binding:"required"`
}

func (r todoRequest) params() services.TodoParams {
	return services.TodoParams{
		Title:       *r.Title,
		Description: *r.Description,
		Priority:    *r.Priority,
		Complete:    *r.Complete,
	}
}

func (h *handlerImpl) HandleListTodos(c *gin.Context) {
	todos, err := h.todos.ListTodos(c)
	if err != nil {
		h.abortWithTodoError(c, err)
		return
	}

	response := make([]getTodoResponse, len(todos))
	for i, todo := range todos {
		response[i] = newGetTodoResponse(todo)
	}

	h.logger.Info().
		Int("count", len(todos)).
		Msg("fetched todos")
	c.JSON(http.StatusOK, response)
}

func (h *handlerImpl) HandleGetTodo(c *gin.Context) {
	id, ok := h.bindTodoID(c)
	if !ok {
		return
	}

	todo, err := h.todos.GetTodo(c, id)
	if err != nil {
		h.abortWithTodoError(c, err)
		return
	}

	c.JSON(http.StatusOK, newGetTodoResponse(todo))
}

func (h *handlerImpl) HandleCreateTodo(c *gin.Context) {
	req, ok := h.bindTodoRequest(c)
	if !ok {
		return
	}

	todo, err := h.todos.CreateTodo(c, req.params())
	if err != nil {
		h.abortWithTodoError(c, err)
		return
	}

	h.logger.Info().
		Int64("todo_id", todo.ID).
		Msg("created todo")
	c.JSON(http.StatusCreated, newGetTodoResponse(todo))
}

func (h *handlerImpl) HandleUpdateTodo(c *gin.Context) {
	id, ok := h.bindTodoID(c)
	if !ok {
		return
	}

	req, ok := h.bindTodoRequest(c)
	if !ok {
		return
	}

	err := h.todos.UpdateTodo(c, id, req.params())
	if err != nil {
		h.abortWithTodoError(c, err)
		return
	}

	h.logger.Info().
		Int64("todo_id", id).
		Msg("updated todo")
	c.Status(http.StatusNoContent)
}

func (h *handlerImpl) HandleDeleteTodo(c *gin.Context) {
	id, ok := h.bindTodoID(c)
	if !ok {
		return
	}

	err := h.todos.DeleteTodo(c, id)
	if err != nil {
		h.abortWithTodoError(c, err)
		return
	}

	h.logger.Info().
		Int64("todo_id", id).
		Msg("deleted todo")
	c.Status(http.StatusNoContent)
}

func (h *handlerImpl) bindTodoID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("id", c.Param("id")).
			Msg("failed to parse todo id")
		abort(c, newUnprocessableEntityError(errInvalidTodoID.Error()))
		return 0, false
	}
	return id, true
}

func (h *handlerImpl) bindTodoRequest(c *gin.Context) (todoRequest, bool) {
	var req todoRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")

		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			abort(c, newValidationError(services.ErrInvalidTodo.Error(), err))
		} else {
			abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		}
		return todoRequest{}, false
	}
	return req, true
}

func (h *handlerImpl) abortWithTodoError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidTodoID):
		abort(c, newUnprocessableEntityError(services.ErrInvalidTodoID.Error()))
	case errors.Is(err, services.ErrInvalidTodo):
		abort(c, newValidationError(services.ErrInvalidTodo.Error(), err))
	case errors.Is(err, services.ErrTodoNotFound):
		abort(c, newNotFoundError(services.ErrTodoNotFound.Error()))
	default:
		h.logger.Error().
			Err(err).
			Msg("failed to handle todo request")
		abort(c, newStatusTextError(http.StatusInternalServerError))
	}
}
