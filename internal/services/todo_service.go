package services

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-todo-api/internal/models"
	"github.com/adanyl0v/go-todo-api/internal/storage"
)

type todoServiceImpl struct {
	logger   zerolog.Logger
	todos    storage.TodoRepository
	validate *validator.Validate
}

func NewTodoService(
	logger zerolog.Logger,
	todos storage.TodoRepository,
) TodoService {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		return strings.ToLower(field.Name)
	})

	return &todoServiceImpl{
		logger:   logger,
		todos:    todos,
		validate: validate,
	}
}

func (s *todoServiceImpl) ListTodos(ctx context.Context) ([]*models.Todo, error) {
	todos, err := s.todos.List(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to list todos")
		return nil, err
	}
	s.logger.Debug().
		Int("count", len(todos)).
		Msg("listed todos")
	return todos, nil
}

func (s *todoServiceImpl) GetTodo(ctx context.Context, id int64) (*models.Todo, error) {
	if id <= 0 {
		return nil, ErrInvalidTodoID
	}

	todo, err := s.todos.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.logger.Warn().
				Int64("todo_id", id).
				Msg("todo not found")
			return nil, ErrTodoNotFound
		}

		s.logger.Error().
			Err(err).
			Int64("todo_id", id).
			Msg("failed to get todo")
		return nil, err
	}
	s.logger.Debug().
		Int64("todo_id", id).
		Msg("selected todo")
	return todo, nil
}

func (s *todoServiceImpl) CreateTodo(ctx context.Context, params TodoParams) (*models.Todo, error) {
	err := s.validateParams(params)
	if err != nil {
		return nil, err
	}

	todo := &models.Todo{
		Title:       params.Title,
		Description: params.Description,
		Priority:    params.Priority,
		Complete:    params.Complete,
	}
	err = s.todos.Insert(ctx, todo)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to insert todo")
		return nil, err
	}

	s.logger.Info().
		Int64("todo_id", todo.ID).
		Msg("created todo")
	return todo, nil
}

func (s *todoServiceImpl) UpdateTodo(ctx context.Context, id int64, params TodoParams) error {
	if id <= 0 {
		return ErrInvalidTodoID
	}
	err := s.validateParams(params)
	if err != nil {
		return err
	}

	err = s.todos.Update(ctx, &models.Todo{
		ID:          id,
		Title:       params.Title,
		Description: params.Description,
		Priority:    params.Priority,
		Complete:    params.Complete,
	})
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.logger.Warn().
				Int64("todo_id", id).
				Msg("todo not found")
			return ErrTodoNotFound
		}

		s.logger.Error().
			Err(err).
			Int64("todo_id", id).
			Msg("failed to update todo")
		return err
	}

	s.logger.Info().
		Int64("todo_id", id).
		Msg("updated todo")
	return nil
}

func (s *todoServiceImpl) DeleteTodo(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrInvalidTodoID
	}

	err := s.todos.DeleteByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.logger.Warn().
				Int64("todo_id", id).
				Msg("todo not found")
			return ErrTodoNotFound
		}

		s.logger.Error().
			Err(err).
			Int64("todo_id", id).
			Msg("failed to delete todo")
		return err
	}

	s.logger.Info().
		Int64("todo_id", id).
		Msg("deleted todo")
	return nil
}

func (s *todoServiceImpl) validateParams(params TodoParams) error {
	err := s.validate.Struct(params)
	if err != nil {
		s.logger.Debug().
			Err(err).
			Msg("invalid todo params")
		return fmt.Errorf("%w: %w", ErrInvalidTodo, err)
	}
	return nil
}
