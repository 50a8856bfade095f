package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/adanyl0v/go-todo-api/internal/models"
	"github.com/adanyl0v/go-todo-api/internal/storage"
)

type mockTodoRepository struct {
	mock.Mock
}

func (m *mockTodoRepository) List(ctx context.Context) ([]*models.Todo, error) {
	args := m.Called(ctx)
	todos, _ := args.Get(0).([]*models.Todo)
	return todos, args.Error(1)
}

func (m *mockTodoRepository) GetByID(ctx context.Context, id int64) (*models.Todo, error) {
	args := m.Called(ctx, id)
	todo, _ := args.Get(0).(*models.Todo)
	return todo, args.Error(1)
}

func (m *mockTodoRepository) Insert(ctx context.Context, todo *models.Todo) error {
	return m.Called(ctx, todo).Error(0)
}

func (m *mockTodoRepository) Update(ctx context.Context, todo *models.Todo) error {
	return m.Called(ctx, todo).Error(0)
}

func (m *mockTodoRepository) DeleteByID(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func validParams() TodoParams {
	return TodoParams{
		Title:       "Buy milk",
		Description: "2% milk",
		Priority:    3,
	}
}

func TestTodoService_RejectsNonPositiveIDs(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	for _, id := range []int64{0, -1, -100} {
		repo := new(mockTodoRepository)
		svc := NewTodoService(zerolog.Nop(), repo)

		_, err := svc.GetTodo(ctx, id)
		assert.ErrorIs(t, err, ErrInvalidTodoID)

		err = svc.UpdateTodo(ctx, id, validParams())
		assert.ErrorIs(t, err, ErrInvalidTodoID)

		err = svc.DeleteTodo(ctx, id)
		assert.ErrorIs(t, err, ErrInvalidTodoID)

		repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		repo.AssertNotCalled(t, "DeleteByID", mock.Anything, mock.Anything)
	}
}

func TestTodoService_Validation(t *testing.T) {
	t.Parallel()

	for name, tc := range map[string]struct {
		modify    func(p *TodoParams)
		wantField string
	}{
		"valid":                 {modify: func(p *TodoParams) {}},
		"priority 1":            {modify: func(p *TodoParams) { p.Priority = 1 }},
		"priority 5":            {modify: func(p *TodoParams) { p.Priority = 5 }},
		"priority 0":            {modify: func(p *TodoParams) { p.Priority = 0 }, wantField: "priority"},
		"priority 6":            {modify: func(p *TodoParams) { p.Priority = 6 }, wantField: "priority"},
		"description len 2":     {modify: func(p *TodoParams) { p.Description = "ab" }, wantField: "description"},
		"description len 3":     {modify: func(p *TodoParams) { p.Description = "abc" }},
		"description len 100":   {modify: func(p *TodoParams) { p.Description = strings.Repeat("a", 100) }},
		"description len 101":   {modify: func(p *TodoParams) { p.Description = strings.Repeat("a", 101) }, wantField: "description"},
		"description multibyte": {modify: func(p *TodoParams) { p.Description = strings.Repeat("é", 100) }},
		"title len 2":           {modify: func(p *TodoParams) { p.Title = "ab" }, wantField: "title"},
		"title len 3":           {modify: func(p *TodoParams) { p.Title = "abc" }},
		"empty title":           {modify: func(p *TodoParams) { p.Title = "" }, wantField: "title"},
	} {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()

			repo := new(mockTodoRepository)
			repo.On("Insert", mock.Anything, mock.AnythingOfType("*models.Todo")).
				Run(func(args mock.Arguments) {
					args.Get(1).(*models.Todo).ID = 1
				}).
				Return(nil).
				Maybe()
			svc := NewTodoService(zerolog.Nop(), repo)

			params := validParams()
			tc.modify(&params)

			todo, err := svc.CreateTodo(ctx, params)
			if tc.wantField == "" {
				require.NoError(t, err)
				assert.Equal(t, int64(1), todo.ID)
				repo.AssertNumberOfCalls(t, "Insert", 1)
				return
			}

			require.ErrorIs(t, err, ErrInvalidTodo)
			var validationErrs validator.ValidationErrors
			require.ErrorAs(t, err, &validationErrs)
			require.Len(t, validationErrs, 1)
			assert.Equal(t, tc.wantField, validationErrs[0].Field())
			repo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
		})
	}
}

func TestTodoService_CreateEchoesInput(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo := new(mockTodoRepository)
	repo.On("Insert", ctx, &models.Todo{
		Title:       "Buy milk",
		Description: "2% milk",
		Priority:    3,
	}).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Todo).ID = 7
	}).Return(nil)

	todo, err := NewTodoService(zerolog.Nop(), repo).CreateTodo(ctx, validParams())
	require.NoError(t, err)
	assert.Equal(t, &models.Todo{
		ID:          7,
		Title:       "Buy milk",
		Description: "2% milk",
		Priority:    3,
	}, todo)
	repo.AssertExpectations(t)
}

func TestTodoService_NotFound(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo := new(mockTodoRepository)
	repo.On("GetByID", ctx, int64(9)).Return(nil, storage.ErrNotFound)
	repo.On("Update", ctx, mock.Anything).Return(storage.ErrNotFound)
	repo.On("DeleteByID", ctx, int64(9)).Return(storage.ErrNotFound)
	svc := NewTodoService(zerolog.Nop(), repo)

	_, err := svc.GetTodo(ctx, 9)
	assert.ErrorIs(t, err, ErrTodoNotFound)
	assert.EqualError(t, err, "todo not found!")

	assert.ErrorIs(t, svc.UpdateTodo(ctx, 9, validParams()), ErrTodoNotFound)
	assert.ErrorIs(t, svc.DeleteTodo(ctx, 9), ErrTodoNotFound)
	repo.AssertExpectations(t)
}

func TestTodoService_UpdateReplacesAllFields(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo := new(mockTodoRepository)
	repo.On("Update", ctx, &models.Todo{
		ID:          4,
		Title:       "Buy milk",
		Description: "2% milk",
		Priority:    5,
		Complete:    true,
	}).Return(nil)

	params := validParams()
	params.Priority = 5
	params.Complete = true

	err := NewTodoService(zerolog.Nop(), repo).UpdateTodo(ctx, 4, params)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestTodoService_StorageErrorsPropagate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	storageErr := errors.New("connection reset")

	repo := new(mockTodoRepository)
	repo.On("List", ctx).Return(nil, storageErr)
	repo.On("GetByID", ctx, int64(1)).Return(nil, storageErr)
	repo.On("DeleteByID", ctx, int64(1)).Return(storageErr)
	svc := NewTodoService(zerolog.Nop(), repo)

	_, err := svc.ListTodos(ctx)
	assert.ErrorIs(t, err, storageErr)

	_, err = svc.GetTodo(ctx, 1)
	assert.ErrorIs(t, err, storageErr)
	assert.NotErrorIs(t, err, ErrTodoNotFound)

	assert.ErrorIs(t, svc.DeleteTodo(ctx, 1), storageErr)
}
