package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/alenbi/worknest-clienthub-52-sub000/internal/errors"
	"github.com/alenbi/worknest-clienthub-52-sub000/internal/model"
)

type mockTaskRepo struct {
	mock.Mock
}

func (m *mockTaskRepo) FindByID(ctx context.Context, id string) (*model.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Task), args.Error(1)
}

func (m *mockTaskRepo) ListByClientID(ctx context.Context, clientID string) ([]model.Task, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Task), args.Error(1)
}

func (m *mockTaskRepo) List(ctx context.Context) ([]model.Task, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Task), args.Error(1)
}

func (m *mockTaskRepo) Create(ctx context.Context, params model.CreateTaskParams) (*model.Task, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Task), args.Error(1)
}

func (m *mockTaskRepo) Update(ctx context.Context, id string, params model.UpdateTaskParams) (*model.Task, error) {
	args := m.Called(ctx, id, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Task), args.Error(1)
}

func (m *mockTaskRepo) UpdateStatus(ctx context.Context, id string, status model.TaskStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *mockTaskRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockClientRepo struct {
	mock.Mock
}

func (m *mockClientRepo) FindByID(ctx context.Context, id string) (*model.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Client), args.Error(1)
}

func (m *mockClientRepo) FindByEmail(ctx context.Context, email string) (*model.Client, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Client), args.Error(1)
}

func (m *mockClientRepo) FindByUserID(ctx context.Context, userID string) (*model.Client, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Client), args.Error(1)
}

func (m *mockClientRepo) List(ctx context.Context) ([]model.Client, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Client), args.Error(1)
}

func (m *mockClientRepo) Create(ctx context.Context, params model.CreateClientParams) (*model.Client, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Client), args.Error(1)
}

func (m *mockClientRepo) Update(ctx context.Context, id string, params model.UpdateClientParams) (*model.Client, error) {
	args := m.Called(ctx, id, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Client), args.Error(1)
}

func (m *mockClientRepo) LinkUser(ctx context.Context, id, userID string) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func (m *mockClientRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestTaskCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("requires an existing client", func(t *testing.T) {
		tasks := new(mockTaskRepo)
		clients := new(mockClientRepo)
		clients.On("FindByID", mock.Anything, "ghost").Return(nil, nil)

		svc := NewTaskService(tasks, clients)

		_, err := svc.Create(ctx, model.CreateTaskParams{ClientID: "ghost", Title: "Kickoff"})

		assert.Equal(t, apperrors.ErrCodeNotFound, apperrors.GetCode(err))
		tasks.AssertNotCalled(t, "Create")
	})

	t.Run("requires a title", func(t *testing.T) {
		svc := NewTaskService(new(mockTaskRepo), new(mockClientRepo))

		_, err := svc.Create(ctx, model.CreateTaskParams{ClientID: "c1"})

		assert.Equal(t, apperrors.ErrCodeMissingRequired, apperrors.GetCode(err))
	})

	t.Run("creates for a known client", func(t *testing.T) {
		tasks := new(mockTaskRepo)
		clients := new(mockClientRepo)
		clients.On("FindByID", mock.Anything, "c1").Return(&model.Client{ID: "c1"}, nil)
		tasks.On("Create", mock.Anything, mock.Anything).
			Return(&model.Task{ID: "t1", ClientID: "c1", Title: "Kickoff"}, nil)

		svc := NewTaskService(tasks, clients)

		task, err := svc.Create(ctx, model.CreateTaskParams{ClientID: "c1", Title: "Kickoff"})

		require.NoError(t, err)
		assert.Equal(t, "t1", task.ID)
	})
}

func TestUpdateStatusForClient(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects an invalid status", func(t *testing.T) {
		svc := NewTaskService(new(mockTaskRepo), new(mockClientRepo))

		_, err := svc.UpdateStatusForClient(ctx, "c1", "t1", model.TaskStatus("bogus"))

		assert.Equal(t, apperrors.ErrCodeInvalidInput, apperrors.GetCode(err))
	})

	t.Run("another client's task reads as not found", func(t *testing.T) {
		tasks := new(mockTaskRepo)
		tasks.On("FindByID", mock.Anything, "t1").
			Return(&model.Task{ID: "t1", ClientID: "someone-else"}, nil)

		svc := NewTaskService(tasks, new(mockClientRepo))

		_, err := svc.UpdateStatusForClient(ctx, "c1", "t1", model.TaskStatusCompleted)

		assert.Equal(t, apperrors.ErrCodeNotFound, apperrors.GetCode(err))
		tasks.AssertNotCalled(t, "UpdateStatus")
	})

	t.Run("updates the caller's own task", func(t *testing.T) {
		tasks := new(mockTaskRepo)
		tasks.On("FindByID", mock.Anything, "t1").
			Return(&model.Task{ID: "t1", ClientID: "c1", Status: model.TaskStatusPending}, nil)
		tasks.On("UpdateStatus", mock.Anything, "t1", model.TaskStatusCompleted).Return(nil)

		svc := NewTaskService(tasks, new(mockClientRepo))

		task, err := svc.UpdateStatusForClient(ctx, "c1", "t1", model.TaskStatusCompleted)

		require.NoError(t, err)
		assert.Equal(t, model.TaskStatusCompleted, task.Status)
	})
}
