package service

import (
	"context"

	"github.com/rs/zerolog/log"

	apperrors "github.com/alenbi/worknest-clienthub-52-sub000/internal/errors"
	"github.com/alenbi/worknest-clienthub-52-sub000/internal/model"
	"github.com/alenbi/worknest-clienthub-52-sub000/internal/repository"
)

type TaskService struct {
	taskRepo   repository.TaskRepository
	clientRepo repository.ClientRepository
}

func NewTaskService(taskRepo repository.TaskRepository, clientRepo repository.ClientRepository) *TaskService {
	return &TaskService{taskRepo: taskRepo, clientRepo: clientRepo}
}

func (s *TaskService) List(ctx context.Context) ([]model.Task, error) {
	return s.taskRepo.List(ctx)
}

func (s *TaskService) ListForClient(ctx context.Context, clientID string) ([]model.Task, error) {
	return s.taskRepo.ListByClientID(ctx, clientID)
}

func (s *TaskService) Create(ctx context.Context, params model.CreateTaskParams) (*model.Task, error) {
	if params.Title == "" {
		return nil, apperrors.MissingRequired("title")
	}

	client, err := s.clientRepo.FindByID(ctx, params.ClientID)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if client == nil {
		return nil, apperrors.NotFound("Client")
	}

	task, err := s.taskRepo.Create(ctx, params)
	if err != nil {
		return nil, apperrors.Database(err)
	}

	log.Info().Str("taskId", task.ID).Str("clientId", task.ClientID).Msg("task created")
	return task, nil
}

func (s *TaskService) Update(ctx context.Context, id string, params model.UpdateTaskParams) (*model.Task, error) {
	if params.Status != nil && !params.Status.Valid() {
		return nil, apperrors.InvalidInput("status", "unknown value")
	}

	existing, err := s.taskRepo.FindByID(ctx, id)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if existing == nil {
		return nil, apperrors.NotFound("Task")
	}

	task, err := s.taskRepo.Update(ctx, id, params)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	return task, nil
}

// UpdateStatusForClient lets a client move their own task between states.
// Ownership is checked before anything is written.
func (s *TaskService) UpdateStatusForClient(ctx context.Context, clientID, taskID string, status model.TaskStatus) (*model.Task, error) {
	if !status.Valid() {
		return nil, apperrors.InvalidInput("status", "unknown value")
	}

	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return nil, apperrors.Database(err)
	}
	if task == nil || task.ClientID != clientID {
		return nil, apperrors.NotFound("Task")
	}

	if err := s.taskRepo.UpdateStatus(ctx, taskID, status); err != nil {
		return nil, apperrors.Database(err)
	}

	task.Status = status
	return task, nil
}

func (s *TaskService) Delete(ctx context.Context, id string) error {
	existing, err := s.taskRepo.FindByID(ctx, id)
	if err != nil {
		return apperrors.Database(err)
	}
	if existing == nil {
		return apperrors.NotFound("Task")
	}

	if err := s.taskRepo.Delete(ctx, id); err != nil {
		return apperrors.Database(err)
	}
	return nil
}
