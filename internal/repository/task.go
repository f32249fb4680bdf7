package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/alenbi/worknest-clienthub-52-sub000/internal/model"
)

type TaskRepository interface {
	FindByID(ctx context.Context, id string) (*model.Task, error)
	ListByClientID(ctx context.Context, clientID string) ([]model.Task, error)
	List(ctx context.Context) ([]model.Task, error)
	Create(ctx context.Context, params model.CreateTaskParams) (*model.Task, error)
	Update(ctx context.Context, id string, params model.UpdateTaskParams) (*model.Task, error)
	UpdateStatus(ctx context.Context, id string, status model.TaskStatus) error
	Delete(ctx context.Context, id string) error
}

type taskRepo struct {
	db *sqlx.DB
}

func NewTaskRepository(db *sqlx.DB) TaskRepository {
	return &taskRepo{db: db}
}

func (r *taskRepo) FindByID(ctx context.Context, id string) (*model.Task, error) {
	var task model.Task
	err := r.db.GetContext(ctx, &task, `SELECT * FROM tasks WHERE id = $1`, id)
	return HandleNotFound(&task, err)
}

func (r *taskRepo) ListByClientID(ctx context.Context, clientID string) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.SelectContext(ctx, &tasks, `
		SELECT * FROM tasks
		WHERE client_id = $1
		ORDER BY created_at DESC
	`, clientID)
	return tasks, err
}

func (r *taskRepo) List(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.SelectContext(ctx, &tasks, `SELECT * FROM tasks ORDER BY created_at DESC`)
	return tasks, err
}

func (r *taskRepo) Create(ctx context.Context, params model.CreateTaskParams) (*model.Task, error) {
	var task model.Task
	err := r.db.GetContext(ctx, &task, `
		INSERT INTO tasks (client_id, title, description, due_date)
		VALUES ($1, $2, $3, $4)
		RETURNING *
	`, params.ClientID, params.Title, params.Description, params.DueDate)
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *taskRepo) Update(ctx context.Context, id string, params model.UpdateTaskParams) (*model.Task, error) {
	var task model.Task
	err := r.db.GetContext(ctx, &task, `
		UPDATE tasks SET
			title = COALESCE($2, title),
			description = COALESCE($3, description),
			status = COALESCE($4, status),
			due_date = COALESCE($5, due_date),
			updated_at = NOW()
		WHERE id = $1
		RETURNING *
	`, id, params.Title, params.Description, params.Status, params.DueDate)
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *taskRepo) UpdateStatus(ctx context.Context, id string, status model.TaskStatus) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE tasks SET status = $2, updated_at = NOW() WHERE id = $1
	`, id, status)
	return err
}

func (r *taskRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	return err
}
