package model

import "time"

type Task struct {
	ID          string     `db:"id" json:"id"`
	ClientID    string     `db:"client_id" json:"clientId"`
	Title       string     `db:"title" json:"title"`
	Description *string    `db:"description" json:"description,omitempty"`
	Status      TaskStatus `db:"status" json:"status"`
	DueDate     *time.Time `db:"due_date" json:"dueDate,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updatedAt"`
}

type CreateTaskParams struct {
	ClientID    string
	Title       string
	Description *string
	DueDate     *time.Time
}

type UpdateTaskParams struct {
	Title       *string
	Description *string
	Status      *TaskStatus
	DueDate     *time.Time
}
