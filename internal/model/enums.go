package model

// Role is the access level of an authenticated identity. Exactly one role
// applies per identity at any time.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleClient Role = "client"
	RoleNone   Role = "none"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleClient, RoleNone:
		return true
	}
	return false
}

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted:
		return true
	}
	return false
}

// AttachmentKind classifies a chat attachment for rendering.
type AttachmentKind string

const (
	AttachmentKindImage AttachmentKind = "image"
	AttachmentKindFile  AttachmentKind = "file"
)
