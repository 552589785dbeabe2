package models

import (
	"time"

	"github.com/google/uuid"
)

type TaskStatus string

const (
	TaskPending TaskStatus = "pending"
	TaskTodo    TaskStatus = "todo"
	TaskDoing   TaskStatus = "doing"
	TaskDone    TaskStatus = "done"
)

// TaskStatuses lists the kanban columns in board order.
var TaskStatuses = []TaskStatus{TaskPending, TaskTodo, TaskDoing, TaskDone}

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskPending, TaskTodo, TaskDoing, TaskDone:
		return true
	}
	return false
}

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

type Task struct {
	ID           uuid.UUID    `json:"id"`
	ProjectID    uuid.UUID    `json:"project_id"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	Priority     TaskPriority `json:"priority"`
	Status       TaskStatus   `json:"status"`
	AssigneeID   *uuid.UUID   `json:"assignee_id,omitempty"`
	AssigneeName *string      `json:"assignee_name,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}
