package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateTaskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    string     `json:"priority,omitempty"`
	AssigneeID  *uuid.UUID `json:"assignee_id,omitempty"`
}

// UpdateTaskRequest overwrites the task; project_id moves it to another
// project when set.
type UpdateTaskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	AssigneeID  *uuid.UUID `json:"assignee_id"`
	ProjectID   *uuid.UUID `json:"project_id,omitempty"`
}

type MoveTaskRequest struct {
	Status string `json:"status"`
}

type TaskResponse struct {
	ID            uuid.UUID  `json:"id"`
	ProjectID     uuid.UUID  `json:"project_id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Priority      string     `json:"priority"`
	PriorityLabel string     `json:"priority_label"`
	Status        string     `json:"status"`
	StatusLabel   string     `json:"status_label"`
	AssigneeID    *uuid.UUID `json:"assignee_id,omitempty"`
	AssigneeName  *string    `json:"assignee_name,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

type BoardColumn struct {
	Status string         `json:"status"`
	Label  string         `json:"label"`
	Count  int            `json:"count"`
	Tasks  []TaskResponse `json:"tasks"`
}

// BoardResponse lists the kanban columns in board order.
type BoardResponse struct {
	ProjectID uuid.UUID     `json:"project_id"`
	Total     int           `json:"total"`
	Columns   []BoardColumn `json:"columns"`
}
