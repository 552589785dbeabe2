package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/dimitrije/projectboard/internal/database"
	"github.com/dimitrije/projectboard/internal/models"
	"github.com/dimitrije/projectboard/internal/store"
	"github.com/google/uuid"
)

// TaskInput carries the editable fields of a task. A zero ProjectID on update
// keeps the task in its current project.
type TaskInput struct {
	ProjectID   uuid.UUID
	Title       string
	Description string
	Priority    models.TaskPriority
	AssigneeID  *uuid.UUID
}

// Board is the kanban view of a project: tasks grouped per column plus the
// column sizes. Every status is present in both maps.
type Board struct {
	Columns map[models.TaskStatus][]models.Task
	Counts  map[models.TaskStatus]int
}

type TaskService struct {
	projects *store.ProjectStore
	tasks    *store.TaskStore
	logger   *slog.Logger
}

func NewTaskService(db *database.DB, logger *slog.Logger) *TaskService {
	return &TaskService{
		projects: store.NewProjectStore(db.Pool),
		tasks:    store.NewTaskStore(db.Pool),
		logger:   logger,
	}
}

// Create adds a task to the pending column of a project.
func (s *TaskService) Create(ctx context.Context, projectID uuid.UUID, in TaskInput) (*models.Task, error) {
	if err := normalizeTask(&in); err != nil {
		return nil, err
	}

	project, err := s.projects.Get(ctx, projectID)
	if err != nil {
		return nil, lookup("get project", err)
	}

	task := &models.Task{
		ProjectID:   project.ID,
		Title:       in.Title,
		Description: in.Description,
		Priority:    in.Priority,
		Status:      models.TaskPending,
	}
	s.assign(task, project, in.AssigneeID)

	created, err := s.tasks.Create(ctx, task)
	if err != nil {
		return nil, remote("create task", err)
	}
	return created, nil
}

func (s *TaskService) Get(ctx context.Context, taskID uuid.UUID) (*models.Task, error) {
	task, err := s.tasks.Get(ctx, taskID)
	if err != nil {
		return nil, lookup("get task", err)
	}
	return task, nil
}

// Update overwrites everything but the status. The assignee is resolved
// against the team of the project the task ends up in.
func (s *TaskService) Update(ctx context.Context, taskID uuid.UUID, in TaskInput) (*models.Task, error) {
	if err := normalizeTask(&in); err != nil {
		return nil, err
	}

	task, err := s.Get(ctx, taskID)
	if err != nil {
		return nil, err
	}

	projectID := in.ProjectID
	if projectID == uuid.Nil {
		projectID = task.ProjectID
	}
	project, err := s.projects.Get(ctx, projectID)
	if err != nil {
		return nil, lookup("get project", err)
	}

	task.ProjectID = project.ID
	task.Title = in.Title
	task.Description = in.Description
	task.Priority = in.Priority
	s.assign(task, project, in.AssigneeID)

	updated, err := s.tasks.Update(ctx, task)
	if err != nil {
		return nil, lookup("update task", err)
	}
	return updated, nil
}

// Move places a task in another column. Any column may follow any other.
func (s *TaskService) Move(ctx context.Context, taskID uuid.UUID, status models.TaskStatus) (*models.Task, error) {
	if !status.Valid() {
		return nil, invalid("status", "must be one of pending, todo, doing, done")
	}

	task, err := s.tasks.UpdateStatus(ctx, taskID, status)
	if err != nil {
		return nil, lookup("move task", err)
	}
	return task, nil
}

func (s *TaskService) Delete(ctx context.Context, taskID uuid.UUID) error {
	if err := s.tasks.Delete(ctx, taskID); err != nil {
		return lookup("delete task", err)
	}
	return nil
}

func (s *TaskService) ListByProject(ctx context.Context, projectID uuid.UUID) ([]models.Task, error) {
	tasks, err := s.tasks.ListByProject(ctx, projectID)
	if err != nil {
		return nil, remote("list tasks", err)
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	return tasks, nil
}

func (s *TaskService) Board(ctx context.Context, projectID uuid.UUID) (*Board, error) {
	tasks, err := s.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return NewBoard(tasks), nil
}

// NewBoard groups tasks into their columns, keeping their order.
func NewBoard(tasks []models.Task) *Board {
	board := &Board{
		Columns: make(map[models.TaskStatus][]models.Task, len(models.TaskStatuses)),
		Counts:  CountByStatus(tasks),
	}
	for _, status := range models.TaskStatuses {
		board.Columns[status] = []models.Task{}
	}
	for _, t := range tasks {
		board.Columns[t.Status] = append(board.Columns[t.Status], t)
	}
	return board
}

// CountByStatus returns the number of tasks per status, with a zero entry for
// every status that has none.
func CountByStatus(tasks []models.Task) map[models.TaskStatus]int {
	counts := make(map[models.TaskStatus]int, len(models.TaskStatuses))
	for _, status := range models.TaskStatuses {
		counts[status] = 0
	}
	for _, t := range tasks {
		counts[t.Status]++
	}
	return counts
}

// assign sets the assignee of task from the project team. An id that is not a
// current member leaves the task unassigned.
func (s *TaskService) assign(task *models.Task, project *models.Project, assigneeID *uuid.UUID) {
	task.AssigneeID = nil
	task.AssigneeName = nil
	if assigneeID == nil || *assigneeID == uuid.Nil {
		return
	}

	member, ok := project.Member(*assigneeID)
	if !ok {
		s.logger.Warn("assignee is not a project member, leaving task unassigned",
			"project_id", project.ID, "assignee_id", *assigneeID)
		return
	}

	id, name := member.ID, member.Name
	task.AssigneeID = &id
	task.AssigneeName = &name
}

func normalizeTask(in *TaskInput) error {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	if in.Title == "" {
		return invalid("title", "is required")
	}
	if in.Priority == "" {
		in.Priority = models.PriorityMedium
	}
	if !in.Priority.Valid() {
		return invalid("priority", "must be one of low, medium, high")
	}
	return nil
}
