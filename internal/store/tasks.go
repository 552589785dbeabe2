package store

import (
	"context"

	"github.com/dimitrije/projectboard/internal/database"
	"github.com/dimitrije/projectboard/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const taskColumns = `id, project_id, title, description, priority, status, assignee_id, assignee_name, created_at, updated_at`

type TaskStore struct {
	q database.Querier
}

func NewTaskStore(q database.Querier) *TaskStore {
	return &TaskStore{q: q}
}

func (s *TaskStore) With(q database.Querier) *TaskStore {
	return &TaskStore{q: q}
}

func scanTask(row scanner) (*models.Task, error) {
	var t models.Task
	if err := row.Scan(
		&t.ID, &t.ProjectID, &t.Title, &t.Description, &t.Priority, &t.Status,
		&t.AssigneeID, &t.AssigneeName, &t.CreatedAt, &t.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *TaskStore) Get(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	return scanTask(s.q.QueryRow(ctx, `
		SELECT `+taskColumns+`
		FROM tasks WHERE id = $1
	`, id))
}

func (s *TaskStore) ListByProject(ctx context.Context, projectID uuid.UUID) ([]models.Task, error) {
	rows, err := s.q.Query(ctx, `
		SELECT `+taskColumns+`
		FROM tasks WHERE project_id = $1
		ORDER BY created_at
	`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

func (s *TaskStore) Create(ctx context.Context, t *models.Task) (*models.Task, error) {
	return scanTask(s.q.QueryRow(ctx, `
		INSERT INTO tasks (project_id, title, description, priority, status, assignee_id, assignee_name)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+taskColumns+`
	`, t.ProjectID, t.Title, t.Description, t.Priority, t.Status, t.AssigneeID, t.AssigneeName))
}

// Update overwrites every editable field except status.
func (s *TaskStore) Update(ctx context.Context, t *models.Task) (*models.Task, error) {
	return scanTask(s.q.QueryRow(ctx, `
		UPDATE tasks SET project_id = $1, title = $2, description = $3, priority = $4,
			assignee_id = $5, assignee_name = $6, updated_at = NOW()
		WHERE id = $7
		RETURNING `+taskColumns+`
	`, t.ProjectID, t.Title, t.Description, t.Priority, t.AssigneeID, t.AssigneeName, t.ID))
}

func (s *TaskStore) UpdateStatus(ctx context.Context, id uuid.UUID, status models.TaskStatus) (*models.Task, error) {
	return scanTask(s.q.QueryRow(ctx, `
		UPDATE tasks SET status = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING `+taskColumns+`
	`, status, id))
}

func (s *TaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.q.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// UnassignMember clears the assignee of every task in the project assigned to
// memberID and returns how many tasks changed.
func (s *TaskStore) UnassignMember(ctx context.Context, projectID, memberID uuid.UUID) (int64, error) {
	tag, err := s.q.Exec(ctx, `
		UPDATE tasks SET assignee_id = NULL, assignee_name = NULL, updated_at = NOW()
		WHERE project_id = $1 AND assignee_id = $2
	`, projectID, memberID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
