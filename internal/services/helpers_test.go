package services

import (
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/dimitrije/projectboard/internal/database"
	"github.com/dimitrije/projectboard/internal/models"
	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setupMockDB(t *testing.T) (*database.DB, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })
	return &database.DB{Pool: mock}, mock
}

func userRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{"id", "email", "name", "created_at", "updated_at"})
}

func projectRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "name", "description", "status", "start_date", "estimated_end_date", "actual_end_date",
		"owner_id", "owner_name", "team_member_ids", "team_members", "created_at", "updated_at",
	})
}

func taskRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "project_id", "title", "description", "priority", "status",
		"assignee_id", "assignee_name", "created_at", "updated_at",
	})
}

// addProject appends p to rows the way the projects table returns it.
func addProject(t *testing.T, rows *pgxmock.Rows, p *models.Project) *pgxmock.Rows {
	t.Helper()
	members, err := json.Marshal(p.TeamMembers)
	require.NoError(t, err)
	return rows.AddRow(
		p.ID, p.Name, p.Description, p.Status, p.StartDate, p.EstimatedEndDate, p.ActualEndDate,
		p.OwnerID, p.OwnerName, p.TeamMemberIDs, members, p.CreatedAt, p.UpdatedAt,
	)
}

func addTask(rows *pgxmock.Rows, task *models.Task) *pgxmock.Rows {
	return rows.AddRow(
		task.ID, task.ProjectID, task.Title, task.Description, task.Priority, task.Status,
		task.AssigneeID, task.AssigneeName, task.CreatedAt, task.UpdatedAt,
	)
}

// newTeamProject returns a project owned by owner with the given extra members.
func newTeamProject(owner models.TeamMember, members ...models.TeamMember) *models.Project {
	now := time.Now()
	owner.Role = models.RoleOwner
	p := &models.Project{
		ID:               uuid.New(),
		Name:             "Apollo",
		Status:           models.ProjectActive,
		StartDate:        now.AddDate(0, -1, 0),
		EstimatedEndDate: now.AddDate(0, 1, 0),
		OwnerID:          owner.ID,
		OwnerName:        owner.Name,
		TeamMemberIDs:    []uuid.UUID{owner.ID},
		TeamMembers:      []models.TeamMember{owner},
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	for _, m := range members {
		p.TeamMemberIDs = append(p.TeamMemberIDs, m.ID)
		p.TeamMembers = append(p.TeamMembers, m)
	}
	return p
}

func member(name, role string) models.TeamMember {
	return models.TeamMember{ID: uuid.New(), Name: name, Email: name + "@example.com", Role: role}
}
