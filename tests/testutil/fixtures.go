package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/dimitrije/projectboard/internal/database"
	"github.com/dimitrije/projectboard/internal/models"
	"github.com/google/uuid"
)

// Fixtures provides factory methods for creating test data
type Fixtures struct {
	db      *database.DB
	counter int
}

// NewFixtures creates a new fixtures factory
func NewFixtures(db *database.DB) *Fixtures {
	return &Fixtures{db: db}
}

// CreateUser creates an account and its profile. The password hash is a
// placeholder; sign-in tests register through AuthService instead.
func (f *Fixtures) CreateUser(t *testing.T, opts ...UserOption) *models.User {
	t.Helper()
	f.counter++

	user := &models.User{
		Email: fmt.Sprintf("user%d@example.com", f.counter),
		Name:  fmt.Sprintf("Test User %d", f.counter),
	}

	for _, opt := range opts {
		opt(user)
	}

	ctx := context.Background()
	err := f.db.Pool.QueryRow(ctx, `
		INSERT INTO accounts (email, password_hash)
		VALUES ($1, 'x')
		RETURNING id
	`, user.Email).Scan(&user.ID)
	if err != nil {
		t.Fatalf("failed to create account: %v", err)
	}

	err = f.db.Pool.QueryRow(ctx, `
		INSERT INTO users (id, email, name)
		VALUES ($1, $2, $3)
		RETURNING created_at, updated_at
	`, user.ID, user.Email, user.Name).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user
}

// UserOption configures a test user
type UserOption func(*models.User)

// WithEmail sets the user's email
func WithEmail(email string) UserOption {
	return func(u *models.User) {
		u.Email = email
	}
}

// WithName sets the user's name
func WithName(name string) UserOption {
	return func(u *models.User) {
		u.Name = name
	}
}

// CreateProject creates an active project owned by owner, with owner as the
// only team member.
func (f *Fixtures) CreateProject(t *testing.T, owner *models.User, opts ...ProjectOption) *models.Project {
	t.Helper()
	f.counter++

	today := time.Now().UTC().Truncate(24 * time.Hour)
	project := &models.Project{
		Name:             fmt.Sprintf("Test Project %d", f.counter),
		Status:           models.ProjectActive,
		StartDate:        today,
		EstimatedEndDate: today.AddDate(0, 0, 30),
		OwnerID:          owner.ID,
		OwnerName:        owner.Name,
		TeamMemberIDs:    []uuid.UUID{owner.ID},
		TeamMembers:      []models.TeamMember{owner.Snapshot(models.RoleOwner)},
	}

	for _, opt := range opts {
		opt(project)
	}

	members, err := json.Marshal(project.TeamMembers)
	if err != nil {
		t.Fatalf("failed to encode members: %v", err)
	}

	ctx := context.Background()
	err = f.db.Pool.QueryRow(ctx, `
		INSERT INTO projects (name, description, status, start_date, estimated_end_date,
			owner_id, owner_name, team_member_ids, team_members)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`, project.Name, project.Description, project.Status, project.StartDate, project.EstimatedEndDate,
		project.OwnerID, project.OwnerName, project.TeamMemberIDs, members,
	).Scan(&project.ID, &project.CreatedAt, &project.UpdatedAt)
	if err != nil {
		t.Fatalf("failed to create project: %v", err)
	}

	return project
}

// ProjectOption configures a test project
type ProjectOption func(*models.Project)

// WithProjectName sets the project name
func WithProjectName(name string) ProjectOption {
	return func(p *models.Project) {
		p.Name = name
	}
}

// WithMember adds user to the project team with role
func WithMember(user *models.User, role string) ProjectOption {
	return func(p *models.Project) {
		p.TeamMemberIDs = append(p.TeamMemberIDs, user.ID)
		p.TeamMembers = append(p.TeamMembers, user.Snapshot(role))
	}
}

// CreateTask creates a pending task in project, optionally assigned
func (f *Fixtures) CreateTask(t *testing.T, project *models.Project, assignee *models.User) *models.Task {
	t.Helper()
	f.counter++

	task := &models.Task{
		ProjectID: project.ID,
		Title:     fmt.Sprintf("Test Task %d", f.counter),
		Priority:  models.PriorityMedium,
		Status:    models.TaskPending,
	}
	if assignee != nil {
		task.AssigneeID = &assignee.ID
		task.AssigneeName = &assignee.Name
	}

	ctx := context.Background()
	err := f.db.Pool.QueryRow(ctx, `
		INSERT INTO tasks (project_id, title, priority, status, assignee_id, assignee_name)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, task.ProjectID, task.Title, task.Priority, task.Status, task.AssigneeID, task.AssigneeName,
	).Scan(&task.ID, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		t.Fatalf("failed to create task: %v", err)
	}

	return task
}

// CreateRefreshToken creates a test refresh token
func (f *Fixtures) CreateRefreshToken(t *testing.T, userID uuid.UUID, tokenHash string, expiresAt time.Time) {
	t.Helper()
	ctx := context.Background()

	_, err := f.db.Pool.Exec(ctx, `
		INSERT INTO refresh_tokens (user_id, token_hash, expires_at)
		VALUES ($1, $2, $3)
	`, userID, tokenHash, expiresAt)
	if err != nil {
		t.Fatalf("failed to create refresh token: %v", err)
	}
}
