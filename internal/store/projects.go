package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dimitrije/projectboard/internal/database"
	"github.com/dimitrije/projectboard/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const projectColumns = `id, name, description, status, start_date, estimated_end_date, actual_end_date,
		owner_id, owner_name, team_member_ids, team_members, created_at, updated_at`

// ProjectDetails are the owner-editable fields of a project.
type ProjectDetails struct {
	Name             string
	Description      string
	Status           models.ProjectStatus
	StartDate        time.Time
	EstimatedEndDate time.Time
	ActualEndDate    *time.Time
}

type ProjectStore struct {
	q database.Querier
}

func NewProjectStore(q database.Querier) *ProjectStore {
	return &ProjectStore{q: q}
}

func (s *ProjectStore) With(q database.Querier) *ProjectStore {
	return &ProjectStore{q: q}
}

func scanProject(row scanner) (*models.Project, error) {
	var p models.Project
	var members []byte
	if err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.Status, &p.StartDate, &p.EstimatedEndDate, &p.ActualEndDate,
		&p.OwnerID, &p.OwnerName, &p.TeamMemberIDs, &members, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if len(members) > 0 {
		if err := json.Unmarshal(members, &p.TeamMembers); err != nil {
			return nil, fmt.Errorf("decode team members of project %s: %w", p.ID, err)
		}
	}
	if p.TeamMemberIDs == nil {
		p.TeamMemberIDs = []uuid.UUID{}
	}
	if p.TeamMembers == nil {
		p.TeamMembers = []models.TeamMember{}
	}
	return &p, nil
}

func encodeMembers(members []models.TeamMember) ([]byte, error) {
	if members == nil {
		members = []models.TeamMember{}
	}
	return json.Marshal(members)
}

func (s *ProjectStore) Get(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	return scanProject(s.q.QueryRow(ctx, `
		SELECT `+projectColumns+`
		FROM projects WHERE id = $1
	`, id))
}

// GetForUpdate locks the project row until the surrounding transaction ends.
func (s *ProjectStore) GetForUpdate(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	return scanProject(s.q.QueryRow(ctx, `
		SELECT `+projectColumns+`
		FROM projects WHERE id = $1
		FOR UPDATE
	`, id))
}

func (s *ProjectStore) ListOwnedBy(ctx context.Context, userID uuid.UUID) ([]models.Project, error) {
	return s.list(ctx, `
		SELECT `+projectColumns+`
		FROM projects WHERE owner_id = $1
		ORDER BY created_at DESC
	`, userID)
}

func (s *ProjectStore) ListWithMember(ctx context.Context, userID uuid.UUID) ([]models.Project, error) {
	return s.list(ctx, `
		SELECT `+projectColumns+`
		FROM projects WHERE $1 = ANY(team_member_ids)
		ORDER BY created_at DESC
	`, userID)
}

// ListWithMemberForUpdate is ListWithMember with every returned row locked.
func (s *ProjectStore) ListWithMemberForUpdate(ctx context.Context, userID uuid.UUID) ([]models.Project, error) {
	return s.list(ctx, `
		SELECT `+projectColumns+`
		FROM projects WHERE $1 = ANY(team_member_ids)
		ORDER BY created_at DESC
		FOR UPDATE
	`, userID)
}

func (s *ProjectStore) list(ctx context.Context, sql string, args ...any) ([]models.Project, error) {
	rows, err := s.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, *p)
	}
	return projects, rows.Err()
}

func (s *ProjectStore) Create(ctx context.Context, p *models.Project) (*models.Project, error) {
	members, err := encodeMembers(p.TeamMembers)
	if err != nil {
		return nil, err
	}
	return scanProject(s.q.QueryRow(ctx, `
		INSERT INTO projects (name, description, status, start_date, estimated_end_date, actual_end_date,
			owner_id, owner_name, team_member_ids, team_members)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+projectColumns+`
	`, p.Name, p.Description, p.Status, p.StartDate, p.EstimatedEndDate, p.ActualEndDate,
		p.OwnerID, p.OwnerName, p.TeamMemberIDs, members))
}

func (s *ProjectStore) UpdateDetails(ctx context.Context, id uuid.UUID, d ProjectDetails) (*models.Project, error) {
	return scanProject(s.q.QueryRow(ctx, `
		UPDATE projects SET name = $1, description = $2, status = $3, start_date = $4,
			estimated_end_date = $5, actual_end_date = $6, updated_at = NOW()
		WHERE id = $7
		RETURNING `+projectColumns+`
	`, d.Name, d.Description, d.Status, d.StartDate, d.EstimatedEndDate, d.ActualEndDate, id))
}

// UpdateTeam rewrites both membership fields together.
func (s *ProjectStore) UpdateTeam(ctx context.Context, id uuid.UUID, memberIDs []uuid.UUID, members []models.TeamMember) error {
	encoded, err := encodeMembers(members)
	if err != nil {
		return err
	}
	tag, err := s.q.Exec(ctx, `
		UPDATE projects SET team_member_ids = $1, team_members = $2, updated_at = NOW()
		WHERE id = $3
	`, memberIDs, encoded, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("project %s: %w", id, pgx.ErrNoRows)
	}
	return nil
}

// UpdateSnapshots rewrites the embedded member snapshots and, when ownerName
// is non-nil, the denormalized owner name. The id array is left untouched.
func (s *ProjectStore) UpdateSnapshots(ctx context.Context, id uuid.UUID, members []models.TeamMember, ownerName *string) error {
	encoded, err := encodeMembers(members)
	if err != nil {
		return err
	}
	tag, err := s.q.Exec(ctx, `
		UPDATE projects SET team_members = $1, owner_name = COALESCE($2, owner_name), updated_at = NOW()
		WHERE id = $3
	`, encoded, ownerName, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("project %s: %w", id, pgx.ErrNoRows)
	}
	return nil
}
