package services

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/dimitrije/projectboard/internal/database"
	"github.com/dimitrije/projectboard/internal/models"
	"github.com/dimitrije/projectboard/internal/store"
	"github.com/google/uuid"
)

// ProjectInput carries the editable fields of a project.
type ProjectInput struct {
	Name             string
	Description      string
	Status           models.ProjectStatus
	StartDate        time.Time
	EstimatedEndDate time.Time
	ActualEndDate    *time.Time
}

// VisibleProject is a project as seen by one user.
type VisibleProject struct {
	models.Project
	IsOwner bool
}

type ProjectService struct {
	users    *store.UserStore
	projects *store.ProjectStore
	logger   *slog.Logger
}

func NewProjectService(db *database.DB, logger *slog.Logger) *ProjectService {
	return &ProjectService{
		users:    store.NewUserStore(db.Pool),
		projects: store.NewProjectStore(db.Pool),
		logger:   logger,
	}
}

// ListVisible returns the projects userID owns or is a member of, newest
// first, each project exactly once.
func (s *ProjectService) ListVisible(ctx context.Context, userID uuid.UUID) ([]VisibleProject, error) {
	owned, err := s.projects.ListOwnedBy(ctx, userID)
	if err != nil {
		return nil, remote("list owned projects", err)
	}
	joined, err := s.projects.ListWithMember(ctx, userID)
	if err != nil {
		return nil, remote("list member projects", err)
	}

	seen := make(map[uuid.UUID]struct{}, len(owned)+len(joined))
	visible := make([]VisibleProject, 0, len(owned)+len(joined))
	for _, p := range owned {
		seen[p.ID] = struct{}{}
		visible = append(visible, VisibleProject{Project: p, IsOwner: true})
	}
	for _, p := range joined {
		if _, ok := seen[p.ID]; ok {
			continue
		}
		seen[p.ID] = struct{}{}
		visible = append(visible, VisibleProject{Project: p, IsOwner: p.OwnerID == userID})
	}

	slices.SortStableFunc(visible, func(a, b VisibleProject) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return visible, nil
}

// Create stores a new project owned by ownerID, who becomes its only member.
func (s *ProjectService) Create(ctx context.Context, ownerID uuid.UUID, in ProjectInput) (*models.Project, error) {
	if err := normalizeProject(&in); err != nil {
		return nil, err
	}

	owner, err := s.users.GetByID(ctx, ownerID)
	if err != nil {
		return nil, lookup("get owner profile", err)
	}

	project, err := s.projects.Create(ctx, &models.Project{
		Name:             in.Name,
		Description:      in.Description,
		Status:           in.Status,
		StartDate:        in.StartDate,
		EstimatedEndDate: in.EstimatedEndDate,
		ActualEndDate:    in.ActualEndDate,
		OwnerID:          owner.ID,
		OwnerName:        owner.Name,
		TeamMemberIDs:    []uuid.UUID{owner.ID},
		TeamMembers:      []models.TeamMember{owner.Snapshot(models.RoleOwner)},
	})
	if err != nil {
		return nil, remote("create project", err)
	}

	s.logger.Info("project created", "project_id", project.ID, "owner_id", owner.ID)
	return project, nil
}

func (s *ProjectService) Get(ctx context.Context, projectID uuid.UUID) (*models.Project, error) {
	project, err := s.projects.Get(ctx, projectID)
	if err != nil {
		return nil, lookup("get project", err)
	}
	return project, nil
}

// Update replaces the editable fields of a project. Only the owner may do so.
// ActualEndDate is stored as given, nil included.
func (s *ProjectService) Update(ctx context.Context, projectID, actorID uuid.UUID, in ProjectInput) (*models.Project, error) {
	if err := normalizeProject(&in); err != nil {
		return nil, err
	}

	project, err := s.Get(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project.OwnerID != actorID {
		return nil, ErrForbidden
	}

	updated, err := s.projects.UpdateDetails(ctx, projectID, store.ProjectDetails{
		Name:             in.Name,
		Description:      in.Description,
		Status:           in.Status,
		StartDate:        in.StartDate,
		EstimatedEndDate: in.EstimatedEndDate,
		ActualEndDate:    in.ActualEndDate,
	})
	if err != nil {
		return nil, lookup("update project", err)
	}
	return updated, nil
}

func (s *ProjectService) IsMember(ctx context.Context, projectID, userID uuid.UUID) (bool, error) {
	project, err := s.Get(ctx, projectID)
	if err != nil {
		return false, err
	}
	return project.HasMember(userID), nil
}

func (s *ProjectService) IsOwner(ctx context.Context, projectID, userID uuid.UUID) (bool, error) {
	project, err := s.Get(ctx, projectID)
	if err != nil {
		return false, err
	}
	return project.OwnerID == userID, nil
}

func normalizeProject(in *ProjectInput) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	if in.Name == "" {
		return invalid("name", "is required")
	}
	if in.Status == "" {
		in.Status = models.ProjectActive
	}
	if !in.Status.Valid() {
		return invalid("status", "must be one of active, paused, completed, cancelled")
	}
	if in.StartDate.IsZero() {
		return invalid("start_date", "is required")
	}
	if in.EstimatedEndDate.IsZero() {
		return invalid("estimated_end_date", "is required")
	}

	in.StartDate = dateOnly(in.StartDate)
	in.EstimatedEndDate = dateOnly(in.EstimatedEndDate)
	if in.EstimatedEndDate.Before(in.StartDate) {
		return invalid("estimated_end_date", "must not be before start_date")
	}
	if in.ActualEndDate != nil {
		d := dateOnly(*in.ActualEndDate)
		in.ActualEndDate = &d
	}
	return nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
