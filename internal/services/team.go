package services

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/dimitrije/projectboard/internal/database"
	"github.com/dimitrije/projectboard/internal/models"
	"github.com/dimitrije/projectboard/internal/store"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// TeamService manages the member list embedded in a project. Every change
// locks the project row so concurrent edits do not drop each other.
type TeamService struct {
	db       *database.DB
	users    *store.UserStore
	projects *store.ProjectStore
	tasks    *store.TaskStore
	logger   *slog.Logger
}

func NewTeamService(db *database.DB, logger *slog.Logger) *TeamService {
	return &TeamService{
		db:       db,
		users:    store.NewUserStore(db.Pool),
		projects: store.NewProjectStore(db.Pool),
		tasks:    store.NewTaskStore(db.Pool),
		logger:   logger,
	}
}

// AddMember looks up a user by email and appends them to the project team.
func (s *TeamService) AddMember(ctx context.Context, projectID, actorID uuid.UUID, email, role string) (*models.Project, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, invalid("email", "is required")
	}
	if role == "" {
		role = models.DefaultRole
	}
	if !models.IsAssignableRole(role) {
		return nil, invalid("role", "must be one of developer, tester, designer, lead")
	}

	var result *models.Project
	err := s.db.WithTx(ctx, func(tx pgx.Tx) error {
		projects := s.projects.With(tx)
		project, err := lockOwnedProject(ctx, projects, projectID, actorID)
		if err != nil {
			return err
		}

		user, err := s.users.With(tx).GetByEmail(ctx, email)
		if err != nil {
			if store.IsNotFound(err) {
				return fmt.Errorf("no user with email %s: %w", email, ErrNotFound)
			}
			return remote("find user by email", err)
		}
		if project.HasMember(user.ID) {
			return ErrDuplicateMember
		}

		ids := append(slices.Clone(project.TeamMemberIDs), user.ID)
		members := append(slices.Clone(project.TeamMembers), user.Snapshot(role))
		if err := projects.UpdateTeam(ctx, project.ID, ids, members); err != nil {
			return remote("add member", err)
		}

		project.TeamMemberIDs, project.TeamMembers = ids, members
		result = project
		return nil
	})
	if err != nil {
		return nil, txErr("add member", err)
	}

	s.logger.Info("member added", "project_id", projectID, "email", email, "role", role)
	return result, nil
}

func (s *TeamService) ChangeMemberRole(ctx context.Context, projectID, actorID, memberID uuid.UUID, role string) (*models.Project, error) {
	if !models.IsAssignableRole(role) {
		return nil, invalid("role", "must be one of developer, tester, designer, lead")
	}

	var result *models.Project
	err := s.db.WithTx(ctx, func(tx pgx.Tx) error {
		projects := s.projects.With(tx)
		project, err := lockOwnedProject(ctx, projects, projectID, actorID)
		if err != nil {
			return err
		}
		if memberID == project.OwnerID {
			return ErrCannotChangeOwnerRole
		}

		i := slices.IndexFunc(project.TeamMembers, func(m models.TeamMember) bool { return m.ID == memberID })
		if i < 0 {
			return ErrMemberNotFound
		}

		members := slices.Clone(project.TeamMembers)
		members[i].Role = role
		if err := projects.UpdateTeam(ctx, project.ID, project.TeamMemberIDs, members); err != nil {
			return remote("change member role", err)
		}

		project.TeamMembers = members
		result = project
		return nil
	})
	if err != nil {
		return nil, txErr("change member role", err)
	}
	return result, nil
}

// RemoveMember drops a member from both membership fields and unassigns every
// task of the project they held. Both writes commit together or not at all.
func (s *TeamService) RemoveMember(ctx context.Context, projectID, actorID, memberID uuid.UUID) (*models.Project, error) {
	var result *models.Project
	var unassigned int64
	err := s.db.WithTx(ctx, func(tx pgx.Tx) error {
		projects := s.projects.With(tx)
		project, err := lockOwnedProject(ctx, projects, projectID, actorID)
		if err != nil {
			return err
		}
		if memberID == project.OwnerID {
			return ErrCannotRemoveOwner
		}
		if _, ok := project.Member(memberID); !ok && !project.HasMember(memberID) {
			return ErrMemberNotFound
		}

		ids := slices.DeleteFunc(slices.Clone(project.TeamMemberIDs), func(id uuid.UUID) bool { return id == memberID })
		members := slices.DeleteFunc(slices.Clone(project.TeamMembers), func(m models.TeamMember) bool { return m.ID == memberID })
		if err := projects.UpdateTeam(ctx, project.ID, ids, members); err != nil {
			return remote("remove member", err)
		}

		unassigned, err = s.tasks.With(tx).UnassignMember(ctx, project.ID, memberID)
		if err != nil {
			return remote("unassign member tasks", err)
		}

		project.TeamMemberIDs, project.TeamMembers = ids, members
		result = project
		return nil
	})
	if err != nil {
		return nil, txErr("remove member", err)
	}

	s.logger.Info("member removed", "project_id", projectID, "member_id", memberID, "tasks_unassigned", unassigned)
	return result, nil
}

// ListMembers returns the team snapshots with the owner first and every role
// filled in.
func (s *TeamService) ListMembers(ctx context.Context, projectID uuid.UUID) ([]models.TeamMember, error) {
	project, err := s.projects.Get(ctx, projectID)
	if err != nil {
		return nil, lookup("get project", err)
	}

	members := make([]models.TeamMember, 0, len(project.TeamMembers))
	for _, m := range project.TeamMembers {
		m.Role = project.RoleOf(m)
		if m.ID == project.OwnerID {
			members = slices.Insert(members, 0, m)
			continue
		}
		members = append(members, m)
	}
	return members, nil
}

func lockOwnedProject(ctx context.Context, projects *store.ProjectStore, projectID, actorID uuid.UUID) (*models.Project, error) {
	project, err := projects.GetForUpdate(ctx, projectID)
	if err != nil {
		return nil, lookup("get project", err)
	}
	if project.OwnerID != actorID {
		return nil, ErrForbidden
	}
	return project, nil
}
