package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dimitrije/projectboard/internal/database"
	"github.com/dimitrije/projectboard/internal/models"
	"github.com/dimitrije/projectboard/internal/store"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Identity is what the authentication layer knows about a signed-in account.
type Identity struct {
	ID          uuid.UUID
	Email       string
	DisplayName string
}

type ProfileService struct {
	db       *database.DB
	users    *store.UserStore
	projects *store.ProjectStore
	logger   *slog.Logger
}

func NewProfileService(db *database.DB, logger *slog.Logger) *ProfileService {
	return &ProfileService{
		db:       db,
		users:    store.NewUserStore(db.Pool),
		projects: store.NewProjectStore(db.Pool),
		logger:   logger,
	}
}

// Bootstrap returns the profile of id, creating it first when the account
// has never signed in before.
func (s *ProfileService) Bootstrap(ctx context.Context, id Identity) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id.ID)
	if err == nil {
		return user, nil
	}
	if !store.IsNotFound(err) {
		return nil, remote("get profile", err)
	}

	name := strings.TrimSpace(id.DisplayName)
	if name == "" {
		name = emailLocalPart(id.Email)
	}

	if _, err := s.users.Create(ctx, id.ID, id.Email, name); err != nil && !store.IsUniqueViolation(err) {
		return nil, fmt.Errorf("%w: %w", ErrProfileCreation, err)
	}

	user, err = s.users.GetByID(ctx, id.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProfileCreation, err)
	}

	s.logger.Info("profile created", "user_id", user.ID, "email", user.Email)
	return user, nil
}

func (s *ProfileService) GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, lookup("get profile", err)
	}
	return user, nil
}

// Rename changes the display name of a user and rewrites every copy of it
// embedded in projects, all in one transaction.
func (s *ProfileService) Rename(ctx context.Context, userID uuid.UUID, newName string) (*models.User, error) {
	name := strings.TrimSpace(newName)
	if name == "" {
		return nil, invalid("name", "must not be empty")
	}

	current, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if current.Name == name {
		return nil, invalid("name", "is unchanged")
	}

	var updated *models.User
	err = s.db.WithTx(ctx, func(tx pgx.Tx) error {
		user, err := s.users.With(tx).UpdateName(ctx, userID, name)
		if err != nil {
			return err
		}
		updated = user
		return renameInSnapshots(ctx, s.projects.With(tx), userID, name)
	})
	if err != nil {
		return nil, remote("rename user", err)
	}

	s.logger.Info("user renamed", "user_id", userID)
	return updated, nil
}

// renameInSnapshots rewrites the embedded team snapshot of userID in every
// project they belong to, and the owner name of the projects they own.
func renameInSnapshots(ctx context.Context, projects *store.ProjectStore, userID uuid.UUID, name string) error {
	list, err := projects.ListWithMemberForUpdate(ctx, userID)
	if err != nil {
		return err
	}

	for _, p := range list {
		members := make([]models.TeamMember, len(p.TeamMembers))
		copy(members, p.TeamMembers)
		for i := range members {
			if members[i].ID == userID {
				members[i].Name = name
			}
		}

		var ownerName *string
		if p.OwnerID == userID {
			ownerName = &name
		}

		if err := projects.UpdateSnapshots(ctx, p.ID, members, ownerName); err != nil {
			return err
		}
	}
	return nil
}

func emailLocalPart(email string) string {
	if i := strings.IndexByte(email, '@'); i > 0 {
		return email[:i]
	}
	return email
}
