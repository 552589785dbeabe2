package handlers

import (
	"context"

	"github.com/dimitrije/projectboard/internal/models"
	"github.com/dimitrije/projectboard/internal/services"
	"github.com/google/uuid"
)

// ProfileServiceInterface defines the methods used by handlers from ProfileService
type ProfileServiceInterface interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error)
	Rename(ctx context.Context, userID uuid.UUID, newName string) (*models.User, error)
}

// AuthServiceInterface defines the methods used by handlers from AuthService
type AuthServiceInterface interface {
	Register(ctx context.Context, name, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.User, error)
}

// TokenServiceInterface defines the methods used by handlers from TokenService
type TokenServiceInterface interface {
	Issue(ctx context.Context, user *models.User) (*services.TokenPair, error)
	Rotate(ctx context.Context, refreshToken string) (*models.User, *services.TokenPair, error)
	RevokeRefreshToken(ctx context.Context, tokenHash string) error
	RevokeAllUserTokens(ctx context.Context, userID uuid.UUID) error
}

// ProjectServiceInterface defines the methods used by handlers from ProjectService
type ProjectServiceInterface interface {
	ListVisible(ctx context.Context, userID uuid.UUID) ([]services.VisibleProject, error)
	Create(ctx context.Context, ownerID uuid.UUID, in services.ProjectInput) (*models.Project, error)
	Get(ctx context.Context, projectID uuid.UUID) (*models.Project, error)
	Update(ctx context.Context, projectID, actorID uuid.UUID, in services.ProjectInput) (*models.Project, error)
}

// TeamServiceInterface defines the methods used by handlers from TeamService
type TeamServiceInterface interface {
	AddMember(ctx context.Context, projectID, actorID uuid.UUID, email, role string) (*models.Project, error)
	ChangeMemberRole(ctx context.Context, projectID, actorID, memberID uuid.UUID, role string) (*models.Project, error)
	RemoveMember(ctx context.Context, projectID, actorID, memberID uuid.UUID) (*models.Project, error)
	ListMembers(ctx context.Context, projectID uuid.UUID) ([]models.TeamMember, error)
}

// TaskServiceInterface defines the methods used by handlers from TaskService
type TaskServiceInterface interface {
	Create(ctx context.Context, projectID uuid.UUID, in services.TaskInput) (*models.Task, error)
	Get(ctx context.Context, taskID uuid.UUID) (*models.Task, error)
	Update(ctx context.Context, taskID uuid.UUID, in services.TaskInput) (*models.Task, error)
	Move(ctx context.Context, taskID uuid.UUID, status models.TaskStatus) (*models.Task, error)
	Delete(ctx context.Context, taskID uuid.UUID) error
	Board(ctx context.Context, projectID uuid.UUID) (*services.Board, error)
}
