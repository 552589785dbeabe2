package handlers

import (
	"io"
	"log/slog"
	"time"

	"github.com/dimitrije/projectboard/internal/models"
	"github.com/google/uuid"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testUser(name string) *models.User {
	return &models.User{ID: uuid.New(), Email: "user@example.com", Name: name}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func projectWith(owner *models.User, members ...*models.User) *models.Project {
	p := &models.Project{
		ID:               uuid.New(),
		Name:             "Apollo",
		Status:           models.ProjectActive,
		StartDate:        date(2026, 10, 1),
		EstimatedEndDate: date(2026, 10, 25),
		OwnerID:          owner.ID,
		OwnerName:        owner.Name,
		TeamMemberIDs:    []uuid.UUID{owner.ID},
		TeamMembers:      []models.TeamMember{owner.Snapshot(models.RoleOwner)},
	}
	for _, m := range members {
		p.TeamMemberIDs = append(p.TeamMemberIDs, m.ID)
		p.TeamMembers = append(p.TeamMembers, m.Snapshot(models.RoleDeveloper))
	}
	return p
}
