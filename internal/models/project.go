package models

import (
	"time"

	"github.com/google/uuid"
)

type ProjectStatus string

const (
	ProjectActive    ProjectStatus = "active"
	ProjectPaused    ProjectStatus = "paused"
	ProjectCompleted ProjectStatus = "completed"
	ProjectCancelled ProjectStatus = "cancelled"
)

func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectActive, ProjectPaused, ProjectCompleted, ProjectCancelled:
		return true
	}
	return false
}

// IsClosed reports whether the project no longer runs against a deadline.
func (s ProjectStatus) IsClosed() bool {
	return s == ProjectCompleted || s == ProjectCancelled
}

type Project struct {
	ID               uuid.UUID     `json:"id"`
	Name             string        `json:"name"`
	Description      string        `json:"description"`
	Status           ProjectStatus `json:"status"`
	StartDate        time.Time     `json:"start_date"`
	EstimatedEndDate time.Time     `json:"estimated_end_date"`
	ActualEndDate    *time.Time    `json:"actual_end_date,omitempty"`
	OwnerID          uuid.UUID     `json:"owner_id"`
	OwnerName        string        `json:"owner_name"`
	TeamMemberIDs    []uuid.UUID   `json:"team_member_ids"`
	TeamMembers      []TeamMember  `json:"team_members"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

func (p *Project) HasMember(userID uuid.UUID) bool {
	for _, id := range p.TeamMemberIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// Member returns the team snapshot for userID, if present.
func (p *Project) Member(userID uuid.UUID) (TeamMember, bool) {
	for _, m := range p.TeamMembers {
		if m.ID == userID {
			return m, true
		}
	}
	return TeamMember{}, false
}

// RoleOf returns the display role of a member; the owner is always RoleOwner.
func (p *Project) RoleOf(m TeamMember) string {
	if m.ID == p.OwnerID {
		return RoleOwner
	}
	if m.Role == "" {
		return DefaultRole
	}
	return m.Role
}
