package handlers

import (
	"time"

	"github.com/dimitrije/projectboard/internal/deadline"
	"github.com/dimitrije/projectboard/internal/labels"
	"github.com/dimitrije/projectboard/internal/models"
	"github.com/dimitrije/projectboard/internal/services"
	"github.com/dimitrije/projectboard/pkg/dto"
	"github.com/google/uuid"
)

func toUserResponse(u *models.User) dto.UserResponse {
	return dto.UserResponse{
		ID:       u.ID,
		Email:    u.Email,
		Name:     u.Name,
		Initials: labels.Initials(u.Name),
	}
}

func toAuthResponse(u *models.User, pair *services.TokenPair) dto.AuthResponse {
	return dto.AuthResponse{
		TokenResponse: dto.TokenResponse{
			AccessToken:  pair.AccessToken,
			RefreshToken: pair.RefreshToken,
			ExpiresIn:    pair.ExpiresIn,
		},
		User: toUserResponse(u),
	}
}

func toMemberResponse(p *models.Project, m models.TeamMember) dto.MemberResponse {
	role := p.RoleOf(m)
	return dto.MemberResponse{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Role:      role,
		RoleLabel: labels.Role(role),
		Initials:  labels.Initials(m.Name),
	}
}

// toProjectResponse renders p for viewerID, with the deadline evaluated
// against today.
func toProjectResponse(p *models.Project, viewerID uuid.UUID, today time.Time) dto.ProjectResponse {
	result := deadline.Evaluate(p.EstimatedEndDate, today, p.Status)

	members := make([]dto.MemberResponse, len(p.TeamMembers))
	for i, m := range p.TeamMembers {
		members[i] = toMemberResponse(p, m)
	}

	resp := dto.ProjectResponse{
		ID:               p.ID,
		Name:             p.Name,
		Description:      p.Description,
		Status:           string(p.Status),
		StatusLabel:      labels.ProjectStatus(p.Status),
		StartDate:        p.StartDate.Format(dto.DateLayout),
		EstimatedEndDate: p.EstimatedEndDate.Format(dto.DateLayout),
		OwnerID:          p.OwnerID,
		OwnerName:        p.OwnerName,
		IsOwner:          p.OwnerID == viewerID,
		Members:          members,
		MemberCount:      labels.MemberCount(len(p.TeamMemberIDs)),
		TimeStatus:       string(result.Status),
		DaysLeft:         result.DaysLeft,
		Banner:           deadline.Banner(result),
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
	if p.ActualEndDate != nil {
		s := p.ActualEndDate.Format(dto.DateLayout)
		resp.ActualEndDate = &s
	}
	return resp
}

func toTaskResponse(t *models.Task) dto.TaskResponse {
	return dto.TaskResponse{
		ID:            t.ID,
		ProjectID:     t.ProjectID,
		Title:         t.Title,
		Description:   t.Description,
		Priority:      string(t.Priority),
		PriorityLabel: labels.Priority(t.Priority),
		Status:        string(t.Status),
		StatusLabel:   labels.TaskStatus(t.Status),
		AssigneeID:    t.AssigneeID,
		AssigneeName:  t.AssigneeName,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}

func toBoardResponse(projectID uuid.UUID, b *services.Board) dto.BoardResponse {
	resp := dto.BoardResponse{
		ProjectID: projectID,
		Columns:   make([]dto.BoardColumn, 0, len(models.TaskStatuses)),
	}
	for _, status := range models.TaskStatuses {
		tasks := b.Columns[status]
		col := dto.BoardColumn{
			Status: string(status),
			Label:  labels.TaskStatus(status),
			Count:  b.Counts[status],
			Tasks:  make([]dto.TaskResponse, len(tasks)),
		}
		for i := range tasks {
			col.Tasks[i] = toTaskResponse(&tasks[i])
		}
		resp.Total += col.Count
		resp.Columns = append(resp.Columns, col)
	}
	return resp
}

// parseDate reads a dto.DateLayout date. Empty input yields the zero time,
// which the services reject where a date is required.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(dto.DateLayout, s)
}
