package handlers

import (
	"log/slog"
	"net/http"

	"github.com/dimitrije/projectboard/internal/middleware"
	"github.com/dimitrije/projectboard/internal/models"
	"github.com/dimitrije/projectboard/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

type TeamHandler struct {
	teamService    TeamServiceInterface
	projectService ProjectServiceInterface
	logger         *slog.Logger
}

func NewTeamHandler(teamService TeamServiceInterface, projectService ProjectServiceInterface, logger *slog.Logger) *TeamHandler {
	return &TeamHandler{
		teamService:    teamService,
		projectService: projectService,
		logger:         logger,
	}
}

func (h *TeamHandler) ListMembers(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	project, ok := memberProject(c, h.projectService, h.logger, userID)
	if !ok {
		return
	}

	members, err := h.teamService.ListMembers(c.Request.Context(), project.ID)
	if err != nil {
		fail(c, h.logger, "list members", "project", err)
		return
	}

	_ = c.JSON(http.StatusOK, membersResponse(project, members))
}

func (h *TeamHandler) AddMember(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	projectID, err := uuid.Parse(c.Param("projectId"))
	if err != nil {
		c.BadRequest("invalid project ID")
		return
	}

	var req dto.AddMemberRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if req.Email == "" {
		c.BadRequest("email is required")
		return
	}

	project, err := h.teamService.AddMember(c.Request.Context(), projectID, userID, req.Email, req.Role)
	if err != nil {
		fail(c, h.logger, "add member", "user", err)
		return
	}

	_ = c.JSON(http.StatusCreated, membersResponse(project, project.TeamMembers))
}

func (h *TeamHandler) ChangeRole(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	projectID, memberID, ok := memberRoute(c)
	if !ok {
		return
	}

	var req dto.ChangeRoleRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	project, err := h.teamService.ChangeMemberRole(c.Request.Context(), projectID, userID, memberID, req.Role)
	if err != nil {
		fail(c, h.logger, "change member role", "project", err)
		return
	}

	_ = c.JSON(http.StatusOK, membersResponse(project, project.TeamMembers))
}

// RemoveMember drops the member from the team; their tasks in the project
// become unassigned.
func (h *TeamHandler) RemoveMember(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	projectID, memberID, ok := memberRoute(c)
	if !ok {
		return
	}

	if _, err := h.teamService.RemoveMember(c.Request.Context(), projectID, userID, memberID); err != nil {
		fail(c, h.logger, "remove member", "project", err)
		return
	}

	_ = c.JSON(http.StatusOK, dto.MessageResponse{Message: "member removed"})
}

func memberRoute(c *drift.Context) (projectID, memberID uuid.UUID, ok bool) {
	projectID, err := uuid.Parse(c.Param("projectId"))
	if err != nil {
		c.BadRequest("invalid project ID")
		return uuid.Nil, uuid.Nil, false
	}
	memberID, err = uuid.Parse(c.Param("memberId"))
	if err != nil {
		c.BadRequest("invalid member ID")
		return uuid.Nil, uuid.Nil, false
	}
	return projectID, memberID, true
}

func membersResponse(project *models.Project, members []models.TeamMember) []dto.MemberResponse {
	response := make([]dto.MemberResponse, len(members))
	for i, m := range members {
		response[i] = toMemberResponse(project, m)
	}
	return response
}
