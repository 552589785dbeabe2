package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dimitrije/projectboard/internal/middleware"
	"github.com/dimitrije/projectboard/internal/models"
	"github.com/dimitrije/projectboard/internal/services"
	"github.com/dimitrije/projectboard/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

type ProjectHandler struct {
	projectService ProjectServiceInterface
	logger         *slog.Logger
	now            func() time.Time
}

func NewProjectHandler(projectService ProjectServiceInterface, logger *slog.Logger) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
		logger:         logger,
		now:            time.Now,
	}
}

func (h *ProjectHandler) List(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	projects, err := h.projectService.ListVisible(c.Request.Context(), userID)
	if err != nil {
		fail(c, h.logger, "list projects", "project", err)
		return
	}

	today := h.now()
	response := make([]dto.ProjectResponse, len(projects))
	for i := range projects {
		response[i] = toProjectResponse(&projects[i].Project, userID, today)
	}

	_ = c.JSON(http.StatusOK, response)
}

func (h *ProjectHandler) Create(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	var req dto.CreateProjectRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	in, err := projectInput(req.Name, req.Description, req.Status, req.StartDate, req.EstimatedEndDate, req.ActualEndDate)
	if err != nil {
		c.BadRequest(err.Error())
		return
	}

	project, err := h.projectService.Create(c.Request.Context(), userID, in)
	if err != nil {
		fail(c, h.logger, "create project", "project", err)
		return
	}

	_ = c.JSON(http.StatusCreated, toProjectResponse(project, userID, h.now()))
}

// Get returns the project to its members only; everyone else gets a 404.
func (h *ProjectHandler) Get(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	project, ok := memberProject(c, h.projectService, h.logger, userID)
	if !ok {
		return
	}

	_ = c.JSON(http.StatusOK, toProjectResponse(project, userID, h.now()))
}

func (h *ProjectHandler) Update(c *drift.Context) {
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

	var req dto.UpdateProjectRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	in, err := projectInput(req.Name, req.Description, req.Status, req.StartDate, req.EstimatedEndDate, req.ActualEndDate)
	if err != nil {
		c.BadRequest(err.Error())
		return
	}

	project, err := h.projectService.Update(c.Request.Context(), projectID, userID, in)
	if err != nil {
		fail(c, h.logger, "update project", "project", err)
		return
	}

	_ = c.JSON(http.StatusOK, toProjectResponse(project, userID, h.now()))
}

func projectInput(name, description, status, start, estimatedEnd string, actualEnd *string) (services.ProjectInput, error) {
	in := services.ProjectInput{
		Name:        name,
		Description: description,
		Status:      models.ProjectStatus(status),
	}

	var err error
	if in.StartDate, err = parseDate(start); err != nil {
		return in, &services.ValidationError{Field: "start_date", Reason: "must be YYYY-MM-DD"}
	}
	if in.EstimatedEndDate, err = parseDate(estimatedEnd); err != nil {
		return in, &services.ValidationError{Field: "estimated_end_date", Reason: "must be YYYY-MM-DD"}
	}
	if actualEnd != nil && *actualEnd != "" {
		d, err := parseDate(*actualEnd)
		if err != nil {
			return in, &services.ValidationError{Field: "actual_end_date", Reason: "must be YYYY-MM-DD"}
		}
		in.ActualEndDate = &d
	}
	return in, nil
}

// memberProject loads the :projectId route project and checks that userID is
// on its team. It writes the error response itself and reports false when the
// request must stop.
func memberProject(c *drift.Context, projects ProjectServiceInterface, logger *slog.Logger, userID uuid.UUID) (*models.Project, bool) {
	projectID, err := uuid.Parse(c.Param("projectId"))
	if err != nil {
		c.BadRequest("invalid project ID")
		return nil, false
	}

	project, err := projects.Get(c.Request.Context(), projectID)
	if err != nil {
		fail(c, logger, "load project", "project", err)
		return nil, false
	}

	if !project.HasMember(userID) {
		c.NotFound("project not found")
		return nil, false
	}
	return project, true
}
