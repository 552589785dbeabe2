package handlers

import (
	"log/slog"
	"net/http"

	"github.com/dimitrije/projectboard/internal/middleware"
	"github.com/dimitrije/projectboard/internal/models"
	"github.com/dimitrije/projectboard/internal/services"
	"github.com/dimitrije/projectboard/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

type TaskHandler struct {
	taskService    TaskServiceInterface
	projectService ProjectServiceInterface
	logger         *slog.Logger
}

func NewTaskHandler(taskService TaskServiceInterface, projectService ProjectServiceInterface, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{
		taskService:    taskService,
		projectService: projectService,
		logger:         logger,
	}
}

func (h *TaskHandler) Board(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	project, ok := memberProject(c, h.projectService, h.logger, userID)
	if !ok {
		return
	}

	board, err := h.taskService.Board(c.Request.Context(), project.ID)
	if err != nil {
		fail(c, h.logger, "load board", "project", err)
		return
	}

	_ = c.JSON(http.StatusOK, toBoardResponse(project.ID, board))
}

func (h *TaskHandler) Create(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	project, ok := memberProject(c, h.projectService, h.logger, userID)
	if !ok {
		return
	}

	var req dto.CreateTaskRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	task, err := h.taskService.Create(c.Request.Context(), project.ID, services.TaskInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    models.TaskPriority(req.Priority),
		AssigneeID:  req.AssigneeID,
	})
	if err != nil {
		fail(c, h.logger, "create task", "project", err)
		return
	}

	_ = c.JSON(http.StatusCreated, toTaskResponse(task))
}

// Update overwrites the task. Moving it to another project requires
// membership of that project as well.
func (h *TaskHandler) Update(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	task, ok := h.routeTask(c, userID)
	if !ok {
		return
	}

	var req dto.UpdateTaskRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	ctx := c.Request.Context()
	in := services.TaskInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    models.TaskPriority(req.Priority),
		AssigneeID:  req.AssigneeID,
	}
	if req.ProjectID != nil && *req.ProjectID != task.ProjectID {
		target, err := h.projectService.Get(ctx, *req.ProjectID)
		if err != nil {
			fail(c, h.logger, "load project", "project", err)
			return
		}
		if !target.HasMember(userID) {
			c.NotFound("project not found")
			return
		}
		in.ProjectID = target.ID
	}

	updated, err := h.taskService.Update(ctx, task.ID, in)
	if err != nil {
		fail(c, h.logger, "update task", "task", err)
		return
	}

	_ = c.JSON(http.StatusOK, toTaskResponse(updated))
}

func (h *TaskHandler) Move(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	task, ok := h.routeTask(c, userID)
	if !ok {
		return
	}

	var req dto.MoveTaskRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	moved, err := h.taskService.Move(c.Request.Context(), task.ID, models.TaskStatus(req.Status))
	if err != nil {
		fail(c, h.logger, "move task", "task", err)
		return
	}

	_ = c.JSON(http.StatusOK, toTaskResponse(moved))
}

func (h *TaskHandler) Delete(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return
	}

	task, ok := h.routeTask(c, userID)
	if !ok {
		return
	}

	if err := h.taskService.Delete(c.Request.Context(), task.ID); err != nil {
		fail(c, h.logger, "delete task", "task", err)
		return
	}

	_ = c.JSON(http.StatusOK, dto.MessageResponse{Message: "task deleted"})
}

// routeTask resolves :taskId within the :projectId project the caller belongs to.
func (h *TaskHandler) routeTask(c *drift.Context, userID uuid.UUID) (*models.Task, bool) {
	project, ok := memberProject(c, h.projectService, h.logger, userID)
	if !ok {
		return nil, false
	}

	taskID, err := uuid.Parse(c.Param("taskId"))
	if err != nil {
		c.BadRequest("invalid task ID")
		return nil, false
	}

	task, err := h.taskService.Get(c.Request.Context(), taskID)
	if err != nil {
		fail(c, h.logger, "load task", "task", err)
		return nil, false
	}

	if task.ProjectID != project.ID {
		c.NotFound("task not found")
		return nil, false
	}
	return task, true
}
