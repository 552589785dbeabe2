package handlers

import (
	"net/http"
	"testing"

	"github.com/dimitrije/projectboard/internal/middleware"
	"github.com/dimitrije/projectboard/internal/models"
	"github.com/dimitrije/projectboard/internal/services"
	"github.com/dimitrije/projectboard/pkg/dto"
	"github.com/dimitrije/projectboard/tests/testutil"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	driftmw "github.com/m1z23r/drift/pkg/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type taskTest struct {
	tasks    *testutil.MockTaskService
	projects *testutil.MockProjectService
	jwtSvc   *services.JWTService
	app      http.Handler

	owner   *models.User
	project *models.Project
	token   string
}

func setupTaskTest(t *testing.T) *taskTest {
	tt := &taskTest{
		tasks:    new(testutil.MockTaskService),
		projects: new(testutil.MockProjectService),
		jwtSvc:   testutil.TestJWTService(),
		owner:    testUser("Olga"),
	}
	handler := NewTaskHandler(tt.tasks, tt.projects, discardLogger())

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(tt.jwtSvc))
	app.Get("/projects/:projectId/tasks", handler.Board)
	app.Post("/projects/:projectId/tasks", handler.Create)
	app.Patch("/projects/:projectId/tasks/:taskId", handler.Update)
	app.Delete("/projects/:projectId/tasks/:taskId", handler.Delete)
	app.Patch("/projects/:projectId/tasks/:taskId/status", handler.Move)
	tt.app = app

	tt.project = projectWith(tt.owner)
	tt.token = testutil.GenerateTestToken(t, tt.owner)
	tt.projects.On("Get", mock.Anything, tt.project.ID).Return(tt.project, nil)
	return tt
}

func (tt *taskTest) path(suffix string) string {
	return "/projects/" + tt.project.ID.String() + "/tasks" + suffix
}

func (tt *taskTest) task(status models.TaskStatus) *models.Task {
	return &models.Task{
		ID:        uuid.New(),
		ProjectID: tt.project.ID,
		Title:     "Write docs",
		Priority:  models.PriorityMedium,
		Status:    status,
	}
}

func TestTaskHandler_Board(t *testing.T) {
	tt := setupTaskTest(t)
	board := services.NewBoard([]models.Task{
		*tt.task(models.TaskTodo),
		*tt.task(models.TaskTodo),
		*tt.task(models.TaskDone),
	})
	tt.tasks.On("Board", mock.Anything, tt.project.ID).Return(board, nil)

	rec := testutil.Request(t, tt.app, http.MethodGet, tt.path(""), tt.token, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var response dto.BoardResponse
	testutil.DecodeJSON(t, rec, &response)
	assert.Equal(t, 3, response.Total)
	require.Len(t, response.Columns, 4)

	order := make([]string, len(response.Columns))
	counts := make([]int, len(response.Columns))
	for i, col := range response.Columns {
		order[i] = col.Status
		counts[i] = col.Count
		assert.Len(t, col.Tasks, col.Count)
	}
	assert.Equal(t, []string{"pending", "todo", "doing", "done"}, order)
	assert.Equal(t, []int{0, 2, 0, 1}, counts)
}

func TestTaskHandler_Create(t *testing.T) {
	tt := setupTaskTest(t)
	assignee := uuid.New()
	created := tt.task(models.TaskPending)
	tt.tasks.On("Create", mock.Anything, tt.project.ID, services.TaskInput{
		Title:      "Write docs",
		Priority:   models.PriorityHigh,
		AssigneeID: &assignee,
	}).Return(created, nil)

	rec := testutil.Request(t, tt.app, http.MethodPost, tt.path(""), tt.token, dto.CreateTaskRequest{
		Title:      "Write docs",
		Priority:   "high",
		AssigneeID: &assignee,
	})

	assert.Equal(t, http.StatusCreated, rec.Code)
	var response dto.TaskResponse
	testutil.DecodeJSON(t, rec, &response)
	assert.Equal(t, "pending", response.Status)
	assert.Nil(t, response.AssigneeID)
	tt.tasks.AssertExpectations(t)
}

func TestTaskHandler_Create_MissingTitle(t *testing.T) {
	tt := setupTaskTest(t)
	tt.tasks.On("Create", mock.Anything, tt.project.ID, mock.Anything).
		Return(nil, &services.ValidationError{Field: "title", Reason: "is required"})

	rec := testutil.Request(t, tt.app, http.MethodPost, tt.path(""), tt.token, dto.CreateTaskRequest{})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "title is required")
}

func TestTaskHandler_NonMemberCannotCreate(t *testing.T) {
	tt := setupTaskTest(t)
	stranger := testUser("Eve")

	rec := testutil.Request(t, tt.app, http.MethodPost, tt.path(""), testutil.GenerateTestToken(t, stranger),
		dto.CreateTaskRequest{Title: "sneaky"})

	assert.Equal(t, http.StatusNotFound, rec.Code)
	tt.tasks.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestTaskHandler_Move(t *testing.T) {
	tt := setupTaskTest(t)
	task := tt.task(models.TaskDone)
	moved := *task
	moved.Status = models.TaskPending
	tt.tasks.On("Get", mock.Anything, task.ID).Return(task, nil)
	tt.tasks.On("Move", mock.Anything, task.ID, models.TaskPending).Return(&moved, nil)
	tt.tasks.On("Move", mock.Anything, task.ID, models.TaskStatus("archived")).
		Return(nil, &services.ValidationError{Field: "status", Reason: "is not a known column"})

	rec := testutil.Request(t, tt.app, http.MethodPatch, tt.path("/"+task.ID.String()+"/status"), tt.token,
		dto.MoveTaskRequest{Status: "pending"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"pending"`)

	rec = testutil.Request(t, tt.app, http.MethodPatch, tt.path("/"+task.ID.String()+"/status"), tt.token,
		dto.MoveTaskRequest{Status: "archived"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTaskHandler_TaskFromOtherProjectIsNotFound(t *testing.T) {
	tt := setupTaskTest(t)
	foreign := tt.task(models.TaskTodo)
	foreign.ProjectID = uuid.New()
	tt.tasks.On("Get", mock.Anything, foreign.ID).Return(foreign, nil)

	rec := testutil.Request(t, tt.app, http.MethodDelete, tt.path("/"+foreign.ID.String()), tt.token, nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "task not found")
	tt.tasks.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestTaskHandler_Delete(t *testing.T) {
	tt := setupTaskTest(t)
	task := tt.task(models.TaskTodo)
	tt.tasks.On("Get", mock.Anything, task.ID).Return(task, nil)
	tt.tasks.On("Delete", mock.Anything, task.ID).Return(nil)

	rec := testutil.Request(t, tt.app, http.MethodDelete, tt.path("/"+task.ID.String()), tt.token, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	tt.tasks.AssertExpectations(t)
}

func TestTaskHandler_Update_MoveToProjectRequiresMembership(t *testing.T) {
	tt := setupTaskTest(t)
	task := tt.task(models.TaskTodo)
	tt.tasks.On("Get", mock.Anything, task.ID).Return(task, nil)

	other := projectWith(testUser("Bob"))
	tt.projects.On("Get", mock.Anything, other.ID).Return(other, nil)

	rec := testutil.Request(t, tt.app, http.MethodPatch, tt.path("/"+task.ID.String()), tt.token, dto.UpdateTaskRequest{
		Title:     "Write docs",
		Priority:  "low",
		ProjectID: &other.ID,
	})

	assert.Equal(t, http.StatusNotFound, rec.Code)
	tt.tasks.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestTaskHandler_Update_MovesBetweenOwnProjects(t *testing.T) {
	tt := setupTaskTest(t)
	task := tt.task(models.TaskTodo)
	tt.tasks.On("Get", mock.Anything, task.ID).Return(task, nil)

	other := projectWith(tt.owner)
	tt.projects.On("Get", mock.Anything, other.ID).Return(other, nil)

	updated := *task
	updated.ProjectID = other.ID
	tt.tasks.On("Update", mock.Anything, task.ID, services.TaskInput{
		ProjectID: other.ID,
		Title:     "Write docs",
		Priority:  models.PriorityLow,
	}).Return(&updated, nil)

	rec := testutil.Request(t, tt.app, http.MethodPatch, tt.path("/"+task.ID.String()), tt.token, dto.UpdateTaskRequest{
		Title:     "Write docs",
		Priority:  "low",
		ProjectID: &other.ID,
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	var response dto.TaskResponse
	testutil.DecodeJSON(t, rec, &response)
	assert.Equal(t, other.ID, response.ProjectID)
}
