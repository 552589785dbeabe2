package services

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/dimitrije/projectboard/internal/deadline"
	"github.com/dimitrije/projectboard/internal/models"
	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"
)

const bearerScheme = "bearerAuth"

// APIDocService builds the OpenAPI 3 description of the HTTP API.
type APIDocService struct {
	version string
}

func NewAPIDocService(version string) *APIDocService {
	if version == "" {
		version = "dev"
	}
	return &APIDocService{version: version}
}

// Document returns a freshly built description rooted at /api/v1.
func (s *APIDocService) Document() *openapi3.T {
	b := newDocBuilder()

	b.public(http.MethodPost, "/auth/register", "register", "Create an account and sign in", "auth",
		b.body("RegisterRequest"), http.StatusCreated, "AuthResponse")
	b.public(http.MethodPost, "/auth/login", "login", "Sign in with email and password", "auth",
		b.body("LoginRequest"), http.StatusOK, "AuthResponse")
	b.public(http.MethodPost, "/auth/refresh", "refreshToken", "Rotate a refresh token", "auth",
		b.body("RefreshTokenRequest"), http.StatusOK, "AuthResponse")
	b.public(http.MethodPost, "/auth/logout", "logout", "Revoke a refresh token", "auth",
		b.body("RefreshTokenRequest"), http.StatusOK, "MessageResponse")
	b.public(http.MethodGet, "/health", "health", "Liveness check", "system",
		nil, http.StatusOK, "HealthResponse")

	b.protected(http.MethodPost, "/auth/logout-all", "logoutAll", "Revoke every refresh token of the caller", "auth",
		nil, http.StatusOK, "MessageResponse")
	b.protected(http.MethodGet, "/users/me", "getMe", "Current profile", "users",
		nil, http.StatusOK, "UserResponse")
	b.protected(http.MethodPatch, "/users/me", "updateMe", "Rename the current user", "users",
		b.body("UpdateUserRequest"), http.StatusOK, "UserResponse")

	b.protected(http.MethodGet, "/projects", "listProjects", "Projects the caller owns or belongs to", "projects",
		nil, http.StatusOK, "ProjectList")
	b.protected(http.MethodPost, "/projects", "createProject", "Create a project owned by the caller", "projects",
		b.body("CreateProjectRequest"), http.StatusCreated, "ProjectResponse")
	b.protected(http.MethodGet, "/projects/{projectId}", "getProject", "Project detail", "projects",
		nil, http.StatusOK, "ProjectResponse")
	b.protected(http.MethodPatch, "/projects/{projectId}", "updateProject", "Replace the editable project fields", "projects",
		b.body("UpdateProjectRequest"), http.StatusOK, "ProjectResponse")

	b.protected(http.MethodGet, "/projects/{projectId}/members", "listMembers", "Team members", "team",
		nil, http.StatusOK, "MemberList")
	b.protected(http.MethodPost, "/projects/{projectId}/members", "addMember", "Add a registered user to the team", "team",
		b.body("AddMemberRequest"), http.StatusCreated, "MemberList")
	b.protected(http.MethodPatch, "/projects/{projectId}/members/{memberId}", "changeMemberRole", "Change a member's role", "team",
		b.body("ChangeRoleRequest"), http.StatusOK, "MemberList")
	b.protected(http.MethodDelete, "/projects/{projectId}/members/{memberId}", "removeMember", "Remove a member and unassign their tasks", "team",
		nil, http.StatusOK, "MessageResponse")

	b.protected(http.MethodGet, "/projects/{projectId}/tasks", "getBoard", "Kanban board", "tasks",
		nil, http.StatusOK, "BoardResponse")
	b.protected(http.MethodPost, "/projects/{projectId}/tasks", "createTask", "Create a task", "tasks",
		b.body("CreateTaskRequest"), http.StatusCreated, "TaskResponse")
	b.protected(http.MethodPatch, "/projects/{projectId}/tasks/{taskId}", "updateTask", "Replace a task", "tasks",
		b.body("UpdateTaskRequest"), http.StatusOK, "TaskResponse")
	b.protected(http.MethodDelete, "/projects/{projectId}/tasks/{taskId}", "deleteTask", "Delete a task", "tasks",
		nil, http.StatusOK, "MessageResponse")
	b.protected(http.MethodPatch, "/projects/{projectId}/tasks/{taskId}/status", "moveTask", "Move a task to another column", "tasks",
		b.body("MoveTaskRequest"), http.StatusOK, "TaskResponse")

	return &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:       "projectboard API",
			Description: "Projects, teams and kanban boards.",
			Version:     s.version,
		},
		Servers:    openapi3.Servers{{URL: "/api/v1"}},
		Paths:      b.paths,
		Components: &b.components,
	}
}

func (s *APIDocService) JSON() ([]byte, error) {
	return json.Marshal(s.Document())
}

// YAML goes through JSON so the output follows the json tags of openapi3.
func (s *APIDocService) YAML() ([]byte, error) {
	data, err := s.JSON()
	if err != nil {
		return nil, err
	}
	var tree any
	if err := json.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("failed to decode api description: %w", err)
	}
	out, err := yaml.Marshal(tree)
	if err != nil {
		return nil, fmt.Errorf("failed to encode api description as YAML: %w", err)
	}
	return out, nil
}

type docBuilder struct {
	paths      *openapi3.Paths
	components openapi3.Components
}

func newDocBuilder() *docBuilder {
	b := &docBuilder{paths: openapi3.NewPaths()}
	b.components.Schemas = componentSchemas()
	b.components.SecuritySchemes = openapi3.SecuritySchemes{
		bearerScheme: &openapi3.SecuritySchemeRef{Value: openapi3.NewJWTSecurityScheme()},
	}
	return b
}

func (b *docBuilder) ref(name string) *openapi3.SchemaRef {
	schema, ok := b.components.Schemas[name]
	if !ok {
		panic("apidoc: unknown schema " + name)
	}
	return &openapi3.SchemaRef{Ref: "#/components/schemas/" + name, Value: schema.Value}
}

func (b *docBuilder) body(name string) *openapi3.RequestBodyRef {
	return &openapi3.RequestBodyRef{
		Value: openapi3.NewRequestBody().WithRequired(true).WithJSONSchemaRef(b.ref(name)),
	}
}

func (b *docBuilder) public(method, path, id, summary, tag string, body *openapi3.RequestBodyRef, status int, result string) {
	op := b.operation(id, summary, tag, body, status, result)
	b.add(method, path, op)
}

func (b *docBuilder) protected(method, path, id, summary, tag string, body *openapi3.RequestBodyRef, status int, result string) {
	op := b.operation(id, summary, tag, body, status, result)
	op.Security = &openapi3.SecurityRequirements{openapi3.NewSecurityRequirement().Authenticate(bearerScheme)}
	op.Responses.Set("401", errorResponse("Missing or invalid access token"))
	b.add(method, path, op)
}

func (b *docBuilder) operation(id, summary, tag string, body *openapi3.RequestBodyRef, status int, result string) *openapi3.Operation {
	op := openapi3.NewOperation()
	op.OperationID = id
	op.Summary = summary
	op.Tags = []string{tag}
	op.RequestBody = body

	ok := openapi3.NewResponse().WithDescription(http.StatusText(status)).WithJSONSchemaRef(b.ref(result))
	op.Responses = openapi3.NewResponses(openapi3.WithStatus(status, &openapi3.ResponseRef{Value: ok}))
	if body != nil {
		op.Responses.Set("400", errorResponse("Invalid request"))
	}
	return op
}

func (b *docBuilder) add(method, path string, op *openapi3.Operation) {
	for _, name := range pathParams(path) {
		op.AddParameter(openapi3.NewPathParameter(name).WithSchema(openapi3.NewUUIDSchema()))
		if _, seen := op.Responses.Map()["404"]; !seen {
			op.Responses.Set("404", errorResponse("Not found or not visible to the caller"))
		}
	}

	item := b.paths.Value(path)
	if item == nil {
		item = &openapi3.PathItem{}
		b.paths.Set(path, item)
	}
	item.SetOperation(method, op)
}

// pathParams lists the {name} segments of path in order.
func pathParams(path string) []string {
	var names []string
	for i := 0; i < len(path); i++ {
		if path[i] != '{' {
			continue
		}
		for j := i + 1; j < len(path); j++ {
			if path[j] == '}' {
				names = append(names, path[i+1:j])
				i = j
				break
			}
		}
	}
	return names
}

func errorResponse(description string) *openapi3.ResponseRef {
	schema := openapi3.NewObjectSchema().
		WithProperty("error", openapi3.NewStringSchema()).
		WithProperty("message", openapi3.NewStringSchema())
	return &openapi3.ResponseRef{
		Value: openapi3.NewResponse().WithDescription(description).WithJSONSchema(schema),
	}
}

func enumSchema[T ~string](values ...T) *openapi3.Schema {
	enum := make([]any, len(values))
	for i, v := range values {
		enum[i] = string(v)
	}
	return openapi3.NewStringSchema().WithEnum(enum...)
}

func dateSchema() *openapi3.Schema {
	return openapi3.NewStringSchema().WithFormat("date")
}

func object(required []string, props map[string]*openapi3.Schema) *openapi3.Schema {
	s := openapi3.NewObjectSchema().WithProperties(props)
	if len(required) > 0 {
		s.Required = required
	}
	return s
}

func componentSchemas() openapi3.Schemas {
	projectStatus := enumSchema(models.ProjectActive, models.ProjectPaused, models.ProjectCompleted, models.ProjectCancelled)
	taskStatus := enumSchema(models.TaskStatuses...)
	priority := enumSchema(models.PriorityLow, models.PriorityMedium, models.PriorityHigh)
	role := enumSchema(models.RoleOwner, models.RoleDeveloper, models.RoleTester, models.RoleDesigner, models.RoleLead)
	str := openapi3.NewStringSchema
	id := openapi3.NewUUIDSchema

	user := object([]string{"id", "email", "name"}, map[string]*openapi3.Schema{
		"id":       id(),
		"email":    openapi3.NewStringSchema().WithFormat("email"),
		"name":     str(),
		"initials": str(),
	})
	member := object([]string{"id", "name", "email", "role"}, map[string]*openapi3.Schema{
		"id":         id(),
		"name":       str(),
		"email":      str(),
		"role":       role,
		"role_label": str(),
		"initials":   str(),
	})
	project := object([]string{"id", "name", "status", "start_date", "estimated_end_date", "owner_id"}, map[string]*openapi3.Schema{
		"id":                 id(),
		"name":               str(),
		"description":        str(),
		"status":             projectStatus,
		"status_label":       str(),
		"start_date":         dateSchema(),
		"estimated_end_date": dateSchema(),
		"actual_end_date":    dateSchema(),
		"owner_id":           id(),
		"owner_name":         str(),
		"is_owner":           openapi3.NewBoolSchema(),
		"members":            openapi3.NewArraySchema().WithItems(member),
		"member_count":       str(),
		"time_status":        enumSchema(deadline.OnTime, deadline.Urgent, deadline.DueToday, deadline.Overdue, deadline.Suppressed),
		"days_left":          openapi3.NewIntegerSchema(),
		"banner":             str(),
		"created_at":         openapi3.NewDateTimeSchema(),
		"updated_at":         openapi3.NewDateTimeSchema(),
	})
	task := object([]string{"id", "project_id", "title", "priority", "status"}, map[string]*openapi3.Schema{
		"id":             id(),
		"project_id":     id(),
		"title":          str(),
		"description":    str(),
		"priority":       priority,
		"priority_label": str(),
		"status":         taskStatus,
		"status_label":   str(),
		"assignee_id":    id(),
		"assignee_name":  str(),
		"created_at":     openapi3.NewDateTimeSchema(),
		"updated_at":     openapi3.NewDateTimeSchema(),
	})
	column := object([]string{"status", "count", "tasks"}, map[string]*openapi3.Schema{
		"status": taskStatus,
		"label":  str(),
		"count":  openapi3.NewIntegerSchema(),
		"tasks":  openapi3.NewArraySchema().WithItems(task),
	})
	tokens := map[string]*openapi3.Schema{
		"access_token":  str(),
		"refresh_token": str(),
		"expires_in":    openapi3.NewInt64Schema(),
		"user":          user,
	}

	schemas := map[string]*openapi3.Schema{
		"RegisterRequest": object([]string{"name", "email", "password"}, map[string]*openapi3.Schema{
			"name": str(), "email": str(), "password": openapi3.NewStringSchema().WithFormat("password"),
		}),
		"LoginRequest": object([]string{"email", "password"}, map[string]*openapi3.Schema{
			"email": str(), "password": openapi3.NewStringSchema().WithFormat("password"),
		}),
		"RefreshTokenRequest": object([]string{"refresh_token"}, map[string]*openapi3.Schema{
			"refresh_token": str(),
		}),
		"AuthResponse":      object([]string{"access_token", "refresh_token", "user"}, tokens),
		"MessageResponse":   object([]string{"message"}, map[string]*openapi3.Schema{"message": str()}),
		"HealthResponse":    object([]string{"status"}, map[string]*openapi3.Schema{"status": str()}),
		"UserResponse":      user,
		"UpdateUserRequest": object([]string{"name"}, map[string]*openapi3.Schema{"name": str()}),
		"CreateProjectRequest": object([]string{"name", "start_date", "estimated_end_date"}, map[string]*openapi3.Schema{
			"name":               str(),
			"description":        str(),
			"status":             projectStatus,
			"start_date":         dateSchema(),
			"estimated_end_date": dateSchema(),
			"actual_end_date":    dateSchema(),
		}),
		"UpdateProjectRequest": object([]string{"name", "status", "start_date", "estimated_end_date"}, map[string]*openapi3.Schema{
			"name":               str(),
			"description":        str(),
			"status":             projectStatus,
			"start_date":         dateSchema(),
			"estimated_end_date": dateSchema(),
			"actual_end_date":    dateSchema(),
		}),
		"ProjectResponse": project,
		"ProjectList":     openapi3.NewArraySchema().WithItems(project),
		"AddMemberRequest": object([]string{"email"}, map[string]*openapi3.Schema{
			"email": str(), "role": role,
		}),
		"ChangeRoleRequest": object([]string{"role"}, map[string]*openapi3.Schema{"role": role}),
		"MemberList":        openapi3.NewArraySchema().WithItems(member),
		"CreateTaskRequest": object([]string{"title"}, map[string]*openapi3.Schema{
			"title": str(), "description": str(), "priority": priority, "assignee_id": id(),
		}),
		"UpdateTaskRequest": object([]string{"title", "priority"}, map[string]*openapi3.Schema{
			"title": str(), "description": str(), "priority": priority, "assignee_id": id(), "project_id": id(),
		}),
		"MoveTaskRequest": object([]string{"status"}, map[string]*openapi3.Schema{"status": taskStatus}),
		"TaskResponse":    task,
		"BoardResponse": object([]string{"project_id", "total", "columns"}, map[string]*openapi3.Schema{
			"project_id": id(),
			"total":      openapi3.NewIntegerSchema(),
			"columns":    openapi3.NewArraySchema().WithItems(column),
		}),
	}

	out := make(openapi3.Schemas, len(schemas))
	for name, schema := range schemas {
		out[name] = schema.NewRef()
	}
	return out
}
