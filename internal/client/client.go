// Package client talks to the projectboard HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dimitrije/projectboard/pkg/dto"
	"github.com/google/uuid"
)

// DefaultBaseURL is used when PMCTL_API_URL is unset.
const DefaultBaseURL = "http://localhost:8080/api/v1"

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.Status, http.StatusText(e.Status), e.Message)
}

// IsUnauthorized reports whether err is a 401 from the server.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// WithToken returns a copy of c that authenticates as the bearer of token.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}

func (c *Client) Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error) {
	var out dto.AuthResponse
	return &out, c.do(ctx, http.MethodPost, "/auth/register", req, &out)
}

func (c *Client) Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error) {
	var out dto.AuthResponse
	return &out, c.do(ctx, http.MethodPost, "/auth/login", req, &out)
}

func (c *Client) Refresh(ctx context.Context, refreshToken string) (*dto.AuthResponse, error) {
	var out dto.AuthResponse
	return &out, c.do(ctx, http.MethodPost, "/auth/refresh", dto.RefreshTokenRequest{RefreshToken: refreshToken}, &out)
}

func (c *Client) Logout(ctx context.Context, refreshToken string) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", dto.RefreshTokenRequest{RefreshToken: refreshToken}, nil)
}

func (c *Client) Me(ctx context.Context) (*dto.UserResponse, error) {
	var out dto.UserResponse
	return &out, c.do(ctx, http.MethodGet, "/users/me", nil, &out)
}

func (c *Client) Rename(ctx context.Context, name string) (*dto.UserResponse, error) {
	var out dto.UserResponse
	return &out, c.do(ctx, http.MethodPatch, "/users/me", dto.UpdateUserRequest{Name: name}, &out)
}

func (c *Client) Projects(ctx context.Context) ([]dto.ProjectResponse, error) {
	var out []dto.ProjectResponse
	return out, c.do(ctx, http.MethodGet, "/projects", nil, &out)
}

func (c *Client) Project(ctx context.Context, id uuid.UUID) (*dto.ProjectResponse, error) {
	var out dto.ProjectResponse
	return &out, c.do(ctx, http.MethodGet, "/projects/"+id.String(), nil, &out)
}

func (c *Client) CreateProject(ctx context.Context, req dto.CreateProjectRequest) (*dto.ProjectResponse, error) {
	var out dto.ProjectResponse
	return &out, c.do(ctx, http.MethodPost, "/projects", req, &out)
}

func (c *Client) UpdateProject(ctx context.Context, id uuid.UUID, req dto.UpdateProjectRequest) (*dto.ProjectResponse, error) {
	var out dto.ProjectResponse
	return &out, c.do(ctx, http.MethodPatch, "/projects/"+id.String(), req, &out)
}

func (c *Client) AddMember(ctx context.Context, projectID uuid.UUID, req dto.AddMemberRequest) ([]dto.MemberResponse, error) {
	var out []dto.MemberResponse
	return out, c.do(ctx, http.MethodPost, "/projects/"+projectID.String()+"/members", req, &out)
}

func (c *Client) ChangeMemberRole(ctx context.Context, projectID, memberID uuid.UUID, role string) ([]dto.MemberResponse, error) {
	var out []dto.MemberResponse
	path := "/projects/" + projectID.String() + "/members/" + memberID.String()
	return out, c.do(ctx, http.MethodPatch, path, dto.ChangeRoleRequest{Role: role}, &out)
}

func (c *Client) RemoveMember(ctx context.Context, projectID, memberID uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/projects/"+projectID.String()+"/members/"+memberID.String(), nil, nil)
}

func (c *Client) Board(ctx context.Context, projectID uuid.UUID) (*dto.BoardResponse, error) {
	var out dto.BoardResponse
	return &out, c.do(ctx, http.MethodGet, "/projects/"+projectID.String()+"/tasks", nil, &out)
}

func (c *Client) CreateTask(ctx context.Context, projectID uuid.UUID, req dto.CreateTaskRequest) (*dto.TaskResponse, error) {
	var out dto.TaskResponse
	return &out, c.do(ctx, http.MethodPost, "/projects/"+projectID.String()+"/tasks", req, &out)
}

func (c *Client) MoveTask(ctx context.Context, projectID, taskID uuid.UUID, status string) (*dto.TaskResponse, error) {
	var out dto.TaskResponse
	path := "/projects/" + projectID.String() + "/tasks/" + taskID.String() + "/status"
	return &out, c.do(ctx, http.MethodPatch, path, dto.MoveTaskRequest{Status: status}, &out)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Status: resp.StatusCode, Message: errorMessage(data)}
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// errorMessage pulls the human text out of an error body; the server answers
// with either {"error": ...} or {"code": ..., "message": ...}.
func errorMessage(data []byte) string {
	var body map[string]any
	if err := json.Unmarshal(data, &body); err == nil {
		for _, key := range []string{"message", "error"} {
			if s, ok := body[key].(string); ok && s != "" {
				return s
			}
		}
	}
	return strings.TrimSpace(string(data))
}
