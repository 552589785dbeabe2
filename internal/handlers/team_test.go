package handlers

import (
	"net/http"
	"testing"

	"github.com/dimitrije/projectboard/internal/middleware"
	"github.com/dimitrije/projectboard/internal/models"
	"github.com/dimitrije/projectboard/internal/services"
	"github.com/dimitrije/projectboard/pkg/dto"
	"github.com/dimitrije/projectboard/tests/testutil"
	"github.com/m1z23r/drift/pkg/drift"
	driftmw "github.com/m1z23r/drift/pkg/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type teamTest struct {
	teams    *testutil.MockTeamService
	projects *testutil.MockProjectService
	jwtSvc   *services.JWTService
	app      http.Handler
}

func setupTeamTest() *teamTest {
	tt := &teamTest{
		teams:    new(testutil.MockTeamService),
		projects: new(testutil.MockProjectService),
		jwtSvc:   testutil.TestJWTService(),
	}
	handler := NewTeamHandler(tt.teams, tt.projects, discardLogger())

	app := drift.New()
	app.Use(driftmw.BodyParser())
	app.Use(middleware.Auth(tt.jwtSvc))
	app.Get("/projects/:projectId/members", handler.ListMembers)
	app.Post("/projects/:projectId/members", handler.AddMember)
	app.Patch("/projects/:projectId/members/:memberId", handler.ChangeRole)
	app.Delete("/projects/:projectId/members/:memberId", handler.RemoveMember)
	tt.app = app
	return tt
}

func TestTeamHandler_ListMembers(t *testing.T) {
	tt := setupTeamTest()
	owner := testUser("Olga Owner")
	dev := testUser("Dan Dev")
	project := projectWith(owner, dev)
	tt.projects.On("Get", mock.Anything, project.ID).Return(project, nil)
	tt.teams.On("ListMembers", mock.Anything, project.ID).Return(project.TeamMembers, nil)

	rec := testutil.Request(t, tt.app, http.MethodGet, "/projects/"+project.ID.String()+"/members",
		testutil.GenerateTestToken(t, dev), nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var response []dto.MemberResponse
	testutil.DecodeJSON(t, rec, &response)
	require.Len(t, response, 2)
	assert.Equal(t, "owner", response[0].Role)
	assert.Equal(t, "OO", response[0].Initials)
	assert.Equal(t, "developer", response[1].Role)
	assert.Equal(t, "Developer", response[1].RoleLabel)
}

func TestTeamHandler_ListMembers_NonMember(t *testing.T) {
	tt := setupTeamTest()
	owner := testUser("Olga")
	project := projectWith(owner)
	tt.projects.On("Get", mock.Anything, project.ID).Return(project, nil)

	rec := testutil.Request(t, tt.app, http.MethodGet, "/projects/"+project.ID.String()+"/members",
		testutil.GenerateTestToken(t, testUser("Eve")), nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	tt.teams.AssertNotCalled(t, "ListMembers", mock.Anything, mock.Anything)
}

func TestTeamHandler_AddMember(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{"added", nil, http.StatusCreated, "dan@example.com"},
		{"duplicate", services.ErrDuplicateMember, http.StatusConflict, "DUPLICATE_MEMBER"},
		{"unknown email", services.ErrNotFound, http.StatusNotFound, "user not found"},
		{"not owner", services.ErrForbidden, http.StatusForbidden, "only the project owner"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tt := setupTeamTest()
			owner := testUser("Olga")
			dev := testUser("Dan")
			dev.Email = "dan@example.com"
			project := projectWith(owner, dev)

			var result *models.Project
			if tc.err == nil {
				result = project
			}
			tt.teams.On("AddMember", mock.Anything, project.ID, owner.ID, "dan@example.com", "tester").Return(result, tc.err)

			rec := testutil.Request(t, tt.app, http.MethodPost, "/projects/"+project.ID.String()+"/members",
				testutil.GenerateTestToken(t, owner), dto.AddMemberRequest{Email: "dan@example.com", Role: "tester"})

			assert.Equal(t, tc.status, rec.Code)
			assert.Contains(t, rec.Body.String(), tc.body)
		})
	}
}

func TestTeamHandler_AddMember_EmailRequired(t *testing.T) {
	tt := setupTeamTest()
	owner := testUser("Olga")
	project := projectWith(owner)

	rec := testutil.Request(t, tt.app, http.MethodPost, "/projects/"+project.ID.String()+"/members",
		testutil.GenerateTestToken(t, owner), dto.AddMemberRequest{})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "email is required")
}

func TestTeamHandler_ChangeRole(t *testing.T) {
	tt := setupTeamTest()
	owner := testUser("Olga")
	dev := testUser("Dan")
	project := projectWith(owner, dev)
	project.TeamMembers[1].Role = models.RoleLead
	tt.teams.On("ChangeMemberRole", mock.Anything, project.ID, owner.ID, dev.ID, "lead").Return(project, nil)
	tt.teams.On("ChangeMemberRole", mock.Anything, project.ID, owner.ID, owner.ID, "lead").
		Return(nil, services.ErrCannotChangeOwnerRole)

	token := testutil.GenerateTestToken(t, owner)
	rec := testutil.Request(t, tt.app, http.MethodPatch, "/projects/"+project.ID.String()+"/members/"+dev.ID.String(),
		token, dto.ChangeRoleRequest{Role: "lead"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"role":"lead"`)

	rec = testutil.Request(t, tt.app, http.MethodPatch, "/projects/"+project.ID.String()+"/members/"+owner.ID.String(),
		token, dto.ChangeRoleRequest{Role: "lead"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTeamHandler_RemoveMember(t *testing.T) {
	tt := setupTeamTest()
	owner := testUser("Olga")
	dev := testUser("Dan")
	project := projectWith(owner)
	tt.teams.On("RemoveMember", mock.Anything, project.ID, owner.ID, dev.ID).Return(project, nil)
	tt.teams.On("RemoveMember", mock.Anything, project.ID, owner.ID, owner.ID).Return(nil, services.ErrCannotRemoveOwner)

	token := testutil.GenerateTestToken(t, owner)
	rec := testutil.Request(t, tt.app, http.MethodDelete, "/projects/"+project.ID.String()+"/members/"+dev.ID.String(), token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "member removed")

	rec = testutil.Request(t, tt.app, http.MethodDelete, "/projects/"+project.ID.String()+"/members/"+owner.ID.String(), token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = testutil.Request(t, tt.app, http.MethodDelete, "/projects/"+project.ID.String()+"/members/nope", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid member ID")
}
