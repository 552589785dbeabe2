package services

import (
	"context"
	"testing"
	"time"

	"github.com/dimitrije/projectboard/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTeamService(t *testing.T) (*TeamService, pgxmock.PgxPoolIface) {
	t.Helper()
	db, mock := setupMockDB(t)
	return NewTeamService(db, discardLogger()), mock
}

func expectLockedProject(t *testing.T, mock pgxmock.PgxPoolIface, p *models.Project) {
	t.Helper()
	mock.ExpectQuery(`SELECT .+ FROM projects WHERE id = \$1\s+FOR UPDATE`).
		WithArgs(p.ID).
		WillReturnRows(addProject(t, projectRows(), p))
}

func TestTeamService_AddMember(t *testing.T) {
	svc, mock := setupTeamService(t)
	now := time.Now()
	ada := member("ada", models.RoleOwner)
	project := newTeamProject(ada)
	bobID := uuid.New()

	mock.ExpectBegin()
	expectLockedProject(t, mock, project)
	mock.ExpectQuery(`SELECT .+ FROM users WHERE email`).
		WithArgs("bob@example.com").
		WillReturnRows(userRows().AddRow(bobID, "bob@example.com", "Bob", now, now))

	wantMembers := []models.TeamMember{
		project.TeamMembers[0],
		{ID: bobID, Name: "Bob", Email: "bob@example.com", Role: models.RoleTester},
	}
	mock.ExpectExec(`UPDATE projects SET team_member_ids`).
		WithArgs([]uuid.UUID{ada.ID, bobID}, encodedMembers(t, wantMembers), project.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	got, err := svc.AddMember(context.Background(), project.ID, ada.ID, " bob@example.com ", models.RoleTester)

	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{ada.ID, bobID}, got.TeamMemberIDs)
	assert.Equal(t, wantMembers, got.TeamMembers)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeamService_AddMember_DefaultRole(t *testing.T) {
	svc, mock := setupTeamService(t)
	now := time.Now()
	ada := member("ada", models.RoleOwner)
	project := newTeamProject(ada)
	bobID := uuid.New()

	mock.ExpectBegin()
	expectLockedProject(t, mock, project)
	mock.ExpectQuery(`SELECT .+ FROM users WHERE email`).
		WithArgs("bob@example.com").
		WillReturnRows(userRows().AddRow(bobID, "bob@example.com", "Bob", now, now))
	mock.ExpectExec(`UPDATE projects SET team_member_ids`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), project.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	got, err := svc.AddMember(context.Background(), project.ID, ada.ID, "bob@example.com", "")

	require.NoError(t, err)
	assert.Equal(t, models.RoleDeveloper, got.TeamMembers[1].Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeamService_AddMember_Duplicate(t *testing.T) {
	svc, mock := setupTeamService(t)
	now := time.Now()
	ada := member("ada", models.RoleOwner)
	bob := member("bob", models.RoleDeveloper)
	project := newTeamProject(ada, bob)

	mock.ExpectBegin()
	expectLockedProject(t, mock, project)
	mock.ExpectQuery(`SELECT .+ FROM users WHERE email`).
		WithArgs(bob.Email).
		WillReturnRows(userRows().AddRow(bob.ID, bob.Email, bob.Name, now, now))
	mock.ExpectRollback()

	_, err := svc.AddMember(context.Background(), project.ID, ada.ID, bob.Email, models.RoleTester)

	assert.ErrorIs(t, err, ErrDuplicateMember)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeamService_AddMember_UnknownEmail(t *testing.T) {
	svc, mock := setupTeamService(t)
	ada := member("ada", models.RoleOwner)
	project := newTeamProject(ada)

	mock.ExpectBegin()
	expectLockedProject(t, mock, project)
	mock.ExpectQuery(`SELECT .+ FROM users WHERE email`).
		WithArgs("nobody@example.com").
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectRollback()

	_, err := svc.AddMember(context.Background(), project.ID, ada.ID, "nobody@example.com", "")

	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeamService_AddMember_NotOwner(t *testing.T) {
	svc, mock := setupTeamService(t)
	ada := member("ada", models.RoleOwner)
	bob := member("bob", models.RoleDeveloper)
	project := newTeamProject(ada, bob)

	mock.ExpectBegin()
	expectLockedProject(t, mock, project)
	mock.ExpectRollback()

	_, err := svc.AddMember(context.Background(), project.ID, bob.ID, "carol@example.com", "")

	assert.ErrorIs(t, err, ErrForbidden)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeamService_AddMember_InvalidRole(t *testing.T) {
	svc, mock := setupTeamService(t)

	_, err := svc.AddMember(context.Background(), uuid.New(), uuid.New(), "bob@example.com", models.RoleOwner)

	assert.ErrorIs(t, err, ErrValidation)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeamService_ChangeMemberRole(t *testing.T) {
	svc, mock := setupTeamService(t)
	ada := member("ada", models.RoleOwner)
	bob := member("bob", models.RoleDeveloper)
	project := newTeamProject(ada, bob)

	mock.ExpectBegin()
	expectLockedProject(t, mock, project)
	want := []models.TeamMember{project.TeamMembers[0], bob}
	want[1].Role = models.RoleLead
	mock.ExpectExec(`UPDATE projects SET team_member_ids`).
		WithArgs(project.TeamMemberIDs, encodedMembers(t, want), project.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	got, err := svc.ChangeMemberRole(context.Background(), project.ID, ada.ID, bob.ID, models.RoleLead)

	require.NoError(t, err)
	assert.Equal(t, models.RoleLead, got.TeamMembers[1].Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeamService_ChangeMemberRole_Owner(t *testing.T) {
	svc, mock := setupTeamService(t)
	ada := member("ada", models.RoleOwner)
	project := newTeamProject(ada)

	mock.ExpectBegin()
	expectLockedProject(t, mock, project)
	mock.ExpectRollback()

	_, err := svc.ChangeMemberRole(context.Background(), project.ID, ada.ID, ada.ID, models.RoleLead)

	assert.ErrorIs(t, err, ErrCannotChangeOwnerRole)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeamService_ChangeMemberRole_UnknownMember(t *testing.T) {
	svc, mock := setupTeamService(t)
	ada := member("ada", models.RoleOwner)
	project := newTeamProject(ada)

	mock.ExpectBegin()
	expectLockedProject(t, mock, project)
	mock.ExpectRollback()

	_, err := svc.ChangeMemberRole(context.Background(), project.ID, ada.ID, uuid.New(), models.RoleLead)

	assert.ErrorIs(t, err, ErrMemberNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeamService_RemoveMember_UnassignsTasks(t *testing.T) {
	svc, mock := setupTeamService(t)
	ada := member("ada", models.RoleOwner)
	bob := member("bob", models.RoleDeveloper)
	carol := member("carol", models.RoleDesigner)
	project := newTeamProject(ada, bob, carol)

	mock.ExpectBegin()
	expectLockedProject(t, mock, project)
	want := []models.TeamMember{project.TeamMembers[0], carol}
	mock.ExpectExec(`UPDATE projects SET team_member_ids`).
		WithArgs([]uuid.UUID{ada.ID, carol.ID}, encodedMembers(t, want), project.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(`UPDATE tasks SET assignee_id = NULL, assignee_name = NULL`).
		WithArgs(project.ID, bob.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 2))
	mock.ExpectCommit()

	got, err := svc.RemoveMember(context.Background(), project.ID, ada.ID, bob.ID)

	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{ada.ID, carol.ID}, got.TeamMemberIDs)
	assert.Len(t, got.TeamMembers, 2)
	assert.False(t, got.HasMember(bob.ID))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeamService_RemoveMember_RollsBackWhenUnassignFails(t *testing.T) {
	svc, mock := setupTeamService(t)
	ada := member("ada", models.RoleOwner)
	bob := member("bob", models.RoleDeveloper)
	project := newTeamProject(ada, bob)

	mock.ExpectBegin()
	expectLockedProject(t, mock, project)
	mock.ExpectExec(`UPDATE projects SET team_member_ids`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), project.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(`UPDATE tasks SET assignee_id = NULL`).
		WithArgs(project.ID, bob.ID).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	_, err := svc.RemoveMember(context.Background(), project.ID, ada.ID, bob.ID)

	assert.ErrorIs(t, err, ErrRemoteOperation)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeamService_RemoveMember_Owner(t *testing.T) {
	svc, mock := setupTeamService(t)
	ada := member("ada", models.RoleOwner)
	project := newTeamProject(ada)

	mock.ExpectBegin()
	expectLockedProject(t, mock, project)
	mock.ExpectRollback()

	_, err := svc.RemoveMember(context.Background(), project.ID, ada.ID, ada.ID)

	assert.ErrorIs(t, err, ErrCannotRemoveOwner)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeamService_RemoveMember_Unknown(t *testing.T) {
	svc, mock := setupTeamService(t)
	ada := member("ada", models.RoleOwner)
	project := newTeamProject(ada)

	mock.ExpectBegin()
	expectLockedProject(t, mock, project)
	mock.ExpectRollback()

	_, err := svc.RemoveMember(context.Background(), project.ID, ada.ID, uuid.New())

	assert.ErrorIs(t, err, ErrMemberNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeamService_ListMembers_OwnerFirst(t *testing.T) {
	svc, mock := setupTeamService(t)
	ada := member("ada", models.RoleOwner)
	bob := member("bob", "")
	project := newTeamProject(ada, bob)
	project.TeamMembers[0], project.TeamMembers[1] = project.TeamMembers[1], project.TeamMembers[0]

	mock.ExpectQuery(`SELECT .+ FROM projects WHERE id`).
		WithArgs(project.ID).
		WillReturnRows(addProject(t, projectRows(), project))

	members, err := svc.ListMembers(context.Background(), project.ID)

	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, ada.ID, members[0].ID)
	assert.Equal(t, models.RoleOwner, members[0].Role)
	assert.Equal(t, models.RoleDeveloper, members[1].Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}
