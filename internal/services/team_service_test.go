package services

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/taskdeck/taskdeck/internal/database/testutil"
	"github.com/taskdeck/taskdeck/internal/models"
	apperrors "github.com/taskdeck/taskdeck/pkg/errors"
)

func newTeamService(t *testing.T, f *serviceFixture) *TeamService {
	t.Helper()

	svc, err := NewTeamService(f.db, f.authz, f.audit)
	require.NoError(t, err)
	return svc
}

func TestTeamServiceCreate(t *testing.T) {
	f := newServiceFixture(t)
	svc := newTeamService(t, f)

	team, err := svc.Create(testContext(), testutil.DefaultAdminEmail, "Platform")
	require.NoError(t, err)
	require.Equal(t, "Platform", team.Name)
	require.NotZero(t, team.ID)

	_, err = svc.Create(testContext(), testutil.DefaultAdminEmail, "Platform")
	require.ErrorIs(t, err, ErrDuplicateTeamName)

	f.createUser(t, "user@example.com", models.RoleUser)
	_, err = svc.Create(testContext(), "user@example.com", "Backend")
	require.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestTeamServiceRename(t *testing.T) {
	f := newServiceFixture(t)
	svc := newTeamService(t, f)
	team := f.createTeam(t, "Platform")
	f.createTeam(t, "Backend")

	renamed, err := svc.Rename(testContext(), testutil.DefaultAdminEmail, team.ID, "Infra")
	require.NoError(t, err)
	require.Equal(t, "Infra", renamed.Name)

	_, err = svc.Rename(testContext(), testutil.DefaultAdminEmail, team.ID, "Backend")
	require.ErrorIs(t, err, ErrDuplicateTeamName)

	_, err = svc.Rename(testContext(), testutil.DefaultAdminEmail, 9999, "Ghost")
	require.ErrorIs(t, err, ErrTeamNotFound)
}

func TestTeamServiceAddOrRemoveUsers(t *testing.T) {
	f := newServiceFixture(t)
	svc := newTeamService(t, f)
	team := f.createTeam(t, "Platform")
	f.createUser(t, "alice@example.com", models.RoleUser)
	f.createUser(t, "bob@example.com", models.RoleUser)

	view, err := svc.AddOrRemoveUsers(testContext(), testutil.DefaultAdminEmail, team.ID,
		[]string{"alice@example.com", "bob@example.com"}, true)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"alice@example.com", "bob@example.com"}, view.MemberEmails)

	// Adding an existing member again changes nothing.
	view, err = svc.AddOrRemoveUsers(testContext(), testutil.DefaultAdminEmail, team.ID,
		[]string{"alice@example.com"}, true)
	require.NoError(t, err)
	require.Len(t, view.MemberEmails, 2)

	view, err = svc.AddOrRemoveUsers(testContext(), testutil.DefaultAdminEmail, team.ID,
		[]string{"alice@example.com"}, false)
	require.NoError(t, err)
	require.Equal(t, []string{"bob@example.com"}, view.MemberEmails)

	// Removing an absent member is also a no-op.
	view, err = svc.AddOrRemoveUsers(testContext(), testutil.DefaultAdminEmail, team.ID,
		[]string{"alice@example.com"}, false)
	require.NoError(t, err)
	require.Equal(t, []string{"bob@example.com"}, view.MemberEmails)

	// A reference to any unknown user fails the whole edit.
	_, err = svc.AddOrRemoveUsers(testContext(), testutil.DefaultAdminEmail, team.ID,
		[]string{"bob@example.com", "ghost@example.com"}, true)
	require.ErrorIs(t, err, ErrTeamMembersNotFound)

	_, err = svc.AddOrRemoveUsers(testContext(), testutil.DefaultAdminEmail, 9999,
		[]string{"bob@example.com"}, true)
	require.ErrorIs(t, err, ErrTeamMembersNotFound)
}

func TestTeamServiceVisibility(t *testing.T) {
	f := newServiceFixture(t)
	svc := newTeamService(t, f)
	platform := f.createTeam(t, "Platform")
	backend := f.createTeam(t, "Backend")
	alice := f.createUser(t, "alice@example.com", models.RoleUser)
	f.addMember(t, platform, alice)

	// Admin lists every team.
	views, err := svc.List(testContext(), testutil.DefaultAdminEmail)
	require.NoError(t, err)
	require.Len(t, views, 2)

	// A user only lists their own teams.
	views, err = svc.List(testContext(), "alice@example.com")
	require.NoError(t, err)
	require.Len(t, views, 1)
	require.Equal(t, platform.ID, views[0].ID)

	// A team the user does not belong to reads as absent.
	_, err = svc.GetByID(testContext(), "alice@example.com", backend.ID)
	require.ErrorIs(t, err, ErrTeamNotFound)

	view, err := svc.GetByID(testContext(), "alice@example.com", platform.ID)
	require.NoError(t, err)
	require.Equal(t, []string{"alice@example.com"}, view.MemberEmails)
}

func TestTeamServiceDeleteCascades(t *testing.T) {
	f := newServiceFixture(t)
	svc := newTeamService(t, f)
	team := f.createTeam(t, "Platform")
	alice := f.createUser(t, "alice@example.com", models.RoleUser)
	f.addMember(t, team, alice)

	task := &models.Task{Name: "Deploy"}
	require.NoError(t, f.db.Create(task).Error)
	require.NoError(t, f.db.Model(team).Association("Tasks").Append(task))

	require.NoError(t, svc.Delete(testContext(), testutil.DefaultAdminEmail, team.ID))

	var count int64
	require.NoError(t, f.db.Table("team_members").Where("team_id = ?", team.ID).Count(&count).Error)
	require.Zero(t, count)
	require.NoError(t, f.db.Table("team_tasks").Where("team_id = ?", team.ID).Count(&count).Error)
	require.Zero(t, count)

	// The user and task themselves survive the team.
	require.NoError(t, f.db.Model(&models.User{}).Where("email = ?", alice.Email).Count(&count).Error)
	require.EqualValues(t, 1, count)
	require.NoError(t, f.db.Model(&models.Task{}).Where("id = ?", task.ID).Count(&count).Error)
	require.EqualValues(t, 1, count)

	require.ErrorIs(t, svc.Delete(testContext(), testutil.DefaultAdminEmail, team.ID), ErrTeamNotFound)
}
