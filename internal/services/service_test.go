package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/taskdeck/taskdeck/internal/authz"
	"github.com/taskdeck/taskdeck/internal/database/testutil"
	"github.com/taskdeck/taskdeck/internal/models"
	"github.com/taskdeck/taskdeck/pkg/crypto"
)

type serviceFixture struct {
	db    *gorm.DB
	authz *authz.Checker
	audit *AuditService
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()

	db := testutil.MustOpenTestDB(t, testutil.WithSeedData())

	checker, err := authz.NewChecker(db)
	require.NoError(t, err)

	audit, err := NewAuditService(db)
	require.NoError(t, err)

	return &serviceFixture{db: db, authz: checker, audit: audit}
}

// createUser inserts a user directly, bypassing the service policy, so tests
// can arrange non-admin callers without an admin round trip.
func (f *serviceFixture) createUser(t *testing.T, email string, role models.Role) *models.User {
	t.Helper()

	hash, err := crypto.HashPassword("secret", bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		Email:     email,
		Firstname: "Test",
		Surname:   "User",
		Password:  hash,
		Role:      role,
	}
	require.NoError(t, f.db.Create(user).Error)
	return user
}

func (f *serviceFixture) createTeam(t *testing.T, name string) *models.Team {
	t.Helper()

	team := &models.Team{Name: name}
	require.NoError(t, f.db.Create(team).Error)
	return team
}

func (f *serviceFixture) addMember(t *testing.T, team *models.Team, user *models.User) {
	t.Helper()
	require.NoError(t, f.db.Model(team).Association("Users").Append(user))
}

func testContext() context.Context {
	return context.Background()
}
