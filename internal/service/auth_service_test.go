package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/evolvehq/perf-review-api/internal/models"
	appErrors "github.com/evolvehq/perf-review-api/pkg/errors"
)

func authConfig() AuthConfig {
	return AuthConfig{
		AccessTokenSecret:  "test-secret",
		AccessTokenExpiry:  15 * time.Minute,
		RefreshTokenExpiry: 24 * time.Hour,
		Issuer:             "perf-review-api",
	}
}

func authFixtures(t *testing.T) (*AuthService, *mockUserRepo) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)

	manager := models.User{ID: "mgr-1", Email: "mgr@example.com", PasswordHash: string(hash), FullName: "Manager", Role: models.RoleManager, Active: true}
	employee := models.User{ID: "emp-1", Email: "emp@example.com", PasswordHash: string(hash), FullName: "Employee", Role: models.RoleEmployee, Active: true}
	users := newMockUserRepo(manager, employee)
	return NewAuthService(users, nil, nil, authConfig()), users
}

func TestLoginIssuesValidTokenPair(t *testing.T) {
	svc, _ := authFixtures(t)

	resp, err := svc.Login(context.Background(), models.LoginRequest{Email: "emp@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "emp-1", resp.User.ID)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "emp-1", claims.UserID)
	assert.Equal(t, models.RoleEmployee, claims.Role)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	svc, _ := authFixtures(t)

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "emp@example.com", Password: "wrong"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestLoginRejectsInactiveAccount(t *testing.T) {
	svc, users := authFixtures(t)
	u := users.users["emp-1"]
	u.Active = false
	users.users["emp-1"] = u

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "emp@example.com", Password: "secret123"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInactiveAccount.Code, appErrors.FromError(err).Code)
}

func TestRefreshRotatesToken(t *testing.T) {
	svc, _ := authFixtures(t)

	login, err := svc.Login(context.Background(), models.LoginRequest{Email: "emp@example.com", Password: "secret123"})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(context.Background(), models.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)

	// The used token no longer works.
	_, err = svc.RefreshToken(context.Background(), models.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestRegisterAssignsManager(t *testing.T) {
	svc, _ := authFixtures(t)
	managerID := "mgr-1"

	user, err := svc.Register(context.Background(), models.RegisterRequest{
		Email:     "new@example.com",
		Password:  "secret123",
		FullName:  "New Employee",
		ManagerID: &managerID,
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleEmployee, user.Role)
	require.NotNil(t, user.ManagerID)
	assert.Equal(t, "mgr-1", *user.ManagerID)
}

func TestRegisterRejectsNonManagerReference(t *testing.T) {
	svc, _ := authFixtures(t)
	employeeID := "emp-1"

	_, err := svc.Register(context.Background(), models.RegisterRequest{
		Email:     "new@example.com",
		Password:  "secret123",
		FullName:  "New Employee",
		ManagerID: &employeeID,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc, _ := authFixtures(t)

	_, err := svc.Register(context.Background(), models.RegisterRequest{
		Email:    "emp@example.com",
		Password: "secret123",
		FullName: "Duplicate",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestChangePasswordRevokesSessions(t *testing.T) {
	svc, users := authFixtures(t)

	login, err := svc.Login(context.Background(), models.LoginRequest{Email: "emp@example.com", Password: "secret123"})
	require.NoError(t, err)

	err = svc.ChangePassword(context.Background(), "emp-1", models.ChangePasswordRequest{
		OldPassword: "secret123",
		NewPassword: "changed456",
	})
	require.NoError(t, err)

	stored := users.tokens[login.RefreshToken]
	assert.NotNil(t, stored.RevokedAt)
}
