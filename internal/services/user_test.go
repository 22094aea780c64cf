package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_RegisterAndLogin(t *testing.T) {
	svc := NewUserService(newMemUserStore(), "test-secret")
	ctx := context.Background()

	member, err := svc.Register(ctx, "  Alice@Example.com ", "supersecret", "Alice")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", member.Email)
	assert.NotEqual(t, "supersecret", member.PasswordHash)
	assert.True(t, member.Active)

	loggedIn, token, err := svc.Login(ctx, "alice@example.com", "supersecret")
	require.NoError(t, err)
	assert.Equal(t, member.ID, loggedIn.ID)
	assert.NotEmpty(t, token)

	userID, err := svc.ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, member.ID, userID)
}

func TestUserService_RegisterValidation(t *testing.T) {
	svc := NewUserService(newMemUserStore(), "test-secret")
	ctx := context.Background()

	_, err := svc.Register(ctx, "", "supersecret", "Alice")
	require.Error(t, err)

	_, err = svc.Register(ctx, "alice@example.com", "short", "Alice")
	require.Error(t, err)

	_, err = svc.Register(ctx, "alice@example.com", "supersecret", "Alice")
	require.NoError(t, err)
	_, err = svc.Register(ctx, "ALICE@example.com", "supersecret", "Alice Again")
	require.Error(t, err, "email comparison is case-insensitive")
}

func TestUserService_LoginRejectsBadCredentials(t *testing.T) {
	users := newMemUserStore()
	svc := NewUserService(users, "test-secret")
	ctx := context.Background()

	member, err := svc.Register(ctx, "alice@example.com", "supersecret", "Alice")
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "alice@example.com", "wrongpassword")
	require.Error(t, err)

	_, _, err = svc.Login(ctx, "nobody@example.com", "supersecret")
	require.Error(t, err)

	require.NoError(t, svc.Deactivate(ctx, member.ID))
	_, _, err = svc.Login(ctx, "alice@example.com", "supersecret")
	require.Error(t, err, "deactivated accounts cannot log in")
}

func TestUserService_ValidateJWT_WrongSecret(t *testing.T) {
	svc := NewUserService(newMemUserStore(), "test-secret")

	token, err := svc.GenerateJWT("user-1")
	require.NoError(t, err)

	other := NewUserService(newMemUserStore(), "different-secret")
	_, err = other.ValidateJWT(token)
	require.Error(t, err)

	_, err = svc.ValidateJWT("not.a.token")
	require.Error(t, err)
}

func TestUserService_UpdateProfile(t *testing.T) {
	users := newMemUserStore()
	svc := NewUserService(users, "test-secret")
	ctx := context.Background()

	member, err := svc.Register(ctx, "alice@example.com", "supersecret", "Alice")
	require.NoError(t, err)

	updated, err := svc.UpdateProfile(ctx, member.ID, UpdateProfileRequest{
		DisplayName:        " Alice M. ",
		CruiseLineID:       "royal",
		DepartmentID:       "entertainment",
		RoleID:             "dancer",
		OnboardingComplete: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "Alice M.", updated.DisplayName)
	assert.Equal(t, "royal", updated.CruiseLineID)
	assert.True(t, updated.OnboardingComplete)

	_, err = svc.UpdateProfile(ctx, "missing", UpdateProfileRequest{DisplayName: "X"})
	require.ErrorIs(t, err, ErrNotFound)
}
