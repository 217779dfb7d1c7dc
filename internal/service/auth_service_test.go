package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"techweave_backend/internal/domain"
	"techweave_backend/internal/security"
	"techweave_backend/internal/service"
	"techweave_backend/internal/store/sqlite"
)

func newAuthService(t *testing.T) (*service.AuthService, *sqlite.GroupRepo) {
	t.Helper()
	db := newTestDB(t)
	groups := sqlite.NewGroupRepo(db)
	require.NoError(t, groups.EnsureGeneralChat(context.Background()))

	tokens := security.NewTokenService("test-secret", time.Hour, time.Minute)
	hasher := security.NewPasswordHasher(4) // low cost for tests
	return service.NewAuthService(sqlite.NewUserRepo(db), groups, tokens, hasher), groups
}

func TestSignup(t *testing.T) {
	svc, groups := newAuthService(t)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		user, err := svc.Signup(ctx, service.SignupInput{
			Username: "newuser",
			Email:    "new@techweave.io",
			Password: "Password1!",
		})
		require.NoError(t, err)
		assert.Equal(t, domain.RoleStudent, user.Role)
		assert.True(t, user.Verified)

		// Signup auto-joins General Chat.
		members, err := groups.ListMembers(ctx, domain.GeneralChatGroupID)
		require.NoError(t, err)
		require.Len(t, members, 1)
		assert.Equal(t, user.ID, members[0].UserID)
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		_, err := svc.Signup(ctx, service.SignupInput{
			Username: "other",
			Email:    "new@techweave.io",
			Password: "Password1!",
		})
		assert.ErrorIs(t, err, domain.ErrConflict)
	})

	t.Run("MentorWithProfile", func(t *testing.T) {
		user, err := svc.Signup(ctx, service.SignupInput{
			Username:   "guide",
			Email:      "guide@techweave.io",
			Password:   "Password1!",
			Role:       domain.RoleMentor,
			Expertise:  "distributed systems",
			Experience: "8 years",
		})
		require.NoError(t, err)
		assert.Equal(t, domain.RoleMentor, user.Role)
	})

	t.Run("InvalidRole", func(t *testing.T) {
		_, err := svc.Signup(ctx, service.SignupInput{
			Username: "bad",
			Email:    "bad@techweave.io",
			Password: "x",
			Role:     "overlord",
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestLogin(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, service.SignupInput{
		Username: "alice",
		Email:    "alice@techweave.io",
		Password: "Password1!",
	})
	require.NoError(t, err)

	t.Run("Success", func(t *testing.T) {
		res, err := svc.Login(ctx, service.LoginInput{Email: "alice@techweave.io", Password: "Password1!"})
		require.NoError(t, err)
		assert.NotEmpty(t, res.AccessToken)
		assert.Equal(t, "alice", res.User.Username)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		_, err := svc.Login(ctx, service.LoginInput{Email: "alice@techweave.io", Password: "nope"})
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("UnknownUser", func(t *testing.T) {
		_, err := svc.Login(ctx, service.LoginInput{Email: "ghost@techweave.io", Password: "x"})
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})
}

func TestPasswordReset(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, service.SignupInput{
		Username: "bob",
		Email:    "bob@techweave.io",
		Password: "OldPassword1!",
	})
	require.NoError(t, err)

	token, err := svc.RequestPasswordReset(ctx, "bob@techweave.io")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	require.NoError(t, svc.ResetPassword(ctx, token, "NewPassword1!"))

	_, err = svc.Login(ctx, service.LoginInput{Email: "bob@techweave.io", Password: "OldPassword1!"})
	assert.Error(t, err)
	_, err = svc.Login(ctx, service.LoginInput{Email: "bob@techweave.io", Password: "NewPassword1!"})
	assert.NoError(t, err)
}
