package security_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"techweave_backend/internal/security"
)

func TestTokenRoundTrip(t *testing.T) {
	svc := security.NewTokenService("secret", time.Hour, time.Minute)

	token, err := svc.CreateForUser(42, "a@b.c", "mentor")
	require.NoError(t, err)

	claims, err := svc.Parse(token)
	require.NoError(t, err)

	userID, err := svc.UserID(claims)
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)
	assert.Equal(t, "mentor", claims["role"])
}

func TestTokenWrongSecret(t *testing.T) {
	svc := security.NewTokenService("secret", time.Hour, time.Minute)
	other := security.NewTokenService("different", time.Hour, time.Minute)

	token, err := svc.CreateForUser(1, "a@b.c", "student")
	require.NoError(t, err)

	_, err = other.Parse(token)
	assert.Error(t, err)
}

func TestResetTokenRoundTrip(t *testing.T) {
	svc := security.NewTokenService("secret", time.Hour, time.Minute)

	token, err := svc.CreateResetToken("a@b.c")
	require.NoError(t, err)

	email, err := svc.ParseResetToken(token)
	require.NoError(t, err)
	assert.Equal(t, "a@b.c", email)
}

func TestExpiredTokenRejected(t *testing.T) {
	svc := security.NewTokenService("secret", -time.Minute, time.Minute)

	token, err := svc.CreateForUser(1, "a@b.c", "student")
	require.NoError(t, err)

	_, err = svc.Parse(token)
	assert.Error(t, err)
}

func TestPasswordHasher(t *testing.T) {
	h := security.NewPasswordHasher(4)

	hashed, err := h.Hash("Password1!")
	require.NoError(t, err)
	assert.NotEqual(t, "Password1!", hashed)

	assert.NoError(t, h.Verify("Password1!", hashed))
	assert.Error(t, h.Verify("wrong", hashed))
}
