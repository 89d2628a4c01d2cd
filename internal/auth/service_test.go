package auth

import (
	"testing"
	"time"

	"tally/internal/config"
	"tally/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testService(tokenDuration time.Duration) *Service {
	cfg := &config.Config{}
	cfg.Auth.JWTSecret = "test_secret_key"
	cfg.Auth.TokenDuration = tokenDuration
	return NewService(cfg)
}

func TestTokenRoundTrip(t *testing.T) {
	svc := testService(time.Hour)
	user := &models.User{ID: uuid.New(), Role: models.RoleAdmin}

	token, err := svc.GenerateToken(user)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, models.RoleAdmin, claims.Role)
}

func TestValidateTokenExpired(t *testing.T) {
	svc := testService(-time.Minute)
	user := &models.User{ID: uuid.New(), Role: models.RoleUser}

	token, err := svc.GenerateToken(user)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	svc := testService(time.Hour)
	user := &models.User{ID: uuid.New(), Role: models.RoleUser}

	token, err := svc.GenerateToken(user)
	require.NoError(t, err)

	other := testService(time.Hour)
	other.config.Auth.JWTSecret = "a different secret"
	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenGarbage(t *testing.T) {
	svc := testService(time.Hour)
	_, err := svc.ValidateToken("not a token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestHashAndComparePasswords(t *testing.T) {
	svc := testService(time.Hour)

	hash, err := svc.HashPassword("password123")
	require.NoError(t, err)
	assert.NotEqual(t, "password123", hash)

	assert.NoError(t, svc.ComparePasswords(hash, "password123"))
	assert.Error(t, svc.ComparePasswords(hash, "wrong password"))
}
