package service

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "request-board/pkg/errors"
)

func TestJWTRoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour, zap.NewNop())
	userID := uuid.New()

	token, err := svc.GenerateToken(userID, "ADMIN", "admin")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "ADMIN", claims.RoleCode)
	assert.Equal(t, "admin", claims.Username)
}

func TestJWTExpiredToken(t *testing.T) {
	svc := NewJWTService("test-secret", -time.Minute, zap.NewNop())

	token, err := svc.GenerateToken(uuid.New(), "ANALYST", "analyst")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrTokenExpired), "ожидался ErrTokenExpired, получено: %v", err)
}

func TestJWTWrongSecret(t *testing.T) {
	issuer := NewJWTService("secret-a", time.Hour, zap.NewNop())
	verifier := NewJWTService("secret-b", time.Hour, zap.NewNop())

	token, err := issuer.GenerateToken(uuid.New(), "ANALYST", "analyst")
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidToken), "ожидался ErrInvalidToken, получено: %v", err)
}
