package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService("secret", "parkwarden")

	token, err := svc.Generate(7, "officer.lee", time.Hour)
	require.NoError(t, err)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "officer.lee", claims.Username)
}

func TestJWTService_Verify_Rejects(t *testing.T) {
	svc := NewJWTService("secret", "parkwarden")

	t.Run("wrong secret", func(t *testing.T) {
		token, err := NewJWTService("other", "parkwarden").Generate(7, "x", time.Hour)
		require.NoError(t, err)
		_, err = svc.Verify(token)
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		token, err := svc.Generate(7, "x", -time.Minute)
		require.NoError(t, err)
		_, err = svc.Verify(token)
		assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		token, err := NewJWTService("secret", "elsewhere").Generate(7, "x", time.Hour)
		require.NoError(t, err)
		_, err = svc.Verify(token)
		assert.ErrorIs(t, err, jwt.ErrTokenInvalidIssuer)
	})

	t.Run("missing user id", func(t *testing.T) {
		token, err := svc.Generate(0, "x", time.Hour)
		require.NoError(t, err)
		_, err = svc.Verify(token)
		assert.ErrorIs(t, err, ErrMissingSubject)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.Verify("not-a-token")
		assert.Error(t, err)
	})
}
