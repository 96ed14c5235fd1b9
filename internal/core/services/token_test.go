package services

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenService(t *testing.T) {
	svc := NewTokenService("test-secret")

	t.Run("round trip", func(t *testing.T) {
		token, err := svc.GenerateToken("alice")
		require.NoError(t, err)
		id, err := svc.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, "alice", id)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, err := NewTokenService("other").GenerateToken("alice")
		require.NoError(t, err)
		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		claims := jwt.RegisteredClaims{
			Subject:   "alice",
			Issuer:    tokenIssuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
		require.NoError(t, err)
		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("subject must be a participant id", func(t *testing.T) {
		_, err := svc.GenerateToken("a_b")
		assert.Error(t, err)
		claims := jwt.RegisteredClaims{Subject: "a_b", Issuer: tokenIssuer}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
		require.NoError(t, err)
		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
