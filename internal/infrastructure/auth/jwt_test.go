package auth

import (
	"context"
	"testing"
	"time"

	"github.com/backoffice/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(ttl time.Duration) *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret: "test-secret-do-not-use",
		Issuer: "backoffice-test",
		TTL:    ttl,
	})
}

func TestJWTService_GenerateAndVerify(t *testing.T) {
	svc := newTestService(time.Hour)

	token, err := svc.Generate(42, "admin@example.com", "admin")
	require.NoError(t, err)
	require.NotEmpty(t, token.Value)

	claims, err := svc.Verify(token.Value)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "admin@example.com", claims.Email)
	assert.Equal(t, "admin", claims.GroupRole)
	assert.NotEmpty(t, claims.ID, "tokens carry a JTI for revocation")
}

func TestJWTService_Verify(t *testing.T) {
	t.Run("rejects expired token", func(t *testing.T) {
		svc := newTestService(-time.Minute)
		token, err := svc.Generate(1, "a@example.com", "editor")
		require.NoError(t, err)

		_, err = svc.Verify(token.Value)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		svc := newTestService(time.Hour)
		_, err := svc.Verify("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("rejects token signed with a different secret", func(t *testing.T) {
		other := NewJWTService(config.JWTConfig{Secret: "other-secret", Issuer: "x", TTL: time.Hour})
		token, err := other.Generate(1, "a@example.com", "editor")
		require.NoError(t, err)

		_, err = newTestService(time.Hour).Verify(token.Value)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery", hash)

	assert.NoError(t, VerifyPassword(hash, "correct horse battery"))
	assert.ErrorIs(t, VerifyPassword(hash, "wrong"), ErrPasswordMismatch)

	_, err = HashPassword("short")
	assert.Error(t, err)
}

func TestMemoryTokenBlacklist(t *testing.T) {
	ctx := context.Background()
	bl := NewMemoryTokenBlacklist()

	found, err := bl.Contains(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, bl.Add(ctx, "jti-1", time.Minute))
	found, err = bl.Contains(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, found)

	// Non-positive TTL means the token already expired.
	require.NoError(t, bl.Add(ctx, "jti-2", -time.Second))
	found, err = bl.Contains(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, found)
}
