package handlers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateAccessToken(t *testing.T) {
	cfg := testJWTConfig()

	token, expiresIn, err := cfg.GenerateAccessToken("user1", "testuser")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, int64((15 * time.Minute).Seconds()), expiresIn)

	claims, err := cfg.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user1", claims.UserID)
	assert.Equal(t, "testuser", claims.Username)
	assert.Equal(t, "crmsync", claims.Issuer)
}

func TestValidateAccessToken_WrongSecret(t *testing.T) {
	cfg := testJWTConfig()

	token, _, err := cfg.GenerateAccessToken("user1", "testuser")
	require.NoError(t, err)

	other := cfg
	other.Secret = []byte("different-secret")

	_, err = other.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestValidateAccessToken_Expired(t *testing.T) {
	cfg := testJWTConfig()
	cfg.AccessTokenTTL = -time.Minute

	token, _, err := cfg.GenerateAccessToken("user1", "testuser")
	require.NoError(t, err)

	_, err = cfg.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestValidateAccessToken_Garbage(t *testing.T) {
	_, err := testJWTConfig().ValidateAccessToken("not-a-jwt")
	assert.Error(t, err)
}

func TestGenerateRefreshToken(t *testing.T) {
	cfg := testJWTConfig()

	token1, expiresAt, err := cfg.GenerateRefreshToken()
	require.NoError(t, err)
	assert.NotEmpty(t, token1)
	assert.WithinDuration(t, time.Now().Add(cfg.RefreshTokenTTL), expiresAt, time.Minute)

	token2, _, err := cfg.GenerateRefreshToken()
	require.NoError(t, err)
	assert.NotEqual(t, token1, token2)
}

func TestHashRefreshToken(t *testing.T) {
	hash := HashRefreshToken("some-token")

	// Детерминированный hex SHA256
	assert.Equal(t, hash, HashRefreshToken("some-token"))
	assert.Len(t, hash, 64)
	assert.NotEqual(t, hash, HashRefreshToken("other-token"))
}
