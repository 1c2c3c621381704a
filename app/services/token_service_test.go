// Package services provides external service integrations and technical concerns like notifications and tokens
package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestTokenService creates a token service for testing with symmetric key
func createTestTokenService() (TokenService, error) {
	return NewTokenService(
		15*time.Minute,
		7*24*time.Hour,
		"test-issuer",
		"test-audience",
		false, // useRSAKeys
		"",    // privateKeyPEM
		"",    // publicKeyPEM
		"test-secret-key-for-jwt-signing-32-chars", // secretKey
		nil, // redisClient
		"test",
	)
}

func TestNewTokenService(t *testing.T) {
	tests := []struct {
		name        string
		useRSAKeys  bool
		secretKey   string
		expectError bool
	}{
		{
			name:        "valid symmetric key configuration",
			useRSAKeys:  false,
			secretKey:   "test-secret-key-for-jwt-signing-32-chars",
			expectError: false,
		},
		{
			name:        "missing secret key",
			useRSAKeys:  false,
			secretKey:   "",
			expectError: true,
		},
		{
			name:        "RSA mode without keys",
			useRSAKeys:  true,
			secretKey:   "",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, err := NewTokenService(
				15*time.Minute,
				7*24*time.Hour,
				"test-issuer",
				"test-audience",
				tt.useRSAKeys,
				"",
				"",
				tt.secretKey,
				nil,
				"test",
			)
			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, service)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, service)
			}
		})
	}
}

func TestGenerateAndValidateTokens(t *testing.T) {
	ctx := context.Background()
	service, err := createTestTokenService()
	require.NoError(t, err)

	accessToken, refreshToken, err := service.GenerateTokens(42)
	require.NoError(t, err)
	assert.NotEmpty(t, accessToken)
	assert.NotEmpty(t, refreshToken)
	assert.NotEqual(t, accessToken, refreshToken)

	accessClaims, err := service.ValidateToken(ctx, accessToken)
	require.NoError(t, err)
	assert.Equal(t, uint(42), accessClaims.CustomerID)
	assert.Equal(t, "access", accessClaims.TokenType)
	assert.NotEmpty(t, accessClaims.TokenID)
	assert.True(t, accessClaims.ExpiresAt.After(accessClaims.IssuedAt))

	refreshClaims, err := service.ValidateToken(ctx, refreshToken)
	require.NoError(t, err)
	assert.Equal(t, "refresh", refreshClaims.TokenType)
	assert.NotEqual(t, accessClaims.TokenID, refreshClaims.TokenID)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	ctx := context.Background()
	service, err := createTestTokenService()
	require.NoError(t, err)

	_, err = service.ValidateToken(ctx, "not-a-jwt")
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = service.ValidateToken(ctx, "")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestValidateTokenRejectsWrongKey(t *testing.T) {
	ctx := context.Background()
	service, err := createTestTokenService()
	require.NoError(t, err)

	other, err := NewTokenService(
		15*time.Minute,
		7*24*time.Hour,
		"test-issuer",
		"test-audience",
		false,
		"",
		"",
		"a-completely-different-signing-key-here",
		nil,
		"test",
	)
	require.NoError(t, err)

	accessToken, _, err := service.GenerateTokens(42)
	require.NoError(t, err)

	_, err = other.ValidateToken(ctx, accessToken)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	ctx := context.Background()
	service, err := NewTokenService(
		-1*time.Minute, // already expired at issue time
		7*24*time.Hour,
		"test-issuer",
		"test-audience",
		false,
		"",
		"",
		"test-secret-key-for-jwt-signing-32-chars",
		nil,
		"test",
	)
	require.NoError(t, err)

	accessToken, _, err := service.GenerateTokens(42)
	require.NoError(t, err)

	_, err = service.ValidateToken(ctx, accessToken)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestRefreshToken(t *testing.T) {
	ctx := context.Background()
	service, err := createTestTokenService()
	require.NoError(t, err)

	accessToken, refreshToken, err := service.GenerateTokens(42)
	require.NoError(t, err)

	newAccess, newRefresh, err := service.RefreshToken(ctx, refreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, newAccess)
	assert.NotEmpty(t, newRefresh)

	claims, err := service.ValidateToken(ctx, newAccess)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.CustomerID)

	// An access token must not be usable for refresh
	_, _, err = service.RefreshToken(ctx, accessToken)
	assert.Error(t, err)
}

func TestRevokeTokenWithoutRedis(t *testing.T) {
	ctx := context.Background()
	service, err := createTestTokenService()
	require.NoError(t, err)

	accessToken, _, err := service.GenerateTokens(42)
	require.NoError(t, err)

	// Without a revocation store, revoke is a no-op and tokens stay valid
	require.NoError(t, service.RevokeToken(ctx, accessToken))
	_, err = service.ValidateToken(ctx, accessToken)
	assert.NoError(t, err)

	assert.False(t, service.IsTokenRevoked(ctx, "any-token-id"))
}
