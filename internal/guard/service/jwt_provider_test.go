package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "super-secret-jwt-token-with-at-least-32-characters"

func signTestToken(t *testing.T, method jwt.SigningMethod, key any, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func TestJWTIdentityProvider_VerifyToken(t *testing.T) {
	ctx := context.Background()
	provider := NewJWTIdentityProvider(testJWTSecret)

	t.Run("Success", func(t *testing.T) {
		token := signTestToken(t, jwt.SigningMethodHS256, []byte(testJWTSecret), jwt.MapClaims{
			"sub":   "user-123",
			"email": "owner@example.com",
			"exp":   time.Now().Add(time.Hour).Unix(),
		})

		identity, err := provider.VerifyToken(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, "user-123", identity.ID)
		assert.Equal(t, "owner@example.com", identity.Attributes["email"])
	})

	t.Run("Expired", func(t *testing.T) {
		token := signTestToken(t, jwt.SigningMethodHS256, []byte(testJWTSecret), jwt.MapClaims{
			"sub": "user-123",
			"exp": time.Now().Add(-time.Minute).Unix(),
		})

		_, err := provider.VerifyToken(ctx, token)
		assert.Error(t, err)
	})

	t.Run("MissingExpiry", func(t *testing.T) {
		token := signTestToken(t, jwt.SigningMethodHS256, []byte(testJWTSecret), jwt.MapClaims{
			"sub": "user-123",
		})

		_, err := provider.VerifyToken(ctx, token)
		assert.Error(t, err)
	})

	t.Run("WrongSecret", func(t *testing.T) {
		token := signTestToken(t, jwt.SigningMethodHS256, []byte("another-secret"), jwt.MapClaims{
			"sub": "user-123",
			"exp": time.Now().Add(time.Hour).Unix(),
		})

		_, err := provider.VerifyToken(ctx, token)
		assert.Error(t, err)
	})

	t.Run("WrongAlgorithm", func(t *testing.T) {
		token := signTestToken(t, jwt.SigningMethodHS512, []byte(testJWTSecret), jwt.MapClaims{
			"sub": "user-123",
			"exp": time.Now().Add(time.Hour).Unix(),
		})

		_, err := provider.VerifyToken(ctx, token)
		assert.Error(t, err)
	})

	t.Run("MissingSubject", func(t *testing.T) {
		token := signTestToken(t, jwt.SigningMethodHS256, []byte(testJWTSecret), jwt.MapClaims{
			"exp": time.Now().Add(time.Hour).Unix(),
		})

		_, err := provider.VerifyToken(ctx, token)
		assert.Error(t, err)
	})

	t.Run("Garbage", func(t *testing.T) {
		_, err := provider.VerifyToken(ctx, "not.a.jwt")
		assert.Error(t, err)
	})
}

func TestNewIdentityProvider(t *testing.T) {
	t.Run("jwt secret wins", func(t *testing.T) {
		provider := NewIdentityProvider(IdentityProviderConfig{
			URL:       "https://auth.example.com",
			PublicKey: "anon",
			JWTSecret: testJWTSecret,
		})
		assert.IsType(t, &JWTIdentityProvider{}, provider)
	})

	t.Run("gotrue when url and key are set", func(t *testing.T) {
		provider := NewIdentityProvider(IdentityProviderConfig{
			URL:       "https://auth.example.com",
			PublicKey: "anon",
			Timeout:   time.Second,
		})
		assert.IsType(t, &GoTrueIdentityProvider{}, provider)
	})

	t.Run("none when url lacks key", func(t *testing.T) {
		provider := NewIdentityProvider(IdentityProviderConfig{URL: "https://auth.example.com"})
		assert.Nil(t, provider)
	})

	t.Run("none when empty", func(t *testing.T) {
		assert.Nil(t, NewIdentityProvider(IdentityProviderConfig{}))
	})
}
