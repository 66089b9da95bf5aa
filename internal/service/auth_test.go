package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelflog/shelflog-server/internal/auth"
	domainerrors "github.com/shelflog/shelflog-server/internal/errors"
)

func setupAuthService(t *testing.T) *AuthService {
	t.Helper()

	tokenService, err := auth.NewTokenService(testKeyHex, 15*time.Minute)
	require.NoError(t, err)

	return NewAuthService(setupStore(t), tokenService, testLogger())
}

func TestAuthService_Register(t *testing.T) {
	svc := setupAuthService(t)
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		resp, err := svc.Register(ctx, RegisterRequest{
			Username: "margaret",
			Password: "correct horse battery",
		})
		require.NoError(t, err)
		assert.Equal(t, "margaret", resp.User.Username)
		assert.NotEmpty(t, resp.AccessToken)
		assert.Positive(t, resp.ExpiresIn)

		// The issued token verifies and resolves back to the user.
		user, claims, err := svc.VerifyAccessToken(ctx, resp.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, resp.User.ID, user.ID)
		assert.Equal(t, "margaret", claims.Username)
	})

	t.Run("duplicate username", func(t *testing.T) {
		_, err := svc.Register(ctx, RegisterRequest{
			Username: "margaret",
			Password: "another password",
		})
		assertDomainCode(t, err, domainerrors.CodeAlreadyExists)
	})

	t.Run("short password rejected", func(t *testing.T) {
		_, err := svc.Register(ctx, RegisterRequest{
			Username: "newuser",
			Password: "short",
		})
		assertDomainCode(t, err, domainerrors.CodeValidation)
	})

	t.Run("bad email rejected", func(t *testing.T) {
		_, err := svc.Register(ctx, RegisterRequest{
			Username: "newuser",
			Password: "long enough password",
			Email:    "not-an-email",
		})
		assertDomainCode(t, err, domainerrors.CodeValidation)
	})
}

func TestAuthService_Login(t *testing.T) {
	svc := setupAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{
		Username: "margaret",
		Password: "correct horse battery",
	})
	require.NoError(t, err)

	t.Run("success", func(t *testing.T) {
		resp, err := svc.Login(ctx, LoginRequest{
			Username: "margaret",
			Password: "correct horse battery",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, LoginRequest{
			Username: "margaret",
			Password: "wrong password",
		})
		assertDomainCode(t, err, domainerrors.CodeInvalidCredentials)
	})

	t.Run("unknown username looks like wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, LoginRequest{
			Username: "nobody",
			Password: "whatever password",
		})
		assertDomainCode(t, err, domainerrors.CodeInvalidCredentials)
	})
}

func TestAuthService_VerifyAccessToken_Garbage(t *testing.T) {
	svc := setupAuthService(t)

	_, _, err := svc.VerifyAccessToken(context.Background(), "v4.local.garbage")
	assertDomainCode(t, err, domainerrors.CodeUnauthorized)
}
