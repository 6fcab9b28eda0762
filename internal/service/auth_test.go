package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ovolkov/marketplace/internal/models"
	"github.com/ovolkov/marketplace/internal/transport"
	"github.com/ovolkov/marketplace/pkg/tokens"
)

func newTestAuthService(t *testing.T) *AuthService {
	return &AuthService{
		Repo:      newTestRepo(t),
		JWTSecret: []byte("test-jwt-secret"),
	}
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	req := transport.RegisterRequest{
		Name:     "alice",
		Email:    "alice@example.com",
		Password: "s3cret",
		Role:     models.RoleSeller,
	}
	require.NoError(t, svc.Register(ctx, req))

	resp, err := svc.Login(ctx, transport.LoginRequest{Email: req.Email, Password: req.Password})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)
	assert.Equal(t, "alice", resp.User.Name)
	assert.Equal(t, models.RoleSeller, resp.User.Role)

	claims, err := tokens.AccessClaimsFromToken(resp.Token, svc.JWTSecret)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID.String(), claims.Subject)
	assert.Equal(t, models.RoleSeller, claims.Role)
	require.NotNil(t, claims.ExpiresAt)
}

func TestAuthService_RegisterDuplicateEmail(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	req := transport.RegisterRequest{Name: "bob", Email: "bob@example.com", Password: "pw"}
	require.NoError(t, svc.Register(ctx, req))

	err := svc.Register(ctx, req)
	require.ErrorIs(t, err, ErrConflict)
}

func TestAuthService_RegisterValidation(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	err := svc.Register(ctx, transport.RegisterRequest{Email: "x@example.com"})
	require.ErrorIs(t, err, ErrValidation)

	err = svc.Register(ctx, transport.RegisterRequest{
		Name: "x", Email: "x@example.com", Password: "pw", Role: "admin",
	})
	require.ErrorIs(t, err, ErrValidation)
}

func TestAuthService_LoginRejectsBadCredentials(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, transport.RegisterRequest{
		Name: "carol", Email: "carol@example.com", Password: "right",
	}))

	_, err := svc.Login(ctx, transport.LoginRequest{Email: "carol@example.com", Password: "wrong"})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, transport.LoginRequest{Email: "nobody@example.com", Password: "x"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}
