package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/ovolkov/marketplace/internal/models"
	"github.com/ovolkov/marketplace/internal/repo"
	"github.com/ovolkov/marketplace/internal/transport"
	"github.com/ovolkov/marketplace/pkg/hash"
	"github.com/ovolkov/marketplace/pkg/logging"
	"github.com/ovolkov/marketplace/pkg/tokens"
)

var ErrInvalidCredentials = errors.New("invalid credentials") // 401

type AuthService struct {
	Repo      *repo.GormRepo
	JWTSecret []byte
}

func (s *AuthService) Register(ctx context.Context, req transport.RegisterRequest) error {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	if req.Name == "" || req.Email == "" || req.Password == "" {
		return fmt.Errorf("%w: name, email and password are required", ErrValidation)
	}
	role := req.Role
	if role == "" {
		role = models.RoleCustomer
	}
	if !models.ValidRole(role) {
		return fmt.Errorf("%w: unknown role %q", ErrValidation, role)
	}

	pwHash, err := hash.HashPassword(req.Password)
	if err != nil {
		l.Error("register_error", "reason", "cannot hash the password", "error", err)
		return err
	}

	user := models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: pwHash,
		Role:         role,
	}
	if err := s.Repo.CreateUserIfNotExists(ctx, &user); err != nil {
		if errors.Is(err, repo.ErrUserAlreadyExist) {
			return fmt.Errorf("%w: user already exists", ErrConflict)
		}
		return err
	}

	l.Info("register_success", "user_id", user.ID, "role", role)
	return nil
}

func (s *AuthService) Login(ctx context.Context, req transport.LoginRequest) (*transport.LoginResponse, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	if req.Email == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrValidation)
	}

	user, err := s.Repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !hash.CheckPassword(user.PasswordHash, req.Password) {
		l.Warn("login_error", "reason", "wrong password", "user_id", user.ID)
		return nil, ErrInvalidCredentials
	}

	exp := time.Now().Add(tokens.AccessTokenTTL).UTC()
	token, err := tokens.NewAccessToken(user.ID.String(), user.Role, s.JWTSecret, exp)
	if err != nil {
		l.Error("login_error", "reason", "cannot sign token", "error", err)
		return nil, err
	}

	l.Info("login_success", "user_id", user.ID)
	return &transport.LoginResponse{
		Token: token,
		User:  *transport.NewUserView(user),
	}, nil
}
