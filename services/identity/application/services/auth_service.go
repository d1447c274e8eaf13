package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/ghuser/possystem/pkg/auth"
	identitydomain "github.com/ghuser/possystem/services/identity/domain"
	"github.com/ghuser/possystem/services/identity/domain/models"
	"github.com/ghuser/possystem/services/identity/domain/repositories"
)

// LoginResult is returned on a successful login.
type LoginResult struct {
	User        *models.User
	AccessToken string
}

// AuthService authenticates operators and manages their accounts.
type AuthService struct {
	users  repositories.UserRepository
	tokens *auth.TokenManager

	// dummyHash is compared against when the email is unknown so a miss
	// costs as much as a wrong password.
	dummyHash func() string
}

func NewAuthService(users repositories.UserRepository, tokens *auth.TokenManager) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		dummyHash: sync.OnceValue(func() string {
			h, _ := auth.HashPassword("not-a-real-password")
			return h
		}),
	}
}

// Login checks the credentials and issues an access token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	u, err := s.users.GetByEmail(ctx, models.NormalizeEmail(email))
	if errors.Is(err, identitydomain.ErrUserNotFound) {
		auth.CheckPassword(s.dummyHash(), password)
		return nil, identitydomain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if !auth.CheckPassword(u.PasswordHash, password) || !u.IsActive {
		return nil, identitydomain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(u.ID, u.Email)
	if err != nil {
		return nil, err
	}
	return &LoginResult{User: u, AccessToken: token}, nil
}

// Me returns the authenticated user. A deactivated account is treated as
// signed out.
func (s *AuthService) Me(ctx context.Context, id uuid.UUID) (*models.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if !u.IsActive {
		return nil, identitydomain.ErrInvalidCredentials
	}
	return u, nil
}

// CreateUser registers an active operator.
func (s *AuthService) CreateUser(ctx context.Context, email, name, password string) (*models.User, error) {
	u, err := models.NewUser(email, name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", identitydomain.ErrInvalidUser, err)
	}
	if err := models.ValidatePassword(password); err != nil {
		return nil, fmt.Errorf("%w: %w", identitydomain.ErrInvalidUser, err)
	}
	if u.PasswordHash, err = auth.HashPassword(password); err != nil {
		return nil, err
	}
	if err := s.users.Save(ctx, u); err != nil {
		return nil, fmt.Errorf("save user: %w", err)
	}
	return u, nil
}

func (s *AuthService) List(ctx context.Context) ([]*models.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}
