package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ghuser/possystem/pkg/auth"
	identitydomain "github.com/ghuser/possystem/services/identity/domain"
	"github.com/ghuser/possystem/services/identity/infrastructure/persistence/memory"
)

func newAuthService(t *testing.T) (*AuthService, *memory.UserRepository, *auth.TokenManager) {
	t.Helper()
	repo := memory.NewUserRepository()
	tokens := auth.NewTokenManager("test-secret-that-is-long-enough!!", time.Hour, "possystem")
	return NewAuthService(repo, tokens), repo, tokens
}

func TestAuthService_LoginIssuesToken(t *testing.T) {
	ctx := context.Background()
	svc, _, tokens := newAuthService(t)
	u, err := svc.CreateUser(ctx, "Cashier@Shop.test", "Cashier", "s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", u.PasswordHash)

	res, err := svc.Login(ctx, " cashier@shop.test ", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, u.ID, res.User.ID)

	sub, err := tokens.Validate(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID, sub)
}

func TestAuthService_LoginRejections(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newAuthService(t)
	u, err := svc.CreateUser(ctx, "a@shop.test", "A", "s3cret-pass")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "a@shop.test", "wrong-pass")
	assert.ErrorIs(t, err, identitydomain.ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody@shop.test", "s3cret-pass")
	assert.ErrorIs(t, err, identitydomain.ErrInvalidCredentials)

	repo.SetActive(u.ID, false)
	_, err = svc.Login(ctx, "a@shop.test", "s3cret-pass")
	assert.ErrorIs(t, err, identitydomain.ErrInvalidCredentials)

	_, err = svc.Me(ctx, u.ID)
	assert.ErrorIs(t, err, identitydomain.ErrInvalidCredentials)
}

func TestAuthService_CreateUser(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newAuthService(t)

	_, err := svc.CreateUser(ctx, "a@shop.test", "A", "short")
	assert.ErrorIs(t, err, identitydomain.ErrInvalidUser)

	_, err = svc.CreateUser(ctx, "bad-email", "A", "s3cret-pass")
	assert.ErrorIs(t, err, identitydomain.ErrInvalidUser)

	_, err = svc.CreateUser(ctx, "a@shop.test", "A", "s3cret-pass")
	require.NoError(t, err)
	_, err = svc.CreateUser(ctx, "A@SHOP.test", "A2", "s3cret-pass")
	assert.ErrorIs(t, err, identitydomain.ErrUserAlreadyExists)

	users, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)

	_, err = svc.Me(ctx, uuid.New())
	assert.ErrorIs(t, err, identitydomain.ErrUserNotFound)
}
