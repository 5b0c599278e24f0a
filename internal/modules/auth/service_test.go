package auth

import (
	"context"
	"testing"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/printq/printq-backend/internal/modules/user"
)

type fakeUserRepo struct {
	byEmail map[string]*user.User
}

func (f *fakeUserRepo) CreateUser(ctx context.Context, u *user.User) error { return nil }

func (f *fakeUserRepo) GetUserByID(ctx context.Context, id string) (*user.User, error) {
	return nil, user.ErrNotFound
}

func (f *fakeUserRepo) GetUserByEmail(ctx context.Context, email string) (*user.User, error) {
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, user.ErrNotFound
}

func (f *fakeUserRepo) GetUserByPhone(ctx context.Context, phone string) (*user.User, error) {
	return nil, user.ErrNotFound
}

const testSecret = "test-secret"

func seedUser(t *testing.T, active bool) (*fakeUserRepo, *user.User) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter22"), bcrypt.MinCost)
	require.NoError(t, err)
	u := &user.User{
		ID:           uuid.New(),
		Email:        "owner@example.com",
		PasswordHash: string(hash),
		Role:         user.RoleShopOwner,
		IsActive:     active,
	}
	return &fakeUserRepo{byEmail: map[string]*user.User{u.Email: u}}, u
}

func TestLogin(t *testing.T) {
	repo, u := seedUser(t, true)
	svc := NewService(repo, testSecret)

	token, err := svc.Login(context.Background(), u.Email, "hunter22")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	assert.True(t, parsed.Valid)
	assert.Equal(t, u.ID.String(), claims.Subject)
	assert.Equal(t, string(user.RoleShopOwner), claims.Role)
	assert.Greater(t, claims.ExpiresAt, claims.IssuedAt)
}

func TestLoginWrongPassword(t *testing.T) {
	repo, u := seedUser(t, true)
	svc := NewService(repo, testSecret)

	_, err := svc.Login(context.Background(), u.Email, "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	repo, _ := seedUser(t, true)
	svc := NewService(repo, testSecret)

	_, err := svc.Login(context.Background(), "nobody@example.com", "hunter22")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginInactiveAccount(t *testing.T) {
	repo, u := seedUser(t, false)
	svc := NewService(repo, testSecret)

	_, err := svc.Login(context.Background(), u.Email, "hunter22")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
