package services

import (
	"context"
	"testing"

	"github.com/loreycode/cms-api/internal/store"
	"github.com/loreycode/cms-api/internal/testutil"
	"github.com/loreycode/cms-api/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestUserCreateHashesPassword(t *testing.T) {
	ctx := context.Background()
	svc := NewUserService(testutil.NewUsers())

	user, err := svc.Create(ctx, " admin@example.com ", "Admin", types.RoleSuperAdmin, "secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "admin@example.com", user.Email)
	assert.NotEqual(t, "secret123", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret123")))

	_, err = svc.Create(ctx, "ADMIN@example.com", "Other", types.RoleAdmin, "secret123")
	assert.ErrorIs(t, err, store.ErrConflict)
}

func TestUserCreateValidates(t *testing.T) {
	ctx := context.Background()
	svc := NewUserService(testutil.NewUsers())

	tests := []struct {
		name                         string
		email, user, role, password string
	}{
		{"missing email", "", "Admin", types.RoleAdmin, "secret123"},
		{"missing name", "a@example.com", " ", types.RoleAdmin, "secret123"},
		{"short password", "a@example.com", "Admin", types.RoleAdmin, "12345"},
		{"unknown role", "a@example.com", "Admin", "EDITOR", "secret123"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tc.email, tc.user, tc.role, tc.password)
			assert.Error(t, err)
		})
	}
}

func TestUserAuthenticate(t *testing.T) {
	ctx := context.Background()
	svc := NewUserService(testutil.NewUsers())
	created, err := svc.Create(ctx, "admin@example.com", "Admin", types.RoleAdmin, "secret123")
	require.NoError(t, err)

	user, err := svc.Authenticate(ctx, "Admin@Example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)

	_, err = svc.Authenticate(ctx, "admin@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "nobody@example.com", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	got, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Admin", got.Name)
}
