package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"noteful-server/internal/domain"
	"noteful-server/internal/repository/sqlite"
)

func newUserService(t *testing.T) UserService {
	t.Helper()

	db, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := sqlite.NewUserRepository(db)
	require.NoError(t, repo.Init(context.Background()))

	// MinCost keeps the hashing fast in tests
	return NewUserService(repo, bcrypt.MinCost)
}

func TestVerifyPassword(t *testing.T) {
	t.Parallel()

	hash, err := bcrypt.GenerateFromPassword([]byte("examplePass"), bcrypt.MinCost)
	require.NoError(t, err)

	require.True(t, VerifyPassword("examplePass", string(hash)))
	require.False(t, VerifyPassword("wrongPassword", string(hash)))
	require.False(t, VerifyPassword("examplePass", "not-a-bcrypt-hash"))
	require.False(t, VerifyPassword("examplePass", ""))
}

func TestHashPassword_FreshSaltPerCall(t *testing.T) {
	t.Parallel()

	first, err := bcrypt.GenerateFromPassword([]byte("examplePass"), bcrypt.MinCost)
	require.NoError(t, err)
	second, err := bcrypt.GenerateFromPassword([]byte("examplePass"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NotEqual(t, string(first), string(second))
}

func TestUserService_Register(t *testing.T) {
	svc := newUserService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "exampleUser", "examplePass", "  Example User  ")
	require.NoError(t, err)
	require.NotEmpty(t, user.ID)
	require.Equal(t, "exampleUser", user.Username)
	require.Equal(t, "Example User", user.FullName)
	require.Empty(t, user.PasswordHash)

	_, err = svc.Register(ctx, "exampleUser", "otherPass123", "")
	require.ErrorIs(t, err, domain.ErrDuplicateUsername)
}

func TestUserService_Authenticate(t *testing.T) {
	svc := newUserService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "exampleUser", "examplePass", "Example User")
	require.NoError(t, err)

	user, err := svc.Authenticate(ctx, "exampleUser", "examplePass")
	require.NoError(t, err)
	require.Equal(t, "exampleUser", user.Username)
	require.Empty(t, user.PasswordHash)

	_, err = svc.Authenticate(ctx, "exampleUser", "wrongPassword")
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)

	// unknown user and wrong password are the same failure
	_, err = svc.Authenticate(ctx, "nobody", "examplePass")
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestUserService_ListSanitized(t *testing.T) {
	svc := newUserService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "userA", "examplePass", "A")
	require.NoError(t, err)
	_, err = svc.Register(ctx, "userB", "examplePass", "B")
	require.NoError(t, err)

	users, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	for _, u := range users {
		require.Empty(t, u.PasswordHash)
	}
}
