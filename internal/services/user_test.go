package services

import (
	"context"
	"testing"
	"time"

	"slotpoll/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserServiceForTest(repo *fakeUserRepo) domain.UserService {
	return NewUserService(repo, fakeHasher{}, fakeTokenIssuer{}, time.Hour, testTimeout)
}

func TestUserService_SignUp(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		userName string
		email    string
		password string
		wantErr  error
	}{
		{name: "success", userName: "Alice", email: "Alice@Example.com", password: "supersecret"},
		{name: "missing name", userName: " ", email: "a@b.com", password: "supersecret", wantErr: domain.ErrValidation},
		{name: "bad email", userName: "Alice", email: "not-an-email", password: "supersecret", wantErr: domain.ErrValidation},
		{name: "short password", userName: "Alice", email: "a@b.com", password: "short", wantErr: domain.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeUserRepo()
			svc := newUserServiceForTest(repo)

			user, err := svc.SignUp(ctx, tt.userName, tt.email, tt.password)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, user.ID)
			assert.Equal(t, "alice@example.com", user.Email)
			assert.Equal(t, "hashed:supersecret", user.PasswordHash)
		})
	}

	t.Run("duplicate email", func(t *testing.T) {
		repo := newFakeUserRepo()
		svc := newUserServiceForTest(repo)

		_, err := svc.SignUp(ctx, "Alice", "alice@example.com", "supersecret")
		require.NoError(t, err)
		_, err = svc.SignUp(ctx, "Other Alice", "alice@example.com", "differentpw")
		require.ErrorIs(t, err, domain.ErrDuplicateEmail)
	})
}

func TestUserService_Login(t *testing.T) {
	ctx := context.Background()
	repo := newFakeUserRepo()
	svc := newUserServiceForTest(repo)

	created, err := svc.SignUp(ctx, "Alice", "alice@example.com", "supersecret")
	require.NoError(t, err)

	t.Run("success", func(t *testing.T) {
		token, user, err := svc.Login(ctx, "Alice@Example.com", "supersecret")
		require.NoError(t, err)
		assert.Equal(t, "token-"+created.ID, token)
		assert.Equal(t, created.ID, user.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "alice@example.com", "wrongpassword")
		require.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "nobody@example.com", "supersecret")
		require.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})
}

func TestUserService_GetByID(t *testing.T) {
	ctx := context.Background()
	repo := newFakeUserRepo()
	svc := newUserServiceForTest(repo)

	created, err := svc.SignUp(ctx, "Alice", "alice@example.com", "supersecret")
	require.NoError(t, err)

	got, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Email, got.Email)

	_, err = svc.GetByID(ctx, "user-missing")
	require.ErrorIs(t, err, domain.ErrUserNotFound)
}
