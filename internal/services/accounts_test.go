package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/aawaaz/civic-complaints-server/internal/models"
	"github.com/aawaaz/civic-complaints-server/internal/storage"
)

func newAccounts(t *testing.T) (*AccountService, *MockUserStore) {
	t.Helper()
	users := new(MockUserStore)
	tokens := NewTokenService("test-secret", time.Hour)
	return NewAccountService(users, tokens, zap.NewNop().Sugar()), users
}

func TestRegister(t *testing.T) {
	svc, users := newAccounts(t)

	var created *models.User
	users.On("CreateUser", mock.Anything, mock.AnythingOfType("*models.User")).
		Run(func(args mock.Arguments) { created = args.Get(1).(*models.User) }).
		Return(nil)

	user, err := svc.Register(context.Background(), RegisterInput{
		Username: "  jane  ",
		Email:    "Jane@Example.COM",
		Password: "hunter22",
	})
	require.NoError(t, err)

	assert.Equal(t, "jane", user.Username)
	assert.Equal(t, "jane@example.com", user.Email)
	assert.Equal(t, models.RoleCitizen, user.Role)
	assert.True(t, user.IsActive)

	// The stored hash verifies against the original password.
	require.NotNil(t, created)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("hunter22")))
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newAccounts(t)

	tests := []struct {
		name string
		in   RegisterInput
	}{
		{name: "missing fields", in: RegisterInput{Username: "jane"}},
		{name: "short password", in: RegisterInput{Username: "jane", Email: "j@e.com", Password: "12345"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tt.in)
			assert.True(t, errors.Is(err, ErrValidation))
		})
	}
}

func TestLogin(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter22"), bcrypt.MinCost)
	require.NoError(t, err)
	account := &models.User{
		ID:           uuid.New(),
		Username:     "jane",
		PasswordHash: string(hash),
		Role:         models.RoleCitizen,
		IsActive:     true,
	}

	t.Run("success", func(t *testing.T) {
		svc, users := newAccounts(t)
		users.On("GetUserByUsername", mock.Anything, "jane").Return(account, nil)

		token, user, err := svc.Login(context.Background(), "jane", "hunter22")
		require.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Equal(t, account.ID, user.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		svc, users := newAccounts(t)
		users.On("GetUserByUsername", mock.Anything, "jane").Return(account, nil)

		_, _, err := svc.Login(context.Background(), "jane", "wrong")
		assert.True(t, errors.Is(err, ErrAuthentication))
	})

	t.Run("unknown user", func(t *testing.T) {
		svc, users := newAccounts(t)
		users.On("GetUserByUsername", mock.Anything, "nobody").Return(nil, storage.ErrNotFound)

		_, _, err := svc.Login(context.Background(), "nobody", "hunter22")
		assert.True(t, errors.Is(err, ErrAuthentication))
	})

	t.Run("blocked account", func(t *testing.T) {
		blocked := *account
		blocked.IsActive = false
		svc, users := newAccounts(t)
		users.On("GetUserByUsername", mock.Anything, "jane").Return(&blocked, nil)

		_, _, err := svc.Login(context.Background(), "jane", "hunter22")
		assert.True(t, errors.Is(err, ErrAuthentication))
	})
}

func TestSetActive(t *testing.T) {
	t.Run("blocks a citizen", func(t *testing.T) {
		svc, users := newAccounts(t)
		id := uuid.New()
		users.On("GetUserByID", mock.Anything, id).
			Return(&models.User{ID: id, Role: models.RoleCitizen, IsActive: true}, nil)
		users.On("SetUserActive", mock.Anything, id, false).Return(nil)

		require.NoError(t, svc.SetActive(context.Background(), id, false))
	})

	t.Run("admin accounts are untouchable", func(t *testing.T) {
		svc, users := newAccounts(t)
		id := uuid.New()
		users.On("GetUserByID", mock.Anything, id).
			Return(&models.User{ID: id, Role: models.RoleAdmin, IsActive: true}, nil)

		err := svc.SetActive(context.Background(), id, false)
		assert.True(t, errors.Is(err, ErrNotFound))
		users.AssertNotCalled(t, "SetUserActive", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestListCitizens(t *testing.T) {
	svc, users := newAccounts(t)
	active := true
	users.On("ListUsers", mock.Anything, models.RoleCitizen, &active, 2, 5).
		Return([]models.User{{Username: "jane"}}, int64(12), nil)

	list, pagination, err := svc.ListCitizens(context.Background(), &active, 2, 5)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, models.Pagination{Page: 2, Limit: 5, Total: 12, Pages: 3}, pagination)
}
