package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/aawaaz/civic-complaints-server/internal/models"
	"github.com/aawaaz/civic-complaints-server/internal/storage"
)

// AccountService handles registration, login and profile management.
type AccountService struct {
	users  storage.UserStore
	tokens *TokenService
	logger *zap.SugaredLogger
}

// NewAccountService creates a new account service.
func NewAccountService(users storage.UserStore, tokens *TokenService, logger *zap.SugaredLogger) *AccountService {
	return &AccountService{users: users, tokens: tokens, logger: logger}
}

// RegisterInput is the citizen sign-up payload.
type RegisterInput struct {
	Username string         `json:"username"`
	Email    string         `json:"email"`
	Password string         `json:"password"`
	Profile  models.Profile `json:"profile"`
}

// Register creates a citizen account.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	if in.Username == "" || in.Email == "" || in.Password == "" {
		return nil, Validationf("username, email and password are required")
	}
	if len(in.Password) < 6 {
		return nil, Validationf("password must be at least 6 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.New(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         models.RoleCitizen,
		Profile:      in.Profile,
		IsActive:     true,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Infow("User registered", "id", user.ID, "username", user.Username)
	return user, nil
}

// Login verifies credentials and mints a token. Blocked accounts are
// rejected the same way as bad credentials.
func (s *AccountService) Login(ctx context.Context, username, password string) (string, *models.User, error) {
	user, err := s.users.GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", nil, fmt.Errorf("%w: invalid credentials", ErrAuthentication)
		}
		return "", nil, fmt.Errorf("load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, fmt.Errorf("%w: invalid credentials", ErrAuthentication)
	}
	if !user.IsActive {
		return "", nil, fmt.Errorf("%w: account is blocked", ErrAuthentication)
	}

	token, err := s.tokens.Mint(user)
	if err != nil {
		return "", nil, err
	}

	s.logger.Infow("User logged in", "id", user.ID, "username", user.Username)
	return token, user, nil
}

// Get loads an account by id.
func (s *AccountService) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: user %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	return user, nil
}

// UpdateProfile applies self-service profile edits for the acting user.
func (s *AccountService) UpdateProfile(ctx context.Context, actor models.Identity, email string, profile models.Profile) (*models.User, error) {
	user, err := s.Get(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	if email != "" {
		user.Email = strings.ToLower(strings.TrimSpace(email))
	}
	user.Profile = profile

	if err := s.users.UpdateUserProfile(ctx, user); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return user, nil
}

// SetActive blocks or unblocks a citizen account. Admin accounts cannot be
// blocked through this path.
func (s *AccountService) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	user, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if user.Role != models.RoleCitizen {
		return fmt.Errorf("%w: user %s", ErrNotFound, id)
	}

	if err := s.users.SetUserActive(ctx, id, active); err != nil {
		return fmt.Errorf("set user active: %w", err)
	}

	s.logger.Infow("User status changed", "id", id, "active", active)
	return nil
}

// ListCitizens returns a page of citizen accounts for the admin console.
func (s *AccountService) ListCitizens(ctx context.Context, isActive *bool, page, limit int) ([]models.User, models.Pagination, error) {
	users, total, err := s.users.ListUsers(ctx, models.RoleCitizen, isActive, page, limit)
	if err != nil {
		return nil, models.Pagination{}, fmt.Errorf("list users: %w", err)
	}
	return users, NewPagination(page, limit, total), nil
}
