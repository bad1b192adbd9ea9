package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/aawaaz/civic-complaints-server/internal/models"
	"github.com/aawaaz/civic-complaints-server/internal/storage"
)

type MockComplaintStore struct {
	mock.Mock
}

func (m *MockComplaintStore) Create(ctx context.Context, c *models.Complaint) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockComplaintStore) Get(ctx context.Context, id uuid.UUID) (*models.Complaint, error) {
	args := m.Called(ctx, id)
	if c := args.Get(0); c != nil {
		return c.(*models.Complaint), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockComplaintStore) Update(ctx context.Context, c *models.Complaint) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockComplaintStore) List(ctx context.Context, filter storage.ComplaintFilter, page, limit int) ([]models.Complaint, int64, error) {
	args := m.Called(ctx, filter, page, limit)
	return args.Get(0).([]models.Complaint), args.Get(1).(int64), args.Error(2)
}

func (m *MockComplaintStore) ListPublic(ctx context.Context, status models.Status) ([]models.Complaint, error) {
	args := m.Called(ctx, status)
	return args.Get(0).([]models.Complaint), args.Error(1)
}

func (m *MockComplaintStore) ListByCitizen(ctx context.Context, citizenID uuid.UUID) ([]models.Complaint, error) {
	args := m.Called(ctx, citizenID)
	return args.Get(0).([]models.Complaint), args.Error(1)
}

func (m *MockComplaintStore) SetVote(ctx context.Context, complaintID uuid.UUID, vote models.Vote) error {
	args := m.Called(ctx, complaintID, vote)
	return args.Error(0)
}

func (m *MockComplaintStore) ListVotes(ctx context.Context, complaintID uuid.UUID) ([]models.Vote, error) {
	args := m.Called(ctx, complaintID)
	return args.Get(0).([]models.Vote), args.Error(1)
}

func (m *MockComplaintStore) SetVoteCount(ctx context.Context, complaintID uuid.UUID, count int) error {
	args := m.Called(ctx, complaintID, count)
	return args.Error(0)
}

func (m *MockComplaintStore) AddNote(ctx context.Context, complaintID uuid.UUID, note models.InternalNote) error {
	args := m.Called(ctx, complaintID, note)
	return args.Error(0)
}

func (m *MockComplaintStore) SetFeedback(ctx context.Context, complaintID uuid.UUID, fb models.Feedback) error {
	args := m.Called(ctx, complaintID, fb)
	return args.Error(0)
}

type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) CreateUser(ctx context.Context, u *models.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserStore) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserStore) UpdateUserProfile(ctx context.Context, u *models.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserStore) SetUserActive(ctx context.Context, id uuid.UUID, active bool) error {
	args := m.Called(ctx, id, active)
	return args.Error(0)
}

func (m *MockUserStore) ListUsers(ctx context.Context, role models.Role, isActive *bool, page, limit int) ([]models.User, int64, error) {
	args := m.Called(ctx, role, isActive, page, limit)
	return args.Get(0).([]models.User), args.Get(1).(int64), args.Error(2)
}

type MockStatusLogStore struct {
	mock.Mock
}

func (m *MockStatusLogStore) Append(ctx context.Context, u *models.StatusUpdate) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockStatusLogStore) ListByComplaint(ctx context.Context, complaintID uuid.UUID) ([]models.StatusUpdate, error) {
	args := m.Called(ctx, complaintID)
	return args.Get(0).([]models.StatusUpdate), args.Error(1)
}
