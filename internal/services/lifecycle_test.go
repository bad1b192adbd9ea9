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

	"github.com/aawaaz/civic-complaints-server/internal/models"
	"github.com/aawaaz/civic-complaints-server/internal/storage"
)

func newLifecycle(t *testing.T) (*LifecycleService, *MockComplaintStore, *MockStatusLogStore) {
	t.Helper()
	complaints := new(MockComplaintStore)
	statusLog := new(MockStatusLogStore)
	svc := NewLifecycleService(complaints, statusLog, zap.NewNop().Sugar())
	return svc, complaints, statusLog
}

func ptr[T any](v T) *T { return &v }

func TestSubmitRegistered(t *testing.T) {
	svc, complaints, statusLog := newLifecycle(t)
	actor := models.Identity{ID: uuid.New(), Username: "jane", Role: models.RoleCitizen}

	var created *models.Complaint
	complaints.On("Create", mock.Anything, mock.AnythingOfType("*models.Complaint")).
		Run(func(args mock.Arguments) { created = args.Get(1).(*models.Complaint) }).
		Return(nil)

	var appended *models.StatusUpdate
	statusLog.On("Append", mock.Anything, mock.AnythingOfType("*models.StatusUpdate")).
		Run(func(args mock.Arguments) { appended = args.Get(1).(*models.StatusUpdate) }).
		Return(nil)

	complaint, err := svc.Submit(context.Background(), SubmitInput{
		Title:       "Pothole on Elm Street",
		Description: "Deep pothole near the intersection",
		Category:    "pothole",
		Latitude:    ptr(40.5),
		Longitude:   ptr(-74.2),
		Address:     "Elm Street",
	}, &actor)
	require.NoError(t, err)

	require.NotNil(t, created)
	assert.Equal(t, models.StatusPending, created.Status)
	assert.Equal(t, models.PriorityMedium, created.Priority)
	assert.Equal(t, models.DeptRoads, created.AssignedDepartment)
	require.NotNil(t, created.CitizenID)
	assert.Equal(t, actor.ID, *created.CitizenID)
	assert.Nil(t, created.AnonymousInfo)

	// Exactly one audit entry, mirroring the new complaint.
	statusLog.AssertNumberOfCalls(t, "Append", 1)
	require.NotNil(t, appended)
	assert.Equal(t, complaint.ID, appended.ComplaintID)
	assert.Equal(t, models.StatusPending, appended.Status)
	assert.Equal(t, "Complaint submitted", appended.Comment)
	assert.Equal(t, "jane", appended.UpdatedBy)
}

func TestSubmitAnonymous(t *testing.T) {
	svc, complaints, statusLog := newLifecycle(t)

	var created *models.Complaint
	complaints.On("Create", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { created = args.Get(1).(*models.Complaint) }).
		Return(nil)

	var appended *models.StatusUpdate
	statusLog.On("Append", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { appended = args.Get(1).(*models.StatusUpdate) }).
		Return(nil)

	_, err := svc.Submit(context.Background(), SubmitInput{
		Title:       "Overflowing bins",
		Description: "Garbage not collected for a week",
		Category:    "garbage",
		Latitude:    ptr(40.5),
		Longitude:   ptr(-74.2),
		ContactName: "A Neighbor",
	}, nil)
	require.NoError(t, err)

	require.NotNil(t, created)
	assert.Nil(t, created.CitizenID)
	require.NotNil(t, created.AnonymousInfo)
	assert.Equal(t, "A Neighbor", created.AnonymousInfo.Name)
	assert.Equal(t, "Anonymous", appended.UpdatedBy)
}

func TestSubmitAuthenticatedButAnonymous(t *testing.T) {
	svc, complaints, statusLog := newLifecycle(t)
	actor := models.Identity{ID: uuid.New(), Username: "jane", Role: models.RoleCitizen}

	var created *models.Complaint
	complaints.On("Create", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { created = args.Get(1).(*models.Complaint) }).
		Return(nil)
	statusLog.On("Append", mock.Anything, mock.Anything).Return(nil)

	_, err := svc.Submit(context.Background(), SubmitInput{
		Title:       "Water leak",
		Description: "Burst pipe on the corner",
		Category:    "water",
		Latitude:    ptr(1.0),
		Longitude:   ptr(2.0),
		Anonymous:   true,
	}, &actor)
	require.NoError(t, err)

	// The account link is dropped when the citizen opts out.
	assert.Nil(t, created.CitizenID)
	require.NotNil(t, created.AnonymousInfo)
}

func TestSubmitValidation(t *testing.T) {
	svc, _, _ := newLifecycle(t)

	tests := []struct {
		name string
		in   SubmitInput
	}{
		{name: "missing title", in: SubmitInput{Description: "d", Category: "pothole", Latitude: ptr(1.0), Longitude: ptr(2.0)}},
		{name: "missing coordinates", in: SubmitInput{Title: "t", Description: "d", Category: "pothole"}},
		{name: "bad category", in: SubmitInput{Title: "t", Description: "d", Category: "nonsense", Latitude: ptr(1.0), Longitude: ptr(2.0)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Submit(context.Background(), tt.in, nil)
			assert.True(t, errors.Is(err, ErrValidation))
		})
	}
}

func TestSubmitSurvivesAuditFailure(t *testing.T) {
	svc, complaints, statusLog := newLifecycle(t)

	complaints.On("Create", mock.Anything, mock.Anything).Return(nil)
	statusLog.On("Append", mock.Anything, mock.Anything).Return(errors.New("db down"))

	// The primary write stands even when the audit append fails.
	complaint, err := svc.Submit(context.Background(), SubmitInput{
		Title:       "t",
		Description: "d",
		Category:    "other",
		Latitude:    ptr(1.0),
		Longitude:   ptr(2.0),
	}, nil)
	require.NoError(t, err)
	assert.NotNil(t, complaint)
}

func TestUpdateStatus(t *testing.T) {
	svc, complaints, statusLog := newLifecycle(t)
	id := uuid.New()
	admin := models.Identity{ID: uuid.New(), Username: "admin", Role: models.RoleAdmin}

	existing := &models.Complaint{
		ID:                 id,
		Status:             models.StatusResolved,
		AssignedDepartment: models.DeptRoads,
	}
	complaints.On("Get", mock.Anything, id).Return(existing, nil)
	complaints.On("Update", mock.Anything, mock.Anything).Return(nil)

	var appended *models.StatusUpdate
	statusLog.On("Append", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { appended = args.Get(1).(*models.StatusUpdate) }).
		Return(nil)

	// Backward moves are legal; resolved may return to pending.
	err := svc.UpdateStatus(context.Background(), id, UpdateStatusInput{
		Status:  "pending",
		Comment: "Reopening after inspection",
	}, admin)
	require.NoError(t, err)

	statusLog.AssertNumberOfCalls(t, "Append", 1)
	assert.Equal(t, models.StatusPending, appended.Status)
	assert.Equal(t, "Reopening after inspection", appended.Comment)
	assert.Equal(t, "admin", appended.UpdatedBy)
}

func TestUpdateStatusNotFound(t *testing.T) {
	svc, complaints, _ := newLifecycle(t)
	id := uuid.New()

	complaints.On("Get", mock.Anything, id).Return(nil, storage.ErrNotFound)

	err := svc.UpdateStatus(context.Background(), id, UpdateStatusInput{Status: "resolved"},
		models.Identity{Username: "admin", Role: models.RoleAdmin})
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestTransferDefaultComment(t *testing.T) {
	svc, complaints, statusLog := newLifecycle(t)
	id := uuid.New()

	existing := &models.Complaint{
		ID:                 id,
		Status:             models.StatusInProgress,
		AssignedDepartment: models.DeptRoads,
	}
	complaints.On("Get", mock.Anything, id).Return(existing, nil)
	complaints.On("Update", mock.Anything, mock.Anything).Return(nil)

	var appended *models.StatusUpdate
	statusLog.On("Append", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { appended = args.Get(1).(*models.StatusUpdate) }).
		Return(nil)

	err := svc.Transfer(context.Background(), id, "water", "",
		models.Identity{Username: "admin", Role: models.RoleAdmin})
	require.NoError(t, err)

	assert.Equal(t, "Transferred from roads to water", appended.Comment)
	assert.Equal(t, models.StatusInProgress, appended.Status)
	assert.Equal(t, models.DeptWater, appended.Department)
}

func TestVoteFirstVote(t *testing.T) {
	svc, complaints, _ := newLifecycle(t)
	id := uuid.New()
	voter := models.Identity{ID: uuid.New(), Username: "jane", Role: models.RoleCitizen}

	existing := &models.Complaint{ID: id, Status: models.StatusPending}
	complaints.On("Get", mock.Anything, id).Return(existing, nil)
	complaints.On("SetVote", mock.Anything, id, models.Vote{UserID: voter.ID, Type: models.VoteUp}).Return(nil)
	complaints.On("SetVoteCount", mock.Anything, id, 1).Return(nil)

	count, err := svc.Vote(context.Background(), id, "upvote", voter)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestVoteRepeatIsNoop(t *testing.T) {
	svc, complaints, _ := newLifecycle(t)
	id := uuid.New()
	voter := models.Identity{ID: uuid.New(), Username: "jane", Role: models.RoleCitizen}

	existing := &models.Complaint{
		ID:        id,
		Votes:     []models.Vote{{UserID: voter.ID, Type: models.VoteUp}},
		VoteCount: 1,
	}
	complaints.On("Get", mock.Anything, id).Return(existing, nil)

	count, err := svc.Vote(context.Background(), id, "upvote", voter)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// No write happened.
	complaints.AssertNotCalled(t, "SetVote", mock.Anything, mock.Anything, mock.Anything)
	complaints.AssertNotCalled(t, "SetVoteCount", mock.Anything, mock.Anything, mock.Anything)
}

func TestVoteInvalidType(t *testing.T) {
	svc, _, _ := newLifecycle(t)

	_, err := svc.Vote(context.Background(), uuid.New(), "sideways",
		models.Identity{ID: uuid.New(), Role: models.RoleCitizen})
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestSubmitFeedback(t *testing.T) {
	svc, complaints, _ := newLifecycle(t)
	id := uuid.New()
	owner := models.Identity{ID: uuid.New(), Username: "jane", Role: models.RoleCitizen}

	resolved := &models.Complaint{
		ID:        id,
		Status:    models.StatusResolved,
		CitizenID: &owner.ID,
	}
	complaints.On("Get", mock.Anything, id).Return(resolved, nil)
	complaints.On("SetFeedback", mock.Anything, id, mock.AnythingOfType("models.Feedback")).Return(nil)

	err := svc.SubmitFeedback(context.Background(), id, 4, "Fixed quickly", owner)
	require.NoError(t, err)
}

func TestSubmitFeedbackRejections(t *testing.T) {
	ownerID := uuid.New()
	strangerID := uuid.New()

	tests := []struct {
		name      string
		complaint *models.Complaint
		actor     models.Identity
		rating    int
		wantErr   error
	}{
		{
			name:      "rating out of range",
			complaint: &models.Complaint{Status: models.StatusResolved, CitizenID: &ownerID},
			actor:     models.Identity{ID: ownerID},
			rating:    6,
			wantErr:   ErrValidation,
		},
		{
			name:      "not resolved",
			complaint: &models.Complaint{Status: models.StatusInProgress, CitizenID: &ownerID},
			actor:     models.Identity{ID: ownerID},
			rating:    4,
			wantErr:   ErrState,
		},
		{
			name:      "not the owner",
			complaint: &models.Complaint{Status: models.StatusResolved, CitizenID: &ownerID},
			actor:     models.Identity{ID: strangerID},
			rating:    4,
			wantErr:   ErrAuthorization,
		},
		{
			name:      "anonymous complaint",
			complaint: &models.Complaint{Status: models.StatusResolved, AnonymousInfo: &models.AnonymousInfo{}},
			actor:     models.Identity{ID: ownerID},
			rating:    4,
			wantErr:   ErrAuthorization,
		},
		{
			name: "already submitted",
			complaint: &models.Complaint{
				Status:    models.StatusResolved,
				CitizenID: &ownerID,
				Feedback:  &models.Feedback{Rating: 5},
			},
			actor:   models.Identity{ID: ownerID},
			rating:  4,
			wantErr: ErrAuthorization,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, complaints, _ := newLifecycle(t)
			tt.complaint.ID = uuid.New()
			complaints.On("Get", mock.Anything, tt.complaint.ID).Return(tt.complaint, nil)

			err := svc.SubmitFeedback(context.Background(), tt.complaint.ID, tt.rating, "", tt.actor)
			assert.True(t, errors.Is(err, tt.wantErr))
			complaints.AssertNotCalled(t, "SetFeedback", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestAdminUpdate(t *testing.T) {
	svc, complaints, statusLog := newLifecycle(t)
	id := uuid.New()
	admin := models.Identity{ID: uuid.New(), Username: "admin", Role: models.RoleAdmin}
	deadline := time.Now().Add(72 * time.Hour)

	existing := &models.Complaint{
		ID:                 id,
		Status:             models.StatusPending,
		Priority:           models.PriorityMedium,
		AssignedDepartment: models.DeptGeneral,
	}
	complaints.On("Get", mock.Anything, id).Return(existing, nil)

	var updated *models.Complaint
	complaints.On("Update", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { updated = args.Get(1).(*models.Complaint) }).
		Return(nil)
	complaints.On("AddNote", mock.Anything, id, mock.AnythingOfType("models.InternalNote")).Return(nil)

	var appended *models.StatusUpdate
	statusLog.On("Append", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { appended = args.Get(1).(*models.StatusUpdate) }).
		Return(nil)

	err := svc.AdminUpdate(context.Background(), id, AdminUpdateInput{
		Status:       ptr("in_progress"),
		Priority:     ptr("emergency"),
		Escalated:    ptr(true),
		Deadline:     &deadline,
		InternalNote: "Crew dispatched",
	}, admin)
	require.NoError(t, err)

	assert.Equal(t, models.StatusInProgress, updated.Status)
	assert.Equal(t, models.PriorityUrgent, updated.Priority)
	assert.True(t, updated.Escalated)
	require.NotNil(t, updated.Deadline)

	statusLog.AssertNumberOfCalls(t, "Append", 1)
	assert.Equal(t, models.StatusInProgress, appended.Status)
	assert.Equal(t, "Crew dispatched", appended.Comment)
}

func TestAdminUpdateDefaultComment(t *testing.T) {
	svc, complaints, statusLog := newLifecycle(t)
	id := uuid.New()

	complaints.On("Get", mock.Anything, id).Return(&models.Complaint{ID: id, Status: models.StatusPending}, nil)
	complaints.On("Update", mock.Anything, mock.Anything).Return(nil)

	var appended *models.StatusUpdate
	statusLog.On("Append", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { appended = args.Get(1).(*models.StatusUpdate) }).
		Return(nil)

	err := svc.AdminUpdate(context.Background(), id, AdminUpdateInput{
		Priority: ptr("high"),
	}, models.Identity{Username: "admin", Role: models.RoleAdmin})
	require.NoError(t, err)

	// No note means no AddNote call and a generic audit comment.
	complaints.AssertNotCalled(t, "AddNote", mock.Anything, mock.Anything, mock.Anything)
	assert.Equal(t, "Updated by admin", appended.Comment)
}

func TestListPublicDefaultsToPending(t *testing.T) {
	svc, complaints, _ := newLifecycle(t)

	complaints.On("ListPublic", mock.Anything, models.StatusPending).
		Return([]models.Complaint{{ID: uuid.New(), Title: "t", VoteCount: 2}}, nil)

	public, err := svc.ListPublic(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, public, 1)
	assert.Equal(t, 2, public[0].VoteCount)
}

func TestListPublicRejectsBadStatus(t *testing.T) {
	svc, _, _ := newLifecycle(t)

	_, err := svc.ListPublic(context.Background(), "bogus")
	assert.True(t, errors.Is(err, ErrValidation))
}
