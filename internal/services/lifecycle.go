package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aawaaz/civic-complaints-server/internal/models"
	"github.com/aawaaz/civic-complaints-server/internal/storage"
)

// LifecycleService orchestrates complaint creation, status transitions,
// assignment, voting and feedback. Every status-affecting operation
// appends exactly one StatusUpdate after the primary write; a failed
// append is logged and accepted rather than rolled back.
type LifecycleService struct {
	complaints storage.ComplaintStore
	statusLog  storage.StatusLogStore
	logger     *zap.SugaredLogger
}

// NewLifecycleService creates a new lifecycle service.
func NewLifecycleService(complaints storage.ComplaintStore, statusLog storage.StatusLogStore, logger *zap.SugaredLogger) *LifecycleService {
	return &LifecycleService{complaints: complaints, statusLog: statusLog, logger: logger}
}

// SubmitInput is the complaint submission payload. Latitude and longitude
// are pointers so that absent and zero coordinates are distinguishable.
type SubmitInput struct {
	Title        string
	Description  string
	Category     string
	Latitude     *float64
	Longitude    *float64
	Address      string
	ImageURL     string
	Anonymous    bool
	ContactName  string
	ContactEmail string
	ContactPhone string
}

// Submit files a new complaint. The actor may be nil for anonymous
// submissions; an authenticated citizen may still choose to stay anonymous.
func (s *LifecycleService) Submit(ctx context.Context, in SubmitInput, actor *models.Identity) (*models.Complaint, error) {
	if in.Title == "" || in.Description == "" || in.Category == "" {
		return nil, Validationf("title, description and category are required")
	}
	if in.Latitude == nil || in.Longitude == nil {
		return nil, Validationf("latitude and longitude are required")
	}
	category, err := models.ParseCategory(in.Category)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	now := time.Now()
	complaint := &models.Complaint{
		ID:          uuid.New(),
		Title:       in.Title,
		Description: in.Description,
		Category:    category,
		Location: models.Location{
			Latitude:  *in.Latitude,
			Longitude: *in.Longitude,
			Address:   in.Address,
		},
		ImageURL:           in.ImageURL,
		Status:             models.StatusPending,
		Priority:           models.PriorityMedium,
		AssignedDepartment: models.DefaultDepartment(category),
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	// Exactly one owner representation: a linked citizen account, or
	// anonymous contact info.
	updatedBy := "Anonymous"
	if actor != nil && actor.Role == models.RoleCitizen && !in.Anonymous {
		owner := models.RegisteredOwner(actor.ID)
		id, _ := owner.CitizenID()
		complaint.CitizenID = &id
		updatedBy = actor.Username
	} else {
		owner := models.AnonymousOwner(models.AnonymousInfo{
			Name:  in.ContactName,
			Email: in.ContactEmail,
			Phone: in.ContactPhone,
		})
		info, _ := owner.Anonymous()
		complaint.AnonymousInfo = &info
	}

	if err := s.complaints.Create(ctx, complaint); err != nil {
		return nil, fmt.Errorf("create complaint: %w", err)
	}

	s.appendStatus(ctx, complaint, "Complaint submitted", updatedBy)

	s.logger.Infow("Complaint submitted",
		"id", complaint.ID,
		"category", complaint.Category,
		"department", complaint.AssignedDepartment,
		"anonymous", complaint.CitizenID == nil,
	)
	return complaint, nil
}

// Get loads a complaint with its full status history.
func (s *LifecycleService) Get(ctx context.Context, id uuid.UUID) (*models.Complaint, []models.StatusUpdate, error) {
	complaint, err := s.load(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	updates, err := s.statusLog.ListByComplaint(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("load status history: %w", err)
	}
	return complaint, updates, nil
}

// List returns a filtered admin page of complaints.
func (s *LifecycleService) List(ctx context.Context, filter storage.ComplaintFilter, page, limit int) ([]models.Complaint, models.Pagination, error) {
	complaints, total, err := s.complaints.List(ctx, filter, page, limit)
	if err != nil {
		return nil, models.Pagination{}, fmt.Errorf("list complaints: %w", err)
	}
	return complaints, NewPagination(page, limit, total), nil
}

// ListPublic returns the citizen-facing projection of complaints in a
// status (default pending).
func (s *LifecycleService) ListPublic(ctx context.Context, rawStatus string) ([]models.PublicComplaint, error) {
	status := models.StatusPending
	if rawStatus != "" {
		parsed, err := models.ParseStatus(rawStatus)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		status = parsed
	}

	complaints, err := s.complaints.ListPublic(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("list public complaints: %w", err)
	}

	public := make([]models.PublicComplaint, 0, len(complaints))
	for i := range complaints {
		public = append(public, complaints[i].Public())
	}
	return public, nil
}

// ListByCitizen returns the actor's own complaints.
func (s *LifecycleService) ListByCitizen(ctx context.Context, actor models.Identity) ([]models.Complaint, error) {
	complaints, err := s.complaints.ListByCitizen(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("list citizen complaints: %w", err)
	}
	return complaints, nil
}

// UpdateStatusInput carries an admin status change.
type UpdateStatusInput struct {
	Status     string
	Comment    string
	Department string
	AssignedTo string
}

// UpdateStatus moves a complaint to a new status. Any status may follow
// any other; there is deliberately no enforced transition graph.
func (s *LifecycleService) UpdateStatus(ctx context.Context, id uuid.UUID, in UpdateStatusInput, actor models.Identity) error {
	if in.Status == "" {
		return Validationf("status is required")
	}
	status, err := models.ParseStatus(in.Status)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	complaint, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	complaint.Status = status
	if in.Department != "" {
		dept, err := models.ParseDepartment(in.Department)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrValidation, err)
		}
		complaint.AssignedDepartment = dept
	}
	if in.AssignedTo != "" {
		complaint.AssignedTo = in.AssignedTo
	}

	if err := s.complaints.Update(ctx, complaint); err != nil {
		return fmt.Errorf("update complaint: %w", err)
	}

	s.appendStatus(ctx, complaint, in.Comment, actor.Username)

	s.logger.Infow("Complaint status updated",
		"id", id, "status", status, "by", actor.Username)
	return nil
}

// Transfer moves a complaint to another department without touching its
// status. The audit entry carries the current status.
func (s *LifecycleService) Transfer(ctx context.Context, id uuid.UUID, department, comment string, actor models.Identity) error {
	if department == "" {
		return Validationf("department is required")
	}
	dept, err := models.ParseDepartment(department)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	complaint, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	old := complaint.AssignedDepartment
	complaint.AssignedDepartment = dept
	if err := s.complaints.Update(ctx, complaint); err != nil {
		return fmt.Errorf("update complaint: %w", err)
	}

	if comment == "" {
		comment = fmt.Sprintf("Transferred from %s to %s", old, dept)
	}
	s.appendStatus(ctx, complaint, comment, actor.Username)

	s.logger.Infow("Complaint transferred",
		"id", id, "from", old, "to", dept, "by", actor.Username)
	return nil
}

// Vote records an authenticated vote and returns the recomputed count.
// Re-voting with the same type is a no-op; the opposite type flips the
// stored vote.
func (s *LifecycleService) Vote(ctx context.Context, id uuid.UUID, rawType string, actor models.Identity) (int, error) {
	voteType, err := models.ParseVoteType(rawType)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	complaint, err := s.load(ctx, id)
	if err != nil {
		return 0, err
	}

	updated, changed := ApplyVote(complaint.Votes, actor.ID, voteType)
	if !changed {
		return complaint.VoteCount, nil
	}

	if err := s.complaints.SetVote(ctx, id, models.Vote{UserID: actor.ID, Type: voteType}); err != nil {
		return 0, fmt.Errorf("record vote: %w", err)
	}

	count := CountVotes(updated)
	if err := s.complaints.SetVoteCount(ctx, id, count); err != nil {
		return 0, fmt.Errorf("update vote count: %w", err)
	}
	return count, nil
}

// SubmitFeedback stores the one-shot rating for a resolved complaint.
// Only the registered owner may submit; anonymous complaints can never
// receive feedback.
func (s *LifecycleService) SubmitFeedback(ctx context.Context, id uuid.UUID, rating int, comment string, actor models.Identity) error {
	if rating < 1 || rating > 5 {
		return Validationf("rating must be between 1 and 5")
	}

	complaint, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	if complaint.Status != models.StatusResolved {
		return Statef("feedback is only accepted for resolved complaints")
	}
	citizenID, registered := complaint.Owner().CitizenID()
	if !registered || citizenID != actor.ID {
		return fmt.Errorf("%w: only the original complainant can provide feedback", ErrAuthorization)
	}
	if complaint.Feedback != nil {
		return fmt.Errorf("%w: feedback already submitted", ErrAuthorization)
	}

	fb := models.Feedback{
		Rating:      rating,
		Comment:     comment,
		SubmittedBy: actor.ID,
		SubmittedAt: time.Now(),
	}
	if err := s.complaints.SetFeedback(ctx, id, fb); err != nil {
		return fmt.Errorf("store feedback: %w", err)
	}

	s.logger.Infow("Feedback submitted", "id", id, "rating", rating)
	return nil
}

// AdminUpdateInput is the composite admin edit. Nil fields are left
// unchanged; they are never reset to defaults.
type AdminUpdateInput struct {
	Status       *string
	Priority     *string
	Department   *string
	AssignedTo   *string
	Escalated    *bool
	Deadline     *time.Time
	InternalNote string
}

// AdminUpdate applies a partial field update, optionally appends an
// internal note, and always records exactly one StatusUpdate reflecting
// the complaint's state after all changes.
func (s *LifecycleService) AdminUpdate(ctx context.Context, id uuid.UUID, in AdminUpdateInput, actor models.Identity) error {
	complaint, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	if in.Status != nil {
		status, err := models.ParseStatus(*in.Status)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrValidation, err)
		}
		complaint.Status = status
	}
	if in.Priority != nil {
		priority, err := models.ParsePriority(*in.Priority)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrValidation, err)
		}
		complaint.Priority = priority
	}
	if in.Department != nil {
		dept, err := models.ParseDepartment(*in.Department)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrValidation, err)
		}
		complaint.AssignedDepartment = dept
	}
	if in.AssignedTo != nil {
		complaint.AssignedTo = *in.AssignedTo
	}
	if in.Escalated != nil {
		complaint.Escalated = *in.Escalated
	}
	if in.Deadline != nil {
		complaint.Deadline = in.Deadline
	}

	if err := s.complaints.Update(ctx, complaint); err != nil {
		return fmt.Errorf("update complaint: %w", err)
	}

	if in.InternalNote != "" {
		note := models.InternalNote{
			Note:    in.InternalNote,
			AddedBy: actor.Username,
			AddedAt: time.Now(),
		}
		if err := s.complaints.AddNote(ctx, id, note); err != nil {
			return fmt.Errorf("add note: %w", err)
		}
	}

	comment := in.InternalNote
	if comment == "" {
		comment = fmt.Sprintf("Updated by %s", actor.Username)
	}
	s.appendStatus(ctx, complaint, comment, actor.Username)

	s.logger.Infow("Complaint updated", "id", id, "by", actor.Username)
	return nil
}

func (s *LifecycleService) load(ctx context.Context, id uuid.UUID) (*models.Complaint, error) {
	complaint, err := s.complaints.Get(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: complaint %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("load complaint: %w", err)
	}
	return complaint, nil
}

// appendStatus records one audit entry mirroring the complaint's current
// state. Failures here never undo the primary write.
func (s *LifecycleService) appendStatus(ctx context.Context, c *models.Complaint, comment, updatedBy string) {
	update := &models.StatusUpdate{
		ID:          uuid.New(),
		ComplaintID: c.ID,
		Status:      c.Status,
		Comment:     comment,
		UpdatedBy:   updatedBy,
		Department:  c.AssignedDepartment,
		CreatedAt:   time.Now(),
	}
	if err := s.statusLog.Append(ctx, update); err != nil {
		s.logger.Errorw("Failed to append status update",
			"complaint", c.ID, "status", c.Status, "error", err)
	}
}
