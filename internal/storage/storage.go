// Package storage persists the application's entities in PostgreSQL.
// The interfaces here are what services program against; Postgres is the
// only production implementation, tests substitute mocks.
package storage

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/aawaaz/civic-complaints-server/internal/models"
)

// ComplaintFilter narrows admin complaint listings. Nil fields are ignored.
type ComplaintFilter struct {
	Status     *models.Status
	Category   *models.Category
	Department *models.Department
	Priority   *models.Priority
	Escalated  *bool
	SortBy     string // whitelisted column, defaults to created_at
	SortOrder  string // "asc" | "desc", defaults to desc
}

// ComplaintStore persists complaints, their votes, notes and feedback.
type ComplaintStore interface {
	Create(ctx context.Context, c *models.Complaint) error
	Get(ctx context.Context, id uuid.UUID) (*models.Complaint, error)
	Update(ctx context.Context, c *models.Complaint) error
	List(ctx context.Context, filter ComplaintFilter, page, limit int) ([]models.Complaint, int64, error)
	ListPublic(ctx context.Context, status models.Status) ([]models.Complaint, error)
	ListByCitizen(ctx context.Context, citizenID uuid.UUID) ([]models.Complaint, error)

	SetVote(ctx context.Context, complaintID uuid.UUID, vote models.Vote) error
	ListVotes(ctx context.Context, complaintID uuid.UUID) ([]models.Vote, error)
	SetVoteCount(ctx context.Context, complaintID uuid.UUID, count int) error

	AddNote(ctx context.Context, complaintID uuid.UUID, note models.InternalNote) error
	SetFeedback(ctx context.Context, complaintID uuid.UUID, fb models.Feedback) error
}

// StatusLogStore is the append-only audit trail. Entries are never
// updated or deleted.
type StatusLogStore interface {
	Append(ctx context.Context, u *models.StatusUpdate) error
	ListByComplaint(ctx context.Context, complaintID uuid.UUID) ([]models.StatusUpdate, error)
}

// UserStore persists accounts. Accounts are blocked, never deleted.
type UserStore interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	UpdateUserProfile(ctx context.Context, u *models.User) error
	SetUserActive(ctx context.Context, id uuid.UUID, active bool) error
	ListUsers(ctx context.Context, role models.Role, isActive *bool, page, limit int) ([]models.User, int64, error)
}

// DirectoryStore persists the department and officer reference data.
type DirectoryStore interface {
	ListDepartments(ctx context.Context) ([]models.DepartmentRecord, error)
	GetDepartment(ctx context.Context, id uuid.UUID) (*models.DepartmentRecord, error)
	CreateDepartment(ctx context.Context, d *models.DepartmentRecord) error
	UpdateDepartment(ctx context.Context, d *models.DepartmentRecord) error

	ListOfficers(ctx context.Context) ([]models.Officer, error)
	GetOfficer(ctx context.Context, id uuid.UUID) (*models.Officer, error)
	CreateOfficer(ctx context.Context, o *models.Officer) error
	UpdateOfficer(ctx context.Context, o *models.Officer) error
}

// Postgres implements every store interface over a pgx pool.
type Postgres struct {
	db     *pgxpool.Pool
	logger *zap.SugaredLogger
}

// NewPostgres creates the Postgres storage layer.
func NewPostgres(db *pgxpool.Pool, logger *zap.SugaredLogger) *Postgres {
	return &Postgres{db: db, logger: logger}
}
