// Package models defines the data structures used across the application.
// These map to the PostgreSQL schema created by the database bootstrap.
package models

import (
	"time"

	"github.com/google/uuid"
)

// User is a registered account, either a citizen or an administrator.
// Accounts are never hard-deleted; blocking sets IsActive to false.
type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         Role      `json:"role" db:"role"`
	Profile      Profile   `json:"profile"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// Profile holds self-service account details.
type Profile struct {
	FirstName string   `json:"first_name,omitempty" db:"first_name"`
	LastName  string   `json:"last_name,omitempty" db:"last_name"`
	Phone     string   `json:"phone,omitempty" db:"phone"`
	Address   Address  `json:"address"`
	Latitude  *float64 `json:"latitude,omitempty" db:"latitude"`
	Longitude *float64 `json:"longitude,omitempty" db:"longitude"`
}

// Address is a user's postal address.
type Address struct {
	Street  string `json:"street,omitempty" db:"street"`
	City    string `json:"city,omitempty" db:"city"`
	State   string `json:"state,omitempty" db:"state"`
	ZipCode string `json:"zip_code,omitempty" db:"zip_code"`
	Country string `json:"country,omitempty" db:"country"`
}

// Location is a geo-coordinate with an optional free-text address.
type Location struct {
	Latitude  float64 `json:"latitude" db:"latitude"`
	Longitude float64 `json:"longitude" db:"longitude"`
	Address   string  `json:"address,omitempty" db:"address"`
}

// Complaint is a citizen-reported municipal issue tracked through the
// status lifecycle. Complaints are never deleted.
type Complaint struct {
	ID                 uuid.UUID      `json:"id" db:"id"`
	Title              string         `json:"title" db:"title"`
	Description        string         `json:"description" db:"description"`
	Category           Category       `json:"category" db:"category"`
	Location           Location       `json:"location"`
	ImageURL           string         `json:"image_url,omitempty" db:"image_url"`
	Status             Status         `json:"status" db:"status"`
	Priority           Priority       `json:"priority" db:"priority"`
	CitizenID          *uuid.UUID     `json:"citizen,omitempty" db:"citizen_id"`
	AnonymousInfo      *AnonymousInfo `json:"anonymous_info,omitempty"`
	AssignedDepartment Department     `json:"assigned_department" db:"assigned_department"`
	AssignedTo         string         `json:"assigned_to,omitempty" db:"assigned_to"`
	Escalated          bool           `json:"escalated" db:"escalated"`
	Deadline           *time.Time     `json:"deadline,omitempty" db:"deadline"`
	InternalNotes      []InternalNote `json:"internal_notes,omitempty"`
	Votes              []Vote         `json:"votes,omitempty"`
	VoteCount          int            `json:"vote_count" db:"vote_count"`
	Feedback           *Feedback      `json:"feedback,omitempty"`
	CreatedAt          time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at" db:"updated_at"`
}

// Owner derives the complaint's tagged owner from the stored fields.
func (c *Complaint) Owner() Owner {
	if c.CitizenID != nil {
		return RegisteredOwner(*c.CitizenID)
	}
	if c.AnonymousInfo != nil {
		return AnonymousOwner(*c.AnonymousInfo)
	}
	return AnonymousOwner(AnonymousInfo{})
}

// InternalNote is an admin-only annotation on a complaint.
type InternalNote struct {
	Note    string    `json:"note" db:"note"`
	AddedBy string    `json:"added_by" db:"added_by"`
	AddedAt time.Time `json:"added_at" db:"added_at"`
}

// Vote is a single citizen vote. At most one vote exists per
// (complaint, user) pair; the schema enforces the key.
type Vote struct {
	UserID uuid.UUID `json:"user" db:"user_id"`
	Type   VoteType  `json:"vote_type" db:"vote_type"`
}

// Feedback is the one-shot citizen rating for a resolved complaint.
type Feedback struct {
	Rating      int       `json:"rating" db:"feedback_rating"`
	Comment     string    `json:"comment,omitempty" db:"feedback_comment"`
	SubmittedBy uuid.UUID `json:"submitted_by" db:"feedback_by"`
	SubmittedAt time.Time `json:"submitted_at" db:"feedback_at"`
}

// StatusUpdate is one immutable entry in a complaint's audit trail. The
// ordered sequence is the complete history of every status the complaint
// has held.
type StatusUpdate struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	ComplaintID uuid.UUID  `json:"complaint" db:"complaint_id"`
	Status      Status     `json:"status" db:"status"`
	Comment     string     `json:"comment,omitempty" db:"comment"`
	UpdatedBy   string     `json:"updated_by" db:"updated_by"`
	Department  Department `json:"department,omitempty" db:"department"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
}

// DepartmentRecord is the directory entry for a municipal department.
type DepartmentRecord struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	Name        string     `json:"name" db:"name"`
	Description string     `json:"description,omitempty" db:"description"`
	Categories  []Category `json:"categories" db:"categories"`
	IsActive    bool       `json:"is_active" db:"is_active"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// Officer is a member of staff complaints can be assigned to.
type Officer struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	Phone        string    `json:"phone,omitempty" db:"phone"`
	DepartmentID uuid.UUID `json:"department" db:"department_id"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// PublicComplaint is the citizen-facing projection of a complaint.
type PublicComplaint struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    Category  `json:"category"`
	Location    Location  `json:"location"`
	Status      Status    `json:"status"`
	VoteCount   int       `json:"vote_count"`
	CreatedAt   time.Time `json:"created_at"`
}

// Public returns the citizen-facing projection.
func (c *Complaint) Public() PublicComplaint {
	return PublicComplaint{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description,
		Category:    c.Category,
		Location:    c.Location,
		Status:      c.Status,
		VoteCount:   c.VoteCount,
		CreatedAt:   c.CreatedAt,
	}
}

// Pagination is echoed on every paginated listing.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

// Identity is the minimal authenticated principal injected into the
// request context by the auth middleware.
type Identity struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Role     Role      `json:"role"`
}

// HealthStatus is the health check response
type HealthStatus struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	Uptime   string `json:"uptime,omitempty"`
	Database string `json:"database,omitempty"`
}
