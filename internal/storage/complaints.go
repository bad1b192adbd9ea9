package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/aawaaz/civic-complaints-server/internal/models"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

const complaintColumns = `id, title, description, category, latitude, longitude, address,
	image_url, status, priority, citizen_id, anon_name, anon_email, anon_phone,
	assigned_department, assigned_to, escalated, deadline, vote_count,
	feedback_rating, feedback_comment, feedback_by, feedback_at, created_at, updated_at`

// Create stores a new complaint. Exactly one owner representation is
// written: a citizen reference or anonymous contact fields.
func (p *Postgres) Create(ctx context.Context, c *models.Complaint) error {
	var anon models.AnonymousInfo
	if c.AnonymousInfo != nil {
		anon = *c.AnonymousInfo
	}

	query := `
		INSERT INTO complaints (id, title, description, category, latitude, longitude, address,
			image_url, status, priority, citizen_id, anon_name, anon_email, anon_phone,
			assigned_department, assigned_to, escalated, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $18)
	`

	_, err := p.db.Exec(ctx, query,
		c.ID, c.Title, c.Description, c.Category,
		c.Location.Latitude, c.Location.Longitude, c.Location.Address,
		c.ImageURL, c.Status, c.Priority,
		c.CitizenID, anon.Name, anon.Email, anon.Phone,
		c.AssignedDepartment, c.AssignedTo, c.Escalated, c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert complaint: %w", err)
	}
	return nil
}

// Get loads a complaint with its votes and internal notes.
func (p *Postgres) Get(ctx context.Context, id uuid.UUID) (*models.Complaint, error) {
	row := p.db.QueryRow(ctx, "SELECT "+complaintColumns+" FROM complaints WHERE id = $1", id)
	c, err := scanComplaint(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select complaint: %w", err)
	}

	if c.Votes, err = p.ListVotes(ctx, id); err != nil {
		return nil, err
	}
	if c.InternalNotes, err = p.listNotes(ctx, id); err != nil {
		return nil, err
	}
	return c, nil
}

// Update persists the mutable complaint fields. Votes, notes and feedback
// have their own writers.
func (p *Postgres) Update(ctx context.Context, c *models.Complaint) error {
	query := `
		UPDATE complaints
		SET status = $2, priority = $3, assigned_department = $4, assigned_to = $5,
			escalated = $6, deadline = $7, updated_at = NOW()
		WHERE id = $1
	`
	tag, err := p.db.Exec(ctx, query,
		c.ID, c.Status, c.Priority, c.AssignedDepartment, c.AssignedTo,
		c.Escalated, c.Deadline,
	)
	if err != nil {
		return fmt.Errorf("update complaint: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// sortColumns whitelists admin sort keys against injection.
var sortColumns = map[string]string{
	"created_at": "created_at",
	"updated_at": "updated_at",
	"priority":   "priority",
	"status":     "status",
	"vote_count": "vote_count",
}

// List returns a filtered, sorted page of complaints plus the unpaged total.
func (p *Postgres) List(ctx context.Context, filter ComplaintFilter, page, limit int) ([]models.Complaint, int64, error) {
	var conditions []string
	var args []any

	add := func(column string, value any) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if filter.Status != nil {
		add("status", *filter.Status)
	}
	if filter.Category != nil {
		add("category", *filter.Category)
	}
	if filter.Department != nil {
		add("assigned_department", *filter.Department)
	}
	if filter.Priority != nil {
		add("priority", *filter.Priority)
	}
	if filter.Escalated != nil {
		add("escalated", *filter.Escalated)
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int64
	if err := p.db.QueryRow(ctx, "SELECT COUNT(*) FROM complaints"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count complaints: %w", err)
	}

	sortBy, ok := sortColumns[filter.SortBy]
	if !ok {
		sortBy = "created_at"
	}
	order := "DESC"
	if strings.EqualFold(filter.SortOrder, "asc") {
		order = "ASC"
	}

	query := fmt.Sprintf(
		"SELECT %s FROM complaints%s ORDER BY %s %s LIMIT $%d OFFSET $%d",
		complaintColumns, where, sortBy, order, len(args)+1, len(args)+2,
	)
	args = append(args, limit, (page-1)*limit)

	rows, err := p.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("select complaints: %w", err)
	}
	defer rows.Close()

	complaints, err := collectComplaints(rows)
	if err != nil {
		return nil, 0, err
	}
	return complaints, total, nil
}

// ListPublic returns complaints in one status, newest first.
func (p *Postgres) ListPublic(ctx context.Context, status models.Status) ([]models.Complaint, error) {
	rows, err := p.db.Query(ctx,
		"SELECT "+complaintColumns+" FROM complaints WHERE status = $1 ORDER BY created_at DESC",
		status,
	)
	if err != nil {
		return nil, fmt.Errorf("select public complaints: %w", err)
	}
	defer rows.Close()
	return collectComplaints(rows)
}

// ListByCitizen returns a citizen's own complaints, newest first.
func (p *Postgres) ListByCitizen(ctx context.Context, citizenID uuid.UUID) ([]models.Complaint, error) {
	rows, err := p.db.Query(ctx,
		"SELECT "+complaintColumns+" FROM complaints WHERE citizen_id = $1 ORDER BY created_at DESC",
		citizenID,
	)
	if err != nil {
		return nil, fmt.Errorf("select citizen complaints: %w", err)
	}
	defer rows.Close()
	return collectComplaints(rows)
}

// SetVote upserts a user's vote on a complaint. The unique key on
// (complaint_id, user_id) keeps the one-vote-per-user invariant even under
// concurrent requests.
func (p *Postgres) SetVote(ctx context.Context, complaintID uuid.UUID, vote models.Vote) error {
	query := `
		INSERT INTO complaint_votes (complaint_id, user_id, vote_type)
		VALUES ($1, $2, $3)
		ON CONFLICT (complaint_id, user_id) DO UPDATE SET vote_type = EXCLUDED.vote_type
	`
	if _, err := p.db.Exec(ctx, query, complaintID, vote.UserID, vote.Type); err != nil {
		return fmt.Errorf("upsert vote: %w", err)
	}
	return nil
}

// ListVotes returns every vote on a complaint.
func (p *Postgres) ListVotes(ctx context.Context, complaintID uuid.UUID) ([]models.Vote, error) {
	rows, err := p.db.Query(ctx,
		"SELECT user_id, vote_type FROM complaint_votes WHERE complaint_id = $1 ORDER BY created_at",
		complaintID,
	)
	if err != nil {
		return nil, fmt.Errorf("select votes: %w", err)
	}
	defer rows.Close()

	var votes []models.Vote
	for rows.Next() {
		var v models.Vote
		if err := rows.Scan(&v.UserID, &v.Type); err != nil {
			return nil, fmt.Errorf("scan vote: %w", err)
		}
		votes = append(votes, v)
	}
	return votes, rows.Err()
}

// SetVoteCount writes the recomputed derived count.
func (p *Postgres) SetVoteCount(ctx context.Context, complaintID uuid.UUID, count int) error {
	_, err := p.db.Exec(ctx,
		"UPDATE complaints SET vote_count = $2, updated_at = NOW() WHERE id = $1",
		complaintID, count,
	)
	if err != nil {
		return fmt.Errorf("update vote count: %w", err)
	}
	return nil
}

// AddNote appends an internal note.
func (p *Postgres) AddNote(ctx context.Context, complaintID uuid.UUID, note models.InternalNote) error {
	_, err := p.db.Exec(ctx,
		"INSERT INTO complaint_notes (id, complaint_id, note, added_by, added_at) VALUES ($1, $2, $3, $4, $5)",
		uuid.New(), complaintID, note.Note, note.AddedBy, note.AddedAt,
	)
	if err != nil {
		return fmt.Errorf("insert note: %w", err)
	}
	return nil
}

func (p *Postgres) listNotes(ctx context.Context, complaintID uuid.UUID) ([]models.InternalNote, error) {
	rows, err := p.db.Query(ctx,
		"SELECT note, added_by, added_at FROM complaint_notes WHERE complaint_id = $1 ORDER BY added_at",
		complaintID,
	)
	if err != nil {
		return nil, fmt.Errorf("select notes: %w", err)
	}
	defer rows.Close()

	var notes []models.InternalNote
	for rows.Next() {
		var n models.InternalNote
		if err := rows.Scan(&n.Note, &n.AddedBy, &n.AddedAt); err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

// SetFeedback stores the one-shot feedback. The guard on feedback_by keeps
// the first submission even if two requests race.
func (p *Postgres) SetFeedback(ctx context.Context, complaintID uuid.UUID, fb models.Feedback) error {
	query := `
		UPDATE complaints
		SET feedback_rating = $2, feedback_comment = $3, feedback_by = $4, feedback_at = $5, updated_at = NOW()
		WHERE id = $1 AND feedback_by IS NULL
	`
	tag, err := p.db.Exec(ctx, query, complaintID, fb.Rating, fb.Comment, fb.SubmittedBy, fb.SubmittedAt)
	if err != nil {
		return fmt.Errorf("update feedback: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("feedback already submitted")
	}
	return nil
}

// scanComplaint reads one complaint row, normalizing the owner fields back
// into the citizen/anonymous split.
func scanComplaint(row pgx.Row) (*models.Complaint, error) {
	var (
		c         models.Complaint
		anonName  string
		anonEmail string
		anonPhone string
		rating    *int
		comment   string
		fbBy      *uuid.UUID
		fbAt      *time.Time
	)
	err := row.Scan(
		&c.ID, &c.Title, &c.Description, &c.Category,
		&c.Location.Latitude, &c.Location.Longitude, &c.Location.Address,
		&c.ImageURL, &c.Status, &c.Priority,
		&c.CitizenID, &anonName, &anonEmail, &anonPhone,
		&c.AssignedDepartment, &c.AssignedTo, &c.Escalated, &c.Deadline, &c.VoteCount,
		&rating, &comment, &fbBy, &fbAt, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if c.CitizenID == nil {
		c.AnonymousInfo = &models.AnonymousInfo{Name: anonName, Email: anonEmail, Phone: anonPhone}
	}
	if rating != nil && fbBy != nil && fbAt != nil {
		c.Feedback = &models.Feedback{
			Rating:      *rating,
			Comment:     comment,
			SubmittedBy: *fbBy,
			SubmittedAt: *fbAt,
		}
	}
	return &c, nil
}

func collectComplaints(rows pgx.Rows) ([]models.Complaint, error) {
	var complaints []models.Complaint
	for rows.Next() {
		c, err := scanComplaint(rows)
		if err != nil {
			return nil, fmt.Errorf("scan complaint: %w", err)
		}
		complaints = append(complaints, *c)
	}
	return complaints, rows.Err()
}
