package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/aawaaz/civic-complaints-server/internal/models"
)

// Append writes one status update. The log is insert-only; there is no
// update or delete path anywhere in this package.
//
// The append is deliberately not wrapped in a transaction with the
// complaint write that precedes it: two concurrent updates to the same
// complaint can interleave the log, and a failed append leaves the primary
// mutation in place. Callers log the failure instead of rolling back.
func (p *Postgres) Append(ctx context.Context, u *models.StatusUpdate) error {
	query := `
		INSERT INTO status_updates (id, complaint_id, status, comment, updated_by, department, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := p.db.Exec(ctx, query,
		u.ID, u.ComplaintID, u.Status, u.Comment, u.UpdatedBy, u.Department, u.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert status update: %w", err)
	}
	return nil
}

// ListByComplaint returns a complaint's full audit trail, oldest first.
func (p *Postgres) ListByComplaint(ctx context.Context, complaintID uuid.UUID) ([]models.StatusUpdate, error) {
	query := `
		SELECT id, complaint_id, status, comment, updated_by, department, created_at
		FROM status_updates
		WHERE complaint_id = $1
		ORDER BY created_at ASC
	`
	rows, err := p.db.Query(ctx, query, complaintID)
	if err != nil {
		return nil, fmt.Errorf("select status updates: %w", err)
	}
	defer rows.Close()

	var updates []models.StatusUpdate
	for rows.Next() {
		var u models.StatusUpdate
		if err := rows.Scan(&u.ID, &u.ComplaintID, &u.Status, &u.Comment,
			&u.UpdatedBy, &u.Department, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan status update: %w", err)
		}
		updates = append(updates, u)
	}
	return updates, rows.Err()
}
