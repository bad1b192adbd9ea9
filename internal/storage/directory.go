package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/aawaaz/civic-complaints-server/internal/models"
)

const departmentColumns = "id, name, description, categories, is_active, created_at, updated_at"

// ListDepartments returns active departments ordered by name.
func (p *Postgres) ListDepartments(ctx context.Context) ([]models.DepartmentRecord, error) {
	rows, err := p.db.Query(ctx,
		"SELECT "+departmentColumns+" FROM departments WHERE is_active ORDER BY name",
	)
	if err != nil {
		return nil, fmt.Errorf("select departments: %w", err)
	}
	defer rows.Close()

	var depts []models.DepartmentRecord
	for rows.Next() {
		var d models.DepartmentRecord
		var cats []string
		if err := rows.Scan(&d.ID, &d.Name, &d.Description, &cats,
			&d.IsActive, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan department: %w", err)
		}
		d.Categories = toCategories(cats)
		depts = append(depts, d)
	}
	return depts, rows.Err()
}

// GetDepartment loads one department by id.
func (p *Postgres) GetDepartment(ctx context.Context, id uuid.UUID) (*models.DepartmentRecord, error) {
	var d models.DepartmentRecord
	var cats []string
	err := p.db.QueryRow(ctx,
		"SELECT "+departmentColumns+" FROM departments WHERE id = $1", id,
	).Scan(&d.ID, &d.Name, &d.Description, &cats, &d.IsActive, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select department: %w", err)
	}
	d.Categories = toCategories(cats)
	return &d, nil
}

// CreateDepartment inserts a directory entry.
func (p *Postgres) CreateDepartment(ctx context.Context, d *models.DepartmentRecord) error {
	_, err := p.db.Exec(ctx,
		"INSERT INTO departments (id, name, description, categories, is_active) VALUES ($1, $2, $3, $4, $5)",
		d.ID, d.Name, d.Description, fromCategories(d.Categories), d.IsActive,
	)
	if err != nil {
		return fmt.Errorf("insert department: %w", err)
	}
	return nil
}

// UpdateDepartment persists directory changes including deactivation.
func (p *Postgres) UpdateDepartment(ctx context.Context, d *models.DepartmentRecord) error {
	tag, err := p.db.Exec(ctx, `
		UPDATE departments
		SET name = $2, description = $3, categories = $4, is_active = $5, updated_at = NOW()
		WHERE id = $1
	`, d.ID, d.Name, d.Description, fromCategories(d.Categories), d.IsActive)
	if err != nil {
		return fmt.Errorf("update department: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

const officerColumns = "id, name, email, phone, department_id, is_active, created_at, updated_at"

// ListOfficers returns active officers ordered by name.
func (p *Postgres) ListOfficers(ctx context.Context) ([]models.Officer, error) {
	rows, err := p.db.Query(ctx,
		"SELECT "+officerColumns+" FROM officers WHERE is_active ORDER BY name",
	)
	if err != nil {
		return nil, fmt.Errorf("select officers: %w", err)
	}
	defer rows.Close()

	var officers []models.Officer
	for rows.Next() {
		var o models.Officer
		if err := rows.Scan(&o.ID, &o.Name, &o.Email, &o.Phone,
			&o.DepartmentID, &o.IsActive, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan officer: %w", err)
		}
		officers = append(officers, o)
	}
	return officers, rows.Err()
}

// GetOfficer loads one officer by id.
func (p *Postgres) GetOfficer(ctx context.Context, id uuid.UUID) (*models.Officer, error) {
	var o models.Officer
	err := p.db.QueryRow(ctx,
		"SELECT "+officerColumns+" FROM officers WHERE id = $1", id,
	).Scan(&o.ID, &o.Name, &o.Email, &o.Phone, &o.DepartmentID, &o.IsActive, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select officer: %w", err)
	}
	return &o, nil
}

// CreateOfficer inserts a staff entry.
func (p *Postgres) CreateOfficer(ctx context.Context, o *models.Officer) error {
	_, err := p.db.Exec(ctx,
		"INSERT INTO officers (id, name, email, phone, department_id, is_active) VALUES ($1, $2, $3, $4, $5, $6)",
		o.ID, o.Name, o.Email, o.Phone, o.DepartmentID, o.IsActive,
	)
	if err != nil {
		return fmt.Errorf("insert officer: %w", err)
	}
	return nil
}

// UpdateOfficer persists staff changes including deactivation.
func (p *Postgres) UpdateOfficer(ctx context.Context, o *models.Officer) error {
	tag, err := p.db.Exec(ctx, `
		UPDATE officers
		SET name = $2, email = $3, phone = $4, department_id = $5, is_active = $6, updated_at = NOW()
		WHERE id = $1
	`, o.ID, o.Name, o.Email, o.Phone, o.DepartmentID, o.IsActive)
	if err != nil {
		return fmt.Errorf("update officer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func toCategories(raw []string) []models.Category {
	cats := make([]models.Category, 0, len(raw))
	for _, s := range raw {
		cats = append(cats, models.Category(s))
	}
	return cats
}

func fromCategories(cats []models.Category) []string {
	raw := make([]string, 0, len(cats))
	for _, c := range cats {
		raw = append(raw, string(c))
	}
	return raw
}
