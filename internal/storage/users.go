package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/aawaaz/civic-complaints-server/internal/models"
)

const userColumns = `id, username, email, password_hash, role, first_name, last_name,
	phone, street, city, state, zip_code, country, latitude, longitude,
	is_active, created_at, updated_at`

// CreateUser inserts a new account.
func (p *Postgres) CreateUser(ctx context.Context, u *models.User) error {
	query := `
		INSERT INTO users (id, username, email, password_hash, role, first_name, last_name,
			phone, street, city, state, zip_code, country, latitude, longitude, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`
	_, err := p.db.Exec(ctx, query,
		u.ID, u.Username, u.Email, u.PasswordHash, u.Role,
		u.Profile.FirstName, u.Profile.LastName, u.Profile.Phone,
		u.Profile.Address.Street, u.Profile.Address.City, u.Profile.Address.State,
		u.Profile.Address.ZipCode, u.Profile.Address.Country,
		u.Profile.Latitude, u.Profile.Longitude, u.IsActive,
	)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetUserByID loads one account by id.
func (p *Postgres) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return p.getUser(ctx, "id = $1", id)
}

// GetUserByUsername loads one account by username.
func (p *Postgres) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return p.getUser(ctx, "username = $1", username)
}

func (p *Postgres) getUser(ctx context.Context, where string, arg any) (*models.User, error) {
	row := p.db.QueryRow(ctx, "SELECT "+userColumns+" FROM users WHERE "+where, arg)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select user: %w", err)
	}
	return u, nil
}

// UpdateUserProfile persists the self-service profile fields.
func (p *Postgres) UpdateUserProfile(ctx context.Context, u *models.User) error {
	query := `
		UPDATE users
		SET email = $2, first_name = $3, last_name = $4, phone = $5, street = $6,
			city = $7, state = $8, zip_code = $9, country = $10, latitude = $11,
			longitude = $12, updated_at = NOW()
		WHERE id = $1
	`
	tag, err := p.db.Exec(ctx, query,
		u.ID, u.Email, u.Profile.FirstName, u.Profile.LastName, u.Profile.Phone,
		u.Profile.Address.Street, u.Profile.Address.City, u.Profile.Address.State,
		u.Profile.Address.ZipCode, u.Profile.Address.Country,
		u.Profile.Latitude, u.Profile.Longitude,
	)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetUserActive blocks or unblocks an account.
func (p *Postgres) SetUserActive(ctx context.Context, id uuid.UUID, active bool) error {
	tag, err := p.db.Exec(ctx,
		"UPDATE users SET is_active = $2, updated_at = NOW() WHERE id = $1",
		id, active,
	)
	if err != nil {
		return fmt.Errorf("update user status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListUsers returns a page of accounts with a role, optionally filtered by
// active state, plus the unpaged total.
func (p *Postgres) ListUsers(ctx context.Context, role models.Role, isActive *bool, page, limit int) ([]models.User, int64, error) {
	where := " WHERE role = $1"
	args := []any{role}
	if isActive != nil {
		args = append(args, *isActive)
		where += fmt.Sprintf(" AND is_active = $%d", len(args))
	}

	var total int64
	if err := p.db.QueryRow(ctx, "SELECT COUNT(*) FROM users"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	query := fmt.Sprintf(
		"SELECT %s FROM users%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		userColumns, where, len(args)+1, len(args)+2,
	)
	args = append(args, limit, (page-1)*limit)

	rows, err := p.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("select users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *u)
	}
	return users, total, rows.Err()
}

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role,
		&u.Profile.FirstName, &u.Profile.LastName, &u.Profile.Phone,
		&u.Profile.Address.Street, &u.Profile.Address.City, &u.Profile.Address.State,
		&u.Profile.Address.ZipCode, &u.Profile.Address.Country,
		&u.Profile.Latitude, &u.Profile.Longitude,
		&u.IsActive, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
