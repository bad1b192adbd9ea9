package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/aawaaz/civic-complaints-server/internal/models"
)

// schema is the full DDL, safe to run on every start.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	id UUID PRIMARY KEY,
	username TEXT NOT NULL UNIQUE,
	email TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	role TEXT NOT NULL DEFAULT 'citizen',
	first_name TEXT NOT NULL DEFAULT '',
	last_name TEXT NOT NULL DEFAULT '',
	phone TEXT NOT NULL DEFAULT '',
	street TEXT NOT NULL DEFAULT '',
	city TEXT NOT NULL DEFAULT '',
	state TEXT NOT NULL DEFAULT '',
	zip_code TEXT NOT NULL DEFAULT '',
	country TEXT NOT NULL DEFAULT 'India',
	latitude DOUBLE PRECISION,
	longitude DOUBLE PRECISION,
	is_active BOOLEAN NOT NULL DEFAULT TRUE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS complaints (
	id UUID PRIMARY KEY,
	title TEXT NOT NULL,
	description TEXT NOT NULL,
	category TEXT NOT NULL,
	latitude DOUBLE PRECISION NOT NULL,
	longitude DOUBLE PRECISION NOT NULL,
	address TEXT NOT NULL DEFAULT '',
	image_url TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL DEFAULT 'pending',
	priority TEXT NOT NULL DEFAULT 'medium',
	citizen_id UUID REFERENCES users(id),
	anon_name TEXT NOT NULL DEFAULT '',
	anon_email TEXT NOT NULL DEFAULT '',
	anon_phone TEXT NOT NULL DEFAULT '',
	assigned_department TEXT NOT NULL DEFAULT 'general',
	assigned_to TEXT NOT NULL DEFAULT '',
	escalated BOOLEAN NOT NULL DEFAULT FALSE,
	deadline TIMESTAMPTZ,
	vote_count INTEGER NOT NULL DEFAULT 0,
	feedback_rating INTEGER,
	feedback_comment TEXT NOT NULL DEFAULT '',
	feedback_by UUID REFERENCES users(id),
	feedback_at TIMESTAMPTZ,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_complaints_status ON complaints(status);
CREATE INDEX IF NOT EXISTS idx_complaints_citizen ON complaints(citizen_id);
CREATE INDEX IF NOT EXISTS idx_complaints_created ON complaints(created_at DESC);

CREATE TABLE IF NOT EXISTS complaint_votes (
	complaint_id UUID NOT NULL REFERENCES complaints(id),
	user_id UUID NOT NULL REFERENCES users(id),
	vote_type TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	UNIQUE (complaint_id, user_id)
);

CREATE TABLE IF NOT EXISTS complaint_notes (
	id UUID PRIMARY KEY,
	complaint_id UUID NOT NULL REFERENCES complaints(id),
	note TEXT NOT NULL,
	added_by TEXT NOT NULL,
	added_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS status_updates (
	id UUID PRIMARY KEY,
	complaint_id UUID NOT NULL REFERENCES complaints(id),
	status TEXT NOT NULL,
	comment TEXT NOT NULL DEFAULT '',
	updated_by TEXT NOT NULL,
	department TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_status_updates_complaint ON status_updates(complaint_id, created_at);

CREATE TABLE IF NOT EXISTS departments (
	id UUID PRIMARY KEY,
	name TEXT NOT NULL UNIQUE,
	description TEXT NOT NULL DEFAULT '',
	categories TEXT[] NOT NULL DEFAULT '{}',
	is_active BOOLEAN NOT NULL DEFAULT TRUE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS officers (
	id UUID PRIMARY KEY,
	name TEXT NOT NULL,
	email TEXT NOT NULL UNIQUE,
	phone TEXT NOT NULL DEFAULT '',
	department_id UUID NOT NULL REFERENCES departments(id),
	is_active BOOLEAN NOT NULL DEFAULT TRUE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

// seedDepartment describes one default directory entry.
type seedDepartment struct {
	name        string
	description string
	categories  []string
}

var defaultDepartments = []seedDepartment{
	{
		name:        "Public Works Department (PWD)",
		description: "Handles road maintenance, potholes, and infrastructure",
		categories:  []string{"pothole", "sidewalk"},
	},
	{
		name:        "Sanitation Department",
		description: "Manages garbage collection and waste management",
		categories:  []string{"garbage"},
	},
	{
		name:        "Electricity Board",
		description: "Handles streetlights and electrical issues",
		categories:  []string{"streetlight", "electricity"},
	},
	{
		name:        "Water Department",
		description: "Manages water supply and drainage systems",
		categories:  []string{"water", "drainage"},
	},
	{
		name:        "Traffic Police",
		description: "Handles traffic signals and traffic management",
		categories:  []string{"traffic"},
	},
	{
		name:        "General Administration",
		description: "Handles miscellaneous complaints",
		categories:  []string{"other"},
	},
}

// BootstrapOptions configures first-run seed data.
type BootstrapOptions struct {
	AdminUsername string
	AdminEmail    string
	AdminPassword string
}

// Bootstrap creates the schema and ensures the default admin account and
// department directory exist. It is idempotent and runs once at process
// start; nothing here is triggered implicitly by the connection.
func Bootstrap(ctx context.Context, db *pgxpool.Pool, opts BootstrapOptions, logger *zap.SugaredLogger) error {
	if _, err := db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	if err := ensureAdmin(ctx, db, opts, logger); err != nil {
		return err
	}
	if err := ensureDepartments(ctx, db, logger); err != nil {
		return err
	}
	return nil
}

func ensureAdmin(ctx context.Context, db *pgxpool.Pool, opts BootstrapOptions, logger *zap.SugaredLogger) error {
	var exists bool
	err := db.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)",
		opts.AdminUsername,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check admin: %w", err)
	}
	if exists {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(opts.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	_, err = db.Exec(ctx, `
		INSERT INTO users (id, username, email, password_hash, role)
		VALUES (gen_random_uuid(), $1, $2, $3, $4)
	`, opts.AdminUsername, opts.AdminEmail, string(hash), models.RoleAdmin)
	if err != nil {
		return fmt.Errorf("create admin: %w", err)
	}

	logger.Infow("Default admin user created", "username", opts.AdminUsername)
	return nil
}

func ensureDepartments(ctx context.Context, db *pgxpool.Pool, logger *zap.SugaredLogger) error {
	for _, dept := range defaultDepartments {
		tag, err := db.Exec(ctx, `
			INSERT INTO departments (id, name, description, categories)
			VALUES (gen_random_uuid(), $1, $2, $3)
			ON CONFLICT (name) DO NOTHING
		`, dept.name, dept.description, dept.categories)
		if err != nil {
			return fmt.Errorf("seed department %q: %w", dept.name, err)
		}
		if tag.RowsAffected() > 0 {
			logger.Infow("Default department created", "name", dept.name)
		}
	}
	return nil
}
