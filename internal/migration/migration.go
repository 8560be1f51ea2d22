package migration

import (
	"context"

	"github.com/jmoiron/sqlx"

	"drawdock/internal/errors"
)

// Migrator defines the interface for database migration operations
type Migrator interface {
	Run(ctx context.Context, db *sqlx.DB) error
	Version() string
}

// MigrationRunner handles database schema migrations
type MigrationRunner struct {
	version string
}

// NewRunner creates a new migration runner
func NewRunner() *MigrationRunner {
	return &MigrationRunner{
		version: "1.0.0",
	}
}

// Version returns the migration version
func (r *MigrationRunner) Version() string {
	return r.version
}

// Run executes all database migrations in the correct order
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	if err := r.createBuildersTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create builders table")
	}

	if err := r.createProjectsTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create projects table")
	}

	if err := r.createDrawRequestsTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create draw_requests table")
	}

	if err := r.createImportsTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create imports table")
	}

	if err := r.createIndexes(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create indexes")
	}

	return nil
}

func (r *MigrationRunner) createBuildersTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS builders (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name VARCHAR(255) NOT NULL,
			email VARCHAR(255),
			phone VARCHAR(50),
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)
	`)
	return err
}

func (r *MigrationRunner) createProjectsTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS projects (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			builder_id UUID NOT NULL REFERENCES builders(id) ON DELETE CASCADE,
			name VARCHAR(255) NOT NULL,
			address TEXT,
			loan_amount DECIMAL(14,2) DEFAULT 0,
			budget_total DECIMAL(14,2) DEFAULT 0,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)
	`)
	return err
}

func (r *MigrationRunner) createDrawRequestsTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS draw_requests (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			project_id UUID NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
			number INTEGER NOT NULL,
			status VARCHAR(50) NOT NULL DEFAULT 'draft',
			line_items JSONB,
			total_amount DECIMAL(14,2) DEFAULT 0,
			requested_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			funded_at TIMESTAMP WITH TIME ZONE,
			UNIQUE (project_id, number)
		)
	`)
	return err
}

func (r *MigrationRunner) createImportsTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS imports (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			project_id UUID NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
			original_filename VARCHAR(512) NOT NULL,
			file_path VARCHAR(1024) DEFAULT '',
			file_size BIGINT DEFAULT 0,
			import_type VARCHAR(20) NOT NULL,
			mappings JSONB,
			start_row INTEGER DEFAULT 0,
			end_row INTEGER DEFAULT 0,
			confidence DECIMAL(5,2) DEFAULT 0,
			line_items JSONB,
			stats JSONB,
			status VARCHAR(50) NOT NULL DEFAULT 'processing',
			error_message TEXT,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)
	`)
	return err
}

func (r *MigrationRunner) createIndexes(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE INDEX IF NOT EXISTS idx_projects_builder ON projects(builder_id);
		CREATE INDEX IF NOT EXISTS idx_draw_requests_project ON draw_requests(project_id);
		CREATE INDEX IF NOT EXISTS idx_imports_project ON imports(project_id);
		CREATE INDEX IF NOT EXISTS idx_imports_status ON imports(status)
	`)
	return err
}
