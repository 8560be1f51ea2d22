// Package postgres implements the repository ports against PostgreSQL
// via sqlx.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"drawdock/domain/core"
	"drawdock/domain/draw"
	"drawdock/ports"
)

// builderRepository implements the BuilderRepository interface
type builderRepository struct {
	db *sqlx.DB
}

// NewBuilderRepository creates a new builder repository
func NewBuilderRepository(db *sqlx.DB) ports.BuilderRepository {
	return &builderRepository{db: db}
}

// Create inserts a new builder into the database
func (r *builderRepository) Create(ctx context.Context, b *draw.Builder) error {
	query := `INSERT INTO builders (id, name, email, phone, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.ExecContext(ctx, query,
		b.ID, b.Name, b.Email, b.Phone, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create builder: %w", err)
	}
	return nil
}

// GetByID retrieves a builder by its ID
func (r *builderRepository) GetByID(ctx context.Context, id core.ID) (*draw.Builder, error) {
	query := `SELECT id, name, COALESCE(email, '') as email, COALESCE(phone, '') as phone,
		created_at, updated_at
	FROM builders WHERE id = $1`

	var b draw.Builder
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&b.ID, &b.Name, &b.Email, &b.Phone, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("builder not found: %s", id)
		}
		return nil, fmt.Errorf("failed to get builder: %w", err)
	}
	return &b, nil
}

// List retrieves builders with pagination
func (r *builderRepository) List(ctx context.Context, limit, offset int) ([]*draw.Builder, error) {
	query := `SELECT id, name, COALESCE(email, '') as email, COALESCE(phone, '') as phone,
		created_at, updated_at
	FROM builders ORDER BY name LIMIT $1 OFFSET $2`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list builders: %w", err)
	}
	defer rows.Close()

	var builders []*draw.Builder
	for rows.Next() {
		var b draw.Builder
		if err := rows.Scan(&b.ID, &b.Name, &b.Email, &b.Phone, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan builder: %w", err)
		}
		builders = append(builders, &b)
	}
	return builders, rows.Err()
}

// Update modifies an existing builder
func (r *builderRepository) Update(ctx context.Context, b *draw.Builder) error {
	query := `UPDATE builders SET name = $2, email = $3, phone = $4, updated_at = NOW()
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, b.ID, b.Name, b.Email, b.Phone)
	if err != nil {
		return fmt.Errorf("failed to update builder: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("builder not found: %s", b.ID)
	}
	return nil
}

// Delete removes a builder
func (r *builderRepository) Delete(ctx context.Context, id core.ID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM builders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete builder: %w", err)
	}
	return nil
}
