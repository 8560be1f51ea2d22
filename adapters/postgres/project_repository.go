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

// projectRepository implements the ProjectRepository interface
type projectRepository struct {
	db *sqlx.DB
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(db *sqlx.DB) ports.ProjectRepository {
	return &projectRepository{db: db}
}

// Create inserts a new project into the database
func (r *projectRepository) Create(ctx context.Context, p *draw.Project) error {
	query := `INSERT INTO projects (id, builder_id, name, address, loan_amount, budget_total, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.BuilderID, p.Name, p.Address, p.LoanAmount, p.BudgetTotal, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}
	return nil
}

// GetByID retrieves a project by its ID
func (r *projectRepository) GetByID(ctx context.Context, id core.ID) (*draw.Project, error) {
	query := `SELECT id, builder_id, name, COALESCE(address, '') as address,
		COALESCE(loan_amount, 0) as loan_amount, COALESCE(budget_total, 0) as budget_total,
		created_at, updated_at
	FROM projects WHERE id = $1`

	var p draw.Project
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.BuilderID, &p.Name, &p.Address, &p.LoanAmount, &p.BudgetTotal,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("project not found: %s", id)
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return &p, nil
}

// ListByBuilder retrieves all projects for one builder
func (r *projectRepository) ListByBuilder(ctx context.Context, builderID core.ID) ([]*draw.Project, error) {
	query := `SELECT id, builder_id, name, COALESCE(address, '') as address,
		COALESCE(loan_amount, 0) as loan_amount, COALESCE(budget_total, 0) as budget_total,
		created_at, updated_at
	FROM projects WHERE builder_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, builderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []*draw.Project
	for rows.Next() {
		var p draw.Project
		if err := rows.Scan(&p.ID, &p.BuilderID, &p.Name, &p.Address, &p.LoanAmount,
			&p.BudgetTotal, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, &p)
	}
	return projects, rows.Err()
}

// Update modifies an existing project
func (r *projectRepository) Update(ctx context.Context, p *draw.Project) error {
	query := `UPDATE projects SET name = $2, address = $3, loan_amount = $4,
		budget_total = $5, updated_at = NOW()
	WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, p.ID, p.Name, p.Address, p.LoanAmount, p.BudgetTotal)
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("project not found: %s", p.ID)
	}
	return nil
}

// Delete removes a project
func (r *projectRepository) Delete(ctx context.Context, id core.ID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return nil
}
