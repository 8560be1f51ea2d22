package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"

	"drawdock/domain/core"
	"drawdock/domain/draw"
	"drawdock/domain/ingest"
	"drawdock/ports"
)

// drawRepository implements the DrawRepository interface
type drawRepository struct {
	db *sqlx.DB
}

// NewDrawRepository creates a new draw request repository
func NewDrawRepository(db *sqlx.DB) ports.DrawRepository {
	return &drawRepository{db: db}
}

// Create inserts a new draw request into the database
func (r *drawRepository) Create(ctx context.Context, d *draw.DrawRequest) error {
	itemsJSON, err := json.Marshal(d.LineItems)
	if err != nil {
		return fmt.Errorf("failed to marshal line items: %w", err)
	}

	query := `INSERT INTO draw_requests (id, project_id, number, status, line_items, total_amount, requested_at, funded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err = r.db.ExecContext(ctx, query,
		d.ID, d.ProjectID, d.Number, d.Status, itemsJSON, d.TotalAmount, d.RequestedAt, d.FundedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create draw request: %w", err)
	}
	return nil
}

// GetByID retrieves a draw request by its ID
func (r *drawRepository) GetByID(ctx context.Context, id core.ID) (*draw.DrawRequest, error) {
	query := `SELECT id, project_id, number, status, line_items,
		COALESCE(total_amount, 0) as total_amount, requested_at, funded_at
	FROM draw_requests WHERE id = $1`

	var d draw.DrawRequest
	var itemsJSON []byte
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&d.ID, &d.ProjectID, &d.Number, &d.Status, &itemsJSON, &d.TotalAmount,
		&d.RequestedAt, &d.FundedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("draw request not found: %s", id)
		}
		return nil, fmt.Errorf("failed to get draw request: %w", err)
	}

	if len(itemsJSON) > 0 {
		if err := json.Unmarshal(itemsJSON, &d.LineItems); err != nil {
			return nil, fmt.Errorf("failed to unmarshal line items: %w", err)
		}
	}
	return &d, nil
}

// ListByProject retrieves all draw requests for one project
func (r *drawRepository) ListByProject(ctx context.Context, projectID core.ID) ([]*draw.DrawRequest, error) {
	query := `SELECT id, project_id, number, status, line_items,
		COALESCE(total_amount, 0) as total_amount, requested_at, funded_at
	FROM draw_requests WHERE project_id = $1 ORDER BY number`

	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list draw requests: %w", err)
	}
	defer rows.Close()

	var draws []*draw.DrawRequest
	for rows.Next() {
		var d draw.DrawRequest
		var itemsJSON []byte
		if err := rows.Scan(&d.ID, &d.ProjectID, &d.Number, &d.Status, &itemsJSON,
			&d.TotalAmount, &d.RequestedAt, &d.FundedAt); err != nil {
			return nil, fmt.Errorf("failed to scan draw request: %w", err)
		}
		if len(itemsJSON) > 0 {
			var items []ingest.LineItem
			if err := json.Unmarshal(itemsJSON, &items); err == nil {
				d.LineItems = items
			}
		}
		draws = append(draws, &d)
	}
	return draws, rows.Err()
}

// NextNumber returns the next sequential draw number for a project
func (r *drawRepository) NextNumber(ctx context.Context, projectID core.ID) (int, error) {
	var next int
	query := `SELECT COALESCE(MAX(number), 0) + 1 FROM draw_requests WHERE project_id = $1`
	if err := r.db.QueryRowContext(ctx, query, projectID).Scan(&next); err != nil {
		return 0, fmt.Errorf("failed to get next draw number: %w", err)
	}
	return next, nil
}

// Update modifies an existing draw request
func (r *drawRepository) Update(ctx context.Context, d *draw.DrawRequest) error {
	itemsJSON, err := json.Marshal(d.LineItems)
	if err != nil {
		return fmt.Errorf("failed to marshal line items: %w", err)
	}

	query := `UPDATE draw_requests SET status = $2, line_items = $3, total_amount = $4, funded_at = $5
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, d.ID, d.Status, itemsJSON, d.TotalAmount, d.FundedAt)
	if err != nil {
		return fmt.Errorf("failed to update draw request: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("draw request not found: %s", d.ID)
	}
	return nil
}
