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

// importRepository implements the ImportRepository interface
type importRepository struct {
	db *sqlx.DB
}

// NewImportRepository creates a new import record repository
func NewImportRepository(db *sqlx.DB) ports.ImportRepository {
	return &importRepository{db: db}
}

// Create inserts a new import record into the database
func (r *importRepository) Create(ctx context.Context, imp *draw.Import) error {
	mappingsJSON, err := json.Marshal(imp.Mappings)
	if err != nil {
		return fmt.Errorf("failed to marshal mappings: %w", err)
	}
	itemsJSON, err := json.Marshal(imp.LineItems)
	if err != nil {
		return fmt.Errorf("failed to marshal line items: %w", err)
	}
	statsJSON, err := json.Marshal(imp.Stats)
	if err != nil {
		return fmt.Errorf("failed to marshal stats: %w", err)
	}

	query := `INSERT INTO imports (
		id, project_id, original_filename, file_path, file_size, import_type, mappings,
		start_row, end_row, confidence, line_items, stats, status, error_message,
		created_at, updated_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`

	_, err = r.db.ExecContext(ctx, query,
		imp.ID, imp.ProjectID, imp.OriginalFilename, imp.FilePath, imp.FileSize, imp.Type, mappingsJSON,
		imp.RowRange.StartRow, imp.RowRange.EndRow, imp.Confidence, itemsJSON, statsJSON,
		imp.Status, imp.ErrorMessage, imp.CreatedAt, imp.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create import: %w", err)
	}
	return nil
}

// GetByID retrieves an import record by its ID
func (r *importRepository) GetByID(ctx context.Context, id core.ID) (*draw.Import, error) {
	query := `SELECT id, project_id, original_filename, COALESCE(file_path, '') as file_path,
		COALESCE(file_size, 0) as file_size,
		import_type, mappings, COALESCE(start_row, 0), COALESCE(end_row, 0),
		COALESCE(confidence, 0), line_items, stats, status,
		COALESCE(error_message, '') as error_message, created_at, updated_at
	FROM imports WHERE id = $1`

	var imp draw.Import
	var mappingsJSON, itemsJSON, statsJSON []byte
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&imp.ID, &imp.ProjectID, &imp.OriginalFilename, &imp.FilePath, &imp.FileSize,
		&imp.Type, &mappingsJSON, &imp.RowRange.StartRow, &imp.RowRange.EndRow,
		&imp.Confidence, &itemsJSON, &statsJSON, &imp.Status,
		&imp.ErrorMessage, &imp.CreatedAt, &imp.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("import not found: %s", id)
		}
		return nil, fmt.Errorf("failed to get import: %w", err)
	}

	if len(mappingsJSON) > 0 {
		if err := json.Unmarshal(mappingsJSON, &imp.Mappings); err != nil {
			return nil, fmt.Errorf("failed to unmarshal mappings: %w", err)
		}
	}
	if len(itemsJSON) > 0 {
		var items []ingest.LineItem
		if err := json.Unmarshal(itemsJSON, &items); err == nil {
			imp.LineItems = items
		}
	}
	if len(statsJSON) > 0 {
		if err := json.Unmarshal(statsJSON, &imp.Stats); err != nil {
			return nil, fmt.Errorf("failed to unmarshal stats: %w", err)
		}
	}
	return &imp, nil
}

// ListByProject retrieves all import records for one project
func (r *importRepository) ListByProject(ctx context.Context, projectID core.ID) ([]*draw.Import, error) {
	query := `SELECT id FROM imports WHERE project_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list imports: %w", err)
	}
	defer rows.Close()

	var ids []core.ID
	for rows.Next() {
		var id core.ID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan import id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	imports := make([]*draw.Import, 0, len(ids))
	for _, id := range ids {
		imp, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		imports = append(imports, imp)
	}
	return imports, nil
}

// Update replaces the mutable fields of an import record
func (r *importRepository) Update(ctx context.Context, imp *draw.Import) error {
	mappingsJSON, err := json.Marshal(imp.Mappings)
	if err != nil {
		return fmt.Errorf("failed to marshal mappings: %w", err)
	}
	itemsJSON, err := json.Marshal(imp.LineItems)
	if err != nil {
		return fmt.Errorf("failed to marshal line items: %w", err)
	}
	statsJSON, err := json.Marshal(imp.Stats)
	if err != nil {
		return fmt.Errorf("failed to marshal stats: %w", err)
	}

	query := `UPDATE imports SET file_path = $2, file_size = $3, mappings = $4, start_row = $5,
		end_row = $6, confidence = $7, line_items = $8, stats = $9, status = $10,
		error_message = $11, updated_at = NOW()
	WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query,
		imp.ID, imp.FilePath, imp.FileSize, mappingsJSON, imp.RowRange.StartRow, imp.RowRange.EndRow,
		imp.Confidence, itemsJSON, statsJSON, imp.Status, imp.ErrorMessage,
	)
	if err != nil {
		return fmt.Errorf("failed to update import: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("import not found: %s", imp.ID)
	}
	return nil
}

// UpdateStatus transitions an import's processing status
func (r *importRepository) UpdateStatus(ctx context.Context, id core.ID, status draw.ImportStatus, errorMsg string) error {
	query := `UPDATE imports SET status = $2, error_message = $3, updated_at = NOW() WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id, status, errorMsg)
	if err != nil {
		return fmt.Errorf("failed to update import status: %w", err)
	}
	return nil
}
