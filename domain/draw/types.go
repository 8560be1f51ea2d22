// Package draw holds the construction-loan domain aggregates: builders,
// their projects, draw requests against a project budget, and the import
// records produced by spreadsheet ingestion.
package draw

import (
	"io"
	"time"

	"drawdock/domain/core"
	"drawdock/domain/ingest"
)

// ImportStatus represents the processing state of a spreadsheet import
type ImportStatus string

const (
	StatusProcessing ImportStatus = "processing"
	StatusReview     ImportStatus = "review" // awaiting human confirmation
	StatusConfirmed  ImportStatus = "confirmed"
	StatusDispatched ImportStatus = "dispatched" // sent to the funding workflow
	StatusFailed     ImportStatus = "failed"
)

// Builder represents a home builder with one or more active projects
type Builder struct {
	ID        core.ID   `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Project represents a construction project financed by a loan
type Project struct {
	ID          core.ID   `json:"id"`
	BuilderID   core.ID   `json:"builder_id"`
	Name        string    `json:"name"`
	Address     string    `json:"address,omitempty"`
	LoanAmount  float64   `json:"loan_amount"`
	BudgetTotal float64   `json:"budget_total"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// DrawRequest represents one funding draw against a project budget
type DrawRequest struct {
	ID          core.ID           `json:"id"`
	ProjectID   core.ID           `json:"project_id"`
	Number      int               `json:"number"` // sequential per project
	Status      string            `json:"status"` // "draft", "submitted", "funded"
	LineItems   []ingest.LineItem `json:"line_items"`
	TotalAmount float64           `json:"total_amount"`
	RequestedAt time.Time         `json:"requested_at"`
	FundedAt    *time.Time        `json:"funded_at,omitempty"`
}

// Import represents a spreadsheet import attempt with the heuristic
// results frozen for review and override
type Import struct {
	ID        core.ID `json:"id"`
	ProjectID core.ID `json:"project_id"`

	// File information
	OriginalFilename string `json:"original_filename"`
	FilePath         string `json:"-"` // local path of the stored upload
	FileSize         int64  `json:"file_size"`

	// Heuristic output, held for human review
	Type       ingest.ImportType      `json:"type"`
	Mappings   []ingest.ColumnMapping `json:"mappings"`
	RowRange   ingest.RowRange        `json:"row_range"`
	Confidence float64                `json:"confidence"`

	// Final extraction (after any user override)
	LineItems []ingest.LineItem  `json:"line_items,omitempty"`
	Stats     ingest.ImportStats `json:"stats"`

	Status       ImportStatus `json:"status"`
	ErrorMessage string       `json:"error_message,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewImport creates a new import record in the processing state
func NewImport(projectID core.ID, filename string, importType ingest.ImportType) *Import {
	now := time.Now()
	return &Import{
		ID:               core.NewID(),
		ProjectID:        projectID,
		OriginalFilename: filename,
		Type:             importType,
		Status:           StatusProcessing,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// ImportUpload represents an uploaded spreadsheet before processing
type ImportUpload struct {
	ProjectID core.ID
	Filename  string
	Type      ingest.ImportType
	File      io.Reader
	Size      int64
}
