// Package app wires the ingestion heuristics to storage, notifications
// and the downstream funding workflow.
package app

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"drawdock/adapters/excel"
	"drawdock/domain/core"
	"drawdock/domain/draw"
	"drawdock/domain/ingest"
	apperrors "drawdock/internal/errors"
	heuristics "drawdock/internal/ingest"
	"drawdock/internal/notify"
	"drawdock/ports"
)

// ImportConfig holds upload handling settings
type ImportConfig struct {
	UploadDir   string
	MaxFileSize int64
}

// DefaultImportConfig returns sensible defaults
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		UploadDir:   "uploads/imports",
		MaxFileSize: 50 * 1024 * 1024, // 50MB
	}
}

// ImportService runs uploaded spreadsheets through the ingestion
// heuristics and holds the results for human review
type ImportService struct {
	imports    ports.ImportRepository
	projects   ports.ProjectRepository
	draws      ports.DrawRepository
	dispatcher ports.FundingDispatcher
	registry   *notify.Registry
	engine     *heuristics.Engine
	config     ImportConfig

	// newDecoder is swapped out in tests
	newDecoder func(path string) ports.SheetDecoder
}

// NewImportService creates an import service
func NewImportService(
	imports ports.ImportRepository,
	projects ports.ProjectRepository,
	draws ports.DrawRepository,
	dispatcher ports.FundingDispatcher,
	registry *notify.Registry,
	engine *heuristics.Engine,
	config ImportConfig,
) *ImportService {
	if config.UploadDir == "" {
		config = DefaultImportConfig()
	}
	return &ImportService{
		imports:    imports,
		projects:   projects,
		draws:      draws,
		dispatcher: dispatcher,
		registry:   registry,
		engine:     engine,
		config:     config,
		newDecoder: func(path string) ports.SheetDecoder {
			return excel.NewDataReader(path)
		},
	}
}

// ProcessUpload stores an uploaded spreadsheet, creates the import
// record and runs the heuristics in the background
func (s *ImportService) ProcessUpload(ctx context.Context, upload *draw.ImportUpload) (core.ID, error) {
	log.Printf("[ImportService] Starting import for file: %s", upload.Filename)

	if err := s.validateUpload(upload); err != nil {
		return "", apperrors.Wrap(err, "upload validation failed")
	}

	if _, err := s.projects.GetByID(ctx, upload.ProjectID); err != nil {
		return "", apperrors.NotFound("project")
	}

	imp := draw.NewImport(upload.ProjectID, upload.Filename, upload.Type)

	path, size, err := s.storeFile(imp.ID, upload)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to store upload")
	}
	imp.FilePath = path
	imp.FileSize = size

	if err := s.imports.Create(ctx, imp); err != nil {
		return "", fmt.Errorf("failed to create import record: %w", err)
	}

	go func() {
		backgroundCtx := context.Background()
		if err := s.processInBackground(backgroundCtx, imp); err != nil {
			log.Printf("[ImportService] Processing failed for import %s: %v", imp.ID, err)
			s.imports.UpdateStatus(backgroundCtx, imp.ID, draw.StatusFailed, err.Error())
			s.broadcastProgress(imp.ID, "import_failed", 0, err.Error())
		}
	}()

	return imp.ID, nil
}

// ProcessUploads runs several uploads concurrently. The first error
// cancels the remaining work.
func (s *ImportService) ProcessUploads(ctx context.Context, uploads []*draw.ImportUpload) ([]core.ID, error) {
	ids := make([]core.ID, len(uploads))
	g, gctx := errgroup.WithContext(ctx)
	for i, upload := range uploads {
		i, upload := i, upload
		g.Go(func() error {
			id, err := s.ProcessUpload(gctx, upload)
			if err != nil {
				return fmt.Errorf("upload %s: %w", upload.Filename, err)
			}
			ids[i] = id
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return ids, nil
}

// processInBackground decodes the stored file and runs the full
// heuristic pipeline, leaving the import in the review state
func (s *ImportService) processInBackground(ctx context.Context, imp *draw.Import) error {
	start := time.Now()
	s.broadcastProgress(imp.ID, "import_started", 0, "Import processing started")

	s.broadcastProgress(imp.ID, "import_progress", 20, "Reading spreadsheet...")
	grid, styles, err := s.newDecoder(imp.FilePath).ReadSheet()
	if err != nil {
		return apperrors.Wrapf(err, "failed to read spreadsheet %s", imp.OriginalFilename)
	}

	s.broadcastProgress(imp.ID, "import_progress", 40, "Detecting column mappings...")
	mappings := s.engine.DetectColumnMappings(grid.Headers, grid.Rows)

	s.broadcastProgress(imp.ID, "import_progress", 60, "Locating data boundaries...")
	boundary, err := s.engine.DetectRowBoundariesWithAnalysis(grid.Rows, mappings, styles)
	if err != nil {
		return fmt.Errorf("boundary detection failed: %w", err)
	}

	s.broadcastProgress(imp.ID, "import_progress", 80, "Extracting line items...")
	items, stats, err := s.engine.PackageExtraction(grid, mappings, boundary.Range(), imp.Type)
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	imp.Mappings = mappings
	imp.RowRange = boundary.Range()
	imp.Confidence = boundary.Confidence
	imp.LineItems = items
	imp.Stats = stats
	imp.Status = draw.StatusReview
	imp.ErrorMessage = ""
	imp.UpdatedAt = time.Now()

	if err := s.imports.Update(ctx, imp); err != nil {
		return fmt.Errorf("failed to save import results: %w", err)
	}

	log.Printf("[ImportService] Import %s ready for review in %v (%d line items, confidence %.1f)",
		imp.ID, time.Since(start), len(items), boundary.Confidence)
	s.broadcastProgress(imp.ID, "import_ready", 100,
		fmt.Sprintf("%d line items extracted, awaiting review", len(items)))
	return nil
}

// Get returns one import record
func (s *ImportService) Get(ctx context.Context, id core.ID) (*draw.Import, error) {
	return s.imports.GetByID(ctx, id)
}

// ListByProject returns all import records for a project
func (s *ImportService) ListByProject(ctx context.Context, projectID core.ID) ([]*draw.Import, error) {
	return s.imports.ListByProject(ctx, projectID)
}

// Override re-extracts with user-corrected mappings and row range.
// The import stays in the review state until confirmed.
func (s *ImportService) Override(ctx context.Context, id core.ID, mappings []ingest.ColumnMapping, rng ingest.RowRange) (*draw.Import, error) {
	imp, err := s.imports.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if imp.Status != draw.StatusReview {
		return nil, apperrors.InvalidInput(fmt.Sprintf("import is %s, not awaiting review", imp.Status))
	}

	grid, _, err := s.newDecoder(imp.FilePath).ReadSheet()
	if err != nil {
		return nil, fmt.Errorf("failed to re-read spreadsheet: %w", err)
	}

	items, stats, err := s.engine.PackageExtraction(grid, mappings, rng, imp.Type)
	if err != nil {
		return nil, err
	}

	imp.Mappings = mappings
	imp.RowRange = rng
	imp.LineItems = items
	imp.Stats = stats
	imp.UpdatedAt = time.Now()

	if err := s.imports.Update(ctx, imp); err != nil {
		return nil, fmt.Errorf("failed to save override: %w", err)
	}
	log.Printf("[ImportService] Import %s re-extracted with override (%d line items)", id, len(items))
	return imp, nil
}

// Confirm accepts the extraction. Draw imports materialize a draw
// request; budget imports update the project budget total.
func (s *ImportService) Confirm(ctx context.Context, id core.ID) (*draw.Import, error) {
	imp, err := s.imports.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if imp.Status != draw.StatusReview {
		return nil, apperrors.InvalidInput(fmt.Sprintf("import is %s, not awaiting review", imp.Status))
	}

	switch imp.Type {
	case ingest.ImportDraw:
		if err := s.createDrawRequest(ctx, imp); err != nil {
			return nil, err
		}
	case ingest.ImportBudget:
		if err := s.applyBudget(ctx, imp); err != nil {
			return nil, err
		}
	}

	imp.Status = draw.StatusConfirmed
	imp.UpdatedAt = time.Now()
	if err := s.imports.Update(ctx, imp); err != nil {
		return nil, fmt.Errorf("failed to confirm import: %w", err)
	}
	log.Printf("[ImportService] Import %s confirmed", id)
	return imp, nil
}

// Dispatch ships a confirmed extraction to the funding workflow
func (s *ImportService) Dispatch(ctx context.Context, id core.ID) (*draw.Import, error) {
	imp, err := s.imports.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if imp.Status != draw.StatusConfirmed {
		return nil, apperrors.InvalidInput(fmt.Sprintf("import is %s, not confirmed", imp.Status))
	}

	if err := s.dispatcher.Dispatch(ctx, imp.ID, imp.Type, imp.LineItems); err != nil {
		return nil, err
	}

	imp.Status = draw.StatusDispatched
	imp.UpdatedAt = time.Now()
	if err := s.imports.Update(ctx, imp); err != nil {
		return nil, fmt.Errorf("failed to record dispatch: %w", err)
	}
	return imp, nil
}

func (s *ImportService) createDrawRequest(ctx context.Context, imp *draw.Import) error {
	number, err := s.draws.NextNumber(ctx, imp.ProjectID)
	if err != nil {
		return fmt.Errorf("failed to assign draw number: %w", err)
	}
	req := &draw.DrawRequest{
		ID:          core.NewID(),
		ProjectID:   imp.ProjectID,
		Number:      number,
		Status:      "draft",
		LineItems:   imp.LineItems,
		TotalAmount: imp.Stats.TotalAmount,
		RequestedAt: time.Now(),
	}
	if err := s.draws.Create(ctx, req); err != nil {
		return fmt.Errorf("failed to create draw request: %w", err)
	}
	log.Printf("[ImportService] Draw request #%d created for project %s", number, imp.ProjectID)
	return nil
}

func (s *ImportService) applyBudget(ctx context.Context, imp *draw.Import) error {
	project, err := s.projects.GetByID(ctx, imp.ProjectID)
	if err != nil {
		return err
	}
	project.BudgetTotal = imp.Stats.TotalAmount
	project.UpdatedAt = time.Now()
	if err := s.projects.Update(ctx, project); err != nil {
		return fmt.Errorf("failed to update project budget: %w", err)
	}
	return nil
}

func (s *ImportService) validateUpload(upload *draw.ImportUpload) error {
	if upload.Filename == "" {
		return apperrors.InvalidInput("filename is required")
	}
	if upload.File == nil {
		return apperrors.InvalidInput("file content is required")
	}
	switch upload.Type {
	case ingest.ImportBudget, ingest.ImportDraw:
	default:
		return apperrors.InvalidInput(fmt.Sprintf("unknown import type: %s", upload.Type))
	}
	ext := strings.ToLower(filepath.Ext(upload.Filename))
	switch ext {
	case ".csv", ".xlsx", ".xls":
	default:
		return apperrors.ValidationError(fmt.Sprintf("unsupported file type: %s", ext))
	}
	if upload.Size > 0 && s.config.MaxFileSize > 0 && upload.Size > s.config.MaxFileSize {
		return apperrors.ValidationError(fmt.Sprintf("file exceeds %d byte limit", s.config.MaxFileSize))
	}
	return nil
}

// storeFile copies the upload to the local upload directory under the
// import's ID so overrides can re-read it later
func (s *ImportService) storeFile(id core.ID, upload *draw.ImportUpload) (string, int64, error) {
	if err := os.MkdirAll(s.config.UploadDir, 0o755); err != nil {
		return "", 0, err
	}
	path := filepath.Join(s.config.UploadDir, string(id)+strings.ToLower(filepath.Ext(upload.Filename)))
	dst, err := os.Create(path)
	if err != nil {
		return "", 0, err
	}
	defer dst.Close()

	var reader io.Reader = upload.File
	if s.config.MaxFileSize > 0 {
		reader = io.LimitReader(upload.File, s.config.MaxFileSize+1)
	}
	written, err := io.Copy(dst, reader)
	if err != nil {
		os.Remove(path)
		return "", 0, err
	}
	if s.config.MaxFileSize > 0 && written > s.config.MaxFileSize {
		os.Remove(path)
		return "", 0, apperrors.ValidationError(fmt.Sprintf("file exceeds %d byte limit", s.config.MaxFileSize))
	}
	return path, written, nil
}

func (s *ImportService) broadcastProgress(importID core.ID, kind string, progress int, message string) {
	if s.registry == nil {
		return
	}
	s.registry.Notify(notify.Event{
		Topic:     "import:" + string(importID),
		Kind:      kind,
		Progress:  float64(progress),
		Message:   message,
		Timestamp: time.Now(),
	})
}
