package app

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"drawdock/adapters/funding"
	"drawdock/domain/core"
	"drawdock/domain/draw"
	"drawdock/domain/ingest"
	apperrors "drawdock/internal/errors"
	heuristics "drawdock/internal/ingest"
	"drawdock/internal/notify"
	"drawdock/internal/testkit"
	"drawdock/ports"
)

type serviceFixture struct {
	service    *ImportService
	store      *testkit.MemoryStore
	dispatcher *funding.MockDispatcher
	projectID  core.ID
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()
	store := testkit.NewMemoryStore()
	dispatcher := &funding.MockDispatcher{}
	registry := notify.NewRegistry()

	service := NewImportService(
		store.Imports(), store.Projects(), store.Draws(),
		dispatcher, registry, heuristics.NewEngine(),
		ImportConfig{UploadDir: t.TempDir(), MaxFileSize: 1 << 20},
	)

	// Decode the canned fixture instead of the stored file.
	grid, styles := testkit.StandardBudgetSheet()
	service.newDecoder = func(path string) ports.SheetDecoder {
		return &testkit.StubDecoder{Grid: grid, Styles: styles}
	}

	project := &draw.Project{
		ID:        core.NewID(),
		BuilderID: core.NewID(),
		Name:      "Lot 14",
	}
	if err := store.Projects().Create(context.Background(), project); err != nil {
		t.Fatal(err)
	}

	return &serviceFixture{
		service:    service,
		store:      store,
		dispatcher: dispatcher,
		projectID:  project.ID,
	}
}

// waitForStatus polls until the import leaves the processing state
func waitForStatus(t *testing.T, f *serviceFixture, id core.ID) *draw.Import {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		imp, err := f.store.Imports().GetByID(context.Background(), id)
		if err != nil {
			t.Fatal(err)
		}
		if imp.Status != draw.StatusProcessing {
			return imp
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("import never left the processing state")
	return nil
}

func budgetUpload(projectID core.ID) *draw.ImportUpload {
	return &draw.ImportUpload{
		ProjectID: projectID,
		Filename:  "budget.csv",
		Type:      ingest.ImportBudget,
		File:      strings.NewReader("placeholder file body"),
		Size:      21,
	}
}

func TestProcessUploadRunsHeuristics(t *testing.T) {
	f := newServiceFixture(t)

	id, err := f.service.ProcessUpload(context.Background(), budgetUpload(f.projectID))
	if err != nil {
		t.Fatalf("ProcessUpload: %v", err)
	}

	imp := waitForStatus(t, f, id)
	if imp.Status != draw.StatusReview {
		t.Fatalf("status = %s, want review (error: %s)", imp.Status, imp.ErrorMessage)
	}
	if len(imp.LineItems) != 12 {
		t.Errorf("line items = %d, want 12", len(imp.LineItems))
	}
	if imp.RowRange.EndRow != 11 {
		t.Errorf("EndRow = %d, want 11", imp.RowRange.EndRow)
	}
	if len(imp.Mappings) != 3 {
		t.Errorf("mappings = %d, want one per column", len(imp.Mappings))
	}
}

func TestProcessUploadRejectsBadExtension(t *testing.T) {
	f := newServiceFixture(t)

	upload := budgetUpload(f.projectID)
	upload.Filename = "budget.pdf"
	_, err := f.service.ProcessUpload(context.Background(), upload)
	if err == nil {
		t.Fatal("expected error for unsupported extension")
	}
	if apperrors.GetCode(err) != apperrors.CodeValidationError {
		t.Errorf("error code = %s, want %s", apperrors.GetCode(err), apperrors.CodeValidationError)
	}
}

func TestProcessUploadDecodeFailureMarksFailed(t *testing.T) {
	f := newServiceFixture(t)
	f.service.newDecoder = func(path string) ports.SheetDecoder {
		return &testkit.StubDecoder{Err: errors.New("corrupt workbook")}
	}

	id, err := f.service.ProcessUpload(context.Background(), budgetUpload(f.projectID))
	if err != nil {
		t.Fatal(err)
	}

	imp := waitForStatus(t, f, id)
	if imp.Status != draw.StatusFailed {
		t.Errorf("status = %s, want failed", imp.Status)
	}
	if !strings.Contains(imp.ErrorMessage, "budget.csv") {
		t.Errorf("error message %q must name the uploaded file", imp.ErrorMessage)
	}
}

func TestProcessUploadRejectsUnknownProject(t *testing.T) {
	f := newServiceFixture(t)

	upload := budgetUpload(core.NewID())
	if _, err := f.service.ProcessUpload(context.Background(), upload); err == nil {
		t.Error("expected error for unknown project")
	}
}

func TestProcessUploadRejectsOversizedFile(t *testing.T) {
	f := newServiceFixture(t)

	upload := budgetUpload(f.projectID)
	upload.Size = 10 << 20
	_, err := f.service.ProcessUpload(context.Background(), upload)
	if err == nil {
		t.Fatal("expected error for oversized file")
	}
	if apperrors.GetCode(err) != apperrors.CodeValidationError {
		t.Errorf("error code = %s, want %s", apperrors.GetCode(err), apperrors.CodeValidationError)
	}
}

func TestConfirmBudgetImportSetsProjectBudget(t *testing.T) {
	f := newServiceFixture(t)

	id, err := f.service.ProcessUpload(context.Background(), budgetUpload(f.projectID))
	if err != nil {
		t.Fatal(err)
	}
	waitForStatus(t, f, id)

	imp, err := f.service.Confirm(context.Background(), id)
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if imp.Status != draw.StatusConfirmed {
		t.Errorf("status = %s, want confirmed", imp.Status)
	}

	project, err := f.store.Projects().GetByID(context.Background(), f.projectID)
	if err != nil {
		t.Fatal(err)
	}
	if project.BudgetTotal != 302500 {
		t.Errorf("BudgetTotal = %v, want 302500", project.BudgetTotal)
	}
}

func TestConfirmDrawImportCreatesDrawRequest(t *testing.T) {
	f := newServiceFixture(t)

	upload := budgetUpload(f.projectID)
	upload.Type = ingest.ImportDraw
	id, err := f.service.ProcessUpload(context.Background(), upload)
	if err != nil {
		t.Fatal(err)
	}
	waitForStatus(t, f, id)

	if _, err := f.service.Confirm(context.Background(), id); err != nil {
		t.Fatalf("Confirm: %v", err)
	}

	draws, err := f.store.Draws().ListByProject(context.Background(), f.projectID)
	if err != nil {
		t.Fatal(err)
	}
	if len(draws) != 1 {
		t.Fatalf("draw requests = %d, want 1", len(draws))
	}
	if draws[0].Number != 1 {
		t.Errorf("draw number = %d, want 1", draws[0].Number)
	}
	if draws[0].TotalAmount != 302500 {
		t.Errorf("draw total = %v, want 302500", draws[0].TotalAmount)
	}
}

func TestConfirmRequiresReviewState(t *testing.T) {
	f := newServiceFixture(t)

	id, err := f.service.ProcessUpload(context.Background(), budgetUpload(f.projectID))
	if err != nil {
		t.Fatal(err)
	}
	waitForStatus(t, f, id)

	if _, err := f.service.Confirm(context.Background(), id); err != nil {
		t.Fatal(err)
	}
	if _, err := f.service.Confirm(context.Background(), id); err == nil {
		t.Error("confirming twice must fail")
	}
}

func TestOverrideReExtracts(t *testing.T) {
	f := newServiceFixture(t)

	id, err := f.service.ProcessUpload(context.Background(), budgetUpload(f.projectID))
	if err != nil {
		t.Fatal(err)
	}
	first := waitForStatus(t, f, id)

	// Narrow the range to the first three budget lines.
	imp, err := f.service.Override(context.Background(), id, first.Mappings,
		ingest.RowRange{StartRow: 0, EndRow: 2})
	if err != nil {
		t.Fatalf("Override: %v", err)
	}
	if len(imp.LineItems) != 3 {
		t.Errorf("line items after override = %d, want 3", len(imp.LineItems))
	}
	if imp.Status != draw.StatusReview {
		t.Errorf("status = %s, override must keep the import in review", imp.Status)
	}
}

func TestDispatchRequiresConfirmation(t *testing.T) {
	f := newServiceFixture(t)

	id, err := f.service.ProcessUpload(context.Background(), budgetUpload(f.projectID))
	if err != nil {
		t.Fatal(err)
	}
	waitForStatus(t, f, id)

	if _, err := f.service.Dispatch(context.Background(), id); err == nil {
		t.Error("dispatch before confirm must fail")
	}

	if _, err := f.service.Confirm(context.Background(), id); err != nil {
		t.Fatal(err)
	}
	imp, err := f.service.Dispatch(context.Background(), id)
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if imp.Status != draw.StatusDispatched {
		t.Errorf("status = %s, want dispatched", imp.Status)
	}
	if len(f.dispatcher.Dispatched) != 1 || f.dispatcher.Dispatched[0] != id {
		t.Errorf("dispatcher saw %v, want [%s]", f.dispatcher.Dispatched, id)
	}
}

func TestProcessUploadsConcurrent(t *testing.T) {
	f := newServiceFixture(t)

	uploads := []*draw.ImportUpload{
		budgetUpload(f.projectID),
		budgetUpload(f.projectID),
		budgetUpload(f.projectID),
	}
	ids, err := f.service.ProcessUploads(context.Background(), uploads)
	if err != nil {
		t.Fatalf("ProcessUploads: %v", err)
	}
	if len(ids) != 3 {
		t.Fatalf("ids = %d, want 3", len(ids))
	}
	for _, id := range ids {
		waitForStatus(t, f, id)
	}
}
