package ui

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"drawdock/adapters/funding"
	"drawdock/app"
	"drawdock/domain/core"
	"drawdock/domain/draw"
	heuristics "drawdock/internal/ingest"
	"drawdock/internal/notify"
	"drawdock/internal/testkit"
)

func newTestApp(t *testing.T) (*App, *testkit.MemoryStore) {
	t.Helper()
	store := testkit.NewMemoryStore()
	registry := notify.NewRegistry()
	importService := app.NewImportService(
		store.Imports(), store.Projects(), store.Draws(),
		&funding.MockDispatcher{}, registry, heuristics.NewEngine(),
		app.ImportConfig{UploadDir: t.TempDir(), MaxFileSize: 1 << 20},
	)
	a := NewApp(Config{Port: "0"}, store.Builders(), store.Projects(), store.Draws(), importService, registry)
	return a, store
}

func doJSON(t *testing.T, a *App, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	a.Router().ServeHTTP(rec, req)
	return rec
}

func TestCreateAndGetBuilder(t *testing.T) {
	a, _ := newTestApp(t)

	rec := doJSON(t, a, http.MethodPost, "/api/builders", map[string]string{
		"name":  "Red Cedar Homes",
		"email": "office@redcedar.example",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var created draw.Builder
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatal(err)
	}
	if created.Name != "Red Cedar Homes" {
		t.Errorf("name = %s", created.Name)
	}

	rec = doJSON(t, a, http.MethodGet, "/api/builders/"+string(created.ID), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}
}

func TestListBuildersPaging(t *testing.T) {
	a, _ := newTestApp(t)

	for _, name := range []string{"Alder Homes", "Birch Builders", "Cedar Creek", "Dogwood LLC"} {
		rec := doJSON(t, a, http.MethodPost, "/api/builders", map[string]string{"name": name})
		if rec.Code != http.StatusCreated {
			t.Fatalf("create %s: status = %d", name, rec.Code)
		}
	}

	rec := doJSON(t, a, http.MethodGet, "/api/builders?limit=2&offset=1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var page []draw.Builder
	if err := json.Unmarshal(rec.Body.Bytes(), &page); err != nil {
		t.Fatal(err)
	}
	if len(page) != 2 {
		t.Fatalf("page size = %d, want 2", len(page))
	}
	// Name order, so the page skips Alder and stops before Dogwood
	if page[0].Name != "Birch Builders" || page[1].Name != "Cedar Creek" {
		t.Errorf("page = [%s, %s], want [Birch Builders, Cedar Creek]", page[0].Name, page[1].Name)
	}

	rec = doJSON(t, a, http.MethodGet, "/api/builders?offset=10", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	page = nil
	if err := json.Unmarshal(rec.Body.Bytes(), &page); err != nil {
		t.Fatal(err)
	}
	if len(page) != 0 {
		t.Errorf("past-the-end page size = %d, want 0", len(page))
	}
}

func TestCreateBuilderRequiresName(t *testing.T) {
	a, _ := newTestApp(t)

	rec := doJSON(t, a, http.MethodPost, "/api/builders", map[string]string{"email": "x@example.com"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestCreateProjectValidatesBuilder(t *testing.T) {
	a, _ := newTestApp(t)

	rec := doJSON(t, a, http.MethodPost, "/api/projects", map[string]interface{}{
		"builder_id":  "nonexistent",
		"name":        "Lot 14",
		"loan_amount": 350000,
	})
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestCreateProjectAndListByBuilder(t *testing.T) {
	a, store := newTestApp(t)

	builder := &draw.Builder{ID: core.NewID(), Name: "Red Cedar Homes", CreatedAt: time.Now(), UpdatedAt: time.Now()}
	if err := store.Builders().Create(context.Background(), builder); err != nil {
		t.Fatal(err)
	}

	rec := doJSON(t, a, http.MethodPost, "/api/projects", map[string]interface{}{
		"builder_id":  string(builder.ID),
		"name":        "Lot 14",
		"address":     "14 Cedar Ln",
		"loan_amount": 350000,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, a, http.MethodGet, "/api/builders/"+string(builder.ID)+"/projects", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	var projects []draw.Project
	if err := json.Unmarshal(rec.Body.Bytes(), &projects); err != nil {
		t.Fatal(err)
	}
	if len(projects) != 1 || projects[0].Name != "Lot 14" {
		t.Errorf("projects = %+v", projects)
	}
}

func TestGetImportNotFound(t *testing.T) {
	a, _ := newTestApp(t)

	rec := doJSON(t, a, http.MethodGet, "/api/imports/"+string(core.NewID()), nil)
	if rec.Code != http.StatusInternalServerError && rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want an error status", rec.Code)
	}
}

func TestOverrideRequiresMappings(t *testing.T) {
	a, _ := newTestApp(t)

	rec := doJSON(t, a, http.MethodPost, "/api/imports/"+string(core.NewID())+"/override",
		map[string]interface{}{"row_range": map[string]int{"start_row": 0, "end_row": 3}})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestFundDraw(t *testing.T) {
	a, store := newTestApp(t)

	dr := &draw.DrawRequest{
		ID:          core.NewID(),
		ProjectID:   core.NewID(),
		Number:      1,
		Status:      "draft",
		TotalAmount: 52000,
		RequestedAt: time.Now(),
	}
	if err := store.Draws().Create(context.Background(), dr); err != nil {
		t.Fatal(err)
	}

	rec := doJSON(t, a, http.MethodPost, "/api/draws/"+string(dr.ID)+"/fund", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var funded draw.DrawRequest
	if err := json.Unmarshal(rec.Body.Bytes(), &funded); err != nil {
		t.Fatal(err)
	}
	if funded.Status != "funded" || funded.FundedAt == nil {
		t.Errorf("funded = %+v", funded)
	}

	// Funding twice is rejected.
	rec = doJSON(t, a, http.MethodPost, "/api/draws/"+string(dr.ID)+"/fund", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("second fund status = %d, want 400", rec.Code)
	}
}
