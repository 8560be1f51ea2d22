package funding

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"drawdock/domain/core"
	"drawdock/domain/ingest"
)

func TestDispatchPostsPayload(t *testing.T) {
	var received dispatchPayload
	var gotAuth, gotPath string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	d, err := NewDispatcher(Config{BaseURL: server.URL, APIKey: "test-key"})
	if err != nil {
		t.Fatal(err)
	}

	items := []ingest.LineItem{
		{Category: "Site Work", Amount: 15000},
		{Category: "Framing", Amount: 88000},
	}
	importID := core.NewID()
	if err := d.Dispatch(context.Background(), importID, ingest.ImportDraw, items); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}

	if gotPath != "/v1/draw-imports" {
		t.Errorf("path = %s, want /v1/draw-imports", gotPath)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("auth header = %q", gotAuth)
	}
	if received.ImportID != string(importID) {
		t.Errorf("import id = %s, want %s", received.ImportID, importID)
	}
	if len(received.LineItems) != 2 || received.LineItems[1].Amount != 88000 {
		t.Errorf("line items = %+v", received.LineItems)
	}
}

func TestDispatchRejectsErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "workflow rejected the import", http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	d, err := NewDispatcher(Config{BaseURL: server.URL})
	if err != nil {
		t.Fatal(err)
	}
	if err := d.Dispatch(context.Background(), core.NewID(), ingest.ImportBudget, nil); err == nil {
		t.Error("expected error for non-2xx response")
	}
}

func TestNewDispatcherRequiresBaseURL(t *testing.T) {
	if _, err := NewDispatcher(Config{}); err == nil {
		t.Error("expected error for empty base URL")
	}
}
