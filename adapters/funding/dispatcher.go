// Package funding ships confirmed extractions to the downstream
// draw-funding workflow over HTTP JSON.
package funding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"drawdock/domain/core"
	"drawdock/domain/ingest"
	"drawdock/internal/errors"
	"drawdock/ports"
)

// Config holds settings for the funding workflow client
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Dispatcher posts packaged line items to the funding workflow
type Dispatcher struct {
	config Config
	client *http.Client
}

// NewDispatcher creates a funding dispatcher
func NewDispatcher(config Config) (*Dispatcher, error) {
	if config.BaseURL == "" {
		return nil, errors.ConfigInvalid("funding base URL is required")
	}
	timeout := config.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Dispatcher{
		config: config,
		client: &http.Client{Timeout: timeout},
	}, nil
}

// dispatchPayload is the wire format the funding workflow accepts
type dispatchPayload struct {
	ImportID   string            `json:"import_id"`
	ImportType ingest.ImportType `json:"import_type"`
	LineItems  []ingest.LineItem `json:"line_items"`
}

// Dispatch sends the extraction; non-2xx responses are errors
func (d *Dispatcher) Dispatch(ctx context.Context, importID core.ID, importType ingest.ImportType, items []ingest.LineItem) error {
	payload := dispatchPayload{
		ImportID:   string(importID),
		ImportType: importType,
		LineItems:  items,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal dispatch payload: %w", err)
	}

	url := d.config.BaseURL + "/v1/draw-imports"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build dispatch request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if d.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+d.config.APIKey)
	}

	log.Printf("[Funding] Dispatching import %s (%d line items)", importID, len(items))
	resp, err := d.client.Do(req)
	if err != nil {
		return errors.ExternalServiceError("funding", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return errors.ExternalServiceError("funding",
			fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(respBody)))
	}

	log.Printf("[Funding] Import %s dispatched successfully", importID)
	return nil
}

// MockDispatcher is a funding dispatcher for testing
type MockDispatcher struct {
	Dispatched []core.ID
	Error      error // Set this to simulate errors
}

func (m *MockDispatcher) Dispatch(ctx context.Context, importID core.ID, importType ingest.ImportType, items []ingest.LineItem) error {
	if m.Error != nil {
		return m.Error
	}
	m.Dispatched = append(m.Dispatched, importID)
	return nil
}

var _ ports.FundingDispatcher = (*Dispatcher)(nil)
var _ ports.FundingDispatcher = (*MockDispatcher)(nil)
