package ui

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"drawdock/domain/core"
	"drawdock/domain/draw"
	"drawdock/domain/ingest"
	"drawdock/internal/errors"
)

// importIDParam parses the {id} route parameter as an import ID
func importIDParam(r *http.Request) (core.ID, error) {
	id, err := core.ParseImportID(chi.URLParam(r, "id"))
	if err != nil {
		return "", errors.InvalidInput(err.Error())
	}
	return core.ID(id), nil
}

// handleUploadImport accepts a multipart spreadsheet upload and starts
// background processing. Responds immediately with the import ID.
func (a *App) handleUploadImport(w http.ResponseWriter, r *http.Request) {
	projectID, err := core.ParseProjectID(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, errors.InvalidInput(err.Error()))
		return
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		respondError(w, errors.InvalidInput("invalid multipart form"))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, errors.InvalidInput("file field is required"))
		return
	}
	defer file.Close()

	importType := ingest.ImportType(r.FormValue("import_type"))
	if importType == "" {
		importType = ingest.ImportBudget
	}

	upload := &draw.ImportUpload{
		ProjectID: core.ID(projectID),
		Filename:  header.Filename,
		Type:      importType,
		File:      file,
		Size:      header.Size,
	}

	id, err := a.imports.ProcessUpload(r.Context(), upload)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusAccepted, map[string]string{
		"import_id": string(id),
		"status":    string(draw.StatusProcessing),
	})
}

func (a *App) handleListImports(w http.ResponseWriter, r *http.Request) {
	imports, err := a.imports.ListByProject(r.Context(), core.ID(chi.URLParam(r, "id")))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, imports)
}

func (a *App) handleGetImport(w http.ResponseWriter, r *http.Request) {
	id, err := importIDParam(r)
	if err != nil {
		respondError(w, err)
		return
	}
	imp, err := a.imports.Get(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, imp)
}

// handleImportPreview returns the heuristic results held for review
func (a *App) handleImportPreview(w http.ResponseWriter, r *http.Request) {
	id, err := importIDParam(r)
	if err != nil {
		respondError(w, err)
		return
	}
	imp, err := a.imports.Get(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"import_id":  imp.ID,
		"status":     imp.Status,
		"type":       imp.Type,
		"mappings":   imp.Mappings,
		"row_range":  imp.RowRange,
		"confidence": imp.Confidence,
		"line_items": imp.LineItems,
		"stats":      imp.Stats,
	})
}

// handleOverrideImport re-extracts with user-corrected mappings and range
func (a *App) handleOverrideImport(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Mappings []ingest.ColumnMapping `json:"mappings"`
		RowRange ingest.RowRange        `json:"row_range"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if len(req.Mappings) == 0 {
		respondError(w, errors.InvalidInput("mappings are required"))
		return
	}

	id, err := importIDParam(r)
	if err != nil {
		respondError(w, err)
		return
	}
	imp, err := a.imports.Override(r.Context(), id, req.Mappings, req.RowRange)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, imp)
}

func (a *App) handleConfirmImport(w http.ResponseWriter, r *http.Request) {
	id, err := importIDParam(r)
	if err != nil {
		respondError(w, err)
		return
	}
	imp, err := a.imports.Confirm(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, imp)
}

func (a *App) handleDispatchImport(w http.ResponseWriter, r *http.Request) {
	id, err := importIDParam(r)
	if err != nil {
		respondError(w, err)
		return
	}
	imp, err := a.imports.Dispatch(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, imp)
}

// handleImportEvents streams import progress as Server-Sent Events
func (a *App) handleImportEvents(w http.ResponseWriter, r *http.Request) {
	importID := chi.URLParam(r, "id")

	flusher, ok := w.(http.Flusher)
	if !ok {
		respondError(w, errors.InternalError("streaming unsupported"))
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	sub := a.registry.Subscribe("import:" + importID)
	defer sub.Cancel()

	ctx := r.Context()
	for {
		select {
		case event := <-sub.Events:
			payload, err := json.Marshal(event)
			if err != nil {
				log.Printf("[HTTP] Failed to marshal event: %v", err)
				continue
			}
			fmt.Fprintf(w, "event: progress\ndata: %s\n\n", payload)
			flusher.Flush()

		case <-time.After(30 * time.Second):
			// Keep-alive ping
			fmt.Fprintf(w, "event: ping\ndata: {\"timestamp\": %q}\n\n", time.Now().Format(time.RFC3339))
			flusher.Flush()

		case <-ctx.Done():
			return
		}
	}
}
