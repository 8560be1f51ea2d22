// Package ui exposes the HTTP API: builder/project/draw management and
// the spreadsheet import review workflow.
package ui

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"drawdock/app"
	"drawdock/internal/errors"
	"drawdock/internal/notify"
	"drawdock/ports"
)

// App represents the HTTP application
type App struct {
	router   *chi.Mux
	builders ports.BuilderRepository
	projects ports.ProjectRepository
	draws    ports.DrawRepository
	imports  *app.ImportService
	registry *notify.Registry
	port     string
}

// Config holds HTTP application configuration
type Config struct {
	Port string
}

// NewApp creates the HTTP application
func NewApp(
	config Config,
	builders ports.BuilderRepository,
	projects ports.ProjectRepository,
	draws ports.DrawRepository,
	imports *app.ImportService,
	registry *notify.Registry,
) *App {
	a := &App{
		router:   chi.NewRouter(),
		builders: builders,
		projects: projects,
		draws:    draws,
		imports:  imports,
		registry: registry,
		port:     config.Port,
	}

	a.setupMiddleware()
	a.setupRoutes()

	return a
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() {
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))
}

// setupRoutes configures the application routes
func (a *App) setupRoutes() {
	// Builder endpoints
	a.router.Get("/api/builders", a.handleListBuilders)
	a.router.Post("/api/builders", a.handleCreateBuilder)
	a.router.Get("/api/builders/{id}", a.handleGetBuilder)
	a.router.Put("/api/builders/{id}", a.handleUpdateBuilder)
	a.router.Delete("/api/builders/{id}", a.handleDeleteBuilder)
	a.router.Get("/api/builders/{id}/projects", a.handleListBuilderProjects)

	// Project endpoints
	a.router.Post("/api/projects", a.handleCreateProject)
	a.router.Get("/api/projects/{id}", a.handleGetProject)
	a.router.Put("/api/projects/{id}", a.handleUpdateProject)
	a.router.Delete("/api/projects/{id}", a.handleDeleteProject)

	// Draw request endpoints
	a.router.Get("/api/projects/{id}/draws", a.handleListDraws)
	a.router.Get("/api/draws/{id}", a.handleGetDraw)
	a.router.Post("/api/draws/{id}/fund", a.handleFundDraw)

	// Import workflow endpoints
	a.router.Post("/api/projects/{id}/imports", a.handleUploadImport)
	a.router.Get("/api/projects/{id}/imports", a.handleListImports)
	a.router.Get("/api/imports/{id}", a.handleGetImport)
	a.router.Get("/api/imports/{id}/preview", a.handleImportPreview)
	a.router.Post("/api/imports/{id}/override", a.handleOverrideImport)
	a.router.Post("/api/imports/{id}/confirm", a.handleConfirmImport)
	a.router.Post("/api/imports/{id}/dispatch", a.handleDispatchImport)
	a.router.Get("/api/imports/{id}/events", a.handleImportEvents)
}

// Start starts the HTTP server
func (a *App) Start() error {
	addr := ":" + a.port
	log.Printf("Starting DrawDock server on %s", addr)
	return http.ListenAndServe(addr, a.router)
}

// Router exposes the mux for tests
func (a *App) Router() http.Handler {
	return a.router
}

// JSON helpers

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	code := errors.CodeInternalError
	if errors.IsAppError(err) {
		code = errors.GetCode(err)
		switch code {
		case errors.CodeNotFound:
			status = http.StatusNotFound
		case errors.CodeInvalidInput, errors.CodeValidationError,
			errors.CodeNoCategoryColumn, errors.CodeNoAmountColumn, errors.CodeEmptySheet:
			status = http.StatusBadRequest
		}
	}
	log.Printf("[HTTP] Request failed (%s): %v", code, err)
	respondJSON(w, status, map[string]string{"error": err.Error(), "code": code})
}

func decodeBody(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.InvalidInput("invalid request body")
	}
	return nil
}
