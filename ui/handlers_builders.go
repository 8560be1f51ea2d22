package ui

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"drawdock/domain/core"
	"drawdock/domain/draw"
	"drawdock/internal/errors"
)

// handleListBuilders returns builders with optional limit/offset paging
func (a *App) handleListBuilders(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50)
	offset := queryInt(r, "offset", 0)

	builders, err := a.builders.List(r.Context(), limit, offset)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, builders)
}

func (a *App) handleCreateBuilder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name  string `json:"name"`
		Email string `json:"email"`
		Phone string `json:"phone"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if req.Name == "" {
		respondError(w, errors.InvalidInput("builder name is required"))
		return
	}

	now := time.Now()
	builder := &draw.Builder{
		ID:        core.NewID(),
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := a.builders.Create(r.Context(), builder); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, builder)
}

func (a *App) handleGetBuilder(w http.ResponseWriter, r *http.Request) {
	builder, err := a.builders.GetByID(r.Context(), core.ID(chi.URLParam(r, "id")))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, builder)
}

func (a *App) handleUpdateBuilder(w http.ResponseWriter, r *http.Request) {
	builder, err := a.builders.GetByID(r.Context(), core.ID(chi.URLParam(r, "id")))
	if err != nil {
		respondError(w, err)
		return
	}

	var req struct {
		Name  *string `json:"name"`
		Email *string `json:"email"`
		Phone *string `json:"phone"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if req.Name != nil {
		builder.Name = *req.Name
	}
	if req.Email != nil {
		builder.Email = *req.Email
	}
	if req.Phone != nil {
		builder.Phone = *req.Phone
	}
	builder.UpdatedAt = time.Now()

	if err := a.builders.Update(r.Context(), builder); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, builder)
}

func (a *App) handleDeleteBuilder(w http.ResponseWriter, r *http.Request) {
	if err := a.builders.Delete(r.Context(), core.ID(chi.URLParam(r, "id"))); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

func (a *App) handleListBuilderProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := a.projects.ListByBuilder(r.Context(), core.ID(chi.URLParam(r, "id")))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, projects)
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
