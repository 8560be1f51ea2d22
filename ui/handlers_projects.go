package ui

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"drawdock/domain/core"
	"drawdock/domain/draw"
	"drawdock/internal/errors"
)

func (a *App) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var req struct {
		BuilderID  string  `json:"builder_id"`
		Name       string  `json:"name"`
		Address    string  `json:"address"`
		LoanAmount float64 `json:"loan_amount"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if req.Name == "" {
		respondError(w, errors.InvalidInput("project name is required"))
		return
	}
	if req.BuilderID == "" {
		respondError(w, errors.InvalidInput("builder_id is required"))
		return
	}
	if _, err := a.builders.GetByID(r.Context(), core.ID(req.BuilderID)); err != nil {
		respondError(w, errors.NotFound("builder"))
		return
	}

	now := time.Now()
	project := &draw.Project{
		ID:         core.NewID(),
		BuilderID:  core.ID(req.BuilderID),
		Name:       req.Name,
		Address:    req.Address,
		LoanAmount: req.LoanAmount,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := a.projects.Create(r.Context(), project); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, project)
}

func (a *App) handleGetProject(w http.ResponseWriter, r *http.Request) {
	project, err := a.projects.GetByID(r.Context(), core.ID(chi.URLParam(r, "id")))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, project)
}

func (a *App) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	project, err := a.projects.GetByID(r.Context(), core.ID(chi.URLParam(r, "id")))
	if err != nil {
		respondError(w, err)
		return
	}

	var req struct {
		Name       *string  `json:"name"`
		Address    *string  `json:"address"`
		LoanAmount *float64 `json:"loan_amount"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if req.Name != nil {
		project.Name = *req.Name
	}
	if req.Address != nil {
		project.Address = *req.Address
	}
	if req.LoanAmount != nil {
		project.LoanAmount = *req.LoanAmount
	}
	project.UpdatedAt = time.Now()

	if err := a.projects.Update(r.Context(), project); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, project)
}

func (a *App) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	if err := a.projects.Delete(r.Context(), core.ID(chi.URLParam(r, "id"))); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

// Draw request handlers

func (a *App) handleListDraws(w http.ResponseWriter, r *http.Request) {
	draws, err := a.draws.ListByProject(r.Context(), core.ID(chi.URLParam(r, "id")))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, draws)
}

func (a *App) handleGetDraw(w http.ResponseWriter, r *http.Request) {
	dr, err := a.draws.GetByID(r.Context(), core.ID(chi.URLParam(r, "id")))
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dr)
}

// handleFundDraw marks a draw request as funded
func (a *App) handleFundDraw(w http.ResponseWriter, r *http.Request) {
	dr, err := a.draws.GetByID(r.Context(), core.ID(chi.URLParam(r, "id")))
	if err != nil {
		respondError(w, err)
		return
	}
	if dr.Status == "funded" {
		respondError(w, errors.InvalidInput("draw request is already funded"))
		return
	}

	now := time.Now()
	dr.Status = "funded"
	dr.FundedAt = &now
	if err := a.draws.Update(r.Context(), dr); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dr)
}
