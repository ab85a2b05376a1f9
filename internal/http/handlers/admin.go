package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/LucianBellevue/ba-website/internal/core"
	"github.com/LucianBellevue/ba-website/internal/rates"
	"github.com/LucianBellevue/ba-website/pkg/problem"
)

// AdminHandler serves agency-only routes. The router puts it behind the API key.
type AdminHandler struct {
	Leads     core.LeadService
	Rates     *rates.Registry
	RatesFile string
	Log       *slog.Logger
}

func NewAdminHandler(leads core.LeadService, reg *rates.Registry, ratesFile string, log *slog.Logger) *AdminHandler {
	return &AdminHandler{Leads: leads, Rates: reg, RatesFile: ratesFile, Log: log}
}

func (h *AdminHandler) Mount(r chi.Router) {
	r.Get("/leads/{lead_id}", h.GetLead)
	r.Post("/rates/reload", h.ReloadRates)
}

// GetLead returns a stored lead with its notification and CRM state.
// 200: JSON; 404: not found.
//
//	@Summary	Get a lead
//	@Tags		admin
//	@Produce	json
//	@Security	ApiKeyAuth
//	@Param		lead_id	path		string	true	"lead id"
//	@Success	200		{object}	core.Lead
//	@Failure	401		{object}	problem.Problem
//	@Failure	404		{object}	problem.Problem
//	@Router		/api/admin/leads/{lead_id} [get]
func (h *AdminHandler) GetLead(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "lead_id")
	lead, err := h.Leads.Get(r.Context(), id)
	if err != nil {
		writeError(r.Context(), h.Log, w, err, "Lead not found.")
		return
	}
	writeJSON(w, h.Log, http.StatusOK, lead)
}

type ReloadResult struct {
	Previous string `json:"previousVersion"`
	Version  string `json:"version"`
}

// ReloadRates re-reads RATES_FILE and swaps it in. A file that does not
// parse leaves the current rates in place.
// 200: JSON; 409: no file configured; 400: file rejected.
//
//	@Summary	Reload rate tables
//	@Tags		admin
//	@Produce	json
//	@Security	ApiKeyAuth
//	@Success	200	{object}	ReloadResult
//	@Failure	400	{object}	problem.Problem
//	@Failure	409	{object}	problem.Problem
//	@Router		/api/admin/rates/reload [post]
func (h *AdminHandler) ReloadRates(w http.ResponseWriter, r *http.Request) {
	if h.RatesFile == "" {
		problem.Write(w, http.StatusConflict, "No Rates File", "RATES_FILE is not configured; the shipped tables are in use.")
		return
	}

	prev := h.Rates.Current().Version
	next, err := h.Rates.ReloadFile(h.RatesFile)
	if err != nil {
		writeError(r.Context(), h.Log, w, fmt.Errorf("%w: %v", core.ErrValidation, err), err.Error())
		return
	}

	h.Log.InfoContext(r.Context(), "rates reloaded", "previous", prev, "version", next.Version)
	writeJSON(w, h.Log, http.StatusOK, ReloadResult{Previous: prev, Version: next.Version})
}
