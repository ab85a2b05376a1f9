package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/LucianBellevue/ba-website/internal/core"
	"github.com/LucianBellevue/ba-website/internal/ratemath"
	"github.com/LucianBellevue/ba-website/internal/rates"
	"github.com/LucianBellevue/ba-website/internal/underwriting"
)

type EstimateHandler struct {
	Estimator *core.Estimator
	Log       *slog.Logger
}

func NewEstimateHandler(e *core.Estimator, log *slog.Logger) *EstimateHandler {
	return &EstimateHandler{Estimator: e, Log: log}
}

func (h *EstimateHandler) Mount(r chi.Router) {
	r.Post("/estimate", h.Create)
}

// EstimateView is the wire form of core.Estimate. Money is whole dollars.
type EstimateView struct {
	ProductType      rates.Product `json:"productType"`
	Outcome          core.Outcome  `json:"outcome"`
	Coverage         string        `json:"coverage"`
	CoverageAmount   int64         `json:"coverageAmount"`
	MaxCoverage      int64         `json:"maxCoverage"`
	RequiresAgent    bool          `json:"requiresAgent"`
	Low              int64         `json:"low,omitempty"`
	High             int64         `json:"high,omitempty"`
	RangePercent     int64         `json:"rangePercent,omitempty"`
	Display          string        `json:"display"`
	TobaccoRateProxy bool          `json:"tobaccoRateProxy,omitempty"`
	Interpolated     bool          `json:"interpolated,omitempty"`
	RatesVersion     string        `json:"ratesVersion"`

	Health *underwriting.Assessment `json:"health,omitempty"`
}

func NewEstimateView(e core.Estimate) EstimateView {
	v := EstimateView{
		ProductType:    e.Product,
		Outcome:        e.Outcome,
		Coverage:       e.Coverage.Key,
		CoverageAmount: e.Coverage.Amount,
		MaxCoverage:    e.MaxCoverage,
		RequiresAgent:  e.RequiresAgent(),
		RatesVersion:   e.RatesVersion,
		Health:         e.Health,
	}
	if e.RequiresAgent() {
		v.Display = "Coverage above " + ratemath.FormatCoverage(e.MaxCoverage) + " requires an agent review."
		return v
	}
	v.Low = e.Low.IntPart()
	v.High = e.High.IntPart()
	v.RangePercent = e.RangePercent.IntPart()
	v.TobaccoRateProxy = e.TobaccoRateProxy
	v.Interpolated = e.Interpolated
	v.Display = ratemath.FormatCurrency(e.Low) + " - " + ratemath.FormatCurrency(e.High) + "/mo"
	return v
}

// Create computes an estimate without capturing a lead.
// 200: JSON; 400: bad JSON/validation; 422: no rate for the inputs.
//
//	@Summary	Estimate a monthly premium range
//	@Tags		estimates
//	@Accept		json
//	@Produce	json
//	@Param		body	body		core.EstimateInput	true	"calculator inputs"
//	@Success	200		{object}	EstimateView
//	@Failure	400		{object}	problem.Problem
//	@Failure	422		{object}	problem.Problem
//	@Router		/api/estimate [post]
func (h *EstimateHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in core.EstimateInput
	if err := decode(r, &in); err != nil {
		writeError(r.Context(), h.Log, w, core.FieldErrors{"body": decodeFailure(err)}, "")
		return
	}

	est, err := h.Estimator.Estimate(in)
	if err != nil {
		writeError(r.Context(), h.Log, w, err, "The estimate could not be computed.")
		return
	}
	writeJSON(w, h.Log, http.StatusOK, NewEstimateView(est))
}

