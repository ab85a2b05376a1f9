package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/LucianBellevue/ba-website/internal/core"
)

const (
	leadInvalidMessage = "Please check the highlighted fields and try again."
	leadFailedMessage  = "Something went wrong. Please try again or call us."
)

type LeadHandler struct {
	Svc core.LeadService
	Log *slog.Logger

	// Throttle wraps POST /lead, typically a per-IP rate limiter. Optional.
	Throttle func(http.Handler) http.Handler
}

func NewLeadHandler(svc core.LeadService, log *slog.Logger) *LeadHandler {
	return &LeadHandler{Svc: svc, Log: log}
}

func (h *LeadHandler) Mount(r chi.Router) {
	if h.Throttle != nil {
		r = r.With(h.Throttle)
	}
	r.Post("/lead", h.Create)
}

// Create accepts a contact-form or calculator lead.
// 200: {ok:true}; 400: bad JSON/validation; 500: the lead could not be stored.
//
//	@Summary	Capture a lead
//	@Tags		leads
//	@Accept		json
//	@Produce	json
//	@Param		body	body		core.LeadRequest	true	"contact-form or calculator lead"
//	@Success	200		{object}	core.LeadResponse
//	@Failure	400		{object}	core.LeadResponse
//	@Failure	500		{object}	core.LeadResponse
//	@Router		/api/lead [post]
func (h *LeadHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req core.LeadRequest
	if err := decode(r, &req); err != nil {
		writeJSON(w, h.Log, http.StatusBadRequest, core.LeadResponse{Message: decodeFailure(err)})
		return
	}

	receipt, err := h.Svc.Capture(r.Context(), req.Input())
	if err != nil {
		var fe core.FieldErrors
		switch {
		case errors.As(err, &fe):
			h.Log.InfoContext(r.Context(), "lead rejected", "fields", fe.Fields())
			writeJSON(w, h.Log, http.StatusBadRequest, core.LeadResponse{Message: leadInvalidMessage, Errors: fe})
		case errors.Is(err, core.ErrValidation):
			writeJSON(w, h.Log, http.StatusBadRequest, core.LeadResponse{Message: leadInvalidMessage})
		default:
			h.Log.ErrorContext(r.Context(), "lead capture failed", "err", err)
			writeJSON(w, h.Log, http.StatusInternalServerError, core.LeadResponse{Message: leadFailedMessage})
		}
		return
	}

	writeJSON(w, h.Log, http.StatusOK, core.LeadResponse{
		OK:        true,
		LeadID:    receipt.LeadID,
		Message:   receipt.Message,
		EmailSent: receipt.EmailSent,
	})
}
