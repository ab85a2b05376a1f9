package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/LucianBellevue/ba-website/internal/platform/ids"
)

const leadThanks = "Thank you! A licensed agent will contact you shortly."

type LeadService interface {
	// Capture persists a lead, then attempts one notification. Notification
	// failure never fails the capture.
	Capture(ctx context.Context, in LeadInput) (LeadReceipt, error)

	Get(ctx context.Context, id string) (Lead, error)

	// SyncCRM upserts up to limit pending leads into the CRM and reports how
	// many were synced. It is called by the CRM sync worker.
	SyncCRM(ctx context.Context, limit int) (int, error)
}

type LeadServiceOptions struct {
	NotifyTimeout  time.Duration
	MaxCRMAttempts int
}

type leadService struct {
	leads     LeadRepo
	estimator *Estimator
	notifier  Notifier
	crm       CRMClient
	opts      LeadServiceOptions
	log       *slog.Logger
	clock     func() time.Time
}

// NewLeadService wires the lead flow. notifier and crm may be nil.
func NewLeadService(leads LeadRepo, estimator *Estimator, notifier Notifier, crm CRMClient, opts LeadServiceOptions, log *slog.Logger) LeadService {
	if opts.NotifyTimeout <= 0 {
		opts.NotifyTimeout = 10 * time.Second
	}
	if opts.MaxCRMAttempts <= 0 {
		opts.MaxCRMAttempts = 5
	}
	return &leadService{
		leads:     leads,
		estimator: estimator,
		notifier:  notifier,
		crm:       crm,
		opts:      opts,
		log:       log,
		clock:     time.Now,
	}
}

func (s *leadService) Capture(ctx context.Context, in LeadInput) (LeadReceipt, error) {
	// 1) Normalize and validate
	in.Contact = in.Contact.Normalize()
	if err := in.Validate(); err != nil {
		return LeadReceipt{}, err
	}

	// 2) Build the lead
	now := s.clock().UTC()
	lead := Lead{
		ID:              ids.NewLeadID(now),
		Kind:            in.Kind,
		Contact:         in.Contact,
		Message:         in.Message,
		Product:         in.Product,
		ClaimedEstimate: in.ClaimedEstimate,
		Source:          in.Source,
		ClientCreatedAt: in.ClientCreatedAt,
		Notification:    Notification{Status: NotificationSkipped},
		CRM:             CRMState{Status: CRMSkipped},
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if s.crm != nil {
		lead.CRM.Status = CRMPending
	}

	// 3) Recompute the estimate from the submitted inputs. Inputs that do not
	// validate are kept as submitted without an estimate.
	if in.Inputs != nil {
		inputs := *in.Inputs
		if inputs.Product == "" {
			inputs.Product = in.Product
		}
		inputs = inputs.Normalize()
		lead.Inputs = &inputs
		if s.estimator != nil {
			est, err := s.estimator.Estimate(inputs)
			switch {
			case err == nil:
				lead.Estimate = SummarizeEstimate(est)
			case errors.Is(err, ErrValidation):
				s.log.DebugContext(ctx, "lead inputs did not validate", "lead_id", lead.ID, "err", err)
			default:
				s.log.WarnContext(ctx, "lead estimate failed", "lead_id", lead.ID, "err", err)
			}
		}
	}
	if lead.Estimate != nil && lead.ClaimedEstimate != nil && !claimMatches(*lead.ClaimedEstimate, *lead.Estimate) {
		s.log.InfoContext(ctx, "client estimate differs from server",
			"lead_id", lead.ID,
			"claimed_low", lead.ClaimedEstimate.Low.String(),
			"claimed_high", lead.ClaimedEstimate.High.String(),
			"low", lead.Estimate.Low.String(),
			"high", lead.Estimate.High.String())
	}

	// 4) Persist: acceptance is durable from here on
	if err := s.leads.Create(ctx, lead); err != nil {
		return LeadReceipt{}, fmt.Errorf("store lead: %w", err)
	}
	s.log.InfoContext(ctx, "lead received",
		"lead_id", lead.ID,
		"kind", lead.Kind,
		"product", lead.Product,
		"source", lead.Source,
		"crm", lead.CRM.Status)

	// 5) One notification attempt, bounded by the notify timeout
	lead.Notification = s.notify(ctx, lead)

	// 6) Record the outcome; the lead is already stored so this cannot fail the capture
	if err := s.leads.UpdateNotification(ctx, lead.ID, lead.Notification, s.clock().UTC()); err != nil {
		s.log.WarnContext(ctx, "failed to record notification outcome", "lead_id", lead.ID, "err", err)
	}

	return LeadReceipt{
		LeadID:    lead.ID,
		EmailSent: lead.Notification.Status == NotificationSent,
		Message:   leadThanks,
	}, nil
}

func (s *leadService) notify(ctx context.Context, lead Lead) Notification {
	if s.notifier == nil {
		return Notification{Status: NotificationSkipped}
	}

	nctx, cancel := context.WithTimeout(ctx, s.opts.NotifyTimeout)
	defer cancel()

	at := s.clock().UTC()
	err := s.notifier.NotifyLead(nctx, lead)
	switch {
	case err == nil:
		return Notification{Status: NotificationSent, AttemptedAt: &at}
	case errors.Is(err, ErrNotConfigured):
		return Notification{Status: NotificationSkipped}
	default:
		s.log.WarnContext(ctx, "lead notification failed", "lead_id", lead.ID, "err", err)
		return Notification{Status: NotificationFailed, AttemptedAt: &at, Error: err.Error()}
	}
}

func claimMatches(c ClaimedEstimate, e LeadEstimate) bool {
	if e.Outcome == OutcomeReferAgent {
		return c.RequiresAgent
	}
	return c.Low.Equal(e.Low) && c.High.Equal(e.High)
}

func (s *leadService) Get(ctx context.Context, id string) (Lead, error) {
	if id == "" {
		return Lead{}, fmt.Errorf("%w: lead id is required", ErrValidation)
	}
	return s.leads.Get(ctx, id)
}

func (s *leadService) SyncCRM(ctx context.Context, limit int) (int, error) {
	if s.crm == nil {
		return 0, nil
	}

	pending, err := s.leads.FindPendingCRM(ctx, limit)
	if err != nil {
		return 0, err
	}

	synced := 0
	for _, lead := range pending {
		if ctx.Err() != nil {
			return synced, ctx.Err()
		}

		state := lead.CRM
		state.Attempts++

		res, err := s.crm.UpsertContact(ctx, lead.CRMContact())
		switch {
		case err == nil && res.Success:
			state.Status = CRMSynced
			state.ContactID = res.ID
			state.LastError = ""
		default:
			if err == nil {
				err = errors.New("crm reported failure")
			}
			state.LastError = err.Error()
			state.Status = CRMPending
			if state.Attempts >= s.opts.MaxCRMAttempts {
				state.Status = CRMFailed
			}
			s.log.WarnContext(ctx, "crm upsert failed",
				"lead_id", lead.ID,
				"attempts", state.Attempts,
				"status", state.Status,
				"err", err)
		}

		if err := s.leads.UpdateCRM(ctx, lead.ID, state, s.clock().UTC()); err != nil {
			s.log.ErrorContext(ctx, "failed to record crm state", "lead_id", lead.ID, "err", err)
			continue
		}
		if state.Status == CRMSynced {
			synced++
		}
	}
	return synced, nil
}
