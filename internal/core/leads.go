package core

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/LucianBellevue/ba-website/internal/rates"
	"github.com/LucianBellevue/ba-website/internal/ratemath"
	"github.com/LucianBellevue/ba-website/internal/underwriting"
)

type LeadKind string

const (
	LeadContactForm LeadKind = "contact_form"
	LeadCalculator  LeadKind = "calculator"
)

// ContactInfo is what the contact gate and the contact form collect.
type ContactInfo struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	State     string `json:"state,omitempty"`
	Consent   bool   `json:"consent"`
}

func (c ContactInfo) Normalize() ContactInfo {
	c.FirstName = strings.TrimSpace(c.FirstName)
	c.LastName = strings.TrimSpace(c.LastName)
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	c.Phone = ratemath.NormalizePhone(c.Phone)
	if code, ok := StateCode(c.State); ok {
		c.State = code
	}
	return c
}

func (c ContactInfo) Validate() error {
	fe := FieldErrors{}
	if strings.TrimSpace(c.FirstName) == "" {
		fe.Add("firstName", "first name is required")
	}
	if strings.TrimSpace(c.LastName) == "" {
		fe.Add("lastName", "last name is required")
	}
	if !ratemath.ValidEmail(strings.TrimSpace(c.Email)) {
		fe.Add("email", "enter a valid email address")
	}
	if !ratemath.ValidPhone(c.Phone) {
		fe.Add("phone", "enter a 10-digit phone number")
	}
	if c.State != "" {
		if _, ok := StateCode(c.State); !ok {
			fe.Add("state", "select a state")
		}
	}
	if !c.Consent {
		fe.Add("consent", "consent is required to contact you")
	}
	return fe.Err()
}

func (c ContactInfo) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// ClaimedEstimate is the range the browser showed. It is stored for
// comparison only; the server recomputes its own.
type ClaimedEstimate struct {
	Low           decimal.Decimal `json:"low"`
	High          decimal.Decimal `json:"high"`
	RequiresAgent bool            `json:"requiresAgent,omitempty"`
}

// LeadEstimate is the server-side estimate summary kept with a lead.
type LeadEstimate struct {
	Outcome      Outcome                  `json:"outcome"`
	Coverage     int64                    `json:"coverage"`
	MaxCoverage  int64                    `json:"maxCoverage"`
	Low          decimal.Decimal          `json:"low"`
	High         decimal.Decimal          `json:"high"`
	HealthClass  underwriting.HealthClass `json:"healthClass,omitempty"`
	RatesVersion string                   `json:"ratesVersion"`
}

func SummarizeEstimate(e Estimate) *LeadEstimate {
	s := &LeadEstimate{
		Outcome:      e.Outcome,
		Coverage:     e.Coverage.Amount,
		MaxCoverage:  e.MaxCoverage,
		Low:          e.Low,
		High:         e.High,
		RatesVersion: e.RatesVersion,
	}
	if e.Health != nil {
		s.HealthClass = e.Health.HealthClass
	}
	return s
}

// RangeText renders the estimate for people, e.g. "$36 - $46/mo".
func (e LeadEstimate) RangeText() string {
	if e.Outcome == OutcomeReferAgent {
		return "Agent review required for " + ratemath.FormatCoverage(e.Coverage)
	}
	return ratemath.FormatCurrency(e.Low) + " - " + ratemath.FormatCurrency(e.High) + "/mo"
}

// LeadInput is a validated-shape submission from either the contact form or
// the calculator contact gate.
type LeadInput struct {
	Kind            LeadKind
	Contact         ContactInfo
	Message         string
	Product         rates.Product
	Inputs          *EstimateInput
	ClaimedEstimate *ClaimedEstimate
	Source          string
	ClientCreatedAt *time.Time
}

func (in LeadInput) Validate() error {
	fe := FieldErrors{}
	switch in.Kind {
	case LeadContactForm:
	case LeadCalculator:
		if !in.Product.Valid() {
			fe.Add("productType", "unknown product")
		}
	default:
		fe.Add("kind", "unknown lead kind")
	}
	var cfe FieldErrors
	if err := in.Contact.Validate(); errors.As(err, &cfe) {
		for k, v := range cfe {
			fe.Add(k, v)
		}
	}
	if len(in.Message) > 2000 {
		fe.Add("message", "message is too long")
	}
	return fe.Err()
}

type NotificationStatus string

const (
	NotificationSent    NotificationStatus = "sent"
	NotificationFailed  NotificationStatus = "failed"
	NotificationSkipped NotificationStatus = "skipped"
)

type Notification struct {
	Status      NotificationStatus `json:"status"`
	AttemptedAt *time.Time         `json:"attemptedAt,omitempty"`
	Error       string             `json:"error,omitempty"`
}

type CRMStatus string

const (
	CRMPending CRMStatus = "pending"
	CRMSynced  CRMStatus = "synced"
	CRMFailed  CRMStatus = "failed"
	CRMSkipped CRMStatus = "skipped"
)

type CRMState struct {
	Status    CRMStatus `json:"status"`
	ContactID string    `json:"contactId,omitempty"`
	Attempts  int       `json:"attempts"`
	LastError string    `json:"lastError,omitempty"`
}

// Lead is a captured submission as persisted.
type Lead struct {
	ID              string           `json:"id"`
	Kind            LeadKind         `json:"kind"`
	Contact         ContactInfo      `json:"contact"`
	Message         string           `json:"message,omitempty"`
	Product         rates.Product    `json:"productType,omitempty"`
	Inputs          *EstimateInput   `json:"inputs,omitempty"`
	ClaimedEstimate *ClaimedEstimate `json:"claimedEstimate,omitempty"`
	Estimate        *LeadEstimate    `json:"estimate,omitempty"`
	Source          string           `json:"source,omitempty"`
	ClientCreatedAt *time.Time       `json:"clientCreatedAt,omitempty"`
	Notification    Notification     `json:"notification"`
	CRM             CRMState         `json:"crm"`
	CreatedAt       time.Time        `json:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt"`
}

// LeadReceipt is what the submitter gets back.
type LeadReceipt struct {
	LeadID    string
	EmailSent bool
	Message   string
}

// CRMContact is the flattened record upserted into the CRM.
type CRMContact struct {
	LeadID        string `json:"leadId"`
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	State         string `json:"state,omitempty"`
	ProductType   string `json:"productType,omitempty"`
	CoverageLabel string `json:"coverage,omitempty"`
	EstimateRange string `json:"estimateRange,omitempty"`
	Source        string `json:"source,omitempty"`
}

type CRMResult struct {
	ID      string `json:"id"`
	Success bool   `json:"success"`
}

func (l Lead) CRMContact() CRMContact {
	c := CRMContact{
		LeadID:      l.ID,
		FirstName:   l.Contact.FirstName,
		LastName:    l.Contact.LastName,
		Email:       l.Contact.Email,
		Phone:       ratemath.FormatPhone(l.Contact.Phone),
		State:       l.Contact.State,
		ProductType: string(l.Product),
		Source:      l.Source,
	}
	if l.Inputs != nil {
		c.CoverageLabel = l.Inputs.Coverage
		if c.State == "" {
			c.State = l.Inputs.State
		}
	}
	if l.Estimate != nil {
		c.CoverageLabel = CoverageLabel(l.Estimate.Coverage)
		c.EstimateRange = l.Estimate.RangeText()
	}
	return c
}

type LeadRepo interface {
	Create(ctx context.Context, lead Lead) error
	Get(ctx context.Context, id string) (Lead, error)
	UpdateNotification(ctx context.Context, id string, n Notification, updatedAt time.Time) error
	FindPendingCRM(ctx context.Context, limit int) ([]Lead, error)
	UpdateCRM(ctx context.Context, id string, state CRMState, updatedAt time.Time) error
}

// Notifier tells the agency about a new lead. It returns ErrNotConfigured
// when no delivery channel exists.
type Notifier interface {
	NotifyLead(ctx context.Context, lead Lead) error
}

type CRMClient interface {
	UpsertContact(ctx context.Context, c CRMContact) (CRMResult, error)
}

// LeadRequest is the POST /api/lead body. It carries either the flat
// contact-form fields or the calculator fields (productType, inputs,
// estimate, contact).
type LeadRequest struct {
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	State     string `json:"state,omitempty"`
	Message   string `json:"message,omitempty"`
	Consent   bool   `json:"consent,omitempty"`

	ProductType rates.Product    `json:"productType,omitempty"`
	Inputs      *EstimateInput   `json:"inputs,omitempty"`
	Estimate    *ClaimedEstimate `json:"estimate,omitempty"`
	Contact     *ContactInfo     `json:"contact,omitempty"`

	Source    string     `json:"source,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

func (r LeadRequest) IsCalculator() bool {
	return r.Contact != nil || r.ProductType != "" || r.Inputs != nil
}

// Input converts the wire shape into a LeadInput.
func (r LeadRequest) Input() LeadInput {
	in := LeadInput{
		Source:          strings.TrimSpace(r.Source),
		ClientCreatedAt: r.CreatedAt,
		Message:         strings.TrimSpace(r.Message),
	}
	if !r.IsCalculator() {
		in.Kind = LeadContactForm
		in.Contact = ContactInfo{
			FirstName: r.FirstName,
			LastName:  r.LastName,
			Email:     r.Email,
			Phone:     r.Phone,
			State:     r.State,
			Consent:   r.Consent,
		}
		return in
	}

	in.Kind = LeadCalculator
	in.Product = r.ProductType
	if in.Product == "" && r.Inputs != nil {
		in.Product = r.Inputs.Product
	}
	if p, err := ProductFor(string(in.Product)); err == nil {
		in.Product = p.Type
	}
	if r.Contact != nil {
		in.Contact = *r.Contact
	}
	if r.Inputs != nil {
		inputs := *r.Inputs
		if inputs.Product == "" {
			inputs.Product = in.Product
		}
		in.Inputs = &inputs
	}
	in.ClaimedEstimate = r.Estimate
	return in
}

// LeadResponse is the POST /api/lead reply body.
type LeadResponse struct {
	OK        bool   `json:"ok"`
	LeadID    string `json:"leadId,omitempty"`
	Message   string `json:"message"`
	EmailSent bool   `json:"emailSent"`

	Errors map[string]string `json:"errors,omitempty"`
}
