// Package wizard drives the calculator flow one step at a time:
// basic info, coverage, health (whole life only), contact gate, result.
// The estimate is computed only after the contact gate accepts a lead.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/LucianBellevue/ba-website/internal/core"
	"github.com/LucianBellevue/ba-website/internal/rates"
)

type Step string

const (
	StepBasicInfo       Step = "basic_info"
	StepCoverageDetails Step = "coverage_details"
	StepHealthDetails   Step = "health_details"
	StepContactGate     Step = "contact_gate"
	StepResult          Step = "result"
)

// transitions lists every legal move other than StartOver, which is allowed
// from anywhere. Result can only be reached from the contact gate.
var transitions = map[Step][]Step{
	StepBasicInfo:       {StepCoverageDetails},
	StepCoverageDetails: {StepHealthDetails, StepContactGate, StepBasicInfo},
	StepHealthDetails:   {StepContactGate, StepCoverageDetails},
	StepContactGate:     {StepResult, StepHealthDetails, StepCoverageDetails},
	StepResult:          {StepCoverageDetails},
}

func CanTransition(from, to Step) bool {
	if to == StepBasicInfo {
		return true
	}
	return slices.Contains(transitions[from], to)
}

// SubmitFailedMessage is shown at the gate when the lead could not be sent.
const SubmitFailedMessage = "Something went wrong. Please try again or call us."

var (
	ErrSubmitting   = errors.New("a submission is already in flight")
	ErrSubmitFailed = errors.New("lead submission failed")
)

// LeadSubmitter delivers the contact-gate lead, normally to POST /api/lead.
type LeadSubmitter interface {
	SubmitLead(ctx context.Context, req core.LeadRequest) (core.LeadResponse, error)
}

type BasicInfo struct {
	Age     int
	Gender  rates.Gender
	Tobacco bool
	State   string
}

type CoverageDetails struct {
	Coverage string
	Style    rates.PolicyStyle
}

// Fields each step owns in EstimateInput.Validate.
var stepFields = map[Step][]string{
	StepBasicInfo:       {"productType", "age", "gender", "state"},
	StepCoverageDetails: {"coverage", "policyStyle"},
	StepHealthDetails:   {"health", "heightFeet", "heightInches", "weight"},
}

// Wizard is safe for use from a UI goroutine while SubmitContact runs on another.
type Wizard struct {
	product   core.Product
	estimator *core.Estimator
	submitter LeadSubmitter
	source    string
	clock     func() time.Time

	mu         sync.Mutex
	step       Step
	basic      BasicInfo
	coverage   CoverageDetails
	health     core.HealthDetails
	contact    core.ContactInfo
	errs       core.FieldErrors
	message    string
	submitting bool
	leadID     string
	result     *core.Estimate
	resultErr  error
}

// New starts a wizard for product (type or slug). source is recorded on the lead.
func New(product string, estimator *core.Estimator, submitter LeadSubmitter, source string) (*Wizard, error) {
	p, err := core.ProductFor(product)
	if err != nil {
		return nil, err
	}
	w := &Wizard{
		product:   p,
		estimator: estimator,
		submitter: submitter,
		source:    source,
		clock:     time.Now,
	}
	w.reset()
	return w, nil
}

func (w *Wizard) reset() {
	w.step = StepBasicInfo
	w.basic = BasicInfo{}
	w.coverage = CoverageDetails{Style: w.product.DefaultStyle}
	w.health = core.HealthDetails{}
	w.contact = core.ContactInfo{}
	w.errs = nil
	w.message = ""
	w.leadID = ""
	w.result = nil
	w.resultErr = nil
}

// Steps is the ordered flow for the product.
func (w *Wizard) Steps() []Step {
	if w.product.HealthStep {
		return []Step{StepBasicInfo, StepCoverageDetails, StepHealthDetails, StepContactGate, StepResult}
	}
	return []Step{StepBasicInfo, StepCoverageDetails, StepContactGate, StepResult}
}

func (w *Wizard) Product() core.Product { return w.product }

func (w *Wizard) Step() Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

// Errors are the field messages from the last rejected Continue or SubmitContact.
func (w *Wizard) Errors() core.FieldErrors {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.errs
}

// Message is the user-visible submission failure, if any.
func (w *Wizard) Message() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.message
}

func (w *Wizard) Submitting() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.submitting
}

func (w *Wizard) LeadID() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.leadID
}

func (w *Wizard) SetBasicInfo(b BasicInfo) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.basic = b
}

func (w *Wizard) SetCoverage(c CoverageDetails) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if c.Style == "" {
		c.Style = w.product.DefaultStyle
	}
	w.coverage = c
}

func (w *Wizard) SetHealth(h core.HealthDetails) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.health = h
}

// Input is the estimate input assembled from the answers so far.
func (w *Wizard) Input() core.EstimateInput {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.input()
}

func (w *Wizard) input() core.EstimateInput {
	in := core.EstimateInput{
		Product:  w.product.Type,
		Style:    w.coverage.Style,
		State:    w.basic.State,
		Age:      w.basic.Age,
		Gender:   w.basic.Gender,
		Tobacco:  w.basic.Tobacco,
		Coverage: w.coverage.Coverage,
	}
	if w.product.HealthStep {
		h := w.health
		in.Health = &h
	}
	return in
}

// Continue validates the current step and advances. It never moves past the
// contact gate; SubmitContact does that.
func (w *Wizard) Continue() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.step == StepContactGate || w.step == StepResult {
		return fmt.Errorf("%w: continue from %s", core.ErrInvalidState, w.step)
	}

	if fe := w.validateStep(w.step); len(fe) > 0 {
		w.errs = fe
		return fe
	}
	w.errs = nil
	return w.moveTo(w.next())
}

func (w *Wizard) validateStep(s Step) core.FieldErrors {
	err := w.input().Normalize().Validate()
	var all core.FieldErrors
	if !errors.As(err, &all) {
		return nil
	}
	fe := core.FieldErrors{}
	for _, f := range stepFields[s] {
		if msg, ok := all[f]; ok {
			fe.Add(f, msg)
		}
	}
	return fe
}

func (w *Wizard) next() Step {
	steps := w.Steps()
	i := slices.Index(steps, w.step)
	return steps[i+1]
}

func (w *Wizard) moveTo(to Step) error {
	if !CanTransition(w.step, to) {
		return fmt.Errorf("%w: %s to %s", core.ErrInvalidState, w.step, to)
	}
	w.step = to
	return nil
}

// Back returns to the previous step. From the result it goes to coverage
// details and discards the result.
func (w *Wizard) Back() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.submitting {
		return ErrSubmitting
	}
	w.errs = nil
	w.message = ""

	if w.step == StepResult {
		w.result = nil
		w.resultErr = nil
		w.leadID = ""
		return w.moveTo(StepCoverageDetails)
	}

	steps := w.Steps()
	i := slices.Index(steps, w.step)
	if i <= 0 {
		return fmt.Errorf("%w: no step before %s", core.ErrInvalidState, w.step)
	}
	return w.moveTo(steps[i-1])
}

// StartOver clears every answer and returns to basic info. It is refused
// while a lead submission is in flight.
func (w *Wizard) StartOver() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.submitting {
		return ErrSubmitting
	}
	w.reset()
	return nil
}

// SubmitContact sends the lead and, once it is accepted, computes the
// estimate and enters the result step. On failure the wizard stays at the
// gate with Message set and the user may resubmit.
func (w *Wizard) SubmitContact(ctx context.Context, contact core.ContactInfo) error {
	// 1) Gate checks under the lock
	w.mu.Lock()
	if w.step != StepContactGate {
		w.mu.Unlock()
		return fmt.Errorf("%w: submit from %s", core.ErrInvalidState, w.step)
	}
	if w.submitting {
		w.mu.Unlock()
		return ErrSubmitting
	}
	contact = contact.Normalize()
	w.contact = contact
	if err := contact.Validate(); err != nil {
		var fe core.FieldErrors
		errors.As(err, &fe)
		w.errs = fe
		w.mu.Unlock()
		return err
	}
	w.errs = nil
	w.message = ""
	w.submitting = true
	inputs := w.input()
	now := w.clock().UTC()
	w.mu.Unlock()

	// 2) One submission attempt, outside the lock
	resp, err := w.submitter.SubmitLead(ctx, core.LeadRequest{
		ProductType: w.product.Type,
		Inputs:      &inputs,
		Contact:     &contact,
		Source:      w.source,
		CreatedAt:   &now,
	})
	if err == nil && !resp.OK {
		err = fmt.Errorf("lead rejected: %s", resp.Message)
	}

	// 3) Record the outcome
	w.mu.Lock()
	defer w.mu.Unlock()
	w.submitting = false
	if err != nil {
		w.message = SubmitFailedMessage
		return fmt.Errorf("%w: %v", ErrSubmitFailed, err)
	}

	w.leadID = resp.LeadID
	est, err := w.estimator.Estimate(inputs)
	if err != nil {
		w.resultErr = err
	} else {
		w.result = &est
	}
	return w.moveTo(StepResult)
}

// Result returns the computed estimate or referral. It fails before the
// result step, and with core.ErrRateNotFound when no rate matched.
func (w *Wizard) Result() (core.Estimate, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step != StepResult {
		return core.Estimate{}, fmt.Errorf("%w: no result at %s", core.ErrInvalidState, w.step)
	}
	if w.resultErr != nil {
		return core.Estimate{}, w.resultErr
	}
	return *w.result, nil
}

// AvailableCoverages lists the options the entered age may select. Before a
// valid age is known it lists every option.
func (w *Wizard) AvailableCoverages() []core.Coverage {
	w.mu.Lock()
	age := w.basic.Age
	w.mu.Unlock()

	if age < w.product.MinAge || age > w.product.MaxAge {
		return w.product.Coverages
	}
	limits, err := w.estimator.Limits(w.product.Type)
	if err != nil {
		return w.product.Coverages
	}
	return w.product.AvailableCoverages(age, limits)
}
