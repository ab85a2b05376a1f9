package wizard

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LucianBellevue/ba-website/internal/core"
	"github.com/LucianBellevue/ba-website/internal/rates"
)

type stubSubmitter struct {
	mu      sync.Mutex
	resp    core.LeadResponse
	err     error
	gate    chan struct{} // when set, SubmitLead waits on it
	entered chan struct{}
	reqs    []core.LeadRequest
}

func (s *stubSubmitter) SubmitLead(_ context.Context, req core.LeadRequest) (core.LeadResponse, error) {
	s.mu.Lock()
	s.reqs = append(s.reqs, req)
	s.mu.Unlock()
	if s.entered != nil {
		close(s.entered)
	}
	if s.gate != nil {
		<-s.gate
	}
	return s.resp, s.err
}

func accepted() *stubSubmitter {
	return &stubSubmitter{resp: core.LeadResponse{OK: true, LeadID: "lead_1_abcd1234"}}
}

var ada = core.ContactInfo{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Phone: "555 123 4567", Consent: true}

func newWizard(t *testing.T, product string, sub LeadSubmitter) *Wizard {
	t.Helper()
	w, err := New(product, core.NewEstimator(rates.NewRegistry(rates.Default())), sub, "test")
	require.NoError(t, err)
	return w
}

// toGate walks a final-expense wizard to the contact gate.
func toGate(t *testing.T, w *Wizard, age int, coverage string) {
	t.Helper()
	w.SetBasicInfo(BasicInfo{Age: age, Gender: rates.Female})
	require.NoError(t, w.Continue())
	w.SetCoverage(CoverageDetails{Coverage: coverage})
	require.NoError(t, w.Continue())
	require.Equal(t, StepContactGate, w.Step())
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to Step
		want     bool
	}{
		{StepBasicInfo, StepCoverageDetails, true},
		{StepBasicInfo, StepContactGate, false},
		{StepCoverageDetails, StepResult, false},
		{StepHealthDetails, StepContactGate, true},
		{StepContactGate, StepResult, true},
		{StepResult, StepCoverageDetails, true},
		{StepResult, StepContactGate, false},
		{StepResult, StepBasicInfo, true},
		{StepContactGate, StepBasicInfo, true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CanTransition(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestSteps(t *testing.T) {
	assert.Len(t, newWizard(t, "final_expense", accepted()).Steps(), 4)
	assert.Len(t, newWizard(t, "term-life", accepted()).Steps(), 4)
	assert.Equal(t,
		[]Step{StepBasicInfo, StepCoverageDetails, StepHealthDetails, StepContactGate, StepResult},
		newWizard(t, "whole_life", accepted()).Steps())

	_, err := New("annuity", nil, nil, "")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestContinueIsGated(t *testing.T) {
	tests := []struct {
		name  string
		basic BasicInfo
		field string
	}{
		{"age below range", BasicInfo{Age: 40, Gender: rates.Male}, "age"},
		{"age above range", BasicInfo{Age: 86, Gender: rates.Male}, "age"},
		{"gender required", BasicInfo{Age: 60}, "gender"},
		{"bad state", BasicInfo{Age: 60, Gender: rates.Male, State: "Narnia"}, "state"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newWizard(t, "final_expense", accepted())
			w.SetBasicInfo(tt.basic)

			err := w.Continue()
			assert.ErrorIs(t, err, core.ErrValidation)
			assert.Equal(t, StepBasicInfo, w.Step())
			assert.Contains(t, w.Errors(), tt.field)
			assert.NotContains(t, w.Errors(), "coverage", "later steps are not validated yet")
		})
	}

	w := newWizard(t, "final_expense", accepted())
	w.SetBasicInfo(BasicInfo{Age: 60, Gender: rates.Male})
	require.NoError(t, w.Continue())
	w.SetCoverage(CoverageDetails{Coverage: "1m"})
	assert.ErrorIs(t, w.Continue(), core.ErrValidation)
	assert.Equal(t, StepCoverageDetails, w.Step())
}

func TestContinueStopsAtGate(t *testing.T) {
	w := newWizard(t, "final_expense", accepted())
	toGate(t, w, 65, "10k")

	assert.ErrorIs(t, w.Continue(), core.ErrInvalidState)
	assert.Equal(t, StepContactGate, w.Step())

	_, err := w.Result()
	assert.ErrorIs(t, err, core.ErrInvalidState)
}

func TestWholeLifeHealthStep(t *testing.T) {
	w := newWizard(t, "whole_life", accepted())
	w.SetBasicInfo(BasicInfo{Age: 62, Gender: rates.Female})
	require.NoError(t, w.Continue())
	w.SetCoverage(CoverageDetails{Coverage: "100k"})
	require.NoError(t, w.Continue())
	require.Equal(t, StepHealthDetails, w.Step())

	w.SetHealth(core.HealthDetails{HeightFeet: 5, HeightInches: 6, WeightLbs: 30})
	assert.ErrorIs(t, w.Continue(), core.ErrValidation)
	assert.Contains(t, w.Errors(), "weight")

	w.SetHealth(core.HealthDetails{HeightFeet: 5, HeightInches: 6, WeightLbs: 140})
	require.NoError(t, w.Continue())
	require.Equal(t, StepContactGate, w.Step())

	require.NoError(t, w.Back())
	assert.Equal(t, StepHealthDetails, w.Step())
	require.NoError(t, w.Continue())

	require.NoError(t, w.SubmitContact(context.Background(), ada))
	est, err := w.Result()
	require.NoError(t, err)
	require.NotNil(t, est.Health)
	assert.Equal(t, "254", est.Low.String())
	assert.Equal(t, "323", est.High.String())
}

func TestSubmitContactComputesEstimate(t *testing.T) {
	sub := accepted()
	w := newWizard(t, "final_expense", sub)
	toGate(t, w, 65, "10k")

	require.NoError(t, w.SubmitContact(context.Background(), ada))
	assert.Equal(t, StepResult, w.Step())
	assert.Equal(t, "lead_1_abcd1234", w.LeadID())

	est, err := w.Result()
	require.NoError(t, err)
	assert.Equal(t, "36", est.Low.String())
	assert.Equal(t, "46", est.High.String())

	require.Len(t, sub.reqs, 1)
	req := sub.reqs[0]
	assert.Equal(t, rates.FinalExpense, req.ProductType)
	assert.Equal(t, "5551234567", req.Contact.Phone)
	assert.Equal(t, 65, req.Inputs.Age)
	assert.Nil(t, req.Estimate, "the estimate is computed after the gate")
	assert.Equal(t, "test", req.Source)
}

func TestSubmitContactReferral(t *testing.T) {
	w := newWizard(t, "final_expense", accepted())
	toGate(t, w, 70, "35k")

	require.NoError(t, w.SubmitContact(context.Background(), ada))
	est, err := w.Result()
	require.NoError(t, err)
	assert.True(t, est.RequiresAgent())
	assert.Equal(t, int64(25000), est.MaxCoverage)
}

func TestSubmitContactValidation(t *testing.T) {
	sub := accepted()
	w := newWizard(t, "final_expense", sub)
	toGate(t, w, 65, "10k")

	bad := ada
	bad.Email = "not-an-email"
	bad.Consent = false
	err := w.SubmitContact(context.Background(), bad)
	assert.ErrorIs(t, err, core.ErrValidation)
	assert.Contains(t, w.Errors(), "email")
	assert.Contains(t, w.Errors(), "consent")
	assert.Equal(t, StepContactGate, w.Step())
	assert.Empty(t, sub.reqs)
}

func TestSubmitContactFailure(t *testing.T) {
	tests := []struct {
		name string
		sub  *stubSubmitter
	}{
		{"transport error", &stubSubmitter{err: errors.New("connection refused")}},
		{"server said no", &stubSubmitter{resp: core.LeadResponse{OK: false, Message: "down"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newWizard(t, "final_expense", tt.sub)
			toGate(t, w, 65, "10k")

			err := w.SubmitContact(context.Background(), ada)
			assert.ErrorIs(t, err, ErrSubmitFailed)
			assert.Equal(t, StepContactGate, w.Step())
			assert.Equal(t, SubmitFailedMessage, w.Message())
			assert.False(t, w.Submitting())

			tt.sub.err = nil
			tt.sub.resp = core.LeadResponse{OK: true, LeadID: "lead_2"}
			require.NoError(t, w.SubmitContact(context.Background(), ada), "manual resubmission")
			assert.Empty(t, w.Message())
			assert.Len(t, tt.sub.reqs, 2)
		})
	}
}

func TestSubmitContactRefusesWhileInFlight(t *testing.T) {
	sub := accepted()
	sub.gate = make(chan struct{})
	sub.entered = make(chan struct{})
	w := newWizard(t, "final_expense", sub)
	toGate(t, w, 65, "10k")

	done := make(chan error, 1)
	go func() { done <- w.SubmitContact(context.Background(), ada) }()
	<-sub.entered

	assert.True(t, w.Submitting())
	assert.ErrorIs(t, w.SubmitContact(context.Background(), ada), ErrSubmitting)
	assert.ErrorIs(t, w.Back(), ErrSubmitting)

	close(sub.gate)
	require.NoError(t, <-done)
	assert.Equal(t, StepResult, w.Step())
	assert.Len(t, sub.reqs, 1)
}

func TestStartOverRefusedWhileInFlight(t *testing.T) {
	sub := accepted()
	sub.gate = make(chan struct{})
	sub.entered = make(chan struct{})
	w := newWizard(t, "final_expense", sub)
	toGate(t, w, 65, "10k")

	done := make(chan error, 1)
	go func() { done <- w.SubmitContact(context.Background(), ada) }()
	<-sub.entered

	assert.ErrorIs(t, w.StartOver(), ErrSubmitting)
	assert.Equal(t, StepContactGate, w.Step(), "the session is untouched")
	assert.Equal(t, 65, w.Input().Age)

	close(sub.gate)
	require.NoError(t, <-done)
	assert.Equal(t, StepResult, w.Step())
	assert.NotEmpty(t, w.LeadID())

	require.NoError(t, w.StartOver())
	assert.Equal(t, StepBasicInfo, w.Step())
	assert.Empty(t, w.LeadID())
	_, err := w.Result()
	assert.ErrorIs(t, err, core.ErrInvalidState)
}

func TestBackFromResult(t *testing.T) {
	w := newWizard(t, "final_expense", accepted())
	toGate(t, w, 70, "35k")
	require.NoError(t, w.SubmitContact(context.Background(), ada))

	require.NoError(t, w.Back())
	assert.Equal(t, StepCoverageDetails, w.Step(), "basic info is kept")
	assert.Equal(t, 70, w.Input().Age)
	_, err := w.Result()
	assert.ErrorIs(t, err, core.ErrInvalidState, "the referral is cleared")

	w.SetCoverage(CoverageDetails{Coverage: "20k"})
	require.NoError(t, w.Continue())
	require.NoError(t, w.SubmitContact(context.Background(), ada))
	est, err := w.Result()
	require.NoError(t, err)
	assert.False(t, est.RequiresAgent())
}

func TestBackFromFirstStep(t *testing.T) {
	w := newWizard(t, "term_life", accepted())
	assert.ErrorIs(t, w.Back(), core.ErrInvalidState)
}

func TestStartOver(t *testing.T) {
	w := newWizard(t, "final_expense", accepted())
	toGate(t, w, 65, "10k")
	require.NoError(t, w.SubmitContact(context.Background(), ada))

	require.NoError(t, w.StartOver())
	assert.Equal(t, StepBasicInfo, w.Step())
	assert.Equal(t, core.EstimateInput{Product: rates.FinalExpense, Style: rates.StyleImmediate}, w.Input())
	assert.Empty(t, w.LeadID())
}

func TestAvailableCoverages(t *testing.T) {
	w := newWizard(t, "final_expense", accepted())
	assert.Len(t, w.AvailableCoverages(), 7, "no age yet")

	w.SetBasicInfo(BasicInfo{Age: 70, Gender: rates.Female})
	got := w.AvailableCoverages()
	require.Len(t, got, 5)
	assert.Equal(t, "25k", got[len(got)-1].Key)
}
