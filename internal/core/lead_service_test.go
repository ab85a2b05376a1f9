package core_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LucianBellevue/ba-website/internal/core"
	"github.com/LucianBellevue/ba-website/internal/rates"
	"github.com/LucianBellevue/ba-website/internal/store/memory"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

type fakeNotifier struct {
	mu    sync.Mutex
	err   error
	block bool
	sent  []core.Lead
}

func (n *fakeNotifier) NotifyLead(ctx context.Context, lead core.Lead) error {
	if n.block {
		<-ctx.Done()
		return ctx.Err()
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, lead)
	return n.err
}

func (n *fakeNotifier) calls() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sent)
}

type fakeCRM struct {
	err      error
	fail     bool
	contacts []core.CRMContact
}

func (c *fakeCRM) UpsertContact(_ context.Context, contact core.CRMContact) (core.CRMResult, error) {
	c.contacts = append(c.contacts, contact)
	if c.err != nil {
		return core.CRMResult{}, c.err
	}
	if c.fail {
		return core.CRMResult{Success: false}, nil
	}
	return core.CRMResult{ID: "crm_" + contact.LeadID, Success: true}, nil
}

type failingRepo struct{ *memory.LeadRepo }

func (failingRepo) Create(context.Context, core.Lead) error { return errors.New("disk full") }

func contact() core.ContactInfo {
	return core.ContactInfo{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "Ada@Example.com ",
		Phone:     "+1 (555) 123-4567",
		Consent:   true,
	}
}

func newService(repo core.LeadRepo, n core.Notifier, crm core.CRMClient) core.LeadService {
	est := core.NewEstimator(rates.NewRegistry(rates.Default()))
	return core.NewLeadService(repo, est, n, crm, core.LeadServiceOptions{
		NotifyTimeout:  50 * time.Millisecond,
		MaxCRMAttempts: 2,
	}, quiet)
}

func TestCaptureContactForm(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewLeadRepo()
	n := &fakeNotifier{}
	svc := newService(repo, n, &fakeCRM{})

	receipt, err := svc.Capture(ctx, core.LeadInput{Kind: core.LeadContactForm, Contact: contact(), Message: "call after 5"})
	require.NoError(t, err)
	assert.True(t, receipt.EmailSent)
	assert.Regexp(t, `^lead_\d+_[0-9a-f]{8}$`, receipt.LeadID)
	assert.NotEmpty(t, receipt.Message)

	lead, err := svc.Get(ctx, receipt.LeadID)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", lead.Contact.Email)
	assert.Equal(t, "5551234567", lead.Contact.Phone)
	assert.Equal(t, core.NotificationSent, lead.Notification.Status)
	assert.NotNil(t, lead.Notification.AttemptedAt)
	assert.Equal(t, core.CRMPending, lead.CRM.Status)
	assert.Nil(t, lead.Estimate)
	assert.Equal(t, 1, n.calls())
}

func TestCaptureCalculatorRecomputesEstimate(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewLeadRepo()
	svc := newService(repo, &fakeNotifier{}, nil)

	claimed := &core.ClaimedEstimate{Low: decimal.NewFromInt(1), High: decimal.NewFromInt(2)}
	receipt, err := svc.Capture(ctx, core.LeadInput{
		Kind:            core.LeadCalculator,
		Product:         rates.FinalExpense,
		Contact:         contact(),
		Inputs:          &core.EstimateInput{Age: 65, Gender: rates.Female, Coverage: "10k", Product: rates.FinalExpense},
		ClaimedEstimate: claimed,
		Source:          "final-expense-calculator",
	})
	require.NoError(t, err)

	lead, err := repo.Get(ctx, receipt.LeadID)
	require.NoError(t, err)
	require.NotNil(t, lead.Estimate)
	assert.Equal(t, core.OutcomeEstimate, lead.Estimate.Outcome)
	assert.True(t, lead.Estimate.Low.Equal(decimal.NewFromInt(36)))
	assert.True(t, lead.Estimate.High.Equal(decimal.NewFromInt(46)))
	assert.Equal(t, claimed, lead.ClaimedEstimate, "client claim is kept as submitted")
	assert.Equal(t, rates.StyleImmediate, lead.Inputs.Style, "inputs are stored normalized")
	assert.Equal(t, core.CRMSkipped, lead.CRM.Status, "no crm configured")
}

func TestCaptureKeepsLeadWithInvalidInputs(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewLeadRepo()
	svc := newService(repo, &fakeNotifier{}, nil)

	receipt, err := svc.Capture(ctx, core.LeadInput{
		Kind:    core.LeadCalculator,
		Product: rates.FinalExpense,
		Contact: contact(),
		Inputs:  &core.EstimateInput{Age: 30, Gender: rates.Female, Coverage: "10k"},
	})
	require.NoError(t, err)

	lead, err := repo.Get(ctx, receipt.LeadID)
	require.NoError(t, err)
	assert.Nil(t, lead.Estimate)
	require.NotNil(t, lead.Inputs)
	assert.Equal(t, 30, lead.Inputs.Age)
}

func TestCaptureValidation(t *testing.T) {
	tests := []struct {
		name  string
		in    core.LeadInput
		field string
	}{
		{"missing consent", core.LeadInput{Kind: core.LeadContactForm, Contact: func() core.ContactInfo {
			c := contact()
			c.Consent = false
			return c
		}()}, "consent"},
		{"bad email", core.LeadInput{Kind: core.LeadContactForm, Contact: func() core.ContactInfo {
			c := contact()
			c.Email = "nope"
			return c
		}()}, "email"},
		{"short phone", core.LeadInput{Kind: core.LeadContactForm, Contact: func() core.ContactInfo {
			c := contact()
			c.Phone = "555-1234"
			return c
		}()}, "phone"},
		{"unknown product", core.LeadInput{Kind: core.LeadCalculator, Product: "annuity", Contact: contact()}, "productType"},
		{"unknown kind", core.LeadInput{Kind: "fax", Contact: contact()}, "kind"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := memory.NewLeadRepo()
			n := &fakeNotifier{}
			svc := newService(repo, n, nil)

			_, err := svc.Capture(context.Background(), tt.in)
			require.ErrorIs(t, err, core.ErrValidation)
			var fe core.FieldErrors
			require.ErrorAs(t, err, &fe)
			assert.Contains(t, fe, tt.field)
			assert.Zero(t, repo.Len())
			assert.Zero(t, n.calls())
		})
	}
}

func TestCaptureNotificationOutcomes(t *testing.T) {
	tests := []struct {
		name     string
		notifier core.Notifier
		want     core.NotificationStatus
		sent     bool
	}{
		{"failure is not fatal", &fakeNotifier{err: errors.New("smtp down")}, core.NotificationFailed, false},
		{"not configured", &fakeNotifier{err: core.ErrNotConfigured}, core.NotificationSkipped, false},
		{"timeout", &fakeNotifier{block: true}, core.NotificationFailed, false},
		{"no notifier", nil, core.NotificationSkipped, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			repo := memory.NewLeadRepo()
			svc := newService(repo, tt.notifier, nil)

			receipt, err := svc.Capture(ctx, core.LeadInput{Kind: core.LeadContactForm, Contact: contact()})
			require.NoError(t, err)
			assert.Equal(t, tt.sent, receipt.EmailSent)

			lead, err := repo.Get(ctx, receipt.LeadID)
			require.NoError(t, err)
			assert.Equal(t, tt.want, lead.Notification.Status)
		})
	}
}

func TestCaptureStorageFailure(t *testing.T) {
	n := &fakeNotifier{}
	svc := newService(failingRepo{memory.NewLeadRepo()}, n, nil)

	_, err := svc.Capture(context.Background(), core.LeadInput{Kind: core.LeadContactForm, Contact: contact()})
	require.Error(t, err)
	assert.NotErrorIs(t, err, core.ErrValidation)
	assert.Zero(t, n.calls(), "nothing is sent for a lead that was not stored")
}

func TestCaptureDoesNotDeduplicate(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewLeadRepo()
	svc := newService(repo, nil, nil)
	in := core.LeadInput{Kind: core.LeadContactForm, Contact: contact()}

	a, err := svc.Capture(ctx, in)
	require.NoError(t, err)
	b, err := svc.Capture(ctx, in)
	require.NoError(t, err)
	assert.NotEqual(t, a.LeadID, b.LeadID)
	assert.Equal(t, 2, repo.Len())
}

func TestSyncCRM(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewLeadRepo()
	crm := &fakeCRM{}
	svc := newService(repo, nil, crm)

	receipt, err := svc.Capture(ctx, core.LeadInput{
		Kind:    core.LeadCalculator,
		Product: rates.TermLife,
		Contact: contact(),
		Inputs:  &core.EstimateInput{Age: 35, Gender: rates.Male, Coverage: "500k", State: "tx"},
	})
	require.NoError(t, err)

	n, err := svc.SyncCRM(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.Len(t, crm.contacts, 1)
	c := crm.contacts[0]
	assert.Equal(t, receipt.LeadID, c.LeadID)
	assert.Equal(t, "(555) 123-4567", c.Phone)
	assert.Equal(t, "TX", c.State)
	assert.Equal(t, "500k", c.CoverageLabel)
	assert.Equal(t, "$62 - $76/mo", c.EstimateRange)

	lead, err := repo.Get(ctx, receipt.LeadID)
	require.NoError(t, err)
	assert.Equal(t, core.CRMSynced, lead.CRM.Status)
	assert.Equal(t, "crm_"+receipt.LeadID, lead.CRM.ContactID)

	n, err = svc.SyncCRM(ctx, 10)
	require.NoError(t, err)
	assert.Zero(t, n, "synced leads are not picked up again")
}

func TestSyncCRMGivesUpAfterMaxAttempts(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewLeadRepo()
	crm := &fakeCRM{fail: true}
	svc := newService(repo, nil, crm)

	receipt, err := svc.Capture(ctx, core.LeadInput{Kind: core.LeadContactForm, Contact: contact()})
	require.NoError(t, err)

	_, err = svc.SyncCRM(ctx, 10)
	require.NoError(t, err)
	lead, _ := repo.Get(ctx, receipt.LeadID)
	assert.Equal(t, core.CRMPending, lead.CRM.Status)
	assert.Equal(t, 1, lead.CRM.Attempts)

	_, err = svc.SyncCRM(ctx, 10)
	require.NoError(t, err)
	lead, _ = repo.Get(ctx, receipt.LeadID)
	assert.Equal(t, core.CRMFailed, lead.CRM.Status)
	assert.Equal(t, 2, lead.CRM.Attempts)
	assert.NotEmpty(t, lead.CRM.LastError)

	_, err = svc.SyncCRM(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, crm.contacts, 2, "failed leads are not retried")
}

func TestSyncCRMWithoutClient(t *testing.T) {
	svc := newService(memory.NewLeadRepo(), nil, nil)
	n, err := svc.SyncCRM(context.Background(), 10)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestLeadRequestShapes(t *testing.T) {
	form := core.LeadRequest{FirstName: "Ada", LastName: "L", Email: "a@b.co", Phone: "5551234567", Consent: true}
	in := form.Input()
	assert.Equal(t, core.LeadContactForm, in.Kind)
	assert.Equal(t, "Ada", in.Contact.FirstName)

	c := contact()
	calc := core.LeadRequest{
		ProductType: "whole-life",
		Contact:     &c,
		Inputs:      &core.EstimateInput{Age: 40},
	}
	in = calc.Input()
	assert.Equal(t, core.LeadCalculator, in.Kind)
	assert.Equal(t, rates.WholeLife, in.Product)
	require.NotNil(t, in.Inputs)
	assert.Equal(t, rates.WholeLife, in.Inputs.Product)
}

func TestGetRequiresID(t *testing.T) {
	svc := newService(memory.NewLeadRepo(), nil, nil)
	_, err := svc.Get(context.Background(), "")
	assert.ErrorIs(t, err, core.ErrValidation)

	_, err = svc.Get(context.Background(), "lead_0_deadbeef")
	assert.ErrorIs(t, err, core.ErrNotFound)
}
