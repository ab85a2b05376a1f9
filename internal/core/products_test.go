package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LucianBellevue/ba-website/internal/rates"
)

func TestCoverageRoundTrip(t *testing.T) {
	for _, p := range Products() {
		for _, c := range p.Coverages {
			t.Run(string(p.Type)+"/"+c.Key, func(t *testing.T) {
				amount, err := CoverageAmount(c.Key)
				require.NoError(t, err)
				assert.Equal(t, c.Amount, amount)
				assert.Equal(t, c.Key, CoverageLabel(amount))
			})
		}
	}
}

func TestCoverageLabel(t *testing.T) {
	tests := []struct {
		amount int64
		want   string
	}{
		{5_000, "5k"},
		{250_000, "250k"},
		{1_000_000, "1m"},
		{1_500_000, "1500k"},
		{1_500, "1500"},
		{750, "750"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got := CoverageLabel(tt.amount)
			assert.Equal(t, tt.want, got)

			back, err := CoverageAmount(got)
			require.NoError(t, err)
			assert.Equal(t, tt.amount, back)
		})
	}
}

func TestCoverageAmountRejects(t *testing.T) {
	for _, label := range []string{"", "k", "m", "-5k", "0k", "ten", "10x"} {
		_, err := CoverageAmount(label)
		assert.ErrorIs(t, err, ErrValidation, "%q", label)
	}
}

func TestProductFor(t *testing.T) {
	p, err := ProductFor("whole-life")
	require.NoError(t, err)
	assert.Equal(t, rates.WholeLife, p.Type)

	_, err = ProductFor("annuity")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCRMContactUsesCanonicalCoverageLabel(t *testing.T) {
	lead := Lead{
		ID:       "lead_1_abcd1234",
		Product:  rates.TermLife,
		Inputs:   &EstimateInput{Product: rates.TermLife, Coverage: "1000k"},
		Estimate: &LeadEstimate{Outcome: OutcomeEstimate, Coverage: 1_000_000},
	}
	assert.Equal(t, "1m", lead.CRMContact().CoverageLabel)

	lead.Estimate = nil
	assert.Equal(t, "1000k", lead.CRMContact().CoverageLabel, "raw input without an estimate")
}
