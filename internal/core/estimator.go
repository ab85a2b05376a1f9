package core

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/LucianBellevue/ba-website/internal/rates"
	"github.com/LucianBellevue/ba-website/internal/ratemath"
	"github.com/LucianBellevue/ba-website/internal/underwriting"
)

// Estimator turns calculator input into an estimate using the registry's
// current rate set. It holds no per-request state.
type Estimator struct {
	rates *rates.Registry
}

func NewEstimator(reg *rates.Registry) *Estimator {
	return &Estimator{rates: reg}
}

// Limits exposes the current eligibility schedule for a product.
func (e *Estimator) Limits(p rates.Product) (rates.Limits, error) {
	l, err := e.rates.Current().Limits(p)
	if err != nil {
		return rates.Limits{}, fmt.Errorf("%w: %v", ErrRateNotFound, err)
	}
	return l, nil
}

// RatesVersion names the rate set estimates are currently computed from.
func (e *Estimator) RatesVersion() string { return e.rates.Current().Version }

func (e *Estimator) Estimate(in EstimateInput) (Estimate, error) {
	// 1) validate and resolve the coverage label
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return Estimate{}, err
	}
	product, err := ProductFor(string(in.Product))
	if err != nil {
		return Estimate{}, err
	}
	coverage, _ := product.Coverage(in.Coverage)

	set := e.rates.Current()
	limits, err := set.Limits(in.Product)
	if err != nil {
		return Estimate{}, fmt.Errorf("%w: %v", ErrRateNotFound, err)
	}

	est := Estimate{
		Product:      in.Product,
		Coverage:     coverage,
		MaxCoverage:  limits.MaxCoverageForAge(in.Age),
		RatesVersion: set.Version,
	}

	// 2) eligibility
	if limits.ExceedsLimit(in.Age, coverage.Amount) {
		est.Outcome = OutcomeReferAgent
		return est, nil
	}

	// 3) table row for the age band
	table, proxy, err := set.Resolve(in.Product, in.Style, in.Tobacco)
	if err != nil {
		return Estimate{}, fmt.Errorf("%w: %v", ErrRateNotFound, err)
	}
	band := ratemath.NearestLowerBand(in.Age, table.Bands())
	row, ok := table.Lookup(band, in.Gender)
	if !ok {
		return Estimate{}, fmt.Errorf("%w: %s band %d %s", ErrRateNotFound, table.Key, band, in.Gender)
	}

	// 4) base premium, scaled from the smallest tier when the tier is not quoted
	base, ok := row.Premium(coverage.Amount)
	if !ok {
		smallest, ok := row.Smallest()
		if !ok {
			return Estimate{}, fmt.Errorf("%w: %s band %d %s has no tiers", ErrRateNotFound, table.Key, band, in.Gender)
		}
		base = smallest.Premium.
			Mul(decimal.NewFromInt(coverage.Amount)).
			Div(decimal.NewFromInt(smallest.Coverage))
		est.Interpolated = true
	}

	// 5) whole-life health class and answers
	if in.Product == rates.WholeLife && in.Health != nil {
		a := underwriting.Assess(underwriting.Profile{
			HeightFeet:   in.Health.HeightFeet,
			HeightInches: in.Health.HeightInches,
			WeightLbs:    decimal.NewFromInt(int64(in.Health.WeightLbs)),
			Age:          in.Age,
			Gender:       in.Gender,
			Tobacco:      in.Tobacco,
		})
		base = base.Mul(a.RateMultiplier)
		if in.Health.ChronicCondition {
			base = base.Mul(chronicConditionLoading)
		}
		if in.Health.FamilyHistory {
			base = base.Mul(familyHistoryLoading)
		}
		if in.Health.Medications {
			base = base.Mul(medicationsLoading)
		}
		est.Health = &a
	}

	// 6) widen into a range
	pct := RangePercentage(in.Product, in.Tobacco, proxy)
	r := ratemath.EstimateRange(base, pct)

	est.Outcome = OutcomeEstimate
	est.BaseValue = base.Round(2)
	est.Low = r.Low
	est.High = r.High
	est.RangePercent = pct
	est.TobaccoRateProxy = proxy
	return est, nil
}
