package core

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/LucianBellevue/ba-website/internal/rates"
	"github.com/LucianBellevue/ba-website/internal/ratemath"
	"github.com/LucianBellevue/ba-website/internal/underwriting"
)

// HealthDetails is collected by the whole-life flow only.
type HealthDetails struct {
	HeightFeet       int  `json:"heightFeet"`
	HeightInches     int  `json:"heightInches"`
	WeightLbs        int  `json:"weight"`
	ChronicCondition bool `json:"chronicCondition"`
	FamilyHistory    bool `json:"familyHistory"`
	Medications      bool `json:"medications"`
}

// EstimateInput is everything the calculator asks for.
type EstimateInput struct {
	Product  rates.Product     `json:"productType"`
	Style    rates.PolicyStyle `json:"policyStyle,omitempty"`
	State    string            `json:"state,omitempty"`
	Age      int               `json:"age"`
	Gender   rates.Gender      `json:"gender"`
	Tobacco  bool              `json:"tobacco"`
	Coverage string            `json:"coverage"`
	Health   *HealthDetails    `json:"health,omitempty"`
}

// Normalize fills the product's default style and canonicalizes enums.
func (in EstimateInput) Normalize() EstimateInput {
	in.Product = rates.Product(strings.ToLower(strings.TrimSpace(string(in.Product))))
	if g, err := rates.ParseGender(string(in.Gender)); err == nil {
		in.Gender = g
	}
	in.Coverage = strings.ToLower(strings.TrimSpace(in.Coverage))
	if p, err := ProductFor(string(in.Product)); err == nil {
		in.Product = p.Type
		if in.Style == "" {
			in.Style = p.DefaultStyle
		}
	}
	if code, ok := StateCode(in.State); ok {
		in.State = code
	}
	return in
}

// Validate checks the input against the product's rules. Call Normalize first.
func (in EstimateInput) Validate() error {
	fe := FieldErrors{}

	p, err := ProductFor(string(in.Product))
	if err != nil {
		fe.Add("productType", "choose a product")
		return fe
	}
	if !ratemath.InRange(in.Age, p.MinAge, p.MaxAge) {
		fe.Add("age", "age must be between "+strconv.Itoa(p.MinAge)+" and "+strconv.Itoa(p.MaxAge))
	}
	if in.Gender != rates.Female && in.Gender != rates.Male {
		fe.Add("gender", "select a gender")
	}
	if _, ok := p.Coverage(in.Coverage); !ok {
		fe.Add("coverage", "select a coverage amount")
	}
	if !p.HasStyle(in.Style) {
		fe.Add("policyStyle", "select a policy type")
	}
	if in.State != "" {
		if _, ok := StateCode(in.State); !ok {
			fe.Add("state", "select a state")
		}
	}
	if p.HealthStep {
		validateHealth(in.Health, fe)
	}
	return fe.Err()
}

func validateHealth(h *HealthDetails, fe FieldErrors) {
	if h == nil {
		fe.Add("health", "health details are required")
		return
	}
	if !ratemath.InRange(h.HeightFeet, 4, 7) {
		fe.Add("heightFeet", "height must be between 4 and 7 feet")
	}
	if !ratemath.InRange(h.HeightInches, 0, 11) {
		fe.Add("heightInches", "inches must be between 0 and 11")
	}
	if !ratemath.InRange(h.WeightLbs, 80, 500) {
		fe.Add("weight", "weight must be between 80 and 500 lbs")
	}
}

type Outcome string

const (
	OutcomeEstimate   Outcome = "estimate"
	OutcomeReferAgent Outcome = "refer_agent"
)

// Estimate is either a low/high monthly range or a referral to an agent
// because the requested coverage exceeds the age's cap.
type Estimate struct {
	Product      rates.Product
	Outcome      Outcome
	Coverage     Coverage
	MaxCoverage  int64
	RatesVersion string

	// Set only for OutcomeEstimate.
	BaseValue        decimal.Decimal
	Low              decimal.Decimal
	High             decimal.Decimal
	RangePercent     decimal.Decimal
	TobaccoRateProxy bool
	Interpolated     bool
	Health           *underwriting.Assessment
}

func (e Estimate) RequiresAgent() bool { return e.Outcome == OutcomeReferAgent }

// Whole-life answers that load the premium, applied in this order.
var (
	chronicConditionLoading = decimal.RequireFromString("1.15")
	familyHistoryLoading    = decimal.RequireFromString("1.05")
	medicationsLoading      = decimal.RequireFromString("1.08")
)

type spreadKey struct {
	product      rates.Product
	tobacco      bool
	tobaccoProxy bool
}

// Range widths in percent. Tobacco users get a wider range, widest when no
// tobacco table exists and the non-tobacco table stands in.
var spreads = map[spreadKey]decimal.Decimal{
	{rates.FinalExpense, false, false}: decimal.NewFromInt(12),
	{rates.FinalExpense, true, false}:  decimal.NewFromInt(15),
	{rates.FinalExpense, true, true}:   decimal.NewFromInt(18),
	{rates.TermLife, false, false}:     decimal.NewFromInt(10),
	{rates.TermLife, true, false}:      decimal.NewFromInt(15),
	{rates.TermLife, true, true}:       decimal.NewFromInt(20),
	{rates.WholeLife, false, false}:    decimal.NewFromInt(12),
	{rates.WholeLife, true, false}:     decimal.NewFromInt(15),
	{rates.WholeLife, true, true}:      decimal.NewFromInt(18),
}

var defaultSpread = decimal.NewFromInt(15)

// RangePercentage returns the +/- percentage used to widen a base premium.
func RangePercentage(p rates.Product, tobacco, tobaccoTableMissing bool) decimal.Decimal {
	key := spreadKey{p, tobacco, tobacco && tobaccoTableMissing}
	if pct, ok := spreads[key]; ok {
		return pct
	}
	return defaultSpread
}
