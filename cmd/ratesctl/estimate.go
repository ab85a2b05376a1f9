package main

import (
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/LucianBellevue/ba-website/internal/core"
	"github.com/LucianBellevue/ba-website/internal/ratemath"
	"github.com/LucianBellevue/ba-website/internal/rates"
)

type estimateOptions struct {
	product  string
	style    string
	state    string
	age      int
	gender   string
	tobacco  bool
	coverage string
	health   core.HealthDetails
	asJSON   bool
}

func newEstimateCmd(root *rootOptions) *cobra.Command {
	o := &estimateOptions{}
	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Print the monthly premium range for one applicant",
		Example: `  ratesctl estimate --product final_expense --age 65 --gender female --coverage 10k
  ratesctl estimate --product whole_life --age 40 --gender male --coverage 100k --height-ft 6 --weight 200`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := root.estimator()
			if err != nil {
				return err
			}
			est, err := e.Estimate(o.input())
			if err != nil {
				return err
			}
			if o.asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(estimateJSON(est))
			}
			printEstimate(cmd.OutOrStdout(), est)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&o.product, "product", "", "final_expense, term_life or whole_life (slugs accepted)")
	f.StringVar(&o.style, "style", "", "policy style (immediate, graded, term20, level)")
	f.StringVar(&o.state, "state", "", "state code or name")
	f.IntVar(&o.age, "age", 0, "applicant age")
	f.StringVar(&o.gender, "gender", "", "female or male")
	f.BoolVar(&o.tobacco, "tobacco", false, "tobacco use in the last 12 months")
	f.StringVar(&o.coverage, "coverage", "", "coverage key, e.g. 10k or 1m")
	f.IntVar(&o.health.HeightFeet, "height-ft", 0, "height, feet (whole life)")
	f.IntVar(&o.health.HeightInches, "height-in", 0, "height, inches (whole life)")
	f.IntVar(&o.health.WeightLbs, "weight", 0, "weight in pounds (whole life)")
	f.BoolVar(&o.health.ChronicCondition, "chronic", false, "chronic condition (whole life)")
	f.BoolVar(&o.health.FamilyHistory, "family-history", false, "family history (whole life)")
	f.BoolVar(&o.health.Medications, "medications", false, "daily medications (whole life)")
	f.BoolVar(&o.asJSON, "json", false, "print JSON")
	_ = cmd.MarkFlagRequired("product")

	return cmd
}

func (o *estimateOptions) input() core.EstimateInput {
	in := core.EstimateInput{
		Product:  rates.Product(o.product),
		Style:    rates.PolicyStyle(o.style),
		State:    o.state,
		Age:      o.age,
		Gender:   rates.Gender(o.gender),
		Tobacco:  o.tobacco,
		Coverage: o.coverage,
	}
	if o.health != (core.HealthDetails{}) {
		h := o.health
		in.Health = &h
	}
	return in
}

func printEstimate(w io.Writer, est core.Estimate) {
	if est.RequiresAgent() {
		fmt.Fprintf(w, "Agent review required: %s exceeds the %s online limit at this age.\n",
			ratemath.FormatCoverage(est.Coverage.Amount), ratemath.FormatCoverage(est.MaxCoverage))
		return
	}
	fmt.Fprintf(w, "%s - %s per month\n", ratemath.FormatCurrency(est.Low), ratemath.FormatCurrency(est.High))
	fmt.Fprintf(w, "  base %s, range ±%s%%, rates %s\n", est.BaseValue.StringFixed(2), est.RangePercent, est.RatesVersion)
	if est.Health != nil {
		fmt.Fprintf(w, "  health class %s (BMI %s, x%s)\n", est.Health.HealthClass, est.Health.BMI, est.Health.RateMultiplier)
	}
	if est.TobaccoRateProxy {
		fmt.Fprintln(w, "  no tobacco table for this style; non-tobacco rates with a wider range")
	}
	if est.Interpolated {
		fmt.Fprintln(w, "  coverage tier interpolated from the smallest published tier")
	}
}

type estimateOut struct {
	Product          rates.Product `json:"productType"`
	Outcome          core.Outcome  `json:"outcome"`
	Coverage         int64         `json:"coverage"`
	MaxCoverage      int64         `json:"maxCoverage"`
	Base             string        `json:"base,omitempty"`
	Low              string        `json:"low,omitempty"`
	High             string        `json:"high,omitempty"`
	RangePercent     string        `json:"rangePercent,omitempty"`
	TobaccoRateProxy bool          `json:"tobaccoRateProxy,omitempty"`
	Interpolated     bool          `json:"interpolated,omitempty"`
	RatesVersion     string        `json:"ratesVersion"`
}

func estimateJSON(est core.Estimate) estimateOut {
	out := estimateOut{
		Product:      est.Product,
		Outcome:      est.Outcome,
		Coverage:     est.Coverage.Amount,
		MaxCoverage:  est.MaxCoverage,
		RatesVersion: est.RatesVersion,
	}
	if !est.RequiresAgent() {
		out.Base = est.BaseValue.String()
		out.Low = est.Low.String()
		out.High = est.High.String()
		out.RangePercent = est.RangePercent.String()
		out.TobaccoRateProxy = est.TobaccoRateProxy
		out.Interpolated = est.Interpolated
	}
	return out
}
