package core

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/LucianBellevue/ba-website/internal/rates"
)

// Coverage is one selectable face amount, keyed by its short label ("10k", "1m").
type Coverage struct {
	Key    string `json:"key"`
	Amount int64  `json:"amount"`
}

type Product struct {
	Type         rates.Product       `json:"type"`
	Slug         string              `json:"slug"`
	Name         string              `json:"name"`
	MinAge       int                 `json:"minAge"`
	MaxAge       int                 `json:"maxAge"`
	TermYears    int                 `json:"termYears,omitempty"`
	Styles       []rates.PolicyStyle `json:"styles"`
	DefaultStyle rates.PolicyStyle   `json:"defaultStyle"`
	Coverages    []Coverage          `json:"coverages"`
	HealthStep   bool                `json:"healthStep"`
}

var catalog = []Product{
	{
		Type:         rates.FinalExpense,
		Slug:         "final-expense",
		Name:         "Final Expense Insurance",
		MinAge:       45,
		MaxAge:       85,
		Styles:       []rates.PolicyStyle{rates.StyleImmediate, rates.StyleGraded},
		DefaultStyle: rates.StyleImmediate,
		Coverages:    coverages("5k", "10k", "15k", "20k", "25k", "35k", "50k"),
	},
	{
		Type:         rates.TermLife,
		Slug:         "term-life",
		Name:         "20-Year Term Life Insurance",
		MinAge:       18,
		MaxAge:       75,
		TermYears:    20,
		Styles:       []rates.PolicyStyle{rates.StyleTerm20},
		DefaultStyle: rates.StyleTerm20,
		Coverages:    coverages("100k", "250k", "500k", "750k", "1m"),
	},
	{
		Type:         rates.WholeLife,
		Slug:         "whole-life",
		Name:         "Whole Life Insurance",
		MinAge:       25,
		MaxAge:       70,
		Styles:       []rates.PolicyStyle{rates.StyleLevel},
		DefaultStyle: rates.StyleLevel,
		Coverages:    coverages("25k", "50k", "100k", "250k", "500k"),
		HealthStep:   true,
	},
}

func coverages(keys ...string) []Coverage {
	out := make([]Coverage, len(keys))
	for i, k := range keys {
		amount, err := CoverageAmount(k)
		if err != nil {
			panic(err)
		}
		out[i] = Coverage{Key: k, Amount: amount}
	}
	return out
}

// Products returns the catalog in display order.
func Products() []Product {
	out := make([]Product, len(catalog))
	copy(out, catalog)
	return out
}

// ProductFor looks a product up by type or slug.
func ProductFor(key string) (Product, error) {
	for _, p := range catalog {
		if string(p.Type) == key || p.Slug == key {
			return p, nil
		}
	}
	return Product{}, fmt.Errorf("%w: product %q", ErrNotFound, key)
}

// Coverage returns the option for key if this product offers it.
func (p Product) Coverage(key string) (Coverage, bool) {
	for _, c := range p.Coverages {
		if c.Key == key {
			return c, true
		}
	}
	return Coverage{}, false
}

func (p Product) HasStyle(s rates.PolicyStyle) bool {
	for _, ps := range p.Styles {
		if ps == s {
			return true
		}
	}
	return false
}

// AvailableCoverages filters the options to those within the age's cap.
func (p Product) AvailableCoverages(age int, limits rates.Limits) []Coverage {
	limit := limits.MaxCoverageForAge(age)
	var out []Coverage
	for _, c := range p.Coverages {
		if c.Amount <= limit {
			out = append(out, c)
		}
	}
	return out
}

// CoverageAmount parses a label such as "10k" or "1m" into dollars. A bare
// number is taken as dollars.
func CoverageAmount(label string) (int64, error) {
	l := strings.ToLower(strings.TrimSpace(label))
	if l == "" {
		return 0, fmt.Errorf("%w: coverage %q", ErrValidation, label)
	}
	unit := int64(1)
	switch l[len(l)-1] {
	case 'k':
		unit = 1_000
		l = l[:len(l)-1]
	case 'm':
		unit = 1_000_000
		l = l[:len(l)-1]
	}
	n, err := strconv.ParseInt(l, 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: coverage %q", ErrValidation, label)
	}
	return n * unit, nil
}

// CoverageLabel is the inverse of CoverageAmount.
func CoverageLabel(amount int64) string {
	switch {
	case amount >= 1_000_000 && amount%1_000_000 == 0:
		return strconv.FormatInt(amount/1_000_000, 10) + "m"
	case amount >= 1_000 && amount%1_000 == 0:
		return strconv.FormatInt(amount/1_000, 10) + "k"
	default:
		return strconv.FormatInt(amount, 10)
	}
}
