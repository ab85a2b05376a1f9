// Package rates holds the illustrative premium tables and the per-product
// eligibility limits. Tables are built once and never mutated; a new Set is
// swapped in through the Registry when rates change.
package rates

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

type Product string

const (
	FinalExpense Product = "final_expense"
	TermLife     Product = "term_life"
	WholeLife    Product = "whole_life"
)

// Products lists every supported product in display order.
var Products = []Product{FinalExpense, TermLife, WholeLife}

func (p Product) Valid() bool {
	switch p {
	case FinalExpense, TermLife, WholeLife:
		return true
	}
	return false
}

type Gender string

const (
	Female Gender = "female"
	Male   Gender = "male"
)

// ParseGender accepts female/male and their single-letter forms, case-insensitively.
func ParseGender(s string) (Gender, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "female", "f":
		return Female, nil
	case "male", "m":
		return Male, nil
	}
	return "", fmt.Errorf("unknown gender %q", s)
}

// PolicyStyle distinguishes table variants within a product.
type PolicyStyle string

const (
	// StyleImmediate is simplified issue: health questions, full benefit from day one.
	StyleImmediate PolicyStyle = "immediate"
	// StyleGraded is guaranteed issue with a graded benefit period.
	StyleGraded PolicyStyle = "graded"
	StyleTerm20 PolicyStyle = "term20"
	StyleLevel  PolicyStyle = "level"
)

// Styles lists every policy style a table may carry.
var Styles = []PolicyStyle{StyleImmediate, StyleGraded, StyleTerm20, StyleLevel}

func (s PolicyStyle) Valid() bool {
	switch s {
	case StyleImmediate, StyleGraded, StyleTerm20, StyleLevel:
		return true
	}
	return false
}

type TierPremium struct {
	Coverage int64
	Premium  decimal.Decimal
}

// Row is the premium schedule for one (age band, gender) pair. Premiums are
// sorted by coverage and omit tiers the carrier does not offer at that age.
type Row struct {
	Age      int
	Gender   Gender
	Premiums []TierPremium
}

// Premium returns the monthly premium for an exact coverage tier.
func (r Row) Premium(coverage int64) (decimal.Decimal, bool) {
	for _, tp := range r.Premiums {
		if tp.Coverage == coverage {
			return tp.Premium, true
		}
	}
	return decimal.Zero, false
}

// Smallest returns the lowest offered tier.
func (r Row) Smallest() (TierPremium, bool) {
	if len(r.Premiums) == 0 {
		return TierPremium{}, false
	}
	return r.Premiums[0], true
}

type TableKey struct {
	Product Product
	Style   PolicyStyle
	Tobacco bool
}

func (k TableKey) String() string {
	use := "non_tobacco"
	if k.Tobacco {
		use = "tobacco"
	}
	return fmt.Sprintf("%s/%s/%s", k.Product, k.Style, use)
}

type Table struct {
	Key       TableKey
	Coverages []int64
	Rows      []Row
}

// Lookup finds the row for an exact age band and gender. Band selection
// happens in the caller.
func (t *Table) Lookup(ageBand int, g Gender) (Row, bool) {
	for _, r := range t.Rows {
		if r.Age == ageBand && r.Gender == g {
			return r, true
		}
	}
	return Row{}, false
}

// Bands returns the distinct age bands, ascending.
func (t *Table) Bands() []int {
	seen := make(map[int]bool, len(t.Rows))
	var bands []int
	for _, r := range t.Rows {
		if !seen[r.Age] {
			seen[r.Age] = true
			bands = append(bands, r.Age)
		}
	}
	sort.Ints(bands)
	return bands
}

func (t *Table) validate() error {
	if !t.Key.Product.Valid() {
		return fmt.Errorf("table %s: unknown product", t.Key)
	}
	if !t.Key.Style.Valid() {
		return fmt.Errorf("table %s: unknown policy style %q", t.Key, t.Key.Style)
	}
	for i := 1; i < len(t.Coverages); i++ {
		if t.Coverages[i] <= t.Coverages[i-1] {
			return fmt.Errorf("table %s: coverages must be strictly ascending", t.Key)
		}
	}
	offered := make(map[int64]bool, len(t.Coverages))
	for _, c := range t.Coverages {
		offered[c] = true
	}

	type rowKey struct {
		age    int
		gender Gender
	}
	seen := make(map[rowKey]bool, len(t.Rows))
	for i, r := range t.Rows {
		if i > 0 && r.Age < t.Rows[i-1].Age {
			return fmt.Errorf("table %s: rows not sorted by age at band %d", t.Key, r.Age)
		}
		if r.Gender != Female && r.Gender != Male {
			return fmt.Errorf("table %s: band %d has unknown gender %q", t.Key, r.Age, r.Gender)
		}
		k := rowKey{r.Age, r.Gender}
		if seen[k] {
			return fmt.Errorf("table %s: duplicate row for band %d %s", t.Key, r.Age, r.Gender)
		}
		seen[k] = true
		if len(r.Premiums) == 0 {
			return fmt.Errorf("table %s: band %d %s offers no coverage", t.Key, r.Age, r.Gender)
		}
		for j, tp := range r.Premiums {
			if !offered[tp.Coverage] {
				return fmt.Errorf("table %s: band %d %s lists unknown tier %d", t.Key, r.Age, r.Gender, tp.Coverage)
			}
			if !tp.Premium.IsPositive() {
				return fmt.Errorf("table %s: band %d %s tier %d premium must be positive", t.Key, r.Age, r.Gender, tp.Coverage)
			}
			if j > 0 && tp.Coverage <= r.Premiums[j-1].Coverage {
				return fmt.Errorf("table %s: band %d %s tiers out of order", t.Key, r.Age, r.Gender)
			}
		}
	}
	return nil
}
