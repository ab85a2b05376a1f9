// Package ratemath holds the numeric helpers shared by the rate tables and the
// estimation engine: band selection, range widening and display formatting.
package ratemath

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)
	half    = decimal.NewFromFloat(0.5)
)

// Range is a low/high monthly premium pair in whole dollars.
type Range struct {
	Low  decimal.Decimal `json:"low"`
	High decimal.Decimal `json:"high"`
}

// NearestLowerBand returns the largest band <= age. Bands must be sorted
// ascending. Ages below every band fall back to the smallest band; an empty
// band list yields 0.
func NearestLowerBand(age int, bands []int) int {
	if len(bands) == 0 {
		return 0
	}
	selected := bands[0]
	for _, b := range bands {
		if b > age {
			break
		}
		selected = b
	}
	return selected
}

// EstimateRange widens value by pct percent in both directions and rounds each
// side to the nearest whole dollar (halves round up).
func EstimateRange(value, pct decimal.Decimal) Range {
	variance := value.Mul(pct).Div(hundred)
	return Range{
		Low:  RoundDollars(value.Sub(variance)),
		High: RoundDollars(value.Add(variance)),
	}
}

// RoundDollars rounds half up to a whole dollar.
func RoundDollars(v decimal.Decimal) decimal.Decimal {
	return v.Add(half).Floor()
}

// FormatCurrency renders whole dollars with thousands separators, e.g. $1,250.
func FormatCurrency(v decimal.Decimal) string {
	rounded := RoundDollars(v)
	neg := rounded.IsNegative()
	digits := rounded.Abs().String()

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteByte('$')
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// FormatCoverage renders a coverage amount, e.g. $250,000.
func FormatCoverage(amount int64) string {
	return FormatCurrency(decimal.NewFromInt(amount))
}

// NormalizePhone strips everything but digits and drops a leading US country
// code. The result is not guaranteed to be valid; see ValidPhone.
func NormalizePhone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) == 11 && digits[0] == '1' {
		digits = digits[1:]
	}
	return digits
}

// ValidPhone reports whether raw normalizes to a 10-digit US number.
func ValidPhone(raw string) bool {
	return len(NormalizePhone(raw)) == 10
}

// FormatPhone renders a US number as (555) 123-4567. Input that does not
// normalize to ten digits is returned unchanged.
func FormatPhone(raw string) string {
	d := NormalizePhone(raw)
	if len(d) != 10 {
		return raw
	}
	return fmt.Sprintf("(%s) %s-%s", d[:3], d[3:6], d[6:])
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail is a shape check only.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(strings.TrimSpace(s))
}

// InRange reports whether min <= v <= max.
func InRange(v, min, max int) bool {
	return v >= min && v <= max
}
