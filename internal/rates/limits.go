package rates

import (
	"fmt"

	"github.com/LucianBellevue/ba-website/internal/ratemath"
)

type LimitBand struct {
	Age         int
	MaxCoverage int64
}

// Limits caps the coverage an applicant may request by age. Bands are sorted
// ascending by age and caps never increase with age.
type Limits struct {
	Product Product
	Bands   []LimitBand
}

func (l Limits) ages() []int {
	ages := make([]int, len(l.Bands))
	for i, b := range l.Bands {
		ages[i] = b.Age
	}
	return ages
}

// MaxCoverageForAge returns the cap of the nearest band at or below age.
func (l Limits) MaxCoverageForAge(age int) int64 {
	band := ratemath.NearestLowerBand(age, l.ages())
	for _, b := range l.Bands {
		if b.Age == band {
			return b.MaxCoverage
		}
	}
	return 0
}

// ExceedsLimit reports whether amount is strictly above the age's cap.
func (l Limits) ExceedsLimit(age int, amount int64) bool {
	return amount > l.MaxCoverageForAge(age)
}

func (l Limits) validate() error {
	if len(l.Bands) == 0 {
		return fmt.Errorf("limits %s: no bands", l.Product)
	}
	for i := 1; i < len(l.Bands); i++ {
		prev, cur := l.Bands[i-1], l.Bands[i]
		if cur.Age <= prev.Age {
			return fmt.Errorf("limits %s: bands must be strictly ascending at age %d", l.Product, cur.Age)
		}
		if cur.MaxCoverage > prev.MaxCoverage {
			return fmt.Errorf("limits %s: cap rises from %d to %d at age %d", l.Product, prev.MaxCoverage, cur.MaxCoverage, cur.Age)
		}
	}
	for _, b := range l.Bands {
		if b.MaxCoverage <= 0 {
			return fmt.Errorf("limits %s: cap at age %d must be positive", l.Product, b.Age)
		}
	}
	return nil
}
