// Package underwriting derives an illustrative health class from build,
// age and tobacco use. It is used by the whole-life estimate only.
package underwriting

import (
	"github.com/shopspring/decimal"

	"github.com/LucianBellevue/ba-website/internal/rates"
)

type BMICategory string

const (
	BMIUnderweight BMICategory = "underweight"
	BMINormal      BMICategory = "normal"
	BMIOverweight  BMICategory = "overweight"
	BMIObeseI      BMICategory = "obese_i"
	BMIObeseII     BMICategory = "obese_ii"
	BMIObeseIII    BMICategory = "obese_iii"
)

type HealthClass string

const (
	PreferredPlus HealthClass = "preferred_plus"
	Preferred     HealthClass = "preferred"
	StandardPlus  HealthClass = "standard_plus"
	Standard      HealthClass = "standard"
	Substandard   HealthClass = "substandard"
)

// downgrade maps a class to the next tier down for the senior adjustment.
// Classes not listed are unaffected.
var downgrade = map[HealthClass]HealthClass{
	Preferred:    StandardPlus,
	StandardPlus: Standard,
}

var (
	bmiFactor = decimal.NewFromInt(703)

	bmi18_5 = decimal.RequireFromString("18.5")
	bmi25   = decimal.NewFromInt(25)
	bmi27   = decimal.NewFromInt(27)
	bmi29   = decimal.NewFromInt(29)
	bmi30   = decimal.NewFromInt(30)
	bmi32   = decimal.NewFromInt(32)
	bmi35   = decimal.NewFromInt(35)
	bmi40   = decimal.NewFromInt(40)

	seniorLoading = decimal.RequireFromString("1.1")
)

// Multipliers applied to the base premium for each outcome.
var (
	MultiplierPreferredPlus = decimal.RequireFromString("0.85")
	MultiplierPreferred     = decimal.RequireFromString("0.95")
	MultiplierStandardPlus  = decimal.RequireFromString("1.0")
	MultiplierStandard      = decimal.RequireFromString("1.15")
	MultiplierSubstandard   = decimal.RequireFromString("1.5")

	MultiplierTobaccoStandard    = decimal.RequireFromString("1.5")
	MultiplierTobaccoObese       = decimal.RequireFromString("2.0")
	MultiplierTobaccoSubstandard = decimal.RequireFromString("2.5")
)

// Profile is the applicant data the classification reads.
type Profile struct {
	HeightFeet   int
	HeightInches int
	WeightLbs    decimal.Decimal
	Age          int
	Gender       rates.Gender
	Tobacco      bool
}

type Assessment struct {
	BMI            decimal.Decimal `json:"bmi"`
	BMICategory    BMICategory     `json:"bmiCategory"`
	HealthClass    HealthClass     `json:"healthClass"`
	RateMultiplier decimal.Decimal `json:"rateMultiplier"`
}

// CalculateBMI returns weight*703/inches^2 rounded to one decimal place, or 0
// when the total height is not positive.
func CalculateBMI(feet, inches int, weightLbs decimal.Decimal) decimal.Decimal {
	total := int64(feet*12 + inches)
	if total <= 0 {
		return decimal.Zero
	}
	h := decimal.NewFromInt(total)
	return weightLbs.Mul(bmiFactor).Div(h.Mul(h)).Round(1)
}

func CategorizeBMI(bmi decimal.Decimal) BMICategory {
	switch {
	case bmi.LessThan(bmi18_5):
		return BMIUnderweight
	case bmi.LessThan(bmi25):
		return BMINormal
	case bmi.LessThan(bmi30):
		return BMIOverweight
	case bmi.LessThan(bmi35):
		return BMIObeseI
	case bmi.LessThan(bmi40):
		return BMIObeseII
	default:
		return BMIObeseIII
	}
}

// Assess classifies a profile. See ClassifyBMI for the rules.
func Assess(p Profile) Assessment {
	bmi := CalculateBMI(p.HeightFeet, p.HeightInches, p.WeightLbs)
	class, mult := ClassifyBMI(bmi, p.Age, p.Tobacco)
	return Assessment{
		BMI:            bmi,
		BMICategory:    CategorizeBMI(bmi),
		HealthClass:    class,
		RateMultiplier: mult,
	}
}

// ClassifyBMI applies, in order:
//
//  1. tobacco: 18.5<=BMI<30 standard x1.5, 30<=BMI<35 substandard x2.0,
//     anything else substandard x2.5; nothing further applies.
//  2. non-tobacco ladder: preferred_plus (18.5..27 inclusive, under 50),
//     preferred (<29), standard_plus (29..<32), standard (32..<35 or
//     underweight), otherwise substandard.
//  3. non-tobacco, age>=60 and BMI>30: one tier down (preferred and
//     standard_plus only) and the multiplier is loaded by x1.1.
func ClassifyBMI(bmi decimal.Decimal, age int, tobacco bool) (HealthClass, decimal.Decimal) {
	if tobacco {
		switch {
		case bmi.GreaterThanOrEqual(bmi18_5) && bmi.LessThan(bmi30):
			return Standard, MultiplierTobaccoStandard
		case bmi.GreaterThanOrEqual(bmi30) && bmi.LessThan(bmi35):
			return Substandard, MultiplierTobaccoObese
		default:
			return Substandard, MultiplierTobaccoSubstandard
		}
	}

	var class HealthClass
	var mult decimal.Decimal
	switch {
	case bmi.GreaterThanOrEqual(bmi18_5) && bmi.LessThanOrEqual(bmi27) && age < 50:
		class, mult = PreferredPlus, MultiplierPreferredPlus
	case bmi.GreaterThanOrEqual(bmi18_5) && bmi.LessThan(bmi29):
		class, mult = Preferred, MultiplierPreferred
	case bmi.GreaterThanOrEqual(bmi29) && bmi.LessThan(bmi32):
		class, mult = StandardPlus, MultiplierStandardPlus
	case (bmi.GreaterThanOrEqual(bmi32) && bmi.LessThan(bmi35)) || bmi.LessThan(bmi18_5):
		class, mult = Standard, MultiplierStandard
	default:
		class, mult = Substandard, MultiplierSubstandard
	}

	if age >= 60 && bmi.GreaterThan(bmi30) {
		if lower, ok := downgrade[class]; ok {
			class = lower
		}
		mult = mult.Mul(seniorLoading)
	}
	return class, mult
}
