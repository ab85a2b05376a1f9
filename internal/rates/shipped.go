package rates

import (
	"sync"

	"github.com/shopspring/decimal"
)

// ShippedVersion identifies the rate generation compiled into the binary.
const ShippedVersion = "2024.1-illustrative"

type rawRow struct {
	age      int
	gender   Gender
	premiums []int64
}

// p lists premiums positionally against the table's coverages; 0 means the
// tier is not offered at that band.
func p(premiums ...int64) []int64 { return premiums }

func buildTable(key TableKey, coverages []int64, raw []rawRow) *Table {
	t := &Table{Key: key, Coverages: coverages, Rows: make([]Row, 0, len(raw))}
	for _, r := range raw {
		row := Row{Age: r.age, Gender: r.gender}
		for i, prem := range r.premiums {
			if prem == 0 || i >= len(coverages) {
				continue
			}
			row.Premiums = append(row.Premiums, TierPremium{Coverage: coverages[i], Premium: decimal.NewFromInt(prem)})
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// Default returns the shipped rate set. It panics if the compiled-in data
// violates the table invariants, which the package tests guard against.
var Default = sync.OnceValue(func() *Set {
	s, err := NewSet(ShippedVersion, []*Table{
		buildTable(TableKey{FinalExpense, StyleImmediate, false}, finalExpenseCoverages, finalExpenseImmediate),
		buildTable(TableKey{FinalExpense, StyleImmediate, true}, finalExpenseCoverages, finalExpenseImmediateTobacco),
		buildTable(TableKey{FinalExpense, StyleGraded, false}, finalExpenseCoverages, finalExpenseGraded),
		buildTable(TableKey{TermLife, StyleTerm20, false}, termCoverages, term20),
		buildTable(TableKey{TermLife, StyleTerm20, true}, termCoverages, term20Tobacco),
		buildTable(TableKey{WholeLife, StyleLevel, false}, wholeLifeCoverages, wholeLifeLevel),
	}, []Limits{finalExpenseLimits, termLimits, wholeLifeLimits})
	if err != nil {
		panic("rates: shipped set invalid: " + err.Error())
	}
	return s
})

var finalExpenseLimits = Limits{
	Product: FinalExpense,
	Bands: []LimitBand{
		{45, 50000},
		{65, 35000},
		{70, 25000},
		{75, 20000},
		{80, 15000},
		{85, 10000},
	},
}

var termLimits = Limits{
	Product: TermLife,
	Bands: []LimitBand{
		{18, 1000000},
		{55, 750000},
		{60, 500000},
		{65, 250000},
		{70, 100000},
	},
}

var wholeLifeLimits = Limits{
	Product: WholeLife,
	Bands: []LimitBand{
		{25, 500000},
		{50, 250000},
		{60, 100000},
		{65, 50000},
	},
}

var (
	finalExpenseCoverages = []int64{5000, 10000, 15000, 20000, 25000, 35000, 50000}
	termCoverages         = []int64{100000, 250000, 500000, 750000, 1000000}
	wholeLifeCoverages    = []int64{25000, 50000, 100000, 250000, 500000}
)

// Simplified issue, non-tobacco.
var finalExpenseImmediate = []rawRow{
	{45, Female, p(14, 22, 30, 38, 46, 62, 86)},
	{45, Male, p(16, 26, 36, 46, 56, 76, 106)},
	{50, Female, p(16, 26, 35, 45, 55, 74, 104)},
	{50, Male, p(18, 30, 43, 55, 67, 91, 128)},
	{55, Female, p(18, 30, 42, 54, 66, 90, 126)},
	{55, Male, p(21, 36, 51, 66, 81, 111, 156)},
	{60, Female, p(21, 35, 50, 64, 79, 108, 151)},
	{60, Male, p(24, 42, 60, 79, 97, 133, 187)},
	{65, Female, p(24, 41, 59, 76, 94, 129, 0)},
	{65, Male, p(28, 50, 72, 94, 115, 159, 0)},
	{70, Female, p(29, 52, 75, 98, 121, 0, 0)},
	{70, Male, p(35, 64, 92, 121, 150, 0, 0)},
	{75, Female, p(37, 67, 98, 128, 0, 0, 0)},
	{75, Male, p(44, 82, 120, 159, 0, 0, 0)},
	{80, Female, p(48, 90, 132, 0, 0, 0, 0)},
	{80, Male, p(59, 111, 164, 0, 0, 0, 0)},
	{85, Female, p(64, 121, 0, 0, 0, 0, 0)},
	{85, Male, p(78, 150, 0, 0, 0, 0, 0)},
}

var finalExpenseImmediateTobacco = []rawRow{
	{45, Female, p(18, 29, 41, 52, 64, 87, 122)},
	{45, Male, p(21, 35, 50, 64, 79, 108, 151)},
	{50, Female, p(20, 34, 48, 63, 77, 105, 147)},
	{50, Male, p(24, 41, 59, 77, 94, 130, 183)},
	{55, Female, p(23, 41, 58, 76, 93, 128, 180)},
	{55, Male, p(28, 50, 71, 93, 115, 158, 223)},
	{60, Female, p(27, 48, 69, 90, 111, 153, 216)},
	{60, Male, p(32, 59, 85, 111, 137, 190, 269)},
	{65, Female, p(31, 57, 82, 108, 133, 184, 0)},
	{65, Male, p(38, 69, 101, 133, 165, 228, 0)},
	{70, Female, p(39, 73, 106, 139, 173, 0, 0)},
	{70, Male, p(48, 89, 131, 173, 214, 0, 0)},
	{75, Female, p(50, 94, 139, 183, 0, 0, 0)},
	{75, Male, p(61, 117, 172, 227, 0, 0, 0)},
	{80, Female, p(67, 128, 189, 0, 0, 0, 0)},
	{80, Male, p(82, 158, 234, 0, 0, 0, 0)},
	{85, Female, p(89, 173, 0, 0, 0, 0, 0)},
	{85, Male, p(110, 214, 0, 0, 0, 0, 0)},
}

// Guaranteed issue. Carriers in this book do not publish a separate tobacco
// schedule, so tobacco users are priced from this table with a wider range.
var finalExpenseGraded = []rawRow{
	{45, Female, p(17, 28, 38, 49, 60, 82, 114)},
	{45, Male, p(20, 33, 47, 60, 74, 101, 141)},
	{50, Female, p(19, 32, 45, 59, 72, 98, 138)},
	{50, Male, p(22, 39, 55, 72, 88, 121, 171)},
	{55, Female, p(22, 38, 55, 71, 87, 119, 168)},
	{55, Male, p(26, 47, 67, 87, 107, 148, 209)},
	{60, Female, p(26, 45, 65, 84, 104, 143, 202)},
	{60, Male, p(30, 55, 79, 104, 128, 177, 251)},
	{65, Female, p(30, 53, 77, 101, 124, 171, 0)},
	{65, Male, p(36, 65, 95, 124, 154, 213, 0)},
	{70, Female, p(37, 68, 99, 130, 161, 0, 0)},
	{70, Male, p(45, 84, 122, 161, 200, 0, 0)},
	{75, Female, p(47, 88, 130, 171, 0, 0, 0)},
	{75, Male, p(57, 109, 160, 212, 0, 0, 0)},
	{80, Female, p(63, 119, 176, 0, 0, 0, 0)},
	{80, Male, p(77, 148, 219, 0, 0, 0, 0)},
	{85, Female, p(84, 161, 0, 0, 0, 0, 0)},
	{85, Male, p(103, 200, 0, 0, 0, 0, 0)},
}

var term20 = []rawRow{
	{18, Female, p(12, 24, 46, 67, 88)},
	{18, Male, p(13, 29, 54, 80, 105)},
	{25, Female, p(12, 26, 48, 71, 93)},
	{25, Male, p(14, 30, 57, 84, 111)},
	{30, Female, p(13, 27, 51, 74, 98)},
	{30, Male, p(14, 31, 60, 88, 117)},
	{35, Female, p(14, 31, 58, 86, 113)},
	{35, Male, p(16, 36, 69, 102, 135)},
	{40, Female, p(18, 41, 78, 116, 153)},
	{40, Male, p(21, 48, 93, 138, 183)},
	{45, Female, p(26, 61, 118, 176, 233)},
	{45, Male, p(31, 72, 141, 210, 279)},
	{50, Female, p(39, 93, 183, 273, 363)},
	{50, Male, p(46, 111, 219, 327, 435)},
	{55, Female, p(61, 148, 293, 438, 0)},
	{55, Male, p(73, 177, 351, 525, 0)},
	{60, Female, p(98, 241, 478, 0, 0)},
	{60, Male, p(117, 288, 573, 0, 0)},
	{65, Female, p(168, 416, 0, 0, 0)},
	{65, Male, p(201, 498, 0, 0, 0)},
	{70, Female, p(293, 0, 0, 0, 0)},
	{70, Male, p(351, 0, 0, 0, 0)},
	{75, Female, p(483, 0, 0, 0, 0)},
	{75, Male, p(579, 0, 0, 0, 0)},
}

var term20Tobacco = []rawRow{
	{18, Female, p(25, 58, 114, 169, 224)},
	{18, Male, p(30, 69, 136, 202, 268)},
	{25, Female, p(26, 62, 120, 179, 237)},
	{25, Male, p(31, 73, 143, 214, 284)},
	{30, Female, p(28, 65, 127, 188, 250)},
	{30, Male, p(33, 77, 151, 225, 299)},
	{35, Female, p(32, 75, 146, 218, 289)},
	{35, Male, p(37, 89, 175, 260, 346)},
	{40, Female, p(42, 101, 198, 296, 393)},
	{40, Male, p(50, 120, 237, 354, 471)},
	{45, Female, p(63, 153, 302, 452, 601)},
	{45, Male, p(75, 182, 362, 541, 721)},
	{50, Female, p(97, 237, 471, 705, 939)},
	{50, Male, p(115, 284, 565, 845, 1126)},
	{55, Female, p(154, 380, 757, 1134, 0)},
	{55, Male, p(184, 455, 908, 1360, 0)},
	{60, Female, p(250, 620, 1238, 0, 0)},
	{60, Male, p(299, 744, 1485, 0, 0)},
	{65, Female, p(432, 1076, 0, 0, 0)},
	{65, Male, p(518, 1290, 0, 0, 0)},
	{70, Female, p(757, 0, 0, 0, 0)},
	{70, Male, p(908, 0, 0, 0, 0)},
	{75, Female, p(1251, 0, 0, 0, 0)},
	{75, Male, p(1501, 0, 0, 0, 0)},
}

// Bands from 60 up quote only the two smallest tiers; larger requests within
// the cap are scaled from the 25k premium.
var wholeLifeLevel = []rawRow{
	{25, Female, p(23, 41, 77, 185, 365)},
	{25, Male, p(26, 46, 88, 212, 419)},
	{30, Female, p(26, 48, 90, 218, 430)},
	{30, Male, p(29, 54, 103, 249, 494)},
	{35, Female, p(30, 55, 105, 255, 505)},
	{35, Male, p(34, 62, 120, 293, 580)},
	{40, Female, p(35, 65, 125, 305, 605)},
	{40, Male, p(40, 74, 143, 350, 695)},
	{45, Female, p(41, 78, 150, 368, 730)},
	{45, Male, p(47, 88, 172, 422, 839)},
	{50, Female, p(50, 95, 185, 455, 0)},
	{50, Male, p(57, 108, 212, 522, 0)},
	{55, Female, p(61, 118, 230, 568, 0)},
	{55, Male, p(70, 134, 264, 652, 0)},
	{60, Female, p(76, 148, 0, 0, 0)},
	{60, Male, p(87, 169, 0, 0, 0)},
	{65, Female, p(98, 190, 0, 0, 0)},
	{65, Male, p(111, 218, 0, 0, 0)},
	{70, Female, p(128, 250, 0, 0, 0)},
	{70, Male, p(146, 287, 0, 0, 0)},
}
