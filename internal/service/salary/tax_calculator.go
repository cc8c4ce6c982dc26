package salary

import "github.com/shopspring/decimal"

// INSSBracket taxes the slice of pay between the previous ceiling and Ceiling.
type INSSBracket struct {
	Ceiling decimal.Decimal
	Rate    decimal.Decimal
}

// IRPFBracket applies Rate to the whole base and subtracts Deduction.
// A nil Ceiling is unbounded.
type IRPFBracket struct {
	Ceiling   *decimal.Decimal
	Rate      decimal.Decimal
	Deduction decimal.Decimal
}

var (
	hundred = decimal.NewFromInt(100)

	// INSSTable holds the progressive contribution ceilings. Pay above the last ceiling
	// is taxed at TopINSSRate.
	INSSTable = []INSSBracket{
		{Ceiling: d("1518.00"), Rate: d("0.075")},
		{Ceiling: d("2862.40"), Rate: d("0.09")},
		{Ceiling: d("4296.29"), Rate: d("0.12")},
		{Ceiling: d("8364.61"), Rate: d("0.14")},
	}
	TopINSSRate = d("0.14")

	// IRPFTable is searched in order; the first bracket whose ceiling covers the base wins.
	IRPFTable = []IRPFBracket{
		{Ceiling: dp("2428.80"), Rate: d("0"), Deduction: d("0")},
		{Ceiling: dp("2826.65"), Rate: d("0.075"), Deduction: d("182.16")},
		{Ceiling: dp("3751.05"), Rate: d("0.15"), Deduction: d("394.65")},
		{Ceiling: dp("4664.68"), Rate: d("0.225"), Deduction: d("675.41")},
		{Ceiling: nil, Rate: d("0.275"), Deduction: d("908.74")},
	}
)

// ComputeINSS sums the tax of every slice of gross that falls inside a bracket.
func ComputeINSS(gross decimal.Decimal) decimal.Decimal {
	if !gross.IsPositive() {
		return decimal.Zero
	}

	total := decimal.Zero
	floor := decimal.Zero
	for _, b := range INSSTable {
		if !gross.GreaterThan(floor) {
			break
		}
		slice := decimal.Min(gross, b.Ceiling).Sub(floor)
		total = total.Add(slice.Mul(b.Rate))
		floor = b.Ceiling
	}
	if gross.GreaterThan(floor) {
		total = total.Add(gross.Sub(floor).Mul(TopINSSRate))
	}

	return round(total)
}

// ComputeIRPF taxes gross − inss − other using the first matching bracket, clamped at zero.
func ComputeIRPF(gross, inss, other decimal.Decimal) decimal.Decimal {
	base := IRPFBase(gross, inss, other)
	if !base.IsPositive() {
		return decimal.Zero
	}

	for _, b := range IRPFTable {
		if b.Ceiling != nil && base.GreaterThan(*b.Ceiling) {
			continue
		}
		tax := base.Mul(b.Rate).Sub(b.Deduction)
		if tax.IsNegative() {
			return decimal.Zero
		}
		return round(tax)
	}
	return decimal.Zero
}

// IRPFBase is the taxable income before bracket lookup.
func IRPFBase(gross, inss, other decimal.Decimal) decimal.Decimal {
	return gross.Sub(inss).Sub(other)
}

// ComputeLevelBonus is salary × percentage / 100, or zero when either is missing or not positive.
func ComputeLevelBonus(salary decimal.Decimal, percentage *decimal.Decimal) decimal.Decimal {
	if percentage == nil || !percentage.IsPositive() || !salary.IsPositive() {
		return decimal.Zero
	}
	return round(salary.Mul(*percentage).Div(hundred))
}

// round applies half-up rounding to cents; inputs here are never negative.
func round(v decimal.Decimal) decimal.Decimal {
	return v.Round(2)
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func dp(s string) *decimal.Decimal {
	v := d(s)
	return &v
}
