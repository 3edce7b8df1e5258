package domain

import "github.com/shopspring/decimal"

// MoneyPlaces is the number of decimal places kept for monetary amounts.
const MoneyPlaces = 2

// Epsilon is the tolerance used when comparing monetary totals.
var Epsilon = decimal.New(1, -MoneyPlaces)

// Round2 rounds half away from zero to two decimal places.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyPlaces)
}

// AmountsEqual reports whether a and b agree within Epsilon once both are rounded.
func AmountsEqual(a, b decimal.Decimal) bool {
	return Round2(a).Sub(Round2(b)).Abs().LessThan(Epsilon)
}

// SumRounded adds the values and rounds the result.
func SumRounded(values ...decimal.Decimal) decimal.Decimal {
	return Round2(decimal.Sum(decimal.Zero, values...))
}
