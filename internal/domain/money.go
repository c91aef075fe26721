package domain

import "github.com/shopspring/decimal"

// Amounts are stored as NUMERIC(15, 2): two fractional digits, below 10^13
const AmountScale = 2

var amountLimit = decimal.New(1, 15-AmountScale)

// IsStorableAmount reports whether d fits the amount columns without rounding.
// Trailing zeros are fine, 1.500 is stored as 1.50.
func IsStorableAmount(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(AmountScale)) && d.Abs().LessThan(amountLimit)
}

// IsPositiveAmount reports whether d is a storable amount greater than zero
func IsPositiveAmount(d decimal.Decimal) bool {
	return d.IsPositive() && IsStorableAmount(d)
}
