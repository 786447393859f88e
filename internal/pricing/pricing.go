package pricing

import (
	"github.com/shopspring/decimal"
)

// Currency is the only currency the storefront quotes and charges in.
const Currency = "cad"

// TaxRate is the combined TPS/TVQ rate for Québec. The amount charged through
// the payment processor stays pre-tax; this rate only feeds the totals shown
// to the customer before redirect.
var TaxRate = decimal.NewFromFloat(0.14975)

var minorUnitsPerDollar = decimal.NewFromInt(100)

// Tax returns subtotal * TaxRate at full precision. Rounding to two decimal
// places happens at render time only.
func Tax(subtotal decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(TaxRate)
}

// Total returns subtotal plus tax at full precision.
func Total(subtotal decimal.Decimal) decimal.Decimal {
	return subtotal.Add(Tax(subtotal))
}

// MinorUnits converts a decimal CAD amount to integer cents, rounding half up
// so the processor never rejects a fractional-cent unit amount.
func MinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(minorUnitsPerDollar).Round(0).IntPart()
}
