package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTax(t *testing.T) {
	tests := []struct {
		name        string
		subtotal    decimal.Decimal
		expectedTax string
		expectedTot string
	}{
		{
			name:        "given subtotal 100.00 should display tax 14.98 and total 114.98",
			subtotal:    decimal.NewFromFloat(100.00),
			expectedTax: "14.98",
			expectedTot: "114.98",
		},
		{
			name:        "given subtotal 0 should display tax 0.00 and total 0.00",
			subtotal:    decimal.Zero,
			expectedTax: "0.00",
			expectedTot: "0.00",
		},
		{
			name:        "given subtotal 35.00 should display tax 5.24 and total 40.24",
			subtotal:    decimal.NewFromFloat(35.00),
			expectedTax: "5.24",
			expectedTot: "40.24",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expectedTax, Tax(test.subtotal).StringFixed(2))
			assert.Equal(t, test.expectedTot, Total(test.subtotal).StringFixed(2))
		})
	}
}

func TestTaxKeepsFullPrecision(t *testing.T) {
	subtotal := decimal.NewFromFloat(100.00)
	expected := decimal.NewFromFloat(14.975)
	assert.True(t, expected.Equal(Tax(subtotal)))
}

func TestMinorUnits(t *testing.T) {
	tests := []struct {
		name     string
		amount   decimal.Decimal
		expected int64
	}{
		{
			name:     "given 35.00 should return 3500",
			amount:   decimal.NewFromFloat(35.00),
			expected: 3500,
		},
		{
			name:     "given 19.99 should return 1999",
			amount:   decimal.NewFromFloat(19.99),
			expected: 1999,
		},
		{
			name:     "given 10.005 should round half up to 1001",
			amount:   decimal.RequireFromString("10.005"),
			expected: 1001,
		},
		{
			name:     "given 10.004 should round down to 1000",
			amount:   decimal.RequireFromString("10.004"),
			expected: 1000,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, MinorUnits(test.amount))
		})
	}
}
