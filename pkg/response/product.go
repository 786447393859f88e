package response

import (
	"github.com/shopspring/decimal"
)

// Product is an immutable boutique entry. The catalog is fixed at build time;
// prices here are the only prices checkout will charge.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	Category    string          `json:"category"`
}
