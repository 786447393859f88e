package response

type CartItem struct {
	Product   Product `json:"product"`
	Quantity  int32   `json:"quantity"`
	LineTotal string  `json:"line_total"`
}

// Cart is the rendered view of one visitor's cart. Amounts are fixed to two
// decimals for display; tax and total are informational, the charge at
// checkout is the subtotal.
type Cart struct {
	Items    []CartItem `json:"items"`
	Subtotal string     `json:"subtotal"`
	Tax      string     `json:"tax"`
	Total    string     `json:"total"`
	Currency string     `json:"currency"`
}
