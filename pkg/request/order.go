package request

type OrderItem struct {
	ProductId  string `json:"product_id"`
	Name       string `json:"name"`
	Quantity   int32  `json:"quantity"`
	UnitAmount int64  `json:"unit_amount"`
}

// UpsertOrder carries everything the payment processor told us about a
// finished checkout session. SessionId is the idempotency key; replays of the
// same session must not produce a second row.
type UpsertOrder struct {
	SessionId     string      `json:"session_id"     validate:"required"`
	CustomerEmail string      `json:"customer_email"`
	CustomerName  string      `json:"customer_name"`
	Items         []OrderItem `json:"items"`
	AmountTotal   int64       `json:"amount_total"`
	Currency      string      `json:"currency"`
	PaymentStatus string      `json:"payment_status"`
}
