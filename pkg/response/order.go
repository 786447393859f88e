package response

import (
	"time"

	"github.com/google/uuid"

	"github.com/auramicrolocs/storefront/pkg/request"
)

type Order struct {
	ID            uuid.UUID           `json:"id"`
	SessionId     string              `json:"session_id"`
	CustomerEmail string              `json:"customer_email"`
	CustomerName  string              `json:"customer_name"`
	Items         []request.OrderItem `json:"items"`
	AmountTotal   int64               `json:"amount_total"`
	Currency      string              `json:"currency"`
	PaymentStatus string              `json:"payment_status"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}
