package request

type CheckoutItem struct {
	ProductId string `json:"product_id" validate:"required"`
	Quantity  int32  `json:"quantity"   validate:"required,min=1"`
}

// CreateCheckoutSession starts a hosted payment session. Items may be empty,
// in which case the visitor's cart is checked out instead.
type CreateCheckoutSession struct {
	Email string         `json:"email" validate:"required,email"`
	Name  string         `json:"name"  validate:"required"`
	Items []CheckoutItem `json:"items" validate:"omitempty,dive"`
}
