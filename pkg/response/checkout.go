package response

// CheckoutSession points the browser at the hosted payment page. Url is the
// redirect target; Id is kept for clients that still redirect by session id.
type CheckoutSession struct {
	ID  string `json:"id"`
	Url string `json:"url"`
}
