package constants

const (
	AppStorefront = "aura-storefront"
)
