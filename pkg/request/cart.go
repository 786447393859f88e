package request

type AddCartItem struct {
	ProductId string `json:"product_id" validate:"required"`
}

type UpdateCartItemQuantity struct {
	Delta int32 `json:"delta" validate:"required"`
}
