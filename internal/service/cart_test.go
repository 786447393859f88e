package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	inErrors "github.com/auramicrolocs/storefront/internal/errors"
	"github.com/auramicrolocs/storefront/internal/store"
)

func newService() CartService {
	return NewCartService(store.NewRegistry(), NewCatalogService())
}

func TestAddItemComputesDisplayTotals(t *testing.T) {
	c := context.Background()
	svc := newService()
	cartId := uuid.New()

	_, err := svc.AddItem(c, cartId, "p1")
	assert.NoError(t, err)
	cart, err := svc.AddItem(c, cartId, "p1")
	assert.NoError(t, err)

	// 2 x 35.00 = 70.00, tax 10.4825 rounds to 10.48 at display
	assert.Len(t, cart.Items, 1)
	assert.Equal(t, int32(2), cart.Items[0].Quantity)
	assert.Equal(t, "70.00", cart.Items[0].LineTotal)
	assert.Equal(t, "70.00", cart.Subtotal)
	assert.Equal(t, "10.48", cart.Tax)
	assert.Equal(t, "80.48", cart.Total)
	assert.Equal(t, "cad", cart.Currency)
}

func TestAddItemUnknownProduct(t *testing.T) {
	c := context.Background()
	svc := newService()

	_, err := svc.AddItem(c, uuid.New(), "p42")
	assert.ErrorIs(t, err, inErrors.ErrProductNotFound)
}

func TestUpdateRemoveAndClear(t *testing.T) {
	c := context.Background()
	svc := newService()
	cartId := uuid.New()

	_, err := svc.AddItem(c, cartId, "p2")
	assert.NoError(t, err)

	cart, found := svc.UpdateItemQuantity(c, cartId, "p2", 2)
	assert.True(t, found)
	assert.Equal(t, int32(3), cart.Items[0].Quantity)
	assert.Equal(t, "135.00", cart.Subtotal)

	_, found = svc.UpdateItemQuantity(c, cartId, "p42", 1)
	assert.False(t, found)

	cart = svc.RemoveItem(c, cartId, "p2")
	assert.Empty(t, cart.Items)
	assert.Equal(t, "0.00", cart.Subtotal)

	_, err = svc.AddItem(c, cartId, "p5")
	assert.NoError(t, err)
	cart = svc.ClearCart(c, cartId)
	assert.Empty(t, cart.Items)
	assert.Equal(t, "0.00", cart.Total)
}
