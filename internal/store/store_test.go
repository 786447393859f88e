package store

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/auramicrolocs/storefront/pkg/response"
)

func product(id string, price string) response.Product {
	return response.Product{
		ID:    id,
		Name:  "product " + id,
		Price: decimal.RequireFromString(price),
	}
}

func TestAddIncrementsExistingEntry(t *testing.T) {
	s := NewStore()
	s.Add(product("p1", "35.00"))
	s.Add(product("p1", "35.00"))
	s.Add(product("p2", "45.00"))

	items := s.Items()
	assert.Len(t, items, 2)
	assert.Equal(t, "p1", items[0].Product.ID)
	assert.Equal(t, int32(2), items[0].Quantity)
	assert.Equal(t, "p2", items[1].Product.ID)
	assert.Equal(t, int32(1), items[1].Quantity)
}

func TestNoDuplicateIdsAndQuantityAtLeastOne(t *testing.T) {
	s := NewStore()
	ops := []func(){
		func() { s.Add(product("p1", "35.00")) },
		func() { s.Add(product("p2", "45.00")) },
		func() { s.Add(product("p1", "35.00")) },
		func() { s.UpdateQuantity("p1", -5) },
		func() { s.UpdateQuantity("p2", 3) },
		func() { s.Remove("p3") },
		func() { s.Add(product("p3", "25.00")) },
		func() { s.UpdateQuantity("p3", -1) },
		func() { s.Remove("p2") },
		func() { s.Add(product("p2", "45.00")) },
	}
	for _, op := range ops {
		op()
		seen := map[string]bool{}
		for _, item := range s.Items() {
			assert.False(t, seen[item.Product.ID], "duplicate product id %s", item.Product.ID)
			seen[item.Product.ID] = true
			assert.GreaterOrEqual(t, item.Quantity, int32(1))
		}
	}
}

func TestUpdateQuantityClampsAtOne(t *testing.T) {
	s := NewStore()
	s.Add(product("p1", "35.00"))
	s.UpdateQuantity("p1", 2)
	assert.Equal(t, int32(3), s.Items()[0].Quantity)

	s.UpdateQuantity("p1", -1000)
	assert.Equal(t, int32(1), s.Items()[0].Quantity)
	assert.Equal(t, 1, s.Len())
}

func TestUpdateQuantityUnknownProduct(t *testing.T) {
	s := NewStore()
	assert.False(t, s.UpdateQuantity("p9", 1))
}

func TestRemoveIsIdempotent(t *testing.T) {
	s := NewStore()
	s.Add(product("p1", "35.00"))
	s.Remove("p1")
	s.Remove("p1")
	assert.Equal(t, 0, s.Len())
}

func TestClearEmptiesCart(t *testing.T) {
	s := NewStore()
	s.Add(product("p1", "35.00"))
	s.Add(product("p2", "45.00"))
	s.Clear()
	assert.Equal(t, 0, s.Len())
	assert.True(t, decimal.Zero.Equal(s.Subtotal()))
}

func TestSubtotal(t *testing.T) {
	s := NewStore()
	s.Add(product("p1", "35.00"))
	s.Add(product("p1", "35.00"))
	s.Add(product("p5", "15.00"))

	expected := decimal.RequireFromString("85.00")
	assert.True(t, expected.Equal(s.Subtotal()), "expected %s got %s", expected, s.Subtotal())
}

func TestRegistryReturnsSameStore(t *testing.T) {
	r := NewRegistry()
	id := uuid.New()

	first := r.Get(id)
	first.Add(product("p1", "35.00"))

	second := r.Get(id)
	assert.Same(t, first, second)
	assert.Equal(t, 1, second.Len())

	other := r.Get(uuid.New())
	assert.Equal(t, 0, other.Len())
}
