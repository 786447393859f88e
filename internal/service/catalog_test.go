package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	inErrors "github.com/auramicrolocs/storefront/internal/errors"
)

func TestFindProducts(t *testing.T) {
	svc := NewCatalogService()

	products := svc.FindProducts(context.Background())
	assert.Len(t, products, 5)

	prices := map[string]string{
		"p1": "35.00",
		"p2": "45.00",
		"p3": "25.00",
		"p4": "28.00",
		"p5": "15.00",
	}
	for _, product := range products {
		expected, ok := prices[product.ID]
		assert.True(t, ok, "unexpected product id %s", product.ID)
		assert.True(
			t,
			decimal.RequireFromString(expected).Equal(product.Price),
			"price of %s should be %s got %s",
			product.ID,
			expected,
			product.Price,
		)
	}
}

func TestFindProductById(t *testing.T) {
	svc := NewCatalogService()

	product, err := svc.FindProductById(context.Background(), "p3")
	assert.NoError(t, err)
	assert.Equal(t, "Crochet de resserrage professionnel", product.Name)

	_, err = svc.FindProductById(context.Background(), "p42")
	assert.ErrorIs(t, err, inErrors.ErrProductNotFound)
}
