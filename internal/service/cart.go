package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/auramicrolocs/storefront/internal/log"
	"github.com/auramicrolocs/storefront/internal/otel"
	"github.com/auramicrolocs/storefront/internal/pricing"
	"github.com/auramicrolocs/storefront/internal/store"
	"github.com/auramicrolocs/storefront/pkg/response"
)

type CartService struct {
	carts   *store.Registry
	catalog CatalogService
}

func NewCartService(
	carts *store.Registry,
	catalog CatalogService,
) CartService {
	return CartService{carts: carts, catalog: catalog}
}

// Registry exposes the backing cart registry so checkout can read and clear
// the same carts the controller mutates.
func (s CartService) Registry() *store.Registry {
	return s.carts
}

func (s CartService) AddItem(
	c context.Context,
	cartId uuid.UUID,
	productId string,
) (response.Cart, error) {
	c, span := otel.Tracer.Start(c, "CartService AddItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService AddItem").
		Str(log.KeyCartID, cartId.String()).
		Str(log.KeyProductID, productId).
		Logger()

	logger.Info().Msgf("finding productId=%s in catalog", productId)
	c = logger.WithContext(c)
	product, err := s.catalog.FindProductById(c, productId)
	if err != nil {
		err = fmt.Errorf("failed finding productId=%s with error=%w", productId, err)
		logger.Error().Err(err).Msg(err.Error())
		return response.Cart{}, err
	}
	logger.Info().Msgf("found productId=%s in catalog", productId)

	cart := s.carts.Get(cartId)
	cart.Add(product)
	logger.Info().Msgf("added productId=%s to cartId=%s", productId, cartId)

	return s.render(cart), nil
}

func (s CartService) UpdateItemQuantity(
	c context.Context,
	cartId uuid.UUID,
	productId string,
	delta int32,
) (response.Cart, bool) {
	_, span := otel.Tracer.Start(c, "CartService UpdateItemQuantity")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService UpdateItemQuantity").
		Str(log.KeyCartID, cartId.String()).
		Str(log.KeyProductID, productId).
		Int32(log.KeyQuantity, delta).
		Logger()

	cart := s.carts.Get(cartId)
	found := cart.UpdateQuantity(productId, delta)
	logger.Info().Msgf("updated quantity of productId=%s by delta=%d found=%t", productId, delta, found)

	return s.render(cart), found
}

func (s CartService) RemoveItem(
	c context.Context,
	cartId uuid.UUID,
	productId string,
) response.Cart {
	_, span := otel.Tracer.Start(c, "CartService RemoveItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService RemoveItem").
		Str(log.KeyCartID, cartId.String()).
		Str(log.KeyProductID, productId).
		Logger()

	cart := s.carts.Get(cartId)
	cart.Remove(productId)
	logger.Info().Msgf("removed productId=%s from cartId=%s", productId, cartId)

	return s.render(cart)
}

func (s CartService) ClearCart(c context.Context, cartId uuid.UUID) response.Cart {
	_, span := otel.Tracer.Start(c, "CartService ClearCart")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartService ClearCart").
		Str(log.KeyCartID, cartId.String()).
		Logger()

	cart := s.carts.Get(cartId)
	cart.Clear()
	logger.Info().Msgf("cleared cartId=%s", cartId)

	return s.render(cart)
}

func (s CartService) FindCart(c context.Context, cartId uuid.UUID) response.Cart {
	_, span := otel.Tracer.Start(c, "CartService FindCart")
	defer span.End()

	return s.render(s.carts.Get(cartId))
}

func (s CartService) render(cart *store.Store) response.Cart {
	items := cart.Items()
	out := response.Cart{
		Items:    make([]response.CartItem, 0, len(items)),
		Currency: pricing.Currency,
	}
	for _, item := range items {
		lineTotal := item.Product.Price.Mul(decimal.NewFromInt32(item.Quantity))
		out.Items = append(out.Items, response.CartItem{
			Product:   item.Product,
			Quantity:  item.Quantity,
			LineTotal: lineTotal.StringFixed(2),
		})
	}

	subtotal := cart.Subtotal()
	out.Subtotal = subtotal.StringFixed(2)
	out.Tax = pricing.Tax(subtotal).StringFixed(2)
	out.Total = pricing.Total(subtotal).StringFixed(2)
	return out
}
