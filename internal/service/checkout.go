package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/client"

	inErrors "github.com/auramicrolocs/storefront/internal/errors"
	"github.com/auramicrolocs/storefront/internal/log"
	"github.com/auramicrolocs/storefront/internal/otel"
	"github.com/auramicrolocs/storefront/internal/pricing"
	"github.com/auramicrolocs/storefront/internal/store"
	"github.com/auramicrolocs/storefront/pkg/request"
	"github.com/auramicrolocs/storefront/pkg/response"
)

const (
	sessionCacheKey = "checkout:session:%s"
	sessionCacheTTL = time.Hour

	metadataCustomerName = "customer_name"
	metadataProductId    = "product_id"
)

// OrderStore is the slice of the order service checkout needs. The resolver
// and webhook both funnel finished sessions through UpsertOrder.
type OrderStore interface {
	UpsertOrder(c context.Context, param request.UpsertOrder) (response.Order, error)
}

type CheckoutService struct {
	client  *client.API
	catalog CatalogService
	carts   *store.Registry
	orders  OrderStore
	cache   *redis.Client
}

func NewCheckoutService(
	stripeClient *client.API,
	catalog CatalogService,
	carts *store.Registry,
	orders OrderStore,
	cache *redis.Client,
) CheckoutService {
	return CheckoutService{
		client:  stripeClient,
		catalog: catalog,
		carts:   carts,
		orders:  orders,
		cache:   cache,
	}
}

type checkoutLine struct {
	productId   string
	name        string
	description string
	image       string
	unitAmount  int64
	quantity    int64
}

// CreateSession builds a hosted payment session for the requested items, or
// for the visitor's cart when the request carries none. Prices always come
// from the catalog; the amount charged is the pre-tax subtotal, tax is
// collected by the processor's own tax settings.
func (s CheckoutService) CreateSession(
	c context.Context,
	cartId uuid.UUID,
	origin string,
	param request.CreateCheckoutSession,
) (response.CheckoutSession, error) {
	c, span := otel.Tracer.Start(c, "CheckoutService CreateSession")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CheckoutService CreateSession").
		Str(log.KeyCartID, cartId.String()).
		Str(log.KeyEmail, param.Email).
		Logger()

	if s.client == nil {
		err := fmt.Errorf("failed creating checkout session with error=%w", inErrors.ErrStripeNotConfigured)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.CheckoutSession{}, err
	}

	logger = logger.With().Str(log.KeyProcess, "collecting line items").Logger()
	logger.Info().Msg("collecting line items")
	c = logger.WithContext(c)
	lines, err := s.collectLines(c, cartId, param.Items)
	if err != nil {
		err = fmt.Errorf("failed collecting line items with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.CheckoutSession{}, err
	}
	logger.Info().Msgf("collected %d line items", len(lines))

	logger = logger.With().Str(log.KeyProcess, "building session params").Logger()
	logger.Info().Msg("building session params")
	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(lines))
	for _, line := range lines {
		productData := &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
			Name:     stripe.String(line.name),
			Metadata: map[string]string{metadataProductId: line.productId},
		}
		if line.description != "" {
			productData.Description = stripe.String(line.description)
		}
		if line.image != "" {
			productData.Images = stripe.StringSlice([]string{line.image})
		}
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			Quantity: stripe.Int64(line.quantity),
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:    stripe.String(pricing.Currency),
				UnitAmount:  stripe.Int64(line.unitAmount),
				ProductData: productData,
			},
		})
	}

	sessionParams := &stripe.CheckoutSessionParams{
		Mode:          stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems:     lineItems,
		CustomerEmail: stripe.String(param.Email),
		SuccessURL: stripe.String(
			origin + "/checkout/success?session_id={CHECKOUT_SESSION_ID}",
		),
		CancelURL: stripe.String(origin + "/checkout"),
		BillingAddressCollection: stripe.String(
			string(stripe.CheckoutSessionBillingAddressCollectionRequired),
		),
		PhoneNumberCollection: &stripe.CheckoutSessionPhoneNumberCollectionParams{
			Enabled: stripe.Bool(true),
		},
		Metadata: map[string]string{metadataCustomerName: param.Name},
	}
	sessionParams.Context = c
	logger.Info().Msg("built session params")

	logger = logger.With().Str(log.KeyProcess, "creating checkout session").Logger()
	logger.Info().Msg("creating checkout session")
	session, err := s.client.CheckoutSessions.New(sessionParams)
	if err != nil {
		err = fmt.Errorf("failed creating checkout session with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.CheckoutSession{}, err
	}
	logger = logger.With().Str(log.KeySessionID, session.ID).Logger()
	logger.Info().Msgf("created checkout session sessionId=%s", session.ID)

	return response.CheckoutSession{ID: session.ID, Url: session.URL}, nil
}

func (s CheckoutService) collectLines(
	c context.Context,
	cartId uuid.UUID,
	items []request.CheckoutItem,
) ([]checkoutLine, error) {
	c, span := otel.Tracer.Start(c, "CheckoutService collectLines")
	defer span.End()

	if len(items) > 0 {
		lines := make([]checkoutLine, 0, len(items))
		for _, item := range items {
			product, err := s.catalog.FindProductById(c, item.ProductId)
			if err != nil {
				return nil, fmt.Errorf(
					"failed finding productId=%s with error=%w",
					item.ProductId,
					err,
				)
			}
			lines = append(lines, checkoutLine{
				productId:   product.ID,
				name:        product.Name,
				description: product.Description,
				image:       product.Image,
				unitAmount:  pricing.MinorUnits(product.Price),
				quantity:    int64(item.Quantity),
			})
		}
		return lines, nil
	}

	cartItems := s.carts.Get(cartId).Items()
	if len(cartItems) == 0 {
		return nil, inErrors.ErrEmptyCheckout
	}
	lines := make([]checkoutLine, 0, len(cartItems))
	for _, item := range cartItems {
		lines = append(lines, checkoutLine{
			productId:   item.Product.ID,
			name:        item.Product.Name,
			description: item.Product.Description,
			image:       item.Product.Image,
			unitAmount:  pricing.MinorUnits(item.Product.Price),
			quantity:    int64(item.Quantity),
		})
	}
	return lines, nil
}

// ResolveSession backs the success page. It always answers 200 shaped data;
// when the processor cannot be reached the redirect itself is taken as proof
// of payment and a synthetic paid view is returned without persistence. The
// cart is cleared in every path.
func (s CheckoutService) ResolveSession(
	c context.Context,
	cartId uuid.UUID,
	sessionId string,
) response.Order {
	c, span := otel.Tracer.Start(c, "CheckoutService ResolveSession")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CheckoutService ResolveSession").
		Str(log.KeyCartID, cartId.String()).
		Str(log.KeySessionID, sessionId).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "clearing cart").Logger()
	logger.Info().Msg("clearing cart")
	s.carts.Get(cartId).Clear()
	logger.Info().Msg("cleared cart")

	cacheKey := fmt.Sprintf(sessionCacheKey, sessionId)
	logger = logger.With().Str(log.KeyProcess, "checking session cache").Logger()
	logger.Info().Msgf("checking session cache key=%s", cacheKey)
	if cached, err := s.cache.Get(c, cacheKey).Bytes(); err == nil {
		order := response.Order{}
		if err := json.Unmarshal(cached, &order); err == nil {
			logger.Info().Msgf("session cache hit key=%s", cacheKey)
			return order
		}
		logger.Info().Msgf("session cache entry invalid key=%s", cacheKey)
	} else if !errors.Is(err, redis.Nil) {
		logger.Error().Err(err).Msgf("failed reading session cache key=%s", cacheKey)
	}

	logger = logger.With().Str(log.KeyProcess, "retrieving session").Logger()
	logger.Info().Msgf("retrieving sessionId=%s", sessionId)
	c = logger.WithContext(c)
	session, err := s.retrieveSession(c, sessionId)
	if err != nil {
		err = fmt.Errorf("failed retrieving sessionId=%s with error=%w", sessionId, err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{
			SessionId:     sessionId,
			PaymentStatus: "paid",
			Currency:      pricing.Currency,
			AmountTotal:   0,
			Items:         []request.OrderItem{},
		}
	}
	logger.Info().Msgf("retrieved sessionId=%s", sessionId)

	param := orderParamFromSession(session)
	order := orderFromParam(param)

	logger = logger.With().Str(log.KeyProcess, "upserting order").Logger()
	logger.Info().Msgf("upserting order sessionId=%s", sessionId)
	persisted, err := s.orders.UpsertOrder(c, param)
	if err != nil {
		err = fmt.Errorf("failed upserting order sessionId=%s with error=%w", sessionId, err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		// not cached, so a reload retries the upsert instead of serving
		// the unpersisted view
		return order
	}
	order = persisted
	logger.Info().Msgf("upserted order sessionId=%s", sessionId)

	logger = logger.With().Str(log.KeyProcess, "caching session").Logger()
	if encoded, err := json.Marshal(order); err == nil {
		if err := s.cache.Set(c, cacheKey, encoded, sessionCacheTTL).Err(); err != nil {
			logger.Error().Err(err).Msgf("failed caching session key=%s", cacheKey)
		} else {
			logger.Info().Msgf("cached session key=%s", cacheKey)
		}
	}

	return order
}

// HandleSessionCompleted persists the order for a completed checkout event.
// The expanded retrieve is best effort; losing line item detail must not lose
// the order. The upsert is mandatory so a failed write surfaces as an error
// and the event gets redelivered.
func (s CheckoutService) HandleSessionCompleted(
	c context.Context,
	session *stripe.CheckoutSession,
) (response.Order, error) {
	c, span := otel.Tracer.Start(c, "CheckoutService HandleSessionCompleted")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CheckoutService HandleSessionCompleted").
		Str(log.KeySessionID, session.ID).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "enriching session").Logger()
	logger.Info().Msgf("enriching sessionId=%s", session.ID)
	c = logger.WithContext(c)
	if expanded, err := s.retrieveSession(c, session.ID); err == nil {
		session = expanded
		logger.Info().Msgf("enriched sessionId=%s", session.ID)
	} else {
		err = fmt.Errorf("failed enriching sessionId=%s with error=%w", session.ID, err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
	}

	logger = logger.With().Str(log.KeyProcess, "upserting order").Logger()
	logger.Info().Msgf("upserting order sessionId=%s", session.ID)
	order, err := s.orders.UpsertOrder(c, orderParamFromSession(session))
	if err != nil {
		err = fmt.Errorf("failed upserting order sessionId=%s with error=%w", session.ID, err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	logger.Info().Msgf("upserted order sessionId=%s", session.ID)

	return order, nil
}

func (s CheckoutService) retrieveSession(
	c context.Context,
	sessionId string,
) (*stripe.CheckoutSession, error) {
	c, span := otel.Tracer.Start(c, "CheckoutService retrieveSession")
	defer span.End()

	if s.client == nil {
		return nil, inErrors.ErrStripeNotConfigured
	}

	params := &stripe.CheckoutSessionParams{}
	params.Context = c
	params.AddExpand("line_items")
	params.AddExpand("line_items.data.price.product")
	return s.client.CheckoutSessions.Get(sessionId, params)
}

func orderParamFromSession(session *stripe.CheckoutSession) request.UpsertOrder {
	param := request.UpsertOrder{
		SessionId:     session.ID,
		AmountTotal:   session.AmountTotal,
		Currency:      string(session.Currency),
		PaymentStatus: string(session.PaymentStatus),
		Items:         []request.OrderItem{},
	}
	if param.Currency == "" {
		param.Currency = pricing.Currency
	}
	if session.CustomerDetails != nil {
		param.CustomerEmail = session.CustomerDetails.Email
		param.CustomerName = session.CustomerDetails.Name
	}
	if param.CustomerEmail == "" {
		param.CustomerEmail = session.CustomerEmail
	}
	if param.CustomerName == "" && session.Metadata != nil {
		param.CustomerName = session.Metadata[metadataCustomerName]
	}
	if session.LineItems != nil {
		for _, lineItem := range session.LineItems.Data {
			item := request.OrderItem{
				Name:     lineItem.Description,
				Quantity: int32(lineItem.Quantity),
			}
			if lineItem.Price != nil {
				item.UnitAmount = lineItem.Price.UnitAmount
				if lineItem.Price.Product != nil && lineItem.Price.Product.Metadata != nil {
					item.ProductId = lineItem.Price.Product.Metadata[metadataProductId]
				}
			}
			param.Items = append(param.Items, item)
		}
	}
	return param
}

func orderFromParam(param request.UpsertOrder) response.Order {
	return response.Order{
		SessionId:     param.SessionId,
		CustomerEmail: param.CustomerEmail,
		CustomerName:  param.CustomerName,
		Items:         param.Items,
		AmountTotal:   param.AmountTotal,
		Currency:      param.Currency,
		PaymentStatus: param.PaymentStatus,
	}
}
