package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/auramicrolocs/storefront/internal/log"
	"github.com/auramicrolocs/storefront/internal/otel"
	"github.com/auramicrolocs/storefront/internal/repository"
	"github.com/auramicrolocs/storefront/pkg/request"
	"github.com/auramicrolocs/storefront/pkg/response"
)

type OrderService struct {
	repository repository.OrderRepository
}

func NewOrderService(repository repository.OrderRepository) OrderService {
	return OrderService{repository: repository}
}

// UpsertOrder persists the order keyed by its checkout session. The first
// write for a session wins; later writes for the same session return the
// stored row without modifying it.
func (s OrderService) UpsertOrder(
	c context.Context,
	param request.UpsertOrder,
) (response.Order, error) {
	c, span := otel.Tracer.Start(c, "OrderService UpsertOrder")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderService UpsertOrder").
		Str(log.KeySessionID, param.SessionId).
		Str(log.KeyPaymentStatus, param.PaymentStatus).
		Int64(log.KeyAmountTotal, param.AmountTotal).
		Logger()

	logger.Info().Msgf("upserting order sessionId=%s", param.SessionId)
	c = logger.WithContext(c)
	order, err := s.repository.UpsertOrder(c, param)
	if err != nil {
		err = fmt.Errorf("failed upserting order sessionId=%s with error=%w", param.SessionId, err)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	logger = logger.With().Str(log.KeyOrderID, order.ID.String()).Logger()
	logger.Info().Msgf("upserted order sessionId=%s", param.SessionId)

	return order, nil
}

func (s OrderService) FindOrderBySessionId(
	c context.Context,
	sessionId string,
) (response.Order, error) {
	c, span := otel.Tracer.Start(c, "OrderService FindOrderBySessionId")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderService FindOrderBySessionId").
		Str(log.KeySessionID, sessionId).
		Logger()

	logger.Info().Msgf("finding order sessionId=%s", sessionId)
	c = logger.WithContext(c)
	order, err := s.repository.FindOrderBySessionId(c, sessionId)
	if err != nil {
		err = fmt.Errorf("failed finding order sessionId=%s with error=%w", sessionId, err)
		logger.Error().Err(err).Msg(err.Error())
		return response.Order{}, err
	}
	logger.Info().Msgf("found order sessionId=%s", sessionId)

	return order, nil
}
