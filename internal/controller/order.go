package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	inErrors "github.com/auramicrolocs/storefront/internal/errors"
	inHttp "github.com/auramicrolocs/storefront/internal/http"
	"github.com/auramicrolocs/storefront/internal/log"
	"github.com/auramicrolocs/storefront/internal/otel"
	"github.com/auramicrolocs/storefront/internal/service"
	"github.com/auramicrolocs/storefront/pkg/request"
)

type OrderController struct {
	service service.OrderService
}

func AttachOrderController(router *mux.Router, service service.OrderService) {
	controller := OrderController{service: service}

	sub := router.PathPrefix("/orders").Subrouter()
	sub.HandleFunc("", controller.UpsertOrder).Methods(http.MethodPost)
	sub.HandleFunc("/{sessionId}", controller.FindOrderBySessionId).Methods(http.MethodGet)
}

func (t OrderController) UpsertOrder(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "OrderController UpsertOrder")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderController UpsertOrder").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "decoding requestbody").Logger()
	logger.Info().Msg("decoding requestbody")
	reqBody := request.UpsertOrder{}
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		err = fmt.Errorf("failed decoding request body with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("decoded request body")

	logger = logger.With().Str(log.KeyProcess, "validating requestbody").Logger()
	logger.Info().Msg("validating request body")
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.StructCtx(c, reqBody); err != nil {
		err = fmt.Errorf("failed validating request body with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("validated request body")

	logger = logger.With().
		Str(log.KeySessionID, reqBody.SessionId).
		Str(log.KeyProcess, "upserting order").
		Logger()

	logger.Info().Msgf("upserting order sessionId=%s", reqBody.SessionId)
	c = logger.WithContext(c)
	order, err := t.service.UpsertOrder(c, reqBody)
	if err != nil {
		err = fmt.Errorf("failed upserting order sessionId=%s with error=%w", reqBody.SessionId, err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusInternalServerError,
			"message":    err.Error(),
		})
		return
	}
	logger = logger.With().Any(log.KeyOrder, order).Logger()
	logger.Info().Msgf("upserted order sessionId=%s", reqBody.SessionId)

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    fmt.Sprintf("order for sessionId=%s upserted", reqBody.SessionId),
		"data": map[string]interface{}{
			"order": order,
		},
	})
}

func (t OrderController) FindOrderBySessionId(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "OrderController FindOrderBySessionId")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "OrderController FindOrderBySessionId").
		Logger()

	sessionId := mux.Vars(r)["sessionId"]
	logger = logger.With().Str(log.KeySessionID, sessionId).Logger()

	logger.Info().Msgf("finding order sessionId=%s", sessionId)
	c = logger.WithContext(c)
	order, err := t.service.FindOrderBySessionId(c, sessionId)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if errors.Is(err, inErrors.ErrOrderNotFound) {
			statusCode = http.StatusNotFound
		}
		err = fmt.Errorf("failed finding order sessionId=%s with error=%w", sessionId, err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": statusCode,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msgf("found order sessionId=%s", sessionId)

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    fmt.Sprintf("order for sessionId=%s found", sessionId),
		"data": map[string]interface{}{
			"order": order,
		},
	})
}
