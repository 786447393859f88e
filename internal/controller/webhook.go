package controller

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/webhook"

	inErrors "github.com/auramicrolocs/storefront/internal/errors"
	inHttp "github.com/auramicrolocs/storefront/internal/http"
	"github.com/auramicrolocs/storefront/internal/log"
	"github.com/auramicrolocs/storefront/internal/otel"
	"github.com/auramicrolocs/storefront/internal/service"
)

// maxWebhookBodyBytes caps event payloads per the processor's own guidance.
const maxWebhookBodyBytes = int64(65536)

type WebhookController struct {
	service       service.CheckoutService
	webhookSecret string
}

func AttachWebhookController(
	router *mux.Router,
	service service.CheckoutService,
	webhookSecret string,
) {
	controller := WebhookController{service: service, webhookSecret: webhookSecret}

	sub := router.PathPrefix("/webhooks").Subrouter()
	sub.HandleFunc("/stripe", controller.HandleStripeEvent).Methods(http.MethodPost)
}

func (t WebhookController) HandleStripeEvent(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "WebhookController HandleStripeEvent")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "WebhookController HandleStripeEvent").
		Logger()

	if t.webhookSecret == "" {
		err := fmt.Errorf("failed handling event with error=%w", inErrors.ErrWebhookNotConfigured)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusInternalServerError,
			"message":    err.Error(),
		})
		return
	}

	logger = logger.With().Str(log.KeyProcess, "reading payload").Logger()
	logger.Info().Msg("reading payload")
	r.Body = http.MaxBytesReader(w, r.Body, maxWebhookBodyBytes)
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		err = fmt.Errorf("failed reading payload with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("read payload")

	logger = logger.With().Str(log.KeyProcess, "verifying signature").Logger()
	logger.Info().Msg("verifying signature")
	event, err := webhook.ConstructEvent(payload, r.Header.Get("Stripe-Signature"), t.webhookSecret)
	if err != nil {
		err = fmt.Errorf("failed verifying signature with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	logger = logger.With().
		Str(log.KeyEventID, event.ID).
		Str(log.KeyEventType, string(event.Type)).
		Logger()
	logger.Info().Msgf("verified signature eventId=%s eventType=%s", event.ID, event.Type)

	if event.Type != stripe.EventTypeCheckoutSessionCompleted {
		logger.Info().Msgf("ignoring eventType=%s", event.Type)
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "success",
			"statusCode": http.StatusOK,
			"message":    fmt.Sprintf("eventType=%s ignored", event.Type),
			"data": map[string]interface{}{
				"received": true,
			},
		})
		return
	}

	logger = logger.With().Str(log.KeyProcess, "decoding session").Logger()
	logger.Info().Msg("decoding session from event")
	session := stripe.CheckoutSession{}
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		err = fmt.Errorf("failed decoding session from eventId=%s with error=%w", event.ID, err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	logger = logger.With().Str(log.KeySessionID, session.ID).Logger()
	logger.Info().Msgf("decoded sessionId=%s from event", session.ID)

	logger = logger.With().Str(log.KeyProcess, "persisting order").Logger()
	logger.Info().Msgf("persisting order sessionId=%s", session.ID)
	c = logger.WithContext(c)
	order, err := t.service.HandleSessionCompleted(c, &session)
	if err != nil {
		err = fmt.Errorf("failed persisting order sessionId=%s with error=%w", session.ID, err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusInternalServerError,
			"message":    err.Error(),
		})
		return
	}
	logger = logger.With().Str(log.KeyOrderID, order.ID.String()).Logger()
	logger.Info().Msgf("persisted order sessionId=%s", session.ID)

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    fmt.Sprintf("eventId=%s processed", event.ID),
		"data": map[string]interface{}{
			"received": true,
		},
	})
}
