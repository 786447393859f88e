package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/auramicrolocs/storefront/internal/config"
	inErrors "github.com/auramicrolocs/storefront/internal/errors"
	inHttp "github.com/auramicrolocs/storefront/internal/http"
	"github.com/auramicrolocs/storefront/internal/log"
	"github.com/auramicrolocs/storefront/internal/otel"
	"github.com/auramicrolocs/storefront/internal/service"
	"github.com/auramicrolocs/storefront/pkg/request"
)

type CheckoutController struct {
	service   service.CheckoutService
	appConfig config.Application
}

func AttachCheckoutController(
	router *mux.Router,
	service service.CheckoutService,
	appConfig config.Application,
) {
	controller := CheckoutController{service: service, appConfig: appConfig}

	sub := router.PathPrefix("/checkout").Subrouter()
	sub.HandleFunc("/sessions", controller.CreateSession).Methods(http.MethodPost)
	sub.HandleFunc("/sessions", controller.ResolveSession).Methods(http.MethodGet)
}

// origin resolves the base url for the success and cancel redirects. The
// Origin header wins, then the Referer origin, then the configured base url.
func (t CheckoutController) origin(r *http.Request) string {
	if origin := r.Header.Get("Origin"); origin != "" {
		return origin
	}
	if referer := r.Header.Get("Referer"); referer != "" {
		if parsed, err := url.Parse(referer); err == nil && parsed.Scheme != "" && parsed.Host != "" {
			return parsed.Scheme + "://" + parsed.Host
		}
	}
	return t.appConfig.BaseUrl
}

func (t CheckoutController) CreateSession(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CheckoutController CreateSession")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CheckoutController CreateSession").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "decoding requestbody").Logger()
	logger.Info().Msg("decoding requestbody")
	reqBody := request.CreateCheckoutSession{}
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

	id := cartId(w, r)
	origin := t.origin(r)
	logger = logger.With().
		Str(log.KeyCartID, id.String()).
		Str(log.KeyEmail, reqBody.Email).
		Str(log.KeyProcess, "creating checkout session").
		Logger()

	logger.Info().Msg("creating checkout session")
	c = logger.WithContext(c)
	session, err := t.service.CreateSession(c, id, origin, reqBody)
	if err != nil {
		err = fmt.Errorf("failed creating checkout session with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())

		statusCode := http.StatusBadGateway
		message := fmt.Sprintf(
			"payment is unavailable at the moment, please call %s to order. error=%s",
			t.appConfig.SupportPhone,
			err.Error(),
		)
		switch {
		case errors.Is(err, inErrors.ErrStripeNotConfigured):
			statusCode = http.StatusInternalServerError
			message = err.Error()
		case errors.Is(err, inErrors.ErrEmptyCheckout),
			errors.Is(err, inErrors.ErrProductNotFound):
			statusCode = http.StatusBadRequest
			message = err.Error()
		}
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": statusCode,
			"message":    message,
		})
		return
	}
	logger = logger.With().Str(log.KeySessionID, session.ID).Logger()
	logger.Info().Msgf("created checkout session sessionId=%s", session.ID)

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    fmt.Sprintf("checkout session sessionId=%s created", session.ID),
		"data": map[string]interface{}{
			"id":  session.ID,
			"url": session.Url,
		},
	})
}

func (t CheckoutController) ResolveSession(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CheckoutController ResolveSession")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CheckoutController ResolveSession").
		Logger()

	sessionId := r.URL.Query().Get("session_id")
	if sessionId == "" {
		err := fmt.Errorf("failed resolving session with error=%w", errors.New("session_id is required"))
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}

	id := cartId(w, r)
	logger = logger.With().
		Str(log.KeyCartID, id.String()).
		Str(log.KeySessionID, sessionId).
		Str(log.KeyProcess, "resolving session").
		Logger()

	logger.Info().Msgf("resolving sessionId=%s", sessionId)
	c = logger.WithContext(c)
	order := t.service.ResolveSession(c, id, sessionId)
	logger.Info().Msgf("resolved sessionId=%s", sessionId)

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    fmt.Sprintf("sessionId=%s resolved", sessionId),
		"data": map[string]interface{}{
			"order": order,
		},
	})
}
