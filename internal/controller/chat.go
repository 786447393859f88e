package controller

import (
	"encoding/json"
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

type ChatController struct {
	service service.ChatService
}

func AttachChatController(router *mux.Router, service service.ChatService) {
	controller := ChatController{service: service}

	sub := router.PathPrefix("/chat").Subrouter()
	sub.HandleFunc("", controller.SendMessage).Methods(http.MethodPost)
}

func (t ChatController) SendMessage(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "ChatController SendMessage")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "ChatController SendMessage").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "decoding requestbody").Logger()
	logger.Info().Msg("decoding requestbody")
	reqBody := request.Chat{}
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

	logger = logger.With().Str(log.KeyProcess, "sending message").Logger()
	logger.Info().Msg("sending message")
	c = logger.WithContext(c)
	chat, err := t.service.SendMessage(c, reqBody)
	if err != nil {
		err = fmt.Errorf("failed sending message with error=%w", err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusInternalServerError,
			"message":    err.Error(),
			"data": map[string]interface{}{
				"response": t.service.Fallback(),
			},
		})
		return
	}
	logger.Info().Msg("sent message")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "message sent",
		"data": map[string]interface{}{
			"response": chat.Response,
		},
	})
}
