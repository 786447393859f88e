package controller

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	inErrors "github.com/auramicrolocs/storefront/internal/errors"
	inHttp "github.com/auramicrolocs/storefront/internal/http"
	"github.com/auramicrolocs/storefront/internal/log"
	"github.com/auramicrolocs/storefront/internal/otel"
	"github.com/auramicrolocs/storefront/internal/service"
	"github.com/auramicrolocs/storefront/pkg/request"
)

type CartController struct {
	service service.CartService
}

func AttachCartController(router *mux.Router, service service.CartService) {
	controller := CartController{service: service}

	sub := router.PathPrefix("/carts").Subrouter()
	sub.HandleFunc("", controller.FindCart).Methods(http.MethodGet)
	sub.HandleFunc("", controller.ClearCart).Methods(http.MethodDelete)
	sub.HandleFunc("/items", controller.AddCartItem).Methods(http.MethodPost)
	sub.HandleFunc("/items/{productId}", controller.UpdateCartItemQuantity).
		Methods(http.MethodPatch)
	sub.HandleFunc("/items/{productId}", controller.RemoveCartItem).
		Methods(http.MethodDelete)
}

// cartId reads the visitor's cart cookie, minting a fresh id and setting the
// cookie when the visitor does not have one yet.
func cartId(w http.ResponseWriter, r *http.Request) uuid.UUID {
	if cookie, err := r.Cookie(inHttp.CookieCartID); err == nil {
		if id, err := uuid.Parse(cookie.Value); err == nil {
			return id
		}
	}

	id := uuid.New()
	http.SetCookie(w, &http.Cookie{
		Name:     inHttp.CookieCartID,
		Value:    id.String(),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

func (t CartController) AddCartItem(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController AddCartItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartController AddCartItem").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "decoding requestbody").Logger()
	logger.Info().Msg("decoding requestbody")
	reqBody := request.AddCartItem{}
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
	logger = logger.With().
		Str(log.KeyCartID, id.String()).
		Str(log.KeyProductID, reqBody.ProductId).
		Str(log.KeyProcess, "adding cart item").
		Logger()

	logger.Info().Msgf("adding productId=%s to cart", reqBody.ProductId)
	c = logger.WithContext(c)
	cart, err := t.service.AddItem(c, id, reqBody.ProductId)
	if err != nil {
		err = fmt.Errorf("failed adding productId=%s to cart with error=%w", reqBody.ProductId, err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusNotFound,
			"message":    err.Error(),
		})
		return
	}
	logger = logger.With().Any(log.KeyCart, cart).Logger()
	logger.Info().Msgf("added productId=%s to cart", reqBody.ProductId)

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    fmt.Sprintf("productId=%s added to cart", reqBody.ProductId),
		"data": map[string]interface{}{
			"cart": cart,
		},
	})
}

func (t CartController) UpdateCartItemQuantity(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController UpdateCartItemQuantity")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartController UpdateCartItemQuantity").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "decoding requestbody").Logger()
	logger.Info().Msg("decoding requestbody")
	reqBody := request.UpdateCartItemQuantity{}
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

	productId := mux.Vars(r)["productId"]
	id := cartId(w, r)
	logger = logger.With().
		Str(log.KeyCartID, id.String()).
		Str(log.KeyProductID, productId).
		Str(log.KeyProcess, "updating cart item quantity").
		Logger()

	logger.Info().Msgf("updating quantity of productId=%s by delta=%d", productId, reqBody.Delta)
	c = logger.WithContext(c)
	cart, found := t.service.UpdateItemQuantity(c, id, productId, reqBody.Delta)
	if !found {
		err := fmt.Errorf(
			"failed updating quantity of productId=%s with error=%w",
			productId,
			inErrors.ErrProductNotFound,
		)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusNotFound,
			"message":    err.Error(),
		})
		return
	}
	logger = logger.With().Any(log.KeyCart, cart).Logger()
	logger.Info().Msgf("updated quantity of productId=%s", productId)

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    fmt.Sprintf("quantity of productId=%s updated", productId),
		"data": map[string]interface{}{
			"cart": cart,
		},
	})
}

func (t CartController) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController RemoveCartItem")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartController RemoveCartItem").
		Logger()

	productId := mux.Vars(r)["productId"]
	id := cartId(w, r)
	logger = logger.With().
		Str(log.KeyCartID, id.String()).
		Str(log.KeyProductID, productId).
		Str(log.KeyProcess, "removing cart item").
		Logger()

	logger.Info().Msgf("removing productId=%s from cart", productId)
	c = logger.WithContext(c)
	cart := t.service.RemoveItem(c, id, productId)
	logger.Info().Msgf("removed productId=%s from cart", productId)

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    fmt.Sprintf("productId=%s removed from cart", productId),
		"data": map[string]interface{}{
			"cart": cart,
		},
	})
}

func (t CartController) ClearCart(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController ClearCart")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartController ClearCart").
		Logger()

	id := cartId(w, r)
	logger = logger.With().
		Str(log.KeyCartID, id.String()).
		Str(log.KeyProcess, "clearing cart").
		Logger()

	logger.Info().Msg("clearing cart")
	c = logger.WithContext(c)
	cart := t.service.ClearCart(c, id)
	logger.Info().Msg("cleared cart")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "cart cleared",
		"data": map[string]interface{}{
			"cart": cart,
		},
	})
}

func (t CartController) FindCart(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CartController FindCart")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CartController FindCart").
		Logger()

	id := cartId(w, r)
	logger = logger.With().Str(log.KeyCartID, id.String()).Logger()

	logger.Info().Msg("finding cart")
	c = logger.WithContext(c)
	cart := t.service.FindCart(c, id)
	logger.Info().Msg("found cart")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "cart found",
		"data": map[string]interface{}{
			"cart": cart,
		},
	})
}
