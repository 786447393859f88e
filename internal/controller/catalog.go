package controller

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	inErrors "github.com/auramicrolocs/storefront/internal/errors"
	inHttp "github.com/auramicrolocs/storefront/internal/http"
	"github.com/auramicrolocs/storefront/internal/log"
	"github.com/auramicrolocs/storefront/internal/otel"
	"github.com/auramicrolocs/storefront/internal/service"
)

type CatalogController struct {
	service service.CatalogService
}

func AttachCatalogController(router *mux.Router, service service.CatalogService) {
	controller := CatalogController{service: service}

	sub := router.PathPrefix("/products").Subrouter()
	sub.HandleFunc("", controller.FindProducts).Methods(http.MethodGet)
	sub.HandleFunc("/{productId}", controller.FindProductById).Methods(http.MethodGet)
}

func (t CatalogController) FindProducts(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CatalogController FindProducts")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CatalogController FindProducts").
		Logger()

	logger.Info().Msg("finding products")
	c = logger.WithContext(c)
	products := t.service.FindProducts(c)
	logger.Info().Msgf("found %d products", len(products))

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "successfully found products",
		"data": map[string]interface{}{
			"products": products,
		},
	})
}

func (t CatalogController) FindProductById(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "CatalogController FindProductById")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CatalogController FindProductById").
		Logger()

	productId := mux.Vars(r)["productId"]
	logger = logger.With().Str(log.KeyProductID, productId).Logger()

	logger.Info().Msgf("finding productId=%s", productId)
	c = logger.WithContext(c)
	product, err := t.service.FindProductById(c, productId)
	if err != nil {
		err = fmt.Errorf("failed finding productId=%s with error=%w", productId, err)
		inErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusNotFound,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msgf("found productId=%s", productId)

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    fmt.Sprintf("productId=%s found", productId),
		"data": map[string]interface{}{
			"product": product,
		},
	})
}
