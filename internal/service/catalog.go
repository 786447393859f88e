package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	inErrors "github.com/auramicrolocs/storefront/internal/errors"
	"github.com/auramicrolocs/storefront/internal/log"
	"github.com/auramicrolocs/storefront/internal/otel"
	"github.com/auramicrolocs/storefront/pkg/response"
)

var products = []response.Product{
	{
		ID:          "p1",
		Name:        "Huiles de cheveux naturels",
		Description: "Mélange d'huiles précieuses 100% naturelles pour nourrir intensément vos microlocs.",
		Price:       decimal.RequireFromString("35.00"),
		Image:       "https://ik.imagekit.io/u4lig2jm2f/611677579_1555139552459694_8502816501605500686_n.jpg",
		Category:    "Soin",
	},
	{
		ID:          "p2",
		Name:        "Mèches transformation Sisterlocks",
		Description: "Mèches de haute qualité pour les transformations et extensions.",
		Price:       decimal.RequireFromString("45.00"),
		Image:       "https://ik.imagekit.io/u4lig2jm2f/615776670_1236272001718085_974034722842599038_n.jpg",
		Category:    "Extensions",
	},
	{
		ID:          "p3",
		Name:        "Crochet de resserrage professionnel",
		Description: "Outil de précision indispensable pour un resserrage net et durable.",
		Price:       decimal.RequireFromString("25.00"),
		Image:       "https://picsum.photos/seed/crochethook/400/400",
		Category:    "Accessoire",
	},
	{
		ID:          "p4",
		Name:        "Shampooing Clarifiant",
		Description: "Nettoyage en profondeur sans résidus.",
		Price:       decimal.RequireFromString("28.00"),
		Image:       "https://picsum.photos/seed/shampoo/400/400",
		Category:    "Lavage",
	},
	{
		ID:          "p5",
		Name:        "Bonnet Satin de luxe",
		Description: "Protection nocturne indispensable pour vos microlocs.",
		Price:       decimal.RequireFromString("15.00"),
		Image:       "https://picsum.photos/seed/bonnet/400/400",
		Category:    "Accessoire",
	},
}

type CatalogService struct{}

func NewCatalogService() CatalogService {
	return CatalogService{}
}

func (s CatalogService) FindProducts(c context.Context) []response.Product {
	_, span := otel.Tracer.Start(c, "CatalogService FindProducts")
	defer span.End()

	out := make([]response.Product, len(products))
	copy(out, products)
	return out
}

func (s CatalogService) FindProductById(
	c context.Context,
	productId string,
) (response.Product, error) {
	_, span := otel.Tracer.Start(c, "CatalogService FindProductById")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "CatalogService FindProductById").
		Str(log.KeyProductID, productId).
		Logger()

	for _, product := range products {
		if product.ID == productId {
			return product, nil
		}
	}

	err := fmt.Errorf("failed finding productId=%s with error=%w", productId, inErrors.ErrProductNotFound)
	inErrors.HandleError(err, span)
	logger.Error().Err(err).Msg(err.Error())
	return response.Product{}, err
}
