package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	inErrors "github.com/auramicrolocs/storefront/internal/errors"
	"github.com/auramicrolocs/storefront/internal/otel"
	"github.com/auramicrolocs/storefront/pkg/request"
	"github.com/auramicrolocs/storefront/pkg/response"
)

const upsertOrderQuery = `
INSERT INTO orders (session_id, customer_email, customer_name, items, amount_total, currency, payment_status)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (session_id) DO NOTHING
`

const findOrderBySessionIdQuery = `
SELECT id, session_id, customer_email, customer_name, items, amount_total, currency, payment_status, created_at, updated_at
FROM orders
WHERE session_id = $1
`

type OrderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) OrderRepository {
	return OrderRepository{pool: pool}
}

// UpsertOrder inserts the order and returns the stored row. When a row for
// the session already exists the insert is a no-op and the existing row is
// returned unchanged, so webhook and resolver replays converge on the first
// write.
func (r OrderRepository) UpsertOrder(
	c context.Context,
	param request.UpsertOrder,
) (response.Order, error) {
	c, span := otel.Tracer.Start(c, "OrderRepository UpsertOrder")
	defer span.End()

	items := param.Items
	if items == nil {
		items = []request.OrderItem{}
	}
	itemsJson, err := json.Marshal(items)
	if err != nil {
		err = fmt.Errorf("failed marshalling order items with error=%w", err)
		inErrors.HandleError(err, span)
		return response.Order{}, err
	}

	_, err = r.pool.Exec(
		c,
		upsertOrderQuery,
		param.SessionId,
		param.CustomerEmail,
		param.CustomerName,
		itemsJson,
		param.AmountTotal,
		param.Currency,
		param.PaymentStatus,
	)
	if err != nil {
		err = fmt.Errorf("failed inserting order sessionId=%s with error=%w", param.SessionId, err)
		inErrors.HandleError(err, span)
		return response.Order{}, err
	}

	return r.FindOrderBySessionId(c, param.SessionId)
}

func (r OrderRepository) FindOrderBySessionId(
	c context.Context,
	sessionId string,
) (response.Order, error) {
	c, span := otel.Tracer.Start(c, "OrderRepository FindOrderBySessionId")
	defer span.End()

	var (
		order     response.Order
		id        uuid.UUID
		itemsJson []byte
	)
	err := r.pool.QueryRow(c, findOrderBySessionIdQuery, sessionId).Scan(
		&id,
		&order.SessionId,
		&order.CustomerEmail,
		&order.CustomerName,
		&itemsJson,
		&order.AmountTotal,
		&order.Currency,
		&order.PaymentStatus,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = fmt.Errorf(
				"failed finding order sessionId=%s with error=%w",
				sessionId,
				inErrors.ErrOrderNotFound,
			)
		} else {
			err = fmt.Errorf("failed finding order sessionId=%s with error=%w", sessionId, err)
		}
		inErrors.HandleError(err, span)
		return response.Order{}, err
	}
	order.ID = id

	if err := json.Unmarshal(itemsJson, &order.Items); err != nil {
		err = fmt.Errorf(
			"failed unmarshalling order items sessionId=%s with error=%w",
			sessionId,
			err,
		)
		inErrors.HandleError(err, span)
		return response.Order{}, err
	}

	return order, nil
}
