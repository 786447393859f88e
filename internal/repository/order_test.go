package repository

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	inErrors "github.com/auramicrolocs/storefront/internal/errors"
	"github.com/auramicrolocs/storefront/pkg/request"
)

func setup(t *testing.T, c context.Context) (*pgxpool.Pool, OrderRepository, func()) {
	pgContainer, err := postgres.Run(
		c,
		"postgres:16.6-alpine3.21",
		testcontainers.WithEnv(map[string]string{
			"POSTGRES_DB":       "postgres",
			"POSTGRES_PASSWORD": "postgres",
			"POSTGRES_PORT":     "5432",
			"POSTGRES_USER":     "postgres",
		}),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		postgres.WithDatabase("postgres"),
		postgres.BasicWaitStrategies(),
		postgres.WithInitScripts(
			filepath.Join("..", "..", "db", "migrations", "000001_create_orders_table.up.sql"),
		),
	)
	if err != nil {
		t.Fatalf("failed running postgres container with error: %s", err)
	}

	pgConnStr, err := pgContainer.ConnectionString(c)
	if err != nil {
		t.Fatalf("failed getting postgres connection string with error: %s", err)
	}

	pgConfig, err := pgxpool.ParseConfig(pgConnStr)
	if err != nil {
		t.Fatalf("failed parsing pgconfig with error: %s", err)
	}

	pool, err := pgxpool.NewWithConfig(c, pgConfig)
	if err != nil {
		t.Fatalf("failed creating postgres pool with error: %s", err)
	}

	if err = pool.Ping(c); err != nil {
		t.Fatalf("failed ping postgres pool with error: %s", err)
	}

	teardown := func() {
		pool.Close()
		if err := testcontainers.TerminateContainer(pgContainer); err != nil {
			t.Fatalf("failed to terminate container: %s", err)
		}
	}
	return pool, NewOrderRepository(pool), teardown
}

func testContext() context.Context {
	c := context.Background()
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339Nano}).
		WithContext(c)
}

func TestUpsertOrderInsertsAndReadsBack(t *testing.T) {
	c := testContext()
	_, repo, teardown := setup(t, c)
	defer teardown()

	param := request.UpsertOrder{
		SessionId:     "cs_test_a1",
		CustomerEmail: "client@example.com",
		CustomerName:  "Client Example",
		Items: []request.OrderItem{
			{ProductId: "p1", Name: "Huiles de cheveux naturels", Quantity: 2, UnitAmount: 3500},
		},
		AmountTotal:   7000,
		Currency:      "cad",
		PaymentStatus: "paid",
	}

	order, err := repo.UpsertOrder(c, param)
	assert.NoError(t, err)
	assert.NotEqual(t, "", order.ID.String())
	assert.Equal(t, "cs_test_a1", order.SessionId)
	assert.Equal(t, "client@example.com", order.CustomerEmail)
	assert.Equal(t, "Client Example", order.CustomerName)
	assert.Equal(t, int64(7000), order.AmountTotal)
	assert.Equal(t, "cad", order.Currency)
	assert.Equal(t, "paid", order.PaymentStatus)
	assert.Len(t, order.Items, 1)
	assert.Equal(t, "p1", order.Items[0].ProductId)
	assert.Equal(t, int32(2), order.Items[0].Quantity)
}

func TestUpsertOrderReplayKeepsFirstWrite(t *testing.T) {
	c := testContext()
	_, repo, teardown := setup(t, c)
	defer teardown()

	first := request.UpsertOrder{
		SessionId:     "cs_test_replay",
		CustomerEmail: "first@example.com",
		AmountTotal:   3500,
		Currency:      "cad",
		PaymentStatus: "paid",
	}
	replay := request.UpsertOrder{
		SessionId:     "cs_test_replay",
		CustomerEmail: "replay@example.com",
		AmountTotal:   9999,
		Currency:      "cad",
		PaymentStatus: "unpaid",
	}

	inserted, err := repo.UpsertOrder(c, first)
	assert.NoError(t, err)

	replayed, err := repo.UpsertOrder(c, replay)
	assert.NoError(t, err)
	assert.Equal(t, inserted.ID, replayed.ID)
	assert.Equal(t, "first@example.com", replayed.CustomerEmail)
	assert.Equal(t, int64(3500), replayed.AmountTotal)
	assert.Equal(t, "paid", replayed.PaymentStatus)
}

func TestUpsertOrderConcurrentReplaysProduceOneRow(t *testing.T) {
	c := testContext()
	pool, repo, teardown := setup(t, c)
	defer teardown()

	param := request.UpsertOrder{
		SessionId:     "cs_test_race",
		CustomerEmail: "race@example.com",
		AmountTotal:   4500,
		Currency:      "cad",
		PaymentStatus: "paid",
	}

	workers := 8
	wg := sync.WaitGroup{}
	wg.Add(workers)
	for range workers {
		go func() {
			defer wg.Done()
			_, err := repo.UpsertOrder(c, param)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	var count int
	err := pool.QueryRow(c, "SELECT count(*) FROM orders WHERE session_id = $1", param.SessionId).
		Scan(&count)
	assert.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestFindOrderBySessionIdNotFound(t *testing.T) {
	c := testContext()
	_, repo, teardown := setup(t, c)
	defer teardown()

	_, err := repo.FindOrderBySessionId(c, "cs_test_missing")
	assert.ErrorIs(t, err, inErrors.ErrOrderNotFound)
}
