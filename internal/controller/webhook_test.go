package controller

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stripe/stripe-go/v81"

	"github.com/auramicrolocs/storefront/internal/service"
	"github.com/auramicrolocs/storefront/internal/store"
	"github.com/auramicrolocs/storefront/pkg/request"
	"github.com/auramicrolocs/storefront/pkg/response"
)

const testWebhookSecret = "whsec_test_storefront"

type fakeOrderStore struct {
	mu    sync.Mutex
	calls []request.UpsertOrder
	err   error
}

func (f *fakeOrderStore) UpsertOrder(
	c context.Context,
	param request.UpsertOrder,
) (response.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, param)
	if f.err != nil {
		return response.Order{}, f.err
	}
	return response.Order{
		ID:            uuid.New(),
		SessionId:     param.SessionId,
		CustomerEmail: param.CustomerEmail,
		CustomerName:  param.CustomerName,
		Items:         param.Items,
		AmountTotal:   param.AmountTotal,
		Currency:      param.Currency,
		PaymentStatus: param.PaymentStatus,
	}, nil
}

func (f *fakeOrderStore) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func webhookRouter(orders *fakeOrderStore, secret string) *mux.Router {
	svc := service.NewCheckoutService(
		nil,
		service.NewCatalogService(),
		store.NewRegistry(),
		orders,
		nil,
	)
	router := mux.NewRouter()
	AttachWebhookController(router, svc, secret)
	return router
}

// signPayload produces the Stripe-Signature header the verifier expects:
// t=<ts>,v1=<hex hmac-sha256(secret, "<ts>.<payload>")>.
func signPayload(payload []byte, secret string, at time.Time) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(fmt.Sprintf("%d.", at.Unix())))
	mac.Write(payload)
	return fmt.Sprintf("t=%d,v1=%s", at.Unix(), hex.EncodeToString(mac.Sum(nil)))
}

func eventPayload(eventType string) []byte {
	return []byte(`{
		"id": "evt_test_1",
		"object": "event",
		"api_version": "` + stripe.APIVersion + `",
		"type": "` + eventType + `",
		"data": {
			"object": {
				"id": "cs_test_hook",
				"object": "checkout.session",
				"amount_total": 7000,
				"currency": "cad",
				"payment_status": "paid",
				"customer_details": {"email": "client@example.com", "name": "Client Example"},
				"metadata": {"customer_name": "Client Example"}
			}
		}
	}`)
}

func postEvent(router *mux.Router, payload []byte, signature string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodPost, "/webhooks/stripe", strings.NewReader(string(payload)))
	r.Header.Set("Stripe-Signature", signature)
	c := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339Nano}).
		WithContext(r.Context())
	r = r.WithContext(c)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)
	return w
}

func TestHandleStripeEventMissingSecret(t *testing.T) {
	orders := &fakeOrderStore{}
	router := webhookRouter(orders, "")

	payload := eventPayload("checkout.session.completed")
	w := postEvent(router, payload, signPayload(payload, testWebhookSecret, time.Now()))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, 0, orders.callCount())
}

func TestHandleStripeEventInvalidSignature(t *testing.T) {
	orders := &fakeOrderStore{}
	router := webhookRouter(orders, testWebhookSecret)

	payload := eventPayload("checkout.session.completed")
	w := postEvent(router, payload, signPayload(payload, "whsec_wrong_secret", time.Now()))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, orders.callCount())
}

func TestHandleStripeEventCompletedUpsertsOnce(t *testing.T) {
	orders := &fakeOrderStore{}
	router := webhookRouter(orders, testWebhookSecret)

	payload := eventPayload("checkout.session.completed")
	w := postEvent(router, payload, signPayload(payload, testWebhookSecret, time.Now()))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, orders.callCount())

	param := orders.calls[0]
	assert.Equal(t, "cs_test_hook", param.SessionId)
	assert.Equal(t, "client@example.com", param.CustomerEmail)
	assert.Equal(t, "Client Example", param.CustomerName)
	assert.Equal(t, int64(7000), param.AmountTotal)
	assert.Equal(t, "cad", param.Currency)
	assert.Equal(t, "paid", param.PaymentStatus)
}

func TestHandleStripeEventUpsertFailureReturns500(t *testing.T) {
	orders := &fakeOrderStore{err: errors.New("connection refused")}
	router := webhookRouter(orders, testWebhookSecret)

	payload := eventPayload("checkout.session.completed")
	w := postEvent(router, payload, signPayload(payload, testWebhookSecret, time.Now()))

	// 500 makes the sender redeliver; the failed attempt must not be retried
	// inside the handler itself
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, 1, orders.callCount())
}

func TestHandleStripeEventIgnoresOtherTypes(t *testing.T) {
	orders := &fakeOrderStore{}
	router := webhookRouter(orders, testWebhookSecret)

	payload := eventPayload("payment_intent.succeeded")
	w := postEvent(router, payload, signPayload(payload, testWebhookSecret, time.Now()))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, orders.callCount())
}
