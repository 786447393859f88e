package errors

import (
	"errors"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	ErrEmptyCheckout       = errors.New("checkout requires at least one item")
	ErrProductNotFound     = errors.New("product not found")
	ErrStripeNotConfigured = errors.New("stripe secret key is not configured")
	ErrWebhookNotConfigured = errors.New(
		"stripe webhook secret is not configured",
	)
	ErrAssistantNotConfigured = errors.New("assistant api key is not configured")
	ErrOrderNotFound          = errors.New("order not found")
)

func HandleError(err error, span trace.Span) {
	if err == nil {
		return
	}
	span.AddEvent(err.Error())
	span.SetStatus(codes.Error, err.Error())
	span.RecordError(err)
}
