package stripe

import (
	"context"

	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"

	"github.com/samidafali/education-backend/internal/models"
)

// Gateway adapts the Stripe payment intents API. The secret key stays inside
// the underlying client; callers only ever see intent ids and client secrets.
type Gateway struct {
	api *client.API
}

func NewGateway(secretKey string) *Gateway {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &Gateway{api: api}
}

func (g *Gateway) CreateIntent(ctx context.Context, amount int64, currency, receiptEmail string, metadata map[string]string) (id, clientSecret string, err error) {
	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(amount),
		Currency:           stripe.String(currency),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	params.Context = ctx
	if receiptEmail != "" {
		params.ReceiptEmail = stripe.String(receiptEmail)
	}
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}

	pi, err := g.api.PaymentIntents.New(params)
	if err != nil {
		return "", "", err
	}
	return pi.ID, pi.ClientSecret, nil
}

func (g *Gateway) IntentStatus(ctx context.Context, id string) (string, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx
	pi, err := g.api.PaymentIntents.Get(id, params)
	if err != nil {
		return "", err
	}
	return mapStatus(pi), nil
}

func mapStatus(pi *stripe.PaymentIntent) string {
	switch pi.Status {
	case stripe.PaymentIntentStatusSucceeded:
		return models.IntentSucceeded
	case stripe.PaymentIntentStatusCanceled:
		return models.IntentFailed
	case stripe.PaymentIntentStatusRequiresPaymentMethod:
		// A declined attempt falls back to requires_payment_method with the
		// failure recorded on the intent.
		if pi.LastPaymentError != nil {
			return models.IntentFailed
		}
		return models.IntentPending
	default:
		return models.IntentPending
	}
}
