package client

import (
	"context"

	"overcooked-delivery/apperr"
	"overcooked-delivery/storefront-svc/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/paymentintent"
)

// PaymentIntentAPI is the part of the Stripe payment intent client we use.
type PaymentIntentAPI interface {
	New(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
	Get(id string, params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
}

type StripeGateway struct {
	intents  PaymentIntentAPI
	currency string
}

func NewStripeGateway(secretKey, currency string) *StripeGateway {
	return NewStripeGatewayWithAPI(paymentintent.Client{
		B:   stripe.GetBackend(stripe.APIBackend),
		Key: secretKey,
	}, currency)
}

func NewStripeGatewayWithAPI(api PaymentIntentAPI, currency string) *StripeGateway {
	return &StripeGateway{intents: api, currency: currency}
}

// CreateIntent charges req.Amount, given in major units, in the configured currency.
func (g *StripeGateway) CreateIntent(ctx context.Context, req domain.PaymentIntentRequest) (*domain.PaymentIntent, error) {
	cents := req.Amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	if cents <= 0 {
		return nil, apperr.Validation("amount must be positive")
	}

	params := &stripe.PaymentIntentParams{
		Amount:      stripe.Int64(cents),
		Currency:    stripe.String(g.currency),
		Description: stripe.String(req.Description),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	if req.CustomerName != "" {
		params.AddMetadata("customer_name", req.CustomerName)
	}
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	intent, err := g.intents.New(params)
	if err != nil {
		return nil, apperr.Network("create payment intent", err)
	}
	return toPaymentIntent(intent), nil
}

func (g *StripeGateway) GetIntent(ctx context.Context, id string) (*domain.PaymentIntent, error) {
	if id == "" {
		return nil, apperr.Validation("payment intent id is required")
	}
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	intent, err := g.intents.Get(id, params)
	if err != nil {
		return nil, apperr.Network("get payment intent", err)
	}
	return toPaymentIntent(intent), nil
}

func toPaymentIntent(intent *stripe.PaymentIntent) *domain.PaymentIntent {
	return &domain.PaymentIntent{
		ID:           intent.ID,
		ClientSecret: intent.ClientSecret,
		Status:       string(intent.Status),
		Amount:       decimal.New(intent.Amount, -2),
	}
}
