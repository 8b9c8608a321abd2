// Package checkout starts and reads back hosted Stripe checkout sessions
// for the Pro subscription.
package checkout

import (
	"context"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"

	"github.com/andrewpaige1/flashcard-saas/config"
)

// Session is the part of a checkout session the frontend reads back.
type Session struct {
	ID            string `json:"id"`
	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status"`
}

type StripeCheckout struct {
	api *client.API
	cfg config.Checkout
}

// NewStripeCheckout builds a client bound to cfg's secret key. A nil backends
// uses Stripe's public endpoints.
func NewStripeCheckout(cfg config.Checkout, backends *stripe.Backends) *StripeCheckout {
	api := &client.API{}
	api.Init(cfg.StripeSecretKey, backends)
	return &StripeCheckout{api: api, cfg: cfg}
}

// CreateSession opens a subscription checkout and returns its id. Stripe
// sends the user back to {origin}/result with the session id appended.
func (c *StripeCheckout) CreateSession(ctx context.Context, origin string) (string, error) {
	returnURL := strings.TrimRight(origin, "/") + "/result?session_id={CHECKOUT_SESSION_ID}"

	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(c.cfg.Currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(c.cfg.ProductName),
					},
					UnitAmount: stripe.Int64(c.cfg.UnitAmount),
					Recurring: &stripe.CheckoutSessionLineItemPriceDataRecurringParams{
						Interval:      stripe.String(c.cfg.Interval),
						IntervalCount: stripe.Int64(1),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(returnURL),
		CancelURL:  stripe.String(returnURL),
	}
	params.Context = ctx

	s, err := c.api.CheckoutSessions.New(params)
	if err != nil {
		return "", fmt.Errorf("create checkout session: %w", err)
	}
	return s.ID, nil
}

func (c *StripeCheckout) GetSession(ctx context.Context, id string) (*Session, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	s, err := c.api.CheckoutSessions.Get(id, params)
	if err != nil {
		return nil, fmt.Errorf("retrieve checkout session %s: %w", id, err)
	}
	return &Session{
		ID:            s.ID,
		Status:        string(s.Status),
		PaymentStatus: string(s.PaymentStatus),
	}, nil
}
