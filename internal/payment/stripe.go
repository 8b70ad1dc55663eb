// Package payment implements the external payment gateway on top of
// Stripe Checkout.  The secret key is injected through the constructor;
// nothing here touches the package-level stripe.Key global, so two
// gateways with different credentials could coexist in one process.
package payment

import (
	"context"
	"strconv"
	"time"

	stripe "github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"

	"github.com/stayspot/accommodation-booking/internal/service"
)

const currency = "usd"

// StripeGateway implements service.PaymentGateway using Stripe Checkout
// Sessions.  Every provider call is bounded by the configured timeout;
// a timed-out session creation surfaces as an error before any payment
// row exists.
type StripeGateway struct {
	api     *client.API
	baseURL string
	timeout time.Duration
}

// NewStripeGateway builds a gateway around the given secret key.  The
// base URL is where the success and cancel redirects land; both carry
// the session id so the callbacks can resolve the payment.
func NewStripeGateway(secretKey, baseURL string, timeout time.Duration) *StripeGateway {
	api := &client.API{}
	api.Init(secretKey, nil)
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &StripeGateway{api: api, baseURL: baseURL, timeout: timeout}
}

// CreateCheckoutSession opens a one-off payment session for the
// requested amount.  Booking and user ids ride along as opaque
// metadata.
func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, req service.CheckoutRequest) (*service.CheckoutSession, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	params := &stripe.CheckoutSessionParams{
		Params:     stripe.Params{Context: ctx},
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(g.baseURL + "/v1/payments/success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:  stripe.String(g.baseURL + "/v1/payments/cancel?session_id={CHECKOUT_SESSION_ID}"),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Quantity: stripe.Int64(1),
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(currency),
					UnitAmount: stripe.Int64(req.AmountCents),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(req.ProductName),
					},
				},
			},
		},
	}
	params.AddMetadata("bookingId", strconv.FormatUint(req.BookingID, 10))
	params.AddMetadata("userId", strconv.FormatUint(req.UserID, 10))

	sess, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, err
	}
	return &service.CheckoutSession{ID: sess.ID, URL: sess.URL}, nil
}

// SessionPaymentStatus asks Stripe for the authoritative payment status
// of a session ("paid", "unpaid" or "no_payment_required").
func (g *StripeGateway) SessionPaymentStatus(ctx context.Context, sessionID string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	params := &stripe.CheckoutSessionParams{Params: stripe.Params{Context: ctx}}
	sess, err := g.api.CheckoutSessions.Get(sessionID, params)
	if err != nil {
		return "", err
	}
	return string(sess.PaymentStatus), nil
}
