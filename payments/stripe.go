// Copyright (c) 2026 Wiz Bikini.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
	"github.com/stripe/stripe-go/v82/webhook"
)

// StripeProvider implements Provider on top of Stripe Checkout.
type StripeProvider struct {
	api           *client.API
	webhookSecret string
}

// NewStripeProvider builds a Stripe-backed provider. All API calls go
// through an HTTP client bounded by timeout so a degraded provider
// surfaces an error instead of hanging the request.
func NewStripeProvider(secretKey, webhookSecret string, timeout time.Duration) *StripeProvider {
	api := &client.API{}
	api.Init(secretKey, stripe.NewBackends(&http.Client{Timeout: timeout}))

	return &StripeProvider{
		api:           api,
		webhookSecret: webhookSecret,
	}
}

func (p *StripeProvider) CreateCheckoutSession(ctx context.Context, cp CheckoutParams) (*Session, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(cp.SuccessURL),
		CancelURL:  stripe.String(cp.CancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(cp.Currency),
					UnitAmount: stripe.Int64(cp.UnitAmount),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(fmt.Sprintf("Vote: %s", cp.CandidateName)),
					},
				},
				Quantity: stripe.Int64(cp.Votes),
			},
		},
	}
	params.Context = ctx
	params.AddMetadata("candidate_id", strconv.FormatInt(cp.CandidateID, 10))
	params.AddMetadata("votes", strconv.FormatInt(cp.Votes, 10))

	s, err := p.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe checkout session create: %w", err)
	}

	return sessionFromStripe(s), nil
}

func (p *StripeProvider) GetSession(ctx context.Context, id string) (*Session, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	s, err := p.api.CheckoutSessions.Get(id, params)
	if err != nil {
		return nil, fmt.Errorf("stripe checkout session get: %w", err)
	}

	return sessionFromStripe(s), nil
}

// VerifyWebhook checks the Stripe-Signature header against the raw body
// before any JSON decoding happens.
func (p *StripeProvider) VerifyWebhook(payload []byte, signature string) (*Event, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signature, p.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadSignature, err)
	}

	out := &Event{Type: string(event.Type)}

	switch out.Type {
	case EventCheckoutCompleted, EventAsyncPaymentSucceeded:
		var s stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &s); err != nil {
			return nil, fmt.Errorf("decode checkout session event: %w", err)
		}
		out.SessionID = s.ID
		out.Paid = sessionPaid(s.PaymentStatus)
	}

	return out, nil
}

func sessionFromStripe(s *stripe.CheckoutSession) *Session {
	return &Session{
		ID:          s.ID,
		URL:         s.URL,
		Currency:    string(s.Currency),
		AmountTotal: s.AmountTotal,
		Paid:        sessionPaid(s.PaymentStatus),
	}
}

func sessionPaid(status stripe.CheckoutSessionPaymentStatus) bool {
	return status == stripe.CheckoutSessionPaymentStatusPaid ||
		status == stripe.CheckoutSessionPaymentStatusNoPaymentRequired
}
