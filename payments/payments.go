// Copyright (c) 2026 Wiz Bikini.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package payments

import (
	"context"
	"errors"
)

var (
	// ErrBadSignature is returned when a webhook payload cannot be
	// authenticated. Verification fails closed: no payload is parsed
	// before its signature checks out.
	ErrBadSignature = errors.New("webhook signature verification failed")
)

// Event types the confirmer recognizes as payment completion.
const (
	EventCheckoutCompleted     = "checkout.session.completed"
	EventAsyncPaymentSucceeded = "checkout.session.async_payment_succeeded"
)

// CheckoutParams describes one paid-vote checkout.
type CheckoutParams struct {
	CandidateID   int64
	CandidateName string
	Votes         int64
	Currency      string
	UnitAmount    int64 // minor units per vote
	SuccessURL    string
	CancelURL     string
}

// Session is the provider's view of a checkout session.
type Session struct {
	ID          string
	URL         string
	Currency    string
	AmountTotal int64
	Paid        bool
}

// Event is a verified provider notification.
type Event struct {
	Type      string
	SessionID string
	Paid      bool
}

// Provider is the payment-provider surface the handlers depend on.
// The production implementation is Stripe; tests inject a fake.
type Provider interface {
	// CreateCheckoutSession opens a hosted payment session for
	// UnitAmount x Votes and returns its id and redirect URL.
	CreateCheckoutSession(ctx context.Context, p CheckoutParams) (*Session, error)

	// GetSession retrieves the current state of a session, including
	// whether it has been paid.
	GetSession(ctx context.Context, id string) (*Session, error)

	// VerifyWebhook authenticates a raw notification body against the
	// provider signature header and returns the decoded event. Must be
	// called on the exact unparsed body bytes.
	VerifyWebhook(payload []byte, signature string) (*Event, error)
}
