// Copyright (c) 2026 Wiz Bikini.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package payments abstracts the payment provider behind a small interface.

Handlers depend on Provider, never on the Stripe SDK directly, so tests can
inject a fake and the reconciliation logic stays provider-agnostic:

	provider := payments.NewStripeProvider(key, webhookSecret, 10*time.Second)
	session, err := provider.CreateCheckoutSession(ctx, params)

# Stripe

StripeProvider wraps Stripe Checkout: session creation with per-vote price
data and candidate metadata, session retrieval for the client poll, and
webhook verification. The underlying HTTP client carries a timeout so a
degraded provider fails the request instead of hanging it.

# Webhook Verification

VerifyWebhook authenticates the Stripe-Signature header against the exact
raw body bytes before anything parses the payload. Verification fails
closed: a missing or unverifiable signature returns ErrBadSignature and no
event.
*/
package payments
