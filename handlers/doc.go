// Copyright (c) 2026 Wiz Bikini.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the glowvote API.

# Handler Types

Each handler is a struct with its dependencies injected at construction:

  - CheckoutHandler: Creates Stripe Checkout sessions and pending transactions
  - ConfirmHandler: Reconciles payment status into the ledger (pull + push)
  - TallyHandler: Candidate tallies for widget polling
  - SettingsHandler: Widget settings read and admin mutation

Handlers are created via constructor functions:

	checkoutHandler := handlers.NewCheckoutHandler(db, cfg, provider)
	confirmHandler := handlers.NewConfirmHandler(db, cfg, provider)

# Payment Flow

A vote is a payment. The widget drives this sequence:

	POST /api/checkout          → CreateCheckout (returns redirect URL)
	  ...user pays on the hosted checkout page...
	GET  /api/verify/{session}  → VerifySession (client poll after redirect)
	POST /api/webhook           → Webhook (provider push, signature-checked)

Both confirmation triggers share one settlement step (ledger.Settle), so a
session's votes are credited exactly once no matter how many times, or how
concurrently, confirmation fires. Repeated confirmations return
"already_counted" as a successful no-op.

# Input Normalization

Vote counts are coerced, not rejected: zero, negative, or non-numeric
counts become 1. Currencies outside the supported set are rejected with
400 before any provider call.

# Error Reduction

Handlers log failure detail through slog and return generic messages to
clients ("Database error", "Payment provider error").
*/
package handlers
