// Copyright (c) 2026 Wiz Bikini.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the glowvote API server.

Glowvote is the backend for a single-page voting widget: visitors buy votes
for a candidate through Stripe Checkout, and confirmed payments increment a
persistent tally the widget polls.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	STRIPE_SECRET_KEY=sk_... STRIPE_WEBHOOK_SECRET=whsec_... ADMIN_TOKEN=... go run main.go

Or with flags:

	go run main.go -p 4242 -d glowvote.db

A .env file in the working directory is loaded first when present.

# Configuration

Required settings:

  - STRIPE_SECRET_KEY (-stripe-key): Stripe API secret key
  - STRIPE_WEBHOOK_SECRET (-webhook-secret): Webhook signing secret
  - ADMIN_TOKEN (-admin-token): Bearer credential for settings mutation

Optional settings:

  - PORT (-p): Server port (default: 4242)
  - DATABASE_URL (-d): sqlite path or postgres URL (default: glowvote.db)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - PRICE_PER_VOTE (-price): Minor units per vote (default: 100)
  - ALLOWED_ORIGINS (-origins): CORS allowlist (default: *)
  - CANDIDATES (-candidates): Seed names (default: Yes,No)

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (checkout, confirm, tally, settings)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - models: Request/response types
  - auth: Admin credential validation
  - payments: Payment-provider abstraction and Stripe implementation
  - ledger: Transaction/candidate bookkeeping and atomic settlement
  - db: Schema creation and candidate seeding
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
