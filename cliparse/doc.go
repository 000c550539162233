// Copyright (c) 2026 Wiz Bikini.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 4242)
  - DatabaseURL: sqlite file path or postgres URL (default: glowvote.db)
  - DatabaseType: sqlite or postgres (default: sqlite)
  - StripeSecretKey: Stripe API secret (required)
  - StripeWebhookSecret: Webhook signing secret (required)
  - AdminToken: Bearer credential for settings mutation (required)
  - PricePerVote: Minor units charged per vote (default: 100)
  - AllowedOrigins: CORS allowlist, "*" allows any (default: *)
  - Candidates: Names seeded when the table is empty (default: Yes,No)
  - ProviderTimeout: Payment-provider HTTP timeout (default: 10s)

# CLI Flags

	-p              Server port
	-d              Database URL or sqlite path
	-t              Database type
	-stripe-key     Stripe secret key
	-webhook-secret Webhook signing secret
	-admin-token    Admin bearer token
	-price          Price per vote in minor units
	-origins        Comma-separated allowed origins
	-candidates     Comma-separated candidate names

# Environment Variables

Flags fall back to environment variables:

	PORT                  → -p
	DATABASE_URL          → -d
	DATABASE_TYPE         → -t
	STRIPE_SECRET_KEY     → -stripe-key
	STRIPE_WEBHOOK_SECRET → -webhook-secret
	ADMIN_TOKEN           → -admin-token
	PRICE_PER_VOTE        → -price
	ALLOWED_ORIGINS       → -origins
	CANDIDATES            → -candidates
	PROVIDER_TIMEOUT      → (env only)

CLI flags take precedence over environment variables.

# Validation

ParseFlags returns an error if required values are missing:

  - STRIPE_SECRET_KEY must be provided
  - STRIPE_WEBHOOK_SECRET must be provided
  - ADMIN_TOKEN must be provided
  - DATABASE_URL must be provided when DATABASE_TYPE is postgres
*/
package cliparse
