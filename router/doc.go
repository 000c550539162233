// Copyright (c) 2026 Wiz Bikini.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the glowvote API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg, provider)

# Endpoints

Health:

	GET /health

Widget reads (public):

	GET /api/settings - Question, glow color, instagram link
	GET /api/tally    - Candidate tallies, ascending by id

Payment flow:

	POST /api/checkout         - Create checkout session + pending transaction
	GET  /api/verify/{session} - Client-poll confirmation after redirect
	POST /api/webhook          - Provider push confirmation (signature-checked)

Admin (requires Authorization: Bearer):

	PATCH /api/settings - Partial settings update

# Handler Initialization

The router creates handler instances with dependency injection:

	checkoutHandler := handlers.NewCheckoutHandler(db, cfg, provider)
	confirmHandler := handlers.NewConfirmHandler(db, cfg, provider)
	tallyHandler := handlers.NewTallyHandler(db, cfg)
	settingsHandler := handlers.NewSettingsHandler(db, cfg)

Handlers touching the payment provider receive it explicitly; nothing reads
process-wide state.
*/
package router
