// Copyright (c) 2026 Wiz Bikini.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - CheckoutRequest: candidate_id, votes, currency, success_url, cancel_url
  - UpdateSettingsRequest: question, glow_color, instagram_url (all optional)

CheckoutRequest.Votes is deliberately untyped: the widget may send a
number, a string, or garbage, and the handler coerces it to a positive
integer. UpdateSettingsRequest uses pointers so absent fields are
distinguishable from empty ones.

# Response Types

  - CheckoutResponse: session_id, url
  - VerifyResponse: status, candidate_id, votes, tally
  - SettingsResponse: question, glow_color, instagram_url
  - ErrorResponse: error, message

# Domain Types

  - Candidate: votable option with its running tally
  - Transaction: one payment attempt tied to a vote cast
  - Settings: widget question, glow color, instagram link

# Constants

Verification statuses:

	StatusCounted        = "counted"
	StatusAlreadyCounted = "already_counted"
	StatusPending        = "pending"

Settings defaults:

	DefaultQuestion  = "Yes or no?"
	DefaultGlowColor = "#39ff14"
*/
package models
