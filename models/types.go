// Copyright (c) 2026 Wiz Bikini.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Verification status constants
const (
	StatusCounted        = "counted"
	StatusAlreadyCounted = "already_counted"
	StatusPending        = "pending"
)

// Settings defaults, used when the settings row (or a field) is unset
const (
	DefaultQuestion  = "Yes or no?"
	DefaultGlowColor = "#39ff14"
)

// Request types

type CheckoutRequest struct {
	CandidateID int64  `json:"candidate_id"`
	Votes       any    `json:"votes"` // coerced to a positive integer, 1 on garbage
	Currency    string `json:"currency"`
	SuccessURL  string `json:"success_url"`
	CancelURL   string `json:"cancel_url"`
}

// Pointer fields so an absent field leaves the stored value untouched.
type UpdateSettingsRequest struct {
	Question     *string `json:"question,omitempty"`
	GlowColor    *string `json:"glow_color,omitempty"`
	InstagramURL *string `json:"instagram_url,omitempty"`
}

// Response types

type CheckoutResponse struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
}

type VerifyResponse struct {
	Status      string `json:"status"`
	CandidateID int64  `json:"candidate_id,omitempty"`
	Votes       int64  `json:"votes,omitempty"`
	Tally       int64  `json:"tally,omitempty"`
}

type SettingsResponse struct {
	Question     string `json:"question"`
	GlowColor    string `json:"glow_color"`
	InstagramURL string `json:"instagram_url"`
}

// Domain types

type Candidate struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Tally int64  `json:"tally"`
}

type Transaction struct {
	ID          string    `json:"id"`
	SessionID   string    `json:"session_id"`
	CandidateID int64     `json:"candidate_id"`
	Votes       int64     `json:"votes"`
	Currency    string    `json:"currency"`
	AmountTotal int64     `json:"amount_total"`
	Paid        bool      `json:"paid"`
	CreatedAt   time.Time `json:"created_at"`
}

type Settings struct {
	Question     string `json:"question"`
	GlowColor    string `json:"glow_color"`
	InstagramURL string `json:"instagram_url"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
