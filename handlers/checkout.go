// Copyright (c) 2026 Wiz Bikini.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/wizbikini/glowvote/cliparse"
	"github.com/wizbikini/glowvote/ledger"
	"github.com/wizbikini/glowvote/middleware"
	"github.com/wizbikini/glowvote/models"
	"github.com/wizbikini/glowvote/payments"
)

// Currencies the widget may charge in, lowercase ISO 4217.
var supportedCurrencies = map[string]bool{
	"usd": true,
	"eur": true,
	"gbp": true,
	"cad": true,
	"aud": true,
	"jpy": true,
}

type CheckoutHandler struct {
	db       *sql.DB
	cfg      cliparse.Config
	provider payments.Provider
}

func NewCheckoutHandler(db *sql.DB, cfg cliparse.Config, provider payments.Provider) *CheckoutHandler {
	return &CheckoutHandler{db: db, cfg: cfg, provider: provider}
}

// CreateCheckout handles POST /api/checkout
func (h *CheckoutHandler) CreateCheckout(w http.ResponseWriter, r *http.Request) {
	var req models.CheckoutRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	votes := coerceVotes(req.Votes)

	currency := strings.ToLower(strings.TrimSpace(req.Currency))
	if !supportedCurrencies[currency] {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Unsupported currency")
		return
	}

	if req.SuccessURL == "" || req.CancelURL == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "success_url and cancel_url are required")
		return
	}

	candidate, err := ledger.CandidateByID(r.Context(), h.db, req.CandidateID)
	if errors.Is(err, ledger.ErrUnknownCandidate) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Candidate not found")
		return
	}
	if err != nil {
		slog.Error("failed to look up candidate", "error", err, "candidate_id", req.CandidateID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	// Provider call first: no transaction row exists unless the session does.
	session, err := h.provider.CreateCheckoutSession(r.Context(), payments.CheckoutParams{
		CandidateID:   candidate.ID,
		CandidateName: candidate.Name,
		Votes:         votes,
		Currency:      currency,
		UnitAmount:    h.cfg.PricePerVote,
		SuccessURL:    req.SuccessURL,
		CancelURL:     req.CancelURL,
	})
	if err != nil {
		slog.Error("failed to create checkout session", "error", err, "candidate_id", candidate.ID)
		middleware.ErrorResponse(w, http.StatusBadGateway, "Payment provider error")
		return
	}

	amountTotal := session.AmountTotal
	if amountTotal == 0 {
		amountTotal = h.cfg.PricePerVote * votes
	}

	txn, err := ledger.CreatePending(r.Context(), h.db, session.ID, candidate.ID, votes, currency, amountTotal)
	if err != nil {
		slog.Error("failed to record pending transaction", "error", err, "session_id", session.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	slog.Info("checkout session created",
		"session_id", session.ID,
		"transaction_id", txn.ID,
		"candidate_id", candidate.ID,
		"votes", votes,
		"amount_total", amountTotal,
		"currency", currency,
	)

	middleware.JSONResponse(w, http.StatusCreated, models.CheckoutResponse{
		SessionID: session.ID,
		URL:       session.URL,
	})
}

// coerceVotes normalizes whatever the widget sent into a positive vote
// count. Garbage (missing, zero, negative, non-numeric, out of int64
// range) becomes 1 rather than an error; the voter always buys at least
// one vote.
func coerceVotes(v any) int64 {
	switch n := v.(type) {
	case float64:
		// Values at or above 2^63 wrap on conversion to int64
		if n >= 1 && n < float64(math.MaxInt64) {
			return int64(n)
		}
	case json.Number:
		if i, err := n.Int64(); err == nil && i >= 1 {
			return i
		}
	case string:
		if i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64); err == nil && i >= 1 {
			return i
		}
	}
	return 1
}
