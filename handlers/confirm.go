// Copyright (c) 2026 Wiz Bikini.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/wizbikini/glowvote/cliparse"
	"github.com/wizbikini/glowvote/ledger"
	"github.com/wizbikini/glowvote/middleware"
	"github.com/wizbikini/glowvote/models"
	"github.com/wizbikini/glowvote/payments"
)

// Webhook bodies larger than this are rejected outright.
const maxWebhookBody = 65536

// ConfirmHandler reconciles payment-provider session state into the
// ledger. Two triggers share the settlement logic: the client's redirect
// poll (VerifySession) and the provider's notification (Webhook).
type ConfirmHandler struct {
	db       *sql.DB
	cfg      cliparse.Config
	provider payments.Provider
}

func NewConfirmHandler(db *sql.DB, cfg cliparse.Config, provider payments.Provider) *ConfirmHandler {
	return &ConfirmHandler{db: db, cfg: cfg, provider: provider}
}

// VerifySession handles GET /api/verify/{session}
func (h *ConfirmHandler) VerifySession(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("session")
	if sessionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "session is required")
		return
	}

	txn, err := ledger.BySession(r.Context(), h.db, sessionID)
	if errors.Is(err, ledger.ErrUnknownSession) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Unknown session")
		return
	}
	if err != nil {
		slog.Error("failed to look up transaction", "error", err, "session_id", sessionID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	// Already settled: idempotent success, no provider round trip.
	if txn.Paid {
		middleware.JSONResponse(w, http.StatusOK, models.VerifyResponse{
			Status:      models.StatusAlreadyCounted,
			CandidateID: txn.CandidateID,
			Votes:       txn.Votes,
		})
		return
	}

	session, err := h.provider.GetSession(r.Context(), sessionID)
	if err != nil {
		slog.Error("failed to retrieve session", "error", err, "session_id", sessionID)
		middleware.ErrorResponse(w, http.StatusBadGateway, "Payment provider error")
		return
	}

	if !session.Paid {
		middleware.JSONResponse(w, http.StatusOK, models.VerifyResponse{
			Status:      models.StatusPending,
			CandidateID: txn.CandidateID,
			Votes:       txn.Votes,
		})
		return
	}

	h.settle(w, r, sessionID)
}

// Webhook handles POST /api/webhook
func (h *ConfirmHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	// The signature covers the exact raw bytes; read them before any
	// parsing touches the body.
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Unreadable body")
		return
	}

	event, err := h.provider.VerifyWebhook(payload, r.Header.Get("Stripe-Signature"))
	if err != nil {
		slog.Warn("webhook rejected", "error", err, "remote", middleware.GetClientIP(r))
		middleware.ErrorResponse(w, http.StatusBadRequest, "Signature verification failed")
		return
	}

	switch event.Type {
	case payments.EventCheckoutCompleted, payments.EventAsyncPaymentSucceeded:
		// Completed events for async payment methods can arrive before the
		// payment clears; only a paid session settles.
		if !event.Paid {
			slog.Info("completion event without payment, ignoring", "session_id", event.SessionID, "type", event.Type)
			middleware.JSONResponse(w, http.StatusOK, models.VerifyResponse{Status: models.StatusPending})
			return
		}
		h.settle(w, r, event.SessionID)
	default:
		// Unrecognized event types are acknowledged so the provider stops
		// redelivering them.
		slog.Info("ignoring webhook event", "type", event.Type)
		w.WriteHeader(http.StatusOK)
	}
}

// settle runs the shared atomic mark-paid-and-increment step and writes
// the outcome.
func (h *ConfirmHandler) settle(w http.ResponseWriter, r *http.Request, sessionID string) {
	res, err := ledger.Settle(r.Context(), h.db, sessionID)
	if errors.Is(err, ledger.ErrUnknownSession) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Unknown session")
		return
	}
	if err != nil {
		slog.Error("settlement failed", "error", err, "session_id", sessionID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if res.AlreadyCounted {
		middleware.JSONResponse(w, http.StatusOK, models.VerifyResponse{
			Status:      models.StatusAlreadyCounted,
			CandidateID: res.CandidateID,
			Votes:       res.Votes,
		})
		return
	}

	slog.Info("vote counted",
		"session_id", sessionID,
		"candidate_id", res.CandidateID,
		"votes", res.Votes,
		"tally", res.Tally,
	)

	middleware.JSONResponse(w, http.StatusOK, models.VerifyResponse{
		Status:      models.StatusCounted,
		CandidateID: res.CandidateID,
		Votes:       res.Votes,
		Tally:       res.Tally,
	})
}
