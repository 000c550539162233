// Copyright (c) 2026 Wiz Bikini.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/wizbikini/glowvote/models"
	"github.com/wizbikini/glowvote/payments"
	"github.com/wizbikini/glowvote/testutil"
)

func postWebhook(t *testing.T, handler *ConfirmHandler, payload []byte, signature string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest("POST", "/api/webhook", bytes.NewReader(payload))
	if signature != "" {
		req.Header.Set("Stripe-Signature", signature)
	}
	w := httptest.NewRecorder()

	handler.Webhook(w, req)
	return w
}

func webhookPayload(t *testing.T, eventType, sessionID string, paid bool) []byte {
	t.Helper()

	payload, err := json.Marshal(map[string]any{
		"type":       eventType,
		"session_id": sessionID,
		"paid":       paid,
	})
	if err != nil {
		t.Fatalf("Failed to marshal payload: %v", err)
	}
	return payload
}

func TestWebhookBadSignature(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()
	testutil.SeedTestCandidates(t, db)
	testutil.CreateTestTransaction(t, db, "cs_hook", 1, 2, false)

	cfg := testutil.GetTestConfig()
	provider := testutil.NewFakeProvider(cfg.StripeWebhookSecret)
	handler := NewConfirmHandler(db, cfg, provider)

	payload := webhookPayload(t, payments.EventCheckoutCompleted, "cs_hook", true)

	tests := []struct {
		name      string
		signature string
	}{
		{"missing signature", ""},
		{"garbage signature", "deadbeef"},
		{"signature from wrong secret", testutil.SignWebhook("not-the-secret", payload)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postWebhook(t, handler, payload, tt.signature)
			if w.Code != http.StatusBadRequest {
				t.Errorf("Expected status 400, got %d", w.Code)
			}
		})
	}

	// Fail closed: nothing was processed
	if got := testutil.GetTally(t, db, 1); got != 0 {
		t.Errorf("Rejected webhook mutated tally: got %d", got)
	}
	var paid bool
	if err := db.QueryRow(`SELECT paid FROM transactions WHERE session_id = 'cs_hook'`).Scan(&paid); err != nil {
		t.Fatalf("Failed to query transaction: %v", err)
	}
	if paid {
		t.Error("Rejected webhook marked transaction paid")
	}
}

func TestWebhookCompletedSettles(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()
	testutil.SeedTestCandidates(t, db)
	testutil.SetTestTally(t, db, 1, 5)
	testutil.CreateTestTransaction(t, db, "cs_hook_ok", 1, 3, false)

	cfg := testutil.GetTestConfig()
	provider := testutil.NewFakeProvider(cfg.StripeWebhookSecret)
	handler := NewConfirmHandler(db, cfg, provider)

	payload := webhookPayload(t, payments.EventCheckoutCompleted, "cs_hook_ok", true)
	signature := testutil.SignWebhook(cfg.StripeWebhookSecret, payload)

	w := postWebhook(t, handler, payload, signature)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp models.VerifyResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if resp.Status != models.StatusCounted {
		t.Errorf("Expected status %q, got %q", models.StatusCounted, resp.Status)
	}
	if got := testutil.GetTally(t, db, 1); got != 8 {
		t.Errorf("Expected tally 8, got %d", got)
	}

	// Provider retries deliver the same event again: no double count
	w = postWebhook(t, handler, payload, signature)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200 on redelivery, got %d", w.Code)
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if resp.Status != models.StatusAlreadyCounted {
		t.Errorf("Expected status %q, got %q", models.StatusAlreadyCounted, resp.Status)
	}
	if got := testutil.GetTally(t, db, 1); got != 8 {
		t.Errorf("Redelivery changed tally: expected 8, got %d", got)
	}
}

func TestWebhookCompletedButUnpaid(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()
	testutil.SeedTestCandidates(t, db)
	testutil.CreateTestTransaction(t, db, "cs_async", 2, 2, false)

	cfg := testutil.GetTestConfig()
	provider := testutil.NewFakeProvider(cfg.StripeWebhookSecret)
	handler := NewConfirmHandler(db, cfg, provider)

	// Async payment methods emit completed before the money moves
	payload := webhookPayload(t, payments.EventCheckoutCompleted, "cs_async", false)
	signature := testutil.SignWebhook(cfg.StripeWebhookSecret, payload)

	w := postWebhook(t, handler, payload, signature)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if got := testutil.GetTally(t, db, 2); got != 0 {
		t.Errorf("Unpaid completion mutated tally: got %d", got)
	}

	// The follow-up async success settles it
	payload = webhookPayload(t, payments.EventAsyncPaymentSucceeded, "cs_async", true)
	signature = testutil.SignWebhook(cfg.StripeWebhookSecret, payload)

	w = postWebhook(t, handler, payload, signature)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if got := testutil.GetTally(t, db, 2); got != 2 {
		t.Errorf("Expected tally 2, got %d", got)
	}
}

func TestWebhookUnrecognizedEvent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()
	testutil.SeedTestCandidates(t, db)
	testutil.CreateTestTransaction(t, db, "cs_other", 1, 1, false)

	cfg := testutil.GetTestConfig()
	provider := testutil.NewFakeProvider(cfg.StripeWebhookSecret)
	handler := NewConfirmHandler(db, cfg, provider)

	payload := webhookPayload(t, "invoice.paid", "cs_other", true)
	signature := testutil.SignWebhook(cfg.StripeWebhookSecret, payload)

	// Accepted without action; the provider should not retry
	w := postWebhook(t, handler, payload, signature)
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if got := testutil.GetTally(t, db, 1); got != 0 {
		t.Errorf("Unrecognized event mutated tally: got %d", got)
	}
}

func TestWebhookUnknownSession(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()
	testutil.SeedTestCandidates(t, db)

	cfg := testutil.GetTestConfig()
	provider := testutil.NewFakeProvider(cfg.StripeWebhookSecret)
	handler := NewConfirmHandler(db, cfg, provider)

	payload := webhookPayload(t, payments.EventCheckoutCompleted, "cs_never_seen", true)
	signature := testutil.SignWebhook(cfg.StripeWebhookSecret, payload)

	w := postWebhook(t, handler, payload, signature)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}
