// Copyright (c) 2026 Wiz Bikini.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/wizbikini/glowvote/models"
	"github.com/wizbikini/glowvote/payments"
	"github.com/wizbikini/glowvote/testutil"
)

func getVerify(t *testing.T, handler *ConfirmHandler, sessionID string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest("GET", "/api/verify/"+sessionID, nil)
	req.SetPathValue("session", sessionID)
	w := httptest.NewRecorder()

	handler.VerifySession(w, req)
	return w
}

func parseVerify(t *testing.T, w *httptest.ResponseRecorder) models.VerifyResponse {
	t.Helper()

	var resp models.VerifyResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to parse verify response: %v", err)
	}
	return resp
}

func TestVerifySessionUnknown(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()
	testutil.SeedTestCandidates(t, db)

	cfg := testutil.GetTestConfig()
	provider := testutil.NewFakeProvider(cfg.StripeWebhookSecret)
	handler := NewConfirmHandler(db, cfg, provider)

	w := getVerify(t, handler, "cs_unknown")
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

func TestVerifySessionPending(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()
	testutil.SeedTestCandidates(t, db)
	testutil.SetTestTally(t, db, 1, 5)

	cfg := testutil.GetTestConfig()
	provider := testutil.NewFakeProvider(cfg.StripeWebhookSecret)
	provider.AddSession(&payments.Session{ID: "cs_pending", Paid: false})
	testutil.CreateTestTransaction(t, db, "cs_pending", 1, 2, false)

	handler := NewConfirmHandler(db, cfg, provider)

	// Retryable: an unpaid session never mutates the ledger
	for i := 0; i < 2; i++ {
		w := getVerify(t, handler, "cs_pending")
		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", w.Code)
		}
		if resp := parseVerify(t, w); resp.Status != models.StatusPending {
			t.Errorf("Expected status %q, got %q", models.StatusPending, resp.Status)
		}
	}

	if got := testutil.GetTally(t, db, 1); got != 5 {
		t.Errorf("Unpaid verification mutated tally: expected 5, got %d", got)
	}

	// Payment clears; the same poll now counts the vote
	provider.MarkPaid("cs_pending")
	w := getVerify(t, handler, "cs_pending")
	resp := parseVerify(t, w)
	if resp.Status != models.StatusCounted {
		t.Errorf("Expected status %q, got %q", models.StatusCounted, resp.Status)
	}
	if got := testutil.GetTally(t, db, 1); got != 7 {
		t.Errorf("Expected tally 7, got %d", got)
	}
}

// TestVerifySessionIdempotent walks a full confirmation: candidate at
// tally 5, 3 votes at 100 minor units, then repeated confirmations.
func TestVerifySessionIdempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()
	testutil.SeedTestCandidates(t, db)
	testutil.SetTestTally(t, db, 1, 5)

	cfg := testutil.GetTestConfig()
	provider := testutil.NewFakeProvider(cfg.StripeWebhookSecret)
	provider.AddSession(&payments.Session{ID: "cs_example", AmountTotal: 300, Paid: true})
	testutil.CreateTestTransaction(t, db, "cs_example", 1, 3, false)

	handler := NewConfirmHandler(db, cfg, provider)

	w := getVerify(t, handler, "cs_example")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := parseVerify(t, w)
	if resp.Status != models.StatusCounted {
		t.Errorf("Expected status %q, got %q", models.StatusCounted, resp.Status)
	}
	if resp.Tally != 8 {
		t.Errorf("Expected tally 8, got %d", resp.Tally)
	}

	// Any number of repeat confirmations is a side-effect-free success
	for i := 0; i < 5; i++ {
		w := getVerify(t, handler, "cs_example")
		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200 on repeat, got %d", w.Code)
		}
		if resp := parseVerify(t, w); resp.Status != models.StatusAlreadyCounted {
			t.Errorf("Expected status %q, got %q", models.StatusAlreadyCounted, resp.Status)
		}
	}

	if got := testutil.GetTally(t, db, 1); got != 8 {
		t.Errorf("Expected tally 8 after repeats, got %d", got)
	}

	var paid bool
	if err := db.QueryRow(`SELECT paid FROM transactions WHERE session_id = 'cs_example'`).Scan(&paid); err != nil {
		t.Fatalf("Failed to query transaction: %v", err)
	}
	if !paid {
		t.Error("Transaction must be marked paid")
	}
}

func TestVerifySessionProviderError(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()
	testutil.SeedTestCandidates(t, db)
	testutil.CreateTestTransaction(t, db, "cs_down", 1, 2, false)

	cfg := testutil.GetTestConfig()
	provider := testutil.NewFakeProvider(cfg.StripeWebhookSecret)
	provider.GetErr = errors.New("provider timeout")

	handler := NewConfirmHandler(db, cfg, provider)

	w := getVerify(t, handler, "cs_down")
	if w.Code != http.StatusBadGateway {
		t.Errorf("Expected status 502, got %d", w.Code)
	}
	if got := testutil.GetTally(t, db, 1); got != 0 {
		t.Errorf("Provider failure mutated tally: got %d", got)
	}
}

// Already-paid transactions short-circuit before the provider is asked,
// so even a dead provider returns the idempotent result.
func TestVerifySessionAlreadyPaidSkipsProvider(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()
	testutil.SeedTestCandidates(t, db)
	testutil.CreateTestTransaction(t, db, "cs_done", 2, 1, true)

	cfg := testutil.GetTestConfig()
	provider := testutil.NewFakeProvider(cfg.StripeWebhookSecret)
	provider.GetErr = errors.New("provider down")

	handler := NewConfirmHandler(db, cfg, provider)

	w := getVerify(t, handler, "cs_done")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if resp := parseVerify(t, w); resp.Status != models.StatusAlreadyCounted {
		t.Errorf("Expected status %q, got %q", models.StatusAlreadyCounted, resp.Status)
	}
}
