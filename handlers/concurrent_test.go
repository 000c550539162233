// Copyright (c) 2026 Wiz Bikini.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/wizbikini/glowvote/models"
	"github.com/wizbikini/glowvote/payments"
	"github.com/wizbikini/glowvote/testutil"
)

// TestConcurrentPullAndPush races the client's redirect poll against the
// provider's webhook for the same paid session. Exactly one trigger may
// credit the candidate; every other caller must see already_counted.
func TestConcurrentPullAndPush(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()
	testutil.SeedTestCandidates(t, db)
	testutil.SetTestTally(t, db, 1, 5)

	cfg := testutil.GetTestConfig()
	provider := testutil.NewFakeProvider(cfg.StripeWebhookSecret)
	provider.AddSession(&payments.Session{ID: "cs_race", AmountTotal: 300, Paid: true})
	testutil.CreateTestTransaction(t, db, "cs_race", 1, 3, false)

	handler := NewConfirmHandler(db, cfg, provider)

	payload, _ := json.Marshal(map[string]any{
		"type":       payments.EventCheckoutCompleted,
		"session_id": "cs_race",
		"paid":       true,
	})
	signature := testutil.SignWebhook(cfg.StripeWebhookSecret, payload)

	const pairs = 5
	var counted, already atomic.Int32
	var wg sync.WaitGroup

	record := func(w *httptest.ResponseRecorder) {
		if w.Code != http.StatusOK {
			t.Errorf("Expected status 200, got %d: %s", w.Code, w.Body.String())
			return
		}
		var resp models.VerifyResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Errorf("Failed to parse response: %v", err)
			return
		}
		switch resp.Status {
		case models.StatusCounted:
			counted.Add(1)
		case models.StatusAlreadyCounted:
			already.Add(1)
		default:
			t.Errorf("Unexpected status %q", resp.Status)
		}
	}

	for i := 0; i < pairs; i++ {
		wg.Add(2)

		// Pull: client reporting the session after redirect
		go func() {
			defer wg.Done()

			req := httptest.NewRequest("GET", "/api/verify/cs_race", nil)
			req.SetPathValue("session", "cs_race")
			w := httptest.NewRecorder()
			handler.VerifySession(w, req)
			record(w)
		}()

		// Push: provider webhook for the same session
		go func() {
			defer wg.Done()

			req := httptest.NewRequest("POST", "/api/webhook", bytes.NewReader(payload))
			req.Header.Set("Stripe-Signature", signature)
			w := httptest.NewRecorder()
			handler.Webhook(w, req)
			record(w)
		}()
	}

	wg.Wait()

	if counted.Load() != 1 {
		t.Errorf("Expected exactly 1 counting confirmation, got %d", counted.Load())
	}
	if already.Load() != pairs*2-1 {
		t.Errorf("Expected %d already-counted confirmations, got %d", pairs*2-1, already.Load())
	}

	// Never twice, never zero: the worked example lands on 8
	if got := testutil.GetTally(t, db, 1); got != 8 {
		t.Errorf("Expected tally 8, got %d", got)
	}
}

// TestConcurrentCheckouts submits many checkouts at once and verifies one
// pending transaction per session with no cross-contamination.
func TestConcurrentCheckouts(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()
	testutil.SeedTestCandidates(t, db)

	cfg := testutil.GetTestConfig()
	provider := testutil.NewFakeProvider(cfg.StripeWebhookSecret)
	handler := NewCheckoutHandler(db, cfg, provider)

	const buyers = 8
	var success atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()

			body, _ := json.Marshal(models.CheckoutRequest{
				CandidateID: int64(n%2 + 1),
				Votes:       float64(n + 1),
				Currency:    "usd",
				SuccessURL:  "https://widget.example/success",
				CancelURL:   "https://widget.example/cancel",
			})
			req := httptest.NewRequest("POST", "/api/checkout", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			handler.CreateCheckout(w, req)

			if w.Code == http.StatusCreated {
				success.Add(1)
			}
		}(i)
	}

	wg.Wait()

	if int(success.Load()) != buyers {
		t.Errorf("Expected %d successful checkouts, got %d", buyers, success.Load())
	}

	var rows, distinct int
	if err := db.QueryRow(`SELECT COUNT(*), COUNT(DISTINCT session_id) FROM transactions`).Scan(&rows, &distinct); err != nil {
		t.Fatalf("Failed to count transactions: %v", err)
	}
	if rows != buyers || distinct != buyers {
		t.Errorf("Expected %d distinct pending transactions, got %d rows / %d distinct", buyers, rows, distinct)
	}

	// Nothing is paid until a confirmer runs
	var paidCount int
	if err := db.QueryRow(`SELECT COUNT(*) FROM transactions WHERE paid`).Scan(&paidCount); err != nil {
		t.Fatalf("Failed to count paid transactions: %v", err)
	}
	if paidCount != 0 {
		t.Errorf("Expected 0 paid transactions, got %d", paidCount)
	}
}
