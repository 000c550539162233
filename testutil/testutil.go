// Copyright (c) 2026 Wiz Bikini.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/wizbikini/glowvote/cliparse"
	"github.com/wizbikini/glowvote/db"
	"github.com/wizbikini/glowvote/payments"
)

// SetupTestDB creates a fresh in-memory sqlite database with the full schema.
// A single connection keeps every query on the same in-memory instance.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	conn.SetMaxOpenConns(1)

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:                4242,
		DatabaseType:        "sqlite",
		DatabaseURL:         ":memory:",
		StripeSecretKey:     "sk_test_secret",
		StripeWebhookSecret: "whsec_test_secret",
		ProviderTimeout:     5 * time.Second,
		PricePerVote:        100,
		AdminToken:          "test-admin-token",
		AllowedOrigins:      []string{"*"},
		Candidates:          []string{"Yes", "No"},
	}
}

// SeedTestCandidates inserts the default Yes/No candidates and returns
// their ids in order.
func SeedTestCandidates(t *testing.T, conn *sql.DB) []int64 {
	t.Helper()

	if err := db.SeedCandidates(conn, []string{"Yes", "No"}); err != nil {
		t.Fatalf("Failed to seed candidates: %v", err)
	}
	return []int64{1, 2}
}

// SetTestTally overwrites a candidate's tally for test setup.
func SetTestTally(t *testing.T, conn *sql.DB, candidateID, tally int64) {
	t.Helper()

	_, err := conn.Exec(`UPDATE candidates SET tally = $1 WHERE id = $2`, tally, candidateID)
	if err != nil {
		t.Fatalf("Failed to set tally: %v", err)
	}
}

// CreateTestTransaction inserts a transaction row directly and returns its id.
func CreateTestTransaction(t *testing.T, conn *sql.DB, sessionID string, candidateID, votes int64, paid bool) string {
	t.Helper()

	id := "txn_" + sessionID
	_, err := conn.Exec(`
		INSERT INTO transactions (id, session_id, candidate_id, votes, currency, amount_total, paid, created_at)
		VALUES ($1, $2, $3, $4, 'usd', $5, $6, $7)
	`, id, sessionID, candidateID, votes, votes*100, paid, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test transaction: %v", err)
	}

	return id
}

// GetTally reads a candidate's current tally.
func GetTally(t *testing.T, conn *sql.DB, candidateID int64) int64 {
	t.Helper()

	var tally int64
	if err := conn.QueryRow(`SELECT tally FROM candidates WHERE id = $1`, candidateID).Scan(&tally); err != nil {
		t.Fatalf("Failed to read tally: %v", err)
	}
	return tally
}

// FakeProvider is an in-memory payments.Provider for handler tests. It
// mimics the provider's signature scheme with a plain HMAC-SHA256 over the
// raw body so the fail-closed path is exercised for real.
type FakeProvider struct {
	mu sync.Mutex

	Sessions      map[string]*payments.Session
	WebhookSecret string

	// Forced failures
	CreateErr error
	GetErr    error

	nextID int
}

func NewFakeProvider(webhookSecret string) *FakeProvider {
	return &FakeProvider{
		Sessions:      make(map[string]*payments.Session),
		WebhookSecret: webhookSecret,
	}
}

func (f *FakeProvider) CreateCheckoutSession(ctx context.Context, p payments.CheckoutParams) (*payments.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.CreateErr != nil {
		return nil, f.CreateErr
	}

	f.nextID++
	s := &payments.Session{
		ID:          fmt.Sprintf("cs_test_%d", f.nextID),
		URL:         fmt.Sprintf("https://checkout.example.test/pay/cs_test_%d", f.nextID),
		Currency:    p.Currency,
		AmountTotal: p.UnitAmount * p.Votes,
		Paid:        false,
	}
	f.Sessions[s.ID] = s
	return s, nil
}

func (f *FakeProvider) GetSession(ctx context.Context, id string) (*payments.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.GetErr != nil {
		return nil, f.GetErr
	}

	s, ok := f.Sessions[id]
	if !ok {
		return nil, fmt.Errorf("no such session: %s", id)
	}
	snapshot := *s
	return &snapshot, nil
}

// MarkPaid flips a fake session to paid, as if the user completed checkout.
func (f *FakeProvider) MarkPaid(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if s, ok := f.Sessions[id]; ok {
		s.Paid = true
	}
}

// AddSession registers a pre-built session.
func (f *FakeProvider) AddSession(s *payments.Session) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Sessions[s.ID] = s
}

func (f *FakeProvider) VerifyWebhook(payload []byte, signature string) (*payments.Event, error) {
	expected := SignWebhook(f.WebhookSecret, payload)
	if !hmac.Equal([]byte(signature), []byte(expected)) {
		return nil, payments.ErrBadSignature
	}

	var body struct {
		Type      string `json:"type"`
		SessionID string `json:"session_id"`
		Paid      bool   `json:"paid"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return nil, fmt.Errorf("decode webhook payload: %w", err)
	}

	return &payments.Event{
		Type:      body.Type,
		SessionID: body.SessionID,
		Paid:      body.Paid,
	}, nil
}

// SignWebhook computes the signature the FakeProvider expects.
func SignWebhook(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}
