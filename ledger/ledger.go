// Copyright (c) 2026 Wiz Bikini.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/wizbikini/glowvote/models"
)

var (
	ErrUnknownSession   = errors.New("unknown session")
	ErrUnknownCandidate = errors.New("unknown candidate")
)

// SettleResult reports the outcome of one settlement attempt.
type SettleResult struct {
	AlreadyCounted bool
	CandidateID    int64
	Votes          int64
	Tally          int64 // candidate tally after the increment; unset when AlreadyCounted
}

// CandidateByID looks up a single candidate.
func CandidateByID(ctx context.Context, dbc *sql.DB, id int64) (*models.Candidate, error) {
	var c models.Candidate
	err := dbc.QueryRowContext(ctx, `
		SELECT id, name, tally FROM candidates WHERE id = $1
	`, id).Scan(&c.ID, &c.Name, &c.Tally)

	if err == sql.ErrNoRows {
		return nil, ErrUnknownCandidate
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query candidate: %w", err)
	}
	return &c, nil
}

// Tallies returns all candidates ordered ascending by id. Never errors on
// an empty table; the caller gets an empty slice.
func Tallies(ctx context.Context, dbc *sql.DB) ([]models.Candidate, error) {
	rows, err := dbc.QueryContext(ctx, `
		SELECT id, name, tally FROM candidates ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query candidates: %w", err)
	}
	defer rows.Close()

	candidates := []models.Candidate{}
	for rows.Next() {
		var c models.Candidate
		if err := rows.Scan(&c.ID, &c.Name, &c.Tally); err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate candidates: %w", err)
	}

	return candidates, nil
}

// CreatePending records one unpaid transaction for a freshly created
// payment session. Exactly one row per successful session creation; the
// caller must not invoke this when the provider call failed.
func CreatePending(ctx context.Context, dbc *sql.DB, sessionID string, candidateID, votes int64, currency string, amountTotal int64) (*models.Transaction, error) {
	t := models.Transaction{
		ID:          uuid.NewString(),
		SessionID:   sessionID,
		CandidateID: candidateID,
		Votes:       votes,
		Currency:    currency,
		AmountTotal: amountTotal,
		Paid:        false,
		CreatedAt:   time.Now().UTC(),
	}

	_, err := dbc.ExecContext(ctx, `
		INSERT INTO transactions (id, session_id, candidate_id, votes, currency, amount_total, paid, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, FALSE, $7)
	`, t.ID, t.SessionID, t.CandidateID, t.Votes, t.Currency, t.AmountTotal, t.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert transaction: %w", err)
	}

	return &t, nil
}

// BySession fetches the transaction recorded for a payment session.
func BySession(ctx context.Context, dbc *sql.DB, sessionID string) (*models.Transaction, error) {
	var t models.Transaction
	err := dbc.QueryRowContext(ctx, `
		SELECT id, session_id, candidate_id, votes, currency, amount_total, paid, created_at
		FROM transactions WHERE session_id = $1
	`, sessionID).Scan(&t.ID, &t.SessionID, &t.CandidateID, &t.Votes, &t.Currency, &t.AmountTotal, &t.Paid, &t.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, ErrUnknownSession
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query transaction: %w", err)
	}
	return &t, nil
}

// Settle marks a session's transaction paid and credits its votes to the
// candidate, as one database transaction. The paid flip is guarded by
// "AND paid = FALSE" with a RowsAffected check, so when the pull poll and
// the webhook race on the same session exactly one caller increments the
// tally; the loser gets AlreadyCounted. A repeat call for an already-paid
// session is the same no-op.
func Settle(ctx context.Context, dbc *sql.DB, sessionID string) (*SettleResult, error) {
	tx, err := dbc.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin settlement: %w", err)
	}
	defer tx.Rollback()

	var res SettleResult
	var txnID string
	err = tx.QueryRowContext(ctx, `
		SELECT id, candidate_id, votes FROM transactions WHERE session_id = $1
	`, sessionID).Scan(&txnID, &res.CandidateID, &res.Votes)

	if err == sql.ErrNoRows {
		return nil, ErrUnknownSession
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query transaction: %w", err)
	}

	upd, err := tx.ExecContext(ctx, `
		UPDATE transactions SET paid = TRUE WHERE id = $1 AND paid = FALSE
	`, txnID)
	if err != nil {
		return nil, fmt.Errorf("failed to mark transaction paid: %w", err)
	}
	affected, err := upd.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		// Another confirmer (or an earlier call) won; nothing to do.
		res.AlreadyCounted = true
		return &res, nil
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE candidates SET tally = tally + $1 WHERE id = $2
	`, res.Votes, res.CandidateID)
	if err != nil {
		return nil, fmt.Errorf("failed to increment tally: %w", err)
	}

	err = tx.QueryRowContext(ctx, `
		SELECT tally FROM candidates WHERE id = $1
	`, res.CandidateID).Scan(&res.Tally)
	if err != nil {
		return nil, fmt.Errorf("failed to read tally: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit settlement: %w", err)
	}

	return &res, nil
}
