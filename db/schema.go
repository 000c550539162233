// Copyright (c) 2026 Wiz Bikini.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
	"log/slog"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// SeedCandidates inserts the configured candidate names when the table is
// empty. Ids are assigned 1..n in configuration order so tally output has a
// stable ordering. A non-empty table is left untouched: the candidate set is
// fixed at deployment time.
func SeedCandidates(db *sql.DB, names []string) error {
	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM candidates`).Scan(&count); err != nil {
		return fmt.Errorf("failed to count candidates: %w", err)
	}
	if count > 0 {
		return nil
	}

	for i, name := range names {
		_, err := db.Exec(`
			INSERT INTO candidates (id, name, tally)
			VALUES ($1, $2, 0)
		`, int64(i+1), name)
		if err != nil {
			return fmt.Errorf("failed to seed candidate %q: %w", name, err)
		}
	}

	slog.Info("seeded candidates", "count", len(names))
	return nil
}

// The schema sticks to the dialect both sqlite and postgres accept:
// CURRENT_TIMESTAMP instead of NOW(), explicit integer ids instead of
// SERIAL/AUTOINCREMENT (candidates get ids at seed time, transactions
// use generated text ids).
const schema = `
-- Candidates
CREATE TABLE IF NOT EXISTS candidates (
    id INTEGER PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    tally INTEGER NOT NULL DEFAULT 0 CHECK (tally >= 0)
);

-- Transactions (one row per payment attempt, never deleted)
CREATE TABLE IF NOT EXISTS transactions (
    id TEXT PRIMARY KEY,
    session_id TEXT UNIQUE,
    candidate_id INTEGER NOT NULL REFERENCES candidates(id),
    votes INTEGER NOT NULL CHECK (votes > 0),
    currency TEXT NOT NULL,
    amount_total INTEGER NOT NULL,
    paid BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_transactions_session_id ON transactions(session_id);
CREATE INDEX IF NOT EXISTS idx_transactions_candidate_id ON transactions(candidate_id);

-- Settings (singleton row, id pinned to 1)
CREATE TABLE IF NOT EXISTS settings (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    question TEXT,
    glow_color TEXT,
    instagram_url TEXT
);
`
