// Copyright (c) 2026 Wiz Bikini.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database schema creation and seeding.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.
The SQL sticks to the dialect subset both sqlite and postgres accept.

# Tables

The schema includes:

  - candidates: Votable options with running tallies
  - transactions: One row per payment attempt, paid flag flips once
  - settings: Singleton widget settings row (id pinned to 1)

# Relationships

	candidates 1──* transactions

Transactions are never deleted; the ledger is append-plus-one-flip.

# Seeding

SeedCandidates populates the candidates table from configuration, only when
the table is empty. Ids are assigned 1..n in configuration order, which is
what gives tally output its stable ordering. The candidate set is fixed at
deployment time; adding a third option later means touching the database by
hand.
*/
package db
