// Copyright (c) 2026 Wiz Bikini.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package ledger is the source of truth for vote counts.

It owns the candidates and transactions tables: one transaction row per
payment attempt, and a monotonically non-decreasing tally per candidate.
The payment provider is the source of truth for payment status; this
package records what the provider reports, at most once per session.

# Settlement

Settle is the core invariant holder:

	res, err := ledger.Settle(ctx, db, sessionID)

Inside one database transaction it flips the row's paid flag guarded by
"AND paid = FALSE" and increments the candidate tally by the row's votes.
RowsAffected decides the race: concurrent settlement attempts for the same
session (client poll vs provider webhook) serialize on the row, exactly one
sees 1 row affected, and every other caller gets AlreadyCounted. A failure
anywhere rolls the whole unit back, so the paid flag and the tally never
diverge.

# Reads

Tallies returns all candidates ordered ascending by id; BySession and
CandidateByID return ErrUnknownSession / ErrUnknownCandidate sentinels for
missing rows.
*/
package ledger
