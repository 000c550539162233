// Copyright (c) 2026 Wiz Bikini.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/wizbikini/glowvote/cliparse"
	"github.com/wizbikini/glowvote/ledger"
	"github.com/wizbikini/glowvote/middleware"
)

type TallyHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewTallyHandler(db *sql.DB, cfg cliparse.Config) *TallyHandler {
	return &TallyHandler{db: db, cfg: cfg}
}

// GetTally handles GET /api/tally
func (h *TallyHandler) GetTally(w http.ResponseWriter, r *http.Request) {
	candidates, err := ledger.Tallies(r.Context(), h.db)
	if err != nil {
		slog.Error("failed to read tallies", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, candidates)
}
