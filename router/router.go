// Copyright (c) 2026 Wiz Bikini.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/wizbikini/glowvote/cliparse"
	"github.com/wizbikini/glowvote/handlers"
	"github.com/wizbikini/glowvote/middleware"
	"github.com/wizbikini/glowvote/payments"
)

func NewRouter(db *sql.DB, cfg cliparse.Config, provider payments.Provider) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	checkoutHandler := handlers.NewCheckoutHandler(db, cfg, provider)
	confirmHandler := handlers.NewConfirmHandler(db, cfg, provider)
	tallyHandler := handlers.NewTallyHandler(db, cfg)
	settingsHandler := handlers.NewSettingsHandler(db, cfg)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Widget reads (public)
	mux.HandleFunc("GET /api/settings", middleware.WithLogging(settingsHandler.GetSettings))
	mux.HandleFunc("GET /api/tally", middleware.WithLogging(tallyHandler.GetTally))

	// Payment flow
	mux.HandleFunc("POST /api/checkout", middleware.WithLogging(checkoutHandler.CreateCheckout))
	mux.HandleFunc("GET /api/verify/{session}", middleware.WithLogging(confirmHandler.VerifySession))
	mux.HandleFunc("POST /api/webhook", middleware.WithLogging(confirmHandler.Webhook))

	// Admin (requires Authorization: Bearer)
	mux.HandleFunc("PATCH /api/settings", middleware.WithLogging(settingsHandler.UpdateSettings))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("glowvote API v1"))
	})

	return mux
}
