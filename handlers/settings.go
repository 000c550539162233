// Copyright (c) 2026 Wiz Bikini.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/wizbikini/glowvote/auth"
	"github.com/wizbikini/glowvote/cliparse"
	"github.com/wizbikini/glowvote/middleware"
	"github.com/wizbikini/glowvote/models"
)

type SettingsHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewSettingsHandler(db *sql.DB, cfg cliparse.Config) *SettingsHandler {
	return &SettingsHandler{db: db, cfg: cfg}
}

// GetSettings handles GET /api/settings
func (h *SettingsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.load(r)
	if err != nil {
		slog.Error("failed to read settings", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.SettingsResponse{
		Question:     settings.Question,
		GlowColor:    settings.GlowColor,
		InstagramURL: settings.InstagramURL,
	})
}

// UpdateSettings handles PATCH /api/settings
func (h *SettingsHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	token, err := auth.BearerToken(r)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Authorization required")
		return
	}
	if err := auth.ValidateAdminToken(token, h.cfg.AdminToken); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin token")
		return
	}

	var req models.UpdateSettingsRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	// Merge inside the database so concurrent partial updates to different
	// fields both stick: omitted fields arrive as NULL and COALESCE keeps
	// whatever the row already holds.
	_, err = h.db.ExecContext(r.Context(), `
		INSERT INTO settings (id, question, glow_color, instagram_url)
		VALUES (1, $1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET
			question = COALESCE($1, settings.question),
			glow_color = COALESCE($2, settings.glow_color),
			instagram_url = COALESCE($3, settings.instagram_url)
	`, req.Question, req.GlowColor, req.InstagramURL)
	if err != nil {
		slog.Error("failed to update settings", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	slog.Info("settings updated")

	current, err := h.load(r)
	if err != nil {
		slog.Error("failed to read settings", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.SettingsResponse{
		Question:     current.Question,
		GlowColor:    current.GlowColor,
		InstagramURL: current.InstagramURL,
	})
}

// load reads the singleton settings row, substituting defaults when the
// row or individual fields are unset.
func (h *SettingsHandler) load(r *http.Request) (models.Settings, error) {
	settings := models.Settings{
		Question:  models.DefaultQuestion,
		GlowColor: models.DefaultGlowColor,
	}

	var question, glowColor, instagramURL sql.NullString
	err := h.db.QueryRowContext(r.Context(), `
		SELECT question, glow_color, instagram_url FROM settings WHERE id = 1
	`).Scan(&question, &glowColor, &instagramURL)

	if err == sql.ErrNoRows {
		return settings, nil
	}
	if err != nil {
		return settings, err
	}

	if question.Valid && question.String != "" {
		settings.Question = question.String
	}
	if glowColor.Valid && glowColor.String != "" {
		settings.GlowColor = glowColor.String
	}
	if instagramURL.Valid {
		settings.InstagramURL = instagramURL.String
	}

	return settings, nil
}
