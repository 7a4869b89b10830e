package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/obracalc/backend/internal/model"
	"github.com/obracalc/backend/internal/service"
	"github.com/obracalc/backend/pkg/auth"
)

// SettingsHandler exposes the per-user preference record.
type SettingsHandler struct {
	svc service.SettingsService
}

// NewSettingsHandler creates a SettingsHandler.
func NewSettingsHandler(svc service.SettingsService) *SettingsHandler {
	return &SettingsHandler{svc: svc}
}

// Get handles GET /api/me/settings (auth required).
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
		return
	}

	settings, err := h.svc.Load(r.Context(), userID)
	if err != nil {
		slog.Error("settings load failed", "error", err, "user_id", userID)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "load_failed"})
		return
	}
	_ = json.NewEncoder(w).Encode(settings)
}

// Patch handles PATCH /api/me/settings (auth required). The body is a
// partial record; absent fields are left untouched.
func (h *SettingsHandler) Patch(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
		return
	}

	var patch model.SettingsPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid_json"})
		return
	}

	settings, err := h.svc.Update(r.Context(), userID, patch)
	if err != nil {
		if errors.Is(err, service.ErrInvalidTheme) {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid_theme"})
			return
		}
		slog.Error("settings update failed", "error", err, "user_id", userID)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "settings_update_failed"})
		return
	}
	_ = json.NewEncoder(w).Encode(settings)
}

// MarketDefaults handles POST /api/me/settings/market-defaults (auth
// required): reset the engineering parameters to market reference values.
func (h *SettingsHandler) MarketDefaults(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
		return
	}

	settings, err := h.svc.ResetMarketDefaults(r.Context(), userID)
	if err != nil {
		slog.Error("market defaults reset failed", "error", err, "user_id", userID)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "settings_update_failed"})
		return
	}
	_ = json.NewEncoder(w).Encode(settings)
}
