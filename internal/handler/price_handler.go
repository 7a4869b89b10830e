package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/obracalc/backend/internal/service"
	"github.com/obracalc/backend/pkg/auth"
)

// PriceHandler exposes the effective price map and override operations.
type PriceHandler struct {
	svc service.PriceService
}

// NewPriceHandler creates a PriceHandler.
func NewPriceHandler(svc service.PriceService) *PriceHandler {
	return &PriceHandler{svc: svc}
}

// Get handles GET /api/prices and GET /api/me/prices. Guests get catalog
// defaults; an authenticated user gets defaults overlaid with their overrides.
func (h *PriceHandler) Get(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	userID, _ := auth.UserIDFromContext(r.Context())
	book, err := h.svc.Load(r.Context(), userID)
	if err != nil {
		slog.Error("price load failed", "error", err, "user_id", userID)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "load_failed"})
		return
	}
	_ = json.NewEncoder(w).Encode(book)
}

// Update handles PUT /api/me/prices/{material}/{index} (auth required).
func (h *PriceHandler) Update(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
		return
	}

	material := r.PathValue("material")
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid_index"})
		return
	}

	var req struct {
		UnitPrice float64 `json:"unit_price"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid_json"})
		return
	}
	if req.UnitPrice <= 0 {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "unit_price_required"})
		return
	}

	if err := h.svc.UpdatePrice(r.Context(), userID, material, index, req.UnitPrice); err != nil {
		if errors.Is(err, service.ErrUnauthenticated) {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
			return
		}
		slog.Error("price update failed", "error", err, "user_id", userID, "material", material, "index", index)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "price_update_failed"})
		return
	}

	_ = json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}

// Reset handles DELETE /api/me/prices (auth required): remove every override
// and return to catalog defaults.
func (h *PriceHandler) Reset(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
		return
	}

	if err := h.svc.ResetDefaults(r.Context(), userID); err != nil {
		slog.Error("price reset failed", "error", err, "user_id", userID)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "reset_failed"})
		return
	}

	_ = json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}
