package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/obracalc/backend/internal/model"
	"github.com/obracalc/backend/internal/repository"
	"github.com/obracalc/backend/internal/service"
	"github.com/obracalc/backend/pkg/auth"
)

// CalculationHandler exposes saved calculator results and the history views.
type CalculationHandler struct {
	svc service.CalculationService
}

// NewCalculationHandler creates a CalculationHandler.
func NewCalculationHandler(svc service.CalculationService) *CalculationHandler {
	return &CalculationHandler{svc: svc}
}

// Create handles POST /api/me/calculations (auth required).
func (h *CalculationHandler) Create(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
		return
	}

	var req struct {
		Kind   string          `json:"kind"`
		Label  string          `json:"label"`
		Input  json.RawMessage `json:"input"`
		Result json.RawMessage `json:"result"`
		Total  float64         `json:"total"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid_json"})
		return
	}
	if req.Kind == "" {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "kind_required"})
		return
	}

	calc, err := h.svc.Save(r.Context(), userID, req.Kind, req.Label, req.Input, req.Result, req.Total)
	if err != nil {
		slog.Error("calculation save failed", "error", err, "user_id", userID)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "save_failed"})
		return
	}

	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(calc)
}

// List handles GET /api/me/calculations (auth required), newest first.
func (h *CalculationHandler) List(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
		return
	}

	calcs, err := h.svc.List(r.Context(), userID)
	if err != nil {
		slog.Error("calculation list failed", "error", err, "user_id", userID)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "list_failed"})
		return
	}
	if calcs == nil {
		calcs = []*model.Calculation{}
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"calculations": calcs})
}

// Recent handles GET /api/me/calculations/recent (auth required): the
// lightweight local history, served without touching the database.
func (h *CalculationHandler) Recent(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
		return
	}

	summaries, err := h.svc.Recent(userID)
	if err != nil {
		slog.Error("recent history read failed", "error", err, "user_id", userID)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "history_failed"})
		return
	}
	if summaries == nil {
		summaries = []model.CalculationSummary{}
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"recent": summaries})
}

// Get handles GET /api/me/calculations/{id} (auth required, owner only).
func (h *CalculationHandler) Get(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
		return
	}

	calc, err := h.svc.Get(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		h.writeError(w, err, userID)
		return
	}
	_ = json.NewEncoder(w).Encode(calc)
}

// Delete handles DELETE /api/me/calculations/{id} (auth required, owner only).
func (h *CalculationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
		return
	}

	if err := h.svc.Delete(r.Context(), userID, r.PathValue("id")); err != nil {
		h.writeError(w, err, userID)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}

func (h *CalculationHandler) writeError(w http.ResponseWriter, err error, userID string) {
	switch {
	case errors.Is(err, service.ErrForbidden):
		w.WriteHeader(http.StatusForbidden)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "forbidden"})
	case errors.Is(err, repository.ErrNotFound):
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "not_found"})
	default:
		slog.Error("calculation request failed", "error", err, "user_id", userID)
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "internal_error"})
	}
}
