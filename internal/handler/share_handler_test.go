package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/obracalc/backend/internal/model"
	"github.com/obracalc/backend/internal/repository"
	"github.com/obracalc/backend/internal/service"
)

// ---------------------------------------------------------------------------
// Mock ShareService
// ---------------------------------------------------------------------------

type mockShareService struct {
	createFunc     func(ctx context.Context, userID, calculationID string, expiresAt *time.Time) (*model.ShareLink, error)
	resolveFunc    func(ctx context.Context, token string) (*model.SharedView, error)
	listFunc       func(ctx context.Context, userID string) ([]*model.SharedCalculation, error)
	deactivateFunc func(ctx context.Context, userID, shareID string) error
}

func (m *mockShareService) Create(ctx context.Context, userID, calculationID string, expiresAt *time.Time) (*model.ShareLink, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, userID, calculationID, expiresAt)
	}
	return &model.ShareLink{Share: &model.SharedCalculation{ShareToken: "tok-1"}, URL: "https://obracalc.app/shared/tok-1"}, nil
}
func (m *mockShareService) Resolve(ctx context.Context, token string) (*model.SharedView, error) {
	if m.resolveFunc != nil {
		return m.resolveFunc(ctx, token)
	}
	return nil, repository.ErrNotFound
}
func (m *mockShareService) List(ctx context.Context, userID string) ([]*model.SharedCalculation, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, userID)
	}
	return nil, nil
}
func (m *mockShareService) Deactivate(ctx context.Context, userID, shareID string) error {
	if m.deactivateFunc != nil {
		return m.deactivateFunc(ctx, userID, shareID)
	}
	return nil
}

// Ensure mock implements interface
var _ service.ShareService = (*mockShareService)(nil)

// ---------------------------------------------------------------------------
// POST /api/me/shares tests
// ---------------------------------------------------------------------------

func TestShareHandler_Create(t *testing.T) {
	mock := &mockShareService{
		createFunc: func(_ context.Context, userID, calculationID string, expiresAt *time.Time) (*model.ShareLink, error) {
			if userID != "u1" || calculationID != "calc-1" {
				t.Errorf("unexpected args: %q %q", userID, calculationID)
			}
			if expiresAt != nil {
				t.Error("expected nil expiry")
			}
			return &model.ShareLink{
				Share: &model.SharedCalculation{ID: "share-1", ShareToken: "tok-1", IsActive: true},
				URL:   "https://obracalc.app/shared/tok-1",
			}, nil
		},
	}
	h := NewShareHandler(mock)

	rec := httptest.NewRecorder()
	h.Create(rec, authedRequest(http.MethodPost, "/api/me/shares", `{"calculation_id": "calc-1"}`))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d — body: %s", rec.Code, rec.Body.String())
	}
	var resp model.ShareLink
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.URL != "https://obracalc.app/shared/tok-1" {
		t.Errorf("unexpected URL: %s", resp.URL)
	}
}

func TestShareHandler_Create_MissingCalculationID(t *testing.T) {
	h := NewShareHandler(&mockShareService{})

	rec := httptest.NewRecorder()
	h.Create(rec, authedRequest(http.MethodPost, "/api/me/shares", `{}`))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestShareHandler_Create_Forbidden(t *testing.T) {
	mock := &mockShareService{
		createFunc: func(_ context.Context, _, _ string, _ *time.Time) (*model.ShareLink, error) {
			return nil, service.ErrForbidden
		},
	}
	h := NewShareHandler(mock)

	rec := httptest.NewRecorder()
	h.Create(rec, authedRequest(http.MethodPost, "/api/me/shares", `{"calculation_id": "calc-1"}`))

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestShareHandler_Create_CalculationNotFound(t *testing.T) {
	mock := &mockShareService{
		createFunc: func(_ context.Context, _, _ string, _ *time.Time) (*model.ShareLink, error) {
			return nil, repository.ErrNotFound
		},
	}
	h := NewShareHandler(mock)

	rec := httptest.NewRecorder()
	h.Create(rec, authedRequest(http.MethodPost, "/api/me/shares", `{"calculation_id": "nope"}`))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

// ---------------------------------------------------------------------------
// GET /api/shared/{token} tests
// ---------------------------------------------------------------------------

func TestShareHandler_Resolve(t *testing.T) {
	mock := &mockShareService{
		resolveFunc: func(_ context.Context, token string) (*model.SharedView, error) {
			if token != "tok-1" {
				t.Errorf("expected tok-1, got %q", token)
			}
			return &model.SharedView{
				ShareToken:  token,
				ViewCount:   5,
				Calculation: &model.Calculation{ID: "calc-1", Kind: "concrete_slab"},
			}, nil
		},
	}
	h := NewShareHandler(mock)

	req := httptest.NewRequest(http.MethodGet, "/api/shared/tok-1", nil)
	req.SetPathValue("token", "tok-1")
	rec := httptest.NewRecorder()
	h.Resolve(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d — body: %s", rec.Code, rec.Body.String())
	}
	var resp model.SharedView
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.ViewCount != 5 || resp.Calculation == nil {
		t.Errorf("unexpected body: %+v", resp)
	}
}

func TestShareHandler_Resolve_NotFound(t *testing.T) {
	h := NewShareHandler(&mockShareService{})

	req := httptest.NewRequest(http.MethodGet, "/api/shared/nope", nil)
	req.SetPathValue("token", "nope")
	rec := httptest.NewRecorder()
	h.Resolve(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

// ---------------------------------------------------------------------------
// GET /api/me/shares tests
// ---------------------------------------------------------------------------

func TestShareHandler_List_EmptyIsJSONArray(t *testing.T) {
	h := NewShareHandler(&mockShareService{})

	rec := httptest.NewRecorder()
	h.List(rec, authedRequest(http.MethodGet, "/api/me/shares", ""))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"shares":[]`) {
		t.Errorf("empty list must serialize as [], got: %s", rec.Body.String())
	}
}

// ---------------------------------------------------------------------------
// DELETE /api/me/shares/{id} tests
// ---------------------------------------------------------------------------

func TestShareHandler_Deactivate(t *testing.T) {
	var gotUserID, gotShareID string
	mock := &mockShareService{
		deactivateFunc: func(_ context.Context, userID, shareID string) error {
			gotUserID, gotShareID = userID, shareID
			return nil
		},
	}
	h := NewShareHandler(mock)

	req := authedRequest(http.MethodDelete, "/api/me/shares/share-1", "")
	req.SetPathValue("id", "share-1")
	rec := httptest.NewRecorder()
	h.Deactivate(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotUserID != "u1" || gotShareID != "share-1" {
		t.Errorf("unexpected args: %q %q", gotUserID, gotShareID)
	}
}

func TestShareHandler_Deactivate_NotFound(t *testing.T) {
	mock := &mockShareService{
		deactivateFunc: func(_ context.Context, _, _ string) error {
			return repository.ErrNotFound
		},
	}
	h := NewShareHandler(mock)

	req := authedRequest(http.MethodDelete, "/api/me/shares/nope", "")
	req.SetPathValue("id", "nope")
	rec := httptest.NewRecorder()
	h.Deactivate(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
