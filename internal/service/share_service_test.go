package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/obracalc/backend/internal/model"
	"github.com/obracalc/backend/internal/repository"
)

// ---------------------------------------------------------------------------
// Mocks
// ---------------------------------------------------------------------------

type mockSharedCalculationRepository struct {
	createFunc             func(ctx context.Context, s *model.SharedCalculation) error
	getByTokenFunc         func(ctx context.Context, token string) (*model.SharedView, error)
	incrementViewCountFunc func(ctx context.Context, token string) error
	listActiveFunc         func(ctx context.Context, userID string) ([]*model.SharedCalculation, error)
	deactivateFunc         func(ctx context.Context, id, userID string) error

	incrementCalls int
}

func (m *mockSharedCalculationRepository) Create(ctx context.Context, s *model.SharedCalculation) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, s)
	}
	s.ID = "share-1"
	s.ShareToken = "tok-1"
	s.IsActive = true
	return nil
}
func (m *mockSharedCalculationRepository) GetByToken(ctx context.Context, token string) (*model.SharedView, error) {
	if m.getByTokenFunc != nil {
		return m.getByTokenFunc(ctx, token)
	}
	return nil, repository.ErrNotFound
}
func (m *mockSharedCalculationRepository) IncrementViewCount(ctx context.Context, token string) error {
	m.incrementCalls++
	if m.incrementViewCountFunc != nil {
		return m.incrementViewCountFunc(ctx, token)
	}
	return nil
}
func (m *mockSharedCalculationRepository) ListActiveByUserID(ctx context.Context, userID string) ([]*model.SharedCalculation, error) {
	if m.listActiveFunc != nil {
		return m.listActiveFunc(ctx, userID)
	}
	return nil, nil
}
func (m *mockSharedCalculationRepository) Deactivate(ctx context.Context, id, userID string) error {
	if m.deactivateFunc != nil {
		return m.deactivateFunc(ctx, id, userID)
	}
	return nil
}

type mockCalculationRepository struct {
	createFunc       func(ctx context.Context, c *model.Calculation) error
	getByIDFunc      func(ctx context.Context, id string) (*model.Calculation, error)
	listByUserIDFunc func(ctx context.Context, userID string) ([]*model.Calculation, error)
	deleteFunc       func(ctx context.Context, id string) error
}

func (m *mockCalculationRepository) Create(ctx context.Context, c *model.Calculation) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, c)
	}
	c.ID = "calc-1"
	return nil
}
func (m *mockCalculationRepository) GetByID(ctx context.Context, id string) (*model.Calculation, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, repository.ErrNotFound
}
func (m *mockCalculationRepository) ListByUserID(ctx context.Context, userID string) ([]*model.Calculation, error) {
	if m.listByUserIDFunc != nil {
		return m.listByUserIDFunc(ctx, userID)
	}
	return nil, nil
}
func (m *mockCalculationRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func ownedCalc(id, userID string) *model.Calculation {
	return &model.Calculation{ID: id, UserID: userID, Kind: "concrete_slab", Label: "Slab A", Total: 1234.5}
}

// ---------------------------------------------------------------------------
// Create
// ---------------------------------------------------------------------------

func TestShareService_Create(t *testing.T) {
	calcs := &mockCalculationRepository{
		getByIDFunc: func(_ context.Context, id string) (*model.Calculation, error) {
			return ownedCalc(id, "u1"), nil
		},
	}
	svc := NewShareService(&mockSharedCalculationRepository{}, calcs, "https://obracalc.app/")

	link, err := svc.Create(context.Background(), "u1", "calc-1", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if link.URL != "https://obracalc.app/shared/tok-1" {
		t.Errorf("unexpected URL: %s", link.URL)
	}
	if link.Share.ExpiresAt != nil {
		t.Error("nil expiry must stay nil")
	}
	if link.Share.CalculationLabel != "Slab A" || link.Share.CalculationTotal != 1234.5 {
		t.Errorf("share must carry joined metadata: %+v", link.Share)
	}
}

func TestShareService_Create_WithExpiry(t *testing.T) {
	calcs := &mockCalculationRepository{
		getByIDFunc: func(_ context.Context, id string) (*model.Calculation, error) {
			return ownedCalc(id, "u1"), nil
		},
	}
	var created *model.SharedCalculation
	shares := &mockSharedCalculationRepository{
		createFunc: func(_ context.Context, s *model.SharedCalculation) error {
			s.ShareToken = "tok-2"
			created = s
			return nil
		},
	}
	svc := NewShareService(shares, calcs, "https://obracalc.app")

	expiry := time.Now().Add(48 * time.Hour)
	if _, err := svc.Create(context.Background(), "u1", "calc-1", &expiry); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ExpiresAt == nil || !created.ExpiresAt.Equal(expiry) {
		t.Errorf("expiry not persisted: %+v", created.ExpiresAt)
	}
}

func TestShareService_Create_ForbiddenForNonOwner(t *testing.T) {
	calcs := &mockCalculationRepository{
		getByIDFunc: func(_ context.Context, id string) (*model.Calculation, error) {
			return ownedCalc(id, "someone-else"), nil
		},
	}
	shares := &mockSharedCalculationRepository{
		createFunc: func(_ context.Context, _ *model.SharedCalculation) error {
			t.Error("must not create a share for a foreign calculation")
			return nil
		},
	}
	svc := NewShareService(shares, calcs, "https://obracalc.app")

	_, err := svc.Create(context.Background(), "u1", "calc-1", nil)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestShareService_Create_UnknownCalculation(t *testing.T) {
	svc := NewShareService(&mockSharedCalculationRepository{}, &mockCalculationRepository{}, "https://obracalc.app")

	_, err := svc.Create(context.Background(), "u1", "nope", nil)
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestShareService_Create_RequiresIdentity(t *testing.T) {
	svc := NewShareService(&mockSharedCalculationRepository{}, &mockCalculationRepository{}, "https://obracalc.app")

	if _, err := svc.Create(context.Background(), "", "calc-1", nil); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Resolve
// ---------------------------------------------------------------------------

func TestShareService_Resolve_IncrementsOnce(t *testing.T) {
	shares := &mockSharedCalculationRepository{
		getByTokenFunc: func(_ context.Context, token string) (*model.SharedView, error) {
			return &model.SharedView{ShareToken: token, ViewCount: 3, Calculation: ownedCalc("calc-1", "u1")}, nil
		},
	}
	svc := NewShareService(shares, &mockCalculationRepository{}, "https://obracalc.app")

	view, err := svc.Resolve(context.Background(), "tok-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if shares.incrementCalls != 1 {
		t.Errorf("expected exactly one increment, got %d", shares.incrementCalls)
	}
	if view.ViewCount != 4 {
		t.Errorf("expected view count 4, got %d", view.ViewCount)
	}
	if view.Calculation == nil || view.Calculation.Kind != "concrete_slab" {
		t.Errorf("resolved view missing the calculation: %+v", view)
	}
}

func TestShareService_Resolve_IncrementFailureDoesNotFail(t *testing.T) {
	shares := &mockSharedCalculationRepository{
		getByTokenFunc: func(_ context.Context, token string) (*model.SharedView, error) {
			return &model.SharedView{ShareToken: token, ViewCount: 3, Calculation: ownedCalc("calc-1", "u1")}, nil
		},
		incrementViewCountFunc: func(_ context.Context, _ string) error {
			return errors.New("deadlock detected")
		},
	}
	svc := NewShareService(shares, &mockCalculationRepository{}, "https://obracalc.app")

	view, err := svc.Resolve(context.Background(), "tok-1")
	if err != nil {
		t.Fatalf("resolve must survive a failed increment, got %v", err)
	}
	if view.ViewCount != 3 {
		t.Errorf("failed increment must not bump the count, got %d", view.ViewCount)
	}
}

func TestShareService_Resolve_UnknownToken(t *testing.T) {
	svc := NewShareService(&mockSharedCalculationRepository{}, &mockCalculationRepository{}, "https://obracalc.app")

	if _, err := svc.Resolve(context.Background(), "nope"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// List / Deactivate
// ---------------------------------------------------------------------------

func TestShareService_Deactivate_ScopedToOwner(t *testing.T) {
	var gotID, gotUserID string
	shares := &mockSharedCalculationRepository{
		deactivateFunc: func(_ context.Context, id, userID string) error {
			gotID, gotUserID = id, userID
			return nil
		},
	}
	svc := NewShareService(shares, &mockCalculationRepository{}, "https://obracalc.app")

	if err := svc.Deactivate(context.Background(), "u1", "share-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotID != "share-1" || gotUserID != "u1" {
		t.Errorf("deactivate must be scoped by owner, got id=%q user=%q", gotID, gotUserID)
	}
}

func TestShareService_List_RequiresIdentity(t *testing.T) {
	svc := NewShareService(&mockSharedCalculationRepository{}, &mockCalculationRepository{}, "https://obracalc.app")

	if _, err := svc.List(context.Background(), ""); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}
