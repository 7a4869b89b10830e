package service

import (
	"context"
	"sync"

	"github.com/obracalc/backend/internal/catalog"
	"github.com/obracalc/backend/internal/model"
	"github.com/obracalc/backend/internal/repository"
)

// PriceService merges the static catalog with a user's persisted overrides
// into an effective price snapshot, and propagates single-field updates back
// to the store.
type PriceService interface {
	// Load rebuilds the user's snapshot in full and returns a copy of it.
	// An empty userID returns catalog defaults verbatim without touching
	// the repository.
	Load(ctx context.Context, userID string) (*model.PriceBook, error)
	// UpdatePrice upserts one override and, only after the write succeeds,
	// mutates the snapshot. A key absent from the current item list is a
	// silent no-op and issues no repository call.
	UpdatePrice(ctx context.Context, userID, materialKey string, compositionIndex int, newPrice float64) error
	// ResetDefaults removes every override row for the user and restores
	// the snapshot to catalog defaults.
	ResetDefaults(ctx context.Context, userID string) error
}

// priceState is one user's in-memory snapshot. It mirrors the last load plus
// any confirmed writes; it is never recomputed reactively.
type priceState struct {
	prices map[string]float64
	items  []*model.PriceItem
}

// PriceServiceImpl is the PriceService implementation.
type PriceServiceImpl struct {
	repo repository.MaterialPriceRepository

	mu     sync.Mutex
	states map[string]*priceState
}

// NewPriceService creates a PriceServiceImpl.
func NewPriceService(repo repository.MaterialPriceRepository) *PriceServiceImpl {
	return &PriceServiceImpl{
		repo:   repo,
		states: make(map[string]*priceState),
	}
}

func defaultPriceState() *priceState {
	st := &priceState{prices: make(map[string]float64, catalog.Len())}
	for _, c := range catalog.Compositions() {
		item := &model.PriceItem{
			MaterialKey:      c.MaterialKey,
			CompositionIndex: c.CompositionIndex,
			CompositionName:  c.Name,
			Unit:             c.Unit,
			UnitPrice:        c.DefaultUnitPrice,
		}
		st.items = append(st.items, item)
		st.prices[item.Key()] = item.UnitPrice
	}
	return st
}

func (st *priceState) book() *model.PriceBook {
	b := &model.PriceBook{Prices: make(map[string]float64, len(st.prices))}
	for k, v := range st.prices {
		b.Prices[k] = v
	}
	for _, it := range st.items {
		cp := *it
		b.Items = append(b.Items, &cp)
	}
	return b
}

// Load implements PriceService.
func (s *PriceServiceImpl) Load(ctx context.Context, userID string) (*model.PriceBook, error) {
	if userID == "" {
		return defaultPriceState().book(), nil
	}

	overrides, err := s.repo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	st := defaultPriceState()
	for _, o := range overrides {
		key := model.PriceKey(o.MaterialKey, o.CompositionIndex)
		if _, ok := st.prices[key]; !ok {
			// Stale override with no catalog entry; ignore.
			continue
		}
		st.prices[key] = o.UnitPrice
		for _, it := range st.items {
			if it.MaterialKey == o.MaterialKey && it.CompositionIndex == o.CompositionIndex {
				it.UnitPrice = o.UnitPrice
				break
			}
		}
	}

	s.mu.Lock()
	s.states[userID] = st
	book := st.book()
	s.mu.Unlock()
	return book, nil
}

// stateLocked returns the user's snapshot, initializing it to catalog
// defaults when nothing has been loaded yet. Caller holds s.mu.
func (s *PriceServiceImpl) stateLocked(userID string) *priceState {
	st, ok := s.states[userID]
	if !ok {
		st = defaultPriceState()
		s.states[userID] = st
	}
	return st
}

// UpdatePrice implements PriceService. The mutex is held across the upsert
// so the snapshot only ever reflects confirmed writes in order.
func (s *PriceServiceImpl) UpdatePrice(ctx context.Context, userID, materialKey string, compositionIndex int, newPrice float64) error {
	if userID == "" {
		return ErrUnauthenticated
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.stateLocked(userID)
	var item *model.PriceItem
	for _, it := range st.items {
		if it.MaterialKey == materialKey && it.CompositionIndex == compositionIndex {
			item = it
			break
		}
	}
	if item == nil {
		// No such item in the current list: deliberate no-op, no remote call.
		return nil
	}

	override := &model.PriceOverride{
		MaterialKey:      materialKey,
		CompositionIndex: compositionIndex,
		CompositionName:  item.CompositionName,
		Unit:             item.Unit,
		UnitPrice:        newPrice,
		UserID:           userID,
	}
	if err := s.repo.Upsert(ctx, override); err != nil {
		// Snapshot untouched; the caller surfaces the failure.
		return err
	}

	item.UnitPrice = newPrice
	st.prices[item.Key()] = newPrice
	return nil
}

// ResetDefaults implements PriceService.
func (s *PriceServiceImpl) ResetDefaults(ctx context.Context, userID string) error {
	if userID == "" {
		return ErrUnauthenticated
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.DeleteByUserID(ctx, userID); err != nil {
		return err
	}
	s.states[userID] = defaultPriceState()
	return nil
}
