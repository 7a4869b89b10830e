package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/obracalc/backend/internal/model"
	"github.com/obracalc/backend/internal/repository"
	"github.com/obracalc/backend/pkg/localstore"
)

// CalculationService persists calculator results and serves the history views.
type CalculationService interface {
	Save(ctx context.Context, userID, kind, label string, input, result json.RawMessage, total float64) (*model.Calculation, error)
	List(ctx context.Context, userID string) ([]*model.Calculation, error)
	Get(ctx context.Context, userID, id string) (*model.Calculation, error)
	Delete(ctx context.Context, userID, id string) error
	// Recent serves the lightweight local history, independent of the database.
	Recent(userID string) ([]model.CalculationSummary, error)
}

// CalculationServiceImpl is the CalculationService implementation.
type CalculationServiceImpl struct {
	repo    repository.CalculationRepository
	history *localstore.Store
}

// NewCalculationService creates a CalculationServiceImpl. history may be nil,
// disabling the local recent-history view.
func NewCalculationService(repo repository.CalculationRepository, history *localstore.Store) *CalculationServiceImpl {
	return &CalculationServiceImpl{repo: repo, history: history}
}

// Save implements CalculationService. The local history append is best
// effort: a failure is logged and never blocks the save.
func (s *CalculationServiceImpl) Save(ctx context.Context, userID, kind, label string, input, result json.RawMessage, total float64) (*model.Calculation, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	if kind == "" {
		return nil, errors.New("kind is required")
	}

	calc := &model.Calculation{
		UserID: userID,
		Kind:   kind,
		Label:  label,
		Input:  input,
		Result: result,
		Total:  total,
	}
	if err := s.repo.Create(ctx, calc); err != nil {
		return nil, err
	}

	if s.history != nil {
		summary := model.CalculationSummary{
			ID:      calc.ID,
			Kind:    calc.Kind,
			Label:   calc.Label,
			Total:   calc.Total,
			SavedAt: time.Now(),
		}
		if err := s.history.Append(userID, summary); err != nil {
			slog.Warn("local history append failed", "error", err, "user_id", userID)
		}
	}
	return calc, nil
}

// List implements CalculationService.
func (s *CalculationServiceImpl) List(ctx context.Context, userID string) ([]*model.Calculation, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	return s.repo.ListByUserID(ctx, userID)
}

// Get implements CalculationService.
func (s *CalculationServiceImpl) Get(ctx context.Context, userID, id string) (*model.Calculation, error) {
	calc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if calc.UserID != userID {
		return nil, ErrForbidden
	}
	return calc, nil
}

// Delete implements CalculationService.
func (s *CalculationServiceImpl) Delete(ctx context.Context, userID, id string) error {
	calc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if calc.UserID != userID {
		return ErrForbidden
	}
	return s.repo.Delete(ctx, id)
}

// Recent implements CalculationService.
func (s *CalculationServiceImpl) Recent(userID string) ([]model.CalculationSummary, error) {
	if s.history == nil {
		return nil, nil
	}
	return s.history.Recent(userID)
}
