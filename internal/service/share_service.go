package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/obracalc/backend/internal/model"
	"github.com/obracalc/backend/internal/repository"
)

// ShareService issues and resolves share links for calculations.
type ShareService interface {
	// Create inserts a share record for a calculation the caller owns and
	// returns it with the public URL. A nil expiresAt never expires.
	Create(ctx context.Context, userID, calculationID string, expiresAt *time.Time) (*model.ShareLink, error)
	// Resolve fetches the calculation snapshot for an active token, then
	// bumps the view counter. The two calls are independent: a failed
	// increment is logged and the resolution still succeeds.
	Resolve(ctx context.Context, token string) (*model.SharedView, error)
	List(ctx context.Context, userID string) ([]*model.SharedCalculation, error)
	Deactivate(ctx context.Context, userID, shareID string) error
}

// ShareServiceImpl is the ShareService implementation.
type ShareServiceImpl struct {
	shares  repository.SharedCalculationRepository
	calcs   repository.CalculationRepository
	baseURL string
}

// NewShareService creates a ShareServiceImpl. baseURL is the public frontend
// origin embedded in generated links.
func NewShareService(shares repository.SharedCalculationRepository, calcs repository.CalculationRepository, baseURL string) *ShareServiceImpl {
	return &ShareServiceImpl{
		shares:  shares,
		calcs:   calcs,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Create implements ShareService.
func (s *ShareServiceImpl) Create(ctx context.Context, userID, calculationID string, expiresAt *time.Time) (*model.ShareLink, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}

	calc, err := s.calcs.GetByID(ctx, calculationID)
	if err != nil {
		return nil, err
	}
	if calc.UserID != userID {
		return nil, ErrForbidden
	}

	share := &model.SharedCalculation{
		CalculationID: calculationID,
		UserID:        userID,
		ExpiresAt:     expiresAt,
	}
	if err := s.shares.Create(ctx, share); err != nil {
		return nil, err
	}
	share.CalculationLabel = calc.Label
	share.CalculationKind = calc.Kind
	share.CalculationTotal = calc.Total

	return &model.ShareLink{
		Share: share,
		URL:   s.baseURL + "/shared/" + share.ShareToken,
	}, nil
}

// Resolve implements ShareService. Any identity, or none, may resolve a token.
func (s *ShareServiceImpl) Resolve(ctx context.Context, token string) (*model.SharedView, error) {
	view, err := s.shares.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	if err := s.shares.IncrementViewCount(ctx, token); err != nil {
		// Accepted inconsistency: the read succeeded, the count lags.
		slog.Warn("share view count increment failed", "error", err, "token", token)
	} else {
		view.ViewCount++
	}
	return view, nil
}

// List implements ShareService.
func (s *ShareServiceImpl) List(ctx context.Context, userID string) ([]*model.SharedCalculation, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	return s.shares.ListActiveByUserID(ctx, userID)
}

// Deactivate implements ShareService.
func (s *ShareServiceImpl) Deactivate(ctx context.Context, userID, shareID string) error {
	if userID == "" {
		return ErrUnauthenticated
	}
	return s.shares.Deactivate(ctx, shareID, userID)
}
