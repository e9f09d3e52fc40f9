package hold

import (
	"context"
	"errors"
	"fmt"
	"time"

	holdRepo "carebook/database/repository/hold"
	"carebook/models"
	"carebook/services"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// HoldService is the checkout hold registry. Holds are advisory: placing
// one never checks other holds, and mission creation never checks holds.
type HoldService interface {
	Place(ctx context.Context, customerID, providerID, serviceID, date string, times []string) (*models.Hold, error)
	Release(ctx context.Context, holdID, customerID string) error
	ActiveHoldsFor(ctx context.Context, providerID, date string) ([]string, error)
	ReleaseAllFor(ctx context.Context, customerID, providerID, date string) error
}

type DefaultHoldService struct {
	Repo   holdRepo.HoldRepository
	TTL    time.Duration
	Logger *zap.Logger
	Now    func() time.Time
}

func NewHoldService(repo holdRepo.HoldRepository, ttl time.Duration, logger *zap.Logger) *DefaultHoldService {
	return &DefaultHoldService{Repo: repo, TTL: ttl, Logger: logger, Now: time.Now}
}

func (s *DefaultHoldService) Place(ctx context.Context, customerID, providerID, serviceID, date string, times []string) (*models.Hold, error) {
	if customerID == "" || providerID == "" {
		return nil, services.NewValidationError("hold", "customer and provider are required")
	}
	if _, err := time.Parse(models.DateLayout, date); err != nil {
		return nil, services.NewValidationError("date", "invalid date %q", date)
	}
	if !models.IsContiguous(times) {
		return nil, services.NewValidationError("times", "times must be contiguous 30 minute labels")
	}

	now := s.Now()
	h := &models.Hold{
		ID:         uuid.New().String(),
		CustomerID: customerID,
		ProviderID: providerID,
		ServiceID:  serviceID,
		Date:       date,
		Times:      append([]string(nil), times...),
		CreatedAt:  now,
		ExpiresAt:  now.Add(s.TTL),
	}
	if err := s.Repo.Save(ctx, h); err != nil {
		return nil, fmt.Errorf("failed to place hold: %w", err)
	}

	s.Logger.Debug("Hold placed",
		zap.String("holdID", h.ID),
		zap.String("customerID", customerID),
		zap.String("providerID", providerID),
		zap.String("date", date),
		zap.Strings("times", times))
	return h, nil
}

// Release removes the customer's hold. Unknown holds and holds owned by
// someone else are logged and ignored.
func (s *DefaultHoldService) Release(ctx context.Context, holdID, customerID string) error {
	h, err := s.Repo.Get(ctx, holdID)
	if err != nil {
		if errors.Is(err, holdRepo.ErrNotFound) {
			s.Logger.Warn("Release of unknown hold ignored", zap.String("holdID", holdID))
			return nil
		}
		return fmt.Errorf("failed to load hold: %w", err)
	}
	if h.CustomerID != customerID {
		s.Logger.Warn("Release of foreign hold ignored",
			zap.String("holdID", holdID),
			zap.String("requestedBy", customerID))
		return nil
	}
	if err := s.Repo.Delete(ctx, h); err != nil {
		return fmt.Errorf("failed to release hold: %w", err)
	}
	return nil
}

// ActiveHoldsFor returns the union of labels held on provider and date.
func (s *DefaultHoldService) ActiveHoldsFor(ctx context.Context, providerID, date string) ([]string, error) {
	holds, err := s.Repo.ListActive(ctx, providerID, date, s.Now())
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	var times []string
	for _, h := range holds {
		for _, t := range h.Times {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			times = append(times, t)
		}
	}
	models.SortTimeLabels(times)
	return times, nil
}

// ReleaseAllFor clears every hold the customer placed on provider and date.
func (s *DefaultHoldService) ReleaseAllFor(ctx context.Context, customerID, providerID, date string) error {
	holds, err := s.Repo.ListActive(ctx, providerID, date, s.Now())
	if err != nil {
		return err
	}
	for i := range holds {
		if holds[i].CustomerID != customerID {
			continue
		}
		if err := s.Repo.Delete(ctx, &holds[i]); err != nil {
			return fmt.Errorf("failed to release hold %s: %w", holds[i].ID, err)
		}
	}
	return nil
}
