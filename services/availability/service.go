package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	missionRepo "carebook/database/repository/mission"
	providerRepo "carebook/database/repository/provider"
	"carebook/models"
	"carebook/services"

	"go.uber.org/zap"
)

// HoldLister reports the labels currently held at checkout.
type HoldLister interface {
	ActiveHoldsFor(ctx context.Context, providerID, date string) ([]string, error)
}

// AvailabilityService answers "when can this provider be booked".
type AvailabilityService interface {
	QueryAvailability(ctx context.Context, providerID, date string, hours float64) (*models.AvailabilityResponse, error)
	Alternatives(ctx context.Context, providerID, date string, halfHours int) ([]string, error)
	SetAvailability(ctx context.Context, actor models.Actor, providerID string, days []models.DayAvailability) (models.WeeklyAvailability, error)
}

// DefaultAvailabilityService combines the weekly pattern, the slot ledger
// and the active holds of a provider day.
type DefaultAvailabilityService struct {
	ProviderRepo providerRepo.ProviderRepository
	MissionRepo  missionRepo.MissionRepository
	Holds        HoldLister // optional
	Matcher      Matcher
	Logger       *zap.Logger
	Now          func() time.Time
}

func NewAvailabilityService(providers providerRepo.ProviderRepository, missions missionRepo.MissionRepository, holds HoldLister, matcher Matcher, logger *zap.Logger) *DefaultAvailabilityService {
	return &DefaultAvailabilityService{
		ProviderRepo: providers,
		MissionRepo:  missions,
		Holds:        holds,
		Matcher:      matcher,
		Logger:       logger,
		Now:          time.Now,
	}
}

func (s *DefaultAvailabilityService) parseDate(date string) (time.Time, error) {
	loc := s.Matcher.Location
	if loc == nil {
		loc = time.UTC
	}
	day, err := time.ParseInLocation(models.DateLayout, date, loc)
	if err != nil {
		return time.Time{}, services.NewValidationError("date", "invalid date %q, expected YYYY-MM-DD", date)
	}
	return day, nil
}

func (s *DefaultAvailabilityService) getProvider(ctx context.Context, providerID string) (*models.Provider, error) {
	provider, err := s.ProviderRepo.GetByID(ctx, providerID)
	if err != nil {
		if errors.Is(err, providerRepo.ErrNotFound) {
			return nil, &services.NotFoundError{Kind: "provider", ID: providerID}
		}
		return nil, fmt.Errorf("failed to load provider %s: %w", providerID, err)
	}
	return provider, nil
}

// unavailable returns booked labels plus held labels for the provider day.
// Hold lookup failures are logged and ignored since holds are advisory.
func (s *DefaultAvailabilityService) unavailable(ctx context.Context, providerID, date string) ([]string, error) {
	booked, err := s.MissionRepo.BookedTimes(ctx, providerID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to load booked slots: %w", err)
	}
	if s.Holds == nil {
		return booked, nil
	}
	held, err := s.Holds.ActiveHoldsFor(ctx, providerID, date)
	if err != nil {
		s.Logger.Warn("Hold lookup failed, ignoring holds",
			zap.String("providerID", providerID), zap.String("date", date), zap.Error(err))
		return booked, nil
	}
	return append(booked, held...), nil
}

func (s *DefaultAvailabilityService) blocks(ctx context.Context, provider *models.Provider, date string, day time.Time, halfHours int) ([][]string, error) {
	open, status := DayLookup(provider.Availability, day)
	if status != DayOpen {
		s.Logger.Debug("No open slots for weekday",
			zap.String("providerID", provider.ID),
			zap.String("date", date),
			zap.Stringer("dayStatus", status))
		return nil, nil
	}

	unavailable, err := s.unavailable(ctx, provider.ID, date)
	if err != nil {
		return nil, err
	}
	return s.Matcher.Blocks(date, open, unavailable, halfHours, s.Now()), nil
}

// QueryAvailability lists the blocks of the requested length that can still
// be booked. An empty result is not an error.
func (s *DefaultAvailabilityService) QueryAvailability(ctx context.Context, providerID, date string, hours float64) (*models.AvailabilityResponse, error) {
	day, err := s.parseDate(date)
	if err != nil {
		return nil, err
	}
	provider, err := s.getProvider(ctx, providerID)
	if err != nil {
		return nil, err
	}

	resp := &models.AvailabilityResponse{
		ProviderID: providerID,
		Date:       date,
		Hours:      hours,
		Starts:     []string{},
		Blocks:     []models.Block{},
	}
	halfHours := HoursToHalfHours(hours)
	if halfHours == 0 {
		return resp, nil
	}

	blocks, err := s.blocks(ctx, provider, date, day, halfHours)
	if err != nil {
		return nil, err
	}
	for _, b := range blocks {
		resp.Starts = append(resp.Starts, b[0])
		resp.Blocks = append(resp.Blocks, models.NewBlock(b))
	}
	return resp, nil
}

// Alternatives returns the block starts still bookable for the same length.
func (s *DefaultAvailabilityService) Alternatives(ctx context.Context, providerID, date string, halfHours int) ([]string, error) {
	day, err := s.parseDate(date)
	if err != nil {
		return nil, err
	}
	provider, err := s.getProvider(ctx, providerID)
	if err != nil {
		return nil, err
	}
	blocks, err := s.blocks(ctx, provider, date, day, halfHours)
	if err != nil {
		return nil, err
	}
	return Starts(blocks), nil
}

// SetAvailability replaces the provider's weekly pattern. Only the provider
// itself or an admin may do so.
func (s *DefaultAvailabilityService) SetAvailability(ctx context.Context, actor models.Actor, providerID string, days []models.DayAvailability) (models.WeeklyAvailability, error) {
	if !actor.IsAdmin() && !(actor.Role == models.RoleProvider && actor.ID == providerID) {
		return nil, services.NewForbiddenError("set availability", "only the provider or an admin may change availability")
	}

	weekly, err := models.NormalizeWeekly(days)
	if err != nil {
		return nil, services.NewValidationError("days", "%v", err)
	}

	if err := s.ProviderRepo.UpdateAvailability(ctx, providerID, weekly); err != nil {
		if errors.Is(err, providerRepo.ErrNotFound) {
			return nil, &services.NotFoundError{Kind: "provider", ID: providerID}
		}
		return nil, fmt.Errorf("failed to update availability: %w", err)
	}

	s.Logger.Info("Provider availability updated",
		zap.String("providerID", providerID),
		zap.String("actor", actor.ID),
		zap.Int("days", len(weekly)))
	return weekly, nil
}
