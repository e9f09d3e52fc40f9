package mission

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	missionRepo "carebook/database/repository/mission"
	providerRepo "carebook/database/repository/provider"
	"carebook/models"
	"carebook/services"
	"carebook/services/availability"
	"carebook/services/metrics"
	"carebook/services/notification"
	"carebook/services/payment"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MissionService drives a mission from creation to payout.
type MissionService interface {
	Validate(ctx context.Context, in CreateMissionInput) (CreateMissionInput, error)
	Create(ctx context.Context, in CreateMissionInput) (*models.Mission, error)
	Get(ctx context.Context, missionID string, actor models.Actor) (*models.Mission, error)
	Accept(ctx context.Context, missionID string, actor models.Actor) (*models.Mission, error)
	MarkCompleteByCustomer(ctx context.Context, missionID string, actor models.Actor) (*models.Mission, error)
	Finalize(ctx context.Context, missionID, transferRef string) (*models.Mission, error)
	Cancel(ctx context.Context, missionID string, actor models.Actor) (*models.Mission, error)
	AdminSetStatus(ctx context.Context, missionID string, status models.MissionStatus, note string, admin models.Actor) (*models.Mission, error)
	Transition(ctx context.Context, missionID, action string, actor models.Actor) (*models.Mission, error)
}

// CreateMissionInput is a paid-for booking ready to be recorded.
type CreateMissionInput struct {
	CustomerID     string
	ProviderID     string
	ServiceID      string
	Date           string
	Times          []string
	Price          float64
	ProviderPayout float64
	Currency       string
	PaymentRef     string
}

// AlternativeFinder suggests other starts when a booking conflicts.
type AlternativeFinder interface {
	Alternatives(ctx context.Context, providerID, date string, halfHours int) ([]string, error)
}

// HoldReleaser clears checkout holds once a mission exists.
type HoldReleaser interface {
	ReleaseAllFor(ctx context.Context, customerID, providerID, date string) error
}

type DefaultMissionService struct {
	Repo         missionRepo.MissionRepository
	Providers    providerRepo.ProviderRepository
	Alternatives AlternativeFinder
	Holds        HoldReleaser // optional
	Payouts      payment.PayoutTransferer
	Notifier     notification.Notifier
	Metrics      *metrics.BookingMetrics
	Logger       *zap.Logger
	Location     *time.Location
	LeadTime     time.Duration
	Now          func() time.Time
}

func (s *DefaultMissionService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *DefaultMissionService) location() *time.Location {
	if s.Location != nil {
		return s.Location
	}
	return time.UTC
}

func (s *DefaultMissionService) notify(ctx context.Context, template string, m *models.Mission, roles ...string) {
	if s.Notifier == nil {
		return
	}
	for _, role := range roles {
		id := m.UserID
		if role == models.RoleProvider {
			id = m.ProviderID
		}
		s.Notifier.Notify(ctx, notification.ForMission(template, models.Recipient{Role: role, ID: id}, m, s.now()))
	}
}

// validateCreate checks a booking against the provider's calendar and the
// lead time. It returns the input with canonical time labels.
func (s *DefaultMissionService) validateCreate(in CreateMissionInput, provider *models.Provider) (models.ServiceOffering, CreateMissionInput, error) {
	if in.CustomerID == "" {
		return models.ServiceOffering{}, in, services.NewValidationError("customer", "customer is required")
	}
	if in.Price < 0 || in.ProviderPayout < 0 {
		return models.ServiceOffering{}, in, services.NewValidationError("price", "must not be negative")
	}
	service, ok := provider.Service(in.ServiceID)
	if !ok {
		return models.ServiceOffering{}, in, &services.NotFoundError{Kind: "service", ID: in.ServiceID}
	}

	day, err := time.ParseInLocation(models.DateLayout, in.Date, s.location())
	if err != nil {
		return service, in, services.NewValidationError("date", "invalid date %q, expected YYYY-MM-DD", in.Date)
	}
	times, err := models.CanonicalTimeLabels(in.Times)
	if err != nil || !models.IsContiguous(times) {
		return service, in, services.NewValidationError("times", "times must be ordered, contiguous 30 minute labels")
	}
	in.Times = times

	open, _ := availability.DayLookup(provider.Availability, day)
	openSet := make(map[string]struct{}, len(open))
	for _, l := range open {
		openSet[l] = struct{}{}
	}
	for _, l := range in.Times {
		if _, ok := openSet[l]; !ok {
			return service, in, services.NewValidationError("times", "%s is outside the provider's availability for %s", l, models.WeekdayKey(day.Weekday()))
		}
	}

	start, err := models.SlotStart(in.Date, in.Times[0], s.location())
	if err != nil {
		return service, in, services.NewValidationError("times", "%v", err)
	}
	if start.Before(s.now().Add(s.LeadTime)) {
		return service, in, services.NewValidationError("times", "missions must start at least %s from now", s.LeadTime)
	}
	return service, in, nil
}

func (s *DefaultMissionService) provider(ctx context.Context, providerID string) (*models.Provider, error) {
	provider, err := s.Providers.GetByID(ctx, providerID)
	if err != nil {
		if errors.Is(err, providerRepo.ErrNotFound) {
			return nil, &services.NotFoundError{Kind: "provider", ID: providerID}
		}
		return nil, fmt.Errorf("failed to load provider: %w", err)
	}
	return provider, nil
}

// Validate runs every check Create would run before touching the store,
// including a read of the booked slots, so callers can reject a booking
// before charging for it. The returned input carries canonical labels.
// A slot taken between Validate and Create is still caught by the store.
func (s *DefaultMissionService) Validate(ctx context.Context, in CreateMissionInput) (CreateMissionInput, error) {
	provider, err := s.provider(ctx, in.ProviderID)
	if err != nil {
		return in, err
	}
	_, in, err = s.validateCreate(in, provider)
	if err != nil {
		return in, err
	}
	booked, err := s.Repo.BookedTimes(ctx, in.ProviderID, in.Date)
	if err != nil {
		return in, fmt.Errorf("failed to load booked slots: %w", err)
	}
	if models.Overlaps(booked, in.Times) {
		s.Metrics.ObserveConflict("precheck")
		return in, s.conflict(ctx, &models.Mission{ProviderID: in.ProviderID, Date: in.Date, Times: in.Times})
	}
	return in, nil
}

// Create records a paid-for booking as a pending mission. The store claims
// the slots atomically; when any is taken a *services.ConflictError with
// alternative starts of the same length is returned.
func (s *DefaultMissionService) Create(ctx context.Context, in CreateMissionInput) (*models.Mission, error) {
	provider, err := s.provider(ctx, in.ProviderID)
	if err != nil {
		return nil, err
	}
	service, in, err := s.validateCreate(in, provider)
	if err != nil {
		return nil, err
	}

	now := s.now()
	m := &models.Mission{
		ID:               uuid.New().String(),
		UserID:           in.CustomerID,
		ProviderID:       in.ProviderID,
		ServiceID:        in.ServiceID,
		ServiceName:      service.Name,
		Date:             in.Date,
		Times:            append([]string(nil), in.Times...),
		Price:            in.Price,
		ProviderPayout:   in.ProviderPayout,
		Currency:         in.Currency,
		Status:           models.StatusPending,
		PaymentRef:       in.PaymentRef,
		PayoutAccountRef: provider.StripeAccountID,
		AdminNotes:       []models.AdminNote{},
		History:          []models.StatusChange{{To: models.StatusPending, By: in.CustomerID, At: now}},
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.Repo.Create(ctx, m); err != nil {
		if errors.Is(err, missionRepo.ErrSlotTaken) {
			s.Metrics.ObserveConflict("create")
			return nil, s.conflict(ctx, m)
		}
		return nil, fmt.Errorf("failed to create mission: %w", err)
	}

	s.Logger.Info("Mission created",
		zap.String("missionID", m.ID),
		zap.String("customerID", m.UserID),
		zap.String("providerID", m.ProviderID),
		zap.String("date", m.Date),
		zap.Strings("times", m.Times),
		zap.String("paymentRef", m.PaymentRef))

	s.notify(ctx, notification.TemplateMissionBooked, m, models.RoleCustomer, models.RoleProvider)
	if s.Holds != nil {
		if err := s.Holds.ReleaseAllFor(ctx, m.UserID, m.ProviderID, m.Date); err != nil {
			s.Logger.Warn("Failed to release checkout holds", zap.String("missionID", m.ID), zap.Error(err))
		}
	}
	return m, nil
}

// conflict builds the error for a booking that lost its slots.
func (s *DefaultMissionService) conflict(ctx context.Context, m *models.Mission) error {
	cerr := &services.ConflictError{
		ProviderID:   m.ProviderID,
		Date:         m.Date,
		Times:        m.Times,
		Alternatives: []string{},
	}
	if s.Alternatives == nil {
		return cerr
	}
	alts, err := s.Alternatives.Alternatives(ctx, m.ProviderID, m.Date, len(m.Times))
	if err != nil {
		s.Logger.Warn("Failed to compute alternatives", zap.String("providerID", m.ProviderID), zap.Error(err))
		return cerr
	}
	if alts != nil {
		cerr.Alternatives = alts
	}
	return cerr
}

func (s *DefaultMissionService) load(ctx context.Context, missionID string) (*models.Mission, error) {
	m, err := s.Repo.GetByID(ctx, missionID)
	if err != nil {
		if errors.Is(err, missionRepo.ErrNotFound) {
			return nil, &services.NotFoundError{Kind: "mission", ID: missionID}
		}
		return nil, fmt.Errorf("failed to load mission: %w", err)
	}
	return m, nil
}

func isParticipant(m *models.Mission, actor models.Actor) bool {
	switch actor.Role {
	case models.RoleCustomer:
		return actor.ID == m.UserID
	case models.RoleProvider:
		return actor.ID == m.ProviderID
	default:
		return false
	}
}

// Get returns a mission to its customer, its provider or an admin.
func (s *DefaultMissionService) Get(ctx context.Context, missionID string, actor models.Actor) (*models.Mission, error) {
	m, err := s.load(ctx, missionID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && !isParticipant(m, actor) {
		// Hide the mission from strangers.
		return nil, &services.NotFoundError{Kind: "mission", ID: missionID}
	}
	return m, nil
}

// update applies a compare-and-set on m's current status.
func (s *DefaultMissionService) update(ctx context.Context, action string, m *models.Mission, mutate func(*models.Mission)) (*models.Mission, error) {
	updated, err := s.Repo.UpdateStatus(ctx, m.ID, m.Status, mutate)
	switch {
	case err == nil:
		return updated, nil
	case errors.Is(err, missionRepo.ErrStatusChanged):
		return nil, services.NewGuardError(action, "mission status changed concurrently, reload and retry")
	case errors.Is(err, missionRepo.ErrNotFound):
		return nil, &services.NotFoundError{Kind: "mission", ID: m.ID}
	default:
		return nil, fmt.Errorf("failed to update mission %s: %w", m.ID, err)
	}
}

// transition performs a normal lifecycle move and records it in history.
func (s *DefaultMissionService) transition(ctx context.Context, action string, m *models.Mission, to models.MissionStatus, actorID string, extra func(*models.Mission)) (*models.Mission, error) {
	from := m.Status
	if !canTransition(from, to) {
		return nil, services.NewGuardError(action, fmt.Sprintf("mission is %s", from))
	}
	at := s.now()
	updated, err := s.update(ctx, action, m, func(next *models.Mission) {
		next.Status = to
		next.History = append(next.History, models.StatusChange{From: from, To: to, By: actorID, At: at})
		if extra != nil {
			extra(next)
		}
	})
	if err != nil {
		return nil, err
	}

	s.Metrics.ObserveTransition(string(from), string(to), false)
	s.Logger.Info("Mission status changed",
		zap.String("missionID", m.ID),
		zap.String("from", string(from)),
		zap.String("to", string(to)),
		zap.String("by", actorID))
	return updated, nil
}

// Transition dispatches a named action.
func (s *DefaultMissionService) Transition(ctx context.Context, missionID, action string, actor models.Actor) (*models.Mission, error) {
	switch strings.ToLower(strings.TrimSpace(action)) {
	case ActionAccept:
		return s.Accept(ctx, missionID, actor)
	case ActionComplete:
		return s.MarkCompleteByCustomer(ctx, missionID, actor)
	case ActionCancel:
		return s.Cancel(ctx, missionID, actor)
	default:
		return nil, services.NewGuardError(action, "unknown action")
	}
}
