package mission

import (
	"context"
	"errors"
	"fmt"

	"carebook/models"
	"carebook/services"
	"carebook/services/notification"

	"go.uber.org/zap"
)

// Accept moves a pending mission to assigned. Only the mission's provider
// may accept, and not while another of its assigned missions overlaps.
func (s *DefaultMissionService) Accept(ctx context.Context, missionID string, actor models.Actor) (*models.Mission, error) {
	m, err := s.load(ctx, missionID)
	if err != nil {
		return nil, err
	}
	if actor.Role != models.RoleProvider || actor.ID != m.ProviderID {
		return nil, services.NewForbiddenError(ActionAccept, "only the mission's provider can accept it")
	}
	if m.Status != models.StatusPending {
		return nil, services.NewGuardError(ActionAccept, fmt.Sprintf("mission is %s", m.Status))
	}

	others, err := s.Repo.ListActive(ctx, m.ProviderID, m.Date)
	if err != nil {
		return nil, fmt.Errorf("failed to load provider missions: %w", err)
	}
	for _, o := range others {
		if o.ID != m.ID && o.Status == models.StatusAssigned && models.Overlaps(o.Times, m.Times) {
			return nil, services.NewGuardError(ActionAccept, fmt.Sprintf("overlaps assigned mission %s", o.ID))
		}
	}

	updated, err := s.transition(ctx, ActionAccept, m, models.StatusAssigned, actor.ID, nil)
	if err != nil {
		return nil, err
	}
	s.notify(ctx, notification.TemplateMissionAssigned, updated, models.RoleCustomer)
	return updated, nil
}

// MarkCompleteByCustomer records completion and pays the provider out.
// Completion is committed before the payout call; if the payout fails the
// mission stays completed_by_customer and calling this again retries only
// the payout.
func (s *DefaultMissionService) MarkCompleteByCustomer(ctx context.Context, missionID string, actor models.Actor) (*models.Mission, error) {
	m, err := s.load(ctx, missionID)
	if err != nil {
		return nil, err
	}
	if actor.Role != models.RoleCustomer || actor.ID != m.UserID {
		return nil, services.NewForbiddenError(ActionComplete, "only the mission's customer can mark it complete")
	}

	switch m.Status {
	case models.StatusAssigned:
		m, err = s.transition(ctx, ActionComplete, m, models.StatusCompletedByCustomer, actor.ID, nil)
		if err != nil {
			return nil, err
		}
		s.notify(ctx, notification.TemplateMissionCompleted, m, models.RoleProvider)
	case models.StatusCompletedByCustomer:
		s.Logger.Info("Retrying payout", zap.String("missionID", m.ID))
	default:
		return nil, services.NewGuardError(ActionComplete, fmt.Sprintf("mission is %s", m.Status))
	}

	return s.payout(ctx, m)
}

// payout transfers the provider's share of a completed mission and marks it
// paid_out. The transfer is keyed by mission id, so repeating it is safe.
func (s *DefaultMissionService) payout(ctx context.Context, m *models.Mission) (*models.Mission, error) {
	if m.PayoutAccountRef == "" {
		s.Metrics.ObservePayout("failed")
		return nil, &services.ExternalCallError{Op: "payout transfer", Err: errors.New("provider has no payout account")}
	}

	transferRef, err := s.Payouts.Transfer(ctx, models.TransferRequest{
		Amount:      m.ProviderPayout,
		Currency:    m.Currency,
		Destination: m.PayoutAccountRef,
		MissionID:   m.ID,
		PaymentRef:  m.PaymentRef,
	})
	if err != nil {
		s.Metrics.ObservePayout("failed")
		s.Logger.Error("Payout failed, mission stays completed_by_customer",
			zap.String("missionID", m.ID),
			zap.String("providerID", m.ProviderID),
			zap.Error(err))
		s.notify(ctx, notification.TemplatePayoutFailed, m, models.RoleProvider)
		return nil, &services.ExternalCallError{Op: "payout transfer", Err: err}
	}
	s.Metrics.ObservePayout("succeeded")

	paid, err := s.transition(ctx, ActionComplete, m, models.StatusPaidOut, "payout", func(next *models.Mission) {
		next.TransferRef = transferRef
	})
	if err != nil {
		// A payout callback may have finalized the mission first.
		if current, lerr := s.load(ctx, m.ID); lerr == nil && current.Status == models.StatusPaidOut {
			return current, nil
		}
		s.Logger.Error("Payout sent but mission not marked paid_out",
			zap.String("missionID", m.ID),
			zap.String("transferRef", transferRef),
			zap.Error(err))
		return nil, err
	}
	s.notify(ctx, notification.TemplateMissionPaidOut, paid, models.RoleProvider)
	return paid, nil
}

// Finalize marks a completed mission paid_out when the payout gateway
// confirms a transfer asynchronously. Repeating a confirmation is a no-op.
func (s *DefaultMissionService) Finalize(ctx context.Context, missionID, transferRef string) (*models.Mission, error) {
	if transferRef == "" {
		return nil, services.NewValidationError("transferRef", "transfer reference is required")
	}
	m, err := s.load(ctx, missionID)
	if err != nil {
		return nil, err
	}
	if m.Status == models.StatusPaidOut && m.TransferRef == transferRef {
		return m, nil
	}
	if m.Status != models.StatusCompletedByCustomer {
		return nil, services.NewGuardError("finalize", fmt.Sprintf("mission is %s", m.Status))
	}

	paid, err := s.transition(ctx, "finalize", m, models.StatusPaidOut, "payout-callback", func(next *models.Mission) {
		next.TransferRef = transferRef
	})
	if err != nil {
		return nil, err
	}
	s.notify(ctx, notification.TemplateMissionPaidOut, paid, models.RoleProvider)
	return paid, nil
}

// Cancel frees the mission's slots. Customers and providers can cancel their
// own pending or assigned missions; admins can cancel any non-terminal one.
func (s *DefaultMissionService) Cancel(ctx context.Context, missionID string, actor models.Actor) (*models.Mission, error) {
	m, err := s.load(ctx, missionID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && !isParticipant(m, actor) {
		return nil, services.NewForbiddenError(ActionCancel, "only the mission's customer, provider or an admin can cancel it")
	}
	if m.Status == models.StatusCompletedByCustomer && !actor.IsAdmin() {
		return nil, services.NewGuardError(ActionCancel, "completed missions can only be cancelled by an admin")
	}

	cancelled, err := s.transition(ctx, ActionCancel, m, models.StatusCancelled, actor.ID, nil)
	if err != nil {
		return nil, err
	}
	s.notify(ctx, notification.TemplateMissionCancelled, cancelled, models.RoleCustomer, models.RoleProvider)
	return cancelled, nil
}
