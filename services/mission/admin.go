package mission

import (
	"context"
	"errors"
	"strings"

	missionRepo "carebook/database/repository/mission"
	"carebook/models"
	"carebook/services"
	"carebook/services/notification"

	"go.uber.org/zap"
)

// AdminSetStatus overwrites a mission's status regardless of the lifecycle
// and records the override in adminNotes and history. Moving a cancelled
// mission back to an active status re-claims its slots and fails with a
// *services.ConflictError when they were booked meanwhile.
func (s *DefaultMissionService) AdminSetStatus(ctx context.Context, missionID string, status models.MissionStatus, note string, admin models.Actor) (*models.Mission, error) {
	const action = "admin override"
	if !admin.IsAdmin() {
		return nil, services.NewForbiddenError(action, "admin role required")
	}
	note = strings.TrimSpace(note)
	if note == "" {
		return nil, services.NewGuardError(action, "an audit note is required")
	}
	to, err := models.ParseMissionStatus(string(status))
	if err != nil {
		return nil, services.NewValidationError("status", "%v", err)
	}

	m, err := s.load(ctx, missionID)
	if err != nil {
		return nil, err
	}
	from := m.Status
	at := s.now()

	updated, err := s.Repo.UpdateStatus(ctx, m.ID, from, func(next *models.Mission) {
		next.Status = to
		next.AdminNotes = append(next.AdminNotes, models.AdminNote{By: admin.ID, At: at, Note: note, From: from, To: to})
		next.History = append(next.History, models.StatusChange{From: from, To: to, By: admin.ID, At: at, Override: true})
	})
	if err != nil {
		switch {
		case errors.Is(err, missionRepo.ErrSlotTaken):
			s.Metrics.ObserveConflict("override")
			return nil, s.conflict(ctx, m)
		case errors.Is(err, missionRepo.ErrStatusChanged):
			return nil, services.NewGuardError(action, "mission status changed concurrently, reload and retry")
		case errors.Is(err, missionRepo.ErrNotFound):
			return nil, &services.NotFoundError{Kind: "mission", ID: missionID}
		default:
			return nil, err
		}
	}

	s.Metrics.ObserveTransition(string(from), string(to), true)
	s.Logger.Warn("Mission status overridden by admin",
		zap.String("missionID", m.ID),
		zap.String("from", string(from)),
		zap.String("to", string(to)),
		zap.String("admin", admin.ID),
		zap.String("note", note))
	s.notify(ctx, notification.TemplateStatusOverridden, updated, models.RoleCustomer, models.RoleProvider)
	return updated, nil
}
