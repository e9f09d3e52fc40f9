package notification

import (
	"context"

	"carebook/models"
)

// Templates sent by the mission lifecycle.
const (
	TemplateMissionBooked    = "mission_booked"
	TemplateMissionAssigned  = "mission_assigned"
	TemplateMissionCompleted = "mission_completed"
	TemplateMissionPaidOut   = "mission_paid_out"
	TemplateMissionCancelled = "mission_cancelled"
	TemplateStatusOverridden = "mission_status_overridden"
	TemplatePayoutFailed     = "payout_failed"
)

// Notifier hands a notification off for delivery. It never blocks the
// caller on delivery and never fails it: problems are logged.
type Notifier interface {
	Notify(ctx context.Context, n models.Notification)
}

// Sender delivers one notification synchronously.
type Sender interface {
	Send(ctx context.Context, n models.Notification) error
}

// TokenLookup resolves a recipient's push token.
type TokenLookup interface {
	DeviceToken(ctx context.Context, recipient models.Recipient) (string, error)
}
