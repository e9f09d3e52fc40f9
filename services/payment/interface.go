package payment

import (
	"context"

	"carebook/models"
)

// PaymentCapturer charges the customer at checkout and returns the payment
// reference the mission is funded from.
type PaymentCapturer interface {
	Capture(ctx context.Context, req models.CaptureRequest) (string, error)
}

// PayoutTransferer moves a provider's share to its payout account and
// returns the transfer reference. Implementations must be idempotent per
// mission.
type PayoutTransferer interface {
	Transfer(ctx context.Context, req models.TransferRequest) (string, error)
}

// PayoutIdempotencyKey is the key every payout attempt for a mission carries,
// so a retried transfer is never executed twice.
func PayoutIdempotencyKey(missionID string) string {
	return "payout-" + missionID
}
