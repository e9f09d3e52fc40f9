package holdRepo

import (
	"context"
	"errors"
	"time"

	"carebook/models"
)

// ErrNotFound is returned when a hold does not exist or has expired.
var ErrNotFound = errors.New("hold not found")

// HoldRepository stores checkout holds. Holds are soft state: a store only
// has to give read-after-write consistency per provider and date.
type HoldRepository interface {
	// Save stores the hold until its ExpiresAt.
	Save(ctx context.Context, hold *models.Hold) error
	// Get loads a hold by id.
	Get(ctx context.Context, id string) (*models.Hold, error)
	// Delete removes a hold.
	Delete(ctx context.Context, hold *models.Hold) error
	// ListActive returns the holds for provider and date that have not expired at now.
	ListActive(ctx context.Context, providerID, date string, now time.Time) ([]models.Hold, error)
}
