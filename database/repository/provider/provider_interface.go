package providerRepo

import (
	"context"
	"errors"

	"carebook/models"
)

// ErrNotFound is returned when a provider or customer profile does not exist.
var ErrNotFound = errors.New("profile not found")

// ProviderRepository is the engine's view of the profile store.
type ProviderRepository interface {
	// GetByID retrieves a provider by its unique ID.
	GetByID(ctx context.Context, id string) (*models.Provider, error)
	// UpdateAvailability replaces a provider's weekly availability pattern.
	UpdateAvailability(ctx context.Context, id string, weekly models.WeeklyAvailability) error
	// DeviceToken returns the push token of a customer or provider.
	DeviceToken(ctx context.Context, recipient models.Recipient) (string, error)
}
