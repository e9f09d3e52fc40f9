package providerRepo

import (
	"context"
	"sync"
	"time"

	"carebook/models"
)

// MemoryProviderRepo is a process-local ProviderRepository.
type MemoryProviderRepo struct {
	mu        sync.RWMutex
	providers map[string]models.Provider
	customers map[string]models.Customer
}

func NewMemoryProviderRepo() *MemoryProviderRepo {
	return &MemoryProviderRepo{
		providers: make(map[string]models.Provider),
		customers: make(map[string]models.Customer),
	}
}

// PutProvider stores or replaces a provider profile.
func (r *MemoryProviderRepo) PutProvider(p models.Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[p.ID] = p
}

// PutCustomer stores or replaces a customer profile.
func (r *MemoryProviderRepo) PutCustomer(c models.Customer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.customers[c.ID] = c
}

func (r *MemoryProviderRepo) GetByID(_ context.Context, id string) (*models.Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.providers[id]
	if !ok {
		return nil, ErrNotFound
	}
	p.Availability = append(models.WeeklyAvailability(nil), p.Availability...)
	return &p, nil
}

func (r *MemoryProviderRepo) UpdateAvailability(_ context.Context, id string, weekly models.WeeklyAvailability) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.providers[id]
	if !ok {
		return ErrNotFound
	}
	p.Availability = weekly
	p.UpdatedAt = time.Now()
	r.providers[id] = p
	return nil
}

func (r *MemoryProviderRepo) DeviceToken(_ context.Context, recipient models.Recipient) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if recipient.Role == models.RoleProvider {
		p, ok := r.providers[recipient.ID]
		if !ok {
			return "", ErrNotFound
		}
		return p.FCMToken, nil
	}
	c, ok := r.customers[recipient.ID]
	if !ok {
		return "", ErrNotFound
	}
	return c.FCMToken, nil
}
