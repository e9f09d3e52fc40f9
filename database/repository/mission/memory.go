package missionRepo

import (
	"context"
	"sort"
	"sync"
	"time"

	"carebook/models"
)

type slotKey struct {
	providerID string
	date       string
	time       string
}

// MemoryMissionRepo is a process-local MissionRepository. A single mutex
// guards missions and the slot ledger, so every operation is atomic.
type MemoryMissionRepo struct {
	mu       sync.Mutex
	missions map[string]*models.Mission
	ledger   map[slotKey]string
}

// NewMemoryMissionRepo returns an empty in-memory repository.
func NewMemoryMissionRepo() *MemoryMissionRepo {
	return &MemoryMissionRepo{
		missions: make(map[string]*models.Mission),
		ledger:   make(map[slotKey]string),
	}
}

func (r *MemoryMissionRepo) free(m *models.Mission) bool {
	for _, t := range m.Times {
		if owner, ok := r.ledger[slotKey{m.ProviderID, m.Date, t}]; ok && owner != m.ID {
			return false
		}
	}
	return true
}

func (r *MemoryMissionRepo) claim(m *models.Mission) {
	for _, t := range m.Times {
		r.ledger[slotKey{m.ProviderID, m.Date, t}] = m.ID
	}
}

func (r *MemoryMissionRepo) release(m *models.Mission) {
	for _, t := range m.Times {
		k := slotKey{m.ProviderID, m.Date, t}
		if r.ledger[k] == m.ID {
			delete(r.ledger, k)
		}
	}
}

func (r *MemoryMissionRepo) Create(_ context.Context, m *models.Mission) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if m.Status.HoldsSlot() {
		if !r.free(m) {
			return ErrSlotTaken
		}
		r.claim(m)
	}
	r.missions[m.ID] = cloneMission(m)
	return nil
}

func (r *MemoryMissionRepo) GetByID(_ context.Context, id string) (*models.Mission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.missions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneMission(m), nil
}

func (r *MemoryMissionRepo) UpdateStatus(
	_ context.Context,
	id string,
	expect models.MissionStatus,
	mutate func(*models.Mission),
) (*models.Mission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.missions[id]
	if !ok {
		return nil, ErrNotFound
	}
	if current.Status != expect {
		return nil, ErrStatusChanged
	}

	next := cloneMission(current)
	mutate(next)
	next.UpdatedAt = time.Now()

	switch {
	case current.Status.HoldsSlot() && !next.Status.HoldsSlot():
		r.release(current)
	case !current.Status.HoldsSlot() && next.Status.HoldsSlot():
		if !r.free(next) {
			return nil, ErrSlotTaken
		}
		r.claim(next)
	}

	r.missions[id] = next
	return cloneMission(next), nil
}

func (r *MemoryMissionRepo) BookedTimes(_ context.Context, providerID, date string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var times []string
	for k := range r.ledger {
		if k.providerID == providerID && k.date == date {
			times = append(times, k.time)
		}
	}
	models.SortTimeLabels(times)
	return times, nil
}

func (r *MemoryMissionRepo) ListActive(_ context.Context, providerID, date string) ([]models.Mission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.Mission
	for _, m := range r.missions {
		if m.ProviderID == providerID && m.Date == date && m.Status.HoldsSlot() {
			out = append(out, *cloneMission(m))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *MemoryMissionRepo) ScanActive(_ context.Context, fn func(models.Mission) error) error {
	r.mu.Lock()
	var snapshot []models.Mission
	for _, m := range r.missions {
		if m.Status.HoldsSlot() {
			snapshot = append(snapshot, *cloneMission(m))
		}
	}
	r.mu.Unlock()

	sort.Slice(snapshot, func(i, j int) bool {
		if snapshot[i].ProviderID != snapshot[j].ProviderID {
			return snapshot[i].ProviderID < snapshot[j].ProviderID
		}
		if snapshot[i].Date != snapshot[j].Date {
			return snapshot[i].Date < snapshot[j].Date
		}
		return snapshot[i].ID < snapshot[j].ID
	})
	for _, m := range snapshot {
		if err := fn(m); err != nil {
			return err
		}
	}
	return nil
}

// Insert stores a mission without touching the ledger. It exists so tests
// can seed inconsistent data for the integrity scan.
func (r *MemoryMissionRepo) Insert(m *models.Mission) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.missions[m.ID] = cloneMission(m)
}
