package missionRepo

import (
	"context"
	"errors"

	"carebook/models"
)

var (
	// ErrNotFound is returned when no mission has the requested id.
	ErrNotFound = errors.New("mission not found")
	// ErrSlotTaken is returned when a slot is already claimed by a
	// non-cancelled mission of the same provider and date.
	ErrSlotTaken = errors.New("slot already booked")
	// ErrStatusChanged is returned when a compare-and-set on status loses a race.
	ErrStatusChanged = errors.New("mission status changed concurrently")
)

// MissionRepository persists missions and the slot ledger derived from them.
// Implementations must make Create and slot-affecting UpdateStatus calls
// atomic: the ledger and the mission document change together or not at all.
type MissionRepository interface {
	// Create inserts the mission and claims every one of its slots.
	// It fails with ErrSlotTaken when any slot is already claimed.
	Create(ctx context.Context, mission *models.Mission) error
	// GetByID loads a mission.
	GetByID(ctx context.Context, id string) (*models.Mission, error)
	// UpdateStatus applies mutate when the stored status still equals expect.
	// Moving into cancelled releases the mission's slots; moving out of
	// cancelled claims them again and may fail with ErrSlotTaken.
	UpdateStatus(ctx context.Context, id string, expect models.MissionStatus, mutate func(*models.Mission)) (*models.Mission, error)
	// BookedTimes returns the union of slot labels claimed for provider and date.
	BookedTimes(ctx context.Context, providerID, date string) ([]string, error)
	// ListActive returns non-cancelled missions for provider and date.
	ListActive(ctx context.Context, providerID, date string) ([]models.Mission, error)
	// ScanActive calls fn for every non-cancelled mission.
	ScanActive(ctx context.Context, fn func(models.Mission) error) error
}

// cloneMission returns a copy that shares no slices with m.
func cloneMission(m *models.Mission) *models.Mission {
	c := *m
	c.Times = append([]string(nil), m.Times...)
	c.AdminNotes = append([]models.AdminNote(nil), m.AdminNotes...)
	c.History = append([]models.StatusChange(nil), m.History...)
	return &c
}
