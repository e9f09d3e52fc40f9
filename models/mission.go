package models

import (
	"fmt"
	"time"
)

// MissionStatus is the lifecycle state of a mission.
type MissionStatus string

const (
	StatusPending             MissionStatus = "pending"
	StatusAssigned            MissionStatus = "assigned"
	StatusCompletedByCustomer MissionStatus = "completed_by_customer"
	StatusPaidOut             MissionStatus = "paid_out"
	StatusCancelled           MissionStatus = "cancelled"
)

// ParseMissionStatus rejects anything outside the closed set of statuses.
func ParseMissionStatus(s string) (MissionStatus, error) {
	switch MissionStatus(s) {
	case StatusPending, StatusAssigned, StatusCompletedByCustomer, StatusPaidOut, StatusCancelled:
		return MissionStatus(s), nil
	default:
		return "", fmt.Errorf("unknown mission status: %q", s)
	}
}

// Rank orders the forward path pending < assigned < completed_by_customer < paid_out.
// Cancelled has no rank and returns -1.
func (s MissionStatus) Rank() int {
	switch s {
	case StatusPending:
		return 0
	case StatusAssigned:
		return 1
	case StatusCompletedByCustomer:
		return 2
	case StatusPaidOut:
		return 3
	default:
		return -1
	}
}

// IsTerminal reports whether no normal transition leaves s.
func (s MissionStatus) IsTerminal() bool {
	return s == StatusPaidOut || s == StatusCancelled
}

// HoldsSlot reports whether a mission in status s occupies its time slots.
func (s MissionStatus) HoldsSlot() bool {
	return s != StatusCancelled
}

// AdminNote is the audit entry written by every admin status override.
type AdminNote struct {
	By   string        `bson:"by" json:"by"`
	At   time.Time     `bson:"at" json:"at"`
	Note string        `bson:"note" json:"note"`
	From MissionStatus `bson:"from" json:"from"`
	To   MissionStatus `bson:"to" json:"to"`
}

// StatusChange records one status move. Override marks admin overrides.
type StatusChange struct {
	From     MissionStatus `bson:"from" json:"from"`
	To       MissionStatus `bson:"to" json:"to"`
	By       string        `bson:"by" json:"by"`
	At       time.Time     `bson:"at" json:"at"`
	Override bool          `bson:"override" json:"override"`
}

// Mission is a confirmed booking between a customer and a provider.
type Mission struct {
	ID               string         `bson:"id" json:"id"`
	UserID           string         `bson:"userId" json:"userId"`         // customer
	ProviderID       string         `bson:"providerId" json:"providerId"` // provider booked
	ServiceID        string         `bson:"serviceId,omitempty" json:"serviceId,omitempty"`
	ServiceName      string         `bson:"serviceName" json:"serviceName"`
	Date             string         `bson:"date" json:"date"`   // "2006-01-02"
	Times            []string       `bson:"times" json:"times"` // ordered, contiguous "HH:MM" labels
	Price            float64        `bson:"price" json:"price"` // customer-paid total
	ProviderPayout   float64        `bson:"providerPayout" json:"providerPayout"`
	Currency         string         `bson:"currency" json:"currency"`
	Status           MissionStatus  `bson:"status" json:"status"`
	PaymentRef       string         `bson:"paymentRef" json:"paymentRef"`
	PayoutAccountRef string         `bson:"payoutAccountRef" json:"payoutAccountRef"`
	TransferRef      string         `bson:"transferRef,omitempty" json:"transferRef,omitempty"`
	AdminNotes       []AdminNote    `bson:"adminNotes" json:"adminNotes"`
	History          []StatusChange `bson:"history" json:"history"`
	CreatedAt        time.Time      `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time      `bson:"updatedAt" json:"updatedAt"`
}

// StartsAt resolves the mission's first slot in loc.
func (m *Mission) StartsAt(loc *time.Location) (time.Time, error) {
	if len(m.Times) == 0 {
		return time.Time{}, fmt.Errorf("mission %s has no times", m.ID)
	}
	return SlotStart(m.Date, m.Times[0], loc)
}

// SlotStart combines a date and a time label into an absolute instant.
func SlotStart(date, label string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	day, err := time.ParseInLocation(DateLayout, date, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", date, err)
	}
	mins, err := ParseTimeLabel(label)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(), mins/60, mins%60, 0, 0, loc), nil
}
