package models

import "time"

// Hold is a customer's provisional, advisory reservation of a block while
// checkout is in progress.
type Hold struct {
	ID         string    `json:"id"`
	CustomerID string    `json:"customerId"`
	ProviderID string    `json:"providerId"`
	ServiceID  string    `json:"serviceId"`
	Date       string    `json:"date"`
	Times      []string  `json:"times"`
	CreatedAt  time.Time `json:"createdAt"`
	ExpiresAt  time.Time `json:"expiresAt"`
}

// Expired reports whether the hold no longer counts at now.
func (h *Hold) Expired(now time.Time) bool {
	return !h.ExpiresAt.IsZero() && !now.Before(h.ExpiresAt)
}

// PlaceHoldRequest is the payload for placing a hold.
type PlaceHoldRequest struct {
	ProviderID string   `json:"providerId" binding:"required"`
	ServiceID  string   `json:"serviceId"`
	Date       string   `json:"date" binding:"required"`
	Times      []string `json:"times" binding:"required,min=1"`
}
