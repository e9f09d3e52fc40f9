package models

import "time"

// Recipient roles.
const (
	RoleCustomer = "customer"
	RoleProvider = "provider"
	RoleAdmin    = "admin"
)

// Recipient identifies who a notification goes to.
type Recipient struct {
	Role string `json:"role"`
	ID   string `json:"id"`
}

// Notification is the payload queued for delivery.
type Notification struct {
	Recipient Recipient         `json:"recipient"`
	Template  string            `json:"template"` // e.g. "mission_booked"
	Data      map[string]string `json:"data"`
	CreatedAt time.Time         `json:"createdAt"`
}
