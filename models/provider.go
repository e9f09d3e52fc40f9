package models

import "time"

// SubserviceOffering is an add-on priced per hour (e.g. "ironing", "dog walk").
type SubserviceOffering struct {
	ID          string  `bson:"id" json:"id"`
	Name        string  `bson:"name" json:"name"`
	HourlyPrice float64 `bson:"hourlyPrice" json:"hourlyPrice"`
}

// ServiceOffering is a service a provider sells, priced per hour.
type ServiceOffering struct {
	ID          string               `bson:"id" json:"id"`
	Name        string               `bson:"name" json:"name"` // e.g. "Cleaning", "Childcare", "Pet care"
	HourlyPrice float64              `bson:"hourlyPrice" json:"hourlyPrice"`
	Subservices []SubserviceOffering `bson:"subservices,omitempty" json:"subservices,omitempty"`
}

// Subservice returns the named add-on, if offered.
func (s ServiceOffering) Subservice(id string) (SubserviceOffering, bool) {
	for _, sub := range s.Subservices {
		if sub.ID == id {
			return sub, true
		}
	}
	return SubserviceOffering{}, false
}

// Provider is the subset of a provider profile the booking engine reads.
type Provider struct {
	ID              string             `bson:"id" json:"id"`
	Name            string             `bson:"name" json:"name"`
	Services        []ServiceOffering  `bson:"services" json:"services"`
	Availability    WeeklyAvailability `bson:"availability" json:"availability"`
	StripeAccountID string             `bson:"stripeAccountID,omitempty" json:"stripeAccountID,omitempty"` // payout destination
	FCMToken        string             `bson:"fcmToken,omitempty" json:"-"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Service returns the named service, if offered.
func (p *Provider) Service(id string) (ServiceOffering, bool) {
	for _, s := range p.Services {
		if s.ID == id {
			return s, true
		}
	}
	return ServiceOffering{}, false
}
