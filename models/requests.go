package models

// CreateMissionRequest is the checkout payload: a held block plus payment.
type CreateMissionRequest struct {
	ProviderID      string                `json:"providerId" binding:"required"`
	ServiceID       string                `json:"serviceId" binding:"required"`
	Date            string                `json:"date" binding:"required"`
	Times           []string              `json:"times" binding:"required,min=1"`
	Subservices     []SubserviceSelection `json:"subservices"`
	PaymentMethodID string                `json:"paymentMethodId" binding:"required"`
	HoldID          string                `json:"holdId"`
}

// AvailabilityResponse lists the bookable blocks for a provider and date.
type AvailabilityResponse struct {
	ProviderID string   `json:"providerId"`
	Date       string   `json:"date"`
	Hours      float64  `json:"hours"`
	Starts     []string `json:"starts"`
	Blocks     []Block  `json:"blocks"`
}
