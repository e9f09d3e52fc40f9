package models

// CaptureRequest asks the payment gateway to charge a customer.
type CaptureRequest struct {
	CustomerID      string
	PaymentMethodID string
	Amount          float64
	Currency        string
	Description     string
	IdempotencyKey  string
	Metadata        map[string]string
}

// TransferRequest asks the payout gateway to move a provider's share.
type TransferRequest struct {
	Amount      float64
	Currency    string
	Destination string // provider payout account
	MissionID   string
	PaymentRef  string // capture the transfer is funded from
}

// SubserviceSelection is an add-on chosen at checkout.
type SubserviceSelection struct {
	ID          string  `json:"id"`
	HourlyPrice float64 `json:"hourlyPrice"`
	Hours       float64 `json:"hours"`
}

// FeeSplit breaks a customer total into platform and provider shares.
type FeeSplit struct {
	CustomerTotal    float64 `json:"customerTotal"`
	ProviderSetPrice float64 `json:"providerSetPrice"`
	ProviderPayout   float64 `json:"providerPayout"`
	CustomerFee      float64 `json:"customerFee"`
	PlatformFee      float64 `json:"platformFee"`
}

// QuoteRequest asks for the price of a service selection.
type QuoteRequest struct {
	ProviderID  string                `json:"providerId" binding:"required"`
	ServiceID   string                `json:"serviceId" binding:"required"`
	Hours       float64               `json:"hours" binding:"required"`
	Subservices []SubserviceSelection `json:"subservices"`
}

// QuoteResponse is returned from the quote endpoint.
type QuoteResponse struct {
	Total float64  `json:"total"`
	Split FeeSplit `json:"split"`
}
