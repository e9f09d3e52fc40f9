package pricing

import (
	"math"

	"carebook/models"
	"carebook/services"
)

// Total returns what the customer pays before any rounding:
// serviceHourlyPrice*hours plus each add-on's hourly price times its hours.
func Total(serviceHourlyPrice, hours float64, subservices []models.SubserviceSelection) (float64, error) {
	if serviceHourlyPrice < 0 {
		return 0, services.NewValidationError("hourlyPrice", "must not be negative")
	}
	if hours < 0 {
		return 0, services.NewValidationError("hours", "must not be negative")
	}
	total := serviceHourlyPrice * hours
	for _, sub := range subservices {
		if sub.HourlyPrice < 0 || sub.Hours < 0 {
			return 0, services.NewValidationError("subservices", "subservice %s has a negative price or duration", sub.ID)
		}
		total += sub.HourlyPrice * sub.Hours
	}
	return total, nil
}

// Split derives the provider's set price and payout from a customer total.
// The customer fee sits on top of the set price; the platform fee comes out
// of it.
func Split(customerTotal, customerFeeRate, platformFeeRate float64) (models.FeeSplit, error) {
	if customerTotal < 0 {
		return models.FeeSplit{}, services.NewValidationError("total", "must not be negative")
	}
	if customerFeeRate < 0 || platformFeeRate < 0 || platformFeeRate > 1 {
		return models.FeeSplit{}, services.NewValidationError("feeRate", "fee rates out of range")
	}
	setPrice := customerTotal / (1 + customerFeeRate)
	payout := setPrice * (1 - platformFeeRate)
	return models.FeeSplit{
		CustomerTotal:    customerTotal,
		ProviderSetPrice: setPrice,
		ProviderPayout:   payout,
		CustomerFee:      customerTotal - setPrice,
		PlatformFee:      setPrice - payout,
	}, nil
}

// RoundCurrency rounds half away from zero to two decimals.
func RoundCurrency(x float64) float64 {
	return math.Round(x*100) / 100
}

// ToMinorUnits converts an amount to cents for the payment gateway.
func ToMinorUnits(x float64) int64 {
	return int64(math.Round(x * 100))
}

// Calculator binds fee rates read from configuration.
type Calculator struct {
	CustomerFeeRate float64
	PlatformFeeRate float64
}

// Quote prices a service selection for hours and splits the total.
func (c Calculator) Quote(service models.ServiceOffering, hours float64, subservices []models.SubserviceSelection) (models.QuoteResponse, error) {
	total, err := Total(service.HourlyPrice, hours, subservices)
	if err != nil {
		return models.QuoteResponse{}, err
	}
	split, err := Split(total, c.CustomerFeeRate, c.PlatformFeeRate)
	if err != nil {
		return models.QuoteResponse{}, err
	}
	return models.QuoteResponse{Total: total, Split: split}, nil
}

// ResolveSubservices prices the requested add-ons from the provider's own
// catalogue, so a client cannot choose its own price. Hours default to the
// booking length when not given.
func ResolveSubservices(service models.ServiceOffering, requested []models.SubserviceSelection, hours float64) ([]models.SubserviceSelection, error) {
	resolved := make([]models.SubserviceSelection, 0, len(requested))
	for _, r := range requested {
		offer, ok := service.Subservice(r.ID)
		if !ok {
			return nil, services.NewValidationError("subservices", "subservice %s is not offered", r.ID)
		}
		h := r.Hours
		if h == 0 {
			h = hours
		}
		resolved = append(resolved, models.SubserviceSelection{ID: r.ID, HourlyPrice: offer.HourlyPrice, Hours: h})
	}
	return resolved, nil
}
