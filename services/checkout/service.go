package checkout

import (
	"context"
	"errors"
	"fmt"

	providerRepo "carebook/database/repository/provider"
	"carebook/models"
	"carebook/services"
	"carebook/services/mission"
	"carebook/services/payment"
	"carebook/services/pricing"

	"go.uber.org/zap"
)

// CheckoutService prices a selection, captures payment and records the
// mission.
type CheckoutService interface {
	Quote(ctx context.Context, req models.QuoteRequest) (*models.QuoteResponse, error)
	Checkout(ctx context.Context, customer models.Actor, req models.CreateMissionRequest) (*models.Mission, error)
}

type DefaultCheckoutService struct {
	Providers providerRepo.ProviderRepository
	Pricing   pricing.Calculator
	Payments  payment.PaymentCapturer
	Missions  mission.MissionService
	Currency  string
	Logger    *zap.Logger
}

func (s *DefaultCheckoutService) service(ctx context.Context, providerID, serviceID string) (models.ServiceOffering, error) {
	p, err := s.Providers.GetByID(ctx, providerID)
	if err != nil {
		if errors.Is(err, providerRepo.ErrNotFound) {
			return models.ServiceOffering{}, &services.NotFoundError{Kind: "provider", ID: providerID}
		}
		return models.ServiceOffering{}, fmt.Errorf("failed to load provider: %w", err)
	}
	svc, ok := p.Service(serviceID)
	if !ok {
		return models.ServiceOffering{}, &services.NotFoundError{Kind: "service", ID: serviceID}
	}
	return svc, nil
}

func (s *DefaultCheckoutService) quote(ctx context.Context, providerID, serviceID string, hours float64, subs []models.SubserviceSelection) (*models.QuoteResponse, error) {
	svc, err := s.service(ctx, providerID, serviceID)
	if err != nil {
		return nil, err
	}
	resolved, err := pricing.ResolveSubservices(svc, subs, hours)
	if err != nil {
		return nil, err
	}
	q, err := s.Pricing.Quote(svc, hours, resolved)
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (s *DefaultCheckoutService) Quote(ctx context.Context, req models.QuoteRequest) (*models.QuoteResponse, error) {
	return s.quote(ctx, req.ProviderID, req.ServiceID, req.Hours, req.Subservices)
}

// Checkout charges the customer for the selected block and creates the
// mission. Everything Create checks is validated before the charge so a
// deterministic rejection never takes money; the store's claim stays the
// authoritative slot check.
func (s *DefaultCheckoutService) Checkout(ctx context.Context, customer models.Actor, req models.CreateMissionRequest) (*models.Mission, error) {
	if customer.Role != models.RoleCustomer {
		return nil, services.NewForbiddenError("checkout", "only customers can book missions")
	}
	if len(req.Times) == 0 {
		return nil, services.NewValidationError("times", "times must be ordered, contiguous 30 minute labels")
	}
	hours := float64(len(req.Times)*models.SlotMinutes) / 60

	q, err := s.quote(ctx, req.ProviderID, req.ServiceID, hours, req.Subservices)
	if err != nil {
		return nil, err
	}

	in, err := s.Missions.Validate(ctx, mission.CreateMissionInput{
		CustomerID:     customer.ID,
		ProviderID:     req.ProviderID,
		ServiceID:      req.ServiceID,
		Date:           req.Date,
		Times:          req.Times,
		Price:          q.Total,
		ProviderPayout: q.Split.ProviderPayout,
		Currency:       s.Currency,
	})
	if err != nil {
		return nil, err
	}

	capture := models.CaptureRequest{
		CustomerID:      customer.ID,
		PaymentMethodID: req.PaymentMethodID,
		Amount:          pricing.RoundCurrency(q.Total),
		Currency:        s.Currency,
		Description:     fmt.Sprintf("Booking %s on %s at %s", in.ServiceID, in.Date, in.Times[0]),
		Metadata:        map[string]string{"providerId": in.ProviderID, "date": in.Date},
	}
	if req.HoldID != "" {
		capture.IdempotencyKey = "checkout-" + req.HoldID
	}
	paymentRef, err := s.Payments.Capture(ctx, capture)
	if err != nil {
		return nil, &services.ExternalCallError{Op: "payment capture", Err: err}
	}

	in.PaymentRef = paymentRef
	m, err := s.Missions.Create(ctx, in)
	if err != nil {
		// Lost a race for the slots after capture; refunds are handled outside.
		s.Logger.Error("Payment captured without a mission",
			zap.String("paymentRef", paymentRef),
			zap.String("customerID", customer.ID),
			zap.String("providerID", req.ProviderID),
			zap.Error(err))
		return nil, err
	}
	return m, nil
}
