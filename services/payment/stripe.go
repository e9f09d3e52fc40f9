package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"carebook/models"
	"carebook/services/pricing"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"github.com/stripe/stripe-go/v76/transfer"
	"go.uber.org/zap"
)

// StripeGateway captures payments with confirmed PaymentIntents and pays
// providers out with Connect transfers. stripe.Key must be set.
type StripeGateway struct {
	logger   *zap.Logger
	currency string
}

func NewStripeGateway(logger *zap.Logger, currency string) *StripeGateway {
	return &StripeGateway{logger: logger, currency: strings.ToLower(currency)}
}

func (g *StripeGateway) currencyOr(c string) string {
	if c != "" {
		return strings.ToLower(c)
	}
	return g.currency
}

func (g *StripeGateway) Capture(ctx context.Context, req models.CaptureRequest) (string, error) {
	if err := validateCapture(req); err != nil {
		return "", fmt.Errorf("invalid payment request: %w", err)
	}

	params := &stripe.PaymentIntentParams{
		Amount:        stripe.Int64(pricing.ToMinorUnits(req.Amount)),
		Currency:      stripe.String(g.currencyOr(req.Currency)),
		PaymentMethod: stripe.String(req.PaymentMethodID),
		Confirm:       stripe.Bool(true),
		Description:   stripe.String(req.Description),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled:        stripe.Bool(true),
			AllowRedirects: stripe.String("never"),
		},
	}
	params.Context = ctx
	params.AddMetadata("customerId", req.CustomerID)
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}
	if req.IdempotencyKey != "" {
		params.SetIdempotencyKey(req.IdempotencyKey)
	}

	pi, err := paymentintent.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe payment intent: %w", err)
	}
	if pi.Status != stripe.PaymentIntentStatusSucceeded {
		return "", fmt.Errorf("payment %s not completed: status %s", pi.ID, pi.Status)
	}

	g.logger.Info("Card payment captured",
		zap.String("paymentRef", pi.ID),
		zap.String("customerID", req.CustomerID),
		zap.Float64("amount", req.Amount))
	return pi.ID, nil
}

// sourceCharge resolves the charge a transfer is funded from. Payment
// references are PaymentIntent ids; legacy records may carry a charge id.
func (g *StripeGateway) sourceCharge(ctx context.Context, paymentRef string) (string, error) {
	if paymentRef == "" || strings.HasPrefix(paymentRef, "ch_") {
		return paymentRef, nil
	}
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx
	pi, err := paymentintent.Get(paymentRef, params)
	if err != nil {
		return "", fmt.Errorf("stripe payment intent lookup: %w", err)
	}
	if pi.LatestCharge == nil {
		return "", fmt.Errorf("payment %s has no charge", paymentRef)
	}
	return pi.LatestCharge.ID, nil
}

func (g *StripeGateway) Transfer(ctx context.Context, req models.TransferRequest) (string, error) {
	if err := validateTransfer(req); err != nil {
		return "", fmt.Errorf("invalid transfer request: %w", err)
	}

	source, err := g.sourceCharge(ctx, req.PaymentRef)
	if err != nil {
		return "", err
	}

	params := &stripe.TransferParams{
		Amount:        stripe.Int64(pricing.ToMinorUnits(req.Amount)),
		Currency:      stripe.String(g.currencyOr(req.Currency)),
		Destination:   stripe.String(req.Destination),
		TransferGroup: stripe.String(req.MissionID),
	}
	if source != "" {
		params.SourceTransaction = stripe.String(source)
	}
	params.Context = ctx
	params.AddMetadata("missionId", req.MissionID)
	params.SetIdempotencyKey(PayoutIdempotencyKey(req.MissionID))

	tr, err := transfer.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe transfer: %w", err)
	}

	g.logger.Info("Provider payout transferred",
		zap.String("missionID", req.MissionID),
		zap.String("transferRef", tr.ID),
		zap.Float64("amount", req.Amount))
	return tr.ID, nil
}

func validateCapture(req models.CaptureRequest) error {
	if req.Amount <= 0 {
		return errors.New("invalid payment amount")
	}
	if req.CustomerID == "" {
		return errors.New("missing customer ID")
	}
	if req.PaymentMethodID == "" {
		return errors.New("missing payment method")
	}
	return nil
}

func validateTransfer(req models.TransferRequest) error {
	if req.Amount <= 0 {
		return errors.New("invalid payout amount")
	}
	if req.Destination == "" {
		return errors.New("missing payout account")
	}
	if req.MissionID == "" {
		return errors.New("missing mission ID")
	}
	return nil
}
