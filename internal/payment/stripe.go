package payment

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"

	"resto-suite/internal/logger"
	"resto-suite/internal/models"
)

// StripeGateway drives checkout through the Stripe PaymentIntents API using
// each restaurant's own secret key.
type StripeGateway struct {
	Log *logger.Logger

	// newClient is swappable in tests.
	newClient func(secretKey string) *client.API
}

func NewStripeGateway(log *logger.Logger) *StripeGateway {
	return &StripeGateway{
		Log: log,
		newClient: func(secretKey string) *client.API {
			api := &client.API{}
			api.Init(secretKey, nil)
			return api
		},
	}
}

func (g *StripeGateway) ID() models.GatewayID {
	return models.GatewayStripe
}

// amountToCents converts a major-unit amount to provider minor units without
// float drift.
func amountToCents(amount float64) int64 {
	return decimal.NewFromFloat(amount).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

func (g *StripeGateway) CreateIntent(settings *models.PaymentSettings, req *models.CreateIntentRequest) (*models.CreateIntentResponse, error) {
	sc := g.newClient(settings.SecretKey)

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountToCents(req.Amount)),
		Currency: stripe.String(req.Currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.AddMetadata("order_id", req.OrderID)
	params.AddMetadata("restaurant_id", req.RestaurantID)

	intent, err := sc.PaymentIntents.New(params)
	if err != nil {
		g.Log.Error("PAYMENT", fmt.Sprintf("Failed to create Stripe payment intent: %v", err))
		return nil, classifyStripeError(err)
	}

	g.Log.Info("PAYMENT", fmt.Sprintf("Created payment intent %s for order %s (%s %0.2f)",
		intent.ID, req.OrderID, req.Currency, req.Amount))

	return &models.CreateIntentResponse{
		IntentID:     intent.ID,
		ClientSecret: intent.ClientSecret,
		Amount:       req.Amount,
		Currency:     req.Currency,
	}, nil
}

func (g *StripeGateway) Confirm(settings *models.PaymentSettings, req *models.ConfirmRequest) (*models.ConfirmResponse, error) {
	sc := g.newClient(settings.SecretKey)

	intent, err := sc.PaymentIntents.Confirm(req.IntentID, &stripe.PaymentIntentConfirmParams{
		PaymentMethod: stripe.String(req.PaymentMethodID),
	})
	if err != nil {
		classified := classifyStripeError(err)
		if errors.Is(classified, ErrCardDeclined) {
			g.Log.Warn("PAYMENT", fmt.Sprintf("Card declined for intent %s: %v", req.IntentID, err))
			return &models.ConfirmResponse{
				Success:  false,
				IntentID: req.IntentID,
				Error:    publicStripeMessage(err),
			}, nil
		}
		g.Log.Error("PAYMENT", fmt.Sprintf("Failed to confirm payment intent %s: %v", req.IntentID, err))
		return nil, classified
	}

	resp := &models.ConfirmResponse{
		IntentID: intent.ID,
		Amount:   float64(intent.Amount) / 100,
		Currency: string(intent.Currency),
	}

	switch intent.Status {
	case stripe.PaymentIntentStatusSucceeded:
		resp.Success = true
		g.Log.Info("PAYMENT", fmt.Sprintf("Payment intent %s succeeded", intent.ID))
	case stripe.PaymentIntentStatusRequiresAction:
		resp.RequiresAction = true
		resp.ClientSecret = intent.ClientSecret
		g.Log.Info("PAYMENT", fmt.Sprintf("Payment intent %s requires further customer action", intent.ID))
	default:
		resp.Error = fmt.Sprintf("payment not completed (status: %s)", intent.Status)
		g.Log.Warn("PAYMENT", fmt.Sprintf("Payment intent %s in unexpected status %s", intent.ID, intent.Status))
	}

	return resp, nil
}

// classifyStripeError maps provider errors onto the gateway error taxonomy.
// Card errors are customer-actionable; invalid request errors indicate a bad
// call from our side; everything else is treated as provider unavailability.
func classifyStripeError(err error) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		switch stripeErr.Type {
		case stripe.ErrorTypeCard:
			return fmt.Errorf("%w: %s", ErrCardDeclined, stripeErr.Msg)
		case stripe.ErrorTypeInvalidRequest:
			return fmt.Errorf("%w: %s", ErrInvalidPaymentRequest, stripeErr.Msg)
		default:
			return fmt.Errorf("%w: %s", ErrGatewayUnavailable, stripeErr.Msg)
		}
	}
	return fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
}

// publicStripeMessage extracts a customer-safe message from a provider error.
func publicStripeMessage(err error) string {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) && stripeErr.Msg != "" {
		return stripeErr.Msg
	}
	return "Your card was declined."
}
