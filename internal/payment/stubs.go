package payment

import (
	"fmt"

	"resto-suite/internal/models"
)

// PayPalGateway is registered so restaurants can store PayPal settings ahead
// of the integration landing. All checkout calls are rejected.
type PayPalGateway struct{}

func (g *PayPalGateway) ID() models.GatewayID {
	return models.GatewayPayPal
}

func (g *PayPalGateway) CreateIntent(_ *models.PaymentSettings, _ *models.CreateIntentRequest) (*models.CreateIntentResponse, error) {
	return nil, fmt.Errorf("%w: paypal checkout is not yet supported", ErrGatewayNotConfigured)
}

func (g *PayPalGateway) Confirm(_ *models.PaymentSettings, _ *models.ConfirmRequest) (*models.ConfirmResponse, error) {
	return nil, fmt.Errorf("%w: paypal checkout is not yet supported", ErrGatewayNotConfigured)
}

// ApplePayGateway mirrors PayPalGateway until the native integration exists.
// Apple Pay cards tokenized through Stripe already work via StripeGateway.
type ApplePayGateway struct{}

func (g *ApplePayGateway) ID() models.GatewayID {
	return models.GatewayApplePay
}

func (g *ApplePayGateway) CreateIntent(_ *models.PaymentSettings, _ *models.CreateIntentRequest) (*models.CreateIntentResponse, error) {
	return nil, fmt.Errorf("%w: apple pay checkout is not yet supported", ErrGatewayNotConfigured)
}

func (g *ApplePayGateway) Confirm(_ *models.PaymentSettings, _ *models.ConfirmRequest) (*models.ConfirmResponse, error) {
	return nil, fmt.Errorf("%w: apple pay checkout is not yet supported", ErrGatewayNotConfigured)
}
