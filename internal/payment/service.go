package payment

import (
	"fmt"

	"resto-suite/internal/logger"
	"resto-suite/internal/models"
)

// DBLayer is the persistence surface the checkout flow needs.
type DBLayer interface {
	GetRestaurantByID(id string) (*models.Restaurant, error)
	GetPaymentSettings(restaurantID string, gateway models.GatewayID) (*models.PaymentSettings, error)
}

type Service struct {
	DB       DBLayer
	Gateways *Registry
	Log      *logger.Logger
}

func NewService(db DBLayer, gateways *Registry, log *logger.Logger) *Service {
	return &Service{DB: db, Gateways: gateways, Log: log}
}

// loadGateway resolves the gateway implementation and the restaurant's
// settings for it, enforcing the enabled + setup-complete gate.
func (s *Service) loadGateway(restaurantID string, id models.GatewayID) (Gateway, *models.PaymentSettings, error) {
	gateway, ok := s.Gateways.Get(id)
	if !ok {
		return nil, nil, fmt.Errorf("%w: unknown gateway %q", ErrGatewayNotConfigured, id)
	}

	settings, err := s.DB.GetPaymentSettings(restaurantID, id)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load payment settings: %w", err)
	}
	if settings == nil || !settings.Enabled || !settings.SetupComplete {
		s.Log.Warn("PAYMENT", fmt.Sprintf("Gateway %s not configured for restaurant %s", id, restaurantID))
		return nil, nil, ErrGatewayNotConfigured
	}

	return gateway, settings, nil
}

// CreateIntent starts a checkout for an order. The currency falls back to the
// restaurant's configured currency when the request leaves it empty.
func (s *Service) CreateIntent(req *models.CreateIntentRequest) (*models.CreateIntentResponse, error) {
	if !req.Gateway.Valid() {
		return nil, fmt.Errorf("%w: unknown gateway %q", ErrGatewayNotConfigured, req.Gateway)
	}

	if req.Currency == "" {
		restaurant, err := s.DB.GetRestaurantByID(req.RestaurantID)
		if err != nil {
			return nil, fmt.Errorf("failed to load restaurant: %w", err)
		}
		if restaurant == nil {
			return nil, fmt.Errorf("%w: restaurant %s not found", ErrGatewayNotConfigured, req.RestaurantID)
		}
		req.Currency = restaurant.CurrencyCode
	}

	gateway, settings, err := s.loadGateway(req.RestaurantID, req.Gateway)
	if err != nil {
		return nil, err
	}

	return gateway.CreateIntent(settings, req)
}

// ConfirmStripe finalizes a Stripe checkout with a tokenized payment method.
func (s *Service) ConfirmStripe(req *models.ConfirmRequest) (*models.ConfirmResponse, error) {
	gateway, settings, err := s.loadGateway(req.RestaurantID, models.GatewayStripe)
	if err != nil {
		return nil, err
	}

	return gateway.Confirm(settings, req)
}
