package payment

import (
	"errors"

	"resto-suite/internal/models"
)

var (
	// ErrGatewayNotConfigured means the restaurant has not enabled and
	// completed setup for the requested gateway.
	ErrGatewayNotConfigured = errors.New("payment gateway is not configured for this restaurant")

	// ErrCardDeclined covers card errors the customer can act on.
	ErrCardDeclined = errors.New("card was declined")

	// ErrInvalidPaymentRequest covers malformed calls to the provider, such
	// as referencing an unknown intent.
	ErrInvalidPaymentRequest = errors.New("invalid payment request")

	// ErrGatewayUnavailable covers upstream provider failures.
	ErrGatewayUnavailable = errors.New("payment provider is unavailable")
)

// Gateway is one payment provider integration. Implementations receive the
// restaurant's own credentials on every call; there is no global API key.
type Gateway interface {
	ID() models.GatewayID
	CreateIntent(settings *models.PaymentSettings, req *models.CreateIntentRequest) (*models.CreateIntentResponse, error)
	Confirm(settings *models.PaymentSettings, req *models.ConfirmRequest) (*models.ConfirmResponse, error)
}

// Registry holds the available gateway implementations keyed by id.
type Registry struct {
	gateways map[models.GatewayID]Gateway
}

func NewRegistry(gateways ...Gateway) *Registry {
	r := &Registry{gateways: make(map[models.GatewayID]Gateway)}
	for _, g := range gateways {
		r.gateways[g.ID()] = g
	}
	return r
}

func (r *Registry) Get(id models.GatewayID) (Gateway, bool) {
	g, ok := r.gateways[id]
	return g, ok
}
