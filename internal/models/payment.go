package models

import "github.com/uptrace/bun"

// GatewayID identifies a payment gateway variant. Dispatch is by this typed
// enum rather than raw strings.
type GatewayID string

const (
	GatewayStripe   GatewayID = "stripe"
	GatewayPayPal   GatewayID = "paypal"
	GatewayApplePay GatewayID = "apple_pay"
)

func (g GatewayID) Valid() bool {
	switch g {
	case GatewayStripe, GatewayPayPal, GatewayApplePay:
		return true
	}
	return false
}

// PaymentSettings is the per-restaurant gateway configuration, consumed
// read-only by the checkout flow.
type PaymentSettings struct {
	bun.BaseModel `bun:"table:payment_settings"`

	ID             string    `bun:"id,pk" json:"id"`
	RestaurantID   string    `bun:"restaurant_id,notnull" json:"restaurant_id"`
	Gateway        GatewayID `bun:"gateway,notnull" json:"gateway"`
	Enabled        bool      `bun:"enabled" json:"enabled"`
	SetupComplete  bool      `bun:"setup_complete" json:"setup_complete"`
	SecretKey      string    `bun:"secret_key,nullzero" json:"-"`
	PublishableKey string    `bun:"publishable_key,nullzero" json:"publishable_key"`
}

type CreateIntentRequest struct {
	RestaurantID string    `json:"restaurant_id" validate:"required"`
	OrderID      string    `json:"order_id" validate:"required"`
	Gateway      GatewayID `json:"gateway" validate:"required"`
	Amount       float64   `json:"amount" validate:"gt=0"`
	Currency     string    `json:"currency"`
}

type CreateIntentResponse struct {
	IntentID     string  `json:"intent_id"`
	ClientSecret string  `json:"client_secret,omitempty"`
	Amount       float64 `json:"amount"`
	Currency     string  `json:"currency"`
}

// ConfirmRequest carries a client-side tokenized payment method, never raw
// card numbers.
type ConfirmRequest struct {
	RestaurantID    string `json:"restaurant_id" validate:"required"`
	IntentID        string `json:"payment_intent_id" validate:"required"`
	PaymentMethodID string `json:"payment_method_id" validate:"required"`
}

type ConfirmResponse struct {
	Success        bool    `json:"success"`
	RequiresAction bool    `json:"requires_action,omitempty"`
	ClientSecret   string  `json:"client_secret,omitempty"`
	IntentID       string  `json:"payment_intent_id,omitempty"`
	Amount         float64 `json:"amount,omitempty"`
	Currency       string  `json:"currency,omitempty"`
	Error          string  `json:"error,omitempty"`
}
