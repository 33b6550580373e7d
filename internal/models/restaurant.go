package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Restaurant struct {
	bun.BaseModel `bun:"table:restaurants"`

	ID           string    `bun:"id,pk" json:"id"`
	Name         string    `bun:"name,notnull" json:"name"`
	Address      string    `bun:"address,nullzero" json:"address"`
	Phone        string    `bun:"phone,nullzero" json:"phone"`
	OpeningHours string    `bun:"opening_hours,nullzero" json:"opening_hours"`
	CurrencyCode string    `bun:"currency_code,notnull,default:'usd'" json:"currency_code"`
	OwnerUserID  string    `bun:"owner_user_id,notnull" json:"owner_user_id"`
	CreatedAt    time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`

	// WhatsApp bot configuration
	WhatsAppEnabled     bool   `bun:"whatsapp_enabled" json:"whatsapp_enabled"`
	WhatsAppVerifyToken string `bun:"whatsapp_verify_token,nullzero" json:"-"`
	WhatsAppAIEnabled   bool   `bun:"whatsapp_ai_enabled" json:"whatsapp_ai_enabled"`

	// Printer configuration
	PrinterType  string `bun:"printer_type,notnull,default:'thermal'" json:"printer_type"`
	PrinterWidth int    `bun:"printer_width,notnull,default:32" json:"printer_width"`
}

// OrderSettings controls order-intake side effects per restaurant.
type OrderSettings struct {
	bun.BaseModel `bun:"table:order_settings"`

	RestaurantID          string `bun:"restaurant_id,pk" json:"restaurant_id"`
	RequireEmail          bool   `bun:"require_email" json:"require_email"`
	SendConfirmationEmail bool   `bun:"send_confirmation_email" json:"send_confirmation_email"`
}

type MenuItem struct {
	bun.BaseModel `bun:"table:menu_items"`

	ID           string  `bun:"id,pk" json:"id"`
	RestaurantID string  `bun:"restaurant_id,notnull" json:"restaurant_id"`
	Name         string  `bun:"name,notnull" json:"name"`
	Category     string  `bun:"category,nullzero" json:"category"`
	Price        float64 `bun:"price,notnull" json:"price"`
	Available    bool    `bun:"available,notnull,default:true" json:"available"`
}
