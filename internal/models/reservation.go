package models

import (
	"time"

	"github.com/uptrace/bun"
)

type ReservationStatus string

const (
	ReservationStatusPending   ReservationStatus = "pending"
	ReservationStatusConfirmed ReservationStatus = "confirmed"
	ReservationStatusCancelled ReservationStatus = "cancelled"
)

func (s ReservationStatus) Valid() bool {
	switch s {
	case ReservationStatusPending, ReservationStatusConfirmed, ReservationStatusCancelled:
		return true
	}
	return false
}

type Reservation struct {
	bun.BaseModel `bun:"table:reservations"`

	ID              string            `bun:"id,pk" json:"id"`
	RestaurantID    string            `bun:"restaurant_id,notnull" json:"restaurant_id"`
	CustomerName    string            `bun:"customer_name,notnull" json:"customer_name"`
	CustomerPhone   string            `bun:"customer_phone,nullzero" json:"customer_phone"`
	CustomerEmail   string            `bun:"customer_email,nullzero" json:"customer_email"`
	PartySize       int               `bun:"party_size,notnull" json:"party_size"`
	ReservedFor     time.Time         `bun:"reserved_for,notnull" json:"reserved_for"`
	SpecialRequests string            `bun:"special_requests,nullzero" json:"special_requests"`
	TablePreference string            `bun:"table_preference,nullzero" json:"table_preference"`
	Status          ReservationStatus `bun:"status,notnull" json:"status"`
	CreatedAt       time.Time         `bun:"created_at,notnull" json:"created_at"`
}

type CreateReservationRequest struct {
	RestaurantID    string `json:"restaurant_id" validate:"required"`
	CustomerName    string `json:"customer_name" validate:"required"`
	CustomerPhone   string `json:"customer_phone"`
	CustomerEmail   string `json:"customer_email" validate:"omitempty,email"`
	PartySize       int    `json:"party_size"`
	Date            string `json:"date" validate:"required"` // YYYY-MM-DD
	Time            string `json:"time" validate:"required"` // HH:MM
	SpecialRequests string `json:"special_requests"`
	TablePreference string `json:"table_preference"`
}
