package models

import (
	"time"

	"github.com/uptrace/bun"
)

type OrderType string

const (
	OrderTypePickup       OrderType = "pickup"
	OrderTypeDelivery     OrderType = "delivery"
	OrderTypeDineIn       OrderType = "dine_in"
	OrderTypeTableService OrderType = "table_service"
)

func (t OrderType) Valid() bool {
	switch t {
	case OrderTypePickup, OrderTypeDelivery, OrderTypeDineIn, OrderTypeTableService:
		return true
	}
	return false
}

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusServed    OrderStatus = "served"
	OrderStatusCancelled OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusPreparing,
		OrderStatusReady, OrderStatusServed, OrderStatusCancelled:
		return true
	}
	return false
}

type Order struct {
	bun.BaseModel `bun:"table:orders"`

	ID           string      `bun:"id,pk" json:"id"`
	RestaurantID string      `bun:"restaurant_id,notnull" json:"restaurant_id"`
	OrderNumber  string      `bun:"order_number,notnull" json:"order_number"`
	Type         OrderType   `bun:"order_type,notnull" json:"order_type"`
	Status       OrderStatus `bun:"status,notnull" json:"status"`

	CustomerName  string `bun:"customer_name,nullzero" json:"customer_name"`
	CustomerPhone string `bun:"customer_phone,nullzero" json:"customer_phone"`
	CustomerEmail string `bun:"customer_email,nullzero" json:"customer_email"`
	TableNumber   string `bun:"table_number,nullzero" json:"table_number"`
	PickupTime    string `bun:"pickup_time,nullzero" json:"pickup_time"`
	Address       string `bun:"address,nullzero" json:"address"`
	Instructions  string `bun:"instructions,nullzero" json:"instructions"`

	// Monetary fields are caller-supplied and stored as-is; only per-item
	// totals are recomputed server-side.
	Subtotal    float64 `bun:"subtotal" json:"subtotal"`
	Tax         float64 `bun:"tax" json:"tax"`
	DeliveryFee float64 `bun:"delivery_fee" json:"delivery_fee"`
	Total       float64 `bun:"total" json:"total"`

	EmailSent bool      `bun:"email_sent" json:"email_sent"`
	CreatedAt time.Time `bun:"created_at,notnull" json:"created_at"`

	Items []*OrderItem `bun:"rel:has-many,join:id=order_id" json:"items,omitempty"`
}

type OrderItem struct {
	bun.BaseModel `bun:"table:order_items"`

	ID           string  `bun:"id,pk" json:"id"`
	OrderID      string  `bun:"order_id,notnull" json:"order_id"`
	MenuItemID   string  `bun:"menu_item_id,notnull" json:"menu_item_id"`
	Quantity     int     `bun:"quantity,notnull" json:"quantity"`
	UnitPrice    float64 `bun:"unit_price,notnull" json:"unit_price"`
	TotalPrice   float64 `bun:"total_price,notnull" json:"total_price"`
	Instructions string  `bun:"instructions,nullzero" json:"instructions"`

	MenuItem *MenuItem `bun:"rel:belongs-to,join:menu_item_id=id" json:"menu_item,omitempty"`
}

// ---------------- DTOs ----------------

type CustomerInfo struct {
	Name         string `json:"name" validate:"required"`
	Phone        string `json:"phone"`
	Email        string `json:"email" validate:"omitempty,email"`
	TableNumber  string `json:"table_number"`
	PickupTime   string `json:"pickup_time"`
	Address      string `json:"address"`
	Instructions string `json:"instructions"`
}

type CartItem struct {
	MenuItemID   string  `json:"id" validate:"required"`
	Price        float64 `json:"price" validate:"gte=0"`
	Quantity     int     `json:"quantity" validate:"gt=0"`
	Total        float64 `json:"total"` // ignored; recomputed server-side
	Instructions string  `json:"instructions"`
}

type CreateOrderRequest struct {
	RestaurantID string `json:"restaurant_id" validate:"required"`
	// OrderNumber is generated server-side when the client leaves it empty.
	OrderNumber  string        `json:"order_number"`
	OrderType    OrderType     `json:"order_type"`
	CustomerInfo *CustomerInfo `json:"customer_info" validate:"required"`
	Items        []CartItem    `json:"items" validate:"required,min=1,dive"`
	Subtotal     float64       `json:"subtotal"`
	Tax          float64       `json:"tax"`
	DeliveryFee  float64       `json:"delivery_fee"`
	Total        float64       `json:"total"`
}

type CreateOrderResponse struct {
	Order     *Order `json:"order"`
	EmailSent bool   `json:"emailSent"`
	Message   string `json:"message"`
}

type UpdateOrderStatusRequest struct {
	Status OrderStatus `json:"status" validate:"required"`
}
