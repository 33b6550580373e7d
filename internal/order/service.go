package order

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"resto-suite/internal/config"
	"resto-suite/internal/logger"
	"resto-suite/internal/models"
	"resto-suite/internal/notify"
	"resto-suite/internal/utils"
)

var (
	ErrRestaurantNotFound = errors.New("restaurant not found")
	ErrOrderNotFound      = errors.New("order not found")
	ErrValidation         = errors.New("validation failed")
)

// DBLayer is the persistence surface the order workflow needs.
type DBLayer interface {
	GetRestaurantByID(id string) (*models.Restaurant, error)
	GetOrderSettings(restaurantID string) (*models.OrderSettings, error)
	CreateOrderWithItems(order *models.Order, items []*models.OrderItem) error
	GetOrderByID(id string) (*models.Order, error)
	GetOrdersByRestaurant(restaurantID string) ([]models.Order, error)
	UpdateOrderStatus(id string, status models.OrderStatus) error
	MarkOrderEmailSent(id string) error
}

// KafkaPublisher streams order lifecycle events.
type KafkaPublisher interface {
	Publish(topic string, key string, value []byte) error
	Close() error
}

type OrderService struct {
	DB     DBLayer
	Kafka  KafkaPublisher
	Mailer notify.Sender
	Topics config.TopicConfig
	Log    *logger.Logger
}

func NewOrderService(db DBLayer, kafka KafkaPublisher, mailer notify.Sender, topics config.TopicConfig, log *logger.Logger) *OrderService {
	return &OrderService{DB: db, Kafka: kafka, Mailer: mailer, Topics: topics, Log: log}
}

// orderEvent is the payload published on order lifecycle topics.
type orderEvent struct {
	Event        string             `json:"event"`
	OrderID      string             `json:"order_id"`
	RestaurantID string             `json:"restaurant_id"`
	OrderNumber  string             `json:"order_number"`
	Status       models.OrderStatus `json:"status"`
	Total        float64            `json:"total"`
	OccurredAt   time.Time          `json:"occurred_at"`
}

// ---------------- ORDERS ----------------

// PlaceOrder runs the full intake workflow: validate, persist order and items
// atomically, then fire the confirmation email and the created event. The
// side effects are best-effort; once the order row is committed the order
// stands regardless of email or event delivery.
func (s *OrderService) PlaceOrder(req *models.CreateOrderRequest) (*models.CreateOrderResponse, error) {
	if req.OrderType == "" {
		req.OrderType = models.OrderTypePickup
	}
	if !req.OrderType.Valid() {
		return nil, fmt.Errorf("%w: unknown order type %q", ErrValidation, req.OrderType)
	}
	if req.OrderNumber == "" {
		req.OrderNumber = utils.GenerateOrderNumber()
	}

	restaurant, err := s.DB.GetRestaurantByID(req.RestaurantID)
	if err != nil {
		return nil, fmt.Errorf("failed to load restaurant: %w", err)
	}
	if restaurant == nil {
		return nil, ErrRestaurantNotFound
	}

	settings, err := s.DB.GetOrderSettings(req.RestaurantID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order settings: %w", err)
	}
	if settings.RequireEmail && req.CustomerInfo.Email == "" {
		return nil, fmt.Errorf("%w: customer email is required by this restaurant", ErrValidation)
	}

	// Status is always forced to pending on intake, whatever the client sent.
	order := &models.Order{
		ID:            uuid.New().String(),
		RestaurantID:  req.RestaurantID,
		OrderNumber:   req.OrderNumber,
		Type:          req.OrderType,
		Status:        models.OrderStatusPending,
		CustomerName:  req.CustomerInfo.Name,
		CustomerPhone: req.CustomerInfo.Phone,
		CustomerEmail: req.CustomerInfo.Email,
		TableNumber:   req.CustomerInfo.TableNumber,
		PickupTime:    req.CustomerInfo.PickupTime,
		Address:       req.CustomerInfo.Address,
		Instructions:  req.CustomerInfo.Instructions,
		Subtotal:      req.Subtotal,
		Tax:           req.Tax,
		DeliveryFee:   req.DeliveryFee,
		Total:         req.Total,
		CreatedAt:     time.Now().UTC(),
	}

	items := make([]*models.OrderItem, 0, len(req.Items))
	for _, cartItem := range req.Items {
		items = append(items, &models.OrderItem{
			ID:           uuid.New().String(),
			OrderID:      order.ID,
			MenuItemID:   cartItem.MenuItemID,
			Quantity:     cartItem.Quantity,
			UnitPrice:    cartItem.Price,
			TotalPrice:   lineTotal(cartItem.Price, cartItem.Quantity),
			Instructions: cartItem.Instructions,
		})
	}

	if err := s.DB.CreateOrderWithItems(order, items); err != nil {
		s.Log.Error("ORDER", fmt.Sprintf("Failed to create order %s: %v", req.OrderNumber, err))
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	order.Items = items
	s.Log.LogOrder("CREATE", order.OrderNumber, fmt.Sprintf("Order created for restaurant %s (%d items)", restaurant.Name, len(items)))

	emailSent := s.sendConfirmationEmail(restaurant, settings, order)
	order.EmailSent = emailSent

	s.publishEvent(s.Topics.OrderCreated, "order.created", order)

	message := "Order placed successfully"
	if emailSent {
		message = "Order placed successfully, confirmation email sent"
	}
	return &models.CreateOrderResponse{Order: order, EmailSent: emailSent, Message: message}, nil
}

// sendConfirmationEmail sends the intake confirmation when the restaurant has
// opted in and an address is available. Reports whether it went out; delivery
// failure never fails the order.
func (s *OrderService) sendConfirmationEmail(restaurant *models.Restaurant, settings *models.OrderSettings, order *models.Order) bool {
	if order.CustomerEmail == "" || !settings.RequireEmail || !settings.SendConfirmationEmail {
		return false
	}

	subject, body, err := notify.BuildOrderConfirmation(restaurant, order, order.Items)
	if err != nil {
		s.Log.Error("ORDER", fmt.Sprintf("Failed to render confirmation email for order %s: %v", order.OrderNumber, err))
		return false
	}
	if err := s.Mailer.Send(order.CustomerEmail, subject, body); err != nil {
		s.Log.Error("ORDER", fmt.Sprintf("Failed to send confirmation email for order %s: %v", order.OrderNumber, err))
		return false
	}

	if err := s.DB.MarkOrderEmailSent(order.ID); err != nil {
		s.Log.Error("ORDER", fmt.Sprintf("Failed to flag email_sent for order %s: %v", order.OrderNumber, err))
	}
	s.Log.LogOrder("EMAIL", order.OrderNumber, fmt.Sprintf("Confirmation email sent to %s", order.CustomerEmail))
	return true
}

func (s *OrderService) GetOrder(id string) (*models.Order, error) {
	order, err := s.DB.GetOrderByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// ListOrders returns all orders of a restaurant, newest first.
func (s *OrderService) ListOrders(restaurantID string) ([]models.Order, error) {
	return s.DB.GetOrdersByRestaurant(restaurantID)
}

// UpdateStatus moves an order to a new status and notifies the customer.
func (s *OrderService) UpdateStatus(orderID string, status models.OrderStatus) (*models.Order, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown order status %q", ErrValidation, status)
	}

	order, err := s.DB.GetOrderByID(orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	if err := s.DB.UpdateOrderStatus(orderID, status); err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	order.Status = status
	s.Log.LogOrder("STATUS", order.OrderNumber, fmt.Sprintf("Status changed to %s", status))

	s.sendStatusEmail(order)
	s.publishEvent(s.Topics.OrderStatusChanged, "order.status_changed", order)

	return order, nil
}

func (s *OrderService) sendStatusEmail(order *models.Order) {
	if order.CustomerEmail == "" {
		return
	}
	settings, err := s.DB.GetOrderSettings(order.RestaurantID)
	if err != nil || !settings.SendConfirmationEmail {
		return
	}
	restaurant, err := s.DB.GetRestaurantByID(order.RestaurantID)
	if err != nil || restaurant == nil {
		return
	}

	subject, body := notify.BuildStatusUpdate(restaurant, order)
	if err := s.Mailer.Send(order.CustomerEmail, subject, body); err != nil {
		s.Log.Error("ORDER", fmt.Sprintf("Failed to send status email for order %s: %v", order.OrderNumber, err))
	}
}

// publishEvent streams an order lifecycle event. Kafka being down is logged
// and swallowed.
func (s *OrderService) publishEvent(topic, event string, order *models.Order) {
	if s.Kafka == nil {
		return
	}

	payload, err := json.Marshal(orderEvent{
		Event:        event,
		OrderID:      order.ID,
		RestaurantID: order.RestaurantID,
		OrderNumber:  order.OrderNumber,
		Status:       order.Status,
		Total:        order.Total,
		OccurredAt:   time.Now().UTC(),
	})
	if err != nil {
		s.Log.Error("KAFKA", fmt.Sprintf("Failed to marshal %s event for order %s: %v", event, order.OrderNumber, err))
		return
	}

	if err := s.Kafka.Publish(topic, order.ID, payload); err != nil {
		s.Log.Error("KAFKA", fmt.Sprintf("Failed to publish %s for order %s: %v", event, order.OrderNumber, err))
		return
	}
	s.Log.LogKafka("PUBLISH", topic, fmt.Sprintf("%s for order %s", event, order.OrderNumber))
}

// lineTotal computes unit price times quantity in exact decimal arithmetic.
// Client-sent line totals are ignored.
func lineTotal(unitPrice float64, quantity int) float64 {
	total, _ := decimal.NewFromFloat(unitPrice).
		Mul(decimal.NewFromInt(int64(quantity))).
		Round(2).
		Float64()
	return total
}
