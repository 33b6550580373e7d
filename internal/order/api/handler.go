package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"resto-suite/internal/auth"
	"resto-suite/internal/logger"
	"resto-suite/internal/models"
	"resto-suite/internal/order"
	"resto-suite/internal/utils"
)

type Handler struct {
	OrderService *order.OrderService
	Validate     *validator.Validate
	Logger       *logger.Logger
}

func NewHandler(service *order.OrderService, validate *validator.Validate, log *logger.Logger) *Handler {
	return &Handler{OrderService: service, Validate: validate, Logger: log}
}

// CreateOrder is the public checkout intake endpoint.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req models.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	if err := h.Validate.Struct(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Validation failed", err.Error())
		return
	}

	resp, err := h.OrderService.PlaceOrder(&req)
	if err != nil {
		h.writeOrderError(w, "CreateOrder", err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.SuccessResponse(resp.Message, resp))
}

// ListOrders returns the authenticated restaurant's orders, newest first.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	restaurant := auth.RestaurantFromContext(r.Context())

	orders, err := h.OrderService.ListOrders(restaurant.ID)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("ListOrders: %v", err))
		utils.WriteError(w, http.StatusInternalServerError, "Failed to load orders", "")
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Orders loaded", orders))
}

// GetOrder returns one order of the authenticated restaurant.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	restaurant := auth.RestaurantFromContext(r.Context())
	orderID := chi.URLParam(r, "orderId")

	found, err := h.OrderService.GetOrder(orderID)
	if err != nil {
		h.writeOrderError(w, "GetOrder", err)
		return
	}
	if found.RestaurantID != restaurant.ID {
		utils.WriteError(w, http.StatusNotFound, "Order not found", "")
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Order loaded", found))
}

// UpdateOrderStatus moves an order through the kitchen workflow.
func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	restaurant := auth.RestaurantFromContext(r.Context())
	orderID := chi.URLParam(r, "orderId")

	var req models.UpdateOrderStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	if err := h.Validate.Struct(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Validation failed", err.Error())
		return
	}

	existing, err := h.OrderService.GetOrder(orderID)
	if err != nil {
		h.writeOrderError(w, "UpdateOrderStatus", err)
		return
	}
	if existing.RestaurantID != restaurant.ID {
		utils.WriteError(w, http.StatusNotFound, "Order not found", "")
		return
	}

	updated, err := h.OrderService.UpdateStatus(orderID, req.Status)
	if err != nil {
		h.writeOrderError(w, "UpdateOrderStatus", err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Order status updated", updated))
}

func (h *Handler) writeOrderError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, order.ErrValidation):
		utils.WriteError(w, http.StatusBadRequest, "Validation failed", err.Error())
	case errors.Is(err, order.ErrRestaurantNotFound):
		utils.WriteError(w, http.StatusNotFound, "Restaurant not found", "")
	case errors.Is(err, order.ErrOrderNotFound):
		utils.WriteError(w, http.StatusNotFound, "Order not found", "")
	default:
		h.Logger.Error("API", fmt.Sprintf("%s: %v", op, err))
		utils.WriteError(w, http.StatusInternalServerError, "Order processing failed", "")
	}
}
