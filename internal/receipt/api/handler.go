package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"resto-suite/internal/auth"
	"resto-suite/internal/logger"
	"resto-suite/internal/order"
	"resto-suite/internal/receipt"
	"resto-suite/internal/utils"
)

type Handler struct {
	OrderService *order.OrderService
	Logger       *logger.Logger
}

func NewHandler(orderService *order.OrderService, log *logger.Logger) *Handler {
	return &Handler{OrderService: orderService, Logger: log}
}

type printRequest struct {
	OrderID string `json:"order_id"`
	// Format overrides the restaurant's configured printer type when set.
	Format string `json:"format,omitempty"`
}

// Print renders a receipt for one order in the restaurant's configured
// format and streams it back.
func (h *Handler) Print(w http.ResponseWriter, r *http.Request) {
	restaurant := auth.RestaurantFromContext(r.Context())

	var req printRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	if req.OrderID == "" {
		utils.WriteError(w, http.StatusBadRequest, "order_id is required", "")
		return
	}

	found, err := h.OrderService.GetOrder(req.OrderID)
	if err != nil {
		if errors.Is(err, order.ErrOrderNotFound) {
			utils.WriteError(w, http.StatusNotFound, "Order not found", "")
			return
		}
		h.Logger.Error("API", fmt.Sprintf("Print: %v", err))
		utils.WriteError(w, http.StatusInternalServerError, "Failed to load order", "")
		return
	}
	if found.RestaurantID != restaurant.ID {
		utils.WriteError(w, http.StatusNotFound, "Order not found", "")
		return
	}

	printerType := receipt.PrinterType(restaurant.PrinterType)
	if req.Format != "" {
		printerType = receipt.PrinterType(req.Format)
	}
	renderer, err := receipt.ForPrinterType(printerType)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Unknown receipt format", err.Error())
		return
	}

	output, err := renderer.Render(&receipt.Receipt{Restaurant: restaurant, Order: found})
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("Print: render failed for order %s: %v", found.OrderNumber, err))
		utils.WriteError(w, http.StatusInternalServerError, "Failed to render receipt", "")
		return
	}

	h.Logger.Info("API", fmt.Sprintf("Rendered %s receipt for order %s (%d bytes)", printerType, found.OrderNumber, len(output)))
	w.Header().Set("Content-Type", renderer.ContentType())
	w.WriteHeader(http.StatusOK)
	w.Write(output)
}
