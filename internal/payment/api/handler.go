package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"resto-suite/internal/logger"
	"resto-suite/internal/models"
	"resto-suite/internal/payment"
	"resto-suite/internal/utils"
)

type Handler struct {
	Service  *payment.Service
	Validate *validator.Validate
	Logger   *logger.Logger
}

func NewHandler(service *payment.Service, validate *validator.Validate, log *logger.Logger) *Handler {
	return &Handler{Service: service, Validate: validate, Logger: log}
}

// CreateIntent starts a checkout session for an order.
func (h *Handler) CreateIntent(w http.ResponseWriter, r *http.Request) {
	var req models.CreateIntentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	if err := h.Validate.Struct(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Validation failed", err.Error())
		return
	}

	resp, err := h.Service.CreateIntent(&req)
	if err != nil {
		h.writeGatewayError(w, "CreateIntent", err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Payment intent created", resp))
}

// ConfirmStripe finalizes a Stripe checkout with a tokenized payment method.
func (h *Handler) ConfirmStripe(w http.ResponseWriter, r *http.Request) {
	var req models.ConfirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	if err := h.Validate.Struct(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Validation failed", err.Error())
		return
	}

	resp, err := h.Service.ConfirmStripe(&req)
	if err != nil {
		h.writeGatewayError(w, "ConfirmStripe", err)
		return
	}

	// Declines are reported in the body with a 200; they are a valid
	// checkout outcome, not a server failure.
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Payment processed", resp))
}

func (h *Handler) writeGatewayError(w http.ResponseWriter, op string, err error) {
	h.Logger.Error("API", fmt.Sprintf("%s: %v", op, err))

	switch {
	case errors.Is(err, payment.ErrGatewayNotConfigured):
		utils.WriteError(w, http.StatusBadRequest, "Payment gateway not configured", err.Error())
	case errors.Is(err, payment.ErrCardDeclined):
		utils.WriteError(w, http.StatusBadRequest, "Card declined", err.Error())
	case errors.Is(err, payment.ErrInvalidPaymentRequest):
		utils.WriteError(w, http.StatusBadRequest, "Invalid payment request", err.Error())
	case errors.Is(err, payment.ErrGatewayUnavailable):
		utils.WriteError(w, http.StatusServiceUnavailable, "Payment provider unavailable", "")
	default:
		utils.WriteError(w, http.StatusInternalServerError, "Payment processing failed", "")
	}
}
