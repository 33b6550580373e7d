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
	"resto-suite/internal/reservation"
	"resto-suite/internal/utils"
)

type Handler struct {
	Service  *reservation.Service
	Validate *validator.Validate
	Logger   *logger.Logger
}

func NewHandler(service *reservation.Service, validate *validator.Validate, log *logger.Logger) *Handler {
	return &Handler{Service: service, Validate: validate, Logger: log}
}

// CreateReservation is the public booking endpoint.
func (h *Handler) CreateReservation(w http.ResponseWriter, r *http.Request) {
	var req models.CreateReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	if err := h.Validate.Struct(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Validation failed", err.Error())
		return
	}

	created, err := h.Service.Create(&req)
	if err != nil {
		h.writeError(w, "CreateReservation", err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.SuccessResponse("Reservation created", created))
}

// ListReservations returns the authenticated restaurant's bookings.
func (h *Handler) ListReservations(w http.ResponseWriter, r *http.Request) {
	restaurant := auth.RestaurantFromContext(r.Context())

	reservations, err := h.Service.List(restaurant.ID)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("ListReservations: %v", err))
		utils.WriteError(w, http.StatusInternalServerError, "Failed to load reservations", "")
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Reservations loaded", reservations))
}

// UpdateReservationStatus confirms or cancels a booking.
func (h *Handler) UpdateReservationStatus(w http.ResponseWriter, r *http.Request) {
	restaurant := auth.RestaurantFromContext(r.Context())
	reservationID := chi.URLParam(r, "reservationId")

	var req struct {
		Status models.ReservationStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	if err := h.Service.UpdateStatus(restaurant.ID, reservationID, req.Status); err != nil {
		h.writeError(w, "UpdateReservationStatus", err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Reservation updated", nil))
}

func (h *Handler) writeError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, reservation.ErrValidation):
		utils.WriteError(w, http.StatusBadRequest, "Validation failed", err.Error())
	case errors.Is(err, reservation.ErrRestaurantNotFound):
		utils.WriteError(w, http.StatusNotFound, "Restaurant not found", "")
	case errors.Is(err, reservation.ErrReservationNotFound):
		utils.WriteError(w, http.StatusNotFound, "Reservation not found", "")
	default:
		h.Logger.Error("API", fmt.Sprintf("%s: %v", op, err))
		utils.WriteError(w, http.StatusInternalServerError, "Reservation processing failed", "")
	}
}
