package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"resto-suite/internal/auth"
	"resto-suite/internal/logger"
	"resto-suite/internal/models"
	"resto-suite/internal/utils"
	"resto-suite/internal/whatsapp"
)

type Handler struct {
	Service *whatsapp.Service
	Logger  *logger.Logger
}

func NewHandler(service *whatsapp.Service, log *logger.Logger) *Handler {
	return &Handler{Service: service, Logger: log}
}

// VerifyWebhook is the provider's GET handshake. The challenge is echoed as
// plain text, not wrapped in the JSON envelope.
func (h *Handler) VerifyWebhook(w http.ResponseWriter, r *http.Request) {
	restaurantID := chi.URLParam(r, "restaurantId")
	query := r.URL.Query()

	challenge, err := h.Service.VerifyWebhook(
		restaurantID,
		query.Get("hub.mode"),
		query.Get("hub.verify_token"),
		query.Get("hub.challenge"),
	)
	if err != nil {
		switch {
		case errors.Is(err, whatsapp.ErrRestaurantNotFound):
			http.Error(w, "restaurant not found", http.StatusNotFound)
		case errors.Is(err, whatsapp.ErrVerificationFailed):
			http.Error(w, "verification failed", http.StatusForbidden)
		default:
			h.Logger.Error("API", fmt.Sprintf("VerifyWebhook: %v", err))
			http.Error(w, "verification error", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(challenge))
}

// ReceiveWebhook handles inbound message deliveries.
func (h *Handler) ReceiveWebhook(w http.ResponseWriter, r *http.Request) {
	restaurantID := chi.URLParam(r, "restaurantId")

	var payload models.WebhookPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid webhook payload", err.Error())
		return
	}

	reply, err := h.Service.HandleInbound(restaurantID, &payload)
	if err != nil {
		switch {
		case errors.Is(err, whatsapp.ErrRestaurantNotFound):
			utils.WriteError(w, http.StatusNotFound, "Restaurant not found", "")
		case errors.Is(err, whatsapp.ErrWhatsAppDisabled):
			utils.WriteError(w, http.StatusForbidden, "WhatsApp is not enabled for this restaurant", "")
		case errors.Is(err, whatsapp.ErrSubscriptionRequired):
			utils.WriteError(w, http.StatusForbidden, "Subscription plan does not include the WhatsApp bot", "")
		case errors.Is(err, whatsapp.ErrConversationBusy):
			// The provider retries non-2xx deliveries, which is what we want
			// while another delivery holds the conversation lock.
			utils.WriteError(w, http.StatusTooManyRequests, "Conversation busy, retry later", "")
		default:
			h.Logger.Error("API", fmt.Sprintf("ReceiveWebhook: %v", err))
			utils.WriteError(w, http.StatusInternalServerError, "Webhook processing failed", "")
		}
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Message processed", map[string]string{"reply": reply}))
}

// GetAIContext lets the owner inspect the context the bot prompt embeds.
func (h *Handler) GetAIContext(w http.ResponseWriter, r *http.Request) {
	restaurant := auth.RestaurantFromContext(r.Context())

	ctx, err := h.Service.BuildAIContext(restaurant.ID)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetAIContext: %v", err))
		utils.WriteError(w, http.StatusInternalServerError, "Failed to build AI context", "")
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("AI context", ctx))
}
