package whatsapp

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"resto-suite/internal/logger"
	"resto-suite/internal/models"
	"resto-suite/internal/utils"
)

var (
	ErrRestaurantNotFound   = errors.New("restaurant not found")
	ErrWhatsAppDisabled     = errors.New("whatsapp is not enabled for this restaurant")
	ErrSubscriptionRequired = errors.New("subscription plan does not include the whatsapp bot")
	ErrVerificationFailed   = errors.New("webhook verification failed")
	ErrConversationBusy     = errors.New("conversation is being processed by another delivery")
)

// DBLayer is the persistence surface the conversation workflow needs.
type DBLayer interface {
	GetRestaurantByID(id string) (*models.Restaurant, error)
	GetOrderSettings(restaurantID string) (*models.OrderSettings, error)
	GetMenuItemsByRestaurant(restaurantID string) ([]models.MenuItem, error)
	GetConversation(restaurantID, phone string) (*models.WhatsAppConversation, error)
	CreateConversation(conversation *models.WhatsAppConversation) error
	UpdateConversation(conversation *models.WhatsAppConversation) error
	CreateMessage(message *models.WhatsAppMessage) error
}

// ConversationLock serializes webhook deliveries per restaurant+phone.
type ConversationLock interface {
	LockConversation(restaurantID, phone string) (bool, error)
	UnlockConversation(restaurantID, phone string) error
}

// Completer produces AI reply text.
type Completer interface {
	Complete(systemPrompt, userMessage string) (string, error)
}

// SubscriptionGate decides whether the owner's plan includes the bot.
type SubscriptionGate interface {
	AllowsWhatsAppBot(userID string) (bool, error)
}

type Service struct {
	DB            DBLayer
	Lock          ConversationLock
	AI            Completer
	Subscriptions SubscriptionGate
	Sender        MessageSender
	DefaultToken  string
	Log           *logger.Logger
	Now           func() time.Time
}

func NewService(db DBLayer, lock ConversationLock, ai Completer, subscriptions SubscriptionGate, sender MessageSender, defaultToken string, log *logger.Logger) *Service {
	return &Service{
		DB:            db,
		Lock:          lock,
		AI:            ai,
		Subscriptions: subscriptions,
		Sender:        sender,
		DefaultToken:  defaultToken,
		Log:           log,
		Now:           time.Now,
	}
}

// VerifyWebhook handles the provider's GET handshake. Returns the challenge
// string to echo back with a 200, or ErrVerificationFailed.
func (s *Service) VerifyWebhook(restaurantID, mode, token, challenge string) (string, error) {
	restaurant, err := s.DB.GetRestaurantByID(restaurantID)
	if err != nil {
		return "", fmt.Errorf("failed to load restaurant: %w", err)
	}
	if restaurant == nil {
		return "", ErrRestaurantNotFound
	}

	expected := restaurant.WhatsAppVerifyToken
	if expected == "" {
		expected = s.DefaultToken
	}

	if mode != "subscribe" || token != expected {
		s.Log.LogSecurity("WEBHOOK_VERIFY", fmt.Sprintf("Verification rejected for restaurant %s", restaurantID))
		return "", ErrVerificationFailed
	}

	s.Log.Info("WHATSAPP", fmt.Sprintf("Webhook verified for restaurant %s", restaurantID))
	return challenge, nil
}

// HandleInbound processes one webhook delivery end to end and returns the
// reply text that was sent, or "" when the payload held no text message.
func (s *Service) HandleInbound(restaurantID string, payload *models.WebhookPayload) (string, error) {
	restaurant, err := s.DB.GetRestaurantByID(restaurantID)
	if err != nil {
		return "", fmt.Errorf("failed to load restaurant: %w", err)
	}
	if restaurant == nil {
		return "", ErrRestaurantNotFound
	}
	if !restaurant.WhatsAppEnabled {
		return "", ErrWhatsAppDisabled
	}

	allowed, err := s.Subscriptions.AllowsWhatsAppBot(restaurant.OwnerUserID)
	if err != nil {
		return "", fmt.Errorf("failed to check subscription: %w", err)
	}
	if !allowed {
		s.Log.Warn("WHATSAPP", fmt.Sprintf("Bot message for restaurant %s dropped: plan does not include the bot", restaurantID))
		return "", ErrSubscriptionRequired
	}

	msg := payload.FirstTextMessage()
	if msg == nil {
		// Status callbacks and non-text media are acknowledged and ignored.
		return "", nil
	}
	phone := utils.NormalizePhone(msg.From)

	locked, err := s.Lock.LockConversation(restaurantID, phone)
	if err != nil {
		return "", fmt.Errorf("conversation lock error: %w", err)
	}
	if !locked {
		return "", ErrConversationBusy
	}
	defer func() {
		if err := s.Lock.UnlockConversation(restaurantID, phone); err != nil {
			s.Log.Error("WHATSAPP", fmt.Sprintf("Failed to release conversation lock for %s: %v", phone, err))
		}
	}()

	now := s.Now().UTC()

	conversation, err := s.DB.GetConversation(restaurantID, phone)
	if err != nil {
		return "", fmt.Errorf("failed to load conversation: %w", err)
	}
	if conversation == nil {
		conversation = &models.WhatsAppConversation{
			ID:            uuid.New().String(),
			RestaurantID:  restaurantID,
			CustomerPhone: phone,
			CurrentStep:   models.StepWelcome,
			LastMessageAt: now,
			CreatedAt:     now,
		}
		if err := s.DB.CreateConversation(conversation); err != nil {
			return "", fmt.Errorf("failed to create conversation: %w", err)
		}
		s.Log.LogWhatsApp("NEW", phone, fmt.Sprintf("Conversation started for restaurant %s", restaurant.Name))
	}

	if err := s.DB.CreateMessage(&models.WhatsAppMessage{
		ID:             uuid.New().String(),
		ConversationID: conversation.ID,
		Direction:      models.DirectionInbound,
		Content:        msg.Text.Body,
		Type:           "text",
		Status:         "received",
		CreatedAt:      now,
	}); err != nil {
		return "", fmt.Errorf("failed to persist inbound message: %w", err)
	}

	draft, err := conversation.Draft()
	if err != nil {
		s.Log.Error("WHATSAPP", fmt.Sprintf("Corrupt draft on conversation %s, resetting: %v", conversation.ID, err))
		draft = &models.OrderDraft{}
	}

	decision := Transition(conversation.CurrentStep, msg.Text.Body, draft)

	reply, err := s.composeReply(restaurant, decision.Intent, draft, msg.Text.Body)
	if err != nil {
		return "", err
	}

	if err := s.Sender.SendText(phone, reply); err != nil {
		return "", fmt.Errorf("failed to send reply: %w", err)
	}

	if err := s.DB.CreateMessage(&models.WhatsAppMessage{
		ID:             uuid.New().String(),
		ConversationID: conversation.ID,
		Direction:      models.DirectionOutbound,
		Content:        reply,
		Type:           "text",
		Status:         "sent",
		CreatedAt:      now,
	}); err != nil {
		return "", fmt.Errorf("failed to persist outbound message: %w", err)
	}

	conversation.CurrentStep = decision.Next
	conversation.LastMessageAt = now
	if err := conversation.SetDraft(draft); err != nil {
		return "", fmt.Errorf("failed to serialize draft: %w", err)
	}
	if err := s.DB.UpdateConversation(conversation); err != nil {
		return "", fmt.Errorf("failed to update conversation: %w", err)
	}

	s.Log.LogWhatsApp("REPLY", phone, fmt.Sprintf("Step %s, %d draft line(s)", decision.Next, len(draft.Lines)))
	return reply, nil
}

// composeReply produces the outbound text: AI-generated when the restaurant
// has AI replies on, static wording otherwise. A missing AI key is a hard
// failure here, never a silent downgrade.
func (s *Service) composeReply(restaurant *models.Restaurant, intent ReplyIntent, draft *models.OrderDraft, inbound string) (string, error) {
	if !restaurant.WhatsAppAIEnabled {
		return staticReply(restaurant, intent, draft), nil
	}

	aiCtx, err := s.BuildAIContext(restaurant.ID)
	if err != nil {
		return "", err
	}
	systemPrompt := aiCtx.SystemPrompt() + "\n" + intentInstruction(intent, draft)

	reply, err := s.AI.Complete(systemPrompt, inbound)
	if err != nil {
		return "", fmt.Errorf("AI reply failed: %w", err)
	}
	return reply, nil
}

// BuildAIContext assembles the restaurant context the bot prompt embeds.
func (s *Service) BuildAIContext(restaurantID string) (*AIContext, error) {
	restaurant, err := s.DB.GetRestaurantByID(restaurantID)
	if err != nil {
		return nil, fmt.Errorf("failed to load restaurant: %w", err)
	}
	if restaurant == nil {
		return nil, ErrRestaurantNotFound
	}

	settings, err := s.DB.GetOrderSettings(restaurantID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order settings: %w", err)
	}

	menu, err := s.DB.GetMenuItemsByRestaurant(restaurantID)
	if err != nil {
		return nil, fmt.Errorf("failed to load menu: %w", err)
	}

	ctx := &AIContext{
		RestaurantName: restaurant.Name,
		OpeningHours:   restaurant.OpeningHours,
		CurrencyCode:   restaurant.CurrencyCode,
		RequireEmail:   settings.RequireEmail,
	}
	for _, item := range menu {
		if !item.Available {
			continue
		}
		ctx.Menu = append(ctx.Menu, AIContextItem{
			Name:     item.Name,
			Category: item.Category,
			Price:    item.Price,
		})
	}
	return ctx, nil
}
