package whatsapp_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"resto-suite/internal/logger"
	"resto-suite/internal/models"
	"resto-suite/internal/whatsapp"
)

type MockDBLayer struct {
	mock.Mock
}

func (m *MockDBLayer) GetRestaurantByID(id string) (*models.Restaurant, error) {
	args := m.Called(id)
	if rest, ok := args.Get(0).(*models.Restaurant); ok {
		return rest, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDBLayer) GetOrderSettings(restaurantID string) (*models.OrderSettings, error) {
	args := m.Called(restaurantID)
	if settings, ok := args.Get(0).(*models.OrderSettings); ok {
		return settings, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDBLayer) GetMenuItemsByRestaurant(restaurantID string) ([]models.MenuItem, error) {
	args := m.Called(restaurantID)
	if items, ok := args.Get(0).([]models.MenuItem); ok {
		return items, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDBLayer) GetConversation(restaurantID, phone string) (*models.WhatsAppConversation, error) {
	args := m.Called(restaurantID, phone)
	if conv, ok := args.Get(0).(*models.WhatsAppConversation); ok {
		return conv, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDBLayer) CreateConversation(conversation *models.WhatsAppConversation) error {
	args := m.Called(conversation)
	return args.Error(0)
}

func (m *MockDBLayer) UpdateConversation(conversation *models.WhatsAppConversation) error {
	args := m.Called(conversation)
	return args.Error(0)
}

func (m *MockDBLayer) CreateMessage(message *models.WhatsAppMessage) error {
	args := m.Called(message)
	return args.Error(0)
}

type MockLock struct {
	mock.Mock
}

func (m *MockLock) LockConversation(restaurantID, phone string) (bool, error) {
	args := m.Called(restaurantID, phone)
	return args.Bool(0), args.Error(1)
}

func (m *MockLock) UnlockConversation(restaurantID, phone string) error {
	args := m.Called(restaurantID, phone)
	return args.Error(0)
}

type MockCompleter struct {
	mock.Mock
}

func (m *MockCompleter) Complete(systemPrompt, userMessage string) (string, error) {
	args := m.Called(systemPrompt, userMessage)
	return args.String(0), args.Error(1)
}

type MockGate struct {
	mock.Mock
}

func (m *MockGate) AllowsWhatsAppBot(userID string) (bool, error) {
	args := m.Called(userID)
	return args.Bool(0), args.Error(1)
}

// CaptureSender records sent replies.
type CaptureSender struct {
	Phone string
	Text  string
}

func (c *CaptureSender) SendText(phone, text string) error {
	c.Phone = phone
	c.Text = text
	return nil
}

func botRestaurant() *models.Restaurant {
	return &models.Restaurant{
		ID:              "rest-1",
		Name:            "Trattoria",
		OwnerUserID:     "user-1",
		CurrencyCode:    "eur",
		WhatsAppEnabled: true,
	}
}

func inboundPayload(from, text string) *models.WebhookPayload {
	payload := &models.WebhookPayload{
		Object: "whatsapp_business_account",
		Entry: []models.WebhookEntry{
			{Changes: []models.WebhookChange{{Field: "messages", Value: models.WebhookValue{
				Messages: []models.InboundMessage{{From: from, Type: "text"}},
			}}}},
		},
	}
	payload.Entry[0].Changes[0].Value.Messages[0].Text.Body = text
	return payload
}

func newTestService(db *MockDBLayer, lock *MockLock, ai *MockCompleter, gate *MockGate, sender whatsapp.MessageSender) *whatsapp.Service {
	return whatsapp.NewService(db, lock, ai, gate, sender, "default-token", logger.NewLogger())
}

func TestVerifyWebhook(t *testing.T) {
	db := new(MockDBLayer)
	db.On("GetRestaurantByID", "rest-1").Return(&models.Restaurant{ID: "rest-1", WhatsAppVerifyToken: "secret"}, nil)
	db.On("GetRestaurantByID", "rest-2").Return(&models.Restaurant{ID: "rest-2"}, nil)
	db.On("GetRestaurantByID", "missing").Return(nil, nil)

	svc := newTestService(db, new(MockLock), new(MockCompleter), new(MockGate), &CaptureSender{})

	challenge, err := svc.VerifyWebhook("rest-1", "subscribe", "secret", "challenge-42")
	assert.NoError(t, err)
	assert.Equal(t, "challenge-42", challenge)

	// Restaurant without its own token falls back to the configured default
	challenge, err = svc.VerifyWebhook("rest-2", "subscribe", "default-token", "c")
	assert.NoError(t, err)
	assert.Equal(t, "c", challenge)

	_, err = svc.VerifyWebhook("rest-1", "subscribe", "wrong", "c")
	assert.ErrorIs(t, err, whatsapp.ErrVerificationFailed)

	_, err = svc.VerifyWebhook("rest-1", "unsubscribe", "secret", "c")
	assert.ErrorIs(t, err, whatsapp.ErrVerificationFailed)

	_, err = svc.VerifyWebhook("missing", "subscribe", "secret", "c")
	assert.ErrorIs(t, err, whatsapp.ErrRestaurantNotFound)
}

func TestHandleInbound_NewConversationStaticReply(t *testing.T) {
	db := new(MockDBLayer)
	lock := new(MockLock)
	gate := new(MockGate)
	sender := &CaptureSender{}

	db.On("GetRestaurantByID", "rest-1").Return(botRestaurant(), nil)
	gate.On("AllowsWhatsAppBot", "user-1").Return(true, nil)
	lock.On("LockConversation", "rest-1", "41791234567").Return(true, nil)
	lock.On("UnlockConversation", "rest-1", "41791234567").Return(nil)
	db.On("GetConversation", "rest-1", "41791234567").Return(nil, nil)
	db.On("CreateConversation", mock.MatchedBy(func(c *models.WhatsAppConversation) bool {
		return c.CurrentStep == models.StepWelcome && c.CustomerPhone == "41791234567"
	})).Return(nil)
	db.On("CreateMessage", mock.MatchedBy(func(m *models.WhatsAppMessage) bool {
		return m.Direction == models.DirectionInbound && m.Content == "hi"
	})).Return(nil).Once()
	db.On("CreateMessage", mock.MatchedBy(func(m *models.WhatsAppMessage) bool {
		return m.Direction == models.DirectionOutbound
	})).Return(nil).Once()
	db.On("UpdateConversation", mock.MatchedBy(func(c *models.WhatsAppConversation) bool {
		return c.CurrentStep == models.StepCollectingOrder
	})).Return(nil)

	svc := newTestService(db, lock, new(MockCompleter), gate, sender)
	reply, err := svc.HandleInbound("rest-1", inboundPayload("+41 79 123 45 67", "hi"))

	require.NoError(t, err)
	assert.Contains(t, reply, "Trattoria")
	assert.Equal(t, "41791234567", sender.Phone)
	db.AssertExpectations(t)
	lock.AssertExpectations(t)
}

func TestHandleInbound_AIReply(t *testing.T) {
	db := new(MockDBLayer)
	lock := new(MockLock)
	gate := new(MockGate)
	ai := new(MockCompleter)
	sender := &CaptureSender{}

	restaurant := botRestaurant()
	restaurant.WhatsAppAIEnabled = true

	db.On("GetRestaurantByID", "rest-1").Return(restaurant, nil)
	gate.On("AllowsWhatsAppBot", "user-1").Return(true, nil)
	lock.On("LockConversation", mock.Anything, mock.Anything).Return(true, nil)
	lock.On("UnlockConversation", mock.Anything, mock.Anything).Return(nil)
	db.On("GetConversation", mock.Anything, mock.Anything).Return(&models.WhatsAppConversation{
		ID:           "conv-1",
		RestaurantID: "rest-1",
		CurrentStep:  models.StepCollectingOrder,
	}, nil)
	db.On("GetOrderSettings", "rest-1").Return(&models.OrderSettings{}, nil)
	db.On("GetMenuItemsByRestaurant", "rest-1").Return([]models.MenuItem{
		{Name: "Margherita", Category: "Pizza", Price: 14.50, Available: true},
		{Name: "Old Special", Category: "Pizza", Price: 12.00, Available: false},
	}, nil)
	ai.On("Complete", mock.MatchedBy(func(prompt string) bool {
		// The prompt embeds the restaurant context but only available items
		return strings.Contains(prompt, "Trattoria") &&
			strings.Contains(prompt, "Margherita") &&
			!strings.Contains(prompt, "Old Special")
	}), "one margherita please").Return("One Margherita, anything else?", nil)
	db.On("CreateMessage", mock.Anything).Return(nil)
	db.On("UpdateConversation", mock.Anything).Return(nil)

	svc := newTestService(db, lock, ai, gate, sender)
	reply, err := svc.HandleInbound("rest-1", inboundPayload("41791234567", "one margherita please"))

	require.NoError(t, err)
	assert.Equal(t, "One Margherita, anything else?", reply)
	ai.AssertExpectations(t)
}

func TestHandleInbound_AINotConfiguredIsHardFailure(t *testing.T) {
	db := new(MockDBLayer)
	lock := new(MockLock)
	gate := new(MockGate)
	ai := new(MockCompleter)

	restaurant := botRestaurant()
	restaurant.WhatsAppAIEnabled = true

	db.On("GetRestaurantByID", "rest-1").Return(restaurant, nil)
	gate.On("AllowsWhatsAppBot", "user-1").Return(true, nil)
	lock.On("LockConversation", mock.Anything, mock.Anything).Return(true, nil)
	lock.On("UnlockConversation", mock.Anything, mock.Anything).Return(nil)
	db.On("GetConversation", mock.Anything, mock.Anything).Return(&models.WhatsAppConversation{
		ID: "conv-1", RestaurantID: "rest-1", CurrentStep: models.StepCollectingOrder,
	}, nil)
	db.On("GetOrderSettings", "rest-1").Return(&models.OrderSettings{}, nil)
	db.On("GetMenuItemsByRestaurant", "rest-1").Return([]models.MenuItem{}, nil)
	db.On("CreateMessage", mock.MatchedBy(func(m *models.WhatsAppMessage) bool {
		return m.Direction == models.DirectionInbound
	})).Return(nil)
	ai.On("Complete", mock.Anything, mock.Anything).Return("", whatsapp.ErrAINotConfigured)

	svc := newTestService(db, lock, ai, gate, &CaptureSender{})
	_, err := svc.HandleInbound("rest-1", inboundPayload("41791234567", "hello"))

	assert.ErrorIs(t, err, whatsapp.ErrAINotConfigured)
	db.AssertNotCalled(t, "UpdateConversation", mock.Anything)
}

func TestHandleInbound_Gates(t *testing.T) {
	t.Run("unknown restaurant", func(t *testing.T) {
		db := new(MockDBLayer)
		db.On("GetRestaurantByID", "missing").Return(nil, nil)

		svc := newTestService(db, new(MockLock), new(MockCompleter), new(MockGate), &CaptureSender{})
		_, err := svc.HandleInbound("missing", inboundPayload("41791234567", "hi"))

		assert.ErrorIs(t, err, whatsapp.ErrRestaurantNotFound)
	})

	t.Run("whatsapp disabled", func(t *testing.T) {
		db := new(MockDBLayer)
		restaurant := botRestaurant()
		restaurant.WhatsAppEnabled = false
		db.On("GetRestaurantByID", "rest-1").Return(restaurant, nil)

		svc := newTestService(db, new(MockLock), new(MockCompleter), new(MockGate), &CaptureSender{})
		_, err := svc.HandleInbound("rest-1", inboundPayload("41791234567", "hi"))

		assert.ErrorIs(t, err, whatsapp.ErrWhatsAppDisabled)
	})

	t.Run("plan without bot", func(t *testing.T) {
		db := new(MockDBLayer)
		gate := new(MockGate)
		db.On("GetRestaurantByID", "rest-1").Return(botRestaurant(), nil)
		gate.On("AllowsWhatsAppBot", "user-1").Return(false, nil)

		svc := newTestService(db, new(MockLock), new(MockCompleter), gate, &CaptureSender{})
		_, err := svc.HandleInbound("rest-1", inboundPayload("41791234567", "hi"))

		assert.ErrorIs(t, err, whatsapp.ErrSubscriptionRequired)
	})

	t.Run("lock held elsewhere", func(t *testing.T) {
		db := new(MockDBLayer)
		lock := new(MockLock)
		gate := new(MockGate)
		db.On("GetRestaurantByID", "rest-1").Return(botRestaurant(), nil)
		gate.On("AllowsWhatsAppBot", "user-1").Return(true, nil)
		lock.On("LockConversation", "rest-1", "41791234567").Return(false, nil)

		svc := newTestService(db, lock, new(MockCompleter), gate, &CaptureSender{})
		_, err := svc.HandleInbound("rest-1", inboundPayload("41791234567", "hi"))

		assert.ErrorIs(t, err, whatsapp.ErrConversationBusy)
		db.AssertNotCalled(t, "CreateConversation", mock.Anything)
	})

	t.Run("no text message is a no-op", func(t *testing.T) {
		db := new(MockDBLayer)
		gate := new(MockGate)
		db.On("GetRestaurantByID", "rest-1").Return(botRestaurant(), nil)
		gate.On("AllowsWhatsAppBot", "user-1").Return(true, nil)

		svc := newTestService(db, new(MockLock), new(MockCompleter), gate, &CaptureSender{})
		reply, err := svc.HandleInbound("rest-1", &models.WebhookPayload{})

		assert.NoError(t, err)
		assert.Empty(t, reply)
	})
}

func TestHandleInbound_FailedSendStillReleasesLock(t *testing.T) {
	db := new(MockDBLayer)
	lock := new(MockLock)
	gate := new(MockGate)

	db.On("GetRestaurantByID", "rest-1").Return(botRestaurant(), nil)
	gate.On("AllowsWhatsAppBot", "user-1").Return(true, nil)
	lock.On("LockConversation", mock.Anything, mock.Anything).Return(true, nil)
	lock.On("UnlockConversation", "rest-1", "41791234567").Return(nil)
	db.On("GetConversation", mock.Anything, mock.Anything).Return(&models.WhatsAppConversation{
		ID: "conv-1", RestaurantID: "rest-1", CurrentStep: models.StepWelcome,
	}, nil)
	db.On("CreateMessage", mock.Anything).Return(nil)

	svc := newTestService(db, lock, new(MockCompleter), gate, failingSender{})
	_, err := svc.HandleInbound("rest-1", inboundPayload("41791234567", "hi"))

	assert.Error(t, err)
	lock.AssertCalled(t, "UnlockConversation", "rest-1", "41791234567")
}

type failingSender struct{}

func (failingSender) SendText(phone, text string) error {
	return errors.New("transport down")
}
