package models

import (
	"encoding/json"
	"time"

	"github.com/uptrace/bun"
)

// ConversationStep is the typed state of a WhatsApp ordering conversation.
// Transitions are applied by the conversation service, never inferred from
// free-form AI text.
type ConversationStep string

const (
	StepWelcome              ConversationStep = "welcome"
	StepCollectingOrder      ConversationStep = "collecting_order"
	StepAwaitingConfirmation ConversationStep = "awaiting_confirmation"
	StepDone                 ConversationStep = "done"
)

func (s ConversationStep) Valid() bool {
	switch s {
	case StepWelcome, StepCollectingOrder, StepAwaitingConfirmation, StepDone:
		return true
	}
	return false
}

// OrderDraft is the partial order collected over a conversation, serialized
// into the conversation row. Lines are the customer's free-text order lines
// in the order they arrived.
type OrderDraft struct {
	Lines        []string  `json:"lines,omitempty"`
	CustomerName string    `json:"customer_name,omitempty"`
	OrderType    OrderType `json:"order_type,omitempty"`
	Notes        string    `json:"notes,omitempty"`
}

type WhatsAppConversation struct {
	bun.BaseModel `bun:"table:whatsapp_conversations"`

	ID            string           `bun:"id,pk" json:"id"`
	RestaurantID  string           `bun:"restaurant_id,notnull" json:"restaurant_id"`
	CustomerPhone string           `bun:"customer_phone,notnull" json:"customer_phone"`
	CurrentStep   ConversationStep `bun:"current_step,notnull" json:"current_step"`
	OrderData     string           `bun:"order_data,nullzero" json:"-"`
	LastMessageAt time.Time        `bun:"last_message_at,notnull" json:"last_message_at"`
	CreatedAt     time.Time        `bun:"created_at,notnull" json:"created_at"`
}

// Draft decodes the serialized order draft; an empty column yields an empty draft.
func (c *WhatsAppConversation) Draft() (*OrderDraft, error) {
	draft := &OrderDraft{}
	if c.OrderData == "" {
		return draft, nil
	}
	if err := json.Unmarshal([]byte(c.OrderData), draft); err != nil {
		return nil, err
	}
	return draft, nil
}

func (c *WhatsAppConversation) SetDraft(draft *OrderDraft) error {
	data, err := json.Marshal(draft)
	if err != nil {
		return err
	}
	c.OrderData = string(data)
	return nil
}

type MessageDirection string

const (
	DirectionInbound  MessageDirection = "inbound"
	DirectionOutbound MessageDirection = "outbound"
)

type WhatsAppMessage struct {
	bun.BaseModel `bun:"table:whatsapp_messages"`

	ID             string           `bun:"id,pk" json:"id"`
	ConversationID string           `bun:"conversation_id,notnull" json:"conversation_id"`
	Direction      MessageDirection `bun:"direction,notnull" json:"direction"`
	Content        string           `bun:"content,notnull" json:"content"`
	Type           string           `bun:"message_type,notnull,default:'text'" json:"message_type"`
	Status         string           `bun:"status,notnull,default:'received'" json:"status"`
	CreatedAt      time.Time        `bun:"created_at,notnull" json:"created_at"`
}

// ---------------- Provider webhook envelope ----------------

type WebhookPayload struct {
	Object string         `json:"object"`
	Entry  []WebhookEntry `json:"entry"`
}

type WebhookEntry struct {
	ID      string          `json:"id"`
	Changes []WebhookChange `json:"changes"`
}

type WebhookChange struct {
	Field string       `json:"field"`
	Value WebhookValue `json:"value"`
}

type WebhookValue struct {
	MessagingProduct string            `json:"messaging_product"`
	Messages         []InboundMessage  `json:"messages"`
	Contacts         []WebhookContact  `json:"contacts"`
	Metadata         map[string]string `json:"metadata"`
}

type WebhookContact struct {
	WaID    string `json:"wa_id"`
	Profile struct {
		Name string `json:"name"`
	} `json:"profile"`
}

type InboundMessage struct {
	From      string `json:"from"`
	ID        string `json:"id"`
	Timestamp string `json:"timestamp"`
	Type      string `json:"type"`
	Text      struct {
		Body string `json:"body"`
	} `json:"text"`
}

// FirstTextMessage returns the first inbound text message of the payload.
func (p *WebhookPayload) FirstTextMessage() *InboundMessage {
	for _, entry := range p.Entry {
		for _, change := range entry.Changes {
			for i := range change.Value.Messages {
				msg := &change.Value.Messages[i]
				if msg.Type == "text" && msg.Text.Body != "" {
					return msg
				}
			}
		}
	}
	return nil
}
