package whatsapp

import (
	"fmt"
	"strings"

	"resto-suite/internal/models"
)

// AIContext is the prompt-building context for a restaurant, also exposed on
// the dashboard API so owners can inspect what the bot knows.
type AIContext struct {
	RestaurantName string          `json:"restaurant_name"`
	OpeningHours   string          `json:"opening_hours"`
	CurrencyCode   string          `json:"currency_code"`
	RequireEmail   bool            `json:"require_email"`
	Menu           []AIContextItem `json:"menu"`
}

type AIContextItem struct {
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
}

// SystemPrompt renders the context into the completion system prompt.
func (c *AIContext) SystemPrompt() string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are the ordering assistant of the restaurant %q.\n", c.RestaurantName)
	if c.OpeningHours != "" {
		fmt.Fprintf(&b, "Opening hours: %s.\n", c.OpeningHours)
	}
	fmt.Fprintf(&b, "Prices are in %s.\n", strings.ToUpper(c.CurrencyCode))
	if c.RequireEmail {
		b.WriteString("Orders require a customer email address.\n")
	}
	b.WriteString("Menu:\n")
	for _, item := range c.Menu {
		fmt.Fprintf(&b, "- %s (%s): %.2f\n", item.Name, item.Category, item.Price)
	}
	b.WriteString("Answer briefly and help the customer assemble a pickup or delivery order.")
	return b.String()
}

// intentInstruction appends per-step guidance to the system prompt so the AI
// wording matches the state the machine just moved to.
func intentInstruction(intent ReplyIntent, draft *models.OrderDraft) string {
	switch intent {
	case IntentWelcome:
		return "Greet the customer and ask what they would like to order."
	case IntentItemAdded:
		return fmt.Sprintf("The customer has %d item(s) noted so far. Acknowledge the last one and ask if they want anything else.", len(draft.Lines))
	case IntentSummary:
		return fmt.Sprintf("Summarize the noted order (%s) and ask the customer to confirm with 'yes'.", strings.Join(draft.Lines, "; "))
	case IntentConfirmed:
		return "Thank the customer and tell them the restaurant will confirm the order shortly."
	case IntentCancelled:
		return "Acknowledge the cancellation politely."
	default:
		return "Ask a short clarifying question so the order can continue."
	}
}

// staticReply is the canned wording used when AI replies are disabled.
func staticReply(restaurant *models.Restaurant, intent ReplyIntent, draft *models.OrderDraft) string {
	switch intent {
	case IntentWelcome:
		return fmt.Sprintf("Welcome to %s! Tell us what you would like to order, one item per message. Say 'done' when you are finished.", restaurant.Name)
	case IntentItemAdded:
		return fmt.Sprintf("Got it, %d item(s) so far. Anything else? Say 'done' when you are finished.", len(draft.Lines))
	case IntentSummary:
		return fmt.Sprintf("Your order: %s. Reply 'yes' to confirm or 'cancel' to start over.", strings.Join(draft.Lines, "; "))
	case IntentConfirmed:
		return fmt.Sprintf("Thank you! %s has received your order and will confirm it shortly.", restaurant.Name)
	case IntentCancelled:
		return "No problem, your order was cancelled. Message us any time to start a new one."
	default:
		return "Sorry, we didn't catch that. Could you rephrase?"
	}
}
