package whatsapp

import (
	"strings"

	"resto-suite/internal/models"
)

// ReplyIntent classifies what the bot should say next. The actual wording is
// produced either by the AI client or by the static templates.
type ReplyIntent int

const (
	IntentWelcome ReplyIntent = iota
	IntentItemAdded
	IntentSummary
	IntentConfirmed
	IntentCancelled
	IntentClarify
)

// StepDecision is the outcome of one conversation transition.
type StepDecision struct {
	Next   models.ConversationStep
	Intent ReplyIntent
}

var (
	doneWords    = []string{"done", "that's all", "thats all", "that is all", "finish", "fertig"}
	confirmWords = []string{"yes", "confirm", "ok", "okay", "ja"}
	declineWords = []string{"no", "change", "nein"}
	cancelWords  = []string{"cancel", "stop", "abbrechen"}
)

func matchesAny(text string, words []string) bool {
	for _, w := range words {
		if text == w || strings.Contains(text, w) {
			return true
		}
	}
	return false
}

// Transition applies one inbound message to the conversation step machine and
// mutates the draft accordingly. All state movement happens here; the reply
// text never drives the state.
func Transition(current models.ConversationStep, text string, draft *models.OrderDraft) StepDecision {
	normalized := strings.ToLower(strings.TrimSpace(text))

	switch current {
	case models.StepWelcome:
		return StepDecision{Next: models.StepCollectingOrder, Intent: IntentWelcome}

	case models.StepCollectingOrder:
		switch {
		case matchesAny(normalized, cancelWords):
			draft.Lines = nil
			return StepDecision{Next: models.StepDone, Intent: IntentCancelled}
		case matchesAny(normalized, doneWords):
			if len(draft.Lines) == 0 {
				return StepDecision{Next: models.StepCollectingOrder, Intent: IntentClarify}
			}
			return StepDecision{Next: models.StepAwaitingConfirmation, Intent: IntentSummary}
		default:
			draft.Lines = append(draft.Lines, strings.TrimSpace(text))
			return StepDecision{Next: models.StepCollectingOrder, Intent: IntentItemAdded}
		}

	case models.StepAwaitingConfirmation:
		switch {
		case matchesAny(normalized, cancelWords):
			draft.Lines = nil
			return StepDecision{Next: models.StepDone, Intent: IntentCancelled}
		case matchesAny(normalized, confirmWords):
			return StepDecision{Next: models.StepDone, Intent: IntentConfirmed}
		case matchesAny(normalized, declineWords):
			return StepDecision{Next: models.StepCollectingOrder, Intent: IntentClarify}
		default:
			return StepDecision{Next: models.StepAwaitingConfirmation, Intent: IntentClarify}
		}

	case models.StepDone:
		// A finished conversation restarts on the next message.
		draft.Lines = nil
		return StepDecision{Next: models.StepCollectingOrder, Intent: IntentWelcome}
	}

	// Unknown step in storage; restart the conversation rather than wedge it.
	draft.Lines = nil
	return StepDecision{Next: models.StepCollectingOrder, Intent: IntentWelcome}
}
