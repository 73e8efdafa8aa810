// Package events provides the typed in-process event bus that product
// plugins and the host use to communicate without knowing about each other.
package events

import (
	"time"

	"github.com/google/uuid"
)

// Event type vocabulary. Each type maps to exactly one payload shape;
// adding a type is additive and never changes an existing payload.
const (
	EventPaymentSubmitted = "account.payment.submitted"
	EventPaymentCompleted = "account.payment.completed"
	EventStatementReady   = "account.statement.ready"
	EventInsightGenerated = "ai.insight.generated"
	EventPluginActivated  = "plugin.activated"
	EventCardViewed       = "ui.card.viewed"
)

// Source identifies where an event originated
type Source struct {
	System string `json:"system"`
	Module string `json:"module"`
}

// Event is an immutable message delivered through the Bus. The bus never
// inspects Payload; its shape is fixed by Type and shared between the
// producer and consumers of that type.
type Event struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Payload   any       `json:"payload"`
	Timestamp time.Time `json:"timestamp"`
	Source    Source    `json:"source"`
}

// New builds an event with a generated ID and the current time. Callers
// that need a specific ID construct the Event directly.
func New(eventType string, payload any, source Source) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Payload:   payload,
		Timestamp: time.Now(),
		Source:    source,
	}
}

// PaymentSubmitted is the payload for EventPaymentSubmitted.
type PaymentSubmitted struct {
	AccountID string  `json:"accountId"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	Method    string  `json:"method"`
}

// PaymentCompleted is the payload for EventPaymentCompleted.
type PaymentCompleted struct {
	AccountID      string  `json:"accountId"`
	ConfirmationID string  `json:"confirmationId"`
	Amount         float64 `json:"amount"`
}

// StatementReady is the payload for EventStatementReady.
type StatementReady struct {
	AccountID   string `json:"accountId"`
	Period      string `json:"period"`
	DocumentRef string `json:"documentRef"`
}

// InsightGenerated is the payload for EventInsightGenerated.
type InsightGenerated struct {
	Category   string  `json:"category"`
	Title      string  `json:"title"`
	Body       string  `json:"body"`
	Confidence float64 `json:"confidence"`
}

// PluginActivated is the payload for EventPluginActivated.
type PluginActivated struct {
	PluginID   string        `json:"pluginId"`
	Categories []string      `json:"categories"`
	Duration   time.Duration `json:"duration"`
}

// CardViewed is the payload for EventCardViewed.
type CardViewed struct {
	Category string `json:"category"`
	PluginID string `json:"pluginId"`
}
