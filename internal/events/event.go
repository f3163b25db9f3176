// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"ruffo_chat_backend/platform/events"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Order Domain Events
// =============================================================================

// OrderPlaced is published when a customer confirms an order and an order
// number has been assigned.
type OrderPlaced struct {
	BaseEvent
	OrderNumber     string  `json:"orderNumber"`
	ThreadID        string  `json:"threadId"`
	Channel         string  `json:"channel"`
	DeliveryMethod  string  `json:"deliveryMethod"`
	DeliveryAddress string  `json:"deliveryAddress,omitempty"`
	PickupBranch    string  `json:"pickupBranch,omitempty"`
	PaymentMethod   string  `json:"paymentMethod"`
	ItemsSummary    string  `json:"itemsSummary"`
	Subtotal        float64 `json:"subtotal"`
	ShippingCost    float64 `json:"shippingCost"`
	Total           float64 `json:"total"`
}

func (e OrderPlaced) EventName() string { return "order.placed" }

// =============================================================================
// Conversation Domain Events
// =============================================================================

// EscalationRaised is published when a conversation needs a human agent,
// either because the customer asked for one or because the bot gave up.
type EscalationRaised struct {
	BaseEvent
	ThreadID string `json:"threadId"`
	Channel  string `json:"channel"`
	Reason   string `json:"reason"`
	Message  string `json:"message"`
}

func (e EscalationRaised) EventName() string { return "conversation.escalation_raised" }
