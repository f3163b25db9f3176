package conversation

import (
	"ruffo_chat_backend/internal/catalog/transport"
	"ruffo_chat_backend/internal/order/domain"
)

// WaitingFor markers used by the order flow.
const (
	WaitingAddress      = "address"
	WaitingPayment      = "payment"
	WaitingConfirmation = "confirmation"
	WaitingPhoto        = "photo"
)

// State is everything the bot knows about one thread. A thread's state
// is owned by one turn at a time; stores hand out copies, never shared
// pointers.
type State struct {
	ThreadID string `json:"thread_id"`
	Channel  string `json:"channel"`

	Cart  domain.Cart  `json:"cart"`
	Stage domain.Stage `json:"stage"`

	Memory Memory `json:"memory"`

	Intent         string `json:"intent,omitempty"`
	PreviousIntent string `json:"previous_intent,omitempty"`

	FoundProducts   []transport.Product `json:"found_products,omitempty"`
	LastSearchQuery string              `json:"last_search_query,omitempty"`

	UpsellOffered bool `json:"upsell_offered,omitempty"`

	WaitingFor string `json:"waiting_for,omitempty"`

	NeedsEscalation  bool   `json:"needs_escalation,omitempty"`
	EscalationReason string `json:"escalation_reason,omitempty"`

	IsNewConversation bool   `json:"is_new_conversation"`
	Ended             bool   `json:"ended,omitempty"`
	LastReply         string `json:"last_reply,omitempty"`
}

// NewState creates the initial state for a thread.
func NewState(threadID, channel string) *State {
	return &State{
		ThreadID:          threadID,
		Channel:           channel,
		IsNewConversation: true,
	}
}

// ResetOrder drops the order in progress but keeps the memory, so a
// fresh order still knows the customer's pet.
func (s *State) ResetOrder() {
	s.Cart = domain.Cart{}
	s.Stage = domain.StageUnset
	s.FoundProducts = nil
	s.UpsellOffered = false
	s.WaitingFor = ""
}
