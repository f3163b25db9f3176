// Package events carries domain events between modules without the
// publisher knowing who listens.
package events

import "time"

// Event is implemented by every domain event. The name keys handler
// registration, so two event types must never share one.
type Event interface {
	EventName() string
	OccurredAt() time.Time
}

// BaseEvent supplies the timestamp so event structs only declare their
// payload.
type BaseEvent struct {
	Timestamp time.Time `json:"timestamp"`
}

func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// NewBaseEvent stamps an event with the current time.
func NewBaseEvent() BaseEvent {
	return BaseEvent{Timestamp: time.Now()}
}
