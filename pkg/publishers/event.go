package publishers

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	OutcomeResolved = "resolved"
	OutcomeRejected = "rejected"
)

// Publisher delivers audit events to one sink. Event.ID is stable for the
// life of an event, so sinks that support deduplication key on it.
type Publisher interface {
	ID() string
	Type() string
	Publish(ctx context.Context, evt Event) error
}

// Event records one mutating console action and how it ended.
type Event struct {
	ID         string    `json:"id"`
	Action     string    `json:"action"`
	Input      any       `json:"input,omitempty"`
	Outcome    string    `json:"outcome"`
	Status     int       `json:"status,omitempty"`
	Payload    any       `json:"payload,omitempty"`
	Operator   string    `json:"operator,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewEvent constructs an Event for the given action.
func NewEvent(action, operator string, input any) Event {
	return Event{
		ID:         uuid.NewString(),
		Action:     action,
		Input:      input,
		Operator:   operator,
		OccurredAt: time.Now().UTC(),
	}
}

// Resolve marks the event as a successful outcome.
func (e Event) Resolve(status int, payload any) Event {
	e.Outcome = OutcomeResolved
	e.Status = status
	e.Payload = payload
	return e
}

// Reject marks the event as a failed outcome.
func (e Event) Reject(status int, payload any) Event {
	e.Outcome = OutcomeRejected
	e.Status = status
	e.Payload = payload
	return e
}

// attributes are the message attributes shared by queue-style sinks, so
// subscribers can filter on action and outcome without decoding the body.
func (e Event) attributes() map[string]string {
	return map[string]string{
		"event_id": e.ID,
		"action":   e.Action,
		"outcome":  e.Outcome,
	}
}
