package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DomainEvent is something that happened while serving a request. Events
// render themselves as zerolog objects so every log line carries the same
// event fields.
type DomainEvent interface {
	zerolog.LogObjectMarshaler

	EventID() string
	EventType() string
	OccurredAt() time.Time
	// Subject names what the event is about, e.g. a repository full name
	Subject() string
}

// BaseEvent carries the fields shared by every event
type BaseEvent struct {
	id         string
	eventType  string
	subject    string
	occurredAt time.Time
}

// NewBaseEvent stamps a new event with a fresh id and the current time
func NewBaseEvent(eventType, subject string) BaseEvent {
	return BaseEvent{
		id:         uuid.NewString(),
		eventType:  eventType,
		subject:    subject,
		occurredAt: time.Now().UTC(),
	}
}

func (e BaseEvent) EventID() string       { return e.id }
func (e BaseEvent) EventType() string     { return e.eventType }
func (e BaseEvent) Subject() string       { return e.subject }
func (e BaseEvent) OccurredAt() time.Time { return e.occurredAt }

// MarshalZerologObject writes the common event fields
func (e BaseEvent) MarshalZerologObject(ev *zerolog.Event) {
	ev.Str("event_id", e.id).
		Str("event_type", e.eventType).
		Str("subject", e.subject).
		Time("occurred_at", e.occurredAt)
}
