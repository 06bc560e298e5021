package repo

import (
	"repoproxy/internal/domain/events"

	"github.com/rs/zerolog"
)

// Event types
const (
	EventTypeEnrichmentSkipped = "repository.enrichment_skipped"
)

// EnrichmentSkippedEvent is raised when a search result is dropped because
// its language breakdown could not be fetched
type EnrichmentSkippedEvent struct {
	events.BaseEvent
	FullName string
	Reason   string
}

// NewEnrichmentSkippedEvent creates a new EnrichmentSkippedEvent
func NewEnrichmentSkippedEvent(fullName string, reason error) *EnrichmentSkippedEvent {
	msg := ""
	if reason != nil {
		msg = reason.Error()
	}
	return &EnrichmentSkippedEvent{
		BaseEvent: events.NewBaseEvent(EventTypeEnrichmentSkipped, fullName),
		FullName:  fullName,
		Reason:    msg,
	}
}

// MarshalZerologObject adds the skip reason to the common event fields
func (e *EnrichmentSkippedEvent) MarshalZerologObject(ev *zerolog.Event) {
	e.BaseEvent.MarshalZerologObject(ev)
	ev.Str("reason", e.Reason)
}
