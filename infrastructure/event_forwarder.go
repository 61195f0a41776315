package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"sportsbook/events"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// DomainEventStream is the JetStream stream that stores forwarded events
const DomainEventStream = "sportsbook_events"

const subjectPrefix = "sportsbook."

// EventEnvelope wraps a domain event on the wire
type EventEnvelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	Timestamp     time.Time       `json:"timestamp"`
	SourceService string          `json:"source_service"`
	Payload       json.RawMessage `json:"payload"`
}

// SubjectFor returns the subject a domain event type is published on
func SubjectFor(eventType events.EventType) string {
	return subjectPrefix + string(eventType)
}

// AllSubjects lists every subject the forwarder publishes to
func AllSubjects() []string {
	subjects := make([]string, 0, len(events.AllEventTypes))
	for _, eventType := range events.AllEventTypes {
		subjects = append(subjects, SubjectFor(eventType))
	}
	return subjects
}

// EventForwarder republishes committed domain events to a message bus
type EventForwarder struct {
	publisher MessagePublisher
	source    string
	now       func() time.Time
}

// NewEventForwarder creates a forwarder publishing through publisher
func NewEventForwarder(publisher MessagePublisher) *EventForwarder {
	return &EventForwarder{
		publisher: publisher,
		source:    "sportsbook",
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Attach subscribes the forwarder to every event type on bus
func (f *EventForwarder) Attach(bus *events.Bus) {
	bus.SubscribeAll(func(ctx context.Context, event events.Event) {
		if err := f.Forward(ctx, event); err != nil {
			log.WithFields(log.Fields{
				"eventType": event.Type(),
				"error":     err,
			}).Error("Failed to forward domain event")
		}
	})
}

// Envelope serializes event inside a new envelope
func (f *EventForwarder) Envelope(event events.Event) ([]byte, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event payload: %w", err)
	}

	envelope := EventEnvelope{
		EventID:       uuid.New().String(),
		EventType:     string(event.Type()),
		Timestamp:     f.now(),
		SourceService: f.source,
		Payload:       payload,
	}

	data, err := json.Marshal(envelope)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event envelope: %w", err)
	}
	return data, nil
}

// Forward publishes one event on its subject
func (f *EventForwarder) Forward(ctx context.Context, event events.Event) error {
	data, err := f.Envelope(event)
	if err != nil {
		return err
	}

	subject := SubjectFor(event.Type())
	if err := f.publisher.Publish(ctx, subject, data); err != nil {
		return fmt.Errorf("failed to publish event to %s: %w", subject, err)
	}

	log.WithFields(log.Fields{
		"eventType": event.Type(),
		"subject":   subject,
	}).Debug("Forwarded domain event")
	return nil
}
