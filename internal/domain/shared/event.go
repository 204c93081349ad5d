package shared

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent is something that happened to an aggregate, e.g. an order
// changing status or an invoice being paid. Type strings are dotted,
// "orders.order.status_changed", and double as automation trigger names.
type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	OccurredAt() time.Time
	AggregateID() uuid.UUID
	AggregateType() string
	TenantID() uuid.UUID
}

// PayloadEvent exposes flat snake_case fields that automation rules can
// match conditions against and interpolate into action templates.
type PayloadEvent interface {
	DomainEvent
	Payload() map[string]any
}

// BaseDomainEvent implements DomainEvent for embedding in concrete events.
type BaseDomainEvent struct {
	ID            uuid.UUID `json:"id"`
	Type          string    `json:"type"`
	Timestamp     time.Time `json:"timestamp"`
	AggID         uuid.UUID `json:"aggregate_id"`
	AggType       string    `json:"aggregate_type"`
	TenantIDValue uuid.UUID `json:"tenant_id"`
}

// NewBaseDomainEvent stamps a new event for the aggregate aggID.
func NewBaseDomainEvent(eventType, aggType string, aggID, tenantID uuid.UUID) BaseDomainEvent {
	return BaseDomainEvent{
		ID:            uuid.New(),
		Type:          eventType,
		Timestamp:     time.Now(),
		AggID:         aggID,
		AggType:       aggType,
		TenantIDValue: tenantID,
	}
}

func (e *BaseDomainEvent) EventID() uuid.UUID     { return e.ID }
func (e *BaseDomainEvent) EventType() string      { return e.Type }
func (e *BaseDomainEvent) OccurredAt() time.Time  { return e.Timestamp }
func (e *BaseDomainEvent) AggregateID() uuid.UUID { return e.AggID }
func (e *BaseDomainEvent) AggregateType() string  { return e.AggType }
func (e *BaseDomainEvent) TenantID() uuid.UUID    { return e.TenantIDValue }

// EventPayload copies the event's payload and adds the envelope keys
// event_id, event_type, aggregate_id and occurred_at. It reports false for
// events that carry no payload.
func EventPayload(event DomainEvent) (map[string]any, bool) {
	pe, ok := event.(PayloadEvent)
	if !ok {
		return nil, false
	}
	src := pe.Payload()
	payload := make(map[string]any, len(src)+4)
	for k, v := range src {
		payload[k] = v
	}
	payload["event_id"] = event.EventID().String()
	payload["event_type"] = event.EventType()
	payload["aggregate_id"] = event.AggregateID().String()
	payload["occurred_at"] = event.OccurredAt().UTC().Format(time.RFC3339)
	return payload, true
}
