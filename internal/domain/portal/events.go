package portal

import (
	"github.com/furnitureops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AggregateTypeThread is the aggregate type name for message threads
const AggregateTypeThread = "MessageThread"

// EventTypeMessagePosted is published for every portal message
const EventTypeMessagePosted = "portal.message_posted"

// MessagePostedEvent is published when a message is posted to a thread
type MessagePostedEvent struct {
	shared.BaseDomainEvent
	ThreadID   uuid.UUID  `json:"thread_id"`
	MessageID  uuid.UUID  `json:"message_id"`
	CustomerID uuid.UUID  `json:"customer_id"`
	SenderType SenderType `json:"sender_type"`
	Subject    string     `json:"subject"`
}

// NewMessagePostedEvent creates a new MessagePostedEvent
func NewMessagePostedEvent(th *MessageThread, msg *Message) *MessagePostedEvent {
	return &MessagePostedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeMessagePosted, AggregateTypeThread, th.ID, th.TenantID),
		ThreadID:        th.ID,
		MessageID:       msg.ID,
		CustomerID:      th.CustomerID,
		SenderType:      msg.SenderType,
		Subject:         th.Subject,
	}
}

// Payload implements shared.PayloadEvent
func (e *MessagePostedEvent) Payload() map[string]any {
	return map[string]any{
		"thread_id":   e.ThreadID.String(),
		"message_id":  e.MessageID.String(),
		"customer_id": e.CustomerID.String(),
		"sender_type": string(e.SenderType),
		"subject":     e.Subject,
	}
}
