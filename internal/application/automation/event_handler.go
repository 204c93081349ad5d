package automation

import (
	"context"

	"github.com/furnitureops/backend/internal/domain/crm"
	"github.com/furnitureops/backend/internal/domain/finance"
	"github.com/furnitureops/backend/internal/domain/orders"
	"github.com/furnitureops/backend/internal/domain/portal"
	"github.com/furnitureops/backend/internal/domain/production"
	"github.com/furnitureops/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// TriggerEvents are the domain events rules can subscribe to
var TriggerEvents = []string{
	crm.EventTypeCustomerCreated,
	crm.EventTypeCustomerStatusChanged,
	orders.EventTypeOrderCreated,
	orders.EventTypeOrderStatusChanged,
	production.EventTypeStageChanged,
	finance.EventTypeInvoiceCreated,
	finance.EventTypeInvoicePaid,
	finance.EventTypeInvoiceOverdue,
	finance.EventTypePaymentRecorded,
	portal.EventTypeMessagePosted,
}

// EventHandler turns domain events into rule triggers
type EventHandler struct {
	processor *Processor
	logger    *zap.Logger
}

// NewEventHandler creates a handler to subscribe on the event bus
func NewEventHandler(processor *Processor, logger *zap.Logger) *EventHandler {
	return &EventHandler{processor: processor, logger: logger}
}

// EventTypes implements shared.EventHandler
func (h *EventHandler) EventTypes() []string {
	return TriggerEvents
}

// Handle implements shared.EventHandler. Events without a payload are ignored.
func (h *EventHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	payload, ok := shared.EventPayload(event)
	if !ok {
		h.logger.Debug("Event has no payload, skipping", zap.String("event_type", event.EventType()))
		return nil
	}

	_, err := h.processor.Process(ctx, event.TenantID(), event.EventType(), payload)
	return err
}

var _ shared.EventHandler = (*EventHandler)(nil)
