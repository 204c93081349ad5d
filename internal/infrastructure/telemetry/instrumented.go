package telemetry

import (
	"context"

	"github.com/furnitureops/backend/internal/domain/finance"
	"github.com/furnitureops/backend/internal/domain/orders"
	"github.com/furnitureops/backend/internal/domain/shared"
	"github.com/furnitureops/backend/internal/infrastructure/notification"
)

// MetricsEventHandler turns domain events into business counters
type MetricsEventHandler struct {
	metrics *AppMetrics
}

// NewMetricsEventHandler creates the handler to subscribe on the event bus
func NewMetricsEventHandler(metrics *AppMetrics) *MetricsEventHandler {
	return &MetricsEventHandler{metrics: metrics}
}

// EventTypes implements shared.EventHandler
func (h *MetricsEventHandler) EventTypes() []string {
	return []string{
		orders.EventTypeOrderCreated,
		finance.EventTypeInvoiceCreated,
		finance.EventTypePaymentRecorded,
	}
}

// Handle implements shared.EventHandler
func (h *MetricsEventHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *orders.OrderCreatedEvent:
		h.metrics.OrderCreated(ctx, e.TenantID())
	case *finance.InvoiceCreatedEvent:
		h.metrics.InvoiceIssued(ctx, e.TenantID())
	case *finance.PaymentRecordedEvent:
		h.metrics.PaymentRecorded(ctx, e.TenantID(), string(e.Method), e.Amount)
	}
	return nil
}

var _ shared.EventHandler = (*MetricsEventHandler)(nil)

// MeteredSMSSender counts every SMS sent through next
type MeteredSMSSender struct {
	next    notification.SMSSender
	metrics *AppMetrics
}

// NewMeteredSMSSender wraps next
func NewMeteredSMSSender(next notification.SMSSender, metrics *AppMetrics) *MeteredSMSSender {
	return &MeteredSMSSender{next: next, metrics: metrics}
}

// Send implements notification.SMSSender
func (s *MeteredSMSSender) Send(ctx context.Context, to, body string) (string, error) {
	id, err := s.next.Send(ctx, to, body)
	s.metrics.MessageSent(ctx, "sms", err == nil)
	return id, err
}

// MeteredEmailSender counts every email sent through next
type MeteredEmailSender struct {
	next    notification.EmailSender
	metrics *AppMetrics
}

// NewMeteredEmailSender wraps next
func NewMeteredEmailSender(next notification.EmailSender, metrics *AppMetrics) *MeteredEmailSender {
	return &MeteredEmailSender{next: next, metrics: metrics}
}

// Send implements notification.EmailSender
func (s *MeteredEmailSender) Send(ctx context.Context, to, subject, body string) (string, error) {
	id, err := s.next.Send(ctx, to, subject, body)
	s.metrics.MessageSent(ctx, "email", err == nil)
	return id, err
}
