package telemetry

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics records business-level metrics. A nil *AppMetrics is valid and records nothing.
type AppMetrics struct {
	ordersCreated  metric.Int64Counter
	invoicesIssued metric.Int64Counter
	paymentsAmount metric.Float64Counter
	messagesSent   metric.Int64Counter
	exportDuration metric.Float64Histogram
}

// NewAppMetrics creates the business instruments on meter.
func NewAppMetrics(meter metric.Meter) (*AppMetrics, error) {
	var (
		m   AppMetrics
		err error
	)
	if m.ordersCreated, err = meter.Int64Counter("furn.orders.created",
		metric.WithDescription("Orders created"), metric.WithUnit("{order}")); err != nil {
		return nil, err
	}
	if m.invoicesIssued, err = meter.Int64Counter("furn.invoices.issued",
		metric.WithDescription("Invoices issued"), metric.WithUnit("{invoice}")); err != nil {
		return nil, err
	}
	if m.paymentsAmount, err = meter.Float64Counter("furn.payments.amount",
		metric.WithDescription("Payment amount recorded against invoices")); err != nil {
		return nil, err
	}
	if m.messagesSent, err = meter.Int64Counter("furn.messages.sent",
		metric.WithDescription("Outbound SMS and email messages"), metric.WithUnit("{message}")); err != nil {
		return nil, err
	}
	if m.exportDuration, err = meter.Float64Histogram("furn.export.duration",
		metric.WithDescription("Export generation duration"), metric.WithUnit("s")); err != nil {
		return nil, err
	}
	return &m, nil
}

func tenantAttr(tenantID uuid.UUID) attribute.KeyValue {
	return attribute.String("tenant_id", tenantID.String())
}

func (m *AppMetrics) OrderCreated(ctx context.Context, tenantID uuid.UUID) {
	if m == nil {
		return
	}
	m.ordersCreated.Add(ctx, 1, metric.WithAttributes(tenantAttr(tenantID)))
}

func (m *AppMetrics) InvoiceIssued(ctx context.Context, tenantID uuid.UUID) {
	if m == nil {
		return
	}
	m.invoicesIssued.Add(ctx, 1, metric.WithAttributes(tenantAttr(tenantID)))
}

func (m *AppMetrics) PaymentRecorded(ctx context.Context, tenantID uuid.UUID, method string, amount decimal.Decimal) {
	if m == nil {
		return
	}
	m.paymentsAmount.Add(ctx, amount.InexactFloat64(), metric.WithAttributes(
		tenantAttr(tenantID), attribute.String("method", method)))
}

// MessageSent counts one outbound message; channel is "sms" or "email".
func (m *AppMetrics) MessageSent(ctx context.Context, channel string, ok bool) {
	if m == nil {
		return
	}
	m.messagesSent.Add(ctx, 1, metric.WithAttributes(
		attribute.String("channel", channel), attribute.Bool("success", ok)))
}

func (m *AppMetrics) ExportGenerated(ctx context.Context, entity, format string, d time.Duration) {
	if m == nil {
		return
	}
	m.exportDuration.Record(ctx, d.Seconds(), metric.WithAttributes(
		attribute.String("entity", entity), attribute.String("format", format)))
}
