package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/furnitureops/backend/internal/domain/finance"
	"github.com/furnitureops/backend/internal/domain/orders"
	"github.com/furnitureops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

type smsFunc func(ctx context.Context, to, body string) (string, error)

func (f smsFunc) Send(ctx context.Context, to, body string) (string, error) { return f(ctx, to, body) }

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Aggregation {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	got := map[string]metricdata.Aggregation{}
	for _, sm := range rm.ScopeMetrics {
		for _, md := range sm.Metrics {
			got[md.Name] = md.Data
		}
	}
	return got
}

func TestMetricsEventHandler(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	m, err := NewAppMetrics(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)).Meter("test"))
	require.NoError(t, err)
	h := NewMetricsEventHandler(m)
	ctx := context.Background()
	tenant := uuid.New()

	require.NoError(t, h.Handle(ctx, &orders.OrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(orders.EventTypeOrderCreated, "Order", uuid.New(), tenant),
	}))
	require.NoError(t, h.Handle(ctx, &finance.PaymentRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(finance.EventTypePaymentRecorded, "Invoice", uuid.New(), tenant),
		Amount:          decimal.NewFromInt(480),
		Method:          finance.PaymentMethodBankTransfer,
	}))
	// events outside EventTypes are ignored
	require.NoError(t, h.Handle(ctx, &orders.OrderStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(orders.EventTypeOrderStatusChanged, "Order", uuid.New(), tenant),
	}))

	got := collect(t, reader)
	created, ok := got["furn.orders.created"].(metricdata.Sum[int64])
	require.True(t, ok)
	assert.Equal(t, int64(1), created.DataPoints[0].Value)
	paid, ok := got["furn.payments.amount"].(metricdata.Sum[float64])
	require.True(t, ok)
	assert.InDelta(t, 480.0, paid.DataPoints[0].Value, 0.001)
	assert.Contains(t, h.EventTypes(), finance.EventTypeInvoiceCreated)
}

func TestMeteredSMSSender(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	m, err := NewAppMetrics(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)).Meter("test"))
	require.NoError(t, err)

	fail := errors.New("carrier rejected")
	s := NewMeteredSMSSender(smsFunc(func(_ context.Context, to, _ string) (string, error) {
		if to == "+15550000000" {
			return "", fail
		}
		return "msg-1", nil
	}), m)

	id, err := s.Send(context.Background(), "+15551234567", "Your sofa has shipped")
	require.NoError(t, err)
	assert.Equal(t, "msg-1", id)
	_, err = s.Send(context.Background(), "+15550000000", "Your sofa has shipped")
	assert.ErrorIs(t, err, fail)

	sent, ok := collect(t, reader)["furn.messages.sent"].(metricdata.Sum[int64])
	require.True(t, ok)
	assert.Len(t, sent.DataPoints, 2)
}
