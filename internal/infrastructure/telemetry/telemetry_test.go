package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func installRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })
	return rec
}

func TestSetup_Disabled(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()

	providers, err := Setup(ctx, Config{MetricsEnabled: true, LogsEnabled: true}, logger)
	require.NoError(t, err)
	assert.False(t, providers.TracingEnabled())
	providers.EnableSpanProfiles()
	assert.NotNil(t, providers.Meter("test"))
	assert.Same(t, logger, providers.Bridge(logger, zapcore.InfoLevel))
	assert.NoError(t, providers.Shutdown(ctx))

	var none *Providers
	assert.False(t, none.TracingEnabled())
	assert.NotNil(t, none.Meter("test"))

	p, err := NewProfiler(ProfilerConfig{}, logger)
	require.NoError(t, err)
	assert.False(t, p.IsEnabled())
	assert.NoError(t, p.Stop())
	assert.NoError(t, p.Stop())
}

func TestLevelFilterCore(t *testing.T) {
	inner, logs := observer.New(zapcore.DebugLevel)
	core := &levelFilterCore{Core: inner, minLevel: zapcore.WarnLevel}
	l := zap.New(core).With(zap.String("tenant_id", "t1"))

	l.Info("order confirmed")
	l.Warn("invoice overdue")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "invoice overdue", logs.All()[0].Message)
	assert.Equal(t, "t1", logs.All()[0].ContextMap()["tenant_id"])
}

func TestNewProfiler_RequiresAddress(t *testing.T) {
	_, err := NewProfiler(ProfilerConfig{Enabled: true, ApplicationName: "x"}, zap.NewNop())
	assert.Error(t, err)
	_, err = NewProfiler(ProfilerConfig{Enabled: true, ServerAddress: "http://localhost:4040"}, zap.NewNop())
	assert.Error(t, err)
}

func TestSamplerFor(t *testing.T) {
	assert.Equal(t, sdktrace.AlwaysSample().Description(), samplerFor(1).Description())
	assert.Equal(t, sdktrace.NeverSample().Description(), samplerFor(0).Description())
	assert.Contains(t, samplerFor(0.25).Description(), "TraceIDRatioBased")
}

func TestStartSpanAndEndSpan(t *testing.T) {
	rec := installRecorder(t)

	ctx, span := StartSpan(context.Background(), "export.generate", Attr("format", "csv"), Attr("rows", 3))
	assert.NotEmpty(t, TraceID(ctx))
	EndSpan(span, errors.New("boom"))

	_, ok := StartSpan(context.Background(), "ok")
	EndSpan(ok, nil)

	spans := rec.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "export.generate", spans[0].Name())
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Contains(t, spans[0].Attributes(), attribute.String("format", "csv"))
	assert.Contains(t, spans[0].Attributes(), attribute.Int("rows", 3))
	assert.Equal(t, codes.Ok, spans[1].Status().Code)
}

func TestTraceID_NoSpan(t *testing.T) {
	assert.Empty(t, TraceID(context.Background()))
}

func TestAttr(t *testing.T) {
	id := uuid.New()
	assert.Equal(t, attribute.String("id", id.String()), Attr("id", id))
	assert.Equal(t, attribute.Bool("b", true), Attr("b", true))
	assert.Equal(t, attribute.Float64("f", 1.5), Attr("f", 1.5))
	assert.Equal(t, attribute.String("s", "[1 2]"), Attr("s", []int{1, 2}))
}

func TestAppMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	m, err := NewAppMetrics(mp.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	tenant := uuid.New()
	m.OrderCreated(ctx, tenant)
	m.OrderCreated(ctx, tenant)
	m.InvoiceIssued(ctx, tenant)
	m.PaymentRecorded(ctx, tenant, "card", decimal.NewFromFloat(125.5))
	m.MessageSent(ctx, "sms", true)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))

	got := map[string]metricdata.Aggregation{}
	for _, sm := range rm.ScopeMetrics {
		for _, md := range sm.Metrics {
			got[md.Name] = md.Data
		}
	}
	orders, ok := got["furn.orders.created"].(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, orders.DataPoints, 1)
	assert.Equal(t, int64(2), orders.DataPoints[0].Value)

	payments, ok := got["furn.payments.amount"].(metricdata.Sum[float64])
	require.True(t, ok)
	assert.InDelta(t, 125.5, payments.DataPoints[0].Value, 0.001)
}

func TestAppMetrics_NilIsNoop(t *testing.T) {
	var m *AppMetrics
	assert.NotPanics(t, func() {
		m.OrderCreated(context.Background(), uuid.New())
		m.MessageSent(context.Background(), "email", false)
		m.ExportGenerated(context.Background(), "customers", "csv", 0)
	})
}

func TestLabelPairs(t *testing.T) {
	long := make([]byte, 200)
	for i := range long {
		long[i] = 'a'
	}
	pairs := labelPairs(map[string]string{
		"operation": "campaign_send",
		"user_id":   "u1",
		"tenant_id": string(long),
		"empty":     "",
	})
	require.Len(t, pairs, 4)
	assert.Equal(t, "operation", pairs[0])
	assert.Equal(t, "tenant_id", pairs[2])
	assert.Len(t, pairs[3], maxLabelValueLength)
}

func TestWithProfilingLabels_RunsFn(t *testing.T) {
	called := false
	WithProfilingLabels(context.Background(), map[string]string{"operation": "sweep"}, func(context.Context) { called = true })
	assert.True(t, called)

	called = false
	WithProfilingLabels(context.Background(), nil, func(context.Context) { called = true })
	assert.True(t, called)
}

type traceRow struct {
	ID   uint
	Name string
}

func TestDBTracingPlugin_RecordsSpans(t *testing.T) {
	rec := installRecorder(t)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&traceRow{}))

	core, logs := observer.New(zapcore.WarnLevel)
	plugin := NewDBTracingPlugin(DBTracingConfig{Enabled: true, SlowQueryThresh: 1, DBSystem: "sqlite"}, zap.New(core))
	require.NoError(t, plugin.Register(db))

	ctx, span := StartSpan(context.Background(), "parent")
	require.NoError(t, db.WithContext(ctx).Create(&traceRow{Name: "oak"}).Error)
	span.End()

	var names []string
	for _, s := range rec.Ended() {
		names = append(names, s.Name())
	}
	assert.Contains(t, names, "parent")
	assert.Greater(t, len(names), 1)
	assert.NotZero(t, logs.FilterMessage("Slow query").Len())
}

func TestDBTracingPlugin_Disabled(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	assert.NoError(t, NewDBTracingPlugin(DBTracingConfig{}, zap.NewNop()).Register(db))
}
