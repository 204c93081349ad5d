package event

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/furnitureops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type testEvent struct {
	shared.BaseDomainEvent
}

func newTestEvent(eventType string) *testEvent {
	return &testEvent{BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "Order", uuid.New(), uuid.New())}
}

type testHandler struct {
	types   []string
	mu      sync.Mutex
	handled []string
	err     error
	panics  bool
}

func (h *testHandler) Handle(ctx context.Context, ev shared.DomainEvent) error {
	if h.panics {
		panic("boom")
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handled = append(h.handled, ev.EventType())
	return h.err
}

func (h *testHandler) EventTypes() []string { return h.types }

func (h *testHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.handled)
}

type funcHandler struct {
	types []string
	fn    func(ctx context.Context, ev shared.DomainEvent) error
}

func (h *funcHandler) Handle(ctx context.Context, ev shared.DomainEvent) error { return h.fn(ctx, ev) }

func (h *funcHandler) EventTypes() []string { return h.types }

func TestInMemoryEventBus_SynchronousBeforeStart(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop(), Config{})
	orders := &testHandler{types: []string{"order.created"}}
	all := &testHandler{}
	bus.Subscribe(orders)
	bus.Subscribe(all)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("order.created"), newTestEvent("invoice.paid")))

	assert.Equal(t, []string{"order.created"}, orders.handled)
	assert.Equal(t, []string{"order.created", "invoice.paid"}, all.handled)
}

func TestInMemoryEventBus_AsyncWhileRunning(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop(), Config{Workers: 2, QueueSize: 8})
	h := &testHandler{types: []string{"order.created"}}
	bus.Subscribe(h)
	require.NoError(t, bus.Start(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	for i := 0; i < 20; i++ {
		require.NoError(t, bus.Publish(ctx, newTestEvent("order.created")))
	}
	cancel() // a cancelled request must not cancel queued handlers

	require.NoError(t, bus.Stop(context.Background()))
	assert.Equal(t, 20, h.count())
}

func TestInMemoryEventBus_HandlerFailuresAreIsolated(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop(), Config{})
	bad := &testHandler{types: []string{"order.created"}, err: errors.New("sms down")}
	panicky := &testHandler{types: []string{"order.created"}, panics: true}
	good := &testHandler{types: []string{"order.created"}}
	bus.Subscribe(bad)
	bus.Subscribe(panicky)
	bus.Subscribe(good)

	assert.NoError(t, bus.Publish(context.Background(), newTestEvent("order.created")))
	assert.Equal(t, 1, bad.count())
	assert.Equal(t, 1, good.count())
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop(), Config{})
	h := &testHandler{types: []string{"order.created"}}
	bus.Subscribe(h)
	bus.Unsubscribe(h)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("order.created")))
	assert.Equal(t, 0, h.count())
}

func TestInMemoryEventBus_StopIsIdempotent(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop(), Config{Workers: 1})
	require.NoError(t, bus.Start(context.Background()))
	require.NoError(t, bus.Start(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, bus.Stop(ctx))
	require.NoError(t, bus.Stop(ctx))
}

func TestInMemoryEventBus_SyncFallbackPublishesWhileStopping(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop(), Config{Workers: 1, QueueSize: 1})
	busy := make(chan struct{}, 2)
	release := make(chan struct{})
	bus.Subscribe(&funcHandler{types: []string{"production.stalled"}, fn: func(context.Context, shared.DomainEvent) error {
		busy <- struct{}{}
		<-release
		return nil
	}})
	nested := &testHandler{types: []string{"order.updated"}}
	bus.Subscribe(nested)

	stopped := make(chan error, 1)
	bus.Subscribe(&funcHandler{types: []string{"order.created"}, fn: func(ctx context.Context, _ shared.DomainEvent) error {
		go func() { stopped <- bus.Stop(context.Background()) }()
		// let Stop queue up for the write lock
		time.Sleep(50 * time.Millisecond)
		return bus.Publish(ctx, newTestEvent("order.updated"))
	}})
	require.NoError(t, bus.Start(context.Background()))

	ctx := context.Background()
	require.NoError(t, bus.Publish(ctx, newTestEvent("production.stalled")))
	<-busy // the only worker is occupied
	require.NoError(t, bus.Publish(ctx, newTestEvent("production.stalled")))

	published := make(chan struct{})
	go func() {
		defer close(published)
		// the queue is full, so this one is dispatched on the caller
		_ = bus.Publish(ctx, newTestEvent("order.created"))
	}()
	select {
	case <-published:
	case <-time.After(2 * time.Second):
		t.Fatal("synchronous dispatch deadlocked against Stop")
	}
	assert.Equal(t, 1, nested.count())

	close(release)
	require.NoError(t, <-stopped)
}
