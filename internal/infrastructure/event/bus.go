package event

import (
	"context"
	"sync"
	"time"

	"github.com/furnitureops/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Config tunes the asynchronous dispatcher
type Config struct {
	Workers        int
	QueueSize      int
	HandlerTimeout time.Duration
}

// DefaultConfig returns the dispatcher defaults
func DefaultConfig() Config {
	return Config{Workers: 4, QueueSize: 256, HandlerTimeout: 2 * time.Minute}
}

type envelope struct {
	ctx   context.Context
	event shared.DomainEvent
}

// InMemoryEventBus delivers domain events to subscribed handlers. Before
// Start and after Stop events are delivered synchronously; while running they
// are queued and handled by a worker pool so request handlers do not wait on
// automation side effects. A full queue falls back to synchronous delivery.
type InMemoryEventBus struct {
	registry *handlerRegistry
	logger   *zap.Logger
	cfg      Config

	mu      sync.RWMutex
	queue   chan envelope
	running bool
	wg      sync.WaitGroup
}

// NewInMemoryEventBus creates a bus with the given dispatcher config
func NewInMemoryEventBus(logger *zap.Logger, cfg Config) *InMemoryEventBus {
	def := DefaultConfig()
	if cfg.Workers <= 0 {
		cfg.Workers = def.Workers
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = def.QueueSize
	}
	if cfg.HandlerTimeout <= 0 {
		cfg.HandlerTimeout = def.HandlerTimeout
	}
	return &InMemoryEventBus{
		registry: newHandlerRegistry(),
		logger:   logger.Named("eventbus"),
		cfg:      cfg,
	}
}

// Publish hands events to their handlers. Handler errors are logged and
// never returned to the publisher.
func (b *InMemoryEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	// handlers outlive the request that published the event
	detached := context.WithoutCancel(ctx)

	for _, ev := range events {
		if !b.enqueue(detached, ev) {
			b.dispatch(detached, ev)
		}
	}
	return nil
}

// enqueue hands ev to the workers and reports false when the caller must
// dispatch it. The read lock covers only the send, never a handler, so a
// synchronous handler may publish while Stop waits for the write lock.
func (b *InMemoryEventBus) enqueue(ctx context.Context, ev shared.DomainEvent) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.running {
		return false
	}
	select {
	case b.queue <- envelope{ctx: ctx, event: ev}:
		return true
	default:
		b.logger.Warn("event queue full, dispatching synchronously", zap.String("event_type", ev.EventType()))
		return false
	}
}

// Subscribe registers a handler for the given types, or for the handler's
// own EventTypes when none are given
func (b *InMemoryEventBus) Subscribe(handler shared.EventHandler, eventTypes ...string) {
	if len(eventTypes) == 0 {
		eventTypes = handler.EventTypes()
	}
	b.registry.register(handler, eventTypes...)
	b.logger.Debug("handler subscribed", zap.Strings("event_types", eventTypes))
}

// Unsubscribe removes a handler
func (b *InMemoryEventBus) Unsubscribe(handler shared.EventHandler) {
	b.registry.unregister(handler)
}

// Start launches the worker pool
func (b *InMemoryEventBus) Start(_ context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.running {
		return nil
	}
	b.queue = make(chan envelope, b.cfg.QueueSize)
	for i := 0; i < b.cfg.Workers; i++ {
		b.wg.Add(1)
		go b.worker(b.queue)
	}
	b.running = true
	b.logger.Info("event bus started", zap.Int("workers", b.cfg.Workers))
	return nil
}

// Stop closes the queue and waits for queued events to drain or ctx to end
func (b *InMemoryEventBus) Stop(ctx context.Context) error {
	b.mu.Lock()
	if !b.running {
		b.mu.Unlock()
		return nil
	}
	b.running = false
	close(b.queue)
	b.mu.Unlock()

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		b.logger.Info("event bus stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (b *InMemoryEventBus) worker(queue <-chan envelope) {
	defer b.wg.Done()
	for env := range queue {
		b.dispatch(env.ctx, env.event)
	}
}

func (b *InMemoryEventBus) dispatch(ctx context.Context, ev shared.DomainEvent) {
	for _, h := range b.registry.lookup(ev.EventType()) {
		b.handle(ctx, h, ev)
	}
}

func (b *InMemoryEventBus) handle(ctx context.Context, h shared.EventHandler, ev shared.DomainEvent) {
	ctx, cancel := context.WithTimeout(ctx, b.cfg.HandlerTimeout)
	defer cancel()
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("handler panicked",
				zap.String("event_type", ev.EventType()),
				zap.String("event_id", ev.EventID().String()),
				zap.Any("panic", r),
			)
		}
	}()
	if err := h.Handle(ctx, ev); err != nil {
		b.logger.Error("handler failed to process event",
			zap.String("event_type", ev.EventType()),
			zap.String("event_id", ev.EventID().String()),
			zap.Error(err),
		)
	}
}

var _ shared.EventBus = (*InMemoryEventBus)(nil)
