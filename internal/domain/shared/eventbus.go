package shared

import "context"

// EventHandler consumes published events. The automation trigger handler and
// the metrics recorder are the two in-process consumers.
type EventHandler interface {
	Handle(ctx context.Context, event DomainEvent) error
	// EventTypes is passed to Subscribe; nil receives everything
	EventTypes() []string
}

// EventPublisher is what application services depend on.
type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}

// EventBus is the publisher plus handler registration and lifecycle, owned
// by cmd/server.
type EventBus interface {
	EventPublisher
	Subscribe(handler EventHandler, eventTypes ...string)
	Unsubscribe(handler EventHandler)
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// PublishAndClear hands the aggregate's pending events to publisher. Events
// are drained even with a nil publisher so they never go out twice.
func PublishAndClear(ctx context.Context, publisher EventPublisher, agg AggregateRoot) error {
	if events := agg.PullDomainEvents(); publisher != nil && len(events) > 0 {
		return publisher.Publish(ctx, events...)
	}
	return nil
}
