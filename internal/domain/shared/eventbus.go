package shared

import (
	"context"
	"sync"
)

// EventHandler handles domain events
type EventHandler interface {
	// Handle processes a domain event
	Handle(ctx context.Context, event DomainEvent) error
	// EventTypes returns the event types this handler is interested in
	// An empty slice means the handler receives all events
	EventTypes() []string
}

// EventHandlerFunc adapts a plain function to the EventHandler interface.
// It receives all events.
type EventHandlerFunc func(ctx context.Context, event DomainEvent) error

// Handle calls the wrapped function
func (f EventHandlerFunc) Handle(ctx context.Context, event DomainEvent) error {
	return f(ctx, event)
}

// EventTypes returns nil so the handler receives all events
func (f EventHandlerFunc) EventTypes() []string { return nil }

// EventPublisher publishes domain events
type EventPublisher interface {
	// Publish publishes one or more domain events
	Publish(ctx context.Context, events ...DomainEvent) error
}

// InProcessEventBus dispatches events synchronously to subscribed handlers.
// Handler errors are collected but do not stop delivery to other handlers.
type InProcessEventBus struct {
	mu       sync.RWMutex
	handlers map[string][]EventHandler
	catchAll []EventHandler
}

// NewInProcessEventBus creates a new in-process event bus
func NewInProcessEventBus() *InProcessEventBus {
	return &InProcessEventBus{
		handlers: make(map[string][]EventHandler),
	}
}

// Subscribe registers a handler for its declared event types.
// Handlers declaring no event types receive all events.
func (b *InProcessEventBus) Subscribe(handler EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	types := handler.EventTypes()
	if len(types) == 0 {
		b.catchAll = append(b.catchAll, handler)
		return
	}
	for _, t := range types {
		b.handlers[t] = append(b.handlers[t], handler)
	}
}

// Publish delivers events to all matching handlers
func (b *InProcessEventBus) Publish(ctx context.Context, events ...DomainEvent) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var firstErr error
	for _, event := range events {
		for _, h := range b.handlers[event.EventType()] {
			if err := h.Handle(ctx, event); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		for _, h := range b.catchAll {
			if err := h.Handle(ctx, event); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

var _ EventPublisher = (*InProcessEventBus)(nil)
