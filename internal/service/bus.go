package service

import (
	"context"
	"sync"

	"vedic_counter/internal/counter"
)

// Handler receives counter events published on a Bus.
type Handler func(ctx context.Context, ev counter.Event)

// Bus delivers events synchronously to subscribers in subscription order.
// Handlers may publish further events; those are delivered before Publish returns.
type Bus struct {
	mu       sync.RWMutex
	handlers []Handler
}

func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers h for every event published after the call.
func (b *Bus) Subscribe(h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, h)
}

// Publish delivers events in order. It must not be called while holding the session lock.
func (b *Bus) Publish(ctx context.Context, events ...counter.Event) {
	if len(events) == 0 {
		return
	}
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers))
	copy(handlers, b.handlers)
	b.mu.RUnlock()

	for _, ev := range events {
		for _, h := range handlers {
			h(ctx, ev)
		}
	}
}
