package events

import (
	"context"
	"log"
	"sync"
)

// Handler receives a published payload. Payload types are the event structs
// in internal/domain; handlers type-assert what they expect.
type Handler func(ctx context.Context, payload any)

// Bus is an in-process, string-keyed publish/subscribe dispatcher. Delivery
// is fire-and-forget: each handler runs in its own goroutine, at most once,
// with no ordering guarantee and no retry.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
}

func NewBus() *Bus {
	return &Bus{handlers: make(map[string][]Handler)}
}

func (b *Bus) Subscribe(event string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[event] = append(b.handlers[event], h)
}

// Publish dispatches the payload to every subscriber of the event. A
// panicking handler is logged and does not affect the publisher or other
// handlers.
func (b *Bus) Publish(ctx context.Context, event string, payload any) {
	b.mu.RLock()
	subscribers := make([]Handler, len(b.handlers[event]))
	copy(subscribers, b.handlers[event])
	b.mu.RUnlock()

	// handlers outlive the request that published the event
	ctx = context.WithoutCancel(ctx)

	for _, h := range subscribers {
		go func(h Handler) {
			defer func() {
				if r := recover(); r != nil {
					log.Printf("event_handler_panic event=%s error=%v", event, r)
				}
			}()
			h(ctx, payload)
		}(h)
	}
}
