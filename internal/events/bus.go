package events

import (
	"sync"

	"nfttrader-backend/internal/domain"
)

// Handler receives every published event. Handlers must not block; slow
// consumers should hand off to their own goroutine.
type Handler func(domain.Event)

// Bus is a process-local observer registry. Usecases publish lifecycle
// notifications; the host subscribes whatever it wants (websocket feed, push
// notifier, logs). Independent instances do not share state, so tests can
// build their own.
type Bus struct {
	mu       sync.RWMutex
	handlers []Handler
}

func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers a handler for all subsequent events.
func (b *Bus) Subscribe(h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, h)
}

// Publish delivers the event to every handler synchronously, in registration
// order.
func (b *Bus) Publish(e domain.Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers))
	copy(handlers, b.handlers)
	b.mu.RUnlock()

	for _, h := range handlers {
		h(e)
	}
}

var _ domain.Publisher = (*Bus)(nil)
