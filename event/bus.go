package event

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// Handler receives events published on a Bus
// Implementations must be comparable (pointer receivers) so Unsubscribe can find them
type Handler interface {
	HandleEvent(ev GameEvent) error
}

// Bus is a synchronous publish/subscribe channel scoped to one session
//
// Architecture:
//   - Publish notifies handlers on the calling goroutine, in subscription order
//   - The subscriber list is snapshotted when Publish starts
//   - Subscribe/Unsubscribe are idempotent per (handler, type)
//   - A failing or panicking handler is logged and delivery continues
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
	logger   *slog.Logger
}

// NewBus creates an empty bus; a nil logger falls back to slog.Default
func NewBus(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{
		handlers: make(map[EventType][]Handler),
		logger:   logger,
	}
}

// Subscribe adds h for events of type t
// Subscribing the same handler twice for one type has no effect
func (b *Bus) Subscribe(t EventType, h Handler) {
	if h == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	current := b.handlers[t]
	for _, existing := range current {
		if existing == h {
			return
		}
	}
	// Copy on write keeps in-flight snapshots stable
	next := make([]Handler, len(current), len(current)+1)
	copy(next, current)
	b.handlers[t] = append(next, h)
}

// Unsubscribe removes h for events of type t; unknown handlers are ignored
func (b *Bus) Unsubscribe(t EventType, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	current := b.handlers[t]
	for i, existing := range current {
		if existing != h {
			continue
		}
		next := make([]Handler, 0, len(current)-1)
		next = append(next, current[:i]...)
		next = append(next, current[i+1:]...)
		if len(next) == 0 {
			delete(b.handlers, t)
		} else {
			b.handlers[t] = next
		}
		return
	}
}

// Publish delivers ev to every handler subscribed when the call began
// Returns the joined handler errors, nil when all succeeded
func (b *Bus) Publish(ev GameEvent) error {
	if err := CheckPayload(ev); err != nil {
		b.logger.Error("event rejected", "error", err)
		return err
	}

	b.mu.RLock()
	snapshot := b.handlers[ev.Type]
	b.mu.RUnlock()

	var errs []error
	for _, h := range snapshot {
		if err := b.deliver(h, ev); err != nil {
			b.logger.Warn("event handler failed", "event", ev.Type.String(), "error", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// SubscriberCount returns the number of handlers subscribed for t
func (b *Bus) SubscriberCount(t EventType) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers[t])
}

func (b *Bus) deliver(h Handler, ev GameEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic on %s: %v", ev.Type, r)
		}
	}()
	return h.HandleEvent(ev)
}
