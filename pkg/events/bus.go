package events

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// Handler consumes a single event. Handlers for a typed subscription may
// assume the payload shape that type's contract fixes.
type Handler func(Event)

// CancelFunc removes the subscription it was returned for. Safe to call
// more than once; calls after the first are no-ops.
type CancelFunc func()

type subscription struct {
	id      uint64
	handler Handler
}

// Bus dispatches events synchronously to subscribed handlers. It keeps no
// event history; a handler subscribed after a publish never sees that event.
type Bus struct {
	mu       sync.RWMutex
	subs     map[string][]*subscription
	wildcard []*subscription
	nextID   uint64
	logger   *logrus.Logger
	onFault  func(eventType string)
}

// NewBus creates an event bus. A nil logger falls back to the standard
// logrus logger.
func NewBus(logger *logrus.Logger) *Bus {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Bus{
		subs:   make(map[string][]*subscription),
		logger: logger,
	}
}

// OnFault installs a callback invoked after a handler panic has been
// recovered, in addition to the log record. Used by the host to feed
// metrics; must be set before the bus is shared.
func (b *Bus) OnFault(fn func(eventType string)) {
	b.onFault = fn
}

// Subscribe registers handler for every subsequent publish of eventType.
func (b *Bus) Subscribe(eventType string, handler Handler) CancelFunc {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	sub := &subscription{id: b.nextID, handler: handler}
	b.subs[eventType] = append(b.subs[eventType], sub)

	id := sub.id
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.subs[eventType] = remove(b.subs[eventType], id)
		if len(b.subs[eventType]) == 0 {
			delete(b.subs, eventType)
		}
	}
}

// SubscribeAll registers handler for every subsequent publish regardless
// of event type.
func (b *Bus) SubscribeAll(handler Handler) CancelFunc {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	sub := &subscription{id: b.nextID, handler: handler}
	b.wildcard = append(b.wildcard, sub)

	id := sub.id
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.wildcard = remove(b.wildcard, id)
	}
}

// Publish synchronously delivers event to every handler subscribed to its
// type, then to every wildcard handler, in registration order. A panicking
// handler is logged and skipped; it never prevents delivery to the rest.
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	handlers := make([]*subscription, 0, len(b.subs[event.Type])+len(b.wildcard))
	handlers = append(handlers, b.subs[event.Type]...)
	handlers = append(handlers, b.wildcard...)
	b.mu.RUnlock()

	for _, sub := range handlers {
		b.invoke(sub, event)
	}
}

// invoke runs one handler behind a recover boundary so a faulty subscriber
// cannot unwind the publish sweep.
func (b *Bus) invoke(sub *subscription, event Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.WithFields(logrus.Fields{
				"event_id":   event.ID,
				"event_type": event.Type,
				"panic":      r,
			}).Error("Event handler failed")
			if b.onFault != nil {
				b.onFault(event.Type)
			}
		}
	}()
	sub.handler(event)
}

func remove(subs []*subscription, id uint64) []*subscription {
	for i, sub := range subs {
		if sub.id == id {
			return append(subs[:i], subs[i+1:]...)
		}
	}
	return subs
}
