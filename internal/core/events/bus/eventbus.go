package bus

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
)

// allKinds keys catch-all subscriptions.
const allKinds Kind = ""

type subscription struct {
	id     string
	kind   Kind
	active atomic.Bool
	cancel func()
}

func (s *subscription) ID() string     { return s.id }
func (s *subscription) Kind() Kind     { return s.kind }
func (s *subscription) IsActive() bool { return s.active.Load() }
func (s *subscription) Cancel() error {
	if s.active.CompareAndSwap(true, false) && s.cancel != nil {
		s.cancel()
	}
	return nil
}

type entry struct {
	sub     *subscription
	handler EventHandler
}

type inMemoryBus struct {
	mu sync.RWMutex
	// handlers: kind -> subID -> entry
	handlers  map[Kind]map[string]entry
	metrics   EventBusMetrics
	observers map[EventBusObserver]struct{}
}

// New creates a new EventBus instance.
func New() EventBus {
	return &inMemoryBus{
		handlers:  make(map[Kind]map[string]entry),
		observers: make(map[EventBusObserver]struct{}),
	}
}

func (b *inMemoryBus) Publish(event Event) error {
	return b.deliver(event)
}

func (b *inMemoryBus) PublishWithFilters(event Event, filters ...EventFilter) error {
	for _, f := range filters {
		if !f(event) {
			b.mu.Lock()
			b.metrics.DroppedByFilters++
			b.mu.Unlock()
			return nil
		}
	}
	return b.Publish(event)
}

func (b *inMemoryBus) PublishBatch(events ...Event) error {
	var all error
	for _, e := range events {
		all = multierr.Append(all, b.Publish(e))
	}
	return all
}

func (b *inMemoryBus) Subscribe(kind Kind, handler EventHandler) (Subscription, error) {
	return b.subscribe(kind, handler), nil
}

func (b *inMemoryBus) SubscribeAll(handler EventHandler) (Subscription, error) {
	return b.subscribe(allKinds, handler), nil
}

func (b *inMemoryBus) subscribe(kind Kind, handler EventHandler) *subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.handlers[kind] == nil {
		b.handlers[kind] = make(map[string]entry)
	}
	id := uuid.NewString()
	s := &subscription{id: id, kind: kind}
	s.active.Store(true)
	s.cancel = func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.handlers[kind], id)
	}
	b.handlers[kind][id] = entry{sub: s, handler: handler}
	return s
}

func (b *inMemoryBus) Unsubscribe(sub Subscription) error {
	if sub == nil {
		return nil
	}
	return sub.Cancel()
}

func (b *inMemoryBus) AddObserver(obs EventBusObserver) {
	b.mu.Lock()
	b.observers[obs] = struct{}{}
	b.mu.Unlock()
}

func (b *inMemoryBus) RemoveObserver(obs EventBusObserver) {
	b.mu.Lock()
	delete(b.observers, obs)
	b.mu.Unlock()
}

func (b *inMemoryBus) GetMetrics() EventBusMetrics {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.metrics
}

func (b *inMemoryBus) deliver(event Event) error {
	start := time.Now()

	b.mu.RLock()
	targets := make([]entry, 0, len(b.handlers[event.Kind])+len(b.handlers[allKinds]))
	for _, e := range b.handlers[event.Kind] {
		targets = append(targets, e)
	}
	if event.Kind != allKinds {
		for _, e := range b.handlers[allKinds] {
			targets = append(targets, e)
		}
	}
	observers := make([]EventBusObserver, 0, len(b.observers))
	for obs := range b.observers {
		observers = append(observers, obs)
	}
	b.mu.RUnlock()

	for _, obs := range observers {
		obs.OnPublish(event)
	}

	var all error
	delivered := 0
	for _, e := range targets {
		if !e.sub.IsActive() {
			continue
		}
		delivered++
		all = multierr.Append(all, e.handler(event))
	}

	dur := time.Since(start).Microseconds()
	for _, obs := range observers {
		obs.OnDelivered(event, delivered, all, dur)
	}

	b.mu.Lock()
	b.metrics.Published++
	b.metrics.DeliveredHandlers += uint64(delivered)
	if all != nil {
		b.metrics.Errors++
	}
	var subs uint64
	for _, m := range b.handlers {
		subs += uint64(len(m))
	}
	b.metrics.SubscribersActive = subs
	b.mu.Unlock()
	return all
}
