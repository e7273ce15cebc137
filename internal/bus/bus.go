// Package bus decouples store mutation from view refresh: a named
// publish/subscribe channel with synchronous in-order delivery, plus a
// fixed-interval ticker that gives every mounted view a heartbeat to
// re-read the store.
package bus

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Boltio1992/BottleMessage/pkg/interfaces"
)

// Handler receives a published event. Handlers run synchronously on
// the publisher's goroutine and must not block.
type Handler func(evt interfaces.Event)

type subscriber struct {
	id      uint64
	handler Handler
}

// Bus is the event/polling bus. The zero value is not usable; use New.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[string][]subscriber
	nextID      uint64

	tickInterval time.Duration
	running      bool
	shutdown     chan struct{}
	wg           sync.WaitGroup
}

// New creates a bus whose ticker publishes a state update every
// tickInterval.
func New(tickInterval time.Duration) *Bus {
	return &Bus{
		subscribers:  make(map[string][]subscriber),
		tickInterval: tickInterval,
	}
}

// Subscription is a disposable handle for one registered handler.
// Every view that subscribes on mount releases its subscriptions on
// teardown; without that discipline handlers from abandoned views keep
// firing forever.
type Subscription struct {
	bus  *Bus
	name string
	id   uint64
	once sync.Once
}

// Cancel unregisters the handler. Safe to call more than once.
func (s *Subscription) Cancel() {
	s.once.Do(func() {
		s.bus.mu.Lock()
		defer s.bus.mu.Unlock()

		subs := s.bus.subscribers[s.name]
		for i, sub := range subs {
			if sub.id == s.id {
				s.bus.subscribers[s.name] = append(subs[:i:i], subs[i+1:]...)
				break
			}
		}
	})
}

// Subscribe registers a handler for the named event and returns its
// disposable handle. Registration order is delivery order, and it is
// preserved across cancellations of other handlers.
func (b *Bus) Subscribe(name string, handler Handler) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	b.subscribers[name] = append(b.subscribers[name], subscriber{id: b.nextID, handler: handler})
	return &Subscription{bus: b, name: name, id: b.nextID}
}

// Publish delivers the event synchronously to every handler registered
// for name, in registration order, on the caller's goroutine.
func (b *Bus) Publish(name string, evt interfaces.Event) {
	b.mu.RLock()
	subs := make([]subscriber, len(b.subscribers[name]))
	copy(subs, b.subscribers[name])
	b.mu.RUnlock()

	for _, sub := range subs {
		sub.handler(evt)
	}
	eventsPublished.Inc()
}

// SubscriberCount reports how many handlers are registered for name.
func (b *Bus) SubscriberCount(name string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers[name])
}

// Start launches the polling ticker. It publishes a state_update with
// an empty payload every tick until Stop or context cancellation;
// consumers treat it as "something may have changed, re-read".
func (b *Bus) Start(ctx context.Context) error {
	b.mu.Lock()
	if b.running {
		b.mu.Unlock()
		return ErrTickerRunning
	}
	b.running = true
	b.shutdown = make(chan struct{})
	b.mu.Unlock()

	log.Info().Dur("interval", b.tickInterval).Msg("polling ticker started")

	b.wg.Add(1)
	go b.tickLoop(ctx, b.shutdown)
	return nil
}

func (b *Bus) tickLoop(ctx context.Context, shutdown chan struct{}) {
	defer b.wg.Done()

	ticker := time.NewTicker(b.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			b.Publish(interfaces.EventStateUpdate, interfaces.Event{})
		case <-shutdown:
			return
		case <-ctx.Done():
			return
		}
	}
}

// Stop halts the polling ticker.
func (b *Bus) Stop() error {
	b.mu.Lock()
	if !b.running {
		b.mu.Unlock()
		return ErrTickerNotRunning
	}
	b.running = false
	close(b.shutdown)
	b.mu.Unlock()

	b.wg.Wait()
	log.Info().Msg("polling ticker stopped")
	return nil
}
