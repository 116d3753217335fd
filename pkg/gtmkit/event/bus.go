package event

import (
	"context"
	"strconv"
	"sync"
	"sync/atomic"
	"time"
)

// Bus delivers customer events to subscribed handlers.
type Bus interface {
	// Publish delivers an event to all matching subscribers.
	Publish(ctx context.Context, evt Event) error

	// Subscribe creates a subscription for specific event names.
	Subscribe(names []string, handler Handler) Subscription

	// SubscribeAll subscribes to all events.
	SubscribeAll(handler Handler) Subscription

	// Close shuts down the bus and all subscriptions.
	Close() error
}

// Subscription represents an active subscription.
type Subscription interface {
	// Unsubscribe removes the subscription.
	Unsubscribe()

	// Pause temporarily stops delivery.
	Pause()

	// Resume continues delivery after pause.
	Resume()

	// IsPaused returns true if the subscription is paused.
	IsPaused() bool
}

// BusConfig configures bus behavior.
type BusConfig struct {
	// MaxSubscribers limits total subscriptions.
	// Default: 0 (unlimited)
	MaxSubscribers int

	// DeduplicateTTL drops events whose ID was already published within
	// the window. Default: 0 (disabled). Note this is identity-based:
	// re-fired lifecycle events carry fresh IDs and are delivered again;
	// funnel-level suppression belongs to the subscriber.
	DeduplicateTTL time.Duration

	// Registry for event validation (optional).
	Registry *Registry

	// ValidateEvents enables schema validation before delivery.
	ValidateEvents bool

	// OnError is called when a handler returns an error.
	// Handler errors never abort delivery to the remaining subscribers.
	OnError func(evt Event, subscriberID string, err error)
}

// LocalBus is a synchronous in-memory bus.
//
// Delivery happens inline on the publishing goroutine, in subscription
// order, mirroring the storefront runtime where handlers run to completion
// before the next event fires. A handler error is reported through OnError
// and isolated from the other subscribers.
type LocalBus struct {
	config BusConfig

	mu            sync.RWMutex
	subscriptions map[string]*subscription
	order         []string                            // delivery order
	byName        map[string]map[string]*subscription // event name -> subscription ID -> subscription
	wildcards     map[string]*subscription            // subscriptions for all events

	// Deduplication cache, pruned inline on publish
	dedupeMu    sync.Mutex
	dedupeCache map[string]time.Time

	nextID atomic.Int64
	closed atomic.Bool
}

// NewBus creates a new local event bus.
func NewBus(config BusConfig) *LocalBus {
	bus := &LocalBus{
		config:        config,
		subscriptions: make(map[string]*subscription),
		byName:        make(map[string]map[string]*subscription),
		wildcards:     make(map[string]*subscription),
	}

	if config.DeduplicateTTL > 0 {
		bus.dedupeCache = make(map[string]time.Time)
	}

	return bus
}

// subscription is an internal subscription implementation.
type subscription struct {
	id      string
	names   []string // empty = all names
	handler Handler
	paused  atomic.Bool
	bus     *LocalBus
}

// Publish delivers an event to all matching subscribers, synchronously.
func (b *LocalBus) Publish(ctx context.Context, evt Event) error {
	if b.closed.Load() {
		return &EventError{
			Event:   evt,
			Message: "bus is closed",
		}
	}

	// Check deduplication
	if b.config.DeduplicateTTL > 0 {
		if b.isDuplicate(evt) {
			return nil // Silently skip duplicates
		}
	}

	// Validate event if registry is configured
	if b.config.ValidateEvents && b.config.Registry != nil {
		if err := b.config.Registry.Validate(evt); err != nil {
			return &EventError{
				Event:   evt,
				Message: "event validation failed",
				Err:     err,
			}
		}
	}

	// Get matching subscriptions
	b.mu.RLock()
	subs := b.getMatchingSubscriptions(evt.Name())
	b.mu.RUnlock()

	// Deliver inline to each subscription
	for _, sub := range subs {
		if sub.paused.Load() {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := sub.handler.Handle(ctx, evt); err != nil {
			if b.config.OnError != nil {
				b.config.OnError(evt, sub.id, err)
			}
			// One faulting handler must not starve the rest
			continue
		}
	}

	return nil
}

// Subscribe creates a subscription for specific event names.
// Returns nil when the bus is closed or the subscriber limit is reached.
func (b *LocalBus) Subscribe(names []string, handler Handler) Subscription {
	// A nil *subscription must not escape as a non-nil interface value
	if sub := b.subscribe(names, handler); sub != nil {
		return sub
	}
	return nil
}

// SubscribeAll subscribes to all events.
// Returns nil when the bus is closed or the subscriber limit is reached.
func (b *LocalBus) SubscribeAll(handler Handler) Subscription {
	if sub := b.subscribe(nil, handler); sub != nil {
		return sub
	}
	return nil
}

func (b *LocalBus) subscribe(names []string, handler Handler) *subscription {
	if b.closed.Load() {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	// Check subscriber limit
	if b.config.MaxSubscribers > 0 && len(b.subscriptions) >= b.config.MaxSubscribers {
		return nil
	}

	id := strconv.FormatInt(b.nextID.Add(1), 10)
	sub := &subscription{
		id:      id,
		names:   names,
		handler: handler,
		bus:     b,
	}

	b.subscriptions[sub.id] = sub
	b.order = append(b.order, sub.id)

	if len(names) == 0 {
		b.wildcards[sub.id] = sub
	} else {
		for _, n := range names {
			if b.byName[n] == nil {
				b.byName[n] = make(map[string]*subscription)
			}
			b.byName[n][sub.id] = sub
		}
	}

	return sub
}

// getMatchingSubscriptions returns subscriptions for an event name,
// in the order they subscribed.
func (b *LocalBus) getMatchingSubscriptions(name string) []*subscription {
	nameSubs := b.byName[name]

	subs := make([]*subscription, 0, len(nameSubs)+len(b.wildcards))
	for _, id := range b.order {
		if sub, ok := nameSubs[id]; ok {
			subs = append(subs, sub)
			continue
		}
		if sub, ok := b.wildcards[id]; ok {
			subs = append(subs, sub)
		}
	}

	return subs
}

// Close shuts down the bus.
func (b *LocalBus) Close() error {
	if !b.closed.CompareAndSwap(false, true) {
		return nil // Already closed
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.subscriptions = make(map[string]*subscription)
	b.byName = make(map[string]map[string]*subscription)
	b.wildcards = make(map[string]*subscription)
	b.order = nil

	return nil
}

// Unsubscribe removes the subscription.
func (s *subscription) Unsubscribe() {
	s.bus.mu.Lock()
	defer s.bus.mu.Unlock()

	delete(s.bus.subscriptions, s.id)
	delete(s.bus.wildcards, s.id)

	for _, n := range s.names {
		if nameSubs, ok := s.bus.byName[n]; ok {
			delete(nameSubs, s.id)
		}
	}

	for i, id := range s.bus.order {
		if id == s.id {
			s.bus.order = append(s.bus.order[:i], s.bus.order[i+1:]...)
			break
		}
	}
}

// Pause temporarily stops delivery.
func (s *subscription) Pause() {
	s.paused.Store(true)
}

// Resume continues delivery after pause.
func (s *subscription) Resume() {
	s.paused.Store(false)
}

// IsPaused returns true if the subscription is paused.
func (s *subscription) IsPaused() bool {
	return s.paused.Load()
}

// isDuplicate records the event ID and reports whether it was already seen
// within the dedupe window. Stale entries are pruned on the way through.
func (b *LocalBus) isDuplicate(evt Event) bool {
	b.dedupeMu.Lock()
	defer b.dedupeMu.Unlock()

	now := time.Now()
	cutoff := now.Add(-b.config.DeduplicateTTL)
	for id, ts := range b.dedupeCache {
		if ts.Before(cutoff) {
			delete(b.dedupeCache, id)
		}
	}

	if _, exists := b.dedupeCache[evt.ID()]; exists {
		return true
	}
	b.dedupeCache[evt.ID()] = now
	return false
}
