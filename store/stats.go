package store

import "sync/atomic"

// counters are the store's internal atomic counters.
type counters struct {
	dispatches       atomic.Uint64
	asyncDispatches  atomic.Uint64
	throttled        atomic.Uint64
	debounceDeferred atomic.Uint64
	debounceFired    atomic.Uint64
	handlerPanics    atomic.Uint64
	notifications    atomic.Uint64
}

// Stats is a point-in-time snapshot of store activity.
type Stats struct {
	// Dispatches counts synchronous dispatch calls.
	Dispatches uint64

	// AsyncDispatches counts async dispatch calls that were processed.
	AsyncDispatches uint64

	// Throttled counts slice deliveries dropped by a throttle window.
	Throttled uint64

	// DebounceDeferred counts slice deliveries absorbed into a pending
	// debounce.
	DebounceDeferred uint64

	// DebounceFired counts debounce windows that elapsed and re-injected
	// their stored action.
	DebounceFired uint64

	// HandlerPanics counts reducer and async handler panics.
	HandlerPanics uint64

	// Notifications counts subscription deliveries.
	Notifications uint64

	// ActiveSubscriptions is the current live subscription count.
	ActiveSubscriptions int
}

// Stats returns current store statistics.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	active := len(s.subs)
	s.mu.Unlock()

	return Stats{
		Dispatches:          s.stats.dispatches.Load(),
		AsyncDispatches:     s.stats.asyncDispatches.Load(),
		Throttled:           s.stats.throttled.Load(),
		DebounceDeferred:    s.stats.debounceDeferred.Load(),
		DebounceFired:       s.stats.debounceFired.Load(),
		HandlerPanics:       s.stats.handlerPanics.Load(),
		Notifications:       s.stats.notifications.Load(),
		ActiveSubscriptions: active,
	}
}
