package store

import (
	"sync"
	"time"

	"github.com/tidwall/match"

	"github.com/dshills/statestorm/action"
)

// gateVerdict is the rate limiter's decision for one slice delivery.
type gateVerdict int

const (
	// gateAllowed lets the handler run now.
	gateAllowed gateVerdict = iota

	// gateThrottled drops the delivery; state is unchanged.
	gateThrottled

	// gateDeferred absorbs the delivery into a pending debounce; the
	// latest absorbed action is re-injected when the window elapses.
	gateDeferred
)

// limiter keeps per (slice, pattern) throttle and debounce bookkeeping.
// This bookkeeping is private store state, never part of composed state.
//
// limiter has its own lock because debounce timers fire on timer
// goroutines. The fire callback is always invoked with the lock
// released, so it may re-enter the store.
type limiter struct {
	mu    sync.Mutex
	clock Clock

	// fire re-injects a debounced action targeted at one slice.
	fire func(sliceName string, a action.Action)

	// last execution time per slice+pattern throttle key.
	throttled map[string]time.Time

	// pending debounce per slice+pattern key.
	pending map[string]*debounceEntry
}

// debounceEntry tracks the newest absorbed action for one key. seq
// invalidates timers superseded by a newer arrival.
type debounceEntry struct {
	seq   uint64
	timer Timer
	act   action.Action
}

func newLimiter(clock Clock, fire func(string, action.Action)) *limiter {
	return &limiter{
		clock:     clock,
		fire:      fire,
		throttled: make(map[string]time.Time),
		pending:   make(map[string]*debounceEntry),
	}
}

// gate decides whether the slice's handler may run for the routed
// action. Debounce rules are checked first: a debounced delivery never
// runs immediately. Throttle is leading-edge: the first match in a
// window runs, later matches are dropped.
func (l *limiter) gate(sl *slice, a action.Action) gateVerdict {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, rule := range sl.debounce {
		if match.Match(a.Type, rule.Pattern) {
			l.absorbLocked(sl.name, rule, a)
			return gateDeferred
		}
	}

	var hit []string
	now := l.clock.Now()
	for _, rule := range sl.throttle {
		if !match.Match(a.Type, rule.Pattern) {
			continue
		}
		key := limitKey(sl.name, rule.Pattern)
		if last, ok := l.throttled[key]; ok && now.Sub(last) < rule.Window {
			return gateThrottled
		}
		hit = append(hit, key)
	}
	// Record execution only once every matched window allows it.
	for _, key := range hit {
		l.throttled[key] = now
	}
	return gateAllowed
}

// absorbLocked stores the latest action for a debounce key and restarts
// its window timer.
func (l *limiter) absorbLocked(sliceName string, rule Rule, a action.Action) {
	key := limitKey(sliceName, rule.Pattern)
	e := l.pending[key]
	if e == nil {
		e = &debounceEntry{}
		l.pending[key] = e
	}
	e.seq++
	e.act = a
	if e.timer != nil {
		e.timer.Stop()
	}
	seq := e.seq
	e.timer = l.clock.AfterFunc(rule.Window, func() {
		l.fired(key, sliceName, seq)
	})
}

// fired runs on a timer goroutine when a debounce window elapses.
// A stale seq means a newer action restarted the window; that timer's
// work is void.
func (l *limiter) fired(key, sliceName string, seq uint64) {
	l.mu.Lock()
	e := l.pending[key]
	if e == nil || e.seq != seq {
		l.mu.Unlock()
		return
	}
	act := e.act
	delete(l.pending, key)
	l.mu.Unlock()

	l.fire(sliceName, act)
}

// reset stops all pending debounce timers and clears bookkeeping.
func (l *limiter) reset() {
	l.mu.Lock()
	defer l.mu.Unlock()

	for key, e := range l.pending {
		if e.timer != nil {
			e.timer.Stop()
		}
		delete(l.pending, key)
	}
	l.throttled = make(map[string]time.Time)
}

func limitKey(sliceName, pattern string) string {
	return sliceName + "\x00" + pattern
}
