package store

import (
	"log/slog"

	"github.com/dshills/statestorm/action"
)

// Result is the outcome of a synchronous dispatch.
type Result struct {
	// State is the full composed state after the dispatch.
	State State

	// MissingReducers lists explicit targets that matched no registered
	// slice. Diagnostic only; the dispatch itself succeeded.
	MissingReducers []string
}

// Dispatch routes an action to its slices, gates each through the rate
// limiter, invokes the surviving handlers, merges the results into
// composed state, and runs the notification pass. It returns the full
// composed state after the dispatch.
//
// A panicking handler is a no-op for its slice only; other slices in
// the same dispatch update normally.
func (s *Store) Dispatch(a action.Action) (Result, error) {
	if a.Type == "" {
		return Result{}, ErrEmptyActionType
	}

	s.mu.Lock()
	s.stats.dispatches.Add(1)
	rt := s.registry.route(a)
	s.warnMissing(a, rt.missing)
	pending := s.applyLocked(rt.selected, true)
	res := Result{State: s.snapshotLocked(), MissingReducers: rt.missing}
	s.mu.Unlock()

	s.deliver(pending)
	return res, nil
}

// StateSnapshot returns the current composed state.
func (s *Store) StateSnapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() State {
	return s.state.clone()
}

// applyLocked runs handlers for the routed slices and merges their
// results. The notification pass runs once, after all slices, and only
// if at least one handler actually ran. Caller holds s.mu.
func (s *Store) applyLocked(sel []routed, gated bool) []delivery {
	ran := false
	for _, r := range sel {
		if gated {
			switch s.limiter.gate(r.slice, r.act) {
			case gateThrottled:
				s.stats.throttled.Add(1)
				s.logger.Debug("action throttled",
					slog.String("slice", r.slice.name),
					slog.String("action", r.act.Type))
				continue
			case gateDeferred:
				s.stats.debounceDeferred.Add(1)
				continue
			}
		}

		cur := s.state[r.slice.name]
		next, ok := s.invoke(r.slice, r.act, cur)
		if !ok {
			continue
		}
		s.state[r.slice.name] = next
		ran = true
	}

	if !ran {
		return nil
	}
	return s.notifyLocked()
}

// invoke runs one handler with panic isolation. A panic leaves the
// slice's value untouched.
func (s *Store) invoke(sl *slice, a action.Action, cur any) (next any, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			s.stats.handlerPanics.Add(1)
			s.logger.Error("reducer panicked",
				slog.String("slice", sl.name),
				slog.String("action", a.Type),
				slog.Any("panic", r))
			next, ok = nil, false
		}
	}()

	return sl.handler(a, cur), true
}

// reinject delivers a debounce-fired action to its one slice, bypassing
// throttle and debounce checks for this single delivery. It runs on a
// timer goroutine and takes its place in the dispatch order at firing
// time.
func (s *Store) reinject(sliceName string, a action.Action) {
	s.mu.Lock()
	sl, ok := s.registry.get(sliceName)
	if !ok {
		s.mu.Unlock()
		return
	}
	s.stats.debounceFired.Add(1)

	if a.Async() && sl.asyncHandler != nil {
		call := asyncCall{slice: sl, act: a, cur: s.state[sl.name]}
		s.mu.Unlock()
		s.startAsync(a.CancelToken(), []asyncCall{call})
		return
	}

	pending := s.applyLocked([]routed{{slice: sl, act: a}}, false)
	s.mu.Unlock()

	s.deliver(pending)
}

// warnMissing logs unresolved explicit targets. Caller holds s.mu.
func (s *Store) warnMissing(a action.Action, missing []string) {
	if len(missing) == 0 {
		return
	}
	s.logger.Warn("action targets unregistered reducers",
		slog.String("action", a.Type),
		slog.Any("missing", missing))
}
