package store

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/dshills/statestorm/action"
)

// asyncCall is one async handler invocation staged under the store lock
// and started after it is released, so a handler that dispatches
// synchronously cannot deadlock the store.
type asyncCall struct {
	slice *slice
	act   action.Action
	cur   any
}

// NewCancelToken returns a fresh cancellation token for async dispatch.
func NewCancelToken() string {
	return uuid.NewString()
}

// DispatchAsync routes and rate-limits an action exactly like Dispatch,
// then starts the async handler of each surviving slice and returns
// immediately. Composed state changes only through later calls the
// handlers make to their dispatch callback, never through their return
// values.
//
// Slices without an async handler are skipped. Each handler's
// cancellation thunk is recorded against the action's cancellation
// token, if one is set.
func (s *Store) DispatchAsync(a action.Action) error {
	if a.Type == "" {
		return ErrEmptyActionType
	}
	if !a.Async() {
		a = a.Marked(action.WithAsync())
	}

	token := a.CancelToken()

	s.mu.Lock()
	if token != "" && s.cancelled[token] {
		// Cancelled before processing: skip the whole action.
		delete(s.cancelled, token)
		s.mu.Unlock()
		s.logger.Debug("async action skipped, token cancelled",
			slog.String("action", a.Type),
			slog.String("token", token))
		return nil
	}

	s.stats.asyncDispatches.Add(1)
	rt := s.registry.route(a)
	s.warnMissing(a, rt.missing)

	var calls []asyncCall
	for _, r := range rt.selected {
		if r.slice.asyncHandler == nil {
			s.logger.Debug("slice has no async handler",
				slog.String("slice", r.slice.name),
				slog.String("action", r.act.Type))
			continue
		}
		switch s.limiter.gate(r.slice, r.act) {
		case gateThrottled:
			s.stats.throttled.Add(1)
			continue
		case gateDeferred:
			s.stats.debounceDeferred.Add(1)
			continue
		}
		calls = append(calls, asyncCall{slice: r.slice, act: r.act, cur: s.state[r.slice.name]})
	}
	s.mu.Unlock()

	s.startAsync(token, calls)
	return nil
}

// startAsync invokes staged async handlers and records their cancel
// thunks. Runs without the store lock held.
func (s *Store) startAsync(token string, calls []asyncCall) {
	for _, call := range calls {
		cancel := s.invokeAsync(call)
		if cancel == nil {
			if token != "" {
				s.logger.Warn("async handler returned no cancel thunk",
					slog.String("slice", call.slice.name),
					slog.String("action", call.act.Type))
			}
			continue
		}
		if token == "" {
			continue
		}

		s.mu.Lock()
		if s.cancelled[token] {
			// Cancel raced the handler start; honor it now.
			delete(s.cancelled, token)
			s.mu.Unlock()
			s.safeCancel(cancel)
			continue
		}
		s.cancels[token] = append(s.cancels[token], cancel)
		s.mu.Unlock()
	}
}

// invokeAsync runs one async handler with panic isolation.
func (s *Store) invokeAsync(call asyncCall) (cancel CancelFunc) {
	defer func() {
		if r := recover(); r != nil {
			s.stats.handlerPanics.Add(1)
			s.logger.Error("async handler panicked",
				slog.String("slice", call.slice.name),
				slog.String("action", call.act.Type),
				slog.Any("panic", r))
			cancel = nil
		}
	}()

	return call.slice.asyncHandler(call.act, s.Dispatch, call.cur)
}

// Cancel cancels async work registered under token. If no thunk is
// registered yet, the token is marked cancelled so the action is
// skipped when it is reached. Best-effort only: work already completed
// is not rolled back.
func (s *Store) Cancel(token string) {
	if token == "" {
		return
	}

	s.mu.Lock()
	fns := s.cancels[token]
	if len(fns) > 0 {
		delete(s.cancels, token)
		s.mu.Unlock()
		for _, fn := range fns {
			s.safeCancel(fn)
		}
		return
	}
	s.cancelled[token] = true
	s.mu.Unlock()
}

func (s *Store) safeCancel(fn CancelFunc) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("cancel thunk panicked", slog.Any("panic", r))
		}
	}()
	fn()
}
