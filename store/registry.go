package store

import (
	"fmt"
	"time"

	"github.com/dshills/statestorm/action"
)

// Handler computes a new slice value from the current value and an
// action. Handlers are pure: they must not retain or mutate their
// inputs. A panicking handler is treated as a no-op for its slice.
type Handler func(a action.Action, state any) any

// DispatchFunc is the dispatch callback handed to async handlers. It
// routes back through the owning store's engine.
type DispatchFunc func(a action.Action) (Result, error)

// CancelFunc cancels in-flight async work. Async handlers must return
// one; it is recorded against the action's cancellation token.
type CancelFunc func()

// AsyncHandler starts background work for an async-marked action. All
// state changes must flow through the provided dispatch callback; the
// handler's own return value never changes state.
type AsyncHandler func(a action.Action, dispatch DispatchFunc, state any) CancelFunc

// Rule is one throttle or debounce pattern with its window. Patterns
// match the routed action type and may use * and ? wildcards.
type Rule struct {
	Pattern string
	Window  time.Duration
}

// SliceDef declares one named slice of composed state.
type SliceDef struct {
	// Name is the slice's key in composed state. Unique per store.
	Name string

	// Handler computes new slice values. Required.
	Handler Handler

	// AsyncHandler, if set, services async-marked actions.
	AsyncHandler AsyncHandler

	// ActionPrefix restricts routing to actions with this dot-prefix.
	// Empty means catch-all: the slice sees every routed action.
	ActionPrefix string

	// Initial is the slice's value before any action arrives.
	Initial any

	// Throttle and Debounce gate handler invocation per pattern.
	Throttle []Rule
	Debounce []Rule
}

// slice is a registered SliceDef.
type slice struct {
	name         string
	handler      Handler
	asyncHandler AsyncHandler
	prefix       string
	initial      any
	throttle     []Rule
	debounce     []Rule
}

// registry holds the store's slices, built once at construction.
// Multiple slices may share an ActionPrefix; matching actions fan out
// to all of them.
type registry struct {
	order  []string
	slices map[string]*slice
}

// newRegistry validates and indexes a declarative slice list.
// Duplicate names, empty names, and nil handlers are construction-time
// errors.
func newRegistry(defs []SliceDef) (*registry, error) {
	if len(defs) == 0 {
		return nil, ErrNoSlices
	}

	r := &registry{slices: make(map[string]*slice, len(defs))}
	for _, def := range defs {
		if def.Name == "" {
			return nil, ErrEmptySliceName
		}
		if _, ok := r.slices[def.Name]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateSlice, def.Name)
		}
		if def.Handler == nil {
			return nil, fmt.Errorf("%w: slice %q", ErrNilHandler, def.Name)
		}
		r.slices[def.Name] = &slice{
			name:         def.Name,
			handler:      def.Handler,
			asyncHandler: def.AsyncHandler,
			prefix:       def.ActionPrefix,
			initial:      def.Initial,
			throttle:     def.Throttle,
			debounce:     def.Debounce,
		}
		r.order = append(r.order, def.Name)
	}
	return r, nil
}

// get returns the slice registered under name.
func (r *registry) get(name string) (*slice, bool) {
	sl, ok := r.slices[name]
	return sl, ok
}

// initialState builds the fully-defined composed state map.
func (r *registry) initialState() State {
	st := make(State, len(r.order))
	for _, name := range r.order {
		st[name] = r.slices[name].initial
	}
	return st
}
