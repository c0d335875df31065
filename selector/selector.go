package selector

import (
	"errors"
	"fmt"
	"reflect"
)

// Sentinel errors for selector construction.
var (
	// ErrNotFunc is returned when a compute value is not a function.
	ErrNotFunc = errors.New("compute is not a function")

	// ErrVariadic is returned when a compute function is variadic.
	ErrVariadic = errors.New("compute must not be variadic")

	// ErrArityMismatch is returned when a compute function's parameter
	// count differs from the number of declared dependencies.
	ErrArityMismatch = errors.New("compute arity does not match dependency count")

	// ErrBadReturn is returned when a compute function does not return
	// exactly one value.
	ErrBadReturn = errors.New("compute must return exactly one value")

	// ErrNilDep is returned when a dependency function is nil.
	ErrNilDep = errors.New("dependency function is nil")
)

// Selector derives a value from a state snapshot.
type Selector[S any] interface {
	Evaluate(state S) any
}

// Func is a raw selector: applied directly on every evaluation, never
// cached.
type Func[S any] func(state S) any

// Evaluate implements Selector.
func (f Func[S]) Evaluate(state S) any {
	return f(state)
}

// Memo is a memoized selector. Dependencies are evaluated against the
// state on every call; the compute function runs only when at least one
// dependency output differs, by structural equality, from the last
// recorded tuple for this instance.
//
// Memo is not safe for concurrent use. The cache belongs to the single
// actor that owns the store the selector is registered with.
type Memo[S any] struct {
	deps    []Func[S]
	compute reflect.Value

	cached   bool
	lastDeps []any
	lastOut  any
	computes uint64
}

// NewMemo builds a memoized selector from an ordered dependency list and
// a compute function.
//
// The compute value must be a non-variadic function whose parameter
// count equals len(deps) and which returns exactly one value; anything
// else fails construction. Dependency outputs are passed positionally,
// so parameter types must match what the dependencies produce at
// evaluation time.
func NewMemo[S any](deps []Func[S], compute any) (*Memo[S], error) {
	for i, dep := range deps {
		if dep == nil {
			return nil, fmt.Errorf("dependency %d: %w", i, ErrNilDep)
		}
	}

	rv := reflect.ValueOf(compute)
	if !rv.IsValid() || rv.Kind() != reflect.Func {
		return nil, ErrNotFunc
	}
	rt := rv.Type()
	if rt.IsVariadic() {
		return nil, ErrVariadic
	}
	if rt.NumIn() != len(deps) {
		return nil, fmt.Errorf("%w: compute takes %d, have %d dependencies",
			ErrArityMismatch, rt.NumIn(), len(deps))
	}
	if rt.NumOut() != 1 {
		return nil, fmt.Errorf("%w: returns %d", ErrBadReturn, rt.NumOut())
	}

	return &Memo[S]{deps: deps, compute: rv}, nil
}

// MustMemo is NewMemo that panics on construction error.
// Intended for selectors declared at session start, where a bad selector
// is fatal anyway.
func MustMemo[S any](deps []Func[S], compute any) *Memo[S] {
	m, err := NewMemo(deps, compute)
	if err != nil {
		panic(err)
	}
	return m
}

// Evaluate implements Selector. It returns the cached result when every
// dependency output equals the last recorded tuple, and recomputes
// otherwise. A dependency output whose type cannot be assigned to the
// corresponding compute parameter causes a panic, which store-level
// evaluation isolates per subscription.
func (m *Memo[S]) Evaluate(state S) any {
	vals := make([]any, len(m.deps))
	for i, dep := range m.deps {
		vals[i] = dep(state)
	}

	if m.cached && tupleEqual(vals, m.lastDeps) {
		return m.lastOut
	}

	args := make([]reflect.Value, len(vals))
	ft := m.compute.Type()
	for i, v := range vals {
		if v == nil {
			args[i] = reflect.Zero(ft.In(i))
		} else {
			args[i] = reflect.ValueOf(v)
		}
	}

	out := m.compute.Call(args)[0].Interface()
	m.lastDeps = vals
	m.lastOut = out
	m.cached = true
	m.computes++
	return out
}

// Computations returns how many times the compute function has run.
func (m *Memo[S]) Computations() uint64 {
	return m.computes
}

// tupleEqual compares dependency tuples element-wise by structural
// equality.
func tupleEqual(a, b []any) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !reflect.DeepEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}
