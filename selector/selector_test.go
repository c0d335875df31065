package selector

import (
	"errors"
	"testing"
)

type testState struct {
	Items []string
	Count int
	Label string
}

func itemsDep(s testState) any { return s.Items }
func countDep(s testState) any { return s.Count }

func TestFuncAppliesDirectly(t *testing.T) {
	calls := 0
	sel := Func[testState](func(s testState) any {
		calls++
		return s.Count * 2
	})

	st := testState{Count: 3}
	if got := sel.Evaluate(st); got != 6 {
		t.Errorf("Evaluate = %v, want 6", got)
	}
	sel.Evaluate(st)
	if calls != 2 {
		t.Errorf("raw selector cached: calls = %d, want 2", calls)
	}
}

func TestNewMemoArity(t *testing.T) {
	deps := []Func[testState]{itemsDep, countDep}

	tests := []struct {
		name    string
		compute any
		want    error
	}{
		{"not a func", 42, ErrNotFunc},
		{"nil", nil, ErrNotFunc},
		{"too few params", func(items []string) any { return items }, ErrArityMismatch},
		{"too many params", func(a, b, c any) any { return a }, ErrArityMismatch},
		{"variadic", func(vals ...any) any { return vals }, ErrVariadic},
		{"no return", func(a, b any) {}, ErrBadReturn},
		{"two returns", func(a, b any) (any, error) { return a, nil }, ErrBadReturn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewMemo(deps, tt.compute)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}

	if _, err := NewMemo(deps, func(items []string, count int) any { return len(items) + count }); err != nil {
		t.Errorf("matching arity rejected: %v", err)
	}
}

func TestNewMemoNilDep(t *testing.T) {
	_, err := NewMemo([]Func[testState]{itemsDep, nil}, func(a, b any) any { return nil })
	if !errors.Is(err, ErrNilDep) {
		t.Errorf("err = %v, want ErrNilDep", err)
	}
}

func TestMemoRecomputesOnlyOnDependencyChange(t *testing.T) {
	m, err := NewMemo(
		[]Func[testState]{itemsDep},
		func(items []string) any { return len(items) },
	)
	if err != nil {
		t.Fatalf("NewMemo: %v", err)
	}

	st := testState{Items: []string{"a", "b"}, Label: "x"}
	if got := m.Evaluate(st); got != 2 {
		t.Errorf("Evaluate = %v, want 2", got)
	}
	if m.Computations() != 1 {
		t.Fatalf("computations = %d, want 1", m.Computations())
	}

	// Unrelated field change: cached result, no recompute.
	st.Label = "y"
	m.Evaluate(st)
	if m.Computations() != 1 {
		t.Errorf("recomputed on unrelated change: %d", m.Computations())
	}

	// Dependency change: exactly one recompute.
	st.Items = []string{"a", "b", "c"}
	if got := m.Evaluate(st); got != 3 {
		t.Errorf("Evaluate = %v, want 3", got)
	}
	if m.Computations() != 2 {
		t.Errorf("computations = %d, want 2", m.Computations())
	}
}

func TestMemoStructuralEquality(t *testing.T) {
	m, err := NewMemo(
		[]Func[testState]{itemsDep},
		func(items []string) any { return len(items) },
	)
	if err != nil {
		t.Fatalf("NewMemo: %v", err)
	}

	m.Evaluate(testState{Items: []string{"a"}})
	// Different backing array, equal contents: still a cache hit.
	m.Evaluate(testState{Items: []string{"a"}})
	if m.Computations() != 1 {
		t.Errorf("computations = %d, want 1", m.Computations())
	}
}

func TestMemoCachesArePerInstance(t *testing.T) {
	build := func() *Memo[testState] {
		m, err := NewMemo(
			[]Func[testState]{countDep},
			func(count int) any { return count + 1 },
		)
		if err != nil {
			t.Fatalf("NewMemo: %v", err)
		}
		return m
	}

	a, b := build(), build()
	st := testState{Count: 1}

	a.Evaluate(st)
	if b.Computations() != 0 {
		t.Error("structurally identical selectors shared a cache")
	}
	b.Evaluate(st)
	if a.Computations() != 1 || b.Computations() != 1 {
		t.Errorf("computations = %d, %d; want 1, 1", a.Computations(), b.Computations())
	}
}

func TestMemoMultipleDependencies(t *testing.T) {
	m, err := NewMemo(
		[]Func[testState]{itemsDep, countDep},
		func(items []string, count int) any { return len(items) * count },
	)
	if err != nil {
		t.Fatalf("NewMemo: %v", err)
	}

	st := testState{Items: []string{"a", "b"}, Count: 10}
	if got := m.Evaluate(st); got != 20 {
		t.Errorf("Evaluate = %v, want 20", got)
	}

	st.Count = 11
	if got := m.Evaluate(st); got != 22 {
		t.Errorf("Evaluate = %v, want 22", got)
	}
	if m.Computations() != 2 {
		t.Errorf("computations = %d, want 2", m.Computations())
	}
}

func TestMemoNilDependencyValue(t *testing.T) {
	m, err := NewMemo(
		[]Func[testState]{func(s testState) any { return nil }},
		func(v any) any { return v == nil },
	)
	if err != nil {
		t.Fatalf("NewMemo: %v", err)
	}

	if got := m.Evaluate(testState{}); got != true {
		t.Errorf("Evaluate = %v, want true", got)
	}
}

func TestZeroDependencyMemo(t *testing.T) {
	m, err := NewMemo[testState](nil, func() any { return "constant" })
	if err != nil {
		t.Fatalf("NewMemo: %v", err)
	}

	m.Evaluate(testState{})
	m.Evaluate(testState{Count: 99})
	if m.Computations() != 1 {
		t.Errorf("computations = %d, want 1", m.Computations())
	}
}
