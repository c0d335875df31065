package action

// Well-known metadata keys recognized by the dispatch engine.
const (
	// MetaReducers names the explicit reducer targets for an action.
	// Value: []string (or []any of strings when decoded from JSON).
	MetaReducers = "reducers"

	// MetaPrefix overrides the routing prefix inferred from the type.
	MetaPrefix = "reducerPrefix"

	// MetaAsync marks an action for asynchronous handling.
	MetaAsync = "async"

	// MetaCancelToken attaches a cancellation token to an async action.
	MetaCancelToken = "cancelToken"
)

// Meta is an insertion-ordered key/value map attached to an Action.
// It is populated during construction and read-only afterwards.
type Meta struct {
	keys   []string
	values map[string]any
}

func newMeta() *Meta {
	return &Meta{values: make(map[string]any)}
}

// set records a key/value pair, preserving first-insertion order.
func (m *Meta) set(key string, value any) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// clone returns an independent copy of the metadata.
func (m *Meta) clone() *Meta {
	c := newMeta()
	if m == nil {
		return c
	}
	c.keys = append(c.keys, m.keys...)
	for k, v := range m.values {
		c.values[k] = v
	}
	return c
}

// Get returns the value for key and whether it is present.
func (m *Meta) Get(key string) (any, bool) {
	if m == nil {
		return nil, false
	}
	v, ok := m.values[key]
	return v, ok
}

// Keys returns the metadata keys in insertion order.
func (m *Meta) Keys() []string {
	if m == nil {
		return nil
	}
	keys := make([]string, len(m.keys))
	copy(keys, m.keys)
	return keys
}

// Len returns the number of metadata entries.
func (m *Meta) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}
