package store

import (
	"fmt"
	"sort"

	"github.com/tidwall/sjson"
)

// State is a snapshot of composed state: slice name to slice value.
// Every registered slice has an entry, from construction onward.
//
// Snapshots returned by the store are shallow copies: the map itself is
// private to the caller, slice values are shared. Reducers must treat
// incoming values as immutable and return replacements.
type State map[string]any

// Get returns the value for a slice and whether the slice exists.
func (s State) Get(name string) (any, bool) {
	v, ok := s[name]
	return v, ok
}

// Value returns the value for a slice, or nil when the slice is unknown.
func (s State) Value(name string) any {
	return s[name]
}

// JSON renders the state as a JSON object with slice names as keys,
// ordered by name. This is the document handed to the request/response
// wrapper around the store.
func (s State) JSON() ([]byte, error) {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)

	out := []byte(`{}`)
	var err error
	for _, name := range names {
		out, err = sjson.SetBytes(out, escapeJSONPath(name), s[name])
		if err != nil {
			return nil, fmt.Errorf("encode slice %q: %w", name, err)
		}
	}
	return out, nil
}

// clone returns a shallow copy of the state map.
func (s State) clone() State {
	c := make(State, len(s))
	for k, v := range s {
		c[k] = v
	}
	return c
}

// escapeJSONPath escapes sjson path syntax in a literal slice name.
func escapeJSONPath(name string) string {
	var b []byte
	for i := 0; i < len(name); i++ {
		switch name[i] {
		case '.', '*', '?', '|', '#', '@', '\\':
			b = append(b, '\\')
		}
		b = append(b, name[i])
	}
	return string(b)
}
