package action

import "strings"

// Action is an immutable intent value.
//
// Type is the routing key. Payload is opaque to the store and flows
// unchanged to reducer handlers. Metadata is fixed at construction.
type Action struct {
	// Type is the routing key, e.g. "user.reload".
	Type string

	// Payload is the intent's data, opaque to routing.
	Payload any

	meta *Meta
}

// Option configures an Action during construction.
type Option func(*Action)

// WithTargets names the exact reducers that should receive the action.
// Explicit targeting disables prefix routing and prefix stripping.
func WithTargets(names ...string) Option {
	return func(a *Action) {
		a.metaSet(MetaReducers, names)
	}
}

// WithPrefix overrides the routing prefix inferred from the action type.
func WithPrefix(prefix string) Option {
	return func(a *Action) {
		a.metaSet(MetaPrefix, prefix)
	}
}

// WithAsync marks the action for asynchronous handling.
func WithAsync() Option {
	return func(a *Action) {
		a.metaSet(MetaAsync, true)
	}
}

// WithCancelToken attaches a cancellation token for async dispatch.
func WithCancelToken(token string) Option {
	return func(a *Action) {
		a.metaSet(MetaCancelToken, token)
	}
}

// WithMeta attaches an arbitrary metadata entry.
func WithMeta(key string, value any) Option {
	return func(a *Action) {
		a.metaSet(key, value)
	}
}

// New constructs an Action with the given type, payload, and options.
func New(typ string, payload any, opts ...Option) Action {
	a := Action{Type: typ, Payload: payload}
	for _, opt := range opts {
		opt(&a)
	}
	return a
}

func (a *Action) metaSet(key string, value any) {
	if a.meta == nil {
		a.meta = newMeta()
	}
	a.meta.set(key, value)
}

// Meta returns the action's metadata. May be nil when no metadata was set.
func (a Action) Meta() *Meta {
	return a.meta
}

// Local returns a copy of the action with its type replaced.
// Used by the router to strip a matched prefix segment before handler
// invocation; the original action is untouched.
func (a Action) Local(typ string) Action {
	a.Type = typ
	return a
}

// Marked returns a copy of the action with additional options applied.
// The original action's metadata is unchanged.
func (a Action) Marked(opts ...Option) Action {
	if a.meta != nil {
		a.meta = a.meta.clone()
	}
	for _, opt := range opts {
		opt(&a)
	}
	return a
}

// Targets returns the explicit reducer target list, if any.
// Handles both []string and the []any form produced by JSON decoding.
func (a Action) Targets() []string {
	v, ok := a.meta.Get(MetaReducers)
	if !ok {
		return nil
	}
	switch t := v.(type) {
	case []string:
		return t
	case []any:
		names := make([]string, 0, len(t))
		for _, e := range t {
			if s, ok := e.(string); ok {
				names = append(names, s)
			}
		}
		return names
	}
	return nil
}

// PrefixOverride returns the explicit routing prefix and whether one was
// set. An empty override is treated as unset.
func (a Action) PrefixOverride() (string, bool) {
	v, ok := a.meta.Get(MetaPrefix)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

// Async reports whether the action is marked for asynchronous handling.
func (a Action) Async() bool {
	v, ok := a.meta.Get(MetaAsync)
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

// CancelToken returns the cancellation token, or "" if none was set.
func (a Action) CancelToken() string {
	v, ok := a.meta.Get(MetaCancelToken)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// Split separates a routing type into its prefix and local parts.
// For "user.reload" it returns ("user", "reload"). Types without a dot
// have no prefix: Split("tick") returns ("", "tick").
func Split(typ string) (prefix, local string) {
	idx := strings.Index(typ, ".")
	if idx < 0 {
		return "", typ
	}
	return typ[:idx], typ[idx+1:]
}
