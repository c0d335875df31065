package store

import (
	"log/slog"
	"sync"

	"github.com/dshills/statestorm/action"
)

// Store is one session's state container. It is built once from a
// declarative slice list at session start and discarded at session end.
type Store struct {
	mu sync.Mutex

	registry *registry
	state    State
	limiter  *limiter

	subs     map[string]*subscription
	subOrder []string

	cancels   map[string][]CancelFunc
	cancelled map[string]bool

	clock  Clock
	logger *slog.Logger

	// mailbox (optional)
	mailboxSize int
	actions     chan action.Action
	results     chan Result
	done        chan struct{}
	running     bool

	stats counters
}

// New constructs a store from a declarative slice list.
//
// Validation is eager: an empty list, an empty or duplicate slice name,
// or a nil handler aborts construction. Composed state starts fully
// defined, with every slice at its declared initial value.
func New(defs []SliceDef, opts ...Option) (*Store, error) {
	reg, err := newRegistry(defs)
	if err != nil {
		return nil, err
	}

	s := &Store{
		registry:  reg,
		subs:      make(map[string]*subscription),
		cancels:   make(map[string][]CancelFunc),
		cancelled: make(map[string]bool),
		clock:     realClock{},
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.state = reg.initialState()
	s.limiter = newLimiter(s.clock, s.reinject)

	if s.mailboxSize > 0 {
		s.actions = make(chan action.Action, s.mailboxSize)
		s.results = make(chan Result, s.mailboxSize)
	}

	return s, nil
}

// Close releases the store's background resources: the mailbox loop,
// pending debounce timers, and all subscription monitors. The store
// must not be used afterwards.
func (s *Store) Close() {
	s.Stop()
	s.limiter.reset()

	s.mu.Lock()
	subs := make([]*subscription, 0, len(s.subOrder))
	for _, id := range s.subOrder {
		subs = append(subs, s.subs[id])
	}
	s.subs = make(map[string]*subscription)
	s.subOrder = nil
	s.mu.Unlock()

	for _, sub := range subs {
		close(sub.stop)
	}
}
