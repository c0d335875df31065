package store

import (
	"log/slog"
	"reflect"

	"github.com/google/uuid"

	"github.com/dshills/statestorm/selector"
)

// Selector derives a value from a composed-state snapshot.
type Selector = selector.Selector[State]

// subscription is one standing change-notification request.
type subscription struct {
	id        string
	sel       Selector
	recipient Recipient
	label     string
	lastValue any

	// stop releases the liveness monitor on Unsubscribe.
	stop chan struct{}
}

// delivery is a notification computed under the store lock and sent
// after it is released.
type delivery struct {
	recipient Recipient
	label     string
	value     any
}

// Subscribe registers a selector against the store. The selector is
// evaluated immediately and the result delivered to the recipient
// before Subscribe returns. Afterwards the recipient hears from the
// store only when the selected value changes.
//
// The subscription lives until Unsubscribe or until the recipient's
// Done channel closes, whichever happens first.
func (s *Store) Subscribe(sel Selector, label string, r Recipient) (string, error) {
	if sel == nil {
		return "", ErrNilSelector
	}
	if r == nil {
		return "", ErrNilRecipient
	}

	sub := &subscription{
		id:        uuid.NewString(),
		sel:       sel,
		recipient: r,
		label:     label,
		stop:      make(chan struct{}),
	}

	s.mu.Lock()
	val, ok := s.evalSelector(sub, s.snapshotLocked())
	if !ok {
		s.mu.Unlock()
		return "", ErrSelectorFailed
	}
	sub.lastValue = val
	s.subs[sub.id] = sub
	s.subOrder = append(s.subOrder, sub.id)
	s.mu.Unlock()

	s.deliverOne(delivery{recipient: r, label: label, value: val})
	go s.monitor(sub)

	return sub.id, nil
}

// Unsubscribe removes a subscription and releases its liveness monitor.
func (s *Store) Unsubscribe(id string) error {
	s.mu.Lock()
	sub, ok := s.subs[id]
	if ok {
		s.removeLocked(id)
	}
	s.mu.Unlock()

	if !ok {
		return ErrSubscriptionNotFound
	}
	close(sub.stop)
	return nil
}

// monitor is the liveness link: one goroutine per subscription waiting
// for the recipient to terminate. It fires at most once.
func (s *Store) monitor(sub *subscription) {
	select {
	case <-sub.recipient.Done():
		s.mu.Lock()
		s.removeLocked(sub.id)
		s.mu.Unlock()
		s.logger.Debug("subscription removed, recipient terminated",
			slog.String("subscription", sub.id))
	case <-sub.stop:
	}
}

// removeLocked drops a subscription record. Caller holds s.mu.
func (s *Store) removeLocked(id string) {
	if _, ok := s.subs[id]; !ok {
		return
	}
	delete(s.subs, id)
	for i, sid := range s.subOrder {
		if sid == id {
			s.subOrder = append(s.subOrder[:i], s.subOrder[i+1:]...)
			break
		}
	}
}

// notifyLocked re-evaluates every live subscription against the current
// state and collects deliveries for those whose value changed, compared
// structurally against the last delivered value. Caller holds s.mu;
// deliveries happen after the lock is released.
func (s *Store) notifyLocked() []delivery {
	snap := s.snapshotLocked()
	var pending []delivery
	for _, id := range s.subOrder {
		sub := s.subs[id]
		val, ok := s.evalSelector(sub, snap)
		if !ok {
			continue
		}
		if reflect.DeepEqual(val, sub.lastValue) {
			continue
		}
		sub.lastValue = val
		pending = append(pending, delivery{
			recipient: sub.recipient,
			label:     sub.label,
			value:     val,
		})
	}
	return pending
}

// evalSelector evaluates one subscription's selector with panic
// isolation. A failing selector affects only its own subscription.
func (s *Store) evalSelector(sub *subscription, snap State) (val any, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("selector panicked",
				slog.String("subscription", sub.id),
				slog.String("label", sub.label),
				slog.Any("panic", r))
			val, ok = nil, false
		}
	}()

	return sub.sel.Evaluate(snap), true
}

// deliver sends collected notifications, each isolated from the others.
func (s *Store) deliver(pending []delivery) {
	for _, d := range pending {
		s.deliverOne(d)
	}
}

func (s *Store) deliverOne(d delivery) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("subscription delivery panicked",
				slog.String("label", d.label),
				slog.Any("panic", r))
		}
	}()

	d.recipient.Deliver(d.label, d.value)
	s.stats.notifications.Add(1)
}
