package store

import "sync"

// Recipient is the opaque handle a subscription delivers to.
//
// Deliver must be quick and must not call back into the store
// synchronously; it runs on the dispatching goroutine. Done is the
// liveness link: the store removes the subscription when the channel
// closes, which is the sole cleanup mechanism besides Unsubscribe.
type Recipient interface {
	Deliver(label string, value any)
	Done() <-chan struct{}
}

// Notification is one delivered (label, value) pair.
type Notification struct {
	Label string
	Value any
}

// ChanRecipient is a channel-backed Recipient. Deliveries that would
// block are dropped rather than stalling the store.
type ChanRecipient struct {
	ch        chan Notification
	done      chan struct{}
	closeOnce sync.Once
}

// NewChanRecipient creates a recipient buffering up to buf
// notifications.
func NewChanRecipient(buf int) *ChanRecipient {
	if buf <= 0 {
		buf = 1
	}
	return &ChanRecipient{
		ch:   make(chan Notification, buf),
		done: make(chan struct{}),
	}
}

// Deliver implements Recipient.
func (r *ChanRecipient) Deliver(label string, value any) {
	select {
	case r.ch <- Notification{Label: label, Value: value}:
	case <-r.done:
	default:
		// Buffer full: drop rather than block the dispatch path.
	}
}

// Notifications returns the delivery channel.
func (r *ChanRecipient) Notifications() <-chan Notification {
	return r.ch
}

// Done implements Recipient.
func (r *ChanRecipient) Done() <-chan struct{} {
	return r.done
}

// Close terminates the recipient. The store's liveness link fires
// exactly once and removes any subscriptions pointing at it.
func (r *ChanRecipient) Close() {
	r.closeOnce.Do(func() {
		close(r.done)
	})
}
