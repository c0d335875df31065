package store

import (
	"log/slog"

	"github.com/dshills/statestorm/action"
)

// The mailbox gives a session actor a serialized inbound queue: one
// goroutine drains actions in arrival order, so all state transitions
// for the session happen sequentially. Enable it with WithMailbox.

// Start launches the mailbox loop.
func (s *Store) Start() error {
	if s.actions == nil {
		return ErrMailboxDisabled
	}

	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return ErrAlreadyRunning
	}
	s.running = true
	s.done = make(chan struct{})
	done := s.done
	s.mu.Unlock()

	go s.loop(done)
	return nil
}

// Stop halts the mailbox loop. Actions already drained finish normally;
// queued actions not yet drained are discarded.
func (s *Store) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.done)
	s.mu.Unlock()
}

// Enqueue places an action in the inbound mailbox. It never blocks:
// a full mailbox returns ErrMailboxFull.
func (s *Store) Enqueue(a action.Action) error {
	if s.actions == nil {
		return ErrMailboxDisabled
	}
	if a.Type == "" {
		return ErrEmptyActionType
	}

	s.mu.Lock()
	running := s.running
	s.mu.Unlock()
	if !running {
		return ErrNotRunning
	}

	select {
	case s.actions <- a:
		return nil
	default:
		return ErrMailboxFull
	}
}

// Results returns the channel carrying the outcome of each drained
// synchronous action. Results are dropped, not blocked on, when the
// channel is full. Nil when the mailbox is disabled.
func (s *Store) Results() <-chan Result {
	return s.results
}

// loop drains the mailbox in arrival order. Async-marked actions go
// through the async engine; everything else dispatches synchronously.
func (s *Store) loop(done <-chan struct{}) {
	for {
		select {
		case a := <-s.actions:
			if a.Async() {
				if err := s.DispatchAsync(a); err != nil {
					s.logger.Error("mailbox async dispatch failed",
						slog.String("action", a.Type),
						slog.Any("error", err))
				}
				continue
			}
			res, err := s.Dispatch(a)
			if err != nil {
				s.logger.Error("mailbox dispatch failed",
					slog.String("action", a.Type),
					slog.Any("error", err))
				continue
			}
			select {
			case s.results <- res:
			default:
				// Nobody reading results; don't stall the session.
			}
		case <-done:
			return
		}
	}
}
