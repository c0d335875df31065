package store

import "log/slog"

// Option configures a Store during construction.
type Option func(*Store)

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock sets the clock driving throttle windows and debounce
// timers. Defaults to the wall clock. Tests substitute a manual clock.
func WithClock(clock Clock) Option {
	return func(s *Store) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithMailbox enables the serialized inbound mailbox with the given
// capacity.
func WithMailbox(size int) Option {
	return func(s *Store) {
		if size > 0 {
			s.mailboxSize = size
		}
	}
}
