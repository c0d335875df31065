package store

import "time"

// Clock abstracts time for the rate limiter so throttle windows and
// debounce timers can be driven deterministically in tests.
type Clock interface {
	Now() time.Time

	// AfterFunc schedules fn to run after d elapses. The returned Timer
	// may be stopped before firing.
	AfterFunc(d time.Duration, fn func()) Timer
}

// Timer is a stoppable pending timer.
type Timer interface {
	// Stop cancels the timer. Returns false if it already fired or was
	// already stopped.
	Stop() bool
}

// realClock is the wall-clock default.
type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

func (realClock) AfterFunc(d time.Duration, fn func()) Timer {
	return realTimer{t: time.AfterFunc(d, fn)}
}

type realTimer struct {
	t *time.Timer
}

func (t realTimer) Stop() bool {
	return t.t.Stop()
}
